package models

import (
	"database/sql/driver"
	"errors"
	"fmt"
)

var (
	ErrUnknownTaskStatus   = errors.New("unknown task status")
	ErrUnknownTaskPriority = errors.New("unknown task priority")
)

// TaskStatus is a closed set. The persisted and JSON form is the display
// string returned by String.
type TaskStatus uint8

const (
	TaskStatusTodo TaskStatus = iota + 1
	TaskStatusInProgress
	TaskStatusCompleted
	TaskStatusCancelled
)

var taskStatusNames = map[TaskStatus]string{
	TaskStatusTodo:       "To-do",
	TaskStatusInProgress: "In progress",
	TaskStatusCompleted:  "Completed",
	TaskStatusCancelled:  "Cancelled",
}

// TaskStatuses lists every status in display order.
func TaskStatuses() []TaskStatus {
	return []TaskStatus{TaskStatusTodo, TaskStatusInProgress, TaskStatusCompleted, TaskStatusCancelled}
}

func (s TaskStatus) String() string {
	if name, ok := taskStatusNames[s]; ok {
		return name
	}
	return fmt.Sprintf("TaskStatus(%d)", uint8(s))
}

func (s TaskStatus) Valid() bool {
	_, ok := taskStatusNames[s]
	return ok
}

// ParseTaskStatus maps a display string to its status. Matching is exact.
func ParseTaskStatus(name string) (TaskStatus, error) {
	for status, display := range taskStatusNames {
		if display == name {
			return status, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownTaskStatus, name)
}

func (s TaskStatus) Value() (driver.Value, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownTaskStatus, uint8(s))
	}
	return s.String(), nil
}

func (s *TaskStatus) Scan(src interface{}) error {
	name, err := scanString(src)
	if err != nil {
		return fmt.Errorf("scan task status: %w", err)
	}
	parsed, err := ParseTaskStatus(name)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

func (s TaskStatus) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownTaskStatus, uint8(s))
	}
	return []byte(s.String()), nil
}

func (s *TaskStatus) UnmarshalText(text []byte) error {
	parsed, err := ParseTaskStatus(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// TaskPriority is a closed set persisted as its display string.
type TaskPriority uint8

const (
	TaskPriorityLow TaskPriority = iota + 1
	TaskPriorityMedium
	TaskPriorityHigh
)

var taskPriorityNames = map[TaskPriority]string{
	TaskPriorityLow:    "Low",
	TaskPriorityMedium: "Medium",
	TaskPriorityHigh:   "High",
}

func TaskPriorities() []TaskPriority {
	return []TaskPriority{TaskPriorityLow, TaskPriorityMedium, TaskPriorityHigh}
}

func (p TaskPriority) String() string {
	if name, ok := taskPriorityNames[p]; ok {
		return name
	}
	return fmt.Sprintf("TaskPriority(%d)", uint8(p))
}

func (p TaskPriority) Valid() bool {
	_, ok := taskPriorityNames[p]
	return ok
}

func ParseTaskPriority(name string) (TaskPriority, error) {
	for priority, display := range taskPriorityNames {
		if display == name {
			return priority, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownTaskPriority, name)
}

func (p TaskPriority) Value() (driver.Value, error) {
	if !p.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownTaskPriority, uint8(p))
	}
	return p.String(), nil
}

func (p *TaskPriority) Scan(src interface{}) error {
	name, err := scanString(src)
	if err != nil {
		return fmt.Errorf("scan task priority: %w", err)
	}
	parsed, err := ParseTaskPriority(name)
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

func (p TaskPriority) MarshalText() ([]byte, error) {
	if !p.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownTaskPriority, uint8(p))
	}
	return []byte(p.String()), nil
}

func (p *TaskPriority) UnmarshalText(text []byte) error {
	parsed, err := ParseTaskPriority(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

func scanString(src interface{}) (string, error) {
	switch v := src.(type) {
	case string:
		return v, nil
	case []byte:
		return string(v), nil
	default:
		return "", fmt.Errorf("unsupported type %T", src)
	}
}
