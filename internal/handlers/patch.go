package handlers

import (
	"bytes"
	"encoding/json"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/maoucrm/crm/internal/models"
)

// patchBody keeps the raw JSON of a PATCH request so that an absent key
// ("leave as is") can be told apart from an explicit null ("clear").
type patchBody map[string]json.RawMessage

func bindPatch(c *gin.Context) (patchBody, error) {
	var body patchBody
	if err := c.ShouldBindJSON(&body); err != nil {
		return nil, err
	}
	return body, nil
}

func (p patchBody) isNull(key string) bool {
	raw, ok := p[key]
	return ok && bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

// String returns nil when the key is absent.
func (p patchBody) String(key string) (*string, error) {
	raw, ok := p[key]
	if !ok {
		return nil, nil
	}
	var v string
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, &fieldError{field: key, reason: "must be a string"}
	}
	return &v, nil
}

// Time returns clear=true for an explicit null.
func (p patchBody) Time(key string) (value *time.Time, clear bool, err error) {
	if _, ok := p[key]; !ok {
		return nil, false, nil
	}
	if p.isNull(key) {
		return nil, true, nil
	}
	s, err := p.String(key)
	if err != nil {
		return nil, false, err
	}
	t, err := parseTime(key, *s)
	if err != nil {
		return nil, false, err
	}
	return t, false, nil
}

// ID returns clear=true for an explicit null.
func (p patchBody) ID(key string) (value *uint64, clear bool, err error) {
	raw, ok := p[key]
	if !ok {
		return nil, false, nil
	}
	if p.isNull(key) {
		return nil, true, nil
	}
	var id uint64
	if err := json.Unmarshal(raw, &id); err != nil || id == 0 {
		return nil, false, &fieldError{field: key, reason: "must be a positive integer"}
	}
	return &id, false, nil
}

func (p patchBody) Status(key string) (*models.TaskStatus, error) {
	s, err := p.String(key)
	if err != nil || s == nil {
		return nil, err
	}
	return parseStatus(key, *s)
}

func (p patchBody) Priority(key string) (*models.TaskPriority, error) {
	s, err := p.String(key)
	if err != nil || s == nil {
		return nil, err
	}
	return parsePriority(key, *s)
}

func parseTime(field, raw string) (*time.Time, error) {
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, &fieldError{field: field, reason: "must be an RFC 3339 timestamp"}
	}
	return &t, nil
}

func parseStatus(field, raw string) (*models.TaskStatus, error) {
	status, err := models.ParseTaskStatus(raw)
	if err != nil {
		return nil, &fieldError{field: field, reason: err.Error()}
	}
	return &status, nil
}

func parsePriority(field, raw string) (*models.TaskPriority, error) {
	priority, err := models.ParseTaskPriority(raw)
	if err != nil {
		return nil, &fieldError{field: field, reason: err.Error()}
	}
	return &priority, nil
}

func parseIDQuery(c *gin.Context, key string) (*uint64, error) {
	raw, ok := c.GetQuery(key)
	if !ok || raw == "" {
		return nil, nil
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return nil, &fieldError{field: key, reason: "must be a positive integer"}
	}
	return &id, nil
}
