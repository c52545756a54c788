package services

import (
	"testing"
	"time"

	"github.com/maoucrm/crm/internal/models"
	"github.com/maoucrm/crm/internal/repository"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"
)

type TaskServiceTestSuite struct {
	suite.Suite
	db       *gorm.DB
	now      time.Time
	service  *TaskService
	contacts *ContactService
	owner    *models.User
	other    *models.User
}

func (suite *TaskServiceTestSuite) SetupTest() {
	suite.db = setupTestDB(suite.T())
	suite.now = time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)

	userRepo := repository.NewUserRepository(suite.db)
	contactRepo := repository.NewContactRepository(suite.db)
	suite.service = NewTaskService(repository.NewTaskRepository(suite.db), contactRepo, userRepo)
	suite.service.now = fixedClock(&suite.now)
	suite.contacts = NewContactService(contactRepo, userRepo)

	suite.owner = createTestUser(suite.T(), suite.db, "admin")
	suite.other = createTestUser(suite.T(), suite.db, "other")
}

func (suite *TaskServiceTestSuite) countTasks() int64 {
	var count int64
	suite.Require().NoError(suite.db.Model(&models.Task{}).Count(&count).Error)
	return count
}

func (suite *TaskServiceTestSuite) TestCreateTask_Defaults() {
	task, err := suite.service.CreateTask(suite.owner.ID, CreateTaskInput{Title: "Follow up"})
	suite.Require().NoError(err)

	suite.Equal(models.TaskStatusTodo, task.Status)
	suite.Equal(models.TaskPriorityMedium, task.Priority)
	suite.Equal(suite.owner.ID, task.AssignedToID)
	suite.Nil(task.CompletedAt)
	suite.Nil(task.ContactID)
}

func (suite *TaskServiceTestSuite) TestCreateTask_Validation() {
	tests := []struct {
		name  string
		input CreateTaskInput
		field string
	}{
		{"missing title", CreateTaskInput{Title: "  "}, "title"},
		{"status out of range", CreateTaskInput{Title: "x", Status: models.TaskStatus(99)}, "status"},
		{"priority out of range", CreateTaskInput{Title: "x", Priority: models.TaskPriority(42)}, "priority"},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			_, err := suite.service.CreateTask(suite.owner.ID, tt.input)

			var verr *ValidationError
			suite.Require().ErrorAs(err, &verr)
			suite.Equal(tt.field, verr.Field)
		})
	}

	suite.Zero(suite.countTasks())
}

func (suite *TaskServiceTestSuite) TestCreateTask_UnknownAssignee() {
	_, err := suite.service.CreateTask(9999, CreateTaskInput{Title: "Orphan"})

	var verr *ValidationError
	suite.Require().ErrorAs(err, &verr)
	suite.Equal("assigned_to_id", verr.Field)
}

func (suite *TaskServiceTestSuite) TestCreateTask_ContactMustBelongToAssignee() {
	theirs, err := suite.contacts.CreateContact(suite.other.ID, ContactInput{FirstName: "Cy", LastName: "Diaz"})
	suite.Require().NoError(err)

	_, err = suite.service.CreateTask(suite.owner.ID, CreateTaskInput{Title: "Call", ContactID: &theirs.ID})

	var verr *ValidationError
	suite.Require().ErrorAs(err, &verr)
	suite.Equal("contact_id", verr.Field)
	suite.Zero(suite.countTasks())
}

func (suite *TaskServiceTestSuite) TestCreateTask_LoadsContact() {
	contact, err := suite.contacts.CreateContact(suite.owner.ID, ContactInput{FirstName: "Ann", LastName: "Lee"})
	suite.Require().NoError(err)

	task, err := suite.service.CreateTask(suite.owner.ID, CreateTaskInput{Title: "Call Ann", ContactID: &contact.ID})
	suite.Require().NoError(err)

	suite.Require().NotNil(task.Contact)
	suite.Equal("Ann Lee", task.Contact.FullName())
}

func (suite *TaskServiceTestSuite) TestRoundTrip() {
	due := suite.now.Add(48 * time.Hour)
	task, err := suite.service.CreateTask(suite.owner.ID, CreateTaskInput{
		Title:    "Draft proposal",
		Priority: models.TaskPriorityHigh,
		DueDate:  &due,
	})
	suite.Require().NoError(err)

	got, err := suite.service.GetTask(suite.owner.ID, task.ID)
	suite.Require().NoError(err)
	suite.Equal("Draft proposal", got.Title)
	suite.Equal(models.TaskPriorityHigh, got.Priority)
	suite.Require().NotNil(got.DueDate)
	suite.True(due.Equal(*got.DueDate))

	status := models.TaskStatusInProgress
	title := "Draft final proposal"
	_, err = suite.service.UpdateTask(suite.owner.ID, task.ID, UpdateTaskInput{
		Title:        &title,
		Status:       &status,
		ClearDueDate: true,
	})
	suite.Require().NoError(err)

	got, err = suite.service.GetTask(suite.owner.ID, task.ID)
	suite.Require().NoError(err)
	suite.Equal(title, got.Title)
	suite.Equal(models.TaskStatusInProgress, got.Status)
	suite.Nil(got.DueDate)

	suite.Require().NoError(suite.service.DeleteTask(suite.owner.ID, task.ID))
	_, err = suite.service.GetTask(suite.owner.ID, task.ID)
	suite.ErrorIs(err, ErrTaskNotFound)
	suite.ErrorIs(suite.service.DeleteTask(suite.owner.ID, task.ID), ErrTaskNotFound)
}

func (suite *TaskServiceTestSuite) TestUpdateTask_RejectsOutOfRangeStatus() {
	task, err := suite.service.CreateTask(suite.owner.ID, CreateTaskInput{Title: "Stable"})
	suite.Require().NoError(err)

	bad := models.TaskStatus(7)
	_, err = suite.service.UpdateTask(suite.owner.ID, task.ID, UpdateTaskInput{Status: &bad})

	var verr *ValidationError
	suite.Require().ErrorAs(err, &verr)
	suite.Equal("status", verr.Field)

	got, err := suite.service.GetTask(suite.owner.ID, task.ID)
	suite.Require().NoError(err)
	suite.Equal(models.TaskStatusTodo, got.Status)
}

func (suite *TaskServiceTestSuite) TestUpdateTask_CompletionStamp() {
	task, err := suite.service.CreateTask(suite.owner.ID, CreateTaskInput{Title: "Ship it"})
	suite.Require().NoError(err)

	completed := models.TaskStatusCompleted
	updated, err := suite.service.UpdateTask(suite.owner.ID, task.ID, UpdateTaskInput{Status: &completed})
	suite.Require().NoError(err)
	suite.Require().NotNil(updated.CompletedAt)
	stamp := *updated.CompletedAt
	suite.True(suite.now.Equal(stamp))

	// Re-saving a completed task keeps the original stamp.
	suite.now = suite.now.Add(time.Hour)
	desc := "done last week"
	updated, err = suite.service.UpdateTask(suite.owner.ID, task.ID, UpdateTaskInput{Description: &desc, Status: &completed})
	suite.Require().NoError(err)
	suite.Require().NotNil(updated.CompletedAt)
	suite.True(stamp.Equal(*updated.CompletedAt))

	reopened := models.TaskStatusTodo
	updated, err = suite.service.UpdateTask(suite.owner.ID, task.ID, UpdateTaskInput{Status: &reopened})
	suite.Require().NoError(err)
	suite.Nil(updated.CompletedAt)
}

func (suite *TaskServiceTestSuite) TestCreateTask_CompletedIsStamped() {
	task, err := suite.service.CreateTask(suite.owner.ID, CreateTaskInput{Title: "Already done", Status: models.TaskStatusCompleted})
	suite.Require().NoError(err)
	suite.Require().NotNil(task.CompletedAt)
	suite.True(suite.now.Equal(*task.CompletedAt))
}

func (suite *TaskServiceTestSuite) TestUpdateTask_ContactLinks() {
	contact, err := suite.contacts.CreateContact(suite.owner.ID, ContactInput{FirstName: "Bo", LastName: "Kim"})
	suite.Require().NoError(err)
	task, err := suite.service.CreateTask(suite.owner.ID, CreateTaskInput{Title: "Meet Bo"})
	suite.Require().NoError(err)

	updated, err := suite.service.UpdateTask(suite.owner.ID, task.ID, UpdateTaskInput{ContactID: &contact.ID})
	suite.Require().NoError(err)
	suite.Require().NotNil(updated.Contact)
	suite.Equal("Bo Kim", updated.Contact.FullName())

	missing := uint64(9999)
	_, err = suite.service.UpdateTask(suite.owner.ID, task.ID, UpdateTaskInput{ContactID: &missing})
	var verr *ValidationError
	suite.Require().ErrorAs(err, &verr)
	suite.Equal("contact_id", verr.Field)

	updated, err = suite.service.UpdateTask(suite.owner.ID, task.ID, UpdateTaskInput{ClearContact: true})
	suite.Require().NoError(err)
	suite.Nil(updated.ContactID)
}

func (suite *TaskServiceTestSuite) TestOwnershipIsolation() {
	for i, owner := range []*models.User{suite.owner, suite.other, suite.owner, suite.other, suite.other} {
		_, err := suite.service.CreateTask(owner.ID, CreateTaskInput{Title: "task " + string(rune('A'+i))})
		suite.Require().NoError(err)
	}

	tasks, total, err := suite.service.ListTasks(ListTasksInput{AssigneeID: suite.owner.ID})
	suite.Require().NoError(err)
	suite.Equal(int64(2), total)
	for _, task := range tasks {
		suite.Equal(suite.owner.ID, task.AssignedToID)
	}

	theirs, _, err := suite.service.ListTasks(ListTasksInput{AssigneeID: suite.other.ID})
	suite.Require().NoError(err)
	suite.Len(theirs, 3)

	_, err = suite.service.GetTask(suite.owner.ID, theirs[0].ID)
	suite.ErrorIs(err, ErrTaskNotFound)
	title := "hijack"
	_, err = suite.service.UpdateTask(suite.owner.ID, theirs[0].ID, UpdateTaskInput{Title: &title})
	suite.ErrorIs(err, ErrTaskNotFound)
}

func (suite *TaskServiceTestSuite) TestListTasks_Filters() {
	yesterday := suite.now.Add(-24 * time.Hour)
	tomorrow := suite.now.Add(24 * time.Hour)

	_, err := suite.service.CreateTask(suite.owner.ID, CreateTaskInput{Title: "late", DueDate: &yesterday, Priority: models.TaskPriorityHigh})
	suite.Require().NoError(err)
	_, err = suite.service.CreateTask(suite.owner.ID, CreateTaskInput{Title: "late but done", DueDate: &yesterday, Status: models.TaskStatusCompleted})
	suite.Require().NoError(err)
	_, err = suite.service.CreateTask(suite.owner.ID, CreateTaskInput{Title: "upcoming", DueDate: &tomorrow, Priority: models.TaskPriorityLow})
	suite.Require().NoError(err)

	overdue, _, err := suite.service.ListTasks(ListTasksInput{AssigneeID: suite.owner.ID, OverdueOnly: true})
	suite.Require().NoError(err)
	suite.Require().Len(overdue, 1)
	suite.Equal("late", overdue[0].Title)

	high := models.TaskPriorityHigh
	byPriority, _, err := suite.service.ListTasks(ListTasksInput{AssigneeID: suite.owner.ID, Priority: &high})
	suite.Require().NoError(err)
	suite.Require().Len(byPriority, 1)
	suite.Equal("late", byPriority[0].Title)

	done := models.TaskStatusCompleted
	byStatus, _, err := suite.service.ListTasks(ListTasksInput{AssigneeID: suite.owner.ID, Status: &done})
	suite.Require().NoError(err)
	suite.Require().Len(byStatus, 1)
	suite.Equal("late but done", byStatus[0].Title)
}

func (suite *TaskServiceTestSuite) TestDueDatesAreStoredInUTC() {
	tokyo := time.FixedZone("JST", 9*60*60)
	due := time.Date(2024, 5, 10, 20, 0, 0, 0, tokyo)

	task, err := suite.service.CreateTask(suite.owner.ID, CreateTaskInput{Title: "tz", DueDate: &due})
	suite.Require().NoError(err)
	suite.Require().NotNil(task.DueDate)
	suite.True(due.Equal(*task.DueDate))

	// 20:00 JST is 11:00 UTC, an hour before the fixed clock.
	overdue, _, err := suite.service.ListTasks(ListTasksInput{AssigneeID: suite.owner.ID, OverdueOnly: true})
	suite.Require().NoError(err)
	suite.Len(overdue, 1)
}

func TestTaskServiceTestSuite(t *testing.T) {
	suite.Run(t, new(TaskServiceTestSuite))
}
