package forms

import (
	"testing"
	"time"

	"github.com/eylercore/tracker/internal/models"
	"github.com/google/uuid"
)

func taskTestContext() TaskContext {
	owner := &models.User{ID: uuid.New(), Email: "alice@example.com"}
	return TaskContext{
		Project:    &models.Project{ID: uuid.New(), OwnerID: owner.ID, Name: "Launch"},
		Assignable: []*models.User{owner},
		Tags: []*models.Tag{
			{ID: uuid.New(), Name: "blocker"},
			{ID: uuid.New(), Name: "api"},
		},
	}
}

func TestValidateTask_Defaults(t *testing.T) {
	tc := taskTestContext()
	task, errs := ValidateTask(TaskInput{Title: "Design"}, nil, tc)
	if errs.Any() {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if task.Status != models.StatusTodo {
		t.Errorf("default status: got %s", task.Status)
	}
	if task.Priority != models.PriorityMedium {
		t.Errorf("default priority: got %s", task.Priority)
	}
	if task.DueDate != nil || task.AssignedTo != nil {
		t.Error("due date and assignee default to absent")
	}
	if task.ProjectID != tc.Project.ID {
		t.Error("task must take the context project")
	}
}

func TestValidateTask_EnumAndDateErrors(t *testing.T) {
	tc := taskTestContext()
	cases := []struct {
		name  string
		in    TaskInput
		field string
	}{
		{"missing title", TaskInput{}, "title"},
		{"bad status", TaskInput{Title: "x", Status: "paused"}, "status"},
		{"bad priority", TaskInput{Title: "x", Priority: "asap"}, "priority"},
		{"bad date", TaskInput{Title: "x", DueDate: "01/02/2024"}, "due_date"},
	}
	for _, tcase := range cases {
		t.Run(tcase.name, func(t *testing.T) {
			_, errs := ValidateTask(tcase.in, nil, tc)
			if len(errs[tcase.field]) == 0 {
				t.Errorf("expected error on %q, got %v", tcase.field, errs)
			}
		})
	}
}

func TestValidateTask_AssigneeOutsideProject(t *testing.T) {
	tc := taskTestContext()
	stranger := uuid.New().String()
	_, errs := ValidateTask(TaskInput{Title: "x", AssignedTo: stranger}, nil, tc)
	if len(errs["assigned_to"]) == 0 {
		t.Fatalf("expected assigned_to rejection, got %v", errs)
	}

	task, errs := ValidateTask(TaskInput{Title: "x", AssignedTo: tc.Assignable[0].ID.String()}, nil, tc)
	if errs.Any() {
		t.Fatalf("valid assignee rejected: %v", errs)
	}
	if task.AssignedTo == nil || *task.AssignedTo != tc.Assignable[0].ID {
		t.Error("assignee not applied")
	}
}

func TestValidateTask_UnknownTagRejectedNotDropped(t *testing.T) {
	tc := taskTestContext()
	in := TaskInput{Title: "x", Tags: []string{tc.Tags[0].ID.String(), uuid.New().String()}}
	_, errs := ValidateTask(in, nil, tc)
	if len(errs["tags"]) == 0 {
		t.Fatalf("expected tags rejection, got %v", errs)
	}
}

func TestValidateTask_ParsesDueDateAndTags(t *testing.T) {
	tc := taskTestContext()
	in := TaskInput{
		Title:    "Design",
		Status:   "in_progress",
		Priority: "urgent",
		DueDate:  "2024-02-01",
		Tags:     []string{tc.Tags[0].ID.String()},
	}
	task, errs := ValidateTask(in, nil, tc)
	if errs.Any() {
		t.Fatalf("unexpected errors: %v", errs)
	}
	want := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	if task.DueDate == nil || !task.DueDate.Equal(want) {
		t.Errorf("due date: got %v", task.DueDate)
	}
	if len(task.Tags) != 1 || task.Tags[0].ID != tc.Tags[0].ID {
		t.Errorf("tags: got %+v", task.Tags)
	}
	if task.Status != models.StatusInProgress || task.Priority != models.PriorityUrgent {
		t.Errorf("enum parse: %s/%s", task.Status, task.Priority)
	}
}

func TestValidateTask_EditKeepsProjectAndCreatedAt(t *testing.T) {
	tc := taskTestContext()
	created := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	existing := &models.Task{
		ID:        uuid.New(),
		ProjectID: tc.Project.ID,
		Title:     "Old",
		Status:    models.StatusTodo,
		Priority:  models.PriorityLow,
		CreatedAt: created,
		UpdatedAt: created,
	}
	task, errs := ValidateTask(TaskInput{Title: "New", Status: "done"}, existing, tc)
	if errs.Any() {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if task.ID != existing.ID || task.ProjectID != tc.Project.ID {
		t.Error("id/project must not change on edit")
	}
	if !task.CreatedAt.Equal(created) {
		t.Error("created_at must not change on edit")
	}
}

func TestValidateTask_EditBlankEnumsKeepStoredValues(t *testing.T) {
	tc := taskTestContext()
	existing := &models.Task{
		ID:        uuid.New(),
		ProjectID: tc.Project.ID,
		Title:     "Old",
		Status:    models.StatusInProgress,
		Priority:  models.PriorityUrgent,
	}
	task, errs := ValidateTask(TaskInput{Title: "New"}, existing, tc)
	if errs.Any() {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if task.Status != models.StatusInProgress {
		t.Errorf("blank status reset the stored value: got %s", task.Status)
	}
	if task.Priority != models.PriorityUrgent {
		t.Errorf("blank priority reset the stored value: got %s", task.Priority)
	}
}
