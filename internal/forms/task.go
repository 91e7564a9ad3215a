package forms

import (
	"strings"
	"time"

	"github.com/eylercore/tracker/internal/models"
	"github.com/google/uuid"
)

type TaskInput struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Status      string   `json:"status"`
	Priority    string   `json:"priority"`
	DueDate     string   `json:"due_date"`    // "2006-01-02", empty for none
	AssignedTo  string   `json:"assigned_to"` // user id, empty for unassigned
	Tags        []string `json:"tags"`        // tag ids
}

// TaskContext carries the scoping a task validator needs: the owning
// project (tasks never move between projects, so the result always gets its
// id), the users the project owner may assign to, and the full tag set.
type TaskContext struct {
	Project    *models.Project
	Assignable []*models.User
	Tags       []*models.Tag
}

// ValidateTask returns a task ready for persistence, or field errors. An
// assignee or tag outside the allowed sets is rejected, never dropped.
func ValidateTask(in TaskInput, existing *models.Task, tc TaskContext) (*models.Task, Errors) {
	errs := Errors{}

	title := strings.TrimSpace(in.Title)
	if title == "" {
		errs.Add("title", "title is required")
	} else if len(title) > maxNameLen {
		errs.Add("title", "title must be at most 100 characters")
	}
	if len(in.Description) > maxDescriptionLen {
		errs.Add("description", "description must be at most 1000 characters")
	}

	// A blank enum field on an edit keeps the stored value; the built-in
	// defaults only apply when there is no stored task yet.
	statusIn := strings.TrimSpace(in.Status)
	if statusIn == "" && existing != nil {
		statusIn = string(existing.Status)
	}
	status, ok := models.ParseStatus(statusIn)
	if !ok {
		errs.Add("status", "status must be one of: todo, in_progress, review, done")
	}
	priorityIn := strings.TrimSpace(in.Priority)
	if priorityIn == "" && existing != nil {
		priorityIn = string(existing.Priority)
	}
	priority, ok := models.ParsePriority(priorityIn)
	if !ok {
		errs.Add("priority", "priority must be one of: low, medium, high, urgent")
	}

	var due *time.Time
	if s := strings.TrimSpace(in.DueDate); s != "" {
		d, err := time.Parse("2006-01-02", s)
		if err != nil {
			errs.Add("due_date", "due date must be in YYYY-MM-DD format")
		} else {
			due = &d
		}
	}

	var assignee *uuid.UUID
	if s := strings.TrimSpace(in.AssignedTo); s != "" {
		id, err := uuid.Parse(s)
		if err != nil || !containsUser(tc.Assignable, id) {
			errs.Add("assigned_to", "not a valid choice for this project")
		} else {
			assignee = &id
		}
	}

	tags := make([]*models.Tag, 0, len(in.Tags))
	for _, raw := range in.Tags {
		id, err := uuid.Parse(strings.TrimSpace(raw))
		var tag *models.Tag
		if err == nil {
			tag = findTag(tc.Tags, id)
		}
		if tag == nil {
			errs.Add("tags", "not a valid tag choice")
			continue
		}
		tags = append(tags, tag)
	}

	if errs.Any() {
		return nil, errs
	}

	now := time.Now().UTC()
	if existing == nil {
		return &models.Task{
			ID:          uuid.New(),
			ProjectID:   tc.Project.ID,
			Title:       title,
			Description: in.Description,
			Status:      status,
			Priority:    priority,
			DueDate:     due,
			AssignedTo:  assignee,
			Tags:        tags,
			CreatedAt:   now,
			UpdatedAt:   now,
		}, nil
	}
	task := *existing
	task.ProjectID = tc.Project.ID
	task.Title = title
	task.Description = in.Description
	task.Status = status
	task.Priority = priority
	task.DueDate = due
	task.AssignedTo = assignee
	task.Tags = tags
	task.UpdatedAt = now
	return &task, nil
}

func containsUser(users []*models.User, id uuid.UUID) bool {
	for _, u := range users {
		if u.ID == id {
			return true
		}
	}
	return false
}

func findTag(tags []*models.Tag, id uuid.UUID) *models.Tag {
	for _, t := range tags {
		if t.ID == id {
			return t
		}
	}
	return nil
}
