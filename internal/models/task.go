package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type TaskStatus string

const (
	StatusTodo       TaskStatus = "todo"
	StatusInProgress TaskStatus = "in_progress"
	StatusReview     TaskStatus = "review"
	StatusDone       TaskStatus = "done"
)

// Statuses lists the valid task statuses in workflow order.
func Statuses() []TaskStatus {
	return []TaskStatus{StatusTodo, StatusInProgress, StatusReview, StatusDone}
}

// ParseStatus normalizes user input to a status value.
// Returns false for anything outside the enum.
func ParseStatus(s string) (TaskStatus, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "todo", "to_do", "to-do":
		return StatusTodo, true
	case "in_progress", "in-progress", "inprogress", "in progress":
		return StatusInProgress, true
	case "review":
		return StatusReview, true
	case "done":
		return StatusDone, true
	default:
		return "", false
	}
}

type TaskPriority string

const (
	PriorityLow    TaskPriority = "low"
	PriorityMedium TaskPriority = "medium"
	PriorityHigh   TaskPriority = "high"
	PriorityUrgent TaskPriority = "urgent"
)

func Priorities() []TaskPriority {
	return []TaskPriority{PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent}
}

func ParsePriority(s string) (TaskPriority, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "medium":
		return PriorityMedium, true
	case "low":
		return PriorityLow, true
	case "high":
		return PriorityHigh, true
	case "urgent":
		return PriorityUrgent, true
	default:
		return "", false
	}
}

type Task struct {
	ID          uuid.UUID    `json:"id"`
	ProjectID   uuid.UUID    `json:"project_id"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Status      TaskStatus   `json:"status"`
	Priority    TaskPriority `json:"priority"`
	DueDate     *time.Time   `json:"due_date"`
	AssignedTo  *uuid.UUID   `json:"assigned_to"`
	Tags        []*Tag       `json:"tags"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}
