package db

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/eylercore/tracker/internal/models"
	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	dbx, err := sql.Open("sqlite3", "file::memory:?_foreign_keys=on")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	// a pooled second connection would get its own empty in-memory DB
	dbx.SetMaxOpenConns(1)
	if err := EnsureSchema(context.Background(), dbx); err != nil {
		t.Fatalf("create schema: %v", err)
	}
	t.Cleanup(func() {
		if err := dbx.Close(); err != nil {
			t.Errorf("close db: %v", err)
		}
	})
	return dbx
}

func insertUser(t *testing.T, dbx *sql.DB, email string) *models.User {
	t.Helper()
	now := time.Now().UTC()
	u := &models.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: "x",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := NewUserRepository(dbx).Create(context.Background(), u); err != nil {
		t.Fatalf("insert user: %v", err)
	}
	return u
}

func insertProject(t *testing.T, dbx *sql.DB, owner uuid.UUID, name string) *models.Project {
	t.Helper()
	now := time.Now().UTC()
	p := &models.Project{
		ID:        uuid.New(),
		OwnerID:   owner,
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := NewProjectRepository(dbx).Create(context.Background(), p); err != nil {
		t.Fatalf("insert project: %v", err)
	}
	return p
}

func insertTag(t *testing.T, dbx *sql.DB, name string) *models.Tag {
	t.Helper()
	tag := &models.Tag{
		ID:        uuid.New(),
		Name:      name,
		Color:     models.DefaultTagColor,
		CreatedAt: time.Now().UTC(),
	}
	if err := NewTagRepository(dbx).Create(context.Background(), tag); err != nil {
		t.Fatalf("insert tag: %v", err)
	}
	return tag
}

func insertTask(t *testing.T, dbx *sql.DB, project uuid.UUID, title string, mutate func(*models.Task)) *models.Task {
	t.Helper()
	now := time.Now().UTC()
	task := &models.Task{
		ID:        uuid.New(),
		ProjectID: project,
		Title:     title,
		Status:    models.StatusTodo,
		Priority:  models.PriorityMedium,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if mutate != nil {
		mutate(task)
	}
	if err := NewTaskRepository(dbx).Create(context.Background(), task); err != nil {
		t.Fatalf("insert task %q: %v", title, err)
	}
	return task
}

func countRows(t *testing.T, dbx *sql.DB, table, where string, args ...any) int {
	t.Helper()
	var n int
	query := `SELECT COUNT(*) FROM ` + table
	if where != "" {
		query += ` WHERE ` + where
	}
	if err := dbx.QueryRow(query, args...).Scan(&n); err != nil {
		t.Fatalf("count %s: %v", table, err)
	}
	return n
}
