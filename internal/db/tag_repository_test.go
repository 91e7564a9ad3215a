package db

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/eylercore/tracker/internal/models"
	"github.com/google/uuid"
)

func TestTagRepository_CreateListUpdate(t *testing.T) {
	dbx := setupDB(t)
	repo := NewTagRepository(dbx)

	insertTag(t, dbx, "blocker")
	insertTag(t, dbx, "api")

	list, err := repo.List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 2 || list[0].Name != "api" || list[1].Name != "blocker" {
		t.Errorf("expected name-sorted tags, got %+v", list)
	}

	tag := list[1]
	tag.Color = "#ff0000"
	if err := repo.Update(context.Background(), tag); err != nil {
		t.Fatalf("Update: %v", err)
	}
	got, err := repo.GetByID(context.Background(), tag.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Color != "#ff0000" {
		t.Errorf("color not updated: %s", got.Color)
	}
}

func TestTagRepository_DuplicateName_UniqueViolation(t *testing.T) {
	dbx := setupDB(t)
	repo := NewTagRepository(dbx)
	insertTag(t, dbx, "blocker")

	dup := &models.Tag{
		ID:        uuid.New(),
		Name:      "blocker",
		Color:     models.DefaultTagColor,
		CreatedAt: time.Now().UTC(),
	}
	err := repo.Create(context.Background(), dup)
	if err == nil {
		t.Fatal("expected duplicate name to fail")
	}
	if !IsUniqueViolation(err) {
		t.Errorf("IsUniqueViolation = false for %v", err)
	}

	// case differs: allowed
	other := &models.Tag{
		ID:        uuid.New(),
		Name:      "Blocker",
		Color:     models.DefaultTagColor,
		CreatedAt: time.Now().UTC(),
	}
	if err := repo.Create(context.Background(), other); err != nil {
		t.Fatalf("case-differing name should be accepted: %v", err)
	}
}

func TestTagRepository_GetByName(t *testing.T) {
	dbx := setupDB(t)
	repo := NewTagRepository(dbx)
	tag := insertTag(t, dbx, "blocker")

	got, err := repo.GetByName(context.Background(), "blocker")
	if err != nil {
		t.Fatalf("GetByName: %v", err)
	}
	if got.ID != tag.ID {
		t.Errorf("GetByName mismatch: %#v", got)
	}
	if _, err := repo.GetByName(context.Background(), "Blocker"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("lookup is case-sensitive, got %v", err)
	}
}

func TestTagRepository_Delete_DetachesTasks(t *testing.T) {
	dbx := setupDB(t)
	repo := NewTagRepository(dbx)
	owner := insertUser(t, dbx, "alice@example.com")
	p := insertProject(t, dbx, owner.ID, "Launch")
	tag := insertTag(t, dbx, "blocker")
	task := insertTask(t, dbx, p.ID, "Design", func(task *models.Task) {
		task.Tags = []*models.Tag{tag}
	})

	if err := repo.Delete(context.Background(), tag.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	got, err := NewTaskRepository(dbx).GetForProject(context.Background(), task.ID, p.ID)
	if err != nil {
		t.Fatalf("task should survive tag delete: %v", err)
	}
	if len(got.Tags) != 0 {
		t.Errorf("expected task detached from tag, got %+v", got.Tags)
	}
}
