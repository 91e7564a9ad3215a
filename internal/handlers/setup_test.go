package handlers

import (
	"context"
	"database/sql"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/eylercore/tracker/internal/db"
	"github.com/eylercore/tracker/internal/models"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	_ "github.com/mattn/go-sqlite3"
	"golang.org/x/crypto/bcrypt"
)

const testPassword = "correct-horse"

func setupHTTP(t *testing.T) (*Handler, *mux.Router, *sql.DB) {
	t.Helper()

	dbx, err := sql.Open("sqlite3", "file::memory:?_foreign_keys=on")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	dbx.SetMaxOpenConns(1)
	if err := db.EnsureSchema(context.Background(), dbx); err != nil {
		t.Fatalf("create schema: %v", err)
	}
	t.Cleanup(func() { dbx.Close() })

	h := &Handler{
		Users:       db.NewUserRepository(dbx),
		Projects:    db.NewProjectRepository(dbx),
		Tasks:       db.NewTaskRepository(dbx),
		Tags:        db.NewTagRepository(dbx),
		Sessions:    NewSessionManager(strings.Repeat("a", 32), time.Hour),
		RateLimiter: NewRateLimiter(100, time.Minute),
		Hub:         NewHub(),
	}
	return h, h.Router(), dbx
}

func createUser(t *testing.T, h *Handler, email string) *models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	now := time.Now().UTC()
	user := &models.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := h.Users.Create(context.Background(), user); err != nil {
		t.Fatalf("create user: %v", err)
	}
	return user
}

func sessionFor(t *testing.T, h *Handler, userID uuid.UUID) *http.Cookie {
	t.Helper()
	rec := httptest.NewRecorder()
	if err := h.Sessions.Issue(rec, userID); err != nil {
		t.Fatalf("issue session: %v", err)
	}
	cookies := rec.Result().Cookies()
	if len(cookies) == 0 {
		t.Fatal("no session cookie issued")
	}
	return cookies[0]
}

func doGet(t *testing.T, router *mux.Router, cookie *http.Cookie, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func doPost(t *testing.T, router *mux.Router, cookie *http.Cookie, path string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func wantRedirect(t *testing.T, rec *httptest.ResponseRecorder, location string) {
	t.Helper()
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d: %s", rec.Code, rec.Body.String())
	}
	if got := rec.Header().Get("Location"); got != location {
		t.Fatalf("expected redirect to %q, got %q", location, got)
	}
}

// singleProject fetches the only project the user owns.
func singleProject(t *testing.T, h *Handler, ownerID uuid.UUID) *models.Project {
	t.Helper()
	projects, err := h.Projects.ListByOwner(context.Background(), ownerID)
	if err != nil {
		t.Fatalf("list projects: %v", err)
	}
	if len(projects) != 1 {
		t.Fatalf("expected exactly 1 project, got %d", len(projects))
	}
	return projects[0]
}

func singleTag(t *testing.T, h *Handler) *models.Tag {
	t.Helper()
	tags, err := h.Tags.List(context.Background())
	if err != nil {
		t.Fatalf("list tags: %v", err)
	}
	if len(tags) != 1 {
		t.Fatalf("expected exactly 1 tag, got %d", len(tags))
	}
	return tags[0]
}

func projectTasks(t *testing.T, h *Handler, projectID uuid.UUID) []*models.Task {
	t.Helper()
	tasks, err := h.Tasks.ListByProject(context.Background(), projectID)
	if err != nil {
		t.Fatalf("list tasks: %v", err)
	}
	return tasks
}
