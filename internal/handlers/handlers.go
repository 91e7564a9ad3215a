package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/eylercore/tracker/internal/db"
	"github.com/eylercore/tracker/internal/forms"
)

type Handler struct {
	Users       db.UserRepositoryInterface
	Projects    db.ProjectRepositoryInterface
	Tasks       db.TaskRepositoryInterface
	Tags        db.TagRepositoryInterface
	Sessions    *SessionManager
	RateLimiter *RateLimiter
	Hub         *Hub
}

type errorResponse struct {
	Error string `json:"error"`
}

func sendJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("encode response: %v", err)
	}
}

func sendError(w http.ResponseWriter, msg string, code int) {
	sendJSON(w, code, errorResponse{Error: msg})
}

// sendFormErrors re-renders a submitted form: the values as received plus
// per-field messages. Nothing was persisted.
func sendFormErrors(w http.ResponseWriter, values any, errs forms.Errors) {
	sendJSON(w, http.StatusUnprocessableEntity, map[string]any{
		"values": values,
		"errors": errs,
	})
}

// seeOther is the post-commit terminal state: the client lands on the
// canonical view, so refresh or back-button never replays the mutation.
func seeOther(w http.ResponseWriter, r *http.Request, location string) {
	http.Redirect(w, r, location, http.StatusSeeOther)
}

// sendRepoError translates a repository failure. Absent and not-owned rows
// both come back as db.ErrNotFound and render identically; anything else is
// terminal for the request and never leaks driver detail to the client.
func sendRepoError(w http.ResponseWriter, err error, what string) {
	if errors.Is(err, db.ErrNotFound) {
		sendError(w, what+" not found", http.StatusNotFound)
		return
	}
	log.Printf("%s: repository error: %v", what, err)
	sendError(w, "internal server error", http.StatusInternalServerError)
}
