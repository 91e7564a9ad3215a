package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/eylercore/tracker/internal/forms"
	"github.com/eylercore/tracker/internal/models"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

// requestedProject loads the project named in the path, scoped to the
// requester. A malformed id, an absent project and someone else's project
// all come out as a nil project and a 404 already written to w.
func (h *Handler) requestedProject(w http.ResponseWriter, r *http.Request) *models.Project {
	userID, ok := CurrentUserID(r.Context())
	if !ok {
		seeOther(w, r, "/login/")
		return nil
	}
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		sendError(w, "project not found", http.StatusNotFound)
		return nil
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()
	project, err := h.Projects.GetForOwner(ctx, id, userID)
	if err != nil {
		sendRepoError(w, err, "project")
		return nil
	}
	return project
}

func (h *Handler) ListProjects(w http.ResponseWriter, r *http.Request) {
	userID, ok := CurrentUserID(r.Context())
	if !ok {
		seeOther(w, r, "/login/")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()
	projects, err := h.Projects.ListByOwner(ctx, userID)
	if err != nil {
		sendRepoError(w, err, "projects")
		return
	}
	sendJSON(w, http.StatusOK, map[string]any{"projects": projects})
}

func (h *Handler) ProjectDetail(w http.ResponseWriter, r *http.Request) {
	project := h.requestedProject(w, r)
	if project == nil {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()
	tasks, err := h.Tasks.ListByProject(ctx, project.ID)
	if err != nil {
		sendRepoError(w, err, "tasks")
		return
	}
	sendJSON(w, http.StatusOK, map[string]any{"project": project, "tasks": tasks})
}

func (h *Handler) AddProject(w http.ResponseWriter, r *http.Request) {
	userID, ok := CurrentUserID(r.Context())
	if !ok {
		seeOther(w, r, "/login/")
		return
	}
	if r.Method == http.MethodGet {
		sendJSON(w, http.StatusOK, map[string]any{"values": forms.ProjectInput{}})
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1MB
	if err := r.ParseForm(); err != nil {
		sendError(w, "malformed form body", http.StatusBadRequest)
		return
	}
	in := forms.ProjectInput{
		Name:        r.PostFormValue("name"),
		Description: r.PostFormValue("description"),
	}
	project, errs := forms.ValidateProject(in, nil)
	if errs.Any() {
		sendFormErrors(w, in, errs)
		return
	}
	project.OwnerID = userID

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()
	if err := h.Projects.Create(ctx, project); err != nil {
		sendRepoError(w, err, "project")
		return
	}
	seeOther(w, r, "/projects/")
}

func (h *Handler) EditProject(w http.ResponseWriter, r *http.Request) {
	project := h.requestedProject(w, r)
	if project == nil {
		return
	}
	if r.Method == http.MethodGet {
		sendJSON(w, http.StatusOK, map[string]any{
			"values": forms.ProjectInput{Name: project.Name, Description: project.Description},
		})
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1MB
	if err := r.ParseForm(); err != nil {
		sendError(w, "malformed form body", http.StatusBadRequest)
		return
	}
	in := forms.ProjectInput{
		Name:        r.PostFormValue("name"),
		Description: r.PostFormValue("description"),
	}
	updated, errs := forms.ValidateProject(in, project)
	if errs.Any() {
		sendFormErrors(w, in, errs)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()
	if err := h.Projects.Update(ctx, updated); err != nil {
		sendRepoError(w, err, "project")
		return
	}
	seeOther(w, r, "/projects/"+project.ID.String()+"/")
}

// DeleteProject renders a confirmation on GET; only the POST deletes, and
// it takes the project's tasks with it.
func (h *Handler) DeleteProject(w http.ResponseWriter, r *http.Request) {
	project := h.requestedProject(w, r)
	if project == nil {
		return
	}
	if r.Method == http.MethodGet {
		sendJSON(w, http.StatusOK, map[string]any{"project": project, "confirm": true})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()
	if err := h.Projects.Delete(ctx, project.ID); err != nil {
		sendRepoError(w, err, "project")
		return
	}
	seeOther(w, r, "/projects/")
}
