package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/eylercore/tracker/internal/db"
	"github.com/eylercore/tracker/internal/forms"
	"github.com/eylercore/tracker/internal/models"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

// Tags are global: any authenticated user may manage them.

func (h *Handler) requestedTag(w http.ResponseWriter, r *http.Request) *models.Tag {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		sendError(w, "tag not found", http.StatusNotFound)
		return nil
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()
	tag, err := h.Tags.GetByID(ctx, id)
	if err != nil {
		sendRepoError(w, err, "tag")
		return nil
	}
	return tag
}

// sameNameTag looks up the stored tag holding the submitted name, for the
// validator's duplicate check. Absence is not an error here.
func (h *Handler) sameNameTag(ctx context.Context, name string) (*models.Tag, error) {
	tag, err := h.Tags.GetByName(ctx, name)
	if errors.Is(err, db.ErrNotFound) {
		return nil, nil
	}
	return tag, err
}

func (h *Handler) ListTags(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()
	tags, err := h.Tags.List(ctx)
	if err != nil {
		sendRepoError(w, err, "tags")
		return
	}
	sendJSON(w, http.StatusOK, map[string]any{"tags": tags})
}

func (h *Handler) AddTag(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodGet {
		sendJSON(w, http.StatusOK, map[string]any{"values": forms.TagInput{}})
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1MB
	if err := r.ParseForm(); err != nil {
		sendError(w, "malformed form body", http.StatusBadRequest)
		return
	}
	in := forms.TagInput{
		Name:  r.PostFormValue("name"),
		Color: r.PostFormValue("color"),
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()
	sameName, err := h.sameNameTag(ctx, in.Name)
	if err != nil {
		sendRepoError(w, err, "tag")
		return
	}
	tag, errs := forms.ValidateTag(in, nil, sameName)
	if errs.Any() {
		sendFormErrors(w, in, errs)
		return
	}

	if err := h.Tags.Create(ctx, tag); err != nil {
		// concurrent create can slip past the lookup; same field error
		if db.IsUniqueViolation(err) {
			errs := forms.Errors{}
			errs.Add("name", "a tag with this name already exists")
			sendFormErrors(w, in, errs)
			return
		}
		sendRepoError(w, err, "tag")
		return
	}
	seeOther(w, r, "/tags/")
}

func (h *Handler) EditTag(w http.ResponseWriter, r *http.Request) {
	tag := h.requestedTag(w, r)
	if tag == nil {
		return
	}
	if r.Method == http.MethodGet {
		sendJSON(w, http.StatusOK, map[string]any{
			"values": forms.TagInput{Name: tag.Name, Color: tag.Color},
		})
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1MB
	if err := r.ParseForm(); err != nil {
		sendError(w, "malformed form body", http.StatusBadRequest)
		return
	}
	in := forms.TagInput{
		Name:  r.PostFormValue("name"),
		Color: r.PostFormValue("color"),
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()
	sameName, err := h.sameNameTag(ctx, in.Name)
	if err != nil {
		sendRepoError(w, err, "tag")
		return
	}
	updated, errs := forms.ValidateTag(in, tag, sameName)
	if errs.Any() {
		sendFormErrors(w, in, errs)
		return
	}

	if err := h.Tags.Update(ctx, updated); err != nil {
		if db.IsUniqueViolation(err) {
			errs := forms.Errors{}
			errs.Add("name", "a tag with this name already exists")
			sendFormErrors(w, in, errs)
			return
		}
		sendRepoError(w, err, "tag")
		return
	}
	seeOther(w, r, "/tags/")
}

// DeleteTag detaches the tag from every task; the tasks stay.
func (h *Handler) DeleteTag(w http.ResponseWriter, r *http.Request) {
	tag := h.requestedTag(w, r)
	if tag == nil {
		return
	}
	if r.Method == http.MethodGet {
		sendJSON(w, http.StatusOK, map[string]any{"tag": tag, "confirm": true})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()
	if err := h.Tags.Delete(ctx, tag.ID); err != nil {
		sendRepoError(w, err, "tag")
		return
	}
	seeOther(w, r, "/tags/")
}
