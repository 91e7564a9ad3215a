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

// requestedTask resolves {taskID} within an already-authorized project.
// The task id is only looked up inside that project, so a task from another
// project (or owner) is a plain 404.
func (h *Handler) requestedTask(w http.ResponseWriter, r *http.Request, project *models.Project) *models.Task {
	id, err := uuid.Parse(mux.Vars(r)["taskID"])
	if err != nil {
		sendError(w, "task not found", http.StatusNotFound)
		return nil
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()
	task, err := h.Tasks.GetForProject(ctx, id, project.ID)
	if err != nil {
		sendRepoError(w, err, "task")
		return nil
	}
	return task
}

// taskContext gathers the choice sets the task validator restricts against.
func (h *Handler) taskContext(ctx context.Context, project *models.Project) (forms.TaskContext, error) {
	assignable, err := h.Users.ListAssignableForOwner(ctx, project.OwnerID)
	if err != nil {
		return forms.TaskContext{}, err
	}
	tags, err := h.Tags.List(ctx)
	if err != nil {
		return forms.TaskContext{}, err
	}
	return forms.TaskContext{Project: project, Assignable: assignable, Tags: tags}, nil
}

func taskChoices(tc forms.TaskContext) map[string]any {
	return map[string]any{
		"status":      models.Statuses(),
		"priority":    models.Priorities(),
		"assigned_to": tc.Assignable,
		"tags":        tc.Tags,
	}
}

func taskFormInput(r *http.Request) forms.TaskInput {
	return forms.TaskInput{
		Title:       r.PostFormValue("title"),
		Description: r.PostFormValue("description"),
		Status:      r.PostFormValue("status"),
		Priority:    r.PostFormValue("priority"),
		DueDate:     r.PostFormValue("due_date"),
		AssignedTo:  r.PostFormValue("assigned_to"),
		Tags:        r.PostForm["tags"],
	}
}

func (h *Handler) ListTasks(w http.ResponseWriter, r *http.Request) {
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

func (h *Handler) TaskDetail(w http.ResponseWriter, r *http.Request) {
	project := h.requestedProject(w, r)
	if project == nil {
		return
	}
	task := h.requestedTask(w, r, project)
	if task == nil {
		return
	}
	sendJSON(w, http.StatusOK, map[string]any{"project": project, "task": task})
}

// AddTask always attaches the new task to the path-scoped project; there is
// no project field to post.
func (h *Handler) AddTask(w http.ResponseWriter, r *http.Request) {
	project := h.requestedProject(w, r)
	if project == nil {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()
	tc, err := h.taskContext(ctx, project)
	if err != nil {
		sendRepoError(w, err, "task form")
		return
	}

	if r.Method == http.MethodGet {
		sendJSON(w, http.StatusOK, map[string]any{
			"values":  forms.TaskInput{},
			"choices": taskChoices(tc),
		})
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1MB
	if err := r.ParseForm(); err != nil {
		sendError(w, "malformed form body", http.StatusBadRequest)
		return
	}
	in := taskFormInput(r)
	task, errs := forms.ValidateTask(in, nil, tc)
	if errs.Any() {
		sendFormErrors(w, in, errs)
		return
	}

	if err := h.Tasks.Create(ctx, task); err != nil {
		sendRepoError(w, err, "task")
		return
	}
	h.Hub.BroadcastTaskEvent(project.ID, "task_created", task)
	seeOther(w, r, "/projects/"+project.ID.String()+"/")
}

func (h *Handler) EditTask(w http.ResponseWriter, r *http.Request) {
	project := h.requestedProject(w, r)
	if project == nil {
		return
	}
	task := h.requestedTask(w, r, project)
	if task == nil {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()
	tc, err := h.taskContext(ctx, project)
	if err != nil {
		sendRepoError(w, err, "task form")
		return
	}

	if r.Method == http.MethodGet {
		in := forms.TaskInput{
			Title:       task.Title,
			Description: task.Description,
			Status:      string(task.Status),
			Priority:    string(task.Priority),
		}
		if task.DueDate != nil {
			in.DueDate = task.DueDate.Format("2006-01-02")
		}
		if task.AssignedTo != nil {
			in.AssignedTo = task.AssignedTo.String()
		}
		for _, tag := range task.Tags {
			in.Tags = append(in.Tags, tag.ID.String())
		}
		sendJSON(w, http.StatusOK, map[string]any{
			"values":  in,
			"choices": taskChoices(tc),
		})
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1MB
	if err := r.ParseForm(); err != nil {
		sendError(w, "malformed form body", http.StatusBadRequest)
		return
	}
	in := taskFormInput(r)
	updated, errs := forms.ValidateTask(in, task, tc)
	if errs.Any() {
		sendFormErrors(w, in, errs)
		return
	}

	if err := h.Tasks.Update(ctx, updated); err != nil {
		sendRepoError(w, err, "task")
		return
	}
	h.Hub.BroadcastTaskEvent(project.ID, "task_updated", updated)
	seeOther(w, r, "/projects/"+project.ID.String()+"/tasks/"+task.ID.String()+"/")
}

func (h *Handler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	project := h.requestedProject(w, r)
	if project == nil {
		return
	}
	task := h.requestedTask(w, r, project)
	if task == nil {
		return
	}
	if r.Method == http.MethodGet {
		sendJSON(w, http.StatusOK, map[string]any{"task": task, "confirm": true})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()
	if err := h.Tasks.Delete(ctx, task.ID); err != nil {
		sendRepoError(w, err, "task")
		return
	}
	h.Hub.BroadcastTaskEvent(project.ID, "task_deleted", task)
	seeOther(w, r, "/projects/"+project.ID.String()+"/")
}
