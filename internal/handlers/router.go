package handlers

import (
	"net/http"

	"github.com/gorilla/mux"
)

// Router wires every route. Fixed segments (/add/) are registered before
// the {id} patterns so mux resolves them first.
func (h *Handler) Router() *mux.Router {
	r := mux.NewRouter().StrictSlash(true)

	r.HandleFunc("/signup/", h.Signup).Methods(http.MethodGet, http.MethodPost)
	r.HandleFunc("/login/", h.Login).Methods(http.MethodGet, http.MethodPost)
	r.HandleFunc("/logout/", h.Logout).Methods(http.MethodPost)

	s := r.PathPrefix("/").Subrouter()
	s.Use(h.Sessions.Require)

	s.HandleFunc("/projects/", h.ListProjects).Methods(http.MethodGet)
	s.HandleFunc("/projects/add/", h.AddProject).Methods(http.MethodGet, http.MethodPost)
	s.HandleFunc("/projects/{id}/", h.ProjectDetail).Methods(http.MethodGet)
	s.HandleFunc("/projects/{id}/edit/", h.EditProject).Methods(http.MethodGet, http.MethodPost)
	s.HandleFunc("/projects/{id}/delete/", h.DeleteProject).Methods(http.MethodGet, http.MethodPost)

	s.HandleFunc("/projects/{id}/tasks/", h.ListTasks).Methods(http.MethodGet)
	s.HandleFunc("/projects/{id}/tasks/add/", h.AddTask).Methods(http.MethodGet, http.MethodPost)
	s.HandleFunc("/projects/{id}/tasks/{taskID}/", h.TaskDetail).Methods(http.MethodGet)
	s.HandleFunc("/projects/{id}/tasks/{taskID}/edit/", h.EditTask).Methods(http.MethodGet, http.MethodPost)
	s.HandleFunc("/projects/{id}/tasks/{taskID}/delete/", h.DeleteTask).Methods(http.MethodGet, http.MethodPost)

	s.HandleFunc("/tags/", h.ListTags).Methods(http.MethodGet)
	s.HandleFunc("/tags/add/", h.AddTag).Methods(http.MethodGet, http.MethodPost)
	s.HandleFunc("/tags/{id}/edit/", h.EditTag).Methods(http.MethodGet, http.MethodPost)
	s.HandleFunc("/tags/{id}/delete/", h.DeleteTag).Methods(http.MethodGet, http.MethodPost)

	s.HandleFunc("/ws", h.HandleWebSocket).Methods(http.MethodGet)

	return r
}
