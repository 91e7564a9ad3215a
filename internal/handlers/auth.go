package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"regexp"
	"time"

	"github.com/eylercore/tracker/internal/db"
	"github.com/eylercore/tracker/internal/forms"
	"github.com/eylercore/tracker/internal/models"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var emailRe = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

type credentialsInput struct {
	Email    string `json:"email"`
	Password string `json:"-"`
}

func validateCredentials(in credentialsInput) forms.Errors {
	errs := forms.Errors{}
	if !emailRe.MatchString(in.Email) {
		errs.Add("email", "enter a valid email address")
	}
	if len(in.Password) < 8 {
		errs.Add("password", "password must be at least 8 characters")
	}
	return errs
}

// Signup creates an account and logs the new user straight in.
func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodGet {
		sendJSON(w, http.StatusOK, map[string]any{
			"values": credentialsInput{},
		})
		return
	}

	if !h.RateLimiter.Allow(clientIP(r)) {
		log.Printf("signup rate limit exceeded for %s", clientIP(r))
		sendError(w, "too many attempts, try again later", http.StatusTooManyRequests)
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1MB
	if err := r.ParseForm(); err != nil {
		sendError(w, "malformed form body", http.StatusBadRequest)
		return
	}
	in := credentialsInput{
		Email:    r.PostFormValue("email"),
		Password: r.PostFormValue("password"),
	}
	if errs := validateCredentials(in); errs.Any() {
		sendFormErrors(w, in, errs)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("hash password: %v", err)
		sendError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	now := time.Now().UTC()
	user := &models.User{
		ID:           uuid.New(),
		Email:        in.Email,
		PasswordHash: string(hash),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()
	if err := h.Users.Create(ctx, user); err != nil {
		if db.IsUniqueViolation(err) {
			errs := forms.Errors{}
			errs.Add("email", "an account with this email already exists")
			sendFormErrors(w, in, errs)
			return
		}
		sendRepoError(w, err, "user")
		return
	}

	if err := h.Sessions.Issue(w, user.ID); err != nil {
		log.Printf("issue session: %v", err)
		sendError(w, "internal server error", http.StatusInternalServerError)
		return
	}
	log.Printf("user registered: %s", user.Email)
	seeOther(w, r, "/projects/")
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodGet {
		sendJSON(w, http.StatusOK, map[string]any{
			"values": credentialsInput{},
		})
		return
	}

	if !h.RateLimiter.Allow(clientIP(r)) {
		log.Printf("login rate limit exceeded for %s", clientIP(r))
		sendError(w, "too many attempts, try again later", http.StatusTooManyRequests)
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1MB
	if err := r.ParseForm(); err != nil {
		sendError(w, "malformed form body", http.StatusBadRequest)
		return
	}
	in := credentialsInput{
		Email:    r.PostFormValue("email"),
		Password: r.PostFormValue("password"),
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()
	user, err := h.Users.GetByEmail(ctx, in.Email)
	if err != nil && !errors.Is(err, db.ErrNotFound) {
		sendRepoError(w, err, "user")
		return
	}
	if err != nil ||
		bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)) != nil {
		errs := forms.Errors{}
		errs.Add("credentials", "invalid email or password")
		sendFormErrors(w, in, errs)
		return
	}

	if err := h.Sessions.Issue(w, user.ID); err != nil {
		log.Printf("issue session: %v", err)
		sendError(w, "internal server error", http.StatusInternalServerError)
		return
	}
	log.Printf("user logged in: %s", user.Email)
	seeOther(w, r, "/projects/")
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	h.Sessions.Clear(w)
	seeOther(w, r, "/login/")
}
