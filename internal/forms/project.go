package forms

import (
	"strings"
	"time"

	"github.com/eylercore/tracker/internal/models"
	"github.com/google/uuid"
)

const (
	maxNameLen        = 100
	maxDescriptionLen = 1000
)

type ProjectInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// ValidateProject returns a project ready for persistence, or field errors.
// With existing set, the result is a copy with name/description replaced;
// owner and created_at never change. The caller sets OwnerID on create.
func ValidateProject(in ProjectInput, existing *models.Project) (*models.Project, Errors) {
	errs := Errors{}

	name := strings.TrimSpace(in.Name)
	if name == "" {
		errs.Add("name", "name is required")
	} else if len(name) > maxNameLen {
		errs.Add("name", "name must be at most 100 characters")
	}
	if len(in.Description) > maxDescriptionLen {
		errs.Add("description", "description must be at most 1000 characters")
	}
	if errs.Any() {
		return nil, errs
	}

	now := time.Now().UTC()
	if existing == nil {
		return &models.Project{
			ID:          uuid.New(),
			Name:        name,
			Description: in.Description,
			CreatedAt:   now,
			UpdatedAt:   now,
		}, nil
	}
	project := *existing
	project.Name = name
	project.Description = in.Description
	project.UpdatedAt = now
	return &project, nil
}
