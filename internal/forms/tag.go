package forms

import (
	"regexp"
	"strings"
	"time"

	"github.com/eylercore/tracker/internal/models"
	"github.com/google/uuid"
)

const maxTagNameLen = 50

var colorRe = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

type TagInput struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

// ValidateTag returns a tag ready for persistence, or field errors.
// sameName is the already-stored tag with the submitted name, if any; the
// caller looks it up so duplicates fail on the name field instead of
// surfacing as a constraint fault.
func ValidateTag(in TagInput, existing, sameName *models.Tag) (*models.Tag, Errors) {
	errs := Errors{}

	name := strings.TrimSpace(in.Name)
	if name == "" {
		errs.Add("name", "name is required")
	} else if len(name) > maxTagNameLen {
		errs.Add("name", "name must be at most 50 characters")
	}
	if sameName != nil && (existing == nil || sameName.ID != existing.ID) {
		errs.Add("name", "a tag with this name already exists")
	}

	color := strings.TrimSpace(in.Color)
	if color == "" {
		color = models.DefaultTagColor
	} else if !colorRe.MatchString(color) {
		errs.Add("color", "color must be a hex code like #rrggbb")
	}
	if errs.Any() {
		return nil, errs
	}

	if existing == nil {
		return &models.Tag{
			ID:        uuid.New(),
			Name:      name,
			Color:     color,
			CreatedAt: time.Now().UTC(),
		}, nil
	}
	tag := *existing
	tag.Name = name
	tag.Color = color
	return &tag, nil
}
