package models

import (
	"time"

	"github.com/google/uuid"
)

// DefaultTagColor is applied when a tag is created without a color.
const DefaultTagColor = "#6c757d"

type Tag struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Color     string    `json:"color"` // hex color code, e.g. "#7d56f4"
	CreatedAt time.Time `json:"created_at"`
}
