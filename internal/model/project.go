package model

import "time"

type Project struct {
	ID          int64      `json:"id"`
	Name        string     `json:"name"`
	Description *string    `json:"description"`
	TeamID      int64      `json:"team_id"`
	DeskID      int64      `json:"desk_id"`
	OwnerID     int64      `json:"owner_id"`
	CreatedAt   *time.Time `json:"created_at,omitempty"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty"`
}

// ProjectCreate is the payload for creating a project. The backing desk and
// its default sections are provisioned implicitly.
type ProjectCreate struct {
	Name        string  `json:"name" validate:"required"`
	Description *string `json:"description"`
	TeamID      int64   `json:"team_id" validate:"required"`
}
