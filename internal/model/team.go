package model

import "time"

type Team struct {
	ID        int64      `json:"id"`
	Name      string     `json:"name"`
	OwnerID   int64      `json:"owner_id"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}
