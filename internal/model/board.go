package model

import "time"

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

type Section struct {
	ID        int64      `json:"id"`
	DeskID    int64      `json:"desk_id"`
	Name      string     `json:"name"`
	Order     int        `json:"order"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

type Ticket struct {
	ID         int64      `json:"id"`
	Name       string     `json:"name"`
	Task       string     `json:"task"`
	Priority   Priority   `json:"priority"`
	Complexity int        `json:"complexity"`
	SectionID  int64      `json:"section_id"`
	CreatedAt  *time.Time `json:"created_at,omitempty"`
	UpdatedAt  *time.Time `json:"updated_at,omitempty"`
}

type SectionCreate struct {
	Name  string `json:"name" validate:"required"`
	Order int    `json:"order" validate:"required"`
}

type SectionUpdate struct {
	Name  *string `json:"name"`
	Order *int    `json:"order"`
}

type TicketCreate struct {
	Name       string   `json:"name" validate:"required"`
	Task       string   `json:"task" validate:"required"`
	Priority   Priority `json:"priority" validate:"omitempty,oneof=low medium high"`
	Complexity int      `json:"complexity" validate:"omitempty,min=1"`
	SectionID  int64    `json:"section_id" validate:"required"`
}

type TicketUpdate struct {
	Name       *string   `json:"name"`
	Task       *string   `json:"task"`
	Priority   *Priority `json:"priority" validate:"omitempty,oneof=low medium high"`
	Complexity *int      `json:"complexity" validate:"omitempty,min=1"`
	SectionID  *int64    `json:"section_id"`
}

// BoardSection is a board column together with its tickets.
type BoardSection struct {
	Section
	Tickets []*Ticket `json:"tickets"`
}

// Board is the nested view of a project's desk: sections in display order,
// each carrying the tickets attached to it.
type Board struct {
	DeskID   int64           `json:"desk_id"`
	DeskName string          `json:"desk_name"`
	Sections []*BoardSection `json:"sections"`
}
