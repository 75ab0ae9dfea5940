package models

import (
	"math"
	"time"
)

type Priority string

const (
	PriorityExtreme  Priority = "Extreme"
	PriorityModerate Priority = "Moderate"
	PriorityLow      Priority = "Low"
)

// Valid reports whether p is one of the known priorities.
func (p Priority) Valid() bool {
	switch p {
	case PriorityExtreme, PriorityModerate, PriorityLow:
		return true
	}
	return false
}

// DueDateLayout is the wire and storage layout of Todo.DueDate.
const DueDateLayout = "2006-01-02"

// Order values are stored as a 32-bit integer. MaxOrder keeps room for the
// position handed to the next created todo.
const (
	MinOrder = math.MinInt32
	MaxOrder = math.MaxInt32 - 1
)

// ValidOrder reports whether o can be stored as a display position.
func ValidOrder(o int) bool {
	return o >= MinOrder && o <= MaxOrder
}

// Todo is a task owned by exactly one user. Order is a per-user display
// position, not unique.
type Todo struct {
	ID          string
	UserID      string
	Title       string
	Description string
	DueDate     time.Time
	Priority    Priority
	Order       int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TodoUpdate carries the fields supplied by an update request; nil fields
// are left untouched.
type TodoUpdate struct {
	Title       *string
	Description *string
	DueDate     *time.Time
	Priority    *Priority
	Order       *int
}

// OrderChange is one element of a reorder batch.
type OrderChange struct {
	ID    string
	Order int
}
