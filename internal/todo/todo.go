// Copyright (c) 2026 Taskora. All rights reserved.
// Author: minh.lequang.dn@gmail.com

// Package todo implements the task-management domain: owner-scoped CRUD
// over the todos a user keeps in Taskora.
//
// # Ownership
//
// Every todo belongs to exactly one account. All reads and writes are scoped
// to the authenticated owner; there is no sharing or delegation.
package todo

import "time"

// Priority ranks how urgent a [Todo] is.
type Priority string

const (
	// PriorityLow marks tasks that can wait.
	PriorityLow Priority = "low"
	// PriorityMedium is the default for new tasks.
	PriorityMedium Priority = "medium"
	// PriorityHigh marks tasks that need attention first.
	PriorityHigh Priority = "high"
)

// IsValid reports whether p is a recognised [Priority] value.
func (p Priority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Todo is the central entity of the task-management domain.
type Todo struct {
	ID          string     `json:"id"`
	UserID      string     `json:"user_id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	DueDate     *time.Time `json:"due_date"` // nil = no deadline.
	Priority    Priority   `json:"priority"`
	Completed   bool       `json:"completed"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	DeletedAt   *time.Time `json:"-"` // soft-delete tracker
}

// Validation bounds for todo content.
const (
	TitleMaxLength       = 100
	DescriptionMaxLength = 500
)

// Global field names for validation
const (
	FieldTitle       = "title"
	FieldDescription = "description"
	FieldDueDate     = "due_date"
	FieldPriority    = "priority"
	FieldCompleted   = "completed"
)
