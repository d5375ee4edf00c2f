// Copyright (c) 2026 Taskora. All rights reserved.
// Author: minh.lequang.dn@gmail.com

package todo

import "context"

// TodoRepository defines the data access contract for the todo domain.
//
// # Architecture
//
// The interface lives in the domain package because the service layer (the
// consumer) defines what it needs; the Postgres implementation sits alongside.
type TodoRepository interface {
	// ListByOwner returns a page of the owner's todos and the total count.
	//
	// Returns:
	//   - []*Todo: The owner's todos, newest first.
	//   - int: Total count for pagination.
	//   - error: Database or connection errors.
	ListByOwner(ctx context.Context, ownerID string, limit, offset int) ([]*Todo, int, error)

	// FindByID returns the todo with the given ID regardless of owner.
	//
	// It returns apperr.NotFound if the todo is absent or soft-deleted.
	// Ownership checks are the service layer's responsibility.
	FindByID(ctx context.Context, id string) (*Todo, error)

	// Create persists a new todo. The caller sets the ID beforehand.
	Create(ctx context.Context, todo *Todo) error

	// Update persists changes to an existing todo's mutable fields.
	Update(ctx context.Context, todo *Todo) error

	// SoftDelete marks a todo as deleted without removing the row.
	SoftDelete(ctx context.Context, id string) error
}
