// Copyright (c) 2026 Taskora. All rights reserved.
// Author: minh.lequang.dn@gmail.com

package todo

import (
	"context"
	"log/slog"
	"time"

	"github.com/lequangminh/taskora/internal/platform/apperr"
	"github.com/lequangminh/taskora/internal/platform/ctxutil"
	"github.com/lequangminh/taskora/internal/platform/validate"
	"github.com/lequangminh/taskora/pkg/uuid"
)

// Service implements the todo use cases, enforcing ownership on every operation.
type Service struct {
	todoRepository TodoRepository
}

// NewService constructs a todo [Service].
func NewService(repo TodoRepository) *Service {
	return &Service{todoRepository: repo}
}

// # Inputs

// CreateInput holds the data required to create a new todo.
type CreateInput struct {
	Title       string
	Description string
	DueDate     *time.Time
	Priority    Priority
}

// UpdateInput is a partial patch of a todo's mutable fields.
//
// Nil pointers mean "leave unchanged". A patch with every field nil is
// rejected as a validation error.
type UpdateInput struct {
	Title       *string
	Description *string
	DueDate     *time.Time
	Priority    *Priority
	Completed   *bool
}

// isEmpty reports whether the patch changes nothing.
func (input UpdateInput) isEmpty() bool {
	return input.Title == nil &&
		input.Description == nil &&
		input.DueDate == nil &&
		input.Priority == nil &&
		input.Completed == nil
}

// # Operations

/*
List returns a page of the owner's todos and the total count.

Parameters:
  - context: context.Context
  - ownerID: string (authenticated account)
  - limit, offset: int

Returns:
  - []*Todo: The owner's todos, newest first
  - int: Total count for pagination
  - error: Storage errors
*/
func (service *Service) List(context context.Context, ownerID string, limit, offset int) ([]*Todo, int, error) {
	return service.todoRepository.ListByOwner(context, ownerID, limit, offset)
}

/*
Get returns a single todo owned by the caller.

Description: A todo belonging to another account is reported as NotFound,
not Forbidden, so that IDs cannot be probed for existence.

Returns:
  - *Todo: Hydrated entity
  - error: apperr.NotFound for missing or foreign todos
*/
func (service *Service) Get(context context.Context, ownerID, todoID string) (*Todo, error) {
	todo, err := service.todoRepository.FindByID(context, todoID)
	if err != nil {
		return nil, err
	}

	if todo.UserID != ownerID {
		return nil, apperr.NotFound("Todo")
	}

	return todo, nil
}

/*
Create validates and persists a new todo for the owner.

Description: Title is mandatory (1-100 characters), description capped at
500, a due date must not already be in the past, and an omitted priority
defaults to medium.

Returns:
  - *Todo: Created entity
  - error: Validation or storage errors
*/
func (service *Service) Create(context context.Context, ownerID string, input CreateInput) (*Todo, error) {
	if input.Priority == "" {
		input.Priority = PriorityMedium
	}

	validator := &validate.Validator{}
	validator.Required(FieldTitle, input.Title).
		MaxLen(FieldTitle, input.Title, TitleMaxLength).
		MaxLen(FieldDescription, input.Description, DescriptionMaxLength).
		Custom(FieldPriority, !input.Priority.IsValid(), "Must be one of: low, medium, high")

	if input.DueDate != nil {
		validator.NotPast(FieldDueDate, *input.DueDate)
	}

	if err := validator.Err(); err != nil {
		return nil, err
	}

	todo := &Todo{
		ID:          uuid.New(),
		UserID:      ownerID,
		Title:       input.Title,
		Description: input.Description,
		DueDate:     input.DueDate,
		Priority:    input.Priority,
		Completed:   false,
	}

	if err := service.todoRepository.Create(context, todo); err != nil {
		return nil, err
	}

	ctxutil.GetLogger(context).InfoContext(context, "todo_created",
		slog.String("todo_id", todo.ID),
		slog.String("user_id", ownerID),
	)

	return todo, nil
}

/*
Update applies a partial patch to a todo.

Description: An empty patch is a 400. A patch against another account's todo
is a 403: unlike Get, the caller has already demonstrated knowledge of the
ID, so there is nothing left to hide.

Returns:
  - *Todo: Updated entity
  - error: Validation, Forbidden, NotFound, or storage errors
*/
func (service *Service) Update(context context.Context, ownerID, todoID string, input UpdateInput) (*Todo, error) {
	if input.isEmpty() {
		return nil, apperr.ValidationError("Update requires at least one field")
	}

	todo, err := service.todoRepository.FindByID(context, todoID)
	if err != nil {
		return nil, err
	}

	if todo.UserID != ownerID {
		return nil, apperr.Forbidden("You do not have access to this todo")
	}

	// Apply the patch before validating, so the rules see the final state.
	if input.Title != nil {
		todo.Title = *input.Title
	}
	if input.Description != nil {
		todo.Description = *input.Description
	}
	if input.DueDate != nil {
		todo.DueDate = input.DueDate
	}
	if input.Priority != nil {
		todo.Priority = *input.Priority
	}
	if input.Completed != nil {
		todo.Completed = *input.Completed
	}

	validator := &validate.Validator{}
	validator.Required(FieldTitle, todo.Title).
		MaxLen(FieldTitle, todo.Title, TitleMaxLength).
		MaxLen(FieldDescription, todo.Description, DescriptionMaxLength).
		Custom(FieldPriority, !todo.Priority.IsValid(), "Must be one of: low, medium, high")

	if err := validator.Err(); err != nil {
		return nil, err
	}

	if err := service.todoRepository.Update(context, todo); err != nil {
		return nil, err
	}

	ctxutil.GetLogger(context).InfoContext(context, "todo_updated",
		slog.String("todo_id", todo.ID),
		slog.String("user_id", ownerID),
	)

	return todo, nil
}

/*
Delete soft-deletes a todo owned by the caller.

Description: Foreign todos are reported as NotFound for the same
anti-probing reason as Get.

Returns:
  - error: apperr.NotFound or storage errors
*/
func (service *Service) Delete(context context.Context, ownerID, todoID string) error {
	todo, err := service.todoRepository.FindByID(context, todoID)
	if err != nil {
		return err
	}

	if todo.UserID != ownerID {
		return apperr.NotFound("Todo")
	}

	if err := service.todoRepository.SoftDelete(context, todoID); err != nil {
		return err
	}

	ctxutil.GetLogger(context).WarnContext(context, "todo_deleted",
		slog.String("todo_id", todoID),
		slog.String("user_id", ownerID),
	)

	return nil
}
