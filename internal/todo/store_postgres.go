// Copyright (c) 2026 Taskora. All rights reserved.
// Author: minh.lequang.dn@gmail.com

package todo

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lequangminh/taskora/internal/platform/apperr"
	"github.com/lequangminh/taskora/internal/platform/dberr"
)

// # Todo Repository (PostgreSQL)

// PostgresTodoRepository implements the [TodoRepository] interface using pgx.
type PostgresTodoRepository struct {
	pool *pgxpool.Pool
}

// NewTodoRepository creates a new PostgreSQL implementation of the [TodoRepository].
func NewTodoRepository(pool *pgxpool.Pool) *PostgresTodoRepository {
	return &PostgresTodoRepository{pool: pool}
}

const todoColumns = `id, userid, title, description, duedate, priority, completed, createdat, updatedat`

/*
ListByOwner returns a page of the owner's todos, newest first.

Parameters:
  - context: context.Context
  - ownerID: string
  - limit, offset: int (pre-clamped by pagination.FromRequest)

Returns:
  - []*Todo: Hydrated entities
  - int: Total count of the owner's active todos
  - error: Execution errors
*/
func (repository *PostgresTodoRepository) ListByOwner(context context.Context, ownerID string, limit, offset int) ([]*Todo, int, error) {
	const countQuery = `
		SELECT count(*)
		FROM core.todo
		WHERE userid = $1 AND deletedat IS NULL`

	var total int
	if err := repository.pool.QueryRow(context, countQuery, ownerID).Scan(&total); err != nil {
		return nil, 0, dberr.Wrap(err, "count_todos")
	}

	const query = `
		SELECT ` + todoColumns + `
		FROM core.todo
		WHERE userid = $1 AND deletedat IS NULL
		ORDER BY createdat DESC
		LIMIT $2 OFFSET $3`

	rows, err := repository.pool.Query(context, query, ownerID, limit, offset)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_todos")
	}
	defer rows.Close()

	var todos []*Todo
	for rows.Next() {
		todo := &Todo{}
		if err := scanTodo(rows, todo); err != nil {
			return nil, 0, dberr.Wrap(err, "scan_todo")
		}
		todos = append(todos, todo)
	}

	return todos, total, nil
}

/*
FindByID retrieves a todo by its unique ID.

Returns:
  - *Todo: Hydrated entity
  - error: apperr.NotFound or execution errors
*/
func (repository *PostgresTodoRepository) FindByID(context context.Context, id string) (*Todo, error) {
	const query = `
		SELECT ` + todoColumns + `
		FROM core.todo
		WHERE id = $1 AND deletedat IS NULL`

	todo := &Todo{}
	if err := scanTodo(repository.pool.QueryRow(context, query, id), todo); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Todo")
		}
		return nil, dberr.Wrap(err, "find_todo")
	}

	return todo, nil
}

/*
Create persists a new todo record into the core.todo table.

Parameters:
  - context: context.Context
  - todo: *Todo (Entity to persist; ID must be set)

Returns:
  - error: Execution errors
*/
func (repository *PostgresTodoRepository) Create(context context.Context, todo *Todo) error {
	const query = `
		INSERT INTO core.todo (
			id, userid, title, description, duedate, priority, completed, createdat, updatedat
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	now := time.Now()
	todo.CreatedAt = now
	todo.UpdatedAt = now

	_, err := repository.pool.Exec(context, query,
		todo.ID,
		todo.UserID,
		todo.Title,
		todo.Description,
		todo.DueDate,
		todo.Priority,
		todo.Completed,
		todo.CreatedAt,
		todo.UpdatedAt,
	)
	return dberr.Wrap(err, "create_todo")
}

/*
Update persists changes to an existing todo's mutable fields.

Returns:
  - error: apperr.NotFound if the row is gone, or execution errors
*/
func (repository *PostgresTodoRepository) Update(context context.Context, todo *Todo) error {
	const query = `
		UPDATE core.todo
		SET title = $2, description = $3, duedate = $4, priority = $5, completed = $6, updatedat = $7
		WHERE id = $1 AND deletedat IS NULL`

	todo.UpdatedAt = time.Now()

	tag, err := repository.pool.Exec(context, query,
		todo.ID,
		todo.Title,
		todo.Description,
		todo.DueDate,
		todo.Priority,
		todo.Completed,
		todo.UpdatedAt,
	)
	if err != nil {
		return dberr.Wrap(err, "update_todo")
	}

	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Todo")
	}

	return nil
}

/*
SoftDelete marks a todo as deleted without removing the row.

Returns:
  - error: apperr.NotFound if the row is gone, or execution errors
*/
func (repository *PostgresTodoRepository) SoftDelete(context context.Context, id string) error {
	const query = `
		UPDATE core.todo
		SET deletedat = NOW()
		WHERE id = $1 AND deletedat IS NULL`

	tag, err := repository.pool.Exec(context, query, id)
	if err != nil {
		return dberr.Wrap(err, "delete_todo")
	}

	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Todo")
	}

	return nil
}

// scanTodo hydrates a todo entity from a single row.
func scanTodo(row pgx.Row, todo *Todo) error {
	return row.Scan(
		&todo.ID,
		&todo.UserID,
		&todo.Title,
		&todo.Description,
		&todo.DueDate,
		&todo.Priority,
		&todo.Completed,
		&todo.CreatedAt,
		&todo.UpdatedAt,
	)
}
