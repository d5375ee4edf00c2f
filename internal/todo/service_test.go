// Copyright (c) 2026 Taskora. All rights reserved.
// Author: minh.lequang.dn@gmail.com

package todo_test

import (
	"context"
	"net/http"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lequangminh/taskora/internal/platform/apperr"
	"github.com/lequangminh/taskora/internal/todo"
	"github.com/lequangminh/taskora/pkg/pointer"
)

// fakeTodoRepo is an in-memory [todo.TodoRepository] for service tests.
type fakeTodoRepo struct {
	todos map[string]*todo.Todo // keyed by ID
}

func newFakeTodoRepo(todos ...*todo.Todo) *fakeTodoRepo {
	repo := &fakeTodoRepo{todos: make(map[string]*todo.Todo)}
	for _, item := range todos {
		repo.todos[item.ID] = item
	}
	return repo
}

func (repo *fakeTodoRepo) ListByOwner(_ context.Context, ownerID string, limit, offset int) ([]*todo.Todo, int, error) {
	var owned []*todo.Todo
	for _, item := range repo.todos {
		if item.UserID == ownerID && item.DeletedAt == nil {
			owned = append(owned, item)
		}
	}
	sort.Slice(owned, func(i, j int) bool { return owned[i].CreatedAt.After(owned[j].CreatedAt) })

	total := len(owned)
	if offset >= total {
		return nil, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return owned[offset:end], total, nil
}

func (repo *fakeTodoRepo) FindByID(_ context.Context, id string) (*todo.Todo, error) {
	if item, ok := repo.todos[id]; ok && item.DeletedAt == nil {
		return item, nil
	}
	return nil, apperr.NotFound("Todo")
}

func (repo *fakeTodoRepo) Create(_ context.Context, item *todo.Todo) error {
	item.CreatedAt = time.Now()
	item.UpdatedAt = item.CreatedAt
	repo.todos[item.ID] = item
	return nil
}

func (repo *fakeTodoRepo) Update(_ context.Context, item *todo.Todo) error {
	if _, ok := repo.todos[item.ID]; !ok {
		return apperr.NotFound("Todo")
	}
	item.UpdatedAt = time.Now()
	repo.todos[item.ID] = item
	return nil
}

func (repo *fakeTodoRepo) SoftDelete(_ context.Context, id string) error {
	item, ok := repo.todos[id]
	if !ok || item.DeletedAt != nil {
		return apperr.NotFound("Todo")
	}
	now := time.Now()
	item.DeletedAt = &now
	return nil
}

// # Test Fixtures

const (
	aliceID = "0198a1b2-0000-7000-8000-0000000000aa"
	bobID   = "0198a1b2-0000-7000-8000-0000000000bb"
)

func groceriesTodo() *todo.Todo {
	return &todo.Todo{
		ID:        "0198a1b2-0000-7000-8000-000000000101",
		UserID:    aliceID,
		Title:     "Buy groceries",
		Priority:  todo.PriorityMedium,
		CreatedAt: time.Now().Add(-time.Hour),
		UpdatedAt: time.Now().Add(-time.Hour),
	}
}

// # Create

/*
TestService_Create verifies field defaults, validation bounds, and the
past-due-date rejection.
*/
func TestService_Create(t *testing.T) {
	service := todo.NewService(newFakeTodoRepo())

	t.Run("defaults", func(t *testing.T) {
		created, err := service.Create(context.Background(), aliceID, todo.CreateInput{
			Title: "Write report",
		})
		require.NoError(t, err)
		assert.NotEmpty(t, created.ID)
		assert.Equal(t, aliceID, created.UserID)
		assert.Equal(t, todo.PriorityMedium, created.Priority)
		assert.False(t, created.Completed)
		assert.Nil(t, created.DueDate)
	})

	t.Run("future due date is accepted", func(t *testing.T) {
		due := time.Now().Add(24 * time.Hour)
		created, err := service.Create(context.Background(), aliceID, todo.CreateInput{
			Title:    "Renew passport",
			DueDate:  &due,
			Priority: todo.PriorityHigh,
		})
		require.NoError(t, err)
		require.NotNil(t, created.DueDate)
		assert.Equal(t, todo.PriorityHigh, created.Priority)
	})

	rejections := []struct {
		name  string
		input todo.CreateInput
	}{
		{name: "missing title", input: todo.CreateInput{}},
		{name: "title too long", input: todo.CreateInput{Title: strings101()}},
		{name: "past due date", input: todo.CreateInput{Title: "ok", DueDate: pointer.To(time.Now().Add(-time.Hour))}},
		{name: "unknown priority", input: todo.CreateInput{Title: "ok", Priority: "urgent"}},
	}

	for _, testCase := range rejections {
		t.Run(testCase.name, func(t *testing.T) {
			_, err := service.Create(context.Background(), aliceID, testCase.input)
			ae := apperr.As(err)
			require.NotNil(t, ae)
			assert.Equal(t, "VALIDATION_ERROR", ae.Code)
		})
	}
}

// strings101 builds a title one character over the limit.
func strings101() string {
	runes := make([]byte, todo.TitleMaxLength+1)
	for i := range runes {
		runes[i] = 'a'
	}
	return string(runes)
}

// # Ownership Scoping

/*
TestService_Get verifies that foreign and missing todos are indistinguishable.
*/
func TestService_Get(t *testing.T) {
	groceries := groceriesTodo()
	service := todo.NewService(newFakeTodoRepo(groceries))

	t.Run("owner reads own todo", func(t *testing.T) {
		found, err := service.Get(context.Background(), aliceID, groceries.ID)
		require.NoError(t, err)
		assert.Equal(t, "Buy groceries", found.Title)
	})

	t.Run("foreign todo reads as not found", func(t *testing.T) {
		_, err := service.Get(context.Background(), bobID, groceries.ID)
		ae := apperr.As(err)
		require.NotNil(t, ae)
		assert.Equal(t, http.StatusNotFound, ae.HTTPStatus)
	})

	t.Run("missing todo", func(t *testing.T) {
		_, err := service.Get(context.Background(), aliceID, "0198a1b2-0000-7000-8000-0000000000ff")
		ae := apperr.As(err)
		require.NotNil(t, ae)
		assert.Equal(t, http.StatusNotFound, ae.HTTPStatus)
	})
}

/*
TestService_Update covers the patch semantics: partial application, the
empty-patch rejection, and the 403 for foreign todos.
*/
func TestService_Update(t *testing.T) {
	t.Run("partial patch leaves other fields alone", func(t *testing.T) {
		groceries := groceriesTodo()
		service := todo.NewService(newFakeTodoRepo(groceries))

		updated, err := service.Update(context.Background(), aliceID, groceries.ID, todo.UpdateInput{
			Completed: pointer.To(true),
		})
		require.NoError(t, err)
		assert.True(t, updated.Completed)
		assert.Equal(t, "Buy groceries", updated.Title)
		assert.Equal(t, todo.PriorityMedium, updated.Priority)
	})

	t.Run("empty patch is a validation error", func(t *testing.T) {
		groceries := groceriesTodo()
		service := todo.NewService(newFakeTodoRepo(groceries))

		_, err := service.Update(context.Background(), aliceID, groceries.ID, todo.UpdateInput{})
		ae := apperr.As(err)
		require.NotNil(t, ae)
		assert.Equal(t, http.StatusBadRequest, ae.HTTPStatus)
	})

	t.Run("foreign todo is forbidden", func(t *testing.T) {
		groceries := groceriesTodo()
		service := todo.NewService(newFakeTodoRepo(groceries))

		_, err := service.Update(context.Background(), bobID, groceries.ID, todo.UpdateInput{
			Completed: pointer.To(true),
		})
		ae := apperr.As(err)
		require.NotNil(t, ae)
		assert.Equal(t, http.StatusForbidden, ae.HTTPStatus)
	})

	t.Run("patch cannot blank the title", func(t *testing.T) {
		groceries := groceriesTodo()
		service := todo.NewService(newFakeTodoRepo(groceries))

		_, err := service.Update(context.Background(), aliceID, groceries.ID, todo.UpdateInput{
			Title: pointer.To(""),
		})
		ae := apperr.As(err)
		require.NotNil(t, ae)
		assert.Equal(t, "VALIDATION_ERROR", ae.Code)
	})
}

/*
TestService_Delete verifies the soft delete and its ownership scoping.
*/
func TestService_Delete(t *testing.T) {
	groceries := groceriesTodo()
	repo := newFakeTodoRepo(groceries)
	service := todo.NewService(repo)

	t.Run("foreign todo deletes as not found", func(t *testing.T) {
		err := service.Delete(context.Background(), bobID, groceries.ID)
		ae := apperr.As(err)
		require.NotNil(t, ae)
		assert.Equal(t, http.StatusNotFound, ae.HTTPStatus)
	})

	t.Run("owner deletes own todo", func(t *testing.T) {
		require.NoError(t, service.Delete(context.Background(), aliceID, groceries.ID))

		// The todo is gone from subsequent reads
		_, err := service.Get(context.Background(), aliceID, groceries.ID)
		assert.NotNil(t, apperr.As(err))
	})
}

// # Listing

/*
TestService_List verifies owner scoping and pagination counts.
*/
func TestService_List(t *testing.T) {
	repo := newFakeTodoRepo()
	service := todo.NewService(repo)

	for i := 0; i < 3; i++ {
		_, err := service.Create(context.Background(), aliceID, todo.CreateInput{Title: "alice task"})
		require.NoError(t, err)
	}
	_, err := service.Create(context.Background(), bobID, todo.CreateInput{Title: "bob task"})
	require.NoError(t, err)

	todos, total, err := service.List(context.Background(), aliceID, 2, 0)
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	assert.Len(t, todos, 2)
	for _, item := range todos {
		assert.Equal(t, aliceID, item.UserID)
	}
}
