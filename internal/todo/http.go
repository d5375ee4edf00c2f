// Copyright (c) 2026 Taskora. All rights reserved.
// Author: minh.lequang.dn@gmail.com

package todo

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/lequangminh/taskora/internal/platform/middleware"
	requestutil "github.com/lequangminh/taskora/internal/platform/request"
	"github.com/lequangminh/taskora/internal/platform/respond"
	"github.com/lequangminh/taskora/pkg/pagination"
)

// Handler implements the todo HTTP endpoints.
type Handler struct {
	todoService *Service
}

// NewHandler constructs a new [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{todoService: service}
}

// Routes returns a [chi.Router] with the todo endpoints.
//
// # Endpoints
//   - GET    /     : Lists the caller's todos (paginated).
//   - POST   /     : Creates a todo.
//   - GET    /{id} : Returns one todo.
//   - PATCH  /{id} : Partially updates a todo.
//   - DELETE /{id} : Soft-deletes a todo.
//
// Every route requires an authenticated session.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Use(middleware.RequireAuth)

	router.Get("/", handler.list)
	router.Post("/", handler.create)
	router.Get("/{id}", handler.get)
	router.Patch("/{id}", handler.update)
	router.Delete("/{id}", handler.delete)

	return router
}

// # Request Payloads

type createRequest struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	DueDate     *time.Time `json:"due_date"`
	Priority    Priority   `json:"priority"`
}

type updateRequest struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	DueDate     *time.Time `json:"due_date"`
	Priority    *Priority  `json:"priority"`
	Completed   *bool      `json:"completed"`
}

/*
List returns the caller's todos, newest first.

GET /api/v1/todos?page=1&limit=20

Response:
  - 200: Paginated todo list
  - 401: Authentication required
*/
func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	ownerID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	paginationParams := pagination.FromRequest(request)

	todos, total, err := handler.todoService.List(request.Context(), ownerID, paginationParams.Limit, paginationParams.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, todos, pagination.NewMeta(paginationParams.Page, paginationParams.Limit, total))
}

/*
Get returns a single todo owned by the caller.

GET /api/v1/todos/{id}

Response:
  - 200: Todo
  - 404: Missing or foreign todo
*/
func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	ownerID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	todo, err := handler.todoService.Get(request.Context(), ownerID, requestutil.ID(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, todo)
}

/*
Create adds a new todo for the caller.

POST /api/v1/todos

Request:
  - Body: createRequest (Title, Description, DueDate, Priority)

Response:
  - 201: Created todo
  - 400: Validation failure (empty title, past due date, bad priority)
*/
func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	ownerID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input createRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	todo, err := handler.todoService.Create(request.Context(), ownerID, CreateInput{
		Title:       input.Title,
		Description: input.Description,
		DueDate:     input.DueDate,
		Priority:    input.Priority,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, todo)
}

/*
Update applies a partial patch to a todo.

PATCH /api/v1/todos/{id}

Request:
  - Body: updateRequest (all fields optional; omitted fields are unchanged)

Response:
  - 200: Updated todo
  - 400: Empty patch or validation failure
  - 403: Todo belongs to another account
  - 404: Todo does not exist
*/
func (handler *Handler) update(writer http.ResponseWriter, request *http.Request) {
	ownerID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input updateRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	todo, err := handler.todoService.Update(request.Context(), ownerID, requestutil.ID(request, "id"), UpdateInput{
		Title:       input.Title,
		Description: input.Description,
		DueDate:     input.DueDate,
		Priority:    input.Priority,
		Completed:   input.Completed,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, todo)
}

/*
Delete soft-deletes a todo owned by the caller.

DELETE /api/v1/todos/{id}

Response:
  - 204: Deleted
  - 404: Missing or foreign todo
*/
func (handler *Handler) delete(writer http.ResponseWriter, request *http.Request) {
	ownerID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.todoService.Delete(request.Context(), ownerID, requestutil.ID(request, "id")); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}
