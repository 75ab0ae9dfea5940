package rest

import (
	"encoding/json"
	"net/http"

	"github.com/dmitrijs2005/todokeeper/internal/server/models"
	"github.com/dmitrijs2005/todokeeper/internal/server/services"
)

const msgTodoNotFound = "Todo not found"

func (s *Server) handleListTodos(w http.ResponseWriter, r *http.Request) {
	id := identityFrom(r.Context())

	todos, err := s.todos.List(r.Context(), id.UserID)
	if err != nil {
		s.writeServiceError(r.Context(), w, err, failureMessages{internal: "Failed to fetch todos"})
		return
	}
	writeData(w, newTodoListResponse(todos), "")
}

func (s *Server) handleCreateTodo(w http.ResponseWriter, r *http.Request) {
	id := identityFrom(r.Context())

	var req createTodoRequest
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	todo, err := s.todos.Create(r.Context(), id.UserID, services.TodoInput{
		Title:       req.Title,
		Description: req.Description,
		DueDate:     req.DueDate,
		Priority:    req.Priority,
	})
	if err != nil {
		s.writeServiceError(r.Context(), w, err, failureMessages{internal: "Failed to create todo"})
		return
	}
	writeData(w, newTodoResponse(todo), "Todo created successfully")
}

func (s *Server) handleGetTodo(w http.ResponseWriter, r *http.Request) {
	id := identityFrom(r.Context())

	todo, err := s.todos.Get(r.Context(), id.UserID, r.PathValue("id"))
	if err != nil {
		s.writeServiceError(r.Context(), w, err, failureMessages{notFound: msgTodoNotFound, internal: "Failed to fetch todo"})
		return
	}
	writeData(w, newTodoResponse(todo), "")
}

func (s *Server) handleUpdateTodo(w http.ResponseWriter, r *http.Request) {
	id := identityFrom(r.Context())

	var req updateTodoRequest
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	todo, err := s.todos.Update(r.Context(), id.UserID, r.PathValue("id"), services.TodoPatch{
		Title:       req.Title,
		Description: req.Description,
		DueDate:     req.DueDate,
		Priority:    req.Priority,
		Order:       req.Order,
	})
	if err != nil {
		s.writeServiceError(r.Context(), w, err, failureMessages{notFound: msgTodoNotFound, internal: "Failed to update todo"})
		return
	}
	writeData(w, newTodoResponse(todo), "Todo updated successfully")
}

func (s *Server) handleDeleteTodo(w http.ResponseWriter, r *http.Request) {
	id := identityFrom(r.Context())

	if err := s.todos.Delete(r.Context(), id.UserID, r.PathValue("id")); err != nil {
		s.writeServiceError(r.Context(), w, err, failureMessages{notFound: msgTodoNotFound, internal: "Failed to delete todo"})
		return
	}
	writeData(w, nil, "Todo deleted successfully")
}

// handleReorderTodos applies a batch of order changes. The batch is not
// atomic; after a failure clients should refetch GET /todos.
func (s *Server) handleReorderTodos(w http.ResponseWriter, r *http.Request) {
	id := identityFrom(r.Context())

	var body map[string]json.RawMessage
	if err := readJSON(w, r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	var items []orderChangeRequest
	raw, ok := body["todos"]
	if !ok || json.Unmarshal(raw, &items) != nil || items == nil {
		writeError(w, http.StatusBadRequest, "Invalid todos array")
		return
	}

	changes := make([]models.OrderChange, 0, len(items))
	for _, it := range items {
		changes = append(changes, models.OrderChange{ID: it.ID, Order: it.Order})
	}

	todos, err := s.todos.Reorder(r.Context(), id.UserID, changes)
	if err != nil {
		s.writeServiceError(r.Context(), w, err, failureMessages{internal: "Failed to reorder todos"})
		return
	}
	writeData(w, newTodoListResponse(todos), "Todos reordered successfully")
}
