package rest

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dmitrijs2005/todokeeper/internal/common"
)

// maxBodyBytes bounds JSON request bodies.
const maxBodyBytes = 1 << 20

// envelope is the shape of every response body.
type envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeData(w http.ResponseWriter, data any, message string) {
	writeJSON(w, http.StatusOK, envelope{Success: true, Data: data, Message: message})
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, envelope{Success: false, Message: message})
}

// readJSON decodes the request body into dst. Unknown fields are ignored.
func readJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return err
	}
	return nil
}

// failureMessages holds the per-operation texts for 404 and 500 answers.
type failureMessages struct {
	notFound string
	internal string
}

// writeServiceError maps a service error onto a status code and a message
// safe to show to the client. The cause of a 500 is only logged.
func (s *Server) writeServiceError(ctx context.Context, w http.ResponseWriter, err error, msgs failureMessages) {
	var verr *common.ValidationError
	switch {
	case errors.As(err, &verr):
		writeError(w, http.StatusBadRequest, verr.Message)
	case errors.Is(err, common.ErrorAlreadyExists):
		writeError(w, http.StatusBadRequest, "User with this email already exists")
	case errors.Is(err, common.ErrorUnauthorized):
		writeError(w, http.StatusUnauthorized, "Invalid email or password")
	case errors.Is(err, common.ErrorNotFound) && msgs.notFound != "":
		writeError(w, http.StatusNotFound, msgs.notFound)
	default:
		s.logger.Error(ctx, msgs.internal, "error", err)
		writeError(w, http.StatusInternalServerError, msgs.internal)
	}
}
