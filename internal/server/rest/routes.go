package rest

import "net/http"

// Handler returns the complete HTTP handler with all routes and middleware.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", s.handleHealth)

	mux.HandleFunc("POST /auth/signup", s.handleSignup)
	mux.HandleFunc("POST /auth/login", s.handleLogin)

	mux.HandleFunc("GET /todos", s.requireAuth(s.handleListTodos))
	mux.HandleFunc("POST /todos", s.requireAuth(s.handleCreateTodo))
	mux.HandleFunc("PATCH /todos/reorder", s.requireAuth(s.handleReorderTodos))
	mux.HandleFunc("GET /todos/{id}", s.requireAuth(s.handleGetTodo))
	mux.HandleFunc("PUT /todos/{id}", s.requireAuth(s.handleUpdateTodo))
	mux.HandleFunc("DELETE /todos/{id}", s.requireAuth(s.handleDeleteTodo))

	mux.HandleFunc("GET /user/profile", s.requireAuth(s.handleGetProfile))
	mux.HandleFunc("PUT /user/profile", s.requireAuth(s.handleUpdateProfile))
	mux.HandleFunc("POST /user/profile/picture", s.requireAuth(s.handleUploadPicture))

	return s.logRequests(s.enableCORS(envelopeRoutingErrors(mux)))
}
