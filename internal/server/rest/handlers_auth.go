package rest

import (
	"net/http"

	"github.com/dmitrijs2005/todokeeper/internal/server/services"
)

func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	res, err := s.accounts.Signup(r.Context(), services.SignupInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Password:  req.Password,
	})
	if err != nil {
		s.writeServiceError(r.Context(), w, err, failureMessages{internal: "Failed to create account. Please try again."})
		return
	}

	s.logger.Info(r.Context(), "user registered", "user_id", res.User.ID)
	writeData(w, authResponse{Token: res.Token, User: newUserResponse(res.User, "")}, "User created successfully")
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	res, err := s.accounts.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		s.writeServiceError(r.Context(), w, err, failureMessages{internal: "Failed to login. Please try again."})
		return
	}

	writeData(w, authResponse{Token: res.Token, User: newUserResponse(res.User, "")}, "Login successful")
}
