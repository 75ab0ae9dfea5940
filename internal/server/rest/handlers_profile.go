package rest

import (
	"errors"
	"net/http"

	"github.com/dmitrijs2005/todokeeper/internal/server/models"
)

// multipartOverhead is the allowance for multipart framing on top of the
// picture itself.
const multipartOverhead = 64 << 10

const msgUserNotFound = "User not found"

func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	id := identityFrom(r.Context())

	p, err := s.profiles.Get(r.Context(), id.UserID)
	if err != nil {
		s.writeServiceError(r.Context(), w, err, failureMessages{notFound: msgUserNotFound, internal: "Failed to fetch profile"})
		return
	}
	writeData(w, newProfileResponse(p), "")
}

func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	id := identityFrom(r.Context())

	var req updateProfileRequest
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	p, err := s.profiles.Update(r.Context(), id.UserID, models.ProfileUpdate{
		FirstName:     req.FirstName,
		LastName:      req.LastName,
		ContactNumber: req.ContactNumber,
		Address:       req.Address,
		Birthday:      req.Birthday,
	})
	if err != nil {
		s.writeServiceError(r.Context(), w, err, failureMessages{notFound: msgUserNotFound, internal: "Failed to update profile"})
		return
	}
	writeData(w, newProfileResponse(p), "Profile updated successfully")
}

func (s *Server) handleUploadPicture(w http.ResponseWriter, r *http.Request) {
	id := identityFrom(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, s.opts.MaxPictureBytes+multipartOverhead)
	if err := r.ParseMultipartForm(32 << 10); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			writeError(w, http.StatusBadRequest, "File is too large")
			return
		}
		writeError(w, http.StatusBadRequest, "No file provided")
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "No file provided")
		return
	}
	defer file.Close()

	url, err := s.profiles.UploadPicture(r.Context(), id.UserID, header.Filename, file, header.Size)
	if err != nil {
		s.writeServiceError(r.Context(), w, err, failureMessages{notFound: msgUserNotFound, internal: "Failed to upload profile picture"})
		return
	}
	writeData(w, map[string]string{"url": url}, "Profile picture uploaded successfully")
}
