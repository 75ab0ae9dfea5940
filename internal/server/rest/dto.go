package rest

import (
	"time"

	"github.com/dmitrijs2005/todokeeper/internal/server/models"
	"github.com/dmitrijs2005/todokeeper/internal/server/services"
)

type userResponse struct {
	ID             string `json:"id"`
	FirstName      string `json:"firstName"`
	LastName       string `json:"lastName"`
	Email          string `json:"email"`
	ContactNumber  string `json:"contactNumber"`
	Address        string `json:"address"`
	Birthday       string `json:"birthday"`
	ProfilePicture string `json:"profilePicture"`
}

// newUserResponse never carries the password hash. pictureURL replaces the
// stored object key.
func newUserResponse(u *models.User, pictureURL string) userResponse {
	return userResponse{
		ID:             u.ID,
		FirstName:      u.FirstName,
		LastName:       u.LastName,
		Email:          u.Email,
		ContactNumber:  u.ContactNumber,
		Address:        u.Address,
		Birthday:       u.Birthday,
		ProfilePicture: pictureURL,
	}
}

func newProfileResponse(p *services.Profile) userResponse {
	return newUserResponse(p.User, p.PictureURL)
}

type authResponse struct {
	Token string       `json:"token"`
	User  userResponse `json:"user"`
}

type todoResponse struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	DueDate     string    `json:"dueDate"`
	Priority    string    `json:"priority"`
	Order       int       `json:"order"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func newTodoResponse(t *models.Todo) todoResponse {
	return todoResponse{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		DueDate:     t.DueDate.Format(models.DueDateLayout),
		Priority:    string(t.Priority),
		Order:       t.Order,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

func newTodoListResponse(todos []*models.Todo) []todoResponse {
	out := make([]todoResponse, 0, len(todos))
	for _, t := range todos {
		out = append(out, newTodoResponse(t))
	}
	return out
}

type signupRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type createTodoRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	DueDate     string `json:"dueDate"`
	Priority    string `json:"priority"`
}

// updateTodoRequest has no owner or id fields; such keys are dropped.
type updateTodoRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	DueDate     *string `json:"dueDate"`
	Priority    *string `json:"priority"`
	Order       *int    `json:"order"`
}

type orderChangeRequest struct {
	ID    string `json:"id"`
	Order int    `json:"order"`
}

// updateProfileRequest has no email or password fields; such keys are dropped.
type updateProfileRequest struct {
	FirstName     *string `json:"firstName"`
	LastName      *string `json:"lastName"`
	ContactNumber *string `json:"contactNumber"`
	Address       *string `json:"address"`
	Birthday      *string `json:"birthday"`
}
