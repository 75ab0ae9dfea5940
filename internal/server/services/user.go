// Package services contains server-side business logic. This file implements
// UserService, which handles signup and login and issues identity tokens.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/todokeeper/internal/common"
	"github.com/dmitrijs2005/todokeeper/internal/server/auth"
	"github.com/dmitrijs2005/todokeeper/internal/server/config"
	"github.com/dmitrijs2005/todokeeper/internal/server/models"
	"github.com/dmitrijs2005/todokeeper/internal/server/repositories/repomanager"
)

// MinPasswordLength is the shortest password accepted at signup.
const MinPasswordLength = 4

// SignupInput is the registration form.
type SignupInput struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
}

// AuthResult is returned by a successful signup or login.
type AuthResult struct {
	Token string
	User  *models.User
}

// UserService provides account operations:
// - Signup: create a user and issue a token
// - Login: verify credentials and issue a token
type UserService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	tokens      *auth.TokenService
	hasher      *auth.PasswordHasher

	// dummyHash is compared against when the email is unknown so that a
	// failed login costs one bcrypt comparison either way.
	dummyHash string
}

var dummyPassword = "todokeeper-dummy-password"

// NewUserService constructs a UserService using repositories and server config.
func NewUserService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) (*UserService, error) {
	s := &UserService{
		db:          db,
		repomanager: m,
		tokens:      auth.NewTokenService(cfg.SecretKey, cfg.TokenValidityDuration),
		hasher:      auth.NewPasswordHasher(cfg.PasswordCost),
	}
	hash, err := s.hasher.Hash(dummyPassword)
	if err != nil {
		return nil, fmt.Errorf("hash dummy password: %w", err)
	}
	s.dummyHash = hash
	return s, nil
}

// Signup registers a new account. The email is stored lower-cased; a taken
// email yields common.ErrorAlreadyExists from the store's unique index.
func (s *UserService) Signup(ctx context.Context, in SignupInput) (*AuthResult, error) {
	firstName := strings.TrimSpace(in.FirstName)
	lastName := strings.TrimSpace(in.LastName)
	email := normalizeEmail(in.Email)

	if firstName == "" || lastName == "" || email == "" || in.Password == "" {
		return nil, common.NewValidationError("All fields are required")
	}
	if len(in.Password) < MinPasswordLength {
		return nil, common.NewValidationError(fmt.Sprintf("Password must be at least %d characters", MinPasswordLength))
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("%w: hash password: %v", common.ErrorInternal, err)
	}

	repo := s.repomanager.Users(s.db)
	user, err := repo.Create(ctx, &models.User{
		FirstName:    firstName,
		LastName:     lastName,
		Email:        email,
		PasswordHash: hash,
	})
	if err != nil {
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	return s.issue(user)
}

// Login checks the credentials. Unknown email and wrong password both yield
// common.ErrorUnauthorized.
func (s *UserService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, common.NewValidationError("Email and password are required")
	}

	repo := s.repomanager.Users(s.db)
	user, err := repo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			s.hasher.Verify(password, s.dummyHash)
			return nil, common.ErrorUnauthorized
		}
		return nil, fmt.Errorf("%w: get user: %v", common.ErrorInternal, err)
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		return nil, common.ErrorUnauthorized
	}

	return s.issue(user)
}

func (s *UserService) issue(user *models.User) (*AuthResult, error) {
	token, err := s.tokens.Issue(auth.Identity{UserID: user.ID, Email: user.Email})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}
	return &AuthResult{Token: token, User: user}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
