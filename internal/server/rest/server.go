// Package rest exposes the todokeeper services over HTTP/JSON.
package rest

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/dmitrijs2005/todokeeper/internal/logging"
	"github.com/dmitrijs2005/todokeeper/internal/server/auth"
	"github.com/dmitrijs2005/todokeeper/internal/server/models"
	"github.com/dmitrijs2005/todokeeper/internal/server/services"
)

const shutdownTimeout = 10 * time.Second

// AccountService registers and logs in users.
type AccountService interface {
	Signup(ctx context.Context, in services.SignupInput) (*services.AuthResult, error)
	Login(ctx context.Context, email, password string) (*services.AuthResult, error)
}

// TodoService manages the caller's todos.
type TodoService interface {
	List(ctx context.Context, userID string) ([]*models.Todo, error)
	Create(ctx context.Context, userID string, in services.TodoInput) (*models.Todo, error)
	Get(ctx context.Context, userID, id string) (*models.Todo, error)
	Update(ctx context.Context, userID, id string, p services.TodoPatch) (*models.Todo, error)
	Delete(ctx context.Context, userID, id string) error
	Reorder(ctx context.Context, userID string, changes []models.OrderChange) ([]*models.Todo, error)
}

// ProfileService reads and edits the caller's profile.
type ProfileService interface {
	Get(ctx context.Context, userID string) (*services.Profile, error)
	Update(ctx context.Context, userID string, upd models.ProfileUpdate) (*services.Profile, error)
	UploadPicture(ctx context.Context, userID, filename string, body io.ReadSeeker, size int64) (string, error)
}

// Authenticator resolves the caller of a request; nil means unauthenticated.
type Authenticator interface {
	Authenticate(r *http.Request) *auth.Identity
}

// Pinger reports database reachability.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Options carries the HTTP-level settings of a Server.
type Options struct {
	Address         string
	TrustedOrigins  []string
	MaxPictureBytes int64
}

type Server struct {
	opts     Options
	logger   logging.Logger
	guard    Authenticator
	accounts AccountService
	todos    TodoService
	profiles ProfileService
	db       Pinger
}

func NewServer(opts Options, l logging.Logger, guard Authenticator, as AccountService, ts TodoService, ps ProfileService, db Pinger) *Server {
	return &Server{
		opts:     opts,
		logger:   l.With("module", "rest_server"),
		guard:    guard,
		accounts: as,
		todos:    ts,
		profiles: ps,
		db:       db,
	}
}

// Run serves HTTP until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.opts.Address,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       time.Minute,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info(ctx, "Starting HTTP server", "address", s.opts.Address)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info(ctx, "Stopping HTTP server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}
