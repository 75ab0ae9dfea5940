package rest

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/dmitrijs2005/todokeeper/internal/logging"
	"github.com/dmitrijs2005/todokeeper/internal/server/auth"
	"github.com/dmitrijs2005/todokeeper/internal/server/models"
	"github.com/dmitrijs2005/todokeeper/internal/server/services"
)

const testUserID = "a0000000-0000-0000-0000-000000000001"

// fakeGuard accepts "Bearer good".
type fakeGuard struct{}

func (fakeGuard) Authenticate(r *http.Request) *auth.Identity {
	if r.Header.Get("Authorization") == "Bearer good" {
		return &auth.Identity{UserID: testUserID, Email: "a@x.com"}
	}
	return nil
}

type fakeAccounts struct {
	signupIn  services.SignupInput
	signupErr error
	loginErr  error
}

func (f *fakeAccounts) Signup(ctx context.Context, in services.SignupInput) (*services.AuthResult, error) {
	f.signupIn = in
	if f.signupErr != nil {
		return nil, f.signupErr
	}
	return &services.AuthResult{Token: "tok", User: &models.User{ID: "u1", Email: in.Email, FirstName: in.FirstName, LastName: in.LastName, PasswordHash: "secret-hash"}}, nil
}

func (f *fakeAccounts) Login(ctx context.Context, email, password string) (*services.AuthResult, error) {
	if f.loginErr != nil {
		return nil, f.loginErr
	}
	return &services.AuthResult{Token: "tok", User: &models.User{ID: "u1", Email: email, PasswordHash: "secret-hash"}}, nil
}

type fakeTodos struct {
	calls     int
	userID    string
	todos     []*models.Todo
	created   services.TodoInput
	patch     services.TodoPatch
	changes   []models.OrderChange
	err       error
	reordered []*models.Todo
}

func (f *fakeTodos) List(ctx context.Context, userID string) ([]*models.Todo, error) {
	f.calls++
	f.userID = userID
	return f.todos, f.err
}

func (f *fakeTodos) Create(ctx context.Context, userID string, in services.TodoInput) (*models.Todo, error) {
	f.calls++
	f.userID = userID
	f.created = in
	if f.err != nil {
		return nil, f.err
	}
	return &models.Todo{ID: "t1", UserID: userID, Title: in.Title, Priority: models.PriorityLow, Order: 1}, nil
}

func (f *fakeTodos) Get(ctx context.Context, userID, id string) (*models.Todo, error) {
	f.calls++
	f.userID = userID
	if f.err != nil {
		return nil, f.err
	}
	return &models.Todo{ID: id, UserID: userID, Title: "t"}, nil
}

func (f *fakeTodos) Update(ctx context.Context, userID, id string, p services.TodoPatch) (*models.Todo, error) {
	f.calls++
	f.userID = userID
	f.patch = p
	if f.err != nil {
		return nil, f.err
	}
	return &models.Todo{ID: id, UserID: userID, Title: "updated"}, nil
}

func (f *fakeTodos) Delete(ctx context.Context, userID, id string) error {
	f.calls++
	f.userID = userID
	return f.err
}

func (f *fakeTodos) Reorder(ctx context.Context, userID string, changes []models.OrderChange) ([]*models.Todo, error) {
	f.calls++
	f.userID = userID
	f.changes = changes
	if f.err != nil {
		return nil, f.err
	}
	return f.reordered, nil
}

type fakeProfiles struct {
	user     *models.User
	upd      models.ProfileUpdate
	filename string
	data     []byte
	err      error
}

func (f *fakeProfiles) Get(ctx context.Context, userID string) (*services.Profile, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &services.Profile{User: f.user, PictureURL: "https://blobs/p.png"}, nil
}

func (f *fakeProfiles) Update(ctx context.Context, userID string, upd models.ProfileUpdate) (*services.Profile, error) {
	f.upd = upd
	if f.err != nil {
		return nil, f.err
	}
	return &services.Profile{User: f.user}, nil
}

func (f *fakeProfiles) UploadPicture(ctx context.Context, userID, filename string, body io.ReadSeeker, size int64) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.filename = filename
	data, err := io.ReadAll(body)
	if err != nil {
		return "", err
	}
	if int64(len(data)) != size {
		return "", errors.New("size mismatch")
	}
	f.data = data
	return "https://blobs/" + filename, nil
}

type fakePinger struct{ err error }

func (p fakePinger) PingContext(ctx context.Context) error { return p.err }

type testDeps struct {
	accounts *fakeAccounts
	todos    *fakeTodos
	profiles *fakeProfiles
	pinger   fakePinger
}

func newTestServer(d *testDeps) *Server {
	if d.accounts == nil {
		d.accounts = &fakeAccounts{}
	}
	if d.todos == nil {
		d.todos = &fakeTodos{}
	}
	if d.profiles == nil {
		d.profiles = &fakeProfiles{user: &models.User{ID: testUserID, Email: "a@x.com", PasswordHash: "secret-hash", ProfilePicture: "users/key"}}
	}
	opts := Options{Address: ":0", TrustedOrigins: []string{"http://localhost:3000"}, MaxPictureBytes: 1 << 20}
	return NewServer(opts, logging.Nop(), fakeGuard{}, d.accounts, d.todos, d.profiles, d.pinger)
}

