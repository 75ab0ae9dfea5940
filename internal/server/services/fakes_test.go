package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/todokeeper/internal/common"
	"github.com/dmitrijs2005/todokeeper/internal/dbx"
	"github.com/dmitrijs2005/todokeeper/internal/server/models"
	todosrepo "github.com/dmitrijs2005/todokeeper/internal/server/repositories/todos"
	usersrepo "github.com/dmitrijs2005/todokeeper/internal/server/repositories/users"
	"github.com/google/uuid"
)

type errBoom struct{}

func (errBoom) Error() string { return "boom" }

// --- helpers ---

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db, mock
}

type fakeRepoManager struct {
	u *fakeUsersRepo
	t *fakeTodosRepo
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *fakeRepoManager) Users(db dbx.DBTX) usersrepo.Repository      { return m.u }
func (m *fakeRepoManager) Todos(db dbx.DBTX) todosrepo.Repository      { return m.t }

// --- users ---

type fakeUsersRepo struct {
	mu    sync.Mutex
	users map[string]*models.User

	createErr error
	getErr    error
	updateErr error
	setPicErr error
}

func newFakeUsersRepo() *fakeUsersRepo {
	return &fakeUsersRepo{users: map[string]*models.User{}}
}

func (f *fakeUsersRepo) Create(ctx context.Context, u *models.User) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return nil, f.createErr
	}
	for _, existing := range f.users {
		if existing.Email == u.Email {
			return nil, common.ErrorAlreadyExists
		}
	}
	cp := *u
	cp.ID = uuid.NewString()
	cp.CreatedAt = time.Now()
	cp.UpdatedAt = cp.CreatedAt
	f.users[cp.ID] = &cp
	out := cp
	return &out, nil
}

func (f *fakeUsersRepo) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	for _, u := range f.users {
		if u.Email == email {
			out := *u
			return &out, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (f *fakeUsersRepo) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	u, ok := f.users[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	out := *u
	return &out, nil
}

func (f *fakeUsersRepo) UpdateProfile(ctx context.Context, id string, upd models.ProfileUpdate) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	u, ok := f.users[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	set := func(dst *string, v *string) {
		if v != nil {
			*dst = *v
		}
	}
	set(&u.FirstName, upd.FirstName)
	set(&u.LastName, upd.LastName)
	set(&u.ContactNumber, upd.ContactNumber)
	set(&u.Address, upd.Address)
	set(&u.Birthday, upd.Birthday)
	u.UpdatedAt = time.Now()
	out := *u
	return &out, nil
}

func (f *fakeUsersRepo) SetProfilePicture(ctx context.Context, id string, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.setPicErr != nil {
		return f.setPicErr
	}
	u, ok := f.users[id]
	if !ok {
		return common.ErrorNotFound
	}
	u.ProfilePicture = key
	return nil
}

func (f *fakeUsersRepo) add(u models.User) *models.User {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	f.users[u.ID] = &u
	return &u
}

// --- todos ---

// fakeTodosRepo is an in-memory todo store honoring owner scoping and the
// (order ASC, created DESC) listing.
type fakeTodosRepo struct {
	mu    sync.Mutex
	todos map[string]*models.Todo
	seq   int

	listErr      error
	nextOrderErr error
	createErr    error
	updateErr    error
	orderErrFor  map[string]error
	orderCalls   int
}

func newFakeTodosRepo() *fakeTodosRepo {
	return &fakeTodosRepo{todos: map[string]*models.Todo{}, orderErrFor: map[string]error{}}
}

// uuidInput fails like a uuid column does for anything but the canonical form.
func uuidInput(id string) error {
	if u, err := uuid.Parse(id); err != nil || u.String() != id {
		return fmt.Errorf("invalid input syntax for type uuid: %q", id)
	}
	return nil
}

func (f *fakeTodosRepo) List(ctx context.Context, userID string) ([]*models.Todo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := []*models.Todo{}
	for _, td := range f.todos {
		if td.UserID == userID {
			cp := *td
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Order != out[j].Order {
			return out[i].Order < out[j].Order
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (f *fakeTodosRepo) NextOrder(ctx context.Context, userID string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.nextOrderErr != nil {
		return 0, f.nextOrderErr
	}
	max := 0
	for _, td := range f.todos {
		if td.UserID == userID && td.Order > max {
			max = td.Order
		}
	}
	return max + 1, nil
}

func (f *fakeTodosRepo) Create(ctx context.Context, td *models.Todo) (*models.Todo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.seq++
	cp := *td
	cp.ID = uuid.NewString()
	cp.CreatedAt = time.Date(2025, 1, 1, 0, 0, f.seq, 0, time.UTC)
	cp.UpdatedAt = cp.CreatedAt
	f.todos[cp.ID] = &cp
	out := cp
	return &out, nil
}

func (f *fakeTodosRepo) Get(ctx context.Context, id, userID string) (*models.Todo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := uuidInput(id); err != nil {
		return nil, err
	}
	td, ok := f.todos[id]
	if !ok || td.UserID != userID {
		return nil, common.ErrorNotFound
	}
	out := *td
	return &out, nil
}

func (f *fakeTodosRepo) Update(ctx context.Context, id, userID string, upd models.TodoUpdate) (*models.Todo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := uuidInput(id); err != nil {
		return nil, err
	}
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	td, ok := f.todos[id]
	if !ok || td.UserID != userID {
		return nil, common.ErrorNotFound
	}
	if upd.Title != nil {
		td.Title = *upd.Title
	}
	if upd.Description != nil {
		td.Description = *upd.Description
	}
	if upd.DueDate != nil {
		td.DueDate = *upd.DueDate
	}
	if upd.Priority != nil {
		td.Priority = *upd.Priority
	}
	if upd.Order != nil {
		td.Order = *upd.Order
	}
	td.UpdatedAt = td.UpdatedAt.Add(time.Second)
	out := *td
	return &out, nil
}

func (f *fakeTodosRepo) Delete(ctx context.Context, id, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := uuidInput(id); err != nil {
		return err
	}
	td, ok := f.todos[id]
	if !ok || td.UserID != userID {
		return common.ErrorNotFound
	}
	delete(f.todos, id)
	return nil
}

func (f *fakeTodosRepo) UpdateOrder(ctx context.Context, id, userID string, order int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.orderCalls++
	if err := uuidInput(id); err != nil {
		return err
	}
	if err := f.orderErrFor[id]; err != nil {
		return err
	}
	td, ok := f.todos[id]
	if !ok || td.UserID != userID {
		return nil
	}
	td.Order = order
	td.UpdatedAt = td.UpdatedAt.Add(time.Second)
	return nil
}

// --- blobs ---

type fakeBlobStore struct {
	mu      sync.Mutex
	objects map[string][]byte
	types   map[string]string
	last    io.ReadSeeker

	putErr     error
	presignErr error
}

func newFakeBlobStore() *fakeBlobStore {
	return &fakeBlobStore{objects: map[string][]byte{}, types: map[string]string{}}
}

func (b *fakeBlobStore) Put(ctx context.Context, key, contentType string, body io.ReadSeeker, size int64) error {
	if b.putErr != nil {
		return b.putErr
	}
	b.last = body
	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	if int64(len(data)) != size {
		return errors.New("size mismatch")
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.objects[key] = data
	b.types[key] = contentType
	return nil
}

func (b *fakeBlobStore) PresignGet(ctx context.Context, key string) (string, error) {
	if b.presignErr != nil {
		return "", b.presignErr
	}
	return fmt.Sprintf("https://blobs.example/%s?signed", key), nil
}
