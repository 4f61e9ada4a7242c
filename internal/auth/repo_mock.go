package auth

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
)

// repoMock is an in-memory AdminStore for tests.
type repoMock struct {
	mu     sync.Mutex
	admins map[string]*Admin

	// counts UpdatePassword calls, lets tests assert the store was not touched
	updateCalls int
	// when set, every call fails with it
	err error
}

func NewMockAdminRepo(admins ...*Admin) *repoMock {
	r := &repoMock{
		admins: make(map[string]*Admin),
	}
	for _, a := range admins {
		if a.ID == "" {
			a.ID = uuid.NewString()
		}
		copied := *a
		r.admins[a.ID] = &copied
	}
	return r
}

func (r *repoMock) FindByEmail(_ context.Context, email string) (*Admin, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	for _, a := range r.admins {
		if a.Email == email {
			copied := *a
			return &copied, nil
		}
	}
	return nil, ErrAdminNotFound
}

func (r *repoMock) FindByID(_ context.Context, id string) (*Admin, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	a, ok := r.admins[id]
	if !ok {
		return nil, ErrAdminNotFound
	}
	copied := *a
	return &copied, nil
}

func (r *repoMock) UpdatePassword(_ context.Context, id, passwordHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.updateCalls++
	if r.err != nil {
		return r.err
	}
	if passwordHash == "" {
		return errors.New("password hash empty")
	}
	a, ok := r.admins[id]
	if !ok {
		return ErrAdminNotFound
	}
	a.PasswordHash = passwordHash
	return nil
}

func (r *repoMock) passwordHash(id string) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if a, ok := r.admins[id]; ok {
		return a.PasswordHash
	}
	return ""
}
