package applications

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// repoMock keeps applications in memory, for tests that need a working store.
type repoMock struct {
	mu   sync.Mutex
	apps map[string]*Application
}

func NewMockRepo() *repoMock {
	return &repoMock{
		apps: make(map[string]*Application),
	}
}

func (r *repoMock) Add(_ context.Context, app *Application) (*Application, error) {
	if app.FullName == "" || app.Email == "" || app.MembershipType == "" {
		return nil, errors.New("application name, email or membership type empty")
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	app.ID = uuid.NewString()
	if app.Status == "" {
		app.Status = StatusPending
	}
	if app.SubmittedAt.IsZero() {
		app.SubmittedAt = time.Now()
	}
	app.UpdatedAt = app.SubmittedAt
	copied := *app
	r.apps[app.ID] = &copied
	return app, nil
}

func (r *repoMock) Get(_ context.Context, id string) (*Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	app, ok := r.apps[id]
	if !ok {
		return nil, ErrApplicationNotFound
	}
	copied := *app
	return &copied, nil
}

func (r *repoMock) List(_ context.Context, status Status) ([]Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	apps := make([]Application, 0, len(r.apps))
	for _, app := range r.apps {
		if status == "" || app.Status == status {
			apps = append(apps, *app)
		}
	}
	sort.Slice(apps, func(i, j int) bool {
		return apps[i].SubmittedAt.After(apps[j].SubmittedAt)
	})
	return apps, nil
}

func (r *repoMock) UpdateStatus(_ context.Context, id string, status Status) (*Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	app, ok := r.apps[id]
	if !ok {
		return nil, ErrApplicationNotFound
	}
	app.Status = status
	app.UpdatedAt = time.Now()
	copied := *app
	return &copied, nil
}

func (r *repoMock) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.apps[id]; !ok {
		return ErrApplicationNotFound
	}
	delete(r.apps, id)
	return nil
}
