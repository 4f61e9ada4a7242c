package feedback

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

type repoMock struct {
	mu        sync.Mutex
	feedbacks map[string]*Feedback
}

func NewMockRepo() *repoMock {
	return &repoMock{
		feedbacks: make(map[string]*Feedback),
	}
}

func (r *repoMock) Add(_ context.Context, fb *Feedback) (*Feedback, error) {
	if fb.Name == "" || fb.Email == "" || fb.Subject == "" || fb.Message == "" {
		return nil, errors.New("feedback name, email, subject or message empty")
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	fb.ID = uuid.NewString()
	if fb.Status == "" {
		fb.Status = StatusUnread
	}
	if fb.CreatedAt.IsZero() {
		fb.CreatedAt = time.Now()
	}
	fb.UpdatedAt = fb.CreatedAt
	copied := *fb
	r.feedbacks[fb.ID] = &copied
	return fb, nil
}

func (r *repoMock) Get(_ context.Context, id string) (*Feedback, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fb, ok := r.feedbacks[id]
	if !ok {
		return nil, ErrFeedbackNotFound
	}
	copied := *fb
	return &copied, nil
}

func (r *repoMock) List(_ context.Context, status Status) ([]Feedback, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	feedbacks := make([]Feedback, 0, len(r.feedbacks))
	for _, fb := range r.feedbacks {
		if status == "" || fb.Status == status {
			feedbacks = append(feedbacks, *fb)
		}
	}
	sort.Slice(feedbacks, func(i, j int) bool {
		return feedbacks[i].CreatedAt.After(feedbacks[j].CreatedAt)
	})
	return feedbacks, nil
}

func (r *repoMock) UpdateStatus(_ context.Context, id string, status Status) (*Feedback, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fb, ok := r.feedbacks[id]
	if !ok {
		return nil, ErrFeedbackNotFound
	}
	fb.Status = status
	fb.UpdatedAt = time.Now()
	copied := *fb
	return &copied, nil
}

func (r *repoMock) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.feedbacks[id]; !ok {
		return ErrFeedbackNotFound
	}
	delete(r.feedbacks, id)
	return nil
}
