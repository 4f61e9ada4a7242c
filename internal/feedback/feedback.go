package feedback

import (
	"errors"
	"strings"
	"time"
)

var ErrFeedbackNotFound = errors.New("feedback not found")

type Status string

const (
	StatusUnread   Status = "unread"
	StatusRead     Status = "read"
	StatusResolved Status = "resolved"
)

func (s Status) Valid() bool {
	switch s {
	case StatusUnread, StatusRead, StatusResolved:
		return true
	}
	return false
}

type Feedback struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     *string   `json:"phone"`
	Subject   string    `json:"subject"`
	Message   string    `json:"message"`
	Status    Status    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type SubmitRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

func (req SubmitRequest) ToFeedback() *Feedback {
	fb := &Feedback{
		Name:    strings.TrimSpace(req.Name),
		Email:   strings.TrimSpace(req.Email),
		Subject: strings.TrimSpace(req.Subject),
		Message: strings.TrimSpace(req.Message),
		Status:  StatusUnread,
	}
	if phone := strings.TrimSpace(req.Phone); phone != "" {
		fb.Phone = &phone
	}
	return fb
}
