package applications

import (
	"errors"
	"strings"
	"time"
)

var ErrApplicationNotFound = errors.New("application not found")

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// Application is a membership application submitted through the public form.
// Optional professional details are nil when the applicant left them blank.
type Application struct {
	ID                string    `json:"id"`
	FullName          string    `json:"fullName"`
	Email             string    `json:"email"`
	Phone             string    `json:"phone"`
	DateOfBirth       string    `json:"dateOfBirth"`
	Address           string    `json:"address"`
	City              string    `json:"city"`
	State             string    `json:"state"`
	ZipCode           string    `json:"zipCode"`
	MembershipType    string    `json:"membershipType"`
	Specialization    *string   `json:"specialization"`
	LicenseNumber     *string   `json:"licenseNumber"`
	YearsOfExperience *string   `json:"yearsOfExperience"`
	MedicalSchool     *string   `json:"medicalSchool"`
	Status            Status    `json:"status"`
	SubmittedAt       time.Time `json:"submittedAt"`
	UpdatedAt         time.Time `json:"updatedAt"`
}

type SubmitRequest struct {
	FullName          string `json:"fullName"`
	Email             string `json:"email"`
	Phone             string `json:"phone"`
	DateOfBirth       string `json:"dateOfBirth"`
	Address           string `json:"address"`
	City              string `json:"city"`
	State             string `json:"state"`
	ZipCode           string `json:"zipCode"`
	MembershipType    string `json:"membershipType"`
	Specialization    string `json:"specialization"`
	LicenseNumber     string `json:"licenseNumber"`
	YearsOfExperience string `json:"yearsOfExperience"`
	MedicalSchool     string `json:"medicalSchool"`
}

// ToApplication builds a new pending application from the form.
func (req SubmitRequest) ToApplication() *Application {
	return &Application{
		FullName:          strings.TrimSpace(req.FullName),
		Email:             strings.TrimSpace(req.Email),
		Phone:             strings.TrimSpace(req.Phone),
		DateOfBirth:       strings.TrimSpace(req.DateOfBirth),
		Address:           strings.TrimSpace(req.Address),
		City:              strings.TrimSpace(req.City),
		State:             strings.TrimSpace(req.State),
		ZipCode:           strings.TrimSpace(req.ZipCode),
		MembershipType:    strings.TrimSpace(req.MembershipType),
		Specialization:    optional(req.Specialization),
		LicenseNumber:     optional(req.LicenseNumber),
		YearsOfExperience: optional(req.YearsOfExperience),
		MedicalSchool:     optional(req.MedicalSchool),
		Status:            StatusPending,
	}
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
