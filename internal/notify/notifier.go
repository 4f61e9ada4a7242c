package notify

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

const timeLayout = "Jan 2, 2006 15:04 MST"

type ApplicationNotice struct {
	ApplicationID  string
	FullName       string
	Email          string
	Phone          string
	MembershipType string
	Specialization string
	SubmittedAt    time.Time
}

type FeedbackNotice struct {
	FeedbackID string
	Name       string
	Email      string
	Phone      string
	Subject    string
	Message    string
	CreatedAt  time.Time
}

// Notifier tells the guild (and the applicant) about new submissions.
// Callers log a failed notification and carry on.
type Notifier interface {
	ApplicationReceived(ctx context.Context, notice ApplicationNotice) error
	FeedbackReceived(ctx context.Context, notice FeedbackNotice) error
}

// LogNotifier renders the notification emails and writes them to the log instead of sending them.
type LogNotifier struct {
	adminEmail string
	log        logrus.FieldLogger
}

func NewLogNotifier(adminEmail string, logger logrus.FieldLogger) *LogNotifier {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &LogNotifier{
		adminEmail: adminEmail,
		log:        logger,
	}
}

func (n *LogNotifier) ApplicationReceived(ctx context.Context, notice ApplicationNotice) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	n.log.WithFields(logrus.Fields{
		"to":             n.adminEmail,
		"application_id": notice.ApplicationID,
	}).Infof("email to admin:\n%s", AdminApplicationEmail(notice))

	n.log.WithFields(logrus.Fields{
		"to":             notice.Email,
		"application_id": notice.ApplicationID,
	}).Infof("email to applicant:\n%s", ApplicantConfirmationEmail(notice))

	return nil
}

func (n *LogNotifier) FeedbackReceived(ctx context.Context, notice FeedbackNotice) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	n.log.WithFields(logrus.Fields{
		"to":          n.adminEmail,
		"feedback_id": notice.FeedbackID,
	}).Infof("email to admin:\n%s", AdminFeedbackEmail(notice))

	return nil
}

func AdminApplicationEmail(notice ApplicationNotice) string {
	var sb strings.Builder
	sb.WriteString("New Membership Application Received\n")
	sb.WriteString("===================================\n\n")
	fmt.Fprintf(&sb, "Application ID: %s\n", notice.ApplicationID)
	fmt.Fprintf(&sb, "Name: %s\n", notice.FullName)
	fmt.Fprintf(&sb, "Email: %s\n", notice.Email)
	fmt.Fprintf(&sb, "Membership type: %s\n", notice.MembershipType)
	fmt.Fprintf(&sb, "Specialization: %s\n", orNotProvided(notice.Specialization))
	fmt.Fprintf(&sb, "Phone: %s\n\n", orNotProvided(notice.Phone))
	fmt.Fprintf(&sb, "Submitted: %s\n\n", notice.SubmittedAt.Format(timeLayout))
	sb.WriteString("Please review and approve/reject this application.\n")
	return sb.String()
}

func ApplicantConfirmationEmail(notice ApplicationNotice) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Dear %s,\n\n", notice.FullName)
	sb.WriteString("Thank you for applying for membership!\n\n")
	sb.WriteString("We have received your application with the following details:\n\n")
	fmt.Fprintf(&sb, "Application ID: %s\n", notice.ApplicationID)
	fmt.Fprintf(&sb, "Membership type: %s\n", notice.MembershipType)
	fmt.Fprintf(&sb, "Submitted: %s\n\n", notice.SubmittedAt.Format(timeLayout))
	sb.WriteString("Our team will review your application and contact you within 3-5 business days.\n\n")
	sb.WriteString(FeeInformation(notice.MembershipType))
	sb.WriteString("\n\nBest regards,\nMedical Guild Team\n")
	return sb.String()
}

func AdminFeedbackEmail(notice FeedbackNotice) string {
	var sb strings.Builder
	sb.WriteString("New Feedback Received\n")
	sb.WriteString("=====================\n\n")
	fmt.Fprintf(&sb, "Feedback ID: %s\n", notice.FeedbackID)
	fmt.Fprintf(&sb, "Name: %s\n", notice.Name)
	fmt.Fprintf(&sb, "Email: %s\n", notice.Email)
	fmt.Fprintf(&sb, "Phone: %s\n", orNotProvided(notice.Phone))
	fmt.Fprintf(&sb, "Subject: %s\n\n", notice.Subject)
	fmt.Fprintf(&sb, "Message:\n%s\n\n", notice.Message)
	fmt.Fprintf(&sb, "Received: %s\n", notice.CreatedAt.Format(timeLayout))
	return sb.String()
}

var membershipFees = map[string]string{
	"student":   "Your student membership is FREE! No payment required.",
	"full":      "Annual membership fee: $20. Payment instructions will be sent separately.",
	"associate": "Annual membership fee: $15. Payment instructions will be sent separately.",
	"honorary":  "Honorary membership is by invitation only. No fee required.",
}

// FeeInformation returns the fee line for a membership type. Matching ignores
// case and a trailing " member", so "Full Member" and "full" are the same type.
func FeeInformation(membershipType string) string {
	key := strings.ToLower(strings.TrimSpace(membershipType))
	key = strings.TrimSuffix(key, " member")
	if fee, ok := membershipFees[key]; ok {
		return fee
	}
	return "Membership fee information will be provided."
}

func orNotProvided(s string) string {
	if strings.TrimSpace(s) == "" {
		return "Not provided"
	}
	return s
}
