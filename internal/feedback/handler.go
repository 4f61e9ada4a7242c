package feedback

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/2beens/guildsite/internal/auth"
	"github.com/2beens/guildsite/internal/notify"
	"github.com/2beens/guildsite/internal/telemetry/metrics"
	"github.com/2beens/guildsite/internal/telemetry/tracing"
	"github.com/2beens/guildsite/pkg"
)

//go:generate mockgen -source=$GOFILE -destination=feedback_mocks_test.go -package=feedback_test

type feedbackRepo interface {
	Add(ctx context.Context, fb *Feedback) (*Feedback, error)
	Get(ctx context.Context, id string) (*Feedback, error)
	List(ctx context.Context, status Status) ([]Feedback, error)
	UpdateStatus(ctx context.Context, id string, status Status) (*Feedback, error)
	Delete(ctx context.Context, id string) error
}

type SubmitResponse struct {
	Status     string `json:"status"`
	Message    string `json:"message"`
	FeedbackID string `json:"feedbackId"`
}

type ListResponse struct {
	Status   string     `json:"status"`
	Feedback []Feedback `json:"feedback"`
}

type ItemResponse struct {
	Status   string    `json:"status"`
	Message  string    `json:"message,omitempty"`
	Feedback *Feedback `json:"feedback"`
}

type UpdateStatusRequest struct {
	ID     string `json:"id"`
	Status Status `json:"status"`
}

type DeleteRequest struct {
	ID string `json:"id"`
}

type Handler struct {
	repo     feedbackRepo
	sessions *auth.SessionExtractor
	notifier notify.Notifier
	metrics  *metrics.Manager
}

func NewHandler(
	repo feedbackRepo,
	sessions *auth.SessionExtractor,
	notifier notify.Notifier,
	metricsManager *metrics.Manager,
) *Handler {
	return &Handler{
		repo:     repo,
		sessions: sessions,
		notifier: notifier,
		metrics:  metricsManager,
	}
}

// SetupRoutes registers the public submit route and the admin routes, the latter behind requireSession.
func (h *Handler) SetupRoutes(r *mux.Router, requireSession mux.MiddlewareFunc) {
	r.HandleFunc("/feedback/submit", h.HandleSubmit).Methods("POST").Name("feedback-submit")

	r.Handle("/admin/feedback", requireSession(http.HandlerFunc(h.HandleList))).Methods("GET").Name("admin-feedback-list")
	r.Handle("/admin/feedback", requireSession(http.HandlerFunc(h.HandleUpdateStatus))).Methods("PATCH").Name("admin-feedback-update")
	r.Handle("/admin/feedback", requireSession(http.HandlerFunc(h.HandleDelete))).Methods("DELETE").Name("admin-feedback-delete")
	r.Handle("/admin/feedback/{id}", requireSession(http.HandlerFunc(h.HandleGet))).Methods("GET").Name("admin-feedback-get")
}

func (h *Handler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "feedbackHandler.submit")
	defer span.End()

	var req SubmitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Debugf("submit feedback, unmarshal json params: %s", err)
		pkg.WriteJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if pkg.AnyEmpty(req.Name, req.Email, req.Subject, req.Message) {
		pkg.WriteJSONError(w, http.StatusBadRequest, "Missing required fields")
		return
	}
	if !pkg.IsValidEmail(strings.TrimSpace(req.Email)) {
		pkg.WriteJSONError(w, http.StatusBadRequest, "Invalid email format")
		return
	}

	fb, err := h.repo.Add(ctx, req.ToFeedback())
	if err != nil {
		span.SetStatus(codes.Error, "add-failed")
		span.RecordError(err)
		log.Errorf("submit feedback: %s", err)
		pkg.WriteJSONError(w, http.StatusInternalServerError, "Internal server error. Please try again later.")
		return
	}

	h.metrics.CounterFeedback.Inc()
	span.SetAttributes(attribute.String("feedback.id", fb.ID))
	log.WithField("feedback_id", fb.ID).Info("feedback received")

	notice := notify.FeedbackNotice{
		FeedbackID: fb.ID,
		Name:       fb.Name,
		Email:      fb.Email,
		Subject:    fb.Subject,
		Message:    fb.Message,
		CreatedAt:  fb.CreatedAt,
	}
	if fb.Phone != nil {
		notice.Phone = *fb.Phone
	}
	if err := h.notifier.FeedbackReceived(ctx, notice); err != nil {
		log.Errorf("notify about feedback %s: %s", fb.ID, err)
	}

	pkg.WriteJSONResponse(w, http.StatusOK, SubmitResponse{
		Status:     pkg.StatusSuccess,
		Message:    "Feedback submitted successfully",
		FeedbackID: fb.ID,
	})
}

func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "feedbackHandler.list")
	defer span.End()

	if h.sessions.IdentityFor(r) == nil {
		pkg.WriteJSONError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	status := Status(r.URL.Query().Get("status"))
	if status != "" && !status.Valid() {
		pkg.WriteJSONError(w, http.StatusBadRequest, "Invalid status")
		return
	}

	feedbacks, err := h.repo.List(ctx, status)
	if err != nil {
		span.RecordError(err)
		log.Errorf("list feedback: %s", err)
		pkg.WriteJSONError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if feedbacks == nil {
		feedbacks = []Feedback{}
	}

	pkg.WriteJSONResponse(w, http.StatusOK, ListResponse{
		Status:   pkg.StatusSuccess,
		Feedback: feedbacks,
	})
}

func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "feedbackHandler.get")
	defer span.End()

	if h.sessions.IdentityFor(r) == nil {
		pkg.WriteJSONError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	fb, err := h.repo.Get(ctx, mux.Vars(r)["id"])
	if err != nil {
		if errors.Is(err, ErrFeedbackNotFound) {
			pkg.WriteJSONError(w, http.StatusNotFound, "Feedback not found")
			return
		}
		log.Errorf("get feedback: %s", err)
		pkg.WriteJSONError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	pkg.WriteJSONResponse(w, http.StatusOK, ItemResponse{
		Status:   pkg.StatusSuccess,
		Feedback: fb,
	})
}

func (h *Handler) HandleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "feedbackHandler.updateStatus")
	defer span.End()

	identity := h.sessions.IdentityFor(r)
	if identity == nil {
		pkg.WriteJSONError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req UpdateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Debugf("update feedback, unmarshal json params: %s", err)
		pkg.WriteJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.ID == "" || req.Status == "" {
		pkg.WriteJSONError(w, http.StatusBadRequest, "Feedback ID and status are required")
		return
	}
	if !req.Status.Valid() {
		pkg.WriteJSONError(w, http.StatusBadRequest, "Invalid status")
		return
	}

	fb, err := h.repo.UpdateStatus(ctx, req.ID, req.Status)
	if err != nil {
		if errors.Is(err, ErrFeedbackNotFound) {
			pkg.WriteJSONError(w, http.StatusNotFound, "Feedback not found")
			return
		}
		span.RecordError(err)
		log.Errorf("update feedback %s status: %s", req.ID, err)
		pkg.WriteJSONError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	h.metrics.CounterStatusUpdates.WithLabelValues("feedback", string(req.Status)).Inc()
	log.WithFields(log.Fields{
		"feedback_id": fb.ID,
		"status":      fb.Status,
		"admin_id":    identity.ID,
	}).Info("feedback status updated")

	pkg.WriteJSONResponse(w, http.StatusOK, ItemResponse{
		Status:   pkg.StatusSuccess,
		Message:  "Feedback updated successfully",
		Feedback: fb,
	})
}

func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "feedbackHandler.delete")
	defer span.End()

	identity := h.sessions.IdentityFor(r)
	if identity == nil {
		pkg.WriteJSONError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req DeleteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Debugf("delete feedback, unmarshal json params: %s", err)
		pkg.WriteJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.ID == "" {
		pkg.WriteJSONError(w, http.StatusBadRequest, "Feedback ID is required")
		return
	}

	if err := h.repo.Delete(ctx, req.ID); err != nil {
		if errors.Is(err, ErrFeedbackNotFound) {
			pkg.WriteJSONError(w, http.StatusNotFound, "Feedback not found")
			return
		}
		span.RecordError(err)
		log.Errorf("delete feedback %s: %s", req.ID, err)
		pkg.WriteJSONError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	log.WithFields(log.Fields{
		"feedback_id": req.ID,
		"admin_id":    identity.ID,
	}).Info("feedback deleted")

	pkg.WriteJSONResponse(w, http.StatusOK, pkg.StatusResponse{
		Status:  pkg.StatusSuccess,
		Message: "Feedback deleted successfully",
	})
}
