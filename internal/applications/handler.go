package applications

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

//go:generate mockgen -source=$GOFILE -destination=applications_mocks_test.go -package=applications_test

type applicationsRepo interface {
	Add(ctx context.Context, app *Application) (*Application, error)
	Get(ctx context.Context, id string) (*Application, error)
	List(ctx context.Context, status Status) ([]Application, error)
	UpdateStatus(ctx context.Context, id string, status Status) (*Application, error)
	Delete(ctx context.Context, id string) error
}

type SubmitResponse struct {
	Status        string `json:"status"`
	Message       string `json:"message"`
	ApplicationID string `json:"applicationId"`
}

type ListResponse struct {
	Status       string        `json:"status"`
	Applications []Application `json:"applications"`
}

type ApplicationResponse struct {
	Status      string       `json:"status"`
	Message     string       `json:"message,omitempty"`
	Application *Application `json:"application"`
}

type UpdateStatusRequest struct {
	ID     string `json:"id"`
	Status Status `json:"status"`
}

type DeleteRequest struct {
	ID string `json:"id"`
}

type Handler struct {
	repo     applicationsRepo
	sessions *auth.SessionExtractor
	notifier notify.Notifier
	metrics  *metrics.Manager
}

func NewHandler(
	repo applicationsRepo,
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
	r.HandleFunc("/membership/apply", h.HandleSubmit).Methods("POST").Name("membership-apply")

	r.Handle("/admin/applications", requireSession(http.HandlerFunc(h.HandleList))).Methods("GET").Name("admin-applications-list")
	r.Handle("/admin/applications", requireSession(http.HandlerFunc(h.HandleUpdateStatus))).Methods("PATCH").Name("admin-applications-update")
	r.Handle("/admin/applications", requireSession(http.HandlerFunc(h.HandleDelete))).Methods("DELETE").Name("admin-applications-delete")
	r.Handle("/admin/applications/{id}", requireSession(http.HandlerFunc(h.HandleGet))).Methods("GET").Name("admin-applications-get")
}

func (h *Handler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "applicationsHandler.submit")
	defer span.End()

	var req SubmitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Debugf("submit application, unmarshal json params: %s", err)
		pkg.WriteJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if pkg.AnyEmpty(req.FullName, req.Email, req.MembershipType) {
		pkg.WriteJSONError(w, http.StatusBadRequest, "Missing required fields")
		return
	}
	if !pkg.IsValidEmail(strings.TrimSpace(req.Email)) {
		pkg.WriteJSONError(w, http.StatusBadRequest, "Invalid email format")
		return
	}

	app, err := h.repo.Add(ctx, req.ToApplication())
	if err != nil {
		span.SetStatus(codes.Error, "add-failed")
		span.RecordError(err)
		log.Errorf("submit application: %s", err)
		pkg.WriteJSONError(w, http.StatusInternalServerError, "Internal server error. Please try again later.")
		return
	}

	h.metrics.CounterApplications.Inc()
	span.SetAttributes(attribute.String("application.id", app.ID))
	log.WithFields(log.Fields{
		"application_id":  app.ID,
		"membership_type": app.MembershipType,
	}).Info("membership application received")

	notice := notify.ApplicationNotice{
		ApplicationID:  app.ID,
		FullName:       app.FullName,
		Email:          app.Email,
		Phone:          app.Phone,
		MembershipType: app.MembershipType,
		SubmittedAt:    app.SubmittedAt,
	}
	if app.Specialization != nil {
		notice.Specialization = *app.Specialization
	}
	if err := h.notifier.ApplicationReceived(ctx, notice); err != nil {
		log.Errorf("notify about application %s: %s", app.ID, err)
	}

	pkg.WriteJSONResponse(w, http.StatusOK, SubmitResponse{
		Status:        pkg.StatusSuccess,
		Message:       "Application submitted successfully",
		ApplicationID: app.ID,
	})
}

func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "applicationsHandler.list")
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

	apps, err := h.repo.List(ctx, status)
	if err != nil {
		span.RecordError(err)
		log.Errorf("list applications: %s", err)
		pkg.WriteJSONError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if apps == nil {
		apps = []Application{}
	}

	pkg.WriteJSONResponse(w, http.StatusOK, ListResponse{
		Status:       pkg.StatusSuccess,
		Applications: apps,
	})
}

func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "applicationsHandler.get")
	defer span.End()

	if h.sessions.IdentityFor(r) == nil {
		pkg.WriteJSONError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	app, err := h.repo.Get(ctx, mux.Vars(r)["id"])
	if err != nil {
		if errors.Is(err, ErrApplicationNotFound) {
			pkg.WriteJSONError(w, http.StatusNotFound, "Application not found")
			return
		}
		log.Errorf("get application: %s", err)
		pkg.WriteJSONError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	pkg.WriteJSONResponse(w, http.StatusOK, ApplicationResponse{
		Status:      pkg.StatusSuccess,
		Application: app,
	})
}

func (h *Handler) HandleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "applicationsHandler.updateStatus")
	defer span.End()

	identity := h.sessions.IdentityFor(r)
	if identity == nil {
		pkg.WriteJSONError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req UpdateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Debugf("update application, unmarshal json params: %s", err)
		pkg.WriteJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.ID == "" || req.Status == "" {
		pkg.WriteJSONError(w, http.StatusBadRequest, "Application ID and status are required")
		return
	}
	if !req.Status.Valid() {
		pkg.WriteJSONError(w, http.StatusBadRequest, "Invalid status")
		return
	}

	app, err := h.repo.UpdateStatus(ctx, req.ID, req.Status)
	if err != nil {
		if errors.Is(err, ErrApplicationNotFound) {
			pkg.WriteJSONError(w, http.StatusNotFound, "Application not found")
			return
		}
		span.RecordError(err)
		log.Errorf("update application %s status: %s", req.ID, err)
		pkg.WriteJSONError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	h.metrics.CounterStatusUpdates.WithLabelValues("application", string(req.Status)).Inc()
	log.WithFields(log.Fields{
		"application_id": app.ID,
		"status":         app.Status,
		"admin_id":       identity.ID,
	}).Info("application status updated")

	pkg.WriteJSONResponse(w, http.StatusOK, ApplicationResponse{
		Status:      pkg.StatusSuccess,
		Message:     "Application updated successfully",
		Application: app,
	})
}

func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "applicationsHandler.delete")
	defer span.End()

	identity := h.sessions.IdentityFor(r)
	if identity == nil {
		pkg.WriteJSONError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req DeleteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Debugf("delete application, unmarshal json params: %s", err)
		pkg.WriteJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.ID == "" {
		pkg.WriteJSONError(w, http.StatusBadRequest, "Application ID is required")
		return
	}

	if err := h.repo.Delete(ctx, req.ID); err != nil {
		if errors.Is(err, ErrApplicationNotFound) {
			pkg.WriteJSONError(w, http.StatusNotFound, "Application not found")
			return
		}
		span.RecordError(err)
		log.Errorf("delete application %s: %s", req.ID, err)
		pkg.WriteJSONError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	log.WithFields(log.Fields{
		"application_id": req.ID,
		"admin_id":       identity.ID,
	}).Info("application deleted")

	pkg.WriteJSONResponse(w, http.StatusOK, pkg.StatusResponse{
		Status:  pkg.StatusSuccess,
		Message: "Application deleted successfully",
	})
}
