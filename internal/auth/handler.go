package auth

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/2beens/guildsite/internal/telemetry/metrics"
	"github.com/2beens/guildsite/internal/telemetry/tracing"
	"github.com/2beens/guildsite/pkg"
)

const (
	msgInvalidCredentials = "Invalid credentials"
	msgUnauthorized       = "Unauthorized"
	msgInternalError      = "Internal server error"
)

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Status  string    `json:"status"`
	Message string    `json:"message"`
	Admin   *Identity `json:"admin,omitempty"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

type SessionResponse struct {
	Status string    `json:"status"`
	Admin  *Identity `json:"admin"`
}

type Handler struct {
	service      *Service
	extractor    *SessionExtractor
	cookieTTL    time.Duration
	secureCookie bool
	metrics      *metrics.Manager
	log          logrus.FieldLogger
}

func NewHandler(
	service *Service,
	extractor *SessionExtractor,
	tokens *TokenService,
	secureCookie bool,
	metricsManager *metrics.Manager,
	logger logrus.FieldLogger,
) *Handler {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Handler{
		service:      service,
		extractor:    extractor,
		cookieTTL:    tokens.TTL(),
		secureCookie: secureCookie,
		metrics:      metricsManager,
		log:          logger,
	}
}

// SetupRoutes registers login and logout as open routes, change-password and
// session behind requireSession.
func (h *Handler) SetupRoutes(r *mux.Router, requireSession mux.MiddlewareFunc) {
	r.HandleFunc("/admin/login", h.HandleLogin).Methods("POST").Name("admin-login")
	r.HandleFunc("/admin/logout", h.HandleLogout).Methods("POST").Name("admin-logout")
	r.Handle("/admin/change-password", requireSession(http.HandlerFunc(h.HandleChangePassword))).Methods("POST").Name("admin-change-password")
	r.Handle("/admin/session", requireSession(http.HandlerFunc(h.HandleSession))).Methods("GET").Name("admin-session")
}

func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "authHandler.login")
	defer span.End()

	var loginReq LoginRequest
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/x-www-form-urlencoded") {
		if err := r.ParseForm(); err != nil {
			h.log.Debugf("login, parse form: %s", err)
			pkg.WriteJSONError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		loginReq = LoginRequest{
			Email:    r.Form.Get("email"),
			Password: r.Form.Get("password"),
		}
	} else if err := json.NewDecoder(r.Body).Decode(&loginReq); err != nil {
		h.log.Debugf("login, unmarshal json params: %s", err)
		pkg.WriteJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := h.service.Login(ctx, loginReq.Email, loginReq.Password)
	if err != nil {
		switch {
		case errors.Is(err, ErrMissingCredentials):
			h.metrics.CounterLoginAttempts.WithLabelValues("missing_credentials").Inc()
			pkg.WriteJSONError(w, http.StatusBadRequest, "Email and password are required")
		case errors.Is(err, ErrInvalidCredentials):
			h.metrics.CounterLoginAttempts.WithLabelValues("invalid_credentials").Inc()
			span.SetStatus(codes.Error, "invalid-credentials")
			if ip, ipErr := pkg.ReadUserIP(r); ipErr == nil {
				h.log.WithField("ip", ip).Warn("failed admin login attempt")
			}
			pkg.WriteJSONError(w, http.StatusUnauthorized, msgInvalidCredentials)
		default:
			h.metrics.CounterLoginAttempts.WithLabelValues("error").Inc()
			span.SetStatus(codes.Error, "login-error")
			span.RecordError(err)
			h.log.Errorf("admin login: %s", err)
			pkg.WriteJSONError(w, http.StatusInternalServerError, msgInternalError)
		}
		return
	}

	h.metrics.CounterLoginAttempts.WithLabelValues("success").Inc()
	span.SetAttributes(attribute.String("admin.id", result.Identity.ID))
	span.SetStatus(codes.Ok, "ok")

	http.SetCookie(w, NewSessionCookie(result.Token, h.cookieTTL, h.secureCookie))
	pkg.WriteJSONResponse(w, http.StatusOK, LoginResponse{
		Status:  pkg.StatusSuccess,
		Message: "Login successful",
		Admin:   &result.Identity,
	})
}

// HandleLogout clears the session cookie, whether or not the request carried a valid one.
func (h *Handler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "authHandler.logout")
	defer span.End()

	http.SetCookie(w, ExpiredSessionCookie(h.secureCookie))
	pkg.WriteJSONResponse(w, http.StatusOK, pkg.StatusResponse{
		Status:  pkg.StatusSuccess,
		Message: "Logged out successfully",
	})
}

func (h *Handler) HandleChangePassword(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "authHandler.changePassword")
	defer span.End()

	identity := h.extractor.IdentityFor(r)
	if identity == nil {
		span.SetStatus(codes.Error, "not-logged")
		pkg.WriteJSONError(w, http.StatusUnauthorized, msgUnauthorized)
		return
	}

	var changeReq ChangePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&changeReq); err != nil {
		h.log.Debugf("change password, unmarshal json params: %s", err)
		pkg.WriteJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	err := h.service.ChangePassword(ctx, identity, changeReq.CurrentPassword, changeReq.NewPassword)
	if err != nil {
		result := "error"
		switch {
		case errors.Is(err, ErrUnauthorized):
			result = "unauthorized"
			pkg.WriteJSONError(w, http.StatusUnauthorized, msgUnauthorized)
		case errors.Is(err, ErrMissingPasswords):
			result = "invalid"
			pkg.WriteJSONError(w, http.StatusBadRequest, "Current password and new password are required")
		case errors.Is(err, ErrPasswordTooShort):
			result = "invalid"
			pkg.WriteJSONError(w, http.StatusBadRequest, "New password must be at least 6 characters long")
		case errors.Is(err, ErrPasswordTooLong):
			result = "invalid"
			pkg.WriteJSONError(w, http.StatusBadRequest, "New password is too long")
		case errors.Is(err, ErrWrongCurrentPassword):
			result = "wrong_current_password"
			pkg.WriteJSONError(w, http.StatusUnauthorized, "Current password is incorrect")
		case errors.Is(err, ErrAdminNotFound):
			result = "admin_not_found"
			pkg.WriteJSONError(w, http.StatusNotFound, "Admin not found")
		default:
			span.RecordError(err)
			h.log.Errorf("change password for admin %s: %s", identity.ID, err)
			pkg.WriteJSONError(w, http.StatusInternalServerError, msgInternalError)
		}
		h.metrics.CounterPasswordChanges.WithLabelValues(result).Inc()
		span.SetStatus(codes.Error, result)
		return
	}

	h.metrics.CounterPasswordChanges.WithLabelValues("success").Inc()
	span.SetStatus(codes.Ok, "ok")
	pkg.WriteJSONResponse(w, http.StatusOK, pkg.StatusResponse{
		Status:  pkg.StatusSuccess,
		Message: "Password changed successfully",
	})
}

// HandleSession tells the dashboard who is logged in.
func (h *Handler) HandleSession(w http.ResponseWriter, r *http.Request) {
	identity := h.extractor.IdentityFor(r)
	if identity == nil {
		pkg.WriteJSONError(w, http.StatusUnauthorized, msgUnauthorized)
		return
	}
	pkg.WriteJSONResponse(w, http.StatusOK, SessionResponse{
		Status: pkg.StatusSuccess,
		Admin:  identity,
	})
}
