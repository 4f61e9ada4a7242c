package feedback_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/mock/gomock"

	"github.com/2beens/guildsite/internal/auth"
	"github.com/2beens/guildsite/internal/feedback"
	"github.com/2beens/guildsite/internal/notify"
	"github.com/2beens/guildsite/internal/telemetry/metrics"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type recordingNotifier struct {
	notices []notify.FeedbackNotice
}

func (n *recordingNotifier) ApplicationReceived(context.Context, notify.ApplicationNotice) error {
	return nil
}

func (n *recordingNotifier) FeedbackReceived(_ context.Context, notice notify.FeedbackNotice) error {
	n.notices = append(n.notices, notice)
	return errors.New("mail relay unavailable")
}

func setup(t *testing.T) (*MockfeedbackRepo, *recordingNotifier, *metrics.Manager, *mux.Router, *http.Cookie) {
	t.Helper()
	ctrl := gomock.NewController(t)
	repo := NewMockfeedbackRepo(ctrl)

	tokens, err := auth.NewTokenService([]byte("feedback-test-secret-0123456789-xyz"), auth.DefaultTokenTTL)
	require.NoError(t, err)
	token, err := tokens.Issue(auth.Identity{ID: gofakeit.UUID(), Email: "admin@guild.org"})
	require.NoError(t, err)

	notifier := &recordingNotifier{}
	metricsManager := metrics.NewTestManager()
	h := feedback.NewHandler(repo, auth.NewSessionExtractor(tokens, nil), notifier, metricsManager)

	r := mux.NewRouter()
	h.SetupRoutes(r, func(next http.Handler) http.Handler { return next })
	return repo, notifier, metricsManager, r, &http.Cookie{Name: auth.SessionCookieName, Value: token}
}

func serve(r *mux.Router, method, path string, body any, cookie *http.Cookie) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	return rr
}

func TestHandler_HandleSubmit(t *testing.T) {
	repo, notifier, metricsManager, r, _ := setup(t)

	submitReq := feedback.SubmitRequest{
		Name:    gofakeit.Name(),
		Email:   gofakeit.Email(),
		Subject: "White Mass",
		Message: gofakeit.Sentence(12),
	}

	repo.EXPECT().
		Add(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, fb *feedback.Feedback) (*feedback.Feedback, error) {
			assert.Equal(t, feedback.StatusUnread, fb.Status)
			assert.Nil(t, fb.Phone)
			fb.ID = "fb-1"
			return fb, nil
		})

	// a failing notifier does not fail the submission
	rr := serve(r, http.MethodPost, "/feedback/submit", submitReq, nil)
	require.Equal(t, http.StatusOK, rr.Code)

	var resp feedback.SubmitResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "success", resp.Status)
	assert.Equal(t, "Feedback submitted successfully", resp.Message)
	assert.Equal(t, "fb-1", resp.FeedbackID)

	require.Len(t, notifier.notices, 1)
	assert.Equal(t, "White Mass", notifier.notices[0].Subject)
	assert.Equal(t, 1.0, testutil.ToFloat64(metricsManager.CounterFeedback))
}

func TestHandler_HandleSubmit_Invalid(t *testing.T) {
	_, notifier, _, r, _ := setup(t)

	rr := serve(r, http.MethodPost, "/feedback/submit", feedback.SubmitRequest{
		Name: "Anna", Email: "anna@guild.org", Subject: "Hi",
	}, nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "Missing required fields")

	rr = serve(r, http.MethodPost, "/feedback/submit", feedback.SubmitRequest{
		Name: "Anna", Email: "anna at guild.org", Subject: "Hi", Message: "Hello",
	}, nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "Invalid email format")

	assert.Empty(t, notifier.notices)
}

func TestHandler_Admin(t *testing.T) {
	repo, _, metricsManager, r, cookie := setup(t)

	rr := serve(r, http.MethodGet, "/admin/feedback", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	repo.EXPECT().List(gomock.Any(), feedback.StatusUnread).Return([]feedback.Feedback{{ID: "fb-1", Status: feedback.StatusUnread}}, nil)
	rr = serve(r, http.MethodGet, "/admin/feedback?status=unread", nil, cookie)
	require.Equal(t, http.StatusOK, rr.Code)
	var listResp feedback.ListResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &listResp))
	require.Len(t, listResp.Feedback, 1)

	repo.EXPECT().Get(gomock.Any(), "fb-1").Return(&feedback.Feedback{ID: "fb-1"}, nil)
	rr = serve(r, http.MethodGet, "/admin/feedback/fb-1", nil, cookie)
	assert.Equal(t, http.StatusOK, rr.Code)

	repo.EXPECT().UpdateStatus(gomock.Any(), "fb-1", feedback.StatusResolved).
		Return(&feedback.Feedback{ID: "fb-1", Status: feedback.StatusResolved}, nil)
	rr = serve(r, http.MethodPatch, "/admin/feedback", feedback.UpdateStatusRequest{ID: "fb-1", Status: "resolved"}, cookie)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "Feedback updated successfully")
	assert.Equal(t, 1.0, testutil.ToFloat64(metricsManager.CounterStatusUpdates.WithLabelValues("feedback", "resolved")))

	rr = serve(r, http.MethodPatch, "/admin/feedback", feedback.UpdateStatusRequest{ID: "fb-1", Status: "pending"}, cookie)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "Invalid status")

	repo.EXPECT().UpdateStatus(gomock.Any(), "gone", feedback.StatusRead).Return(nil, feedback.ErrFeedbackNotFound)
	rr = serve(r, http.MethodPatch, "/admin/feedback", feedback.UpdateStatusRequest{ID: "gone", Status: "read"}, cookie)
	assert.Equal(t, http.StatusNotFound, rr.Code)

	repo.EXPECT().Delete(gomock.Any(), "fb-1").Return(nil)
	rr = serve(r, http.MethodDelete, "/admin/feedback", feedback.DeleteRequest{ID: "fb-1"}, cookie)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "Feedback deleted successfully")

	repo.EXPECT().Delete(gomock.Any(), "fb-1").Return(feedback.ErrFeedbackNotFound)
	rr = serve(r, http.MethodDelete, "/admin/feedback", feedback.DeleteRequest{ID: "fb-1"}, cookie)
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = serve(r, http.MethodDelete, "/admin/feedback", feedback.DeleteRequest{}, cookie)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "Feedback ID is required")
}

func TestHandler_Admin_StoreError(t *testing.T) {
	repo, _, _, r, cookie := setup(t)

	repo.EXPECT().List(gomock.Any(), feedback.Status("")).Return(nil, errors.New("conn reset by peer"))
	rr := serve(r, http.MethodGet, "/admin/feedback", nil, cookie)
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.JSONEq(t, `{"status":"error","message":"Internal server error"}`, rr.Body.String())
}
