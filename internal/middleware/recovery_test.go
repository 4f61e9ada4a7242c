package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/testutil"
	log "github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/2beens/guildsite/internal/telemetry/metrics"
)

func TestPanicRecovery(t *testing.T) {
	cases := map[string]struct {
		handler        http.HandlerFunc
		expectedStatus int
		expectedPanics float64
	}{
		"no panic": {
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusNoContent)
			},
			expectedStatus: http.StatusNoContent,
		},
		"handler panics": {
			handler: func(http.ResponseWriter, *http.Request) {
				panic("store exploded: password_hash column missing")
			},
			expectedStatus: http.StatusInternalServerError,
			expectedPanics: 1,
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			metricsManager := metrics.NewTestManager()
			r := mux.NewRouter()
			r.HandleFunc("/admin/change-password", tc.handler).Name("admin-change-password")
			r.Use(PanicRecovery(metricsManager))

			rr := httptest.NewRecorder()
			r.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/admin/change-password", nil))

			assert.Equal(t, tc.expectedStatus, rr.Code)
			assert.Equal(t, tc.expectedPanics, testutil.ToFloat64(metricsManager.CounterHandleRequestPanic))
			if tc.expectedPanics > 0 {
				assert.JSONEq(t, `{"status":"error","message":"Internal server error"}`, rr.Body.String())
				assert.NotContains(t, rr.Body.String(), "password_hash")
			}
		})
	}
}

func TestPanicRecovery_logsRoute(t *testing.T) {
	hook := logtest.NewGlobal()
	defer log.StandardLogger().ReplaceHooks(make(log.LevelHooks))

	r := mux.NewRouter()
	r.HandleFunc("/admin/feedback", func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}).Name("admin-feedback-list")
	r.Use(PanicRecovery(nil))

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/admin/feedback", nil))

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, log.ErrorLevel, entry.Level)
	assert.Equal(t, "admin-feedback-list", entry.Data["route"])
	assert.Equal(t, "/admin/feedback", entry.Data["path"])
}

func TestPanicRecovery_abortHandlerPropagates(t *testing.T) {
	handler := PanicRecovery(metrics.NewTestManager())(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic(http.ErrAbortHandler)
	}))

	assert.PanicsWithValue(t, http.ErrAbortHandler, func() {
		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	})
}
