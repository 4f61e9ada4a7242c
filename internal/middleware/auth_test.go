package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/2beens/guildsite/internal/auth"
	"github.com/2beens/guildsite/internal/middleware"
	"github.com/2beens/guildsite/internal/telemetry/metrics"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestSessionAuth(t *testing.T) {
	tokens, err := auth.NewTokenService([]byte("middleware-test-secret-0123456789-abc"), auth.DefaultTokenTTL)
	require.NoError(t, err)
	identity := auth.Identity{ID: "5d0b3c8e-8f4a-4c1e-9a77-6c2d1e0f9b21", Email: "admin@guild.org", Name: "Admin"}
	validToken, err := tokens.Issue(identity)
	require.NoError(t, err)

	metricsManager := metrics.NewTestManager()
	authMiddleware := middleware.SessionAuth(auth.NewSessionExtractor(tokens, nil), metricsManager)

	testCases := []struct {
		name               string
		cookieHeader       string
		expectedStatusCode int
		expectNextCalled   bool
	}{
		{
			name:               "NoCookie",
			expectedStatusCode: http.StatusUnauthorized,
		},
		{
			name:               "OtherCookiesOnly",
			cookieHeader:       "theme=dark; lang=en",
			expectedStatusCode: http.StatusUnauthorized,
		},
		{
			name:               "ForgedToken",
			cookieHeader:       "admin-token=abc.def=.ghi",
			expectedStatusCode: http.StatusUnauthorized,
		},
		{
			name:               "ValidToken",
			cookieHeader:       "theme=dark; admin-token=" + validToken,
			expectedStatusCode: http.StatusOK,
			expectNextCalled:   true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/admin/applications", nil)
			if tc.cookieHeader != "" {
				req.Header.Set("Cookie", tc.cookieHeader)
			}

			nextCalled := false
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				nextCalled = true
				ctxIdentity, ok := auth.IdentityFromContext(r.Context())
				require.True(t, ok)
				assert.Equal(t, identity, *ctxIdentity)
			})

			rr := httptest.NewRecorder()
			authMiddleware(next).ServeHTTP(rr, req)

			assert.Equal(t, tc.expectedStatusCode, rr.Code)
			assert.Equal(t, tc.expectNextCalled, nextCalled)
			if !tc.expectNextCalled {
				assert.JSONEq(t, `{"status":"error","message":"Unauthorized"}`, rr.Body.String())
			}
		})
	}

	assert.Equal(t, 3.0, testutil.ToFloat64(metricsManager.CounterUnauthorizedRequests))
}
