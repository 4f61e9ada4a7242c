//go:build integration_test || all_tests

package internal

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/cookiejar"
	"strconv"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/suite"
	"golang.org/x/crypto/bcrypt"

	"github.com/2beens/guildsite/internal/applications"
	"github.com/2beens/guildsite/internal/auth"
	"github.com/2beens/guildsite/internal/config"
	"github.com/2beens/guildsite/internal/feedback"
	"github.com/2beens/guildsite/internal/telemetry/metrics"
	pgtesting "github.com/2beens/guildsite/pkg/testing"
)

type IntegrationTestSuite struct {
	suite.Suite

	server         *Server
	serverEndpoint string
	metricsAddr    string
	httpClient     *http.Client
}

func TestIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(IntegrationTestSuite))
}

func freePort(t *testing.T) int {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("find free port: %s", err)
	}
	defer l.Close()
	return l.Addr().(*net.TCPAddr).Port
}

func (s *IntegrationTestSuite) SetupSuite() {
	t := s.T()
	pool := pgtesting.StartPostgres(t)

	hasher, err := auth.NewHasher(bcrypt.MinCost)
	s.Require().NoError(err)
	hash, err := hasher.Hash(testAdminPassword)
	s.Require().NoError(err)

	adminRepo := auth.NewAdminRepo(pool)
	_, err = adminRepo.Create(context.Background(), &auth.Admin{
		Email:        testAdminEmail,
		Name:         "Guild Admin",
		PasswordHash: hash,
	})
	s.Require().NoError(err)

	port := freePort(t)
	metricsPort := strconv.Itoa(freePort(t))
	cfg := &config.Config{
		Environment:           config.EnvTest,
		Host:                  "127.0.0.1",
		Port:                  port,
		PrometheusMetricsHost: "127.0.0.1",
		PrometheusMetricsPort: metricsPort,
	}

	promRegistry := prometheus.NewRegistry()
	s.server, err = newServer(
		cfg,
		[]byte("integration-test-secret-0123456789abcdef"),
		bcrypt.MinCost,
		Stores{
			Admins:       adminRepo,
			Applications: applications.NewRepo(pool),
			Feedback:     feedback.NewRepo(pool),
		},
		metrics.NewManager("guildsite", "integration", promRegistry),
	)
	s.Require().NoError(err)
	s.server.promRegistry = promRegistry

	s.server.Serve(cfg.Host, cfg.Port)
	s.serverEndpoint = fmt.Sprintf("http://%s", net.JoinHostPort(cfg.Host, strconv.Itoa(port)))
	s.metricsAddr = fmt.Sprintf("http://%s/metrics", net.JoinHostPort(cfg.PrometheusMetricsHost, metricsPort))

	jar, err := cookiejar.New(nil)
	s.Require().NoError(err)
	s.httpClient = &http.Client{Jar: jar, Timeout: 10 * time.Second}

	s.Require().Eventually(func() bool {
		resp, err := s.httpClient.Get(s.serverEndpoint + "/")
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 10*time.Second, 100*time.Millisecond, "server did not come up")
}

func (s *IntegrationTestSuite) TearDownSuite() {
	if s.server != nil {
		s.server.GracefulShutdown()
	}
	if s.httpClient != nil {
		s.httpClient.CloseIdleConnections()
	}
}

func (s *IntegrationTestSuite) do(method, path string, body any) (int, []byte) {
	var reqBody io.Reader = http.NoBody
	if body != nil {
		payload, err := json.Marshal(body)
		s.Require().NoError(err)
		reqBody = bytes.NewReader(payload)
	}
	req, err := http.NewRequest(method, s.serverEndpoint+path, reqBody)
	s.Require().NoError(err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	s.Require().NoError(err)
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	s.Require().NoError(err)
	return resp.StatusCode, respBytes
}

func (s *IntegrationTestSuite) TestAdminSessionAndRecords() {
	status, _ := s.do(http.MethodGet, "/admin/applications", nil)
	s.Equal(http.StatusUnauthorized, status)

	status, respBytes := s.do(http.MethodPost, "/membership/apply", applications.SubmitRequest{
		FullName:       "Gianna Beretta",
		Email:          "gianna@guild.org",
		MembershipType: "Student",
		Specialization: "Pediatrics",
	})
	s.Require().Equal(http.StatusOK, status, string(respBytes))
	var submitResp applications.SubmitResponse
	s.Require().NoError(json.Unmarshal(respBytes, &submitResp))

	status, respBytes = s.do(http.MethodPost, "/admin/login", auth.LoginRequest{
		Email:    testAdminEmail,
		Password: testAdminPassword,
	})
	s.Require().Equal(http.StatusOK, status, string(respBytes))

	status, respBytes = s.do(http.MethodGet, "/admin/applications/"+submitResp.ApplicationID, nil)
	s.Require().Equal(http.StatusOK, status, string(respBytes))
	var appResp applications.ApplicationResponse
	s.Require().NoError(json.Unmarshal(respBytes, &appResp))
	s.Equal(applications.StatusPending, appResp.Application.Status)
	s.Require().NotNil(appResp.Application.Specialization)
	s.Equal("Pediatrics", *appResp.Application.Specialization)
	s.Nil(appResp.Application.LicenseNumber)

	status, _ = s.do(http.MethodPatch, "/admin/applications", applications.UpdateStatusRequest{
		ID:     submitResp.ApplicationID,
		Status: applications.StatusRejected,
	})
	s.Equal(http.StatusOK, status)

	status, _ = s.do(http.MethodGet, "/admin/applications/not-a-uuid", nil)
	s.Equal(http.StatusNotFound, status)

	status, respBytes = s.do(http.MethodPost, "/feedback/submit", feedback.SubmitRequest{
		Name:    "Luke",
		Email:   "luke@guild.org",
		Subject: "Website",
		Message: "The events page is great.",
	})
	s.Require().Equal(http.StatusOK, status, string(respBytes))

	status, respBytes = s.do(http.MethodGet, "/admin/feedback?status=unread", nil)
	s.Require().Equal(http.StatusOK, status)
	var listResp feedback.ListResponse
	s.Require().NoError(json.Unmarshal(respBytes, &listResp))
	s.Len(listResp.Feedback, 1)

	status, _ = s.do(http.MethodPost, "/admin/logout", nil)
	s.Equal(http.StatusOK, status)
	status, _ = s.do(http.MethodGet, "/admin/feedback", nil)
	s.Equal(http.StatusUnauthorized, status)
}

func (s *IntegrationTestSuite) TestMetricsEndpoint() {
	status, _ := s.do(http.MethodGet, "/", nil)
	s.Require().Equal(http.StatusOK, status)

	resp, err := s.httpClient.Get(s.metricsAddr)
	s.Require().NoError(err)
	defer resp.Body.Close()
	s.Equal(http.StatusOK, resp.StatusCode)

	respBytes, err := io.ReadAll(resp.Body)
	s.Require().NoError(err)
	s.Contains(string(respBytes), "guildsite_integration_request_duration_seconds")
}
