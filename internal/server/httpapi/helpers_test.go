package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/http/cookiejar"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/gophchat/internal/logging"
	"github.com/dmitrijs2005/gophchat/internal/server/auth"
	"github.com/dmitrijs2005/gophchat/internal/server/events"
	"github.com/dmitrijs2005/gophchat/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/gophchat/internal/server/services"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const (
	testSecret = "test-secret"
	testPrefix = "/api"
)

type stubUploader struct{}

func (stubUploader) Upload(_ context.Context, payload string) (string, error) {
	if strings.HasPrefix(payload, "https://") {
		return payload, nil
	}
	return "https://img.test/uploaded.png", nil
}

type testServer struct {
	*httptest.Server
	rm       repomanager.RepositoryManager
	sessions *auth.Sessions
	registry *prometheus.Registry
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	return newTestServerWithLimit(t, 0)
}

func newTestServerWithLimit(t *testing.T, maxBodyBytes int64) *testServer {
	t.Helper()

	rm := repomanager.NewMemoryRepositoryManager()
	sessions := auth.NewSessions(testSecret, time.Hour, auth.CookieOptions{Path: testPrefix})
	reg := prometheus.NewRegistry()

	h := NewHandler(Options{
		Users:        services.NewUserService(nil, rm, auth.NewBcryptHasher(bcrypt.MinCost), stubUploader{}),
		Messages:     services.NewMessageService(nil, rm, stubUploader{}, events.NewLoggingPublisher(logging.Nop{}), logging.Nop{}),
		Sessions:     sessions,
		Logger:       logging.Nop{},
		Registry:     reg,
		MaxBodyBytes: maxBodyBytes,
	})

	srv := httptest.NewServer(NewRouter(h, testPrefix))
	t.Cleanup(srv.Close)

	return &testServer{Server: srv, rm: rm, sessions: sessions, registry: reg}
}

// client returns an HTTP client with its own cookie jar, i.e. one browser.
func (s *testServer) client(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &http.Client{Jar: jar}
}

func (s *testServer) do(t *testing.T, c *http.Client, method, path string, body any) (*http.Response, []byte) {
	t.Helper()

	var rdr *bytes.Reader
	switch b := body.(type) {
	case nil:
		rdr = bytes.NewReader(nil)
	case string:
		rdr = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		rdr = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, s.URL+path, rdr)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	buf := new(bytes.Buffer)
	_, err = buf.ReadFrom(resp.Body)
	require.NoError(t, err)

	return resp, buf.Bytes()
}

func decode[T any](t *testing.T, raw []byte) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(raw, &v), string(raw))
	return v
}

func messageOf(t *testing.T, raw []byte) string {
	t.Helper()
	return decode[map[string]any](t, raw)["message"].(string)
}

func signup(t *testing.T, s *testServer, c *http.Client, name, email, password string) map[string]any {
	t.Helper()
	resp, body := s.do(t, c, http.MethodPost, "/api/auth/signup", map[string]string{
		"fullName": name, "email": email, "password": password,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	return decode[map[string]any](t, body)
}
