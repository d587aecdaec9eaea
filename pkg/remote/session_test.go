package remote

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// handshakeServer fakes the remote login flow and records the calls it
// receives.
type handshakeServer struct {
	mu    sync.Mutex
	calls []string

	loginPageStatus   int
	csrfStatus        int
	verifyEmailStatus int
	loginStatus       int

	verifyEmailToken string
	loginToken       string
}

func newHandshakeServer() *handshakeServer {
	return &handshakeServer{
		loginPageStatus:   http.StatusOK,
		csrfStatus:        http.StatusOK,
		verifyEmailStatus: http.StatusOK,
		loginStatus:       http.StatusOK,
	}
}

func (s *handshakeServer) record(path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, path)
}

func (s *handshakeServer) recorded() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.calls...)
}

func (s *handshakeServer) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/login", func(w http.ResponseWriter, _ *http.Request) {
		s.record("/login")
		w.Header().Add("Set-Cookie", "JSESSIONID=sess-1; Path=/; HttpOnly")
		w.Header().Add("Set-Cookie", "XSRF-TOKEN=cookie-token; Path=/")
		w.WriteHeader(s.loginPageStatus)
	})
	mux.HandleFunc("/api/v1/csrf", func(w http.ResponseWriter, _ *http.Request) {
		s.record("/api/v1/csrf")
		w.WriteHeader(s.csrfStatus)
		_, _ = w.Write([]byte(`{"token":"endpoint-token"}`))
	})
	mux.HandleFunc("/api/v1/users/verifyEmail", func(w http.ResponseWriter, r *http.Request) {
		s.record("/api/v1/users/verifyEmail")
		s.mu.Lock()
		s.verifyEmailToken = r.Header.Get("X-XSRF-TOKEN")
		s.mu.Unlock()
		w.Header().Add("Set-Cookie", "XSRF-TOKEN=rotated-token; Path=/")
		w.WriteHeader(s.verifyEmailStatus)
	})
	mux.HandleFunc("/api/v1/users/login", func(w http.ResponseWriter, r *http.Request) {
		s.record("/api/v1/users/login")
		_ = r.ParseForm()
		s.mu.Lock()
		s.loginToken = r.Header.Get("X-XSRF-TOKEN")
		s.mu.Unlock()
		w.WriteHeader(s.loginStatus)
	})
	return mux
}

func TestSessionLogin_Succeeds(t *testing.T) {
	t.Parallel()

	hs := newHandshakeServer()
	server := httptest.NewServer(hs.handler())
	defer server.Close()

	session := NewSession(server.URL)
	err := session.Login(context.Background(), "wirt@example.com", "secret")
	require.NoError(t, err)
	assert.Equal(t, StateAuthenticated, session.State())

	assert.Equal(t, []string{"/login", "/api/v1/csrf", "/api/v1/users/verifyEmail", "/api/v1/users/login"}, hs.recorded())

	// The cookie-issued token beats the endpoint token, and the rotation
	// from verifyEmail is picked up before the credential POST.
	assert.Equal(t, "cookie-token", hs.verifyEmailToken)
	assert.Equal(t, "rotated-token", hs.loginToken)
	assert.Equal(t, "rotated-token", session.Client().CSRFToken())
}

func TestSessionLogin_FailsFastOnLoginPage(t *testing.T) {
	t.Parallel()

	hs := newHandshakeServer()
	hs.loginPageStatus = http.StatusServiceUnavailable
	server := httptest.NewServer(hs.handler())
	defer server.Close()

	session := NewSession(server.URL)
	err := session.Login(context.Background(), "wirt@example.com", "secret")

	var ae *AuthError
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, "login page", ae.Step)
	assert.Equal(t, StateFailed, session.State())

	// No later handshake step may have been attempted.
	assert.Equal(t, []string{"/login"}, hs.recorded())
}

func TestSessionLogin_FailsOnVerifyEmail(t *testing.T) {
	t.Parallel()

	hs := newHandshakeServer()
	hs.verifyEmailStatus = http.StatusUnauthorized
	server := httptest.NewServer(hs.handler())
	defer server.Close()

	session := NewSession(server.URL)
	err := session.Login(context.Background(), "wirt@example.com", "secret")

	var ae *AuthError
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, "verify email", ae.Step)
	assert.Equal(t, StateFailed, session.State())
	assert.Equal(t, []string{"/login", "/api/v1/csrf", "/api/v1/users/verifyEmail"}, hs.recorded())
}

func TestSessionLogin_TransportErrorFails(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.NotFoundHandler())
	server.Close()

	session := NewSession(server.URL)
	err := session.Login(context.Background(), "wirt@example.com", "secret")

	var te *TransportError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, StateFailed, session.State())
}
