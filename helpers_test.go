package usuarios

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/nikoidev/usuarios-go/tokenstore"
)

const (
	testUsername = "alice"
	testPassword = "correct-password-123"
)

// testBackend is an in-process stand-in for the Usuarios REST backend. It
// tracks exactly one valid token pair, rotates it on refresh, and counts
// calls per endpoint so tests can assert the single-flight property.
type testBackend struct {
	t   *testing.T
	srv *httptest.Server

	// refreshGate, when set, blocks the refresh handler after it has been
	// counted, letting tests pile up concurrent waiters deterministically.
	refreshGate chan struct{}

	mu            sync.Mutex
	counter       int
	accessToken   string
	refreshToken  string
	accessJWTTTL  time.Duration // >0 mints JWT access tokens with this ttl
	refreshDown   bool          // refresh endpoint rejects everything
	usersAlwaysNo bool          // users endpoint rejects every token
	logoutStatus  int           // 0 means 200

	loginCalls   int
	refreshCalls int
	logoutCalls  int
	meCalls      int
	usersCalls   int
}

func newTestBackend(t *testing.T) *testBackend {
	t.Helper()
	b := &testBackend{t: t}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/auth/login", b.handleLogin)
	mux.HandleFunc("POST /api/auth/refresh", b.handleRefresh)
	mux.HandleFunc("POST /api/auth/logout", b.handleLogout)
	mux.HandleFunc("GET /api/auth/me", b.handleMe)
	mux.HandleFunc("GET /api/users/", b.handleUsers)
	mux.HandleFunc("POST /api/auth/forgot-password", b.handleForgotPassword)
	mux.HandleFunc("POST /api/auth/change-password", b.handleChangePassword)

	b.srv = httptest.NewServer(mux)
	t.Cleanup(b.srv.Close)
	return b
}

func (b *testBackend) url() string { return b.srv.URL }

// issueTokens rotates the valid pair. Callers must hold b.mu.
func (b *testBackend) issueTokens() (string, string) {
	b.counter++
	if b.accessJWTTTL > 0 {
		// NumericDate has one-second precision, so two tokens minted within
		// the same second would otherwise be byte-identical; the counter in
		// the ID claim keeps every minted token distinct.
		claims := jwt.RegisteredClaims{
			Subject:   testUsername,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(b.accessJWTTTL)),
			ID:        fmt.Sprintf("%d", b.counter),
		}
		tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
		if err != nil {
			b.t.Errorf("minting test jwt: %v", err)
			tok = fmt.Sprintf("broken-%d", b.counter)
		}
		b.accessToken = tok
	} else {
		b.accessToken = fmt.Sprintf("access-%d", b.counter)
	}
	b.refreshToken = fmt.Sprintf("refresh-%d", b.counter)
	return b.accessToken, b.refreshToken
}

// currentPair returns the valid pair as the client would store it.
func (b *testBackend) currentPair() tokenstore.TokenPair {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.accessToken == "" {
		b.issueTokens()
	}
	return tokenstore.TokenPair{AccessToken: b.accessToken, RefreshToken: b.refreshToken}
}

// invalidateAccess makes the client's stored access token stale while
// keeping the refresh token valid, as if the access token had expired.
func (b *testBackend) invalidateAccess() {
	b.mu.Lock()
	b.counter++
	b.accessToken = fmt.Sprintf("rotated-away-%d", b.counter)
	b.mu.Unlock()
}

func (b *testBackend) counts() (login, refresh, logout, me, users int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.loginCalls, b.refreshCalls, b.logoutCalls, b.meCalls, b.usersCalls
}

func (b *testBackend) authorized(r *http.Request) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.accessToken != "" && r.Header.Get("Authorization") == "Bearer "+b.accessToken
}

func (b *testBackend) handleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "malformed form"})
		return
	}
	b.mu.Lock()
	b.loginCalls++
	if r.PostFormValue("username") != testUsername || r.PostFormValue("password") != testPassword {
		b.mu.Unlock()
		writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Incorrect username or password"})
		return
	}
	access, refresh := b.issueTokens()
	b.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]string{
		"access_token":  access,
		"refresh_token": refresh,
		"token_type":    "bearer",
	})
}

func (b *testBackend) handleRefresh(w http.ResponseWriter, r *http.Request) {
	var req struct {
		RefreshToken string `json:"refresh_token"`
	}
	_ = json.NewDecoder(r.Body).Decode(&req)

	b.mu.Lock()
	b.refreshCalls++
	gate := b.refreshGate
	b.mu.Unlock()
	if gate != nil {
		<-gate
	}

	b.mu.Lock()
	if b.refreshDown || req.RefreshToken == "" || req.RefreshToken != b.refreshToken {
		b.mu.Unlock()
		writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Invalid or expired refresh token"})
		return
	}
	access, refresh := b.issueTokens()
	b.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]string{
		"access_token":  access,
		"refresh_token": refresh,
		"token_type":    "bearer",
	})
}

func (b *testBackend) handleLogout(w http.ResponseWriter, _ *http.Request) {
	b.mu.Lock()
	b.logoutCalls++
	status := b.logoutStatus
	b.mu.Unlock()
	if status >= 400 {
		writeJSON(w, status, map[string]string{"detail": "logout backend failure"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Successfully logged out"})
}

func (b *testBackend) handleMe(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	b.meCalls++
	b.mu.Unlock()
	if !b.authorized(r) {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Could not validate credentials"})
		return
	}
	writeJSON(w, http.StatusOK, testUserJSON())
}

func (b *testBackend) handleUsers(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	b.usersCalls++
	reject := b.usersAlwaysNo
	b.mu.Unlock()
	if reject || !b.authorized(r) {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Could not validate credentials"})
		return
	}
	writeJSON(w, http.StatusOK, []any{testUserJSON()})
}

func (b *testBackend) handleForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
	}
	_ = json.NewDecoder(r.Body).Decode(&req)
	// Same answer whether or not the account exists.
	writeJSON(w, http.StatusOK, map[string]string{
		"message": "If the email exists, a password reset link has been sent",
	})
}

func (b *testBackend) handleChangePassword(w http.ResponseWriter, r *http.Request) {
	if !b.authorized(r) {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Could not validate credentials"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Password updated successfully"})
}

func testUserJSON() map[string]any {
	return map[string]any{
		"id":           1,
		"email":        "alice@example.com",
		"username":     testUsername,
		"is_active":    true,
		"is_superuser": true,
		"created_at":   "2024-01-05T10:00:00Z",
		"roles":        []any{},
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// recordingListener captures session end events.
type recordingListener struct {
	mu     sync.Mutex
	events []SessionEndEvent
}

func (l *recordingListener) SessionEnded(ev SessionEndEvent) {
	l.mu.Lock()
	l.events = append(l.events, ev)
	l.mu.Unlock()
}

func (l *recordingListener) count() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.events)
}

func (l *recordingListener) last() (SessionEndEvent, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.events) == 0 {
		return SessionEndEvent{}, false
	}
	return l.events[len(l.events)-1], true
}

func newTestClient(t *testing.T, backend *testBackend, mutate func(*Config)) (*Client, *recordingListener) {
	t.Helper()
	cfg := defaultConfig()
	cfg.API.BaseURL = backend.url()
	cfg.API.Timeout = 5 * time.Second
	cfg.Startup.InitialInterval = 10 * time.Millisecond
	cfg.Startup.MaxElapsedTime = 200 * time.Millisecond
	if mutate != nil {
		mutate(&cfg)
	}

	listener := &recordingListener{}
	client, err := New().
		WithConfig(cfg).
		WithSessionListener(listener).
		Build()
	if err != nil {
		t.Fatalf("building test client: %v", err)
	}
	t.Cleanup(client.Close)
	return client, listener
}

func seedTokens(t *testing.T, c *Client, pair tokenstore.TokenPair) {
	t.Helper()
	if err := c.tokens.Save(context.Background(), pair); err != nil {
		t.Fatalf("seeding token store: %v", err)
	}
}

// waitFor polls cond until it holds or the deadline passes.
func waitFor(t *testing.T, timeout time.Duration, cond func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", msg)
}
