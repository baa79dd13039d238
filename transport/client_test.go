package transport

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"
)

func newClientFor(srv *httptest.Server) *Client {
	return New(Config{
		BaseURL:   srv.URL,
		Timeout:   5 * time.Second,
		UserAgent: "usuarios-go-test",
	})
}

func staticSource(token string) TokenSource {
	return func(context.Context) (string, bool) { return token, token != "" }
}

func TestGetAttachesBearerToken(t *testing.T) {
	var gotAuth, gotAgent, gotRequestID string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotAgent = r.Header.Get("User-Agent")
		gotRequestID = r.Header.Get("X-Request-ID")
		_ = json.NewEncoder(w).Encode(map[string]string{"ok": "yes"})
	}))
	defer srv.Close()

	c := newClientFor(srv)
	c.SetTokenSource(staticSource("tok-123"))

	var out map[string]string
	if err := c.Get(context.Background(), "/api/thing", &out); err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if gotAuth != "Bearer tok-123" {
		t.Fatalf("Authorization = %q, want bearer token", gotAuth)
	}
	if gotAgent != "usuarios-go-test" {
		t.Fatalf("User-Agent = %q", gotAgent)
	}
	if gotRequestID == "" {
		t.Fatal("X-Request-ID header missing")
	}
	if out["ok"] != "yes" {
		t.Fatalf("decoded %v", out)
	}
}

func TestGetWithoutTokenSendsNoAuthHeader(t *testing.T) {
	var sawAuthHeader bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, sawAuthHeader = r.Header["Authorization"]
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := newClientFor(srv)
	c.SetTokenSource(staticSource(""))

	if err := c.Get(context.Background(), "/api/thing", nil); err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if sawAuthHeader {
		t.Fatal("request without a stored token must carry no Authorization header")
	}
}

func TestExpiredTokenIsRefreshedAndReplayedOnce(t *testing.T) {
	var mu sync.Mutex
	attempts := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		attempts++
		mu.Unlock()
		if r.Header.Get("Authorization") != "Bearer fresh" {
			w.WriteHeader(http.StatusUnauthorized)
			_ = json.NewEncoder(w).Encode(map[string]string{"detail": "Could not validate credentials"})
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"ok": "yes"})
	}))
	defer srv.Close()

	refreshCalls := 0
	c := newClientFor(srv)
	c.SetTokenSource(staticSource("stale"))
	c.SetRefreshHook(func(context.Context) (string, error) {
		refreshCalls++
		return "fresh", nil
	})

	var out map[string]string
	if err := c.Get(context.Background(), "/api/thing", &out); err != nil {
		t.Fatalf("request did not recover: %v", err)
	}
	if refreshCalls != 1 {
		t.Fatalf("refresh hook called %d times, want 1", refreshCalls)
	}
	mu.Lock()
	defer mu.Unlock()
	if attempts != 2 {
		t.Fatalf("server saw %d attempts, want original plus one replay", attempts)
	}
}

func TestSecondRejectionIsTerminal(t *testing.T) {
	var mu sync.Mutex
	attempts := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		attempts++
		mu.Unlock()
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]string{"detail": "Could not validate credentials"})
	}))
	defer srv.Close()

	refreshCalls := 0
	c := newClientFor(srv)
	c.SetTokenSource(staticSource("stale"))
	c.SetRefreshHook(func(context.Context) (string, error) {
		refreshCalls++
		return "fresh", nil
	})

	err := c.Get(context.Background(), "/api/thing", nil)
	if !errors.Is(err, ErrAuthExpired) {
		t.Fatalf("expected ErrAuthExpired, got %v", err)
	}
	if refreshCalls != 1 {
		t.Fatalf("refresh hook called %d times, want exactly 1", refreshCalls)
	}
	mu.Lock()
	defer mu.Unlock()
	if attempts != 2 {
		t.Fatalf("server saw %d attempts; a replayed request must never go out a third time", attempts)
	}
}

func TestFailedRefreshSurfacesOriginalAuthError(t *testing.T) {
	attempts := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]string{"detail": "Could not validate credentials"})
	}))
	defer srv.Close()

	c := newClientFor(srv)
	c.SetTokenSource(staticSource("stale"))
	c.SetRefreshHook(func(context.Context) (string, error) {
		return "", errors.New("refresh token revoked")
	})

	err := c.Get(context.Background(), "/api/thing", nil)
	if !errors.Is(err, ErrAuthExpired) {
		t.Fatalf("expected ErrAuthExpired, got %v", err)
	}
	if attempts != 1 {
		t.Fatalf("no replay may happen after a failed refresh; server saw %d attempts", attempts)
	}
}

func TestLoginSendsFormEncodedCredentials(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Errorf("parsing login form: %v", err)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/x-www-form-urlencoded" {
			t.Errorf("Content-Type = %q, want form encoding", ct)
		}
		if r.PostFormValue("username") != "alice" || r.PostFormValue("password") != "s3cret" {
			w.WriteHeader(http.StatusUnauthorized)
			_ = json.NewEncoder(w).Encode(map[string]string{"detail": "Incorrect username or password"})
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]string{
			"access_token":  "a1",
			"refresh_token": "r1",
			"token_type":    "bearer",
		})
	}))
	defer srv.Close()

	c := newClientFor(srv)
	grant, err := c.Login(context.Background(), "alice", "s3cret")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if grant.AccessToken != "a1" || grant.RefreshToken != "r1" {
		t.Fatalf("unexpected grant: %+v", grant)
	}

	if _, err := c.Login(context.Background(), "alice", "nope"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestRefreshRejectionMapsToSentinel(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]string{"detail": "Invalid or expired refresh token"})
	}))
	defer srv.Close()

	c := newClientFor(srv)
	if _, err := c.Refresh(context.Background(), "revoked"); !errors.Is(err, ErrRefreshRejected) {
		t.Fatalf("expected ErrRefreshRejected, got %v", err)
	}
}

func TestAPIErrorCarriesStatusAndDetail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(map[string]string{"detail": "User not found"})
	}))
	defer srv.Close()

	c := newClientFor(srv)
	err := c.Get(context.Background(), "/api/users/99", nil)

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %v", err)
	}
	if apiErr.Status != http.StatusNotFound || apiErr.Detail != "User not found" {
		t.Fatalf("unexpected api error: %+v", apiErr)
	}
}

func TestUnreachableBackendMapsToUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {}))
	srv.Close() // nothing listens anymore

	c := newClientFor(srv)
	if err := c.Get(context.Background(), "/api/thing", nil); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}
