package httpclient

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"dashboard_client/internal/domain/entity"
)

type staticSession struct{ token string }

func (s *staticSession) Token() string     { return s.token }
func (s *staticSession) SetToken(t string) { s.token = t }
func (s *staticSession) Clear()            { s.token = "" }

type recordingObserver struct{ statuses []int }

func (o *recordingObserver) ObserveStatus(code int) { o.statuses = append(o.statuses, code) }

func newTestClient(t *testing.T, h http.HandlerFunc, token string) (*APIClient, *recordingObserver) {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	obs := &recordingObserver{}
	c := NewAPIClient(Config{BaseURL: srv.URL + "/", Timeout: 2 * time.Second, RatePerSecond: 1000, Burst: 100}, &staticSession{token: token}, obs, nil)
	return c, obs
}

func TestDoSendsAuthAndDecodesEnvelope(t *testing.T) {
	var gotAuth, gotReqID, gotQuery string
	c, obs := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotReqID = r.Header.Get("X-Request-ID")
		gotQuery = r.URL.RawQuery
		if r.URL.Path != "/user/balance" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"data":{"balance":{"totalBalance":"1.5"}}}`)
	}, "secret")

	env, err := c.Do(context.Background(), http.MethodGet, "/user/balance", url.Values{"isHoldings": {"true"}}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotAuth != "Bearer secret" {
		t.Errorf("authorization = %q", gotAuth)
	}
	if gotReqID == "" {
		t.Error("expected a request id")
	}
	if gotQuery != "isHoldings=true" {
		t.Errorf("query = %q", gotQuery)
	}
	m, ok := env.(map[string]any)
	if !ok || m["data"] == nil {
		t.Errorf("unexpected envelope %#v", env)
	}
	if len(obs.statuses) != 1 || obs.statuses[0] != 200 {
		t.Errorf("observer saw %v", obs.statuses)
	}
}

func TestDoEncodesBody(t *testing.T) {
	var got string
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		got = string(b)
		if r.Method != http.MethodPut {
			t.Errorf("method = %s", r.Method)
		}
		_, _ = io.WriteString(w, `{"success":true}`)
	}, "t")

	if _, err := c.Do(context.Background(), http.MethodPut, "/admin/token/graph/cron/active/1", nil, map[string]bool{"active": true}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != `{"active":true}` {
		t.Errorf("body = %s", got)
	}
}

func TestDoWithoutTokenFailsBeforeIO(t *testing.T) {
	called := false
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) { called = true }, "")

	_, err := c.Do(context.Background(), http.MethodGet, "/user/balance", nil, nil)
	if !errors.Is(err, entity.ErrNoSessionToken) {
		t.Fatalf("expected ErrNoSessionToken, got %v", err)
	}
	if called {
		t.Error("expected no request to be sent")
	}
}

func TestDoReturnsStatusError(t *testing.T) {
	c, obs := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = io.WriteString(w, `{"message":"expired"}`)
	}, "t")

	_, err := c.Do(context.Background(), http.MethodGet, "/admin/graph/stats", nil, nil)
	var se *entity.StatusError
	if !errors.As(err, &se) {
		t.Fatalf("expected StatusError, got %v", err)
	}
	if !se.Unauthorized() || string(se.Body) != `{"message":"expired"}` {
		t.Errorf("unexpected error %+v", se)
	}
	if len(obs.statuses) != 1 || obs.statuses[0] != http.StatusUnauthorized {
		t.Errorf("observer saw %v", obs.statuses)
	}
}

func TestDoEmptyAndTextBodies(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/text" {
			_, _ = io.WriteString(w, "Graph deleted")
		}
	}, "t")

	env, err := c.Do(context.Background(), http.MethodDelete, "/empty", nil, nil)
	if err != nil || env != nil {
		t.Errorf("expected nil envelope, got %#v, %v", env, err)
	}
	env, err = c.Do(context.Background(), http.MethodDelete, "/text", nil, nil)
	if err != nil || env != "Graph deleted" {
		t.Errorf("expected text envelope, got %#v, %v", env, err)
	}
}

func TestDoNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	base := srv.URL
	srv.Close()

	obs := &recordingObserver{}
	c := NewAPIClient(Config{BaseURL: base, Timeout: time.Second}, &staticSession{token: "t"}, obs, nil)
	_, err := c.Do(context.Background(), http.MethodGet, "/token", nil, nil)
	var ne *entity.NetworkError
	if !errors.As(err, &ne) {
		t.Fatalf("expected NetworkError, got %v", err)
	}
	if len(obs.statuses) != 0 {
		t.Errorf("observer should not see failed round trips, saw %v", obs.statuses)
	}
}
