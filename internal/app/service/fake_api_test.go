package service

import (
	"context"
	"fmt"
	"net/url"
	"sync"
	"testing"

	"dashboard_client/internal/domain/entity"

	jsoniter "github.com/json-iterator/go"
)

type call struct {
	method string
	path   string
	query  url.Values
	body   any
}

type reply func(n int) (entity.Envelope, error)

// fakeAPI answers by "METHOD path" and records every call. The reply gets the
// 1-indexed number of the call to that route.
type fakeAPI struct {
	mu     sync.Mutex
	routes map[string]reply
	calls  []call
	counts map[string]int
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{routes: make(map[string]reply), counts: make(map[string]int)}
}

func (f *fakeAPI) on(method, path string, r reply) *fakeAPI {
	f.routes[method+" "+path] = r
	return f
}

func (f *fakeAPI) Do(ctx context.Context, method, path string, query url.Values, body any) (entity.Envelope, error) {
	key := method + " " + path
	f.mu.Lock()
	f.calls = append(f.calls, call{method: method, path: path, query: query, body: body})
	f.counts[key]++
	n := f.counts[key]
	r, ok := f.routes[key]
	f.mu.Unlock()

	if !ok {
		return nil, &entity.StatusError{Method: method, Path: path, StatusCode: 404}
	}
	return r(n)
}

func (f *fakeAPI) count(method, path string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.counts[method+" "+path]
}

func (f *fakeAPI) lastCall() call {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[len(f.calls)-1]
}

func jsonReply(t *testing.T, raw string) reply {
	t.Helper()
	var env any
	if err := jsoniter.ConfigCompatibleWithStandardLibrary.Unmarshal([]byte(raw), &env); err != nil {
		t.Fatalf("decode %s: %v", raw, err)
	}
	return func(int) (entity.Envelope, error) { return env, nil }
}

func statusReply(code int) reply {
	return func(int) (entity.Envelope, error) {
		return nil, &entity.StatusError{StatusCode: code, Body: []byte(fmt.Sprintf(`{"status":%d}`, code))}
	}
}

// failThen fails the first n calls with status code, then delegates to next.
func failThen(n, code int, next reply) reply {
	return func(i int) (entity.Envelope, error) {
		if i <= n {
			return statusReply(code)(i)
		}
		return next(i)
	}
}
