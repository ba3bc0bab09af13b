package restapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"dashboard_client/internal/domain/entity"
	"dashboard_client/internal/pkg/logger"

	"github.com/gin-gonic/gin"
	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"
)

type fakeBalances struct {
	view         *entity.BalanceView
	withHoldings bool
	err          error
}

func (f *fakeBalances) GetMyBalance(_ context.Context, withHoldings bool) (*entity.BalanceView, error) {
	f.withHoldings = withHoldings
	return f.view, f.err
}

func (f *fakeBalances) GetUserBalance(_ context.Context, userID string) (*entity.UserSummary, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &entity.UserSummary{NetWorth: 42, CanonicalBalance: entity.CanonicalBalance{CashBalance: 42}}, nil
}

func (f *fakeBalances) GetTotalBalance(context.Context) (*entity.AggregateTotals, error) {
	return &entity.AggregateTotals{TotalInUSDC: 10}, f.err
}

func (f *fakeBalances) GetAllUsersWithBalances(context.Context) ([]entity.UserBalanceRecord, error) {
	return nil, f.err
}

func (f *fakeBalances) AggregateAllUsers(context.Context) (*entity.AggregateTotals, error) {
	return &entity.AggregateTotals{TotalUsers: 2, Skipped: 1, TokenHoldings: []entity.TokenHoldingSummary{}}, f.err
}

type fakeGraphs struct {
	err        error
	lastRange  entity.GraphRange
	lastToggle bool
	lastDays   int
}

func (f *fakeGraphs) GetTokenGraph(_ context.Context, _ string, r entity.GraphRange) ([]entity.GraphPoint, error) {
	f.lastRange = r
	if !r.Valid() {
		return nil, fmt.Errorf("%w: %q", entity.ErrInvalidGraphRange, r)
	}
	return []entity.GraphPoint{{Price: 1}}, f.err
}

func (f *fakeGraphs) SetCronActive(_ context.Context, _ string, active bool) (*entity.ActionResult, error) {
	f.lastToggle = active
	return &entity.ActionResult{Success: true}, f.err
}

func (f *fakeGraphs) SetAllowLatest(_ context.Context, _ string, allow bool) (*entity.ActionResult, error) {
	f.lastToggle = allow
	return &entity.ActionResult{Success: true}, f.err
}

func (f *fakeGraphs) DeleteGraph(context.Context, string) (*entity.ActionResult, error) {
	return &entity.ActionResult{Success: true, Message: "deleted"}, f.err
}

func (f *fakeGraphs) PopulateGraph(_ context.Context, _ string, days int) (*entity.ActionResult, error) {
	f.lastDays = days
	return &entity.ActionResult{Success: true}, f.err
}

func (f *fakeGraphs) EnableCron(context.Context, string) (*entity.ActionResult, error) {
	return &entity.ActionResult{Success: true}, f.err
}

func (f *fakeGraphs) GetGraphStats(context.Context) (*entity.GraphStats, error) {
	return &entity.GraphStats{TotalTokens: 3}, f.err
}

type fakeDashboard struct {
	overview *entity.Overview
	err      error
}

func (f *fakeDashboard) LoadOverview(context.Context) (*entity.Overview, error) {
	return f.overview, f.err
}

func (f *fakeDashboard) ListTokens(context.Context) ([]entity.Token, error) {
	return []entity.Token{{Symbol: "SOL"}}, f.err
}

func newTestRouter(b *fakeBalances, g *fakeGraphs, d *fakeDashboard) *gin.Engine {
	gin.SetMode(gin.TestMode)
	return SetupRouter(NewHandler(b, g, d, logger.NewNop()), nil, zap.NewNop())
}

func serve(r http.Handler, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestGetMyBalanceHandler(t *testing.T) {
	b := &fakeBalances{view: &entity.BalanceView{TotalBalance: 123.45, Tokens: []entity.TokenValue{{Symbol: "SOL", Balance: 2, Value: 40}}}}
	r := newTestRouter(b, &fakeGraphs{}, &fakeDashboard{})

	w := serve(r, http.MethodGet, "/api/v1/balance/me?holdings=true", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body)
	}
	if !b.withHoldings {
		t.Error("expected holdings to be requested")
	}

	var resp struct {
		Data entity.BalanceView `json:"data"`
	}
	if err := jsoniter.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Data.TotalBalance != 123.45 || len(resp.Data.Tokens) != 1 || resp.Data.Tokens[0].Value != 40 {
		t.Errorf("data = %+v", resp.Data)
	}
}

func TestErrorMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"backend status passes through", &entity.StatusError{StatusCode: http.StatusNotFound}, http.StatusNotFound},
		{"wrapped backend status", fmt.Errorf("fetch: %w", &entity.StatusError{StatusCode: http.StatusForbidden}), http.StatusForbidden},
		{"malformed envelope", &entity.MalformedEnvelopeError{Resource: "balance"}, http.StatusBadGateway},
		{"no response", &entity.NetworkError{Err: errors.New("dial tcp: refused")}, http.StatusGatewayTimeout},
		{"no session", entity.ErrNoSessionToken, http.StatusUnauthorized},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTestRouter(&fakeBalances{err: tt.err}, &fakeGraphs{}, &fakeDashboard{})
			w := serve(r, http.MethodGet, "/api/v1/admin/balances/u1", "")
			if w.Code != tt.want {
				t.Errorf("status = %d, want %d", w.Code, tt.want)
			}
			if !strings.Contains(w.Body.String(), `"error"`) {
				t.Errorf("expected an error field, body = %s", w.Body)
			}
		})
	}
}

func TestBalanceRoutesDoNotCollide(t *testing.T) {
	r := newTestRouter(&fakeBalances{}, &fakeGraphs{}, &fakeDashboard{})

	for _, path := range []string{"/api/v1/admin/balances/total", "/api/v1/admin/balances/summary", "/api/v1/admin/balances/abc"} {
		if w := serve(r, http.MethodGet, path, ""); w.Code != http.StatusOK {
			t.Errorf("%s: status = %d", path, w.Code)
		}
	}
	w := serve(r, http.MethodGet, "/api/v1/admin/balances/summary", "")
	if !strings.Contains(w.Body.String(), "skipped") {
		t.Errorf("summary body = %s", w.Body)
	}
}

func TestGetTokenGraphHandler(t *testing.T) {
	g := &fakeGraphs{}
	r := newTestRouter(&fakeBalances{}, g, &fakeDashboard{})

	if w := serve(r, http.MethodGet, "/api/v1/tokens/t1/graph", ""); w.Code != http.StatusOK {
		t.Errorf("status = %d", w.Code)
	}
	if g.lastRange != entity.GraphRangeMax {
		t.Errorf("default range = %q", g.lastRange)
	}
	if w := serve(r, http.MethodGet, "/api/v1/tokens/t1/graph?type=1w", ""); w.Code != http.StatusBadRequest {
		t.Errorf("invalid range status = %d", w.Code)
	}
}

func TestGraphCommandHandlers(t *testing.T) {
	g := &fakeGraphs{}
	r := newTestRouter(&fakeBalances{}, g, &fakeDashboard{})

	if w := serve(r, http.MethodPut, "/api/v1/admin/tokens/t1/graph/cron", `{"enabled":true}`); w.Code != http.StatusOK || !g.lastToggle {
		t.Errorf("cron: status = %d toggle = %v", w.Code, g.lastToggle)
	}
	if w := serve(r, http.MethodPut, "/api/v1/admin/tokens/t1/graph/allow-latest", `{}`); w.Code != http.StatusBadRequest {
		t.Errorf("missing enabled: status = %d", w.Code)
	}
	if w := serve(r, http.MethodPost, "/api/v1/admin/tokens/t1/graph/populate?days=7", ""); w.Code != http.StatusOK || g.lastDays != 7 {
		t.Errorf("populate: status = %d days = %d", w.Code, g.lastDays)
	}
	if w := serve(r, http.MethodPost, "/api/v1/admin/tokens/t1/graph/populate?days=-1", ""); w.Code != http.StatusBadRequest {
		t.Errorf("bad days: status = %d", w.Code)
	}
	w := serve(r, http.MethodDelete, "/api/v1/admin/tokens/t1/graph", "")
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "deleted") {
		t.Errorf("delete: status = %d body = %s", w.Code, w.Body)
	}
}

func TestGetOverviewHandler(t *testing.T) {
	partial := &entity.Overview{Errors: map[string]string{entity.ResourceTransactions: "forbidden"}}
	r := newTestRouter(&fakeBalances{}, &fakeGraphs{}, &fakeDashboard{overview: partial})
	if w := serve(r, http.MethodGet, "/api/v1/dashboard/overview", ""); w.Code != http.StatusPartialContent {
		t.Errorf("partial status = %d", w.Code)
	}

	r = newTestRouter(&fakeBalances{}, &fakeGraphs{}, &fakeDashboard{overview: &entity.Overview{}})
	if w := serve(r, http.MethodGet, "/api/v1/dashboard/overview", ""); w.Code != http.StatusOK {
		t.Errorf("complete status = %d", w.Code)
	}
}

func TestHealthAndMetrics(t *testing.T) {
	r := newTestRouter(&fakeBalances{}, &fakeGraphs{}, &fakeDashboard{})
	w := serve(r, http.MethodGet, "/healthz", "")
	if w.Code != http.StatusOK {
		t.Errorf("healthz = %d", w.Code)
	}
	if w.Header().Get("X-Request-ID") == "" {
		t.Error("expected a request id header")
	}
	if w := serve(r, http.MethodGet, "/metrics", ""); w.Code != http.StatusOK {
		t.Errorf("metrics = %d", w.Code)
	}
}
