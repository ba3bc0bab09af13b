package service

import (
	"context"
	"errors"
	"net/http"
	"reflect"
	"testing"

	"dashboard_client/internal/domain/entity"
	"dashboard_client/internal/pkg/logger"
)

func TestGetMyBalanceScenario(t *testing.T) {
	api := newFakeAPI().on(http.MethodGet, "/user/balance", jsonReply(t,
		`{"body":{"data":{"balance":{"totalBalance":"123.45","tokenAccounts":[{"symbol":"SOL","balance":"2","valueInUSD":"40"}]}}}}`))
	svc := NewBalanceService(api, logger.NewNop())

	view, err := svc.GetMyBalance(context.Background(), true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if view.TotalBalance != 123.45 {
		t.Errorf("total = %v", view.TotalBalance)
	}
	want := []entity.TokenValue{{Symbol: "SOL", Balance: 2, Value: 40}}
	if !reflect.DeepEqual(view.Tokens, want) {
		t.Errorf("tokens = %+v", view.Tokens)
	}
	if got := api.lastCall().query.Get("isHoldings"); got != "true" {
		t.Errorf("isHoldings = %q", got)
	}
}

func TestGetMyBalanceWithoutHoldingsUsesTokenAccounts(t *testing.T) {
	api := newFakeAPI().on(http.MethodGet, "/user/balance", jsonReply(t,
		`{"data":{"cashBalance":"1","holdings":[{"symbol":"JUP","balance":1,"valueInUSD":1}],"tokenAccounts":[{"symbol":"SOL","balance":1,"valueInUSD":3}]}}`))
	svc := NewBalanceService(api, logger.NewNop())

	view, err := svc.GetMyBalance(context.Background(), false)
	if err != nil {
		t.Fatal(err)
	}
	if len(view.Tokens) != 1 || view.Tokens[0].Symbol != "SOL" {
		t.Errorf("tokens = %+v", view.Tokens)
	}
	if api.lastCall().query != nil {
		t.Errorf("expected no query, got %v", api.lastCall().query)
	}
}

func TestBalanceErrorsAreNotRetried(t *testing.T) {
	for _, code := range []int{404, 503} {
		api := newFakeAPI().on(http.MethodGet, "/user/balance", statusReply(code))
		svc := NewBalanceService(api, logger.NewNop())

		_, err := svc.GetMyBalance(context.Background(), false)
		var se *entity.StatusError
		if !errors.As(err, &se) || se.StatusCode != code {
			t.Errorf("status %d: unexpected error %v", code, err)
		}
		if n := api.count(http.MethodGet, "/user/balance"); n != 1 {
			t.Errorf("status %d: expected 1 call, got %d", code, n)
		}
	}
}

func TestGetMyBalanceMalformed(t *testing.T) {
	api := newFakeAPI().on(http.MethodGet, "/user/balance", jsonReply(t, `["not","a","balance"]`))
	svc := NewBalanceService(api, logger.NewNop())

	_, err := svc.GetMyBalance(context.Background(), true)
	var me *entity.MalformedEnvelopeError
	if !errors.As(err, &me) {
		t.Fatalf("expected MalformedEnvelopeError, got %v", err)
	}
	if me.Envelope == nil {
		t.Error("expected the raw envelope to be attached")
	}
}

func TestGetUserBalance(t *testing.T) {
	api := newFakeAPI().on(http.MethodGet, "/admin/user/balance/u%2F1", jsonReply(t,
		`{"data":{"balance":{"cashBalance":"10.5","totalHoldingBalance":"4.5","error":"price feed stale"}}}`))
	svc := NewBalanceService(api, logger.NewNop())

	summary, err := svc.GetUserBalance(context.Background(), "u/1")
	if err != nil {
		t.Fatal(err)
	}
	if summary.NetWorth != 15 || !summary.Degraded || summary.TotalBalance != 15 {
		t.Errorf("summary = %+v", summary)
	}

	if _, err := svc.GetUserBalance(context.Background(), ""); err == nil {
		t.Error("expected error for empty user id")
	}
}

func TestGetTotalBalance(t *testing.T) {
	api := newFakeAPI().on(http.MethodGet, "/admin/user/total-balance", jsonReply(t,
		`{"data":{"totals":{"totalCashBalance":"100","totalHoldingBalance":"50","totalUsers":3}}}`))
	svc := NewBalanceService(api, logger.NewNop())

	totals, err := svc.GetTotalBalance(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if totals.TotalInUSDC != 150 || totals.TotalUsers != 3 {
		t.Errorf("totals = %+v", totals)
	}
}

func TestAggregateAllUsers(t *testing.T) {
	api := newFakeAPI().on(http.MethodGet, "/admin/user/all-with-balances", jsonReply(t, `{"data":{"users":[
		{"user":{"_id":"a"},"balance":{"cashBalance":"1","totalHoldingBalance":"100","holdings":[{"symbol":"SOL","mint":"m","balance":"10","valueInUSD":"100"}]}},
		{"user":{"_id":"b"},"balance":{"cashBalance":"2","totalHoldingBalance":"50","error":"partial","holdings":[{"symbol":"SOL","mint":"m","balance":"5","valueInUSD":"50"}]}},
		{"user":{"_id":"c"},"balance":"garbage"}
	]}}`))
	svc := NewBalanceService(api, logger.NewNop())

	totals, err := svc.AggregateAllUsers(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if totals.TotalUsers != 2 || totals.Skipped != 1 {
		t.Errorf("users=%d skipped=%d", totals.TotalUsers, totals.Skipped)
	}
	if totals.TotalInUSDC != 153 {
		t.Errorf("totalInUSDC = %v", totals.TotalInUSDC)
	}
	want := []entity.TokenHoldingSummary{{Symbol: "SOL", Mint: "m", Balance: 15, ValueInUSD: 150, Holders: 2}}
	if !reflect.DeepEqual(totals.TokenHoldings, want) {
		t.Errorf("holdings = %+v", totals.TokenHoldings)
	}
	if !reflect.DeepEqual(totals.DegradedUsers, []string{"b"}) {
		t.Errorf("degraded = %v", totals.DegradedUsers)
	}
}
