// Package aggregator folds normalized balance records into per-user and
// platform-wide summary figures.
package aggregator

import (
	"sort"

	"dashboard_client/internal/domain/entity"

	"github.com/shopspring/decimal"
)

// AggregateUser derives the per-user summary. Fields pass through unchanged
// and NetWorth is cash plus holdings.
func AggregateUser(b entity.CanonicalBalance) entity.UserSummary {
	netWorth, _ := decimal.NewFromFloat(b.CashBalance).
		Add(decimal.NewFromFloat(b.TotalHoldingBalance)).
		Float64()
	return entity.UserSummary{
		CanonicalBalance: b,
		NetWorth:         netWorth,
		Degraded:         b.Degraded(),
	}
}

// View projects a balance for the balance screen.
func View(b entity.CanonicalBalance) entity.BalanceView {
	summary := AggregateUser(b)
	tokens := b.Tokens()
	view := entity.BalanceView{
		TotalBalance:        b.TotalBalance,
		CashBalance:         b.CashBalance,
		TotalHoldingBalance: b.TotalHoldingBalance,
		AllTimeProfit:       b.AllTimeProfit,
		NetWorth:            summary.NetWorth,
		Tokens:              make([]entity.TokenValue, 0, len(tokens)),
		Error:               b.Error,
	}
	for _, t := range tokens {
		view.Tokens = append(view.Tokens, entity.TokenValue{Symbol: t.Symbol, Balance: t.Balance, Value: t.ValueInUSD})
	}
	return view
}

// holdingKey identifies a token across users: by mint when known, otherwise by symbol.
type holdingKey struct {
	mint   string
	symbol string
}

func keyOf(h entity.Holding) holdingKey {
	if h.Mint != "" {
		return holdingKey{mint: h.Mint}
	}
	return holdingKey{symbol: h.Symbol}
}

type holdingAcc struct {
	symbol  string
	mint    string
	balance decimal.Decimal
	value   decimal.Decimal
	holders int
}

// pickSymbol keeps the smallest known symbol seen for a mint. The Unknown
// fallback only wins when no entry carried a symbol.
func pickSymbol(cur, next string) string {
	switch {
	case cur == "":
		return next
	case next == entity.UnknownSymbol:
		return cur
	case cur == entity.UnknownSymbol || next < cur:
		return next
	}
	return cur
}

// AggregateAcrossUsers sums cash and holdings across users and merges their
// tokens by mint address, or by symbol for tokens without one. Records with Err
// are excluded and counted in Skipped. Degraded records still contribute, are
// counted in DegradedCount and, when the user is known, listed in DegradedUsers.
// Sums are accumulated exactly, so the result does not depend on input order.
func AggregateAcrossUsers(records []entity.UserBalanceRecord) entity.AggregateTotals {
	cash := decimal.Zero
	holding := decimal.Zero
	merged := make(map[holdingKey]*holdingAcc)

	totals := entity.AggregateTotals{TokenHoldings: []entity.TokenHoldingSummary{}}
	for _, rec := range records {
		if rec.Err != nil {
			totals.Skipped++
			continue
		}
		b := rec.Balance
		totals.TotalUsers++
		if b.Degraded() {
			totals.DegradedCount++
			if rec.User.ID != "" {
				totals.DegradedUsers = append(totals.DegradedUsers, rec.User.ID)
			}
		}

		cash = cash.Add(decimal.NewFromFloat(b.CashBalance))
		holding = holding.Add(decimal.NewFromFloat(b.TotalHoldingBalance))

		seen := make(map[holdingKey]bool)
		for _, t := range b.Tokens() {
			key := keyOf(t)
			acc, ok := merged[key]
			if !ok {
				acc = &holdingAcc{mint: t.Mint, balance: decimal.Zero, value: decimal.Zero}
				merged[key] = acc
			}
			acc.symbol = pickSymbol(acc.symbol, t.Symbol)
			acc.balance = acc.balance.Add(decimal.NewFromFloat(t.Balance))
			acc.value = acc.value.Add(decimal.NewFromFloat(t.ValueInUSD))
			if !seen[key] {
				acc.holders++
				seen[key] = true
			}
		}
	}

	totals.TotalCashBalance, _ = cash.Float64()
	totals.TotalHoldingBalance, _ = holding.Float64()
	totals.TotalInUSDC, _ = cash.Add(holding).Float64()

	for _, acc := range merged {
		// Zero or negative positions are display noise.
		if !acc.balance.IsPositive() {
			continue
		}
		balance, _ := acc.balance.Float64()
		value, _ := acc.value.Float64()
		totals.TokenHoldings = append(totals.TokenHoldings, entity.TokenHoldingSummary{
			Symbol:     acc.symbol,
			Mint:       acc.mint,
			Balance:    balance,
			ValueInUSD: value,
			Holders:    acc.holders,
		})
	}
	sortHoldings(totals.TokenHoldings)
	sort.Strings(totals.DegradedUsers)
	return totals
}

// AggregateBalances aggregates plain balances that all normalized successfully.
func AggregateBalances(balances []entity.CanonicalBalance) entity.AggregateTotals {
	records := make([]entity.UserBalanceRecord, len(balances))
	for i, b := range balances {
		records[i] = entity.UserBalanceRecord{Balance: b}
	}
	return AggregateAcrossUsers(records)
}

// sortHoldings orders by USD value descending, then symbol and mint ascending.
func sortHoldings(h []entity.TokenHoldingSummary) {
	sort.SliceStable(h, func(i, j int) bool {
		if h[i].ValueInUSD != h[j].ValueInUSD {
			return h[i].ValueInUSD > h[j].ValueInUSD
		}
		if h[i].Symbol != h[j].Symbol {
			return h[i].Symbol < h[j].Symbol
		}
		return h[i].Mint < h[j].Mint
	})
}
