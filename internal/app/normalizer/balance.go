package normalizer

import (
	"dashboard_client/internal/domain/entity"
	"dashboard_client/internal/pkg/utils"
)

const (
	ResourceBalance = "balance"
	ResourceTotals  = "totals"
)

// NormalizeBalance returns the CanonicalBalance carried by env.
func NormalizeBalance(env entity.Envelope) (entity.CanonicalBalance, error) {
	rec, err := selectObject(env, ResourceBalance, "balance")
	if err != nil {
		return entity.CanonicalBalance{}, err
	}
	return balanceFromRecord(rec), nil
}

func balanceFromRecord(rec map[string]any) entity.CanonicalBalance {
	b := entity.CanonicalBalance{
		CashBalance:         numberField(rec, "cashBalance", "cash", "usdcBalance"),
		TotalHoldingBalance: numberField(rec, "totalHoldingBalance", "holdingBalance"),
		AllTimeProfit:       numberField(rec, "allTimeProfit", "profit"),
		TokenAccounts:       holdingsFrom(rec["tokenAccounts"]),
		Holdings:            holdingsFrom(rec["holdings"]),
		Error:               errorField(rec),
	}

	// A server-supplied total is authoritative; the sum is only a fallback.
	if total, ok := numberFieldOK(rec, "totalBalance", "totalInUSDC"); ok {
		b.TotalBalance = total
	} else {
		b.TotalBalance = b.CashBalance + b.TotalHoldingBalance
	}
	return b
}

func holdingsFrom(v any) []entity.Holding {
	items, _ := utils.AsSlice(v)
	out := make([]entity.Holding, 0, len(items))
	for _, item := range items {
		m, ok := utils.AsMap(item)
		if !ok {
			continue
		}
		out = append(out, holdingFromRecord(m))
	}
	return out
}

func holdingFromRecord(m map[string]any) entity.Holding {
	symbol := utils.StringField(m, "symbol", "tokenSymbol")
	if symbol == "" {
		symbol = entity.UnknownSymbol
	}
	return entity.Holding{
		Symbol:     symbol,
		Mint:       utils.StringField(m, "mint", "mintAddress", "address"),
		Balance:    numberField(m, "balance", "amount", "uiAmount"),
		ValueInUSD: numberField(m, "valueInUSD", "value", "usdValue"),
		PriceUSD:   numberField(m, "priceUSD", "price"),
	}
}

func errorField(m map[string]any) string {
	v, ok := utils.FirstKey(m, "error", "balanceError")
	if !ok {
		return ""
	}
	switch e := v.(type) {
	case string:
		return e
	case map[string]any:
		if msg := utils.StringField(e, "message", "msg"); msg != "" {
			return msg
		}
		return "balance degraded"
	case bool:
		if e {
			return "balance degraded"
		}
	}
	return ""
}

// NormalizeTotals returns the platform totals precomputed by the server.
func NormalizeTotals(env entity.Envelope) (entity.AggregateTotals, error) {
	rec, err := selectObject(env, ResourceTotals, "totals", "totalBalance", "summary")
	if err != nil {
		return entity.AggregateTotals{}, err
	}

	t := entity.AggregateTotals{
		TotalCashBalance:    numberField(rec, "totalCashBalance", "cashBalance"),
		TotalHoldingBalance: numberField(rec, "totalHoldingBalance", "holdingBalance"),
		TotalUsers:          int(numberField(rec, "totalUsers", "userCount")),
		TokenHoldings:       tokenSummariesFrom(rec["tokenHoldings"]),
	}
	if total, ok := numberFieldOK(rec, "totalInUSDC", "totalBalance"); ok {
		t.TotalInUSDC = total
	} else {
		t.TotalInUSDC = t.TotalCashBalance + t.TotalHoldingBalance
	}
	return t, nil
}

func tokenSummariesFrom(v any) []entity.TokenHoldingSummary {
	items, _ := utils.AsSlice(v)
	out := make([]entity.TokenHoldingSummary, 0, len(items))
	for _, item := range items {
		m, ok := utils.AsMap(item)
		if !ok {
			continue
		}
		h := holdingFromRecord(m)
		out = append(out, entity.TokenHoldingSummary{
			Symbol:     h.Symbol,
			Mint:       h.Mint,
			Balance:    h.Balance,
			ValueInUSD: h.ValueInUSD,
			Holders:    int(numberField(m, "holders", "holderCount")),
		})
	}
	return out
}

// NormalizeUsersWithBalances returns one record per listed user. A user whose
// balance matches no known shape is kept with Err set so callers can count it.
func NormalizeUsersWithBalances(env entity.Envelope) ([]entity.UserBalanceRecord, error) {
	items, err := selectArray(env, "users-with-balances", "users", "items")
	if err != nil {
		return nil, err
	}

	out := make([]entity.UserBalanceRecord, 0, len(items))
	for _, item := range items {
		m, ok := utils.AsMap(item)
		if !ok {
			out = append(out, entity.UserBalanceRecord{
				Err: &entity.MalformedEnvelopeError{Resource: ResourceBalance, Envelope: item},
			})
			continue
		}

		userRec := m
		if u, ok := utils.AsMap(m["user"]); ok {
			userRec = u
		}
		rec := entity.UserBalanceRecord{User: userRefFromRecord(userRec)}

		rawBalance, present := m["balance"]
		if !present || rawBalance == nil {
			rec.Err = &entity.MalformedEnvelopeError{Resource: ResourceBalance, Envelope: rawBalance}
		} else if balance, err := NormalizeBalance(rawBalance); err != nil {
			rec.Err = err
		} else {
			rec.Balance = balance
		}
		out = append(out, rec)
	}
	return out, nil
}

func userRefFromRecord(m map[string]any) entity.UserRef {
	return entity.UserRef{
		ID:       utils.StringField(m, "_id", "id", "userId"),
		Email:    utils.StringField(m, "email"),
		Username: utils.StringField(m, "username", "name"),
	}
}
