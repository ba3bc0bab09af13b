package entity

// UnknownSymbol is used for token entries that arrive without a symbol.
const UnknownSymbol = "Unknown"

// Holding represents a user's position in a single token.
// Token accounts and holdings share this shape.
type Holding struct {
	Symbol     string  `json:"symbol"`
	Mint       string  `json:"mint,omitempty"`
	Balance    float64 `json:"balance"`
	ValueInUSD float64 `json:"valueInUSD"`
	PriceUSD   float64 `json:"priceUSD,omitempty"`
}

// TokenAccount is an alias kept for readability at call sites that deal with on-chain accounts.
type TokenAccount = Holding

// CanonicalBalance is the normalized balance record for one user.
// All numeric fields are finite; missing or unparseable source values are zero.
type CanonicalBalance struct {
	TotalBalance        float64        `json:"totalBalance"`
	CashBalance         float64        `json:"cashBalance"`
	TotalHoldingBalance float64        `json:"totalHoldingBalance"`
	AllTimeProfit       float64        `json:"allTimeProfit"`
	TokenAccounts       []TokenAccount `json:"tokenAccounts"`
	Holdings            []Holding      `json:"holdings"`
	// Error is set when the upstream computation degraded but still returned best-effort figures.
	Error string `json:"error,omitempty"`
}

// Degraded reports whether the upstream flagged the figures as best-effort.
func (b CanonicalBalance) Degraded() bool {
	return b.Error != ""
}

// Tokens returns the holdings when present, otherwise the token accounts.
func (b CanonicalBalance) Tokens() []Holding {
	if len(b.Holdings) > 0 {
		return b.Holdings
	}
	return b.TokenAccounts
}

// UserSummary is the per-user view derived from a CanonicalBalance.
type UserSummary struct {
	CanonicalBalance
	NetWorth float64 `json:"netWorth"`
	Degraded bool    `json:"degraded"`
}

// TokenValue is the compact token row shown on the balance screen.
type TokenValue struct {
	Symbol  string  `json:"symbol"`
	Balance float64 `json:"balance"`
	Value   float64 `json:"value"`
}

// BalanceView is the projection returned for the authenticated user's balance.
type BalanceView struct {
	TotalBalance        float64      `json:"totalBalance"`
	CashBalance         float64      `json:"cashBalance"`
	TotalHoldingBalance float64      `json:"totalHoldingBalance"`
	AllTimeProfit       float64      `json:"allTimeProfit"`
	NetWorth            float64      `json:"netWorth"`
	Tokens              []TokenValue `json:"tokens"`
	Error               string       `json:"error,omitempty"`
}
