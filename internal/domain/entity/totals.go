package entity

// TokenHoldingSummary is one token merged across many users.
type TokenHoldingSummary struct {
	Symbol     string  `json:"symbol"`
	Mint       string  `json:"mint,omitempty"`
	Balance    float64 `json:"balance"`
	ValueInUSD float64 `json:"valueInUSD"`
	Holders    int     `json:"holders"`
}

// AggregateTotals holds platform-wide balance figures.
type AggregateTotals struct {
	TotalCashBalance    float64               `json:"totalCashBalance"`
	TotalHoldingBalance float64               `json:"totalHoldingBalance"`
	TotalInUSDC         float64               `json:"totalInUSDC"`
	TotalUsers          int                   `json:"totalUsers"`
	TokenHoldings       []TokenHoldingSummary `json:"tokenHoldings"`
	// Skipped counts users whose balance could not be normalized at all.
	Skipped int `json:"skipped"`
	// DegradedCount counts users whose figures were included on a best-effort basis.
	DegradedCount int `json:"degradedCount"`
	// DegradedUsers lists the IDs of those users, when known.
	DegradedUsers []string `json:"degradedUsers,omitempty"`
}

// UserRef identifies a user in admin listings.
type UserRef struct {
	ID       string `json:"id"`
	Email    string `json:"email,omitempty"`
	Username string `json:"username,omitempty"`
}

// UserBalanceRecord is one entry of the all-users balance listing.
type UserBalanceRecord struct {
	User    UserRef          `json:"user"`
	Balance CanonicalBalance `json:"balance"`
	// Err is set when the balance failed normalization entirely.
	Err error `json:"-"`
}
