package entity

// Dashboard list resources loaded together for the overview screen.
const (
	ResourceUsers        = "users"
	ResourceTokens       = "tokens"
	ResourceTransactions = "transactions"
	ResourceCategories   = "categories"
)

// Overview is the joined result of the concurrent dashboard fetches.
// A resource that failed has an entry in Errors and an empty list.
type Overview struct {
	Users        CanonicalList     `json:"users"`
	Tokens       CanonicalList     `json:"tokens"`
	Transactions CanonicalList     `json:"transactions"`
	Categories   CanonicalList     `json:"categories"`
	Errors       map[string]string `json:"errors,omitempty"`
}

// Complete reports whether every resource loaded.
func (o *Overview) Complete() bool {
	return len(o.Errors) == 0
}
