package port

// SessionStore is the read/write contract of the external session storage.
type SessionStore interface {
	// Token returns the bearer token, or an empty string when logged out.
	Token() string
	SetToken(token string)
	Clear()
}
