package identity

// Kind classifies every failure a lifecycle operation can produce. The
// HTTP boundary maps kinds to status codes through a single lookup
// table instead of per-call conditionals.
type Kind int

const (
	KindValidation Kind = iota
	KindUnauthenticated
	KindForbidden
	KindNotFound
	KindConflict
	KindInvalidState
	KindExpired
	KindInvalidCredential
	KindInvalidOrExpired
	KindInternal
)

// Error is the closed error type returned by Service operations.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string { return e.Message }

// E builds an *Error from a kind and message.
func E(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}
