package httpx

import "context"

// Identity is the caller-facing authorization context built from validated
// claims. Role strings are passed through uninterpreted.
type Identity struct {
	UserID      int64
	Username    string
	Authorities []string
	SessionID   string
	TokenID     string
}

type ctxKey string

const ctxKeyIdentity ctxKey = "identity"

// WithIdentity attaches a validated identity to the context.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, ctxKeyIdentity, id)
}

// ClearIdentity removes any ambient identity. A failed validation must
// never leave a half-authenticated state behind.
func ClearIdentity(ctx context.Context) context.Context {
	return context.WithValue(ctx, ctxKeyIdentity, nil)
}

// IdentityFromContext returns the attached identity, if any.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(ctxKeyIdentity).(Identity)
	return id, ok
}
