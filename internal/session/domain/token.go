package domain

import (
	"time"

	"github.com/oakhall/depot/pkg/jwtx"
)

// TokenPair is what a successful issuance or rotation hands back to the
// caller: two opaque envelopes plus the access token's validity window.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
	ExpiresIn    time.Duration
}

// Authentication is the outcome of a fully successful validation: the
// verified claims augmented with the session id they are bound to. Callers
// build their own authorization context from these fields.
type Authentication struct {
	Claims    jwtx.Claims
	SessionID string
}
