// Package domain holds the session-token subsystem's data model.
package domain

import "time"

// SessionRecord is the server-side state binding an access token to the
// device fingerprint recorded at issuance. The fingerprint never changes
// after creation: a mismatching request destroys the session instead of
// updating it.
type SessionRecord struct {
	UserID            int64     `json:"user_id"`
	DeviceFingerprint string    `json:"device_fingerprint"`
	CreatedAt         time.Time `json:"created_at"`
	LastActivityAt    time.Time `json:"last_activity_at"`
}

// RefreshRecord is the single-use server-side state behind a refresh token.
// It is deleted the instant it is read for rotation.
type RefreshRecord struct {
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
}

// Blacklist reason tags.
const (
	BlacklistReasonStolen  = "stolen"
	BlacklistReasonRevoked = "revoked"
)
