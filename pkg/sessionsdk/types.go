package sessionsdk

// IssueRequest asks the service to mint a session for an already
// authenticated user. Credential verification happens upstream; this
// subsystem only records the outcome.
type IssueRequest struct {
	UserID      int64    `json:"user_id"`
	Username    string   `json:"username"`
	Authorities []string `json:"authorities,omitempty"`
}

// TokenPairResponse is the issuance and rotation response body.
type TokenPairResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
}

// IntrospectionResponse reports the state of a presented access token.
// When the token is not active only the "active" field is present.
type IntrospectionResponse struct {
	Active bool `json:"active"`

	Username    string   `json:"username,omitempty"`
	UserID      int64    `json:"user_id,omitempty"`
	Authorities []string `json:"authorities,omitempty"`
	TokenType   string   `json:"token_type,omitempty"`
	Sub         string   `json:"sub,omitempty"`
	Exp         int64    `json:"exp,omitempty"`
	Iat         int64    `json:"iat,omitempty"`
	Jti         string   `json:"jti,omitempty"`
	SessionID   string   `json:"sid,omitempty"`
}

// HealthChecks breaks a readiness probe down per dependency.
type HealthChecks struct {
	Store string `json:"store"`
}

// HealthResponse is shared by the liveness and readiness endpoints.
type HealthResponse struct {
	Status  string        `json:"status"`
	Uptime  string        `json:"uptime"`
	Version string        `json:"version"`
	Checks  *HealthChecks `json:"checks,omitempty"`
}
