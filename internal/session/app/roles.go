package app

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// httpRoleSource resolves a user's current roles from the platform's user
// directory service. Refresh rotation consults it so role changes land on
// the next rotation rather than waiting for the session to die.
type httpRoleSource struct {
	baseURL string
	client  *http.Client
}

func newHTTPRoleSource(baseURL string) *httpRoleSource {
	return &httpRoleSource{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client:  &http.Client{Timeout: 5 * time.Second},
	}
}

func (s *httpRoleSource) RolesForUser(ctx context.Context, userID int64) ([]string, error) {
	url := s.baseURL + "/v1/users/" + strconv.FormatInt(userID, 10) + "/roles"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build role lookup: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("role lookup: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("role lookup: unexpected status %d", resp.StatusCode)
	}

	var body struct {
		Authorities []string `json:"authorities"`
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode role lookup: %w", err)
	}
	return body.Authorities, nil
}

// noRoles is the fallback when no directory is configured. Rotated tokens
// carry no authorities, which fails closed for role-guarded endpoints.
type noRoles struct{}

func (noRoles) RolesForUser(context.Context, int64) ([]string, error) {
	return nil, nil
}
