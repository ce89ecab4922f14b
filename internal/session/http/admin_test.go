package http

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/oakhall/depot/pkg/sessionsdk"
)

func TestAdminSessionRevoke(t *testing.T) {
	t.Parallel()
	router := newTestRouter(t)

	adminPair := issuePair(t, router)

	// A second user whose session the operator will destroy.
	rec := doJSON(t, router, http.MethodPost, "/v1/session/issue", "", sessionsdk.IssueRequest{
		UserID:      7,
		Username:    "bob",
		Authorities: []string{"USER"},
	})
	require.Equal(t, http.StatusOK, rec.Code)
	var userPair sessionsdk.TokenPairResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &userPair))

	rec = doJSON(t, router, http.MethodPost, "/v1/session/introspect", userPair.AccessToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var intro sessionsdk.IntrospectionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &intro))
	require.NotEmpty(t, intro.SessionID)

	target := "/v1/session/sessions/" + intro.SessionID

	t.Run("rejects anonymous callers", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodDelete, target, "", nil)
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("rejects callers without the admin role", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodDelete, target, userPair.AccessToken, nil)
		require.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("admin destroys the session", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodDelete, target, adminPair.AccessToken, nil)
		require.Equal(t, http.StatusOK, rec.Code)

		// The force-logged-out token no longer authenticates.
		rec = doJSON(t, router, http.MethodGet, "/v1/session/whoami", userPair.AccessToken, nil)
		require.Equal(t, http.StatusUnauthorized, rec.Code)

		// Deleting an already-gone session still succeeds.
		rec = doJSON(t, router, http.MethodDelete, target, adminPair.AccessToken, nil)
		require.Equal(t, http.StatusOK, rec.Code)
	})
}
