package jwtx

import (
	"encoding/base64"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

func TestSignVerifyRoundTrip(t *testing.T) {
	t.Parallel()

	codec, err := NewCodec("signing-secret")
	require.NoError(t, err)

	now := time.Now()
	claims := NewAccessClaims("alice", 42, []string{"ADMIN", "STAFF"}, "fp-abc", 15*time.Minute, now)

	token, err := codec.Sign(claims)
	require.NoError(t, err)
	require.Equal(t, 3, len(strings.Split(token, ".")))

	got, err := codec.Verify(token)
	require.NoError(t, err)
	require.Equal(t, "alice", got.Subject)
	require.Equal(t, int64(42), got.UserID)
	require.Equal(t, RoleList{"ADMIN", "STAFF"}, got.Authorities)
	require.Equal(t, "fp-abc", got.Fingerprint)
	require.NotEmpty(t, got.ID)
	require.WithinDuration(t, now.Add(15*time.Minute), got.ExpiresAt.Time, time.Second)
}

func TestFreshJTIPerToken(t *testing.T) {
	t.Parallel()

	a := NewAccessClaims("alice", 1, nil, "fp", time.Minute, time.Now())
	b := NewAccessClaims("alice", 1, nil, "fp", time.Minute, time.Now())
	require.NotEqual(t, a.ID, b.ID)
}

func TestVerifyRejections(t *testing.T) {
	t.Parallel()

	codec, err := NewCodec("signing-secret")
	require.NoError(t, err)

	valid, err := codec.Sign(NewAccessClaims("alice", 42, []string{"ADMIN"}, "fp", time.Minute, time.Now()))
	require.NoError(t, err)

	t.Run("structurally invalid before MAC check", func(t *testing.T) {
		for _, tok := range []string{"", "abc", "a.b", "a.b.c.d", "no dots at all"} {
			_, err := codec.Verify(tok)
			require.ErrorIs(t, err, ErrMalformed, "token %q", tok)
		}
	})

	t.Run("wrong secret", func(t *testing.T) {
		other, err := NewCodec("other-secret")
		require.NoError(t, err)

		_, err = other.Verify(valid)
		require.ErrorIs(t, err, ErrInvalidSig)
	})

	t.Run("tampered payload", func(t *testing.T) {
		parts := strings.Split(valid, ".")
		payload, err := base64.RawURLEncoding.DecodeString(parts[1])
		require.NoError(t, err)

		forged := strings.Replace(string(payload), `"userId":42`, `"userId":1`, 1)
		parts[1] = base64.RawURLEncoding.EncodeToString([]byte(forged))

		_, err = codec.Verify(strings.Join(parts, "."))
		require.ErrorIs(t, err, ErrInvalidSig)
	})

	t.Run("expired", func(t *testing.T) {
		expired, err := codec.Sign(NewAccessClaims("alice", 42, nil, "fp", -time.Minute, time.Now()))
		require.NoError(t, err)

		_, err = codec.Verify(expired)
		require.ErrorIs(t, err, ErrExpired)
	})

	t.Run("alg none rejected", func(t *testing.T) {
		tok := jwt.NewWithClaims(jwt.SigningMethodNone, NewAccessClaims("alice", 42, nil, "fp", time.Minute, time.Now()))
		signed, err := tok.SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)

		_, err = codec.Verify(signed)
		require.Error(t, err)
	})
}

func TestExtractUnverified(t *testing.T) {
	t.Parallel()

	codec, err := NewCodec("signing-secret")
	require.NoError(t, err)

	// Expired and signed with a different secret: still extractable.
	other, err := NewCodec("other-secret")
	require.NoError(t, err)
	token, err := other.Sign(NewAccessClaims("alice", 42, nil, "fp", -time.Minute, time.Now()))
	require.NoError(t, err)

	claims, err := codec.ExtractUnverified(token)
	require.NoError(t, err)
	require.Equal(t, "alice", claims.Subject)
	require.NotEmpty(t, claims.ID)

	_, err = codec.ExtractUnverified("not-a-token")
	require.ErrorIs(t, err, ErrMalformed)
}

func TestRoleListDecodeCompat(t *testing.T) {
	t.Parallel()

	decode := func(t *testing.T, raw string) RoleList {
		t.Helper()
		var r RoleList
		require.NoError(t, json.Unmarshal([]byte(raw), &r))
		return r
	}

	t.Run("canonical array", func(t *testing.T) {
		require.Equal(t, RoleList{"ADMIN", "STAFF"}, decode(t, `["ADMIN","STAFF"]`))
	})

	t.Run("json array inside a string", func(t *testing.T) {
		require.Equal(t, RoleList{"ADMIN", "STAFF"}, decode(t, `"[\"ADMIN\",\"STAFF\"]"`))
	})

	t.Run("bracketed comma-joined string", func(t *testing.T) {
		require.Equal(t, RoleList{"ADMIN", "STAFF"}, decode(t, `"[ADMIN, STAFF]"`))
	})

	t.Run("empty bracketed string", func(t *testing.T) {
		require.Empty(t, decode(t, `"[]"`))
	})

	t.Run("re-encodes canonically", func(t *testing.T) {
		out, err := json.Marshal(decode(t, `"[ADMIN, STAFF]"`))
		require.NoError(t, err)
		require.JSONEq(t, `["ADMIN","STAFF"]`, string(out))
	})

	t.Run("rejects non-list values", func(t *testing.T) {
		var r RoleList
		require.Error(t, json.Unmarshal([]byte(`123`), &r))
	})
}
