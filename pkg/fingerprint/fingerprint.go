// Package fingerprint derives a stable per-device identity string from
// request metadata. The hash binds a token to the device that obtained it;
// it is a binding check, not identity proof. Proxies, shared NAT and
// browser updates can all shift it, forcing a re-login.
package fingerprint

import (
	"encoding/hex"
	"net"
	"net/http"
	"strings"

	"golang.org/x/crypto/blake2b"
)

// Size is the digest length in bytes (128 bits).
const Size = 16

// Metadata carries the request fields the fingerprint is derived from.
// Deliberately excludes anything per-request or per-connection: including
// such a field would make every request's fingerprint unique and defeat
// device binding.
type Metadata struct {
	UserAgent      string
	ClientIP       string
	AcceptLanguage string
}

// FromRequest extracts fingerprint metadata from an inbound request.
func FromRequest(r *http.Request) Metadata {
	return Metadata{
		UserAgent:      r.UserAgent(),
		ClientIP:       ClientIP(r),
		AcceptLanguage: r.Header.Get("Accept-Language"),
	}
}

// ClientIP resolves the client address: first entry of a forwarded-for
// chain when present, otherwise the peer address without its port.
func ClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		ips := strings.Split(xff, ",")
		if len(ips) > 0 {
			return strings.TrimSpace(ips[0])
		}
	}

	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// Derive hashes user-agent, client IP and accept-language (language only
// when non-blank) into a fixed-length hex string. Pure: identical inputs
// always produce the identical fingerprint.
func Derive(m Metadata) string {
	var b strings.Builder
	b.WriteString(m.UserAgent)
	b.WriteString(m.ClientIP)
	if lang := strings.TrimSpace(m.AcceptLanguage); lang != "" {
		b.WriteString(lang)
	}

	sum := blake2b.Sum256([]byte(b.String()))
	return hex.EncodeToString(sum[:Size])
}
