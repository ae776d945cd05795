// Package token reads the claims embedded in a bearer credential.
//
// Nothing here verifies signatures: the client only needs the role and expiry
// to decide what to show, and the server re-checks every request.
package token

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/naveenspark/folio/pkg/domain"
)

// Claims are the access-token claims the dashboard cares about.
type Claims struct {
	jwt.RegisteredClaims

	// RawRole is the role claim exactly as issued.
	RawRole string `json:"role,omitempty"`
}

// Role maps the raw claim onto the closed role set.
func (c Claims) Role() domain.Role {
	return domain.ParseRole(c.RawRole)
}

var segmentParser = jwt.NewParser(jwt.WithPaddingAllowed())

// payload holds the claims Decode reads, each left raw so one oddly typed
// claim cannot reject the whole token.
type payload struct {
	Sub  json.RawMessage `json:"sub"`
	Exp  json.RawMessage `json:"exp"`
	Role json.RawMessage `json:"role"`
}

// Decode returns the claims of a three-segment token. Too few segments, bad
// base64 or a payload that is not a JSON object yield ok == false. Claims of
// an unexpected type do not: an unreadable exp is left nil and a non-string
// role is kept as its JSON text, which maps to domain.RoleUnknown.
func Decode(tok string) (Claims, bool) {
	parts := strings.Split(tok, ".")
	if len(parts) < 3 {
		return Claims{}, false
	}
	seg, err := segmentParser.DecodeSegment(parts[1])
	if err != nil {
		return Claims{}, false
	}
	var p payload
	if err := json.Unmarshal(seg, &p); err != nil {
		return Claims{}, false
	}

	var c Claims
	c.Subject = text(p.Sub)
	c.RawRole = text(p.Role)
	if len(p.Exp) > 0 {
		var exp *jwt.NumericDate
		if json.Unmarshal(p.Exp, &exp) == nil {
			c.ExpiresAt = exp
		}
	}
	return c, true
}

// text returns a JSON string's value, or any other JSON value verbatim.
func text(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if json.Unmarshal(raw, &s) == nil {
		return s
	}
	return string(raw)
}

// IsExpired reports whether tok is unusable right now.
func IsExpired(tok string) bool {
	return IsExpiredAt(tok, time.Now())
}

// IsExpiredAt reports whether tok is unusable at now. Tokens that do not
// decode or carry no exp claim count as expired.
func IsExpiredAt(tok string, now time.Time) bool {
	c, ok := Decode(tok)
	if !ok || c.ExpiresAt == nil {
		return true
	}
	return now.Unix() >= c.ExpiresAt.Unix()
}

// RoleOf returns the decoded role, or domain.RoleNone when tok is empty or undecodable.
func RoleOf(tok string) domain.Role {
	if tok == "" {
		return domain.RoleNone
	}
	c, ok := Decode(tok)
	if !ok {
		return domain.RoleNone
	}
	return c.Role()
}
