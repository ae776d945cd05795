package token

import (
	"encoding/base64"
	"fmt"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/naveenspark/folio/pkg/domain"
)

func sign(t *testing.T, claims jwt.Claims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return s
}

func withExp(role string, exp time.Time) Claims {
	return Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "1",
			ExpiresAt: jwt.NewNumericDate(exp),
		},
		RawRole: role,
	}
}

func rawToken(payload string) string {
	enc := base64.RawURLEncoding.EncodeToString
	return enc([]byte(`{"alg":"none"}`)) + "." + enc([]byte(payload)) + ".sig"
}

func TestDecode(t *testing.T) {
	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	c, ok := Decode(sign(t, withExp("admin", exp)))
	require.True(t, ok)
	assert.Equal(t, domain.RoleAdmin, c.Role())
	assert.Equal(t, exp.Unix(), c.ExpiresAt.Unix())
	assert.Equal(t, "1", c.Subject)
}

func TestDecode_Malformed(t *testing.T) {
	tests := []struct {
		name string
		tok  string
	}{
		{"empty", ""},
		{"one segment", "abc"},
		{"two segments", "abc.def"},
		{"bad base64", "a.!!!.c"},
		{"bad json", rawToken("{not json")},
		{"not an object", rawToken("[]")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := Decode(tt.tok)
			assert.False(t, ok)
		})
	}
}

func TestDecode_OddlyTypedClaims(t *testing.T) {
	exp := time.Now().Add(time.Hour).Unix()
	tests := []struct {
		name     string
		payload  string
		wantRole domain.Role
		wantSub  string
	}{
		{"numeric sub", `{"sub":42,"role":"admin","exp":%d}`, domain.RoleAdmin, "42"},
		{"numeric aud", `{"aud":7,"role":"user","exp":%d}`, domain.RoleUser, ""},
		{"list role", `{"role":["admin"],"exp":%d}`, domain.RoleUnknown, ""},
		{"object role", `{"role":{"name":"admin"},"exp":%d}`, domain.RoleUnknown, ""},
		{"null role", `{"role":null,"exp":%d}`, domain.RoleUnknown, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tok := rawToken(fmt.Sprintf(tt.payload, exp))
			c, ok := Decode(tok)
			require.True(t, ok)
			require.NotNil(t, c.ExpiresAt)
			assert.Equal(t, exp, c.ExpiresAt.Unix())
			assert.Equal(t, tt.wantSub, c.Subject)
			assert.Equal(t, tt.wantRole, c.Role())
			assert.False(t, IsExpired(tok))
			assert.Equal(t, tt.wantRole, RoleOf(tok))
		})
	}
}

func TestDecode_UnreadableExpCountsAsExpired(t *testing.T) {
	for _, payload := range []string{`{"role":"admin","exp":"tomorrow"}`, `{"role":"admin","exp":null}`, `{"role":"admin","exp":[1]}`} {
		tok := rawToken(payload)
		c, ok := Decode(tok)
		require.True(t, ok, payload)
		assert.Nil(t, c.ExpiresAt, payload)
		assert.True(t, IsExpired(tok), payload)
		assert.Equal(t, domain.RoleAdmin, RoleOf(tok), payload)
	}
}

func TestDecode_PaddedSegment(t *testing.T) {
	payload := base64.URLEncoding.EncodeToString([]byte(`{"role":"user","exp":4102444800}`))
	c, ok := Decode("h." + payload + ".s")
	require.True(t, ok)
	assert.Equal(t, domain.RoleUser, c.Role())
}

func TestIsExpired_FailClosed(t *testing.T) {
	for _, tok := range []string{"", "garbage", "a.b", rawToken(`{"role":"admin"}`), rawToken("[]")} {
		assert.True(t, IsExpired(tok), "IsExpired(%q)", tok)
	}
}

func TestIsExpiredAt(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	tests := []struct {
		name string
		exp  time.Time
		want bool
	}{
		{"one second ago", now.Add(-time.Second), true},
		{"exactly now", now, true},
		{"one hour ahead", now.Add(time.Hour), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tok := sign(t, withExp("user", tt.exp))
			assert.Equal(t, tt.want, IsExpiredAt(tok, now))
		})
	}
}

func TestIsExpired_WallClock(t *testing.T) {
	assert.True(t, IsExpired(sign(t, withExp("user", time.Now().Add(-time.Second)))))
	assert.False(t, IsExpired(sign(t, withExp("user", time.Now().Add(time.Hour)))))
}

func TestRoleOf(t *testing.T) {
	assert.Equal(t, domain.RoleNone, RoleOf(""))
	assert.Equal(t, domain.RoleNone, RoleOf("x.y"))
	assert.Equal(t, domain.RoleUnknown, RoleOf(rawToken(`{"exp":1}`)))
	assert.Equal(t, domain.RoleUnknown, RoleOf(rawToken(`{"role":"root"}`)))
	assert.Equal(t, domain.RoleAdmin, RoleOf(rawToken(`{"role":"admin"}`)))
}
