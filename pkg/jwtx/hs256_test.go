package jwtx_test

import (
	"strings"
	"testing"
	"time"

	"github.com/aussiebroadwan/cookieauth/pkg/jwtx"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("0123456789abcdef0123456789abcdef")

// fakeClock hands out a settable time in whole seconds, matching JWT
// NumericDate precision.
type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newSigner(t *testing.T, clock *fakeClock) *jwtx.HS256 {
	t.Helper()
	h, err := jwtx.NewHS256(testSecret, "cookieauth", jwtx.WithClock(clock.Now))
	require.NoError(t, err)
	return h
}

func TestNewHS256(t *testing.T) {
	t.Run("missing secret", func(t *testing.T) {
		_, err := jwtx.NewHS256(nil, "cookieauth")
		require.ErrorIs(t, err, jwtx.ErrMissingKey)
	})

	t.Run("short secret", func(t *testing.T) {
		_, err := jwtx.NewHS256([]byte("short"), "cookieauth")
		require.Error(t, err)
	})

	t.Run("alg", func(t *testing.T) {
		h, err := jwtx.NewHS256(testSecret, "cookieauth")
		require.NoError(t, err)
		require.Equal(t, "HS256", h.Alg())
	})
}

func TestIssueVerifyLifecycle(t *testing.T) {
	for _, ttl := range []time.Duration{time.Minute, jwtx.AccessTokenTTL, jwtx.RefreshTokenTTL} {
		t.Run(ttl.String(), func(t *testing.T) {
			clock := &fakeClock{t: time.Unix(1700000000, 0).UTC()}
			h := newSigner(t, clock)

			token, err := h.Issue("a@x.com", ttl)
			require.NoError(t, err)

			claims, err := h.Verify(token)
			require.NoError(t, err)
			require.Equal(t, "a@x.com", claims.Subject)

			clock.Advance(ttl - time.Second)
			_, err = h.Verify(token)
			require.NoError(t, err, "still valid just before expiry")

			clock.Advance(2 * time.Second)
			_, err = h.Verify(token)
			require.ErrorIs(t, err, jwtx.ErrInvalidToken, "invalid after issuedAt + ttl")
		})
	}
}

func TestVerifyFlattensFailures(t *testing.T) {
	clock := &fakeClock{t: time.Unix(1700000000, 0).UTC()}
	h := newSigner(t, clock)

	good, err := h.Issue("a@x.com", time.Hour)
	require.NoError(t, err)

	other, err := jwtx.NewHS256([]byte("ffffffffffffffffffffffffffffffff"), "cookieauth", jwtx.WithClock(clock.Now))
	require.NoError(t, err)
	foreign, err := other.Issue("a@x.com", time.Hour)
	require.NoError(t, err)

	wrongIssuer, err := jwtx.NewHS256(testSecret, "elsewhere", jwtx.WithClock(clock.Now))
	require.NoError(t, err)
	misissued, err := wrongIssuer.Issue("a@x.com", time.Hour)
	require.NoError(t, err)

	parts := strings.Split(good, ".")
	tampered := parts[0] + "." + parts[1] + "x." + parts[2]

	none := jwt.NewWithClaims(jwt.SigningMethodNone, jwtx.NewClaims("a@x.com", "cookieauth", time.Hour, clock.Now()))
	unsigned, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	noSubject := jwt.NewWithClaims(jwt.SigningMethodHS256, jwtx.NewClaims("", "cookieauth", time.Hour, clock.Now()))
	anonymous, err := noSubject.SignedString(testSecret)
	require.NoError(t, err)

	cases := map[string]string{
		"empty":         "",
		"garbage":       "not.a.jwt",
		"bad signature": foreign,
		"tampered":      tampered,
		"alg none":      unsigned,
		"wrong issuer":  misissued,
		"no subject":    anonymous,
	}

	for name, token := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := h.Verify(token)
			require.ErrorIs(t, err, jwtx.ErrInvalidToken)
		})
	}
}
