package token

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/require"
)

func testKey(t *testing.T) *ecdsa.PrivateKey {
	t.Helper()
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)
	return key
}

func testVerifier(t *testing.T, key *ecdsa.PrivateKey, now time.Time) *Verifier {
	t.Helper()
	return NewVerifier(&key.PublicKey, clockwork.NewFakeClockAt(now), "https://example.github.io", "/my-repo")
}

func TestVerifyValidToken(t *testing.T) {
	key := testKey(t)
	v := testVerifier(t, key, time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC))

	tok, err := Sign(map[string]any{"role": "manager", "sub": "lea"}, key)
	require.NoError(t, err)

	claims, err := v.Verify(tok)
	require.NoError(t, err)
	require.Equal(t, "manager", claims.Role)
	require.Equal(t, "lea", claims.Sub)
	require.Equal(t, "manager", claims.Raw["role"])
}

func TestVerifyFlippedSignatureByte(t *testing.T) {
	key := testKey(t)
	v := testVerifier(t, key, time.Now())

	tok, err := Sign(map[string]any{"role": "viewer"}, key)
	require.NoError(t, err)

	dot := strings.IndexByte(tok, '.')
	sig, err := base64.RawURLEncoding.DecodeString(tok[dot+1:])
	require.NoError(t, err)
	sig[0] ^= 0x01
	tampered := tok[:dot+1] + base64.RawURLEncoding.EncodeToString(sig)

	_, err = v.Verify(tampered)
	require.ErrorIs(t, err, ErrInvalidSignature)
}

func TestVerifyTemporalClaims(t *testing.T) {
	key := testKey(t)
	now := time.Date(2026, 2, 10, 9, 0, 0, 0, time.UTC)
	v := testVerifier(t, key, now)

	expired, err := Sign(map[string]any{"role": "viewer", "exp": "2026-02-01T00:00:00Z"}, key)
	require.NoError(t, err)
	_, err = v.Verify(expired)
	require.ErrorIs(t, err, ErrExpired)

	early, err := Sign(map[string]any{"role": "viewer", "nbf": "2026-03-01T00:00:00Z"}, key)
	require.NoError(t, err)
	_, err = v.Verify(early)
	require.ErrorIs(t, err, ErrNotYetValid)

	window, err := Sign(map[string]any{
		"role": "viewer",
		"nbf":  "2026-02-01T00:00:00Z",
		"exp":  "2026-03-01T00:00:00Z",
	}, key)
	require.NoError(t, err)
	_, err = v.Verify(window)
	require.NoError(t, err)
}

func TestVerifyRoleClaim(t *testing.T) {
	key := testKey(t)
	v := testVerifier(t, key, time.Now())

	missing, err := Sign(map[string]any{"sub": "x"}, key)
	require.NoError(t, err)
	_, err = v.Verify(missing)
	require.ErrorIs(t, err, ErrInvalidRole)

	bogus, err := Sign(map[string]any{"role": "admin"}, key)
	require.NoError(t, err)
	_, err = v.Verify(bogus)
	require.ErrorIs(t, err, ErrInvalidRole)
}

func TestVerifyAudience(t *testing.T) {
	key := testKey(t)
	v := testVerifier(t, key, time.Now())

	cases := []struct {
		aud string
		err error
	}{
		{"https://example.github.io", nil},
		{"https://example.github.io/my-repo", nil},
		{"https://example.github.io/other-repo", ErrAudienceMismatch},
		{"https://evil.example.com", ErrAudienceMismatch},
	}
	for _, tc := range cases {
		tok, err := Sign(map[string]any{"role": "viewer", "aud": tc.aud}, key)
		require.NoError(t, err)
		_, err = v.Verify(tok)
		if tc.err == nil {
			require.NoError(t, err, "aud %q", tc.aud)
		} else {
			require.ErrorIs(t, err, tc.err, "aud %q", tc.aud)
		}
	}
}

func TestVerifyAbsentAudienceAccepted(t *testing.T) {
	key := testKey(t)
	v := testVerifier(t, key, time.Now())

	tok, err := Sign(map[string]any{"role": "viewer"}, key)
	require.NoError(t, err)
	_, err = v.Verify(tok)
	require.NoError(t, err)
}

func TestVerifyMalformedTokens(t *testing.T) {
	key := testKey(t)
	v := testVerifier(t, key, time.Now())

	for _, tok := range []string{
		"",
		"nodot",
		".sigonly",
		"a.b.c",
		"!!!notbase64.c2ln",
		base64.RawURLEncoding.EncodeToString([]byte("not json")) + ".c2ln",
		base64.RawURLEncoding.EncodeToString([]byte(`[1,2]`)) + ".c2ln",
	} {
		_, err := v.Verify(tok)
		if !errors.Is(err, ErrMalformedToken) {
			t.Fatalf("token %q: expected malformed token, got %v", tok, err)
		}
	}
}

func TestVerifyNonBase64SignatureIsMalformed(t *testing.T) {
	key := testKey(t)
	v := testVerifier(t, key, time.Now())

	tok, err := Sign(map[string]any{"role": "viewer"}, key)
	require.NoError(t, err)
	dot := strings.IndexByte(tok, '.')

	_, err = v.Verify(tok[:dot] + ".!!!")
	require.ErrorIs(t, err, ErrMalformedToken)
}

func TestVerifyRecoversToInternalError(t *testing.T) {
	key := testKey(t)
	tok, err := Sign(map[string]any{"role": "viewer"}, key)
	require.NoError(t, err)

	// A nil public key passes every structural check and blows up inside
	// the ECDSA verify; the caller must see a plain error, never a panic.
	v := NewVerifier(nil, clockwork.NewFakeClockAt(time.Now()), "https://example.github.io", "")
	claims, err := v.Verify(tok)
	require.Nil(t, claims)
	require.ErrorIs(t, err, ErrInternal)
}

func TestVerifyPaddedBase64Accepted(t *testing.T) {
	key := testKey(t)
	v := testVerifier(t, key, time.Now())

	tok, err := Sign(map[string]any{"role": "viewer"}, key)
	require.NoError(t, err)
	dot := strings.IndexByte(tok, '.')

	pad := func(s string) string {
		if n := len(s) % 4; n != 0 {
			return s + strings.Repeat("=", 4-n)
		}
		return s
	}
	_, err = v.Verify(pad(tok[:dot]) + "." + pad(tok[dot+1:]))
	require.NoError(t, err)
}

func TestParsePublicJWKRoundTrip(t *testing.T) {
	pub := DefaultPublicKey()
	require.NotNil(t, pub)
	require.True(t, pub.Curve.IsOnCurve(pub.X, pub.Y))

	_, err := ParsePublicJWK(`{"kty":"RSA","crv":"P-256","x":"AA","y":"AA"}`)
	require.Error(t, err)
}
