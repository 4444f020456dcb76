// Package token verifies the compact two-part access tokens that gate the
// pool: base64url(JSON payload) "." base64url(signature). The signature is
// ECDSA P-256 over SHA-256 of the payload part exactly as received, with
// the raw r||s encoding JWS ES256 uses.
package token

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"crypto/ecdsa"

	"github.com/golang-jwt/jwt/v5"
	"github.com/jonboulle/clockwork"
)

// Verification failures, surfaced verbatim as the gate message.
var (
	ErrMalformedToken   = errors.New("malformed token")
	ErrNotYetValid      = errors.New("token not yet valid")
	ErrExpired          = errors.New("token expired")
	ErrAudienceMismatch = errors.New("audience mismatch")
	ErrInvalidRole      = errors.New("invalid role")
	ErrInvalidSignature = errors.New("invalid signature")
	ErrInternal         = errors.New("internal verification error")
)

const (
	RoleViewer  = "viewer"
	RoleManager = "manager"
)

// Claims is the decoded token payload. Raw preserves every field for
// session persistence.
type Claims struct {
	Role string `json:"role"`
	Exp  string `json:"exp,omitempty"`
	Nbf  string `json:"nbf,omitempty"`
	Aud  string `json:"aud,omitempty"`
	Sub  string `json:"sub,omitempty"`

	Raw map[string]any `json:"-"`
}

// Verifier checks a token's structure, temporal and audience claims, role,
// and signature against a fixed public key. It never panics past Verify.
type Verifier struct {
	key      *ecdsa.PublicKey
	clock    clockwork.Clock
	origin   string
	basePath string
}

// NewVerifier builds a verifier bound to the deployment's public origin
// (e.g. "https://pool.example.com") and base path (e.g. "/pool", may be
// empty). Tokens carrying an aud claim must match origin or origin+basePath.
func NewVerifier(key *ecdsa.PublicKey, clock clockwork.Clock, origin, basePath string) *Verifier {
	basePath = strings.TrimRight(basePath, "/")
	if basePath != "" && !strings.HasPrefix(basePath, "/") {
		basePath = "/" + basePath
	}
	return &Verifier{key: key, clock: clock, origin: strings.TrimRight(origin, "/"), basePath: basePath}
}

// Verify runs the full pipeline and returns the parsed claims on success.
func (v *Verifier) Verify(tok string) (claims *Claims, err error) {
	defer func() {
		if r := recover(); r != nil {
			claims = nil
			err = fmt.Errorf("%w: %v", ErrInternal, r)
		}
	}()

	tok = strings.TrimSpace(tok)
	if strings.Count(tok, ".") != 1 {
		return nil, ErrMalformedToken
	}
	dot := strings.IndexByte(tok, '.')
	payloadPart, sigPart := tok[:dot], tok[dot+1:]
	if payloadPart == "" {
		return nil, ErrMalformedToken
	}

	payloadJSON, err := decodeB64URL(payloadPart)
	if err != nil {
		return nil, fmt.Errorf("%w: payload is not base64url", ErrMalformedToken)
	}
	var raw map[string]any
	if err := json.Unmarshal(payloadJSON, &raw); err != nil {
		return nil, fmt.Errorf("%w: payload is not a JSON object", ErrMalformedToken)
	}
	var c Claims
	if err := json.Unmarshal(payloadJSON, &c); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedToken, err)
	}
	c.Raw = raw

	now := v.clock.Now()
	if c.Nbf != "" {
		nbf, err := parseInstant(c.Nbf)
		if err != nil {
			return nil, fmt.Errorf("%w: bad nbf timestamp", ErrMalformedToken)
		}
		if now.Before(nbf) {
			return nil, ErrNotYetValid
		}
	}
	if c.Exp != "" {
		exp, err := parseInstant(c.Exp)
		if err != nil {
			return nil, fmt.Errorf("%w: bad exp timestamp", ErrMalformedToken)
		}
		if now.After(exp) {
			return nil, ErrExpired
		}
	}

	if c.Aud != "" && c.Aud != v.origin && c.Aud != v.origin+v.basePath {
		return nil, ErrAudienceMismatch
	}

	if c.Role != RoleViewer && c.Role != RoleManager {
		return nil, ErrInvalidRole
	}

	// A signature part that does not decode is a structural defect like a
	// bad payload part; only a decoded signature that fails ECDSA checks
	// reads as invalid.
	sig, err := decodeB64URL(sigPart)
	if err != nil {
		return nil, fmt.Errorf("%w: signature is not base64url", ErrMalformedToken)
	}
	// ES256 over the payload part as received; the part is never re-encoded.
	if err := jwt.SigningMethodES256.Verify(payloadPart, sig, v.key); err != nil {
		return nil, ErrInvalidSignature
	}

	return &c, nil
}

// parseInstant accepts RFC 3339 timestamps, with or without sub-second
// precision, and bare dates.
func parseInstant(s string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unparsable timestamp %q", s)
}
