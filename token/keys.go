package token

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"math/big"
)

// The league's verification key. Public by design: tokens are minted
// offline with the matching private key (see cmd/tokengen) and verified
// here with no server round trip.
const defaultPublicJWK = `{
  "kty": "EC",
  "crv": "P-256",
  "x": "yhuI022ZqJOwpoB1o8NvywoDWBNEqRaIP7gwdCi8j6M",
  "y": "34j5Ghey2nwlSnhIi23nXhY8jcnDdgwu5OJ9k592w-0"
}`

type jwk struct {
	Kty string `json:"kty"`
	Crv string `json:"crv"`
	X   string `json:"x"`
	Y   string `json:"y"`
}

// ParsePublicJWK builds a P-256 public key from a JWK JSON document.
func ParsePublicJWK(raw string) (*ecdsa.PublicKey, error) {
	var k jwk
	if err := json.Unmarshal([]byte(raw), &k); err != nil {
		return nil, fmt.Errorf("parse jwk: %w", err)
	}
	if k.Kty != "EC" || k.Crv != "P-256" {
		return nil, fmt.Errorf("unsupported jwk key type %s/%s", k.Kty, k.Crv)
	}
	x, err := decodeB64URL(k.X)
	if err != nil {
		return nil, fmt.Errorf("jwk x coordinate: %w", err)
	}
	y, err := decodeB64URL(k.Y)
	if err != nil {
		return nil, fmt.Errorf("jwk y coordinate: %w", err)
	}
	pub := &ecdsa.PublicKey{
		Curve: elliptic.P256(),
		X:     new(big.Int).SetBytes(x),
		Y:     new(big.Int).SetBytes(y),
	}
	if !pub.Curve.IsOnCurve(pub.X, pub.Y) {
		return nil, fmt.Errorf("jwk point is not on P-256")
	}
	return pub, nil
}

// DefaultPublicKey returns the embedded league key.
func DefaultPublicKey() *ecdsa.PublicKey {
	pub, err := ParsePublicJWK(defaultPublicJWK)
	if err != nil {
		panic(fmt.Sprintf("embedded public key is invalid: %v", err))
	}
	return pub
}

// decodeB64URL accepts URL-safe base64 with or without padding.
func decodeB64URL(s string) ([]byte, error) {
	for len(s) > 0 && s[len(s)-1] == '=' {
		s = s[:len(s)-1]
	}
	return base64.RawURLEncoding.DecodeString(s)
}
