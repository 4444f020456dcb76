package token

import (
	"crypto/ecdsa"
	"encoding/base64"
	"encoding/json"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// Sign mints a compact token for the given payload with the private key
// matching the deployment's public key. Used by cmd/tokengen and tests.
func Sign(payload any, key *ecdsa.PrivateKey) (string, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal payload: %w", err)
	}
	part := base64.RawURLEncoding.EncodeToString(body)
	sig, err := jwt.SigningMethodES256.Sign(part, key)
	if err != nil {
		return "", fmt.Errorf("sign payload: %w", err)
	}
	return part + "." + base64.RawURLEncoding.EncodeToString(sig), nil
}
