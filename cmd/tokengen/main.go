// Command tokengen manages the pool's signing keys and mints access
// tokens. A deployment generates a keypair once, publishes the public
// JWK through POOL_PUBLIC_KEY, and hands out signed tokens to poolers.
//
//	tokengen -gen-key -out pool.pem
//	tokengen -key pool.pem -role manager -exp 2027-06-30
package main

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"encoding/base64"
	"encoding/json"
	"encoding/pem"
	"flag"
	"fmt"
	"log"
	"os"

	"puckpool-backend/token"
)

func main() {
	genKey := flag.Bool("gen-key", false, "generate a new P-256 keypair and exit")
	out := flag.String("out", "pool.pem", "private key file to write with -gen-key")
	keyPath := flag.String("key", "pool.pem", "private key file to sign with")
	role := flag.String("role", "viewer", "role claim, viewer or manager")
	sub := flag.String("sub", "", "optional subject claim")
	aud := flag.String("aud", "", "optional audience claim, the site origin")
	exp := flag.String("exp", "", "optional expiry claim, RFC3339 or YYYY-MM-DD")
	nbf := flag.String("nbf", "", "optional not-before claim")
	flag.Parse()

	if *genKey {
		if err := generate(*out); err != nil {
			log.Fatal(err)
		}
		return
	}

	key, err := loadKey(*keyPath)
	if err != nil {
		log.Fatal(err)
	}

	claims := map[string]any{"role": *role}
	for name, v := range map[string]string{"sub": *sub, "aud": *aud, "exp": *exp, "nbf": *nbf} {
		if v != "" {
			claims[name] = v
		}
	}
	tok, err := token.Sign(claims, key)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(tok)
}

func generate(path string) error {
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		return fmt.Errorf("generate key: %w", err)
	}
	der, err := x509.MarshalECPrivateKey(key)
	if err != nil {
		return fmt.Errorf("encode key: %w", err)
	}
	block := &pem.Block{Type: "EC PRIVATE KEY", Bytes: der}
	if err := os.WriteFile(path, pem.EncodeToMemory(block), 0o600); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}

	size := (key.Params().BitSize + 7) / 8
	jwk := map[string]string{
		"kty": "EC",
		"crv": "P-256",
		"x":   base64.RawURLEncoding.EncodeToString(key.X.FillBytes(make([]byte, size))),
		"y":   base64.RawURLEncoding.EncodeToString(key.Y.FillBytes(make([]byte, size))),
	}
	pub, err := json.Marshal(jwk)
	if err != nil {
		return fmt.Errorf("encode public jwk: %w", err)
	}
	fmt.Printf("private key written to %s\npublic JWK for POOL_PUBLIC_KEY:\n%s\n", path, pub)
	return nil
}

func loadKey(path string) (*ecdsa.PrivateKey, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read key: %w", err)
	}
	block, _ := pem.Decode(raw)
	if block == nil || block.Type != "EC PRIVATE KEY" {
		return nil, fmt.Errorf("%s: not an EC private key", path)
	}
	key, err := x509.ParseECPrivateKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("parse key: %w", err)
	}
	return key, nil
}
