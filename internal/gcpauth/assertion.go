// Copyright (c) 2026 Alan Beebe [www.alanbeebe.com]
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.
//
// Created: August 27, 2026

package gcpauth

import (
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"crypto/x509"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

const (
	// cloudPlatformScope is the OAuth2 scope asserted in every signed JWT.
	cloudPlatformScope = "https://www.googleapis.com/auth/cloud-platform"

	// DefaultTokenURL is Google's OAuth2 token endpoint. It doubles as the
	// audience of the signed assertion.
	DefaultTokenURL = "https://oauth2.googleapis.com/token"

	// assertionLifetime is how long a signed assertion remains valid. The
	// token endpoint rejects assertions whose expiry strays outside its
	// accepted clock skew, so the expiry is always issued-at plus exactly
	// this duration.
	assertionLifetime = time.Hour
)

// assertionHeader is the JOSE header of the signed JWT.
type assertionHeader struct {
	Alg string `json:"alg"`
	Typ string `json:"typ"`
}

// assertionClaims is the claim set asserted when exchanging a service account
// key for an access token.
type assertionClaims struct {
	Iss   string `json:"iss"`   // The service account's client email
	Scope string `json:"scope"` // Requested OAuth2 scope
	Aud   string `json:"aud"`   // The token endpoint
	Iat   int64  `json:"iat"`   // Issued-at, unix seconds
	Exp   int64  `json:"exp"`   // Expiry, unix seconds
}

// decodePrivateKey strips the PEM encapsulation from a service account
// private key, base64-decodes the body to PKCS#8 DER, and imports it as an
// RSA signing key. Any decode or import failure wraps ErrInvalidPrivateKey.
func decodePrivateKey(pemKey string) (*rsa.PrivateKey, error) {

	// Drop the BEGIN/END marker lines and collapse all whitespace, leaving
	// just the base64 body
	var body strings.Builder
	for _, line := range strings.Split(pemKey, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "-----") {
			continue
		}
		body.WriteString(line)
	}

	// Decode the base64 body into raw PKCS#8 bytes
	der, err := base64.StdEncoding.DecodeString(body.String())
	if err != nil {
		return nil, fmt.Errorf("%w: failed to decode PEM body: %v", ErrInvalidPrivateKey, err)
	}

	// Import the PKCS#8 key and confirm it is an RSA key
	parsed, err := x509.ParsePKCS8PrivateKey(der)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to parse PKCS#8 key: %v", ErrInvalidPrivateKey, err)
	}
	rsaKey, ok := parsed.(*rsa.PrivateKey)
	if !ok {
		return nil, fmt.Errorf("%w: key is not an RSA key", ErrInvalidPrivateKey)
	}

	return rsaKey, nil
}

// buildAssertion constructs and signs the JWT asserting the service account's
// identity. The result is three base64url segments (header, claims,
// signature) joined by '.', signed with RSASSA-PKCS1-v1_5 over SHA-256.
func buildAssertion(key *ServiceAccountKey, tokenURL string, now time.Time) (string, error) {

	// Encode the RS256 header
	header, err := json.Marshal(assertionHeader{Alg: "RS256", Typ: "JWT"})
	if err != nil {
		return "", fmt.Errorf("failed to marshal header: %w", err)
	}

	// Encode the claims. The expiry is always exactly one hour after the
	// issued-at time.
	issuedAt := now.Unix()
	claims, err := json.Marshal(assertionClaims{
		Iss:   key.ClientEmail,
		Scope: cloudPlatformScope,
		Aud:   tokenURL,
		Iat:   issuedAt,
		Exp:   issuedAt + int64(assertionLifetime.Seconds()),
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal claims: %w", err)
	}

	// Join the base64url-encoded header and claims to form the signing input
	signingInput := base64.RawURLEncoding.EncodeToString(header) + "." + base64.RawURLEncoding.EncodeToString(claims)

	// Import the private key and sign the input
	rsaKey, err := decodePrivateKey(key.PrivateKey)
	if err != nil {
		return "", err
	}
	digest := sha256.Sum256([]byte(signingInput))
	signature, err := rsa.SignPKCS1v15(rand.Reader, rsaKey, crypto.SHA256, digest[:])
	if err != nil {
		return "", fmt.Errorf("failed to sign assertion: %w", err)
	}

	// Append the base64url-encoded signature to complete the JWT
	return signingInput + "." + base64.RawURLEncoding.EncodeToString(signature), nil
}
