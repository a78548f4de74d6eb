package codec

import (
	"crypto/sha256"
	"fmt"
	"io"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/hkdf"

	"github.com/beabot/beatoken/internal/core/domain"
)

// MinSecretLength is the minimum signing secret length in bytes.
const MinSecretLength = 32

// keyInfo binds derived keys to their use.
var keyInfo = []byte("beatoken hs256 signing key v1")

// Signer signs claim sets and verifies signed blobs.
type Signer interface {
	Sign(claims jwt.Claims) (string, error)
	Verify(blob string) (jwt.MapClaims, error)
}

// HMACSigner signs claims as compact HS256 JWTs.
//
// The key is derived once from the configured secret and never changes, so a
// single HMACSigner is safe for concurrent use.
type HMACSigner struct {
	key    []byte
	parser *jwt.Parser
}

// NewHMACSigner derives an HS256 key from secret.
func NewHMACSigner(secret []byte) (*HMACSigner, error) {
	key, err := DeriveKey(secret)
	if err != nil {
		return nil, err
	}

	return &HMACSigner{
		key: key,
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
			// exp is checked by the pipeline after the store lookup.
			jwt.WithoutClaimsValidation(),
			jwt.WithStrictDecoding(),
		),
	}, nil
}

// DeriveKey expands secret into a 32-byte HMAC key with HKDF-SHA256.
func DeriveKey(secret []byte) ([]byte, error) {
	if len(secret) < MinSecretLength {
		return nil, domain.ErrInvalidConfig.WithDetails(
			fmt.Sprintf("signing secret must be at least %d bytes", MinSecretLength))
	}

	key := make([]byte, sha256.Size)
	if _, err := io.ReadFull(hkdf.New(sha256.New, secret, nil, keyInfo), key); err != nil {
		return nil, domain.ErrInternal.WithCause(err)
	}
	return key, nil
}

// Sign returns the signed compact form of claims.
func (s *HMACSigner) Sign(claims jwt.Claims) (string, error) {
	blob, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.key)
	if err != nil {
		return "", domain.ErrSigningFailed.WithCause(err)
	}
	return blob, nil
}

// Verify checks the blob signature and returns its raw claims.
// Any parse or verification failure is reported as ErrSignatureInvalid.
func (s *HMACSigner) Verify(blob string) (jwt.MapClaims, error) {
	claims := jwt.MapClaims{}
	_, err := s.parser.ParseWithClaims(blob, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.key, nil
	})
	if err != nil {
		return nil, domain.ErrSignatureInvalid.WithCause(err)
	}
	return claims, nil
}
