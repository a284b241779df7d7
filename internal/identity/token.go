package identity

import (
	"crypto/ed25519"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/vaultacks/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// Claims carries the signer's public key, so tokens are self-verifying: the
// server checks the signature against the embedded key and that the key
// hashes to the subject address.
type Claims struct {
	jwt.RegisteredClaims
	PublicKey string `json:"pub"`
}

// IssueToken signs a token for the identity valid for ttl.
func IssueToken(id *Identity, ttl time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodEdDSA, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.Address,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		PublicKey: base64.RawURLEncoding.EncodeToString(id.PublicKey),
	})

	return token.SignedString(id.privateKey)
}

// ParseToken verifies tokenString and returns the signer's address. When
// maxAge is positive tokens issued earlier than maxAge ago are rejected even
// if their own expiry is later.
func ParseToken(tokenString string, maxAge time.Duration) (string, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		raw, err := base64.RawURLEncoding.DecodeString(claims.PublicKey)
		if err != nil || len(raw) != ed25519.PublicKeySize {
			return nil, common.ErrInvalidToken
		}
		return ed25519.PublicKey(raw), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodEdDSA.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", common.ErrTokenExpired
		}
		return "", fmt.Errorf("%w: %v", common.ErrInvalidToken, err)
	}

	if !token.Valid {
		return "", common.ErrInvalidToken
	}

	raw, _ := base64.RawURLEncoding.DecodeString(claims.PublicKey)
	if AddressFromPublicKey(raw) != claims.Subject {
		return "", fmt.Errorf("%w: subject does not match key", common.ErrInvalidToken)
	}

	if maxAge > 0 {
		if claims.IssuedAt == nil || time.Since(claims.IssuedAt.Time) > maxAge {
			return "", common.ErrTokenExpired
		}
	}

	return claims.Subject, nil
}
