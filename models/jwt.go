package models

import (
	"fmt"
	"net/url"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const BlobTokenScope = "image:read"

// BlobClaims grant read access to a single stored image
type BlobClaims struct {
	Key   string `json:"key"`
	Scope string `json:"scope"`
	jwt.RegisteredClaims
}

// BlobURLSigner mints expiring download links for stored images
type BlobURLSigner struct {
	Secret  string
	BaseURL string
	TTL     time.Duration
}

// Sign returns a token for key valid for the signer's TTL
func (s BlobURLSigner) Sign(key string) (string, time.Time, error) {
	expiry := time.Now().Add(s.TTL)
	claims := BlobClaims{
		Key:   key,
		Scope: BlobTokenScope,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiry),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.Secret))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign blob token: %w", err)
	}
	return signed, expiry, nil
}

// URL returns the public download link for key
func (s BlobURLSigner) URL(key string) (string, error) {
	token, _, err := s.Sign(key)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s/v1/images/%s?token=%s", s.BaseURL, url.PathEscape(key), url.QueryEscape(token)), nil
}

// ValidateBlobToken checks signature, expiry, scope and that the token was minted for key
func ValidateBlobToken(tokenString, secret, key string) (*BlobClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &BlobClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})

	if err != nil || !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}

	claims, ok := token.Claims.(*BlobClaims)
	if !ok || claims.Scope != BlobTokenScope {
		return nil, fmt.Errorf("invalid token claims")
	}
	if claims.Key != key {
		return nil, fmt.Errorf("token not valid for %q", key)
	}

	return claims, nil
}
