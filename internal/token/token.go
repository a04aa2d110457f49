// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package token issues and verifies the signed bearer tokens that gate the
// admin API. Tokens are HS256 JWTs carrying the admin's identity and a fixed
// expiry; the signing secret is loaded once at boot and injected here.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalid is returned for any token that cannot be accepted: malformed,
// expired, or carrying a bad signature. Callers answer 401 without
// distinguishing the cases.
var ErrInvalid = errors.New("token: invalid")

// Identity is the verified admin identity embedded in a token. Any valid
// token grants full admin rights; there are no roles or scopes.
type Identity struct {
	AdminID int64
	Email   string
}

type claims struct {
	AdminID int64  `json:"adminId"`
	Email   string `json:"email"`
	jwt.RegisteredClaims
}

// Issuer signs and verifies bearer tokens with a single process-wide secret.
type Issuer struct {
	secret []byte
	ttl    time.Duration
}

// NewIssuer creates an Issuer. ttl bounds the token lifetime (2h in the
// default configuration).
func NewIssuer(secret string, ttl time.Duration) *Issuer {
	return &Issuer{secret: []byte(secret), ttl: ttl}
}

// Issue creates a signed token for the given admin, valid for the
// configured TTL from now.
func (i *Issuer) Issue(adminID int64, email string) (string, error) {
	now := time.Now()
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		AdminID: adminID,
		Email:   email,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
		},
	})

	signed, err := t.SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify parses and validates a token string, returning the embedded
// identity. Any failure maps to ErrInvalid.
func (i *Issuer) Verify(tokenString string) (*Identity, error) {
	var c claims
	t, err := jwt.ParseWithClaims(tokenString, &c, func(t *jwt.Token) (any, error) {
		// Reject anything but HMAC so an attacker cannot downgrade to
		// "none" or swap in an asymmetric scheme.
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return i.secret, nil
	})
	if err != nil || !t.Valid {
		return nil, ErrInvalid
	}

	return &Identity{AdminID: c.AdminID, Email: c.Email}, nil
}
