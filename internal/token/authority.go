// Package token issues and verifies the signed bearer tokens used for
// back-office sessions. Session-version currency is checked by the caller
// against live identity storage; this package only deals with the token.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const minSecretLength = 32

var (
	ErrTokenExpired = errors.New("token expired")
	ErrTokenInvalid = errors.New("token invalid")
)

// Claims is the payload embedded in every session token
type Claims struct {
	ActorID        uint   `json:"userId"`
	Username       string `json:"username"`
	Role           string `json:"role"`
	SessionVersion int    `json:"tokenVersion"`
	jwt.RegisteredClaims
}

// Authority mints and verifies HS256 session tokens
type Authority struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// Option configures an Authority
type Option func(*Authority)

// WithClock replaces the wall clock used for issuance and expiry checks
func WithClock(now func() time.Time) Option {
	return func(a *Authority) {
		a.now = now
	}
}

// New creates an Authority. Secrets shorter than 32 bytes are repeated until long enough for HS256.
func New(secret string, ttl time.Duration, opts ...Option) *Authority {
	a := &Authority{
		secret: stretchSecret(secret),
		ttl:    ttl,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func stretchSecret(secret string) []byte {
	if secret == "" {
		secret = "0"
	}
	key := []byte(secret)
	for len(key) < minSecretLength {
		key = append(key, secret...)
	}
	return key
}

// Issue signs a token for the actor. The actor name becomes the subject.
func (a *Authority) Issue(actorID uint, actorName, role string, sessionVersion int) (string, error) {
	now := a.now()
	claims := Claims{
		ActorID:        actorID,
		Username:       actorName,
		Role:           role,
		SessionVersion: sessionVersion,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   actorName,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(a.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
}

// Validate checks signature, structure and expiry
func (a *Authority) Validate(tokenString string) error {
	_, err := a.parse(tokenString)
	return err
}

// Decode validates the token and returns its claims
func (a *Authority) Decode(tokenString string) (*Claims, error) {
	return a.parse(tokenString)
}

// Refresh re-issues the token with identical identity claims and a new validity window
func (a *Authority) Refresh(tokenString string) (string, error) {
	claims, err := a.parse(tokenString)
	if err != nil {
		return "", err
	}
	return a.Issue(claims.ActorID, claims.Username, claims.Role, claims.SessionVersion)
}

// ExpiresIn returns the lifetime of newly issued tokens
func (a *Authority) ExpiresIn() time.Duration {
	return a.ttl
}

func (a *Authority) parse(tokenString string) (*Claims, error) {
	if tokenString == "" {
		return nil, ErrTokenInvalid
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, a.key,
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(a.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}
	if !token.Valid {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}

func (a *Authority) key(t *jwt.Token) (interface{}, error) {
	if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("unexpected signing method %q", t.Method.Alg())
	}
	return a.secret, nil
}
