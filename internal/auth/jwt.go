// Package auth provides JWT issuance and validation plus password hashing
// for the events API.
//
// Flow: POST /auth/login verifies credentials and returns a signed access
// token. Clients send it back as "Authorization: Bearer <token>" and the
// middleware validates it and puts the user id in the request context. The
// token is stateless; the signature plus expiry is all the server needs, no
// session table.
package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/xid"
)

const issuer = "devevents"

// defaultTokenTTL is the access token lifetime. After expiry the client logs
// in again.
const defaultTokenTTL = 24 * time.Hour

// TokenService signs and verifies access tokens. It holds the HMAC secret,
// which must be identical for both operations.
type TokenService struct {
	secret []byte
}

// NewTokenService creates a TokenService with the given secret. Short
// secrets are rejected outright; HS256 with a guessable key is no better
// than no signature.
func NewTokenService(secret string) (*TokenService, error) {
	if len(secret) < 16 {
		return nil, errors.New("auth: JWT secret must be at least 16 characters")
	}
	return &TokenService{secret: []byte(secret)}, nil
}

// claims is the token payload. The user id goes in the standard "sub" claim
// (as a decimal string, since subjects are strings) and every token gets a
// unique "jti" so two logins in the same second still produce distinct
// tokens.
type claims struct {
	jwt.RegisteredClaims
}

// Generate creates and signs an access token for userID with the default
// lifetime.
func (s *TokenService) Generate(userID int64) (string, error) {
	return s.GenerateWithDuration(userID, defaultTokenTTL)
}

// GenerateWithDuration creates a token with a custom expiry. Tests use this
// to mint already-expired tokens.
func (s *TokenService) GenerateWithDuration(userID int64, d time.Duration) (string, error) {
	now := time.Now()

	c := claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(userID, 10),
			ID:        xid.New().String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(d)),
			Issuer:    issuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("auth: signing token: %w", err)
	}

	return signed, nil
}

// Validate parses and verifies a token string and returns the user id from
// the "sub" claim.
//
// WithValidMethods pins the algorithm to HS256. Without it a token with
// alg=none (or an RS256 public key confusion) could slip past verification.
func (s *TokenService) Validate(tokenStr string) (int64, error) {
	token, err := jwt.ParseWithClaims(
		tokenStr,
		&claims{},
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("auth: unexpected signing method: %v", token.Header["alg"])
			}
			return s.secret, nil
		},
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return 0, errors.New("auth: token expired")
		}
		return 0, fmt.Errorf("auth: invalid token: %w", err)
	}

	c, ok := token.Claims.(*claims)
	if !ok || !token.Valid {
		return 0, errors.New("auth: invalid token claims")
	}

	userID, err := strconv.ParseInt(c.Subject, 10, 64)
	if err != nil || userID <= 0 {
		return 0, errors.New("auth: token subject is not a user id")
	}

	return userID, nil
}
