// Package auth issues and verifies access tokens for API requests.
package auth

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"

	"github.com/reviewpulse/reviewpulse/store"
)

const (
	issuer = "reviewpulse"
	// AccessTokenDuration is how long an issued token stays valid.
	AccessTokenDuration = 7 * 24 * time.Hour
)

// Authenticator verifies bearer tokens and resolves them to users.
type Authenticator struct {
	store  *store.Store
	secret string
}

// NewAuthenticator creates an authenticator signing with secret.
func NewAuthenticator(st *store.Store, secret string) *Authenticator {
	return &Authenticator{store: st, secret: secret}
}

// GenerateAccessToken issues a signed token for user.
func GenerateAccessToken(user *store.User, secret string, now time.Time) (string, error) {
	claims := &jwt.RegisteredClaims{
		Issuer:    issuer,
		Subject:   strconv.Itoa(int(user.ID)),
		Audience:  jwt.ClaimStrings{issuer},
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(AccessTokenDuration)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", errors.Wrap(err, "failed to sign access token")
	}
	return signed, nil
}

// Authenticate resolves an Authorization header to a user. Returns nil
// without error when no credentials are presented.
func (a *Authenticator) Authenticate(ctx context.Context, authHeader string) (*store.User, error) {
	if authHeader == "" {
		return nil, nil
	}
	raw, ok := strings.CutPrefix(authHeader, "Bearer ")
	if !ok {
		return nil, errors.New("malformed authorization header")
	}

	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.Errorf("unexpected signing method %q", token.Method.Alg())
		}
		return []byte(a.secret), nil
	}, jwt.WithIssuer(issuer))
	if err != nil {
		return nil, errors.Wrap(err, "invalid access token")
	}

	id, err := strconv.Atoi(claims.Subject)
	if err != nil {
		return nil, errors.Wrap(err, "invalid token subject")
	}
	userID := int32(id)
	user, err := a.store.GetUser(ctx, &store.FindUser{ID: &userID})
	if err != nil {
		return nil, errors.Wrap(err, "failed to look up user")
	}
	if user == nil {
		return nil, errors.New("user not found")
	}
	return user, nil
}

// HashPassword hashes a plaintext password for storage.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", errors.Wrap(err, "failed to hash password")
	}
	return string(hash), nil
}

// CheckPassword reports whether password matches the stored hash.
func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
