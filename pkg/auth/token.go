package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenLifetime is how long a session token stays valid after issuance.
// There is no server-side revocation list; a token lives until expiry.
const TokenLifetime = 7 * 24 * time.Hour

// ErrInvalidToken covers signature mismatch, malformed structure, expiry,
// and wrong-namespace tokens. Callers must not distinguish further: a client
// only ever learns that its token was rejected.
var ErrInvalidToken = errors.New("invalid or expired token")

// TokenService issues and verifies signed session tokens. User and admin
// tokens are independent namespaces: each has its own claims struct and its
// own cookie, so one can never be escalated into the other.
type TokenService struct {
	secret []byte
	now    func() time.Time
}

// NewTokenService creates a token service signing with the given secret.
// An empty secret is a configuration error the caller must treat as fatal.
func NewTokenService(secret []byte) (*TokenService, error) {
	if len(secret) == 0 {
		return nil, errors.New("auth: signing secret must not be empty")
	}
	return &TokenService{
		secret: secret,
		now:    time.Now,
	}, nil
}

// IssueUserToken signs a token for the given identity id, expiring
// TokenLifetime from now.
func (ts *TokenService) IssueUserToken(userID string) (string, error) {
	claims := UserClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(ts.now()),
			ExpiresAt: jwt.NewNumericDate(ts.now().Add(TokenLifetime)),
		},
		UserID: userID,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(ts.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign user token: %w", err)
	}
	return signed, nil
}

// IssueAdminToken signs a token for the admin principal with the role claim
// set, expiring TokenLifetime from now.
func (ts *TokenService) IssueAdminToken(username string) (string, error) {
	claims := AdminClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(ts.now()),
			ExpiresAt: jwt.NewNumericDate(ts.now().Add(TokenLifetime)),
		},
		Username: username,
		Role:     RoleAdmin,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(ts.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign admin token: %w", err)
	}
	return signed, nil
}

// VerifyUserToken validates signature and expiry and returns the user claims.
// A valid token does not imply the identity still exists; callers re-check
// the store.
func (ts *TokenService) VerifyUserToken(tokenString string) (*UserClaims, error) {
	claims := &UserClaims{}
	if err := ts.parse(tokenString, claims); err != nil {
		return nil, err
	}
	if claims.UserID == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// VerifyAdminToken validates signature and expiry and checks the role claim.
// Tokens from the user namespace fail here on the missing role.
func (ts *TokenService) VerifyAdminToken(tokenString string) (*AdminClaims, error) {
	claims := &AdminClaims{}
	if err := ts.parse(tokenString, claims); err != nil {
		return nil, err
	}
	if claims.Role != RoleAdmin || claims.Username == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func (ts *TokenService) parse(tokenString string, claims jwt.Claims) error {
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return ts.secret, nil
	}, jwt.WithTimeFunc(ts.now))
	if err != nil {
		return ErrInvalidToken
	}
	if !token.Valid {
		return ErrInvalidToken
	}
	return nil
}
