package auth

import "github.com/golang-jwt/jwt/v5"

// PrincipalKind distinguishes the two principal types that can authenticate.
// Regular identities live in the user store; the single admin is configured
// out-of-band and never stored.
type PrincipalKind string

const (
	PrincipalUser  PrincipalKind = "user"
	PrincipalAdmin PrincipalKind = "admin"
)

// RoleAdmin is the role claim value carried by admin tokens
const RoleAdmin = "admin"

// UserClaims are the claims of a user session token. Only the identity id is
// encoded; the identity itself is re-fetched from the store on every request.
type UserClaims struct {
	jwt.RegisteredClaims
	UserID string `json:"id"`
}

// AdminClaims are the claims of an admin session token. The admin is not a
// stored entity, so the claims carry the configured username and a role
// marker instead of an id.
type AdminClaims struct {
	jwt.RegisteredClaims
	Username string `json:"username"`
	Role     string `json:"role"`
}

// Kind reports the principal type for a set of admin claims
func (c *AdminClaims) Kind() PrincipalKind {
	return PrincipalAdmin
}

// Kind reports the principal type for a set of user claims
func (c *UserClaims) Kind() PrincipalKind {
	return PrincipalUser
}
