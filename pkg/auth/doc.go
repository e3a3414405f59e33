// Package auth implements the session token service, password hashing, and
// session cookies.
//
// Two token namespaces exist: user tokens encode an identity id and are
// carried in the "token" cookie; admin tokens encode the configured admin
// username plus a role claim and are carried in the "admin" cookie. Both are
// HS256 JWTs signed with the server secret and expire seven days after
// issuance. Verification of one namespace rejects tokens from the other, so
// sessions cannot be confused or escalated.
//
// The server keeps no session state: logout clears the cookie client-side
// and a stolen token stays valid until natural expiry.
package auth
