package api

import (
	"crypto/subtle"
	"net/http"

	"github.com/devlink-social/devlink/pkg/httputil"
	"github.com/devlink-social/devlink/pkg/middleware"
	"github.com/devlink-social/devlink/pkg/observability"
)

type adminLoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// handleAdminLogin checks the environment-configured admin credentials and
// issues the admin session cookie. The admin is never a stored record, so
// there is no lookup here, just a constant-time comparison.
func (s *Server) handleAdminLogin(w http.ResponseWriter, r *http.Request) {
	var req adminLoginRequest
	if !httputil.ParseJSONOrError(w, r, &req) {
		return
	}
	if req.Username == "" || req.Password == "" {
		httputil.WriteValidationError(w, "Both username and password are required")
		return
	}

	usernameOK := subtle.ConstantTimeCompare([]byte(req.Username), []byte(s.adminUsername)) == 1
	passwordOK := subtle.ConstantTimeCompare([]byte(req.Password), []byte(s.adminPassword)) == 1
	if !usernameOK || !passwordOK {
		s.recordLogin("admin", false)
		httputil.WriteUnauthorized(w, "Wrong username or password")
		return
	}

	token, err := s.tokens.IssueAdminToken(s.adminUsername)
	if err != nil {
		observability.FromContext(r.Context()).WithError(err).Error("admin login: token issuance failed")
		httputil.WriteInternalError(w, "Server error")
		return
	}
	s.cookies.SetAdminToken(w, token)
	s.recordLogin("admin", true)

	httputil.WriteSuccessMessage(w, "Welcome "+s.adminUsername)
}

// handleAdminStatus is the admin session probe; the guard has already
// verified the token and the username pin.
func (s *Server) handleAdminStatus(w http.ResponseWriter, r *http.Request) {
	if middleware.GetAdminClaims(r) == nil {
		httputil.WriteUnauthorized(w, "Authentication failed")
		return
	}
	httputil.WriteSuccessMessage(w, "Successfully logged in")
}

// handleAdminLogout clears the admin session cookie
func (s *Server) handleAdminLogout(w http.ResponseWriter, r *http.Request) {
	s.cookies.ClearAdminToken(w)
	httputil.WriteSuccessMessage(w, "Successfully logged out")
}
