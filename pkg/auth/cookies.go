package auth

import (
	"net/http"
	"time"
)

const (
	// UserCookieName carries the user session token
	UserCookieName = "token"
	// AdminCookieName carries the admin session token
	AdminCookieName = "admin"
)

// CookieWriter builds session cookies with environment-appropriate
// attributes. In production cookies are Secure with SameSite=None so the
// browser sends them on cross-origin API calls from the hosted frontend; in
// development they are SameSite=Lax over plain HTTP.
type CookieWriter struct {
	production bool
}

// NewCookieWriter creates a cookie writer for the given environment
func NewCookieWriter(production bool) *CookieWriter {
	return &CookieWriter{production: production}
}

// SetUserToken attaches the user session cookie to the response
func (cw *CookieWriter) SetUserToken(w http.ResponseWriter, token string) {
	http.SetCookie(w, cw.sessionCookie(UserCookieName, token, TokenLifetime))
}

// SetAdminToken attaches the admin session cookie to the response
func (cw *CookieWriter) SetAdminToken(w http.ResponseWriter, token string) {
	http.SetCookie(w, cw.sessionCookie(AdminCookieName, token, TokenLifetime))
}

// ClearUserToken expires the user session cookie
func (cw *CookieWriter) ClearUserToken(w http.ResponseWriter) {
	http.SetCookie(w, cw.sessionCookie(UserCookieName, "", -time.Hour))
}

// ClearAdminToken expires the admin session cookie
func (cw *CookieWriter) ClearAdminToken(w http.ResponseWriter) {
	http.SetCookie(w, cw.sessionCookie(AdminCookieName, "", -time.Hour))
}

func (cw *CookieWriter) sessionCookie(name, value string, lifetime time.Duration) *http.Cookie {
	c := &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		MaxAge:   int(lifetime / time.Second),
	}
	if cw.production {
		c.Secure = true
		c.SameSite = http.SameSiteNoneMode
	} else {
		c.SameSite = http.SameSiteLaxMode
	}
	return c
}

// ReadUserToken extracts the user session token from the request cookie.
// Returns an empty string when the cookie is absent.
func ReadUserToken(r *http.Request) string {
	c, err := r.Cookie(UserCookieName)
	if err != nil {
		return ""
	}
	return c.Value
}

// ReadAdminToken extracts the admin session token from the request cookie
func ReadAdminToken(r *http.Request) string {
	c, err := r.Cookie(AdminCookieName)
	if err != nil {
		return ""
	}
	return c.Value
}
