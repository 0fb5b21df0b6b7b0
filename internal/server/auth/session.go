package auth

import (
	"fmt"
	"net/http"
	"time"

	"github.com/dmitrijs2005/gophchat/internal/common"
)

// CookieOptions controls the attributes of the session cookie.
type CookieOptions struct {
	// Path scopes the cookie, normally the API prefix.
	Path string
	// Secure is false only in local development.
	Secure bool
}

// Sessions issues, verifies and revokes cookie-bound session tokens.
// It holds no per-session state; a token is valid while its signature and
// expiry check out.
type Sessions struct {
	secret []byte
	ttl    time.Duration
	cookie CookieOptions
}

func NewSessions(secretKey string, ttl time.Duration, cookie CookieOptions) *Sessions {
	if cookie.Path == "" {
		cookie.Path = "/"
	}
	return &Sessions{secret: []byte(secretKey), ttl: ttl, cookie: cookie}
}

// Issue mints a token for userID and sets it as the session cookie on w.
func (s *Sessions) Issue(w http.ResponseWriter, userID string) (string, error) {
	token, err := GenerateToken(userID, s.secret, s.ttl)
	if err != nil {
		return "", fmt.Errorf("%w: sign session token: %v", common.ErrorInternal, err)
	}

	SetSessionCookie(w, token, s.ttl, s.cookie)

	return token, nil
}

// Revoke overwrites the session cookie with an empty, already expired one.
func (s *Sessions) Revoke(w http.ResponseWriter) {
	ClearSessionCookie(w, s.cookie)
}

// TokenFromRequest returns the raw session token or common.ErrorUnauthorized
// when the request carries none.
func (s *Sessions) TokenFromRequest(r *http.Request) (string, error) {
	c, err := r.Cookie(common.SessionCookieName)
	if err != nil || c.Value == "" {
		return "", common.ErrorUnauthorized
	}
	return c.Value, nil
}

// Verify resolves a token into the user id it was issued for.
func (s *Sessions) Verify(token string) (string, error) {
	return GetUserIDFromToken(token, s.secret)
}

// SetSessionCookie binds token to the response as the session cookie.
func SetSessionCookie(w http.ResponseWriter, token string, ttl time.Duration, opts CookieOptions) {
	http.SetCookie(w, &http.Cookie{
		Name:     common.SessionCookieName,
		Value:    token,
		Path:     opts.Path,
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		Secure:   opts.Secure,
		SameSite: http.SameSiteStrictMode,
	})
}

// ClearSessionCookie overwrites the session cookie with an empty, already expired one.
func ClearSessionCookie(w http.ResponseWriter, opts CookieOptions) {
	http.SetCookie(w, &http.Cookie{
		Name:     common.SessionCookieName,
		Value:    "",
		Path:     opts.Path,
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   opts.Secure,
		SameSite: http.SameSiteStrictMode,
	})
}
