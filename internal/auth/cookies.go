package auth

import (
	"net/http"
	"time"
)

// SessionCookieName is the cookie carrying the signed session token.
const SessionCookieName = "token"

// SetSessionCookie attaches the session token to the response. Secure and
// SameSite=None apply only in production; the max-age is shorter than the
// token validity on purpose (the cookie is the soft session limit).
func SetSessionCookie(w http.ResponseWriter, token string, isProduction bool, maxAge time.Duration) {
	cookie := &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		MaxAge:   int(maxAge.Seconds()),
		Secure:   isProduction,
		SameSite: http.SameSiteLaxMode,
	}
	if isProduction {
		cookie.SameSite = http.SameSiteNoneMode
	}
	http.SetCookie(w, cookie)
}

// ClearSessionCookie expires the session cookie. Clearing is unconditional:
// it succeeds whether or not a cookie was present.
func ClearSessionCookie(w http.ResponseWriter, isProduction bool) {
	cookie := &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
		Secure:   isProduction,
		SameSite: http.SameSiteLaxMode,
	}
	if isProduction {
		cookie.SameSite = http.SameSiteNoneMode
	}
	http.SetCookie(w, cookie)
}

// GetSessionTokenFromCookie reads the session token from the request cookie.
func GetSessionTokenFromCookie(r *http.Request) (string, error) {
	cookie, err := r.Cookie(SessionCookieName)
	if err != nil {
		return "", err
	}
	return cookie.Value, nil
}
