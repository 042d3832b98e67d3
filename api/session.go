package api

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const sessionCookieName = "session"

// sessionManager issues and verifies the HS256 session token.
type sessionManager struct {
	secret []byte
	ttl    time.Duration
	secure bool
}

func newSessionManager(secret string, ttl time.Duration, secure bool) sessionManager {
	if ttl <= 0 {
		ttl = 7 * 24 * time.Hour
	}
	return sessionManager{secret: []byte(secret), ttl: ttl, secure: secure}
}

func (m sessionManager) sign(userID uint, now time.Time) (string, error) {
	claims := jwt.RegisteredClaims{
		Subject:   strconv.FormatUint(uint64(userID), 10),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
}

func (m sessionManager) parse(token string) (uint, error) {
	var claims jwt.RegisteredClaims
	_, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return m.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return 0, err
	}
	id, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid session subject %q", claims.Subject)
	}
	return uint(id), nil
}

// issue signs a token for userID and stores it in the session cookie.
func (m sessionManager) issue(w http.ResponseWriter, userID uint) (string, error) {
	token, err := m.sign(userID, time.Now())
	if err != nil {
		return "", err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(m.ttl.Seconds()),
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return token, nil
}

func (m sessionManager) clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// userFromRequest reads the token from the cookie, falling back to a
// bearer Authorization header.
func (m sessionManager) userFromRequest(r *http.Request) (uint, bool) {
	var token string
	if c, err := r.Cookie(sessionCookieName); err == nil {
		token = c.Value
	}
	if token == "" {
		if auth := r.Header.Get("Authorization"); strings.HasPrefix(auth, "Bearer ") {
			token = strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
		}
	}
	if token == "" {
		return 0, false
	}
	userID, err := m.parse(token)
	if err != nil {
		return 0, false
	}
	return userID, true
}
