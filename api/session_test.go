package api

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionRoundTrip(t *testing.T) {
	m := newSessionManager("secret", time.Hour, false)
	rec := httptest.NewRecorder()
	token, err := m.issue(rec, 42)
	require.NoError(t, err)

	cookie := rec.Result().Cookies()[0]
	assert.Equal(t, sessionCookieName, cookie.Name)
	assert.True(t, cookie.HttpOnly)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookie)
	userID, ok := m.userFromRequest(req)
	assert.True(t, ok)
	assert.EqualValues(t, 42, userID)

	bearer := httptest.NewRequest(http.MethodGet, "/", nil)
	bearer.Header.Set("Authorization", "Bearer "+token)
	userID, ok = m.userFromRequest(bearer)
	assert.True(t, ok)
	assert.EqualValues(t, 42, userID)
}

func TestSessionRejectsBadTokens(t *testing.T) {
	m := newSessionManager("secret", time.Hour, false)

	expired, err := m.sign(7, time.Now().Add(-2*time.Hour))
	require.NoError(t, err)
	_, err = m.parse(expired)
	assert.Error(t, err)

	other, err := newSessionManager("other", time.Hour, false).sign(7, time.Now())
	require.NoError(t, err)
	_, err = m.parse(other)
	assert.Error(t, err)

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{Subject: "7"}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = m.parse(none)
	assert.Error(t, err)

	noSubject, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString([]byte("secret"))
	require.NoError(t, err)
	_, err = m.parse(noSubject)
	assert.Error(t, err)

	_, ok := m.userFromRequest(httptest.NewRequest(http.MethodGet, "/", nil))
	assert.False(t, ok)
}
