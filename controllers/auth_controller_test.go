package controllers

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/anjha1/Fluenzy-AI-sub001/config"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newOAuthTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	config.InitGoogleOAuth()

	r := gin.New()
	store := cookie.NewStore([]byte("test-session-key"))
	r.Use(sessions.Sessions("fluenzy", store))
	r.GET("/auth/google", GoogleLogin)
	r.GET("/auth/google/callback", GoogleCallback)
	return r
}

func TestGoogleLoginIssuesRandomState(t *testing.T) {
	r := newOAuthTestRouter()

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/auth/google", nil))
	require.Equal(t, http.StatusTemporaryRedirect, w.Code)

	loc, err := url.Parse(w.Header().Get("Location"))
	require.NoError(t, err)
	state := loc.Query().Get("state")
	assert.NotEmpty(t, state)

	// the state must be bound to the caller's session
	assert.NotEmpty(t, w.Header().Get("Set-Cookie"))

	// two logins never share a state
	w2 := httptest.NewRecorder()
	r.ServeHTTP(w2, httptest.NewRequest(http.MethodGet, "/auth/google", nil))
	loc2, err := url.Parse(w2.Header().Get("Location"))
	require.NoError(t, err)
	assert.NotEqual(t, state, loc2.Query().Get("state"))
}

func TestGoogleCallbackRejectsForgedState(t *testing.T) {
	r := newOAuthTestRouter()

	// establish a session holding a known state
	login := httptest.NewRecorder()
	r.ServeHTTP(login, httptest.NewRequest(http.MethodGet, "/auth/google", nil))
	require.Equal(t, http.StatusTemporaryRedirect, login.Code)
	sessionCookie := login.Header().Get("Set-Cookie")
	require.NotEmpty(t, sessionCookie)

	cb := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/auth/google/callback?state=forged&code=abc", nil)
	req.Header.Set("Cookie", sessionCookie)
	r.ServeHTTP(cb, req)

	assert.Equal(t, http.StatusBadRequest, cb.Code)
}

func TestGoogleCallbackRejectsMissingSessionState(t *testing.T) {
	r := newOAuthTestRouter()

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/auth/google/callback?state=anything&code=abc", nil))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
