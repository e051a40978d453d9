package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/reelproof/reelproof-api/pkg/config"
	"github.com/reelproof/reelproof-api/pkg/db"
	"github.com/reelproof/reelproof-api/pkg/mailer"
	"github.com/reelproof/reelproof-api/pkg/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newAuthTestServer() (*gin.Engine, *fakeStore) {
	gin.SetMode(gin.TestMode)
	cfg := &config.Config{
		JwtSecret: "auth-test-secret",
		AppURL:    "http://localhost:3000",
		AppEnv:    "test",
	}
	store := newFakeStore()
	api := NewHandlers(cfg, store, nil, mailer.New(cfg))

	r := gin.New()
	r.POST("/api/auth/login", api.LoginUser)
	r.POST("/api/auth/invite", api.InviteUser)
	r.POST("/api/auth/setup-password", api.SetupPassword)
	r.POST("/api/auth/forgot-password", api.ForgotPassword)
	r.POST("/api/auth/reset-password", api.ResetPassword)
	return r, store
}

func postJSON(r *gin.Engine, path string, body interface{}) *httptest.ResponseRecorder {
	buf, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(buf))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeData(t *testing.T, w *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	require.NoError(t, json.Unmarshal(envelope.Data, out))
}

func seedUser(store *fakeStore, email, password string, active bool) *db.User {
	hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	u := &db.User{
		Name:         "Seeded User",
		Email:        email,
		PasswordHash: string(hash),
		Role:         db.RoleClient,
		Active:       active,
	}
	store.CreateUser(u)
	return u
}

func TestInviteThenSetupActivatesAccount(t *testing.T) {
	r, store := newAuthTestServer()

	// With no SMTP transport the invite response carries the setup link.
	w := postJSON(r, "/api/auth/invite", gin.H{"name": "Dana Client", "email": "dana@example.com"})
	require.Equal(t, http.StatusCreated, w.Code)

	var inviteData struct {
		EmailSent bool    `json:"email_sent"`
		SetupLink string  `json:"setup_link"`
		User      db.User `json:"user"`
	}
	decodeData(t, w, &inviteData)
	assert.False(t, inviteData.EmailSent)
	require.NotEmpty(t, inviteData.SetupLink)
	assert.False(t, inviteData.User.Active, "invited accounts start inactive")

	link, err := url.Parse(inviteData.SetupLink)
	require.NoError(t, err)
	token := link.Query().Get("token")
	require.NotEmpty(t, token)

	// The account cannot log in before setup.
	w = postJSON(r, "/api/auth/login", gin.H{"email": "dana@example.com", "password": "chosen-password"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = postJSON(r, "/api/auth/setup-password", gin.H{"token": token, "password": "chosen-password"})
	require.Equal(t, http.StatusOK, w.Code)

	user, err := store.FindUserByEmail("dana@example.com")
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.True(t, user.Active, "setup-password activates the account")
	assert.Nil(t, user.ResetTokenHash, "setup consumes the token")

	// The token is single-use.
	w = postJSON(r, "/api/auth/setup-password", gin.H{"token": token, "password": "another-password"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// And the chosen password now logs in.
	w = postJSON(r, "/api/auth/login", gin.H{"email": "dana@example.com", "password": "chosen-password"})
	require.Equal(t, http.StatusOK, w.Code)
	var loginData struct {
		Token string `json:"token"`
	}
	decodeData(t, w, &loginData)
	assert.NotEmpty(t, loginData.Token)
}

func TestSetupPasswordRejectsExpiredToken(t *testing.T) {
	r, store := newAuthTestServer()
	user := seedUser(store, "late@example.com", "irrelevant", false)

	raw, hash, _, err := services.NewResetToken()
	require.NoError(t, err)
	expired := time.Now().Add(-time.Minute)
	require.NoError(t, store.SetUserResetToken(user.ID, hash, expired))

	w := postJSON(r, "/api/auth/setup-password", gin.H{"token": raw, "password": "chosen-password"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.False(t, store.users[user.ID].Active)
}

func TestResetPasswordDoesNotActivate(t *testing.T) {
	r, store := newAuthTestServer()
	user := seedUser(store, "inactive@example.com", "old-password", false)

	raw, hash, expires, err := services.NewResetToken()
	require.NoError(t, err)
	require.NoError(t, store.SetUserResetToken(user.ID, hash, expires))

	w := postJSON(r, "/api/auth/reset-password", gin.H{"token": raw, "password": "new-password"})
	require.Equal(t, http.StatusOK, w.Code)

	updated := store.users[user.ID]
	assert.False(t, updated.Active, "reset-password never flips activation")
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(updated.PasswordHash), []byte("new-password")))
}

func TestForgotPasswordUnknownEmail(t *testing.T) {
	r, _ := newAuthTestServer()
	w := postJSON(r, "/api/auth/forgot-password", gin.H{"email": "nobody@example.com"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestForgotPasswordNeverReturnsResetLink(t *testing.T) {
	r, store := newAuthTestServer()
	user := seedUser(store, "victim@example.com", "old-password", true)

	// No SMTP transport configured, so delivery cannot happen. The response
	// must still withhold the link: this route is unauthenticated and the
	// link is a live credential for the account.
	w := postJSON(r, "/api/auth/forgot-password", gin.H{"email": "victim@example.com"})
	require.Equal(t, http.StatusOK, w.Code)

	body := w.Body.String()
	assert.NotContains(t, body, "reset_link")
	assert.NotContains(t, body, "reset-password?token=")
	assert.Contains(t, body, `"email_sent":false`)

	// The token was still issued server-side for the email path.
	assert.NotNil(t, store.users[user.ID].ResetTokenHash)
	assert.NotNil(t, store.users[user.ID].ResetTokenExpires)
}
