package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/reelproof/reelproof-api/pkg/db"
	"github.com/reelproof/reelproof-api/pkg/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("middleware-test-secret")

func newAuthRouter(extra ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	chain := append([]gin.HandlerFunc{AuthMiddleware(testSecret)}, extra...)
	chain = append(chain, func(c *gin.Context) {
		claims, ok := GetUserClaimsFromContext(c)
		if !ok {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "claims missing from context"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"user_id": claims.UserID.String(), "role": claims.Role})
	})
	r.GET("/protected", chain...)
	return r
}

func doRequest(r *gin.Engine, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if token != "" {
		req.Header.Set(TokenHeader, token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddlewareMissingToken(t *testing.T) {
	w := doRequest(newAuthRouter(), "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddlewareInvalidToken(t *testing.T) {
	w := doRequest(newAuthRouter(), "not-a-jwt")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddlewareWrongSecret(t *testing.T) {
	token, err := services.GenerateToken([]byte("different-secret"), uuid.New(), db.RoleEditor)
	require.NoError(t, err)

	w := doRequest(newAuthRouter(), token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddlewarePassesValidToken(t *testing.T) {
	userID := uuid.New()
	token, err := services.GenerateToken(testSecret, userID, db.RoleClient)
	require.NoError(t, err)

	w := doRequest(newAuthRouter(), token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), userID.String())
	assert.Contains(t, w.Body.String(), db.RoleClient)
}

func TestRequireEditorBlocksClients(t *testing.T) {
	clientToken, err := services.GenerateToken(testSecret, uuid.New(), db.RoleClient)
	require.NoError(t, err)
	editorToken, err := services.GenerateToken(testSecret, uuid.New(), db.RoleEditor)
	require.NoError(t, err)

	r := newAuthRouter(RequireEditor())

	w := doRequest(r, clientToken)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doRequest(r, editorToken)
	assert.Equal(t, http.StatusOK, w.Code)
}
