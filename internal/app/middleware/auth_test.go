package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"backend/internal/app/config"
	"backend/internal/app/ds"
	"backend/internal/app/role"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	return &config.Config{
		JWT: config.JWTConfig{
			Token:         "test-secret",
			ExpiresIn:     time.Hour,
			SigningMethod: jwt.SigningMethodHS256,
		},
	}
}

func signToken(t *testing.T, cfg *config.Config, userRole role.Role, expiresIn time.Duration) string {
	t.Helper()
	token := jwt.NewWithClaims(cfg.JWT.SigningMethod, &ds.JWTClaims{
		StandardClaims: jwt.StandardClaims{
			ExpiresAt: time.Now().Add(expiresIn).Unix(),
			IssuedAt:  time.Now().Unix(),
		},
		UserID:      42,
		DisplayName: "alice",
		Role:        userRole,
	})
	signed, err := token.SignedString([]byte(cfg.JWT.Token))
	require.NoError(t, err)
	return signed
}

func testRouter(cfg *config.Config, allowed ...role.Role) *gin.Engine {
	gin.SetMode(gin.TestMode)
	am := NewAuthMiddleware(nil, cfg)

	r := gin.New()
	r.GET("/protected", am.WithAuthCheck(allowed...), func(c *gin.Context) {
		p, ok := PrincipalFromContext(c)
		if !ok {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.JSON(http.StatusOK, gin.H{"id": p.ID, "name": p.DisplayName, "role": p.Role.String()})
	})
	return r
}

func doRequest(r *gin.Engine, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthCheckMissingHeader(t *testing.T) {
	r := testRouter(testConfig(), role.Candidate)
	w := doRequest(r, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthCheckMalformedToken(t *testing.T) {
	r := testRouter(testConfig(), role.Candidate)
	w := doRequest(r, "Bearer not-a-jwt")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthCheckWrongSecret(t *testing.T) {
	cfg := testConfig()
	other := testConfig()
	other.JWT.Token = "another-secret"

	r := testRouter(cfg, role.Candidate)
	w := doRequest(r, "Bearer "+signToken(t, other, role.Candidate, time.Hour))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthCheckExpiredToken(t *testing.T) {
	cfg := testConfig()
	r := testRouter(cfg, role.Candidate)
	w := doRequest(r, "Bearer "+signToken(t, cfg, role.Candidate, -time.Hour))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthCheckWrongRole(t *testing.T) {
	cfg := testConfig()
	r := testRouter(cfg, role.Company)
	w := doRequest(r, "Bearer "+signToken(t, cfg, role.Candidate, time.Hour))
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestAuthCheckSetsPrincipal(t *testing.T) {
	cfg := testConfig()
	r := testRouter(cfg, role.Candidate)
	w := doRequest(r, "Bearer "+signToken(t, cfg, role.Candidate, time.Hour))

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"id": 42, "name": "alice", "role": "candidate"}`, w.Body.String())
}

func TestAuthCheckAnyRoleWhenUnrestricted(t *testing.T) {
	cfg := testConfig()
	r := testRouter(cfg) // без ограничения ролей
	w := doRequest(r, "Bearer "+signToken(t, cfg, role.Company, time.Hour))
	assert.Equal(t, http.StatusOK, w.Code)
}
