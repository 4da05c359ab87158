package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajayk/studisdb/internal/pkg/auth"
)

func protectedRouter(jwtService *auth.JWTService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(NewAuthMiddleware(jwtService).JWTAuth())
	router.GET("/protected", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"userId": c.GetString(ContextUserID),
			"email":  c.GetString(ContextEmail),
			"role":   c.GetString(ContextRole),
		})
	})
	return router
}

func TestJWTAuth(t *testing.T) {
	jwtService := auth.NewJWTService(auth.JWTConfig{
		SecretKey:      "unit-test-secret",
		AccessTokenExp: time.Hour,
		TokenIssuer:    "studisdb-test",
	})
	router := protectedRouter(jwtService)

	token, _, err := jwtService.GenerateToken("user-1", "ann@example.edu", "student")
	require.NoError(t, err)

	tests := []struct {
		name       string
		header     string
		wantStatus int
	}{
		{"valid bearer token", "Bearer " + token, http.StatusOK},
		{"raw token without prefix", token, http.StatusOK},
		{"missing header", "", http.StatusUnauthorized},
		{"garbage token", "Bearer nope", http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)
			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}

func TestJWTAuthExpiredToken(t *testing.T) {
	jwtService := auth.NewJWTService(auth.JWTConfig{
		SecretKey:      "unit-test-secret",
		AccessTokenExp: -time.Minute,
		TokenIssuer:    "studisdb-test",
	})
	router := protectedRouter(jwtService)

	token, _, err := jwtService.GenerateToken("user-1", "ann@example.edu", "")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Token expired")
}
