package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/use-agent/mediascout/config"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(r *gin.Engine, headers map[string]string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	r.ServeHTTP(w, req)
	return w
}

func TestAuth(t *testing.T) {
	r := gin.New()
	r.Use(Auth([]string{"k1", "", "k2"}))
	r.GET("/x", func(c *gin.Context) { c.String(http.StatusOK, c.GetString(apiKeyContext)) })

	tests := []struct {
		name    string
		headers map[string]string
		want    int
	}{
		{"missing", nil, http.StatusUnauthorized},
		{"wrong", map[string]string{"X-API-Key": "nope"}, http.StatusUnauthorized},
		{"prefix of valid key", map[string]string{"X-API-Key": "k"}, http.StatusUnauthorized},
		{"header", map[string]string{"X-API-Key": "k1"}, http.StatusOK},
		{"bearer", map[string]string{"Authorization": "Bearer k2"}, http.StatusOK},
		{"basic ignored", map[string]string{"Authorization": "Basic k2"}, http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(r, tt.headers)
			assert.Equal(t, tt.want, w.Code)
			if tt.want == http.StatusUnauthorized {
				assert.Contains(t, w.Body.String(), `"UNAUTHORIZED"`)
			}
		})
	}
}

func TestAuthNoKeysIsOpen(t *testing.T) {
	r := gin.New()
	r.Use(Auth(nil))
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	assert.Equal(t, http.StatusNoContent, serve(r, nil).Code)
}

func TestRateLimitPerIdentity(t *testing.T) {
	r := gin.New()
	r.Use(Auth([]string{"a", "b"}))
	r.Use(RateLimit(config.RateLimitConfig{RequestsPerSecond: 0.001, Burst: 2}))
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	keyA := map[string]string{"X-API-Key": "a"}
	assert.Equal(t, http.StatusOK, serve(r, keyA).Code)
	assert.Equal(t, http.StatusOK, serve(r, keyA).Code)

	w := serve(r, keyA)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
	assert.Contains(t, w.Body.String(), `"RATE_LIMITED"`)

	assert.Equal(t, http.StatusOK, serve(r, map[string]string{"X-API-Key": "b"}).Code)
}
