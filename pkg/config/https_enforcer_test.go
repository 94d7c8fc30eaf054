package config

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"taskapp/pkg/logger"
)

func TestHTTPSEnforcer(t *testing.T) {
	gin.SetMode(gin.TestMode)

	enforcer := NewHTTPSEnforcer(true, logger.NewNop())
	router := gin.New()
	router.Use(enforcer.HTTPSMiddleware())
	router.GET("/tasks", func(c *gin.Context) { c.Status(http.StatusOK) })

	cases := []struct {
		name   string
		host   string
		proto  string
		status int
	}{
		{name: "redirects plain http", host: "tasks.example.com", status: http.StatusMovedPermanently},
		{name: "trusts tls proxy", host: "tasks.example.com", proto: "https", status: http.StatusOK},
		{name: "skips localhost", host: "localhost:8080", status: http.StatusOK},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/tasks?filter=active", nil)
			req.Host = tc.host
			if tc.proto != "" {
				req.Header.Set("X-Forwarded-Proto", tc.proto)
			}

			router.ServeHTTP(w, req)

			assert.Equal(t, tc.status, w.Code)
			if tc.status == http.StatusMovedPermanently {
				assert.Equal(t, "https://tasks.example.com/tasks?filter=active", w.Header().Get("Location"))
			}
		})
	}

	enforcer.SetEnabled(false)
	assert.False(t, enforcer.IsEnabled())
}
