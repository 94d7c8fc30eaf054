package config

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/gomega"
	"github.com/prometheus/client_golang/prometheus"

	"taskapp/internal/adapter/http/helper"
	"taskapp/internal/core/model/response"
	"taskapp/internal/core/telemetry"
	. "taskapp/pkg"
	"taskapp/pkg/logger"
)

func newTestRateLimiter() *RateLimiter {
	metrics := telemetry.NewAppMetrics(prometheus.NewRegistry())
	return NewRateLimiter(GetDefaultConfig().RateLimitConfigs, logger.NewNop(), metrics)
}

func newRateLimitedRouter(rl *RateLimiter) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(rl.RateLimitMiddleware())

	return router
}

func TestNewRateLimiter(t *testing.T) {
	RegisterTestingT(t)
	rl := newTestRateLimiter()

	Expect(rl).ToNot(BeNil())
	Expect(rl.cache).ToNot(BeNil())
	Expect(rl.config).To(HaveKey("default"))
	Expect(rl.config).To(HaveKey("POST /tasks"))
	Expect(rl.metrics).ToNot(BeNil())
}

func TestNewRateLimiter_AddsDefault(t *testing.T) {
	RegisterTestingT(t)
	rl := NewRateLimiter(nil, logger.NewNop(), nil)

	Expect(rl.config["default"].Requests).To(Equal(60))
	Expect(rl.config["default"].KeyFunc).ToNot(BeNil())
}

func TestRateLimitMiddleware_AllowedRequests(t *testing.T) {
	RegisterTestingT(t)
	router := newRateLimitedRouter(newTestRateLimiter())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	for i := 0; i < 5; i++ {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/health", nil)
		router.ServeHTTP(w, req)

		Expect(w.Code).To(Equal(200))
		Expect(w.Header().Get("X-RateLimit-Limit")).To(Equal("60"))
		Expect(w.Header().Get("X-RateLimit-Remaining")).To(Equal(strconv.Itoa(59 - i)))
	}
}

func TestRateLimitMiddleware_ExceedLimit(t *testing.T) {
	RegisterTestingT(t)
	router := newRateLimitedRouter(newTestRateLimiter())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	for i := 0; i < 65; i++ {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/health", nil)
		router.ServeHTTP(w, req)

		if i < 60 {
			Expect(w.Code).To(Equal(200))
		} else {
			Expect(w.Code).To(Equal(429))
			Expect(w.Header().Get("Retry-After")).ToNot(BeEmpty())
		}
	}
}

func TestRateLimitMiddleware_ErrorBody(t *testing.T) {
	RegisterTestingT(t)
	router := newRateLimitedRouter(newTestRateLimiter())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	var w *httptest.ResponseRecorder
	for i := 0; i < 61; i++ {
		w = httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/health", nil)
		router.ServeHTTP(w, req)
	}

	Expect(w.Code).To(Equal(http.StatusTooManyRequests))

	var body response.ErrorResponse
	Expect(json.Unmarshal(w.Body.Bytes(), &body)).To(Succeed())
	Expect(body.Error.Code).To(Equal(helper.CodeRateLimited))
	Expect(body.Error.Errors).To(HaveLen(1))
	Expect(body.Error.Errors[0].Field).To(Equal("rate_limit"))
	Expect(body.Error.Errors[0].Message).To(ContainSubstring("Limit: 60"))
	Expect(body.Error.Details).To(HaveKey("retry_after"))
}

func TestRateLimitMiddleware_RoutePattern(t *testing.T) {
	RegisterTestingT(t)
	router := newRateLimitedRouter(newTestRateLimiter())

	callCount := 0
	router.DELETE("/tasks/:id", func(c *gin.Context) {
		callCount++
		c.Status(http.StatusNoContent)
	})

	expectedRemaining := []int{9, 8, 7, 6, 5}

	for i, expected := range expectedRemaining {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("DELETE", "/tasks/"+strconv.Itoa(i), nil)
		router.ServeHTTP(w, req)

		Expect(w.Code).To(Equal(http.StatusNoContent))
		Expect(w.Header().Get("X-RateLimit-Remaining")).To(Equal(strconv.Itoa(expected)),
			"DELETE request %d shares the /tasks/:id window", i+1)
	}

	Expect(callCount).To(Equal(5))
}

func TestRateLimitMiddleware_PerClient(t *testing.T) {
	RegisterTestingT(t)
	router := newRateLimitedRouter(newTestRateLimiter())

	router.POST("/tasks", func(c *gin.Context) {
		c.Status(http.StatusCreated)
	})

	send := func(ip string) string {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", "/tasks", strings.NewReader(`{"title":"test"}`))
		req.Header.Set("X-Forwarded-For", ip)
		router.ServeHTTP(w, req)
		return w.Header().Get("X-RateLimit-Remaining")
	}

	Expect(send("10.0.0.1")).To(Equal("19"))
	Expect(send("10.0.0.1")).To(Equal("18"))
	Expect(send("10.0.0.2")).To(Equal("19"))
}

func TestRateLimitMiddleware_WindowReset(t *testing.T) {
	RegisterTestingT(t)
	rl := newTestRateLimiter()
	rl.SetConfig("GET /health", RateLimitEndpointConfig{Requests: 2, Window: time.Minute})

	clock := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return clock }

	router := newRateLimitedRouter(rl)
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	send := func() int {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/health", nil)
		router.ServeHTTP(w, req)
		return w.Code
	}

	Expect(send()).To(Equal(200))
	Expect(send()).To(Equal(200))
	Expect(send()).To(Equal(429))

	clock = clock.Add(time.Minute + time.Second)

	Expect(send()).To(Equal(200))
}

func TestRateLimiterGetStats(t *testing.T) {
	RegisterTestingT(t)
	rl := newTestRateLimiter()

	stats := rl.GetStats()
	Expect(stats["active_entries"]).To(Equal(0))
	Expect(stats["configs"]).To(Equal(len(GetDefaultConfig().RateLimitConfigs)))
}

func TestRateLimiterSetConfig(t *testing.T) {
	RegisterTestingT(t)
	rl := newTestRateLimiter()

	config := RateLimitEndpointConfig{
		Requests: 5,
		Window:   time.Minute,
		KeyFunc:  GetClientIP,
	}

	rl.SetConfig("/custom", config)

	Expect(rl.config["/custom"].Requests).To(Equal(config.Requests))
	Expect(rl.config["/custom"].Window).To(Equal(config.Window))
	Expect(rl.config["/custom"].KeyFunc).ToNot(BeNil())
}

func TestRateLimitMiddleware_NoDoubleCounting(t *testing.T) {
	RegisterTestingT(t)
	router := newRateLimitedRouter(newTestRateLimiter())

	callCount := 0
	var callCountMutex sync.Mutex
	router.POST("/tasks", func(c *gin.Context) {
		callCountMutex.Lock()
		callCount++
		callCountMutex.Unlock()
		c.Status(http.StatusCreated)
	})

	numRequests := 10
	results := make([]int, numRequests)
	var wg sync.WaitGroup

	for i := 0; i < numRequests; i++ {
		wg.Go(func() {
			w := httptest.NewRecorder()
			req, _ := http.NewRequest("POST", "/tasks", strings.NewReader(`{"title":"test"}`))
			req.Header.Set("Content-Type", "application/json")
			router.ServeHTTP(w, req)

			remaining, _ := strconv.Atoi(w.Header().Get("X-RateLimit-Remaining"))
			results[i] = remaining
		})
	}

	wg.Wait()

	Expect(callCount).To(Equal(numRequests))

	expectedRemaining := []int{19, 18, 17, 16, 15, 14, 13, 12, 11, 10}
	sort.Ints(results)
	sort.Ints(expectedRemaining)

	Expect(results).To(Equal(expectedRemaining))
}
