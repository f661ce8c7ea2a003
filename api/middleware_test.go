package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"golang.org/x/time/rate"
)

func corsRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(CORS())
	router.Any("/probe", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	return router
}

func TestCORS_Preflight(t *testing.T) {
	router := corsRouter()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodOptions, "/probe", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), "HEAD")
}

func TestCORS_RegularRequestPassesThrough(t *testing.T) {
	router := corsRouter()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestRequestSizeLimitWithSize(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name     string
		method   string
		bodySize int
		wantCode int
	}{
		{"import body under the cap", http.MethodPut, 512, http.StatusOK},
		{"body at the cap", http.MethodPut, 1024, http.StatusOK},
		{"body over the cap", http.MethodPost, 4096, http.StatusRequestEntityTooLarge},
		{"GET is never limited", http.MethodGet, 0, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := gin.New()
			router.Use(RequestSizeLimitWithSize(1024))
			router.Any("/probe", func(c *gin.Context) {
				if c.Request.Body != nil {
					if _, err := c.GetRawData(); err != nil {
						c.AbortWithStatus(http.StatusRequestEntityTooLarge)
						return
					}
				}
				c.Status(http.StatusOK)
			})

			w := httptest.NewRecorder()
			req := httptest.NewRequest(tt.method, "/probe", strings.NewReader(strings.Repeat("a", tt.bodySize)))
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.wantCode, w.Code)
		})
	}
}

func TestPerClientRateLimit_BurstThenBlocked(t *testing.T) {
	gin.SetMode(gin.TestMode)

	rateLimiters := &sync.Map{}
	cleanupStop := make(chan struct{})
	defer close(cleanupStop)

	router := gin.New()
	router.Use(PerClientRateLimit(rateLimiters, cleanupStop, &sync.Once{}, 1, 2))
	router.GET("/probe", func(c *gin.Context) { c.Status(http.StatusOK) })

	codes := make([]int, 0, 4)
	for i := 0; i < 4; i++ {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/probe", nil)
		req.RemoteAddr = "10.0.0.1:40000"
		router.ServeHTTP(w, req)
		codes = append(codes, w.Code)
	}

	// The burst of two passes; the rest of the volley is rejected.
	assert.Equal(t, http.StatusOK, codes[0])
	assert.Equal(t, http.StatusOK, codes[1])
	assert.Equal(t, http.StatusTooManyRequests, codes[2])
	assert.Equal(t, http.StatusTooManyRequests, codes[3])
}

func TestPerClientRateLimit_ClientsAreIndependent(t *testing.T) {
	gin.SetMode(gin.TestMode)

	rateLimiters := &sync.Map{}
	cleanupStop := make(chan struct{})
	defer close(cleanupStop)

	router := gin.New()
	router.Use(PerClientRateLimit(rateLimiters, cleanupStop, &sync.Once{}, 1, 1))
	router.GET("/probe", func(c *gin.Context) { c.Status(http.StatusOK) })

	// First client exhausts its bucket.
	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/probe", nil)
		req.RemoteAddr = "10.0.0.1:40000"
		router.ServeHTTP(w, req)
	}

	// A second client still has a full bucket of its own.
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	req.RemoteAddr = "10.0.0.2:40000"
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestSweepIdleLimiters_StopsOnClose(t *testing.T) {
	rateLimiters := &sync.Map{}
	rateLimiters.Store("10.0.0.1", &clientLimiter{
		limiter:  rate.NewLimiter(rate.Every(time.Second), 1),
		lastSeen: time.Now().Add(-time.Hour),
	})

	cleanupStop := make(chan struct{})
	done := make(chan struct{})
	go func() {
		sweepIdleLimiters(rateLimiters, cleanupStop)
		close(done)
	}()

	close(cleanupStop)
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("sweeper did not stop on close")
	}
}
