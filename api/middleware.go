package api

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// clientLimiter pairs a token bucket with the last time its client was seen,
// so idle entries can be dropped.
type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// CORS allows the browser player to call the API from any origin. HEAD is
// included for the media probe; preflights are answered without hitting a
// handler.
func CORS() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, HEAD, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type")
		c.Header("Access-Control-Max-Age", "86400")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// RequestSizeLimit caps bodies at 1MB, enough for any settings, import or
// project payload. Media uploads get their own larger cap from config via
// RequestSizeLimitWithSize.
func RequestSizeLimit() gin.HandlerFunc {
	return RequestSizeLimitWithSize(1024 * 1024)
}

// RequestSizeLimitWithSize wraps mutating request bodies in a
// http.MaxBytesReader so an oversized upload fails at read time instead of
// buffering.
func RequestSizeLimitWithSize(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		switch c.Request.Method {
		case http.MethodPost, http.MethodPut, http.MethodPatch:
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		}
		c.Next()
	}
}

// PerClientRateLimit enforces a per-IP token bucket. The position endpoint
// is polled many times a second during playback, so each route group passes
// its own rps. The first call starts the shared idle-entry sweeper; it stops
// when cleanupStop closes on server shutdown.
func PerClientRateLimit(rateLimiters *sync.Map, cleanupStop chan struct{}, cleanupInitialized *sync.Once, rps int, burst int) gin.HandlerFunc {
	cleanupInitialized.Do(func() {
		go sweepIdleLimiters(rateLimiters, cleanupStop)
	})

	return func(c *gin.Context) {
		entry, _ := rateLimiters.LoadOrStore(c.ClientIP(), &clientLimiter{
			limiter:  rate.NewLimiter(rate.Every(time.Second/time.Duration(rps)), burst),
			lastSeen: time.Now(),
		})

		cl := entry.(*clientLimiter)
		cl.lastSeen = time.Now()

		if !cl.limiter.Allow() {
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error": "Rate limit exceeded. Please slow down your requests.",
			})
			c.Abort()
			return
		}
		c.Next()
	}
}

// sweepIdleLimiters drops limiter entries for clients not seen in ten
// minutes. A returning client simply gets a fresh bucket.
func sweepIdleLimiters(rateLimiters *sync.Map, cleanupStop chan struct{}) {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			now := time.Now()
			rateLimiters.Range(func(key, value any) bool {
				if now.Sub(value.(*clientLimiter).lastSeen) > 10*time.Minute {
					rateLimiters.Delete(key)
				}
				return true
			})
		case <-cleanupStop:
			return
		}
	}
}
