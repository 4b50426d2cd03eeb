package middleware

import (
	"bytes"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// CacheOptions configures a CacheResponse middleware.
type CacheOptions struct {
	// TTL is how long a captured response is replayed before the handler
	// runs again. Staleness up to the TTL is accepted.
	TTL time.Duration

	// KeyFunc derives the cache key from the request. Responses are cached
	// and replayed per key.
	KeyFunc func(c *gin.Context) string
}

type cachedResponse struct {
	status      int
	contentType string
	body        []byte
	expiresAt   time.Time
}

// responseRecorder tees the handler's output so it can be cached.
type responseRecorder struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (r *responseRecorder) Write(b []byte) (int, error) {
	r.body.Write(b)
	return r.ResponseWriter.Write(b)
}

func (r *responseRecorder) WriteString(s string) (int, error) {
	r.body.WriteString(s)
	return r.ResponseWriter.WriteString(s)
}

// CacheResponse returns a middleware that replays successful responses per
// key for the configured TTL. Expired entries are swept by a janitor
// goroutine.
func CacheResponse(opts CacheOptions) gin.HandlerFunc {
	var (
		mutex   sync.RWMutex
		entries = make(map[string]*cachedResponse)
	)

	go func() {
		ticker := time.NewTicker(opts.TTL)
		defer ticker.Stop()

		for range ticker.C {
			now := time.Now()
			mutex.Lock()
			for key, entry := range entries {
				if now.After(entry.expiresAt) {
					delete(entries, key)
				}
			}
			mutex.Unlock()
		}
	}()

	return func(c *gin.Context) {
		key := opts.KeyFunc(c)

		mutex.RLock()
		entry, ok := entries[key]
		mutex.RUnlock()

		if ok && time.Now().Before(entry.expiresAt) {
			c.Data(entry.status, entry.contentType, entry.body)
			c.Abort()
			return
		}

		recorder := &responseRecorder{ResponseWriter: c.Writer, body: &bytes.Buffer{}}
		c.Writer = recorder

		c.Next()

		status := c.Writer.Status()
		if status >= 300 {
			return
		}

		mutex.Lock()
		entries[key] = &cachedResponse{
			status:      status,
			contentType: c.Writer.Header().Get("Content-Type"),
			body:        recorder.body.Bytes(),
			expiresAt:   time.Now().Add(opts.TTL),
		}
		mutex.Unlock()
	}
}
