// Package cache memoizes completion responses keyed by a hash of the
// outbound transcript. A hit replays the raw model text without a network
// call; resolution and commit gating run on it exactly as on a fresh reply.
package cache

import (
	"crypto/sha256"
	"fmt"
	"sync"
	"time"

	"TalkTutor/internal/session"
)

// CachedResponse represents a cached API response
type CachedResponse struct {
	Response  string
	Timestamp time.Time
}

// Cache is a concurrent response cache. The zero value is ready to use.
type Cache struct {
	entries sync.Map
}

// Key generates a cache key from messages
func Key(messages []session.Message) string {
	h := sha256.New()
	for _, msg := range messages {
		h.Write([]byte(msg.Role))
		h.Write([]byte(msg.Content))
	}
	return fmt.Sprintf("%x", h.Sum(nil))
}

// Get returns the cached raw response for key, if present.
func (c *Cache) Get(key string) (string, bool) {
	if val, ok := c.entries.Load(key); ok {
		cached := val.(CachedResponse)
		return cached.Response, true
	}
	return "", false
}

// Put stores a raw response under key.
func (c *Cache) Put(key, response string) {
	c.entries.Store(key, CachedResponse{
		Response:  response,
		Timestamp: time.Now(),
	})
}
