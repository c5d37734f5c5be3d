package ratelimit

import (
	"sync"
	"time"
)

// TokenBucket is a simple token bucket rate limiter
type TokenBucket struct {
	mu         sync.Mutex
	capacity   int
	tokens     int
	refillRate int // tokens per second
	lastRefill time.Time
}

// NewTokenBucket creates a bucket that starts full
func NewTokenBucket(capacity, refillRate int) *TokenBucket {
	return &TokenBucket{
		capacity:   capacity,
		tokens:     capacity,
		refillRate: refillRate,
		lastRefill: time.Now(),
	}
}

// Allow consumes a token if one is available
func (tb *TokenBucket) Allow() bool {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	tb.refill()

	if tb.tokens > 0 {
		tb.tokens--
		return true
	}
	return false
}

// Tokens returns the number of currently available tokens
func (tb *TokenBucket) Tokens() int {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	tb.refill()
	return tb.tokens
}

// refill adds tokens for the time elapsed since the last refill.
// Must be called with the lock held.
func (tb *TokenBucket) refill() {
	now := time.Now()
	elapsed := now.Sub(tb.lastRefill)

	tokensToAdd := int(elapsed.Seconds() * float64(tb.refillRate))
	if tokensToAdd > 0 {
		tb.tokens += tokensToAdd
		if tb.tokens > tb.capacity {
			tb.tokens = tb.capacity
		}
		tb.lastRefill = now
	}
}

// Collection manages per-client token buckets
type Collection struct {
	mu         sync.RWMutex
	buckets    map[string]*TokenBucket
	capacity   int
	refillRate int

	lastCleanup     time.Time
	cleanupInterval time.Duration
}

// NewCollection creates a per-client bucket collection
func NewCollection(capacity, refillRate int) *Collection {
	return &Collection{
		buckets:         make(map[string]*TokenBucket),
		capacity:        capacity,
		refillRate:      refillRate,
		lastCleanup:     time.Now(),
		cleanupInterval: 10 * time.Minute,
	}
}

// Allow checks whether a request from the given client is allowed
func (c *Collection) Allow(clientID string) bool {
	return c.getBucket(clientID).Allow()
}

func (c *Collection) getBucket(clientID string) *TokenBucket {
	c.mu.RLock()
	bucket, exists := c.buckets[clientID]
	c.mu.RUnlock()

	if exists {
		return bucket
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if bucket, exists := c.buckets[clientID]; exists {
		return bucket
	}

	bucket = NewTokenBucket(c.capacity, c.refillRate)
	c.buckets[clientID] = bucket

	c.maybeCleanup()

	return bucket
}

// maybeCleanup drops full, long-idle buckets so the map stays bounded.
// Must be called with the write lock held.
func (c *Collection) maybeCleanup() {
	now := time.Now()
	if now.Sub(c.lastCleanup) < c.cleanupInterval {
		return
	}

	cutoff := now.Add(-30 * time.Minute)
	for clientID, bucket := range c.buckets {
		if bucket.tokens == bucket.capacity && bucket.lastRefill.Before(cutoff) {
			delete(c.buckets, clientID)
		}
	}

	c.lastCleanup = now
}
