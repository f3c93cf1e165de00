// Package ratelimit throttles the file reads performed while hashing.
// One Limiter is shared by every hashing worker, so the configured rate
// bounds the whole run rather than each file.
package ratelimit

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"
	"time"
)

// Limiter is a token bucket measured in bytes
type Limiter struct {
	bytesPerSecond int64
	mu             sync.Mutex
	tokens         int64     // Available tokens (bytes)
	lastUpdate     time.Time // Last time tokens were updated
	bucketSize     int64     // Maximum tokens (burst size)
}

// NewLimiter creates a limiter for bytesPerSecond.
// A non-positive rate means no limit and yields a nil *Limiter.
func NewLimiter(bytesPerSecond int64) *Limiter {
	if bytesPerSecond <= 0 {
		return nil
	}

	// One second of data, and never less than one hashing chunk
	bucketSize := bytesPerSecond
	if bucketSize < 65536 {
		bucketSize = 65536
	}

	return &Limiter{
		bytesPerSecond: bytesPerSecond,
		tokens:         bucketSize,
		lastUpdate:     time.Now(),
		bucketSize:     bucketSize,
	}
}

// Rate returns the configured bytes per second
func (l *Limiter) Rate() int64 {
	if l == nil {
		return 0
	}
	return l.bytesPerSecond
}

// wait blocks until needed tokens are available or ctx is done
func (l *Limiter) wait(ctx context.Context, needed int64) error {
	for {
		l.mu.Lock()
		l.refillTokens()

		if l.tokens >= needed {
			l.mu.Unlock()
			return nil
		}

		deficit := needed - l.tokens
		waitTime := time.Duration(float64(deficit) / float64(l.bytesPerSecond) * float64(time.Second))
		if waitTime < time.Millisecond {
			waitTime = time.Millisecond
		}
		l.mu.Unlock()

		timer := time.NewTimer(waitTime)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}

// refillTokens adds tokens for the elapsed time (must be called with lock held)
func (l *Limiter) refillTokens() {
	now := time.Now()
	elapsed := now.Sub(l.lastUpdate)

	tokensToAdd := int64(float64(elapsed) / float64(time.Second) * float64(l.bytesPerSecond))
	if tokensToAdd > 0 {
		l.tokens += tokensToAdd
		if l.tokens > l.bucketSize {
			l.tokens = l.bucketSize
		}
		l.lastUpdate = now
	}
}

// consumeTokens removes tokens after a read
func (l *Limiter) consumeTokens(n int64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.tokens -= n
	if l.tokens < 0 {
		l.tokens = 0
	}
}

// Reader throttles reads from an underlying file
type Reader struct {
	reader  io.ReadCloser
	limiter *Limiter
	ctx     context.Context
}

// NewReader wraps rc with rate limiting; a nil limiter returns rc unchanged
func NewReader(ctx context.Context, rc io.ReadCloser, limiter *Limiter) io.ReadCloser {
	if limiter == nil {
		return rc
	}
	return &Reader{
		reader:  rc,
		limiter: limiter,
		ctx:     ctx,
	}
}

// Read implements io.Reader with rate limiting
func (r *Reader) Read(p []byte) (int, error) {
	toRead := len(p)
	if toRead > int(r.limiter.bucketSize) {
		toRead = int(r.limiter.bucketSize)
	}

	if err := r.limiter.wait(r.ctx, int64(toRead)); err != nil {
		return 0, err
	}

	n, err := r.reader.Read(p[:toRead])
	if n > 0 {
		r.limiter.consumeTokens(int64(n))
	}
	return n, err
}

// Close closes the underlying file
func (r *Reader) Close() error {
	return r.reader.Close()
}

// Wrapper returns a function that throttles every file it wraps through
// the shared limiter. It returns nil when limiter is nil.
func Wrapper(ctx context.Context, limiter *Limiter) func(io.ReadCloser) io.ReadCloser {
	if limiter == nil {
		return nil
	}
	return func(rc io.ReadCloser) io.ReadCloser {
		return NewReader(ctx, rc, limiter)
	}
}

// ParseRate parses a bandwidth such as "512K", "10M", "1.5G" or "2048"
// into bytes per second. Suffixes are binary (K = 1024). An empty string is 0.
func ParseRate(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}

	upper := strings.ToUpper(s)
	upper = strings.TrimSuffix(upper, "/S")
	upper = strings.TrimSuffix(upper, "B")
	upper = strings.TrimSuffix(upper, "I")

	multiplier := int64(1)
	if n := len(upper); n > 0 {
		switch upper[n-1] {
		case 'K':
			multiplier = 1 << 10
		case 'M':
			multiplier = 1 << 20
		case 'G':
			multiplier = 1 << 30
		case 'T':
			multiplier = 1 << 40
		}
		if multiplier > 1 {
			upper = upper[:n-1]
		}
	}

	value, err := strconv.ParseFloat(upper, 64)
	if err != nil || value < 0 {
		return 0, fmt.Errorf("invalid bandwidth %q (e.g. \"10M\", \"1G\")", s)
	}
	return int64(value * float64(multiplier)), nil
}
