package ratelimit

import "sync"

// circuitBreaker tracks consecutive primary store errors. After enough
// failures the limiter switches to the in-memory fallback until the
// primary store answers a streak of probes again.
type circuitBreaker struct {
	mu               sync.Mutex
	open             bool
	failureCount     int
	successCount     int
	failureThreshold int
	successThreshold int
}

func newCircuitBreaker() *circuitBreaker {
	return &circuitBreaker{
		failureThreshold: 5,
		successThreshold: 3,
	}
}

func (c *circuitBreaker) IsOpen() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.open
}

// RecordFailure reports whether the circuit is now open.
func (c *circuitBreaker) RecordFailure() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.failureCount++
	c.successCount = 0
	if c.open {
		return true
	}
	if c.failureCount >= c.failureThreshold {
		c.open = true
	}
	return c.open
}

// RecordSuccess reports whether the circuit is now closed.
func (c *circuitBreaker) RecordSuccess() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.open {
		c.failureCount = 0
		return true
	}
	c.successCount++
	if c.successCount >= c.successThreshold {
		c.open = false
		c.failureCount = 0
		c.successCount = 0
	}
	return !c.open
}
