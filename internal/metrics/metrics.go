package metrics

import (
	"sync/atomic"
	"time"
)

type Counter struct {
	value uint64
}

func (c *Counter) Inc() {
	atomic.AddUint64(&c.value, 1)
}

func (c *Counter) Add(n uint64) {
	atomic.AddUint64(&c.value, n)
}

func (c *Counter) Load() uint64 {
	return atomic.LoadUint64(&c.value)
}

type Timer struct {
	start time.Time
}

func StartTimer() *Timer {
	return &Timer{start: time.Now()}
}

func (t *Timer) Duration() time.Duration {
	return time.Since(t.start)
}

// Store aggregates the process-wide operation counters exposed on the
// admin stats endpoint.
type Store struct {
	CheckoutAttempts  Counter
	CheckoutSucceeded Counter
	CheckoutOversold  Counter
	OrdersCancelled   Counter
	PaymentsVerified  Counter
	PaymentsRejected  Counter
}

// Snapshot returns the current counter values as a map keyed for JSON output.
func (s *Store) Snapshot() map[string]uint64 {
	return map[string]uint64{
		"checkout_attempts":  s.CheckoutAttempts.Load(),
		"checkout_succeeded": s.CheckoutSucceeded.Load(),
		"checkout_oversold":  s.CheckoutOversold.Load(),
		"orders_cancelled":   s.OrdersCancelled.Load(),
		"payments_verified":  s.PaymentsVerified.Load(),
		"payments_rejected":  s.PaymentsRejected.Load(),
	}
}
