package order

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"
)

// GenerateOrderNumber builds a timestamped order number with a small random
// suffix. Uniqueness is ultimately enforced by the orders_order_number_key
// constraint; collisions are retried by the checkout service.
func GenerateOrderNumber() string {
	now := time.Now().UTC()
	datePart := now.Format("20060102-150405")

	n, err := rand.Int(rand.Reader, big.NewInt(10000))
	if err != nil {
		// fallback: time-based entropy
		n = big.NewInt(now.UnixNano() % 10000)
	}

	return fmt.Sprintf("ORD-%s-%04d", datePart, n.Int64())
}
