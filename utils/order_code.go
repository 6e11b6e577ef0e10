package utils

import (
	"fmt"
	"math/rand"
)

// OrderCodePrefix starts every public order code
const OrderCodePrefix = "DH"

// GenerateOrderCode returns "DH" followed by six digits. Collisions are
// caught by the unique index and the caller retries.
func GenerateOrderCode() string {
	return fmt.Sprintf("%s%06d", OrderCodePrefix, 100000+rand.Intn(900000))
}
