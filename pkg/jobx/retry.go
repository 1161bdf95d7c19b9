package jobx

import (
	"math/rand/v2"
	"time"
)

// RetryDelay returns base * 2^(attempt-1) plus up to base of jitter.
func RetryDelay(base time.Duration, attempt int) time.Duration {
	if base <= 0 {
		return 0
	}
	if attempt < 1 {
		attempt = 1
	}
	if attempt > 16 {
		attempt = 16
	}
	delay := base * time.Duration(1<<(attempt-1))
	return delay + time.Duration(rand.Int64N(int64(base)))
}
