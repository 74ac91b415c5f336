// Package jitter добавляет случайность в интервалы повторных попыток,
// чтобы разнести по времени одновременные ретраи.
package jitter

import (
	"math/rand"
	"sync"
	"time"
)

// DefaultJitter — стандартный коэффициент джиттера (50%)
const DefaultJitter = 0.5

var (
	globalRand = rand.New(rand.NewSource(time.Now().UnixNano()))
	randMu     sync.Mutex
)

// Duration возвращает длительность из диапазона [d, d*(1+factor)].
func Duration(d time.Duration, factor float64) time.Duration {
	randMu.Lock()
	j := globalRand.Float64() * factor * float64(d)
	randMu.Unlock()

	return d + time.Duration(j)
}

// ExponentialBackoff вычисляет задержку для повторной попытки attempt
// (нумерация с нуля): base удваивается на каждую попытку, ограничивается max,
// затем к результату применяется джиттер.
func ExponentialBackoff(base, max time.Duration, attempt int, factor float64) time.Duration {
	backoff := base
	for i := 0; i < attempt; i++ {
		backoff *= 2
		if backoff > max {
			backoff = max
			break
		}
	}

	return Duration(backoff, factor)
}
