package cache

import (
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

type CachedRate struct {
	Rate      float64
	Timestamp time.Time
}

var (
	cachedRates   = make(map[string]CachedRate)
	cacheDuration = 60 * time.Second
	mu            sync.Mutex
)

// SetTTL overrides the cache lifetime. Rates move fast, so the default is short.
func SetTTL(d time.Duration) {
	mu.Lock()
	defer mu.Unlock()
	if d > 0 {
		cacheDuration = d
	}
}

// GetCachedRate returns a rate from the cache, or false if absent or stale.
func GetCachedRate(key string) (float64, bool) {
	mu.Lock()
	defer mu.Unlock()

	rateData, ok := cachedRates[key]
	if !ok {
		return 0, false
	}

	if time.Since(rateData.Timestamp) > cacheDuration {
		return 0, false
	}

	logrus.Debugf("rate cache hit for %s", key)
	return rateData.Rate, true
}

// SetCachedRate stores a rate in the cache.
func SetCachedRate(key string, rate float64) {
	mu.Lock()
	defer mu.Unlock()

	cachedRates[key] = CachedRate{
		Rate:      rate,
		Timestamp: time.Now(),
	}
}
