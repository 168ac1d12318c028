package sentryext

import (
	"crypto/md5"
	"encoding/hex"
	"time"

	lru "github.com/hashicorp/golang-lru"
)

const (
	recentErrorDuration = time.Minute * 5
	defaultCacheSize    = 100
)

type cache struct {
	*lru.Cache
}

func newCache(size int) (*cache, error) {
	if size == 0 {
		size = defaultCacheSize
	}
	c, err := lru.New(size)
	if err != nil {
		return nil, err
	}
	return &cache{c}, nil
}

// shouldCapture returns true if the error should be captured.
//
// Tracks the last time each error message was sent and skips errors sent
// within recentErrorDuration.
func (c *cache) shouldCapture(err error) bool {
	h := md5.New()
	h.Write([]byte(err.Error()))
	hash := hex.EncodeToString(h.Sum(nil))

	now := time.Now()
	if lastSent, exists := c.Get(hash); exists {
		if now.Sub(lastSent.(time.Time)) < recentErrorDuration {
			return false
		}
	}

	c.Add(hash, now)
	return true
}
