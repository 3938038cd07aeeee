package rotation

import (
	"strconv"
	"time"

	"github.com/puzpuzpuz/xsync"
	"github.com/versestream/backend/internal/model"
)

const minCacheTTL = 500 * time.Millisecond

type cacheEntry struct {
	value     model.GetCurrentResponse
	expiresAt time.Time
}

// CurrentCache keeps the last current verse response of each user for a
// short time.
type CurrentCache struct {
	ttl     time.Duration
	entries *xsync.MapOf[string, cacheEntry]
}

func NewCurrentCache(ttl time.Duration) *CurrentCache {
	if ttl < minCacheTTL {
		ttl = minCacheTTL
	}

	return &CurrentCache{ttl: ttl, entries: xsync.NewMapOf[cacheEntry]()}
}

func (c *CurrentCache) Get(userID int64, now time.Time) (model.GetCurrentResponse, bool) {
	key := strconv.FormatInt(userID, 10)
	entry, ok := c.entries.Load(key)
	if !ok {
		return model.GetCurrentResponse{}, false
	}

	if !now.Before(entry.expiresAt) {
		c.entries.Delete(key)
		return model.GetCurrentResponse{}, false
	}

	return entry.value, true
}

func (c *CurrentCache) Set(userID int64, value model.GetCurrentResponse, now time.Time) {
	c.entries.Store(strconv.FormatInt(userID, 10), cacheEntry{value: value, expiresAt: now.Add(c.ttl)})
}
