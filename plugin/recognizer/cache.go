package recognizer

import (
	"container/list"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/hrygo/recognizers/plugin/recognizer/model"
)

// outcomeCache is an LRU cache with TTL of recognition results.
// Cached slices are shared and must not be modified by callers.
type outcomeCache struct {
	capacity   int
	defaultTTL time.Duration
	mu         sync.Mutex
	now        func() time.Time

	entries map[string]*cacheEntry
	order   *list.List // front is most recently used
}

type cacheEntry struct {
	key       string
	value     []model.ParseOutcome
	expiresAt time.Time
	element   *list.Element
}

func newOutcomeCache(capacity int, ttl time.Duration) *outcomeCache {
	if capacity <= 0 {
		capacity = 1000
	}
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &outcomeCache{
		capacity:   capacity,
		defaultTTL: ttl,
		now:        time.Now,
		entries:    make(map[string]*cacheEntry),
		order:      list.New(),
	}
}

// cacheKey identifies a recognition by culture, reference second and text.
func cacheKey(culture string, ref time.Time, text string) string {
	var b strings.Builder
	b.WriteString(culture)
	b.WriteByte('|')
	b.WriteString(strconv.FormatInt(ref.Unix(), 10))
	b.WriteByte('|')
	b.WriteString(ref.Location().String())
	b.WriteByte('|')
	b.WriteString(text)
	return b.String()
}

func (c *outcomeCache) get(key string) ([]model.ParseOutcome, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if c.now().After(e.expiresAt) {
		c.remove(e)
		return nil, false
	}
	c.order.MoveToFront(e.element)
	return e.value, true
}

func (c *outcomeCache) set(key string, value []model.ParseOutcome) {
	c.mu.Lock()
	defer c.mu.Unlock()

	expires := c.now().Add(c.defaultTTL)
	if e, ok := c.entries[key]; ok {
		e.value = value
		e.expiresAt = expires
		c.order.MoveToFront(e.element)
		return
	}

	for len(c.entries) >= c.capacity {
		oldest := c.order.Back()
		if oldest == nil {
			break
		}
		c.remove(oldest.Value.(*cacheEntry))
	}

	e := &cacheEntry{key: key, value: value, expiresAt: expires}
	e.element = c.order.PushFront(e)
	c.entries[key] = e
}

func (c *outcomeCache) size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// remove must be called with the lock held.
func (c *outcomeCache) remove(e *cacheEntry) {
	c.order.Remove(e.element)
	delete(c.entries, e.key)
}
