package translate

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/golang/groupcache/lru"
	"github.com/phrazzld/enlearn/internal/platform/logger"
)

// DefaultCacheSize is the capacity used when a non-positive size is given.
const DefaultCacheSize = 256

// CachingTranslator memoizes lookups in a fixed-capacity LRU cache. Results,
// including "no translation", are cached; errors are not.
type CachingTranslator struct {
	next  Translator
	mu    sync.Mutex
	cache *lru.Cache
}

// NewCachingTranslator wraps next with an LRU cache holding size words.
func NewCachingTranslator(next Translator, size int) *CachingTranslator {
	if size <= 0 {
		size = DefaultCacheSize
	}
	return &CachingTranslator{
		next:  next,
		cache: lru.New(size),
	}
}

// Lookup returns the cached result for word or asks the wrapped translator.
// Empty words are answered without a lookup.
func (c *CachingTranslator) Lookup(ctx context.Context, word string) ([]string, error) {
	word = NormalizeWord(word)
	if word == "" {
		return nil, nil
	}
	key := strings.ToLower(word)

	c.mu.Lock()
	if v, ok := c.cache.Get(key); ok {
		c.mu.Unlock()
		logger.FromContext(ctx).Debug("translation cache hit", slog.String("word", word))
		return copyResult(v.([]string)), nil
	}
	c.mu.Unlock()

	result, err := c.next.Lookup(ctx, word)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.cache.Add(key, copyResult(result))
	c.mu.Unlock()

	return result, nil
}

// Len reports the number of cached words.
func (c *CachingTranslator) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cache.Len()
}

func copyResult(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}
