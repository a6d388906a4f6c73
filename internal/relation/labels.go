package relation

import (
	"fmt"
	"sync"
)

// LabelCache is a read-through cache of relation-code display labels.
// The code table changes only when the store is rebuilt, so the cache is
// populated once per process and invalidated explicitly after a reload.
type LabelCache struct {
	load func() (map[CodeKey]string, error)

	mu     sync.Mutex
	labels map[CodeKey]string
}

// NewLabelCache creates a cache backed by the given loader. The loader is
// called at most once until Invalidate.
func NewLabelCache(load func() (map[CodeKey]string, error)) *LabelCache {
	return &LabelCache{load: load}
}

// Get returns the display label for a relation code, or a generated
// placeholder like "kinship#12" when the code table has no entry.
func (c *LabelCache) Get(t Type, code int) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.labels == nil {
		labels, err := c.load()
		if err != nil {
			return "", fmt.Errorf("loading relation code labels: %w", err)
		}
		c.labels = labels
	}

	if label, ok := c.labels[CodeKey{Type: t, Code: code}]; ok {
		return label, nil
	}
	return fmt.Sprintf("%s#%d", t, code), nil
}

// Invalidate drops the cached table so the next Get reloads it.
func (c *LabelCache) Invalidate() {
	c.mu.Lock()
	c.labels = nil
	c.mu.Unlock()
}
