// Package content holds helpers shared by the content stores.
package content

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"regexp"

	lru "github.com/hashicorp/golang-lru/v2"

	"arabic-reader/internal/domain"
	"arabic-reader/internal/errs"
)

// ID returns the content address of text. Submitting the same text twice
// yields the same id.
func ID(text string) string {
	h := sha1.Sum([]byte(text))
	return hex.EncodeToString(h[:8])
}

var idPattern = regexp.MustCompile(`^[0-9a-f]{16}$`)

// ValidID reports whether id has the shape produced by ID.
func ValidID(id string) bool { return idPattern.MatchString(id) }

// CheckID returns a not-found error for ids ID could never have produced.
func CheckID(id string) error {
	if !ValidID(id) {
		return errs.WrapNotFound("content", id)
	}
	return nil
}

// Cached is a read-through LRU in front of another ContentStore.
type Cached struct {
	next  domain.ContentStore
	cache *lru.Cache[string, string]
}

// NewCached caches up to size texts. Content is immutable per id, so entries
// never need invalidation.
func NewCached(next domain.ContentStore, size int) (*Cached, error) {
	if size <= 0 {
		size = 128
	}
	cache, err := lru.New[string, string](size)
	if err != nil {
		return nil, err
	}
	return &Cached{next: next, cache: cache}, nil
}

func (c *Cached) Store(ctx context.Context, text string) (string, error) {
	id, err := c.next.Store(ctx, text)
	if err != nil {
		return "", err
	}
	c.cache.Add(id, text)
	return id, nil
}

func (c *Cached) Retrieve(ctx context.Context, id string) (string, error) {
	if text, ok := c.cache.Get(id); ok {
		return text, nil
	}
	text, err := c.next.Retrieve(ctx, id)
	if err != nil {
		return "", err
	}
	c.cache.Add(id, text)
	return text, nil
}
