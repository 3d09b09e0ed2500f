package loader

import (
	"context"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/vk/archetype/internal/ctxlog"
	"github.com/vk/archetype/internal/schema"
)

// cacheSize bounds the number of parsed documents kept per source. Catalogs
// are small; the bound exists to keep pathological archives in check.
const cacheSize = 128

// Cached wraps a Source with an LRU of parsed documents keyed by canonical
// reference. Documents are immutable after parse, so sharing one instance
// across invocations is safe.
type Cached struct {
	inner Source
	docs  *lru.Cache[string, *schema.Document]
}

// NewCached wraps inner with a parsed-document cache.
func NewCached(inner Source) (*Cached, error) {
	docs, err := lru.New[string, *schema.Document](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create script cache: %w", err)
	}
	return &Cached{inner: inner, docs: docs}, nil
}

// Resolve delegates to the wrapped source.
func (c *Cached) Resolve(fromRef, ref string) (string, error) {
	return c.inner.Resolve(fromRef, ref)
}

// Load returns the cached document for ref, parsing on first use.
func (c *Cached) Load(ctx context.Context, ref string) (*schema.Document, error) {
	if doc, ok := c.docs.Get(ref); ok {
		ctxlog.FromContext(ctx).Debug("Script cache hit.", "ref", ref)
		return doc, nil
	}
	doc, err := c.inner.Load(ctx, ref)
	if err != nil {
		return nil, err
	}
	c.docs.Add(ref, doc)
	return doc, nil
}
