package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/36node/store-cli/internal/api"
	"github.com/36node/store-cli/internal/cache"
	"github.com/36node/store-cli/internal/resolve"
)

// resolveListLimit bounds the list fetched to resolve names.
const resolveListLimit = 500

// openCacheStore returns the lookup cache for resource, or a nil Store when
// caching is off or the backend can't be opened. A nil Store is a no-op.
func openCacheStore(s *session, resource string) (*cache.Store, func()) {
	backend, err := cache.Open()
	if err != nil {
		slog.Debug("cache unavailable", "error", err)
		return nil, func() {}
	}
	if backend == nil {
		return nil, func() {}
	}
	closeFn := func() {}
	if c, ok := backend.(io.Closer); ok {
		closeFn = func() { _ = c.Close() }
	}
	return cache.NewStore(backend, resource, s.cfg.BaseURL, s.cfg.Profile), closeFn
}

// resolveProductID maps an id, slug or product name to a product id.
func resolveProductID(ctx context.Context, s *session, input string) (string, error) {
	input = strings.TrimSpace(input)
	if resolve.LooksLikeID(input) || s.recorder != nil {
		return input, nil
	}

	store, closeFn := openCacheStore(s, "products")
	defer closeFn()

	var products []api.Product
	if !store.Get(ctx, &products) {
		var err error
		products, err = api.Decode[[]api.Product](s.client.Product().ListProducts(ctx, api.Request{Query: &api.Query{Limit: resolveListLimit}}))
		if err != nil {
			return "", fmt.Errorf("failed to list products: %w", err)
		}
		store.Put(ctx, products)
	}

	named := make([]resolve.Named, 0, len(products))
	for _, p := range products {
		if p.Slug != "" && strings.EqualFold(p.Slug, input) {
			return p.ID, nil
		}
		named = append(named, resolve.Named{ID: p.ID, Name: p.Name})
	}
	id, err := resolve.FuzzyMatch(input, named)
	if err != nil {
		return "", fmt.Errorf("product %q: %w", input, err)
	}
	return id, nil
}

// resolveReplyID maps an id or keyword to a reply id.
func resolveReplyID(ctx context.Context, s *session, input string) (string, error) {
	input = strings.TrimSpace(input)
	if resolve.LooksLikeID(input) || s.recorder != nil {
		return input, nil
	}

	store, closeFn := openCacheStore(s, "replies")
	defer closeFn()

	var replies []api.Reply
	if !store.Get(ctx, &replies) {
		var err error
		replies, err = api.Decode[[]api.Reply](s.client.Reply().ListReplies(ctx, api.Request{Query: &api.Query{Limit: resolveListLimit}}))
		if err != nil {
			return "", fmt.Errorf("failed to list replies: %w", err)
		}
		store.Put(ctx, replies)
	}

	named := make([]resolve.Named, 0, len(replies))
	for _, r := range replies {
		named = append(named, resolve.Named{ID: r.ID, Name: r.Keyword})
	}
	id, err := resolve.FuzzyMatch(input, named)
	if err != nil {
		return "", fmt.Errorf("reply %q: %w", input, err)
	}
	return id, nil
}

// invalidateCache drops a resource's lookup cache after a mutation.
func invalidateCache(ctx context.Context, s *session, resource string) {
	if s.recorder != nil {
		return
	}
	store, closeFn := openCacheStore(s, resource)
	defer closeFn()
	store.Clear(ctx)
}
