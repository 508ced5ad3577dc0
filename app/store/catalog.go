// Package store holds the client-side state layer of the storefront:
// the product catalog mirror, the cart, search state, and the
// authenticated session. Stores are explicit dependency-injected
// containers, not process-wide singletons; each is safe for concurrent
// use and terminates every failure at its own boundary, reporting
// through the toast notifier instead of returning errors to the UI
// flow.
package store

import (
	"context"
	"fmt"
	"path"
	"strings"
	"sync"
	"time"

	"shopstream/app/models"
	"shopstream/internal/gateway"
	"shopstream/pkg/collection"
	"shopstream/pkg/logger"
	"shopstream/pkg/metrics"
	"shopstream/pkg/notify"
	"shopstream/pkg/storage"
	"shopstream/pkg/validate"
)

// CatalogStore is the single source of truth for the product catalog as
// observed by the running client. It mirrors the gateway's products
// table and mediates every write against it.
type CatalogStore struct {
	gw     gateway.ProductGateway
	notify *notify.Notifier
	images *storage.Manager // nil when image upload is not wired

	mu       sync.RWMutex
	products []models.Product
	loading  bool
}

// NewCatalog returns an empty catalog store backed by gw.
func NewCatalog(gw gateway.ProductGateway, n *notify.Notifier) *CatalogStore {
	return &CatalogStore{gw: gw, notify: n}
}

// WithImages wires an image storage disk for UploadImage.
func (s *CatalogStore) WithImages(m *storage.Manager) *CatalogStore {
	s.images = m
	return s
}

// Products returns the cached catalog, newest first.
func (s *CatalogStore) Products() []models.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Product, len(s.products))
	copy(out, s.products)
	return out
}

// Loading reports whether a FetchAll is in flight.
func (s *CatalogStore) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

func (s *CatalogStore) setLoading(v bool) {
	s.mu.Lock()
	s.loading = v
	s.mu.Unlock()
}

// FetchAll replaces the whole cache with the gateway's current row set.
// On failure the previous cache stays visible and the error is reported
// through the notifier only.
func (s *CatalogStore) FetchAll(ctx context.Context) {
	s.setLoading(true)
	defer s.setLoading(false)

	rows, err := s.gw.List(ctx)
	if err != nil {
		logger.Error("catalog fetch failed", "error", err)
		s.notify.Error("Could not load products. Please try again.")
		return
	}

	// One assignment: readers see either the old set or the new set,
	// never a merge of the two.
	s.mu.Lock()
	s.products = rows
	s.mu.Unlock()

	metrics.CatalogSize.Set(float64(len(rows)))
}

// Add validates the draft, then inserts it through the gateway and
// merges the returned row at the head of the cache. Validation failures
// never reach the gateway.
func (s *CatalogStore) Add(ctx context.Context, draft models.ProductDraft) {
	if errs := validate.Struct(draft); validate.HasErrors(errs) {
		s.notify.Error(validate.First(errs))
		return
	}
	draft.Category = models.NormalizeCategory(draft.Category)

	row, err := s.gw.Insert(ctx, draft)
	if err != nil {
		logger.Error("product insert failed", "error", err, "title", draft.Title)
		s.notify.Error("Could not add the product.")
		return
	}

	s.mu.Lock()
	s.products = append([]models.Product{row}, s.products...)
	size := len(s.products)
	s.mu.Unlock()

	metrics.CatalogSize.Set(float64(size))
	s.notify.Success("Product added.")
}

// Update sends a full-row replace and swaps the cache entry for the
// gateway's returned row, picking up server-side normalization and the
// timestamp bump. A failed update leaves the cached row untouched.
func (s *CatalogStore) Update(ctx context.Context, p models.Product) {
	p.Category = models.NormalizeCategory(p.Category)

	row, err := s.gw.Update(ctx, p)
	if err != nil {
		logger.Error("product update failed", "error", err, "id", p.ID)
		s.notify.Error("Could not update the product.")
		return
	}

	s.mu.Lock()
	s.products = collection.Map(s.products, func(existing models.Product) models.Product {
		if existing.ID == row.ID {
			return row
		}
		return existing
	})
	s.mu.Unlock()

	s.notify.Success("Product updated.")
}

// Delete removes the row from the gateway and then from the cache.
// Deleting an id the gateway no longer has still counts as success.
func (s *CatalogStore) Delete(ctx context.Context, id uint) {
	if err := s.gw.Delete(ctx, id); err != nil {
		logger.Error("product delete failed", "error", err, "id", id)
		s.notify.Error("Could not delete the product.")
		return
	}

	s.mu.Lock()
	s.products = collection.Reject(s.products, func(p models.Product) bool {
		return p.ID == id
	})
	size := len(s.products)
	s.mu.Unlock()

	metrics.CatalogSize.Set(float64(size))
	s.notify.Success("Product deleted.")
}

// ByCategory returns the cached products whose category matches,
// case-insensitively. Unknown categories yield an empty slice.
func (s *CatalogStore) ByCategory(category string) []models.Product {
	want := models.NormalizeCategory(category)

	s.mu.RLock()
	defer s.mu.RUnlock()
	return collection.Filter(s.products, func(p models.Product) bool {
		return strings.ToLower(p.Category) == want
	})
}

// Watch subscribes to the gateway's change feed and refetches the full
// catalog on every products-table event, so concurrent clients
// converge. The feed is released when ctx is cancelled.
func (s *CatalogStore) Watch(ctx context.Context) error {
	events, err := s.gw.Subscribe(ctx)
	if err != nil {
		return fmt.Errorf("store: watch catalog: %w", err)
	}

	go func() {
		for ev := range events {
			if ev.Table != "products" {
				continue
			}
			logger.Debug("catalog change event", "type", ev.Type, "id", ev.ID)
			s.FetchAll(ctx)
		}
	}()
	return nil
}

// UploadImage stores a product image on the configured disk and returns
// its public URL. The key is prefixed with a timestamp so re-uploads of
// the same filename never collide.
func (s *CatalogStore) UploadImage(name string, content []byte) (string, error) {
	if s.images == nil {
		return "", fmt.Errorf("store: image storage is not configured")
	}

	key := fmt.Sprintf("products/%d_%s", time.Now().UnixMilli(), path.Base(name))
	if err := s.images.Put(key, content); err != nil {
		logger.Error("image upload failed", "error", err, "name", name)
		s.notify.Error("Could not upload the image.")
		return "", err
	}
	return s.images.URL(key), nil
}
