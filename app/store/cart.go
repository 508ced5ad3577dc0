package store

import (
	"sync"

	"shopstream/app/models"
	"shopstream/pkg/blob"
	"shopstream/pkg/collection"
	"shopstream/pkg/logger"
	"shopstream/pkg/metrics"
	"shopstream/pkg/notify"
)

const (
	cartBlobKey     = "cart"
	cartBlobVersion = 1
)

// cartBlob is the persisted shape. The open flag is UI state and does
// not survive restarts.
type cartBlob struct {
	Items []models.CartItem `json:"items"`
}

// CartStore owns the shopping cart. Lines are keyed by
// (product id, selected size); each line holds a snapshot of the
// product taken at add time, so catalog changes never move a price
// already in the cart.
type CartStore struct {
	blobs  blob.Store
	notify *notify.Notifier

	mu    sync.RWMutex
	items []models.CartItem
	open  bool
}

// NewCart returns a cart store, restoring any persisted lines. A
// version-mismatched or corrupt blob starts the cart empty.
func NewCart(blobs blob.Store, n *notify.Notifier) *CartStore {
	s := &CartStore{blobs: blobs, notify: n}

	var saved cartBlob
	ok, err := blobs.Get(cartBlobKey, cartBlobVersion, &saved)
	if err != nil {
		logger.Warn("cart restore failed", "error", err)
	} else if ok {
		s.items = saved.Items
	}

	metrics.CartLines.Set(float64(len(s.items)))
	return s
}

// persist writes the current lines; callers hold the lock.
func (s *CartStore) persist() {
	if err := s.blobs.Put(cartBlobKey, cartBlobVersion, cartBlob{Items: s.items}); err != nil {
		logger.Warn("cart persist failed", "error", err)
	}
	metrics.CartLines.Set(float64(len(s.items)))
}

// Items returns a copy of the cart lines.
func (s *CartStore) Items() []models.CartItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.CartItem, len(s.items))
	copy(out, s.items)
	return out
}

// AddItem adds quantity of a product in the given size. An existing
// (id, size) line has its quantity incremented; otherwise a new line is
// appended with a snapshot copy of the product. Non-positive quantity
// is clamped to 1.
func (s *CartStore) AddItem(p models.Product, quantity int, size string) {
	if quantity < 1 {
		quantity = 1
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.items {
		if s.items[i].Product.ID == p.ID && s.items[i].SelectedSize == size {
			s.items[i].Quantity += quantity
			s.persist()
			return
		}
	}

	s.items = append(s.items, models.CartItem{
		Product:      p, // copied by value: the snapshot
		Quantity:     quantity,
		SelectedSize: size,
	})
	s.persist()
}

// RemoveItem removes every line for the product id, across all size
// variants.
func (s *CartStore) RemoveItem(productID uint) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = collection.Reject(s.items, func(i models.CartItem) bool {
		return i.Product.ID == productID
	})
	s.persist()
}

// UpdateQuantity sets the quantity on every line for the product id.
// A quantity of zero or less removes the line(s) entirely.
func (s *CartStore) UpdateQuantity(productID uint, quantity int) {
	if quantity <= 0 {
		s.RemoveItem(productID)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.items {
		if s.items[i].Product.ID == productID {
			s.items[i].Quantity = quantity
		}
	}
	s.persist()
}

// Clear empties the cart, including its persisted copy.
func (s *CartStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = nil
	s.persist()
}

// Toggle flips the cart drawer's visibility flag.
func (s *CartStore) Toggle() {
	s.mu.Lock()
	s.open = !s.open
	s.mu.Unlock()
}

// IsOpen reports the drawer visibility flag.
func (s *CartStore) IsOpen() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.open
}

// TotalItems is the sum of quantities across all lines.
func (s *CartStore) TotalItems() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return collection.Reduce(s.items, 0, func(acc int, i models.CartItem) int {
		return acc + i.Quantity
	})
}

// TotalPrice sums snapshot price times quantity across all lines.
func (s *CartStore) TotalPrice() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return collection.Reduce(s.items, 0.0, func(acc float64, i models.CartItem) float64 {
		return acc + i.Subtotal()
	})
}
