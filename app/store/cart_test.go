package store_test

import (
	"testing"

	"shopstream/app/store"
	"shopstream/pkg/blob"
	"shopstream/pkg/notify"
)

func newCart(t *testing.T) (*store.CartStore, blob.Store) {
	t.Helper()
	blobs := blob.NewMemoryStore()
	return store.NewCart(blobs, notify.New()), blobs
}

func TestAddItemIncrementsSameProductAndSize(t *testing.T) {
	cart, _ := newCart(t)
	tee := product(1, "Basic Tee", 15, "tshirts")

	cart.AddItem(tee, 1, "M")
	cart.AddItem(tee, 2, "M")

	items := cart.Items()
	if len(items) != 1 {
		t.Fatalf("same (id, size) must stay one line, got %d", len(items))
	}
	if items[0].Quantity != 3 {
		t.Errorf("expected quantity 3, got %d", items[0].Quantity)
	}
}

func TestAddItemKeepsSizeVariantsSeparate(t *testing.T) {
	cart, _ := newCart(t)
	tee := product(1, "Basic Tee", 15, "tshirts")

	cart.AddItem(tee, 1, "M")
	cart.AddItem(tee, 1, "L")

	if got := len(cart.Items()); got != 2 {
		t.Errorf("distinct sizes must be distinct lines, got %d", got)
	}
}

func TestAddItemClampsNonPositiveQuantity(t *testing.T) {
	cart, _ := newCart(t)

	cart.AddItem(product(1, "Basic Tee", 15, "tshirts"), 0, "")
	cart.AddItem(product(2, "Denim Jacket", 120, "jackets"), -4, "")

	for _, item := range cart.Items() {
		if item.Quantity != 1 {
			t.Errorf("non-positive quantity must clamp to 1, got %d", item.Quantity)
		}
	}
}

func TestRemoveItemDropsAllSizeVariants(t *testing.T) {
	cart, _ := newCart(t)
	tee := product(1, "Basic Tee", 15, "tshirts")

	cart.AddItem(tee, 1, "M")
	cart.AddItem(tee, 1, "L")
	cart.AddItem(product(2, "Denim Jacket", 120, "jackets"), 1, "")

	cart.RemoveItem(1)

	items := cart.Items()
	if len(items) != 1 || items[0].Product.ID != 2 {
		t.Errorf("remove by id must drop every size variant: %+v", items)
	}
}

func TestUpdateQuantityZeroEqualsRemove(t *testing.T) {
	cart, _ := newCart(t)
	cart.AddItem(product(1, "Basic Tee", 15, "tshirts"), 2, "M")

	cart.UpdateQuantity(1, 0)

	if got := len(cart.Items()); got != 0 {
		t.Errorf("quantity 0 must remove the line, got %d lines", got)
	}
}

func TestCartTotals(t *testing.T) {
	cart, _ := newCart(t)
	cart.AddItem(product(1, "Basic Tee", 10, "tshirts"), 2, "")
	cart.AddItem(product(2, "Socks", 5, "accessories"), 3, "")

	if got := cart.TotalItems(); got != 5 {
		t.Errorf("TotalItems = %d, want 5", got)
	}
	if got := cart.TotalPrice(); got != 35 {
		t.Errorf("TotalPrice = %v, want 35", got)
	}
}

func TestSnapshotPriceIsolation(t *testing.T) {
	cart, _ := newCart(t)

	p := product(1, "Basic Tee", 100, "tshirts")
	cart.AddItem(p, 1, "")

	// Catalog-side mutation after the add must not move the line price.
	p.Price = 50

	if got := cart.Items()[0].Product.Price; got != 100 {
		t.Errorf("snapshot price changed to %v", got)
	}
	if got := cart.TotalPrice(); got != 100 {
		t.Errorf("TotalPrice = %v, want 100", got)
	}
}

func TestCartSurvivesRestart(t *testing.T) {
	blobs := blob.NewMemoryStore()
	n := notify.New()

	cart := store.NewCart(blobs, n)
	cart.AddItem(product(1, "Basic Tee", 15, "tshirts"), 2, "M")

	reloaded := store.NewCart(blobs, n)
	items := reloaded.Items()
	if len(items) != 1 {
		t.Fatalf("expected 1 restored line, got %d", len(items))
	}
	if items[0].Product.Title != "Basic Tee" || items[0].Quantity != 2 || items[0].SelectedSize != "M" {
		t.Errorf("restored line mismatch: %+v", items[0])
	}
}

func TestToggle(t *testing.T) {
	cart, _ := newCart(t)
	if cart.IsOpen() {
		t.Fatal("cart starts closed")
	}
	cart.Toggle()
	if !cart.IsOpen() {
		t.Error("expected open after toggle")
	}
	cart.Toggle()
	if cart.IsOpen() {
		t.Error("expected closed after second toggle")
	}
}
