package store_test

import (
	"context"
	"reflect"
	"testing"

	"shopstream/app/models"
	"shopstream/app/store"
	"shopstream/pkg/notify"
)

func newCatalog(gw *fakeGateway) (*store.CatalogStore, *toastRecorder) {
	n := notify.New()
	rec := recordToasts(n)
	return store.NewCatalog(gw, n), rec
}

func TestFetchAllReplacesCacheAtomically(t *testing.T) {
	gw := newFakeGateway(
		product(1, "Linen Shirt", 49, "shirts"),
		product(2, "Denim Jacket", 120, "jackets"),
	)
	cat, _ := newCatalog(gw)

	cat.FetchAll(context.Background())
	if got := len(cat.Products()); got != 2 {
		t.Fatalf("expected 2 products, got %d", got)
	}

	// The remote set changes completely; a refetch must leave no
	// leftovers and no duplicates.
	gw.mu.Lock()
	gw.rows = []models.Product{product(3, "Wool Scarf", 25, "accessories")}
	gw.mu.Unlock()

	cat.FetchAll(context.Background())

	got := cat.Products()
	if len(got) != 1 || got[0].ID != 3 {
		t.Errorf("cache not replaced: %+v", got)
	}
}

func TestFetchFailureLeavesCacheUnchanged(t *testing.T) {
	gw := newFakeGateway(product(1, "Linen Shirt", 49, "shirts"))
	cat, rec := newCatalog(gw)

	cat.FetchAll(context.Background())
	before := cat.Products()

	gw.mu.Lock()
	gw.failList = true
	gw.rows = nil
	gw.mu.Unlock()

	cat.FetchAll(context.Background())

	if !reflect.DeepEqual(cat.Products(), before) {
		t.Error("failed fetch must leave last-known-good cache visible")
	}
	if rec.lastLevel() != notify.LevelError {
		t.Error("expected an error toast for the failed fetch")
	}
}

func TestAddRejectsInvalidDraftBeforeGatewayCall(t *testing.T) {
	gw := newFakeGateway()
	cat, rec := newCatalog(gw)

	cat.Add(context.Background(), models.ProductDraft{Price: 10}) // no title, no category

	if gw.insertCalls != 0 {
		t.Errorf("validation failure must not reach the gateway, got %d calls", gw.insertCalls)
	}
	if rec.lastLevel() != notify.LevelError {
		t.Error("expected a validation error toast")
	}
	if len(cat.Products()) != 0 {
		t.Error("cache must stay empty")
	}
}

func TestAddMergesReturnedRowAtHead(t *testing.T) {
	gw := newFakeGateway(product(1, "Old Tee", 15, "tshirts"))
	cat, _ := newCatalog(gw)
	cat.FetchAll(context.Background())

	cat.Add(context.Background(), models.ProductDraft{
		Title:    "New Tee",
		Price:    20,
		Category: "  TShirts ", // normalized at the write boundary
	})

	got := cat.Products()
	if len(got) != 2 {
		t.Fatalf("expected 2 products, got %d", len(got))
	}
	if got[0].Title != "New Tee" {
		t.Errorf("new row must sit at the head, got %q", got[0].Title)
	}
	if got[0].ID == 0 {
		t.Error("cache must hold the gateway-assigned id")
	}
	if got[0].Category != "tshirts" {
		t.Errorf("category not normalized: %q", got[0].Category)
	}
}

func TestFailedUpdateLeavesCachedRowUntouched(t *testing.T) {
	gw := newFakeGateway(product(1, "Linen Shirt", 49, "shirts"))
	cat, rec := newCatalog(gw)
	cat.FetchAll(context.Background())

	before := cat.Products()[0]

	gw.mu.Lock()
	gw.failUpdate = true
	gw.mu.Unlock()

	changed := before
	changed.Price = 9
	cat.Update(context.Background(), changed)

	after := cat.Products()[0]
	if !reflect.DeepEqual(before, after) {
		t.Errorf("failed update mutated the cache: %+v != %+v", before, after)
	}
	if rec.lastLevel() != notify.LevelError {
		t.Error("expected an error toast")
	}
}

func TestUpdateAdoptsGatewayReturnedRow(t *testing.T) {
	gw := newFakeGateway(product(1, "Linen Shirt", 49, "shirts"))
	cat, _ := newCatalog(gw)
	cat.FetchAll(context.Background())

	changed := cat.Products()[0]
	changed.Price = 39
	cat.Update(context.Background(), changed)

	if got := cat.Products()[0].Price; got != 39 {
		t.Errorf("expected updated price 39, got %v", got)
	}
}

func TestDeleteIsIdempotent(t *testing.T) {
	gw := newFakeGateway(product(1, "Linen Shirt", 49, "shirts"))
	cat, rec := newCatalog(gw)
	cat.FetchAll(context.Background())

	cat.Delete(context.Background(), 1)
	if len(cat.Products()) != 0 {
		t.Fatal("expected empty cache after delete")
	}

	// Deleting an id the gateway no longer has still reads as success.
	cat.Delete(context.Background(), 1)
	if rec.lastLevel() != notify.LevelSuccess {
		t.Error("deleting a missing id must not surface an error")
	}
}

func TestByCategoryIsCaseInsensitive(t *testing.T) {
	gw := newFakeGateway(
		product(1, "Basic Tee", 15, "tshirts"),
		product(2, "Denim Jacket", 120, "jackets"),
	)
	cat, _ := newCatalog(gw)
	cat.FetchAll(context.Background())

	upper := cat.ByCategory("Tshirts")
	lower := cat.ByCategory("tshirts")
	if !reflect.DeepEqual(upper, lower) {
		t.Error("category match must ignore case")
	}
	if len(upper) != 1 || upper[0].ID != 1 {
		t.Errorf("unexpected result: %+v", upper)
	}

	if got := cat.ByCategory("hats"); len(got) != 0 {
		t.Errorf("unknown category must yield empty, got %+v", got)
	}
}

func TestWatchRefetchesOnChangeEvents(t *testing.T) {
	gw := newFakeGateway(product(1, "Linen Shirt", 49, "shirts"))
	cat, _ := newCatalog(gw)
	cat.FetchAll(context.Background())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := cat.Watch(ctx); err != nil {
		t.Fatalf("watch: %v", err)
	}

	gw.mu.Lock()
	gw.rows = append(gw.rows, product(2, "Wool Scarf", 25, "accessories"))
	events := gw.events
	gw.mu.Unlock()

	events <- changeEvent("products", "INSERT", 2)
	close(events)

	waitFor(t, func() bool { return len(cat.Products()) == 2 })
}
