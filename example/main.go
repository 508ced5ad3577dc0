// Package main is an end-to-end demo of the shopstream store layer: it
// boots the development gateway in-process, mirrors the catalog, runs a
// search, and fills a cart.
//
// To run this example:
//
//	cd example
//	go run .
package main

import (
	"context"
	"fmt"
	"net/http/httptest"
	"os"

	"shopstream/app/store"
	"shopstream/internal/devgateway"
	"shopstream/internal/gateway"
	"shopstream/pkg/blob"
	"shopstream/pkg/notify"
)

func main() {
	os.Setenv("DATABASE_DSN", "file:example?mode=memory&cache=shared")

	srv, err := devgateway.New()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer srv.Close()
	if err := srv.Seed(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	// The storefront side: notifier, stores, gateway client.
	n := notify.New()
	n.Listen(func(t notify.Toast) {
		fmt.Printf("toast [%s] %s\n", t.Level, t.Message)
	})

	client := gateway.NewWithURL(ts.URL)
	blobs := blob.NewMemoryStore()

	catalog := store.NewCatalog(client, n)
	cart := store.NewCart(blobs, n)
	search := store.NewSearch(blobs)

	ctx := context.Background()

	// Mirror the catalog.
	catalog.FetchAll(ctx)
	fmt.Printf("catalog holds %d products\n", len(catalog.Products()))

	// A category view and a search.
	for _, p := range catalog.ByCategory("Jackets") {
		fmt.Printf("jacket: %s (%.2f)\n", p.Title, p.Price)
	}
	search.AddRecent("tee")
	for _, p := range store.Match(catalog.Products(), "tee") {
		fmt.Printf("search hit: %s\n", p.Title)
	}

	// Fill the cart from snapshots.
	products := catalog.Products()
	cart.AddItem(products[0], 2, "M")
	cart.AddItem(products[1], 1, "")
	fmt.Printf("cart: %d items, total %.2f\n", cart.TotalItems(), cart.TotalPrice())
}
