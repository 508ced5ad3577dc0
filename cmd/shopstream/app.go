package main

import (
	"context"
	"fmt"
	"os"

	"shopstream/app/store"
	"shopstream/config"
	"shopstream/internal/gateway"
	"shopstream/pkg/blob"
	"shopstream/pkg/logger"
	"shopstream/pkg/notify"
	"shopstream/pkg/storage"
)

// app wires the full store layer the way a storefront process would:
// one gateway client, one blob store, one notifier rendering toasts to
// the terminal.
type app struct {
	client  *gateway.Client
	catalog *store.CatalogStore
	cart    *store.CartStore
	search  *store.SearchStore
	auth    *store.AuthStore
}

func boot() (*app, error) {
	if err := config.Load(); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if _, err := logger.EnableMongo(); err != nil {
		logger.Warn("mongo log shipping disabled", "error", err)
	}

	blobs, err := blob.Open()
	if err != nil {
		return nil, fmt.Errorf("open blob store: %w", err)
	}

	n := notify.New()
	n.Listen(func(t notify.Toast) {
		fmt.Fprintf(os.Stderr, "[%s] %s\n", t.Level, t.Message)
	})

	client := gateway.New()
	catalog := store.NewCatalog(client, n)
	cart := store.NewCart(blobs, n)
	search := store.NewSearch(blobs)
	auth := store.NewAuth(client, blobs, cart, n).
		OnToken(client.SetToken)

	if images, err := storage.Connect(); err == nil {
		catalog.WithImages(images)
	} else {
		logger.Warn("image storage disabled", "error", err)
	}

	return &app{
		client:  client,
		catalog: catalog,
		cart:    cart,
		search:  search,
		auth:    auth,
	}, nil
}

// bootAuthed additionally restores the persisted session so the
// client carries its bearer token.
func bootAuthed(ctx context.Context) (*app, error) {
	a, err := boot()
	if err != nil {
		return nil, err
	}
	a.auth.Restore(ctx)
	return a, nil
}
