package blob_test

import (
	"os"
	"path/filepath"
	"testing"

	"shopstream/pkg/blob"
)

type cartShape struct {
	Items []string `json:"items"`
}

func drivers(t *testing.T) map[string]blob.Store {
	t.Helper()

	fileStore, err := blob.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("file store: %v", err)
	}

	return map[string]blob.Store{
		"memory": blob.NewMemoryStore(),
		"file":   fileStore,
	}
}

func TestPutGetRoundtrip(t *testing.T) {
	for name, store := range drivers(t) {
		t.Run(name, func(t *testing.T) {
			in := cartShape{Items: []string{"a", "b"}}
			if err := store.Put("cart", 1, in); err != nil {
				t.Fatalf("put: %v", err)
			}

			var out cartShape
			ok, err := store.Get("cart", 1, &out)
			if err != nil {
				t.Fatalf("get: %v", err)
			}
			if !ok {
				t.Fatal("expected a hit")
			}
			if len(out.Items) != 2 || out.Items[0] != "a" {
				t.Errorf("roundtrip mismatch: %+v", out)
			}
		})
	}
}

func TestVersionMismatchIsAMiss(t *testing.T) {
	for name, store := range drivers(t) {
		t.Run(name, func(t *testing.T) {
			if err := store.Put("cart", 1, cartShape{Items: []string{"old"}}); err != nil {
				t.Fatalf("put: %v", err)
			}

			var out cartShape
			ok, err := store.Get("cart", 2, &out)
			if err != nil {
				t.Fatalf("get: %v", err)
			}
			if ok {
				t.Error("expected version mismatch to read as a miss")
			}
		})
	}
}

func TestMissingKeyIsAMiss(t *testing.T) {
	for name, store := range drivers(t) {
		t.Run(name, func(t *testing.T) {
			var out cartShape
			ok, err := store.Get("nope", 1, &out)
			if err != nil {
				t.Fatalf("get: %v", err)
			}
			if ok {
				t.Error("expected miss for unknown key")
			}
		})
	}
}

func TestDelete(t *testing.T) {
	for name, store := range drivers(t) {
		t.Run(name, func(t *testing.T) {
			if err := store.Put("identity", 1, cartShape{}); err != nil {
				t.Fatalf("put: %v", err)
			}
			if err := store.Delete("identity"); err != nil {
				t.Fatalf("delete: %v", err)
			}

			var out cartShape
			if ok, _ := store.Get("identity", 1, &out); ok {
				t.Error("expected miss after delete")
			}

			// Deleting an absent key is not an error.
			if err := store.Delete("identity"); err != nil {
				t.Errorf("second delete: %v", err)
			}
		})
	}
}

func TestCorruptFileIsAMiss(t *testing.T) {
	dir := t.TempDir()
	store, err := blob.NewFileStore(dir)
	if err != nil {
		t.Fatalf("file store: %v", err)
	}

	if err := os.WriteFile(filepath.Join(dir, "cart.json"), []byte("{not json"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	var out cartShape
	ok, err := store.Get("cart", 1, &out)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if ok {
		t.Error("expected corrupt blob to read as a miss")
	}
}
