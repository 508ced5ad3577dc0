// Package blob persists the small keyed JSON blobs the store layer owns
// across process restarts: cart line items, recent search terms, and the
// authenticated identity pointer.
//
// Every blob is wrapped in a versioned envelope. A version mismatch on read
// is treated as a miss — stale data from an older shape is discarded rather
// than crashing deserialization.
//
// Three drivers are available:
//   - "memory"  — in-process map (tests)
//   - "file"    — JSON files under BLOB_DIR (default)
//   - "redis"   — Redis strings under a key prefix
package blob

import (
	"encoding/json"
	"fmt"
	"time"

	"shopstream/config"
)

// Store is the driver interface. Get reports (false, nil) on a miss or on a
// version mismatch; errors are reserved for real storage failures.
type Store interface {
	Put(key string, version int, v interface{}) error
	Get(key string, version int, dest interface{}) (bool, error)
	Delete(key string) error
}

// envelope is the on-disk/on-wire shape of every persisted blob.
type envelope struct {
	Version int             `json:"version"`
	SavedAt time.Time       `json:"saved_at"`
	Data    json.RawMessage `json:"data"`
}

func seal(version int, v interface{}) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("blob: marshal value: %w", err)
	}
	raw, err := json.Marshal(envelope{Version: version, SavedAt: time.Now(), Data: data})
	if err != nil {
		return nil, fmt.Errorf("blob: marshal envelope: %w", err)
	}
	return raw, nil
}

// open unwraps a sealed envelope. A version mismatch or an unreadable
// envelope both count as a miss.
func open(raw []byte, version int, dest interface{}) (bool, error) {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return false, nil
	}
	if env.Version != version {
		return false, nil
	}
	if err := json.Unmarshal(env.Data, dest); err != nil {
		return false, nil
	}
	return true, nil
}

// Open constructs the Store named by BLOB_DRIVER.
func Open() (Store, error) {
	switch driver := config.BlobDriver(); driver {
	case "memory":
		return NewMemoryStore(), nil
	case "file":
		return NewFileStore(config.BlobDir())
	case "redis":
		return NewRedisStore(config.RedisAddr(), config.RedisPassword())
	default:
		return nil, fmt.Errorf("blob: unsupported BLOB_DRIVER %q (supported: memory, file, redis)", driver)
	}
}
