package blob

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FileStore keeps each blob as a JSON file under a root directory. This is
// the default driver: a storefront session's cart and recent searches live
// in ~/.shopstream (or wherever BLOB_DIR points).
type FileStore struct {
	root string
}

func NewFileStore(root string) (*FileStore, error) {
	if !filepath.IsAbs(root) {
		cwd, _ := os.Getwd()
		root = filepath.Join(cwd, root)
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("blob/file: mkdir %s: %w", root, err)
	}
	return &FileStore{root: root}, nil
}

func (s *FileStore) path(key string) string {
	// Keys are simple names ("cart", "recent-searches"); strip anything that
	// would escape the root.
	key = strings.ReplaceAll(key, string(os.PathSeparator), "_")
	return filepath.Join(s.root, key+".json")
}

func (s *FileStore) Put(key string, version int, v interface{}) error {
	raw, err := seal(version, v)
	if err != nil {
		return err
	}
	if err := os.WriteFile(s.path(key), raw, 0o644); err != nil {
		return fmt.Errorf("blob/file: write %s: %w", key, err)
	}
	return nil
}

func (s *FileStore) Get(key string, version int, dest interface{}) (bool, error) {
	raw, err := os.ReadFile(s.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("blob/file: read %s: %w", key, err)
	}
	return open(raw, version, dest)
}

func (s *FileStore) Delete(key string) error {
	err := os.Remove(s.path(key))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("blob/file: delete %s: %w", key, err)
	}
	return nil
}
