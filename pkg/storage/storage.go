// Package storage stores product images on a configurable disk.
//
// Two drivers are available:
//   - "local"  — local filesystem, served by the dev gateway under /storage
//   - "s3"     — S3-compatible object storage (AWS S3, MinIO, R2, Spaces)
//
// Quick start:
//
//	m, _ := storage.Connect()
//	_ = m.Put("products/tee.jpg", data)
//	url := m.URL("products/tee.jpg")
package storage

import (
	"fmt"

	"shopstream/config"
	"shopstream/pkg/logger"
)

// Disk is the filesystem driver interface.
type Disk interface {
	// Put writes content to path, creating parents as needed.
	Put(path string, content []byte) error

	// Get returns the full content of the file at path.
	Get(path string) ([]byte, error)

	// Exists reports whether a file exists at path.
	Exists(path string) bool

	// Delete removes a file. Returns nil if the file did not exist.
	Delete(path string) error

	// URL returns the public URL for path.
	URL(path string) string
}

// Manager routes operations to the configured default disk.
type Manager struct {
	disks       map[string]Disk
	defaultDisk string
}

// Connect boots the storage manager. The local disk is always available;
// the S3 disk only when S3_BUCKET is configured.
func Connect() (*Manager, error) {
	m := &Manager{
		disks:       map[string]Disk{"local": newLocalDisk()},
		defaultDisk: config.StorageDefault(),
	}

	if config.StorageS3Bucket() != "" {
		d, err := newS3Disk()
		if err != nil {
			logger.Warn("storage: s3 disk disabled", "error", err)
		} else {
			m.disks["s3"] = d
		}
	}

	if _, ok := m.disks[m.defaultDisk]; !ok {
		return nil, fmt.Errorf("storage: default disk %q is not configured", m.defaultDisk)
	}
	return m, nil
}

// Use returns the named disk ("local" or "s3").
func (m *Manager) Use(name string) (Disk, error) {
	d, ok := m.disks[name]
	if !ok {
		return nil, fmt.Errorf("storage: disk %q is not configured", name)
	}
	return d, nil
}

func (m *Manager) def() Disk { return m.disks[m.defaultDisk] }

// Put writes content to path on the default disk.
func (m *Manager) Put(path string, content []byte) error { return m.def().Put(path, content) }

// Get returns file content from the default disk.
func (m *Manager) Get(path string) ([]byte, error) { return m.def().Get(path) }

// Exists reports whether path exists on the default disk.
func (m *Manager) Exists(path string) bool { return m.def().Exists(path) }

// Delete removes path from the default disk.
func (m *Manager) Delete(path string) error { return m.def().Delete(path) }

// URL returns the public URL for path on the default disk.
func (m *Manager) URL(path string) string { return m.def().URL(path) }
