// Package imagecache keeps downloaded images on disk so repeated extractions
// from the same URL do not hit the network.
package imagecache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Cache stores image bytes keyed by URL.
type Cache struct {
	dir string
}

// New creates a cache rooted at dir. The directory is created on first write.
func New(dir string) *Cache {
	return &Cache{dir: dir}
}

// DefaultDir returns the default cache directory.
func DefaultDir() (string, error) {
	cacheDir, err := os.UserCacheDir()
	if err != nil {
		home, herr := os.UserHomeDir()
		if herr != nil {
			return "", fmt.Errorf("failed to determine cache directory: %w", err)
		}
		cacheDir = filepath.Join(home, ".cache")
	}
	return filepath.Join(cacheDir, "swatch", "images"), nil
}

// Dir returns the cache directory.
func (c *Cache) Dir() string {
	return c.dir
}

// Path returns the file a URL is cached under: a hash of the URL plus its extension.
func (c *Cache) Path(url string) string {
	sum := sha256.Sum256([]byte(url))
	name := hex.EncodeToString(sum[:16])

	ext := filepath.Ext(url)
	if i := strings.IndexAny(ext, "?#"); i != -1 {
		ext = ext[:i]
	}
	if ext == "" || len(ext) > 5 || strings.ContainsRune(ext, '/') {
		ext = ".img"
	}
	return filepath.Join(c.dir, name+strings.ToLower(ext))
}

// Get returns the cached bytes for url. ok is false when nothing is cached.
func (c *Cache) Get(url string) (data []byte, ok bool, err error) {
	data, err = os.ReadFile(c.Path(url))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to read cached image: %w", err)
	}
	return data, true, nil
}

// Put stores data for url, replacing any previous entry.
func (c *Cache) Put(url string, data []byte) error {
	if err := os.MkdirAll(c.dir, 0o755); err != nil { // #nosec G301 - Cache directory needs standard permissions
		return fmt.Errorf("failed to create cache directory: %w", err)
	}

	tmp, err := os.CreateTemp(c.dir, ".download-*")
	if err != nil {
		return fmt.Errorf("failed to create cache file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write cached image: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write cached image: %w", err)
	}
	if err := os.Rename(tmp.Name(), c.Path(url)); err != nil {
		return fmt.Errorf("failed to write cached image: %w", err)
	}
	return nil
}
