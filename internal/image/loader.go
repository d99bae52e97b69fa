// Package image loads images from files, directories and URLs for colour extraction.
package image

import (
	"bytes"
	"context"
	"crypto/rand"
	"fmt"
	"image"
	_ "image/gif"  // Register GIF format
	_ "image/jpeg" // Register JPEG format
	_ "image/png"  // Register PNG format
	"io"
	"math/big"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/hashicorp/go-hclog"
	_ "golang.org/x/image/webp" // Register WebP format

	"github.com/jmylchreest/swatch/internal/security"
	httputil "github.com/jmylchreest/swatch/internal/util/http"
	"github.com/jmylchreest/swatch/internal/util/imagecache"
)

// Loader loads a decoded image from a source string.
type Loader interface {
	Load(ctx context.Context, source string) (image.Image, error)
}

// isURL reports whether source is an HTTP(S) URL.
func isURL(source string) bool {
	return strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://")
}

// SupportedImageExtensions returns a list of supported image file extensions.
func SupportedImageExtensions() []string {
	return []string{".jpg", ".jpeg", ".png", ".gif", ".webp"}
}

// isImageFile checks if a file has a supported image extension.
func isImageFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return slices.Contains(SupportedImageExtensions(), ext)
}

// decode decodes image data, naming the detected format in errors.
func decode(r io.Reader) (image.Image, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image (format: %s): %w", format, err)
	}
	return img, nil
}

// LoadFile loads an image from a file path.
// Supported formats: JPEG, PNG, GIF, WebP.
func LoadFile(path string) (image.Image, error) {
	if path == "" {
		return nil, fmt.Errorf("image path cannot be empty")
	}

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("image file not found: %s", path)
		}
		return nil, fmt.Errorf("failed to stat image file: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("path is a directory, not a file: %s", path)
	}

	file, err := os.Open(path) // #nosec G304 - User-specified image path, intended to be read
	if err != nil {
		return nil, fmt.Errorf("failed to open image file: %w", err)
	}
	defer file.Close()

	return decode(file)
}

// ScanDirectoryForImages returns all supported image files in a directory.
// It does not recurse into subdirectories, but follows symlinks.
func ScanDirectoryForImages(dirPath string) ([]string, error) {
	entries, err := os.ReadDir(dirPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory: %w", err)
	}

	var imageFiles []string
	for _, entry := range entries {
		fullPath := filepath.Join(dirPath, entry.Name())

		// Stat the target so symlinks resolve; skip anything we cannot stat.
		info, err := os.Stat(fullPath)
		if err != nil || info.IsDir() {
			continue
		}
		if isImageFile(entry.Name()) {
			imageFiles = append(imageFiles, fullPath)
		}
	}

	if len(imageFiles) == 0 {
		return nil, fmt.Errorf("no supported image files found in directory: %s", dirPath)
	}
	return imageFiles, nil
}

// SelectRandomImage selects a random image from a list of image paths.
func SelectRandomImage(imagePaths []string) (string, error) {
	if len(imagePaths) == 0 {
		return "", fmt.Errorf("image path list is empty")
	}
	idx, err := rand.Int(rand.Reader, big.NewInt(int64(len(imagePaths))))
	if err != nil {
		return "", fmt.Errorf("failed to generate random number: %w", err)
	}
	return imagePaths[idx.Int64()], nil
}

// ResolveImagePath resolves a source that could be a URL, file or directory.
// Directories resolve to a random image inside them; files and URLs are returned as-is.
func ResolveImagePath(source string) (string, error) {
	if source == "" {
		return "", fmt.Errorf("image path cannot be empty")
	}
	if isURL(source) {
		return source, nil
	}

	info, err := os.Stat(source)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("image file or directory not found: %s", source)
		}
		return "", fmt.Errorf("failed to access path: %w", err)
	}
	if !info.IsDir() {
		return source, nil
	}

	imageFiles, err := ScanDirectoryForImages(source)
	if err != nil {
		return "", err
	}
	return SelectRandomImage(imageFiles)
}

// SmartLoader loads images from local files, directories and HTTP(S) URLs.
type SmartLoader struct {
	timeout time.Duration
	logger  hclog.Logger
	cache   *imagecache.Cache
}

// NewSmartLoader creates a SmartLoader. A zero timeout uses the HTTP default.
func NewSmartLoader(timeout time.Duration, logger hclog.Logger) *SmartLoader {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &SmartLoader{timeout: timeout, logger: logger}
}

// WithCache keeps downloaded images in cache and reuses them on later loads.
func (l *SmartLoader) WithCache(cache *imagecache.Cache) *SmartLoader {
	l.cache = cache
	return l
}

// Load resolves source and decodes the image it names.
func (l *SmartLoader) Load(ctx context.Context, source string) (image.Image, error) {
	resolved, err := ResolveImagePath(source)
	if err != nil {
		return nil, err
	}
	if resolved != source {
		l.logger.Debug("selected image from directory", "dir", source, "image", resolved)
	}

	var img image.Image
	if isURL(resolved) {
		img, err = l.loadFromURL(ctx, resolved)
	} else {
		img, err = LoadFile(resolved)
	}
	if err != nil {
		return nil, err
	}

	b := img.Bounds()
	l.logger.Debug("image loaded", "source", resolved, "width", b.Dx(), "height", b.Dy())
	return img, nil
}

// loadFromURL fetches and decodes an image from an HTTP(S) URL.
func (l *SmartLoader) loadFromURL(ctx context.Context, url string) (image.Image, error) {
	if err := security.ValidateRemoteURL(url); err != nil {
		return nil, err
	}

	if l.cache != nil {
		data, ok, err := l.cache.Get(url)
		if err != nil {
			l.logger.Warn("ignoring unreadable cache entry", "url", url, "error", err)
		}
		if ok {
			l.logger.Debug("using cached image", "url", url, "path", l.cache.Path(url))
			return decode(bytes.NewReader(data))
		}
	}

	l.logger.Debug("fetching image", "url", url)
	data, err := httputil.Fetch(ctx, url, httputil.FetchOptions{
		Timeout: l.timeout,
		Accept:  httputil.AcceptImages,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch image from URL: %w", err)
	}

	img, err := decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	if l.cache != nil {
		if err := l.cache.Put(url, data); err != nil {
			l.logger.Warn("failed to cache image", "url", url, "error", err)
		}
	}
	return img, nil
}
