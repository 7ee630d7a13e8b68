// Package imagefile loads handwriting images from disk and checks they are
// a type the Read API accepts from this tool: JPEG or PNG.
package imagefile

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// MaxSize is the Read API limit for the free tier.
const MaxSize = 4 << 20

var allowedExtensions = []string{".jpg", ".jpeg", ".png"}

// Extensions returns the accepted file extensions.
func Extensions() []string {
	return slices.Clone(allowedExtensions)
}

// Load reads path and validates its extension and sniffed content type.
func Load(path string) ([]byte, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if !slices.Contains(allowedExtensions, ext) {
		return nil, fmt.Errorf("unsupported image type %q (accepted: %s)", ext, strings.Join(allowedExtensions, ", "))
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read image: %w", err)
	}
	if info.Size() > MaxSize {
		return nil, fmt.Errorf("image is %d bytes, limit is %d", info.Size(), MaxSize)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read image: %w", err)
	}
	if err := Check(data); err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return data, nil
}

// Check verifies data is a non-empty JPEG or PNG image.
func Check(data []byte) error {
	if len(data) == 0 {
		return fmt.Errorf("image is empty")
	}
	switch ct := http.DetectContentType(data); ct {
	case "image/jpeg", "image/png":
		return nil
	default:
		return fmt.Errorf("content is %s, not a JPEG or PNG image", ct)
	}
}
