// Package covers stores downloaded cover art in the catalog's image
// format (JPEG) under a configurable directory.
package covers

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

const jpegQuality = 90

var (
	nonSlugRe   = regexp.MustCompile(`[^a-z0-9-]+`)
	multiDashRe = regexp.MustCompile(`-+`)
)

// Slug turns a title into a clean lowercase filename stem,
// e.g. "Elden Ring" -> "elden-ring".
func Slug(title string) string {
	s := strings.ToLower(strings.TrimSpace(title))
	s = nonSlugRe.ReplaceAllString(s, "-")
	s = multiDashRe.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// Save decodes the raw image data, re-encodes it as JPEG under dir with a
// slugged filename, and returns the stored file's path.
func Save(dir string, title string, data []byte) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create cover dir: %w", err)
	}

	slug := Slug(title)
	if slug == "" {
		return "", fmt.Errorf("cannot slug title %q", title)
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("failed to decode cover for %q: %w", title, err)
	}

	path := filepath.Join(dir, slug+".jpg")
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create cover file: %w", err)
	}
	defer f.Close()

	if err := jpeg.Encode(f, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return "", fmt.Errorf("failed to encode cover for %q: %w", title, err)
	}
	return path, nil
}
