package services

import (
	"encoding/base64"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// Upload is one file received in a multipart request.
type Upload struct {
	Filename    string
	ContentType string
	Data        []byte
}

// ImageStore encodes uploads as inline data URLs and cleans up the legacy
// files that older listings reference by bare name.
type ImageStore struct {
	dir      string
	baseURL  string
	maxBytes int64
	maxCount int
	log      *slog.Logger
}

func NewImageStore(dir, baseURL string, maxBytes int64, maxCount int, log *slog.Logger) *ImageStore {
	return &ImageStore{
		dir:      dir,
		baseURL:  strings.TrimRight(baseURL, "/"),
		maxBytes: maxBytes,
		maxCount: maxCount,
		log:      log,
	}
}

// Encode validates and converts uploads to data URLs, preserving order.
func (s *ImageStore) Encode(files []Upload) ([]string, error) {
	if s.maxCount > 0 && len(files) > s.maxCount {
		return nil, Validation(fmt.Sprintf("Trop d'images (maximum %d)", s.maxCount))
	}
	out := make([]string, 0, len(files))
	for _, f := range files {
		if !strings.HasPrefix(f.ContentType, "image/") {
			return nil, Validation("Seuls les fichiers images sont autorisés")
		}
		if s.maxBytes > 0 && int64(len(f.Data)) > s.maxBytes {
			return nil, Validation(fmt.Sprintf("L'image %s dépasse la taille maximale autorisée", f.Filename))
		}
		out = append(out, "data:"+f.ContentType+";base64,"+base64.StdEncoding.EncodeToString(f.Data))
	}
	return out, nil
}

func isInline(img string) bool {
	return strings.HasPrefix(img, "data:") || strings.HasPrefix(img, "http")
}

// Remove deletes the local files among images. Failures are logged and
// skipped. Only the base name is used so entries cannot escape the uploads dir.
func (s *ImageStore) Remove(images []string) int {
	removed := 0
	for _, img := range images {
		if img == "" || isInline(img) {
			continue
		}
		name := filepath.Base(filepath.Clean("/" + img))
		if name == "/" || name == "." {
			continue
		}
		err := os.Remove(filepath.Join(s.dir, name))
		switch {
		case err == nil:
			removed++
		case errors.Is(err, fs.ErrNotExist):
		default:
			s.log.Warn("image removal failed", "file", name, "err", err)
		}
	}
	return removed
}

// URL resolves a stored image reference to something a browser can load.
func (s *ImageStore) URL(img string) string {
	if img == "" || isInline(img) {
		return img
	}
	return s.baseURL + "/uploads/" + filepath.Base(img)
}

func (s *ImageStore) URLs(images []string) []string {
	out := make([]string, 0, len(images))
	for _, img := range images {
		out = append(out, s.URL(img))
	}
	return out
}
