package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/FindHome-mobile/FindHome-Backend/internal/services"
)

// formData is a request body flattened to text fields and uploaded files,
// whatever its content type.
type formData struct {
	fields map[string]string
	files  map[string][]services.Upload
}

func (f formData) get(k string) string { return strings.TrimSpace(f.fields[k]) }

func (f formData) ptr(k string) *string {
	v, ok := f.fields[k]
	if !ok {
		return nil
	}
	return &v
}

func (f formData) file(k string) *services.Upload {
	if fs := f.files[k]; len(fs) > 0 {
		return &fs[0]
	}
	return nil
}

// parseForm reads multipart, urlencoded or JSON bodies. maxBody bounds the
// whole request; files beyond maxMemory spill to temporary files.
func parseForm(w http.ResponseWriter, r *http.Request, maxBody int64) (formData, error) {
	fd := formData{fields: map[string]string{}, files: map[string][]services.Upload{}}
	if maxBody > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, maxBody)
	}

	ct := r.Header.Get("Content-Type")
	switch {
	case strings.HasPrefix(ct, "multipart/form-data"):
		if err := r.ParseMultipartForm(32 << 20); err != nil {
			return fd, bodyError(err)
		}
		defer func() { _ = r.MultipartForm.RemoveAll() }()
		for k, vs := range r.MultipartForm.Value {
			fd.fields[k] = strings.Join(vs, ",")
		}
		for k, fhs := range r.MultipartForm.File {
			for _, fh := range fhs {
				up, err := readUpload(fh)
				if err != nil {
					return fd, services.Internal("Erreur lors de la lecture du fichier", err)
				}
				fd.files[k] = append(fd.files[k], up)
			}
		}
	case strings.HasPrefix(ct, "application/x-www-form-urlencoded"):
		if err := r.ParseForm(); err != nil {
			return fd, bodyError(err)
		}
		for k, vs := range r.PostForm {
			fd.fields[k] = strings.Join(vs, ",")
		}
	default:
		var raw map[string]any
		if err := json.NewDecoder(r.Body).Decode(&raw); err != nil && !errors.Is(err, io.EOF) {
			return fd, bodyError(err)
		}
		for k, v := range raw {
			if s, ok := stringify(v); ok {
				fd.fields[k] = s
			}
		}
	}
	return fd, nil
}

func bodyError(err error) error {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return services.Validation("Requête trop volumineuse")
	}
	return services.Validation("Corps de requête invalide")
}

func readUpload(fh *multipart.FileHeader) (services.Upload, error) {
	f, err := fh.Open()
	if err != nil {
		return services.Upload{}, err
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return services.Upload{}, err
	}
	return services.Upload{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Data:        data,
	}, nil
}

// stringify renders JSON scalars the way a form would send them. Arrays
// become comma separated lists; null and objects are dropped.
func stringify(v any) (string, bool) {
	switch t := v.(type) {
	case string:
		return t, true
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), true
	case bool:
		return strconv.FormatBool(t), true
	case []any:
		parts := make([]string, 0, len(t))
		for _, e := range t {
			if s, ok := stringify(e); ok {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, ","), true
	}
	return "", false
}
