package storage

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/akshay-builds/techkart/errs"
)

// allowedExtensions is the upload allow-list, matched case-insensitively
// against the original filename's extension.
var allowedExtensions = map[string]struct{}{
	"png":  {},
	"jpg":  {},
	"jpeg": {},
	"webp": {},
	"gif":  {},
}

// LocalStore writes uploaded images into one flat directory and serves
// them back by stored name.
type LocalStore struct {
	dir string
}

func NewLocalStore(dir string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &LocalStore{dir: dir}, nil
}

// Dir returns the upload directory path.
func (s *LocalStore) Dir() string {
	return s.dir
}

// Allowed reports whether the original filename carries an allow-listed
// image extension.
func Allowed(filename string) bool {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
	if ext == "" {
		return false
	}
	_, ok := allowedExtensions[ext]
	return ok
}

// SanitizeName strips any directory components and every byte outside
// [A-Za-z0-9._-] from the user-supplied filename.
func SanitizeName(filename string) string {
	base := filepath.Base(filepath.ToSlash(filename))
	var b strings.Builder
	for _, r := range base {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.' || r == '_' || r == '-':
			b.WriteRune(r)
		}
	}
	return strings.Trim(b.String(), ".")
}

// storedName builds the on-disk name: owning project id, a nanosecond
// timestamp and the sanitized original name. Unique in practice even for
// identical filenames uploaded in the same request.
func storedName(projectID uint, original string) string {
	return fmt.Sprintf("%d_%d_%s", projectID, time.Now().UnixNano(), SanitizeName(original))
}

// Save validates the original filename against the allow-list, writes the
// bytes under a collision-resistant stored name and returns that name.
func (s *LocalStore) Save(projectID uint, originalName string, src io.Reader) (string, error) {
	if !Allowed(originalName) {
		return "", errs.NewUnsupportedTypeError(originalName)
	}

	name := storedName(projectID, originalName)
	dst, err := os.Create(filepath.Join(s.dir, name))
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		os.Remove(dst.Name())
		return "", err
	}
	return name, nil
}

// Delete removes the stored file. A missing file is not an error, so the
// delete is idempotent and cascading record deletes stay best-effort.
func (s *LocalStore) Delete(storedName string) error {
	name := SanitizeName(storedName)
	if name == "" {
		return nil
	}
	err := os.Remove(filepath.Join(s.dir, name))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// ServeHTTP streams a stored file, or 404s when it is absent. The name is
// sanitized again so the handler cannot be walked out of the upload dir.
func (s *LocalStore) ServeHTTP(w http.ResponseWriter, r *http.Request, storedName string) {
	name := SanitizeName(storedName)
	if name == "" {
		http.NotFound(w, r)
		return
	}

	path := filepath.Join(s.dir, name)
	if _, err := os.Stat(path); err != nil {
		http.NotFound(w, r)
		return
	}
	http.ServeFile(w, r, path)
}
