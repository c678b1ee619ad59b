package storage

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllowed(t *testing.T) {
	accepted := []string{"a.png", "b.jpg", "c.jpeg", "d.webp", "e.gif", "F.PNG", "g.JpEg"}
	for _, name := range accepted {
		assert.True(t, Allowed(name), name)
	}

	rejected := []string{"a.exe", "b.svg", "c.pdf", "noext", "d.png.sh", ""}
	for _, name := range rejected {
		assert.False(t, Allowed(name), name)
	}
}

func TestSanitizeName(t *testing.T) {
	assert.Equal(t, "passwd", SanitizeName("../../etc/passwd"))
	assert.Equal(t, "my_photo-1.png", SanitizeName("my_photo-1.png"))
	assert.Equal(t, "spacedout.jpg", SanitizeName("spaced out.jpg"))
	assert.Equal(t, "d.gif", SanitizeName("o/d.gif"))
}

func TestSaveAndServe(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)

	name, err := store.Save(7, "photo.png", strings.NewReader("png-bytes"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(name, "7_"), name)
	assert.True(t, strings.HasSuffix(name, "_photo.png"), name)

	data, err := os.ReadFile(filepath.Join(store.Dir(), name))
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(data))

	rec := httptest.NewRecorder()
	store.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/uploads/"+name, nil), name)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "png-bytes", rec.Body.String())
}

func TestSaveRejectsDisallowedExtension(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)

	_, err = store.Save(1, "malware.exe", strings.NewReader("nope"))
	require.Error(t, err)

	entries, err := os.ReadDir(store.Dir())
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestDeleteIsIdempotent(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)

	name, err := store.Save(3, "shot.jpg", strings.NewReader("jpg"))
	require.NoError(t, err)

	require.NoError(t, store.Delete(name))
	// Second delete of the same stored name must not fail.
	require.NoError(t, store.Delete(name))
	require.NoError(t, store.Delete("never-existed.png"))
}

func TestServeMissingFile(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	store.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/uploads/gone.png", nil), "gone.png")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
