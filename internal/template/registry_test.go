package template

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTemplate(t *testing.T, dir, category, body string) {
	t.Helper()
	path := filepath.Join(dir, templatePrefix+category+templateExt)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
}

func TestOpenRegistryLoadsTemplates(t *testing.T) {
	dir := t.TempDir()
	writeTemplate(t, dir, "DHT", "// dht sketch")
	writeTemplate(t, dir, "HX711", "// hx711 sketch")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0o644))

	r, err := OpenRegistry(dir)
	require.NoError(t, err)
	defer r.Close()

	assert.Equal(t, []string{"DHT", "HX711"}, r.Categories())

	text, ok := r.Template("DHT")
	assert.True(t, ok)
	assert.Equal(t, "// dht sketch", text)

	_, ok = r.Template("BME280")
	assert.False(t, ok)
}

func TestOpenRegistryMissingDir(t *testing.T) {
	_, err := OpenRegistry(filepath.Join(t.TempDir(), "nope"))
	assert.Error(t, err)
}

func TestRegistryWatchReloadsChangedTemplate(t *testing.T) {
	dir := t.TempDir()
	writeTemplate(t, dir, "DHT", "v1")

	r, err := OpenRegistry(dir)
	require.NoError(t, err)
	defer r.Close()

	reloaded := make(chan string, 4)
	r.OnReload = func(category string) { reloaded <- category }
	require.NoError(t, r.Watch())

	writeTemplate(t, dir, "DHT", "v2")

	select {
	case category := <-reloaded:
		assert.Equal(t, "DHT", category)
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for template reload")
	}

	text, ok := r.Template("DHT")
	require.True(t, ok)
	assert.Equal(t, "v2", text)
}
