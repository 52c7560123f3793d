package hub

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalSourceFetch(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "nested"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "nested", "m.gz"), []byte("payload"), 0o644))

	src := NewLocalSource(dir)

	var buf bytes.Buffer
	require.NoError(t, src.Fetch(context.Background(), "nested/m.gz", &buf))
	assert.Equal(t, "payload", buf.String())

	assert.Error(t, src.Fetch(context.Background(), "missing.gz", &buf))
}

func TestHTTPSourceFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/tiny/tiny.gz":
			_, _ = w.Write([]byte("artifact-bytes"))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	src := NewHTTPSource(srv.URL, WithHTTPClient(srv.Client()))

	var buf bytes.Buffer
	require.NoError(t, src.Fetch(context.Background(), "tiny/tiny.gz", &buf))
	assert.Equal(t, "artifact-bytes", buf.String())

	err := src.Fetch(context.Background(), "missing/missing.gz", &buf)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestHTTPSourceThrottled(t *testing.T) {
	payload := bytes.Repeat([]byte("x"), 4096)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(payload)
	}))
	defer srv.Close()

	// Generous rate: the throttle must pace, not corrupt.
	src := NewHTTPSource(srv.URL,
		WithHTTPClient(srv.Client()),
		WithByteRate(1<<20),
	)

	var buf bytes.Buffer
	require.NoError(t, src.Fetch(context.Background(), "any.gz", &buf))
	assert.Equal(t, payload, buf.Bytes())
}

func TestHTTPSourceDefaultBaseURL(t *testing.T) {
	src := NewHTTPSource("")
	assert.Equal(t, DefaultBaseURL, src.baseURL)
}
