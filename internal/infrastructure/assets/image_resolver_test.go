package assets

import (
	"context"
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sangkips/quotify-api/pkg/document"
)

var pngBytes = []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}

func TestResolveInline(t *testing.T) {
	r := NewResolver(t.TempDir(), time.Second)

	uri := "data:image/png;base64," + base64.StdEncoding.EncodeToString(pngBytes)
	img, err := r.Resolve(context.Background(), document.ParseImageRef(uri))
	require.NoError(t, err)
	assert.Equal(t, "image/png", img.MIME)
	assert.Equal(t, pngBytes, img.Data)

	_, err = r.Resolve(context.Background(), document.ImageRef{Kind: document.ImageRefInline, Value: "data:image/png;base64"})
	assert.Error(t, err)

	_, err = r.Resolve(context.Background(), document.ImageRef{Kind: document.ImageRefInline, Value: "data:image/png;base64,!!!"})
	assert.Error(t, err)
}

func TestResolveNamed(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "sofa.png"), pngBytes, 0o644))

	r := NewResolver(dir, time.Second)

	img, err := r.Resolve(context.Background(), document.ParseImageRef("sofa.png"))
	require.NoError(t, err)
	assert.Equal(t, "image/png", img.MIME)
	assert.Equal(t, pngBytes, img.Data)

	// Path components are stripped, so traversal cannot escape storage.
	img, err = r.Resolve(context.Background(), document.ParseImageRef("../../sofa.png"))
	require.NoError(t, err)
	assert.Equal(t, pngBytes, img.Data)

	_, err = r.Resolve(context.Background(), document.ParseImageRef("missing.png"))
	assert.Error(t, err)
}

func TestResolveRemote(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		if req.URL.Path == "/ok.png" {
			w.Header().Set("Content-Type", "image/png")
			w.Write(pngBytes)
			return
		}
		http.NotFound(w, req)
	}))
	defer srv.Close()

	r := NewResolver(t.TempDir(), time.Second)

	img, err := r.Resolve(context.Background(), document.ParseImageRef(srv.URL+"/ok.png"))
	require.NoError(t, err)
	assert.Equal(t, "image/png", img.MIME)
	assert.Equal(t, pngBytes, img.Data)

	_, err = r.Resolve(context.Background(), document.ParseImageRef(srv.URL+"/missing.png"))
	assert.Error(t, err)
}

func TestResolveNone(t *testing.T) {
	r := NewResolver(t.TempDir(), time.Second)
	_, err := r.Resolve(context.Background(), document.ImageRef{Kind: document.ImageRefNone})
	assert.Error(t, err)
}
