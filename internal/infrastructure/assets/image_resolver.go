// Package assets resolves quotation item image references to renderable
// bytes. All three addressing modes (inline data URI, remote URL, named file
// in local storage) are handled here so the document engine never needs to
// sniff strings.
package assets

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sangkips/quotify-api/pkg/document"
)

// maxImageBytes caps remote image downloads.
const maxImageBytes = 5 << 20

// Resolver implements document.ImageResolver.
type Resolver struct {
	client      *http.Client
	storagePath string
}

// NewResolver creates a resolver reading named files from storagePath and
// fetching remote images with the given timeout.
func NewResolver(storagePath string, timeout time.Duration) *Resolver {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Resolver{
		client:      &http.Client{Timeout: timeout},
		storagePath: storagePath,
	}
}

// Resolve returns image bytes for the reference, or an error the caller is
// expected to treat as "no image".
func (r *Resolver) Resolve(ctx context.Context, ref document.ImageRef) (*document.Image, error) {
	switch ref.Kind {
	case document.ImageRefInline:
		return r.resolveInline(ref.Value)
	case document.ImageRefRemote:
		return r.resolveRemote(ctx, ref.Value)
	case document.ImageRefNamed:
		return r.resolveNamed(ref.Value)
	default:
		return nil, fmt.Errorf("no image reference")
	}
}

// resolveInline decodes a "data:image/png;base64,..." URI.
func (r *Resolver) resolveInline(uri string) (*document.Image, error) {
	rest := strings.TrimPrefix(uri, "data:")
	meta, payload, found := strings.Cut(rest, ",")
	if !found {
		return nil, fmt.Errorf("malformed data URI")
	}
	if !strings.HasSuffix(meta, ";base64") {
		return nil, fmt.Errorf("unsupported data URI encoding")
	}
	mime := strings.TrimSuffix(meta, ";base64")

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to decode inline image: %w", err)
	}
	return &document.Image{MIME: mime, Data: data}, nil
}

func (r *Resolver) resolveRemote(ctx context.Context, url string) (*document.Image, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("image fetch returned status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxImageBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read image body: %w", err)
	}

	mime := resp.Header.Get("Content-Type")
	if mime == "" {
		mime = mimeFromName(url)
	}
	return &document.Image{MIME: mime, Data: data}, nil
}

func (r *Resolver) resolveNamed(name string) (*document.Image, error) {
	// Bare filenames only; strip any path components.
	path := filepath.Join(r.storagePath, filepath.Base(name))
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read image file: %w", err)
	}
	return &document.Image{MIME: mimeFromName(name), Data: data}, nil
}

func mimeFromName(name string) string {
	switch strings.ToLower(filepath.Ext(strings.Split(name, "?")[0])) {
	case ".png":
		return "image/png"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".gif":
		return "image/gif"
	default:
		return "application/octet-stream"
	}
}
