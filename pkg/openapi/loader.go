package openapi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"time"
)

// Document is a loaded OpenAPI payload plus its origin.
type Document struct {
	source Source
	raw    []byte
}

// Source returns where the document came from.
func (d Document) Source() Source { return d.source }

// Raw returns the document bytes.
func (d Document) Raw() []byte { return d.raw }

// NewDocument wraps raw bytes in a Document.
func NewDocument(source Source, raw []byte) (Document, error) {
	if source == nil {
		return Document{}, errors.New("openapi: source is required")
	}
	if len(raw) == 0 {
		return Document{}, errors.New("openapi: document payload is empty")
	}
	return Document{source: source, raw: raw}, nil
}

const loadTimeout = 30 * time.Second

// Load reads the document the source points at.
func Load(ctx context.Context, source Source) (Document, error) {
	if source == nil {
		return Document{}, errors.New("openapi: source is required")
	}

	var (
		raw []byte
		err error
	)
	switch src := source.(type) {
	case fileSource:
		raw, err = os.ReadFile(src.path)
	case fsSource:
		if src.fsys == nil {
			return Document{}, errors.New("openapi: fs source has no filesystem")
		}
		raw, err = fs.ReadFile(src.fsys, src.name)
	case urlSource:
		raw, err = loadURL(ctx, src.raw)
	default:
		return Document{}, fmt.Errorf("openapi: unsupported source kind %q", source.Kind())
	}
	if err != nil {
		return Document{}, fmt.Errorf("openapi: load %s: %w", source.Location(), err)
	}
	return NewDocument(source, raw)
}

func loadURL(ctx context.Context, raw string) ([]byte, error) {
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, loadTimeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, raw, nil)
	if err != nil {
		return nil, err
	}

	res, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return nil, fmt.Errorf("unexpected status %d", res.StatusCode)
	}
	return io.ReadAll(res.Body)
}
