package ogimage

import (
	"context"
	"sync"

	"github.com/zerx-lab/zerxsite/internal/fileutil"
)

// Renderer turns cards into PNG bytes. A Renderer serializes its captures;
// use a Pool for parallel rendering.
type Renderer struct {
	capturer Capturer
	mu       sync.Mutex
	closed   bool
}

// NewRenderer wraps a capturer.
func NewRenderer(c Capturer) *Renderer {
	return &Renderer{capturer: c}
}

// Render validates card, writes its page to a temp file, and captures it.
func (r *Renderer) Render(ctx context.Context, card Card) ([]byte, error) {
	page, err := card.HTML()
	if err != nil {
		return nil, err
	}

	path, cleanup, err := fileutil.WriteTempFile(page, "html")
	if err != nil {
		return nil, err
	}
	defer cleanup()

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return nil, ErrRendererClosed
	}
	return r.capturer.CaptureFile(ctx, path)
}

// Close releases the capturer.
func (r *Renderer) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return nil
	}
	r.closed = true
	return r.capturer.Close()
}
