package ogimage

import (
	"context"
	"errors"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

// fakeCapturer records the page it was given and returns a fixed PNG header.
type fakeCapturer struct {
	mu     sync.Mutex
	pages  []string
	err    error
	closed atomic.Int32
}

var pngMagic = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}

func (f *fakeCapturer) CaptureFile(ctx context.Context, path string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	f.mu.Lock()
	f.pages = append(f.pages, string(data))
	f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return pngMagic, nil
}

func (f *fakeCapturer) Close() error {
	f.closed.Add(1)
	return nil
}

// ---------------------------------------------------------------------------
// TestRenderer - Card capture through a temp page
// ---------------------------------------------------------------------------

func TestRenderer_Render(t *testing.T) {
	t.Parallel()

	fc := &fakeCapturer{}
	r := NewRenderer(fc)

	png, err := r.Render(context.Background(), Card{Title: "zerx.dev", Subtitle: "sub"})
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if string(png) != string(pngMagic) {
		t.Errorf("Render() = %v, want PNG magic", png)
	}
	if len(fc.pages) != 1 || !strings.Contains(fc.pages[0], `<span class="name">zerx</span>`) {
		t.Errorf("capturer saw pages %v", fc.pages)
	}

	if err := r.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	_ = r.Close()
	if n := fc.closed.Load(); n != 1 {
		t.Errorf("capturer closed %d times, want 1", n)
	}

	if _, err := r.Render(context.Background(), Card{Title: "x"}); !errors.Is(err, ErrRendererClosed) {
		t.Errorf("Render() after Close error = %v, want ErrRendererClosed", err)
	}
}

func TestRenderer_InvalidCardSkipsCapture(t *testing.T) {
	t.Parallel()

	fc := &fakeCapturer{}
	r := NewRenderer(fc)

	if _, err := r.Render(context.Background(), Card{}); !errors.Is(err, ErrInvalidCard) {
		t.Fatalf("Render() error = %v, want ErrInvalidCard", err)
	}
	if len(fc.pages) != 0 {
		t.Error("capturer should not be called for an invalid card")
	}
}

func TestRenderer_CaptureError(t *testing.T) {
	t.Parallel()

	fc := &fakeCapturer{err: ErrScreenshot}
	r := NewRenderer(fc)

	if _, err := r.Render(context.Background(), Card{Title: "x"}); !errors.Is(err, ErrScreenshot) {
		t.Fatalf("Render() error = %v, want ErrScreenshot", err)
	}
}

func TestRenderer_CancelledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := NewRenderer(&fakeCapturer{})
	if _, err := r.Render(ctx, Card{Title: "x"}); !errors.Is(err, context.Canceled) {
		t.Fatalf("Render() error = %v, want context.Canceled", err)
	}
}

// ---------------------------------------------------------------------------
// TestPool - Lazy renderer pool
// ---------------------------------------------------------------------------

func newFakePool(n int) (*Pool, *atomic.Int32) {
	var created atomic.Int32
	return NewPool(n, func() *Renderer {
		created.Add(1)
		return NewRenderer(&fakeCapturer{})
	}), &created
}

func TestPool_AcquireRelease(t *testing.T) {
	t.Parallel()

	pool, created := newFakePool(2)
	defer pool.Close()

	r1 := pool.Acquire()
	r2 := pool.Acquire()
	if r1 == nil || r2 == nil || r1 == r2 {
		t.Fatal("expected two distinct renderers")
	}

	pool.Release(r1)
	if r3 := pool.Acquire(); r3 != r1 {
		t.Error("expected to get back the released renderer")
	}
	if n := created.Load(); n != 2 {
		t.Errorf("created %d renderers, want 2", n)
	}
}

func TestPool_Size(t *testing.T) {
	t.Parallel()

	for n, want := range map[int]int{1: 1, 4: 4, 0: 1, -3: 1} {
		pool, _ := newFakePool(n)
		if got := pool.Size(); got != want {
			t.Errorf("NewPool(%d).Size() = %d, want %d", n, got, want)
		}
		_ = pool.Close()
	}
}

func TestPool_ConcurrentRender(t *testing.T) {
	t.Parallel()

	pool, created := newFakePool(3)
	defer pool.Close()

	var wg sync.WaitGroup
	errs := make(chan error, 20)
	for range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r := pool.Acquire()
			defer pool.Release(r)
			if _, err := r.Render(context.Background(), Card{Title: "zerx.dev"}); err != nil {
				errs <- err
			}
		}()
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("concurrent render timed out - possible deadlock")
	}
	close(errs)
	for err := range errs {
		t.Error(err)
	}
	if n := created.Load(); n > 3 {
		t.Errorf("created %d renderers, want at most 3", n)
	}
}

func TestPool_CloseClosesRenderersAndIgnoresRelease(t *testing.T) {
	t.Parallel()

	fc := &fakeCapturer{}
	pool := NewPool(1, func() *Renderer { return NewRenderer(fc) })

	r := pool.Acquire()
	if err := pool.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	pool.Release(r)
	_ = pool.Close()

	if n := fc.closed.Load(); n != 1 {
		t.Errorf("capturer closed %d times, want 1", n)
	}
	if got := pool.Acquire(); got != nil {
		t.Error("Acquire() after Close should return nil")
	}
}

func TestNewRodCapturer_DefaultTimeout(t *testing.T) {
	t.Parallel()

	c := NewRodCapturer(BrowserOptions{})
	if c.opts.Timeout != DefaultTimeout {
		t.Errorf("Timeout = %v, want %v", c.opts.Timeout, DefaultTimeout)
	}
	// Closing before any capture must not start a browser.
	if err := c.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
}
