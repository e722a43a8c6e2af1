package ogimage

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"github.com/zerx-lab/zerxsite/internal/process"
)

// DefaultTimeout bounds one page load.
const DefaultTimeout = 30 * time.Second

// Capturer screenshots a local HTML file at card size.
type Capturer interface {
	CaptureFile(ctx context.Context, filePath string) ([]byte, error)
	Close() error
}

var _ Capturer = (*RodCapturer)(nil)

// BrowserOptions configures the headless browser.
type BrowserOptions struct {
	Bin       string        // Chrome binary; empty lets rod find or download one
	NoSandbox bool          // required in most containers and CI runners
	Timeout   time.Duration // page load timeout; zero means DefaultTimeout
}

// RodCapturer implements Capturer with go-rod. The browser is launched on
// first use.
type RodCapturer struct {
	opts     BrowserOptions
	mu       sync.Mutex
	launcher *launcher.Launcher
	browser  *rod.Browser
}

// NewRodCapturer creates a capturer. No browser is started yet.
func NewRodCapturer(opts BrowserOptions) *RodCapturer {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	return &RodCapturer{opts: opts}
}

// ensureBrowser lazily launches and connects to the browser.
// Callers hold c.mu.
func (c *RodCapturer) ensureBrowser() error {
	if c.browser != nil {
		return nil
	}

	l := launcher.New().Headless(true)
	if c.opts.Bin != "" {
		l = l.Bin(c.opts.Bin)
	}
	if c.opts.NoSandbox {
		l = l.NoSandbox(true)
	}

	u, err := l.Launch()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}

	b := rod.New().ControlURL(u)
	if err := b.Connect(); err != nil {
		l.Kill()
		return fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}

	c.launcher = l
	c.browser = b
	return nil
}

// CaptureFile opens filePath at card size and returns a PNG screenshot.
func (c *RodCapturer) CaptureFile(ctx context.Context, filePath string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c.mu.Lock()
	if err := c.ensureBrowser(); err != nil {
		c.mu.Unlock()
		return nil, err
	}
	browser := c.browser
	c.mu.Unlock()

	page, err := browser.Page(proto.TargetCreateTarget{URL: "file://" + filePath})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageCreate, err)
	}
	defer func() { _ = page.Close() }()

	timeout := c.opts.Timeout
	if deadline, ok := ctx.Deadline(); ok {
		timeout = time.Until(deadline)
		if timeout <= 0 {
			return nil, context.DeadlineExceeded
		}
	}

	err = page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:             Width,
		Height:            Height,
		DeviceScaleFactor: 1,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageLoad, err)
	}

	if err := page.Timeout(timeout).WaitLoad(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageLoad, err)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	png, err := page.Screenshot(false, &proto.PageCaptureScreenshot{
		Format: proto.PageCaptureScreenshotFormatPng,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrScreenshot, err)
	}
	return png, nil
}

// Close shuts the browser down and kills its process tree.
func (c *RodCapturer) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.browser == nil {
		return nil
	}
	err := c.browser.Close()
	if pid := c.launcher.PID(); pid > 0 {
		process.KillProcessGroup(pid)
	}
	c.launcher.Kill()
	c.browser = nil
	c.launcher = nil
	return err
}
