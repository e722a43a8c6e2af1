package ogimage

import "errors"

// Sentinel errors for card rendering.
var (
	ErrInvalidCard    = errors.New("invalid card")
	ErrBrowserConnect = errors.New("failed to connect to browser")
	ErrPageCreate     = errors.New("failed to create browser page")
	ErrPageLoad       = errors.New("failed to load page")
	ErrScreenshot     = errors.New("screenshot failed")
	ErrRendererClosed = errors.New("renderer is closed")
)
