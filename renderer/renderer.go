// Package renderer defines the compositing contract the pipeline
// renders slides through, together with its failure taxonomy.
package renderer

import (
	"context"
	"errors"

	"github.com/d33gardner/listeningcarousel/layout"
)

// Compositor paints one slide: the background photo cover-fitted onto
// the canvas, the optional overlay, and the laid-out text, encoded to
// image bytes. Implementations must be safe for concurrent use; the
// pipeline issues independent calls across a worker pool.
type Compositor interface {
	Compose(ctx context.Context, background []byte, lay layout.Result, style layout.Style) ([]byte, error)
}

var (
	// ErrImageDecode reports a background that could not be decoded.
	ErrImageDecode = errors.New("renderer: background image cannot be decoded")

	// ErrSurfaceUnavailable reports that no drawing surface could be
	// obtained, typically because no usable font resource is loaded.
	ErrSurfaceUnavailable = errors.New("renderer: no drawing surface available")
)
