// Package ocr provides text recognition for scanned report pages through
// an external recognition service.
package ocr

import (
	"context"
	"image"
)

// Engine recognizes the text content of a page image.
type Engine interface {
	Recognize(ctx context.Context, img image.Image) (string, error)
}
