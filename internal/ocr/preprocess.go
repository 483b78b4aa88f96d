package ocr

import (
	"image"

	"github.com/disintegration/imaging"
)

// PreprocessOptions controls how page images are normalized before
// being sent to the recognition service.
type PreprocessOptions struct {
	// Height resizes the image to this height preserving aspect ratio.
	// Zero keeps the original size.
	Height int

	// Grayscale converts the image to grayscale.
	Grayscale bool
}

// Preprocess normalizes a scanned page image. Resizing scanned pages to
// a common height keeps recognition latency predictable, and grayscale
// removes color noise from stamps and letterheads.
func Preprocess(img image.Image, opts PreprocessOptions) image.Image {
	if img == nil {
		return nil
	}

	if opts.Height > 0 && img.Bounds().Dy() > opts.Height {
		img = imaging.Resize(img, 0, opts.Height, imaging.Lanczos)
	}

	if opts.Grayscale {
		img = imaging.Grayscale(img)
	}

	return img
}
