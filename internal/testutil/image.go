// Package testutil provides helpers for generating synthetic report
// page images in tests.
package testutil

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"strings"

	"github.com/disintegration/imaging"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// ImageSize represents page image dimensions.
type ImageSize struct {
	Width  int
	Height int
}

var (
	// SmallPage is large enough for a few report lines.
	SmallPage = ImageSize{320, 240}
	// FullPage approximates an A4 page scanned at low resolution.
	FullPage = ImageSize{620, 877}
)

// PageImageConfig holds configuration for generating report page images.
type PageImageConfig struct {
	Text       string
	Size       ImageSize
	Background color.Color
	Foreground color.Color
	FontFace   font.Face
	Rotation   float64 // rotation in degrees
}

// DefaultPageImageConfig returns a configuration resembling a printed
// report line on a white page.
func DefaultPageImageConfig() PageImageConfig {
	return PageImageConfig{
		Text:       "HAEMOGLOBIN 13.2 g/dL",
		Size:       SmallPage,
		Background: color.White,
		Foreground: color.Black,
		FontFace:   basicfont.Face7x13,
		Rotation:   0,
	}
}

// GeneratePageImage renders the configured text onto a synthetic page.
// Lines are split on newlines and drawn top to bottom.
func GeneratePageImage(config PageImageConfig) (image.Image, error) {
	if config.Size.Width <= 0 || config.Size.Height <= 0 {
		return nil, fmt.Errorf("invalid page size %dx%d", config.Size.Width, config.Size.Height)
	}
	if config.FontFace == nil {
		config.FontFace = basicfont.Face7x13
	}

	img := image.NewRGBA(image.Rect(0, 0, config.Size.Width, config.Size.Height))
	draw.Draw(img, img.Bounds(), image.NewUniform(config.Background), image.Point{}, draw.Src)

	drawer := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(config.Foreground),
		Face: config.FontFace,
	}

	metrics := config.FontFace.Metrics()
	lineHeight := metrics.Height.Ceil()
	y := metrics.Ascent.Ceil() + lineHeight

	for _, line := range strings.Split(config.Text, "\n") {
		drawer.Dot = fixed.P(10, y)
		drawer.DrawString(line)
		y += lineHeight
	}

	if config.Rotation != 0 {
		return imaging.Rotate(img, config.Rotation, config.Background), nil
	}
	return img, nil
}

// RenderReportPage renders report text onto a small white page. It
// panics on invalid configuration since fixtures are hardcoded.
func RenderReportPage(text string) image.Image {
	config := DefaultPageImageConfig()
	config.Text = text
	img, err := GeneratePageImage(config)
	if err != nil {
		panic(err)
	}
	return img
}
