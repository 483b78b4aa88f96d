package pdf

import (
	"errors"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
)

// extractEmbeddedImages pulls all embedded images out of a PDF and
// groups them by page number.
func extractEmbeddedImages(filename string) (map[int][]image.Image, error) {
	tempDir, err := os.MkdirTemp("", "swasthya-extract-*")
	if err != nil {
		return nil, err
	}
	defer func() { _ = os.RemoveAll(tempDir) }()

	if err := api.ExtractImagesFile(filename, tempDir, nil, nil); err != nil {
		return nil, err
	}

	return collectExtractedImages(tempDir)
}

// collectExtractedImages walks the given directory and groups images by
// page number. It expects filenames in the pdfcpu format:
// <base>_<page>_Im<n>.<ext> or page_<page>_image_<n>.<ext>.
func collectExtractedImages(dir string) (map[int][]image.Image, error) {
	result := make(map[int][]image.Image)

	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}

		pageNum, err := parsePageFromFilename(info.Name())
		if err != nil {
			// Skip files we can't attribute to a page.
			return nil
		}

		img, err := loadImageFile(path)
		if err != nil {
			// Skip unreadable images.
			return nil
		}

		result[pageNum] = append(result[pageNum], img)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// parsePageFromFilename extracts the page number from a pdfcpu extracted
// image filename. pdfcpu names images <basename>_<page>_<resource>.<ext>,
// so the page is the last purely numeric underscore token.
func parsePageFromFilename(filename string) (int, error) {
	name := strings.TrimSuffix(filename, filepath.Ext(filename))
	parts := strings.Split(name, "_")

	for i := len(parts) - 1; i >= 0; i-- {
		if pageNum, err := strconv.Atoi(parts[i]); err == nil && pageNum > 0 {
			return pageNum, nil
		}
	}
	return 0, errors.New("no page number in filename")
}

// loadImageFile decodes an image from a file path.
func loadImageFile(path string) (image.Image, error) {
	file, err := os.Open(path) //nolint:gosec // G304: extracted temp files under our own dir
	if err != nil {
		return nil, err
	}
	defer func() { _ = file.Close() }()

	img, _, err := image.Decode(file)
	return img, err
}

// largestImage picks the image with the biggest pixel area. Scanned
// report pages embed the page scan as their dominant image.
func largestImage(images []image.Image) image.Image {
	var best image.Image
	bestArea := 0
	for _, img := range images {
		bounds := img.Bounds()
		area := bounds.Dx() * bounds.Dy()
		if area > bestArea {
			best = img
			bestArea = area
		}
	}
	return best
}
