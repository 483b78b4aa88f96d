// Package pdf opens lab report PDFs and exposes their per-page content
// for extraction: vector text lines, table rows, and embedded page images
// for reports that were scanned rather than generated.
package pdf

import (
	"fmt"
	"image"
	"os"
	"strings"

	"github.com/dslipak/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
)

// Metadata holds the document information dictionary of a report.
// Missing entries are empty strings; Pages is always set.
type Metadata struct {
	Title   string `json:"title"`
	Author  string `json:"author"`
	Subject string `json:"subject"`
	Creator string `json:"creator"`
	Pages   int    `json:"pages"`
}

// Page is the extraction view of a single report page.
type Page struct {
	// Number is the 1-based page number.
	Number int

	// Text is the page's vector text with one line per visual row.
	// Empty when the page carries no text layer.
	Text string

	// Tables holds the rows that look tabular, as cell strings.
	Tables [][]string

	// Image is the largest embedded image on the page, or nil.
	// Scanned reports embed the whole page as one image.
	Image image.Image
}

// Document is an opened report PDF.
type Document struct {
	path          string
	reader        *pdf.Reader
	minTableCells int

	// images is populated lazily on the first page that needs one.
	images    map[int][]image.Image
	imagesErr error
	extracted bool
}

// Open validates and opens a report PDF. The file must exist and pass
// structural validation before any page content is read.
func Open(path string, minTableCells int) (*Document, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("report file not accessible: %w", err)
	}

	if err := api.ValidateFile(path, nil); err != nil {
		return nil, fmt.Errorf("invalid PDF %s: %w", path, err)
	}

	reader, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF %s: %w", path, err)
	}

	if minTableCells < 2 {
		minTableCells = 2
	}

	return &Document{
		path:          path,
		reader:        reader,
		minTableCells: minTableCells,
	}, nil
}

// Path returns the file path the document was opened from.
func (d *Document) Path() string {
	return d.path
}

// PageCount returns the number of pages in the document.
func (d *Document) PageCount() int {
	return d.reader.NumPage()
}

// Metadata reads the document information dictionary. Extraction is
// best-effort; reports with no Info dictionary yield empty strings.
func (d *Document) Metadata() Metadata {
	meta := Metadata{Pages: d.reader.NumPage()}

	info := d.reader.Trailer().Key("Info")
	if info.Kind() != pdf.Dict {
		return meta
	}

	meta.Title = infoString(info, "Title")
	meta.Author = infoString(info, "Author")
	meta.Subject = infoString(info, "Subject")
	meta.Creator = infoString(info, "Creator")
	return meta
}

func infoString(info pdf.Value, key string) string {
	v := info.Key(key)
	if v.Kind() != pdf.String {
		return ""
	}
	return strings.TrimSpace(v.Text())
}

// Page extracts the content of the given 1-based page.
func (d *Document) Page(number int) (*Page, error) {
	if number < 1 || number > d.reader.NumPage() {
		return nil, fmt.Errorf("page %d out of range (document has %d pages)", number, d.reader.NumPage())
	}

	p := d.reader.Page(number)
	if p.V.IsNull() {
		return nil, fmt.Errorf("page %d is null", number)
	}

	page := &Page{Number: number}

	rows, err := p.GetTextByRow()
	if err == nil && len(rows) > 0 {
		page.Text = assembleText(rows)
		page.Tables = tableRows(rows, d.minTableCells)
	} else {
		// Fallback for pages whose content stream defeats row grouping.
		fonts := make(map[string]*pdf.Font)
		plain, _ := p.GetPlainText(fonts)
		page.Text = strings.TrimSpace(plain)
	}

	// Pages without usable text are treated as scanned and handed to
	// the optical path via their embedded image.
	if strings.TrimSpace(page.Text) == "" && len(page.Tables) == 0 {
		img, err := d.pageImage(number)
		if err != nil {
			return nil, err
		}
		page.Image = img
	}

	return page, nil
}

// Pages extracts every page of the document in order.
func (d *Document) Pages() ([]*Page, error) {
	total := d.reader.NumPage()
	pages := make([]*Page, 0, total)
	for n := 1; n <= total; n++ {
		page, err := d.Page(n)
		if err != nil {
			return nil, err
		}
		pages = append(pages, page)
	}
	return pages, nil
}

// pageImage returns the largest embedded image on the given page.
func (d *Document) pageImage(number int) (image.Image, error) {
	if !d.extracted {
		d.images, d.imagesErr = extractEmbeddedImages(d.path)
		d.extracted = true
	}
	if d.imagesErr != nil {
		return nil, fmt.Errorf("failed to extract page images: %w", d.imagesErr)
	}
	return largestImage(d.images[number]), nil
}

// assembleText joins row contents into text with one line per row,
// cells within a row separated by single spaces.
func assembleText(rows pdf.Rows) string {
	var b strings.Builder
	for i, row := range rows {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(strings.Join(rowCells(row), " "))
	}
	return b.String()
}

// tableRows filters rows that look tabular: at least minCells non-blank
// cells on a single visual row.
func tableRows(rows pdf.Rows, minCells int) [][]string {
	var tables [][]string
	for _, row := range rows {
		cells := rowCells(row)
		if len(cells) >= minCells {
			tables = append(tables, cells)
		}
	}
	return tables
}

// rowCells returns the trimmed, non-blank text fragments of a row.
func rowCells(row *pdf.Row) []string {
	cells := make([]string, 0, len(row.Content))
	for _, text := range row.Content {
		if s := strings.TrimSpace(text.S); s != "" {
			cells = append(cells, s)
		}
	}
	return cells
}
