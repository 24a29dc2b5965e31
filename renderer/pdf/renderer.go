// Package pdf renders a report snapshot onto fixed A4 pages with fpdf. Unlike
// the Word backend it places every element itself: widths, rules, fills and
// vertical advances are all computed here.
package pdf

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"codeberg.org/go-pdf/fpdf"

	"github.com/ByLCY/statprint/content"
	"github.com/ByLCY/statprint/renderer"
	"github.com/ByLCY/statprint/style"
)

const (
	fontFamily = "Helvetica"

	pageBreakMargin = 15.0 // mm reserved at the bottom of each page

	titleSize   = 16.0
	headingSize = 14.0
	bodySize    = 12.0
	tableSize   = 10.0
	coverSize   = 24.0

	lineHeight  = 10.0 // title, heading and table row height
	titleGap    = 5.0
	sectionGap  = 10.0
	imageWidth  = 150.0 // mm
	coverTop    = 70.0
	coverLine   = 12.0
	coverDetail = 8.0
)

// defaultStamp keeps the document dates stable across renders.
var defaultStamp = time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC)

// Options configures the PDF renderer.
type Options struct {
	// BaseDir resolves relative image paths.
	BaseDir string
	// Compress enables stream compression.
	Compress bool
	// Created overrides the creation and modification dates.
	Created time.Time
	Author  string
	Creator string
}

// Renderer writes PDF documents.
type Renderer struct {
	opts Options
}

var _ renderer.Renderer = (*Renderer)(nil)

// New creates a PDF renderer.
func New(opts Options) *Renderer {
	return &Renderer{opts: opts}
}

// Render draws doc and returns the PDF bytes.
func (r *Renderer) Render(doc *content.Document) ([]byte, error) {
	if doc == nil {
		return nil, content.NewError(content.KindInternal, "nil document", nil)
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(true, pageBreakMargin)
	pdf.SetCompression(r.opts.Compress)
	pdf.SetCatalogSort(true)
	stamp := r.opts.Created
	if stamp.IsZero() {
		stamp = defaultStamp
	}
	pdf.SetCreationDate(stamp)
	pdf.SetModificationDate(stamp)
	pdf.SetTitle(doc.Title, true)
	if r.opts.Author != "" {
		pdf.SetAuthor(r.opts.Author, true)
	}
	if r.opts.Creator != "" {
		pdf.SetCreator(r.opts.Creator, true)
	}

	p := &page{pdf: pdf, tr: pdf.UnicodeTranslatorFromDescriptor(""), baseDir: r.opts.BaseDir}

	if cover, ok := doc.Cover(); ok {
		p.cover(cover, doc.Title)
	}

	pdf.AddPage()
	pdf.SetFont(fontFamily, "B", titleSize)
	pdf.CellFormat(0, lineHeight, p.tr(doc.Title), "", 1, "C", false, 0, "")
	pdf.Ln(titleGap)
	pdf.SetFont(fontFamily, "", bodySize)

	for i, item := range doc.Body() {
		var err error
		switch it := item.(type) {
		case content.Heading:
			p.heading(it)
		case content.Table:
			p.table(it, style.Compute(it.Grid, doc.Theme, it.IndentRows))
		case content.Image:
			err = p.image(it)
		case content.Cover:
		default:
			err = content.NewError(content.KindInternal, fmt.Sprintf("item %d: unsupported kind %T", i, item), nil)
		}
		if err != nil {
			return nil, err
		}
		if err := pdf.Error(); err != nil {
			return nil, content.NewError(content.KindInternal, fmt.Sprintf("draw item %d", i), err)
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, content.NewError(content.KindInternal, "write pdf", err)
	}
	return buf.Bytes(), nil
}

// page carries the drawing state of one render.
type page struct {
	pdf     *fpdf.Fpdf
	tr      func(string) string
	baseDir string
}

func (p *page) effectiveWidth() float64 {
	w, _ := p.pdf.GetPageSize()
	left, _, right, _ := p.pdf.GetMargins()
	return w - left - right
}

func (p *page) cover(c content.Cover, fallbackTitle string) {
	pdf := p.pdf
	title := c.Title
	if title == "" {
		title = fallbackTitle
	}
	pdf.AddPage()
	pdf.SetY(coverTop)
	pdf.SetFont(fontFamily, "B", coverSize)
	pdf.CellFormat(0, coverLine, p.tr(title), "", 1, "C", false, 0, "")
	pdf.SetFont(fontFamily, "", headingSize)
	if c.Subtitle != "" {
		pdf.CellFormat(0, coverLine, p.tr(c.Subtitle), "", 1, "C", false, 0, "")
	}
	pdf.SetFont(fontFamily, "", bodySize)
	if c.Author != "" {
		pdf.CellFormat(0, coverDetail, p.tr("Author: "+c.Author), "", 1, "C", false, 0, "")
	}
	if c.Date != "" {
		pdf.CellFormat(0, coverDetail, p.tr("Date: "+c.Date), "", 1, "C", false, 0, "")
	}
}

func (p *page) heading(h content.Heading) {
	pdf := p.pdf
	pdf.Ln(sectionGap)
	pdf.SetFont(fontFamily, "B", headingSize)
	pdf.CellFormat(0, lineHeight, p.tr(h.Text), "", 1, "", false, 0, "")
	pdf.SetFont(fontFamily, "", bodySize)
}

func (p *page) table(t content.Table, d style.Directives) {
	pdf := p.pdf
	cols := t.Grid.Columns()
	if cols == 0 {
		return
	}
	width := p.effectiveWidth()
	if d.Width != nil {
		width = d.Width.ToMM()
	}
	colWidth := width / float64(cols)
	left, _, _, _ := pdf.GetMargins()

	rule := func() {
		y := pdf.GetY()
		pdf.Line(left, y, left+width, y)
	}

	pdf.SetFont(fontFamily, "B", tableSize)
	for j, text := range t.Grid.Headers {
		fill := p.setFill(d.Header[j].Background)
		pdf.CellFormat(colWidth, lineHeight, p.tr(text), "", 0, "C", fill, 0, "")
	}
	pdf.Ln(lineHeight)
	rule()

	pdf.SetFont(fontFamily, "", tableSize)
	for i, row := range t.Grid.Rows {
		for j, text := range row {
			cell := d.Rows[i][j]
			fill := p.setFill(cell.Background)
			w := colWidth
			if cell.Indented() {
				shift := cell.LeftIndent.ToMM()
				if shift > w {
					shift = w
				}
				pdf.CellFormat(shift, lineHeight, "", "", 0, "", fill, 0, "")
				w -= shift
			}
			pdf.CellFormat(w, lineHeight, p.tr(text), "", 0, "L", fill, 0, "")
		}
		pdf.Ln(lineHeight)
		rule()
	}
	pdf.SetFont(fontFamily, "", bodySize)
}

func (p *page) setFill(c *content.Color) bool {
	if c == nil {
		return false
	}
	p.pdf.SetFillColor(int(c.R), int(c.G), int(c.B))
	return true
}

func (p *page) image(img content.Image) error {
	info, err := renderer.LoadImage(p.baseDir, img.Path)
	if err != nil {
		return err
	}
	opts := fpdf.ImageOptions{ImageType: strings.ToUpper(info.Format)}
	p.pdf.RegisterImageOptionsReader(info.Path, opts, bytes.NewReader(info.Data))
	if err := p.pdf.Error(); err != nil {
		return content.NewError(content.KindResource, "embed image "+img.Path, err)
	}
	p.pdf.Ln(sectionGap)
	p.pdf.ImageOptions(info.Path, -1, 0, imageWidth, 0, true, opts, 0, "")
	return nil
}
