// Package word renders a report snapshot into a WordprocessingML (.docx)
// package. The word processor owns pagination; the renderer only emits
// paragraphs, tables and inline pictures in buffer order.
package word

import (
	"fmt"
	"time"

	"github.com/ByLCY/statprint/content"
	"github.com/ByLCY/statprint/layout"
	"github.com/ByLCY/statprint/renderer"
	"github.com/ByLCY/statprint/style"
)

// Letter page with one-inch margins, in dxa.
const (
	pageWidth  = 12240
	pageHeight = 15840
	pageMargin = 1440
	textWidth  = pageWidth - 2*pageMargin
)

// ImageWidth is the display width of every embedded picture.
var ImageWidth = layout.Inches(6)

// Options configures the Word renderer.
type Options struct {
	// BaseDir resolves relative image paths.
	BaseDir string
	// Creator is written to the core properties.
	Creator string
	// Created stamps the core properties. Zero leaves the dates out.
	Created time.Time
}

// Renderer writes .docx packages.
type Renderer struct {
	opts Options
}

var _ renderer.Renderer = (*Renderer)(nil)

// New creates a Word renderer.
func New(opts Options) *Renderer {
	return &Renderer{opts: opts}
}

// Render encodes doc as a .docx package.
func (r *Renderer) Render(doc *content.Document) ([]byte, error) {
	if doc == nil {
		return nil, content.NewError(content.KindInternal, "nil document", nil)
	}

	p := &pkg{title: doc.Title, creator: r.opts.Creator, created: r.opts.Created}
	var blocks []any

	if cover, ok := doc.Cover(); ok {
		blocks = append(blocks, coverBlocks(cover, doc.Title)...)
	}
	blocks = append(blocks, styledParagraph("Title", doc.Title))

	pictures := 0
	for i, item := range doc.Body() {
		switch it := item.(type) {
		case content.Heading:
			blocks = append(blocks, styledParagraph("Heading1", it.Text))
		case content.Table:
			if it.Grid.Columns() == 0 {
				continue
			}
			blocks = append(blocks, tableBlock(it, style.Compute(it.Grid, doc.Theme, it.IndentRows)))
		case content.Image:
			info, err := renderer.LoadImage(r.opts.BaseDir, it.Path)
			if err != nil {
				return nil, err
			}
			pictures++
			m := p.addMedia(mediaExt(info.Format), info.Data)
			blocks = append(blocks, paragraphXML{}, pictureParagraph(m, info, pictures))
		case content.Cover:
			// only the leading cover is rendered
		default:
			return nil, content.NewError(content.KindInternal, fmt.Sprintf("item %d: unsupported kind %T", i, item), nil)
		}
	}

	p.doc = documentXML{
		XmlnsW:  nsW,
		XmlnsR:  nsR,
		XmlnsWP: nsWP,
		XmlnsA:  nsA,
		XmlnsPi: nsPic,
		Body: bodyXML{
			Blocks: blocks,
			Section: sectionXML{
				PageSize: pageSizeXML{W: pageWidth, H: pageHeight},
				PageMargin: pageMarginXML{
					Top: pageMargin, Right: pageMargin, Bottom: pageMargin, Left: pageMargin,
					Header: 720, Footer: 720,
				},
			},
		},
	}
	return p.bytes()
}

func coverBlocks(cover content.Cover, fallbackTitle string) []any {
	title := cover.Title
	if title == "" {
		title = fallbackTitle
	}
	blocks := []any{paragraphXML{}, styledParagraph("Title", title)}
	if cover.Subtitle != "" {
		blocks = append(blocks, styledParagraph("Subtitle", cover.Subtitle))
	}
	if cover.Author != "" {
		blocks = append(blocks, textParagraph("Author: "+cover.Author, nil, false))
	}
	if cover.Date != "" {
		blocks = append(blocks, textParagraph("Date: "+cover.Date, nil, false))
	}
	return append(blocks, paragraphXML{Runs: []runXML{{Break: &breakXML{Type: "page"}}}})
}

func styledParagraph(styleID, text string) paragraphXML {
	return textParagraph(text, &paragraphPropsXML{Style: &valXML{Val: styleID}}, false)
}

func textParagraph(text string, props *paragraphPropsXML, bold bool) paragraphXML {
	r := runXML{Text: &textXML{Space: "preserve", Value: text}}
	if bold {
		r.Props = &runPropsXML{Bold: &emptyXML{}}
	}
	return paragraphXML{Props: props, Runs: []runXML{r}}
}

func tableBlock(t content.Table, d style.Directives) tableXML {
	cols := t.Grid.Columns()
	tbl := tableXML{Props: tablePropsXML{
		Style:   valXML{Val: "TableGrid"},
		Width:   widthXML{Type: "auto"},
		Borders: bordersFromMask(d.Borders),
	}}

	cellWidth := widthXML{Type: "auto"}
	gridWidth := int64(textWidth)
	if d.Width != nil {
		gridWidth = d.Width.ToTwips()
		tbl.Props.Width = widthXML{W: gridWidth, Type: "dxa"}
	}
	colWidth := gridWidth / int64(cols)
	if d.Width != nil {
		cellWidth = widthXML{W: colWidth, Type: "dxa"}
	}
	for j := 0; j < cols; j++ {
		tbl.Grid.Cols = append(tbl.Grid.Cols, widthOnlyXML{W: colWidth})
	}

	tbl.Rows = append(tbl.Rows, tableRow(t.Grid.Headers, d.Header, cellWidth))
	for i, row := range t.Grid.Rows {
		tbl.Rows = append(tbl.Rows, tableRow(row, d.Rows[i], cellWidth))
	}
	return tbl
}

func tableRow(texts []string, cells []style.Cell, width widthXML) tableRowXML {
	row := tableRowXML{Cells: make([]tableCellXML, len(texts))}
	for j, text := range texts {
		cell := cells[j]
		var props *paragraphPropsXML
		if cell.Indented() {
			props = &paragraphPropsXML{Indent: &indentXML{Left: cell.LeftIndent.ToTwips()}}
		}
		tc := tableCellXML{
			Props:      cellPropsXML{Width: width},
			Paragraphs: []paragraphXML{textParagraph(text, props, cell.Bold)},
		}
		if cell.Background != nil {
			tc.Props.Shading = &shadingXML{Val: "clear", Color: "auto", Fill: cell.Background.Hex()}
		}
		row.Cells[j] = tc
	}
	return row
}

func bordersFromMask(mask style.BorderMask) tableBordersXML {
	edge := func(e style.BorderMask) borderXML {
		if mask.Has(e) {
			return borderXML{Val: "single", Size: 4, Space: "0", Color: "auto"}
		}
		return borderXML{Val: "nil"}
	}
	return tableBordersXML{
		Top:     edge(style.BorderTop),
		Left:    edge(style.BorderLeft),
		Bottom:  edge(style.BorderBottom),
		Right:   edge(style.BorderRight),
		InsideH: edge(style.BorderInsideH),
		InsideV: edge(style.BorderInsideV),
	}
}

func pictureParagraph(m media, info renderer.ImageInfo, id int) paragraphXML {
	cx := ImageWidth.ToEMU()
	cy := cx * int64(info.Height) / int64(info.Width)
	extent := extentXML{Cx: cx, Cy: cy}
	name := fmt.Sprintf("Picture %d", id)
	d := &drawingXML{Inline: inlineXML{
		Extent: extent,
		DocPr:  docPrXML{ID: id, Name: name},
		Graphic: graphicXML{Data: graphicDataXML{
			URI: nsPic,
			Pic: picXML{
				NvPicPr:  nvPicPrXML{CNvPr: docPrXML{ID: 0, Name: m.name}},
				BlipFill: blipFillXML{Blip: blipXML{Embed: m.rel}},
				SpPr: spPrXML{
					Xfrm: xfrmXML{Ext: extent},
					Geom: prstGeomXML{Prst: "rect"},
				},
			},
		}},
	}}
	return paragraphXML{Runs: []runXML{{Drawing: d}}}
}

func mediaExt(format string) string {
	switch format {
	case "jpeg", "jpg":
		return "jpeg"
	case "gif":
		return "gif"
	default:
		return "png"
	}
}
