// Package content defines the report content model: the typed items a report
// is made of, the ordered buffer that holds them, the normalized table grid
// and the theme both backends read.
package content

// ItemKind identifies the variant of an Item.
type ItemKind string

const (
	KindCover   ItemKind = "cover"
	KindHeading ItemKind = "heading"
	KindTable   ItemKind = "table"
	KindImage   ItemKind = "image"
)

// Item is one of Cover, Heading, Table or Image.
type Item interface {
	Kind() ItemKind
}

// Cover describes a title page. Empty fields are omitted when rendering; an
// empty Title falls back to the report title.
type Cover struct {
	Title    string `json:"title"`
	Subtitle string `json:"subtitle,omitempty"`
	Author   string `json:"author,omitempty"`
	Date     string `json:"date,omitempty"`
}

// Heading is a first-level section marker.
type Heading struct {
	Text string `json:"text"`
}

// Table is a normalized grid plus the data rows whose first cell is indented.
type Table struct {
	Grid       Grid  `json:"grid"`
	IndentRows []int `json:"indentRows,omitempty"`
}

// Image references a pre-rendered raster on disk. The path is not opened
// until a backend embeds it.
type Image struct {
	Path string `json:"path"`
}

func (Cover) Kind() ItemKind { return KindCover }
func (Heading) Kind() ItemKind { return KindHeading }
func (Table) Kind() ItemKind { return KindTable }
func (Image) Kind() ItemKind { return KindImage }

// Indented reports whether data row i is marked for indentation. Indices
// outside [0, rows) never match.
func (t Table) Indented(i int) bool {
	if i < 0 || i >= len(t.Grid.Rows) {
		return false
	}
	for _, r := range t.IndentRows {
		if r == i {
			return true
		}
	}
	return false
}

// Buffer is the ordered content of a report. The cover lives in its own slot
// so it is always first and a second cover replaces the first.
type Buffer struct {
	cover *Cover
	items []Item
}

// SetCover installs the cover page, replacing any earlier one.
func (b *Buffer) SetCover(c Cover) {
	b.cover = &c
}

// Cover returns the current cover, if any.
func (b *Buffer) Cover() (Cover, bool) {
	if b.cover == nil {
		return Cover{}, false
	}
	return *b.cover, true
}

// Append adds an item after the existing ones. Covers are routed to SetCover.
func (b *Buffer) Append(item Item) {
	switch it := item.(type) {
	case Cover:
		b.SetCover(it)
	case *Cover:
		b.SetCover(*it)
	default:
		b.items = append(b.items, item)
	}
}

// Len returns the number of items including the cover.
func (b *Buffer) Len() int {
	if b.cover != nil {
		return len(b.items) + 1
	}
	return len(b.items)
}

// Items returns a fresh slice with the cover first, then the remaining items
// in insertion order.
func (b *Buffer) Items() []Item {
	out := make([]Item, 0, b.Len())
	if b.cover != nil {
		out = append(out, *b.cover)
	}
	return append(out, b.items...)
}

// Document is the read-only snapshot a renderer consumes.
type Document struct {
	Title string `json:"title"`
	Items []Item `json:"items"`
	Theme Theme  `json:"theme"`
}

// Cover returns the leading cover item of the snapshot, if present.
func (d *Document) Cover() (Cover, bool) {
	if len(d.Items) == 0 {
		return Cover{}, false
	}
	c, ok := d.Items[0].(Cover)
	return c, ok
}

// Body returns the items after the cover.
func (d *Document) Body() []Item {
	if _, ok := d.Cover(); ok {
		return d.Items[1:]
	}
	return d.Items
}
