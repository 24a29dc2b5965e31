package report

import (
	"encoding/json"
	"os"

	"github.com/ByLCY/statprint/content"
	"github.com/ByLCY/statprint/style"
)

type debugItem struct {
	Kind   content.ItemKind  `json:"kind"`
	Item   content.Item      `json:"item"`
	Styles *style.Directives `json:"styles,omitempty"`
}

type debugDocument struct {
	Title  string              `json:"title"`
	Format DocType             `json:"format"`
	Output string              `json:"output"`
	Theme  content.ThemeConfig `json:"theme"`
	Items  []debugItem         `json:"items"`
}

// WriteDebugJSON dumps the buffered items and the table directives the
// backends will apply to path as indented JSON.
func (r *Report) WriteDebugJSON(path string) error {
	doc := r.Document()
	out := debugDocument{
		Title:  doc.Title,
		Format: r.docType,
		Output: r.OutputPath(r.docType),
		Theme:  doc.Theme.Config(),
		Items:  make([]debugItem, len(doc.Items)),
	}
	for i, item := range doc.Items {
		entry := debugItem{Kind: item.Kind(), Item: item}
		if table, ok := item.(content.Table); ok {
			d := style.Compute(table.Grid, doc.Theme, table.IndentRows)
			entry.Styles = &d
		}
		out.Items[i] = entry
	}
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return content.NewError(content.KindInternal, "encode debug snapshot", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return content.NewError(content.KindResource, "write "+path, err)
	}
	return nil
}
