package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"

	"github.com/ByLCY/statprint/content"
)

// WriteOutline prints one row per buffered item: position, kind and a short
// description. It is meant for terminals and dry runs.
func (r *Report) WriteOutline(w io.Writer) error {
	table := tablewriter.NewWriter(w)
	table.Header("#", "Kind", "Detail")
	for i, item := range r.Items() {
		if err := table.Append(strconv.Itoa(i), string(item.Kind()), describe(item)); err != nil {
			return content.NewError(content.KindInternal, "outline row", err)
		}
	}
	if err := table.Render(); err != nil {
		return content.NewError(content.KindInternal, "outline", err)
	}
	return nil
}

func describe(item content.Item) string {
	switch it := item.(type) {
	case content.Cover:
		parts := []string{it.Title}
		for _, s := range []string{it.Subtitle, it.Author, it.Date} {
			if s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, " / ")
	case content.Heading:
		return it.Text
	case content.Table:
		detail := fmt.Sprintf("%d x %d: %s", len(it.Grid.Rows), it.Grid.Columns(), strings.Join(it.Grid.Headers, ", "))
		if len(it.IndentRows) > 0 {
			detail += fmt.Sprintf(" (indent %v)", it.IndentRows)
		}
		return detail
	case content.Image:
		return it.Path
	default:
		return ""
	}
}
