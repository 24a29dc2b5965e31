package report_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/ByLCY/statprint/content"
	"github.com/ByLCY/statprint/dsl"
	"github.com/ByLCY/statprint/figure"
	"github.com/ByLCY/statprint/frame"
	"github.com/ByLCY/statprint/report"
)

type recordLogger struct {
	mu    sync.Mutex
	lines []string
}

func (l *recordLogger) Debugf(format string, args ...any) { l.add("DEBUG "+format, args...) }
func (l *recordLogger) Infof(format string, args ...any)  { l.add("INFO "+format, args...) }
func (l *recordLogger) Errorf(format string, args ...any) { l.add("ERROR "+format, args...) }

func (l *recordLogger) add(format string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.lines = append(l.lines, fmt.Sprintf(format, args...))
}

func (l *recordLogger) contains(s string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, line := range l.lines {
		if strings.Contains(line, s) {
			return true
		}
	}
	return false
}

func solid(w, h int) figure.Figure {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: 70, G: 130, B: 180, A: 255})
		}
	}
	return figure.FromImage(img)
}

func writePNG(t *testing.T, path string, w, h int) {
	t.Helper()
	file, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	defer file.Close()
	if err := png.Encode(file, image.NewRGBA(image.Rect(0, 0, w, h))); err != nil {
		t.Fatalf("encode png: %v", err)
	}
}

func sampleReport(t *testing.T, dir string, opts ...report.Option) *report.Report {
	t.Helper()
	r, err := report.New("quarterly", report.Word, "Q1 Report", append([]report.Option{report.WithOutputDir(dir)}, opts...)...)
	if err != nil {
		t.Fatalf("new report: %v", err)
	}
	r.AddCoverPage(content.Cover{Title: "Quarterly", Subtitle: "Internal", Date: "2024-04-01"})
	r.AddHeading("Sales")
	sales := frame.NewFrame([]string{"Region", "Total"}, [][]any{{"East", 100}, {"West", 200}, {"North", frame.Missing}})
	if err := r.AddTable(sales, report.WithIndentRows(1)); err != nil {
		t.Fatalf("add table: %v", err)
	}
	if _, err := r.AddImage(solid(40, 20), ""); err != nil {
		t.Fatalf("add image: %v", err)
	}
	return r
}

func TestParseDocType(t *testing.T) {
	for in, want := range map[string]report.DocType{"word": report.Word, "DOCX": report.Word, "doc": report.Word, " pdf ": report.PDF} {
		got, err := report.ParseDocType(in)
		if err != nil || got != want {
			t.Fatalf("ParseDocType(%q) = %q, %v; want %q", in, got, err, want)
		}
	}
	if report.Word.Ext() != ".docx" || report.PDF.Ext() != ".pdf" {
		t.Fatalf("unexpected extensions")
	}
}

func TestNewFailsFastOnUnsupportedType(t *testing.T) {
	_, err := report.New("out", report.DocType("html"), "Title")
	if !content.IsKind(err, content.KindUnsupportedFormat) {
		t.Fatalf("expected unsupported_format error, got %v", err)
	}
	if _, err := report.New(" ", report.Word, "Title"); !content.IsKind(err, content.KindSchema) {
		t.Fatalf("expected schema error for empty filename, got %v", err)
	}
}

func TestAddImageNamesFilesByCounter(t *testing.T) {
	dir := t.TempDir()
	r, err := report.New("out", report.PDF, "Charts", report.WithOutputDir(dir))
	if err != nil {
		t.Fatalf("new report: %v", err)
	}
	first, err := r.AddImage(solid(10, 10), "")
	if err != nil {
		t.Fatalf("add image: %v", err)
	}
	second, err := r.AddImage(solid(10, 10), "revenue.png")
	if err != nil {
		t.Fatalf("add image: %v", err)
	}
	if first != filepath.Join(dir, "graph_0.png") || second != filepath.Join(dir, "1_revenue.png") {
		t.Fatalf("unexpected names %q %q", first, second)
	}
	for _, p := range []string{first, second} {
		if _, err := os.Stat(p); err != nil {
			t.Fatalf("expected %s on disk: %v", p, err)
		}
	}
	items := r.Items()
	if len(items) != 2 || items[1].(content.Image).Path != second {
		t.Fatalf("unexpected items %+v", items)
	}
}

func TestAddImageUsesAssetDir(t *testing.T) {
	out, assets := t.TempDir(), t.TempDir()
	r, err := report.New("out", report.Word, "Charts", report.WithOutputDir(out), report.WithAssetDir(assets))
	if err != nil {
		t.Fatalf("new report: %v", err)
	}
	path, err := r.AddImage(solid(4, 4), "")
	if err != nil {
		t.Fatalf("add image: %v", err)
	}
	if filepath.Dir(path) != assets {
		t.Fatalf("expected image under %s, got %s", assets, path)
	}
}

func TestAddTableRejectsBadHeadersWithoutChangingBuffer(t *testing.T) {
	r, err := report.New("out", report.Word, "T")
	if err != nil {
		t.Fatalf("new report: %v", err)
	}
	f := frame.NewFrame([]string{"a", "b"}, [][]any{{1, 2}})
	if err := r.AddTable(f, report.WithHeaders("only")); !content.IsKind(err, content.KindSchema) {
		t.Fatalf("expected schema error, got %v", err)
	}
	if err := r.AddTable("not a table"); !content.IsKind(err, content.KindSchema) {
		t.Fatalf("expected schema error, got %v", err)
	}
	if len(r.Items()) != 0 {
		t.Fatalf("buffer should be unchanged, got %d items", len(r.Items()))
	}
}

func TestCoverLastWriteWinsAndStaysFirst(t *testing.T) {
	r, err := report.New("out", report.Word, "T")
	if err != nil {
		t.Fatalf("new report: %v", err)
	}
	r.AddHeading("Intro")
	r.AddCoverPage(content.Cover{Title: "First"})
	r.AddCoverPage(content.Cover{Title: "Second"})
	items := r.Items()
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	if c, ok := items[0].(content.Cover); !ok || c.Title != "Second" {
		t.Fatalf("expected second cover first, got %+v", items[0])
	}
}

func TestRenderIsDeterministic(t *testing.T) {
	r := sampleReport(t, t.TempDir())
	for _, dt := range []report.DocType{report.Word, report.PDF} {
		var a, b bytes.Buffer
		if err := r.RenderTo(dt, &a); err != nil {
			t.Fatalf("render %s: %v", dt, err)
		}
		if err := r.RenderTo(dt, &b); err != nil {
			t.Fatalf("render %s: %v", dt, err)
		}
		if a.Len() == 0 || !bytes.Equal(a.Bytes(), b.Bytes()) {
			t.Fatalf("%s output differs between renders", dt)
		}
	}
}

func TestRenderWritesBothFormats(t *testing.T) {
	dir := t.TempDir()
	logger := &recordLogger{}
	r := sampleReport(t, dir, report.WithLogger(logger))

	docx, err := r.Render()
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if docx != filepath.Join(dir, "quarterly.docx") {
		t.Fatalf("unexpected docx path %s", docx)
	}
	data, err := os.ReadFile(docx)
	if err != nil || !bytes.HasPrefix(data, []byte("PK")) {
		t.Fatalf("expected a zip package at %s: %v", docx, err)
	}

	pdfPath, err := r.RenderAs(report.PDF)
	if err != nil {
		t.Fatalf("render pdf: %v", err)
	}
	data, err = os.ReadFile(pdfPath)
	if err != nil || !bytes.HasPrefix(data, []byte("%PDF")) {
		t.Fatalf("expected a pdf at %s: %v", pdfPath, err)
	}
	if !logger.contains("Report saved as " + pdfPath) {
		t.Fatalf("expected save message, got %v", logger.lines)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), ".statprint-") {
			t.Fatalf("temporary file left behind: %s", e.Name())
		}
	}
}

func TestRenderFailsOnMissingImage(t *testing.T) {
	dir := t.TempDir()
	r, err := report.New("broken", report.PDF, "T", report.WithOutputDir(dir))
	if err != nil {
		t.Fatalf("new report: %v", err)
	}
	r.AddImageFile(filepath.Join(dir, "nope.png"))
	if _, err := r.Render(); !content.IsKind(err, content.KindResource) {
		t.Fatalf("expected resource error, got %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "broken.pdf")); !os.IsNotExist(err) {
		t.Fatalf("failed render should not leave output, got %v", err)
	}
}

func TestWriteOutline(t *testing.T) {
	r := sampleReport(t, t.TempDir())
	var buf bytes.Buffer
	if err := r.WriteOutline(&buf); err != nil {
		t.Fatalf("outline: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"cover", "Quarterly / Internal / 2024-04-01", "heading", "Sales", "table", "3 x 2: Region, Total (indent [1])", "graph_0.png"} {
		if !strings.Contains(out, want) {
			t.Fatalf("outline missing %q:\n%s", want, out)
		}
	}
}

func TestWriteDebugJSON(t *testing.T) {
	dir := t.TempDir()
	r := sampleReport(t, dir)
	path := filepath.Join(dir, "debug.json")
	if err := r.WriteDebugJSON(path); err != nil {
		t.Fatalf("debug: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read debug: %v", err)
	}
	var snapshot struct {
		Title string `json:"title"`
		Items []struct {
			Kind   string                     `json:"kind"`
			Item   map[string]json.RawMessage `json:"item"`
			Styles json.RawMessage            `json:"styles"`
		} `json:"items"`
	}
	if err := json.Unmarshal(data, &snapshot); err != nil {
		t.Fatalf("decode debug: %v", err)
	}
	if snapshot.Title != "Q1 Report" || len(snapshot.Items) != 4 {
		t.Fatalf("unexpected snapshot: %+v", snapshot)
	}
	if snapshot.Items[2].Kind != "table" || len(snapshot.Items[2].Styles) == 0 {
		t.Fatalf("table entry should carry styles: %+v", snapshot.Items[2])
	}
	if len(snapshot.Items[1].Styles) != 0 {
		t.Fatalf("heading entry should not carry styles")
	}
	if img := snapshot.Items[3]; img.Kind != "image" || len(img.Item) != 1 || img.Item["path"] == nil {
		t.Fatalf("image entry should carry only its path: %+v", img)
	}
}

const script = `
report "Sales ${meta.quarter}" {
  file: "sales-${meta.quarter}"
  format: pdf

  theme {
    odd-row-background: #FFFFFF
    table-width: 5000dxa
  }

  cover "Quarterly" { subtitle: "Internal" author: "${meta.author}" }

  heading "Regions"
  table data.sales {
    columns: ["region", "total"]
    headers: ["Region", "Total"]
    indent: [1]
  }
  table csv "extra.csv"
  series data.categories name "Category"
  chart data.categories { file: "categories.png" title: "By category" }
  image "logo.png"
}
`

const scriptData = `{
  "meta": {"quarter": "Q1", "author": "Finance"},
  "sales": [{"region": "East", "total": 100}, {"region": "West", "total": 200}],
  "categories": {"B": 2, "A": 1}
}`

func TestBuildFromScript(t *testing.T) {
	src, out := t.TempDir(), t.TempDir()
	if err := os.WriteFile(filepath.Join(src, "extra.csv"), []byte("k,v\nx,1\n"), 0o644); err != nil {
		t.Fatalf("write csv: %v", err)
	}
	writePNG(t, filepath.Join(src, "logo.png"), 20, 10)

	doc, err := dsl.ParseString(script)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	var data any
	if err := json.Unmarshal([]byte(scriptData), &data); err != nil {
		t.Fatalf("decode data: %v", err)
	}
	r, err := report.Build(doc, data, report.WithOutputDir(out), report.WithSourceDir(src))
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if r.DocType() != report.PDF || r.Title() != "Sales Q1" {
		t.Fatalf("unexpected report %s %q", r.DocType(), r.Title())
	}

	items := r.Items()
	var kinds []string
	for _, it := range items {
		kinds = append(kinds, string(it.Kind()))
	}
	if got := strings.Join(kinds, ","); got != "cover,heading,table,table,table,image,image" {
		t.Fatalf("unexpected items %s", got)
	}
	if c := items[0].(content.Cover); c.Author != "Finance" {
		t.Fatalf("cover author not interpolated: %+v", c)
	}
	sales := items[2].(content.Table)
	if strings.Join(sales.Grid.Headers, ",") != "Region,Total" || sales.Grid.Rows[1][1] != "200" || !sales.Indented(1) {
		t.Fatalf("unexpected sales table %+v", sales)
	}
	extra := items[3].(content.Table)
	if strings.Join(extra.Grid.Headers, ",") != "k,v" || extra.Grid.Rows[0][0] != "x" {
		t.Fatalf("unexpected csv table %+v", extra)
	}
	series := items[4].(content.Table)
	if strings.Join(series.Grid.Headers, ",") != "Category,"+content.CountLabel || series.Grid.Rows[0][0] != "A" {
		t.Fatalf("unexpected series table %+v", series)
	}
	if chart := items[5].(content.Image); chart.Path != filepath.Join(out, "0_categories.png") {
		t.Fatalf("unexpected chart path %s", chart.Path)
	}

	theme := r.Document().Theme
	if theme.FixedTableWidth == nil || theme.FixedTableWidth.ToTwips() != 5000 {
		t.Fatalf("script theme width not applied: %+v", theme.FixedTableWidth)
	}
	if theme.HeaderBackground == nil || theme.HeaderBackground.Hex() != "D9D9D9" {
		t.Fatalf("script theme should keep the default header fill")
	}

	path, err := r.Render()
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if path != filepath.Join(out, "sales-Q1.pdf") {
		t.Fatalf("unexpected output %s", path)
	}
	if _, err := r.RenderAs(report.Word); err != nil {
		t.Fatalf("render word: %v", err)
	}
}

func TestBuildReportsUnknownData(t *testing.T) {
	doc, err := dsl.ParseString("report \"x\" {\n  table data.nope\n}\n")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if _, err := report.Build(doc, map[string]any{}); !content.IsKind(err, content.KindSchema) {
		t.Fatalf("expected schema error, got %v", err)
	}

	doc, err = dsl.ParseString("report \"x\" {\n  format: html\n}\n")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if _, err := report.Build(doc, nil); !content.IsKind(err, content.KindUnsupportedFormat) {
		t.Fatalf("expected unsupported_format error, got %v", err)
	}
}

func TestBuildRejectsMisshapenSettings(t *testing.T) {
	for _, tc := range []struct {
		name   string
		script string
		kind   content.ErrorKind
	}{
		{"theme array", "report \"x\" {\n  theme {\n    odd-row-background: [1]\n  }\n}\n", content.KindStyle},
		{"theme unknown key", "report \"x\" {\n  theme {\n    border: #000000\n  }\n}\n", content.KindStyle},
		{"cover array", "report \"x\" {\n  cover \"c\" {\n    subtitle: [\"a\", \"b\"]\n  }\n}\n", content.KindSchema},
		{"cover unknown key", "report \"x\" {\n  cover \"c\" {\n    logo: \"a.png\"\n  }\n}\n", content.KindSchema},
		{"cover nested command", "report \"x\" {\n  cover \"c\" {\n    heading \"h\"\n  }\n}\n", content.KindSchema},
		{"stray text", "report \"x\" {\n  \"loose words\"\n  heading \"h\"\n}\n", content.KindSchema},
		{"stray text in chart", "report \"x\" {\n  chart data.c {\n    \"note\"\n  }\n}\n", content.KindSchema},
		{"report array setting", "report \"x\" {\n  file: [\"a\"]\n}\n", content.KindSchema},
		{"report unknown setting", "report \"x\" {\n  paper: a4\n}\n", content.KindSchema},
		{"nested headers", "report \"x\" {\n  table data.t {\n    headers: [\"a\", [\"b\"]]\n  }\n}\n", content.KindSchema},
	} {
		t.Run(tc.name, func(t *testing.T) {
			doc, err := dsl.ParseString(tc.script)
			if err != nil {
				t.Fatalf("parse: %v", err)
			}
			data := map[string]any{"c": map[string]any{"a": 1.0}, "t": []any{map[string]any{"a": 1.0, "b": 2.0}}}
			if _, err := report.Build(doc, data); !content.IsKind(err, tc.kind) {
				t.Fatalf("expected %s error, got %v", tc.kind, err)
			}
		})
	}
}

func TestBuildRejectsObjectThemeValue(t *testing.T) {
	doc, err := dsl.ParseString("report \"x\" {\n  theme {\n    header-background: {a: 1}\n  }\n}\n")
	if err != nil {
		// The grammar has no object values; a parse error is a rejection.
		return
	}
	r, err := report.Build(doc, nil)
	if !content.IsKind(err, content.KindStyle) {
		t.Fatalf("object value should be a style error, got %v (header fill %+v)", err, r)
	}
}
