// Package report is the public surface of statprint: a Report buffers cover,
// heading, table and image items and renders them to .docx or PDF.
package report

import (
	"bytes"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"sync"

	"github.com/ByLCY/statprint/content"
	"github.com/ByLCY/statprint/figure"
	"github.com/ByLCY/statprint/renderer"
	"github.com/ByLCY/statprint/renderer/pdf"
	"github.com/ByLCY/statprint/renderer/word"
)

// DocType selects the output backend.
type DocType string

const (
	Word DocType = "word"
	PDF  DocType = "pdf"
)

// ParseDocType accepts "word" (or "docx"/"doc") and "pdf", case-insensitively.
func ParseDocType(value string) (DocType, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "word", "docx", "doc":
		return Word, nil
	case "pdf":
		return PDF, nil
	default:
		return "", content.NewError(content.KindUnsupportedFormat, fmt.Sprintf("unsupported document type %q", value), nil)
	}
}

// Ext returns the file extension including the dot.
func (d DocType) Ext() string {
	if d == PDF {
		return ".pdf"
	}
	return ".docx"
}

type config struct {
	theme     content.Theme
	outputDir string
	assetDir  string
	sourceDir string
	logger    Logger
	pdf       pdf.Options
	word      word.Options
}

// Option configures a Report.
type Option func(*config)

// WithTheme replaces the default table theme.
func WithTheme(theme content.Theme) Option {
	return func(c *config) { c.theme = theme }
}

// WithOutputDir sets where rendered documents are written.
func WithOutputDir(dir string) Option {
	return func(c *config) { c.outputDir = dir }
}

// WithAssetDir sets where AddImage saves figures. It defaults to the output
// directory.
func WithAssetDir(dir string) Option {
	return func(c *config) { c.assetDir = dir }
}

// WithSourceDir resolves relative input files (images, CSV and XLSX sources)
// against dir.
func WithSourceDir(dir string) Option {
	return func(c *config) { c.sourceDir = dir }
}

// WithLogger sets the logger.
func WithLogger(logger Logger) Option {
	return func(c *config) { c.logger = logger }
}

// WithPDFOptions configures the PDF backend.
func WithPDFOptions(opts pdf.Options) Option {
	return func(c *config) { c.pdf = opts }
}

// WithWordOptions configures the Word backend.
func WithWordOptions(opts word.Options) Option {
	return func(c *config) { c.word = opts }
}

// Report accumulates content and renders it. It is safe for concurrent use;
// renders work on a snapshot and never modify the buffer.
type Report struct {
	filename string
	docType  DocType
	title    string
	cfg      config

	mu         sync.RWMutex
	buf        content.Buffer
	imageCount int
}

// New creates a report. Unknown document types fail here rather than at
// render time.
func New(filename string, docType DocType, title string, opts ...Option) (*Report, error) {
	dt, err := ParseDocType(string(docType))
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(filename) == "" {
		return nil, content.NewError(content.KindSchema, "filename is required", nil)
	}
	cfg := config{theme: content.DefaultTheme(), logger: NopLogger{}}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	if cfg.logger == nil {
		cfg.logger = NopLogger{}
	}
	if cfg.assetDir == "" {
		cfg.assetDir = cfg.outputDir
	}
	return &Report{filename: filename, docType: dt, title: title, cfg: cfg}, nil
}

// DocType returns the backend Render uses.
func (r *Report) DocType() DocType { return r.docType }

// Title returns the report title.
func (r *Report) Title() string { return r.title }

// AddCoverPage installs the cover page. A later call replaces an earlier one.
func (r *Report) AddCoverPage(cover content.Cover) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.buf.SetCover(cover)
	r.cfg.logger.Debugf("cover set: %q", cover.Title)
}

// AddHeading appends a section heading.
func (r *Report) AddHeading(text string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.buf.Append(content.Heading{Text: text})
	r.cfg.logger.Debugf("heading added: %q", text)
}

type tableConfig struct {
	headers    []string
	indentRows []int
}

// TableOption configures AddTable.
type TableOption func(*tableConfig)

// WithHeaders overrides the derived column labels.
func WithHeaders(headers ...string) TableOption {
	return func(c *tableConfig) { c.headers = headers }
}

// WithIndentRows marks data rows (0-based) whose first cell is indented.
// Out-of-range rows are ignored.
func WithIndentRows(rows ...int) TableOption {
	return func(c *tableConfig) { c.indentRows = append(c.indentRows, rows...) }
}

// AddTable normalizes data (a frame.Series or frame.Frame) and appends it.
// Schema problems are reported here and leave the buffer unchanged.
func (r *Report) AddTable(data any, opts ...TableOption) error {
	var tc tableConfig
	for _, opt := range opts {
		if opt != nil {
			opt(&tc)
		}
	}
	grid, err := content.Normalize(data, tc.headers)
	if err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.buf.Append(content.Table{Grid: grid, IndentRows: tc.indentRows})
	r.cfg.logger.Debugf("table added: %d columns, %d rows", grid.Columns(), len(grid.Rows))
	return nil
}

// AddImage saves fig as a PNG under the asset directory and appends it. The
// file is named "{n}_{hint}" or "graph_{n}.png" where n counts the images
// saved by this report. It returns the written path.
func (r *Report) AddImage(fig figure.Figure, hint string) (string, error) {
	if fig == nil {
		return "", content.NewError(content.KindResource, "nil figure", nil)
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	name := fmt.Sprintf("graph_%d.png", r.imageCount)
	if hint != "" {
		name = fmt.Sprintf("%d_%s", r.imageCount, filepath.Base(hint))
	}
	path := name
	if r.cfg.assetDir != "" {
		path = filepath.Join(r.cfg.assetDir, name)
	}

	var buf bytes.Buffer
	if err := fig.WritePNG(&buf); err != nil {
		return "", content.NewError(content.KindResource, "encode figure "+name, err)
	}
	if err := writeAtomic(path, buf.Bytes()); err != nil {
		return "", err
	}
	r.imageCount++
	r.buf.Append(content.Image{Path: path})
	r.cfg.logger.Debugf("image saved: %s", path)
	return path, nil
}

// AddImageFile appends an existing raster. The file is read at render time.
func (r *Report) AddImageFile(path string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.buf.Append(content.Image{Path: path})
	r.cfg.logger.Debugf("image referenced: %s", path)
}

// Items returns a snapshot of the buffer, cover first.
func (r *Report) Items() []content.Item {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.buf.Items()
}

// Document returns the snapshot renderers consume.
func (r *Report) Document() *content.Document {
	return &content.Document{Title: r.title, Items: r.Items(), Theme: r.cfg.theme}
}

// Render writes the report with its own backend and returns the output path.
func (r *Report) Render() (string, error) {
	return r.RenderAs(r.docType)
}

// RenderAs writes the report with the given backend to
// "{filename}.docx" or "{filename}.pdf" and returns the path.
func (r *Report) RenderAs(docType DocType) (string, error) {
	dt, err := ParseDocType(string(docType))
	if err != nil {
		return "", err
	}
	data, err := r.encode(dt)
	if err != nil {
		return "", err
	}
	path := r.OutputPath(dt)
	if err := writeAtomic(path, data); err != nil {
		r.cfg.logger.Errorf("write %s: %v", path, err)
		return "", err
	}
	r.cfg.logger.Infof("Report saved as %s", path)
	return path, nil
}

// RenderTo renders the report in memory and copies it to w.
func (r *Report) RenderTo(docType DocType, w io.Writer) error {
	dt, err := ParseDocType(string(docType))
	if err != nil {
		return err
	}
	data, err := r.encode(dt)
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return content.NewError(content.KindResource, "write report", err)
	}
	return nil
}

// OutputPath returns where RenderAs writes the given type.
func (r *Report) OutputPath(dt DocType) string {
	path := r.filename + dt.Ext()
	if r.cfg.outputDir != "" && !filepath.IsAbs(path) {
		path = filepath.Join(r.cfg.outputDir, path)
	}
	return path
}

func (r *Report) encode(dt DocType) ([]byte, error) {
	doc := r.Document()
	data, err := r.backend(dt).Render(doc)
	if err != nil {
		r.cfg.logger.Errorf("render %s: %v", dt, err)
		return nil, err
	}
	r.cfg.logger.Debugf("rendered %s: %d items, %d bytes", dt, len(doc.Items), len(data))
	return data, nil
}

func (r *Report) backend(dt DocType) renderer.Renderer {
	switch dt {
	case PDF:
		opts := r.cfg.pdf
		if opts.BaseDir == "" {
			opts.BaseDir = r.cfg.sourceDir
		}
		return pdf.New(opts)
	default:
		opts := r.cfg.word
		if opts.BaseDir == "" {
			opts.BaseDir = r.cfg.sourceDir
		}
		return word.New(opts)
	}
}

func (r *Report) resolveSource(path string) string {
	return renderer.ResolvePath(r.cfg.sourceDir, path)
}
