package report

import (
	"fmt"

	"github.com/ByLCY/statprint/binding"
	"github.com/ByLCY/statprint/content"
	"github.com/ByLCY/statprint/dsl"
	"github.com/ByLCY/statprint/figure"
	"github.com/ByLCY/statprint/frame"
)

const defaultFilename = "report"

// shape is what a setting may hold.
type shape int

const (
	scalar shape = iota
	list
)

var (
	reportKeys = map[string]shape{"file": scalar, "format": scalar}
	themeKeys  = map[string]shape{
		"header-background":   scalar,
		"even-row-background": scalar,
		"odd-row-background":  scalar,
		"table-width":         scalar,
	}
	coverKeys = map[string]shape{"subtitle": scalar, "author": scalar, "date": scalar}
	tableKeys = map[string]shape{"columns": list, "headers": list, "indent": list}
	chartKeys = map[string]shape{"file": scalar, "title": scalar}
)

// settings validates a block that may only hold the given assignments.
// Unknown keys, arrays where one value is expected, bare strings and nested
// commands are errors of the given kind.
func settings(where string, b *dsl.Block, kind content.ErrorKind, keys map[string]shape) (map[string]*dsl.Value, error) {
	if texts := b.Texts(); len(texts) > 0 {
		return nil, content.NewError(kind, fmt.Sprintf("%s: unexpected text %q (line %d)", where, string(texts[0].Value), texts[0].Pos.Line), nil)
	}
	if cmds := b.Commands(); len(cmds) > 0 {
		return nil, content.NewError(kind, fmt.Sprintf("%s: unexpected command %s", where, cmds[0].Where()), nil)
	}
	out := b.Settings()
	for key, v := range out {
		want, ok := keys[key]
		if !ok {
			return nil, content.NewError(kind, fmt.Sprintf("%s: unknown setting %q", where, key), nil)
		}
		switch want {
		case scalar:
			if !v.IsScalar() {
				return nil, content.NewError(kind, fmt.Sprintf("%s: %s must be a single value", where, key), nil)
			}
		case list:
			if _, err := v.Strings(); err != nil {
				return nil, content.NewError(kind, fmt.Sprintf("%s: %s", where, key), err)
			}
		}
	}
	return out, nil
}

// Build creates a report from a parsed script. Strings may reference data with
// ${path}; table, series and chart commands read their values from data.
// A theme block in the script is applied before opts, so an explicit
// WithTheme overrides it.
func Build(doc *dsl.Document, data any, opts ...Option) (*Report, error) {
	if doc == nil || doc.Body == nil {
		return nil, content.NewError(content.KindSchema, "empty script", nil)
	}
	if texts := doc.Body.Texts(); len(texts) > 0 {
		return nil, content.NewError(content.KindSchema, fmt.Sprintf("unexpected text %q (line %d)", string(texts[0].Value), texts[0].Pos.Line), nil)
	}
	top := doc.Body.Settings()
	for key, v := range top {
		if _, ok := reportKeys[key]; !ok {
			return nil, content.NewError(content.KindSchema, fmt.Sprintf("unknown setting %q", key), nil)
		}
		if !v.IsScalar() {
			return nil, content.NewError(content.KindSchema, key+" must be a single value", nil)
		}
	}

	filename := defaultFilename
	if v, ok := top["file"]; ok {
		filename = binding.Interpolate(v.Text(), data)
	}
	docType := Word
	if v, ok := top["format"]; ok {
		dt, err := ParseDocType(v.Text())
		if err != nil {
			return nil, err
		}
		docType = dt
	}

	var scriptOpts []Option
	for _, cmd := range doc.Body.Commands() {
		if cmd.Name != "theme" {
			continue
		}
		theme, err := scriptTheme(cmd)
		if err != nil {
			return nil, err
		}
		scriptOpts = append(scriptOpts, WithTheme(theme))
	}

	title := binding.Interpolate(string(doc.Title), data)
	r, err := New(filename, docType, title, append(scriptOpts, opts...)...)
	if err != nil {
		return nil, err
	}

	b := builder{report: r, data: data}
	for _, cmd := range doc.Body.Commands() {
		if err := b.command(cmd); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// scriptTheme starts from the default theme and overrides the keys the block
// sets.
func scriptTheme(cmd *dsl.Command) (content.Theme, error) {
	values, err := settings(cmd.Where(), cmd.Block, content.KindStyle, themeKeys)
	if err != nil {
		return content.Theme{}, err
	}
	cfg := content.DefaultTheme().Config()
	for key, v := range values {
		switch key {
		case "header-background":
			cfg.HeaderBackground = v.Text()
		case "even-row-background":
			cfg.EvenRowBackground = v.Text()
		case "odd-row-background":
			cfg.OddRowBackground = v.Text()
		case "table-width":
			cfg.FixedTableWidth = v.Text()
		}
	}
	return content.NewTheme(cfg)
}

type builder struct {
	report *Report
	data   any
}

func (b *builder) command(cmd *dsl.Command) error {
	switch cmd.Name {
	case "theme":
		return nil
	case "cover":
		return b.cover(cmd)
	case "heading":
		return b.heading(cmd)
	case "table":
		return b.table(cmd)
	case "series":
		return b.series(cmd)
	case "chart":
		return b.chart(cmd)
	case "image":
		return b.image(cmd)
	default:
		return content.NewError(content.KindSchema, "unknown command "+cmd.Where(), nil)
	}
}

func (b *builder) text(s string) string {
	return binding.Interpolate(s, b.data)
}

func (b *builder) cover(cmd *dsl.Command) error {
	title, _ := cmd.StringArg(0)
	values, err := settings(cmd.Where(), cmd.Block, content.KindSchema, coverKeys)
	if err != nil {
		return err
	}
	b.report.AddCoverPage(content.Cover{
		Title:    b.text(title),
		Subtitle: b.text(values["subtitle"].Text()),
		Author:   b.text(values["author"].Text()),
		Date:     b.text(values["date"].Text()),
	})
	return nil
}

func (b *builder) heading(cmd *dsl.Command) error {
	if _, err := settings(cmd.Where(), cmd.Block, content.KindSchema, nil); err != nil {
		return err
	}
	text, ok := cmd.StringArg(0)
	if !ok {
		return content.NewError(content.KindSchema, cmd.Where()+": heading needs text", nil)
	}
	b.report.AddHeading(b.text(text))
	return nil
}

func (b *builder) table(cmd *dsl.Command) error {
	values, err := settings(cmd.Where(), cmd.Block, content.KindSchema, tableKeys)
	if err != nil {
		return err
	}
	opts, err := tableOptions(cmd, values)
	if err != nil {
		return err
	}
	columns, _ := values["columns"].Strings()
	var f frame.Frame
	switch source := cmd.Path(); source {
	case "csv", "xlsx":
		file, ok := cmd.StringArg(0)
		if !ok {
			return content.NewError(content.KindSchema, cmd.Where()+": "+source+" table needs a file", nil)
		}
		path := b.report.resolveSource(b.text(file))
		if source == "csv" {
			f, err = frame.LoadCSV(path)
		} else {
			sheet, _ := cmd.Param("sheet")
			f, err = frame.LoadXLSX(path, sheet)
		}
		if err != nil {
			return content.NewError(content.KindResource, cmd.Where(), err)
		}
		if len(columns) > 0 {
			selected, ok := f.Select(columns...)
			if !ok {
				return content.NewError(content.KindSchema, fmt.Sprintf("%s: columns %v not all present in %v", cmd.Where(), columns, f.Columns), nil)
			}
			f = selected
		}
	default:
		value, err := b.resolve(cmd)
		if err != nil {
			return err
		}
		f, err = binding.Frame(value, columns)
		if err != nil {
			return fmt.Errorf("%s: %w", cmd.Where(), err)
		}
	}
	if err := b.report.AddTable(f, opts...); err != nil {
		return fmt.Errorf("%s: %w", cmd.Where(), err)
	}
	return nil
}

func (b *builder) series(cmd *dsl.Command) error {
	values, err := settings(cmd.Where(), cmd.Block, content.KindSchema, map[string]shape{"headers": list, "indent": list})
	if err != nil {
		return err
	}
	s, err := b.resolveSeries(cmd)
	if err != nil {
		return err
	}
	opts, err := tableOptions(cmd, values)
	if err != nil {
		return err
	}
	if err := b.report.AddTable(s, opts...); err != nil {
		return fmt.Errorf("%s: %w", cmd.Where(), err)
	}
	return nil
}

func (b *builder) chart(cmd *dsl.Command) error {
	values, err := settings(cmd.Where(), cmd.Block, content.KindSchema, chartKeys)
	if err != nil {
		return err
	}
	s, err := b.resolveSeries(cmd)
	if err != nil {
		return err
	}
	chart, err := figure.BarChartFromSeries(s)
	if err != nil {
		return fmt.Errorf("%s: %w", cmd.Where(), err)
	}
	if v, ok := values["title"]; ok {
		chart.Title = b.text(v.Text())
	}
	if _, err := b.report.AddImage(chart, values["file"].Text()); err != nil {
		return fmt.Errorf("%s: %w", cmd.Where(), err)
	}
	return nil
}

func (b *builder) image(cmd *dsl.Command) error {
	if _, err := settings(cmd.Where(), cmd.Block, content.KindSchema, nil); err != nil {
		return err
	}
	path, ok := cmd.StringArg(0)
	if !ok {
		return content.NewError(content.KindSchema, cmd.Where()+": image needs a path", nil)
	}
	b.report.AddImageFile(b.text(path))
	return nil
}

func (b *builder) resolve(cmd *dsl.Command) (any, error) {
	path := cmd.Path()
	if path == "" {
		return nil, content.NewError(content.KindSchema, cmd.Where()+": missing data path", nil)
	}
	value, ok := binding.Resolve(b.data, path)
	if !ok {
		return nil, content.NewError(content.KindSchema, fmt.Sprintf("%s: %q not found in data", cmd.Where(), path), nil)
	}
	return value, nil
}

func (b *builder) resolveSeries(cmd *dsl.Command) (frame.Series, error) {
	value, err := b.resolve(cmd)
	if err != nil {
		return frame.Series{}, err
	}
	name, _ := cmd.Param("name")
	s, err := binding.Series(b.text(name), value)
	if err != nil {
		return frame.Series{}, fmt.Errorf("%s: %w", cmd.Where(), err)
	}
	return s, nil
}

func tableOptions(cmd *dsl.Command, values map[string]*dsl.Value) ([]TableOption, error) {
	var opts []TableOption
	if v, ok := values["headers"]; ok {
		headers, _ := v.Strings()
		opts = append(opts, WithHeaders(headers...))
	}
	if v, ok := values["indent"]; ok {
		rows, err := v.Ints()
		if err != nil {
			return nil, content.NewError(content.KindSchema, cmd.Where()+": indent", err)
		}
		opts = append(opts, WithIndentRows(rows...))
	}
	return opts, nil
}
