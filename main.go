package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/fatih/color"

	"github.com/ByLCY/statprint/content"
	"github.com/ByLCY/statprint/dsl"
	"github.com/ByLCY/statprint/report"
)

func main() {
	input := flag.String("in", "examples/demo.statprint", "report script path")
	outDir := flag.String("out", "output", "directory for the rendered report and its figures")
	dataJSON := flag.String("data", "", "JSON data bound to the script")
	format := flag.String("format", "", "override the script format (word or pdf)")
	themePath := flag.String("theme", "", "YAML theme file")
	outline := flag.Bool("outline", false, "print the report outline before rendering")
	debug := flag.String("debug", "", "write the content snapshot and table styles as JSON")
	verbose := flag.Bool("verbose", false, "log debug messages")
	flag.Parse()

	var inputData any
	if *dataJSON != "" {
		if err := json.Unmarshal([]byte(*dataJSON), &inputData); err != nil {
			log.Fatalf("parse data JSON: %v", err)
		}
	}

	logger := &consoleLogger{out: os.Stderr, verbose: *verbose}
	if _, err := run(options{
		input:   *input,
		outDir:  *outDir,
		format:  *format,
		theme:   *themePath,
		outline: *outline,
		debug:   *debug,
	}, inputData, logger); err != nil {
		logger.Errorf("%v", err)
		os.Exit(1)
	}
}

type options struct {
	input   string
	outDir  string
	format  string
	theme   string
	outline bool
	debug   string
}

// run parses the script, builds the report and renders it.
func run(opts options, data any, logger report.Logger) (string, error) {
	file, err := os.Open(opts.input)
	if err != nil {
		return "", fmt.Errorf("open script %s: %w", opts.input, err)
	}
	defer file.Close()

	doc, err := dsl.Parse(file)
	if err != nil {
		return "", fmt.Errorf("parse script: %w", err)
	}

	reportOpts := []report.Option{
		report.WithOutputDir(opts.outDir),
		report.WithSourceDir(filepath.Dir(opts.input)),
		report.WithLogger(logger),
	}
	if opts.theme != "" {
		theme, err := content.LoadTheme(opts.theme)
		if err != nil {
			return "", err
		}
		reportOpts = append(reportOpts, report.WithTheme(theme))
	}

	r, err := report.Build(doc, data, reportOpts...)
	if err != nil {
		return "", fmt.Errorf("build report: %w", err)
	}

	if opts.outline {
		if err := r.WriteOutline(os.Stdout); err != nil {
			return "", err
		}
	}
	if opts.debug != "" {
		if err := os.MkdirAll(filepath.Dir(opts.debug), 0o755); err != nil {
			return "", fmt.Errorf("create debug dir: %w", err)
		}
		if err := r.WriteDebugJSON(opts.debug); err != nil {
			return "", err
		}
	}

	docType := r.DocType()
	if opts.format != "" {
		docType, err = report.ParseDocType(opts.format)
		if err != nil {
			return "", err
		}
	}
	return r.RenderAs(docType)
}

// consoleLogger colors levels for terminals; fatih/color drops the escapes
// when the output is not a TTY.
type consoleLogger struct {
	out     io.Writer
	verbose bool
}

var (
	debugLabel = color.New(color.FgHiBlack)
	infoLabel  = color.New(color.FgCyan)
	errorLabel = color.New(color.FgRed, color.Bold)
)

func (l *consoleLogger) Debugf(format string, args ...any) {
	if l.verbose {
		l.print(debugLabel, "debug", format, args...)
	}
}

func (l *consoleLogger) Infof(format string, args ...any) {
	l.print(infoLabel, "info", format, args...)
}

func (l *consoleLogger) Errorf(format string, args ...any) {
	l.print(errorLabel, "error", format, args...)
}

func (l *consoleLogger) print(label *color.Color, level, format string, args ...any) {
	label.Fprintf(l.out, "%-5s ", level)
	fmt.Fprintf(l.out, format+"\n", args...)
}
