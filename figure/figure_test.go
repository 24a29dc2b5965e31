package figure

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/ByLCY/statprint/content"
	"github.com/ByLCY/statprint/frame"
)

func TestBarChartWritePNG(t *testing.T) {
	chart, err := BarChartFromSeries(frame.SeriesFromMap("Category", map[string]int{"A": 3, "B": 5, "C": 0}))
	if err != nil {
		t.Fatalf("chart: %v", err)
	}
	chart.Width, chart.Height, chart.DPMM = 100, 50, 2

	var buf bytes.Buffer
	if err := chart.WritePNG(&buf); err != nil {
		t.Fatalf("write png: %v", err)
	}
	cfg, err := png.DecodeConfig(&buf)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if cfg.Width < 199 || cfg.Width > 201 || cfg.Height < 99 || cfg.Height > 101 {
		t.Fatalf("unexpected raster size %dx%d", cfg.Width, cfg.Height)
	}
	if chart.Labels[0] != "A" || chart.Values[1] != 5 {
		t.Fatalf("series not mapped in index order: %v %v", chart.Labels, chart.Values)
	}
}

func TestBarChartDeterministic(t *testing.T) {
	chart, err := NewBarChart("Totals", []string{"x", "y"}, []float64{1.5, 2})
	if err != nil {
		t.Fatalf("chart: %v", err)
	}
	chart.DPMM = 1
	var a, b bytes.Buffer
	if err := chart.WritePNG(&a); err != nil {
		t.Fatalf("first: %v", err)
	}
	if err := chart.WritePNG(&b); err != nil {
		t.Fatalf("second: %v", err)
	}
	if !bytes.Equal(a.Bytes(), b.Bytes()) {
		t.Fatalf("chart output is not stable")
	}
}

func TestBarChartRejectsBadInput(t *testing.T) {
	if _, err := NewBarChart("", []string{"a"}, nil); !content.IsKind(err, content.KindSchema) {
		t.Fatalf("expected schema error, got %v", err)
	}
	s := frame.NewSeries("n", []any{"a", "b"}, []any{1, "many"})
	if _, err := BarChartFromSeries(s); !content.IsKind(err, content.KindSchema) {
		t.Fatalf("expected schema error for non-numeric value, got %v", err)
	}
	numeric := frame.NewSeries("n", []any{"a"}, []any{"2.5"})
	chart, err := BarChartFromSeries(numeric)
	if err != nil || chart.Values[0] != 2.5 {
		t.Fatalf("numeric strings should parse: %v %v", chart, err)
	}
}

func TestFromImage(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 3, 2))
	img.Set(0, 0, color.RGBA{G: 255, A: 255})
	var buf bytes.Buffer
	if err := FromImage(img).WritePNG(&buf); err != nil {
		t.Fatalf("write: %v", err)
	}
	decoded, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if decoded.Bounds().Dx() != 3 || decoded.Bounds().Dy() != 2 {
		t.Fatalf("unexpected bounds %v", decoded.Bounds())
	}
	if err := FromImage(nil).WritePNG(&buf); !content.IsKind(err, content.KindResource) {
		t.Fatalf("nil image should fail, got %v", err)
	}
}
