// Package figure produces the raster images a report embeds. A Figure knows
// how to encode itself as PNG; the report decides where the file lives.
package figure

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"math"
	"strconv"
	"sync"

	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/rasterizer"

	"github.com/ByLCY/statprint/content"
	"github.com/ByLCY/statprint/fonts"
	"github.com/ByLCY/statprint/frame"
)

// Figure is anything that can be saved as a PNG.
type Figure interface {
	WritePNG(w io.Writer) error
}

// FromImage wraps an already rendered image.
func FromImage(img image.Image) Figure {
	return imageFigure{img}
}

type imageFigure struct {
	img image.Image
}

func (f imageFigure) WritePNG(w io.Writer) error {
	if f.img == nil {
		return content.NewError(content.KindResource, "empty image", nil)
	}
	return png.Encode(w, f.img)
}

// Chart dimensions in millimetres.
const (
	defaultWidth  = 160.0
	defaultHeight = 90.0
	defaultDPMM   = 4.0

	marginX      = 10.0
	marginTop    = 14.0
	marginBottom = 14.0
	barGapRatio  = 0.25
	axisWidth    = 0.3

	titleSize = 14.0 // pt
	labelSize = 9.0  // pt
)

var (
	defaultBar  = canvas.Hex("#4682B4")
	transparent = color.RGBA{0, 0, 0, 0}
)

// BarChart draws one bar per label.
type BarChart struct {
	Title  string
	Labels []string
	Values []float64
	// Width and Height are in millimetres; zero uses the defaults.
	Width  float64
	Height float64
	// DPMM is the raster resolution in dots per millimetre.
	DPMM float64
	// BarColor fills the bars; nil uses the default blue.
	BarColor color.Color
}

var _ Figure = (*BarChart)(nil)

// NewBarChart builds a chart from parallel labels and values.
func NewBarChart(title string, labels []string, values []float64) (*BarChart, error) {
	if len(labels) != len(values) {
		return nil, content.NewError(content.KindSchema, fmt.Sprintf("chart has %d labels for %d values", len(labels), len(values)), nil)
	}
	return &BarChart{Title: title, Labels: labels, Values: values}, nil
}

// BarChartFromSeries charts a series: the index becomes the labels and the
// values must be numeric.
func BarChartFromSeries(s frame.Series) (*BarChart, error) {
	if len(s.Index) != len(s.Values) {
		return nil, content.NewError(content.KindSchema, fmt.Sprintf("series has %d index labels for %d values", len(s.Index), len(s.Values)), nil)
	}
	labels := make([]string, len(s.Index))
	values := make([]float64, len(s.Values))
	for i := range s.Index {
		labels[i] = content.Stringify(s.Index[i])
		v, ok := toFloat(s.Values[i])
		if !ok {
			return nil, content.NewError(content.KindSchema, fmt.Sprintf("value %v of %q is not numeric", s.Values[i], labels[i]), nil)
		}
		values[i] = v
	}
	return NewBarChart(s.Name, labels, values)
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, !math.IsNaN(n)
	case float32:
		return float64(n), !math.IsNaN(float64(n))
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case int32:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint64:
		return float64(n), true
	case string:
		f, err := strconv.ParseFloat(n, 64)
		return f, err == nil && !math.IsNaN(f)
	default:
		return 0, false
	}
}

func (b *BarChart) size() (float64, float64) {
	w, h := b.Width, b.Height
	if w <= 0 {
		w = defaultWidth
	}
	if h <= 0 {
		h = defaultHeight
	}
	return w, h
}

// Canvas draws the chart onto a new canvas.
func (b *BarChart) Canvas() (*canvas.Canvas, error) {
	family, err := labelFamily()
	if err != nil {
		return nil, err
	}
	width, height := b.size()
	c := canvas.New(width, height)
	ctx := canvas.NewContext(c)
	// top-left origin, y grows downwards
	ctx.SetCoordSystem(canvas.CartesianIV)

	ctx.SetFillColor(canvas.White)
	ctx.SetStrokeColor(transparent)
	ctx.DrawPath(0, 0, canvas.Rectangle(width, height))

	if b.Title != "" {
		face := family.Face(titleSize, canvas.Black, canvas.FontBold, canvas.FontNormal)
		ctx.DrawText(width/2, marginTop/2+face.Metrics().Ascent/2, canvas.NewTextLine(face, b.Title, canvas.Center))
	}

	plotW := width - 2*marginX
	plotH := height - marginTop - marginBottom
	baseY := height - marginBottom

	axis := &canvas.Path{}
	axis.MoveTo(0, 0)
	axis.LineTo(plotW, 0)
	ctx.SetFillColor(transparent)
	ctx.SetStrokeColor(canvas.Black)
	ctx.SetStrokeWidth(axisWidth)
	ctx.DrawPath(marginX, baseY, axis)

	if len(b.Values) == 0 {
		return c, nil
	}
	maxV := 0.0
	for _, v := range b.Values {
		maxV = math.Max(maxV, v)
	}
	slot := plotW / float64(len(b.Values))
	barW := slot * (1 - barGapRatio)
	bar := b.BarColor
	if bar == nil {
		bar = defaultBar
	}
	label := family.Face(labelSize, canvas.Black, canvas.FontRegular, canvas.FontNormal)
	ascent := label.Metrics().Ascent

	for i, v := range b.Values {
		x := marginX + float64(i)*slot + (slot-barW)/2
		barH := 0.0
		if maxV > 0 && v > 0 {
			barH = plotH * v / maxV
		}
		if barH > 0 {
			ctx.SetFillColor(bar)
			ctx.SetStrokeColor(transparent)
			ctx.DrawPath(x, baseY-barH, canvas.Rectangle(barW, barH))
		}
		center := x + barW/2
		ctx.DrawText(center, baseY-barH-1, canvas.NewTextLine(label, strconv.FormatFloat(v, 'f', -1, 64), canvas.Center))
		if i < len(b.Labels) {
			ctx.DrawText(center, baseY+2+ascent, canvas.NewTextLine(label, b.Labels[i], canvas.Center))
		}
	}
	return c, nil
}

// Image rasterizes the chart.
func (b *BarChart) Image() (image.Image, error) {
	c, err := b.Canvas()
	if err != nil {
		return nil, err
	}
	dpmm := b.DPMM
	if dpmm <= 0 {
		dpmm = defaultDPMM
	}
	return rasterizer.Draw(c, canvas.DPMM(dpmm), canvas.DefaultColorSpace), nil
}

// WritePNG rasterizes the chart and encodes it as PNG.
func (b *BarChart) WritePNG(w io.Writer) error {
	img, err := b.Image()
	if err != nil {
		return err
	}
	return png.Encode(w, img)
}

var (
	familyOnce   sync.Once
	labelFonts   *canvas.FontFamily
	labelFontErr error
)

func labelFamily() (*canvas.FontFamily, error) {
	familyOnce.Do(func() {
		f := canvas.NewFontFamily("statprint-label")
		for _, face := range []struct {
			name  string
			style canvas.FontStyle
		}{{fonts.Regular, canvas.FontRegular}, {fonts.Bold, canvas.FontBold}} {
			data, err := fonts.Load(face.name)
			if err != nil {
				labelFontErr = err
				return
			}
			if err := f.LoadFont(data, 0, face.style); err != nil {
				labelFontErr = fmt.Errorf("load %s label font: %w", face.name, err)
				return
			}
		}
		labelFonts = f
	})
	return labelFonts, labelFontErr
}
