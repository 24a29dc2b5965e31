package content

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ByLCY/statprint/layout"
)

// Color is an RGB fill color.
type Color struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
}

// Hex returns the color as six upper-case hex digits without '#', the form
// word-processor shading expects.
func (c Color) Hex() string {
	return fmt.Sprintf("%02X%02X%02X", c.R, c.G, c.B)
}

// ParseColor parses "D9D9D9", "#d9d9d9" or the short form "#ddd".
func ParseColor(value string) (Color, error) {
	v := strings.TrimPrefix(strings.TrimSpace(value), "#")
	if len(v) == 3 {
		v = string([]byte{v[0], v[0], v[1], v[1], v[2], v[2]})
	}
	if len(v) != 6 {
		return Color{}, NewError(KindStyle, fmt.Sprintf("color %q is not a hex triplet", value), nil)
	}
	n, err := strconv.ParseUint(v, 16, 32)
	if err != nil {
		return Color{}, NewError(KindStyle, fmt.Sprintf("color %q is not a hex triplet", value), err)
	}
	return Color{R: uint8(n >> 16), G: uint8(n >> 8), B: uint8(n)}, nil
}

// MustColor parses a color and panics on malformed input. Intended for
// package-level defaults.
func MustColor(value string) Color {
	c, err := ParseColor(value)
	if err != nil {
		panic(err)
	}
	return c
}

// Theme carries the table styling options. A nil field means "no fill" for
// colors and "auto width" for the table width.
type Theme struct {
	HeaderBackground  *Color         `json:"headerBackground,omitempty"`
	EvenRowBackground *Color         `json:"evenRowBackground,omitempty"`
	OddRowBackground  *Color         `json:"oddRowBackground,omitempty"`
	FixedTableWidth   *layout.Length `json:"fixedTableWidth,omitempty"`
}

// DefaultTheme shades the header and every even data row.
func DefaultTheme() Theme {
	header := MustColor("D9D9D9")
	even := MustColor("F2F2F2")
	return Theme{HeaderBackground: &header, EvenRowBackground: &even}
}

// PlainTheme applies no fills and leaves widths to the backend.
func PlainTheme() Theme { return Theme{} }

// ThemeConfig is the textual form of a Theme, as read from YAML files or
// report scripts. Empty strings leave the option unset.
type ThemeConfig struct {
	HeaderBackground  string `yaml:"header_background"`
	EvenRowBackground string `yaml:"even_row_background"`
	OddRowBackground  string `yaml:"odd_row_background"`
	FixedTableWidth   string `yaml:"fixed_table_width"`
}

// NewTheme validates a ThemeConfig. Malformed colors or widths fail here, not
// during rendering.
func NewTheme(cfg ThemeConfig) (Theme, error) {
	var theme Theme
	for _, opt := range []struct {
		name  string
		value string
		dst   **Color
	}{
		{"header_background", cfg.HeaderBackground, &theme.HeaderBackground},
		{"even_row_background", cfg.EvenRowBackground, &theme.EvenRowBackground},
		{"odd_row_background", cfg.OddRowBackground, &theme.OddRowBackground},
	} {
		if strings.TrimSpace(opt.value) == "" {
			continue
		}
		c, err := ParseColor(opt.value)
		if err != nil {
			return Theme{}, NewError(KindStyle, "invalid "+opt.name, err)
		}
		*opt.dst = &c
	}
	if strings.TrimSpace(cfg.FixedTableWidth) != "" {
		width, err := layout.ParseLength(cfg.FixedTableWidth)
		if err != nil {
			return Theme{}, NewError(KindStyle, "invalid fixed_table_width", err)
		}
		theme.FixedTableWidth = &width
	}
	return theme, nil
}

// Config returns the textual form of the theme.
func (t Theme) Config() ThemeConfig {
	var cfg ThemeConfig
	if t.HeaderBackground != nil {
		cfg.HeaderBackground = t.HeaderBackground.Hex()
	}
	if t.EvenRowBackground != nil {
		cfg.EvenRowBackground = t.EvenRowBackground.Hex()
	}
	if t.OddRowBackground != nil {
		cfg.OddRowBackground = t.OddRowBackground.Hex()
	}
	if t.FixedTableWidth != nil {
		cfg.FixedTableWidth = t.FixedTableWidth.String()
	}
	return cfg
}

// ReadTheme decodes a YAML theme document.
func ReadTheme(r io.Reader) (Theme, error) {
	var cfg ThemeConfig
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && err != io.EOF {
		return Theme{}, NewError(KindStyle, "decode theme", err)
	}
	return NewTheme(cfg)
}

// LoadTheme reads a YAML theme file.
func LoadTheme(path string) (Theme, error) {
	file, err := os.Open(path)
	if err != nil {
		return Theme{}, NewError(KindResource, "open theme "+path, err)
	}
	defer file.Close()
	return ReadTheme(file)
}
