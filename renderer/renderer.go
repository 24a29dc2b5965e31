package renderer

import (
	"bytes"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"os"
	"path/filepath"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/ByLCY/statprint/content"
)

// embeddable lists the formats both backends embed as-is. Anything else the
// registered decoders understand is re-encoded as PNG.
var embeddable = map[string]bool{"png": true, "jpeg": true, "gif": true}

// Renderer projects a document snapshot into a finished file, e.g. a .docx
// package or a PDF. Render returns the encoded bytes and never mutates doc.
type Renderer interface {
	Render(doc *content.Document) ([]byte, error)
}

// ResolvePath joins relative asset paths onto baseDir.
func ResolvePath(baseDir, path string) string {
	if baseDir == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(baseDir, path)
}

// ImageInfo is the decoded header of a raster asset.
type ImageInfo struct {
	Path   string
	Format string
	Width  int
	Height int
	Data   []byte
}

// LoadImage reads a raster and its pixel size. BMP, TIFF and WebP files are
// converted to PNG. Missing or undecodable files are resource errors.
func LoadImage(baseDir, path string) (ImageInfo, error) {
	full := ResolvePath(baseDir, path)
	data, err := os.ReadFile(full)
	if err != nil {
		return ImageInfo{}, content.NewError(content.KindResource, "read image "+path, err)
	}
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return ImageInfo{}, content.NewError(content.KindResource, "decode image "+path, err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return ImageInfo{}, content.NewError(content.KindResource, "image "+path+" has no pixels", nil)
	}
	if !embeddable[format] {
		img, _, err := image.Decode(bytes.NewReader(data))
		if err != nil {
			return ImageInfo{}, content.NewError(content.KindResource, "decode image "+path, err)
		}
		var buf bytes.Buffer
		if err := png.Encode(&buf, img); err != nil {
			return ImageInfo{}, content.NewError(content.KindResource, "convert image "+path, err)
		}
		data, format = buf.Bytes(), "png"
	}
	return ImageInfo{Path: full, Format: format, Width: cfg.Width, Height: cfg.Height, Data: data}, nil
}
