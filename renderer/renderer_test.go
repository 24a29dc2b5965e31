package renderer

import (
	"bytes"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/image/bmp"

	"github.com/ByLCY/statprint/content"
)

func TestResolvePath(t *testing.T) {
	if got := ResolvePath("assets", "a.png"); got != filepath.Join("assets", "a.png") {
		t.Fatalf("unexpected relative resolution %q", got)
	}
	abs := filepath.Join(t.TempDir(), "a.png")
	if got := ResolvePath("assets", abs); got != abs {
		t.Fatalf("absolute path should be kept, got %q", got)
	}
	if got := ResolvePath("", "a.png"); got != "a.png" {
		t.Fatalf("empty base should be a no-op, got %q", got)
	}
}

func TestLoadImagePNG(t *testing.T) {
	dir := t.TempDir()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 30, 12))); err != nil {
		t.Fatalf("encode: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "a.png"), buf.Bytes(), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	info, err := LoadImage(dir, "a.png")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if info.Format != "png" || info.Width != 30 || info.Height != 12 || !bytes.Equal(info.Data, buf.Bytes()) {
		t.Fatalf("unexpected info %s %dx%d", info.Format, info.Width, info.Height)
	}
}

func TestLoadImageConvertsBMP(t *testing.T) {
	dir := t.TempDir()
	var buf bytes.Buffer
	if err := bmp.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 8, 4))); err != nil {
		t.Fatalf("encode: %v", err)
	}
	path := filepath.Join(dir, "scan.bmp")
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	info, err := LoadImage("", path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if info.Format != "png" || info.Width != 8 || info.Height != 4 {
		t.Fatalf("expected a converted 8x4 png, got %s %dx%d", info.Format, info.Width, info.Height)
	}
	if _, err := png.Decode(bytes.NewReader(info.Data)); err != nil {
		t.Fatalf("converted data is not png: %v", err)
	}
}

func TestLoadImageErrors(t *testing.T) {
	dir := t.TempDir()
	if _, err := LoadImage(dir, "missing.png"); !content.IsKind(err, content.KindResource) {
		t.Fatalf("expected resource error, got %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "junk.png"), []byte("not an image"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := LoadImage(dir, "junk.png"); !content.IsKind(err, content.KindResource) {
		t.Fatalf("expected resource error, got %v", err)
	}
}
