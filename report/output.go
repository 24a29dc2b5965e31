package report

import (
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/ByLCY/statprint/content"
)

// writeAtomic writes data next to path under a temporary name and renames it
// into place, so readers never observe a partially written document.
func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return content.NewError(content.KindResource, "create "+dir, err)
	}

	tmpPath := filepath.Join(dir, ".statprint-"+uuid.NewString())
	tmp, err := os.OpenFile(tmpPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return content.NewError(content.KindResource, "create "+path, err)
	}
	defer func() {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
	}()

	if _, err := tmp.Write(data); err != nil {
		return content.NewError(content.KindResource, "write "+path, err)
	}
	if err := tmp.Sync(); err != nil {
		return content.NewError(content.KindResource, "sync "+path, err)
	}
	if err := tmp.Close(); err != nil {
		return content.NewError(content.KindResource, "close "+path, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return content.NewError(content.KindResource, "rename "+path, err)
	}
	return nil
}
