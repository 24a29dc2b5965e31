// Package fonts serves the built-in label fonts used when drawing figures.
package fonts

import (
	"fmt"
	"strings"

	"github.com/go-fonts/latin-modern/lmroman10bold"
	"github.com/go-fonts/latin-modern/lmroman10regular"
)

// Built-in font names.
const (
	Regular = "regular"
	Bold    = "bold"
)

var builtin = map[string][]byte{
	Regular: lmroman10regular.TTF,
	Bold:    lmroman10bold.TTF,
}

// Load returns the bytes of a built-in font. name may carry an "embed:" prefix,
// e.g. "embed:bold".
func Load(name string) ([]byte, error) {
	key := strings.ToLower(strings.TrimPrefix(name, "embed:"))
	data, ok := builtin[key]
	if !ok || len(data) == 0 {
		return nil, fmt.Errorf("unknown built-in font %q", name)
	}
	return data, nil
}
