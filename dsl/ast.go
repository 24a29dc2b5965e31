package dsl

import (
	"fmt"
	"strconv"
	"strings"
)

// Settings returns the block's assignments keyed by name. Later assignments
// win.
func (b *Block) Settings() map[string]*Value {
	out := map[string]*Value{}
	if b == nil {
		return out
	}
	for _, st := range b.Statements {
		if st.Assignment != nil {
			out[st.Assignment.Key] = st.Assignment.Value
		}
	}
	return out
}

// Commands returns the block's commands in source order.
func (b *Block) Commands() []*Command {
	if b == nil {
		return nil
	}
	var out []*Command
	for _, st := range b.Statements {
		if st.Command != nil {
			out = append(out, st.Command)
		}
	}
	return out
}

// Texts returns the bare string statements of the block.
func (b *Block) Texts() []*TextLiteral {
	if b == nil {
		return nil
	}
	var out []*TextLiteral
	for _, st := range b.Statements {
		if st.Text != nil {
			out = append(out, st.Text)
		}
	}
	return out
}

// Text renders a scalar value: strings unquoted, numbers and colors as
// written, expressions joined back together. Arrays render as "".
func (v *Value) Text() string {
	switch {
	case v == nil:
		return ""
	case v.String != nil:
		return string(*v.String)
	case v.Number != nil:
		return *v.Number
	case v.Color != nil:
		return *v.Color
	case v.Expr != nil:
		return v.Expr.String()
	default:
		return ""
	}
}

// IsScalar reports whether v is a single value rather than an array.
func (v *Value) IsScalar() bool {
	return v != nil && v.Array == nil
}

// Strings returns the elements of an array value as text. A scalar becomes a
// one-element list; nested arrays are an error.
func (v *Value) Strings() ([]string, error) {
	if v == nil {
		return nil, nil
	}
	if v.Array == nil {
		return []string{v.Text()}, nil
	}
	out := make([]string, len(v.Array.Values))
	for i, item := range v.Array.Values {
		if !item.IsScalar() {
			return nil, fmt.Errorf("element %d is not a single value", i)
		}
		out[i] = item.Text()
	}
	return out, nil
}

// Ints returns the elements of an array value as integers.
func (v *Value) Ints() ([]int, error) {
	items, err := v.Strings()
	if err != nil {
		return nil, err
	}
	out := make([]int, len(items))
	for i, item := range items {
		n, err := strconv.Atoi(item)
		if err != nil {
			return nil, fmt.Errorf("element %d (%q) is not an integer", i, item)
		}
		out[i] = n
	}
	return out, nil
}

// String joins the raw tokens of the expression.
func (e *Expression) String() string {
	if e == nil {
		return ""
	}
	return joinRaw(e.Parts)
}

// Path joins the leading non-string arguments, e.g. `data.sales` in
// `table data.sales { ... }`. Keyword arguments end the path.
func (c *Command) Path() string {
	var parts []*Lexeme
	for _, arg := range c.Args {
		if arg.Type == "String" {
			break
		}
		if len(parts) > 0 && arg.Type == "Ident" && parts[len(parts)-1].Type == "Ident" {
			break
		}
		parts = append(parts, arg)
	}
	return joinRaw(parts)
}

// StringArg returns the n-th string argument.
func (c *Command) StringArg(n int) (string, bool) {
	for _, arg := range c.Args {
		if arg.Type != "String" {
			continue
		}
		if n == 0 {
			return arg.Value, true
		}
		n--
	}
	return "", false
}

// Param returns the value following a keyword argument, e.g. "Q1" for
// `sheet "Q1"`.
func (c *Command) Param(keyword string) (string, bool) {
	for i, arg := range c.Args {
		if arg.Type == "Ident" && arg.Value == keyword && i+1 < len(c.Args) {
			return c.Args[i+1].Value, true
		}
	}
	return "", false
}

// Where formats the command position for error messages.
func (c *Command) Where() string {
	return fmt.Sprintf("%s (line %d)", c.Name, c.Pos.Line)
}

func joinRaw(parts []*Lexeme) string {
	var sb strings.Builder
	for _, p := range parts {
		sb.WriteString(p.Raw)
	}
	return sb.String()
}
