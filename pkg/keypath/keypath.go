// Package keypath resolves values in generic documents decoded from XML
// or JSON. A document is a tree of map[string]any, []any and scalar
// leaves. A path is a sequence of map keys and list indices.
//
// The same datum often lives at different places depending on the
// document flavor, so lookups take several candidate paths and the first
// one that resolves wins.
package keypath

import (
	"fmt"
	"runtime"
	"strconv"

	"github.com/gnames/gn"
	"github.com/gnames/hsrc/pkg/errcode"
)

// Path is a sequence of steps. A step is either a string (map key) or an
// int (list index). Negative indices count from the end of a list.
type Path []any

// P creates a Path from steps.
func P(steps ...any) Path {
	return Path(steps)
}

// String renders the path in dotted form, for messages.
func (p Path) String() string {
	var res string
	for i, v := range p {
		if i > 0 {
			res += "."
		}
		res += fmt.Sprint(v)
	}
	return res
}

// Walk follows the path from the root and returns the node at its end.
// It returns false if a key is absent, an index is out of range,
// or a step meets a node of the wrong kind.
func Walk(root any, path Path) (any, bool) {
	node := root
	for _, step := range path {
		switch v := node.(type) {
		case map[string]any:
			key, ok := step.(string)
			if !ok {
				return nil, false
			}
			if node, ok = v[key]; !ok {
				return nil, false
			}
		case []any:
			idx, ok := step.(int)
			if !ok {
				return nil, false
			}
			if idx < 0 {
				idx += len(v)
			}
			if idx < 0 || idx >= len(v) {
				return nil, false
			}
			node = v[idx]
		default:
			return nil, false
		}
	}
	return node, true
}

// First returns the value of the first path that resolves to a non-empty
// scalar. Maps, lists, nil and empty strings do not count as resolved.
func First(root any, paths ...Path) (any, bool) {
	for _, p := range paths {
		if v, ok := leaf(root, p); ok {
			return v, true
		}
	}
	return nil, false
}

// String returns the first resolved value as a string, or def if no path
// resolves. A value equal to def is treated as unresolved, so a later path
// can still provide a different value.
func String(root any, def string, paths ...Path) string {
	for _, p := range paths {
		v, ok := leaf(root, p)
		if !ok {
			continue
		}
		s := Stringify(v)
		if s == def {
			continue
		}
		return s
	}
	return def
}

// Require returns the first resolved value as a string. If no path
// resolves, it returns MissingRequiredFieldError for the given field.
func Require(root any, field string, paths ...Path) (string, error) {
	for _, p := range paths {
		if v, ok := leaf(root, p); ok {
			return Stringify(v), nil
		}
	}
	return "", MissingRequiredFieldError(field, paths)
}

// Stringify converts a scalar leaf to a string.
func Stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case bool:
		return strconv.FormatBool(t)
	default:
		return fmt.Sprint(t)
	}
}

func leaf(root any, path Path) (any, bool) {
	v, ok := Walk(root, path)
	if !ok {
		return nil, false
	}
	switch t := v.(type) {
	case nil, map[string]any, []any:
		return nil, false
	case string:
		if t == "" {
			return nil, false
		}
	}
	return v, true
}

// MissingRequiredFieldError is returned when none of the paths of
// a required field resolves.
func MissingRequiredFieldError(field string, paths []Path) error {
	msg := "Required field <em>%s</em> is missing"
	vars := []any{field}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.MissingRequiredFieldError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("from %s: no value for %s at %v",
			fn.Name(), field, paths),
	}
}
