// Package waterml reads WaterML 1.0 and 1.1 time series documents.
//
// XML is converted to a generic tree of maps and lists. Element names
// lose their namespace prefix, attributes get an "@" prefix and element
// text with attributes is kept under "#text". Version differences are
// described by Descriptor values, so the rest of the code reads both
// versions the same way.
package waterml

import (
	"bytes"
	"fmt"
	"io"
	"runtime"

	"github.com/clbanning/mxj/v2"
	"github.com/gnames/gn"
	"github.com/gnames/hsrc/pkg/errcode"
	"golang.org/x/text/encoding/htmlindex"
)

// RootNode is the local name of the WaterML response element.
const RootNode = "timeSeriesResponse"

func init() {
	mxj.SetAttrPrefix("@")
	mxj.XmlCharsetReader = charsetReader
}

// Document is a parsed WaterML response.
type Document struct {
	// Root is the timeSeriesResponse node.
	Root map[string]any
}

// Parse converts WaterML XML into a Document. The response element can
// be the document root or be nested inside a SOAP envelope.
func Parse(r io.Reader) (*Document, error) {
	m, err := mxj.NewMapXmlReader(r)
	if err != nil {
		return nil, WaterMLParseError(err)
	}

	root, ok := findNode(map[string]any(m), RootNode)
	if !ok {
		err = fmt.Errorf("element %s not found", RootNode)
		return nil, WaterMLParseError(err)
	}
	return &Document{Root: root}, nil
}

// ParseBytes is a convenience wrapper around Parse.
func ParseBytes(b []byte) (*Document, error) {
	return Parse(bytes.NewReader(b))
}

// findNode does a depth-first search for a map stored under the
// given key.
func findNode(node any, name string) (map[string]any, bool) {
	switch v := node.(type) {
	case map[string]any:
		if res, ok := v[name].(map[string]any); ok {
			return res, true
		}
		for _, child := range v {
			if res, ok := findNode(child, name); ok {
				return res, true
			}
		}
	case []any:
		for _, child := range v {
			if res, ok := findNode(child, name); ok {
				return res, true
			}
		}
	}
	return nil, false
}

func charsetReader(charset string, input io.Reader) (io.Reader, error) {
	enc, err := htmlindex.Get(charset)
	if err != nil {
		return nil, err
	}
	return enc.NewDecoder().Reader(input), nil
}

// WaterMLParseError is returned when a payload is not a WaterML
// response.
func WaterMLParseError(err error) error {
	msg := "Cannot parse WaterML document"
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.WaterMLParseError,
		Msg:  msg,
		Err:  fmt.Errorf("from %s: %w", fn.Name(), err),
	}
}
