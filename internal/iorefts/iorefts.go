// Package iorefts reads and writes reference time series files.
package iorefts

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"

	"github.com/gnames/gnfmt"
	"github.com/gnames/hsrc/internal/iofs"
	"github.com/gnames/hsrc/pkg/refts"
	"github.com/tidwall/gjson"
)

const (
	fileKey   = "timeSeriesReferenceFile"
	seriesKey = "referencedTimeSeries"
)

// Load reads a reference file. The file can use single quotes instead of
// double quotes, and its timeSeriesReferenceFile can be an object or
// a JSON string with the object inside.
func Load(path string) (*refts.File, error) {
	b, err := iofs.ReadFile(path)
	if err != nil {
		return nil, err
	}
	res, err := Parse(b)
	if err != nil {
		return nil, err
	}
	slog.Info("Loaded reference file",
		"path", path, "series", len(res.ReferencedTimeSeries))
	return res, nil
}

// Parse decodes the content of a reference file.
func Parse(b []byte) (*refts.File, error) {
	if !gjson.ValidBytes(b) {
		b = bytes.ReplaceAll(b, []byte("'"), []byte(`"`))
		if !gjson.ValidBytes(b) {
			return nil, ReftsParseError(errors.New("invalid JSON"))
		}
	}

	node := gjson.GetBytes(b, fileKey)
	var raw []byte
	switch {
	case node.Type == gjson.String:
		raw = []byte(node.String())
		if !gjson.ValidBytes(raw) {
			err := fmt.Errorf("%s is a string without JSON", fileKey)
			return nil, ReftsParseError(err)
		}
	case node.IsObject():
		raw = []byte(node.Raw)
	default:
		return nil, ReftsParseError(fmt.Errorf("no %s object", fileKey))
	}

	if !gjson.GetBytes(raw, seriesKey).IsArray() {
		return nil, ReftsNoSeriesError()
	}

	var res refts.File
	enc := gnfmt.GNjson{}
	if err := enc.Decode(raw, &res); err != nil {
		return nil, ReftsParseError(err)
	}
	return &res, nil
}

// Write saves a trimmed reference document as pretty JSON.
func Write(path string, doc refts.Document) error {
	enc := gnfmt.GNjson{Pretty: true}
	b, err := enc.Encode(doc)
	if err != nil {
		return iofs.WriteFileError(path, err)
	}
	return iofs.WriteFile(path, b)
}
