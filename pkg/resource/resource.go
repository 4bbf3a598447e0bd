// Package resource defines requests, results and the contracts of
// components that turn reference time series files into HydroShare
// resource files.
package resource

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"github.com/gnames/gn"
	"github.com/gnames/hsrc/pkg/refts"
	"github.com/gnames/hsrc/pkg/waterml"
)

const (
	// CompositeResource is the HydroShare type of created resources.
	CompositeResource = "CompositeResource"

	// ODM2Ext is the file extension of ODM2 SQLite resources.
	ODM2Ext = ".odm2.sqlite"

	// ReftsExt is the file extension of trimmed reference files.
	ReftsExt = ".refts.json"

	// Complete marks a series that was mapped successfully.
	Complete = "Complete"
)

// Request describes one resource creation.
type Request struct {
	// User owns the workspace where files are read and written.
	User string

	// DataPath is the path of the reference file.
	DataPath string

	// Filename is the base name of the created file, without extension.
	Filename string

	// Title and Abstract describe the dataset of an ODM2 resource.
	Title    string
	Abstract string

	// Selected are indices of series to include. Empty means all series.
	Selected []int
}

// Result describes a created resource. On failure only ErrorMessage is
// set.
type Result struct {
	ResType       string   `json:"res_type,omitempty"`
	ResFilepath   string   `json:"res_filepath,omitempty"`
	FileExtension string   `json:"file_extension,omitempty"`
	SeriesCount   int      `json:"series_count,omitempty"`
	ParseResult   []string `json:"parse_result,omitempty"`
	ErrorMessage  string   `json:"error_message,omitempty"`
}

// markup matches tags that gn uses to color terminal messages.
var markup = regexp.MustCompile(`</?[a-z]+>`)

// Failed returns a Result that carries only the error message. For
// a *gn.Error the message is the user-facing one, without markup.
func Failed(err error) Result {
	if err == nil {
		return Result{}
	}

	var gnErr *gn.Error
	if !errors.As(err, &gnErr) {
		return Result{ErrorMessage: err.Error()}
	}

	msg := gnErr.Msg
	if len(gnErr.Vars) > 0 {
		msg = fmt.Sprintf(msg, gnErr.Vars...)
	}
	return Result{ErrorMessage: markup.ReplaceAllString(msg, "")}
}

// SeriesInput is everything needed to map one series.
type SeriesInput struct {
	// Index is the position of the series in the request.
	Index int

	// Ref is the reference file entry of the series.
	Ref refts.Series

	// Doc is the WaterML response fetched for the series.
	Doc *waterml.Document

	// Title and Abstract describe the dataset.
	Title    string
	Abstract string
}

// Fetcher downloads WaterML documents of referenced series.
type Fetcher interface {
	// Fetch returns the WaterML document of a series.
	Fetch(ctx context.Context, s refts.Series) (*waterml.Document, error)
}

// Mapper writes series to an ODM2 database.
type Mapper interface {
	// MapSeries writes all rows of one series in one transaction.
	MapSeries(ctx context.Context, in SeriesInput) error

	// Close releases the database.
	Close() error
}

// Creator makes resource files from reference files.
type Creator interface {
	// CreateODM2 fetches values of selected series and writes them to
	// a new ODM2 SQLite file.
	CreateODM2(ctx context.Context, req Request) (Result, error)

	// CreateRefts writes a reference file trimmed to selected series.
	CreateRefts(ctx context.Context, req Request) (Result, error)

	// Preview loads a reference file for display.
	Preview(req Request) (*refts.File, error)
}
