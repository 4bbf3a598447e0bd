package iofetch

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/url"

	"github.com/gnames/hsrc/pkg/waterml"
	"github.com/klauspost/compress/zip"
)

// fetchArchive downloads the zipped response of a series from the
// HydroClient archive and parses the first file of the archive.
func (f *fetcher) fetchArchive(
	ctx context.Context,
	wofURI string,
) (*waterml.Document, error) {
	u, err := url.JoinPath(f.cfg.ArchiveURL, wofURI, "zip")
	if err != nil {
		return nil, err
	}

	body, err := f.get(ctx, u)
	if err != nil {
		return nil, err
	}

	zr, err := zip.NewReader(bytes.NewReader(body), int64(len(body)))
	if err != nil {
		return nil, err
	}
	if len(zr.File) == 0 {
		return nil, errors.New("empty archive")
	}

	r, err := zr.File[0].Open()
	if err != nil {
		return nil, err
	}
	defer r.Close()

	xml, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return waterml.ParseBytes(xml)
}
