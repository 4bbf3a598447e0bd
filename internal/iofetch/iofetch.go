// Package iofetch downloads WaterML documents of referenced time series
// from WaterOneFlow services. It implements resource.Fetcher.
//
// A series is looked up in the HydroClient archive first when it has
// a WofUri. Otherwise services listed as raw SOAP providers get
// a GetValuesObject request, and all other services are called through
// their WSDL description.
package iofetch

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/gnames/hsrc/pkg/config"
	"github.com/gnames/hsrc/pkg/refts"
	"github.com/gnames/hsrc/pkg/resource"
	"github.com/gnames/hsrc/pkg/waterml"
	"github.com/sethgrid/pester"
)

type fetcher struct {
	cfg    config.FetchConfig
	client *pester.Client

	mu       sync.Mutex
	services map[string]*service
}

// Option configures the fetcher.
type Option func(*fetcher)

// OptHTTPClient sets the HTTP client under the retry logic.
func OptHTTPClient(hc *http.Client) Option {
	return func(f *fetcher) {
		client := pester.NewExtendedClient(hc)
		client.Backoff = f.client.Backoff
		client.MaxRetries = f.client.MaxRetries
		client.Timeout = f.client.Timeout
		f.client = client
	}
}

// New creates a Fetcher with settings from cfg.
func New(cfg config.FetchConfig, opts ...Option) resource.Fetcher {
	client := pester.New()
	client.Backoff = pester.ExponentialBackoff
	client.MaxRetries = max(cfg.MaxRetries, 1)
	client.Timeout = time.Duration(cfg.Timeout) * time.Second

	res := &fetcher{
		cfg:      cfg,
		client:   client,
		services: make(map[string]*service),
	}
	for _, opt := range opts {
		opt(res)
	}
	return res
}

// Fetch returns the WaterML document of a series.
func (f *fetcher) Fetch(
	ctx context.Context,
	s refts.Series,
) (*waterml.Document, error) {
	srvURL := s.RequestInfo.URL

	if s.WofParams != nil && s.WofParams.WofURI != "" &&
		f.cfg.ArchiveURL != "" {
		doc, err := f.fetchArchive(ctx, s.WofParams.WofURI)
		if err == nil {
			return doc, nil
		}
		slog.Warn("Archive download failed, calling the service",
			"wof_uri", s.WofParams.WofURI, "error", err)
	}

	if err := checkURL(srvURL); err != nil {
		return nil, RemoteFetchError(srvURL, err)
	}

	q := query{
		Location:  s.Site.SiteCode,
		Variable:  s.Variable.VariableCode,
		StartDate: s.BeginDate,
		EndDate:   s.EndDate,
	}

	var doc *waterml.Document
	var err error
	if f.isRawSOAP(srvURL) {
		doc, err = f.fetchValuesObject(ctx, srvURL, q)
	} else {
		doc, err = f.fetchValues(ctx, srvURL, q)
	}
	if err != nil {
		return nil, RemoteFetchError(srvURL, err)
	}
	slog.Debug("Fetched series",
		"url", srvURL, "site", q.Location, "variable", q.Variable)
	return doc, nil
}

func (f *fetcher) isRawSOAP(srvURL string) bool {
	for _, v := range f.cfg.RawSOAPProviders {
		if strings.Contains(srvURL, v) {
			return true
		}
	}
	return false
}

func checkURL(s string) error {
	u, err := url.Parse(s)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidURL, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: %s", ErrInvalidURL, s)
	}
	return nil
}

// get performs a GET request and returns the body of a 200 response.
func (f *fetcher) get(ctx context.Context, u string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidURL, err)
	}
	return f.do(req)
}

// post sends a SOAP envelope. Empty action omits the SOAPAction header.
func (f *fetcher) post(
	ctx context.Context,
	u, action string,
	body []byte,
) ([]byte, error) {
	req, err := http.NewRequestWithContext(
		ctx, http.MethodPost, u, bytes.NewReader(body),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidURL, err)
	}
	req.Header.Set("Content-Type", "text/xml; charset=utf-8")
	if action != "" {
		req.Header.Set("SOAPAction", `"`+action+`"`)
	}
	return f.do(req)
}

func (f *fetcher) do(req *http.Request) ([]byte, error) {
	if err := req.Context().Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnexpected, err)
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrURLNotFound, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnexpected, err)
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("%w: %s", ErrURLNotFound, req.URL)
	case resp.StatusCode == http.StatusInternalServerError &&
		req.Method == http.MethodPost:
		// SOAP faults come with status 500
		return body, nil
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("%w: status %d from %s",
			ErrUnexpected, resp.StatusCode, req.URL)
	}
	return body, nil
}
