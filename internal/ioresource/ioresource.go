// Package ioresource creates HydroShare resource files in user
// workspaces. It implements resource.Creator on top of the reference file
// loader, the remote fetcher and the ODM2 mapper.
package ioresource

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/cheggaaa/pb/v3"
	"github.com/dustin/go-humanize"
	"github.com/gnames/gn"
	"github.com/gnames/gnfmt"
	"github.com/gnames/hsrc/internal/iofs"
	"github.com/gnames/hsrc/internal/ioodm2"
	"github.com/gnames/hsrc/internal/iorefts"
	"github.com/gnames/hsrc/pkg/config"
	"github.com/gnames/hsrc/pkg/refts"
	"github.com/gnames/hsrc/pkg/resource"
	"github.com/gnames/hsrc/pkg/waterml"
	"golang.org/x/sync/errgroup"
)

type creator struct {
	cfg        *config.Config
	fetcher    resource.Fetcher
	mapperOpts []ioodm2.Option
	progress   bool
}

// Option configures the creator.
type Option func(*creator)

// OptProgress shows a progress bar while series are mapped.
func OptProgress(b bool) Option {
	return func(c *creator) {
		c.progress = b
	}
}

// OptMapper passes options to the ODM2 mapper.
func OptMapper(opts ...ioodm2.Option) Option {
	return func(c *creator) {
		c.mapperOpts = append(c.mapperOpts, opts...)
	}
}

// New creates a resource.Creator that downloads series with f.
func New(
	cfg *config.Config,
	f resource.Fetcher,
	opts ...Option,
) resource.Creator {
	res := &creator{cfg: cfg, fetcher: f}
	for _, opt := range opts {
		opt(res)
	}
	return res
}

// Preview loads a reference file and fills its empty fields.
func (c *creator) Preview(req resource.Request) (*refts.File, error) {
	_, f, err := c.load(req)
	if err != nil {
		return nil, err
	}
	refts.FillMissing(f)
	return f, nil
}

// CreateRefts writes the reference file trimmed to selected series.
// An empty selection keeps all series.
func (c *creator) CreateRefts(
	_ context.Context,
	req resource.Request,
) (resource.Result, error) {
	userDir, f, err := c.load(req)
	if err != nil {
		return resource.Failed(err), err
	}

	selected := req.Selected
	if len(selected) == 0 {
		selected = make([]int, len(f.ReferencedTimeSeries))
		for i := range selected {
			selected[i] = i
		}
	}
	doc := refts.Trim(*f, selected)
	path := iofs.OutputPath(userDir, outputName(req), resource.ReftsExt)
	if err = iorefts.Write(path, doc); err != nil {
		return resource.Failed(err), err
	}

	count := len(doc.File.ReferencedTimeSeries)
	slog.Info("Created reference file", "path", path, "series", count)
	return resource.Result{
		ResType:       resource.CompositeResource,
		ResFilepath:   path,
		FileExtension: resource.ReftsExt,
		SeriesCount:   count,
	}, nil
}

// CreateODM2 fetches selected series and maps them into a new ODM2
// SQLite file. The first failed series stops the request. Series mapped
// before it stay in the file.
func (c *creator) CreateODM2(
	ctx context.Context,
	req resource.Request,
) (resource.Result, error) {
	start := time.Now()
	userDir, f, err := c.load(req)
	if err != nil {
		return resource.Failed(err), err
	}
	refts.FillMissing(f)
	series := refts.Select(*f, req.Selected)

	path := iofs.OutputPath(userDir, outputName(req), resource.ODM2Ext)
	m, err := ioodm2.Create(ctx, path, c.cfg.ODM2, c.mapperOpts...)
	if err != nil {
		return resource.Failed(err), err
	}
	defer m.Close()

	ctx, cancel := context.WithCancel(ctx)
	docs := c.prefetch(ctx, series)
	defer func() {
		cancel()
		docs.wait()
	}()

	var bar *pb.ProgressBar
	if c.progress {
		bar = pb.Full.Start(len(series))
		bar.Set("prefix", "Mapping series: ")
		bar.Set(pb.CleanOnFinish, true)
		defer bar.Finish()
	}

	var parsed []string
	for i, s := range series {
		doc, err := docs.get(ctx, i)
		if err != nil {
			return resource.Failed(err), err
		}

		in := resource.SeriesInput{
			Index:    i,
			Ref:      s,
			Doc:      doc,
			Title:    req.Title,
			Abstract: req.Abstract,
		}
		if err = m.MapSeries(ctx, in); err != nil {
			return resource.Failed(err), err
		}
		parsed = append(parsed, resource.Complete)
		if bar != nil {
			bar.Add(1)
		}
	}

	if err = m.Close(); err != nil {
		return resource.Failed(err), err
	}

	dur := time.Since(start).Seconds()
	slog.Info("Created ODM2 resource",
		"path", path,
		"series", len(parsed),
		"duration", gnfmt.TimeString(dur),
	)
	gn.Info("Mapped %s series in %s",
		humanize.Comma(int64(len(parsed))), gnfmt.TimeString(dur))

	return resource.Result{
		ResType:       resource.CompositeResource,
		ResFilepath:   path,
		FileExtension: resource.ODM2Ext,
		SeriesCount:   len(parsed),
		ParseResult:   parsed,
	}, nil
}

// load resolves the user workspace and reads the reference file.
func (c *creator) load(req resource.Request) (string, *refts.File, error) {
	userDir, err := iofs.UserDir(c.cfg.WorkspaceRoot(), req.User)
	if err != nil {
		return "", nil, err
	}
	f, err := iorefts.Load(iofs.InputPath(userDir, req.DataPath))
	if err != nil {
		return "", nil, err
	}
	return userDir, f, nil
}

// outputName returns the requested file name, or the name of the
// reference file without its extensions.
func outputName(req resource.Request) string {
	name := strings.TrimSpace(req.Filename)
	if name == "" {
		name = filepath.Base(req.DataPath)
		if i := strings.Index(name, "."); i > 0 {
			name = name[:i]
		}
	}
	for _, ext := range []string{resource.ODM2Ext, resource.ReftsExt} {
		name = strings.TrimSuffix(name, ext)
	}
	return filepath.Base(name)
}

// fetched holds documents downloaded ahead of mapping.
type fetched struct {
	docs  []*waterml.Document
	errs  []error
	ready []chan struct{}
	done  chan struct{}
}

// prefetch downloads series with up to JobsNumber concurrent requests.
// Errors are kept per series, so an error is reported only when mapping
// reaches its series.
func (c *creator) prefetch(ctx context.Context, series []refts.Series) *fetched {
	n := len(series)
	res := &fetched{
		docs:  make([]*waterml.Document, n),
		errs:  make([]error, n),
		ready: make([]chan struct{}, n),
		done:  make(chan struct{}),
	}
	for i := range res.ready {
		res.ready[i] = make(chan struct{})
	}

	var g errgroup.Group
	g.SetLimit(max(c.cfg.JobsNumber, 1))

	go func() {
		defer close(res.done)
		for i, s := range series {
			g.Go(func() error {
				defer close(res.ready[i])
				if err := ctx.Err(); err != nil {
					res.errs[i] = err
					return nil
				}
				res.docs[i], res.errs[i] = c.fetcher.Fetch(ctx, s)
				return nil
			})
		}
		_ = g.Wait()
	}()
	return res
}

// get waits for the document of series i.
func (f *fetched) get(ctx context.Context, i int) (*waterml.Document, error) {
	select {
	case <-f.ready[i]:
		return f.docs[i], f.errs[i]
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// wait blocks until all started downloads return.
func (f *fetched) wait() {
	<-f.done
}
