package cmd

import (
	"fmt"
	"io"

	"github.com/gnames/gnfmt"
	"github.com/gnames/hsrc/internal/iofetch"
	"github.com/gnames/hsrc/internal/ioresource"
	"github.com/gnames/hsrc/pkg/config"
	"github.com/gnames/hsrc/pkg/resource"
	"github.com/spf13/cobra"
)

// newFetcher builds the fetcher of WaterML documents. Tests replace it.
var newFetcher = func(c config.FetchConfig) resource.Fetcher {
	return iofetch.New(c)
}

// requestFlags are flags shared by commands that read a reference file.
type requestFlags struct {
	user     string
	name     string
	title    string
	abstract string
	selected []int
	json     bool
}

func addRequestFlags(cmd *cobra.Command, f *requestFlags) {
	cmd.Flags().StringVarP(
		&f.user, "user", "u", "",
		"owner of the workspace (empty = anonymous)",
	)
	cmd.Flags().BoolVarP(
		&f.json, "json", "j", false,
		"print output as JSON",
	)
}

func addOutputFlags(cmd *cobra.Command, f *requestFlags) {
	cmd.Flags().StringVarP(
		&f.name, "name", "n", "",
		"name of the created file without extension",
	)
	cmd.Flags().IntSliceVarP(
		&f.selected, "select", "s", []int{},
		"indices of series to include (empty = all)",
	)
}

func (f *requestFlags) request(path string) resource.Request {
	return resource.Request{
		User:     f.user,
		DataPath: path,
		Filename: f.name,
		Title:    f.title,
		Abstract: f.abstract,
		Selected: f.selected,
	}
}

func newCreator(progress bool) resource.Creator {
	return ioresource.New(
		cfg,
		newFetcher(cfg.Fetch),
		ioresource.OptProgress(progress),
	)
}

// printResult writes the result descriptor as text or JSON.
func printResult(w io.Writer, res resource.Result, asJSON bool) error {
	if asJSON {
		enc := gnfmt.GNjson{Pretty: true}
		b, err := enc.Encode(res)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(b))
		return err
	}

	if res.ErrorMessage != "" {
		return nil
	}
	fmt.Fprintf(w, "Resource type:  %s\n", res.ResType)
	fmt.Fprintf(w, "File:           %s\n", res.ResFilepath)
	fmt.Fprintf(w, "Extension:      %s\n", res.FileExtension)
	fmt.Fprintf(w, "Series:         %d\n", res.SeriesCount)
	return nil
}
