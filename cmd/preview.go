/*
Copyright © 2025 Dmitry Mozzherin <dmozzherin@gmail.com>

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in
all copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
THE SOFTWARE.
*/
package cmd

import (
	"fmt"
	"io"

	"github.com/gnames/gn"
	"github.com/gnames/gnfmt"
	"github.com/gnames/hsrc/pkg/refts"
	"github.com/spf13/cobra"
)

// getPreviewCmd returns the preview command.
func getPreviewCmd() *cobra.Command {
	var flags requestFlags

	previewCmd := &cobra.Command{
		Use:   "preview FILE",
		Short: "Show series of a reference file",
		Long: `Print series of the reference file FILE with their indices.
Indices are used by --select of odm2 and refts commands. Empty fields
are shown as N/A.

Examples:
  hsrc preview logan.json -u jane
  hsrc preview logan.json -u jane --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			err := runPreview(cmd, args[0], flags)
			if err != nil {
				gn.PrintErrorMessage(err)
			}
			return err
		},
	}

	addRequestFlags(previewCmd, &flags)
	return previewCmd
}

func runPreview(cmd *cobra.Command, path string, flags requestFlags) error {
	rc := newCreator(false)
	f, err := rc.Preview(flags.request(path))
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	if flags.json {
		enc := gnfmt.GNjson{Pretty: true}
		b, err := enc.Encode(f)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(b))
		return err
	}

	printSeries(w, f)
	return nil
}

func printSeries(w io.Writer, f *refts.File) {
	fmt.Fprintf(w, "%s\n", f.Title)
	for i, s := range f.ReferencedTimeSeries {
		fmt.Fprintf(w, "%3d  %s (%s)\n", i, s.Site.SiteCode, s.Site.SiteName)
		fmt.Fprintf(w, "     %s (%s)\n",
			s.Variable.VariableCode, s.Variable.VariableName)
		fmt.Fprintf(w, "     %s - %s, %s\n",
			s.BeginDate, s.EndDate, s.RequestInfo.ReturnType)
	}
}
