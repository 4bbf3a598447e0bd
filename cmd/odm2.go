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
	"context"

	"github.com/gnames/gn"
	"github.com/gnames/hsrc/pkg/config"
	"github.com/spf13/cobra"
)

// getODM2Cmd returns the odm2 command.
func getODM2Cmd() *cobra.Command {
	var (
		flags               requestFlags
		jobs                int
		keepLastValue       bool
		linkInsertedDataset bool
	)

	odm2Cmd := &cobra.Command{
		Use:   "odm2 FILE",
		Short: "Create an ODM2 SQLite resource from a reference file",
		Long: `Download values of referenced time series and write them to
a new ODM2 SQLite file.

This command:
  1. Reads the reference file FILE from the user workspace
  2. Downloads WaterML 1.0 or 1.1 documents of selected series
     (HydroClient archive first, then the WaterOneFlow service)
  3. Maps every series into ODM2 tables, one transaction per series
  4. Writes <name>.odm2.sqlite to the user workspace

The first failed series stops the command. Series mapped before it
stay in the file.

Examples:
  # Map all series of a reference file
  hsrc odm2 logan.json -u jane

  # Map series 0 and 2 into temperature.odm2.sqlite
  hsrc odm2 logan.json -u jane -s 0,2 -n temperature

  # Write all values and link results to their own dataset
  hsrc odm2 logan.json --keep-last-value --link-inserted-dataset`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			err := runODM2(cmd, args[0], flags, jobs, keepLastValue, linkInsertedDataset)
			if err != nil {
				gn.PrintErrorMessage(err)
			}
			return err
		},
	}

	addRequestFlags(odm2Cmd, &flags)
	addOutputFlags(odm2Cmd, &flags)
	odm2Cmd.Flags().StringVarP(
		&flags.title, "title", "t", "",
		"title of the dataset",
	)
	odm2Cmd.Flags().StringVarP(
		&flags.abstract, "abstract", "a", "",
		"abstract of the dataset",
	)
	odm2Cmd.Flags().IntVar(
		&jobs, "jobs", 0,
		"number of concurrent downloads",
	)
	odm2Cmd.Flags().BoolVar(
		&keepLastValue, "keep-last-value", false,
		"write the last value of every series",
	)
	odm2Cmd.Flags().BoolVar(
		&linkInsertedDataset, "link-inserted-dataset", false,
		"link every result to its own dataset",
	)

	return odm2Cmd
}

func runODM2(
	cmd *cobra.Command,
	path string,
	flags requestFlags,
	jobs int,
	keepLastValue bool,
	linkInsertedDataset bool,
) error {
	var odm2Opts []config.Option

	if cmd.Flags().Changed("jobs") {
		odm2Opts = append(odm2Opts, config.OptJobsNumber(jobs))
	}
	if cmd.Flags().Changed("keep-last-value") {
		odm2Opts = append(odm2Opts, config.OptODM2KeepLastValue(keepLastValue))
	}
	if cmd.Flags().Changed("link-inserted-dataset") {
		odm2Opts = append(
			odm2Opts,
			config.OptODM2LinkInsertedDataset(linkInsertedDataset),
		)
	}
	if len(odm2Opts) > 0 {
		cfg.Update(odm2Opts)
	}

	rc := newCreator(!flags.json)
	res, err := rc.CreateODM2(context.Background(), flags.request(path))
	if perr := printResult(cmd.OutOrStdout(), res, flags.json); perr != nil {
		return perr
	}
	return err
}
