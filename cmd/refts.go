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
	"github.com/spf13/cobra"
)

// getReftsCmd returns the refts command.
func getReftsCmd() *cobra.Command {
	var flags requestFlags

	reftsCmd := &cobra.Command{
		Use:   "refts FILE",
		Short: "Create a trimmed reference file resource",
		Long: `Write the reference file FILE trimmed to selected series as
<name>.refts.json to the user workspace. Nothing is downloaded.

Examples:
  # Keep series 1 and 3
  hsrc refts logan.json -u jane -s 1,3 -n logan-subset`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			err := runRefts(cmd, args[0], flags)
			if err != nil {
				gn.PrintErrorMessage(err)
			}
			return err
		},
	}

	addRequestFlags(reftsCmd, &flags)
	addOutputFlags(reftsCmd, &flags)
	return reftsCmd
}

func runRefts(cmd *cobra.Command, path string, flags requestFlags) error {
	rc := newCreator(false)
	res, err := rc.CreateRefts(context.Background(), flags.request(path))
	if perr := printResult(cmd.OutOrStdout(), res, flags.json); perr != nil {
		return perr
	}
	return err
}
