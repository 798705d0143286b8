package main

import (
	"fmt"
	"io"

	"github.com/kk-code-lab/rview/internal/logging"
	"github.com/kk-code-lab/rview/internal/source"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"
)

func newLsCmd(opts *rootOpts) *cobra.Command {
	return &cobra.Command{
		Use:   "ls [path]",
		Short: "List a directory of the repository",
		Example: `  rview ls
  rview -r golang/go ls src/net/http
  rview --local . ls internal`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := opts.openSession(cmd)
			if err != nil {
				return err
			}
			defer sess.Close()

			var path []string
			if len(args) == 1 {
				path = source.SplitPath(args[0])
			}
			listing, err := sess.src.List(sess.ctx, path)
			if err != nil && !errors.Is(err, source.ErrListingNotFound) {
				return err
			}
			listing = source.FilterHidden(listing, sess.cfg.Hide)
			return printListing(cmd.OutOrStdout(), listing)
		},
	}
}

// printListing writes listing as a table. Styling is only kept when w is a
// terminal.
func printListing(w io.Writer, listing source.Listing) error {
	if listing.IsEmpty() {
		_, err := fmt.Fprintln(w, "empty directory")
		return err
	}

	if logging.IsTerminal(w) {
		pterm.EnableStyling()
	} else {
		pterm.DisableStyling()
	}

	data := pterm.TableData{{"Type", "Name", "Size"}}
	for _, entry := range listing.Entries {
		size := "-"
		if !entry.IsDir() {
			size = source.HumanSize(entry.Size)
		}
		data = append(data, []string{entry.Kind.String(), entry.Name, size})
	}

	out, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		return errors.WithStack(err)
	}
	_, err = fmt.Fprintln(w, out)
	return err
}
