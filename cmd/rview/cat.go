package main

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/kk-code-lab/rview/internal/logging"
	"github.com/kk-code-lab/rview/internal/preview"
	"github.com/kk-code-lab/rview/internal/source"
	"github.com/kk-code-lab/rview/internal/textutil"
	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"
)

func newCatCmd(opts *rootOpts) *cobra.Command {
	var asHTML bool

	cmd := &cobra.Command{
		Use:   "cat <path>",
		Short: "Print a file the way the preview pane shows it",
		Example: `  rview cat README.md
  rview -r golang/go cat src/fmt/print.go
  rview cat --html docs/guide.md`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := opts.openSession(cmd)
			if err != nil {
				return err
			}
			defer sess.Close()

			entry, err := lookupFile(sess, source.SplitPath(args[0]))
			if err != nil {
				return err
			}
			_, rendered, err := preview.NewResolver().Load(sess.ctx, sess.src, entry)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asHTML {
				if rendered.Document == nil {
					return errors.Errorf("--html needs a markdown file, %s is %s", entry.Name, rendered.Mode)
				}
				html, err := rendered.Document.HTML()
				if err != nil {
					return err
				}
				_, err = io.WriteString(out, html)
				return err
			}
			return printLines(out, rendered.Lines(), logging.IsTerminal(out))
		},
	}

	cmd.Flags().BoolVar(&asHTML, "html", false, "print markdown rendered as HTML")
	return cmd
}

// lookupFile resolves path to a file entry through its parent listing.
func lookupFile(sess *session, path []string) (source.Entry, error) {
	if len(path) == 0 {
		return source.Entry{}, errors.New("no file given")
	}
	parent, name := path[:len(path)-1], path[len(path)-1]
	listing, err := sess.src.List(sess.ctx, parent)
	if err != nil {
		return source.Entry{}, err
	}
	entry, ok := listing.Lookup(name)
	if !ok {
		return source.Entry{}, source.NotFoundError(path)
	}
	if entry.IsDir() {
		return source.Entry{}, errors.Errorf("%s is a directory", source.JoinPath(path))
	}
	return entry, nil
}

var (
	segmentColors = map[preview.Style]*color.Color{
		preview.StyleEmphasis:   color.New(color.Italic),
		preview.StyleStrong:     color.New(color.Bold),
		preview.StyleStrike:     color.New(color.CrossedOut),
		preview.StyleCode:       color.New(color.FgYellow),
		preview.StyleCodeBlock:  color.New(color.FgYellow),
		preview.StyleLink:       color.New(color.FgBlue, color.Underline),
		preview.StyleHeading:    color.New(color.FgCyan, color.Bold),
		preview.StyleRule:       color.New(color.Faint),
		preview.StyleQuote:      color.New(color.FgGreen, color.Italic),
		preview.StyleHTML:       color.New(color.FgMagenta),
		preview.StyleLineNumber: color.New(color.Faint),
	}
	tokenColors = map[preview.TokenClass]*color.Color{
		preview.ClassKeyword:  color.New(color.FgMagenta, color.Bold),
		preview.ClassName:     color.New(color.FgCyan),
		preview.ClassString:   color.New(color.FgGreen),
		preview.ClassNumber:   color.New(color.FgYellow),
		preview.ClassLiteral:  color.New(color.FgYellow),
		preview.ClassOperator: color.New(color.FgHiWhite),
		preview.ClassComment:  color.New(color.FgHiBlack, color.Italic),
		preview.ClassGeneric:  color.New(color.FgBlue),
		preview.ClassError:    color.New(color.FgRed),
	}
)

// printLines writes styled lines to w. On a terminal segments are colored and
// control characters from the file are neutralised; otherwise the text is
// written as is.
func printLines(w io.Writer, lines [][]preview.Segment, terminal bool) error {
	for _, line := range lines {
		for _, seg := range line {
			if !terminal {
				if _, err := io.WriteString(w, seg.Text); err != nil {
					return errors.WithStack(err)
				}
				continue
			}
			text := textutil.SanitizeTerminalText(seg.Text)
			c := colorFor(seg)
			if c == nil {
				if _, err := io.WriteString(w, text); err != nil {
					return errors.WithStack(err)
				}
				continue
			}
			c.EnableColor()
			if _, err := c.Fprint(w, text); err != nil {
				return errors.WithStack(err)
			}
		}
		if _, err := fmt.Fprintln(w); err != nil {
			return errors.WithStack(err)
		}
	}
	return nil
}

func colorFor(seg preview.Segment) *color.Color {
	if seg.Style == preview.StyleToken {
		return tokenColors[preview.ClassOf(seg.Token)]
	}
	return segmentColors[seg.Style]
}
