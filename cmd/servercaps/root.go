package main

import (
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"

	"git.sr.ht/~taiite/servercaps"
)

type outputOptions struct {
	debug   bool
	width   int
	noColor bool
}

func newRootCmd() *cobra.Command {
	opts := &outputOptions{}

	cmd := &cobra.Command{
		Use:           "servercaps",
		Short:         "Show what an IRC server supports, from its RPL_ISUPPORT replies",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().BoolVar(&opts.debug, "debug", false, "log protocol traffic and parsing to stderr")
	cmd.PersistentFlags().IntVar(&opts.width, "width", -1, "maximum line width, 0 for unlimited (default: terminal width)")
	cmd.PersistentFlags().BoolVar(&opts.noColor, "no-color", false, "disable colors")

	cmd.AddCommand(newParseCmd(opts))
	cmd.AddCommand(newProbeCmd(opts))
	return cmd
}

func (opts *outputOptions) logger() (*zap.Logger, error) {
	if !opts.debug {
		return zap.NewNop(), nil
	}
	return zap.NewDevelopment()
}

// writeReport renders the report, fitted to the terminal when out is one.
func (opts *outputOptions) writeReport(out io.Writer, report *servercaps.Report) error {
	width := opts.width
	colored := false
	if f, ok := out.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		colored = !opts.noColor
		if width < 0 {
			if w, _, err := term.GetSize(int(f.Fd())); err == nil {
				width = w
			}
		}
	}
	if width < 0 {
		width = 0
	}

	_, err := report.Table(width, colored).WriteTo(out)
	return err
}
