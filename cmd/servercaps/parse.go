package main

import (
	"bufio"
	"io"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"git.sr.ht/~taiite/servercaps"
	"git.sr.ht/~taiite/servercaps/irc"
)

func newParseCmd(opts *outputOptions) *cobra.Command {
	var isupport string

	cmd := &cobra.Command{
		Use:   "parse [LINE...]",
		Short: "Parse RPL_ISUPPORT lines given as arguments or on stdin",
		Long: "Each line is either a raw IRC line such as\n" +
			"  :irc.example.org 005 me NICKLEN=30 :are supported by this server\n" +
			"or only the tokens, such as\n" +
			"  NICKLEN=30 CHANTYPES=# :are supported by this server",
		RunE: func(cmd *cobra.Command, args []string) error {
			code, err := irc.LookupNumeric(isupport)
			if err != nil {
				return err
			}
			logger, err := opts.logger()
			if err != nil {
				return err
			}
			defer logger.Sync() //nolint:errcheck

			lines := args
			if len(lines) == 0 {
				lines, err = readLines(cmd.InOrStdin())
				if err != nil {
					return err
				}
			}

			caps := parseLines(lines, code, logger)
			return opts.writeReport(cmd.OutOrStdout(), servercaps.NewReport(caps))
		},
	}
	cmd.Flags().StringVar(&isupport, "isupport", "RPL_ISUPPORT", "numeric of capability lines, by name or number")
	return cmd
}

func readLines(r io.Reader) (lines []string, err error) {
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	return lines, errors.Wrap(sc.Err(), "reading stdin")
}
