package main

import (
	"log/slog"
	"os"

	pascal "github.com/soypat/go-pascal"
	"github.com/spf13/cobra"
)

func newLexCmd(a *app) *cobra.Command {
	var (
		output string
		lines  bool
	)
	cmd := &cobra.Command{
		Use:   "lex <source.pas>",
		Short: "Scan source text into a token file",
		Long: `Scans a source file and writes the token file the parser reads:
two header lines followed by one row per token with its lexeme and kind.

Examples:
  pascalc lex prog.pas
  pascalc lex --lines -o prog.tokens prog.pas`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()
			var l pascal.Lexer
			toks, err := l.ScanAll(args[0], f)
			if err != nil {
				return err
			}
			cols := a.columns()
			if cmd.Flags().Changed("lines") {
				cols.Lines = lines
			}
			w := cmd.OutOrStdout()
			if output != "" {
				out, cerr := os.Create(output)
				if cerr != nil {
					return cerr
				}
				defer func() {
					if cerr := out.Close(); err == nil {
						err = cerr
					}
				}()
				w = out
			}
			a.log.Info("scanned", slog.String("file", args[0]), slog.Int("tokens", len(toks)))
			return pascal.WriteTokens(w, toks, cols)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "write the token file here instead of stdout")
	cmd.Flags().BoolVar(&lines, "lines", false, "add a column with the source line of each token")
	return cmd
}
