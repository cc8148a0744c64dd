package main

import (
	"fmt"
	"log/slog"

	pascal "github.com/soypat/go-pascal"
	"github.com/soypat/go-pascal/ast"
	"github.com/spf13/cobra"
)

func newCheckCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "check <file> [file...]",
		Short: "Parse and check declarations and uses",
		Long: `Parses each file and checks that every identifier is declared before use,
that no name is declared twice in one scope and that every type is known.
Stops at the first file with an error.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			for _, path := range args {
				toks, err := a.readTokens(path)
				if err != nil {
					return err
				}
				run := pascal.NewRun(a.log.With(slog.String("file", path)))
				root, err := run.Compile(toks)
				if err != nil {
					return err
				}
				fmt.Fprintln(w, a.out.ok.Render("ok"), a.out.accent.Render(path),
					a.out.muted.Render(fmt.Sprintf("(%d nodes, %d labels)", ast.Count(root), run.Labels().Len())))
			}
			return nil
		},
	}
}
