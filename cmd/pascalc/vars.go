package main

import (
	"fmt"
	"log/slog"
	"strings"

	pascal "github.com/soypat/go-pascal"
	"github.com/soypat/go-pascal/symbol"
	"github.com/spf13/cobra"
)

// varsFlags holds the filters of the vars command.
type varsFlags struct {
	filter   string
	category string
}

func newVarsCmd(a *app) *cobra.Command {
	var flags varsFlags
	cmd := &cobra.Command{
		Use:   "vars <file> [file...]",
		Short: "List the declarations of checked programs",
		Long: `Checks each file and prints one line per declaration:

  OWNER CATEGORY(type:name): decl=file:line

OWNER is the dotted path of the program and routines enclosing the
declaration. Nothing is printed for a file that fails to check.`,
		Example: `  pascalc vars main.pas
  pascalc vars --category variable --filter tot main.pas`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			want := symbol.CatUnknown
			if flags.category != "" {
				c, ok := symbol.ParseCategory(flags.category)
				if !ok {
					return fmt.Errorf("unknown category %q", flags.category)
				}
				want = c
			}
			for _, path := range args {
				toks, err := a.readTokens(path)
				if err != nil {
					return err
				}
				run := pascal.NewRun(a.log.With(slog.String("file", path)))
				if _, err := run.Compile(toks); err != nil {
					return err
				}
				for _, d := range run.Declarations() {
					if want != symbol.CatUnknown && d.Symbol.Category != want {
						continue
					}
					if flags.filter != "" && !strings.Contains(strings.ToLower(d.Symbol.Name), strings.ToLower(flags.filter)) {
						continue
					}
					a.printDecl(cmd, path, d)
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&flags.filter, "filter", "", "only names containing this text (case-insensitive)")
	cmd.Flags().StringVar(&flags.category, "category", "", "only declarations of this category (variable, function, procedure, type, program)")
	return cmd
}

func (a *app) printDecl(cmd *cobra.Command, path string, d pascal.Declaration) {
	owner := d.Owner
	if owner == "" {
		owner = "-"
	}
	desc := d.Symbol.Name
	if d.Symbol.Type != "" {
		desc = d.Symbol.Type + ":" + desc
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s %s(%s): decl=%s:%d\n",
		a.out.muted.Render(owner),
		a.out.accent.Render(strings.ToUpper(d.Symbol.Category.String())),
		desc, path, d.Symbol.Line)
}
