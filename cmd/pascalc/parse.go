package main

import (
	"fmt"

	pascal "github.com/soypat/go-pascal"
	"github.com/soypat/go-pascal/ast"
	"github.com/spf13/cobra"
)

func newParseCmd(a *app) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "parse <file>",
		Short: "Parse a program and dump its syntax tree",
		Long: `Parses a source or token file and writes its syntax tree.

Formats:
  tree  - one node per line, indented by depth
  yaml  - structured YAML document`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("format") {
				format = a.cfg.Dump.Format
			}
			toks, err := a.readTokens(args[0])
			if err != nil {
				return err
			}
			root, err := pascal.NewRun(a.log).Parse(toks)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			switch format {
			case "tree":
				return ast.Fprint(w, root)
			case "yaml":
				return ast.EncodeYAML(w, root)
			}
			return fmt.Errorf("unknown dump format %q", format)
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "tree", "dump format: tree or yaml")
	return cmd
}
