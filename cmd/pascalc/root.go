package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	pascal "github.com/soypat/go-pascal"
	"github.com/soypat/go-pascal/config"
	"github.com/soypat/go-pascal/token"
	"github.com/spf13/cobra"
)

const (
	exitOK      = 0
	exitCompile = 1
	exitUsage   = 2
	exitNoMatch = 1 // grep found nothing
)

// app is the state shared by the subcommands of one invocation.
type app struct {
	cfgFile string
	verbose bool
	cfg     *config.Config
	log     *slog.Logger
	out     styles
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "pascalc",
		Short: "Parser and semantic checker for a small Pascal dialect",
		Long: `pascalc is the front end of a compiler for a small teaching dialect of Pascal.

Commands:
  lex    - scan source text into a token file
  parse  - parse a program and dump its syntax tree
  check  - parse and check declarations and uses
  vars   - list the declarations of a checked program
  grep   - search source lines, optionally skipping comments

Source files (.pas) are scanned first, any other file is read as a token file.`,
		SilenceErrors:     true,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
	}
	root.PersistentFlags().StringVar(&a.cfgFile, "config", "", "config file (default: $"+config.EnvVar+" or ./pascalc.toml)")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "debug logging")
	root.AddCommand(newLexCmd(a), newParseCmd(a), newCheckCmd(a), newVarsCmd(a), newGrepCmd(a))
	return root
}

// execute runs the command line args and returns the process exit status.
func execute(args []string, stdout, stderr io.Writer) int {
	a := &app{}
	root := newRootCmd(a)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)
	err := root.Execute()
	if err == nil {
		return exitOK
	} else if errors.Is(err, errNoMatch) {
		return exitNoMatch
	}
	color := a.cfg == nil || a.cfg.ColorEnabled()
	newStyles(stderr, color).report(stderr, err)
	return exitCode(err)
}

func (a *app) setup(cmd *cobra.Command, args []string) error {
	var err error
	if a.cfgFile != "" {
		a.cfg, err = config.Load(a.cfgFile)
	} else {
		a.cfg, err = config.LoadFromEnv()
	}
	if err != nil {
		return err
	}
	if a.verbose {
		a.cfg.Log.Level = "debug"
	}
	a.log, err = newLogger(cmd.ErrOrStderr(), a.cfg)
	if err != nil {
		return err
	}
	a.out = newStyles(cmd.OutOrStdout(), a.cfg.ColorEnabled())
	a.log.Debug("config loaded", slog.String("path", a.cfg.Path()), slog.String("command", cmd.Name()))
	return nil
}

func newLogger(w io.Writer, cfg *config.Config) (*slog.Logger, error) {
	lvl, err := cfg.SlogLevel()
	if err != nil {
		return nil, err
	}
	opts := &slog.HandlerOptions{Level: lvl}
	var h slog.Handler
	if cfg.Log.Format == "json" {
		h = slog.NewJSONHandler(w, opts)
	} else {
		h = slog.NewTextHandler(w, opts)
	}
	return slog.New(h), nil
}

// columns returns the configured token file layout.
func (a *app) columns() pascal.Columns {
	return pascal.Columns{
		Lexeme: a.cfg.Tokens.LexemeWidth,
		Kind:   a.cfg.Tokens.KindWidth,
		Lines:  a.cfg.Tokens.Lines,
	}
}

// readTokens scans path if it is a source file and reads it as a token file otherwise.
func (a *app) readTokens(path string) ([]token.Token, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var toks []token.Token
	if strings.EqualFold(filepath.Ext(path), ".pas") {
		var l pascal.Lexer
		toks, err = l.ScanAll(path, f)
	} else {
		toks, err = pascal.ReadTokens(f)
		if err != nil {
			err = fmt.Errorf("%s: %w", path, err)
		}
	}
	if err != nil {
		return nil, err
	}
	a.log.Debug("tokens read", slog.String("file", path), slog.Int("tokens", len(toks)))
	return toks, nil
}

// isCompileError reports whether err is a diagnostic about the program itself.
func isCompileError(err error) bool {
	var syn *pascal.SyntaxError
	var sem *pascal.SemanticError
	var scan *pascal.ScanError
	return errors.As(err, &syn) || errors.As(err, &sem) || errors.As(err, &scan)
}

func exitCode(err error) int {
	switch {
	case err == nil:
		return exitOK
	case isCompileError(err):
		return exitCompile
	}
	return exitUsage
}
