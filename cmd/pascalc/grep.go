package main

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"regexp"

	pascal "github.com/soypat/go-pascal"
	"github.com/spf13/cobra"
)

// errNoMatch makes grep exit with status 1 without a diagnostic.
var errNoMatch = errors.New("no match")

type grepFlags struct {
	ignoreCase bool
	codeOnly   bool
	filesOnly  bool
	context    int
}

func newGrepCmd(a *app) *cobra.Command {
	var flags grepFlags
	cmd := &cobra.Command{
		Use:   "grep <pattern> <file.pas> [file.pas...]",
		Short: "Search source files line by line",
		Long: `Prints the lines of each file matching the regular expression pattern,
prefixed by their line number. With --code, lines holding no token (blank
lines and lines inside comments) are skipped. Exits with status 1 when
nothing matched.`,
		Example: `  pascalc grep -i 'goto' prog.pas
  pascalc grep --code -C 1 total prog.pas`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			pattern := args[0]
			if flags.ignoreCase {
				pattern = "(?i)" + pattern
			}
			re, err := regexp.Compile(pattern)
			if err != nil {
				return fmt.Errorf("invalid pattern: %w", err)
			}
			files := args[1:]
			matched := false
			for _, path := range files {
				ok, err := a.grepFile(cmd.OutOrStdout(), path, re, flags, len(files) > 1)
				if err != nil {
					return err
				}
				matched = matched || ok
			}
			if !matched {
				return errNoMatch
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&flags.ignoreCase, "ignore-case", "i", false, "case-insensitive matching")
	cmd.Flags().BoolVarP(&flags.codeOnly, "code", "c", false, "skip lines without tokens")
	cmd.Flags().BoolVarP(&flags.filesOnly, "files-with-matches", "l", false, "only print names of files with matches")
	cmd.Flags().IntVarP(&flags.context, "context", "C", 0, "print num lines of context around matches")
	return cmd
}

// sourceLine is one line of a searched file.
type sourceLine struct {
	num  int
	text string
	code bool // line holds at least one token
}

func readSourceLines(path string, content []byte, lexLines bool) ([]sourceLine, error) {
	var lines []sourceLine
	scanner := bufio.NewScanner(bytes.NewReader(content))
	for scanner.Scan() {
		lines = append(lines, sourceLine{num: len(lines) + 1, text: scanner.Text()})
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if !lexLines {
		return lines, nil
	}
	var l pascal.Lexer
	toks, err := l.ScanAll(path, bytes.NewReader(content))
	if err != nil {
		return nil, err
	}
	for _, tok := range toks {
		if tok.Line >= 1 && tok.Line <= len(lines) {
			lines[tok.Line-1].code = true
		}
	}
	return lines, nil
}

func (a *app) grepFile(w io.Writer, path string, re *regexp.Regexp, flags grepFlags, showName bool) (bool, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return false, err
	}
	lines, err := readSourceLines(path, content, flags.codeOnly)
	if err != nil {
		return false, err
	}
	var matches []int
	for i, ln := range lines {
		if flags.codeOnly && !ln.code {
			continue
		}
		if re.MatchString(ln.text) {
			matches = append(matches, i)
		}
	}
	if len(matches) == 0 {
		return false, nil
	}
	if flags.filesOnly {
		fmt.Fprintln(w, a.out.accent.Render(path))
		return true, nil
	}

	isMatch := make(map[int]bool, len(matches))
	shown := make(map[int]bool)
	for _, m := range matches {
		isMatch[m] = true
		for j := max(0, m-flags.context); j <= min(len(lines)-1, m+flags.context); j++ {
			shown[j] = true
		}
	}
	prefix := ""
	if showName {
		prefix = a.out.accent.Render(path) + ":"
	}
	last := -1
	for i, ln := range lines {
		if !shown[i] {
			continue
		}
		if last >= 0 && i > last+1 {
			fmt.Fprintln(w, a.out.muted.Render("--"))
		}
		last = i
		sep := "-"
		if isMatch[i] {
			sep = ":"
		}
		fmt.Fprintf(w, "%s%d%s%s\n", prefix, ln.num, sep, ln.text)
	}
	a.log.Debug("grep", slog.String("file", path), slog.Int("matches", len(matches)))
	return true, nil
}
