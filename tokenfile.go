package pascal

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/soypat/go-pascal/token"
)

// Columns configures the widths of the token file table.
type Columns struct {
	Lexeme int
	Kind   int
	// Lines adds a third column holding the source line of each token.
	Lines bool
}

// DefaultColumns is the layout the scanner writes unless configured otherwise.
var DefaultColumns = Columns{Lexeme: 20, Kind: 25}

const tokenFileHeaderLines = 2

// WriteTokens writes toks as a token file: a two line header followed by one
// row per token with the lexeme and kind label left aligned in their columns.
func WriteTokens(w io.Writer, toks []token.Token, cols Columns) error {
	if cols.Lexeme <= 0 || cols.Kind <= 0 {
		return errors.New("token file column widths must be positive")
	}
	bw := bufio.NewWriter(w)
	var row []byte
	row = appendPadded(row, "Lexema", cols.Lexeme)
	row = appendPadded(row, "Tipo", cols.Kind)
	width := cols.Lexeme + cols.Kind
	if cols.Lines {
		row = append(row, "Linha"...)
		width += len("Linha")
	}
	row = append(row, '\n')
	row = append(row, strings.Repeat("-", width)...)
	row = append(row, '\n')
	bw.Write(row)
	for _, tok := range toks {
		if tok.IsEOF() {
			continue
		}
		row = appendPadded(row[:0], tok.Lexeme, cols.Lexeme)
		if cols.Lines {
			row = appendPadded(row, tok.Kind.String(), cols.Kind)
			row = strconv.AppendInt(row, int64(tok.Line), 10)
		} else {
			row = append(row, tok.Kind.String()...)
		}
		row = append(row, '\n')
		bw.Write(row)
	}
	return bw.Flush()
}

// appendPadded appends s left aligned in a field of width bytes, always
// leaving at least one space after s.
func appendPadded(dst []byte, s string, width int) []byte {
	dst = append(dst, s...)
	pad := width - len(s)
	if pad < 1 {
		pad = 1
	}
	for range pad {
		dst = append(dst, ' ')
	}
	return dst
}

// ReadTokens reads a token file. The first two lines are a header and are
// ignored, as are blank lines. Every other line holds a lexeme, a kind label
// and optionally the source line. Tokens without a line column are numbered
// by their row, starting at 1. read and write are returned as identifiers.
// Reading stops at an end of file marker row.
func ReadTokens(r io.Reader) ([]token.Token, error) {
	scanner := bufio.NewScanner(r)
	var toks []token.Token
	fileLine := 0
	for scanner.Scan() {
		fileLine++
		if fileLine <= tokenFileHeaderLines {
			continue
		}
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		tok, err := parseTokenRow(text, len(toks)+1)
		if err != nil {
			return toks, fmt.Errorf("token file line %d: %w", fileLine, err)
		}
		if tok.IsEOF() {
			break // End marker row.
		}
		toks = append(toks, token.Reclassify(tok))
	}
	if err := scanner.Err(); err != nil {
		return toks, err
	}
	if fileLine < tokenFileHeaderLines {
		return nil, errors.New("token file is missing its header")
	}
	return toks, nil
}

func parseTokenRow(text string, row int) (token.Token, error) {
	end := strings.IndexAny(text, " \t")
	if end < 0 {
		return token.Token{}, fmt.Errorf("row %q has no token kind", text)
	}
	lexeme := text[:end]
	rest := strings.TrimSpace(text[end:])
	for _, label := range token.Labels() {
		after, ok := strings.CutPrefix(rest, label)
		if !ok || (after != "" && after[0] != ' ' && after[0] != '\t') {
			continue
		}
		kind, _ := token.ParseKind(label)
		tok := token.Token{Lexeme: lexeme, Kind: kind, Line: row}
		after = strings.TrimSpace(after)
		if after != "" {
			line, err := strconv.Atoi(after)
			if err != nil {
				return tok, fmt.Errorf("bad line column %q: %w", after, err)
			}
			tok.Line = line
		}
		return tok, nil
	}
	return token.Token{}, fmt.Errorf("unknown token kind %q", rest)
}
