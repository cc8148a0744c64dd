package pascal

import (
	"bufio"
	"errors"
	"io"

	"github.com/soypat/go-pascal/token"
)

const eof = -1

// Lexer turns Pascal source text into the classified token stream the parser
// consumes. Comments in braces, (* *) and // form as well as single quoted
// string literals are skipped and never produce tokens.
type Lexer struct {
	input bufio.Reader
	ch    int // current byte, eof at end of input.
	peek  int // next byte.
	err   error
	buf   []byte // word accumulation buffer.

	source    string // filename or source name.
	line      int    // line of current char.
	col       int    // column of current char, 1 based.
	tokenLine int
	tokenCol  int
}

// Reset discards all state and begins scanning r.
func (l *Lexer) Reset(source string, r io.Reader) error {
	if r == nil {
		return errors.New("nil reader")
	} else if source == "" {
		return errors.New("no source name")
	}
	*l = Lexer{
		input:  l.input,
		buf:    l.buf[:0],
		source: source,
		line:   1,
		col:    -1,
	}
	l.input.Reset(r)
	// Fill up peek and current character.
	l.next()
	l.next()
	return l.err
}

// Source returns the name the lexer was reset with.
func (l *Lexer) Source() string { return l.source }

// Err returns the first scanning or read error.
func (l *Lexer) Err() error { return l.err }

// TokenLineCol returns the line/col where the last returned token started.
func (l *Lexer) TokenLineCol() (line, col int) {
	return l.tokenLine, l.tokenCol
}

// NextToken scans the next token. Once the input is exhausted or an error
// occurred it returns [token.EOFToken]; check [Lexer.Err] afterwards.
func (l *Lexer) NextToken() token.Token {
	if l.source == "" {
		l.err = errors.New("lexer uninitialized")
		return token.EOFToken
	}
	l.skipIgnored()
	if l.err != nil || l.ch == eof {
		return token.EOFToken
	}
	l.tokenLine, l.tokenCol = l.line, l.col
	c := byte(l.ch)
	if token.IsSymbolChar(c) {
		if l.peek != eof {
			pair := string([]byte{c, byte(l.peek)})
			if token.IsComposite(pair) {
				l.next()
				l.next()
				return token.Token{Lexeme: pair, Kind: token.CompositeSymbol, Line: l.tokenLine}
			}
		}
		l.next()
		return token.Token{Lexeme: string(c), Kind: token.SimpleSymbol, Line: l.tokenLine}
	}
	l.buf = l.buf[:0]
	for l.ch != eof && !isSpace(l.ch) && l.ch != '\'' && !token.IsSymbolChar(byte(l.ch)) {
		l.buf = append(l.buf, byte(l.ch))
		l.next()
	}
	word := string(l.buf)
	kind := token.LookupWord(word)
	if kind == token.Undefined {
		l.fail("invalid word " + word)
		return token.EOFToken
	}
	return token.Token{Lexeme: word, Kind: kind, Line: l.tokenLine}
}

// ScanAll scans r to the end and returns all tokens, EOF excluded.
func (l *Lexer) ScanAll(source string, r io.Reader) ([]token.Token, error) {
	err := l.Reset(source, r)
	if err != nil {
		return nil, err
	}
	var toks []token.Token
	for {
		tok := l.NextToken()
		if tok.IsEOF() {
			break
		}
		toks = append(toks, tok)
	}
	return toks, l.err
}

func (l *Lexer) skipIgnored() {
	for l.err == nil {
		switch {
		case isSpace(l.ch):
			l.next()
		case l.ch == '{':
			l.skipComment("}")
		case l.ch == '(' && l.peek == '*':
			l.skipComment("*)")
		case l.ch == '/' && l.peek == '/':
			for l.ch != '\n' && l.ch != eof {
				l.next()
			}
		case l.ch == '\'':
			l.skipString()
		default:
			return
		}
	}
}

// skipComment skips a comment whose opener starts at the current char up to
// and including the closer. Comments may span lines.
func (l *Lexer) skipComment(closer string) {
	line, col := l.line, l.col
	// Skip opener. Both openers are as long as their closer.
	for range closer {
		l.next()
	}
	for l.ch != eof {
		if l.ch == int(closer[0]) && (len(closer) == 1 || l.peek == int(closer[1])) {
			for range closer {
				l.next()
			}
			return
		}
		l.next()
	}
	l.tokenLine, l.tokenCol = line, col
	l.fail("unterminated comment, missing " + closer)
}

func (l *Lexer) skipString() {
	line, col := l.line, l.col
	l.next()
	for l.ch != '\'' {
		if l.ch == eof || l.ch == '\n' {
			l.tokenLine, l.tokenCol = line, col
			l.fail("unterminated string literal")
			return
		}
		l.next()
	}
	l.next()
}

func (l *Lexer) next() {
	if l.ch == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
	l.ch = l.peek
	if l.peek == eof {
		return
	}
	b, err := l.input.ReadByte()
	if err != nil {
		if err != io.EOF && l.err == nil {
			l.err = err
		}
		l.peek = eof
		return
	}
	l.peek = int(b)
}

func (l *Lexer) fail(msg string) {
	if l.err == nil {
		l.err = &ScanError{
			sp:  sourcePos{Source: l.source, Line: l.tokenLine, Col: l.tokenCol},
			msg: msg,
		}
	}
}

func isSpace(ch int) bool {
	return ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r' || ch == '\f' || ch == '\v'
}
