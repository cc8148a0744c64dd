package pascal

import (
	"errors"
	"strings"
	"testing"

	"github.com/soypat/go-pascal/token"
)

type testtoktuple struct {
	kind   token.Kind
	lexeme string
	line   int
}

func TestLexer_tokens(t *testing.T) {
	cases := []struct {
		src    string
		expect []testtoktuple
	}{
		0: {
			src: "Program P;",
			expect: []testtoktuple{
				{token.Reserved, "Program", 1},
				{token.Identifier, "P", 1},
				{token.SimpleSymbol, ";", 1},
			},
		},
		1: {
			src: "x:=a[1..10]<>b<=c>=d==e",
			expect: []testtoktuple{
				{token.Identifier, "x", 1},
				{token.CompositeSymbol, ":=", 1},
				{token.Identifier, "a", 1},
				{token.SimpleSymbol, "[", 1},
				{token.Number, "1", 1},
				{token.CompositeSymbol, "..", 1},
				{token.Number, "10", 1},
				{token.SimpleSymbol, "]", 1},
				{token.CompositeSymbol, "<>", 1},
				{token.Identifier, "b", 1},
				{token.CompositeSymbol, "<=", 1},
				{token.Identifier, "c", 1},
				{token.CompositeSymbol, ">=", 1},
				{token.Identifier, "d", 1},
				{token.CompositeSymbol, "==", 1},
				{token.Identifier, "e", 1},
			},
		},
		2: {
			src: "{ brace\ncomment } begin (* star\n comment *) end // line comment\n.",
			expect: []testtoktuple{
				{token.Reserved, "begin", 2},
				{token.Reserved, "end", 3},
				{token.SimpleSymbol, ".", 4},
			},
		},
		3: {
			src: "write('hello, world'); read(x)",
			expect: []testtoktuple{
				{token.Reserved, "write", 1},
				{token.SimpleSymbol, "(", 1},
				{token.SimpleSymbol, ")", 1},
				{token.SimpleSymbol, ";", 1},
				{token.Reserved, "read", 1},
				{token.SimpleSymbol, "(", 1},
				{token.Identifier, "x", 1},
				{token.SimpleSymbol, ")", 1},
			},
		},
		4: {
			src: "a-b*c/d^}\r\n\tx2",
			expect: []testtoktuple{
				{token.Identifier, "a", 1},
				{token.SimpleSymbol, "-", 1},
				{token.Identifier, "b", 1},
				{token.SimpleSymbol, "*", 1},
				{token.Identifier, "c", 1},
				{token.SimpleSymbol, "/", 1},
				{token.Identifier, "d", 1},
				{token.SimpleSymbol, "^", 1},
				{token.SimpleSymbol, "}", 1},
				{token.Identifier, "x2", 2},
			},
		},
		5: {
			src: "3.14 : =",
			expect: []testtoktuple{
				{token.Number, "3", 1},
				{token.SimpleSymbol, ".", 1},
				{token.Number, "14", 1},
				{token.SimpleSymbol, ":", 1},
				{token.SimpleSymbol, "=", 1},
			},
		},
		6: {
			src:    "   \n\n  ",
			expect: nil,
		},
	}
	var l Lexer
	for i, c := range cases {
		toks, err := l.ScanAll("test.pas", strings.NewReader(c.src))
		if err != nil {
			t.Errorf("case %d: %v", i, err)
			continue
		}
		if len(toks) != len(c.expect) {
			t.Errorf("case %d: expected %d tokens, got %d: %v", i, len(c.expect), len(toks), toks)
			continue
		}
		for j, want := range c.expect {
			got := toks[j]
			if got.Kind != want.kind || got.Lexeme != want.lexeme || got.Line != want.line {
				t.Errorf("case %d token %d: expected %v %q line %d, got %v %q line %d",
					i, j, want.kind, want.lexeme, want.line, got.Kind, got.Lexeme, got.Line)
			}
		}
	}
}

func TestLexer_errors(t *testing.T) {
	cases := []struct {
		src      string
		wantLine int
		wantMsg  string
	}{
		{"begin\n  x := 1 @ 2", 2, "invalid word @"},
		{"begin\n  9abc", 2, "invalid word 9abc"},
		{"x := 'open\n'", 1, "unterminated string literal"},
		{"begin { never closed\nend.", 1, "unterminated comment, missing }"},
		{"\n(* never closed", 2, "unterminated comment, missing *)"},
	}
	var l Lexer
	for _, c := range cases {
		_, err := l.ScanAll("bad.pas", strings.NewReader(c.src))
		var se *ScanError
		if !errors.As(err, &se) {
			t.Errorf("%q: expected ScanError, got %v", c.src, err)
			continue
		}
		if se.Line() != c.wantLine || !strings.HasSuffix(se.Error(), c.wantMsg) {
			t.Errorf("%q: expected %q on line %d, got %v", c.src, c.wantMsg, c.wantLine, se)
		}
		if !strings.HasPrefix(se.Error(), "bad.pas:") {
			t.Errorf("error should carry the source name: %v", se)
		}
	}
}

func TestLexer_reset(t *testing.T) {
	var l Lexer
	if err := l.Reset("", strings.NewReader("x")); err == nil {
		t.Error("expected error for empty source name")
	}
	if err := l.Reset("a.pas", nil); err == nil {
		t.Error("expected error for nil reader")
	}
	if tok := (&Lexer{}).NextToken(); !tok.IsEOF() {
		t.Errorf("uninitialized lexer should return EOF, got %v", tok)
	}
	if err := l.Reset("a.pas", strings.NewReader("begin end")); err != nil {
		t.Fatal(err)
	}
	if tok := l.NextToken(); tok.Lexeme != "begin" {
		t.Fatalf("expected begin, got %v", tok)
	}
	// Reset mid-stream starts over.
	if err := l.Reset("b.pas", strings.NewReader("\nvar")); err != nil {
		t.Fatal(err)
	}
	tok := l.NextToken()
	if tok.Lexeme != "var" || tok.Line != 2 || l.Source() != "b.pas" {
		t.Errorf("expected var on line 2 of b.pas, got %v line %d in %s", tok, tok.Line, l.Source())
	}
	if line, col := l.TokenLineCol(); line != 2 || col != 1 {
		t.Errorf("expected token at 2:1, got %d:%d", line, col)
	}
	if !l.NextToken().IsEOF() || l.Err() != nil {
		t.Errorf("expected clean EOF, err=%v", l.Err())
	}
}
