package token

import "strconv"

// Kind is the coarse classification the scanner attaches to a lexeme.
// The String form of a Kind is the label used in token files and diagnostics.
type Kind int

// List of all token kinds. Values are stable since token files are
// classified by label, never by number.
const (
	// Not to be used in code. Is to catch uninitialized tokens.
	Undefined Kind = iota // <undefined>

	Reserved        // Palavra reservada
	Identifier      // Identificador
	Number          // Numero
	SimpleSymbol    // Simbolo simples
	CompositeSymbol // Simbolo composto

	// EOF is the sentinel kind returned past the end of a token sequence.
	EOF // FIM_DE_ARQUIVO
	numKinds
)

var kindLabels = [numKinds]string{
	Undefined:       "<undefined>",
	Reserved:        "Palavra reservada",
	Identifier:      "Identificador",
	Number:          "Numero",
	SimpleSymbol:    "Simbolo simples",
	CompositeSymbol: "Simbolo composto",
	EOF:             "FIM_DE_ARQUIVO",
}

func (k Kind) String() string {
	if k < 0 || k >= numKinds {
		return "Kind(" + strconv.Itoa(int(k)) + ")"
	}
	return kindLabels[k]
}

// ParseKind returns the Kind whose label matches label exactly.
func ParseKind(label string) (Kind, bool) {
	for k := Reserved; k < numKinds; k++ {
		if kindLabels[k] == label {
			return k, true
		}
	}
	return Undefined, false
}

// Labels returns the classification labels a token file may contain, longest first
// so that prefix matching never picks a shorter label over a longer one.
func Labels() []string {
	return []string{
		kindLabels[CompositeSymbol],
		kindLabels[Reserved],
		kindLabels[SimpleSymbol],
		kindLabels[Identifier],
		kindLabels[EOF],
		kindLabels[Number],
	}
}

// Token is a classified lexical unit.
type Token struct {
	Lexeme string
	Kind   Kind
	Line   int // Source line. -1 for the end-of-input sentinel.
}

// EOFToken is what a token source returns once it is exhausted.
var EOFToken = Token{Kind: EOF, Line: -1}

// Is reports whether the token has the given lexeme. The end-of-input
// sentinel matches nothing.
func (t Token) Is(lexeme string) bool {
	return t.Kind != EOF && t.Lexeme == lexeme
}

func (t Token) IsEOF() bool { return t.Kind == EOF }

func (t Token) String() string {
	return string(t.AppendString(nil))
}

// AppendString appends a human readable form of the token to b.
func (t Token) AppendString(b []byte) []byte {
	if t.Kind == EOF {
		return append(b, kindLabels[EOF]...)
	}
	b = strconv.AppendQuote(b, t.Lexeme)
	b = append(b, ' ')
	b = append(b, t.Kind.String()...)
	b = append(b, '@')
	return strconv.AppendInt(b, int64(t.Line), 10)
}

// Reclassify returns t with the read and write builtins forced to
// [Identifier] kind so they parse as ordinary subroutine calls.
func Reclassify(t Token) Token {
	if t.Lexeme == "read" || t.Lexeme == "write" {
		t.Kind = Identifier
	}
	return t
}

var reserved = map[string]bool{
	"program": true, "Program": true, "var": true, "function": true,
	"begin": true, "end": true, "read": true, "write": true,
	"if": true, "then": true, "else": true, "integer": true,
	"boolean": true, "double": true, "while": true, "procedure": true,
	"goto": true, "for": true, "do": true, "not": true,
	"and": true, "or": true, "to": true, "downto": true,
	"label": true, "type": true, "array": true, "of": true,
	"real": true, "div": true, "mod": true,
}

// IsReserved reports whether word is a reserved word of the language.
// Matching is case sensitive.
func IsReserved(word string) bool { return reserved[word] }

// LookupWord classifies a scanned word: [Reserved], [Number] for all-digit words,
// [Identifier] for letter-led words and [Undefined] for anything else.
func LookupWord(word string) Kind {
	switch {
	case word == "":
		return Undefined
	case reserved[word]:
		return Reserved
	case allDigits(word):
		return Number
	case isLetter(word[0]):
		return Identifier
	}
	return Undefined
}

// IsSymbolChar reports whether c starts a symbol token.
func IsSymbolChar(c byte) bool {
	switch c {
	case '+', '-', '*', '/', ':', '=', '<', '>', '{', '}', '(', ')', ';', '.', ',', '[', ']', '^':
		return true
	}
	return false
}

// IsComposite reports whether s is one of the two-character symbols.
func IsComposite(s string) bool {
	switch s {
	case ":=", "<=", ">=", "<>", "==", "..":
		return true
	}
	return false
}

func allDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

func isLetter(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}
