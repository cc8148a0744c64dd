package pascal

import (
	"strconv"

	"github.com/soypat/go-pascal/token"
)

// ScanError is returned by the [Lexer] for input it cannot classify.
type ScanError struct {
	sp  sourcePos
	msg string
}

func (se *ScanError) Error() string {
	var dst []byte
	dst = se.sp.AppendString(dst)
	dst = append(dst, ':', ' ')
	dst = append(dst, se.msg...)
	return string(dst)
}

// Line returns the source line the error was found on.
func (se *ScanError) Line() int { return se.sp.Line }

type sourcePos struct {
	Source string
	Line   int
	Col    int
}

func (l *sourcePos) String() string {
	return string(l.AppendString(nil))
}

func (l *sourcePos) AppendString(b []byte) []byte {
	if b == nil {
		b = make([]byte, 0, len(l.Source)+3+3)
	}
	b = append(b, l.Source...)
	b = append(b, ':')

	b = strconv.AppendInt(b, int64(l.Line), 10)
	if l.Col > 0 {
		b = append(b, ':')
		b = strconv.AppendInt(b, int64(l.Col), 10)
	}
	return b
}

// SyntaxError is the fatal error the parser stops at. Found is the token the
// parser was looking at; it is the end-of-input sentinel when the tokens ran
// out before the grammar was satisfied.
type SyntaxError struct {
	Line     int    // Line of Found, or of the last token when Found is the sentinel.
	Expected string // Description of the unmet expectation.
	Found    token.Token
}

// AtEOF reports whether the error was found past the last token.
func (e *SyntaxError) AtEOF() bool { return e.Found.IsEOF() }

func (e *SyntaxError) Error() string {
	return string(e.AppendString(nil))
}

// AppendString appends the diagnostic line for e to dst.
func (e *SyntaxError) AppendString(dst []byte) []byte {
	if e.AtEOF() {
		dst = append(dst, "Erro: "...)
		dst = append(dst, e.Expected...)
		return append(dst, " no final do arquivo."...)
	}
	dst = append(dst, "Erro na linha "...)
	dst = strconv.AppendInt(dst, int64(e.Line), 10)
	dst = append(dst, ": "...)
	dst = append(dst, e.Expected...)
	dst = append(dst, ". Token encontrado: '"...)
	dst = append(dst, e.Found.Lexeme...)
	dst = append(dst, "' do tipo '"...)
	dst = append(dst, e.Found.Kind.String()...)
	return append(dst, '\'')
}

// SemanticErrorKind classifies a [SemanticError].
type SemanticErrorKind int

const (
	_ SemanticErrorKind = iota
	DuplicateDeclaration
	UndeclaredIdentifier
	UnknownType
)

func (k SemanticErrorKind) String() string {
	switch k {
	case DuplicateDeclaration:
		return "DuplicateDeclaration"
	case UndeclaredIdentifier:
		return "UndeclaredIdentifier"
	case UnknownType:
		return "UnknownType"
	}
	return "SemanticErrorKind(" + strconv.Itoa(int(k)) + ")"
}

// SemanticError is the fatal error the analyzer stops at.
type SemanticError struct {
	Line int
	Kind SemanticErrorKind
	Name string // Offending identifier or type name.
	Err  error  // Underlying symbol table error, if any.
}

func (e *SemanticError) Unwrap() error { return e.Err }

func (e *SemanticError) Error() string {
	return string(e.AppendString(nil))
}

// AppendString appends the diagnostic line for e to dst.
func (e *SemanticError) AppendString(dst []byte) []byte {
	dst = append(dst, "Erro Semantico na linha "...)
	dst = strconv.AppendInt(dst, int64(e.Line), 10)
	dst = append(dst, ": "...)
	switch e.Kind {
	case DuplicateDeclaration:
		dst = append(dst, "identifier '"...)
		dst = append(dst, e.Name...)
		dst = append(dst, "' was already declared in this scope"...)
	case UndeclaredIdentifier:
		dst = append(dst, "identifier '"...)
		dst = append(dst, e.Name...)
		dst = append(dst, "' was not declared"...)
	case UnknownType:
		dst = append(dst, "unknown type '"...)
		dst = append(dst, e.Name...)
		dst = append(dst, '\'')
	default:
		dst = append(dst, e.Kind.String()...)
		dst = append(dst, " '"...)
		dst = append(dst, e.Name...)
		dst = append(dst, '\'')
	}
	return dst
}
