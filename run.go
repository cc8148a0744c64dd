package pascal

import (
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/soypat/go-pascal/ast"
	"github.com/soypat/go-pascal/symbol"
	"github.com/soypat/go-pascal/token"
)

// Run is the context of one compilation. It owns the state the parser and
// analyzer share: the flat label set and the name table the parser uses to
// tell function results apart from plain assignments. A Run is used for a
// single program and then discarded.
type Run struct {
	id     uuid.UUID
	labels symbol.LabelSet
	names  map[string]symbol.Category
	decls  []Declaration
	log    *slog.Logger
}

// Declaration is a symbol accepted by the analyzer together with where it
// was declared.
type Declaration struct {
	// Owner is the dotted path of the program and routines enclosing the
	// declaration, e.g. "main.outer.inner". Empty for the program itself.
	Owner string
	// Depth is the scope depth the symbol was declared at. The global
	// scope has depth 1.
	Depth  int
	Symbol symbol.Symbol
}

// NewRun returns a fresh compilation context. A nil logger discards all output.
func NewRun(logger *slog.Logger) *Run {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	id := uuid.New()
	return &Run{
		id:    id,
		names: make(map[string]symbol.Category),
		log:   logger.With(slog.String("run_id", id.String())),
	}
}

// ID returns the identifier attached to every log record of the run.
func (r *Run) ID() string { return r.id.String() }

// Labels returns the labels declared so far in the run.
func (r *Run) Labels() *symbol.LabelSet { return &r.labels }

// NameCategory returns the category the parser recorded for name.
// The parser's name table is flat and the last declaration of a name wins.
func (r *Run) NameCategory(name string) (symbol.Category, bool) {
	cat, ok := r.names[name]
	return cat, ok
}

// Parse builds the syntax tree of the program in toks. The returned error
// is a *[SyntaxError].
func (r *Run) Parse(toks []token.Token) (*ast.Node, error) {
	var p Parser
	p.Reset(toks, r)
	return p.ParseProgram()
}

// Analyze walks the tree produced by [Run.Parse] checking declarations and
// uses against a fresh scope stack. The returned error is a *[SemanticError].
func (r *Run) Analyze(root *ast.Node) error {
	if root == nil {
		return errors.New("analyze: nil syntax tree")
	}
	a := newAnalyzer(r.log)
	err := a.Analyze(root)
	r.decls = a.decls
	return err
}

// Declarations returns the symbols declared during analysis in declaration
// order. After a failed analysis it holds those declared before the error.
func (r *Run) Declarations() []Declaration { return r.decls }

// Compile parses toks and analyzes the result. Parsing completes before
// analysis starts. On any error the tree is discarded and nil is returned.
func (r *Run) Compile(toks []token.Token) (*ast.Node, error) {
	root, err := r.Parse(toks)
	if err != nil {
		return nil, err
	}
	err = r.Analyze(root)
	if err != nil {
		return nil, err
	}
	return root, nil
}

// ParseProgram parses toks in a new [Run].
func ParseProgram(toks []token.Token) (*ast.Node, error) {
	return NewRun(nil).Parse(toks)
}

// Analyze checks root in a new [Run].
func Analyze(root *ast.Node) error {
	return NewRun(nil).Analyze(root)
}

// Compile parses and analyzes toks in a new [Run].
func Compile(toks []token.Token) (*ast.Node, error) {
	return NewRun(nil).Compile(toks)
}
