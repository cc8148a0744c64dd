package pascal

import (
	"errors"
	"log/slog"
	"strings"

	"github.com/soypat/go-pascal/ast"
	"github.com/soypat/go-pascal/symbol"
)

// analyzer checks declarations and uses of a syntax tree against a scope
// stack. Blocks and routines open scopes; declarations go into the innermost
// scope and uses are resolved from the innermost scope outwards.
type analyzer struct {
	table *symbol.Table
	log   *slog.Logger
	// owners is the path of program and routine names enclosing the
	// current node.
	owners []string
	decls  []Declaration
}

func newAnalyzer(logger *slog.Logger) *analyzer {
	return &analyzer{
		table: symbol.NewTable(),
		log:   logger,
	}
}

// Analyze visits the tree rooted at root and returns the first semantic error.
func (a *analyzer) Analyze(root *ast.Node) error {
	a.log.Debug("analysis start", slog.String("program", root.Value))
	err := a.visit(root)
	if err != nil {
		a.log.Debug("analysis failed", slog.String("err", err.Error()))
		return err
	}
	a.log.Debug("analysis done", slog.Int("depth", a.table.Depth()))
	return nil
}

func (a *analyzer) visit(n *ast.Node) error {
	if n == nil {
		return nil
	}
	switch n.Kind {
	case ast.Program:
		return a.visitProgram(n)
	case ast.Block:
		a.table.EnterScope()
		err := a.visitChildren(n)
		a.table.ExitScope()
		return err
	case ast.FunctionDecl, ast.ProcedureDecl:
		return a.visitRoutine(n)
	case ast.VarDeclGroup, ast.ParamGroup:
		return a.declareGroup(n)
	case ast.TypeDef:
		typ, err := a.resolveType(n.Child(0))
		if err != nil {
			return err
		}
		return a.declare(n, symbol.Symbol{Name: n.Value, Category: symbol.CatType, Type: typ, Line: n.Line})
	case ast.Assign, ast.ReturnAssign:
		return a.visitAssign(n)
	case ast.Ident:
		_, err := a.lookup(n.Value, n.Line)
		return err
	}
	return a.visitChildren(n)
}

func (a *analyzer) visitChildren(n *ast.Node) error {
	for _, child := range n.Children {
		if err := a.visit(child); err != nil {
			return err
		}
	}
	return nil
}

// visitProgram declares the program name globally. The optional program
// parameters name external files and are not checked.
func (a *analyzer) visitProgram(n *ast.Node) error {
	err := a.declare(n, symbol.Symbol{Name: n.Value, Category: symbol.CatProgram, Line: n.Line})
	if err != nil {
		return err
	}
	a.owners = append(a.owners, n.Value)
	return a.visit(n.Find(ast.Block))
}

// visitRoutine declares the routine in the enclosing scope then opens the
// scope its parameters live in. The body block opens one more.
func (a *analyzer) visitRoutine(n *ast.Node) error {
	sym := symbol.Symbol{Name: n.Value, Category: symbol.CatProcedure, Line: n.Line}
	if n.Kind == ast.FunctionDecl {
		sym.Category = symbol.CatFunction
		typ, err := a.resolveType(n.Child(1))
		if err != nil {
			return err
		}
		sym.Type = typ
	}
	if err := a.declare(n, sym); err != nil {
		return err
	}
	a.log.Debug("enter routine", slog.String("name", n.Value), slog.Int("depth", a.table.Depth()+1))
	a.table.EnterScope()
	a.owners = append(a.owners, n.Value)
	err := a.visit(n.Child(0))
	if err == nil {
		err = a.visit(n.Find(ast.Block))
	}
	a.owners = a.owners[:len(a.owners)-1]
	a.table.ExitScope()
	return err
}

// declareGroup declares every identifier of a variable or parameter group
// with the group's resolved type.
func (a *analyzer) declareGroup(n *ast.Node) error {
	ids, typeNode := n.Child(0), n.Child(1)
	typ, err := a.resolveType(typeNode)
	if err != nil {
		return err
	}
	for _, id := range ids.Children {
		err = a.declare(id, symbol.Symbol{Name: id.Value, Category: symbol.CatVariable, Type: typ, Line: id.Line})
		if err != nil {
			return err
		}
	}
	return nil
}

func (a *analyzer) visitAssign(n *ast.Node) error {
	target := n.Child(0)
	if _, err := a.lookup(target.Value, target.Line); err != nil {
		return err
	}
	if target.Kind == ast.ArrayAccess {
		if err := a.visit(target.Child(1)); err != nil {
			return err
		}
	}
	return a.visit(n.Child(1))
}

// resolveType returns the name of the type described by n. Arrays resolve
// through their element type and named types must be declared types.
func (a *analyzer) resolveType(n *ast.Node) (string, error) {
	if n == nil {
		return "", errors.New("missing type node")
	}
	switch n.Kind {
	case ast.PrimitiveType:
		if primitiveTypes[n.Value] {
			return n.Value, nil
		}
	case ast.ArrayType:
		elem, err := a.resolveType(n.Child(2))
		if err != nil {
			return "", err
		}
		var b strings.Builder
		b.WriteString("array[")
		b.WriteString(n.Child(0).Value)
		b.WriteString("..")
		b.WriteString(n.Child(1).Value)
		b.WriteString("] of ")
		b.WriteString(elem)
		return b.String(), nil
	case ast.NamedType:
		sym, ok := a.table.Lookup(n.Value)
		if ok && sym.Category == symbol.CatType {
			return sym.Type, nil
		}
	}
	return "", &SemanticError{Line: n.Line, Kind: UnknownType, Name: n.Value}
}

func (a *analyzer) declare(at *ast.Node, sym symbol.Symbol) error {
	err := a.table.Declare(sym)
	if err != nil {
		return &SemanticError{Line: at.Line, Kind: DuplicateDeclaration, Name: sym.Name, Err: err}
	}
	a.decls = append(a.decls, Declaration{
		Owner:  strings.Join(a.owners, "."),
		Depth:  a.table.Depth(),
		Symbol: sym,
	})
	a.log.Debug("declare", slog.String("name", sym.Name), slog.String("category", sym.Category.String()), slog.Int("depth", a.table.Depth()))
	return nil
}

func (a *analyzer) lookup(name string, line int) (symbol.Symbol, error) {
	sym, ok := a.table.Lookup(name)
	if !ok {
		return sym, &SemanticError{Line: line, Kind: UndeclaredIdentifier, Name: name}
	}
	return sym, nil
}
