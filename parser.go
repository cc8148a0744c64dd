package pascal

import (
	"log/slog"

	"github.com/soypat/go-pascal/ast"
	"github.com/soypat/go-pascal/symbol"
	"github.com/soypat/go-pascal/token"
)

// primitiveTypes are the type names the parser accepts without resolution.
var primitiveTypes = map[string]bool{
	"integer": true,
	"boolean": true,
	"real":    true,
	"string":  true,
}

// Parser is a recursive descent parser over an in-memory token sequence.
// It stops at the first syntax error. Positions saved with mark can be
// restored with reset to retry an alternative production.
type Parser struct {
	toks []token.Token
	pos  int
	run  *Run
	log  *slog.Logger
	err  *SyntaxError
}

// Reset prepares the parser to parse toks. Labels and names found while
// parsing are recorded in run. read and write tokens are treated as
// identifiers. toks is not modified.
func (p *Parser) Reset(toks []token.Token, run *Run) {
	if run == nil {
		run = NewRun(nil)
	}
	*p = Parser{
		toks: p.toks[:0],
		run:  run,
		log:  run.log,
	}
	for _, tok := range toks {
		if tok.IsEOF() {
			break
		}
		p.toks = append(p.toks, token.Reclassify(tok))
	}
}

// ParseProgram parses the whole token sequence as one program. All tokens
// must be consumed. The returned error is a *[SyntaxError].
func (p *Parser) ParseProgram() (*ast.Node, error) {
	if p.run == nil {
		p.Reset(nil, nil)
	}
	p.log.Debug("parse start", slog.Int("tokens", len(p.toks)))
	prog := p.parseProgram()
	if p.err != nil {
		p.log.Debug("parse failed", slog.Int("line", p.err.Line), slog.String("expected", p.err.Expected))
		return nil, p.err
	}
	p.log.Debug("parse done", slog.Int("nodes", ast.Count(prog)), slog.Int("labels", p.run.labels.Len()))
	return prog, nil
}

// Err returns the syntax error the parser stopped at, if any.
func (p *Parser) Err() error {
	if p.err == nil {
		return nil
	}
	return p.err
}

func (p *Parser) current() token.Token {
	if p.pos < len(p.toks) {
		return p.toks[p.pos]
	}
	return token.EOFToken
}

func (p *Parser) peek() token.Token {
	if p.pos+1 < len(p.toks) {
		return p.toks[p.pos+1]
	}
	return token.EOFToken
}

func (p *Parser) advance() {
	if p.pos < len(p.toks) {
		p.pos++
	}
}

func (p *Parser) exhausted() bool { return p.pos >= len(p.toks) }

func (p *Parser) mark() int { return p.pos }

func (p *Parser) reset(pos int) { p.pos = pos }

func (p *Parser) failed() bool { return p.err != nil }

func (p *Parser) currentTokenIs(lexeme string) bool {
	return p.current().Is(lexeme)
}

func (p *Parser) currentKindIs(kind token.Kind) bool {
	return p.current().Kind == kind
}

// expect consumes the current token if its lexeme is lexeme and reports
// reason as a syntax error otherwise.
func (p *Parser) expect(lexeme, reason string) bool {
	if !p.currentTokenIs(lexeme) {
		p.addError(reason)
		return false
	}
	p.advance()
	return true
}

// expectKind consumes and returns the current token if it is of the given kind.
func (p *Parser) expectKind(kind token.Kind, reason string) (token.Token, bool) {
	tok := p.current()
	if tok.Kind != kind {
		p.addError(reason)
		return tok, false
	}
	p.advance()
	return tok, true
}

// consumeIf consumes the current token if its lexeme is lexeme.
// Use this for optional tokens where absence is not an error.
func (p *Parser) consumeIf(lexeme string) bool {
	if p.currentTokenIs(lexeme) {
		p.advance()
		return true
	}
	return false
}

// addError records msg against the current token. Only the first error is kept.
func (p *Parser) addError(msg string) {
	if p.err != nil {
		return
	}
	found := p.current()
	line := found.Line
	if found.IsEOF() && len(p.toks) > 0 {
		line = p.toks[len(p.toks)-1].Line
	}
	p.err = &SyntaxError{Line: line, Expected: msg, Found: found}
}

// program = ("Program"|"program") ID ["(" id_list ")"] ";" block "." EOF
func (p *Parser) parseProgram() *ast.Node {
	start := p.current()
	if !p.consumeIf("Program") && !p.consumeIf("program") {
		p.addError("a program must start with the keyword 'Program'")
		return nil
	}
	name, ok := p.expectKind(token.Identifier, "expected an identifier for the program name")
	if !ok {
		return nil
	}
	prog := ast.New(ast.Program, name.Lexeme, start.Line)
	if p.consumeIf("(") {
		ids := p.parseIdentList("expected an identifier in the program parameter list")
		if ids == nil || !p.expect(")", "expected ')' to close the program parameter list") {
			return nil
		}
		prog.Add(ids)
	}
	if !p.expect(";", "expected ';' after the program header") {
		return nil
	}
	block := p.parseBlock()
	if block == nil {
		return nil
	}
	if !p.expect(".", "expected '.' at the end of the program") {
		return nil
	}
	if !p.exhausted() {
		p.addError("unexpected tokens after the end of the program")
		return nil
	}
	return prog.Add(block)
}

// block = [label_decl] [type_decl] [var_decl] {routine_decl} "begin" stmt_list "end"
func (p *Parser) parseBlock() *ast.Node {
	block := ast.New(ast.Block, "", p.current().Line)
	sections := []struct {
		keyword string
		parse   func() *ast.Node
	}{
		{"label", p.parseLabelDecl},
		{"type", p.parseTypeDecl},
		{"var", p.parseVarDecl},
	}
	for _, sec := range sections {
		if !p.currentTokenIs(sec.keyword) {
			continue
		}
		n := sec.parse()
		if n == nil {
			return nil
		}
		block.Add(n)
	}
	for p.currentTokenIs("function") || p.currentTokenIs("procedure") {
		n := p.parseRoutine()
		if n == nil {
			return nil
		}
		block.Add(n)
	}
	if !p.expect("begin", "expected 'begin' to start the statements of the block") {
		return nil
	}
	stmts := p.parseStmtList()
	if stmts == nil || !p.expect("end", "expected 'end' to close the block") {
		return nil
	}
	return block.Add(stmts)
}

// label_decl = "label" NUM {"," NUM} ";"
func (p *Parser) parseLabelDecl() *ast.Node {
	decl := ast.New(ast.LabelDecl, "", p.current().Line)
	p.advance()
	for {
		num, ok := p.expectKind(token.Number, "expected a label number in the 'label' declaration")
		if !ok {
			return nil
		}
		p.run.labels.Add(num.Lexeme, num.Line)
		decl.Add(ast.New(ast.Number, num.Lexeme, num.Line))
		if !p.consumeIf(",") {
			break
		}
	}
	if !p.expect(";", "expected ';' after the label declaration") {
		return nil
	}
	return decl
}

// type_decl = "type" {ID "=" type ";"}
func (p *Parser) parseTypeDecl() *ast.Node {
	decl := ast.New(ast.TypeDecl, "", p.current().Line)
	p.advance()
	for p.currentKindIs(token.Identifier) {
		name := p.current()
		p.advance()
		p.run.names[name.Lexeme] = symbol.CatType
		if !p.expect("=", "expected '=' in the type declaration") {
			return nil
		}
		typ := p.parseType()
		if typ == nil || !p.expect(";", "expected ';' after the type declaration") {
			return nil
		}
		decl.Add(ast.New(ast.TypeDef, name.Lexeme, name.Line, typ))
	}
	return decl
}

// var_decl = "var" {id_list ":" type ";"}
func (p *Parser) parseVarDecl() *ast.Node {
	decl := ast.New(ast.VarDecl, "", p.current().Line)
	p.advance()
	for p.currentKindIs(token.Identifier) {
		line := p.current().Line
		ids := p.parseIdentList("expected an identifier in the variable declaration")
		if ids == nil {
			return nil
		}
		for _, id := range ids.Children {
			p.run.names[id.Value] = symbol.CatVariable
		}
		if !p.expect(":", "expected ':' after the variable names") {
			return nil
		}
		typ := p.parseType()
		if typ == nil || !p.expect(";", "expected ';' after the variable declaration") {
			return nil
		}
		decl.Add(ast.New(ast.VarDeclGroup, "", line, ids, typ))
	}
	return decl
}

// id_list = ID {"," ID}
func (p *Parser) parseIdentList(reason string) *ast.Node {
	list := ast.New(ast.IdentList, "", p.current().Line)
	for {
		id, ok := p.expectKind(token.Identifier, reason)
		if !ok {
			return nil
		}
		list.Add(ast.New(ast.Ident, id.Lexeme, id.Line))
		if !p.consumeIf(",") {
			return list
		}
	}
}

// type = primitive | "array" "[" NUM ".." NUM "]" "of" type | ID
func (p *Parser) parseType() *ast.Node {
	tok := p.current()
	switch {
	case primitiveTypes[tok.Lexeme]:
		p.advance()
		return ast.New(ast.PrimitiveType, tok.Lexeme, tok.Line)
	case tok.Is("array"):
		p.advance()
		if !p.expect("[", "expected '[' after 'array'") {
			return nil
		}
		lo, ok := p.expectKind(token.Number, "expected the lower bound of the array")
		if !ok || !p.expect("..", "expected '..' between the array bounds") {
			return nil
		}
		hi, ok := p.expectKind(token.Number, "expected the upper bound of the array")
		if !ok || !p.expect("]", "expected ']' after the array bounds") ||
			!p.expect("of", "expected 'of' after the array bounds") {
			return nil
		}
		elem := p.parseType()
		if elem == nil {
			return nil
		}
		return ast.New(ast.ArrayType, "", tok.Line,
			ast.New(ast.Number, lo.Lexeme, lo.Line),
			ast.New(ast.Number, hi.Lexeme, hi.Line),
			elem)
	case tok.Kind == token.Identifier:
		p.advance()
		return ast.New(ast.NamedType, tok.Lexeme, tok.Line)
	}
	p.addError("expected a valid type (integer, boolean, real, string, array or a type name)")
	return nil
}

// routine_decl = ("function" ID [params] ":" type | "procedure" ID [params]) ";" block ";"
func (p *Parser) parseRoutine() *ast.Node {
	keyword := p.current()
	isFunc := keyword.Is("function")
	kind, cat := ast.ProcedureDecl, symbol.CatProcedure
	if isFunc {
		kind, cat = ast.FunctionDecl, symbol.CatFunction
	}
	p.advance()
	name, ok := p.expectKind(token.Identifier, "expected an identifier for the "+keyword.Lexeme+" name")
	if !ok {
		return nil
	}
	// Recorded before the body so assignments to the name inside it are
	// recognized as the function result.
	p.run.names[name.Lexeme] = cat

	var params *ast.Node
	if p.consumeIf("(") {
		if !p.currentTokenIs(")") {
			params = p.parseParams()
			if params == nil {
				return nil
			}
		}
		if !p.expect(")", "expected ')' to close the parameter list") {
			return nil
		}
	}
	if params == nil {
		params = ast.New(ast.EmptyParamList, "", name.Line)
	}
	routine := ast.New(kind, name.Lexeme, keyword.Line, params)
	if isFunc {
		if !p.expect(":", "expected ':' before the function result type") {
			return nil
		}
		typ := p.parseType()
		if typ == nil {
			return nil
		}
		routine.Add(typ)
	}
	if !p.expect(";", "expected ';' after the "+keyword.Lexeme+" header") {
		return nil
	}
	block := p.parseBlock()
	if block == nil || !p.expect(";", "expected ';' after the "+keyword.Lexeme+" body") {
		return nil
	}
	p.log.Debug("routine parsed", slog.String("kind", keyword.Lexeme), slog.String("name", name.Lexeme))
	return routine.Add(block)
}

// params = param_group {";" param_group}
// param_group = ["var"] id_list ":" type
func (p *Parser) parseParams() *ast.Node {
	list := ast.New(ast.ParamList, "", p.current().Line)
	for {
		group := ast.New(ast.ParamGroup, "", p.current().Line)
		if p.consumeIf("var") {
			group.Value = "var"
		}
		ids := p.parseIdentList("expected an identifier in the parameter list")
		if ids == nil || !p.expect(":", "expected ':' after the parameter names") {
			return nil
		}
		typ := p.parseType()
		if typ == nil {
			return nil
		}
		list.Add(group.Add(ids, typ))
		if !p.consumeIf(";") {
			return list
		}
	}
}

// atStmtListEnd reports whether the current token closes a statement list.
func (p *Parser) atStmtListEnd() bool {
	return p.exhausted() || p.currentTokenIs("end") || p.currentTokenIs("else")
}

// stmt_list = [stmt {";" stmt} [";"]]
func (p *Parser) parseStmtList() *ast.Node {
	list := ast.New(ast.StmtList, "", p.current().Line)
	for !p.atStmtListEnd() {
		stmt := p.parseStatement()
		if stmt == nil {
			p.addError("invalid or unexpected statement")
			return nil
		}
		list.Add(stmt)
		if p.consumeIf(";") {
			continue
		}
		if !p.atStmtListEnd() {
			p.addError("expected ';' between statements or a block terminator ('end' or 'else')")
			return nil
		}
	}
	return list
}

// parseStatement returns nil without recording an error when no statement
// starts at the current token so callers can report in context.
//
//	stmt = [NUM ":"] unlabeled_stmt
func (p *Parser) parseStatement() *ast.Node {
	if !p.currentKindIs(token.Number) || !p.peek().Is(":") {
		return p.parseUnlabeled()
	}
	label := p.current()
	if !p.run.labels.Has(label.Lexeme) {
		p.addError("label '" + label.Lexeme + "' was not declared in a 'label' section")
		return nil
	}
	p.advance()
	p.advance()
	stmt := p.parseUnlabeled()
	if stmt == nil {
		p.addError("expected a statement after label '" + label.Lexeme + "'")
		return nil
	}
	return ast.New(ast.LabeledStmt, label.Lexeme, label.Line, stmt)
}

func (p *Parser) parseUnlabeled() *ast.Node {
	tok := p.current()
	switch {
	case tok.Is("begin"):
		return p.parseCompound()
	case tok.Is("if"):
		return p.parseIf()
	case tok.Is("while"):
		return p.parseWhile()
	case tok.Is("goto"):
		return p.parseGoto()
	case tok.Kind == token.Identifier:
		return p.parseAssignOrCall()
	}
	return nil
}

// compound = "begin" stmt_list "end"
func (p *Parser) parseCompound() *ast.Node {
	begin := p.current()
	p.advance()
	stmts := p.parseStmtList()
	if stmts == nil || !p.expect("end", "expected 'end' to close the compound statement") {
		return nil
	}
	return ast.New(ast.Compound, "", begin.Line, stmts)
}

// if = "if" expr "then" stmt ["else" stmt]
func (p *Parser) parseIf() *ast.Node {
	start := p.current()
	p.advance()
	cond := p.parseExpr()
	if cond == nil || !p.expect("then", "expected 'then' after the 'if' condition") {
		return nil
	}
	then := p.parseStatement()
	if then == nil {
		p.addError("expected a statement after 'then'")
		return nil
	}
	n := ast.New(ast.If, "", start.Line, cond, then)
	if p.consumeIf("else") {
		els := p.parseStatement()
		if els == nil {
			p.addError("expected a statement after 'else'")
			return nil
		}
		n.Add(els)
	}
	return n
}

// while = "while" expr "do" stmt
func (p *Parser) parseWhile() *ast.Node {
	start := p.current()
	p.advance()
	cond := p.parseExpr()
	if cond == nil || !p.expect("do", "expected 'do' after the 'while' condition") {
		return nil
	}
	body := p.parseStatement()
	if body == nil {
		p.addError("expected a statement after 'do'")
		return nil
	}
	return ast.New(ast.While, "", start.Line, cond, body)
}

// goto = "goto" NUM
func (p *Parser) parseGoto() *ast.Node {
	start := p.current()
	p.advance()
	target := p.current()
	if target.Kind != token.Number {
		p.addError("expected a label number after 'goto'")
		return nil
	} else if !p.run.labels.Has(target.Lexeme) {
		p.addError("'goto' to label '" + target.Lexeme + "' which was not declared in a 'label' section")
		return nil
	}
	p.advance()
	return ast.New(ast.Goto, target.Lexeme, start.Line)
}

// parseAssignOrCall tries variable ":=" expr and falls back to a call.
func (p *Parser) parseAssignOrCall() *ast.Node {
	save := p.mark()
	target := p.parseVariable()
	if target == nil {
		return nil
	}
	if !p.currentTokenIs(":=") {
		p.reset(save)
		return p.parseCall()
	}
	p.advance()
	value := p.parseExpr()
	if value == nil {
		return nil
	}
	kind := ast.Assign
	if target.Kind == ast.Ident && p.run.names[target.Value] == symbol.CatFunction {
		kind = ast.ReturnAssign
	}
	return ast.New(kind, "", target.Line, target, value)
}

// variable = ID ["[" expr "]"]
func (p *Parser) parseVariable() *ast.Node {
	id, ok := p.expectKind(token.Identifier, "expected a variable name")
	if !ok {
		return nil
	}
	ident := ast.New(ast.Ident, id.Lexeme, id.Line)
	if !p.consumeIf("[") {
		return ident
	}
	index := p.parseExpr()
	if index == nil || !p.expect("]", "expected ']' to close the array index") {
		return nil
	}
	return ast.New(ast.ArrayAccess, id.Lexeme, id.Line, ident, index)
}

// call = ID ["(" [expr {"," expr}] ")"]
func (p *Parser) parseCall() *ast.Node {
	name, ok := p.expectKind(token.Identifier, "expected a subroutine name")
	if !ok {
		return nil
	}
	call := ast.New(ast.Call, name.Lexeme, name.Line)
	if !p.consumeIf("(") {
		return call
	}
	if !p.currentTokenIs(")") {
		args := ast.New(ast.ArgList, "", p.current().Line)
		for {
			arg := p.parseExpr()
			if arg == nil {
				return nil
			}
			args.Add(arg)
			if !p.consumeIf(",") {
				break
			}
		}
		call.Add(args)
	}
	if !p.expect(")", "expected ')' to close the arguments of '"+name.Lexeme+"'") {
		return nil
	}
	return call
}

// The expression parsers below record an error whenever they return nil.

// expr = logic_term {"or" logic_term}
func (p *Parser) parseExpr() *ast.Node {
	return p.parseBinary(p.parseLogicTerm, "or")
}

// logic_term = logic_factor {"and" logic_factor}
func (p *Parser) parseLogicTerm() *ast.Node {
	return p.parseBinary(p.parseRelational, "and")
}

// logic_factor = arith [relop arith]
func (p *Parser) parseRelational() *ast.Node {
	left := p.parseArith()
	if left == nil {
		return nil
	}
	op := p.current()
	switch op.Lexeme {
	case "=", "<>", "<", "<=", ">", ">=":
	default:
		return left
	}
	p.advance()
	right := p.parseArith()
	if right == nil {
		return nil
	}
	return ast.New(ast.BinaryOp, op.Lexeme, op.Line, left, right)
}

// arith = ["+"|"-"] term {("+"|"-") term}
func (p *Parser) parseArith() *ast.Node {
	sign := p.current()
	hasSign := sign.Is("+") || sign.Is("-")
	if hasSign {
		p.advance()
	}
	left := p.parseTerm()
	if left == nil {
		return nil
	}
	if hasSign {
		left = ast.New(ast.UnaryOp, sign.Lexeme, sign.Line, left)
	}
	for p.currentTokenIs("+") || p.currentTokenIs("-") {
		op := p.current()
		p.advance()
		right := p.parseTerm()
		if right == nil {
			return nil
		}
		left = ast.New(ast.BinaryOp, op.Lexeme, op.Line, left, right)
	}
	return left
}

// term = factor {("*"|"/"|"div"|"mod") factor}
func (p *Parser) parseTerm() *ast.Node {
	return p.parseBinary(p.parseFactor, "*", "/", "div", "mod")
}

// parseBinary parses a left associative chain of operand separated by any of ops.
func (p *Parser) parseBinary(operand func() *ast.Node, ops ...string) *ast.Node {
	left := operand()
	for left != nil {
		op := p.current()
		matched := false
		for _, o := range ops {
			if op.Is(o) {
				matched = true
				break
			}
		}
		if !matched {
			return left
		}
		p.advance()
		right := operand()
		if right == nil {
			return nil
		}
		left = ast.New(ast.BinaryOp, op.Lexeme, op.Line, left, right)
	}
	return nil
}

// factor = NUM | "not" factor | "(" expr ")" | call | variable
func (p *Parser) parseFactor() *ast.Node {
	tok := p.current()
	switch {
	case tok.Kind == token.Number:
		p.advance()
		return ast.New(ast.Number, tok.Lexeme, tok.Line)
	case tok.Is("not"):
		p.advance()
		operand := p.parseFactor()
		if operand == nil {
			return nil
		}
		return ast.New(ast.UnaryOp, tok.Lexeme, tok.Line, operand)
	case tok.Is("("):
		p.advance()
		e := p.parseExpr()
		if e == nil || !p.expect(")", "expected ')' to close the parenthesized expression") {
			return nil
		}
		return e
	case tok.Kind == token.Identifier:
		if !p.peek().Is("(") {
			return p.parseVariable()
		}
		cat, known := p.run.names[tok.Lexeme]
		if known && cat != symbol.CatFunction && tok.Lexeme != "read" && tok.Lexeme != "write" {
			p.addError("'" + tok.Lexeme + "' is a " + cat.String() + " and cannot be called in an expression")
			return nil
		}
		return p.parseCall()
	}
	p.addError("invalid factor, expected a number, identifier, 'not' or '('")
	return nil
}
