package ast

import "strconv"

// Kind tags a [Node] with the grammar construct it represents.
type Kind int

// List of all node kinds. The comment on each constant is its name in
// AST dumps.
const (
	Invalid Kind = iota // invalid

	// Program structure.
	Program        // program
	Block          // block
	LabelDecl      // label_decl
	TypeDecl       // type_decl
	TypeDef        // type_def
	VarDecl        // var_decl
	VarDeclGroup   // var_decl_group
	IdentList      // identifier_list
	FunctionDecl   // function
	ProcedureDecl  // procedure
	ParamList      // param_list
	ParamGroup     // param_group
	EmptyParamList // empty_param_list

	// Statements.
	StmtList        // statement_list
	LabeledStmt     // labeled_statement
	Compound        // compound
	If              // if
	While           // while
	Goto            // goto
	Assign          // assignment
	ReturnAssign    // return_assignment
	Call            // call
	ArgList         // arg_list

	// Expressions.
	Ident       // identifier
	ArrayAccess // array_access
	BinaryOp    // binary_op
	UnaryOp     // unary_op
	Number      // number

	// Types.
	PrimitiveType // primitive_type
	ArrayType     // array_type
	NamedType     // named_type
	numKinds
)

var kindNames = [numKinds]string{
	Invalid:        "invalid",
	Program:        "program",
	Block:          "block",
	LabelDecl:      "label_decl",
	TypeDecl:       "type_decl",
	TypeDef:        "type_def",
	VarDecl:        "var_decl",
	VarDeclGroup:   "var_decl_group",
	IdentList:      "identifier_list",
	FunctionDecl:   "function",
	ProcedureDecl:  "procedure",
	ParamList:      "param_list",
	ParamGroup:     "param_group",
	EmptyParamList: "empty_param_list",
	StmtList:       "statement_list",
	LabeledStmt:    "labeled_statement",
	Compound:       "compound",
	If:             "if",
	While:          "while",
	Goto:           "goto",
	Assign:         "assignment",
	ReturnAssign:   "return_assignment",
	Call:           "call",
	ArgList:        "arg_list",
	Ident:          "identifier",
	ArrayAccess:    "array_access",
	BinaryOp:       "binary_op",
	UnaryOp:        "unary_op",
	Number:         "number",
	PrimitiveType:  "primitive_type",
	ArrayType:      "array_type",
	NamedType:      "named_type",
}

func (k Kind) String() string {
	if k < 0 || k >= numKinds {
		return "Kind(" + strconv.Itoa(int(k)) + ")"
	}
	return kindNames[k]
}

// IsRoutine reports whether k declares a function or procedure.
func (k Kind) IsRoutine() bool { return k == FunctionDecl || k == ProcedureDecl }

// IsType reports whether k is a type denoter.
func (k Kind) IsType() bool { return k >= PrimitiveType && k <= NamedType }

// IsStatement reports whether k may appear as an element of a statement list.
func (k Kind) IsStatement() bool { return k >= LabeledStmt && k <= Call }

// Node is an element of the syntax tree. A node owns its children: the tree
// never shares a node between two parents and has no back edges.
//
// Value holds the name, operator or literal text of the node and is empty
// for purely structural nodes. The meaning of each child position is fixed
// per kind:
//
//	Program       [Block] or [IdentList, Block]; Value is the program name
//	Block         LabelDecl? TypeDecl? VarDecl? (FunctionDecl|ProcedureDecl)* StmtList
//	LabelDecl     Number...
//	TypeDecl      TypeDef...; TypeDef has one type child, Value is the name
//	VarDecl       VarDeclGroup...; VarDeclGroup is [IdentList, type]
//	FunctionDecl  [ParamList|EmptyParamList, type, Block]
//	ProcedureDecl [ParamList|EmptyParamList, Block]
//	ParamGroup    [IdentList, type]; Value is "var" for reference parameters
//	LabeledStmt   [statement]; Value is the label
//	Compound      [StmtList]
//	If            [cond, then] or [cond, then, else]
//	While         [cond, body]
//	Goto          no children; Value is the target label
//	Assign        [target, expr]; ReturnAssign has the same shape
//	Call          [] or [ArgList]; Value is the callee
//	ArrayAccess   [Ident, index]; Value is the array name
//	BinaryOp      [left, right]; UnaryOp is [operand]
//	ArrayType     [Number, Number, element type]
type Node struct {
	Kind     Kind    `yaml:"kind"`
	Value    string  `yaml:"value,omitempty"`
	Line     int     `yaml:"line"`
	Children []*Node `yaml:"children,omitempty"`
}

// New returns a node of the given kind which takes ownership of children.
func New(kind Kind, value string, line int, children ...*Node) *Node {
	return &Node{Kind: kind, Value: value, Line: line, Children: children}
}

// Add appends children to n and returns n.
func (n *Node) Add(children ...*Node) *Node {
	n.Children = append(n.Children, children...)
	return n
}

// Child returns the i'th child of n or nil if there is no such child.
func (n *Node) Child(i int) *Node {
	if n == nil || i < 0 || i >= len(n.Children) {
		return nil
	}
	return n.Children[i]
}

// Last returns the last child of n or nil if n has no children.
func (n *Node) Last() *Node {
	if n == nil || len(n.Children) == 0 {
		return nil
	}
	return n.Children[len(n.Children)-1]
}

// Find returns the first direct child of n with the given kind.
func (n *Node) Find(kind Kind) *Node {
	if n == nil {
		return nil
	}
	for _, c := range n.Children {
		if c.Kind == kind {
			return c
		}
	}
	return nil
}

func (n *Node) String() string {
	return string(n.AppendString(nil))
}

// AppendString appends the one-line summary "kind (value)" of n to dst.
func (n *Node) AppendString(dst []byte) []byte {
	if n == nil {
		return append(dst, "<nil>"...)
	}
	dst = append(dst, n.Kind.String()...)
	if n.Value != "" {
		dst = append(dst, " ("...)
		dst = append(dst, n.Value...)
		dst = append(dst, ')')
	}
	return dst
}
