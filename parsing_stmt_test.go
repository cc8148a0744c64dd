package pascal

import (
	"strings"
	"testing"

	"github.com/soypat/go-pascal/ast"
)

func TestParseStatementShapes(t *testing.T) {
	tests := []struct {
		name string
		body string // statements of the main block, x and y declared as integers.
		want string // dump of the statement list.
	}{
		{
			name: "empty",
			body: "",
			want: "+-- statement_list\n",
		},
		{
			name: "trailing semicolon",
			body: "x := 1;",
			want: `+-- statement_list
   +-- assignment
      +-- identifier (x)
      +-- number (1)
`,
		},
		{
			name: "precedence",
			body: "x := 1 + 2 * y",
			want: `+-- statement_list
   +-- assignment
      +-- identifier (x)
      +-- binary_op (+)
         +-- number (1)
         +-- binary_op (*)
            +-- number (2)
            +-- identifier (y)
`,
		},
		{
			name: "left associative",
			body: "x := x - y - 1",
			want: `+-- statement_list
   +-- assignment
      +-- identifier (x)
      +-- binary_op (-)
         +-- binary_op (-)
            +-- identifier (x)
            +-- identifier (y)
         +-- number (1)
`,
		},
		{
			name: "unary sign applies to term",
			body: "x := -x * 2",
			want: `+-- statement_list
   +-- assignment
      +-- identifier (x)
      +-- unary_op (-)
         +-- binary_op (*)
            +-- identifier (x)
            +-- number (2)
`,
		},
		{
			name: "logic",
			body: "if not x or y and x = 1 then y := 0 else y := 1",
			want: `+-- statement_list
   +-- if
      +-- binary_op (or)
         +-- unary_op (not)
            +-- identifier (x)
         +-- binary_op (and)
            +-- identifier (y)
            +-- binary_op (=)
               +-- identifier (x)
               +-- number (1)
      +-- assignment
         +-- identifier (y)
         +-- number (0)
      +-- assignment
         +-- identifier (y)
         +-- number (1)
`,
		},
		{
			name: "while compound",
			body: "while x < 10 do begin x := x + 1; end",
			want: `+-- statement_list
   +-- while
      +-- binary_op (<)
         +-- identifier (x)
         +-- number (10)
      +-- compound
         +-- statement_list
            +-- assignment
               +-- identifier (x)
               +-- binary_op (+)
                  +-- identifier (x)
                  +-- number (1)
`,
		},
		{
			name: "calls",
			body: "write(x, y + 1); read(x); p",
			want: `+-- statement_list
   +-- call (write)
      +-- arg_list
         +-- identifier (x)
         +-- binary_op (+)
            +-- identifier (y)
            +-- number (1)
   +-- call (read)
      +-- arg_list
         +-- identifier (x)
   +-- call (p)
`,
		},
		{
			name: "labels",
			body: "7: x := 1; goto 7",
			want: `+-- statement_list
   +-- labeled_statement (7)
      +-- assignment
         +-- identifier (x)
         +-- number (1)
   +-- goto (7)
`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := "program T; label 7; var x, y: integer; begin " + tt.body + " end."
			root, err := ParseProgram(scan(t, src))
			if err != nil {
				t.Fatal(err)
			}
			got := dump(t, root.Find(ast.Block).Find(ast.StmtList))
			if got != tt.want {
				t.Errorf("mismatch\nGot:\n%s\nWant:\n%s", got, tt.want)
			}
		})
	}
}

func TestStatementErrors(t *testing.T) {
	tests := []struct {
		body    string
		wantErr string
	}{
		{"if x then", "expected a statement after 'then'"},
		{"if x y := 1", "expected 'then' after the 'if' condition"},
		{"while x y := 1", "expected 'do' after the 'while' condition"},
		{"while x do", "expected a statement after 'do'"},
		{"goto x", "expected a label number after 'goto'"},
		{"goto 8", "'goto' to label '8' which was not declared"},
		{"7: ", "expected a statement after label '7'"},
		{"7 x := 1", "invalid or unexpected statement"},
		{"x := 1;; y := 2", "invalid or unexpected statement"},
		{"begin x := 1 else", "expected 'end' to close the compound statement"},
		{"x = 1", "expected ';' between statements"},
		{"x[1 := 2", "expected ']' to close the array index"},
		{"x :=", "invalid factor"},
	}
	for _, tt := range tests {
		src := "program T; label 7; var x, y: integer; begin " + tt.body + " end."
		_, err := ParseProgram(scan(t, src))
		if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
			t.Errorf("%q: expected error containing %q, got %v", tt.body, tt.wantErr, err)
		}
	}
}
