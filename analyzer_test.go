package pascal

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/soypat/go-pascal/ast"
	"github.com/soypat/go-pascal/symbol"
)

func analyzeSource(t *testing.T, src string) (*analyzer, error) {
	t.Helper()
	root, err := ParseProgram(scan(t, src))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	a := newAnalyzer(slog.New(slog.DiscardHandler))
	return a, a.Analyze(root)
}

func TestAnalyzeScopeBalance(t *testing.T) {
	srcs := []string{
		"program T; begin end.",
		"program T; var x: integer; procedure p(a: integer); var b: integer; begin b := a end; begin p(x) end.",
		"program T; function f(): integer; function g(): integer; begin g := 1 end; begin f := g() end; begin begin begin end end end.",
	}
	for _, src := range srcs {
		a, err := analyzeSource(t, src)
		if err != nil {
			t.Errorf("%s: %v", src, err)
			continue
		}
		if a.table.Depth() != 1 {
			t.Errorf("%s: expected only the global scope after analysis, got depth %d", src, a.table.Depth())
		}
		sym, ok := a.table.Lookup("T")
		if !ok || sym.Category != symbol.CatProgram {
			t.Errorf("%s: program should be declared globally, got %v", src, sym)
		}
	}
}

func TestAnalyzeScopeBalanceOnError(t *testing.T) {
	a, err := analyzeSource(t, "program T; procedure p; begin y := 1 end; begin end.")
	if err == nil {
		t.Fatal("expected error")
	}
	if a.table.Depth() != 1 {
		t.Errorf("scopes must be exited on error, got depth %d", a.table.Depth())
	}
}

func TestAnalyzeSemantics(t *testing.T) {
	tests := []struct {
		name     string
		src      string
		wantKind SemanticErrorKind // zero for success.
		wantName string
	}{
		{
			name: "shadowing in nested block",
			src:  "program T; var x: integer; procedure p; var x: real; begin x := 1 end; begin x := 2 end.",
		},
		{
			name: "parameter shadows global",
			src:  "program T; var x: integer; procedure p(x: boolean); begin x := 1 end; begin end.",
		},
		{
			name: "local variable may reuse parameter name",
			src:  "program T; procedure p(x: boolean); var x: integer; begin x := 1 end; begin end.",
		},
		{
			name: "recursive function",
			src:  "program T; function f(n: integer): integer; begin f := f(n - 1) end; begin end.",
		},
		{
			name: "named and array types",
			src:  "program T; type n = integer; v = array [1..4] of n; var a: v; begin a[1] := 2 end.",
		},
		{
			name:     "duplicate routine",
			src:      "program T; procedure p; begin end; procedure p; begin end; begin end.",
			wantKind: DuplicateDeclaration,
			wantName: "p",
		},
		{
			name:     "variable clashes with routine",
			src:      "program T; var p: integer; procedure p; begin end; begin end.",
			wantKind: DuplicateDeclaration,
			wantName: "p",
		},
		{
			name:     "duplicate type",
			src:      "program T; type a = integer; a = real; begin end.",
			wantKind: DuplicateDeclaration,
			wantName: "a",
		},
		{
			name:     "undeclared in expression",
			src:      "program T; var x: integer; begin x := x + z end.",
			wantKind: UndeclaredIdentifier,
			wantName: "z",
		},
		{
			name:     "undeclared call argument",
			src:      "program T; begin write(q) end.",
			wantKind: UndeclaredIdentifier,
			wantName: "q",
		},
		{
			name:     "undeclared in condition",
			src:      "program T; begin while c do write() end.",
			wantKind: UndeclaredIdentifier,
			wantName: "c",
		},
		{
			name:     "parameter not visible outside",
			src:      "program T; procedure p(a: integer); begin end; begin a := 1 end.",
			wantKind: UndeclaredIdentifier,
			wantName: "a",
		},
		{
			name:     "variable used as type",
			src:      "program T; var x: integer; y: x; begin end.",
			wantKind: UnknownType,
			wantName: "x",
		},
		{
			name:     "unknown array element type",
			src:      "program T; var a: array [1..2] of thing; begin end.",
			wantKind: UnknownType,
			wantName: "thing",
		},
		{
			name:     "unknown function result type",
			src:      "program T; function f(): thing; begin end; begin end.",
			wantKind: UnknownType,
			wantName: "thing",
		},
		{
			name:     "unknown parameter type",
			src:      "program T; procedure p(a: thing); begin end; begin end.",
			wantKind: UnknownType,
			wantName: "thing",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := analyzeSource(t, tt.src)
			if tt.wantKind == 0 {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			var sem *SemanticError
			if !errors.As(err, &sem) {
				t.Fatalf("expected SemanticError, got %v", err)
			}
			if sem.Kind != tt.wantKind || sem.Name != tt.wantName {
				t.Errorf("expected %v %q, got %v %q", tt.wantKind, tt.wantName, sem.Kind, sem.Name)
			}
			if !strings.HasPrefix(err.Error(), "Erro Semantico na linha ") {
				t.Errorf("unexpected format %q", err.Error())
			}
		})
	}
}

func TestResolveTypeNames(t *testing.T) {
	a := newAnalyzer(slog.New(slog.DiscardHandler))
	a.table.Declare(symbol.Symbol{Name: "n", Category: symbol.CatType, Type: "integer"})
	arr := ast.New(ast.ArrayType, "", 1,
		ast.New(ast.Number, "1", 1),
		ast.New(ast.Number, "10", 1),
		ast.New(ast.NamedType, "n", 1))
	got, err := a.resolveType(arr)
	if err != nil {
		t.Fatal(err)
	}
	if want := "array[1..10] of integer"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
	_, err = a.resolveType(ast.New(ast.PrimitiveType, "numero", 4))
	var sem *SemanticError
	if !errors.As(err, &sem) || sem.Kind != UnknownType || sem.Line != 4 {
		t.Errorf("expected UnknownType on line 4, got %v", err)
	}
}

func TestRunDeclarations(t *testing.T) {
	src := `program T;
var x: integer;
procedure p(a: boolean);
var b: real;
  function q(): string;
  begin q := 0 end;
begin end;
begin end.`
	run := NewRun(nil)
	if _, err := run.Compile(scan(t, src)); err != nil {
		t.Fatal(err)
	}
	type decl struct {
		owner string
		depth int
		name  string
		cat   symbol.Category
	}
	want := []decl{
		{"", 1, "T", symbol.CatProgram},
		{"T", 2, "x", symbol.CatVariable},
		{"T", 2, "p", symbol.CatProcedure},
		{"T.p", 3, "a", symbol.CatVariable},
		{"T.p", 4, "b", symbol.CatVariable},
		{"T.p", 4, "q", symbol.CatFunction},
	}
	got := run.Declarations()
	if len(got) != len(want) {
		t.Fatalf("expected %d declarations, got %d: %v", len(want), len(got), got)
	}
	for i, w := range want {
		g := got[i]
		if g.Owner != w.owner || g.Depth != w.depth || g.Symbol.Name != w.name || g.Symbol.Category != w.cat {
			t.Errorf("declaration %d: got %s %d %v, want %+v", i, g.Owner, g.Depth, g.Symbol, w)
		}
	}

	run = NewRun(nil)
	_, err := run.Compile(scan(t, "program T; var x, x: integer; begin end."))
	if err == nil {
		t.Fatal("expected duplicate error")
	}
	if n := len(run.Declarations()); n != 2 {
		t.Errorf("expected the declarations before the error, got %d", n)
	}
}

func TestAnalyzeNil(t *testing.T) {
	if err := Analyze(nil); err == nil {
		t.Error("expected error for nil tree")
	}
}

func TestRunLogsCarryRunID(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	run := NewRun(logger)
	if _, err := run.Compile(scan(t, "program T; var x: integer; begin x := 1 end.")); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) < 4 {
		t.Fatalf("expected parse and analysis records, got %d lines", len(lines))
	}
	for _, line := range lines {
		var rec map[string]any
		if err := json.Unmarshal([]byte(line), &rec); err != nil {
			t.Fatal(err)
		}
		if rec["run_id"] != run.ID() {
			t.Errorf("record without run id: %s", line)
		}
	}
	if other := NewRun(nil); other.ID() == run.ID() {
		t.Error("runs should get distinct ids")
	}
}
