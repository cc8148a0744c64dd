package ast

import (
	"bytes"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"
)

func TestFprint(t *testing.T) {
	var buf bytes.Buffer
	err := Fprint(&buf, sampleProgram())
	if err != nil {
		t.Fatalf("Fprint failed: %v", err)
	}
	want := `+-- program (P)
   +-- block
      +-- var_decl
         +-- var_decl_group
            +-- identifier_list
               +-- identifier (x)
            +-- primitive_type (integer)
      +-- statement_list
         +-- assignment
            +-- identifier (x)
            +-- number (5)
`
	if got := buf.String(); got != want {
		t.Errorf("Fprint mismatch\nGot:\n%s\nWant:\n%s", got, want)
	}
}

func TestEncodeYAML(t *testing.T) {
	var buf bytes.Buffer
	err := EncodeYAML(&buf, sampleProgram())
	if err != nil {
		t.Fatalf("EncodeYAML failed: %v", err)
	}
	output := buf.String()
	expected := []string{
		"kind: program",
		"value: P",
		"kind: primitive_type",
		"value: integer",
		"kind: assignment",
	}
	for _, exp := range expected {
		if !strings.Contains(output, exp) {
			t.Errorf("Output missing expected string %q\nGot:\n%s", exp, output)
		}
	}

	// Structural nodes carry no value key.
	var doc map[string]any
	if err := yaml.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatalf("output is not valid YAML: %v", err)
	}
	children, ok := doc["children"].([]any)
	if !ok || len(children) != 1 {
		t.Fatalf("Expected one child under program, got %v", doc["children"])
	}
	block := children[0].(map[string]any)
	if _, hasValue := block["value"]; hasValue {
		t.Errorf("block should omit empty value, got %v", block)
	}
	if block["kind"] != "block" {
		t.Errorf("Expected block kind, got %v", block["kind"])
	}
}
