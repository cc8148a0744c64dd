package ast

import (
	"bufio"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Fprint writes the tree rooted at node to w, one node per line in
// depth-first order. Each line has the form "+-- kind (value)" and is
// indented three spaces per level of depth.
func Fprint(w io.Writer, node *Node) error {
	bw := bufio.NewWriter(w)
	var line []byte
	var err error
	var depth int
	Inspect(node, func(n *Node) bool {
		if n == nil {
			depth--
			return false
		}
		if err != nil {
			return false
		}
		line = line[:0]
		for i := 0; i < depth; i++ {
			line = append(line, "   "...)
		}
		line = append(line, "+-- "...)
		line = n.AppendString(line)
		line = append(line, '\n')
		_, err = bw.Write(line)
		depth++
		return true
	})
	if err != nil {
		return err
	}
	return bw.Flush()
}

// Print calls Fprint(os.Stdout, node) for debugging convenience.
func Print(node *Node) error {
	return Fprint(os.Stdout, node)
}

// MarshalYAML encodes a Kind by its dump name.
func (k Kind) MarshalYAML() (any, error) {
	return k.String(), nil
}

// EncodeYAML writes the tree rooted at node to w as a YAML document.
func EncodeYAML(w io.Writer, node *Node) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(node); err != nil {
		return err
	}
	return enc.Close()
}
