// Package kicad imports KiCad 6+ board files into interactive BOM documents.
// Parsing is a bounded subset of the .kicad_pcb format: enough to extract the
// title block, the copper and outline geometry, and the footprints with their
// pads. Unknown constructs are skipped.
package kicad

import (
	"fmt"
	"io"
	"strconv"
)

// Node is one parsed s-expression: either an atom (symbol or quoted string)
// or a parenthesized list.
type Node struct {
	atom     string
	children []Node
	list     bool
}

// parseSexp reads all top-level s-expressions from r.
func parseSexp(r io.Reader) ([]Node, error) {
	lex := newLexer(r)
	var nodes []Node
	for {
		tok, err := lex.next()
		if err != nil {
			return nil, err
		}
		if tok.kind == tokenEOF {
			return nodes, nil
		}
		node, err := parseNode(lex, tok)
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, node)
	}
}

func parseNode(lex *lexer, tok token) (Node, error) {
	switch tok.kind {
	case tokenAtom, tokenString:
		return Node{atom: tok.value}, nil
	case tokenOpen:
		node := Node{list: true}
		for {
			tok, err := lex.next()
			if err != nil {
				return Node{}, err
			}
			switch tok.kind {
			case tokenClose:
				return node, nil
			case tokenEOF:
				return Node{}, fmt.Errorf("unexpected EOF in list")
			}
			child, err := parseNode(lex, tok)
			if err != nil {
				return Node{}, err
			}
			node.children = append(node.children, child)
		}
	case tokenClose:
		return Node{}, fmt.Errorf("unexpected ')'")
	default:
		return Node{}, fmt.Errorf("unexpected token %v", tok.kind)
	}
}

// IsList reports whether the node is a parenthesized list.
func (n Node) IsList() bool {
	return n.list
}

// Name returns the keyword of a list node, i.e. its first atom child.
func (n Node) Name() string {
	if n.list && len(n.children) > 0 && !n.children[0].list {
		return n.children[0].atom
	}
	return ""
}

// Child returns the first sub-list whose keyword matches key.
func (n Node) Child(key string) (Node, bool) {
	for _, c := range n.children {
		if c.list && c.Name() == key {
			return c, true
		}
	}
	return Node{}, false
}

// ChildAll returns every sub-list whose keyword matches key, in file order.
func (n Node) ChildAll(key string) []Node {
	var out []Node
	for _, c := range n.children {
		if c.list && c.Name() == key {
			out = append(out, c)
		}
	}
	return out
}

// Str returns the atom at the given index. Index 0 is the keyword.
func (n Node) Str(index int) (string, error) {
	if !n.list {
		return "", fmt.Errorf("expected list, got atom %q", n.atom)
	}
	if index < 0 || index >= len(n.children) {
		return "", fmt.Errorf("index %d out of range (%d children)", index, len(n.children))
	}
	c := n.children[index]
	if c.list {
		return "", fmt.Errorf("expected atom at index %d, got list", index)
	}
	return c.atom, nil
}

// Float returns the atom at the given index parsed as a float.
func (n Node) Float(index int) (float64, error) {
	s, err := n.Str(index)
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("expected number at index %d: %w", index, err)
	}
	return v, nil
}

// Int returns the atom at the given index parsed as an integer.
func (n Node) Int(index int) (int, error) {
	s, err := n.Str(index)
	if err != nil {
		return 0, err
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("expected integer at index %d: %w", index, err)
	}
	return v, nil
}

// HasAtom reports whether any direct child atom equals value. Used for flag
// lists like (attr smd exclude_from_bom).
func (n Node) HasAtom(value string) bool {
	for _, c := range n.children {
		if !c.list && c.atom == value {
			return true
		}
	}
	return false
}

// Atoms returns all direct child atoms after the keyword. Used for value
// lists like (layers "F.Cu" "B.Cu").
func (n Node) Atoms() []string {
	var out []string
	for i, c := range n.children {
		if i == 0 || c.list {
			continue
		}
		out = append(out, c.atom)
	}
	return out
}
