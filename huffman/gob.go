package huffman

import (
	"bytes"
	"encoding/gob"

	"github.com/pkg/errors"
)

// wireNode and wireTree mirror Tree's unexported arena layout with
// exported fields, purely so package persist can gob-encode a Tree
// without huffman needing to export its internal representation.
type wireNode struct {
	Left, Right, Parent int
	Freq                int
	Word                rune
	IsLeaf              bool
	HasTailWord         bool
}

type wireTree struct {
	Nodes    []wireNode
	Root     int
	Index    map[rune]int
	FullCode bool
}

// GobEncode implements gob.GobEncoder.
func (t *Tree) GobEncode() ([]byte, error) {
	w := wireTree{Root: t.root, Index: t.index, FullCode: t.fullCode}
	w.Nodes = make([]wireNode, len(t.nodes))
	for i, n := range t.nodes {
		w.Nodes[i] = wireNode(n)
	}

	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(w); err != nil {
		return nil, errors.Wrap(err, "huffman: gob-encoding tree")
	}
	return buf.Bytes(), nil
}

// GobDecode implements gob.GobDecoder.
func (t *Tree) GobDecode(data []byte) error {
	var w wireTree
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&w); err != nil {
		return errors.Wrap(err, "huffman: gob-decoding tree")
	}

	t.root = w.Root
	t.index = w.Index
	t.fullCode = w.FullCode
	t.nodes = make([]node, len(w.Nodes))
	for i, n := range w.Nodes {
		t.nodes[i] = node(n)
	}
	return nil
}
