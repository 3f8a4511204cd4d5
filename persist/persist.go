// Package persist provides an opaque, self-contained save/load round
// trip for a *partition.Partitioner: the on-disk format is a gob-encoded
// blob carrying the K Huffman arenas (with their reverse indices and
// full_code flags), the tail-code assignments, and the WordGraph edges
// Encode relies on. Save/Load is the only contract that matters —
// load(save(p)) must behave identically to p for all subsequent
// Encode/Decode calls.
package persist

import (
	"bytes"
	"encoding/gob"
	"io"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/abj1210/zencoder/huffman"
	"github.com/abj1210/zencoder/partition"
	"github.com/abj1210/zencoder/wordgraph"
)

// Header precedes the partitioner payload in a saved blob. BuildID lets
// two blobs built from different corpus runs be told apart even if their
// vocabularies happen to coincide.
type Header struct {
	BuildID   uuid.UUID
	TreeCount int
}

// blob is the full gob-encoded unit: header, trees, and graph.
type blob struct {
	Header Header
	Trees  []*huffman.Tree
	Graph  *wordgraph.WordGraph
}

// Save writes an opaque, self-contained encoding of p to w.
func Save(w io.Writer, p *partition.Partitioner) error {
	b := blob{
		Header: Header{BuildID: uuid.New(), TreeCount: len(p.Trees)},
		Trees:  p.Trees,
		Graph:  p.Graph,
	}
	if err := gob.NewEncoder(w).Encode(b); err != nil {
		return errors.Wrap(err, "persist: encoding partitioner")
	}
	return nil
}

// Load reconstructs a Partitioner from a blob written by Save.
func Load(r io.Reader) (*partition.Partitioner, error) {
	var b blob
	if err := gob.NewDecoder(r).Decode(&b); err != nil {
		return nil, errors.Wrap(err, "persist: decoding partitioner")
	}
	return &partition.Partitioner{Trees: b.Trees, Graph: b.Graph}, nil
}

// SaveBytes is a convenience wrapper around Save for callers that want
// the blob as a byte slice rather than streaming it to a writer.
func SaveBytes(p *partition.Partitioner) ([]byte, error) {
	var buf bytes.Buffer
	if err := Save(&buf, p); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// LoadBytes is the inverse of SaveBytes.
func LoadBytes(data []byte) (*partition.Partitioner, error) {
	return Load(bytes.NewReader(data))
}
