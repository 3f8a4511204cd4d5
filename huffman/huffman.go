// Package huffman builds one Huffman tree per Partitioner dictionary and
// provides the two operations the Partitioner drives it with: a
// speculative "what word does this bit prefix spell" lookup (CutWord)
// and a "what bits spell this word" lookup (BitsFor). Trees are stored
// as an index-based arena rather than a pointer graph: it serializes
// trivially (see package persist) and has no cycles to worry about. The
// build itself is a container/heap-based merge with a deterministic
// seq tie-break, so the same input order always yields the same tree.
package huffman

import (
	"container/heap"

	"github.com/pkg/errors"

	"github.com/abj1210/zencoder/bitstream"
)

// ErrEmptyFrequencies is returned by Build when given no words at all.
var ErrEmptyFrequencies = errors.New("huffman: cannot build a tree from zero words")

const noChild = -1

// node is one arena slot: a leaf (Left == Right == noChild) holding a
// word and frequency, or an internal node (always exactly two children)
// holding the sum of its children's frequencies and, once
// FillTailCode has run, optionally a tail word of its own.
type node struct {
	Left, Right, Parent int
	Freq                int
	Word                rune
	IsLeaf              bool
	HasTailWord         bool
}

// WordFreq pairs a word with its frequency for Build. Callers that need
// cross-process-reproducible trees (see package partition) must pass
// entries in a fixed, caller-chosen order: ties in frequency are broken
// strictly by position in this slice, never by map iteration order.
type WordFreq struct {
	Word rune
	Freq int
}

// Tree is a built Huffman tree over a fixed word set. It is immutable
// after Build/FillTailCode and safe to share for read-only use (CutWord,
// BitsFor) across goroutines.
type Tree struct {
	nodes    []node
	root     int
	index    map[rune]int // word -> leaf or tail-assigned internal node index
	fullCode bool
}

// FullCode reports whether FillTailCode has been called on this tree.
func (t *Tree) FullCode() bool {
	return t.fullCode
}

// Words reports every leaf word known to this tree, for diagnostics such
// as checking that trees do not share leaf words. Tail-code words are not
// included.
func (t *Tree) Words() []rune {
	var out []rune
	for _, n := range t.nodes {
		if n.IsLeaf {
			out = append(out, n.Word)
		}
	}
	return out
}

// Build constructs a Huffman tree from freqs. Ties in frequency during
// the priority-queue merge are broken by each entry's position in freqs,
// so that the same (already-ordered) input always yields the same tree,
// which is what lets a saved and reloaded Partitioner interoperate with
// the process that built it.
func Build(freqs []WordFreq) (*Tree, error) {
	if len(freqs) == 0 {
		return nil, ErrEmptyFrequencies
	}

	t := &Tree{index: make(map[rune]int, len(freqs)), nodes: make([]node, 0, 2*len(freqs))}
	pq := make(priorityQueue, 0, len(freqs))
	for i, wf := range freqs {
		idx := t.newLeaf(wf.Word, wf.Freq)
		pq = append(pq, &pqItem{nodeIdx: idx, freq: wf.Freq, seq: i})
	}
	heap.Init(&pq)

	seq := len(freqs)
	for len(pq) > 1 {
		left := heap.Pop(&pq).(*pqItem)
		right := heap.Pop(&pq).(*pqItem)
		parent := t.newInternal(left.nodeIdx, right.nodeIdx)
		heap.Push(&pq, &pqItem{nodeIdx: parent, freq: t.nodes[parent].Freq, seq: seq})
		seq++
	}
	t.root = pq[0].nodeIdx

	for i, n := range t.nodes {
		if n.IsLeaf {
			t.index[n.Word] = i
		}
	}
	return t, nil
}

func (t *Tree) newLeaf(word rune, freq int) int {
	t.nodes = append(t.nodes, node{Left: noChild, Right: noChild, Parent: noChild, Freq: freq, Word: word, IsLeaf: true})
	return len(t.nodes) - 1
}

func (t *Tree) newInternal(left, right int) int {
	freq := t.nodes[left].Freq + t.nodes[right].Freq
	idx := len(t.nodes)
	t.nodes = append(t.nodes, node{Left: left, Right: right, Parent: noChild, Freq: freq})
	t.nodes[left].Parent = idx
	t.nodes[right].Parent = idx
	return idx
}

// FillTailCode performs a depth-first traversal from the root using a
// LIFO stack seeded with the root. At each pop, if the popped node is
// internal, it is assigned the next word from words (advancing an
// internal cursor) and registered in the reverse index; then its left
// child is pushed, then its right child, so the right child is popped
// before the left on the next iteration — this exact ordering is part
// of the persisted, cross-version tail-code contract and must not be
// reordered.
//
// words must have at least as many entries as the tree has internal
// nodes; extra entries are ignored.
func (t *Tree) FillTailCode(words []rune) {
	stack := []int{t.root}
	wi := 0
	for len(stack) > 0 {
		idx := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		n := &t.nodes[idx]
		if n.IsLeaf {
			continue
		}
		n.Word = words[wi]
		n.HasTailWord = true
		t.index[words[wi]] = idx
		wi++
		stack = append(stack, n.Left, n.Right)
	}
	t.fullCode = true
}

// BitsFor returns the root-to-node path for word as a BitStream (false
// for each left-child step, true for each right-child step), or nil if
// word is not in this tree's reverse index. For a tail-assigned internal
// node this is a strict prefix of some leaf's code.
func (t *Tree) BitsFor(word rune) *bitstream.BitStream {
	idx, ok := t.index[word]
	if !ok {
		return nil
	}
	var path []bool
	for idx != t.root {
		parent := t.nodes[idx].Parent
		path = append(path, t.nodes[parent].Right == idx)
		idx = parent
	}
	s := bitstream.New()
	for i := len(path) - 1; i >= 0; i-- {
		s.Push(path[i])
	}
	return s
}

// CutWord performs a speculative lookup: it walks from the root,
// popping bits from s into a local restore stack, and replays that
// stack back onto s before returning, so s is left exactly as found
// regardless of outcome. Bits are only ever actually consumed by the
// caller, via s.Cut against BitsFor(returned word).
//
// If the walk reaches a leaf, that leaf's word is returned. If the
// stream runs out of bits while still on an internal node: when
// allowTail is true and the tree is fully coded, the current internal
// node's tail word is returned; otherwise CutWord returns ok=false.
func (t *Tree) CutWord(s *bitstream.BitStream, allowTail bool) (word rune, ok bool) {
	idx := t.root
	var popped []bool
	restore := func() {
		for i := len(popped) - 1; i >= 0; i-- {
			s.Recover(popped[i])
		}
	}

	for !t.nodes[idx].IsLeaf {
		if s.IsEmpty() {
			restore()
			if allowTail && t.fullCode {
				return t.nodes[idx].Word, true
			}
			return 0, false
		}
		bit, _ := s.Pop()
		popped = append(popped, bit)
		if bit {
			idx = t.nodes[idx].Right
		} else {
			idx = t.nodes[idx].Left
		}
	}
	restore()
	return t.nodes[idx].Word, true
}

// pqItem is one entry in the build-time priority queue: a candidate
// node keyed by frequency, with seq breaking ties deterministically by
// original input order.
type pqItem struct {
	nodeIdx int
	freq    int
	seq     int
}

type priorityQueue []*pqItem

func (pq priorityQueue) Len() int { return len(pq) }

func (pq priorityQueue) Less(i, j int) bool {
	if pq[i].freq != pq[j].freq {
		return pq[i].freq < pq[j].freq
	}
	return pq[i].seq < pq[j].seq
}

func (pq priorityQueue) Swap(i, j int) { pq[i], pq[j] = pq[j], pq[i] }

func (pq *priorityQueue) Push(x interface{}) {
	*pq = append(*pq, x.(*pqItem))
}

func (pq *priorityQueue) Pop() interface{} {
	old := *pq
	n := len(old)
	item := old[n-1]
	*pq = old[:n-1]
	return item
}
