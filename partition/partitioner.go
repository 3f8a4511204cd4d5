// Package partition orchestrates K Huffman trees plus a tail reserve
// into the Encode/Decode pair that is the heart of the codec: Encode
// turns a bit stream into a sequence of words (Han code points) using a
// weighted random draw over the word graph's outgoing edges, and Decode
// reverses it by pure lookup.
package partition

import (
	"math/rand"
	"sort"

	"github.com/pkg/errors"

	"github.com/abj1210/zencoder/bitstream"
	"github.com/abj1210/zencoder/huffman"
	"github.com/abj1210/zencoder/wordgraph"
)

// DefaultTreeCount is the reference K value.
const DefaultTreeCount = 12

// ErrVocabularyTooSmall is returned by Build when the graph's
// vocabulary cannot support K trees of at least two leaves plus a tail
// reserve.
var ErrVocabularyTooSmall = errors.New("partition: vocabulary too small for the requested tree count")

// ErrDecodeUnknownWord signals that Decode encountered a word absent
// from every tree. Decode itself never returns this as a Go error value
// (it returns a nil BitStream, the "no result" sentinel described in the
// spec's error design); it is exported for callers that wrap Decode and
// want an error value for that case.
var ErrDecodeUnknownWord = errors.New("partition: word not recognized by any tree")

// Rand is the weighted-draw source Encode uses. *math/rand.Rand
// satisfies it directly; tests may inject a deterministic
// implementation (see DeterministicRand) for reproducible output.
type Rand interface {
	Intn(n int) int
}

// Partitioner is the immutable K-tree ensemble plus the WordGraph it was
// built from. Once built it is safe to share across goroutines, provided
// each Encode/Decode call uses its own BitStream.
type Partitioner struct {
	Trees []*huffman.Tree
	Graph *wordgraph.WordGraph
}

// Build partitions the graph's vocabulary into treeCount disjoint
// Huffman dictionaries plus a tail reserve, building one tree per
// dictionary and filling tree 0's tail code from the reserve.
//
// The vocabulary is shuffled by rnd (a fresh, unbiased permutation each
// call) before slicing into blocks, exactly as the reference does; pass
// a seeded Rand for a reproducible partition in tests.
func Build(graph *wordgraph.WordGraph, treeCount int, rnd Rand) (*Partitioner, error) {
	vocab := graph.Vocabulary()
	sort.Slice(vocab, func(i, j int) bool { return vocab[i] < vocab[j] })
	perTree := len(vocab)/(treeCount+1) - 1
	if perTree < 2 {
		return nil, ErrVocabularyTooSmall
	}

	shuffle(vocab, rnd)

	trees := make([]*huffman.Tree, treeCount)
	for i := 0; i < treeCount; i++ {
		block := vocab[i*perTree : (i+1)*perTree]
		tr, err := huffman.Build(freqsFor(graph, block))
		if err != nil {
			return nil, errors.Wrapf(err, "partition: building tree %d", i)
		}
		trees[i] = tr
	}

	reserveStart := treeCount * perTree
	reserve := vocab[reserveStart : reserveStart+(perTree-1)]
	trees[0].FillTailCode(reserve)

	return &Partitioner{Trees: trees, Graph: graph}, nil
}

// freqsFor builds the (word, frequency) input for huffman.Build from a
// block of words, using each word's outgoing-edge total as its
// frequency, ordered by word value so the resulting tree is independent
// of map/vocabulary iteration order.
func freqsFor(graph *wordgraph.WordGraph, block []rune) []huffman.WordFreq {
	sorted := make([]rune, len(block))
	copy(sorted, block)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	out := make([]huffman.WordFreq, len(sorted))
	for i, w := range sorted {
		out[i] = huffman.WordFreq{Word: w, Freq: graph.Nodes[w].Total}
	}
	return out
}

// shuffle performs an in-place Fisher-Yates permutation of vocab using
// rnd as the source of randomness.
func shuffle(vocab []rune, rnd Rand) {
	for i := len(vocab) - 1; i > 0; i-- {
		j := rnd.Intn(i + 1)
		vocab[i], vocab[j] = vocab[j], vocab[i]
	}
}

// candidate is one tree's speculative offer during Encode's weighted
// draw: the word it would emit, the bits that word costs, and the
// weight to give it based on the word graph's edge from current.
type candidate struct {
	word   rune
	bits   *bitstream.BitStream
	weight int
}

// Encode drains s into a sequence of words. Each round, every tree is
// asked (non-destructively) what word it would spell from the remaining
// bits; the candidates are weighted by the word graph's edge from the
// previously emitted word (or 1, for the very first word, or for an
// unseen transition) and one is drawn uniformly over the total weight.
// The stream is then actually advanced by cutting the chosen word's own
// code off its head. When no tree offers a candidate, tree 0 is asked
// for its tail-code word, which is guaranteed to match any remaining
// bit suffix, and Encode terminates.
func (p *Partitioner) Encode(s *bitstream.BitStream, rnd Rand) []rune {
	var out []rune
	var current rune
	haveCurrent := false

	for {
		var candidates []candidate
		total := 0
		for _, tr := range p.Trees {
			word, ok := tr.CutWord(s, false)
			if !ok {
				continue
			}
			weight := 1
			if haveCurrent {
				weight = p.Graph.WeightOf(current, word, 1)
			}
			candidates = append(candidates, candidate{word: word, bits: tr.BitsFor(word), weight: weight})
			total += weight
		}

		if len(candidates) == 0 {
			word, _ := p.Trees[0].CutWord(s, true)
			out = append(out, word)
			return out
		}

		r := rnd.Intn(total)
		acc := 0
		var chosen candidate
		for _, c := range candidates {
			acc += c.weight
			if r < acc {
				chosen = c
				break
			}
		}

		out = append(out, chosen.word)
		current = chosen.word
		haveCurrent = true
		s.Cut(chosen.bits)
	}
}

// Decode recovers the bit stream that Encode would have to consume to
// produce words, by pure lookup: for each word, the first tree whose
// BitsFor recognizes it contributes its bit path. It returns nil
// — "no result" — if any word is not recognized by any tree; this is
// the only outcome for unrecognized input, never an error, so that a
// caller-facing UI can show a validation message rather than handle an
// exception.
func (p *Partitioner) Decode(words []rune) *bitstream.BitStream {
	out := bitstream.New()
	for _, w := range words {
		var bits *bitstream.BitStream
		for _, tr := range p.Trees {
			if b := tr.BitsFor(w); b != nil {
				bits = b
				break
			}
		}
		if bits == nil {
			return nil
		}
		out.Append(bits)
	}
	return out
}

// systemRand adapts *math/rand.Rand to the Rand interface; it is the
// production default used by callers that do not need determinism.
type systemRand struct{ r *rand.Rand }

// NewSystemRand returns a Rand backed by a fresh math/rand source seeded
// from the process-global source. The draw does not need to be cryptographically
// secure, only uniform over [0, n).
func NewSystemRand() Rand {
	return systemRand{r: rand.New(rand.NewSource(rand.Int63()))}
}

func (s systemRand) Intn(n int) int { return s.r.Intn(n) }
