// Package corpus ingests UTF-8 text files and yields their Han code
// points in file-then-line-then-code-point order, for use in building a
// wordgraph.WordGraph. File discovery accepts a directory (walked
// recursively for regular files) as well as doublestar glob patterns
// (e.g. "corpus/**/*.txt") and plain file paths.
package corpus

import (
	"bufio"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"unicode"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/pkg/errors"
)

// ErrNoMatches is returned by ResolvePaths when none of the given
// patterns match a file.
var ErrNoMatches = errors.New("corpus: no files matched the given patterns")

// ResolvePaths expands a list of directories, plain paths, and doublestar
// glob patterns into a sorted, deduplicated list of regular file paths.
// A directory argument is walked recursively; everything else is
// resolved as a doublestar glob pattern. Sorting by path gives a
// traversal order that is stable within a run, satisfying the "stable
// within one run" requirement on corpus traversal order.
func ResolvePaths(patterns []string) ([]string, error) {
	seen := make(map[string]bool)
	var out []string
	add := func(path string) {
		if !seen[path] {
			seen[path] = true
			out = append(out, path)
		}
	}

	for _, pattern := range patterns {
		info, err := os.Stat(pattern)
		if err == nil && info.IsDir() {
			walkErr := filepath.WalkDir(pattern, func(path string, d fs.DirEntry, err error) error {
				if err != nil {
					return err
				}
				if !d.IsDir() {
					add(path)
				}
				return nil
			})
			if walkErr != nil {
				return nil, errors.Wrapf(walkErr, "corpus: walking directory %q", pattern)
			}
			continue
		}

		matches, err := doublestar.FilepathGlob(pattern)
		if err != nil {
			return nil, errors.Wrapf(err, "corpus: bad glob pattern %q", pattern)
		}
		for _, m := range matches {
			mInfo, err := os.Stat(m)
			if err != nil || mInfo.IsDir() {
				continue
			}
			add(m)
		}
	}
	if len(out) == 0 {
		return nil, ErrNoMatches
	}
	sort.Strings(out)
	return out, nil
}

// Loader is a lazy iterator over the Han code points of an ordered list
// of files: file order first, then line order within a file, then
// code-point order within a line. Non-Han code points (punctuation,
// whitespace, digits, Latin letters, and anything else whose Unicode
// script property is not Han) are skipped silently.
type Loader struct {
	paths   []string
	fileIdx int
	reader  *bufio.Reader
	current *os.File
	pending []rune
	pendPos int
	err     error
}

// NewLoader returns a Loader over paths, read in the given order.
func NewLoader(paths []string) *Loader {
	return &Loader{paths: paths}
}

// Next returns the next Han code point in the stream. ok is false once
// every file has been exhausted; this is the loader's distinguishable
// end-of-stream signal. err is non-nil only on an I/O failure, in which
// case ok is also false.
func (l *Loader) Next() (r rune, ok bool, err error) {
	for {
		if l.pendPos < len(l.pending) {
			r = l.pending[l.pendPos]
			l.pendPos++
			return r, true, nil
		}
		if !l.fillLine() {
			if l.err != nil {
				return 0, false, l.err
			}
			return 0, false, nil
		}
	}
}

// fillLine advances to the next non-empty decoded line, across file
// boundaries as needed, populating l.pending with its Han code points.
// It returns false once there is nothing left to read in any file.
func (l *Loader) fillLine() bool {
	for {
		if l.current == nil {
			if l.fileIdx >= len(l.paths) {
				return false
			}
			f, err := os.Open(l.paths[l.fileIdx])
			l.fileIdx++
			if err != nil {
				l.err = errors.Wrapf(err, "corpus: opening %q", l.paths[l.fileIdx-1])
				return false
			}
			l.current = f
			l.reader = bufio.NewReader(f)
		}

		line, readErr := l.reader.ReadString('\n')
		if len(line) > 0 {
			l.pending = hanRunes(line)
			l.pendPos = 0
			if readErr == nil {
				return true
			}
		}
		if readErr != nil {
			l.current.Close()
			l.current = nil
			l.reader = nil
			if readErr != io.EOF {
				l.err = errors.Wrapf(readErr, "corpus: reading %q", l.paths[l.fileIdx-1])
				return false
			}
			if len(l.pending) > l.pendPos {
				return true
			}
			continue
		}
		if len(l.pending) > l.pendPos {
			return true
		}
	}
}

// hanRunes filters a line down to its Han-script code points, in order.
func hanRunes(line string) []rune {
	var out []rune
	for _, r := range line {
		if unicode.Is(unicode.Han, r) {
			out = append(out, r)
		}
	}
	return out
}

// BuildGraph drains l and records an edge for every consecutive pair of
// Han code points it yields, including across file boundaries: the last
// word of one file and the first word of the next still form a bigram.
// It returns a non-nil error only on I/O failure.
func BuildGraph(g WordGraphAdder, l *Loader) error {
	var prev rune
	havePrev := false
	for {
		r, ok, err := l.Next()
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		if havePrev {
			g.AddEdge(prev, r)
		}
		prev = r
		havePrev = true
	}
}

// WordGraphAdder is the subset of *wordgraph.WordGraph that BuildGraph
// needs, kept narrow so corpus does not import wordgraph just to name a
// concrete type in its own signature.
type WordGraphAdder interface {
	AddEdge(w1, w2 rune)
}
