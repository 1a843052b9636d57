package grammar

import (
	"bufio"
	"io"
	"os"
	"strings"
	"unicode"

	"github.com/teranos/chartparse/errors"
	"github.com/teranos/chartparse/logger"
	"github.com/teranos/chartparse/syn/feature"
)

// CompileStats summarizes a corpus compilation.
type CompileStats struct {
	Trees        int `json:"trees"`
	Observations int `json:"observations"`
	Bad          int `json:"bad"`
}

// tree is one bracketed list, or a bare word when label is empty and
// children is nil.
type tree struct {
	label    string
	word     string
	children []*tree
	line     int
}

func (n *tree) isList() bool {
	return n.word == ""
}

// CompileCorpus builds a new table from bracketed example trees.
func CompileCorpus(r io.Reader) (*Table, CompileStats, error) {
	t := New()
	stats, err := t.CompileCorpus(r)
	if err != nil {
		return nil, stats, err
	}
	return t, stats, nil
}

// CompileFile is CompileCorpus over a file on disk.
func CompileFile(path string) (*Table, CompileStats, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, CompileStats{}, errors.Wrapf(err, "failed to open corpus %s", path)
	}
	defer f.Close()

	t, stats, err := CompileCorpus(f)
	if err != nil {
		return nil, stats, errors.Wrapf(err, "corpus %s", path)
	}
	return t, stats, nil
}

// CompileCorpus adds every local rule instance found in r to t.
//
// Each labeled list whose first child is itself labeled contributes one
// observation (child1, child2 or NULL, label). A list whose first child is a
// word is a leaf. Lists with other than one or two children are counted as
// bad and skipped along with their subtrees.
func (t *Table) CompileCorpus(r io.Reader) (CompileStats, error) {
	var stats CompileStats

	trees, err := readTrees(r)
	if err != nil {
		return stats, err
	}

	log := logger.ComponentLogger("syn.grammar")
	for _, root := range trees {
		if !root.isList() {
			continue
		}
		stats.Trees++
		t.enterTree(root, &stats)
	}

	log.Infow("Compiled grammar corpus",
		"trees", stats.Trees,
		"observations", stats.Observations,
		"bad", stats.Bad,
		"rules", t.Len())
	return stats, nil
}

func labelFeature(n *tree) feature.Feature {
	if !n.isList() || n.label == "" {
		return feature.Null
	}
	return feature.Lookup(n.label[0])
}

func (t *Table) enterTree(n *tree, stats *CompileStats) {
	size := 1 + len(n.children)
	if size < 2 || size > 3 || n.label == "" {
		stats.Bad++
		logger.Debugw("Skipping malformed corpus list",
			logger.FieldLine, n.line,
			"label", n.label,
			"length", size)
		return
	}

	parent := feature.Lookup(n.label[0])
	left := labelFeature(n.children[0])
	if left == feature.Null {
		return
	}
	right := feature.Null
	if len(n.children) == 2 {
		right = labelFeature(n.children[1])
	}

	t.Train(left, right, parent)
	stats.Observations++

	for _, c := range n.children {
		if c.isList() {
			t.enterTree(c, stats)
		}
	}
}

// readTrees parses every top-level item in r. Lines starting with '#' or ';'
// are comments.
func readTrees(r io.Reader) ([]*tree, error) {
	p := &treeReader{}
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || text[0] == '#' || text[0] == ';' {
			continue
		}
		if err := p.feed(text, line); err != nil {
			return nil, err
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to read corpus")
	}
	if len(p.stack) > 0 {
		open := p.stack[len(p.stack)-1]
		return nil, errors.WithDetailf(
			errors.Wrapf(errors.ErrBadCorpus, "unclosed list opened on line %d", open.line),
			"label %q", open.label)
	}
	return p.roots, nil
}

type treeReader struct {
	stack    []*tree
	roots    []*tree
	expectLb bool
}

func (p *treeReader) add(n *tree) {
	if len(p.stack) == 0 {
		p.roots = append(p.roots, n)
		return
	}
	top := p.stack[len(p.stack)-1]
	top.children = append(top.children, n)
}

func (p *treeReader) feed(text string, line int) error {
	i := 0
	for i < len(text) {
		c := text[i]
		switch {
		case c == '[':
			n := &tree{line: line}
			p.add(n)
			p.stack = append(p.stack, n)
			p.expectLb = true
			i++
		case c == ']':
			if len(p.stack) == 0 {
				return errors.Wrapf(errors.ErrBadCorpus, "unbalanced ']' on line %d", line)
			}
			p.stack = p.stack[:len(p.stack)-1]
			p.expectLb = false
			i++
		case unicode.IsSpace(rune(c)):
			i++
		default:
			j := i
			for j < len(text) && text[j] != '[' && text[j] != ']' && !unicode.IsSpace(rune(text[j])) {
				j++
			}
			atom := text[i:j]
			i = j
			if p.expectLb {
				p.stack[len(p.stack)-1].label = atom
				p.expectLb = false
				continue
			}
			p.add(&tree{word: atom, line: line})
		}
	}
	return nil
}
