package display

import (
	"fmt"
	"io"
	"strings"

	"github.com/pterm/pterm"

	"github.com/teranos/chartparse/syn/chart"
	"github.com/teranos/chartparse/syn/parser"
)

// View is the JSON shape of a parse: the result plus the fragment pieces
// with gaps grouped and trees rendered.
type View struct {
	RunID string `json:"run_id,omitempty"`
	Text  string `json:"text"`
	*parser.Result
	Pieces []PieceView `json:"pieces,omitempty"`
}

// PieceView is one fragment position or one run of gap bytes.
type PieceView struct {
	Span  chart.Span `json:"span"`
	Gap   bool       `json:"gap,omitempty"`
	Text  string     `json:"text"`
	Trees []string   `json:"trees,omitempty"`
}

// NewView builds the JSON view of res.
func NewView(runID string, res *parser.Result) View {
	v := View{RunID: runID, Result: res}
	if res == nil || res.Chart == nil {
		return v
	}
	c := res.Chart
	v.Text = c.Text()

	for _, p := range parser.GroupGaps(res.Fragments) {
		pv := PieceView{Span: p.Span, Gap: p.Gap()}
		if p.Gap() {
			pv.Text = parser.GapText(c, p)
		} else {
			pv.Text = c.SpanText(p.Span)
			for _, id := range p.Nodes {
				pv.Trees = append(pv.Trees, c.Bracket(id))
			}
		}
		v.Pieces = append(v.Pieces, pv)
	}
	return v
}

// nodeLabel renders "Z[0,12] 1.00", with the word for leaves.
func nodeLabel(c *chart.Chart, n *chart.Node) string {
	label := fmt.Sprintf("%s%s %.2f", pterm.LightCyan(fmt.Sprintf("%c", n.Feature.Code())), n.Span, n.Score)
	if n.Leaf() {
		word := c.SpanText(n.Span)
		if word == "" && n.Lex != nil {
			word = n.Lex.Word
		}
		label += " " + pterm.Green(word)
	}
	return label
}

func treeNode(c *chart.Chart, n *chart.Node) pterm.TreeNode {
	tn := pterm.TreeNode{Text: nodeLabel(c, n)}
	for _, child := range []*chart.Node{c.First(n), c.Second(n)} {
		if child != nil {
			tn.Children = append(tn.Children, treeNode(c, child))
		}
	}
	return tn
}

// Tree renders the tree under id.
func Tree(c *chart.Chart, id chart.NodeID) (string, error) {
	n := c.Node(id)
	if n == nil {
		return "", nil
	}
	return pterm.DefaultTree.WithRoot(pterm.TreeNode{Children: []pterm.TreeNode{treeNode(c, n)}}).Srender()
}

// Fragments renders one line per piece, gaps in gray. Gaps made only of
// newlines are not echoed.
func Fragments(c *chart.Chart, pieces []parser.Piece) string {
	var b strings.Builder
	for _, p := range parser.GroupGaps(pieces) {
		if p.Gap() {
			text := parser.GapText(c, p)
			if strings.TrimSpace(text) == "" {
				continue
			}
			fmt.Fprintf(&b, "%s %s %q\n", pterm.Gray("gap"), p.Span, text)
			continue
		}
		var trees []string
		for _, id := range p.Nodes {
			trees = append(trees, c.Bracket(id))
		}
		fmt.Fprintf(&b, "%s %s %s\n", pterm.Yellow("fragment"), p.Span, strings.Join(trees, " | "))
	}
	return b.String()
}

// Result writes a human-readable rendering of res.
func Result(w io.Writer, res *parser.Result) error {
	c := res.Chart
	state := res.State.String()
	if res.State == parser.Spanned {
		state = pterm.Green(state)
	} else {
		state = pterm.Yellow(state)
	}
	fmt.Fprintf(w, "%s %s  passes=%d nodes=%d", state, res.Span, res.Passes, res.Nodes)
	if res.BudgetStopped {
		fmt.Fprint(w, pterm.Red("  budget exhausted"))
	}
	fmt.Fprintln(w)

	for _, m := range res.Untranslated {
		fmt.Fprintf(w, "%s %s %q\n", pterm.Gray("untranslated"), m, c.SpanText(m))
	}

	for _, s := range res.Sentences {
		if !s.Accepted {
			continue
		}
		tree, err := Tree(c, s.ID)
		if err != nil {
			return err
		}
		fmt.Fprint(w, tree)
	}

	if len(res.Fragments) > 0 {
		fmt.Fprint(w, Fragments(c, res.Fragments))
	}
	return nil
}
