package driver

import (
	"fmt"
	"io"
	"sort"

	"github.com/dokelabs/dokearley/grammar"
)

// edge is a completed derivation in the chart: a production spanning from
// its origin set to finish. prod < 0 marks a token leaf.
type edge struct {
	prod   int
	finish int
}

const leafProd = -1

// tree is the single derivation the extractor picks. Leaves carry the
// matched token; inner nodes carry the production and one child per RHS slot.
type tree struct {
	prod     *grammar.Production
	tok      *Token
	children []*tree
}

// completedEdges collects every completed item, grouped by origin. Each
// group is ordered by the tie-breaking rule: earlier production first, then
// longer span first.
func (c *chart) completedEdges() [][]edge {
	edges := make([][]edge, len(c.sets))
	for finish, set := range c.sets {
		for _, item := range set.items {
			prod, _ := c.g.Production(item.prod)
			if item.dot == len(prod.RHS) {
				edges[item.origin] = append(edges[item.origin], edge{prod: item.prod, finish: finish})
			}
		}
	}
	for _, group := range edges {
		sort.Slice(group, func(i, j int) bool {
			if group[i].prod != group[j].prod {
				return group[i].prod < group[j].prod
			}
			return group[i].finish > group[j].finish
		})
	}
	return edges
}

func (c *chart) buildParseTree() *tree {
	edges := c.completedEdges()
	n := len(c.tokens)
	for _, e := range edges[0] {
		if e.finish != n {
			continue
		}
		prod, _ := c.g.Production(e.prod)
		if prod.LHS != c.start {
			continue
		}
		return c.buildNode(edges, 0, e)
	}
	return nil
}

func (c *chart) buildNode(edges [][]edge, start int, e edge) *tree {
	if e.prod == leafProd {
		return &tree{tok: c.tokens[start]}
	}
	prod, _ := c.g.Production(e.prod)
	spans, ok := c.decompose(edges, prod, start, e.finish)
	if !ok {
		// The recognizer accepted this item, so a decomposition must exist.
		panic(fmt.Sprintf("no decomposition for production %v over [%v, %v]", e.prod, start, e.finish))
	}
	children := make([]*tree, len(spans))
	for i, span := range spans {
		children[i] = c.buildNode(edges, span.start, span.edge)
	}
	return &tree{
		prod:     prod,
		children: children,
	}
}

type childSpan struct {
	start int
	edge  edge
}

// decompose splits [start, finish] into one span per RHS symbol such that
// every span has a matching derivation in the chart. Candidate edges are
// visited in tie-break order, so the first complete split wins.
func (c *chart) decompose(edges [][]edge, prod *grammar.Production, start, finish int) ([]childSpan, bool) {
	var dfs func(depth, cur int) ([]childSpan, bool)
	dfs = func(depth, cur int) ([]childSpan, bool) {
		if depth == len(prod.RHS) {
			if cur == finish {
				return nil, true
			}
			return nil, false
		}
		sym := prod.RHS[depth].Sym

		if sym.IsTerminal() {
			if cur < finish && cur < len(c.tokens) && tokenMatches(c.tokens[cur], sym) {
				if rest, ok := dfs(depth+1, cur+1); ok {
					return append([]childSpan{{start: cur, edge: edge{prod: leafProd, finish: cur + 1}}}, rest...), true
				}
			}
			return nil, false
		}

		for _, cand := range edges[cur] {
			if cand.finish > finish {
				continue
			}
			candProd, _ := c.g.Production(cand.prod)
			if candProd.LHS != sym {
				continue
			}
			if rest, ok := dfs(depth+1, cand.finish); ok {
				return append([]childSpan{{start: cur, edge: cand}}, rest...), true
			}
		}
		return nil, false
	}
	return dfs(0, start)
}

// Node is the printable form of a parse tree.
type Node struct {
	KindName string
	Text     string
	Children []*Node
}

func (c *chart) toNode(t *tree) *Node {
	if t.tok != nil {
		return &Node{
			KindName: t.tok.Kind.String(),
			Text:     t.tok.Text,
		}
	}
	name, _ := c.g.ToText(t.prod.LHS)
	children := make([]*Node, len(t.children))
	for i, child := range t.children {
		children[i] = c.toNode(child)
	}
	return &Node{
		KindName: name,
		Children: children,
	}
}

// ParseTree recognizes the input and returns the extracted derivation as a
// printable Node, for grammar debugging.
func ParseTree(g *grammar.Grammar, input, start string) (*Node, error) {
	c, err := recognize(g, input, start)
	if err != nil {
		return nil, err
	}
	t := c.buildParseTree()
	if t == nil {
		return nil, errBuildParseTree
	}
	return c.toNode(t), nil
}

func PrintTree(w io.Writer, node *Node) {
	printTree(w, node, "", "")
}

func printTree(w io.Writer, node *Node, ruledLine string, childRuledLinePrefix string) {
	if node == nil {
		return
	}

	if node.Text != "" {
		fmt.Fprintf(w, "%v%v %#v\n", ruledLine, node.KindName, node.Text)
	} else {
		fmt.Fprintf(w, "%v%v\n", ruledLine, node.KindName)
	}

	num := len(node.Children)
	for i, child := range node.Children {
		var line string
		if num > 1 && i < num-1 {
			line = "├─ "
		} else {
			line = "└─ "
		}

		var prefix string
		if i >= num-1 {
			prefix = "   "
		} else {
			prefix = "│  "
		}

		printTree(w, child, childRuledLinePrefix+line, childRuledLinePrefix+prefix)
	}
}
