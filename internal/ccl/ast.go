package ccl

import "github.com/Aman-CERP/cclsearch/internal/catalog"

// Node is a parsed expression. The set of implementations is closed:
// *TermNode and *BooleanNode.
type Node interface {
	// Render returns the backend filter fragment for the node.
	Render() string

	node()
}

// TermNode is a search on one index.
type TermNode struct {
	// Index is the resolved search index. Never nil in a parsed tree.
	Index *catalog.Descriptor

	// Relation is the operator typed after the index, empty when none was.
	Relation string

	// Term is the searched text. Word lists keep a space after every word.
	Term string

	// ProximityOperator is the canonical proximity keyword, empty when absent.
	ProximityOperator string

	// ProximityRight is the word after the proximity operator.
	ProximityRight string
}

// BooleanNode combines two expressions. Chains lean right:
// a AND b OR c is AND(a, OR(b, c)).
type BooleanNode struct {
	Left     Node
	Operator string // AND, OR or NOT
	Right    Node
}

func (*TermNode) node()    {}
func (*BooleanNode) node() {}

// EffectiveRelation returns the typed relation, else the index default.
func (n *TermNode) EffectiveRelation() string {
	if n.Relation != "" {
		return n.Relation
	}
	if n.Index != nil {
		return n.Index.Relation()
	}
	return "="
}

// HasProximity reports whether the term carries a proximity pair.
func (n *TermNode) HasProximity() bool {
	return n.ProximityOperator != ""
}

// Walk calls fn for every node in depth-first, left-to-right order, passing
// the node's depth. Returning false skips the node's children.
func Walk(n Node, fn func(n Node, depth int) bool) {
	walk(n, 0, fn)
}

func walk(n Node, depth int, fn func(Node, int) bool) {
	if n == nil || !fn(n, depth) {
		return
	}
	if b, ok := n.(*BooleanNode); ok {
		walk(b.Left, depth+1, fn)
		walk(b.Right, depth+1, fn)
	}
}
