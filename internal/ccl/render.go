package ccl

import (
	"fmt"
	"strings"
)

// queryTemplate wraps a rendered filter into the backend query.
const queryTemplate = "select * from ((%s)) foo order by 1 desc"

// Render returns "(<column> <relation> '<term>')", with the proximity pair
// before the closing parenthesis when present.
func (n *TermNode) Render() string {
	var b strings.Builder
	b.WriteByte('(')
	b.WriteString(n.Index.QualifiedColumn())
	b.WriteByte(' ')
	b.WriteString(n.EffectiveRelation())
	b.WriteByte(' ')
	b.WriteString(quoteLiteral(n.Term))
	if n.HasProximity() {
		b.WriteByte(' ')
		b.WriteString(n.ProximityOperator)
		b.WriteByte(' ')
		b.WriteString(quoteLiteral(n.ProximityRight))
	}
	b.WriteByte(')')
	return b.String()
}

// Render returns "(<left> <op> <right>)". NOT renders as AND NOT.
func (n *BooleanNode) Render() string {
	op := n.Operator
	if op == OpNot {
		op = OpAnd + " " + OpNot
	}
	return "(" + n.Left.Render() + " " + op + " " + n.Right.Render() + ")"
}

// BuildQuery renders node into the full backend query.
func BuildQuery(node Node) string {
	return fmt.Sprintf(queryTemplate, node.Render())
}

// quoteLiteral single-quotes s, doubling embedded quotes.
func quoteLiteral(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}
