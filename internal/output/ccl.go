package output

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/Aman-CERP/cclsearch/internal/catalog"
	"github.com/Aman-CERP/cclsearch/internal/ccl"
)

// Tokens prints one token per line: kind, then the text quoted.
func (w *Writer) Tokens(tokens []ccl.Token) {
	for _, tok := range tokens {
		kind := fmt.Sprintf("%-13s", tok.Kind)
		_, _ = fmt.Fprintf(w.out, "%s %q\n", w.styles.Label.Render(kind), tok.Text)
	}
}

// Tree prints an expression tree, one node per line, children indented
// under their boolean operator.
func (w *Writer) Tree(root ccl.Node) {
	ccl.Walk(root, func(n ccl.Node, depth int) bool {
		indent := w.styles.Dim.Render(strings.Repeat("│ ", depth))
		_, _ = fmt.Fprintf(w.out, "%s%s\n", indent, w.describe(n))
		return true
	})
}

func (w *Writer) describe(n ccl.Node) string {
	switch node := n.(type) {
	case *ccl.BooleanNode:
		return w.styles.Operator.Render(node.Operator)
	case *ccl.TermNode:
		var b strings.Builder
		b.WriteString(w.styles.Index.Render(fmt.Sprintf("%s (%s)", node.Index.Code, node.Index.QualifiedColumn())))
		b.WriteByte(' ')
		b.WriteString(node.EffectiveRelation())
		b.WriteByte(' ')
		b.WriteString(w.styles.Term.Render(fmt.Sprintf("%q", node.Term)))
		if node.HasProximity() {
			b.WriteByte(' ')
			b.WriteString(w.styles.Operator.Render(node.ProximityOperator))
			b.WriteByte(' ')
			b.WriteString(w.styles.Term.Render(fmt.Sprintf("%q", node.ProximityRight)))
		}
		return b.String()
	default:
		return fmt.Sprintf("%T", n)
	}
}

// Indexes prints catalog entries as a table.
func (w *Writer) Indexes(entries []catalog.Descriptor) {
	if len(entries) == 0 {
		w.Warning("No indexes found")
		return
	}

	rows := make([][]string, 0, len(entries))
	for _, d := range entries {
		locale := d.Locale
		if locale == "" {
			locale = "*"
		}
		rows = append(rows, []string{d.Abbreviation, d.Code, locale, d.Category, d.QualifiedColumn(), d.Relation()})
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(w.styles.Dim).
		Headers("ABBR", "CODE", "LOCALE", "CATEGORY", "COLUMN", "RELATION").
		Rows(rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return w.styles.Header.Padding(0, 1)
			}
			return lipgloss.NewStyle().Padding(0, 1)
		})

	_, _ = fmt.Fprintln(w.out, t.String())
}
