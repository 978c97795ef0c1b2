package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"devconsole/internal/console"
)

// SimpleTable renders static rows with aligned columns.
type SimpleTable struct {
	Title   string
	Headers []string
	Rows    [][]string
}

// NewSimpleTable creates a new SimpleTable with the given title and headers.
func NewSimpleTable(title string, headers []string) *SimpleTable {
	return &SimpleTable{
		Title:   title,
		Headers: headers,
		Rows:    make([][]string, 0),
	}
}

// AddRow adds a row to the table.
func (t *SimpleTable) AddRow(row ...string) {
	t.Rows = append(t.Rows, row)
}

// OperationTable lists operations with their origin and signature.
func OperationTable(title string, ops []*console.Operation) *SimpleTable {
	t := NewSimpleTable(title, []string{"Name", "Source", "Params", "Target"})
	for _, op := range ops {
		t.AddRow(op.Name(), Source(op), Signature(op), TargetLabel(op))
	}
	return t
}

// Source is the module of a discovered operation or the id of a registered one.
func Source(op *console.Operation) string {
	if op.ID() != "" {
		return "id:" + op.ID()
	}
	return op.Module()
}

// Signature renders the parameter list as name:kind pairs.
func Signature(op *console.Operation) string {
	params := op.Params()
	if len(params) == 0 {
		return "-"
	}
	parts := make([]string, len(params))
	for i, p := range params {
		parts[i] = p.Name + ":" + p.Kind.String()
	}
	return strings.Join(parts, ", ")
}

// TargetLabel describes what an operation runs against.
func TargetLabel(op *console.Operation) string {
	switch {
	case op.IsStatic():
		return "static"
	case op.Target() != nil:
		return fmt.Sprint(op.Target())
	default:
		return "resolved " + op.Receiver().String()
	}
}

// View renders the table using the provided styles.
func (t *SimpleTable) View(styles Styles) string {
	if len(t.Rows) == 0 {
		return ""
	}

	var sb strings.Builder

	if t.Title != "" {
		sb.WriteString(styles.Title.Render(t.Title))
		sb.WriteString("\n")
	}

	colWidths := make([]int, len(t.Headers))
	for i, h := range t.Headers {
		colWidths[i] = lipgloss.Width(h)
	}
	for _, row := range t.Rows {
		for i, cell := range row {
			if i < len(colWidths) {
				colWidths[i] = max(colWidths[i], lipgloss.Width(cell))
			}
		}
	}

	// Width includes the horizontal padding
	for i := range colWidths {
		colWidths[i] += 2
	}

	headerStyle := styles.Bold.Padding(0, 1)
	rowStyle := styles.Body.Padding(0, 1)
	sep := styles.Muted.Render("|")

	writeRow := func(style lipgloss.Style, cells []string) {
		for i, cell := range cells {
			if i >= len(colWidths) {
				break
			}
			if i > 0 {
				sb.WriteString(sep)
			}
			sb.WriteString(style.Width(colWidths[i]).Render(cell))
		}
		sb.WriteString("\n")
	}

	writeRow(headerStyle, t.Headers)

	totalWidth := len(colWidths) - 1 // Separators
	for _, w := range colWidths {
		totalWidth += w
	}
	sb.WriteString(styles.Muted.Render(strings.Repeat("-", totalWidth)) + "\n")

	for _, row := range t.Rows {
		writeRow(rowStyle, row)
	}

	return sb.String()
}
