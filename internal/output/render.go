package output

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/finplan/scenario-engine/internal/scenario"
)

// Formatter renders a comparison result into a byte payload.
// Implementations should be pure.
type Formatter interface {
	Format(cr *scenario.ComparisonResult) ([]byte, error)
	// Name returns a short identifier for logging.
	Name() string
}

// NewFormatter resolves a format flag ("json" or "table") to a Formatter.
func NewFormatter(format string) (Formatter, error) {
	switch strings.ToLower(format) {
	case "json":
		return JSONFormatter{}, nil
	case "table", "":
		return TableFormatter{}, nil
	default:
		return nil, fmt.Errorf("unknown output format %q", format)
	}
}

// JSONFormatter emits the comparison's full serialized form.
type JSONFormatter struct{}

func (JSONFormatter) Name() string { return "json" }

func (JSONFormatter) Format(cr *scenario.ComparisonResult) ([]byte, error) {
	data, err := json.MarshalIndent(cr, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling comparison: %w", err)
	}
	return data, nil
}

// TableFormatter emits plain-text comparison tables, one per alternative.
type TableFormatter struct{}

func (TableFormatter) Name() string { return "table" }

func (TableFormatter) Format(cr *scenario.ComparisonResult) ([]byte, error) {
	var b strings.Builder
	for i, table := range PrepareComparisonTableData(cr) {
		if i > 0 {
			b.WriteString("\n")
		}
		renderTable(&b, table)
	}
	if best, ok := cr.BestAlternativeScenario(); ok {
		fmt.Fprintf(&b, "\nBest alternative: %s\n", best)
	}
	return []byte(b.String()), nil
}

func renderTable(b *strings.Builder, table TableData) {
	widths := make([]int, len(table.Headers))
	for i, h := range table.Headers {
		widths[i] = len(h)
	}
	for _, row := range table.Rows {
		for i, cell := range row {
			if i < len(widths) && len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	fmt.Fprintf(b, "%s\n", table.Title)
	writeRow(b, table.Headers, widths)
	for i, w := range widths {
		if i > 0 {
			b.WriteString("  ")
		}
		b.WriteString(strings.Repeat("-", w))
	}
	b.WriteString("\n")
	for _, row := range table.Rows {
		writeRow(b, row, widths)
	}
}

func writeRow(b *strings.Builder, cells []string, widths []int) {
	for i, cell := range cells {
		if i > 0 {
			b.WriteString("  ")
		}
		fmt.Fprintf(b, "%-*s", widths[i], cell)
	}
	b.WriteString("\n")
}
