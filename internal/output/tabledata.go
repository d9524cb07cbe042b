// Package output shapes comparison results into renderer-ready payloads:
// tables, chart series, timeline events, and per-scenario summaries. No new
// computation happens here, only aggregation and formatting.
package output

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/finplan/scenario-engine/internal/domain"
	"github.com/finplan/scenario-engine/internal/scenario"
	"github.com/finplan/scenario-engine/pkg/moneyfmt"
)

// DisplayCurrency is the currency code used for money cells.
const DisplayCurrency = moneyfmt.DefaultCurrency

// TableData is one renderer-ready comparison table.
type TableData struct {
	Title   string     `json:"title"`
	Headers []string   `json:"headers"`
	Rows    [][]string `json:"rows"`
}

// ComparisonTableHeaders returns the fixed column set shared by all
// comparison tables.
func ComparisonTableHeaders() []string {
	return []string{"Metric", "Baseline", "Alternative", "Change", "Impact"}
}

// PrepareComparisonTableData builds one table per alternative scenario,
// comparing its success metrics against the baseline's.
func PrepareComparisonTableData(cr *scenario.ComparisonResult) []TableData {
	if cr == nil {
		return nil
	}
	base := cr.SuccessMetrics[cr.BaselineName]
	tables := make([]TableData, 0, len(cr.ScenarioOrder))
	for _, name := range cr.ScenarioOrder {
		if name == cr.BaselineName {
			continue
		}
		alt := cr.SuccessMetrics[name]
		if base == nil || alt == nil {
			continue
		}
		tables = append(tables, TableData{
			Title:   fmt.Sprintf("%s vs %s", cr.BaselineName, name),
			Headers: ComparisonTableHeaders(),
			Rows:    comparisonRows(base, alt),
		})
	}
	return tables
}

func comparisonRows(base, alt *scenario.SuccessMetrics) [][]string {
	rows := [][]string{
		metricRow("Overall Success Rate",
			formatPercent(base.OverallSuccessRate), formatPercent(alt.OverallSuccessRate),
			alt.OverallSuccessRate-base.OverallSuccessRate, formatPercentDelta),
		metricRow("Goal Achievement Rate",
			formatPercent(base.GoalAchievementRate), formatPercent(alt.GoalAchievementRate),
			alt.GoalAchievementRate-base.GoalAchievementRate, formatPercentDelta),
		metricRow("Financial Resilience",
			formatPercent(base.FinancialResilienceScore), formatPercent(alt.FinancialResilienceScore),
			alt.FinancialResilienceScore-base.FinancialResilienceScore, formatPercentDelta),
	}
	if base.RetirementAge != nil && alt.RetirementAge != nil {
		delta := float64(*alt.RetirementAge - *base.RetirementAge)
		rows = append(rows, metricRow("Retirement Age",
			fmt.Sprintf("%d", *base.RetirementAge), fmt.Sprintf("%d", *alt.RetirementAge),
			// A later retirement is the negative outcome here.
			-delta, formatYearDelta))
	}
	for _, marker := range domain.NetWorthMarkers() {
		baseNW, okBase := base.NetWorthProgression[marker]
		altNW, okAlt := alt.NetWorthProgression[marker]
		if !okBase || !okAlt {
			continue
		}
		nwDelta := altNW.Sub(baseNW)
		rows = append(rows, []string{
			fmt.Sprintf("Net Worth (%d yr)", domain.MarkerHorizon(marker)),
			moneyfmt.Display(baseNW, DisplayCurrency),
			moneyfmt.Display(altNW, DisplayCurrency),
			moneyfmt.DisplaySigned(nwDelta, DisplayCurrency),
			impactWord(nwDelta.InexactFloat64()),
		})
	}
	return rows
}

func metricRow(metric, baseCell, altCell string, delta float64, formatDelta func(float64) string) []string {
	return []string{metric, baseCell, altCell, formatDelta(delta), impactWord(delta)}
}

func impactWord(delta float64) string {
	switch {
	case delta > 0:
		return "positive"
	case delta < 0:
		return "negative"
	default:
		return "neutral"
	}
}

func formatPercent(v float64) string {
	return decimal.NewFromFloat(v * 100).StringFixed(1) + "%"
}

func formatPercentDelta(delta float64) string {
	if delta > 0 {
		return "+" + formatPercent(delta)
	}
	return formatPercent(delta)
}

func formatYearDelta(inverted float64) string {
	// inverted: positive means earlier retirement.
	years := -inverted
	if years > 0 {
		return fmt.Sprintf("+%.0f yr", years)
	}
	return fmt.Sprintf("%.0f yr", years)
}
