package output

import (
	"sort"

	"github.com/finplan/scenario-engine/internal/domain"
	"github.com/finplan/scenario-engine/internal/scenario"
)

// Chart metric keys.
const (
	ChartNetWorth          = "net_worth"
	ChartGoalProbabilities = "goal_probabilities"
)

// ChartDataset is one series in a chart payload.
type ChartDataset struct {
	Label string    `json:"label"`
	Data  []float64 `json:"data"`
}

// ChartData is a renderer-ready chart payload: shared x-axis labels plus one
// dataset per scenario.
type ChartData struct {
	Labels   []string       `json:"labels"`
	Datasets []ChartDataset `json:"datasets"`
}

// PrepareScenarioChartData shapes the comparison's results into chart
// payloads keyed by metric name. Scenarios missing a data point contribute 0
// for that label so every dataset stays aligned with the axis.
func PrepareScenarioChartData(cr *scenario.ComparisonResult) map[string]ChartData {
	if cr == nil {
		return nil
	}
	return map[string]ChartData{
		ChartNetWorth:          netWorthChart(cr),
		ChartGoalProbabilities: goalProbabilityChart(cr),
	}
}

func netWorthChart(cr *scenario.ComparisonResult) ChartData {
	labels := presentMarkers(cr)
	chart := ChartData{Labels: labels}
	for _, name := range cr.ScenarioOrder {
		result := cr.ScenarioResults[name]
		if result == nil {
			continue
		}
		data := make([]float64, len(labels))
		for i, marker := range labels {
			if nw, ok := result.NetWorthProjection[marker]; ok {
				data[i] = nw.InexactFloat64()
			}
		}
		chart.Datasets = append(chart.Datasets, ChartDataset{Label: name, Data: data})
	}
	return chart
}

func goalProbabilityChart(cr *scenario.ComparisonResult) ChartData {
	labels := make([]string, 0, len(cr.GoalOutcomes))
	for goalID := range cr.GoalOutcomes {
		labels = append(labels, goalID)
	}
	sort.Strings(labels)

	chart := ChartData{Labels: labels}
	for _, name := range cr.ScenarioOrder {
		result := cr.ScenarioResults[name]
		if result == nil {
			continue
		}
		data := make([]float64, len(labels))
		for i, goalID := range labels {
			if p, ok := result.Probability(goalID); ok {
				data[i] = p
			}
		}
		chart.Datasets = append(chart.Datasets, ChartDataset{Label: name, Data: data})
	}
	return chart
}

// presentMarkers returns the net worth markers recorded by at least one
// scenario, in horizon order.
func presentMarkers(cr *scenario.ComparisonResult) []string {
	markers := make([]string, 0, 4)
	for _, marker := range domain.NetWorthMarkers() {
		for _, result := range cr.ScenarioResults {
			if result == nil {
				continue
			}
			if _, ok := result.NetWorthProjection[marker]; ok {
				markers = append(markers, marker)
				break
			}
		}
	}
	return markers
}
