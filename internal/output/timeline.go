package output

import (
	"sort"

	"github.com/finplan/scenario-engine/internal/scenario"
)

// EventGoalAchieved marks a goal reaching its funding target.
const EventGoalAchieved = "goal_achieved"

// TimelineEvent is a single dated event in a scenario's timeline. GoalID is
// empty for life events.
type TimelineEvent struct {
	Type   string `json:"type"`
	GoalID string `json:"goal_id,omitempty"`
	Time   int    `json:"time"`
}

// ScenarioTimeline is one scenario's ordered event list.
type ScenarioTimeline struct {
	Name   string          `json:"name"`
	Events []TimelineEvent `json:"events"`
}

// TimelineData is the renderer-ready payload for timeline comparisons:
// per-scenario event lists plus the union of event years for axis ticks.
type TimelineData struct {
	Scenarios      []ScenarioTimeline `json:"scenarios"`
	TimelinePoints []int              `json:"timeline_points"`
}

// FormatTimelineComparisonData extracts goal-achievement and life events from
// every scenario in the comparison.
func FormatTimelineComparisonData(cr *scenario.ComparisonResult) *TimelineData {
	if cr == nil {
		return nil
	}
	data := &TimelineData{}
	points := map[int]bool{}

	for _, name := range cr.ScenarioOrder {
		result := cr.ScenarioResults[name]
		if result == nil {
			continue
		}
		timeline := ScenarioTimeline{Name: name}
		for _, goalID := range result.SortedGoalIDs() {
			if year, ok := result.GoalTimeline[goalID]; ok {
				timeline.Events = append(timeline.Events, TimelineEvent{
					Type:   EventGoalAchieved,
					GoalID: goalID,
					Time:   year,
				})
				points[year] = true
			}
		}
		for _, event := range result.Profile.LifeEvents {
			timeline.Events = append(timeline.Events, TimelineEvent{
				Type: event.Type,
				Time: event.Timing,
			})
			points[event.Timing] = true
		}
		sort.SliceStable(timeline.Events, func(i, j int) bool {
			return timeline.Events[i].Time < timeline.Events[j].Time
		})
		data.Scenarios = append(data.Scenarios, timeline)
	}

	data.TimelinePoints = make([]int, 0, len(points))
	for point := range points {
		data.TimelinePoints = append(data.TimelinePoints, point)
	}
	sort.Ints(data.TimelinePoints)
	return data
}
