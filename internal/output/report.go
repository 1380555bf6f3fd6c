package output

import (
	"time"

	"xccdfeval/internal/policy"
)

// Report is the aggregate JSON representation of one Policy evaluation,
// written whole by sinks in "json" mode.
type Report struct {
	ProfileID string               `json:"profile_id"`
	TestID    string               `json:"test_result_id"`
	Start     time.Time            `json:"start"`
	End       time.Time            `json:"end"`
	Score     map[string]float64   `json:"score"`
	Results   []*policy.RuleResult `json:"results"`
}

func reportFromResult(profileID string, tr *policy.TestResult) Report {
	return Report{
		ProfileID: profileID,
		TestID:    tr.ID,
		Start:     tr.Start,
		End:       tr.End,
		Score:     tr.Score,
		Results:   tr.Results,
	}
}
