package cli

import (
	"testing"

	"xccdfeval/internal/policy"
)

func TestExitCode_NilResultIsFatal(t *testing.T) {
	if got := exitCode(nil); got != 3 {
		t.Errorf("expected 3 for a nil TestResult, got %d", got)
	}
}

func TestExitCode_CleanRunIsZero(t *testing.T) {
	tr := &policy.TestResult{Results: []*policy.RuleResult{
		{Result: policy.Pass},
		{Result: policy.NotApplicable},
	}}
	if got := exitCode(tr); got != 0 {
		t.Errorf("expected 0 for a clean run, got %d", got)
	}
}

func TestExitCode_FailTakesPrecedenceOverPartial(t *testing.T) {
	tr := &policy.TestResult{Results: []*policy.RuleResult{
		{Result: policy.Fail},
		{Result: policy.Error},
	}}
	if got := exitCode(tr); got != 1 {
		t.Errorf("expected 1 when a Fail is present alongside an Error, got %d", got)
	}
}

func TestExitCode_PartialFailureWithoutFail(t *testing.T) {
	tr := &policy.TestResult{Results: []*policy.RuleResult{
		{Result: policy.Pass},
		{Result: policy.Unknown},
	}}
	if got := exitCode(tr); got != 2 {
		t.Errorf("expected 2 for Unknown without Fail, got %d", got)
	}
}

func TestFilterScores_EmptyWantKeepsEverything(t *testing.T) {
	tr := &policy.TestResult{Score: map[string]float64{
		policy.ScoringDefault: 90, policy.ScoringFlat: 80,
	}}
	filterScores(tr, nil)
	if len(tr.Score) != 2 {
		t.Errorf("expected both scores kept, got %v", tr.Score)
	}
}

func TestFilterScores_NarrowsToRequestedSystems(t *testing.T) {
	tr := &policy.TestResult{Score: map[string]float64{
		policy.ScoringDefault:        90,
		policy.ScoringFlat:           80,
		policy.ScoringFlatUnweighted: 70,
		policy.ScoringAbsolute:       0,
	}}
	filterScores(tr, []string{policy.ScoringDefault})
	if len(tr.Score) != 1 {
		t.Fatalf("expected exactly one scoring system to remain, got %v", tr.Score)
	}
	if _, ok := tr.Score[policy.ScoringDefault]; !ok {
		t.Errorf("expected the default scoring system to be kept, got %v", tr.Score)
	}
}
