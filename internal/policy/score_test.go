package policy

import (
	"testing"

	"xccdfeval/internal/model"
)

func benchWithTwoRules(w1, w2 float64) (*model.Benchmark, *model.Rule, *model.Rule) {
	bench := model.NewBenchmark("b", "b", 1)
	r1 := model.NewRule("r1", "R1", w1, nil, true, bench)
	r2 := model.NewRule("r2", "R2", w2, nil, true, bench)
	bench.Children = []model.Item{r1, r2}
	bench.Rules = map[string]*model.Rule{"r1": r1, "r2": r2}
	return bench, r1, r2
}

func trWith(results ...*RuleResult) *TestResult {
	return &TestResult{Results: results}
}

func TestComputeScore_DefaultAllPass(t *testing.T) {
	bench, _, _ := benchWithTwoRules(1, 1)
	tr := trWith(&RuleResult{RuleID: "r1", Result: Pass}, &RuleResult{RuleID: "r2", Result: Pass})

	got, err := ComputeScore(ScoringDefault, bench, tr)
	if err != nil {
		t.Fatalf("ComputeScore: %v", err)
	}
	if got != 100 {
		t.Fatalf("expected 100, got %v", got)
	}
}

func TestComputeScore_DefaultWeightsHalfPass(t *testing.T) {
	bench, _, _ := benchWithTwoRules(1, 3)
	tr := trWith(&RuleResult{RuleID: "r1", Result: Pass}, &RuleResult{RuleID: "r2", Result: Fail})

	got, err := ComputeScore(ScoringDefault, bench, tr)
	if err != nil {
		t.Fatalf("ComputeScore: %v", err)
	}
	want := 100.0 * 1 / 4 // r1 (weight 1) passes, r2 (weight 3) fails
	if got != want {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestComputeScore_SkipKindsExcludedFromDenominator(t *testing.T) {
	bench, _, _ := benchWithTwoRules(1, 1)
	tr := trWith(&RuleResult{RuleID: "r1", Result: Pass}, &RuleResult{RuleID: "r2", Result: NotApplicable})

	got, err := ComputeScore(ScoringDefault, bench, tr)
	if err != nil {
		t.Fatalf("ComputeScore: %v", err)
	}
	if got != 100 {
		t.Fatalf("expected the NotApplicable rule to be excluded, giving 100, got %v", got)
	}
}

func TestComputeScore_FlatUnweighted(t *testing.T) {
	bench, _, _ := benchWithTwoRules(5, 9)
	tr := trWith(&RuleResult{RuleID: "r1", Result: Pass}, &RuleResult{RuleID: "r2", Result: Fail})

	got, err := ComputeScore(ScoringFlatUnweighted, bench, tr)
	if err != nil {
		t.Fatalf("ComputeScore: %v", err)
	}
	if got != 1 {
		t.Fatalf("expected 1 (one of two counted equally), got %v", got)
	}
}

func TestComputeScore_AbsoluteRequiresAllPass(t *testing.T) {
	bench, _, _ := benchWithTwoRules(1, 1)
	tr := trWith(&RuleResult{RuleID: "r1", Result: Pass}, &RuleResult{RuleID: "r2", Result: Fail})

	got, err := ComputeScore(ScoringAbsolute, bench, tr)
	if err != nil {
		t.Fatalf("ComputeScore: %v", err)
	}
	if got != 0 {
		t.Fatalf("expected 0 when not all rules pass, got %v", got)
	}
}

func TestComputeScore_AbsoluteAllPass(t *testing.T) {
	bench, _, _ := benchWithTwoRules(1, 1)
	tr := trWith(&RuleResult{RuleID: "r1", Result: Pass}, &RuleResult{RuleID: "r2", Result: Pass})

	got, err := ComputeScore(ScoringAbsolute, bench, tr)
	if err != nil {
		t.Fatalf("ComputeScore: %v", err)
	}
	if got != 1 {
		t.Fatalf("expected 1 when all rules pass, got %v", got)
	}
}

func TestComputeScore_UnknownSystemErrors(t *testing.T) {
	bench, _, _ := benchWithTwoRules(1, 1)
	tr := trWith()
	if _, err := ComputeScore("urn:xccdf:scoring:made-up", bench, tr); err == nil {
		t.Fatalf("expected an UnknownScoringSystemError")
	}
}

func TestComputeScore_MultiCheckResultsAndTogether(t *testing.T) {
	bench, _, _ := benchWithTwoRules(1, 1)
	tr := trWith(
		&RuleResult{RuleID: "r1", Result: Pass},
		&RuleResult{RuleID: "r1", Result: Fail}, // second definition from a multi-check fan-out
		&RuleResult{RuleID: "r2", Result: Pass},
	)

	got, err := ComputeScore(ScoringAbsolute, bench, tr)
	if err != nil {
		t.Fatalf("ComputeScore: %v", err)
	}
	if got != 0 {
		t.Fatalf("expected r1's AND(Pass,Fail)=Fail to fail the absolute score, got %v", got)
	}
}
