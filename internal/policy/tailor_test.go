package policy

import (
	"testing"

	"xccdfeval/internal/model"
)

func TestTailorRule_AppliesWeightSeverityRoleOverrides(t *testing.T) {
	rule := &model.Rule{}
	rule.ID = "r1"
	rule.Weight = 1
	rule.Severity = model.SeverityLow

	weight := 5.0
	sev := model.SeverityHigh
	role := "unscored"
	prof := &model.Profile{RefineRules: []model.RefineRule{
		{RuleID: "r1", Weight: &weight, Severity: &sev, Role: &role},
	}}
	pol := &Policy{Profile: prof}

	tailored := pol.TailorRule(rule)
	if tailored.Weight != 5 {
		t.Errorf("expected weight override 5, got %v", tailored.Weight)
	}
	if tailored.Severity != model.SeverityHigh {
		t.Errorf("expected severity override high, got %v", tailored.Severity)
	}
	if tailored.Role != "unscored" {
		t.Errorf("expected role override unscored, got %v", tailored.Role)
	}
}

func TestTailorRule_NoProfileLeavesRuleUnchanged(t *testing.T) {
	rule := &model.Rule{}
	rule.ID = "r1"
	rule.Weight = 3
	pol := &Policy{}

	tailored := pol.TailorRule(rule)
	if tailored.Weight != 3 {
		t.Errorf("expected the original weight to be kept, got %v", tailored.Weight)
	}
}

func TestTailorRule_ReturnsCloneNotOriginal(t *testing.T) {
	rule := &model.Rule{}
	rule.ID = "r1"
	rule.Weight = 1
	weight := 9.0
	prof := &model.Profile{RefineRules: []model.RefineRule{{RuleID: "r1", Weight: &weight}}}
	pol := &Policy{Profile: prof}

	pol.TailorRule(rule)
	if rule.Weight != 1 {
		t.Errorf("TailorRule must not mutate the Benchmark-owned original, got %v", rule.Weight)
	}
}

func TestTailorValue_KeepsOnlySelectedInstance(t *testing.T) {
	bench := benchWithValue()
	val := bench.Values["v1"]
	pol := &Policy{}

	tailored := pol.TailorValue(val)
	if len(tailored.Instances) != 1 || tailored.Instances[0].Content != "8" {
		t.Fatalf("expected only the default instance kept, got %+v", tailored.Instances)
	}
}

func TestTailorValue_SetvalueOnUnmatchedSelectorAppendsDefaultInstance(t *testing.T) {
	bench := benchWithValue()
	val := bench.Values["v1"]
	sel := "does-not-exist"
	prof := &model.Profile{
		RefineValues: []model.RefineValue{{ValueID: "v1", Selector: &sel}},
		Setvalues:    []model.Setvalue{{ValueID: "v1", Content: "99"}},
	}
	pol := &Policy{Profile: prof}

	tailored := pol.TailorValue(val)
	if len(tailored.Instances) != 1 || tailored.Instances[0].Selector != "" || tailored.Instances[0].Content != "99" {
		t.Fatalf("expected a lone default instance carrying the setvalue literal, got %+v", tailored.Instances)
	}
}

func TestTailorValue_SetvalueOverwritesMatchingSelectedInstance(t *testing.T) {
	bench := benchWithValue()
	val := bench.Values["v1"]
	prof := &model.Profile{Setvalues: []model.Setvalue{{ValueID: "v1", Content: "99"}}}
	pol := &Policy{Profile: prof}

	tailored := pol.TailorValue(val)
	if len(tailored.Instances) != 1 || tailored.Instances[0].Content != "99" {
		t.Fatalf("expected the resolved default instance's content overwritten in place, got %+v", tailored.Instances)
	}
}
