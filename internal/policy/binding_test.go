package policy

import (
	"testing"

	"xccdfeval/internal/model"
)

func benchWithValue() *model.Benchmark {
	bench := model.NewBenchmark("b", "b", 1)
	v := model.NewValue("v1", "Value One", bench)
	v.Operator = model.OpGreaterOrEqual
	v.Instances = []model.ValueInstance{
		{Selector: "", Content: "8"},
		{Selector: "strict", Content: "14"},
	}
	bench.Values = map[string]*model.Value{"v1": v}
	return bench
}

func TestBuildBindings_NoProfile_UsesDefaultInstance(t *testing.T) {
	bench := benchWithValue()
	exports := []model.CheckExport{{ValueID: "v1", Name: "min-length"}}

	bindings, err := BuildBindings(bench, nil, exports)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(bindings) != 1 || bindings[0].Value != "8" {
		t.Fatalf("expected default instance value 8, got %+v", bindings)
	}
	if bindings[0].Operator != model.OpGreaterOrEqual {
		t.Fatalf("expected operator to fall back to Value's default, got %s", bindings[0].Operator)
	}
}

func TestBuildBindings_RefineValue_SelectorLastMatchWins(t *testing.T) {
	bench := benchWithValue()
	strict := "strict"
	loose := ""
	prof := &model.Profile{
		RefineValues: []model.RefineValue{
			{ValueID: "v1", Selector: &loose},
			{ValueID: "v1", Selector: &strict}, // last match wins
		},
	}
	exports := []model.CheckExport{{ValueID: "v1", Name: "min-length"}}

	bindings, err := BuildBindings(bench, prof, exports)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if bindings[0].Value != "14" {
		t.Fatalf("expected strict instance value 14, got %s", bindings[0].Value)
	}
}

func TestBuildBindings_Setvalue_OverridesButKeepsValue(t *testing.T) {
	bench := benchWithValue()
	prof := &model.Profile{
		Setvalues: []model.Setvalue{
			{ValueID: "v1", Content: "10"},
			{ValueID: "v1", Content: "20"}, // last match wins
		},
	}
	exports := []model.CheckExport{{ValueID: "v1", Name: "min-length"}}

	bindings, err := BuildBindings(bench, prof, exports)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if bindings[0].Setvalue != "20" {
		t.Fatalf("expected last setvalue 20, got %s", bindings[0].Setvalue)
	}
	if bindings[0].Value != "8" {
		t.Fatalf("setvalue must not replace the resolved instance Value, got %s", bindings[0].Value)
	}
}

func TestBuildBindings_UnknownValue_Errors(t *testing.T) {
	bench := model.NewBenchmark("b", "b", 1)
	bench.Values = map[string]*model.Value{}
	exports := []model.CheckExport{{ValueID: "missing", Name: "x"}}

	if _, err := BuildBindings(bench, nil, exports); err == nil {
		t.Fatalf("expected an error for an unknown value id")
	}
}

func TestBuildBindings_UnknownSelector_Errors(t *testing.T) {
	bench := benchWithValue()
	sel := "does-not-exist"
	prof := &model.Profile{
		RefineValues: []model.RefineValue{{ValueID: "v1", Selector: &sel}},
	}
	exports := []model.CheckExport{{ValueID: "v1", Name: "x"}}

	if _, err := BuildBindings(bench, prof, exports); err == nil {
		t.Fatalf("expected an error for an unmatched selector")
	}
}
