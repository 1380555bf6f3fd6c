package refengine

import (
	"context"
	"testing"

	"xccdfeval/internal/model"
	"xccdfeval/internal/policy"
)

func TestEval_FactEquals(t *testing.T) {
	e := New(map[string]string{"ssh.protocol": "2"})
	e.LoadContent("ssh-content", []Definition{
		{Name: "protocol-is-2", Fact: "ssh.protocol", Operator: model.OpEquals, Expected: "2"},
	})

	kind, err := e.Eval(context.Background(), nil, "r1", "protocol-is-2", "ssh-content", nil, nil)
	if err != nil {
		t.Fatalf("Eval: %v", err)
	}
	if kind != policy.Pass {
		t.Fatalf("expected Pass, got %s", kind)
	}
}

func TestEval_FactMismatchFails(t *testing.T) {
	e := New(map[string]string{"ssh.protocol": "1"})
	e.LoadContent("ssh-content", []Definition{
		{Name: "protocol-is-2", Fact: "ssh.protocol", Operator: model.OpEquals, Expected: "2"},
	})

	kind, err := e.Eval(context.Background(), nil, "r1", "protocol-is-2", "ssh-content", nil, nil)
	if err != nil {
		t.Fatalf("Eval: %v", err)
	}
	if kind != policy.Fail {
		t.Fatalf("expected Fail, got %s", kind)
	}
}

func TestEval_UnknownHrefIsNotChecked(t *testing.T) {
	e := New(nil)
	kind, err := e.Eval(context.Background(), nil, "r1", "x", "missing-href", nil, nil)
	if err != nil {
		t.Fatalf("Eval: %v", err)
	}
	if kind != policy.NotChecked {
		t.Fatalf("expected NotChecked for an unknown href, got %s", kind)
	}
}

func TestEval_EmptyNameFallsBackToSoleDefinition(t *testing.T) {
	e := New(map[string]string{"f": "v"})
	e.LoadContent("h", []Definition{
		{Name: "only-one", Fact: "f", Operator: model.OpEquals, Expected: "v"},
	})

	kind, err := e.Eval(context.Background(), nil, "r1", "", "h", nil, nil)
	if err != nil {
		t.Fatalf("Eval: %v", err)
	}
	if kind != policy.Pass {
		t.Fatalf("expected the sole definition to be used when the name is empty, got %s", kind)
	}
}

func TestEval_UsesBinding(t *testing.T) {
	e := New(nil)
	e.LoadContent("h", []Definition{
		{Name: "min-length-ok", UsesBinding: "min-length", Operator: model.OpLessOrEqual, Expected: "12"},
	})
	bindings := []policy.ValueBinding{{Name: "min-length", Value: "8"}}

	kind, err := e.Eval(context.Background(), nil, "r1", "min-length-ok", "h", bindings, nil)
	if err != nil {
		t.Fatalf("Eval: %v", err)
	}
	if kind != policy.Pass {
		t.Fatalf("expected Pass (8 <= 12), got %s", kind)
	}
}

func TestEval_SetvalueOverridesBoundValue(t *testing.T) {
	e := New(nil)
	e.LoadContent("h", []Definition{
		{Name: "min-length-ok", UsesBinding: "min-length", Operator: model.OpLessOrEqual, Expected: "12"},
	})
	bindings := []policy.ValueBinding{{Name: "min-length", Value: "8", Setvalue: "20"}}

	kind, err := e.Eval(context.Background(), nil, "r1", "min-length-ok", "h", bindings, nil)
	if err != nil {
		t.Fatalf("Eval: %v", err)
	}
	if kind != policy.Fail {
		t.Fatalf("expected Fail (setvalue 20 > 12), got %s", kind)
	}
}

func TestEval_UnknownBindingErrors(t *testing.T) {
	e := New(nil)
	e.LoadContent("h", []Definition{
		{Name: "d", UsesBinding: "missing", Operator: model.OpEquals, Expected: "x"},
	})
	kind, err := e.Eval(context.Background(), nil, "r1", "d", "h", nil, nil)
	if err == nil {
		t.Fatalf("expected an error for an unresolvable binding")
	}
	if kind != policy.Error {
		t.Fatalf("expected Error, got %s", kind)
	}
}

func TestEval_PatternMatch(t *testing.T) {
	e := New(map[string]string{"os.name": "Ubuntu 22.04"})
	e.LoadContent("h", []Definition{
		{Name: "is-ubuntu", Fact: "os.name", Operator: model.OpPatternMatch, Expected: "^Ubuntu"},
	})
	kind, err := e.Eval(context.Background(), nil, "r1", "is-ubuntu", "h", nil, nil)
	if err != nil {
		t.Fatalf("Eval: %v", err)
	}
	if kind != policy.Pass {
		t.Fatalf("expected Pass, got %s", kind)
	}
}

func TestEval_NumericOperatorOnNonNumericErrors(t *testing.T) {
	e := New(map[string]string{"f": "not-a-number"})
	e.LoadContent("h", []Definition{
		{Name: "d", Fact: "f", Operator: model.OpGreater, Expected: "3"},
	})
	kind, err := e.Eval(context.Background(), nil, "r1", "d", "h", nil, nil)
	if err == nil {
		t.Fatalf("expected an error for a non-numeric comparison")
	}
	if kind != policy.Error {
		t.Fatalf("expected Error, got %s", kind)
	}
}

func TestQuery_ReturnsSortedDefinitionNames(t *testing.T) {
	e := New(nil)
	e.LoadContent("h", []Definition{
		{Name: "zebra", Fact: "f", Operator: model.OpEquals, Expected: "v"},
		{Name: "alpha", Fact: "f", Operator: model.OpEquals, Expected: "v"},
	})
	names, err := e.Query(context.Background(), "h")
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(names) != 2 || names[0] != "alpha" || names[1] != "zebra" {
		t.Fatalf("expected sorted names, got %v", names)
	}
}

func TestQuery_UnknownHrefReturnsNil(t *testing.T) {
	e := New(nil)
	names, err := e.Query(context.Background(), "missing")
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if names != nil {
		t.Fatalf("expected nil for an unknown href, got %v", names)
	}
}
