package policy

import (
	"context"

	"xccdfeval/internal/model"
)

// EvaluateCheck evaluates check (simple or complex) and returns the final
// ResultKind, a clone of check with the winning content-ref pinned (for
// simple checks, recursively for complex ones), and an explanatory message
// when resolution failed at some leaf (Value binding errors surface as
// Unknown with a message rather than a Go error, per the propagation
// policy).
func EvaluateCheck(ctx context.Context, h *Handle, ruleID string, check *model.Check) (ResultKind, *model.Check, string) {
	if check.Complex {
		return evaluateComplex(ctx, h, ruleID, check)
	}
	return evaluateSimple(ctx, h, ruleID, check)
}

func evaluateComplex(ctx context.Context, h *Handle, ruleID string, check *model.Check) (ResultKind, *model.Check, string) {
	clone := check.Clone()
	if len(check.Children) == 0 {
		return NotChecked, clone, "complex check has no children"
	}

	var op CheckOp
	if check.Operator == model.OpOr {
		op = Or
	} else {
		op = And
	}

	var acc ResultKind
	var msg string
	for i, child := range check.Children {
		kind, evaluatedChild, childMsg := EvaluateCheck(ctx, h, ruleID, child)
		clone.Children[i] = evaluatedChild
		if childMsg != "" && msg == "" {
			msg = childMsg
		}
		if i == 0 {
			acc = kind
		} else {
			acc = op(acc, kind)
		}
	}

	return maybeNegate(check.Negate, acc), clone, msg
}

// maybeNegate applies Negate only when the check's Negate flag is set; per
// algebra.go, Negate is applied at most once, at the root of a check, and
// only when the check itself asks for it.
func maybeNegate(negate bool, k ResultKind) ResultKind {
	if negate {
		return Negate(k)
	}
	return k
}

func evaluateSimple(ctx context.Context, h *Handle, ruleID string, check *model.Check) (ResultKind, *model.Check, string) {
	clone := check.Clone()

	bindings, err := BuildBindings(h.Model.Benchmark, h.Policy.Profile, check.Exports)
	if err != nil {
		return Unknown, clone, err.Error()
	}

	engines := h.Model.Registry.Lookup(check.System)
	if len(engines) == 0 {
		return NotChecked, clone, "no checking engine registered for " + check.System
	}

	if len(check.ContentRef) == 0 {
		kind, msg := dispatch(ctx, h, engines, ruleID, "", "", bindings, clone.Imports)
		return maybeNegate(check.Negate, kind), clone, msg
	}

	for i, ref := range check.ContentRef {
		kind, msg := dispatch(ctx, h, engines, ruleID, ref.Name, ref.Href, bindings, clone.Imports)
		if kind != NotChecked {
			clone.PinContentRef(check.ContentRef[i])
			return maybeNegate(check.Negate, kind), clone, msg
		}
	}
	return maybeNegate(check.Negate, NotChecked), clone, ""
}

// dispatch tries engines in registration order for one content-ref,
// stopping at the first terminal (non-NotChecked) result. An engine-side Go
// error is treated as a terminal Error result.
func dispatch(ctx context.Context, h *Handle, engines []EngineRegistration, ruleID, name, href string, bindings []ValueBinding, imports []model.CheckImport) (ResultKind, string) {
	for _, reg := range engines {
		kind, err := reg.Eval(ctx, h, ruleID, name, href, bindings, imports)
		if err != nil {
			return Error, err.Error()
		}
		if kind != NotChecked {
			return kind, ""
		}
	}
	return NotChecked, ""
}
