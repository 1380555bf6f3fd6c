package policy

import (
	"context"
	"time"

	"xccdfeval/internal/cpe"
	"xccdfeval/internal/model"
)

// RunRule drives one Rule through the state machine: start hook, selection
// check, applicability check, check choice, evaluation, output hook. It
// returns the RuleResults produced (more than one only for a multi-check
// fan-out) and, if a hook requested it, the abort that must unwind the
// enclosing Policy evaluation.
func (p *Policy) RunRule(ctx context.Context, rule *model.Rule) ([]*RuleResult, *HookAbortError) {
	if p.model.StartHook != nil {
		if code := p.model.StartHook(rule); code != 0 {
			return nil, &HookAbortError{Code: code}
		}
	}

	if !p.Selected(rule.ID) {
		return p.emit(rule, NotSelected, "")
	}

	applicable, err := p.applicable(ctx, rule)
	if err != nil {
		return p.emit(rule, NotApplicable, err.Error())
	}
	if !applicable {
		return p.emit(rule, NotApplicable, "")
	}

	check := p.ChooseCheck(rule, p.model.Registry)
	if check == nil {
		return p.emit(rule, NotChecked, "No candidate or applicable check found.")
	}

	if !check.Complex && check.MultiCheck && hasUnnamedRef(check) {
		return p.runMultiCheck(ctx, rule, check)
	}

	h := &Handle{Model: p.model, Policy: p}
	kind, clone, msg := EvaluateCheck(ctx, h, rule.ID, check)
	return p.emitWithCheck(rule, kind, msg, clone)
}

func hasUnnamedRef(check *model.Check) bool {
	for _, ref := range check.ContentRef {
		if ref.Name == "" {
			return true
		}
	}
	return false
}

// runMultiCheck implements the Rule-level multi-check fan-out: one Check
// with multicheck=true and a null-named content-ref expands, via the
// engine's query_fn, into one RuleResult per definition name found in the
// referenced content.
func (p *Policy) runMultiCheck(ctx context.Context, rule *model.Rule, check *model.Check) ([]*RuleResult, *HookAbortError) {
	href := ""
	for _, ref := range check.ContentRef {
		if ref.Name == "" {
			href = ref.Href
			break
		}
	}

	engines := p.model.Registry.Lookup(check.System)
	var names []string
	var queried bool
	for _, reg := range engines {
		if reg.Query == nil {
			continue
		}
		ns, err := reg.Query(ctx, href)
		if err != nil || ns == nil {
			continue
		}
		names = ns
		queried = true
		break
	}

	if !queried {
		h := &Handle{Model: p.model, Policy: p}
		kind, clone, msg := EvaluateCheck(ctx, h, rule.ID, check)
		if msg == "" {
			msg = "Checking engine does not support multi-check"
		}
		return p.emitWithCheck(rule, kind, msg, clone)
	}

	if len(names) == 0 {
		return p.emit(rule, Unknown, "No definitions found for @multi-check.")
	}

	var results []*RuleResult
	for i, name := range names {
		if i > 0 && p.model.StartHook != nil {
			if code := p.model.StartHook(rule); code != 0 {
				return results, &HookAbortError{Code: code}
			}
		}

		clone := check.Clone()
		for j := range clone.ContentRef {
			if clone.ContentRef[j].Name == "" {
				clone.ContentRef[j].Name = name
			}
		}

		h := &Handle{Model: p.model, Policy: p}
		kind, evaluated, msg := EvaluateCheck(ctx, h, rule.ID, clone)
		rr, abort := p.emitWithCheck(rule, kind, msg, evaluated)
		results = append(results, rr...)
		if abort != nil {
			return results, abort
		}
	}
	return results, nil
}

func (p *Policy) applicable(ctx context.Context, rule *model.Rule) (bool, error) {
	src := cpe.Sources{
		EmbeddedLangModel:  p.model.Benchmark.CPE.LangModel,
		ExternalLangModels: p.model.ExternalLangModels,
		EmbeddedDict:       p.model.Benchmark.CPE.Dictionary,
		ExternalDicts:      p.model.ExternalDicts,
	}
	evalCheck := func(ctx context.Context, system, href, name string) (bool, error) {
		engines := p.model.Registry.Lookup(system)
		for _, reg := range engines {
			kind, err := reg.Eval(ctx, &Handle{Model: p.model, Policy: p}, rule.ID, name, href, nil, nil)
			if err != nil {
				return false, err
			}
			if kind != NotChecked {
				return kind == Pass, nil
			}
		}
		return false, nil
	}
	var loader cpe.ContentLoader
	if p.model.Loader != nil {
		loader = p.model.Loader
	}
	return cpe.Applicable(ctx, rule, src, p.model.Sessions, loader, evalCheck)
}

// emit builds a single RuleResult with no chosen check (NotSelected,
// NotApplicable, NotChecked terminal states) and fires the output hook.
func (p *Policy) emit(rule *model.Rule, kind ResultKind, message string) ([]*RuleResult, *HookAbortError) {
	return p.emitWithCheck(rule, kind, message, nil)
}

func (p *Policy) emitWithCheck(rule *model.Rule, kind ResultKind, message string, check *model.Check) ([]*RuleResult, *HookAbortError) {
	tailored := p.TailorRule(rule)
	rr := &RuleResult{
		RuleID:   rule.ID,
		Result:   kind,
		Weight:   tailored.Weight,
		Version:  tailored.Version,
		Severity: tailored.Severity,
		Role:     tailored.Role,
		Time:     now(),
		Fixes:    tailored.Fixes,
		Idents:   tailored.Idents,
		Check:    check,
		Message:  message,
	}

	if p.model.OutputHook != nil {
		if code := p.model.OutputHook(rr); code != 0 {
			return []*RuleResult{rr}, &HookAbortError{Code: code}
		}
	}
	return []*RuleResult{rr}, nil
}

// now is a seam so tests can stub RuleResult timestamps deterministically.
var now = time.Now
