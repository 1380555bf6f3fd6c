package policy

import "xccdfeval/internal/model"

// ValueBinding is the engine-visible resolution of one Check export. It is
// created transiently for the duration of a single check dispatch and never
// persisted alongside the RuleResult.
type ValueBinding struct {
	Name      string // engine-visible name from the Check export
	ValueID   string
	Type      model.ValueType
	Value     string
	Setvalue  string // "" unless the Profile overrode it; does not replace Value
	Operator  model.ValueOperator
}

// BuildBindings resolves a Check's ordered exports into concrete
// ValueBindings for dispatch to a checking engine. It implements the four
// resolution steps verbatim: selector by refine-value (last match wins),
// operator by refine-value-or-Value-default, instance by selector, and
// setvalue override by Profile setvalues (last match wins).
//
// The "last match wins" rule is not accidental: Profiles may repeat a
// refine-value or setvalue for the same id (e.g. tailoring composition), and
// only a linear scan keeping the final match reproduces the reference
// semantics. A map keyed by id would silently pick an arbitrary winner when
// insertion order isn't preserved, so this is a plain scan over the slice.
func BuildBindings(bench *model.Benchmark, prof *model.Profile, exports []model.CheckExport) ([]ValueBinding, error) {
	bindings := make([]ValueBinding, 0, len(exports))
	for _, exp := range exports {
		val, ok := bench.Values[exp.ValueID]
		if !ok {
			return nil, &ValueMissingError{ValueID: exp.ValueID}
		}

		selector, operator := resolveRefineValue(prof, exp.ValueID, val.Operator)

		inst, ok := val.InstanceBySelector(selector)
		if !ok {
			return nil, &ValueInstanceMissingError{ValueID: exp.ValueID, Selector: selector}
		}

		setvalue := resolveSetvalue(prof, exp.ValueID)

		bindings = append(bindings, ValueBinding{
			Name:     exp.Name,
			ValueID:  exp.ValueID,
			Type:     val.Type,
			Value:    inst.Content,
			Setvalue: setvalue,
			Operator: operator,
		})
	}
	return bindings, nil
}

// resolveRefineValue scans prof.RefineValues left to right, keeping the last
// match for valueID. Fields left nil on the winning refine-value fall back
// to their un-refined defaults.
func resolveRefineValue(prof *model.Profile, valueID string, defaultOperator model.ValueOperator) (selector string, operator model.ValueOperator) {
	operator = defaultOperator
	if prof == nil {
		return "", operator
	}
	var winner *model.RefineValue
	for i := range prof.RefineValues {
		if prof.RefineValues[i].ValueID == valueID {
			winner = &prof.RefineValues[i]
		}
	}
	if winner == nil {
		return "", operator
	}
	if winner.Selector != nil {
		selector = *winner.Selector
	}
	if winner.Operator != nil {
		operator = *winner.Operator
	}
	return selector, operator
}

// resolveSetvalue scans prof.Setvalues left to right, keeping the last match.
func resolveSetvalue(prof *model.Profile, valueID string) string {
	if prof == nil {
		return ""
	}
	var out string
	for _, sv := range prof.Setvalues {
		if sv.ValueID == valueID {
			out = sv.Content
		}
	}
	return out
}
