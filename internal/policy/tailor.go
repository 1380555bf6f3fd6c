package policy

import "xccdfeval/internal/model"

// TailoredRule is a Rule clone with this Policy's refine-rule overrides
// baked in. Tailoring never mutates the Benchmark-owned original;
// TailorRule and TailorValue always return a fresh value.
type TailoredRule struct {
	*model.Rule
}

// TailorRule returns rule adjusted per p's Profile refine-rules: weight,
// severity and role overrides where the refine-rule specifies them, left at
// the original's value otherwise. A refine-rule's selector is not applied
// here; the Check Chooser reads it through refineRuleSelector.
func (p *Policy) TailorRule(rule *model.Rule) *TailoredRule {
	clone := *rule
	if p.Profile != nil {
		for i := range p.Profile.RefineRules {
			rr := &p.Profile.RefineRules[i]
			if rr.RuleID != rule.ID {
				continue
			}
			if rr.Weight != nil {
				clone.Weight = *rr.Weight
			}
			if rr.Severity != nil {
				clone.Severity = *rr.Severity
			}
			if rr.Role != nil {
				clone.Role = *rr.Role
			}
		}
	}
	return &TailoredRule{Rule: &clone}
}

// refineRuleSelector returns the last matching refine-rule's selector
// override for ruleID, or "" if none applies. Used by the Check Chooser.
func refineRuleSelector(prof *model.Profile, ruleID string) string {
	if prof == nil {
		return ""
	}
	var out string
	for i := range prof.RefineRules {
		rr := &prof.RefineRules[i]
		if rr.RuleID == ruleID && rr.Selector != nil {
			out = *rr.Selector
		}
	}
	return out
}

// TailoredValue is a Value clone with non-selected instances removed and
// any Profile setvalue baked in.
type TailoredValue struct {
	*model.Value
}

// TailorValue returns val adjusted per p's Profile refine-values/setvalues:
// the selected instance is kept (all others dropped), and when the
// Profile's setvalue matches no declared instance, the literal is attached
// to the Value's default instance.
func (p *Policy) TailorValue(val *model.Value) *TailoredValue {
	selector, _ := resolveRefineValue(p.Profile, val.ID, val.Operator)
	setvalue := resolveSetvalue(p.Profile, val.ID)

	inst, ok := val.InstanceBySelector(selector)
	clone := *val
	if ok {
		clone.Instances = []model.ValueInstance{inst}
	} else {
		clone.Instances = nil
	}

	if setvalue != "" {
		matched := false
		for i := range clone.Instances {
			if clone.Instances[i].Selector == selector {
				clone.Instances[i].Content = setvalue
				matched = true
			}
		}
		if !matched {
			clone.Instances = append(clone.Instances, model.ValueInstance{Selector: "", Content: setvalue})
		}
	}
	return &TailoredValue{Value: &clone}
}
