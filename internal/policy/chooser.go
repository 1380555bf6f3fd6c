package policy

import "xccdfeval/internal/model"

// ChooseCheck selects at most one Check to execute for rule under p,
// following the precedence: complex-checks always win over simple checks;
// among simple checks, the Profile's refine-rule selector narrows the
// candidate set (falling back to unselectored checks if the narrowed set is
// empty); and among the remaining candidates, the *last* one backed by a
// registered engine is chosen.
func (p *Policy) ChooseCheck(rule *model.Rule, registry *Registry) *model.Check {
	if len(rule.ComplexChecks) > 0 {
		return rule.ComplexChecks[0]
	}
	if len(rule.Checks) == 0 {
		return nil
	}

	selector := refineRuleSelector(p.Profile, rule.ID)

	candidates := checksBySelector(rule.Checks, selector)
	if selector != "" && len(candidates) == 0 {
		candidates = checksBySelector(rule.Checks, "")
	}

	var chosen *model.Check
	for _, c := range candidates {
		if registry.HasEngine(c.System) {
			chosen = c
		}
	}
	return chosen
}

func checksBySelector(checks []*model.Check, selector string) []*model.Check {
	var out []*model.Check
	for _, c := range checks {
		if c.Selector == selector {
			out = append(out, c)
		}
	}
	return out
}
