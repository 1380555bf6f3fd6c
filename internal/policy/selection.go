package policy

import "xccdfeval/internal/model"

// ResolveSelections walks bench depth-first, carrying an inherited
// parentSelected boolean (true at the root), and returns the effective
// per-Rule selection map. A deselected Group forces every transitive Rule
// beneath it to NotSelected regardless of the Rule's own Profile state or
// default-selected flag: a Profile select can enable a Group or Rule, but
// never re-selects anything under a deselected ancestor.
func ResolveSelections(bench *model.Benchmark, prof *model.Profile) map[string]bool {
	selects := make(map[string]bool)
	var walk func(items []model.Item, parentSelected bool)
	walk = func(items []model.Item, parentSelected bool) {
		for _, it := range items {
			switch v := it.(type) {
			case *model.Rule:
				sel := parentSelected && effectiveSelect(prof, v.ID, v.Selected)
				selects[v.ID] = sel
			case *model.Group:
				var groupSelected bool
				if !parentSelected {
					groupSelected = false
				} else {
					groupSelected = effectiveSelect(prof, v.ID, v.Selected)
				}
				walk(v.Children, groupSelected)
			default:
				// Values and other non-selectable items are ignored here.
			}
		}
	}
	walk(bench.Children, true)
	return selects
}

// effectiveSelect returns the Profile's select directive for itemID if
// present (last match wins), else the item's own default-selected flag.
func effectiveSelect(prof *model.Profile, itemID string, defaultSelected bool) bool {
	if prof == nil {
		return defaultSelected
	}
	found := false
	var val bool
	for _, s := range prof.Selects {
		if s.ItemID == itemID {
			val = s.Selected
			found = true
		}
	}
	if found {
		return val
	}
	return defaultSelected
}
