package loader

import (
	"fmt"
	"strconv"
	"strings"

	"xccdfeval/internal/model"
)

// Build converts a parsed Document into a *model.Benchmark, resolving the
// Values/Rules/Groups lookup maps as it walks the declared item tree.
func (d *Document) Build() (*model.Benchmark, error) {
	b := model.NewBenchmark(d.Benchmark.ID, d.Benchmark.Title, weightOr(d.Benchmark.Weight, 1))
	b.Schema = parseSchemaVersion(d.Benchmark.SchemaVersion)
	b.Values = make(map[string]*model.Value)
	b.Rules = make(map[string]*model.Rule)
	b.Groups = make(map[string]*model.Group)
	b.PlainTexts = d.Benchmark.PlainTexts

	for _, vd := range d.Benchmark.Values {
		v := buildValue(vd, b)
		b.Values[v.ItemID()] = v
	}

	children, err := buildItems(d.Benchmark.Items, b, b)
	if err != nil {
		return nil, err
	}
	b.Children = children

	for _, pd := range d.Benchmark.Profiles {
		b.Profiles = append(b.Profiles, buildProfile(pd))
	}

	if d.Benchmark.CPE != nil {
		if d.Benchmark.CPE.Dictionary != nil {
			b.CPE.Dictionary = buildCPEDict(*d.Benchmark.CPE.Dictionary)
		}
		if d.Benchmark.CPE.LangModel != nil {
			b.CPE.LangModel = buildCPELangModel(*d.Benchmark.CPE.LangModel)
		}
	}

	return b, nil
}

func parseSchemaVersion(s string) model.SchemaVersion {
	parts := strings.SplitN(s, ".", 2)
	if len(parts) != 2 {
		return model.SchemaVersion{Major: 1, Minor: 2}
	}
	major, err1 := strconv.Atoi(parts[0])
	minor, err2 := strconv.Atoi(parts[1])
	if err1 != nil || err2 != nil {
		return model.SchemaVersion{Major: 1, Minor: 2}
	}
	return model.SchemaVersion{Major: major, Minor: minor}
}

func weightOr(w *float64, def float64) float64 {
	if w == nil {
		return def
	}
	return *w
}

func buildValue(vd ValueDoc, parent model.Item) *model.Value {
	v := model.NewValue(vd.ID, vd.Title, parent)
	v.Type, v.Operator = vd.Type, vd.Operator
	for _, id := range vd.Instances {
		v.Instances = append(v.Instances, model.ValueInstance{Selector: id.Selector, Content: id.Content})
	}
	return v
}

func buildItems(docs []ItemDoc, parent model.Item, b *model.Benchmark) ([]model.Item, error) {
	out := make([]model.Item, 0, len(docs))
	for _, id := range docs {
		it, err := buildItem(id, parent, b)
		if err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, nil
}

func buildItem(id ItemDoc, parent model.Item, b *model.Benchmark) (model.Item, error) {
	switch id.Kind {
	case "group":
		g := model.NewGroup(id.ID, id.Title, weightOr(id.Weight, 1), id.Platforms, selectedOr(id.Selected, true), parent)
		children, err := buildItems(id.Children, g, b)
		if err != nil {
			return nil, err
		}
		g.Children = children
		b.Groups[g.ItemID()] = g
		return g, nil
	case "rule":
		r := model.NewRule(id.ID, id.Title, weightOr(id.Weight, 1), id.Platforms, selectedOr(id.Selected, true), parent)
		r.Description = id.Description
		r.Version = id.Version
		r.Severity = model.Severity(orDefault(id.Severity, string(model.SeverityUnknown)))
		r.Role = orDefault(id.Role, "full")
		for _, cd := range id.ComplexChecks {
			r.ComplexChecks = append(r.ComplexChecks, buildCheck(cd))
		}
		for _, cd := range id.Checks {
			r.Checks = append(r.Checks, buildCheck(cd))
		}
		for _, fd := range id.Fixes {
			r.Fixes = append(r.Fixes, model.Fix{System: fd.System, Content: fd.Content})
		}
		for _, idd := range id.Idents {
			r.Idents = append(r.Idents, model.Ident{System: idd.System, Value: idd.Value})
		}
		b.Rules[r.ItemID()] = r
		return r, nil
	default:
		return nil, fmt.Errorf("loader: unknown item kind %q for id %q", id.Kind, id.ID)
	}
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

func selectedOr(b *bool, def bool) bool {
	if b == nil {
		return def
	}
	return *b
}

func buildCheck(cd CheckDoc) *model.Check {
	c := &model.Check{
		System:     cd.System,
		Selector:   cd.Selector,
		Negate:     cd.Negate,
		MultiCheck: cd.MultiCheck,
		Complex:    len(cd.Children) > 0,
		Operator:   model.CheckOperator(orDefault(cd.Operator, string(model.OpAnd))),
	}
	for _, ch := range cd.Children {
		c.Children = append(c.Children, buildCheck(ch))
	}
	for _, cr := range cd.ContentRef {
		c.ContentRef = append(c.ContentRef, model.ContentRef{Href: cr.Href, Name: cr.Name})
	}
	for _, ex := range cd.Exports {
		c.Exports = append(c.Exports, model.CheckExport{ValueID: ex.ValueID, Name: ex.Name})
	}
	for _, im := range cd.Imports {
		c.Imports = append(c.Imports, model.CheckImport{Name: im.Name})
	}
	return c
}

func buildProfile(pd ProfileDoc) *model.Profile {
	p := &model.Profile{ID: pd.ID, Title: pd.Title}
	for _, s := range pd.Selects {
		p.Selects = append(p.Selects, model.Select{ItemID: s.ItemID, Selected: s.Selected})
	}
	for _, sv := range pd.Setvalues {
		p.Setvalues = append(p.Setvalues, model.Setvalue{ValueID: sv.ValueID, Content: sv.Content})
	}
	for _, rr := range pd.RefineRules {
		p.RefineRules = append(p.RefineRules, model.RefineRule{
			RuleID:   rr.RuleID,
			Weight:   rr.Weight,
			Severity: severityPtr(rr.Severity),
			Role:     rr.Role,
			Selector: rr.Selector,
		})
	}
	for _, rv := range pd.RefineValues {
		p.RefineValues = append(p.RefineValues, model.RefineValue{
			ValueID:  rv.ValueID,
			Selector: rv.Selector,
			Operator: operatorPtr(rv.Operator),
		})
	}
	return p
}

func severityPtr(s *string) *model.Severity {
	if s == nil {
		return nil
	}
	v := model.Severity(*s)
	return &v
}

func operatorPtr(s *string) *model.ValueOperator {
	if s == nil {
		return nil
	}
	v := model.ValueOperator(*s)
	return &v
}

func buildCPEDict(dd CPEDictDoc) *model.CPEDictionary {
	dict := &model.CPEDictionary{SourceHref: dd.SourceHref}
	for _, it := range dd.Items {
		item := model.CPEDictItem{Name: it.Name}
		if it.Kind == "check" {
			item.Kind = model.CPEDictKindCheck
			item.Check = buildCPECheckRef(it.Check)
		}
		dict.Items = append(dict.Items, item)
	}
	return dict
}

func buildCPECheckRef(cd *CPECheckRefDoc) *model.CPECheckRef {
	if cd == nil {
		return nil
	}
	return &model.CPECheckRef{System: cd.System, Href: cd.Href, Name: cd.Name}
}

func buildCPELangModel(ld CPELangModelDoc) *model.CPELangModel {
	lm := &model.CPELangModel{SourceHref: ld.SourceHref, Platforms: make(map[string]model.CPEPlatform)}
	for _, pd := range ld.Platforms {
		lm.Platforms[pd.ID] = model.CPEPlatform{ID: pd.ID, Test: buildCPELogicalTest(pd.Test)}
	}
	return lm
}

func buildCPELogicalTest(td CPELogicalTestDoc) model.CPELogicalTest {
	t := model.CPELogicalTest{
		Operator: model.CheckOperator(orDefault(td.Operator, string(model.OpAnd))),
		Negate:   td.Negate,
	}
	for _, f := range td.Facts {
		fact := model.CPEFactRef{Negate: f.Negate}
		if f.Check != nil {
			fact.IsCheck = true
			fact.Check = buildCPECheckRef(f.Check)
		} else {
			fact.Name = f.Name
		}
		t.Facts = append(t.Facts, fact)
	}
	for _, n := range td.Nested {
		t.Nested = append(t.Nested, buildCPELogicalTest(n))
	}
	return t
}
