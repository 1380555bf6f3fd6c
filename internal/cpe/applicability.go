// Package cpe implements CPE (Common Platform Enumeration) applicability:
// deciding whether a Benchmark Item applies to the target platform the
// checking engines represent.
package cpe

import (
	"context"
	"strings"

	"xccdfeval/internal/model"
)

// ContentLoader loads CPE/OVAL definition content for href the first time
// it is referenced. What it returns is opaque to this package; it exists
// purely so a session can be cached and reused.
type ContentLoader func(ctx context.Context, href string) (any, error)

// CheckEvaluator evaluates a check-backed CPE fact (an OVAL definition
// referenced from a CPE dictionary item or language-model platform test)
// and reports whether it holds for the target.
type CheckEvaluator func(ctx context.Context, system, href, name string) (bool, error)

// SessionCache is the narrow interface this package needs from a session
// cache; internal/cpecache.Cache satisfies it structurally.
type SessionCache interface {
	GetOrLoad(ctx context.Context, href string, load func(ctx context.Context) (any, error)) (any, error)
}

// Sources bundles every place a platform reference may be resolved against,
// in the resolution order the specification requires: embedded language
// model, external language models, embedded dictionary, external
// dictionaries.
type Sources struct {
	EmbeddedLangModel *model.CPELangModel
	ExternalLangModels []*model.CPELangModel
	EmbeddedDict      *model.CPEDictionary
	ExternalDicts     []*model.CPEDictionary
}

// Applicable reports whether item applies: its parent must be applicable
// (recursively to the Benchmark root, always true), and at least one of its
// platform references must resolve to true. An Item with no platform
// references is applicable unconditionally.
func Applicable(ctx context.Context, item model.Item, src Sources, sessions SessionCache, loader ContentLoader, evalCheck CheckEvaluator) (bool, error) {
	if parent := item.ParentItem(); parent != nil {
		ok, err := Applicable(ctx, parent, src, sessions, loader, evalCheck)
		if err != nil || !ok {
			return ok, err
		}
	}

	refs := item.Platforms()
	if len(refs) == 0 {
		return true, nil
	}

	r := &resolver{sessions: sessions, loader: loader, evalCheck: evalCheck}
	for _, ref := range refs {
		ok, err := r.resolveOne(ctx, ref, src)
		if err != nil {
			// ContentUnloadable: this source failed, try the remaining
			// platform references rather than failing the whole Item.
			continue
		}
		if ok {
			return true, nil
		}
	}
	return false, nil
}

type resolver struct {
	sessions  SessionCache
	loader    ContentLoader
	evalCheck CheckEvaluator
}

func (r *resolver) resolveOne(ctx context.Context, ref string, src Sources) (bool, error) {
	if strings.HasPrefix(ref, "#") {
		id := strings.TrimPrefix(ref, "#")
		if src.EmbeddedLangModel != nil {
			if p, ok := src.EmbeddedLangModel.Platforms[id]; ok {
				return r.evalLogicalTest(ctx, p.Test, src)
			}
		}
		for _, lm := range src.ExternalLangModels {
			if p, ok := lm.Platforms[id]; ok {
				return r.evalLogicalTest(ctx, p.Test, src)
			}
		}
		return false, nil
	}

	if src.EmbeddedDict != nil {
		if ok, matched, err := r.matchDict(ctx, src.EmbeddedDict, ref); matched {
			return ok, err
		}
	}
	for _, d := range src.ExternalDicts {
		if ok, matched, err := r.matchDict(ctx, d, ref); matched {
			return ok, err
		}
	}
	return false, nil
}

// matchDict reports (result, matched, err): matched is false when name
// isn't present in this dictionary at all, so the caller can try the next source.
func (r *resolver) matchDict(ctx context.Context, dict *model.CPEDictionary, name string) (bool, bool, error) {
	for _, item := range dict.Items {
		if item.Name != name {
			continue
		}
		if item.Kind == model.CPEDictKindName {
			return true, true, nil
		}
		ok, err := r.evalCheckRef(ctx, item.Check, dict.SourceHref)
		if err != nil {
			return false, true, err
		}
		return ok, true, nil
	}
	return false, false, nil
}

func (r *resolver) evalCheckRef(ctx context.Context, ref *model.CPECheckRef, originHref string) (bool, error) {
	if ref == nil {
		return false, nil
	}
	href := resolveHref(originHref, ref.Href)
	if r.sessions != nil && r.loader != nil {
		if _, err := r.sessions.GetOrLoad(ctx, href, func(ctx context.Context) (any, error) {
			return r.loader(ctx, href)
		}); err != nil {
			return false, err
		}
	}
	if r.evalCheck == nil {
		return false, nil
	}
	return r.evalCheck(ctx, ref.System, href, ref.Name)
}

func (r *resolver) evalLogicalTest(ctx context.Context, t model.CPELogicalTest, src Sources) (bool, error) {
	var acc bool
	first := true
	combine := func(v bool) {
		if first {
			acc = v
			first = false
			return
		}
		if t.Operator == model.OpOr {
			acc = acc || v
		} else {
			acc = acc && v
		}
	}

	for _, fact := range t.Facts {
		v, err := r.evalFact(ctx, fact, src)
		if err != nil {
			return false, err
		}
		combine(v)
	}
	for _, nested := range t.Nested {
		v, err := r.evalLogicalTest(ctx, nested, src)
		if err != nil {
			return false, err
		}
		combine(v)
	}
	if first {
		return false, nil
	}
	if t.Negate {
		acc = !acc
	}
	return acc, nil
}

func (r *resolver) evalFact(ctx context.Context, f model.CPEFactRef, src Sources) (bool, error) {
	var v bool
	var err error
	if f.IsCheck {
		v, err = r.evalCheckRef(ctx, f.Check, "")
	} else {
		v, _ = r.resolveOne(ctx, f.Name, src)
	}
	if err != nil {
		return false, err
	}
	if f.Negate {
		v = !v
	}
	return v, nil
}

// resolveHref joins originHref's directory with a relative href, per the
// "directory of the origin file joined with the relative href" rule.
// Language-model-origin references pass origin="" and use href as given.
func resolveHref(origin, href string) string {
	if origin == "" || strings.Contains(href, "://") || strings.HasPrefix(href, "/") {
		return href
	}
	idx := strings.LastIndex(origin, "/")
	if idx < 0 {
		return href
	}
	return origin[:idx+1] + href
}
