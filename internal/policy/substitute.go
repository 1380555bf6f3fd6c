package policy

import (
	"regexp"
	"strings"
)

var substMarker = regexp.MustCompile(`XCCDF_SUBST_SUB\(([^)]+)\)`)

// Substitute replaces every XCCDF_SUBST_SUB(id) marker in text with, in
// order: the Benchmark's plain-text content for that id, else the first
// instance value of the Policy's tailored Value for that id. A marker with
// no match on either source is left untouched.
func (p *Policy) Substitute(text string) string {
	return substMarker.ReplaceAllStringFunc(text, func(m string) string {
		sub := substMarker.FindStringSubmatch(m)
		if len(sub) != 2 {
			return m
		}
		id := strings.TrimSpace(sub[1])

		if pt, ok := p.model.Benchmark.PlainTexts[id]; ok {
			return pt
		}
		if val, ok := p.model.Benchmark.Values[id]; ok {
			tv := p.TailorValue(val)
			if len(tv.Instances) > 0 {
				return tv.Instances[0].Content
			}
		}
		return m
	})
}
