package policy

import (
	"context"
	"fmt"
	"time"

	"xccdfeval/internal/cpe"
	"xccdfeval/internal/model"
)

// StartHookFunc fires before a Rule is evaluated. A non-zero return aborts
// the current Policy evaluation.
type StartHookFunc func(rule *model.Rule) int

// OutputHookFunc fires once per produced RuleResult. A non-zero return
// aborts further Policy evaluation; -1 additionally discards the
// in-progress TestResult.
type OutputHookFunc func(result *RuleResult) int

// FileRef is one (system, href) pair referenced by a Rule's checks.
type FileRef struct {
	System string
	Href   string
}

// PolicyModel owns the Benchmark, every Policy derived from it, the engine
// registry, external CPE content, and the CPE/OVAL session cache. It is the
// single point of construction for Policies; callers never build a Policy
// directly.
type PolicyModel struct {
	Benchmark *model.Benchmark
	Registry  *Registry
	Sessions  SessionCache

	StartHook  StartHookFunc
	OutputHook OutputHookFunc

	// RuleFilter, when non-nil, restricts Evaluate to Rules whose ID it
	// contains. A nil filter evaluates every Rule reachable in the tree.
	RuleFilter map[string]bool

	ExternalDicts      []*model.CPEDictionary
	ExternalLangModels []*model.CPELangModel

	// Loader loads CPE/OVAL definition content the first time a href is
	// referenced during applicability evaluation. nil skips loading and
	// session caching; content-backed CPE checks are then evaluated directly
	// through the registered engines.
	Loader cpe.ContentLoader

	policies map[string]*Policy // keyed by profile id, "" for the default policy
	order    []string
}

// SessionCache is the narrow interface the CPE Applicability component needs
// from a session cache; internal/cpecache provides the concrete
// singleflight+LRU implementation described in SPEC_FULL.md.
type SessionCache interface {
	// GetOrLoad returns the cached session for href, loading it via load on
	// first reference. Concurrent first-references are deduplicated so load
	// runs at most once per href.
	GetOrLoad(ctx context.Context, href string, load func(ctx context.Context) (any, error)) (any, error)
}

// NewPolicyModel constructs a PolicyModel from bench: one default Policy
// (no Profile) plus one Policy per declared Profile, each with selections
// already resolved.
func NewPolicyModel(bench *model.Benchmark, registry *Registry, sessions SessionCache) *PolicyModel {
	pm := &PolicyModel{
		Benchmark: bench,
		Registry:  registry,
		Sessions:  sessions,
		policies:  make(map[string]*Policy),
	}
	pm.addPolicy("", nil)
	for _, p := range bench.Profiles {
		pm.addPolicy(p.ID, p)
	}
	return pm
}

func (pm *PolicyModel) addPolicy(id string, prof *model.Profile) {
	policy := &Policy{
		model:   pm,
		Profile: prof,
		selects: ResolveSelections(pm.Benchmark, prof),
	}
	pm.policies[id] = policy
	pm.order = append(pm.order, id)
}

// PolicyByProfile returns the Policy for the given Profile id, or the
// default Policy if profileID is "".
func (pm *PolicyModel) PolicyByProfile(profileID string) (*Policy, bool) {
	p, ok := pm.policies[profileID]
	return p, ok
}

// AddExternalDictionary registers a CPE dictionary consulted after the
// Benchmark's own embedded dictionary.
func (pm *PolicyModel) AddExternalDictionary(d *model.CPEDictionary) {
	pm.ExternalDicts = append(pm.ExternalDicts, d)
}

// AddExternalLangModel registers a CPE language model consulted after the
// Benchmark's own embedded language model.
func (pm *PolicyModel) AddExternalLangModel(l *model.CPELangModel) {
	pm.ExternalLangModels = append(pm.ExternalLangModels, l)
}

// ReferencedFiles returns the deduplicated (system, href) pairs referenced
// by every Rule's checks and complex-check trees, in first-occurrence
// Benchmark pre-order. This does not evaluate anything; it exists so a
// caller can answer "what content does this Benchmark need" up front.
func (pm *PolicyModel) ReferencedFiles() []FileRef {
	seen := make(map[FileRef]struct{})
	var out []FileRef
	add := func(system, href string) {
		ref := FileRef{System: system, Href: href}
		if _, ok := seen[ref]; ok {
			return
		}
		seen[ref] = struct{}{}
		out = append(out, ref)
	}
	var walkCheck func(c *model.Check)
	walkCheck = func(c *model.Check) {
		if c == nil {
			return
		}
		for _, ref := range c.ContentRef {
			add(c.System, ref.Href)
		}
		for _, child := range c.Children {
			walkCheck(child)
		}
	}
	pm.Benchmark.Walk(func(it model.Item) {
		r, ok := it.(*model.Rule)
		if !ok {
			return
		}
		for _, c := range r.AllChecks() {
			walkCheck(c)
		}
	})
	return out
}

// Policy is a Profile applied to a Benchmark.
type Policy struct {
	model   *PolicyModel
	Profile *model.Profile // nil for the default policy

	selects map[string]bool // rule-id -> effective selection
	Results []*TestResult
}

// ProfileID returns the Profile's id, or "" for the default Policy.
func (p *Policy) ProfileID() string {
	if p.Profile == nil {
		return ""
	}
	return p.Profile.ID
}

// Selected reports the effective selection for ruleID. Every Rule reachable
// in the Benchmark has an entry after construction.
func (p *Policy) Selected(ruleID string) bool {
	return p.selects[ruleID]
}

// testResultID formats a TestResult id per the Benchmark's schema version.
func (p *Policy) testResultID() string {
	suffix := p.ProfileID()
	if suffix == "" {
		suffix = "default-profile"
	}
	if p.model.Benchmark.Schema.AtLeast(1, 2) {
		return fmt.Sprintf("xccdf_org.open-scap_testresult_%s", suffix)
	}
	return fmt.Sprintf("OSCAP-Test-%s", suffix)
}

// TestResult is the ordered outcome of one Policy evaluation.
type TestResult struct {
	ID        string
	Start     time.Time
	End       time.Time
	Results   []*RuleResult
	Score     map[string]float64 // scoring system URI -> score, populated by Evaluate via ComputeScore
}

// RuleResult is one Rule's outcome within a TestResult.
type RuleResult struct {
	RuleID   string
	Result   ResultKind
	Weight   float64
	Version  string
	Severity model.Severity
	Role     string
	Time     time.Time
	Fixes    []model.Fix
	Idents   []model.Ident
	Check    *model.Check // clone with the selected content-ref pinned; nil if no check ran
	Message  string
}

// ProfileIDs returns policy ids in construction order (default "" first).
func (pm *PolicyModel) ProfileIDs() []string {
	return append([]string(nil), pm.order...)
}
