// Package refengine implements a minimal, self-contained OVAL-flavored
// checking engine. It exists purely so this repository's CLI can drive the
// policy-evaluation core end to end without depending on a real OVAL
// implementation, which is explicitly out of scope for the core itself.
//
// A refengine.Engine holds one target's fact set and a set of loaded
// "content" documents, each a flat map of definition name -> predicate.
// Evaluating a definition compares either a raw target fact or an
// XCCDF-bound Value against an expected literal.
package refengine

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"sync"

	"xccdfeval/internal/model"
	"xccdfeval/internal/policy"
)

// Definition is one OVAL-like predicate: compare a fact (or a bound Value)
// against an expected literal using an XCCDF comparison operator.
type Definition struct {
	Name        string              `yaml:"name"`
	Fact        string              `yaml:"fact,omitempty"`
	UsesBinding string              `yaml:"uses_binding,omitempty"`
	Operator    model.ValueOperator `yaml:"operator"`
	Expected    string              `yaml:"expected"`
}

// Content is one href's worth of definitions.
type Content struct {
	Definitions map[string]Definition
}

// Engine is a checking engine keyed by target facts + loaded content.
type Engine struct {
	mu       sync.RWMutex
	Facts    map[string]string
	contents map[string]*Content // href -> content
}

// New returns an Engine evaluating against the given target fact set.
func New(facts map[string]string) *Engine {
	if facts == nil {
		facts = map[string]string{}
	}
	return &Engine{Facts: facts, contents: make(map[string]*Content)}
}

// LoadContent registers definitions found at href, as if a definitions
// document had just been parsed. Real content loading happens in
// internal/loader; this is the engine-side registration step.
func (e *Engine) LoadContent(href string, defs []Definition) {
	e.mu.Lock()
	defer e.mu.Unlock()
	c := &Content{Definitions: make(map[string]Definition, len(defs))}
	for _, d := range defs {
		c.Definitions[d.Name] = d
	}
	e.contents[href] = c
}

// RegisterWith registers this engine's Eval and Query functions with
// registry under systemURI, mirroring the teacher's init-time
// self-registration idiom (Register in registry.go simply appends and never
// panics; duplicate registrations for the same URI are permitted, per the
// Engine Registry's "multiple engines per system URI" contract).
func (e *Engine) RegisterWith(registry *policy.Registry, systemURI string) {
	registry.Register(systemURI, policy.EngineRegistration{
		Name:  "refengine",
		Eval:  e.Eval,
		Query: e.Query,
	})
}

// Eval implements policy.EvalFunc.
func (e *Engine) Eval(ctx context.Context, h *policy.Handle, ruleID, contentName, href string, bindings []policy.ValueBinding, imports []model.CheckImport) (policy.ResultKind, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	content, ok := e.contents[href]
	if !ok {
		return policy.NotChecked, nil
	}

	def, ok := content.Definitions[contentName]
	if !ok {
		if contentName == "" && len(content.Definitions) == 1 {
			for _, only := range content.Definitions {
				def = only
				ok = true
			}
		}
	}
	if !ok {
		return policy.NotChecked, nil
	}

	pass, err := e.evaluateDefinition(def, bindings)
	if err != nil {
		return policy.Error, err
	}
	if pass {
		return policy.Pass, nil
	}
	return policy.Fail, nil
}

// Query implements policy.QueryFunc's NamesForHref contract: it returns the
// sorted definition names found at href, or nil if href is unknown to this
// engine (which the core treats as "this engine does not support
// querying").
func (e *Engine) Query(ctx context.Context, href string) ([]string, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	content, ok := e.contents[href]
	if !ok {
		return nil, nil
	}
	names := make([]string, 0, len(content.Definitions))
	for name := range content.Definitions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

func (e *Engine) evaluateDefinition(def Definition, bindings []policy.ValueBinding) (bool, error) {
	actual, ok := e.resolveActual(def, bindings)
	if !ok {
		return false, fmt.Errorf("refengine: definition %q references unknown fact/binding", def.Name)
	}
	return compare(def.Operator, actual, def.Expected)
}

func (e *Engine) resolveActual(def Definition, bindings []policy.ValueBinding) (string, bool) {
	if def.UsesBinding != "" {
		for _, b := range bindings {
			if b.Name != def.UsesBinding {
				continue
			}
			if b.Setvalue != "" {
				return b.Setvalue, true
			}
			return b.Value, true
		}
		return "", false
	}
	v, ok := e.Facts[def.Fact]
	return v, ok
}

func compare(op model.ValueOperator, actual, expected string) (bool, error) {
	switch op {
	case model.OpEquals, "":
		return actual == expected, nil
	case model.OpNotEqual:
		return actual != expected, nil
	case model.OpPatternMatch:
		re, err := regexp.Compile(expected)
		if err != nil {
			return false, fmt.Errorf("refengine: invalid pattern %q: %w", expected, err)
		}
		return re.MatchString(actual), nil
	case model.OpGreater, model.OpLess, model.OpGreaterOrEqual, model.OpLessOrEqual:
		a, err1 := strconv.ParseFloat(actual, 64)
		b, err2 := strconv.ParseFloat(expected, 64)
		if err1 != nil || err2 != nil {
			return false, fmt.Errorf("refengine: operator %q requires numeric operands, got %q/%q", op, actual, expected)
		}
		switch op {
		case model.OpGreater:
			return a > b, nil
		case model.OpLess:
			return a < b, nil
		case model.OpGreaterOrEqual:
			return a >= b, nil
		default:
			return a <= b, nil
		}
	default:
		return false, fmt.Errorf("refengine: unsupported operator %q", op)
	}
}
