package policy

import (
	"context"

	"xccdfeval/internal/model"
)

// Evaluate runs this Policy's Rule Runner over every Rule reachable in the
// Benchmark, in Benchmark pre-order, and folds the resulting TestResult
// through every known scoring system. A HookAbort with code -1 discards the
// in-progress TestResult and returns the error; any other abort returns the
// partial TestResult alongside the error.
func (p *Policy) Evaluate(ctx context.Context) (*TestResult, error) {
	tr := &TestResult{
		ID:    p.testResultID(),
		Start: now(),
		Score: make(map[string]float64),
	}

	var abortErr *HookAbortError
	p.model.Benchmark.Walk(func(it model.Item) {
		if abortErr != nil {
			return
		}
		rule, ok := it.(*model.Rule)
		if !ok {
			return
		}
		if f := p.model.RuleFilter; f != nil && !f[rule.ID] {
			return
		}
		results, abort := p.RunRule(ctx, rule)
		tr.Results = append(tr.Results, results...)
		if abort != nil {
			abortErr = abort
		}
	})

	tr.End = now()

	if abortErr != nil && abortErr.Fatal() {
		return nil, abortErr
	}

	for _, sys := range []string{ScoringDefault, ScoringFlat, ScoringFlatUnweighted, ScoringAbsolute} {
		score, err := ComputeScore(sys, p.model.Benchmark, tr)
		if err != nil {
			continue
		}
		tr.Score[sys] = score
	}

	p.Results = append(p.Results, tr)

	if abortErr != nil {
		return tr, abortErr
	}
	return tr, nil
}
