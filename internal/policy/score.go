package policy

import "xccdfeval/internal/model"

// Scoring system URIs; ComputeScore rejects any other value with
// UnknownScoringSystemError.
const (
	ScoringDefault        = "urn:xccdf:scoring:default"
	ScoringFlat           = "urn:xccdf:scoring:flat"
	ScoringFlatUnweighted = "urn:xccdf:scoring:flat-unweighted"
	ScoringAbsolute       = "urn:xccdf:scoring:absolute"
)

// scoreNode holds one item's accumulated state during the post-order fold.
// Different scoring systems use different subsets of these fields:
//   - default: weightScore (= score * ownWeight, this node's contribution to
//     its parent's numerator) and ownWeight (this node's own declared
//     weight, the parent's denominator contribution)
//   - flat / flat-unweighted: score and weight are summed directly, no
//     further multiplication by ownWeight
//
// "count" is the number of leaf Rules that contributed beneath this node; a
// node with count == 0 is dropped when its parent folds its children,
// exactly like a skip-kind leaf is dropped by its immediate parent.
type scoreNode struct {
	score       float64
	weightScore float64
	ownWeight   float64
	weight      float64
	count       int
}

// ComputeScore computes the named scoring system's score for tr's root
// (bench), returning the root scoreNode's score, via a post-order fold over
// the Group/Rule tree (see foldItem).
func ComputeScore(system string, bench *model.Benchmark, tr *TestResult) (float64, error) {
	results := resultsByRule(tr)
	switch system {
	case ScoringDefault:
		return foldItem(bench, results, defaultLeaf, defaultFold).score, nil
	case ScoringFlat:
		return foldItem(bench, results, flatLeaf, flatFold).score, nil
	case ScoringFlatUnweighted:
		return foldItem(bench, results, flatUnweightedLeaf, flatFold).score, nil
	case ScoringAbsolute:
		flat := foldItem(bench, results, flatLeaf, flatFold)
		return absoluteFromFlat(flat).score, nil
	default:
		return 0, &UnknownScoringSystemError{URI: system}
	}
}

func resultsByRule(tr *TestResult) map[string]ResultKind {
	out := make(map[string]ResultKind)
	for _, rr := range tr.Results {
		if existing, ok := out[rr.RuleID]; ok {
			out[rr.RuleID] = And(existing, rr.Result) // multi-check: all definitions must pass
			continue
		}
		out[rr.RuleID] = rr.Result
	}
	return out
}

type leafFn func(rule *model.Rule, kind ResultKind, present bool) scoreNode
type foldFn func(ownWeight float64, counted []scoreNode) scoreNode

// foldItem performs the post-order walk, applying leaf to Rules and fold to
// Groups/the Benchmark root. Recursion depth tracks Benchmark nesting depth
// (typically shallow); pathologically deep trees would want an explicit
// stack, noted as a follow-up if this ever becomes the bottleneck.
func foldItem(it model.Item, results map[string]ResultKind, leaf leafFn, fold foldFn) scoreNode {
	switch v := it.(type) {
	case *model.Rule:
		kind, present := results[v.ID]
		return leaf(v, kind, present)
	case *model.Group:
		return fold(v.Weight, foldChildren(v.Children, results, leaf, fold))
	case *model.Benchmark:
		return fold(v.Weight, foldChildren(v.Children, results, leaf, fold))
	default:
		return scoreNode{}
	}
}

func foldChildren(items []model.Item, results map[string]ResultKind, leaf leafFn, fold foldFn) []scoreNode {
	var counted []scoreNode
	for _, child := range items {
		n := foldItem(child, results, leaf, fold)
		if n.count > 0 {
			counted = append(counted, n)
		}
	}
	return counted
}

func defaultLeaf(rule *model.Rule, kind ResultKind, present bool) scoreNode {
	if !present || kind.IsSkipKind() {
		return scoreNode{}
	}
	score := 0.0
	if kind == Pass {
		score = 100
	}
	return scoreNode{score: score, weightScore: score * rule.Weight, ownWeight: rule.Weight, count: 1}
}

func defaultFold(ownWeight float64, counted []scoreNode) scoreNode {
	if len(counted) == 0 {
		return scoreNode{}
	}
	var sumWS, sumW float64
	var count int
	for _, n := range counted {
		sumWS += n.weightScore
		sumW += n.ownWeight
		count += n.count
	}
	score := 0.0
	if sumW != 0 {
		score = sumWS / sumW
	}
	return scoreNode{score: score, weightScore: score * ownWeight, ownWeight: ownWeight, count: count}
}

func flatLeaf(rule *model.Rule, kind ResultKind, present bool) scoreNode {
	if !present || kind.IsSkipKind() {
		return scoreNode{}
	}
	score := 0.0
	if kind == Pass {
		score = rule.Weight
	}
	return scoreNode{score: score, weight: rule.Weight, count: 1}
}

func flatUnweightedLeaf(rule *model.Rule, kind ResultKind, present bool) scoreNode {
	if !present || kind.IsSkipKind() {
		return scoreNode{}
	}
	score := 0.0
	if kind == Pass {
		score = 1
	}
	return scoreNode{score: score, weight: 1, count: 1}
}

func flatFold(_ float64, counted []scoreNode) scoreNode {
	var sumS, sumW float64
	var count int
	for _, n := range counted {
		sumS += n.score
		sumW += n.weight
		count += n.count
	}
	return scoreNode{score: sumS, weight: sumW, count: count}
}

// absoluteFromFlat derives the absolute (0/1) score from a flat-scored
// node: 1 iff every counted rule beneath it passed (score sums equal weight
// sums), which is re-derivable at any node since flat scores/weights are
// plain sums, not normalized ratios.
func absoluteFromFlat(n scoreNode) scoreNode {
	score := 0.0
	if n.count > 0 && n.score == n.weight {
		score = 1
	}
	return scoreNode{score: score, weight: 1, count: n.count}
}
