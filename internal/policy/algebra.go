package policy

// ResultKind is the outcome of a check or a Rule. Rank order matters: it is
// the order the original NISTIR-7275r4 tables use, and several invariants
// (skip-kind absorption, "higher rank wins among skips") are stated in
// terms of it.
type ResultKind int

const (
	resultUnused ResultKind = iota // index 0 is never produced; tables are 1-indexed to mirror the reference tables
	Pass
	Fail
	Error
	Unknown
	NotApplicable
	NotChecked
	NotSelected
	Informational
)

// Fixed is a display alias for Pass; it never appears as a distinct rank in
// the algebra, only when a caller wants to record that a Fail was
// subsequently remediated. Scoring treats Fixed exactly like Pass.
const Fixed = Pass

func (k ResultKind) String() string {
	switch k {
	case Pass:
		return "pass"
	case Fail:
		return "fail"
	case Error:
		return "error"
	case Unknown:
		return "unknown"
	case NotApplicable:
		return "notapplicable"
	case NotChecked:
		return "notchecked"
	case NotSelected:
		return "notselected"
	case Informational:
		return "informational"
	default:
		return "invalid"
	}
}

// IsSkipKind reports whether a Rule with this result is excluded from scoring.
func (k ResultKind) IsSkipKind() bool {
	switch k {
	case NotSelected, NotApplicable, Informational, NotChecked:
		return true
	default:
		return false
	}
}

// andTable and orTable are declared as literal 9x9 arrays (index 0 unused)
// rather than derived from a formula, per the design note that the
// reduction table must stay auditable against the published tables it
// mirrors. Row/column order: Pass, Fail, Error, Unknown, NotApplicable,
// NotChecked, NotSelected, Informational.
//
// These are transcribed verbatim from RESULT_TABLE_AND/RESULT_TABLE_OR in
// xccdf_policy.c's _resolve_operation, not derived from the English
// description of the algebra. The Error/Unknown rows and columns are
// deliberately NOT symmetric: And(Error, Pass) is Unknown but And(Pass,
// Error) is Error, and the mirror asymmetry holds for Or. This contradicts a
// naive reading of the commutativity property, but the reference table is
// ground truth here, not the prose.
var andTable = [9][9]ResultKind{
	1: {0: 0, 1: Pass, 2: Fail, 3: Error, 4: Unknown, 5: Pass, 6: Pass, 7: Pass, 8: Pass},
	2: {0: 0, 1: Fail, 2: Fail, 3: Fail, 4: Fail, 5: Fail, 6: Fail, 7: Fail, 8: Fail},
	3: {0: 0, 1: Unknown, 2: Fail, 3: Unknown, 4: Unknown, 5: Unknown, 6: Unknown, 7: Unknown, 8: Unknown},
	4: {0: 0, 1: Error, 2: Fail, 3: Error, 4: Unknown, 5: Error, 6: Error, 7: Error, 8: Error},
	5: {0: 0, 1: Pass, 2: Fail, 3: Error, 4: Unknown, 5: NotApplicable, 6: NotApplicable, 7: NotApplicable, 8: NotApplicable},
	6: {0: 0, 1: Pass, 2: Fail, 3: Error, 4: Unknown, 5: NotApplicable, 6: NotChecked, 7: NotChecked, 8: NotChecked},
	7: {0: 0, 1: Pass, 2: Fail, 3: Error, 4: Unknown, 5: NotApplicable, 6: NotChecked, 7: NotSelected, 8: NotSelected},
	8: {0: 0, 1: Pass, 2: Fail, 3: Error, 4: Unknown, 5: NotApplicable, 6: NotChecked, 7: NotSelected, 8: Informational},
}

var orTable = [9][9]ResultKind{
	1: {0: 0, 1: Pass, 2: Pass, 3: Pass, 4: Pass, 5: Pass, 6: Pass, 7: Pass, 8: Pass},
	2: {0: 0, 1: Pass, 2: Fail, 3: Error, 4: Unknown, 5: Fail, 6: Fail, 7: Fail, 8: Fail},
	3: {0: 0, 1: Pass, 2: Unknown, 3: Unknown, 4: Unknown, 5: Unknown, 6: Unknown, 7: Unknown, 8: Unknown},
	4: {0: 0, 1: Pass, 2: Error, 3: Error, 4: Unknown, 5: Error, 6: Error, 7: Error, 8: Error},
	5: {0: 0, 1: Pass, 2: Fail, 3: Error, 4: Unknown, 5: NotApplicable, 6: NotApplicable, 7: NotApplicable, 8: NotApplicable},
	6: {0: 0, 1: Pass, 2: Fail, 3: Error, 4: Unknown, 5: NotApplicable, 6: NotChecked, 7: NotChecked, 8: NotChecked},
	7: {0: 0, 1: Pass, 2: Fail, 3: Error, 4: Unknown, 5: NotApplicable, 6: NotChecked, 7: NotSelected, 8: NotSelected},
	8: {0: 0, 1: Pass, 2: Fail, 3: Error, 4: Unknown, 5: NotApplicable, 6: NotChecked, 7: NotSelected, 8: Informational},
}

// And combines two ResultKinds under conjunction.
func And(x, y ResultKind) ResultKind { return andTable[x][y] }

// Or combines two ResultKinds under disjunction.
func Or(x, y ResultKind) ResultKind { return orTable[x][y] }

// Negate swaps Pass and Fail; every other ResultKind passes through
// unchanged. Callers apply this exactly once, at the root of a check.
func Negate(k ResultKind) ResultKind {
	switch k {
	case Pass:
		return Fail
	case Fail:
		return Pass
	default:
		return k
	}
}

// Reduce folds a non-empty slice of ResultKinds left-to-right with op.
func Reduce(op CheckOp, kinds []ResultKind) ResultKind {
	acc := kinds[0]
	for _, k := range kinds[1:] {
		acc = op(acc, k)
	}
	return acc
}

// CheckOp is either And or Or.
type CheckOp func(x, y ResultKind) ResultKind
