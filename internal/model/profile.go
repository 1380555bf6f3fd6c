package model

// Profile is a named tailoring of a Benchmark: selects, setvalues,
// refine-rules and refine-values, applied in declaration order by the
// Selection Resolver and Value Binding Builder.
type Profile struct {
	ID    string
	Title string

	// Selects is in declaration order; later entries for the same item id
	// override earlier ones when scanned linearly ("last match wins").
	Selects []Select

	Setvalues   []Setvalue
	RefineRules []RefineRule
	RefineValues []RefineValue
}

// Select is one select directive: item-id -> bool.
type Select struct {
	ItemID   string
	Selected bool
}

// Setvalue overrides a Value's rendered content for this Profile.
type Setvalue struct {
	ValueID string
	Content string
}

// RefineRule overrides weight/severity/role/selector for a Rule.
// A nil pointer field means "not specified by this refine-rule".
type RefineRule struct {
	RuleID   string
	Weight   *float64
	Severity *Severity
	Role     *string
	Selector *string
}

// RefineValue overrides selector/operator for a Value.
type RefineValue struct {
	ValueID  string
	Selector *string
	Operator *ValueOperator
}
