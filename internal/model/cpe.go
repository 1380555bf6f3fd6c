package model

// CPE (Common Platform Enumeration) content is a data-only concern kept in
// this package (rather than internal/cpe) purely to avoid an import cycle:
// Benchmark embeds it, and internal/cpe needs Item to implement the
// applicability algorithm. internal/cpe owns the *behavior*; model owns the
// *shape* of dictionary/language-model documents, mirroring how OVAL
// definition documents are external data the core only ever reads.

// CPEDictKind distinguishes a plain CPE name match from a check-based one.
type CPEDictKind int

const (
	CPEDictKindName CPEDictKind = iota
	CPEDictKindCheck
)

// CPEDictItem is one <cpe-item> entry: either a bare platform name, or a
// name backed by a check that must be evaluated against the target.
type CPEDictItem struct {
	Name  string // "cpe:/o:vendor:product:version"
	Kind  CPEDictKind
	Check *CPECheckRef // set when Kind == CPEDictKindCheck
}

// CPECheckRef is a check pointer inside CPE dictionary/language-model content.
type CPECheckRef struct {
	System string
	Href   string
	Name   string
}

// CPEDictionary is a minimal CPE dictionary document: a flat list of items.
type CPEDictionary struct {
	SourceHref string // origin file, used to resolve relative check hrefs
	Items      []CPEDictItem
}

// CPEFactRef is a single term inside a CPE-lang logical-test (fact-ref or check-fact-ref).
type CPEFactRef struct {
	IsCheck bool
	Name    string       // plain CPE name, when !IsCheck
	Check   *CPECheckRef // set when IsCheck
	Negate  bool
}

// CPELogicalTest is one platform definition's boolean expression over facts.
type CPELogicalTest struct {
	Operator CheckOperator
	Negate   bool
	Facts    []CPEFactRef
	Nested   []CPELogicalTest
}

// CPEPlatform is one <platform id="..."> definition inside a language model.
type CPEPlatform struct {
	ID   string // referenced from an Item's platform list as "#id"
	Test CPELogicalTest
}

// CPELangModel is a minimal CPE language-model document.
type CPELangModel struct {
	SourceHref string
	Platforms  map[string]CPEPlatform
}
