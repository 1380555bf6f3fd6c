// Package loader provides a minimal, YAML-authored substitute for the real
// XCCDF XML parser, which is an external collaborator out of scope for the
// policy-evaluation core (spec.md §1). It exists solely so the CLI and
// tests have something concrete to load: a hand-authored Benchmark fixture,
// its checking-engine content, and a target fact set, all in one document.
package loader

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"xccdfeval/internal/model"
	"xccdfeval/internal/refengine"
)

// Document is the top-level YAML shape: a Benchmark plus the checking-engine
// content and target facts needed to actually evaluate it.
type Document struct {
	Benchmark BenchmarkDoc                    `yaml:"benchmark"`
	Content   map[string][]refengine.Definition `yaml:"content"`
	Facts     map[string]string                `yaml:"facts"`
}

type BenchmarkDoc struct {
	ID            string          `yaml:"id"`
	Title         string          `yaml:"title"`
	Weight        *float64        `yaml:"weight,omitempty"`
	SchemaVersion string          `yaml:"schema_version"`
	Values        []ValueDoc      `yaml:"values"`
	Items         []ItemDoc       `yaml:"items"`
	Profiles      []ProfileDoc    `yaml:"profiles"`
	PlainTexts    map[string]string `yaml:"plain_texts"`
	CPE           *CPEDoc         `yaml:"cpe,omitempty"`
}

type ValueInstanceDoc struct {
	Selector string `yaml:"selector"`
	Content  string `yaml:"content"`
}

type ValueDoc struct {
	ID        string             `yaml:"id"`
	Title     string             `yaml:"title"`
	Type      model.ValueType    `yaml:"type"`
	Operator  model.ValueOperator `yaml:"operator"`
	Instances []ValueInstanceDoc `yaml:"instances"`
}

// ItemDoc is a Group or a Rule; Kind discriminates. Groups use Children;
// Rules use the remaining Rule-only fields.
type ItemDoc struct {
	Kind      string   `yaml:"kind"` // "group" | "rule"
	ID        string   `yaml:"id"`
	Title     string   `yaml:"title"`
	Weight    *float64 `yaml:"weight,omitempty"`
	Selected  *bool    `yaml:"selected,omitempty"`
	Platforms []string `yaml:"platforms"`

	// Group-only
	Children []ItemDoc `yaml:"children"`

	// Rule-only
	Description   string        `yaml:"description"`
	Version       string        `yaml:"version"`
	Severity      string        `yaml:"severity"`
	Role          string        `yaml:"role"`
	Checks        []CheckDoc    `yaml:"checks"`
	ComplexChecks []CheckDoc    `yaml:"complex_checks"`
	Idents        []IdentDoc    `yaml:"idents"`
	Fixes         []FixDoc      `yaml:"fixes"`
}

type IdentDoc struct {
	System string `yaml:"system"`
	Value  string `yaml:"value"`
}

type FixDoc struct {
	System  string `yaml:"system"`
	Content string `yaml:"content"`
}

type ContentRefDoc struct {
	Href string `yaml:"href"`
	Name string `yaml:"name"`
}

type CheckExportDoc struct {
	ValueID string `yaml:"value_id"`
	Name    string `yaml:"name"`
}

type CheckImportDoc struct {
	Name string `yaml:"name"`
}

type CheckDoc struct {
	System     string           `yaml:"system"`
	Selector   string           `yaml:"selector"`
	Negate     bool             `yaml:"negate"`
	MultiCheck bool             `yaml:"multicheck"`
	Operator   string           `yaml:"operator"` // "and" | "or", complex checks only
	Children   []CheckDoc       `yaml:"children"`
	ContentRef []ContentRefDoc  `yaml:"content_refs"`
	Exports    []CheckExportDoc `yaml:"exports"`
	Imports    []CheckImportDoc `yaml:"imports"`
}

type SelectDoc struct {
	ItemID   string `yaml:"item_id"`
	Selected bool   `yaml:"selected"`
}

type SetvalueDoc struct {
	ValueID string `yaml:"value_id"`
	Content string `yaml:"content"`
}

type RefineRuleDoc struct {
	RuleID   string   `yaml:"rule_id"`
	Weight   *float64 `yaml:"weight,omitempty"`
	Severity *string  `yaml:"severity,omitempty"`
	Role     *string  `yaml:"role,omitempty"`
	Selector *string  `yaml:"selector,omitempty"`
}

type RefineValueDoc struct {
	ValueID  string  `yaml:"value_id"`
	Selector *string `yaml:"selector,omitempty"`
	Operator *string `yaml:"operator,omitempty"`
}

type ProfileDoc struct {
	ID           string           `yaml:"id"`
	Title        string           `yaml:"title"`
	Selects      []SelectDoc      `yaml:"selects"`
	Setvalues    []SetvalueDoc    `yaml:"setvalues"`
	RefineRules  []RefineRuleDoc  `yaml:"refine_rules"`
	RefineValues []RefineValueDoc `yaml:"refine_values"`
}

type CPEDictItemDoc struct {
	Name string `yaml:"name"`
	Kind string `yaml:"kind"` // "name" | "check"
	Check *CPECheckRefDoc `yaml:"check,omitempty"`
}

type CPECheckRefDoc struct {
	System string `yaml:"system"`
	Href   string `yaml:"href"`
	Name   string `yaml:"name"`
}

type CPEDictDoc struct {
	SourceHref string           `yaml:"source_href"`
	Items      []CPEDictItemDoc `yaml:"items"`
}

type CPEFactRefDoc struct {
	Name   string          `yaml:"name,omitempty"`
	Check  *CPECheckRefDoc `yaml:"check,omitempty"`
	Negate bool            `yaml:"negate"`
}

type CPELogicalTestDoc struct {
	Operator string              `yaml:"operator"`
	Negate   bool                `yaml:"negate"`
	Facts    []CPEFactRefDoc     `yaml:"facts"`
	Nested   []CPELogicalTestDoc `yaml:"nested"`
}

type CPEPlatformDoc struct {
	ID   string            `yaml:"id"`
	Test CPELogicalTestDoc `yaml:"test"`
}

type CPELangModelDoc struct {
	SourceHref string           `yaml:"source_href"`
	Platforms  []CPEPlatformDoc `yaml:"platforms"`
}

type CPEDoc struct {
	Dictionary *CPEDictDoc      `yaml:"dictionary,omitempty"`
	LangModel  *CPELangModelDoc `yaml:"lang_model,omitempty"`
}

// LoadFile reads and builds a Document from path.
func LoadFile(path string) (*Document, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read benchmark fixture: %w", err)
	}
	var doc Document
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parse benchmark fixture: %w", err)
	}
	return &doc, nil
}
