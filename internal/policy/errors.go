package policy

import "fmt"

// ValueMissingError signals a Check export referenced a Value absent from
// the Benchmark. It surfaces as RuleResult Unknown; the rule runner
// continues with the next rule.
type ValueMissingError struct {
	ValueID string
}

func (e *ValueMissingError) Error() string {
	return fmt.Sprintf("value %q referenced by check export is not defined in this benchmark", e.ValueID)
}

// ValueInstanceMissingError signals a Value selector did not resolve to any
// declared instance.
type ValueInstanceMissingError struct {
	ValueID  string
	Selector string
}

func (e *ValueInstanceMissingError) Error() string {
	return fmt.Sprintf("value %q has no instance matching selector %q", e.ValueID, e.Selector)
}

// UnknownEngineError signals no engine is registered for a required system URI.
type UnknownEngineError struct {
	SystemURI string
}

func (e *UnknownEngineError) Error() string {
	return fmt.Sprintf("no checking engine registered for system %q", e.SystemURI)
}

// ContentUnloadableError signals CPE/OVAL content failed to load while
// evaluating applicability; callers treat this as "not applicable from this
// source", never as fatal.
type ContentUnloadableError struct {
	Href string
	Err  error
}

func (e *ContentUnloadableError) Error() string {
	return fmt.Sprintf("content %q could not be loaded: %v", e.Href, e.Err)
}

func (e *ContentUnloadableError) Unwrap() error { return e.Err }

// UnknownScoringSystemError signals a score was requested under an
// unrecognized scoring system URI.
type UnknownScoringSystemError struct {
	URI string
}

func (e *UnknownScoringSystemError) Error() string {
	return fmt.Sprintf("unknown scoring system: %q", e.URI)
}

// HookAbortError signals a start/output hook requested the current Policy
// evaluation to unwind. Code -1 is fatal (the TestResult is discarded);
// any other non-zero code unwinds with the partial TestResult retained.
type HookAbortError struct {
	Code int
}

func (e *HookAbortError) Error() string {
	return fmt.Sprintf("policy evaluation aborted by hook (code %d)", e.Code)
}

// Fatal reports whether this abort must discard the in-progress TestResult.
func (e *HookAbortError) Fatal() bool { return e.Code == -1 }

// InternalError signals an invariant violation that should never fire.
type InternalError struct {
	Msg string
}

func (e *InternalError) Error() string { return "internal error: " + e.Msg }
