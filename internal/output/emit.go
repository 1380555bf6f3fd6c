package output

import (
	"encoding/json"
	"fmt"
	"io"
	"sync"

	"xccdfeval/internal/policy"
)

// EmitSink writes an additional structured output stream, separate from the
// console sink.
//
// Formats:
//   - json: aggregates into a Report and writes it on Close
//   - ndjson: streams Event values (one JSON object per line)
type EmitSink struct {
	writer    io.Writer
	format    string // "json" | "ndjson"
	profileID string
	mu        sync.Mutex
	report    *Report
}

func NewEmitSink(w io.Writer, format, profileID string) (*EmitSink, error) {
	if w == nil {
		return nil, fmt.Errorf("emit sink writer must not be nil")
	}
	if format != "json" && format != "ndjson" {
		return nil, fmt.Errorf("unsupported emit format: %s", format)
	}
	return &EmitSink{writer: w, format: format, profileID: profileID}, nil
}

func (s *EmitSink) Write(v any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.format {
	case "json":
		tr, ok := v.(*policy.TestResult)
		if !ok {
			return nil
		}
		r := reportFromResult(s.profileID, tr)
		s.report = &r
		return nil
	case "ndjson":
		encoder := json.NewEncoder(s.writer)
		switch t := v.(type) {
		case Event:
			if err := encoder.Encode(t); err != nil {
				return err
			}
			return flushIfPossible(s.writer)
		case *policy.RuleResult:
			if err := encoder.Encode(eventFromResult(t)); err != nil {
				return err
			}
			return flushIfPossible(s.writer)
		default:
			return nil
		}
	default:
		return fmt.Errorf("unsupported emit format: %s", s.format)
	}
}

func (s *EmitSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.format == "json" {
		if s.report == nil {
			s.report = &Report{ProfileID: s.profileID}
		}
		encoder := json.NewEncoder(s.writer)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(s.report); err != nil {
			return err
		}
		return flushIfPossible(s.writer)
	}
	return nil
}
