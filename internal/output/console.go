package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"xccdfeval/internal/policy"
)

type ConsoleSink struct {
	writer        io.Writer
	format        string // "text", "json", "ndjson"
	profileID     string
	mu            sync.Mutex
	report        *Report
	allowedResults map[string]bool
}

func NewConsoleSink(w io.Writer, format, profileID string, filterResults []string) *ConsoleSink {
	if w == nil {
		w = os.Stdout
	}
	if format == "" {
		format = "text"
	}

	s := &ConsoleSink{writer: w, format: format, profileID: profileID}

	if len(filterResults) > 0 {
		s.allowedResults = make(map[string]bool)
		for _, r := range filterResults {
			s.allowedResults[strings.ToUpper(r)] = true
		}
	}

	return s
}

func (s *ConsoleSink) Write(v any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writeLocked(v)
}

func (s *ConsoleSink) writeLocked(v any) error {
	printf := func(format string, args ...any) error {
		_, err := fmt.Fprintf(s.writer, format, args...)
		return err
	}
	println := func(args ...any) error {
		_, err := fmt.Fprintln(s.writer, args...)
		return err
	}

	if rr, ok := v.(*policy.RuleResult); ok && len(s.allowedResults) > 0 {
		if !s.allowedResults[strings.ToUpper(rr.Result.String())] {
			return nil
		}
	}

	switch s.format {
	case "json":
		if tr, ok := v.(*policy.TestResult); ok {
			r := reportFromResult(s.profileID, tr)
			s.report = &r
		}
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
	case "text":
		rr, ok := v.(*policy.RuleResult)
		if !ok {
			return nil
		}
		if err := printf("[%s] %s", rr.Result, rr.RuleID); err != nil {
			return err
		}
		if rr.Message != "" {
			if err := printf(" - %s", rr.Message); err != nil {
				return err
			}
		}
		if err := println(); err != nil {
			return err
		}
		return flushIfPossible(s.writer)
	default:
		return fmt.Errorf("unsupported console format: %s", s.format)
	}
}

func (s *ConsoleSink) Close() error {
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
	if s.format != "text" && s.format != "ndjson" {
		return fmt.Errorf("unsupported console format: %s", s.format)
	}
	return nil
}
