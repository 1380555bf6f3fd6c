package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

type Config struct {
	// MAINTAINER NOTE: If you add/change/remove config fields, keep these in
	// sync:
	// - CLI flags in internal/cli/evaluate.go
	// - internal/loader's Document.Build, if a field changes benchmark shape
	Input     Input
	Selection Selection
	Output    Output
	Runtime   Runtime
}

type Input struct {
	// Benchmark is the path to the YAML-authored Benchmark fixture (see
	// --benchmark). Required.
	Benchmark string

	// Profile selects which Profile's Policy to evaluate (see --profile).
	// Empty means the default policy (no Profile applied).
	Profile string

	// Scoring restricts reported scoring systems to this list (see
	// --scoring). Empty means all four systems.
	Scoring []string
}

type Selection struct {
	// Rules restricts evaluation to the given Rule ids (see --rule).
	// Empty means every Rule reachable in the Benchmark.
	Rules []string
}

type Output struct {
	// ConsoleFormat controls the human-facing console sink format (see
	// --console-format). Allowed values: text, json, ndjson.
	ConsoleFormat string

	// ConsoleFilterResult filters console output by ResultKind (see
	// --console-filter-result).
	ConsoleFilterResult []string

	// Out writes the full TestResult to this path (see --out).
	Out string

	// OutFormat selects the format for --out (see --out-format).
	// Allowed values: json, ndjson. If empty, it is inferred from the --out
	// file extension.
	OutFormat string

	// NoConsole suppresses the console sink (see --no-console).
	NoConsole bool
}

type Runtime struct {
	// Timeout is the overall evaluation timeout for the run (see --timeout).
	// Must be > 0.
	Timeout time.Duration

	// FailFast aborts the run on the first Rule Runner internal error
	// instead of continuing to the next Rule (see --fail-fast).
	FailFast bool

	// Verbose sets the stderr log level to debug (see --verbose).
	Verbose bool
}

func New() *Config {
	return &Config{
		Selection: Selection{},
		Output: Output{
			ConsoleFormat: "text",
		},
		Runtime: Runtime{
			Timeout: 5 * time.Minute,
		},
	}
}

func (c *Config) Validate() error {
	c.Input.Scoring = splitCommaList(c.Input.Scoring)
	c.Selection.Rules = splitCommaList(c.Selection.Rules)
	c.Output.ConsoleFilterResult = splitCommaList(c.Output.ConsoleFilterResult)

	if strings.TrimSpace(c.Input.Benchmark) == "" {
		return errors.New("--benchmark is required")
	}

	for _, sys := range c.Input.Scoring {
		v := normalizeEnumValue(sys)
		switch v {
		case "default", "flat", "flat-unweighted", "absolute":
		default:
			return fmt.Errorf("unsupported --scoring value: %s (must be one of: default, flat, flat-unweighted, absolute)", sys)
		}
	}

	c.Output.ConsoleFormat = normalizeEnumValue(c.Output.ConsoleFormat)
	if c.Output.ConsoleFormat == "" {
		return errors.New("--console-format must be one of: text, json, ndjson")
	}
	if c.Output.ConsoleFormat != "text" && c.Output.ConsoleFormat != "json" && c.Output.ConsoleFormat != "ndjson" {
		return fmt.Errorf("unsupported --console-format: %s (must be one of: text, json, ndjson)", c.Output.ConsoleFormat)
	}

	for i, res := range c.Output.ConsoleFilterResult {
		v := strings.ToUpper(normalizeEnumValue(res))
		switch v {
		case "PASS", "FAIL", "ERROR", "UNKNOWN", "NOTAPPLICABLE", "NOTCHECKED", "NOTSELECTED", "INFORMATIONAL", "FIXED":
		default:
			return fmt.Errorf("unsupported --console-filter-result value: %s", res)
		}
		c.Output.ConsoleFilterResult[i] = v
	}

	if c.Runtime.Timeout <= 0 {
		return errors.New("--timeout must be > 0")
	}

	if c.Output.Out != "" {
		c.Output.OutFormat = normalizeEnumValue(c.Output.OutFormat)
		if c.Output.OutFormat == "" {
			ext := strings.ToLower(filepath.Ext(c.Output.Out))
			switch ext {
			case ".json":
				c.Output.OutFormat = "json"
			case ".ndjson":
				c.Output.OutFormat = "ndjson"
			default:
				if ext == "" {
					return errors.New("cannot infer output format from file extension (missing extension); use --out-format")
				}
				return fmt.Errorf("cannot infer output format from file extension %q; use --out-format", ext)
			}
		} else if c.Output.OutFormat != "json" && c.Output.OutFormat != "ndjson" {
			return fmt.Errorf("unsupported output format: %s", c.Output.OutFormat)
		}
	}

	return nil
}

func normalizeEnumValue(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

func splitCommaList(values []string) []string {
	var out []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			p := strings.TrimSpace(part)
			if p == "" {
				continue
			}
			out = append(out, p)
		}
	}
	return out
}
