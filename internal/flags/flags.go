package flags

// Package flags defines canonical CLI flag names shared across the CLI and
// policy-evaluation core. Keeping these as constants helps avoid drift
// between Cobra flag wiring and other code paths that need to reference
// flags (e.g. diagnostic messages that tell the user which flag to retry
// with).
// IMPORTANT: These are flag *names* without leading dashes.
// Example usage:
//
//	cmd.Flags().StringVar(&cfg.Input.Benchmark, flags.FlagBenchmark, "", "...")
//	arg := "--" + flags.FlagBenchmark
const (
	// Input
	FlagBenchmark = "benchmark"
	FlagProfile   = "profile"
	FlagScoring   = "scoring"

	// Selection
	FlagRule = "rule"

	// Output
	FlagConsoleFormat       = "console-format"
	FlagConsoleFilterResult = "console-filter-result"
	FlagOut                 = "out"
	FlagOutFormat           = "out-format"
	FlagNoConsole           = "no-console"

	// Runtime
	FlagTimeout  = "timeout"
	FlagFailFast = "fail-fast"
	FlagVerbose  = "verbose"
)
