package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"xccdfeval/internal/flags"
)

var (
	buildVersion = "dev"
	buildCommit  = "unknown"
	buildDate    = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "xccdfeval",
	Short: "Evaluate an XCCDF Benchmark against a target and report Rule results",
	Long: `xccdfeval evaluates an XCCDF-style Benchmark against a target's fact set and
reports each Rule's compliance result plus a computed score.

xccdfeval is evaluate-only: it reports Pass/Fail/Error/etc. per Rule, it does
not apply Fix guidance.

Examples:
	# Show available commands and global flags
	xccdfeval --help

	# Evaluate a Benchmark under the default policy (no Profile applied)
	xccdfeval evaluate --benchmark bench.yaml

	# Evaluate a specific Profile
	xccdfeval evaluate --benchmark bench.yaml --profile xccdf_example_profile_strict

	# List the Rules a Benchmark declares
	xccdfeval rules describe --benchmark bench.yaml

	# Print build info
	xccdfeval version

Output:
	By default, commands write human-readable output to stdout.
	Some commands support structured output via emitter flags (see each command's --help).`,
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&cfg.Runtime.Verbose, flags.FlagVerbose, false, "Enable debug-level logging on stderr")
}

func SetBuildInfo(version, commit, date string) {
	if version != "" {
		buildVersion = version
	}
	if commit != "" {
		buildCommit = commit
	}
	if date != "" {
		buildDate = date
	}

	rootCmd.Version = fmt.Sprintf("%s (%s) %s", buildVersion, buildCommit, buildDate)
	rootCmd.SetVersionTemplate("{{.Version}}\n")
}

func BuildInfo() (version, commit, date string) {
	return buildVersion, buildCommit, buildDate
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
