package cli

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"xccdfeval/internal/config"
	"xccdfeval/internal/cpecache"
	"xccdfeval/internal/flags"
	"xccdfeval/internal/loader"
	"xccdfeval/internal/logging"
	"xccdfeval/internal/metrics"
	"xccdfeval/internal/output"
	"xccdfeval/internal/policy"
)

var cfg = config.New()

// demoEngineSystem is the system URI the CLI registers internal/refengine
// under, standing in for a real "urn:xccdf:system:oval-def" URI a shipped
// OVAL engine would claim.
const demoEngineSystem = "urn:xccdf:system:refengine"

var metricsAddr string

const evaluateHelpTemplate = `{{with (or .Long .Short)}}{{. | trimTrailingWhitespaces}}

{{end}}Usage:
  {{.UseLine}}

{{if .HasAvailableLocalFlags}}Flags:
{{.LocalFlags.FlagUsages | trimTrailingWhitespaces}}

{{end}}{{if .HasAvailableInheritedFlags}}Global Flags:
{{.InheritedFlags.FlagUsages | trimTrailingWhitespaces}}

{{end}}Exit codes:
	0 = clean run (no Fail)
	1 = Fail present
	2 = partial failure (Unknown/Error rule results present)
	3 = fatal (evaluation could not run)
`

var evaluateCmd = &cobra.Command{
	Use:   "evaluate",
	Short: "Evaluate a Benchmark and report Rule results",
	Long: `Evaluate loads a YAML-authored Benchmark fixture, applies a Profile (or the
default Policy if --profile is omitted), and runs the Rule Runner over every
Rule reachable in the tree, streaming results and a final score.

Examples:
  xccdfeval evaluate --benchmark bench.yaml
  xccdfeval evaluate --benchmark bench.yaml --profile xccdf_example_profile_strict
  xccdfeval evaluate --benchmark bench.yaml --out result.json --no-console
`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := cfg.Validate(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(3)
		}

		log := logging.New(os.Stderr, cfg.Runtime.Verbose).With("run_id", uuid.NewString())
		m := metrics.New()

		if metricsAddr != "" {
			mux := http.NewServeMux()
			mux.Handle("/metrics", promhttp.Handler())
			go func() {
				if err := http.ListenAndServe(metricsAddr, mux); err != nil {
					log.Error("metrics listener stopped", "err", err)
				}
			}()
		}

		ctx, cancel := context.WithTimeout(context.Background(), cfg.Runtime.Timeout)
		defer cancel()

		doc, err := loader.LoadFile(cfg.Input.Benchmark)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(3)
		}
		bench, err := doc.Build()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(3)
		}

		registry := policy.NewRegistry()
		eng := doc.BuildRefEngine()
		eng.RegisterWith(registry, demoEngineSystem)

		sessions, err := cpecache.New(256, nil)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: failed to construct CPE session cache: %v\n", err)
			os.Exit(3)
		}
		sessions.OnHit = m.CPESessionCacheHits
		sessions.OnMiss = m.CPESessionCacheMisses
		defer sessions.Close()

		pm := policy.NewPolicyModel(bench, registry, sessions)
		if len(cfg.Selection.Rules) > 0 {
			pm.RuleFilter = make(map[string]bool, len(cfg.Selection.Rules))
			for _, id := range cfg.Selection.Rules {
				pm.RuleFilter[id] = true
			}
		}

		pol, ok := pm.PolicyByProfile(cfg.Input.Profile)
		if !ok {
			fmt.Fprintf(os.Stderr, "Error: unknown profile id: %s\n", cfg.Input.Profile)
			os.Exit(3)
		}

		mgr := output.NewManager()
		if !cfg.Output.NoConsole {
			_ = mgr.AddSink(output.NewConsoleSink(cmd.OutOrStdout(), cfg.Output.ConsoleFormat, pol.ProfileID(), cfg.Output.ConsoleFilterResult))
		}
		if cfg.Output.Out != "" {
			sink, err := output.NewFileSink(cfg.Output.Out, cfg.Output.OutFormat, pol.ProfileID())
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(3)
			}
			_ = mgr.AddSink(sink)
		}
		defer func() { _ = mgr.Close() }()

		pm.OutputHook = func(rr *policy.RuleResult) int {
			m.RuleEvaluationsTotal.WithLabelValues(rr.Result.String()).Inc()
			_ = mgr.Write(rr)
			if cfg.Runtime.FailFast && rr.Result == policy.Error {
				return 1
			}
			return 0
		}

		tr, evalErr := pol.Evaluate(ctx)
		if evalErr != nil {
			if tr == nil {
				fmt.Fprintf(os.Stderr, "Error: evaluation aborted: %v\n", evalErr)
				os.Exit(3)
			}
			log.Warn("evaluation aborted before completion", "err", evalErr)
		}
		if tr != nil {
			for sys := range tr.Score {
				m.ScoreComputations.WithLabelValues(sys).Inc()
			}
			filterScores(tr, cfg.Input.Scoring)
			_ = mgr.Write(tr)
		}

		os.Exit(exitCode(tr))
	},
}

// exitCode implements the exit-code contract: 0 clean, 1 Fail present,
// 2 partial failure (Unknown/Error present, no Fail), 3 fatal (tr == nil,
// handled by the caller before this is reached).
func exitCode(tr *policy.TestResult) int {
	if tr == nil {
		return 3
	}
	sawFail, sawPartial := false, false
	for _, rr := range tr.Results {
		switch rr.Result {
		case policy.Fail:
			sawFail = true
		case policy.Error, policy.Unknown:
			sawPartial = true
		}
	}
	if sawFail {
		return 1
	}
	if sawPartial {
		return 2
	}
	return 0
}

// filterScores trims tr.Score down to the requested scoring systems in
// place. Evaluate always computes all four systems, since ComputeScore
// folds over the same Benchmark tree regardless of which are reported;
// --scoring only narrows what the CLI shows, not what the core computes.
// An empty want leaves every system in place.
func filterScores(tr *policy.TestResult, want []string) {
	if len(want) == 0 {
		return
	}
	keep := make(map[string]bool, len(want))
	for _, w := range want {
		keep[w] = true
		keep["urn:xccdf:scoring:"+w] = true
	}
	for sys := range tr.Score {
		if !keep[sys] {
			delete(tr.Score, sys)
		}
	}
}

func init() {
	rootCmd.AddCommand(evaluateCmd)
	evaluateCmd.SetHelpTemplate(evaluateHelpTemplate)

	evaluateCmd.Flags().StringVar(&cfg.Input.Benchmark, flags.FlagBenchmark, "", "Path to the YAML Benchmark fixture (required)")
	evaluateCmd.Flags().StringVar(&cfg.Input.Profile, flags.FlagProfile, "", "Profile id to evaluate (default: the default policy, no Profile applied)")
	evaluateCmd.Flags().StringSliceVar(&cfg.Input.Scoring, flags.FlagScoring, nil, "Restrict reported scoring systems:default|flat|flat-unweighted|absolute (default: all)")

	evaluateCmd.Flags().StringSliceVar(&cfg.Selection.Rules, flags.FlagRule, nil, "Restrict evaluation to these Rule ids (repeatable; comma-separated accepted)")

	evaluateCmd.Flags().StringVar(&cfg.Output.ConsoleFormat, flags.FlagConsoleFormat, "text", "Console output format: text|json|ndjson (default: text)")
	evaluateCmd.Flags().StringSliceVar(&cfg.Output.ConsoleFilterResult, flags.FlagConsoleFilterResult, nil, "Filter console output by result kind (PASS, FAIL, ERROR, ...). Comma-separated.")
	evaluateCmd.Flags().StringVar(&cfg.Output.Out, flags.FlagOut, "", "Write the full TestResult to this path")
	evaluateCmd.Flags().StringVar(&cfg.Output.OutFormat, flags.FlagOutFormat, "", "Structured output format for --out: json|ndjson (default: inferred from file extension)")
	evaluateCmd.Flags().BoolVar(&cfg.Output.NoConsole, flags.FlagNoConsole, false, "Suppress console output (use with --out)")

	evaluateCmd.Flags().DurationVar(&cfg.Runtime.Timeout, flags.FlagTimeout, cfg.Runtime.Timeout, "Evaluation timeout (default: 5m)")
	evaluateCmd.Flags().BoolVar(&cfg.Runtime.FailFast, flags.FlagFailFast, false, "Stop on first Rule Runner internal error (default: false)")
	evaluateCmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "Serve Prometheus metrics at this address (e.g. :9090); empty disables")
}
