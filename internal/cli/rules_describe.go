package cli

import (
	"fmt"
	"io"
	"sort"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"xccdfeval/internal/flags"
	"xccdfeval/internal/loader"
	"xccdfeval/internal/model"
	"xccdfeval/internal/policy"
)

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "Inspect the Rules declared by a Benchmark",
	Long: `Inspect the Rules a YAML-authored Benchmark fixture declares, without
running any check against them.

Examples:
  xccdfeval rules describe --benchmark bench.yaml
`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

var rulesDescribeQuiet bool
var rulesDescribeFiles bool

var rulesDescribeCmd = &cobra.Command{
	Use:   "describe",
	Short: "List every Rule a Benchmark declares",
	Long: `List every Rule reachable in a Benchmark's tree, sorted by Rule ID.

Examples:
  xccdfeval rules describe --benchmark bench.yaml
  xccdfeval rules describe --benchmark bench.yaml --quiet
  xccdfeval rules describe --benchmark bench.yaml --files
`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg.Input.Benchmark == "" {
			return fmt.Errorf("--%s is required", flags.FlagBenchmark)
		}
		doc, err := loader.LoadFile(cfg.Input.Benchmark)
		if err != nil {
			return err
		}
		bench, err := doc.Build()
		if err != nil {
			return err
		}

		if rulesDescribeFiles {
			pm := policy.NewPolicyModel(bench, policy.NewRegistry(), nil)
			for _, ref := range pm.ReferencedFiles() {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", ref.System, ref.Href)
			}
			return nil
		}

		var rules []*model.Rule
		bench.Walk(func(it model.Item) {
			if r, ok := it.(*model.Rule); ok {
				rules = append(rules, r)
			}
		})
		sort.Slice(rules, func(i, j int) bool { return rules[i].ID < rules[j].ID })

		for _, r := range rules {
			if rulesDescribeQuiet {
				fmt.Fprintln(cmd.OutOrStdout(), r.ID)
			} else {
				printRule(cmd.OutOrStdout(), r)
			}
		}
		return nil
	},
}

func printRule(w io.Writer, r *model.Rule) {
	bold := color.New(color.Bold)
	fmt.Fprintln(w, "----------------------------------------")
	bold.Fprintf(w, "RULE: %s\n", r.ID)
	fmt.Fprintln(w, "----------------------------------------")
	fmt.Fprintln(w, r.Title)
	if r.Description != "" {
		fmt.Fprintln(w, r.Description)
	}
	fmt.Fprintf(w, "Severity: %s   Role: %s   Weight: %g   Selected: %v\n", r.Severity, orUnknown(r.Role), r.Weight, r.Selected)
	if len(r.Idents) > 0 {
		fmt.Fprintln(w, "Idents:")
		for _, id := range r.Idents {
			fmt.Fprintf(w, "  %s (%s)\n", id.Value, id.System)
		}
	}
	fmt.Fprintln(w)
}

func orUnknown(role string) string {
	if role == "" {
		return "full"
	}
	return role
}

func init() {
	rootCmd.AddCommand(rulesCmd)
	rulesCmd.AddCommand(rulesDescribeCmd)
	rulesDescribeCmd.Flags().StringVar(&cfg.Input.Benchmark, flags.FlagBenchmark, "", "Path to the YAML Benchmark fixture (required)")
	rulesDescribeCmd.Flags().BoolVarP(&rulesDescribeQuiet, "quiet", "q", false, "Only print Rule IDs")
	rulesDescribeCmd.Flags().BoolVar(&rulesDescribeFiles, "files", false, "Print the deduplicated (system, href) content references instead of Rules")
}
