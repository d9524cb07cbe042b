// Command scenariocalc runs the standard scenario battery for a financial
// plan and prints a comparison report.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/finplan/scenario-engine/internal/analysis"
	"github.com/finplan/scenario-engine/internal/config"
	"github.com/finplan/scenario-engine/internal/domain"
	"github.com/finplan/scenario-engine/internal/logging"
	"github.com/finplan/scenario-engine/internal/output"
	"github.com/finplan/scenario-engine/internal/projection"
	"github.com/finplan/scenario-engine/internal/scenario"
)

var (
	inputFile    string
	outputFormat string
	verbose      bool
)

var rootCmd = &cobra.Command{
	Use:   "scenariocalc",
	Short: "Financial goal scenario generation and comparison",
	Long: `scenariocalc generates standard and custom planning scenarios for a
household's goals, projects their outcomes, and compares every alternative
against the baseline.`,
	SilenceUsage: true,
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the standard scenario battery for a plan file",
	RunE:  runScenarios,
}

var exampleCmd = &cobra.Command{
	Use:   "example [path]",
	Short: "Write an example plan file",
	Args:  cobra.MaximumNArgs(1),
	RunE:  writeExample,
}

func init() {
	runCmd.Flags().StringVarP(&inputFile, "input", "i", "", "plan file (YAML)")
	_ = runCmd.MarkFlagRequired("input")
	runCmd.Flags().StringVarP(&outputFormat, "format", "f", "table", "output format: table or json")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.AddCommand(runCmd, exampleCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runScenarios(cmd *cobra.Command, _ []string) error {
	logger, err := logging.NewCLILogger(verbose)
	if err != nil {
		return err
	}
	defer logger.Sync()

	formatter, err := output.NewFormatter(outputFormat)
	if err != nil {
		return err
	}

	plan, err := config.NewPlanParser().LoadFromFile(inputFile)
	if err != nil {
		return err
	}

	engine := projection.NewDeterministicEngine()
	engine.Logger = logger
	gen := scenario.NewGenerator(engine)
	gen.SetLogger(logger)
	if plan.UserAssumptions != nil {
		gen.Params = plan.UserAssumptions
	}
	for name, overrides := range plan.ArchetypeOverrides {
		gen.Archetypes.Override(name, overrides)
	}

	ctx := cmd.Context()
	byName, err := gen.GenerateStandardScenarios(ctx, plan.Goals, &plan.Household)
	if err != nil {
		return fmt.Errorf("generating standard scenarios: %w", err)
	}
	ordered := make([]*domain.ScenarioResult, 0, len(byName)+len(plan.CustomScenarios))
	for _, name := range scenario.StandardArchetypes() {
		ordered = append(ordered, byName[name])
	}
	for _, custom := range plan.CustomScenarios {
		result, err := gen.CreateCustomScenario(ctx, plan.Goals, &plan.Household, custom)
		if err != nil {
			return fmt.Errorf("custom scenario %q: %w", custom.Name, err)
		}
		ordered = append(ordered, result)
	}

	cr := analysis.NewAnalyzer().BuildComparison(plan.Goals, &plan.Household, ordered)
	logger.Debugf("compared %d scenarios against %s", len(cr.ScenarioOrder), cr.BaselineName)

	data, err := formatter.Format(cr)
	if err != nil {
		return err
	}
	_, err = cmd.OutOrStdout().Write(append(data, '\n'))
	return err
}

func writeExample(cmd *cobra.Command, args []string) error {
	path := "plan.example.yaml"
	if len(args) > 0 {
		path = args[0]
	}
	plan := config.NewPlanParser().CreateExamplePlan()
	data, err := yaml.Marshal(plan)
	if err != nil {
		return fmt.Errorf("marshaling example plan: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing example plan: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote example plan to %s\n", path)
	return nil
}
