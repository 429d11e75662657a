package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/contextguard/internal/core/domain"
	"github.com/custodia-labs/contextguard/internal/demo"
	"github.com/custodia-labs/contextguard/internal/logger"
	"github.com/custodia-labs/contextguard/internal/report"
)

var demoFormat string

var demoCmd = &cobra.Command{
	Use:   "demo [scenario]",
	Short: "Run the guided demo on bundled documents",
	Long: `Check the bundled sample documents without a language model.

Scenarios:
  two-docs    - a trip letter and a teacher update that disagree
  single-doc  - a summer camp guide that contradicts itself
  library     - a library guide with no contradictions

Without a scenario every step runs in order.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runDemo,
}

func init() {
	demoCmd.Flags().StringVarP(&demoFormat, "format", "f", "text", "report format: text, markdown or json")
	rootCmd.AddCommand(demoCmd)
}

func runDemo(cmd *cobra.Command, args []string) error {
	if newDemoSession == nil {
		return errors.New("demo session not configured")
	}

	format, err := resolveFormat(demoFormat, false)
	if err != nil {
		return err
	}

	scenarios := demo.Scenarios()
	if len(args) == 1 {
		s, ok := demo.FindScenario(args[0])
		if !ok {
			return fmt.Errorf("%w: unknown scenario %q (use %s)", domain.ErrInvalidInput, args[0], scenarioNames())
		}
		scenarios = []demo.Scenario{s}
	}

	for i, s := range scenarios {
		if i > 0 {
			cmd.Println()
		}
		if err := runScenario(cmd, s, format); err != nil {
			return err
		}
	}
	return nil
}

func runScenario(cmd *cobra.Command, s demo.Scenario, format domain.ExportFormat) error {
	session := newDemoSession()
	for _, doc := range s.Documents {
		session.AddDocument(doc)
	}

	cmd.Printf("%s\n%s\n\n", s.Title, strings.Repeat("-", len(s.Title)))
	cmd.Println(s.Description)
	for _, doc := range session.Documents() {
		cmd.Printf("  - %s\n", doc.Title)
	}
	cmd.Println()

	if err := session.Run(cmd.Context()); err != nil {
		return fmt.Errorf("demo check failed: %w", err)
	}
	if state := session.State(); state.IsFailed() {
		return errors.New(state.Message)
	}
	if got := len(session.Issues()); got != len(s.Expected) {
		logger.Warn("scenario %s: expected %d issue(s), got %d", s.Name, len(s.Expected), got)
	}

	text, err := report.Format(format, len(session.Documents()), session.Issues())
	if err != nil {
		return err
	}
	cmd.Println(text)
	return nil
}

func scenarioNames() string {
	scenarios := demo.Scenarios()
	names := make([]string, len(scenarios))
	for i, s := range scenarios {
		names[i] = s.Name
	}
	return strings.Join(names, ", ")
}
