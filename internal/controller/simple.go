package controller

import (
	"bytes"
	"context"
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	m "github.com/DervexDev/wally-package-types/internal/model"
)

// Status styles shared by the UI implementations.
var (
	changedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("11")) // yellow
	unchangedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10")) // green
	skippedStyle   = lipgloss.NewStyle().Faint(true)
)

// SimpleUI implements UI using the cobra command's output stream.
type SimpleUI struct {
	cmd *cobra.Command
}

// NewSimpleUI creates a new SimpleUI.
func NewSimpleUI(cmd *cobra.Command) *SimpleUI {
	return &SimpleUI{cmd: cmd}
}

// Start initializes the UI.
func (s *SimpleUI) Start(ctx context.Context, _ ...StartOption) error {
	return ctx.Err()
}

// Close finalizes the UI.
func (s *SimpleUI) Close(ctx context.Context) {
	if err := ctx.Err(); err != nil {
		return
	}
}

// DisplayRunInfo shows the run's worker and thunk counts.
func (s *SimpleUI) DisplayRunInfo(ctx context.Context, workers, thunks int) {
	if err := ctx.Err(); err != nil {
		return
	}

	s.printf("Processing %d thunk(s) with %d worker(s)\n", thunks, workers)
}

// DisplayThunkResult prints the outcome for one thunk.
func (s *SimpleUI) DisplayThunkResult(ctx context.Context, report m.LinkReport) {
	if err := ctx.Err(); err != nil {
		return
	}

	s.printf("%s %s\n", formatOutcome(report.Outcome), report.Thunk)
}

// DisplaySummary prints the run's result table.
func (s *SimpleUI) DisplaySummary(ctx context.Context, reports []m.LinkReport) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.printf("\n%s", renderSummaryTable(reports))

	return nil
}

func (s *SimpleUI) printf(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(s.cmd.OutOrStdout(), format, args...)
}

func formatOutcome(outcome m.OutcomeKind) string {
	switch outcome {
	case m.OutcomeChanged:
		return changedStyle.Render(string(outcome))
	case m.OutcomeUnchanged:
		return unchangedStyle.Render(string(outcome))
	case m.OutcomeSkipped:
		return skippedStyle.Render(string(outcome))
	default:
		return string(outcome)
	}
}

func renderSummaryTable(reports []m.LinkReport) string {
	var tableBuffer bytes.Buffer

	table := tablewriter.NewWriter(&tableBuffer)
	table.SetHeader([]string{"Thunk", "Target", "Outcome"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetColumnAlignment([]int{tablewriter.ALIGN_LEFT, tablewriter.ALIGN_LEFT, tablewriter.ALIGN_CENTER})

	changed, unchanged, skipped := 0, 0, 0

	for _, report := range reports {
		table.Append([]string{string(report.Thunk), string(report.Target), string(report.Outcome)})

		switch report.Outcome {
		case m.OutcomeChanged:
			changed++
		case m.OutcomeUnchanged:
			unchanged++
		case m.OutcomeSkipped:
			skipped++
		}
	}

	table.SetFooter([]string{
		fmt.Sprintf("Total %d", len(reports)),
		fmt.Sprintf("%d skipped", skipped),
		fmt.Sprintf("%d changed / %d ok", changed, unchanged),
	})

	table.Render()

	return tableBuffer.String()
}
