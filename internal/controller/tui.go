package controller

import (
	"context"
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	m "github.com/DervexDev/wally-package-types/internal/model"
)

// reservedRows is the number of lines the pager keeps for its header and
// footer.
const reservedRows = 4

var headerStyle = lipgloss.NewStyle().Bold(true)

// TUI implements UI for interactive terminals. Per-thunk progress prints
// as plain lines; the final summary opens a scrollable pager when it does
// not fit the terminal.
type TUI struct {
	cmd *cobra.Command
}

// NewTUI creates a new TUI.
func NewTUI(cmd *cobra.Command) *TUI {
	return &TUI{cmd: cmd}
}

// Start initializes the UI.
func (t *TUI) Start(ctx context.Context, _ ...StartOption) error {
	return ctx.Err()
}

// Close finalizes the UI.
func (t *TUI) Close(ctx context.Context) {
	if err := ctx.Err(); err != nil {
		return
	}
}

// DisplayRunInfo shows the run's worker and thunk counts.
func (t *TUI) DisplayRunInfo(ctx context.Context, workers, thunks int) {
	if err := ctx.Err(); err != nil {
		return
	}

	t.printf("%s\n", headerStyle.Render(fmt.Sprintf("Processing %d thunk(s) with %d worker(s)", thunks, workers)))
}

// DisplayThunkResult prints the outcome for one thunk.
func (t *TUI) DisplayThunkResult(ctx context.Context, report m.LinkReport) {
	if err := ctx.Err(); err != nil {
		return
	}

	t.printf("%s %s\n", formatOutcome(report.Outcome), report.Thunk)
}

// DisplaySummary shows the result table, paginated when it exceeds the
// terminal height.
func (t *TUI) DisplaySummary(ctx context.Context, reports []m.LinkReport) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	model := newSummaryModel(renderSummaryTable(reports))

	output := t.cmd.OutOrStdout()
	if f, ok := output.(*os.File); ok {
		width, height, err := term.GetSize(int(f.Fd()))
		if err == nil {
			model.width = width
			model.height = height
		}
	}

	if !model.needsPagination() {
		t.printf("\n%s", model.content)
		return nil
	}

	program := tea.NewProgram(model, tea.WithOutput(output), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return err
	}

	return nil
}

func (t *TUI) printf(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(t.cmd.OutOrStdout(), format, args...)
}

// summaryModel is the Bubble Tea model paging the rendered summary.
type summaryModel struct {
	content string
	lines   []string
	width   int
	height  int
	offset  int
}

func newSummaryModel(content string) summaryModel {
	return summaryModel{
		content: content,
		lines:   strings.Split(strings.TrimRight(content, "\n"), "\n"),
	}
}

func (sm summaryModel) Init() tea.Cmd {
	return nil
}

func (sm summaryModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		sm.width = msg.Width
		sm.height = msg.Height

		return sm, nil

	case tea.KeyMsg:
		return sm.handleKeyPress(msg)
	}

	return sm, nil
}

func (sm summaryModel) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "esc", "ctrl+c":
		return sm, tea.Quit

	case "down", "j":
		sm.offset = min(sm.offset+1, sm.maxOffset())

	case "up", "k":
		sm.offset = max(sm.offset-1, 0)

	case "pgdown", "d":
		sm.offset = min(sm.offset+sm.itemsPerPage(), sm.maxOffset())

	case "pgup", "u":
		sm.offset = max(sm.offset-sm.itemsPerPage(), 0)

	case "home", "g":
		sm.offset = 0

	case "end", "G":
		sm.offset = sm.maxOffset()
	}

	return sm, nil
}

func (sm summaryModel) View() string {
	var b strings.Builder

	b.WriteString(headerStyle.Render("Link summary"))
	b.WriteString("\n\n")

	end := min(sm.offset+sm.itemsPerPage(), len(sm.lines))
	for _, line := range sm.lines[sm.offset:end] {
		b.WriteString(line)
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "\n%d-%d of %d  (j/k scroll, q quit)\n", sm.offset+1, end, len(sm.lines))

	return b.String()
}

func (sm summaryModel) needsPagination() bool {
	return sm.height > 0 && len(sm.lines)+reservedRows > sm.height
}

func (sm summaryModel) itemsPerPage() int {
	if sm.height <= reservedRows {
		return 1
	}

	return sm.height - reservedRows
}

func (sm summaryModel) maxOffset() int {
	return max(len(sm.lines)-sm.itemsPerPage(), 0)
}
