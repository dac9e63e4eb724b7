package cli

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/maxcopeland/openml-go/pkg/trace"
	"github.com/spf13/cobra"
)

// traceViewCommand creates the "trace view" subcommand, an interactive
// browser over the iterations of a trace file.
func (c *CLI) traceViewCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "view <trace file>",
		Short: "Browse the iterations of a trace interactively",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := readTraceFile(args[0], false)
			if err != nil {
				return err
			}
			if t.Len() == 0 {
				printInfo("Trace is empty")
				return nil
			}
			_, err = tea.NewProgram(newTraceViewModel(t)).Run()
			return err
		},
	}
}

// traceViewModel is the bubbletea model for the trace browser: a scrolling
// iteration list with the decoded parameters of the cursor row below it.
type traceViewModel struct {
	trace      *trace.Trace
	iterations []*trace.Iteration
	cursor     int
	offset     int
	height     int
}

func newTraceViewModel(t *trace.Trace) traceViewModel {
	return traceViewModel{
		trace:      t,
		iterations: t.Iterations(),
		height:     15,
	}
}

func (m traceViewModel) Init() tea.Cmd {
	return nil
}

func (m traceViewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
				if m.cursor < m.offset {
					m.offset = m.cursor
				}
			}
		case "down", "j":
			if m.cursor < len(m.iterations)-1 {
				m.cursor++
				if m.cursor >= m.offset+m.height {
					m.offset = m.cursor - m.height + 1
				}
			}
		}
	case tea.WindowSizeMsg:
		m.height = msg.Height - 10
		if m.height < 5 {
			m.height = 5
		}
	}
	return m, nil
}

func (m traceViewModel) View() string {
	var b strings.Builder

	title := "Trace"
	if m.trace.RunID != nil {
		title = "Trace (run " + strconv.FormatInt(*m.trace.RunID, 10) + ")"
	}
	b.WriteString(StyleTitle.Render(title))
	b.WriteString("\n")
	b.WriteString(StyleDim.Render("↑/↓ navigate  q quit"))
	b.WriteString("\n\n")

	b.WriteString(StyleDim.Render(fmt.Sprintf("%-8s %-6s %-10s %-12s %s",
		"repeat", "fold", "iteration", "evaluation", "selected")))
	b.WriteString("\n")

	end := m.offset + m.height
	if end > len(m.iterations) {
		end = len(m.iterations)
	}
	for i := m.offset; i < end; i++ {
		it := m.iterations[i]
		cursor := "  "
		if i == m.cursor {
			cursor = "▸ "
		}
		line := fmt.Sprintf("%-8d %-6d %-10d %-12.6f %t",
			it.Repeat, it.Fold, it.Iteration, it.Evaluation, it.Selected)
		switch {
		case i == m.cursor:
			line = StyleValue.Render(line)
		case it.Selected:
			line = styleSelected.Render(line)
		default:
			line = StyleDim.Render(line)
		}
		b.WriteString(cursor + line + "\n")
	}

	b.WriteString("\n")
	b.WriteString(m.renderParameters())
	return b.String()
}

// renderParameters shows the decoded setup of the cursor row.
func (m traceViewModel) renderParameters() string {
	it := m.iterations[m.cursor]
	params, err := it.Parameters()
	if err != nil {
		return StyleWarning.Render("setup string does not parse: " + err.Error())
	}
	if len(params) == 0 {
		return StyleDim.Render("no recorded parameters")
	}

	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(StyleDim.Render("parameters"))
	b.WriteString("\n")
	for _, k := range keys {
		b.WriteString("  " + k + " = " + fmt.Sprintf("%v", params[k]) + "\n")
	}
	return b.String()
}
