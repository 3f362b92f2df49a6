package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/tjt7a/anml/pkg/automata"
	"github.com/tjt7a/anml/pkg/symbolset"
)

// inspectCommand creates the inspect command.
func (c *CLI) inspectCommand() *cobra.Command {
	var (
		flags       importFlags
		interactive bool
	)

	cmd := &cobra.Command{
		Use:   "inspect [file]",
		Short: "Show the elements of a network",
		Long: `Show the elements of a network read from a DOT dump or an ANML document.

By default a table of all elements is printed. With --interactive the
elements can be browsed one at a time.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runInspect(cmd.Context(), args[0], flags, interactive)
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "browse elements interactively")

	return cmd
}

func (c *CLI) runInspect(ctx context.Context, input string, flags importFlags, interactive bool) error {
	runner, err := c.newRunner()
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts := c.options(input, flags)
	if err := readStdin(&opts); err != nil {
		return err
	}
	n, err := runner.Import(ctx, opts)
	if err != nil {
		return err
	}

	if interactive {
		_, err := tea.NewProgram(newElementBrowser(n), tea.WithContext(ctx)).Run()
		return err
	}

	fmt.Println(StyleTitle.Render("Network " + n.ID()))
	printKeyValue("source", displayName(input))
	printKeyValue("elements", strconv.Itoa(n.Len()))
	printStats(n.Stats(), false)
	fmt.Println()
	fmt.Println(elementTable(n).Render())
	return nil
}

// elementRow is one element rendered as table cells.
type elementRow struct {
	id        string
	kind      string
	match     string // symbol set, or counter target and mode
	raw       string // symbol set before escaping, when it differs
	start     string
	report    string
	activates string
}

func (r elementRow) cells() []string {
	return []string{r.id, r.kind, r.match, r.start, r.report, r.activates}
}

var elementHeaders = []string{"ID", "Kind", "Match", "Start", "Report", "Activates"}

// elementRows lists the network's elements in insertion order.
func elementRows(n *automata.Network) []elementRow {
	handles := n.Handles()
	rows := make([]elementRow, 0, len(handles))
	for _, h := range handles {
		el, err := n.Element(h)
		if err != nil {
			continue
		}
		row := elementRow{
			id:        el.ElementID(),
			kind:      automata.Kind(el),
			activates: strings.Join(n.SuccessorIDs(h), ", "),
		}
		switch e := el.(type) {
		case *automata.State:
			row.match = symbolset.Sanitize(e.Symbols.String())
			if symbolset.NeedsEscape(e.Symbols.String()) {
				row.raw = e.Symbols.String()
			}
			if e.Start.IsStart() {
				row.start = e.Start.String()
			}
			if e.Reports {
				row.report = e.ReportCode
			}
		case *automata.Counter:
			row.match = "target " + strconv.Itoa(e.Target) + " (" + e.AtTarget.String() + ")"
		}
		rows = append(rows, row)
	}
	return rows
}

func elementTable(n *automata.Network) *table.Table {
	rows := elementRows(n)
	cells := make([][]string, len(rows))
	for i, r := range rows {
		cells[i] = r.cells()
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers(elementHeaders...).
		Rows(cells...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			base := lipgloss.NewStyle().Padding(0, 1)
			if row < 0 || row >= len(rows) {
				return base
			}
			r := rows[row]
			switch {
			case r.kind == "counter":
				return base.Inherit(styleCounter)
			case r.report != "":
				return base.Inherit(styleReport)
			case r.start != "":
				return base.Inherit(styleStart)
			}
			return base
		})
}
