package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/ayatsuji/kotoba-run/internal/meta"
)

const maxStatsRows = 50

// StatsModel is the Bubble Tea model for the progression overview: best
// run, total coins, unlocks, and a table of recent runs.
type StatsModel struct {
	state meta.State
	runs  []meta.RunRecord
	table table.Model
	theme Theme
	width int
}

// NewStatsModel loads meta progression and builds the table.
func NewStatsModel(store *meta.Store) (StatsModel, error) {
	state, err := store.Load()
	if err != nil {
		return StatsModel{}, fmt.Errorf("tui: load meta: %w", err)
	}
	runs, err := store.RecentRuns(maxStatsRows)
	if err != nil {
		return StatsModel{}, fmt.Errorf("tui: load recent runs: %w", err)
	}

	columns := []table.Column{
		{Title: "When", Width: 17},
		{Title: "Puzzles", Width: 8},
		{Title: "Coins", Width: 6},
		{Title: "Tripped on", Width: 14},
	}

	rows := make([]table.Row, 0, len(runs))
	for _, r := range runs {
		mistake := r.MistakeWordID
		if mistake == "" {
			mistake = "-"
		}
		rows = append(rows, table.Row{
			r.CreatedAt.Format("2006-01-02 15:04"),
			fmt.Sprintf("%d", r.Puzzles),
			fmt.Sprintf("%d", r.Coins),
			mistake,
		})
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithFocused(true),
		table.WithHeight(min(len(rows)+1, 15)),
	)

	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderBottom(true).
		Bold(true)
	styles.Selected = styles.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57"))
	t.SetStyles(styles)

	return StatsModel{
		state: state,
		runs:  runs,
		table: t,
		theme: DefaultTheme(),
	}, nil
}

// Init implements tea.Model.
func (m StatsModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m StatsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.width = msg.Width
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View implements tea.Model.
func (m StatsModel) View() string {
	header := lipgloss.JoinHorizontal(lipgloss.Top,
		m.theme.Title.Render("ことば stats"),
		"   ",
		m.theme.Progress.Render(fmt.Sprintf("best run: %d", m.state.BestRun)),
		"  ",
		m.theme.Coins.Render(fmt.Sprintf("¢ %d", m.state.TotalCoins)),
		"  ",
		m.theme.Progress.Render(fmt.Sprintf("unlocks: %d", len(m.state.Unlocks))),
	)

	if len(m.runs) == 0 {
		return header + "\n\n" + m.theme.Prompt.Render("no runs yet") + "\n\n" +
			m.theme.Help.Render("q to quit")
	}

	return header + "\n\n" + m.table.View() + "\n\n" + m.theme.Help.Render("q to quit")
}

// RunStats starts a Bubble Tea program showing the stats screen.
func RunStats(store *meta.Store) error {
	model, err := NewStatsModel(store)
	if err != nil {
		return err
	}
	p := tea.NewProgram(model, tea.WithAltScreen())
	_, err = p.Run()
	return err
}
