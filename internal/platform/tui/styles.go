package tui

import (
	"github.com/charmbracelet/lipgloss"
)

// Theme holds the lipgloss styles used by the run screens.
type Theme struct {
	// Header
	Title     lipgloss.Style
	Lives     lipgloss.Style
	LivesLost lipgloss.Style
	Coins     lipgloss.Style
	Progress  lipgloss.Style

	// Puzzle area
	Cue          lipgloss.Style
	Prompt       lipgloss.Style
	OptionNormal lipgloss.Style
	OptionActive lipgloss.Style
	TileNormal   lipgloss.Style
	TilePicked   lipgloss.Style
	TileActive   lipgloss.Style
	Assembled    lipgloss.Style

	// Feedback
	Correct lipgloss.Style
	Wrong   lipgloss.Style
	Reward  lipgloss.Style

	// Shop and run-over overlays
	OverlayBorder lipgloss.Style
	OverlayTitle  lipgloss.Style
	OverlayText   lipgloss.Style

	Help lipgloss.Style
}

// DefaultTheme returns the standard color theme.
func DefaultTheme() Theme {
	return Theme{
		Title:     lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true),
		Lives:     lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
		LivesLost: lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
		Coins:     lipgloss.NewStyle().Foreground(lipgloss.Color("220")),
		Progress:  lipgloss.NewStyle().Foreground(lipgloss.Color("245")),

		Cue:          lipgloss.NewStyle().Foreground(lipgloss.Color("51")).Bold(true),
		Prompt:       lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		OptionNormal: lipgloss.NewStyle().Foreground(lipgloss.Color("250")),
		OptionActive: lipgloss.NewStyle().Foreground(lipgloss.Color("46")).Bold(true),
		TileNormal:   lipgloss.NewStyle().Foreground(lipgloss.Color("250")).Padding(0, 1),
		TilePicked:   lipgloss.NewStyle().Foreground(lipgloss.Color("240")).Padding(0, 1),
		TileActive:   lipgloss.NewStyle().Foreground(lipgloss.Color("46")).Bold(true).Padding(0, 1),
		Assembled:    lipgloss.NewStyle().Foreground(lipgloss.Color("226")).Bold(true),

		Correct: lipgloss.NewStyle().Foreground(lipgloss.Color("46")).Bold(true),
		Wrong:   lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
		Reward:  lipgloss.NewStyle().Foreground(lipgloss.Color("220")),

		OverlayBorder: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("135")).
			Padding(1, 3),
		OverlayTitle: lipgloss.NewStyle().Foreground(lipgloss.Color("135")).Bold(true),
		OverlayText:  lipgloss.NewStyle().Foreground(lipgloss.Color("252")),

		Help: lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
	}
}

// renderLives draws the life bar as filled and hollow hearts.
func (t Theme) renderLives(lives, maxLives int) string {
	out := ""
	for i := 0; i < maxLives; i++ {
		if i < lives {
			out += t.Lives.Render("♥ ")
		} else {
			out += t.LivesLost.Render("♡ ")
		}
	}
	return out
}
