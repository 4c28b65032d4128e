package tui

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/ayatsuji/kotoba-run/internal/meta"
	"github.com/ayatsuji/kotoba-run/internal/run"
	"github.com/ayatsuji/kotoba-run/internal/words"
)

// phase is the current screen within a run session.
type phase int

const (
	phasePuzzle phase = iota
	phaseFeedback
	phaseShop
	phaseOver
)

// tile is one entry in the build-word tray.
type tile struct {
	grapheme string
	used     bool
}

// Model is the Bubble Tea model for playing runs. It renders machine
// snapshots and calls machine operations; all game state lives in the
// machine.
type Model struct {
	machine *run.Machine
	store   *meta.Store // nil disables meta persistence
	theme   Theme
	keys    RunKeyMap
	help    help.Model
	rng     *rand.Rand

	width  int
	height int

	phase      phase
	cursor     int
	options    []run.Option
	word       words.Word
	tray       []tile
	picked     []int
	lastResult run.Result
	final      run.Snapshot
	bestBefore int
	reported   bool
	quitting   bool
	loadErr    error
}

// NewModel creates a model around a started machine.
func NewModel(machine *run.Machine, store *meta.Store, seed int64) Model {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	m := Model{
		machine: machine,
		store:   store,
		theme:   DefaultTheme(),
		keys:    DefaultRunKeyMap(),
		help:    help.New(),
		rng:     rand.New(rand.NewSource(seed)),
	}
	m.loadPuzzle()
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// loadPuzzle refreshes the option list or tile tray for the current puzzle.
func (m *Model) loadPuzzle() {
	m.cursor = 0
	m.options = nil
	m.tray = nil
	m.picked = nil
	m.loadErr = nil

	snap := m.machine.Snapshot()
	if snap.Puzzle == nil {
		return
	}

	switch snap.Puzzle.Kind {
	case run.KindMatchAudio, run.KindDiscriminate:
		opts, err := m.machine.Options()
		if err != nil {
			m.loadErr = err
			return
		}
		m.options = opts

	case run.KindBuildWord:
		word, err := m.machine.CurrentWord()
		if err != nil {
			m.loadErr = err
			return
		}
		m.word = word
		m.tray = make([]tile, len(word.Hiragana))
		for i, g := range word.Hiragana {
			m.tray[i] = tile{grapheme: g}
		}
		m.rng.Shuffle(len(m.tray), func(i, j int) {
			m.tray[i], m.tray[j] = m.tray[j], m.tray[i]
		})
	}
}

// resetTray puts all tiles back for a retry of the same build puzzle.
func (m *Model) resetTray() {
	for i := range m.tray {
		m.tray[i].used = false
	}
	m.picked = nil
	m.cursor = 0
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		m.endRun()
		m.quitting = true
		return m, tea.Quit
	}

	switch m.phase {
	case phasePuzzle:
		return m.handlePuzzleKey(msg)
	case phaseFeedback:
		return m.handleFeedbackKey(msg)
	case phaseShop:
		return m.handleShopKey(msg)
	case phaseOver:
		return m.handleOverKey(msg)
	}
	return m, nil
}

func (m Model) handlePuzzleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	snap := m.machine.Snapshot()
	if snap.Puzzle == nil {
		return m, nil
	}

	if snap.Puzzle.Kind == run.KindBuildWord {
		return m.handleBuildKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.options)-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keys.Select):
		if len(m.options) == 0 {
			return m, nil
		}
		return m.submit(run.ChoiceAnswer(m.options[m.cursor].WordID))
	}
	return m, nil
}

func (m Model) handleBuildKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Left):
		m.moveTrayCursor(-1)
	case key.Matches(msg, m.keys.Right):
		m.moveTrayCursor(1)
	case key.Matches(msg, m.keys.Undo):
		if n := len(m.picked); n > 0 {
			last := m.picked[n-1]
			m.tray[last].used = false
			m.picked = m.picked[:n-1]
		}
	case key.Matches(msg, m.keys.Select):
		if m.cursor >= len(m.tray) || m.tray[m.cursor].used {
			return m, nil
		}
		m.tray[m.cursor].used = true
		m.picked = append(m.picked, m.cursor)
		if len(m.picked) == len(m.tray) {
			answer := make([]string, len(m.picked))
			for i, idx := range m.picked {
				answer[i] = m.tray[idx].grapheme
			}
			return m.submit(run.TileAnswer(answer))
		}
		m.moveTrayCursor(1)
	}
	return m, nil
}

// moveTrayCursor steps the cursor over unused tiles, wrapping around.
func (m *Model) moveTrayCursor(dir int) {
	if len(m.tray) == 0 {
		return
	}
	for i := 0; i < len(m.tray); i++ {
		m.cursor = (m.cursor + dir + len(m.tray)) % len(m.tray)
		if !m.tray[m.cursor].used {
			return
		}
	}
}

func (m Model) submit(answer run.Answer) (tea.Model, tea.Cmd) {
	result, err := m.machine.Submit(answer)
	if err != nil {
		// Stale submit, snapshot view catches up on next render.
		return m, nil
	}
	m.lastResult = result
	m.phase = phaseFeedback
	return m, nil
}

func (m Model) handleFeedbackKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if !key.Matches(msg, m.keys.Select) {
		return m, nil
	}

	if m.lastResult.Correct {
		if err := m.machine.Advance(); err != nil {
			m.endRun()
			m.phase = phaseOver
			return m, nil
		}
		m.loadPuzzle()
		m.phase = phasePuzzle
		return m, nil
	}

	snap := m.machine.Snapshot()
	if snap.Lives > 0 {
		// Retry the same puzzle with a remaining life.
		m.resetTray()
		m.phase = phasePuzzle
		return m, nil
	}

	cfg := m.machine.Config()
	if snap.Coins >= cfg.LifeCost && snap.Lives < cfg.MaxLives {
		m.phase = phaseShop
		return m, nil
	}

	m.endRun()
	m.phase = phaseOver
	return m, nil
}

func (m Model) handleShopKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Yes):
		if m.machine.PurchaseLife() {
			m.resetTray()
			m.phase = phasePuzzle
			return m, nil
		}
		m.endRun()
		m.phase = phaseOver
	case key.Matches(msg, m.keys.No):
		m.endRun()
		m.phase = phaseOver
	}
	return m, nil
}

func (m Model) handleOverKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Restart) {
		m.machine.Reset()
		if err := m.machine.Start(); err != nil {
			m.quitting = true
			return m, tea.Quit
		}
		m.reported = false
		m.loadPuzzle()
		m.phase = phasePuzzle
	}
	return m, nil
}

// endRun closes the run and reports results to the meta store exactly once.
// Persistence failures are swallowed, the run summary still renders.
func (m *Model) endRun() {
	if m.reported {
		return
	}
	m.reported = true

	m.final = m.machine.Snapshot()
	m.machine.End()

	if m.store != nil {
		if best, err := m.store.BestRun(); err == nil {
			m.bestBefore = best
		}
		//nolint:errcheck // Best-effort save, summary renders regardless
		m.store.RecordRunEnd(meta.RunRecord{
			Puzzles:       m.final.PuzzleIndex,
			Coins:         m.final.RunCoins,
			MistakeWordID: m.final.LastMistakeWordID,
		})
	}
}

// View implements tea.Model.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	switch m.phase {
	case phaseOver:
		return m.viewOver()
	case phaseShop:
		return m.viewShop()
	case phaseFeedback:
		return m.viewFeedback()
	default:
		return m.viewPuzzle()
	}
}

func (m Model) header() string {
	snap := m.machine.Snapshot()
	return lipgloss.JoinHorizontal(lipgloss.Top,
		m.theme.Title.Render("ことば run"),
		"   ",
		m.theme.renderLives(snap.Lives, snap.MaxLives),
		"  ",
		m.theme.Coins.Render(fmt.Sprintf("¢ %d", snap.Coins)),
		"  ",
		m.theme.Progress.Render(fmt.Sprintf("puzzle %d", snap.PuzzleIndex+1)),
	)
}

func (m Model) viewPuzzle() string {
	snap := m.machine.Snapshot()
	if snap.Puzzle == nil || m.loadErr != nil {
		return m.header() + "\n\n" + m.theme.Prompt.Render("no puzzle available")
	}

	var b strings.Builder
	b.WriteString(m.header())
	b.WriteString("\n\n")

	word, err := m.machine.CurrentWord()
	if err != nil {
		return b.String()
	}

	switch snap.Puzzle.Kind {
	case run.KindMatchAudio:
		b.WriteString(m.theme.Cue.Render("🔊 " + word.Romaji))
		b.WriteString("\n")
		b.WriteString(m.theme.Prompt.Render("Which word did you hear?"))
		b.WriteString("\n\n")
		b.WriteString(m.viewOptions())

	case run.KindDiscriminate:
		b.WriteString(m.theme.Cue.Render("🔊 " + word.Romaji))
		b.WriteString("\n")
		b.WriteString(m.theme.Prompt.Render("Listen closely. Which one is it?"))
		b.WriteString("\n\n")
		b.WriteString(m.viewOptions())

	case run.KindBuildWord:
		b.WriteString(m.theme.Cue.Render("🔊 " + word.Romaji))
		b.WriteString("\n")
		b.WriteString(m.theme.Prompt.Render("Build the word from the tiles."))
		b.WriteString("\n\n")
		b.WriteString(m.viewTray())
	}

	b.WriteString("\n\n")
	b.WriteString(m.theme.Help.Render(m.help.View(m.keys)))
	return b.String()
}

func (m Model) viewOptions() string {
	var b strings.Builder
	for i, opt := range m.options {
		label := strings.Join(opt.Hiragana, "")
		if i == m.cursor {
			b.WriteString(m.theme.OptionActive.Render("▶ " + label))
		} else {
			b.WriteString(m.theme.OptionNormal.Render("  " + label))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) viewTray() string {
	assembled := make([]string, 0, len(m.picked))
	for _, idx := range m.picked {
		assembled = append(assembled, m.tray[idx].grapheme)
	}

	var b strings.Builder
	b.WriteString(m.theme.Assembled.Render("▸ " + strings.Join(assembled, "") + "_"))
	b.WriteString("\n\n")

	for i, t := range m.tray {
		switch {
		case t.used:
			b.WriteString(m.theme.TilePicked.Render("·"))
		case i == m.cursor:
			b.WriteString(m.theme.TileActive.Render("[" + t.grapheme + "]"))
		default:
			b.WriteString(m.theme.TileNormal.Render(t.grapheme))
		}
	}
	b.WriteString("\n")
	return b.String()
}

func (m Model) viewFeedback() string {
	var b strings.Builder
	b.WriteString(m.header())
	b.WriteString("\n\n")

	if m.lastResult.Correct {
		b.WriteString(m.theme.Correct.Render("✓ correct!"))
		b.WriteString("  ")
		b.WriteString(m.theme.Reward.Render(fmt.Sprintf("+%d coins", m.lastResult.CoinsEarned)))
		if m.lastResult.SolveTime > 0 {
			b.WriteString(m.theme.Progress.Render(fmt.Sprintf("  (%.1fs)", m.lastResult.SolveTime.Seconds())))
		}
	} else {
		b.WriteString(m.theme.Wrong.Render("✗ wrong"))
		b.WriteString("\n")
		b.WriteString(m.theme.Prompt.Render(fmt.Sprintf("lives left: %d", m.lastResult.LivesLeft)))
	}

	b.WriteString("\n\n")
	b.WriteString(m.theme.Help.Render("enter to continue"))
	return b.String()
}

func (m Model) viewShop() string {
	snap := m.machine.Snapshot()
	cfg := m.machine.Config()

	body := lipgloss.JoinVertical(lipgloss.Left,
		m.theme.OverlayTitle.Render("out of lives"),
		"",
		m.theme.OverlayText.Render(fmt.Sprintf("Buy an extra life for %d coins?", cfg.LifeCost)),
		m.theme.OverlayText.Render(fmt.Sprintf("You have %d coins.", snap.Coins)),
		"",
		m.theme.Help.Render("y buy · n end run"),
	)
	return m.header() + "\n\n" + m.theme.OverlayBorder.Render(body)
}

func (m Model) viewOver() string {
	lines := []string{
		m.theme.OverlayTitle.Render("run over"),
		"",
		m.theme.OverlayText.Render(fmt.Sprintf("puzzles solved: %d", m.final.PuzzleIndex)),
		m.theme.OverlayText.Render(fmt.Sprintf("coins earned:   %d", m.final.RunCoins)),
	}
	if m.final.PuzzleIndex > m.bestBefore {
		lines = append(lines, m.theme.Correct.Render("new best run!"))
	} else if m.bestBefore > 0 {
		lines = append(lines,
			m.theme.OverlayText.Render(fmt.Sprintf("best so far:    %d", m.bestBefore)))
	}
	if m.final.LastMistakeWordID != "" {
		lines = append(lines,
			m.theme.OverlayText.Render("tripped up by:  "+m.final.LastMistakeWordID))
	}
	lines = append(lines, "", m.theme.Help.Render("r new run · q quit"))

	return m.theme.OverlayBorder.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

// Run starts a local Bubble Tea program for the given machine.
func Run(machine *run.Machine, store *meta.Store, seed int64) error {
	if err := machine.Start(); err != nil {
		return fmt.Errorf("tui: cannot start run: %w", err)
	}

	p := tea.NewProgram(
		NewModel(machine, store, seed),
		tea.WithAltScreen(),
	)
	_, err := p.Run()
	return err
}
