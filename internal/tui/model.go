// Package tui provides the Bubble Tea retyping interface.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/texuddy/texuddy/internal/catalog"
	"github.com/texuddy/texuddy/internal/model"
	"github.com/texuddy/texuddy/internal/progress"
	"github.com/texuddy/texuddy/internal/retype"
	statsPkg "github.com/texuddy/texuddy/internal/stats"
	"github.com/texuddy/texuddy/internal/store"
)

const (
	backgroundHex = "#1E1E1E"
	completedHex  = "#F0F0F0"
	futureHex     = "#B8B8B8"
)

var (
	activeStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#1E1E1E")).Background(lipgloss.Color("#C89A3A"))
	titleStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	mutedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	footerStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	resultStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#7FD17F"))
	keyStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#B0B0B0"))
	keyboardStyle = lipgloss.NewStyle().
			Align(lipgloss.Center).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#4A4A4A"))
	previewStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#4A4A4A"))
)

type screen int

const (
	screenPicker screen = iota
	screenKeywords
	screenExercise
	screenComplete
)

// Sessions is the session storage used by the UI.
type Sessions interface {
	InsertSession(ctx context.Context, stats model.SessionStats) (int64, error)
	ListSessions(ctx context.Context, cfg model.StatsConfig) ([]model.SessionAggregate, error)
	CompletedExerciseIDs(ctx context.Context) (map[string]struct{}, error)
	SkippedExerciseIDs(ctx context.Context) (map[string]struct{}, error)
	SkipExercise(ctx context.Context, exerciseID string, at time.Time) error
}

// Options wires the UI to its collaborators.
type Options struct {
	Config   model.Config
	Profile  model.Profile
	Catalog  *catalog.Catalog
	Sessions Sessions
	Progress *store.ProgressStore
	Picker   *catalog.Picker
	Logger   *zap.Logger
	// Reload rebuilds the catalog after Changes fires.
	Reload  func() (*catalog.Catalog, error)
	Changes <-chan struct{}
	Now     func() time.Time
}

type catalogChangedMsg struct{}

// Model implements the Bubble Tea retyping UI.
type Model struct {
	opts   Options
	logger *zap.Logger
	now    func() time.Time

	screen   screen
	keywords *keywordsModel
	exercise *exerciseModel
	done     *completion
	fontSize retype.FontSize

	available []model.Exercise
	table     table.Model
	preview   viewport.Model
	renderer  *glamour.TermRenderer
	rendererW int

	summary progress.Summary
	result  string
	errMsg  string

	width  int
	height int
}

// NewModel constructs the retyping UI.
func NewModel(opts Options) *Model {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	if opts.Picker == nil {
		opts.Picker = catalog.NewPicker()
	}
	m := &Model{
		opts:     opts,
		logger:   logger,
		now:      now,
		fontSize: retype.ClampFontSize(opts.Config.FontSize),
		table:    newExerciseTable(),
		preview:  viewport.New(0, 0),
	}
	m.refresh()
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return m.waitForChange()
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layoutPicker()
		if m.exercise != nil {
			return m, m.exercise.Update(msg)
		}
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			if m.exercise != nil {
				m.exercise.teardown()
			}
			return m, tea.Quit
		}
		switch m.screen {
		case screenKeywords:
			return m, m.keywords.Update(msg)
		case screenExercise:
			return m, m.exercise.Update(msg)
		case screenComplete:
			return m.updateComplete(msg)
		}
		return m.updatePicker(msg)
	case catalogChangedMsg:
		m.reloadCatalog()
		return m, m.waitForChange()
	case topicsPickedMsg:
		m.keywords = nil
		return m, m.start(msg.exercise, msg.topics)
	case finishedMsg:
		done, ok := m.finish(msg)
		m.closeExercise()
		if ok {
			m.done = &done
			m.screen = screenComplete
		}
		return m, nil
	case backMsg:
		m.keywords = nil
		m.closeExercise()
		return m, nil
	case fontSizeMsg:
		m.fontSize = msg.size
		m.saveFontSize(msg.size)
		return m, nil
	}
	if m.exercise != nil {
		return m, m.exercise.Update(msg)
	}
	return m, nil
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	switch {
	case m.screen == screenKeywords && m.keywords != nil:
		return m.keywords.View(m.width, m.height)
	case m.screen == screenExercise && m.exercise != nil:
		return m.exercise.View()
	case m.screen == screenComplete && m.done != nil:
		return m.done.View(m.width, m.height, len(m.available) > 0)
	}
	return m.viewPicker()
}

func (m *Model) updatePicker(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "esc":
		return m, tea.Quit
	case "enter":
		ex, ok := m.selected()
		if !ok {
			return m, nil
		}
		return m, m.begin(ex)
	case "r":
		return m, m.pickNext()
	case "s":
		ex, ok := m.selected()
		if !ok {
			return m, nil
		}
		if err := m.opts.Sessions.SkipExercise(context.Background(), ex.ID, m.now()); err != nil {
			m.logger.Error("failed to skip exercise", zap.String("exercise", ex.ID), zap.Error(err))
			m.errMsg = fmt.Sprintf("failed to skip: %v", err)
			return m, nil
		}
		m.logger.Info("exercise skipped", zap.String("exercise", ex.ID))
		m.result = fmt.Sprintf("Skipped %q", ex.Title)
		m.refresh()
		return m, nil
	case "pgup", "pgdown":
		var cmd tea.Cmd
		m.preview, cmd = m.preview.Update(msg)
		return m, cmd
	}
	prev := m.table.Cursor()
	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	if m.table.Cursor() != prev {
		m.renderPreview()
	}
	return m, cmd
}

func (m *Model) updateComplete(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "n":
		m.done = nil
		m.screen = screenPicker
		return m, m.pickNext()
	case "enter", "esc", "q":
		m.done = nil
		m.screen = screenPicker
	}
	return m, nil
}

// pickNext starts a random exercise, favoring less practiced categories.
func (m *Model) pickNext() tea.Cmd {
	ex, ok := m.opts.Picker.Pick(m.available, m.practicedByCategory())
	if !ok {
		return nil
	}
	return m.begin(ex)
}

// begin opens the topic step, or the retype screen when ex has too few
// keywords to choose from.
func (m *Model) begin(ex model.Exercise) tea.Cmd {
	m.result = ""
	m.errMsg = ""
	if !needsTopics(ex) {
		return m.start(ex, nil)
	}
	m.keywords = newKeywordsModel(ex)
	m.screen = screenKeywords
	return nil
}

func (m *Model) start(ex model.Exercise, topics []string) tea.Cmd {
	m.result = ""
	m.errMsg = ""
	m.exercise = newExerciseModel(ex, m.fontSize, m.opts.Config.Touch, m.now)
	m.exercise.topics = topics
	m.screen = screenExercise
	m.logger.Debug("exercise started", zap.String("exercise", ex.ID), zap.Int("chars", m.exercise.text.Len()))
	cmds := []tea.Cmd{m.exercise.Init()}
	if m.width > 0 && m.height > 0 {
		cmds = append(cmds, m.exercise.Update(tea.WindowSizeMsg{Width: m.width, Height: m.height}))
	}
	return tea.Batch(cmds...)
}

func (m *Model) closeExercise() {
	if m.exercise != nil {
		m.exercise.teardown()
	}
	m.exercise = nil
	m.screen = screenPicker
	m.refresh()
}

// finish records a completed exercise and awards points and badges.
func (m *Model) finish(msg finishedMsg) (completion, bool) {
	ctx := context.Background()
	before, err := m.opts.Sessions.ListSessions(ctx, model.StatsConfig{})
	if err != nil {
		m.logger.Warn("failed to load sessions", zap.Error(err))
	}
	prev := progress.Summarize(before, m.now())

	activity := make([]time.Time, 0, len(before)+1)
	for _, s := range before {
		activity = append(activity, s.EndedAt)
	}
	activity = append(activity, msg.endedAt)
	streak := progress.Streak(activity, m.now())
	points := progress.Points(msg.words, msg.exercise.Difficulty, streak)

	session := model.SessionStats{
		ExerciseID:     msg.exercise.ID,
		Title:          msg.exercise.Title,
		Category:       msg.exercise.Category,
		Difficulty:     msg.exercise.Difficulty,
		StartedAt:      msg.startedAt,
		EndedAt:        msg.endedAt,
		Words:          msg.words,
		Chars:          msg.chars,
		ElapsedSeconds: msg.elapsed,
		Points:         points,
	}
	if _, err := m.opts.Sessions.InsertSession(ctx, session); err != nil {
		m.logger.Error("failed to save session", zap.String("exercise", msg.exercise.ID), zap.Error(err))
		m.errMsg = fmt.Sprintf("failed to save session: %v", err)
		return completion{}, false
	}

	completed := prev.Completed
	if !m.completedBefore(before, msg.exercise.ID) {
		completed++
	}
	badges := progress.NewlyUnlocked(prev.Completed, completed)
	wpm := statsPkg.SessionMetrics(msg.words, msg.elapsed)
	m.logger.Info("exercise completed",
		zap.String("exercise", msg.exercise.ID),
		zap.Int("words", msg.words),
		zap.Int("elapsed_seconds", msg.elapsed),
		zap.Float64("wpm", wpm),
		zap.Int("points", points),
		zap.Int("streak", streak),
		zap.Int("badges", len(badges)),
	)

	done := completion{
		exercise: msg.exercise,
		topics:   topicsOf(m.exercise),
		words:    msg.words,
		elapsed:  msg.elapsed,
		wpm:      wpm,
		points:   points,
		total:    prev.Points + points,
		badges:   badges,
	}
	segments := []string{
		fmt.Sprintf("Completed %q in %s", msg.exercise.Title, statsPkg.FormatSeconds(msg.elapsed)),
		fmt.Sprintf("%.1f WPM", wpm),
		fmt.Sprintf("+%d points", points),
	}
	if lvl := progress.Level(completed); lvl > progress.Level(prev.Completed) {
		done.level = lvl
		segments = append(segments, fmt.Sprintf("level %d", lvl))
	}
	for _, b := range badges {
		segments = append(segments, fmt.Sprintf("%s %s unlocked", b.Emoji, b.Name))
	}
	m.result = strings.Join(segments, " · ")
	return done, true
}

func topicsOf(ex *exerciseModel) []string {
	if ex == nil {
		return nil
	}
	return ex.topics
}

func (m *Model) completedBefore(sessions []model.SessionAggregate, id string) bool {
	for _, s := range sessions {
		if s.ExerciseID == id {
			return true
		}
	}
	return false
}

func (m *Model) saveFontSize(size retype.FontSize) {
	if m.opts.Progress == nil {
		return
	}
	if err := store.Save(context.Background(), m.opts.Progress, store.KeyFontSize, int(size)); err != nil {
		m.logger.Warn("failed to save font size", zap.Error(err))
	}
}

func (m *Model) waitForChange() tea.Cmd {
	ch := m.opts.Changes
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		if _, ok := <-ch; !ok {
			return nil
		}
		return catalogChangedMsg{}
	}
}

func (m *Model) reloadCatalog() {
	if m.opts.Reload == nil {
		return
	}
	c, err := m.opts.Reload()
	if err != nil {
		m.logger.Warn("failed to reload catalog", zap.Error(err))
		m.errMsg = fmt.Sprintf("catalog not reloaded: %v", err)
		return
	}
	m.opts.Catalog = c
	m.logger.Info("catalog reloaded", zap.Int("exercises", c.Len()))
	m.refresh()
}

// refresh recomputes the available exercises and the learner summary.
func (m *Model) refresh() {
	ctx := context.Background()
	sessions, err := m.opts.Sessions.ListSessions(ctx, model.StatsConfig{})
	if err != nil {
		m.logger.Warn("failed to load sessions", zap.Error(err))
	}
	m.summary = progress.Summarize(sessions, m.now())

	completed, err := m.opts.Sessions.CompletedExerciseIDs(ctx)
	if err != nil {
		m.logger.Warn("failed to load completed exercises", zap.Error(err))
	}
	skipped, err := m.opts.Sessions.SkippedExerciseIDs(ctx)
	if err != nil {
		m.logger.Warn("failed to load skipped exercises", zap.Error(err))
	}
	filter := catalog.Filter{
		Age:        m.opts.Config.Age,
		Difficulty: m.opts.Config.Difficulty,
		Category:   m.opts.Config.Category,
		Exclude:    []map[string]struct{}{completed, skipped},
	}
	if m.opts.Catalog != nil {
		m.available = m.opts.Catalog.Select(filter)
	} else {
		m.available = nil
	}
	m.table.SetRows(exerciseRows(m.available))
	if m.table.Cursor() >= len(m.available) {
		m.table.SetCursor(max(0, len(m.available)-1))
	}
	m.renderPreview()
}

func (m *Model) practicedByCategory() map[string]int {
	sessions, err := m.opts.Sessions.ListSessions(context.Background(), model.StatsConfig{})
	if err != nil {
		m.logger.Warn("failed to load sessions", zap.Error(err))
		return nil
	}
	out := map[string]int{}
	for _, s := range sessions {
		out[s.Category]++
	}
	return out
}

func (m *Model) selected() (model.Exercise, bool) {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.available) {
		return model.Exercise{}, false
	}
	return m.available[idx], true
}
