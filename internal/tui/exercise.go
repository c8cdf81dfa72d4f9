package tui

import (
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/texuddy/texuddy/internal/model"
	"github.com/texuddy/texuddy/internal/retype"
)

const (
	exerciseHeaderHeight = 3
	exerciseFooterHeight = 1
	contentRatio         = 0.70
	minContentWidth      = 10
)

type followerTickMsg struct {
	tick retype.Tick
}

type completeMsg struct {
	gen     int
	elapsed int
}

type finishedMsg struct {
	exercise  model.Exercise
	words     int
	chars     int
	elapsed   int
	startedAt time.Time
	endedAt   time.Time
}

type backMsg struct{}

type fontSizeMsg struct {
	size retype.FontSize
}

var lastExerciseGen atomic.Int64

// exerciseModel is the retyping screen for one exercise.
type exerciseModel struct {
	exercise model.Exercise
	text     *retype.Text
	matcher  *retype.Matcher
	follower *retype.Follower
	keyboard *retype.KeyboardTracker
	area     *textArea
	window   *terminalWindow
	vp       viewport.Model
	input    textinput.Model
	pal      *palette
	now      func() time.Time

	topics   []string
	touch    bool
	fontSize retype.FontSize
	width    int
	height   int

	gen     int
	pending bool
	closed  bool
}

func newExerciseModel(ex model.Exercise, fontSize retype.FontSize, touch bool, now func() time.Time) *exerciseModel {
	if now == nil {
		now = time.Now
	}
	text := retype.NewText(ex.Response)
	m := &exerciseModel{
		exercise: ex,
		text:     text,
		matcher:  retype.NewMatcher(text, retype.WithClock(now)),
		keyboard: &retype.KeyboardTracker{},
		vp:       viewport.New(0, 0),
		pal:      newPalette(),
		now:      now,
		touch:    touch,
		fontSize: retype.ClampFontSize(int(fontSize)),
	}
	m.area = &textArea{vp: &m.vp, top: exerciseHeaderHeight, fontSize: m.fontSize}
	m.window = &terminalWindow{touch: touch, fontSize: m.fontSize}
	m.follower = retype.NewFollower(m.area, m.window, m.keyboard, m.fontSize)
	m.input = textinput.New()
	m.input.Prompt = "› "
	m.input.Placeholder = "type here"
	m.input.CharLimit = 8
	if touch {
		m.input.Focus()
	}
	m.gen = int(lastExerciseGen.Add(1))
	return m
}

// Init starts the exercise. Text with nothing to type completes at once.
func (m *exerciseModel) Init() tea.Cmd {
	cmds := []tea.Cmd{}
	if m.touch {
		cmds = append(cmds, textinput.Blink)
	}
	if res := m.matcher.Start(); res.Completed {
		cmds = append(cmds, m.scheduleCompletion(res.Elapsed))
	}
	return tea.Batch(cmds...)
}

func (m *exerciseModel) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layout()
		return m.follow()
	case followerTickMsg:
		return m.handleTick(msg.tick)
	case completeMsg:
		if m.closed || !m.pending || msg.gen != m.gen {
			return nil
		}
		m.pending = false
		m.closed = true
		m.follower.Stop()
		return emit(finishedMsg{
			exercise:  m.exercise,
			words:     m.text.WordCount(),
			chars:     m.text.Len(),
			elapsed:   msg.elapsed,
			startedAt: m.startedAt(),
			endedAt:   m.now(),
		})
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	if m.touch {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return cmd
	}
	return nil
}

func (m *exerciseModel) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc":
		m.teardown()
		return emit(backMsg{})
	case "alt+=", "alt++":
		return m.setFontSize(m.fontSize.Increase())
	case "alt+-", "alt+_":
		return m.setFontSize(m.fontSize.Decrease())
	case "pgup":
		m.vp.SetYOffset(m.vp.YOffset - max(1, m.vp.Height))
		return nil
	case "pgdown":
		m.vp.SetYOffset(m.vp.YOffset + max(1, m.vp.Height))
		return nil
	}
	if m.closed {
		return nil
	}

	// The on-screen field edits freely but never retreats the cursor.
	if m.touch && (msg.Type == tea.KeyBackspace || msg.Type == tea.KeyCtrlH) {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return cmd
	}
	if m.touch && (msg.Type == tea.KeyRunes || msg.Type == tea.KeySpace) && !msg.Alt {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		res, reset := m.matcher.HandleInput(m.input.Value())
		m.input.SetValue(reset)
		return tea.Batch(cmd, m.apply(res))
	}

	var cmds []tea.Cmd
	for _, key := range toKeys(msg) {
		res := m.matcher.HandleKey(key)
		cmds = append(cmds, m.apply(res))
		if res.Completed {
			break
		}
	}
	return tea.Batch(cmds...)
}

func (m *exerciseModel) apply(res retype.Result) tea.Cmd {
	var cmds []tea.Cmd
	if res.Moved {
		m.render()
		cmds = append(cmds, m.follow())
	}
	if res.Completed {
		cmds = append(cmds, m.scheduleCompletion(res.Elapsed))
	}
	return tea.Batch(cmds...)
}

func (m *exerciseModel) scheduleCompletion(elapsed int) tea.Cmd {
	m.pending = true
	gen := m.gen
	return tea.Tick(retype.CompletionDelay, func(time.Time) tea.Msg {
		return completeMsg{gen: gen, elapsed: elapsed}
	})
}

func (m *exerciseModel) follow() tea.Cmd {
	tick, ok := m.follower.OnCursorChange()
	if !ok {
		return nil
	}
	return scheduleTick(tick)
}

func (m *exerciseModel) handleTick(t retype.Tick) tea.Cmd {
	if t.ID != m.follower.ID() {
		return nil
	}
	switch t.Kind {
	case retype.TickScroll:
		if settle, ok := m.follower.Fire(t); ok {
			return scheduleTick(settle)
		}
	case retype.TickSettle:
		m.follower.Settle(t)
	}
	return nil
}

func scheduleTick(t retype.Tick) tea.Cmd {
	return tea.Tick(t.Delay(), func(time.Time) tea.Msg {
		return followerTickMsg{tick: t}
	})
}

func emit(msg tea.Msg) tea.Cmd {
	return func() tea.Msg { return msg }
}

func (m *exerciseModel) setFontSize(size retype.FontSize) tea.Cmd {
	if size == m.fontSize {
		return nil
	}
	m.fontSize = size
	m.area.fontSize = size
	m.window.fontSize = size
	m.follower.SetFontSize(size)
	m.layout()
	return tea.Batch(emit(fontSizeMsg{size: size}), m.follow())
}

// teardown cancels every pending follower and completion tick.
func (m *exerciseModel) teardown() {
	m.closed = true
	m.pending = false
	m.gen = -1
	m.follower.Stop()
	m.input.Blur()
}

func (m *exerciseModel) startedAt() time.Time {
	if m.matcher.Started() {
		return m.matcher.StartedAt()
	}
	return m.now()
}

func (m *exerciseModel) keyboardHeight() int {
	if !m.touch {
		return 0
	}
	return lipgloss.Height(renderKeyboard(m.input.View(), m.width))
}

func (m *exerciseModel) layout() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	kb := m.keyboardHeight()
	m.window.height = m.height
	m.window.keyboardHeight = kb
	m.keyboard.Measure(m.window)
	m.vp.Width = m.width
	m.vp.Height = max(1, m.height-exerciseHeaderHeight-exerciseFooterHeight-kb)
	m.input.Width = max(1, m.width-8)
	m.render()
}

// contentWidth shrinks the text column as the font grows.
func (m *exerciseModel) contentWidth() int {
	scale := float64(retype.DefaultFontSize) / float64(m.fontSize)
	w := int(float64(m.width) * contentRatio * scale)
	return max(min(w, m.width), min(minContentWidth, m.width))
}

func (m *exerciseModel) render() {
	if m.width <= 0 {
		return
	}
	cursor := m.matcher.Cursor()
	runes := buildStyledRunes(m.text, cursor, m.pal)
	width := m.contentWidth()
	lines, lineOf := wrapStyledRunes(runes, width)
	pad := strings.Repeat(" ", max(0, (m.width-width)/2))
	for i := range lines {
		lines[i] = pad + lines[i]
	}
	m.vp.SetContent(strings.Join(lines, "\n"))

	m.area.hasActive = cursor < m.text.Len()
	if m.area.hasActive {
		m.area.activeLine = lineOf[cursor]
	}
}

func (m *exerciseModel) progress() int {
	if m.text.Len() == 0 {
		return 100
	}
	return int(float64(m.matcher.Cursor()) / float64(m.text.Len()) * 100)
}

func (m *exerciseModel) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	header := m.renderHeader()
	body := m.vp.View()
	footer := lipgloss.Place(m.width, 1, lipgloss.Center, lipgloss.Center, m.renderFooter())
	parts := []string{header, body, footer}
	if m.touch {
		parts = append(parts, renderKeyboard(m.input.View(), m.width))
	}
	return strings.Join(parts, "\n")
}

func (m *exerciseModel) renderHeader() string {
	title := titleStyle.Render(m.exercise.Title)
	meta := fmt.Sprintf("%s · %s · from %s · font %dpx · %d%%",
		m.exercise.Category, m.exercise.Difficulty, m.exercise.From, m.fontSize, m.progress())
	topics := ""
	if len(m.topics) > 0 {
		topics = lipgloss.Place(m.width, 1, lipgloss.Center, lipgloss.Center,
			footerStyle.Render(truncateLine("topics: "+strings.Join(m.topics, " · "), m.width)))
	}
	lines := []string{
		lipgloss.Place(m.width, 1, lipgloss.Center, lipgloss.Center, title),
		lipgloss.Place(m.width, 1, lipgloss.Center, lipgloss.Center, mutedStyle.Render(truncateLine(meta, m.width))),
		topics,
	}
	return strings.Join(lines, "\n")
}

func (m *exerciseModel) renderFooter() string {
	segments := []string{
		fmt.Sprintf("%d / %d", m.matcher.Cursor(), m.text.Len()),
		fmt.Sprintf("%d words", m.text.WordCount()),
		"esc back",
		"alt+= / alt+- font",
	}
	return footerStyle.Render(strings.Join(segments, "  "))
}
