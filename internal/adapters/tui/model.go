// Package tui реализует терминальный дашборд сводки на bubbletea.
package tui

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"ai-daily/internal/domain"
	"ai-daily/internal/usecase/calendar"
	"ai-daily/internal/usecase/loader"
)

const helpLine = "←/h prev · →/l next · r reload · j/k select · u/d/s judge · q quit"

type loadedMsg struct {
	result domain.LoadResult
	err    error
}

type judgedMsg struct {
	itemID   string
	judgment domain.Judgment
	err      error
}

// Model хранит состояние терминального дашборда.
type Model struct {
	ctx     context.Context
	loader  domain.DigestLoader
	journal domain.FeedbackJournal
	loc     *time.Location
	now     func() time.Time

	day       time.Time
	result    domain.LoadResult
	judgments map[string]domain.Judgment
	selected  int
	status    string
	width     int
	height    int

	spinner  spinner.Model
	viewport viewport.Model
	styles   Styles
}

// New создаёт модель, открытую на дне day.
func New(ctx context.Context, digestLoader domain.DigestLoader, journal domain.FeedbackJournal, day time.Time, loc *time.Location) Model {
	if loc == nil {
		loc = time.UTC
	}
	styles := DefaultStyles()
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.Selected
	return Model{
		ctx:      ctx,
		loader:   digestLoader,
		journal:  journal,
		loc:      loc,
		now:      time.Now,
		day:      day,
		result:   domain.LoadResult{State: domain.LoadStateLoading, RequestedDate: calendar.Format(day)},
		spinner:  sp,
		viewport: viewport.New(80, 20),
		styles:   styles,
	}
}

// Init запускает первую загрузку.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.fetch(m.day))
}

// Update обрабатывает клавиши и результаты фоновых команд.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.viewport.Width = msg.Width
		m.viewport.Height = max(msg.Height-4, 1)
		m.refresh()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case loadedMsg:
		if errors.Is(msg.err, loader.ErrSuperseded) || msg.result.RequestedDate != calendar.Format(m.day) {
			return m, nil
		}
		m.result = msg.result
		m.selected = 0
		m.judgments = m.journal.Judgments(m.ctx)
		m.viewport.GotoTop()
		m.refresh()
		return m, nil

	case judgedMsg:
		if msg.err != nil {
			m.status = "feedback not saved: " + msg.err.Error()
		} else {
			if m.judgments == nil {
				m.judgments = make(map[string]domain.Judgment)
			}
			m.judgments[msg.itemID] = msg.judgment
			m.status = fmt.Sprintf("%s marked %s", msg.itemID, msg.judgment)
		}
		m.refresh()
		return m, nil

	case spinner.TickMsg:
		if !m.result.Loading() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "left", "h":
		return m.open(calendar.Prev(m.day))
	case "right", "l":
		next := calendar.Next(m.day, m.now())
		if next.Equal(m.day) {
			m.status = "already at today"
			return m, nil
		}
		return m.open(next)
	case "r":
		return m.open(m.day)
	case "j", "down":
		if m.selected < len(m.posts())-1 {
			m.selected++
			m.refresh()
		}
		return m, nil
	case "k", "up":
		if m.selected > 0 {
			m.selected--
			m.refresh()
		}
		return m, nil
	case "u":
		return m, m.judge(domain.JudgmentUp)
	case "d":
		return m, m.judge(domain.JudgmentDown)
	case "s":
		return m, m.judge(domain.JudgmentSpam)
	}
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) open(day time.Time) (tea.Model, tea.Cmd) {
	m.day = day
	m.status = ""
	m.result = domain.LoadResult{State: domain.LoadStateLoading, RequestedDate: calendar.Format(day)}
	return m, tea.Batch(m.spinner.Tick, m.fetch(day))
}

func (m Model) fetch(day time.Time) tea.Cmd {
	ctx, digestLoader := m.ctx, m.loader
	return func() tea.Msg {
		result, err := digestLoader.Load(ctx, day)
		return loadedMsg{result: result, err: err}
	}
}

func (m Model) judge(judgment domain.Judgment) tea.Cmd {
	posts := m.posts()
	if m.selected >= len(posts) {
		return nil
	}
	post := posts[m.selected]
	ctx, journal := m.ctx, m.journal
	return func() tea.Msg {
		err := journal.Record(ctx, post.ID, judgment, post.AuthorHandle)
		return judgedMsg{itemID: post.ID, judgment: judgment, err: err}
	}
}

func (m Model) posts() []domain.SocialPost {
	if !m.result.Succeeded() {
		return nil
	}
	return m.result.Digest.TopTweets
}

func (m *Model) refresh() {
	if !m.result.Succeeded() {
		m.viewport.SetContent("")
		return
	}
	m.viewport.SetContent(renderDigest(*m.result.Digest, m.selected, m.judgments, m.styles, m.loc))
}

// View отрисовывает экран.
func (m Model) View() string {
	header := m.styles.Header.Render("AI Daily · " + calendar.Format(m.day))
	if m.result.Degraded {
		header += m.styles.Muted.Render(" showing " + m.result.DisplayedDate())
	}

	var body string
	switch {
	case m.result.Loading():
		body = m.spinner.View() + " Loading " + m.result.RequestedDate + "…"
	case m.result.Failed():
		body = m.styles.Failure.Render(m.result.Reason)
	default:
		body = m.viewport.View()
	}

	footer := helpLine
	if m.status != "" {
		footer = m.status + " · " + helpLine
	}
	return lipgloss.JoinVertical(lipgloss.Left, header, body, m.styles.Footer.Render(footer))
}
