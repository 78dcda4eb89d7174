package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"fedcompose/internal/pipeline"
)

type progressModel struct {
	title   string
	events  <-chan pipeline.Event
	spinner spinner.Model
	prog    progress.Model
	items   []subgraphItem
	index   map[string]int
	stages  map[pipeline.Stage]pipeline.Status
	current pipeline.Stage
	width   int
	done    bool
}

type subgraphItem struct {
	name   string
	status pipeline.Status
}

type eventMsg pipeline.Event
type doneMsg struct{}

// NewProgressModel returns a Bubble Tea model that renders composition
// progress: one row per subgraph plus a strip with every stage.
func NewProgressModel(title string, subgraphs []string, events <-chan pipeline.Event) tea.Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))

	prog := progress.New(progress.WithDefaultGradient())
	prog.Width = 76

	items := make([]subgraphItem, 0, len(subgraphs))
	index := make(map[string]int, len(subgraphs))
	for i, name := range subgraphs {
		items = append(items, subgraphItem{name: name, status: pipeline.StatusQueued})
		index[name] = i
	}
	stages := make(map[pipeline.Stage]pipeline.Status, len(pipeline.Stages))
	for _, st := range pipeline.Stages {
		stages[st] = pipeline.StatusQueued
	}
	return &progressModel{
		title:   title,
		events:  events,
		spinner: sp,
		prog:    prog,
		items:   items,
		index:   index,
		stages:  stages,
		width:   80,
	}
}

func (m *progressModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.listenForEvent())
}

func (m *progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case eventMsg:
		cmd := m.applyEvent(pipeline.Event(msg))
		return m, tea.Batch(cmd, m.listenForEvent())
	case doneMsg:
		m.done = true
		return m, tea.Quit
	case spinner.TickMsg:
		if m.done {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.WindowSizeMsg:
		if msg.Width > 0 {
			m.width = msg.Width
			m.prog.Width = msg.Width - 4
		}
		return m, nil
	case progress.FrameMsg:
		progressModel, cmd := m.prog.Update(msg)
		m.prog = progressModel.(progress.Model)
		return m, cmd
	}
	return m, nil
}

func (m *progressModel) View() string {
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7"))
	header := m.title
	if m.current != "" && !m.done {
		header = fmt.Sprintf("%s (%s)", header, m.current)
	}
	if m.done {
		header = "done: " + header
	} else {
		header = m.spinner.View() + " " + header
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(header))
	b.WriteString("\n\n")

	for i, st := range pipeline.Stages {
		if i > 0 {
			b.WriteString("  ")
		}
		status := m.stages[st]
		b.WriteString(styleStatus(status).Render(stageMark(status) + " " + string(st)))
	}
	b.WriteString("\n\n")

	const statusWidth = 10
	nameWidth := max(m.width-statusWidth-4, 20)
	for _, item := range m.items {
		status := styleStatus(item.status).Render(fmt.Sprintf("%*s", statusWidth, item.status))
		b.WriteString("  " + status + " " + truncate(item.name, nameWidth) + "\n")
	}

	b.WriteString("\n")
	if m.done {
		b.WriteString(m.prog.ViewAs(1.0))
	} else {
		b.WriteString(m.prog.View())
	}
	b.WriteString("\n")
	return b.String()
}

func (m *progressModel) listenForEvent() tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-m.events
		if !ok {
			return doneMsg{}
		}
		return eventMsg(ev)
	}
}

func (m *progressModel) applyEvent(ev pipeline.Event) tea.Cmd {
	if ev.Subgraph == "" {
		if _, ok := m.stages[ev.Stage]; !ok {
			return nil
		}
		m.stages[ev.Stage] = ev.Status
		if ev.Status == pipeline.StatusWorking {
			m.current = ev.Stage
		}
	} else {
		idx, ok := m.index[ev.Subgraph]
		if !ok {
			return nil
		}
		m.items[idx].status = ev.Status
	}
	return m.prog.SetPercent(m.percent())
}

// percent counts finished stages; validation advances per subgraph.
func (m *progressModel) percent() float64 {
	total := 0.0
	for _, st := range pipeline.Stages {
		switch {
		case finished(m.stages[st]):
			total++
		case st == pipeline.StageValidate && len(m.items) > 0:
			n := 0
			for _, item := range m.items {
				if finished(item.status) {
					n++
				}
			}
			total += float64(n) / float64(len(m.items))
		}
	}
	return total / float64(len(pipeline.Stages))
}

func finished(s pipeline.Status) bool {
	return s == pipeline.StatusDone || s == pipeline.StatusError || s == pipeline.StatusSkipped
}

func stageMark(s pipeline.Status) string {
	switch s {
	case pipeline.StatusDone:
		return "✓"
	case pipeline.StatusError:
		return "✗"
	case pipeline.StatusWorking:
		return "•"
	case pipeline.StatusSkipped:
		return "-"
	default:
		return "·"
	}
}

func styleStatus(status pipeline.Status) lipgloss.Style {
	switch status {
	case pipeline.StatusDone:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	case pipeline.StatusError:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	case pipeline.StatusWorking:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	default:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("7"))
	}
}

func truncate(value string, width int) string {
	if width <= 0 {
		return value
	}
	if runewidth.StringWidth(value) <= width {
		return value
	}
	if width <= 3 {
		return runewidth.Truncate(value, width, "")
	}
	// хвост входит в width
	return runewidth.Truncate(value, width, "...")
}
