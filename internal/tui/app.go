package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mabhi256/gripview/internal/inspector"
	"github.com/mabhi256/gripview/internal/node"
	"github.com/mabhi256/gripview/utils"
)

const PageSize = 10 // Number of lines to scroll per page

type Options struct {
	Title string
	// Timeout bounds every fetch started from the UI.
	Timeout time.Duration
}

type Model struct {
	store   *inspector.Store
	title   string
	timeout time.Duration

	keys KeyMap
	help help.Model

	cursor int
	offset int
	width  int
	height int

	loading map[node.Path]bool
	failed  map[node.Path]error
	status  string
	now     func() time.Time
}

// loadedMsg reports the end of an expand or retry.
type loadedMsg struct {
	path node.Path
	err  error
}

type getterMsg struct {
	path node.Path
	err  error
}

func New(store *inspector.Store, opts Options) *Model {
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}
	return &Model{
		store:   store,
		title:   opts.Title,
		timeout: opts.Timeout,
		keys:    DefaultKeyMap(),
		help:    help.New(),
		loading: make(map[node.Path]bool),
		failed:  make(map[node.Path]error),
		now:     time.Now,
	}
}

func Run(store *inspector.Store, opts Options) error {
	program := tea.NewProgram(New(store, opts), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}

func (m *Model) Init() tea.Cmd {
	return nil
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width

	case loadedMsg:
		delete(m.loading, msg.path)
		if msg.err != nil {
			m.failed[msg.path] = msg.err
			m.status = fmt.Sprintf("load failed: %v", msg.err)
		}

	case getterMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("getter failed: %v", msg.err)
			return m, nil
		}
		m.status = ""
		return m, m.reloadEvaluated(msg.path)

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	rows := m.rows()

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(msg, m.keys.Up):
		m.moveTo(rows, m.cursor-1)
	case key.Matches(msg, m.keys.Down):
		m.moveTo(rows, m.cursor+1)
	case key.Matches(msg, m.keys.PageUp):
		m.moveTo(rows, m.cursor-PageSize)
	case key.Matches(msg, m.keys.PageDown):
		m.moveTo(rows, m.cursor+PageSize)
	case key.Matches(msg, m.keys.Top):
		m.moveTo(rows, 0)
	case key.Matches(msg, m.keys.Bottom):
		m.moveTo(rows, len(rows)-1)
	case len(rows) == 0:
		return m, nil
	case key.Matches(msg, m.keys.Expand):
		return m, m.expand(rows)
	case key.Matches(msg, m.keys.Collapse):
		m.collapse(rows)
	case key.Matches(msg, m.keys.Retry):
		return m, m.retry(rows[m.cursor].node)
	case key.Matches(msg, m.keys.Getter):
		return m, m.invokeGetter(rows[m.cursor].node)
	}
	return m, nil
}

func (m *Model) moveTo(rows []row, i int) {
	if len(rows) == 0 {
		m.cursor = 0
		return
	}
	m.cursor = min(max(i, 0), len(rows)-1)
	if r := rows[m.cursor]; r.kind == rowNode {
		m.store.Focus(r.node)
	}
}

func (m *Model) expand(rows []row) tea.Cmd {
	r := rows[m.cursor]
	n := r.node
	if r.kind != rowNode || node.IsPrimitive(n) {
		return nil
	}
	if m.store.Expanded(n) {
		if m.cursor+1 < len(rows) && rows[m.cursor+1].depth > r.depth {
			m.moveTo(rows, m.cursor+1)
		}
		return nil
	}

	m.loading[n.Path] = true
	delete(m.failed, n.Path)
	store, timeout := m.store, m.timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		return loadedMsg{path: n.Path, err: store.Expand(ctx, n)}
	}
}

func (m *Model) collapse(rows []row) {
	r := rows[m.cursor]
	if r.kind == rowNode && m.store.Expanded(r.node) {
		m.store.Collapse(r.node)
		delete(m.failed, r.node.Path)
		return
	}
	if r.kind != rowNode {
		m.store.Collapse(r.node)
		delete(m.failed, r.node.Path)
		m.moveTo(m.rows(), m.cursor-1)
		return
	}
	m.moveTo(rows, parentRow(rows, m.cursor))
}

// retry reloads a node whose last load failed. Nothing retries on its own.
func (m *Model) retry(n *node.Node) tea.Cmd {
	if m.failed[n.Path] == nil {
		return nil
	}
	delete(m.failed, n.Path)
	m.status = ""
	return m.load(n)
}

// reloadEvaluated loads the properties of an evaluated getter that stayed
// open. The evaluation dropped whatever the accessor form had loaded.
func (m *Model) reloadEvaluated(p node.Path) tea.Cmd {
	n := m.store.Node(p)
	if n == nil || node.IsPrimitive(n) || !m.store.Expanded(n) {
		return nil
	}
	if m.store.State().LoadedProperties.Has(p) {
		return nil
	}
	return m.load(n)
}

func (m *Model) load(n *node.Node) tea.Cmd {
	m.loading[n.Path] = true
	store, timeout := m.store, m.timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		return loadedMsg{path: n.Path, err: store.LoadProperties(ctx, n)}
	}
}

// invokeGetter evaluates the accessor under the cursor. On a <get> node the
// accessor is its parent.
func (m *Model) invokeGetter(n *node.Node) tea.Cmd {
	target := n
	if node.IsGetter(n) {
		target = m.store.Node(n.Parent)
	}
	if target == nil || !node.HasAccessors(target) {
		m.status = "not a getter"
		return nil
	}
	if get := node.Getter(target); get == nil || get.IsUndefined() {
		m.status = "no getter to invoke"
		return nil
	}

	store, timeout := m.store, m.timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		return getterMsg{path: target.Path, err: store.InvokeGetter(ctx, target)}
	}
}

func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	header := m.renderHeader()
	helpView := utils.HelpBarStyle.Width(m.width).Render(m.help.View(m.keys))

	contentHeight := m.height - lipgloss.Height(header) - lipgloss.Height(helpView)
	contentHeight = max(contentHeight, 1)

	content := m.renderTree(contentHeight)
	content = lipgloss.NewStyle().Height(contentHeight).Render(content)

	return lipgloss.JoinVertical(lipgloss.Left, header, content, helpView)
}

func (m *Model) renderHeader() string {
	title := "🔍 gripview"
	if m.title != "" {
		title += " - " + m.title
	}

	status := utils.GoodStyle.Render(fmt.Sprintf("%d roots", len(m.store.State().Roots)))
	if len(m.loading) > 0 {
		status = utils.WarningStyle.Render(fmt.Sprintf("loading %d", len(m.loading)))
	}
	if m.status != "" {
		status = utils.CriticalStyle.Render(m.status)
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		utils.HeaderStyle.Width(m.width).Render(title+" • "+status),
		utils.MutedStyle.Render(strings.Repeat("─", m.width)),
	)
}

func (m *Model) renderTree(height int) string {
	rows := m.rows()
	if len(rows) == 0 {
		return utils.MutedStyle.Render("Nothing to inspect")
	}
	m.cursor = min(m.cursor, len(rows)-1)

	now := m.now()
	lines := make([]string, len(rows))
	for i, r := range rows {
		lines[i] = m.renderRow(r, i == m.cursor, now)
	}
	return m.applyScrolling(lines, height)
}

func (m *Model) renderRow(r row, selected bool, now time.Time) string {
	indent := strings.Repeat("  ", r.depth)

	var line string
	switch r.kind {
	case rowLoading:
		line = indent + "  " + utils.MutedStyle.Render("loading…")
	case rowError:
		msg := utils.TruncateString(fmt.Sprintf("failed: %v (r to retry)", r.err), max(m.width-len(indent)-2, 1))
		line = indent + "  " + utils.CriticalLightStyle.Render(msg)
	default:
		line = m.renderNode(r, indent, now)
	}

	if selected {
		return CursorStyle.Width(m.width).Render(line)
	}
	return line
}

func (m *Model) renderNode(r row, indent string, now time.Time) string {
	n := r.node
	arrow := "  "
	if !node.IsPrimitive(n) {
		arrow = "▶ "
		if m.store.Expanded(n) {
			arrow = "▼ "
		}
	}

	name := utils.TruncateString(n.Name, max(m.width/2, 8))
	line := indent + ArrowStyle.Render(arrow) + nameStyle(n).Render(name)

	desc := Describe(m.store, n, now)
	if desc == "" {
		return line
	}
	room := m.width - lipgloss.Width(indent) - lipgloss.Width(arrow) - lipgloss.Width(name) - 2
	if room < 4 {
		return line
	}
	style := utils.ValueStyle(valueOf(m.store, n))
	return line + utils.MutedStyle.Render(": ") + style.Render(utils.TruncateString(desc, room))
}
