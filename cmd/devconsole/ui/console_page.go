package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"devconsole/internal/config"
	"devconsole/internal/console"
	"devconsole/internal/gesture"
	"devconsole/internal/logging"
)

// clipboardWriteAll is a package-level variable to allow mocking in tests.
var clipboardWriteAll = clipboard.WriteAll

// ConfigReloadedMsg carries a config the watcher reloaded from disk.
type ConfigReloadedMsg struct {
	Config *config.Config
}

// opItem adapts console.Operation to list.Item
type opItem struct {
	op *console.Operation
}

func (i opItem) Title() string       { return i.op.Label() }
func (i opItem) Description() string { return Source(i.op) + "  " + Signature(i.op) }
func (i opItem) FilterValue() string { return i.op.Name() + " " + i.op.ID() + " " + i.op.Module() }

// ConsoleModel is the console overlay. While closed it shows the host view
// and watches for the open key or the pointer gesture. While open it lists
// the selectable operations, or the argument form of the pending one.
type ConsoleModel struct {
	ctx     context.Context
	console *console.Console

	width  int
	height int

	list    list.Model
	inputs  []textinput.Model
	focus   int
	version uint64

	recognizer *gesture.Recognizer
	gestureOn  bool
	openKey    string
	markdown   bool
	renderer   *glamour.TermRenderer

	// background renders the host view behind the console.
	background func() string

	status    string
	statusErr bool

	styles Styles
}

// NewConsoleModel creates the console view. background may be nil.
func NewConsoleModel(ctx context.Context, c *console.Console, cfg *config.Config, background func() string) ConsoleModel {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}

	styles := NewStyles(ThemeFor(cfg.UI.DarkMode))

	l := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	l.Title = "Developer Console"
	l.SetShowHelp(false)
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.Styles.Title = styles.Header

	m := ConsoleModel{
		ctx:        ctx,
		console:    c,
		list:       l,
		background: background,
		styles:     styles,
	}
	m.applyConfig(cfg)
	return m
}

func (m *ConsoleModel) applyConfig(cfg *config.Config) {
	m.openKey = cfg.Console.OpenKey
	m.gestureOn = cfg.Gesture.Enabled
	m.recognizer = gesture.New(cfg.Gesture.Recognizer(), nil)
	m.recognizer.Resize(m.width, m.height)
	m.markdown = cfg.UI.RenderMarkdown
	if m.styles.Theme.IsDark != cfg.UI.DarkMode {
		m.styles = NewStyles(ThemeFor(cfg.UI.DarkMode))
		m.list.Styles.Title = m.styles.Header
	}
	m.buildRenderer()
}

func (m *ConsoleModel) buildRenderer() {
	m.renderer = nil
	if !m.markdown {
		return
	}
	style := "light"
	if m.styles.Theme.IsDark {
		style = "dark"
	}
	wrap := 80
	if m.width > 0 {
		wrap = max(m.width-8, 20)
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStylePath(style),
		glamour.WithWordWrap(wrap),
	)
	if err != nil {
		logging.Get(logging.CategoryUI).Warn("Markdown renderer unavailable: %v", err)
		return
	}
	m.renderer = r
}

// Init initializes the model.
func (m ConsoleModel) Init() tea.Cmd {
	return nil
}

// Update handles messages.
func (m ConsoleModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil

	case ConfigReloadedMsg:
		m.applyConfig(msg.Config)
		m.console.SetModules(msg.Config.Console.Modules)
		logging.UI("Applied reloaded config (modules=%v)", msg.Config.Console.Modules)

	case tea.MouseMsg:
		m.handleMouse(msg)

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		switch {
		case !m.console.IsOpen():
			cmd = m.updateClosed(msg)
		case m.console.Controller().State() == console.StateCollecting:
			cmd = m.updateForm(msg)
		default:
			cmd = m.updateList(msg)
		}

	default:
		if m.console.IsOpen() && len(m.inputs) == 0 {
			m.list, cmd = m.list.Update(msg)
		}
	}

	m.syncItems(false)
	return m, cmd
}

func (m *ConsoleModel) handleMouse(msg tea.MouseMsg) {
	if !m.gestureOn || m.console.IsOpen() {
		return
	}
	x, y := float64(msg.X), float64(msg.Y)

	var done bool
	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button == tea.MouseButtonLeft {
			done = m.recognizer.Press(x, y)
		}
	case tea.MouseActionMotion:
		done = m.recognizer.Move(x, y)
	case tea.MouseActionRelease:
		m.recognizer.Release()
	}
	if done {
		m.open()
	}
}

func (m *ConsoleModel) updateClosed(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case m.openKey, "f1":
		m.open()
	case "q":
		return tea.Quit
	}
	return nil
}

func (m *ConsoleModel) open() {
	m.console.Open()
	m.syncItems(true)
	m.clearStatus()
}

func (m *ConsoleModel) close() {
	m.console.Controller().Cancel()
	m.inputs = nil
	m.console.Close()
}

func (m *ConsoleModel) updateList(msg tea.KeyMsg) tea.Cmd {
	if m.list.FilterState() != list.Filtering {
		switch msg.String() {
		case m.openKey, "f1", "esc":
			if m.list.FilterState() == list.FilterApplied && msg.String() == "esc" {
				break
			}
			m.close()
			return nil
		case "enter":
			if item, ok := m.list.SelectedItem().(opItem); ok {
				m.selectOperation(item.op)
			}
			return nil
		case "r":
			m.console.Refresh()
			return m.list.NewStatusMessage(m.styles.Success.Render("Refreshed"))
		case "y":
			return m.copyLastResult()
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return cmd
}

func (m *ConsoleModel) updateForm(msg tea.KeyMsg) tea.Cmd {
	ctrl := m.console.Controller()
	params := ctrl.Pending().Operation.Params()
	if len(m.inputs) != len(params) {
		m.buildInputs(ctrl.Pending())
	}

	switch msg.String() {
	case "esc":
		ctrl.Cancel()
		m.inputs = nil
		m.setStatus("Cancelled", false)
		return nil
	case "tab", "down":
		m.setFocus(m.focus + 1)
		return nil
	case "shift+tab", "up":
		m.setFocus(m.focus - 1)
		return nil
	case "enter":
		m.report(ctrl.Confirm(m.ctx))
		m.inputs = nil
		m.syncItems(true)
		return nil
	}

	if params[m.focus].Kind == console.KindBool {
		if msg.String() == " " || msg.String() == "space" {
			if err := ctrl.Toggle(m.focus); err != nil {
				m.setStatus(err.Error(), true)
			}
		}
		return nil
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	display, err := ctrl.EditField(m.focus, m.inputs[m.focus].Value())
	if err != nil {
		m.setStatus(err.Error(), true)
		return cmd
	}
	if display != m.inputs[m.focus].Value() {
		m.inputs[m.focus].SetValue(display)
	}
	return cmd
}

func (m *ConsoleModel) selectOperation(op *console.Operation) {
	err := m.console.Select(m.ctx, op)
	pending := m.console.Controller().Pending()
	if pending == nil {
		m.report(err)
		m.syncItems(true)
		return
	}

	m.buildInputs(pending)
	m.clearStatus()
}

// buildInputs creates one text field per parameter, seeded from the form.
func (m *ConsoleModel) buildInputs(pending *console.Pending) {
	inputs := pending.Inputs()
	m.inputs = make([]textinput.Model, len(inputs))
	for i, p := range pending.Operation.Params() {
		ti := textinput.New()
		ti.Prompt = ""
		ti.Placeholder = p.Kind.String()
		ti.CharLimit = 256
		ti.Width = max(m.width-24, 10)
		ti.SetValue(inputs[i])
		m.inputs[i] = ti
	}
	m.setFocus(0)
}

func (m *ConsoleModel) setFocus(i int) {
	n := len(m.inputs)
	if n == 0 {
		return
	}
	m.focus = ((i % n) + n) % n
	for j := range m.inputs {
		if j == m.focus {
			m.inputs[j].Focus()
		} else {
			m.inputs[j].Blur()
		}
	}
}

// report shows the outcome of the last invocation. Failures raised by an
// operation are logged and shown; the console keeps running.
func (m *ConsoleModel) report(err error) {
	res := m.console.Controller().LastResult()
	switch {
	case err != nil:
		logging.Get(logging.CategoryUI).Error("Invocation failed: %v", err)
		m.setStatus(err.Error(), true)
	case res == nil:
		m.clearStatus()
	case len(res.Outputs) == 0:
		m.setStatus(fmt.Sprintf("%s done", res.Operation.Name()), false)
	default:
		m.setStatus(fmt.Sprintf("%s → %s", res.Operation.Name(), formatOutputs(res.Outputs)), false)
	}
}

func formatOutputs(out []any) string {
	parts := make([]string, len(out))
	for i, v := range out {
		parts[i] = fmt.Sprint(v)
	}
	return strings.Join(parts, ", ")
}

func (m *ConsoleModel) copyLastResult() tea.Cmd {
	res := m.console.Controller().LastResult()
	if res == nil || len(res.Outputs) == 0 {
		return nil
	}
	if err := clipboardWriteAll(formatOutputs(res.Outputs)); err != nil {
		return m.list.NewStatusMessage(m.styles.Error.Render("Failed to copy result"))
	}
	return m.list.NewStatusMessage(m.styles.Success.Render("Copied result to clipboard"))
}

func (m *ConsoleModel) setStatus(s string, isErr bool) {
	m.status, m.statusErr = s, isErr
}

func (m *ConsoleModel) clearStatus() {
	m.setStatus("", false)
}

// syncItems rebuilds the list when the console's operation sets changed, or
// always when force is set. Resolvability can change without a version bump,
// so invocations force a rebuild.
func (m *ConsoleModel) syncItems(force bool) {
	if !force && m.version == m.console.Version() {
		return
	}
	m.version = m.console.Version()

	ops := m.console.Selectable()
	items := make([]list.Item, len(ops))
	for i, op := range ops {
		items[i] = opItem{op: op}
	}
	m.list.SetItems(items)
	logging.UIDebug("List rebuilt with %d operations", len(items))
}

// SetSize updates the dimensions.
func (m *ConsoleModel) SetSize(w, h int) {
	m.width, m.height = w, h
	m.list.SetSize(max(w-4, 0), max(h-6, 0))
	m.recognizer.Resize(w, h)
	m.buildRenderer()
	for i := range m.inputs {
		m.inputs[i].Width = max(w-24, 10)
	}
}

// View renders the model.
func (m ConsoleModel) View() string {
	if !m.console.IsOpen() {
		var sb strings.Builder
		if m.background != nil {
			sb.WriteString(m.background())
			sb.WriteString("\n\n")
		}
		hint := fmt.Sprintf("Press %s or F1 to open the console", m.openKey)
		if m.gestureOn {
			hint += ", or draw circles with the mouse"
		}
		sb.WriteString(m.styles.Muted.Render(hint + ". q quits."))
		return sb.String()
	}

	var body string
	if m.console.Controller().State() == console.StateCollecting && len(m.inputs) == m.console.Controller().Pending().Operation.Arity() {
		body = m.formView()
	} else {
		body = m.list.View()
	}

	return lipgloss.JoinVertical(lipgloss.Left, body, m.footerView())
}

func (m ConsoleModel) formView() string {
	pending := m.console.Controller().Pending()
	op := pending.Operation
	values := pending.Values()

	var sb strings.Builder
	sb.WriteString(m.styles.Header.Render(op.Label()))
	sb.WriteString("\n")
	if desc := m.renderDescription(op.Description()); desc != "" {
		sb.WriteString(desc)
		sb.WriteString("\n")
	}
	sb.WriteString(m.styles.RenderDivider(max(m.width-4, 10)))
	sb.WriteString("\n")

	for i, p := range op.Params() {
		style := m.styles.Field
		if i == m.focus {
			style = m.styles.FocusedField
		}

		var field string
		if p.Kind == console.KindBool {
			on, _ := values[i].(bool)
			if on {
				field = m.styles.ToggleOn.Render("[x] " + console.FormatBool(true))
			} else {
				field = m.styles.ToggleOff.Render("[ ] " + console.FormatBool(false))
			}
		} else {
			field = m.inputs[i].View()
		}
		sb.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, m.styles.Label.Render(p.Name), style.Render(field)))
		sb.WriteString("\n")
	}
	return m.styles.Panel.Render(sb.String())
}

// renderDescription renders markdown descriptions with glamour, falling back
// to plain text.
func (m ConsoleModel) renderDescription(desc string) string {
	if desc == "" {
		return ""
	}
	if m.renderer == nil {
		return m.styles.Muted.Render(desc)
	}
	out, err := m.renderer.Render(desc)
	if err != nil {
		return m.styles.Muted.Render(desc)
	}
	return strings.TrimSpace(out)
}

func (m ConsoleModel) footerView() string {
	var keys string
	if m.console.Controller().State() == console.StateCollecting {
		keys = "tab next • space toggle • enter invoke • esc cancel"
	} else {
		keys = "enter select • / filter • r refresh • y copy result • esc close"
	}

	footer := m.styles.Footer.Render(keys)
	if m.status != "" {
		style := m.styles.Success
		if m.statusErr {
			style = m.styles.Error
		}
		footer = lipgloss.JoinVertical(lipgloss.Left, style.Render(m.status), footer)
	}
	return footer
}
