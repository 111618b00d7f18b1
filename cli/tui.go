package cli

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/fahmaliyi/passvault/vault"
)

// TUIOptions configures RunTUI. Copy defaults to the system clipboard.
type TUIOptions struct {
	ClipboardTimeout time.Duration
	Copy             func(string) error
}

type tickMsg time.Time

type clearClipboardMsg struct{ gen int }

type menuItem struct {
	label string
	page  vault.Page
}

var homeMenu = []menuItem{
	{"Store new data", vault.PageStore},
	{"Retrieve data", vault.PageRetrieve},
	{"Login", vault.PageLogin},
}

type model struct {
	session *vault.Session
	page    vault.Page
	cursor  int
	inputs  []textinput.Model

	result    string
	copyValue string
	copyWhat  string
	msg       string
	err       string

	copy        func(string) error
	clipTimeout time.Duration
	clipGen     int
}

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Underline(true)
	msgStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	errStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	resultStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	statusStyle   = lipgloss.NewStyle().Faint(true)
	selectedStyle = lipgloss.NewStyle().Background(lipgloss.Color("57")).Foreground(lipgloss.Color("0"))
)

// RunTUI starts the interactive TUI and blocks until the user quits.
func RunTUI(s *vault.Session, opts TUIOptions) error {
	p := tea.NewProgram(newModel(s, opts))
	_, err := p.Run()
	return err
}

func newModel(s *vault.Session, opts TUIOptions) model {
	if opts.Copy == nil {
		opts.Copy = clipboard.WriteAll
	}
	m := model{
		session:     s,
		copy:        opts.Copy,
		clipTimeout: opts.ClipboardTimeout,
	}
	return m.enter(s.ActivePage())
}

// --- Tea Model interface ---
func (m model) Init() tea.Cmd {
	if m.page == vault.PageLogin && !m.session.LoginOffered() {
		return tick()
	}
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case clearClipboardMsg:
		if msg.gen == m.clipGen {
			_ = m.copy("")
			m.msg = "Clipboard cleared"
		}
		return m, nil
	case tickMsg:
		// sync already schedules a tick when it switches into a cooling Login page.
		m, cmd := m.sync()
		if cmd == nil && m.page == vault.PageLogin && !m.session.LoginOffered() {
			return m, tick()
		}
		return m, cmd
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	switch m.page {
	case vault.PageHome:
		m, cmd = updateHome(m, msg)
	case vault.PageStore:
		m, cmd = updateStore(m, msg)
	case vault.PageRetrieve:
		m, cmd = updateRetrieve(m, msg)
	case vault.PageLogin:
		m, cmd = updateLogin(m, msg)
	}

	m, sync := m.sync()
	if sync == nil {
		return m, cmd
	}
	return m, tea.Batch(cmd, sync)
}

func (m model) View() string {
	var s string
	switch m.page {
	case vault.PageHome:
		s = viewHome(m)
	case vault.PageStore:
		s = viewStore(m)
	case vault.PageRetrieve:
		s = viewRetrieve(m)
	case vault.PageLogin:
		s = viewLogin(m)
	default:
		return "Unknown page"
	}
	if m.err != "" {
		s += "\n" + errStyle.Render(m.err)
	}
	if m.msg != "" {
		s += "\n" + msgStyle.Render(m.msg)
	}
	return s + "\n" + statusStyle.Render(m.status())
}

func (m model) status() string {
	return fmt.Sprintf("page=%s  attempts remaining=%d  records=%d",
		m.session.ActivePage(), m.session.AttemptsRemaining(), m.session.RecordCount())
}

// sync follows the session's active page, which may have been forced to
// Login by the attempt guard.
func (m model) sync() (model, tea.Cmd) {
	p := m.session.ActivePage()
	if p == m.page {
		return m, nil
	}
	m = m.enter(p)
	if p == vault.PageLogin && !m.session.LoginOffered() {
		return m, tick()
	}
	return m, nil
}

func (m model) enter(p vault.Page) model {
	m.page = p
	m.result = ""
	m.copyValue = ""
	m.inputs = nil

	switch p {
	case vault.PageStore:
		m.inputs = []textinput.Model{
			newInput("Data", false),
			newInput("Passkey", true),
			newInput("Confirm passkey", true),
		}
	case vault.PageRetrieve:
		m.inputs = []textinput.Model{
			newInput("Record ID", false),
			newInput("Passkey", true),
		}
	case vault.PageLogin:
		m.inputs = []textinput.Model{newInput("Master password", true)}
	}
	if len(m.inputs) > 0 {
		m.inputs[0].Focus()
	}
	return m
}

func (m model) navigate(p vault.Page) model {
	m.err, m.msg = "", ""
	if err := m.session.Navigate(p); err != nil {
		m.err = err.Error()
	}
	return m
}

func tick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func newInput(placeholder string, secret bool) textinput.Model {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.Prompt = ""
	if secret {
		ti.EchoMode = textinput.EchoPassword
		ti.EchoCharacter = '•'
	}
	return ti
}

// --- Home ---
func updateHome(m model, msg tea.Msg) (model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q":
			return m, tea.Quit
		case "j", "down":
			if m.cursor < len(homeMenu)-1 {
				m.cursor++
			}
		case "k", "up":
			if m.cursor > 0 {
				m.cursor--
			}
		case "1", "2", "3":
			m.cursor = int(msg.Runes[0] - '1')
			m = m.navigate(homeMenu[m.cursor].page)
		case "enter":
			m = m.navigate(homeMenu[m.cursor].page)
		}
	}
	return m, nil
}

func viewHome(m model) string {
	s := titleStyle.Render("Secure Data Vault") + "\n\n"
	s += "Store text under a passkey and retrieve it later.\n\n"
	for i, item := range homeMenu {
		line := fmt.Sprintf("%d) %s", i+1, item.label)
		if i == m.cursor {
			line = selectedStyle.Render(line)
		}
		s += line + "\n"
	}
	s += "\nCommands: j/k=move, enter=open, q=quit"
	return s
}

// --- Store ---
func updateStore(m model, msg tea.Msg) (model, tea.Cmd) {
	m, cmd, key := m.updateInputs(msg)
	switch key {
	case "esc":
		m = m.navigate(vault.PageHome)
	case "ctrl+y":
		if m.copyValue != "" {
			return m.copyToClipboard()
		}
	case "enter":
		if !m.lastFocused() {
			m.focusNext(false)
			break
		}
		m = saveStore(m)
	}
	return m, cmd
}

func saveStore(m model) model {
	m.err, m.msg = "", ""
	id, err := m.session.StoreText(m.inputs[0].Value(), m.inputs[1].Value(), m.inputs[2].Value())
	if err != nil {
		m.err = describe(m.session, err)
		return m
	}
	m.result = id
	m.copyValue, m.copyWhat = id, "ID"
	m.msg = "Data stored securely. Keep the ID and passkey to retrieve it."
	m.clearInputs()
	return m
}

func viewStore(m model) string {
	s := titleStyle.Render("Store Data") + "\n\n"
	s += viewInputs(m.inputs)
	if m.result != "" {
		s += "\n" + resultStyle.Render("ID: "+m.result) + "\n"
	}
	s += "\nPress Enter to save, ctrl+y to copy ID, Esc to return"
	return s
}

// --- Retrieve ---
func updateRetrieve(m model, msg tea.Msg) (model, tea.Cmd) {
	m, cmd, key := m.updateInputs(msg)
	switch key {
	case "esc":
		m = m.navigate(vault.PageHome)
	case "ctrl+y":
		if m.copyValue != "" {
			return m.copyToClipboard()
		}
	case "enter":
		if !m.lastFocused() {
			m.focusNext(false)
			break
		}
		m = submitRetrieve(m)
	}
	return m, cmd
}

func submitRetrieve(m model) model {
	m.err, m.msg = "", ""
	m.result, m.copyValue = "", ""
	pt, err := m.session.Retrieve(m.inputs[0].Value(), m.inputs[1].Value())
	m.inputs[1].SetValue("")
	if err != nil {
		m.err = describe(m.session, err)
		return m
	}
	m.result = pt
	m.copyValue, m.copyWhat = pt, "Data"
	m.msg = "Decrypted successfully."
	return m
}

func viewRetrieve(m model) string {
	s := titleStyle.Render("Retrieve Data") + "\n\n"
	s += viewInputs(m.inputs)
	if m.result != "" {
		s += "\n" + resultStyle.Render(m.result) + "\n"
	}
	s += "\nPress Enter to decrypt, ctrl+y to copy, Esc to return"
	return s
}

// --- Login ---
func updateLogin(m model, msg tea.Msg) (model, tea.Cmd) {
	if !m.session.LoginOffered() {
		if k, ok := msg.(tea.KeyMsg); ok && k.String() == "esc" {
			m = m.navigate(vault.PageHome)
		}
		return m, nil
	}

	m, cmd, key := m.updateInputs(msg)
	switch key {
	case "esc":
		m = m.navigate(vault.PageHome)
	case "enter":
		m.err, m.msg = "", ""
		err := m.session.Reauthorize(m.inputs[0].Value())
		m.inputs[0].SetValue("")
		if err != nil {
			m.err = describe(m.session, err)
			break
		}
		m.msg = "Reauthorized successfully."
	}
	return m, cmd
}

func viewLogin(m model) string {
	s := titleStyle.Render("Reauthorization Required") + "\n\n"
	if !m.session.LoginOffered() {
		s += fmt.Sprintf("Too many failed attempts. Try again in %d seconds.\n", m.session.CooldownSeconds())
		return s
	}
	s += viewInputs(m.inputs)
	s += "\nPress Enter to log in"
	if !m.session.Locked() {
		s += ", Esc to return"
	}
	return s
}

// --- inputs ---

// updateInputs forwards msg to the focused input, moves focus on tab, and
// returns the key string so callers can act on enter/esc.
func (m model) updateInputs(msg tea.Msg) (model, tea.Cmd, string) {
	var cmd tea.Cmd
	for i := range m.inputs {
		if m.inputs[i].Focused() {
			m.inputs[i], cmd = m.inputs[i].Update(msg)
			break
		}
	}

	k, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, cmd, ""
	}
	switch k.String() {
	case "tab", "down":
		m.focusNext(false)
	case "shift+tab", "up":
		m.focusNext(true)
	}
	return m, cmd, k.String()
}

// Focus next or previous input
func (m *model) focusNext(backward bool) {
	n := len(m.inputs)
	for i := 0; i < n; i++ {
		if m.inputs[i].Focused() {
			m.inputs[i].Blur()
			if backward {
				m.inputs[(i-1+n)%n].Focus()
			} else {
				m.inputs[(i+1)%n].Focus()
			}
			break
		}
	}
}

func (m model) lastFocused() bool {
	return len(m.inputs) > 0 && m.inputs[len(m.inputs)-1].Focused()
}

func (m *model) clearInputs() {
	for i := range m.inputs {
		m.inputs[i].SetValue("")
		m.inputs[i].Blur()
	}
	if len(m.inputs) > 0 {
		m.inputs[0].Focus()
	}
}

func viewInputs(inputs []textinput.Model) string {
	var b strings.Builder
	for i, ti := range inputs {
		fmt.Fprintf(&b, "%s: %s\n", ti.Placeholder, ti.View())
		if i < len(inputs)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

func (m model) copyToClipboard() (model, tea.Cmd) {
	if err := m.copy(m.copyValue); err != nil {
		m.err = "Clipboard unavailable: " + err.Error()
		return m, nil
	}
	m.clipGen++
	if m.clipTimeout <= 0 {
		m.msg = m.copyWhat + " copied!"
		return m, nil
	}
	m.msg = fmt.Sprintf("%s copied! (clears in %s)", m.copyWhat, m.clipTimeout)
	gen := m.clipGen
	return m, tea.Tick(m.clipTimeout, func(time.Time) tea.Msg { return clearClipboardMsg{gen: gen} })
}

// describe turns a session error into the message shown to the user.
func describe(s *vault.Session, err error) string {
	var cd *vault.CooldownError
	switch {
	case errors.As(err, &cd):
		return fmt.Sprintf("Too many failed attempts. Try again in %d seconds.", int(cd.Remaining.Seconds()))
	case errors.Is(err, vault.ErrAuthFailed):
		if s.Locked() {
			return "Too many failed attempts. Reauthorization required."
		}
		return fmt.Sprintf("Incorrect passkey! Attempts remaining: %d", s.AttemptsRemaining())
	case errors.Is(err, vault.ErrLocked):
		return "Session locked. Reauthorization required."
	case errors.Is(err, vault.ErrNotFound):
		return "No data found for that ID."
	case errors.Is(err, vault.ErrReauthFailed):
		return "Incorrect master password!"
	case errors.Is(err, vault.ErrValidation):
		return "Validation error: " + strings.TrimPrefix(err.Error(), vault.ErrValidation.Error()+": ")
	}
	return "Error: " + err.Error()
}
