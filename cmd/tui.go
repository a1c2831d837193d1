package cmd

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/netprtony/KoyaOracle-sub001/internal/data"
	"github.com/netprtony/KoyaOracle-sub001/internal/engine"
	"github.com/netprtony/KoyaOracle-sub001/internal/parser"
	"github.com/netprtony/KoyaOracle-sub001/internal/session"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1).
			MarginBottom(1)

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#999999"))

	stateBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#874BFD")).
			Padding(1, 2)

	logBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#04B575")).
			Padding(0, 1)

	autocompleteStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("#F25D94"))

	deadStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666")).
			Strikethrough(true)

	teamStyles = map[data.Team]lipgloss.Style{
		data.TeamVillager: lipgloss.NewStyle().Foreground(lipgloss.Color("#04B575")),
		data.TeamWerewolf: lipgloss.NewStyle().Foreground(lipgloss.Color("#F25D94")),
		data.TeamVampire:  lipgloss.NewStyle().Foreground(lipgloss.Color("#B388FF")),
		data.TeamNeutral:  lipgloss.NewStyle().Foreground(lipgloss.Color("#FFD966")),
	}
)

type suggestion string

func (s suggestion) Title() string       { return string(s) }
func (s suggestion) Description() string { return "" }
func (s suggestion) FilterValue() string { return string(s) }

type replModel struct {
	app         *session.Session
	textInput   textinput.Model
	viewport    viewport.Model
	suggestions list.Model
	history     []string
	historyIdx  int
	logContent  string
	width       int
	height      int
	gameID      string
	showList    bool
}

const welcome = "koyaoracle moderator shell.\nType 'help' for commands, 'exit' to quit."

func newREPLModel(app *session.Session, gameID string) replModel {
	ti := textinput.New()
	ti.Placeholder = "Enter command (e.g., act by: p1 kill to: p3)..."
	ti.Focus()
	ti.CharLimit = 256
	ti.Width = 60

	vp := viewport.New(0, 0)
	vp.SetContent(welcome)

	// Configure a minimalist list for autocomplete
	delegate := list.NewDefaultDelegate()
	delegate.ShowDescription = false
	delegate.SetHeight(1)
	delegate.SetSpacing(0)
	sugList := list.New([]list.Item{}, delegate, 50, 7) // Show up to 7 items
	sugList.SetShowTitle(false)
	sugList.SetShowStatusBar(false)
	sugList.SetFilteringEnabled(false) // We filter manually
	sugList.SetShowHelp(false)

	return replModel{
		app:         app,
		textInput:   ti,
		viewport:    vp,
		suggestions: sugList,
		history:     []string{},
		historyIdx:  -1,
		logContent:  welcome,
		gameID:      gameID,
	}
}

func (m *replModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m *replModel) updateSuggestions() {
	val := m.textInput.Value()
	var items []list.Item

	defer func() {
		m.suggestions.SetItems(items)
		m.showList = len(items) > 0
		if m.showList {
			h := len(items)
			if h > 10 {
				h = 10
			}
			listHeight := h
			if listHeight > 0 && listHeight < 4 {
				listHeight = 4
			}
			m.suggestions.SetHeight(listHeight)
			m.suggestions.ResetSelected()
		}
	}()

	if val == "" {
		return
	}

	baseCmds := []string{"exit", "quit"}
	for name, usage := range parser.Usage {
		if strings.Contains(usage, " ") {
			baseCmds = append(baseCmds, name+" ")
		} else {
			baseCmds = append(baseCmds, name)
		}
	}
	sort.Strings(baseCmds)

	for _, c := range baseCmds {
		if strings.HasPrefix(strings.ToLower(c), strings.ToLower(val)) && len(val) < len(c) {
			items = append(items, suggestion(c))
		}
	}

	// player completion after "by: ", "to: " or "and: "
	lower := strings.ToLower(val)
	for _, marker := range []string{" and: ", " to: ", " by: "} {
		idx := strings.LastIndex(lower, marker)
		if idx < 0 {
			continue
		}
		prefix := val[idx+len(marker):]
		if strings.Contains(prefix, " ") {
			break
		}
		base := val[:len(val)-len(prefix)]
		for _, id := range m.playerIDs() {
			if strings.HasPrefix(strings.ToLower(id), strings.ToLower(prefix)) && id != prefix {
				items = append(items, suggestion(base+id+" "))
			}
		}
		break
	}

	// action kind completion after "act by: X " or "can by: X "
	fields := strings.Fields(lower)
	if len(fields) >= 3 && (fields[0] == "act" || fields[0] == "can") && fields[1] == "by:" {
		if len(fields) == 4 && !strings.HasSuffix(val, " ") {
			base := val[:len(val)-len(fields[3])]
			for _, k := range m.actionKinds(fields[2]) {
				if strings.HasPrefix(k, fields[3]) && k != fields[3] {
					items = append(items, suggestion(base+k+" "))
				}
			}
		}
	}
}

func (m *replModel) playerIDs() []string {
	g := m.app.State().Game
	if g == nil {
		return nil
	}
	var ids []string
	for _, p := range g.Players() {
		ids = append(ids, p.ID)
	}
	return ids
}

// actionKinds lists the kinds the named player's role may submit.
func (m *replModel) actionKinds(playerID string) []string {
	g := m.app.State().Game
	if g == nil {
		return nil
	}
	for _, p := range g.Players() {
		if !strings.EqualFold(p.ID, playerID) {
			continue
		}
		role, ok := m.app.Catalogue().Role(p.RoleID)
		if !ok || role.NightAction == nil {
			return nil
		}
		kinds := []string{string(role.NightAction.Kind)}
		for _, sub := range role.NightAction.SubKinds {
			kinds = append(kinds, string(sub))
		}
		return kinds
	}
	return nil
}

func (m *replModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var (
		tiCmd tea.Cmd
		vpCmd tea.Cmd
		lsCmd tea.Cmd
	)

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit

		case tea.KeyUp:
			if m.showList {
				m.suggestions, lsCmd = m.suggestions.Update(msg)
			} else {
				if len(m.history) > 0 {
					if m.historyIdx == -1 {
						m.historyIdx = len(m.history) - 1
					} else if m.historyIdx > 0 {
						m.historyIdx--
					}
					m.textInput.SetValue(m.history[m.historyIdx])
					m.updateSuggestions()
				}
			}

		case tea.KeyDown:
			if m.showList {
				m.suggestions, lsCmd = m.suggestions.Update(msg)
			} else {
				if len(m.history) > 0 && m.historyIdx != -1 {
					if m.historyIdx < len(m.history)-1 {
						m.historyIdx++
						m.textInput.SetValue(m.history[m.historyIdx])
					} else {
						m.historyIdx = -1
						m.textInput.SetValue("")
					}
					m.updateSuggestions()
				}
			}

		case tea.KeyTab:
			if m.showList {
				if i, ok := m.suggestions.SelectedItem().(suggestion); ok {
					m.textInput.SetValue(string(i))
					m.textInput.SetCursor(len(string(i)))
					m.updateSuggestions()
				}
			}

		case tea.KeyEnter:
			val := strings.TrimSpace(m.textInput.Value())
			if val == "exit" || val == "quit" {
				return m, tea.Quit
			}

			if val != "" {
				// Prevent duplicate history entries
				if len(m.history) == 0 || m.history[len(m.history)-1] != val {
					m.history = append(m.history, val)
				}
				m.historyIdx = -1
				m.textInput.SetValue("")
				m.updateSuggestions()

				m.logContent += fmt.Sprintf("\n\n> %s\n", val)
				evt, err := m.app.Execute(val)
				if err != nil {
					m.logContent += fmt.Sprintf("Error: %v", err)
				} else if msg := evt.Message(); msg != "" {
					m.logContent += msg + "\n"
				}

				m.viewport.SetContent(m.logContent)
				m.viewport.GotoBottom()
			}
		default:
			// Normal typing
			m.textInput, tiCmd = m.textInput.Update(msg)
			m.updateSuggestions()
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.viewport.Width = msg.Width - 4
		m.viewport.Height = msg.Height - 30 // Initial conservative estimate
		if m.viewport.Height < 5 {
			m.viewport.Height = 5
		}
		m.suggestions.SetWidth(msg.Width - 6)
	}

	m.viewport, vpCmd = m.viewport.Update(msg)

	// Calculate accurate heights for dynamic components
	titleH := lipgloss.Height(titleStyle.Render("Dummy"))
	stateH := lipgloss.Height(m.renderState())
	inputH := 1

	listAreaHeight := 0
	if m.showList {
		listAreaHeight = m.suggestions.Height() + 2 // +2 for autocompleteStyle borders
	}

	infoH := lipgloss.Height(infoStyle.Render("Dummy"))
	paddingH := 7

	// Total fixed overhead: title + state + input + listArea + info + padding + spacing
	overhead := titleH + stateH + inputH + listAreaHeight + infoH + paddingH + 4

	m.viewport.Height = m.height - overhead
	if m.viewport.Height < 4 {
		m.viewport.Height = 4
	}

	return m, tea.Batch(tiCmd, vpCmd, lsCmd)
}

func (m *replModel) renderState() string {
	g := m.app.State().Game
	if g == nil {
		return stateBoxStyle.Width(m.width - 4).Render("No game.")
	}

	var sb strings.Builder
	switch g.Phase() {
	case engine.PhaseNight:
		state := "open"
		if g.Resolved() {
			state = "resolved"
		}
		sb.WriteString(fmt.Sprintf("Night %d (%s), %d queued", g.Night(), state, len(g.PendingActions())))
	case engine.PhaseDay:
		sb.WriteString(fmt.Sprintf("Day %d", g.Day()))
	case engine.PhaseOver:
		sb.WriteString(fmt.Sprintf("Game over: %s", g.Winner()))
	default:
		sb.WriteString("Setup")
	}
	sb.WriteString("\n")

	for _, p := range g.Players() {
		line := fmt.Sprintf(" - %-10s %-14s %s", p.ID, p.RoleID, p.Status)
		switch {
		case !p.Alive():
			line = deadStyle.Render(line)
		default:
			if style, ok := teamStyles[p.Team]; ok {
				line = style.Render(line)
			}
		}
		sb.WriteString("\n" + line)
	}

	return stateBoxStyle.Width(m.width - 4).Render(sb.String())
}

func (m *replModel) View() string {
	if m.width == 0 {
		return "Initializing..."
	}

	title := titleStyle.Render(fmt.Sprintf(" koyaoracle | %s ", m.gameID))
	stateBox := m.renderState()
	logBox := logBoxStyle.Width(m.width - 4).Render(m.viewport.View())

	var inputArea string
	if m.showList {
		inputArea = fmt.Sprintf("%s\n%s", m.textInput.View(), autocompleteStyle.Render(m.suggestions.View()))
	} else {
		inputArea = m.textInput.View()
	}

	mainView := lipgloss.JoinVertical(lipgloss.Left,
		title,
		stateBox,
		logBox,
		"\n",
		inputArea,
		infoStyle.Render("(esc to quit, tab to complete, up/down history)"),
	)

	return mainView + strings.Repeat("\n", 7)
}

// RunTUI runs the moderator shell until the user quits.
func RunTUI(app *session.Session, gameID string) error {
	m := newREPLModel(app, gameID)
	p := tea.NewProgram(&m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}
