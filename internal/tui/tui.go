package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/damproductions/domino4/internal/game"
	"github.com/damproductions/domino4/internal/server"
	"github.com/damproductions/domino4/internal/tiles"
)

// Model is the Bubble Tea model for the interactive domino client.
type Model struct {
	client *Client
	logger *log.Logger

	// UI components
	logViewport viewport.Model
	actionInput textinput.Model

	// State from the server
	snapshot *game.Snapshot
	hand     []tiles.Tile
	seat     game.SeatID
	roomID   string

	gameLog     []string
	quitting    bool
	focusedPane int // 0 = log, 1 = input

	// Dimensions
	width       int
	height      int
	initialized bool
}

// NewModel creates the client model. The client must already be
// connected; the model does not dial.
func NewModel(client *Client, logger *log.Logger) *Model {
	vp := viewport.New(10, 5)
	vp.SetContent("")

	ti := textinput.New()
	ti.Placeholder = "play 6|6 left | pass | ready | restart | chat hola"
	ti.Focus()
	ti.CharLimit = 120
	ti.Width = 100
	ti.PromptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#04B575")).Bold(true)
	ti.TextStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FAFAFA"))
	ti.Prompt = "> "

	return &Model{
		client:      client,
		logger:      logger.WithPrefix("tui"),
		logViewport: vp,
		actionInput: ti,
		gameLog:     []string{},
		focusedPane: 1,
	}
}

// Init initializes the model
func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case StateMsg:
		m.snapshot = msg.Snapshot
		if m.roomID == "" {
			m.roomID = msg.Snapshot.RoomID
		}

	case HandMsg:
		m.hand = msg.Hand

	case AssignedMsg:
		m.seat = msg.Seat
		m.roomID = msg.RoomID
		m.appendLog(SuccessStyle.Render(fmt.Sprintf("Joined %s as %s", msg.RoomID, msg.Seat)))

	case MoveOkMsg:
		m.appendLog(SuccessStyle.Render("Played " + msg.Tile.String()))

	case NoticeMsg:
		m.appendLog(GameLogStyle.Render(msg.Line))

	case ChatMsg:
		m.appendLog(InfoStyle.Render(msg.Sender+": ") + msg.Text)

	case ServerErrorMsg:
		m.appendLog(ErrorStyle.Render(msg.Message) + InfoStyle.Render(" ("+msg.Code+")"))

	case DisconnectedMsg:
		m.appendLog(ErrorStyle.Render("Disconnected from server"))
		m.quitting = true
		return m, tea.Sequence(tea.ClearScreen, tea.Quit)

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			m.quitting = true
			_ = m.client.Close()
			return m, tea.Sequence(tea.ClearScreen, tea.Quit)
		case "tab":
			if m.focusedPane == 0 {
				m.focusedPane = 1
				m.actionInput.Focus()
			} else {
				m.focusedPane = 0
				m.actionInput.Blur()
			}
		case "enter":
			if m.focusedPane == 1 {
				m.processCommand(strings.TrimSpace(m.actionInput.Value()))
				m.actionInput.SetValue("")
			}
		case "up", "k":
			if m.focusedPane == 0 {
				m.logViewport.ScrollUp(1)
			}
		case "down", "j":
			if m.focusedPane == 0 {
				m.logViewport.ScrollDown(1)
			}
		case "pgup":
			if m.focusedPane == 0 {
				m.logViewport.HalfPageUp()
			}
		case "pgdown":
			if m.focusedPane == 0 {
				m.logViewport.HalfPageDown()
			}
		}
	}

	var cmd tea.Cmd
	if m.focusedPane == 1 {
		m.actionInput, cmd = m.actionInput.Update(msg)
		cmds = append(cmds, cmd)
	}
	m.logViewport, cmd = m.logViewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

// processCommand parses and sends one user command.
func (m *Model) processCommand(input string) {
	if input == "" {
		return
	}
	fields := strings.Fields(input)

	switch strings.ToLower(fields[0]) {
	case "play", "p":
		if len(fields) < 3 {
			m.appendLog(WarningStyle.Render("Usage: play <tile> <left|right>, e.g. play 6|6 left"))
			return
		}
		tile, err := tiles.ParseTile(fields[1])
		if err != nil {
			m.appendLog(WarningStyle.Render("Bad tile: " + fields[1]))
			return
		}
		side := strings.ToLower(fields[2])
		if side != "left" && side != "right" {
			m.appendLog(WarningStyle.Render("Side must be left or right"))
			return
		}
		m.send(server.MessageTypePlaceTile, server.PlaceTileData{Tile: tile, Position: side})

	case "pass":
		m.send(server.MessageTypePassTurn, struct{}{})

	case "ready", "r":
		m.send(server.MessageTypePlayerReady, struct{}{})

	case "restart":
		m.send(server.MessageTypeRestartGame, struct{}{})

	case "chat", "c":
		text := strings.TrimSpace(strings.TrimPrefix(input, fields[0]))
		if text == "" {
			return
		}
		m.send(server.MessageTypeChatMessage, server.ChatMessageData{Message: text})

	case "quit", "q":
		m.quitting = true
		_ = m.client.Close()

	default:
		m.appendLog(WarningStyle.Render("Unknown command: " + fields[0]))
	}
}

func (m *Model) send(messageType server.MessageType, payload interface{}) {
	if err := m.client.Send(messageType, payload); err != nil {
		m.appendLog(ErrorStyle.Render("Send failed: " + err.Error()))
	}
}

func (m *Model) appendLog(line string) {
	m.gameLog = append(m.gameLog, line)
	m.logViewport.GotoBottom()
}

// View renders the UI
func (m *Model) View() string {
	if m.quitting {
		return ""
	}
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	actionContent := m.renderActionPane()
	actionHeight := lipgloss.Height(actionContent)
	actionWidth := max(m.width-2, 1)

	actionStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#04B575")).
		Width(actionWidth).
		Height(max(actionHeight-2, 1))
	actionPane := actionStyle.Render(actionContent)

	sidebarContent := m.renderSidebarPane()
	sidebarWidth := max(lipgloss.Width(sidebarContent), 28)
	sidebarHeight := max(m.height-actionHeight-4, 1)

	sidebarStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#626262")).
		Width(sidebarWidth).
		Height(sidebarHeight)
	sidebarPane := sidebarStyle.Render(sidebarContent)

	m.logViewport.SetContent(strings.Join(m.gameLog, "\n"))
	logWidth := max(m.width-sidebarWidth-4, 1)
	logHeight := max(m.height-actionHeight-4, 1)
	m.logViewport.Width = logWidth
	m.logViewport.Height = logHeight

	if !m.initialized && logWidth > 1 && logHeight > 1 {
		m.logViewport.GotoTop()
		m.initialized = true
	}

	logStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#626262")).
		Width(logWidth).
		Height(logHeight)
	if m.focusedPane == 0 {
		logStyle = logStyle.BorderForeground(lipgloss.Color("#04B575"))
	}
	logPane := logStyle.Render(m.logViewport.View())

	topRow := lipgloss.JoinHorizontal(lipgloss.Top, logPane, sidebarPane)
	return lipgloss.JoinVertical(lipgloss.Top, topRow, actionPane)
}

// renderActionPane shows the hand and the input prompt.
func (m *Model) renderActionPane() string {
	var b strings.Builder

	if len(m.hand) > 0 {
		parts := make([]string, len(m.hand))
		for i, t := range m.hand {
			parts[i] = TileStyle.Render(t.String())
		}
		b.WriteString("Hand: " + strings.Join(parts, " "))
	} else {
		b.WriteString(InfoStyle.Render("No tiles yet"))
	}
	b.WriteString("\n")
	b.WriteString(m.actionInput.View())
	return b.String()
}

// renderSidebarPane shows room, players, scores and board state.
func (m *Model) renderSidebarPane() string {
	var b strings.Builder

	b.WriteString(HeaderStyle.Render(" Domino "))
	b.WriteString("\n\n")

	if m.roomID != "" {
		b.WriteString(InfoStyle.Render("Room: ") + m.roomID + "\n")
	}
	if m.seat != "" {
		b.WriteString(InfoStyle.Render("Seat: ") + string(m.seat) + "\n")
	}

	snap := m.snapshot
	if snap == nil {
		b.WriteString("\n" + InfoStyle.Render("Waiting for players..."))
		return b.String()
	}

	b.WriteString("\n")
	for _, info := range snap.Seats {
		marker := "  "
		if snap.RoundActive && info.Name == snap.CurrentTurn {
			marker = TurnStyle.Render("> ")
		}
		conn := ""
		if !info.Connected {
			conn = InfoStyle.Render(" (offline)")
		}
		name := info.DisplayName
		if name == "" {
			name = string(info.Name)
		}
		b.WriteString(fmt.Sprintf("%s%s [%d]%s\n", marker, name, info.TileCount, conn))
	}

	b.WriteString("\n")
	b.WriteString(WarningStyle.Render(fmt.Sprintf("A %d : %d B",
		snap.TeamScores[game.TeamA], snap.TeamScores[game.TeamB])))
	b.WriteString(InfoStyle.Render(fmt.Sprintf("  (to %d)", snap.TargetScore)))
	b.WriteString("\n")

	if snap.RoundActive && snap.LeftEnd != nil && snap.RightEnd != nil {
		b.WriteString(fmt.Sprintf("Ends: %d / %d\n", *snap.LeftEnd, *snap.RightEnd))
		b.WriteString(InfoStyle.Render(fmt.Sprintf("Board: %d tiles\n", len(snap.Board))))
	}

	if snap.EndRoundMessage != "" {
		b.WriteString("\n" + SuccessStyle.Render(snap.EndRoundMessage) + "\n")
	}
	if snap.EndMatchMessage != "" {
		b.WriteString(SuccessStyle.Render(snap.EndMatchMessage) + "\n")
	}
	if !snap.RoundActive && !snap.MatchOver && snap.EndRoundMessage != "" {
		b.WriteString(InfoStyle.Render(fmt.Sprintf("Ready: %d/4\n", len(snap.ReadyPlayers))))
	}

	return b.String()
}
