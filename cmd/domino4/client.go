package main

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/damproductions/domino4/cmd/domino4/shared"
	"github.com/damproductions/domino4/internal/tui"
)

// ClientCmd connects to a server as an interactive player
type ClientCmd struct {
	URL         string `kong:"default='ws://localhost:3000/ws',help='Server WebSocket URL'"`
	Name        string `kong:"required,help='Display name'"`
	Room        string `kong:"help='Room ID to join (optional, empty auto-matches)'"`
	TargetScore int    `kong:"name='target-score',help='Target score when opening a new room'"`
	Debug       bool   `kong:"help='Enable debug logging'"`
}

func (c *ClientCmd) Run() error {
	logger := shared.SetupLogger(c.Debug)

	client, err := tui.Dial(c.URL, logger)
	if err != nil {
		return err
	}
	defer func() { _ = client.Close() }()

	if err := client.Join(c.Name, c.Room, c.TargetScore); err != nil {
		return fmt.Errorf("failed to join: %w", err)
	}

	model := tui.NewModel(client, logger)
	program := tea.NewProgram(model, tea.WithAltScreen())

	go client.ReadLoop(program.Send)

	_, err = program.Run()
	return err
}
