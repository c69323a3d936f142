package server

import (
	"fmt"
	"os"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/damproductions/domino4/internal/game"
)

// ServerConfig is the complete server configuration.
type ServerConfig struct {
	Server ServerSettings `hcl:"server,block"`
	Game   GameSettings   `hcl:"game,block"`
}

// ServerSettings contains server-level configuration.
type ServerSettings struct {
	Address        string `hcl:"address,optional"`
	Port           int    `hcl:"port,optional"`
	LogLevel       string `hcl:"log_level,optional"`
	SuggestionsDir string `hcl:"suggestions_dir,optional"`
}

// GameSettings contains room defaults.
type GameSettings struct {
	// DefaultTargetScore applies when the first joiner of a room does
	// not request a target.
	DefaultTargetScore int `hcl:"default_target_score,optional"`
	// TurnReminderSeconds enables the idle-turn nudge when positive.
	// The reminder only notifies; it never plays for the idle seat.
	TurnReminderSeconds int `hcl:"turn_reminder_seconds,optional"`
	// Seed fixes the shuffle RNG for reproducible deals. Zero means a
	// time-based seed.
	Seed int64 `hcl:"seed,optional"`
}

// DefaultServerConfig returns the default configuration.
func DefaultServerConfig() *ServerConfig {
	return &ServerConfig{
		Server: ServerSettings{
			Address:        "localhost",
			Port:           3000,
			LogLevel:       "info",
			SuggestionsDir: "suggestions",
		},
		Game: GameSettings{
			DefaultTargetScore: game.DefaultTargetScore,
		},
	}
}

// LoadServerConfig loads configuration from an HCL file. A missing file
// yields the defaults.
func LoadServerConfig(filename string) (*ServerConfig, error) {
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return DefaultServerConfig(), nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var config ServerConfig
	diags = gohcl.DecodeBody(file.Body, nil, &config)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	if config.Server.Address == "" {
		config.Server.Address = "localhost"
	}
	if config.Server.Port == 0 {
		config.Server.Port = 3000
	}
	if config.Server.LogLevel == "" {
		config.Server.LogLevel = "info"
	}
	if config.Server.SuggestionsDir == "" {
		config.Server.SuggestionsDir = "suggestions"
	}
	if config.Game.DefaultTargetScore == 0 {
		config.Game.DefaultTargetScore = game.DefaultTargetScore
	}

	return &config, nil
}

// Validate validates the configuration.
func (c *ServerConfig) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Server.Port)
	}
	if c.Game.DefaultTargetScore <= 0 {
		return fmt.Errorf("default target score must be positive, got %d", c.Game.DefaultTargetScore)
	}
	if c.Game.TurnReminderSeconds < 0 {
		return fmt.Errorf("turn reminder seconds must not be negative, got %d", c.Game.TurnReminderSeconds)
	}
	return nil
}

// GetServerAddress returns the full listen address.
func (c *ServerConfig) GetServerAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Address, c.Server.Port)
}
