package config

import (
	"time"
)

// RuntimeConfig represents the complete runtime configuration
// This is injected into use cases and contains all resolved settings
type RuntimeConfig struct {
	// Core settings
	ProjectRoot string
	DataDir     string
	ConfigFile  string

	// Network selection; Network is nil if not specified
	NetworkName string
	Network     *Network

	// Execution settings
	Debug          bool
	NonInteractive bool
	JSON           bool // Output in JSON format
	AssumeYes      bool // Skip confirmation prompts
	Timeout        time.Duration

	// Resolved configurations
	DAO      *DAOConfig
	Networks map[string]*Network

	// DeployerKey is the hex private key used to sign transactions. Never rendered.
	DeployerKey string `json:"-"`
}
