// Package common provides shared utilities for command implementations.
package common

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonesrussell/pagesift/internal/config"
	"github.com/jonesrussell/pagesift/internal/logger"
)

// CommandDeps holds common dependencies for all commands.
// Use this instead of context.Value for type-safe dependency injection.
type CommandDeps struct {
	Logger logger.Interface
	Config *config.Config
}

// Validate ensures all required dependencies are present.
func (d CommandDeps) Validate() error {
	if d.Logger == nil {
		return ErrLoggerRequired
	}
	if d.Config == nil {
		return ErrConfigRequired
	}
	return nil
}

// DepsFromCommand builds command dependencies from the persistent flags
// on the root of the command tree.
func DepsFromCommand(cmd *cobra.Command) (*CommandDeps, error) {
	root := cmd.Root()
	cfgFile, _ := root.PersistentFlags().GetString("config")
	debug, _ := root.PersistentFlags().GetBool("debug")
	return NewCommandDeps(cfgFile, debug)
}

// NewCommandDeps loads configuration and builds the logger every command
// shares. The debug flag forces debug-level console logging.
func NewCommandDeps(cfgFile string, debug bool) (*CommandDeps, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	if debug {
		cfg.App.Debug = true
		cfg.Logging.Level = logger.DebugLevel
		cfg.Logging.Development = true
	}

	log, err := logger.New(&cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	deps := &CommandDeps{Logger: log, Config: cfg}
	if err := deps.Validate(); err != nil {
		return nil, err
	}
	return deps, nil
}
