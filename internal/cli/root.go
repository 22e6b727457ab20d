package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/CodexForgeBR/tripfix/internal/config"
	"github.com/CodexForgeBR/tripfix/internal/logging"
)

// app holds the flag-bound config and, once PersistentPreRunE has run, the
// config resolved through the full precedence chain.
type app struct {
	flags       *config.Config
	cfg         *config.Config
	globalPath  string
	projectPath string
}

// NewRootCmd builds the tripfix command tree.
func NewRootCmd(version string) *cobra.Command {
	return newApp(config.GlobalPath(), config.ProjectFile).rootCmd(version)
}

func newApp(globalPath, projectPath string) *app {
	return &app{
		flags:       config.NewDefaultConfig(),
		globalPath:  globalPath,
		projectPath: projectPath,
	}
}

func (a *app) rootCmd(version string) *cobra.Command {
	root := &cobra.Command{
		Use:               "tripfix",
		Short:             "Repair and validate LLM-generated travel itineraries",
		Long:              "tripfix turns truncated or malformed model output into valid, schema-conformant itinerary JSON, or fails with a precise reason.",
		Version:           version,
		PersistentPreRunE: a.resolveConfig,
		SilenceUsage:      true,
		SilenceErrors:     true,
	}

	// Bind all persistent flags to the config
	BindFlags(root, a.flags)

	// Set custom help template
	SetCustomHelp(root)

	root.AddCommand(
		a.sanitizeCmd(),
		a.parseCmd(),
		a.extractCmd(),
		a.validateCmd(),
		a.convertCmd(),
		a.schemaCmd(),
	)
	return root
}

// resolveConfig loads the config chain with the explicitly set flags on
// top, then validates the result.
func (a *app) resolveConfig(cmd *cobra.Command, _ []string) error {
	overrides := BuildCLIOverrides(cmd, a.flags)

	cfg, err := config.LoadWithPrecedence(a.globalPath, a.projectPath, a.flags.ConfigFile, overrides)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// Merge CLI-only flags (not in config files)
	cfg.ConfigFile = a.flags.ConfigFile
	cfg.Quiet = a.flags.Quiet

	if err := ValidateFlags(cfg); err != nil {
		return err
	}
	a.cfg = cfg

	logging.SetOutput(cmd.ErrOrStderr())
	logging.SetVerbose(cfg.Verbose)
	return nil
}

// summary is where banners go: stderr, or nowhere with --quiet.
func (a *app) summary(cmd *cobra.Command) io.Writer {
	if a.cfg.Quiet {
		return io.Discard
	}
	return cmd.ErrOrStderr()
}
