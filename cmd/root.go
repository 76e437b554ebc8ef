package cmd

import (
	"fmt"
	"os"

	"github.com/charmbracelet/x/term"
	"github.com/spf13/cobra"

	"github.com/fakeyudi/tomo/internal/config"
	"github.com/fakeyudi/tomo/internal/profile"
)

// cfg holds the merged configuration, populated in PersistentPreRunE.
var cfg config.Config

// activeProfile holds the loaded user profile.
var activeProfile *profile.Profile

// debug enables the log file.
var debug bool

var rootCmd = &cobra.Command{
	Use:          "tomo",
	Short:        "A Pomodoro timer for the terminal",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// First-run: profile missing → run setup wizard automatically.
		// Only do this when stdin is an interactive terminal.
		if !profile.Exists() && term.IsTerminal(os.Stdin.Fd()) {
			fmt.Fprintln(cmd.OutOrStdout())
			fmt.Fprintln(cmd.OutOrStdout(), "  Welcome to tomo! Looks like this is your first time.")
			if err := runSetup(cmd); err != nil {
				return err
			}
		}

		p, err := profile.Load()
		if err != nil {
			return fmt.Errorf("loading profile: %w", err)
		}
		activeProfile = p

		merged, err := config.Load()
		if err != nil {
			return err
		}
		cfg = merged
		return nil
	},
}

// Execute runs the root command. Exits with code 1 on error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// GetConfig returns the merged configuration for use by subcommands.
func GetConfig() config.Config {
	return cfg
}

// GetProfile returns the active user profile.
func GetProfile() *profile.Profile {
	if activeProfile == nil {
		p := profile.Default()
		return &p
	}
	return activeProfile
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "write a debug log to $XDG_STATE_HOME/tomo/tomo.log")
}
