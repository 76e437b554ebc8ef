package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fakeyudi/tomo/internal/config"
	"github.com/fakeyudi/tomo/internal/profile"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Configure tomo (re-run anytime to edit settings)",
	// Bypass the normal PersistentPreRunE so setup works before profile exists.
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSetup(cmd)
	},
}

// runSetup runs the interactive wizard and saves the profile and the timer
// settings it collected.
func runSetup(cmd *cobra.Command) error {
	out := cmd.OutOrStdout()

	// Load existing profile and config as defaults if present.
	var existing *profile.Profile
	if profile.Exists() {
		if p, err := profile.Load(); err == nil {
			existing = p
		}
	}
	global, err := config.LoadGlobal()
	if err != nil {
		return fmt.Errorf("loading global config: %w", err)
	}

	res, err := profile.RunSetup(existing, global.Settings(), cmd.InOrStdin(), out)
	if err != nil {
		return fmt.Errorf("setup cancelled: %w", err)
	}

	if err := profile.Save(res.Profile); err != nil {
		return fmt.Errorf("saving profile: %w", err)
	}
	fmt.Fprintln(out, "  ✓ Profile saved.")

	if err := config.SaveGlobal(config.FromSettings(res.Settings, *global)); err != nil {
		return fmt.Errorf("saving settings: %w", err)
	}
	fmt.Fprintln(out, "  ✓ Timer settings saved.")

	fmt.Fprintln(out, "  Setup complete. Run 'tomo start' to begin a focus session.")
	fmt.Fprintln(out)
	return nil
}

func init() {
	rootCmd.AddCommand(setupCmd)
}
