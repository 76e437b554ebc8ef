package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/fakeyudi/tomo/internal/config"
	"github.com/fakeyudi/tomo/internal/settings"
)

var showDefaults bool

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Print the effective timer settings",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s := GetConfig().Settings()
		if showDefaults {
			s = settings.Defaults()
		}
		data, err := yaml.Marshal(s)
		if err != nil {
			return fmt.Errorf("marshal settings: %w", err)
		}
		out := cmd.OutOrStdout()
		fmt.Fprint(out, string(data))

		if showDefaults {
			return nil
		}
		if p, err := config.GlobalPath(); err == nil {
			fmt.Fprintf(out, "# global:  %s\n", p)
		}
		fmt.Fprintf(out, "# project: %s\n", config.ProjectFile)
		return nil
	},
}

func init() {
	settingsCmd.Flags().BoolVar(&showDefaults, "defaults", false, "print the built-in defaults instead")
	rootCmd.AddCommand(settingsCmd)
}
