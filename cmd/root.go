// Package cmd holds the root command of the godtr viewer
package cmd

import (
	"fmt"
	"os"

	"github.com/philipparndt/godtr/internal/app"
	"github.com/philipparndt/godtr/internal/config"
	"github.com/philipparndt/godtr/internal/logging"
	"github.com/philipparndt/godtr/version"
	"github.com/spf13/cobra"
)

var (
	cellPath   string
	configPath string
)

var rootCmd = &cobra.Command{
	Use:   "godtr-gui <session>",
	Short: "Diffraction tomography reconstruction viewer",
	Long: `godtr-gui shows the reciprocal space reconstruction of a tilt series next
to the tilt images, with the reflections predicted from a unit cell drawn over
the measured features.`,
	Version:      version.GetFullVersion(),
	Args:         cobra.ExactArgs(1),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig(configPath)
		if err != nil {
			return err
		}
		logger, err := logging.New(cfg.Logging.Level, cfg.Logging.Format, os.Stderr)
		if err != nil {
			return err
		}
		return app.Run(app.Options{
			SessionPath: args[0],
			CellPath:    cellPath,
			Config:      cfg,
			Logger:      logger,
		})
	},
}

func init() {
	rootCmd.Flags().StringVar(&cellPath, "cell", "", "Unit cell file, reloaded when it changes")
	rootCmd.Flags().StringVar(&configPath, "config", "godtr.yaml", "Configuration file")
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
