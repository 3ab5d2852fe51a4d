package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/philipparndt/godtr/internal/config"
	"github.com/philipparndt/godtr/internal/logging"
	"github.com/philipparndt/godtr/version"
	"github.com/spf13/cobra"
)

var (
	configPath string
	logLevel   string

	cfg    *config.Config
	logger *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "godtr",
	Short: "Inspect diffraction tomography tilt series",
	Long: `godtr inspects the tilt series of a diffraction tomography experiment.
It summarises the measured features, predicts reflection overlays from a unit
cell and maps features into reciprocal space.`,
	Version:       version.GetFullVersion(),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.LoadConfig(configPath)
		if err != nil {
			return err
		}
		level := cfg.Logging.Level
		if logLevel != "" {
			level = logLevel
		}
		logger, err = logging.New(level, cfg.Logging.Format, os.Stderr)
		return err
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "godtr.yaml", "Configuration file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
