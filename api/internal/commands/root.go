// Package commands implements the image-analyzer CLI using Cobra.
package commands

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/alexisbanda/AI-Image-Analyzer/api/internal/config"
	"github.com/alexisbanda/AI-Image-Analyzer/api/internal/logger"
)

var (
	cfgFile  string
	logLevel string

	cfg *config.Config
	log *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "image-analyzer",
	Short: "Describe images with Google Gemini",
	Long: `image-analyzer accepts an image, asks a Gemini vision model to describe it
and returns the description together with the image as a data URI.

Configuration comes from the environment (GEMINI_API_KEY, GEMINI_MODEL, PORT,
UPLOAD_FOLDER, ...), an optional .env file and an optional --config file.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initConfig()
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if log != nil {
			_ = log.Sync()
		}
	},
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (yaml, json, toml or env)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (overrides LOG_LEVEL)")
}

func initConfig() error {
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		return err
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	log, err = logger.New(cfg.LogLevel)
	return err
}
