package commands

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/alexisbanda/AI-Image-Analyzer/api/internal/handle"
)

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Print the configuration status as /health would",
	RunE: func(cmd *cobra.Command, args []string) error {
		enc := json.NewEncoder(cmd.OutOrStdout())
		return enc.Encode(handle.HealthResponse{
			Status:           "OK",
			GeminiConfigured: cfg.GeminiConfigured(),
		})
	},
}

func init() {
	rootCmd.AddCommand(healthCmd)
}
