package commands

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/alexisbanda/AI-Image-Analyzer/api/internal/pipeline"
	"github.com/alexisbanda/AI-Image-Analyzer/api/internal/util"
	"github.com/alexisbanda/AI-Image-Analyzer/api/internal/vision"
)

// Exit codes
const (
	ExitValidation = 1
	ExitProvider   = 2
	ExitInternal   = 3
)

type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }
func (e *exitError) ExitCode() int { return e.code }

func exitWithCode(code int, err error) error {
	return &exitError{code: code, err: err}
}

var (
	outputFormat string
	withImage    bool
	labelsOnly   bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <image>",
	Short: "Analyze one image file and print the result",
	Long: `Run a local image through the same pipeline as POST /upload and print the result.

Examples:
  image-analyzer analyze photo.png
  image-analyzer analyze photo.png --format yaml
  image-analyzer analyze photo.png --labels`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().StringVar(&outputFormat, "format", "json", "output format: json or yaml")
	analyzeCmd.Flags().BoolVar(&withImage, "with-image", false, "include image_data in the output")
	analyzeCmd.Flags().BoolVar(&labelsOnly, "labels", false, "print labels with confidence instead of a description")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	if outputFormat != "json" && outputFormat != "yaml" {
		return exitWithCode(ExitValidation, fmt.Errorf("unknown format %q: use json or yaml", outputFormat))
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return exitWithCode(ExitValidation, err)
	}

	a, err := newApp(cfg, log, nil)
	if err != nil {
		return exitWithCode(ExitInternal, err)
	}

	if labelsOnly {
		labels, _, err := a.analyzer.Labels(context.Background(), data, util.PickImageMIME("", data))
		if err != nil {
			return exitWithCode(ExitProvider, err)
		}
		return printValue(cmd.OutOrStdout(), labels)
	}

	res, err := a.pipeline.Process(context.Background(), pipeline.Upload{
		Filename: filepath.Base(args[0]),
		Data:     data,
	})
	if err != nil {
		var ve *pipeline.ValidationError
		if errors.As(err, &ve) {
			return exitWithCode(ExitValidation, err)
		}
		return exitWithCode(ExitInternal, err)
	}
	if !withImage {
		res.ImageData = ""
	}
	if err := printValue(cmd.OutOrStdout(), res); err != nil {
		return err
	}
	if isProviderFailure(res.Analysis) {
		return exitWithCode(ExitProvider, errors.New(res.Analysis))
	}
	return nil
}

func isProviderFailure(analysis string) bool {
	return analysis == vision.NotConfigured || strings.HasPrefix(analysis, vision.FailurePrefix)
}

func printValue(w io.Writer, v any) error {
	if outputFormat == "yaml" {
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		defer enc.Close()
		return enc.Encode(v)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
