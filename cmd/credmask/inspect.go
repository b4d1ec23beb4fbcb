package main

import (
	"fmt"
	"io"
	"os"

	"credmask/internal/bootstrap"
	"credmask/internal/config"
	"credmask/internal/usecase"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect FILE",
	Short: "Run one detection pass over a saved HTML file",
	Long: `Parse FILE as HTML, run the detection pass over it and print the
resulting report as YAML. Use "-" to read from stdin.

Layout is approximated from inline styles since no browser is involved.`,
	Args: cobra.ExactArgs(1),
	RunE: runInspect,
}

var (
	inspectURL         string
	inspectSingleInput bool
)

func init() {
	inspectCmd.Flags().StringVar(&inspectURL, "url", "", "URL the markup was served from")
	inspectCmd.Flags().BoolVar(&inspectSingleInput, "single-input", false, "Pair lone username fields without a password")

	rootCmd.AddCommand(inspectCmd)
}

func runInspect(cmd *cobra.Command, args []string) error {
	conf, err := config.GetConfig()
	if err != nil {
		return err
	}

	logger, err := bootstrap.NewLogger(conf.AppConfig)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	tp, closeTraces := bootstrap.NewTraceProvider(conf.AppConfig, logger)
	defer func() {
		_ = tp.Shutdown(cmd.Context())
		closeTraces()
	}()

	var r io.Reader = os.Stdin
	if args[0] != "-" {
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("open %s: %w", args[0], err)
		}
		defer f.Close()

		r = f
	}

	report, err := usecase.Inspect(cmd.Context(), r, usecase.InspectParams{
		Config:           conf,
		Logger:           logger,
		URL:              inspectURL,
		ForceSingleInput: inspectSingleInput,
	})
	if err != nil {
		return err
	}

	enc := yaml.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent(2)
	defer enc.Close()

	return enc.Encode(report)
}
