package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"regbet/internal/config"
	"regbet/internal/logging"
	"regbet/internal/manifest"
	"regbet/internal/preflight"
	"regbet/internal/services/brainsfit"
	"regbet/internal/services/hdbet"
	"regbet/internal/services/slicer"
	"regbet/internal/workflow"
)

func newRunCommand(cmdCtx *commandContext) *cobra.Command {
	var (
		inDir      string
		atlas      string
		outDir     string
		pattern    string
		recursive  bool
		overwrite  bool
		iterations int
		sampling   float64
		regTimeout int
		betTimeout int
		logLevel   string
		noManifest bool
		slicerHost string
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Process every input volume through registration and extraction",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cmdCtx.ensureConfig()
			if err != nil {
				return exitWith(exitPrecondition, err)
			}

			flags := cmd.Flags()
			if flags.Changed("in-dir") {
				cfg.Paths.InputDir = expandedOrRaw(inDir)
			}
			if flags.Changed("atlas") {
				cfg.Paths.Atlas = expandedOrRaw(atlas)
			}
			if flags.Changed("out-dir") {
				cfg.Paths.OutputDir = expandedOrRaw(outDir)
			}
			if flags.Changed("pattern") {
				cfg.Discovery.Pattern = pattern
			}
			if flags.Changed("recursive") {
				cfg.Discovery.Recursive = recursive
			}
			if flags.Changed("overwrite") {
				cfg.Workflow.Overwrite = overwrite
			}
			if flags.Changed("iterations") {
				cfg.Registration.Iterations = iterations
			}
			if flags.Changed("sampling") {
				cfg.Registration.Sampling = sampling
			}
			if flags.Changed("registration-timeout") {
				cfg.Registration.Timeout = regTimeout
			}
			if flags.Changed("bet-timeout") {
				cfg.Extraction.Timeout = betTimeout
			}
			if flags.Changed("log-level") {
				cfg.Logging.Level = logLevel
			}
			if flags.Changed("slicer") {
				cfg.Slicer.Executable = strings.TrimSpace(slicerHost)
			}
			if noManifest {
				cfg.Manifest.Enabled = false
			}

			if err := cfg.ValidateRun(); err != nil {
				return exitWith(exitPrecondition, err)
			}
			if err := cfg.EnsureDirectories(); err != nil {
				return exitWith(exitPrecondition, err)
			}

			logger, err := logging.NewFromConfig(cfg)
			if err != nil {
				return exitWith(exitPrecondition, fmt.Errorf("initialize logging: %w", err))
			}

			checks := preflight.RunAll(cfg)
			if !preflight.AllPassed(checks) {
				renderChecks(cmd.OutOrStdout(), checks)
				return exitWith(exitPrecondition, errors.New("preflight checks failed"))
			}

			host, err := slicer.ResolveExecutable(cfg.Slicer.Executable)
			if err != nil {
				return exitWith(exitPrecondition, err)
			}

			registrar, err := brainsfit.New(host,
				cfg.Registration.Iterations, cfg.Registration.Sampling, cfg.Registration.Timeout,
				brainsfit.WithLogger(logger))
			if err != nil {
				return exitWith(exitPrecondition, err)
			}
			extractor, err := hdbet.New(host, cfg.Extraction.Timeout, hdbet.WithLogger(logger))
			if err != nil {
				return exitWith(exitPrecondition, err)
			}

			opts := []workflow.RunnerOption{workflow.WithRunnerLogger(logger)}
			if cfg.Manifest.Enabled {
				store, storeErr := manifest.Open(cfg)
				if storeErr != nil {
					logger.Warn("manifest unavailable, continuing without run history",
						logging.Error(storeErr))
				} else {
					defer store.Close()
					opts = append(opts, workflow.WithManifest(store))
				}
			}

			runner, err := workflow.NewRunner(cfg, registrar, extractor, opts...)
			if err != nil {
				return exitWith(exitPrecondition, err)
			}

			result, err := runner.Run(cmd.Context())
			if errors.Is(err, workflow.ErrNoInputs) {
				return exitWith(exitNoInputs, err)
			}
			if err != nil {
				return exitWith(exitPrecondition, err)
			}

			renderSummary(cmd.OutOrStdout(), result)
			if result.Failed() {
				return exitWith(exitCaseFailure,
					fmt.Errorf("completed %d/%d cases", result.Completed(), result.Total()))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&inDir, "in-dir", "", "Directory containing input volumes")
	cmd.Flags().StringVar(&atlas, "atlas", "", "Reference atlas volume")
	cmd.Flags().StringVar(&outDir, "out-dir", "", "Output root for generated artifacts")
	cmd.Flags().StringVar(&pattern, "pattern", "", "Glob applied to input filenames instead of the extension list")
	cmd.Flags().BoolVar(&recursive, "recursive", false, "Search the input directory recursively")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Re-run both stages even when outputs exist")
	cmd.Flags().IntVar(&iterations, "iterations", 0, "Registration iteration count")
	cmd.Flags().Float64Var(&sampling, "sampling", 0, "Registration sampling fraction (0-1]")
	cmd.Flags().IntVar(&regTimeout, "registration-timeout", 0, "Registration wall-clock limit in seconds")
	cmd.Flags().IntVar(&betTimeout, "bet-timeout", 0, "Extraction wait limit in seconds")
	cmd.Flags().StringVar(&logLevel, "log-level", "", "Log verbosity (debug, info, warn, error)")
	cmd.Flags().StringVar(&slicerHost, "slicer", "", "Slicer host executable (overrides config and SLICER_EXE)")
	cmd.Flags().BoolVar(&noManifest, "no-manifest", false, "Skip recording run history")

	return cmd
}

func expandedOrRaw(path string) string {
	expanded, err := config.ExpandPath(path)
	if err != nil {
		return strings.TrimSpace(path)
	}
	return expanded
}
