package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"regbet/internal/preflight"
)

func newValidateCommand(cmdCtx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check configuration and external tool readiness",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cmdCtx.ensureConfig()
			if err != nil {
				return exitWith(exitPrecondition, err)
			}
			if err := cfg.ValidateRun(); err != nil {
				return exitWith(exitPrecondition, err)
			}
			if err := cfg.EnsureDirectories(); err != nil {
				return exitWith(exitPrecondition, err)
			}

			out := cmd.OutOrStdout()
			checks := preflight.RunAll(cfg)
			renderChecks(out, checks)

			for _, status := range preflight.CheckSystemDeps(cfg) {
				detail := status.Detail
				if detail == "" {
					detail = status.Command
				}
				fmt.Fprintln(out, renderStatusLine(status.Name, status.Available, detail, shouldColorize(out)))
			}

			if !preflight.AllPassed(checks) {
				return exitWith(exitPrecondition, errors.New("preflight checks failed"))
			}
			fmt.Fprintln(out, "Ready to run")
			return nil
		},
	}
}
