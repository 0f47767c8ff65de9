package main

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/bgricker/buildharness/internal/config"
	"github.com/bgricker/buildharness/internal/logging"
	"github.com/bgricker/buildharness/internal/output"
	"github.com/bgricker/buildharness/internal/runner"
)

func newRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Compile and run every test in order",
		RunE:  runExecute,
	}
}

func runExecute(cmd *cobra.Command, args []string) error {
	cfg, root, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	s, err := buildSuite(cfg)
	if err != nil {
		return err
	}

	runID := uuid.NewString()
	logger, closeLog, err := newLogger(cmd, runID)
	if err != nil {
		return err
	}
	defer closeLog()

	compilerVersion, warnings := detectCompiler(cfg)
	for _, msg := range warnings {
		logger.Warn("compiler check", "warning", msg)
	}
	logger.Info("run started",
		"root", root,
		"compiler", cfg.Compiler,
		"compiler_version", compilerVersion,
		"tests", len(s.Tests),
		"dry_run", cfg.DryRun)

	format := strings.ToLower(cfg.Format)
	runOpts := runner.Options{
		Root:           root,
		Stdout:         cmd.OutOrStdout(),
		Stderr:         cmd.ErrOrStderr(),
		Verbose:        cfg.Verbose,
		DryRun:         cfg.DryRun,
		TailLines:      cfg.TailLines,
		CompileTimeout: cfg.CompileTimeout,
		RunTimeout:     cfg.RunTimeout,
		Logger:         logger,
	}
	switch format {
	case config.FormatPretty:
		for _, msg := range warnings {
			fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s\n", msg)
		}
		runOpts.Progress = output.NewPretty(cmd.OutOrStdout())
	case config.FormatJSON:
		// stdout carries the report alone.
		runOpts.Stdout = cmd.ErrOrStderr()
	default:
		return fmt.Errorf("%w: unsupported format %q", config.ErrInvalid, cfg.Format)
	}

	results, summary, err := runner.New(runOpts).Run(cmd.Context(), s)
	if err != nil {
		return err
	}

	if format == config.FormatJSON {
		report := output.Report{
			RunID:           runID,
			Compiler:        cfg.Compiler,
			CompilerVersion: compilerVersion,
			DryRun:          cfg.DryRun,
			Tests:           results,
			Summary:         summary,
			Warnings:        warnings,
		}
		if err := output.NewJSON(cmd.OutOrStdout()).Render(report); err != nil {
			return err
		}
	}

	if summary.ExitCode != 0 {
		return errTestsFailed
	}
	return nil
}

func newLogger(cmd *cobra.Command, runID string) (*slog.Logger, func() error, error) {
	flags := cmd.Flags()
	debug, err := flags.GetBool("debug")
	if err != nil {
		return nil, nil, fmt.Errorf("parse --debug: %w", err)
	}
	file, err := flags.GetString("log-file")
	if err != nil {
		return nil, nil, fmt.Errorf("parse --log-file: %w", err)
	}
	return logging.New(logging.Options{
		Debug:  debug,
		File:   file,
		Stderr: cmd.ErrOrStderr(),
		RunID:  runID,
	})
}
