package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/bgricker/buildharness/internal/config"
	"github.com/bgricker/buildharness/internal/filter"
	"github.com/bgricker/buildharness/internal/suite"
	"github.com/bgricker/buildharness/internal/version"
)

func loadConfig(cmd *cobra.Command) (config.Config, string, error) {
	root, err := os.Getwd()
	if err != nil {
		return config.Config{}, "", fmt.Errorf("determine working directory: %w", err)
	}

	cfg, err := config.Load(root)
	if err != nil {
		return config.Config{}, "", err
	}

	flags, err := gatherFlags(cmd)
	if err != nil {
		return config.Config{}, "", err
	}
	config.ApplyFlags(&cfg, flags)

	if err := cfg.Validate(); err != nil {
		return config.Config{}, "", err
	}
	return cfg, root, nil
}

// buildSuite expands the configured identifiers and applies --only/--skip.
func buildSuite(cfg config.Config) (suite.Suite, error) {
	s := cfg.Suite()

	only, err := filter.Compile(cfg.Only)
	if err != nil {
		return suite.Suite{}, fmt.Errorf("%w: --only: %v", config.ErrInvalid, err)
	}
	skip, err := filter.Compile(cfg.Skip)
	if err != nil {
		return suite.Suite{}, fmt.Errorf("%w: --skip: %v", config.ErrInvalid, err)
	}
	s.Tests = filter.FilterTests(s.Tests, only, skip)
	return s, nil
}

// detectCompiler reports the compiler version and any warning worth showing.
// A missing compiler is only a warning; each compile step will fail on its own.
func detectCompiler(cfg config.Config) (string, []string) {
	if !cfg.Warn.CompilerVersion || cfg.DryRun {
		return "", nil
	}
	info, err := version.DetectCompiler(cfg.Compiler)
	switch {
	case err == nil:
		return info.Version, nil
	case version.Missing(err):
		return "", []string{fmt.Sprintf("compiler %q not found; every compile step will fail", cfg.Compiler)}
	default:
		return "", []string{fmt.Sprintf("unable to detect %s version: %v", cfg.Compiler, err)}
	}
}
