package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bgricker/buildharness/internal/config"
)

func gatherFlags(cmd *cobra.Command) (config.FlagValues, error) {
	flags := cmd.Flags()
	var values config.FlagValues

	stringFlags := []struct {
		name string
		dst  *config.StringFlag
	}{
		{"compiler", &values.Compiler},
		{"std", &values.Standard},
		{"library", &values.Library},
		{"pattern", &values.Pattern},
		{"format", &values.Format},
	}
	for _, f := range stringFlags {
		if !flags.Changed(f.name) {
			continue
		}
		v, err := flags.GetString(f.name)
		if err != nil {
			return values, fmt.Errorf("parse --%s: %w", f.name, err)
		}
		*f.dst = config.StringFlag{Value: v, Set: true}
	}

	sliceFlags := []struct {
		name string
		dst  *config.SliceFlag
	}{
		{"include", &values.IncludeDirs},
		{"link-flag", &values.LinkFlags},
		{"test", &values.Tests},
		{"only", &values.Only},
		{"skip", &values.Skip},
	}
	for _, f := range sliceFlags {
		if !flags.Changed(f.name) {
			continue
		}
		v, err := flags.GetStringArray(f.name)
		if err != nil {
			return values, fmt.Errorf("parse --%s: %w", f.name, err)
		}
		*f.dst = config.SliceFlag{Values: append([]string{}, v...)}
	}

	if flags.Changed("count") {
		v, err := flags.GetInt("count")
		if err != nil {
			return values, fmt.Errorf("parse --count: %w", err)
		}
		values.Count = config.IntFlag{Value: v, Set: true}
	}

	if flags.Changed("compile-timeout") {
		v, err := flags.GetDuration("compile-timeout")
		if err != nil {
			return values, fmt.Errorf("parse --compile-timeout: %w", err)
		}
		values.CompileTimeout = config.DurationFlag{Value: v, Set: true}
	}

	if flags.Changed("run-timeout") {
		v, err := flags.GetDuration("run-timeout")
		if err != nil {
			return values, fmt.Errorf("parse --run-timeout: %w", err)
		}
		values.RunTimeout = config.DurationFlag{Value: v, Set: true}
	}

	if flags.Changed("dry-run") {
		v, err := flags.GetBool("dry-run")
		if err != nil {
			return values, fmt.Errorf("parse --dry-run: %w", err)
		}
		values.DryRun = config.BoolFlag{Value: v, Set: true}
	}

	if flags.Changed("verbose") {
		v, err := flags.GetBool("verbose")
		if err != nil {
			return values, fmt.Errorf("parse --verbose: %w", err)
		}
		values.Verbose = config.BoolFlag{Value: v, Set: true}
	}

	return values, nil
}
