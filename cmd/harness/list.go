package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bgricker/buildharness/internal/config"
	"github.com/bgricker/buildharness/internal/discovery"
	"github.com/bgricker/buildharness/internal/output"
	"github.com/bgricker/buildharness/internal/suite"
)

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List test identifiers and whether their sources exist",
		RunE:  runList,
	}
}

func runList(cmd *cobra.Command, args []string) error {
	cfg, root, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	s, err := buildSuite(cfg)
	if err != nil {
		return err
	}

	if len(s.Tests) == 0 && strings.ToLower(cfg.Format) == config.FormatPretty {
		fmt.Fprintln(cmd.OutOrStdout(), "No matching tests")
		return nil
	}

	sources := discovery.Sources(root, s.Tests)
	switch strings.ToLower(cfg.Format) {
	case config.FormatPretty:
		return output.NewPretty(cmd.OutOrStdout()).RenderList(s.Toolchain, sources)
	case config.FormatJSON:
		list := output.ListReport{
			Compile: s.Toolchain.CompileCommand(suite.Test{Source: "<source>", Output: "<test>"}),
			Tests:   sources,
		}
		return output.NewJSON(cmd.OutOrStdout()).RenderList(list)
	default:
		return fmt.Errorf("%w: unsupported format %q", config.ErrInvalid, cfg.Format)
	}
}
