package main

import (
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "harness",
		Short:         "Harness compiles and runs numbered C++ test programs",
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE:          runExecute,
	}

	persistent := cmd.PersistentFlags()
	persistent.String("compiler", "", "compiler executable (default g++)")
	persistent.String("std", "", "language standard passed as -std= (default c++11)")
	persistent.StringArray("include", nil, "include directory (repeatable)")
	persistent.String("library", "", "static library linked into every test")
	persistent.StringArray("link-flag", nil, "extra linker flag (repeatable)")
	persistent.StringArray("test", nil, "explicit test identifier (repeatable)")
	persistent.Int("count", 0, "number of generated test identifiers")
	persistent.String("pattern", "", "identifier pattern with a %d ordinal")
	persistent.StringArray("only", nil, "include only matching tests")
	persistent.StringArray("skip", nil, "exclude matching tests")
	persistent.Duration("compile-timeout", 0, "per-test compile timeout (0 disables)")
	persistent.Duration("run-timeout", 0, "per-test run timeout (0 disables)")
	persistent.Bool("dry-run", false, "print commands without executing them")
	persistent.BoolP("verbose", "v", false, "stream compiler and test output in real time")
	persistent.String("format", "pretty", "output format (pretty|json)")
	persistent.Bool("debug", false, "write debug logs to stderr")
	persistent.String("log-file", "", "append JSON logs to this file")

	cmd.AddCommand(newListCmd())
	cmd.AddCommand(newRunCmd())

	return cmd
}
