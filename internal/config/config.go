package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/bgricker/buildharness/internal/suite"
	"gopkg.in/yaml.v3"
)

// FileName is the optional per-project configuration file read from the harness root.
const FileName = ".harness.yml"

// ErrInvalid marks configuration problems, as opposed to test failures.
var ErrInvalid = errors.New("invalid configuration")

// Config captures harness options sourced from defaults, the config file and flags.
type Config struct {
	Compiler    string
	Standard    string
	IncludeDirs []string
	Library     string
	LinkFlags   []string
	SourceExt   string

	Pattern string
	Count   int
	Tests   []string
	Only    []string
	Skip    []string

	CompileTimeout time.Duration
	RunTimeout     time.Duration
	TailLines      int

	DryRun  bool
	Verbose bool
	Format  string

	Warn WarnConfig
}

// WarnConfig controls additional warning behaviour.
type WarnConfig struct {
	CompilerVersion bool `yaml:"compiler_version"`
}

// fileConfig mirrors .harness.yml. Pointers distinguish "unset" from explicit zero values.
type fileConfig struct {
	Compiler    string   `yaml:"compiler"`
	Standard    *string  `yaml:"standard"`
	IncludeDirs []string `yaml:"include_dirs"`
	Library     *string  `yaml:"library"`
	LinkFlags   []string `yaml:"link_flags"`
	SourceExt   string   `yaml:"source_ext"`

	Pattern string   `yaml:"pattern"`
	Count   *int     `yaml:"count"`
	Tests   []string `yaml:"tests"`
	Only    []string `yaml:"only"`
	Skip    []string `yaml:"skip"`

	CompileTimeout *time.Duration `yaml:"compile_timeout"`
	RunTimeout     *time.Duration `yaml:"run_timeout"`
	TailLines      int            `yaml:"tail_lines"`

	DryRun  bool   `yaml:"dry_run"`
	Verbose bool   `yaml:"verbose"`
	Format  string `yaml:"format"`

	Warn *WarnConfig `yaml:"warn"`
}

const (
	// FormatPretty renders human readable output.
	FormatPretty = "pretty"
	// FormatJSON renders machine readable output.
	FormatJSON = "json"
)

// Default returns the baseline configuration used when no flags or config file specify values.
// The defaults build Tests/test1..Tests/test8 against libuthreads.a.
func Default() Config {
	return Config{
		Compiler:       "g++",
		Standard:       "c++11",
		IncludeDirs:    []string{"."},
		Library:        "libuthreads.a",
		LinkFlags:      []string{"-lpthread"},
		SourceExt:      ".cpp",
		Pattern:        "Tests/test%d",
		Count:          8,
		CompileTimeout: 5 * time.Minute,
		RunTimeout:     time.Minute,
		TailLines:      20,
		Format:         FormatPretty,
		Warn: WarnConfig{
			CompilerVersion: true,
		},
	}
}

// Load reads .harness.yml from root when present. Missing files are ignored.
func Load(root string) (Config, error) {
	cfg := Default()
	path := filepath.Join(root, FileName)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config %q: %w", path, err)
	}
	return Parse(cfg, data, path)
}

// Parse validates data against the embedded schema and merges it over base.
func Parse(base Config, data []byte, path string) (Config, error) {
	if err := ValidateDocument(data); err != nil {
		return base, fmt.Errorf("%w: %s: %v", ErrInvalid, path, err)
	}

	var fileCfg fileConfig
	if err := yaml.Unmarshal(data, &fileCfg); err != nil {
		return base, fmt.Errorf("%w: parse %s: %v", ErrInvalid, path, err)
	}
	return merge(base, fileCfg), nil
}

func merge(base Config, override fileConfig) Config {
	out := base

	if override.Compiler != "" {
		out.Compiler = override.Compiler
	}
	if override.Standard != nil {
		out.Standard = *override.Standard
	}
	if override.IncludeDirs != nil {
		out.IncludeDirs = append([]string{}, override.IncludeDirs...)
	}
	if override.Library != nil {
		out.Library = *override.Library
	}
	if override.LinkFlags != nil {
		out.LinkFlags = append([]string{}, override.LinkFlags...)
	}
	if override.SourceExt != "" {
		out.SourceExt = override.SourceExt
	}
	if override.Pattern != "" {
		out.Pattern = override.Pattern
	}
	if override.Count != nil {
		out.Count = *override.Count
	}
	if len(override.Tests) > 0 {
		out.Tests = append([]string{}, override.Tests...)
	}
	if len(override.Only) > 0 {
		out.Only = append([]string{}, override.Only...)
	}
	if len(override.Skip) > 0 {
		out.Skip = append([]string{}, override.Skip...)
	}
	if override.CompileTimeout != nil {
		out.CompileTimeout = *override.CompileTimeout
	}
	if override.RunTimeout != nil {
		out.RunTimeout = *override.RunTimeout
	}
	if override.TailLines > 0 {
		out.TailLines = override.TailLines
	}
	if override.Format != "" {
		out.Format = override.Format
	}
	if override.DryRun {
		out.DryRun = true
	}
	if override.Verbose {
		out.Verbose = true
	}
	if override.Warn != nil {
		out.Warn = *override.Warn
	}

	return out
}

// ApplyFlags mutates cfg by applying values from CLI flags when they are present.
func ApplyFlags(cfg *Config, flags FlagValues) {
	if flags.Compiler.Set {
		cfg.Compiler = flags.Compiler.Value
	}
	if flags.Standard.Set {
		cfg.Standard = flags.Standard.Value
	}
	if len(flags.IncludeDirs.Values) > 0 {
		cfg.IncludeDirs = append([]string{}, flags.IncludeDirs.Values...)
	}
	if flags.Library.Set {
		cfg.Library = flags.Library.Value
	}
	if len(flags.LinkFlags.Values) > 0 {
		cfg.LinkFlags = append([]string{}, flags.LinkFlags.Values...)
	}
	if flags.Pattern.Set {
		cfg.Pattern = flags.Pattern.Value
	}
	if flags.Count.Set {
		cfg.Count = flags.Count.Value
	}
	if len(flags.Tests.Values) > 0 {
		cfg.Tests = append([]string{}, flags.Tests.Values...)
	}
	if len(flags.Only.Values) > 0 {
		cfg.Only = append([]string{}, flags.Only.Values...)
	}
	if len(flags.Skip.Values) > 0 {
		cfg.Skip = append([]string{}, flags.Skip.Values...)
	}
	if flags.CompileTimeout.Set {
		cfg.CompileTimeout = flags.CompileTimeout.Value
	}
	if flags.RunTimeout.Set {
		cfg.RunTimeout = flags.RunTimeout.Value
	}
	if flags.Format.Set {
		cfg.Format = flags.Format.Value
	}
	if flags.DryRun.Set {
		cfg.DryRun = flags.DryRun.Value
	}
	if flags.Verbose.Set {
		cfg.Verbose = flags.Verbose.Value
	}
}

// Validate checks values that flags can still get wrong after schema validation.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Compiler) == "" {
		return fmt.Errorf("%w: compiler must not be empty", ErrInvalid)
	}
	if c.Count < 0 {
		return fmt.Errorf("%w: count must be >= 0, got %d", ErrInvalid, c.Count)
	}
	if c.CompileTimeout < 0 || c.RunTimeout < 0 {
		return fmt.Errorf("%w: timeouts must not be negative", ErrInvalid)
	}
	switch strings.ToLower(c.Format) {
	case FormatPretty, FormatJSON:
	default:
		return fmt.Errorf("%w: unsupported format %q", ErrInvalid, c.Format)
	}
	return nil
}

// Toolchain returns the compiler invocation described by c.
func (c Config) Toolchain() suite.Toolchain {
	return suite.Toolchain{
		Compiler:    c.Compiler,
		Standard:    c.Standard,
		IncludeDirs: append([]string{}, c.IncludeDirs...),
		Library:     c.Library,
		LinkFlags:   append([]string{}, c.LinkFlags...),
	}
}

// TestIDs returns the explicit test list when given, otherwise the generated sequence.
func (c Config) TestIDs() []string {
	if len(c.Tests) > 0 {
		return append([]string{}, c.Tests...)
	}
	return suite.Identifiers(c.Pattern, c.Count)
}

// Suite builds the toolchain and test list handed to the runner.
func (c Config) Suite() suite.Suite {
	return suite.Suite{
		Toolchain: c.Toolchain(),
		Tests:     suite.NewTests(c.TestIDs(), c.SourceExt),
	}
}

// FlagValues captures CLI flag state with knowledge of whether each flag was set explicitly.
type FlagValues struct {
	Compiler       StringFlag
	Standard       StringFlag
	IncludeDirs    SliceFlag
	Library        StringFlag
	LinkFlags      SliceFlag
	Pattern        StringFlag
	Count          IntFlag
	Tests          SliceFlag
	Only           SliceFlag
	Skip           SliceFlag
	CompileTimeout DurationFlag
	RunTimeout     DurationFlag
	Format         StringFlag
	DryRun         BoolFlag
	Verbose        BoolFlag
}

// StringFlag represents a string flag and whether it was set.
type StringFlag struct {
	Value string
	Set   bool
}

// SliceFlag represents a slice flag and whether it captured values via CLI.
type SliceFlag struct {
	Values []string
}

// BoolFlag represents a bool flag and whether it was set.
type BoolFlag struct {
	Value bool
	Set   bool
}

// IntFlag represents an int flag and whether it was set.
type IntFlag struct {
	Value int
	Set   bool
}

// DurationFlag represents a duration flag and whether it was set.
type DurationFlag struct {
	Value time.Duration
	Set   bool
}
