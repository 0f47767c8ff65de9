package report

// Status values for a single test.
const (
	StatusPassed  = "passed"
	StatusFailed  = "failed"
	StatusSkipped = "skipped"
)

// Stage identifies which half of a test a step belongs to.
type Stage string

const (
	StageCompile Stage = "compile"
	StageRun     Stage = "run"
)

// Kind classifies why a step failed. The zero value means the step did not fail.
type Kind string

const (
	KindSourceMissing     Kind = "source_missing"
	KindCompileFailed     Kind = "compile_failed"
	KindExecutableMissing Kind = "executable_missing"
	KindRunFailed         Kind = "run_failed"
	KindTimeout           Kind = "timeout"
)

// StepResult captures the outcome of one compile or run invocation.
type StepResult struct {
	Stage    Stage    `json:"stage"`
	Command  []string `json:"command"`
	OK       bool     `json:"ok"`
	ExitCode int      `json:"exit_code"`
	Kind     Kind     `json:"kind,omitempty"`
	Message  string   `json:"message,omitempty"`
	Stdout   string   `json:"stdout,omitempty"`
	Stderr   string   `json:"stderr,omitempty"`
	DryRun   bool     `json:"dry_run,omitempty"`
}

// TestResult captures the outcome of a single test identifier.
type TestResult struct {
	ID     string       `json:"id"`
	Source string       `json:"source"`
	Output string       `json:"output"`
	Status string       `json:"status"`
	Kind   Kind         `json:"kind,omitempty"`
	Steps  []StepResult `json:"steps"`
	DryRun bool         `json:"dry_run"`
}

// Step returns the recorded step for stage, if any.
func (r TestResult) Step(stage Stage) (StepResult, bool) {
	for _, s := range r.Steps {
		if s.Stage == stage {
			return s, true
		}
	}
	return StepResult{}, false
}

// Summary aggregates results across all tests of one harness run.
type Summary struct {
	Total    int `json:"total"`
	Passed   int `json:"passed"`
	Failed   int `json:"failed"`
	Skipped  int `json:"skipped"`
	ExitCode int `json:"exit_code"`
}

// Add tallies one finished test.
func (s *Summary) Add(result TestResult) {
	s.Total++
	switch result.Status {
	case StatusPassed:
		s.Passed++
	case StatusSkipped:
		s.Skipped++
	default:
		s.Failed++
		s.ExitCode = 1
	}
}

// AllPassed reports whether no test failed.
func (s Summary) AllPassed() bool {
	return s.Failed == 0
}
