package doctor

import (
	"slices"
	"time"
)

// Check inspects one aspect of an mcsync setup.
type Check interface {
	Name() string
	Category() Category
	Run() *CheckResult
}

// Runner executes checks and collects a Report.
type Runner struct {
	checks []Check
}

// NewRunner creates a runner with checks registered in order.
func NewRunner(checks ...Check) *Runner {
	return &Runner{checks: slices.Clone(checks)}
}

// AddCheck registers c after the existing checks.
func (r *Runner) AddCheck(c Check) {
	r.checks = append(r.checks, c)
}

// Checks returns the registered checks in registration order.
func (r *Runner) Checks() []Check {
	return r.checks
}

// Run executes every check. Results are ordered by category and keep
// registration order within a category.
func (r *Runner) Run() *Report {
	report := &Report{
		Timestamp: time.Now().UTC(),
		Results:   make([]*CheckResult, 0, len(r.checks)),
	}
	for _, check := range r.checks {
		res := check.Run()
		report.Results = append(report.Results, res)
		report.Summary.add(res)
	}
	slices.SortStableFunc(report.Results, func(a, b *CheckResult) int {
		return a.Category.rank() - b.Category.rank()
	})
	return report
}

// Fix applies every check that implements Fixer and has pending work. It
// must follow Run, since checks record what to fix while running.
func (r *Runner) Fix() []FixResult {
	var results []FixResult
	for _, c := range r.checks {
		f, ok := c.(Fixer)
		if !ok || !f.CanFix() {
			continue
		}
		results = append(results, f.Fix()...)
	}
	return results
}

// Report is the outcome of one doctor run.
type Report struct {
	Timestamp time.Time      `json:"timestamp"`
	Results   []*CheckResult `json:"results"`
	Summary   Summary        `json:"summary"`
}

func (r *Report) HasErrors() bool   { return r.Summary.Errors > 0 }
func (r *Report) HasWarnings() bool { return r.Summary.Warnings > 0 }

// Worst returns the highest severity in the report.
func (r *Report) Worst() Severity {
	worst := SeverityPass
	for _, res := range r.Results {
		worst = max(worst, res.Status)
	}
	return worst
}

// Result returns the result of the named check, or nil.
func (r *Report) Result(name string) *CheckResult {
	for _, res := range r.Results {
		if res.Name == name {
			return res
		}
	}
	return nil
}

// Blocking returns the errors that make "mcsync sync" stop before any folder
// is touched.
func (r *Report) Blocking() []*CheckResult {
	var out []*CheckResult
	for _, res := range r.Results {
		if res.Status == SeverityError && res.Category.BlocksSync() {
			out = append(out, res)
		}
	}
	return out
}
