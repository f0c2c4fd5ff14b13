package doctor

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubCheck struct {
	name     string
	category Category
	status   Severity
	fixable  bool
	fixed    int
}

func (s *stubCheck) Name() string       { return s.name }
func (s *stubCheck) Category() Category { return s.category }
func (s *stubCheck) Run() *CheckResult {
	return &CheckResult{Name: s.name, Category: s.category, Status: s.status, Fixable: s.fixable}
}

type stubFixer struct {
	stubCheck
}

func (s *stubFixer) CanFix() bool { return s.fixable }
func (s *stubFixer) Fix() []FixResult {
	s.fixed++
	return []FixResult{{Path: s.name, Fixed: true, Description: "fixed"}}
}

func TestRunner_OrdersByCategory(t *testing.T) {
	r := NewRunner(
		&stubCheck{name: "installer", category: CategoryInstaller},
		&stubCheck{name: "backups", category: CategoryBackups},
		&stubCheck{name: "destination", category: CategoryPaths},
		&stubCheck{name: "config", category: CategoryConfig},
		&stubCheck{name: "lock", category: CategoryPaths},
	)
	r.AddCheck(&stubCheck{name: "extra", category: "custom"})

	report := r.Run()

	var got []string
	for _, res := range report.Results {
		got = append(got, res.Name)
	}
	assert.Equal(t, []string{"config", "destination", "lock", "backups", "installer", "extra"}, got)

	// Registration order itself is untouched.
	assert.Equal(t, "installer", r.Checks()[0].Name())
}

func TestRunner_Summary(t *testing.T) {
	tests := []struct {
		name     string
		statuses []Severity
		want     Summary
		worst    Severity
	}{
		{name: "empty runner", worst: SeverityPass},
		{
			name:     "all pass",
			statuses: []Severity{SeverityPass, SeverityPass},
			want:     Summary{Passed: 2},
			worst:    SeverityPass,
		},
		{
			name:     "mixed",
			statuses: []Severity{SeverityPass, SeverityInfo, SeverityWarning, SeverityError, SeverityError},
			want:     Summary{Passed: 1, Info: 1, Warnings: 1, Errors: 2},
			worst:    SeverityError,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRunner()
			for i, s := range tt.statuses {
				r.AddCheck(&stubCheck{name: string(rune('a' + i)), category: CategoryPaths, status: s})
			}

			before := time.Now().UTC()
			report := r.Run()

			assert.Len(t, report.Results, len(tt.statuses))
			assert.False(t, report.Timestamp.Before(before.Add(-time.Second)))
			assert.Equal(t, tt.want, report.Summary)
			assert.Equal(t, tt.worst, report.Worst())
			assert.Equal(t, tt.want.Errors > 0, report.HasErrors())
			assert.Equal(t, tt.want.Warnings > 0, report.HasWarnings())
		})
	}
}

func TestRunner_FixableCountsProblemsOnly(t *testing.T) {
	report := NewRunner(
		&stubCheck{name: "stale", category: CategoryPaths, status: SeverityWarning, fixable: true},
		&stubCheck{name: "clean", category: CategoryBackups, status: SeverityPass, fixable: true},
	).Run()
	assert.Equal(t, 1, report.Summary.Fixable)
}

func TestRunner_Fix(t *testing.T) {
	pending := &stubFixer{stubCheck{name: "lock", category: CategoryPaths, fixable: true}}
	idle := &stubFixer{stubCheck{name: "backups", category: CategoryBackups}}
	r := NewRunner(pending, idle, &stubCheck{name: "config", category: CategoryConfig})

	results := r.Fix()
	require.Len(t, results, 1)
	assert.Equal(t, "lock", results[0].Path)
	assert.Equal(t, 1, pending.fixed)
	assert.Zero(t, idle.fixed, "fixers without pending work are not applied")
}

func TestReport_Blocking(t *testing.T) {
	report := NewRunner(
		&stubCheck{name: "config", category: CategoryConfig, status: SeverityError},
		&stubCheck{name: "destination", category: CategoryPaths, status: SeverityWarning},
		&stubCheck{name: "source", category: CategoryPaths, status: SeverityError},
		&stubCheck{name: "backups", category: CategoryBackups, status: SeverityError},
		&stubCheck{name: "installer", category: CategoryInstaller, status: SeverityError},
	).Run()

	var names []string
	for _, res := range report.Blocking() {
		names = append(names, res.Name)
	}
	assert.Equal(t, []string{"config", "source"}, names)
}

func TestReport_Result(t *testing.T) {
	report := NewRunner(&stubCheck{name: "x", category: CategoryConfig, status: SeverityInfo}).Run()

	require.NotNil(t, report.Result("x"))
	assert.Equal(t, SeverityInfo, report.Result("x").Status)
	assert.Nil(t, report.Result("missing"))
}

func TestSeverity_String(t *testing.T) {
	tests := []struct {
		s    Severity
		want string
	}{
		{SeverityPass, "pass"},
		{SeverityInfo, "info"},
		{SeverityWarning, "warning"},
		{SeverityError, "error"},
		{Severity(9), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.s.String(); got != tt.want {
			t.Errorf("Severity(%d).String() = %q, want %q", tt.s, got, tt.want)
		}
	}
}

func TestSeverity_JSON(t *testing.T) {
	data, err := json.Marshal(&CheckResult{Name: "lock", Category: CategoryPaths, Status: SeverityWarning})
	require.NoError(t, err)
	assert.Contains(t, string(data), `"status":"warning"`)
	assert.Contains(t, string(data), `"category":"paths"`)

	var back CheckResult
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, SeverityWarning, back.Status)

	var s Severity
	assert.Error(t, s.UnmarshalText([]byte("fatal")))
}
