package doctor

import "github.com/thoreinstein/mcsync/internal/errors"

// Severity ranks a check result. A higher value is worse.
type Severity int

const (
	SeverityPass Severity = iota
	SeverityInfo
	SeverityWarning
	SeverityError
)

var severityNames = map[Severity]string{
	SeverityPass:    "pass",
	SeverityInfo:    "info",
	SeverityWarning: "warning",
	SeverityError:   "error",
}

func (s Severity) String() string {
	if name, ok := severityNames[s]; ok {
		return name
	}
	return "unknown"
}

// MarshalText encodes the severity by name, so JSON reports read "warning"
// rather than 2.
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText parses a severity name.
func (s *Severity) UnmarshalText(text []byte) error {
	for sev, name := range severityNames {
		if name == string(text) {
			*s = sev
			return nil
		}
	}
	return errors.Newf("unknown severity %q", text)
}

// Category groups checks. Reports list categories in the order declared here.
type Category string

const (
	CategoryConfig    Category = "config"
	CategoryPaths     Category = "paths"
	CategoryBackups   Category = "backups"
	CategoryInstaller Category = "installer"
)

var categoryOrder = []Category{CategoryConfig, CategoryPaths, CategoryBackups, CategoryInstaller}

func (c Category) rank() int {
	for i, known := range categoryOrder {
		if c == known {
			return i
		}
	}
	return len(categoryOrder)
}

// BlocksSync reports whether an error in c stops "mcsync sync" during
// validation, before any folder is moved to a backup.
func (c Category) BlocksSync() bool {
	return c == CategoryConfig || c == CategoryPaths
}

// CheckResult is the outcome of a single check.
type CheckResult struct {
	Name     string   `json:"name"`
	Category Category `json:"category"`
	Status   Severity `json:"status"`
	Message  string   `json:"message"`

	// Details holds check-specific values such as per-folder backup counts.
	Details map[string]any `json:"details,omitempty"`

	// Fixable is set when "mcsync doctor --fix" can resolve the problem.
	Fixable bool   `json:"fixable,omitempty"`
	FixHint string `json:"fix_hint,omitempty"`
}

// Problem reports whether the result is a warning or an error.
func (r *CheckResult) Problem() bool {
	return r.Status >= SeverityWarning
}

// Summary counts results by severity.
type Summary struct {
	Passed   int `json:"passed"`
	Info     int `json:"info"`
	Warnings int `json:"warnings"`
	Errors   int `json:"errors"`
	Fixable  int `json:"fixable"`
}

func (s *Summary) add(r *CheckResult) {
	switch r.Status {
	case SeverityPass:
		s.Passed++
	case SeverityInfo:
		s.Info++
	case SeverityWarning:
		s.Warnings++
	case SeverityError:
		s.Errors++
	}
	if r.Fixable && r.Problem() {
		s.Fixable++
	}
}
