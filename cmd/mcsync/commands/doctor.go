package commands

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/thoreinstein/mcsync/cmd/mcsync/commands/flags"
	"github.com/thoreinstein/mcsync/internal/config"
	"github.com/thoreinstein/mcsync/internal/doctor"
	"github.com/thoreinstein/mcsync/internal/errors"
)

var (
	doctorJSON bool
	doctorFix  bool
	doctorAll  bool
)

func init() {
	doctorCmd.Flags().BoolVar(&doctorJSON, "json", false,
		"output results as JSON")
	doctorCmd.Flags().BoolVar(&doctorFix, "fix", false,
		"prune backups beyond the retention count")
	doctorCmd.Flags().BoolVar(&doctorAll, "all", false,
		"show passed checks too")
	doctorCmd.MarkFlagsMutuallyExclusive("json", "all")
	rootCmd.AddCommand(doctorCmd)
}

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Diagnose configuration and path issues",
	Long: `Run diagnostic checks on the mcsync configuration and the directories
it works with.

Checks the configuration, the game directory, the source folders, the
number of backups per folder, the installer command and the lock file.

Exit codes:
  0 - All checks passed (no errors or warnings)
  1 - Warnings present, no errors
  2 - Errors present`,
	Example: `  # Show problems only
  mcsync doctor

  # Prune backups beyond retention
  mcsync doctor --fix

  # Machine-readable output
  mcsync doctor --json`,
	Args: cobra.NoArgs,
	RunE: runDoctor,
}

func runDoctor(cmd *cobra.Command, _ []string) error {
	return runDoctorWithWriter(flags.Config(), cmd.OutOrStdout())
}

func runDoctorWithWriter(cfg *config.Config, w io.Writer) error {
	runner := doctor.NewRunner(doctor.DefaultChecks(cfg)...)
	report := runner.Run()

	if doctorFix {
		fixOut := w
		if doctorJSON {
			fixOut = io.Discard
		}
		if applyFixes(fixOut, runner) > 0 {
			// Re-run so the report reflects the fixed state.
			report = runner.Run()
		}
	}

	if err := outputDoctorReport(w, report); err != nil {
		return err
	}

	// Determine exit code based on results
	if report.HasErrors() {
		return errors.NewExitError(errDoctorErrors, errors.ExitSystem)
	}
	if report.HasWarnings() {
		return errors.NewExitError(errDoctorWarnings, errors.ExitUser)
	}
	return nil
}

// applyFixes runs the runner's fixers and returns the number of successful
// fixes.
func applyFixes(w io.Writer, runner *doctor.Runner) int {
	fixed := 0
	for _, res := range runner.Fix() {
		if res.Fixed {
			fixed++
			fmt.Fprintf(w, "%s %s: %s\n", color.GreenString("fixed"), res.Path, res.Description)
			continue
		}
		fmt.Fprintf(w, "%s %s: %s\n", color.RedString("not fixed"), res.Path, res.Description)
	}
	if fixed > 0 {
		fmt.Fprintln(w)
	}
	return fixed
}

func outputDoctorReport(w io.Writer, report *doctor.Report) error {
	if doctorJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return errors.Wrap(enc.Encode(report), "encoding JSON")
	}
	outputDoctorText(w, report)
	return nil
}

func outputDoctorText(w io.Writer, report *doctor.Report) {
	hasOutput := false
	for _, result := range report.Results {
		problem := result.Problem()
		if !doctorAll && !problem {
			continue
		}

		hasOutput = true
		fmt.Fprintf(w, "%s [%s] %s: %s\n", statusIcon(result.Status), result.Category, result.Name, result.Message)

		if result.FixHint != "" && problem {
			fmt.Fprintf(w, "  hint: %s\n", result.FixHint)
		}
		if result.Fixable && problem {
			fmt.Fprintln(w, "  fixable: run mcsync doctor --fix")
		}
	}

	if hasOutput {
		fmt.Fprintln(w)
	}

	if blocking := report.Blocking(); len(blocking) > 0 {
		fmt.Fprintf(w, "%s mcsync sync will stop before touching any folder until %d error(s) are fixed\n\n",
			color.RedString("!"), len(blocking))
	}

	fmt.Fprintf(w, "Summary: %d passed, %d info, %d warnings, %d errors\n",
		report.Summary.Passed, report.Summary.Info, report.Summary.Warnings, report.Summary.Errors)
}

func statusIcon(s doctor.Severity) string {
	switch s {
	case doctor.SeverityPass:
		return color.GreenString("✓")
	case doctor.SeverityInfo:
		return color.CyanString("ℹ")
	case doctor.SeverityWarning:
		return color.YellowString("⚠")
	case doctor.SeverityError:
		return color.RedString("✗")
	default:
		return "?"
	}
}

// errDoctorWarnings is a sentinel error for exit code 1.
var errDoctorWarnings = errors.New("doctor found warnings")

// errDoctorErrors is a sentinel error for exit code 2.
var errDoctorErrors = errors.New("doctor found errors")
