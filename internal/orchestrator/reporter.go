package orchestrator

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"

	"github.com/thoreinstein/mcsync/internal/errors"
	"github.com/thoreinstein/mcsync/internal/rollback"
)

// Format specifies the output format for run reports.
type Format string

const (
	// FormatText produces human-readable text output.
	FormatText Format = "text"
	// FormatJSON produces machine-readable JSON output.
	FormatJSON Format = "json"
)

// Reporter formats and writes run reports.
type Reporter struct {
	out    io.Writer
	format Format
}

// NewReporter creates a new Reporter.
func NewReporter(out io.Writer, format Format) *Reporter {
	return &Reporter{
		out:    out,
		format: format,
	}
}

// Report writes the run report to the output.
func (r *Reporter) Report(report *Report) error {
	if report == nil {
		return nil
	}

	switch r.format {
	case FormatJSON:
		return r.reportJSON(report)
	default:
		r.reportText(report)
		return nil
	}
}

type jsonResult struct {
	Folder        string   `json:"folder"`
	Succeeded     bool     `json:"succeeded"`
	Error         string   `json:"error,omitempty"`
	Files         int      `json:"files"`
	Bytes         int64    `json:"bytes"`
	Backup        string   `json:"backup,omitempty"`
	CleanupErrors []string `json:"cleanup_errors,omitempty"`
}

type jsonOutcome struct {
	Folder string `json:"folder"`
	Status string `json:"status"`
	Backup string `json:"backup,omitempty"`
	Error  string `json:"error,omitempty"`
}

type jsonReport struct {
	Root        string        `json:"root"`
	SourceRoot  string        `json:"source_root"`
	Succeeded   bool          `json:"succeeded"`
	Error       string        `json:"error,omitempty"`
	Results     []jsonResult  `json:"results"`
	Skipped     []string      `json:"skipped,omitempty"`
	Rollback    []jsonOutcome `json:"rollback,omitempty"`
	RollbackErr string        `json:"rollback_error,omitempty"`
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

// reportJSON writes the report as JSON.
func (r *Reporter) reportJSON(report *Report) error {
	out := jsonReport{
		Root:        report.Root,
		SourceRoot:  report.SourceRoot,
		Succeeded:   report.Succeeded(),
		Error:       errString(report.Err),
		Results:     []jsonResult{},
		RollbackErr: errString(report.RollbackErr),
	}
	for _, res := range report.Results {
		jr := jsonResult{
			Folder:    res.Folder.String(),
			Succeeded: res.Succeeded,
			Error:     errString(res.Err),
			Files:     res.Files,
			Bytes:     res.Bytes,
		}
		if res.Backup != nil {
			jr.Backup = res.Backup.Name
		}
		for _, err := range res.CleanupErrors {
			jr.CleanupErrors = append(jr.CleanupErrors, err.Error())
		}
		out.Results = append(out.Results, jr)
	}
	for _, k := range report.Skipped {
		out.Skipped = append(out.Skipped, k.String())
	}
	if report.Rollback != nil {
		for _, o := range report.Rollback.Outcomes {
			jo := jsonOutcome{Folder: o.Kind.String(), Status: o.Status.String(), Error: errString(o.Err)}
			if o.Backup != nil {
				jo.Backup = o.Backup.Name
			}
			out.Rollback = append(out.Rollback, jo)
		}
	}

	encoder := json.NewEncoder(r.out)
	encoder.SetIndent("", "  ")
	return errors.Wrap(encoder.Encode(out), "encoding JSON report")
}

// reportText writes the report as human-readable text.
func (r *Reporter) reportText(report *Report) {
	fmt.Fprintf(r.out, "Destination: %s\n", report.Root)
	if report.SourceRoot != "" {
		fmt.Fprintf(r.out, "Source:      %s\n", report.SourceRoot)
	}
	fmt.Fprintln(r.out)

	for _, res := range report.Results {
		if res.Succeeded {
			fmt.Fprintf(r.out, "  %-14s %s  %d files, %s\n",
				res.Folder, color.GreenString("✓ SUCCESS"), res.Files, humanize.Bytes(uint64(res.Bytes)))
		} else {
			fmt.Fprintf(r.out, "  %-14s %s  %v\n", res.Folder, color.RedString("✗ FAILED"), res.Err)
		}
		if res.Backup != nil {
			fmt.Fprintf(r.out, "  %-14s %s\n", "", color.New(color.FgHiBlack).Sprintf("backup: %s", res.Backup.Name))
		}
		for _, err := range res.CleanupErrors {
			fmt.Fprintf(r.out, "  %-14s %s\n", "", color.YellowString("warning: %v", err))
		}
	}
	for _, k := range report.Skipped {
		fmt.Fprintf(r.out, "  %-14s %s\n", k, color.YellowString("- skipped"))
	}

	if report.Err != nil {
		fmt.Fprintf(r.out, "\n%s %v\n", color.RedString("Error:"), report.Err)
	}
	if report.Rollback != nil || report.RollbackErr != nil {
		fmt.Fprintln(r.out)
		WriteRollback(r.out, report.Rollback)
		if report.RollbackErr != nil {
			fmt.Fprintf(r.out, "%s %v\n", color.RedString("Rollback failed:"), report.RollbackErr)
		}
	}

	fmt.Fprintln(r.out)
	if report.Succeeded() {
		fmt.Fprintln(r.out, color.GreenString("✓ Sync completed"))
	} else {
		fmt.Fprintln(r.out, color.RedString("✗ Sync failed"))
	}
}

// WriteRollback writes the outcomes of a rollback as text.
func WriteRollback(w io.Writer, rb *rollback.Report) {
	if rb == nil {
		return
	}
	fmt.Fprintln(w, "Rollback:")
	for _, o := range rb.Outcomes {
		switch o.Status {
		case rollback.StatusRestored:
			fmt.Fprintf(w, "  %-14s %s from %s\n", o.Kind, color.GreenString("✓ restored"), o.Backup.Name)
		case rollback.StatusNothingToRestore:
			fmt.Fprintf(w, "  %-14s %s\n", o.Kind, color.YellowString("- nothing to restore"))
		default:
			fmt.Fprintf(w, "  %-14s %s  %v\n", o.Kind, color.RedString("✗ failed"), o.Err)
		}
		for _, warn := range o.Warnings {
			fmt.Fprintf(w, "  %-14s %s\n", "", color.YellowString("warning: %v", warn))
		}
	}
}
