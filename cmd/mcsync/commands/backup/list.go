package backup

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/thoreinstein/mcsync/cmd/mcsync/commands/flags"
	"github.com/thoreinstein/mcsync/internal/backup"
	"github.com/thoreinstein/mcsync/internal/config"
	"github.com/thoreinstein/mcsync/internal/errors"
	"github.com/thoreinstein/mcsync/internal/logging"
)

var listJSON bool

func init() {
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Output in JSON format")
	Cmd.AddCommand(listCmd)
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List available backups",
	Long: `List backups in the game directory, grouped by folder, newest first.

Sizes are computed by walking each backup.`,
	Example: `  # List all backups
  mcsync backup list

  # List backups for the mods folder
  mcsync backup list --folder mods

  # Output as JSON
  mcsync backup list --json`,
	Args: cobra.NoArgs,
	RunE: runList,
}

// listOutput represents the JSON output for backup list.
type listOutput struct {
	Folder  string       `json:"folder"`
	Backups []infoOutput `json:"backups"`
}

// infoOutput represents a single backup in JSON output.
type infoOutput struct {
	Name      string    `json:"name"`
	Path      string    `json:"path"`
	CreatedAt time.Time `json:"created_at"`
	Size      int64     `json:"size"`
}

func runList(cmd *cobra.Command, _ []string) error {
	return runListWithWriter(flags.Config(), logging.FromContext(cmd.Context()), cmd.OutOrStdout())
}

func runListWithWriter(cfg *config.Config, logger *slog.Logger, w io.Writer) error {
	t, err := resolveTarget(cfg, logger)
	if err != nil {
		return err
	}

	output := make([]listOutput, 0, len(t.kinds))
	for _, k := range t.kinds {
		backups, err := t.manager.List(t.root, k.String())
		if err != nil {
			return errors.Wrapf(err, "listing backups for %s", k)
		}
		infos := make([]infoOutput, len(backups))
		for i, b := range backups {
			size, err := backup.Size(b)
			if err != nil {
				logger.Warn("could not size backup", "backup", b.Name, "error", err)
				size = -1
			}
			infos[i] = infoOutput{
				Name:      b.Name,
				Path:      b.Path(),
				CreatedAt: b.ModTime,
				Size:      size,
			}
		}
		output = append(output, listOutput{Folder: k.String(), Backups: infos})
	}

	if listJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return errors.Wrap(enc.Encode(output), "encoding output")
	}
	outputListTabular(w, t.root, output)
	return nil
}

func outputListTabular(w io.Writer, root string, output []listOutput) {
	bold := color.New(color.Bold)
	header := color.New(color.FgCyan, color.Bold)

	fmt.Fprintf(w, "Game directory: %s\n", root)

	hasBackups := false
	for _, l := range output {
		fmt.Fprintln(w)
		fmt.Fprintln(w, header.Sprintf("Folder: %s", l.Folder))

		if len(l.Backups) == 0 {
			fmt.Fprintf(w, "  %s\n", color.HiBlackString("(no backups available)"))
			continue
		}
		hasBackups = true

		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintf(tw, "  %s\t%s\t%s\n", bold.Sprint("NAME"), bold.Sprint("CREATED"), bold.Sprint("SIZE"))
		for _, b := range l.Backups {
			size := "?"
			if b.Size >= 0 {
				size = humanize.Bytes(uint64(b.Size))
			}
			fmt.Fprintf(tw, "  %s\t%s\t%s\n",
				color.GreenString(b.Name),
				b.CreatedAt.Local().Format("2006-01-02 15:04:05")+" ("+humanize.Time(b.CreatedAt)+")",
				size)
		}
		tw.Flush()
	}

	if !hasBackups {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "No backups available")
		fmt.Fprintln(w, "Backups are created automatically before mcsync syncs a folder.")
	}
}
