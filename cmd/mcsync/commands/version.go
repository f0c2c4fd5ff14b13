package commands

import (
	"fmt"
	"io"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/mcsync/cmd"
)

func init() {
	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version information",
	Long:  `Print the version, commit, build date and Go runtime of mcsync.`,
	Args:  cobra.NoArgs,
	Run: func(c *cobra.Command, _ []string) {
		writeVersion(c.OutOrStdout())
	},
}

func writeVersion(w io.Writer) {
	fmt.Fprintf(w, "mcsync version %s\n", cmd.Version)
	fmt.Fprintf(w, "  commit:    %s\n", cmd.Commit)
	fmt.Fprintf(w, "  built:     %s\n", cmd.Date)
	fmt.Fprintf(w, "  go:        %s\n", runtime.Version())
	fmt.Fprintf(w, "  platform:  %s/%s\n", runtime.GOOS, runtime.GOARCH)
}
