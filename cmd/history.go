package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/achernya/autoclip/db"
	"github.com/achernya/autoclip/session"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var historyLimit int

func init() {
	historyCmd.AddCommand(historyShowCmd)
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "how many exports to list; 0 lists all")
	rootCmd.AddCommand(historyCmd)
}

var (
	historyCmd = &cobra.Command{
		Use:   "history",
		Short: "List past exports, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := openDB()
			if err != nil {
				return err
			}
			exports, err := db.ListExports(d, historyLimit)
			if err != nil {
				return err
			}
			if len(exports) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No exports yet.")
				return nil
			}
			rows := make([][]string, 0, len(exports))
			for _, e := range exports {
				rows = append(rows, []string{
					fmt.Sprint(e.ID),
					humanize.Time(e.CreatedAt),
					filepath.Base(e.Source),
					session.FormatTimestamp(e.StartSeconds) + " - " + session.FormatTimestamp(e.EndSeconds),
					e.Profile,
					e.Outcome,
					outputSize(e.Output),
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"ID", "When", "Source", "Range", "Profile", "Outcome", "Size"},
				rows,
				[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignLeft, alignLeft, alignRight},
			))
			return nil
		},
	}
	historyShowCmd = &cobra.Command{
		Use:   "show [id or uuid]",
		Short: "Show the command line and encoder output of one export",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := openDB()
			if err != nil {
				return err
			}
			e, err := db.FindExport(d, args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Export %d (%s)\n", e.ID, e.UUID)
			fmt.Fprintf(out, "When:    %s\n", e.CreatedAt.Format("2006-01-02 15:04:05"))
			fmt.Fprintf(out, "Source:  %s\n", e.Source)
			fmt.Fprintf(out, "Output:  %s\n", e.Output)
			fmt.Fprintf(out, "Outcome: %s (exit code %d)\n", e.Outcome, e.ExitCode)
			fmt.Fprintf(out, "Command: %s %s\n", e.Executable, strings.Join(e.Args, " "))

			r, err := db.NewLogReader(d, e.ID)
			if err != nil {
				return err
			}
			defer r.Close()
			fmt.Fprintln(out, "Encoder output:")
			_, err = io.Copy(out, r)
			return err
		},
	}
)

func outputSize(path string) string {
	fi, err := os.Stat(path)
	if err != nil {
		return "-"
	}
	return humanize.Bytes(uint64(fi.Size()))
}
