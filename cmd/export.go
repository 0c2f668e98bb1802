package cmd

import (
	"fmt"
	"os"
	"slices"

	"github.com/achernya/autoclip/export"
	"github.com/achernya/autoclip/profile"
	"github.com/achernya/autoclip/session"
	"github.com/spf13/cobra"
)

var (
	exportStart   float64
	exportEnd     float64
	exportProfile string
)

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().Float64Var(&exportStart, "start", 0, "start of the clip in seconds")
	exportCmd.Flags().Float64Var(&exportEnd, "end", 0, "end of the clip in seconds")
	exportCmd.Flags().StringVarP(&exportProfile, "profile", "p", profile.CopyID, "id of the encoding profile")
}

var exportCmd = &cobra.Command{
	Use:   "export [file]",
	Short: "Cut one clip without the interactive screen",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := newLogger(os.Stderr)
		a, err := newApp(logger)
		if err != nil {
			return err
		}
		defer a.Close()

		st, err := session.New(a.catalog)
		if err != nil {
			return err
		}
		idx := slices.IndexFunc(a.catalog, func(p profile.Profile) bool {
			return p.ID == exportProfile
		})
		if idx < 0 {
			return fmt.Errorf("no profile %q; see the profiles command", exportProfile)
		}

		st.Toggle(args[0])
		for st.ProfileIndex() != idx {
			st.CycleProfile(session.Next)
		}
		// Marks left off the command line stay unset so the
		// coordinator reports them.
		if cmd.Flags().Changed("start") {
			st.SetStart(exportStart)
		}
		if cmd.Flags().Changed("end") {
			st.SetEnd(exportEnd)
		}

		o := <-a.exporter.Export(cmd.Context(), st, "")
		fmt.Fprintln(cmd.OutOrStdout(), o.Message())
		if o.Kind != export.Success {
			return fmt.Errorf("export %s", o.Kind)
		}
		return nil
	},
}
