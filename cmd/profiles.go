package cmd

import (
	"fmt"
	"strings"

	"github.com/achernya/autoclip/profile"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	rootCmd.AddCommand(profilesCmd)
}

func modeName(m profile.Mode) string {
	switch m {
	case profile.ModeCopy:
		return "copy"
	case profile.ModeEncode:
		return "encode"
	}
	return "unsupported"
}

var profilesCmd = &cobra.Command{
	Use:   "profiles",
	Short: "List the encoding profiles clips can be exported with",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		catalog, err := profile.Load(viper.GetViper())
		if err != nil {
			return err
		}
		rows := make([][]string, 0, len(catalog))
		for i, p := range catalog {
			rows = append(rows, []string{
				fmt.Sprint(i + 1),
				p.ID,
				p.Label,
				modeName(p.Mode()),
				strings.Join(p.Options, " "),
			})
		}
		fmt.Fprintln(cmd.OutOrStdout(), renderTable(
			[]string{"#", "ID", "Label", "Mode", "Options"},
			rows,
			[]columnAlignment{alignRight},
		))
		return nil
	},
}
