package cmd

import (
	"fmt"
	"os"

	"github.com/achernya/autoclip/ffmpeg"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	rootCmd.AddCommand(probeCmd)
}

var probeCmd = &cobra.Command{
	Use:   "probe [file]",
	Short: "Print the codec of a file's first video stream",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := newLogger(os.Stderr)
		r := ffmpeg.NewResolver("ffprobe", viper.GetString(ffprobePath), nil, logger)
		codec, ok := ffmpeg.NewProber(r, viper.GetDuration(probeTimeout), logger).VideoCodec(cmd.Context(), args[0])
		if !ok {
			return fmt.Errorf("could not determine the video codec of %s", args[0])
		}
		hevc := ""
		if ffmpeg.IsHEVC(codec) {
			hevc = " (HEVC; stream copies are tagged hvc1)"
		}
		fmt.Fprintln(cmd.OutOrStdout(), codec+hevc)
		return nil
	},
}
