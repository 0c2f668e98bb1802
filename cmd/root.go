package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/achernya/autoclip/export"
	"github.com/achernya/autoclip/ffmpeg"
	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	ffmpegPath    = "ffmpeg"
	ffprobePath   = "ffprobe"
	probeTimeout  = "probe_timeout"
	diagnosticLog = "diagnostic_log"
	dbdir         = "dbdir"
	logFile       = "log_file"
	logLevel      = "log_level"
	singleFlight  = "single_flight"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "autoclip",
	Short: "autoclip marks ranges of a playing file and cuts them out with ffmpeg",
}

func init() {
	cobra.OnInitialize(initConfig)

	f := rootCmd.PersistentFlags()
	f.StringVar(&cfgFile, "config", "", "config file (default $XDG_CONFIG_HOME/autoclip/config.toml)")
	f.String(ffmpegPath, "", "path to ffmpeg; searched for when empty")
	f.String(ffprobePath, "", "path to ffprobe; searched for when empty")
	f.Duration(probeTimeout, ffmpeg.DefaultProbeTimeout, "how long to wait for ffprobe")
	f.String(diagnosticLog, export.DefaultDiagnosticPath(), "file describing the last failed export")
	f.String(dbdir, defaultDBDir(), "directory holding the export history")
	f.String(logFile, filepath.Join(os.TempDir(), "autoclip.log"), "log file used while the interactive screen is up")
	f.String(logLevel, "info", "log level: trace, debug, info, warn, error or off")
	f.Bool(singleFlight, false, "refuse to start an export while another one is running")

	for _, name := range []string{ffmpegPath, ffprobePath, probeTimeout, diagnosticLog, dbdir, logFile, logLevel, singleFlight} {
		if err := viper.BindPFlag(name, f.Lookup(name)); err != nil {
			panic(err)
		}
	}
}

func defaultDBDir() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return "."
	}
	return filepath.Join(dir, "autoclip")
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		if dir, err := os.UserConfigDir(); err == nil {
			viper.AddConfigPath(filepath.Join(dir, "autoclip"))
		}
		viper.SetConfigName("config")
		viper.SetConfigType("toml")
	}
	viper.SetEnvPrefix("autoclip")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile == "" && errors.As(err, &notFound) {
			return
		}
		fmt.Fprintln(os.Stderr, "reading config:", err)
		os.Exit(1)
	}
}

func Execute() {
	if err := fang.Execute(context.Background(), rootCmd); err != nil {
		os.Exit(1)
	}
}
