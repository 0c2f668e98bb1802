package cmd

import (
	"context"
	"errors"
	"os"
	"path/filepath"

	"github.com/achernya/autoclip/player"
	"github.com/achernya/autoclip/session"
	"github.com/achernya/autoclip/tui"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	tea "github.com/charmbracelet/bubbletea"
)

var (
	mpvSocket     string
	clockDuration float64
)

func init() {
	rootCmd.AddCommand(clipCmd)
	clipCmd.Flags().StringVar(&mpvSocket, "mpv-socket", "", "follow a running mpv through its --input-ipc-server socket")
	clipCmd.Flags().Float64Var(&clockDuration, "duration", 0, "length of the file in seconds, when known, so the playhead stops there")
}

func isTerminal(f *os.File) bool {
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

var clipCmd = &cobra.Command{
	Use:   "clip [file]",
	Short: "Mark clips while watching and export them",
	Long: `Mark clips while watching and export them.

With --mpv-socket, marks follow the playhead of a running mpv and
messages are mirrored onto its screen. Otherwise a virtual playhead
runs over the given file.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if !isTerminal(os.Stdout) {
			return errors.New("clip needs a terminal; use export for scripted cuts")
		}
		if mpvSocket == "" && len(args) == 0 {
			return errors.New("give a file to clip or --mpv-socket")
		}

		f, err := os.OpenFile(viper.GetString(logFile), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return err
		}
		defer f.Close()
		logger := newLogger(f)

		a, err := newApp(logger)
		if err != nil {
			return err
		}
		defer a.Close()

		// Cancelling ctx kills any encode still running when the
		// screen goes away.
		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()

		var p player.Player
		if mpvSocket != "" {
			mpv, err := player.DialMPV(ctx, mpvSocket)
			if err != nil {
				return err
			}
			defer mpv.Close()
			p = mpv
		} else {
			path, err := filepath.Abs(args[0])
			if err != nil {
				return err
			}
			if _, err := os.Stat(path); err != nil {
				return err
			}
			p = player.NewClock(path, clockDuration)
		}

		st, err := session.New(a.catalog)
		if err != nil {
			return err
		}
		m := tui.New(ctx, tui.Config{
			Session:  st,
			Exporter: a.exporter,
			Player:   p,
			Keys:     keyMap(),
			Logger:   logger,
		})
		logger.Info("clip screen starting", "profiles", len(a.catalog))
		_, err = tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return nil
		}
		return err
	},
}
