package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/achernya/autoclip/db"
	"github.com/achernya/autoclip/export"
	"github.com/achernya/autoclip/ffmpeg"
	"github.com/achernya/autoclip/profile"
	"github.com/achernya/autoclip/tui"
	"github.com/charmbracelet/bubbles/key"
	"github.com/hashicorp/go-hclog"
	"github.com/spf13/viper"
	"gorm.io/gorm"
)

// app is everything a command needs to export clips, built from the
// configuration.
type app struct {
	logger   hclog.Logger
	catalog  profile.Catalog
	encoder  *ffmpeg.Resolver
	prober   *ffmpeg.Prober
	history  *db.History
	exporter *export.Coordinator
}

func newLogger(w io.Writer) hclog.Logger {
	return hclog.New(&hclog.LoggerOptions{
		Name:   "autoclip",
		Level:  hclog.LevelFromString(viper.GetString(logLevel)),
		Output: w,
	})
}

func openDB() (*gorm.DB, error) {
	dir := viper.GetString(dbdir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return db.OpenDB(filepath.Join(dir, "autoclip.sqlite"))
}

func newApp(logger hclog.Logger) (*app, error) {
	catalog, err := profile.Load(viper.GetViper())
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	d, err := openDB()
	if err != nil {
		return nil, fmt.Errorf("opening export history: %w", err)
	}
	a := &app{
		logger:  logger,
		catalog: catalog,
		encoder: ffmpeg.NewResolver("ffmpeg", viper.GetString(ffmpegPath), nil, logger),
		history: db.NewHistory(d),
	}
	probe := ffmpeg.NewResolver("ffprobe", viper.GetString(ffprobePath), nil, logger)
	a.prober = ffmpeg.NewProber(probe, viper.GetDuration(probeTimeout), logger)
	a.exporter = export.NewCoordinator(a.encoder, a.prober, logger, export.Options{
		History:      a.history,
		Diagnostics:  export.NewDiagnosticLog(viper.GetString(diagnosticLog)),
		SingleFlight: viper.GetBool(singleFlight),
	})
	return a, nil
}

func (a *app) Close() error {
	sqlDB, err := a.history.DB().DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// keyMap starts from the default bindings and replaces those named
// under keys.* in the configuration.
func keyMap() tui.KeyMap {
	km := tui.DefaultKeyMap()
	for name, b := range map[string]*key.Binding{
		"toggle": &km.Toggle,
		"start":  &km.Start,
		"end":    &km.End,
		"prev":   &km.Previous,
		"next":   &km.Next,
		"export": &km.Export,
	} {
		k := "keys." + name
		if !viper.IsSet(k) {
			continue
		}
		*b = tui.Binding(viper.GetStringSlice(k), b.Help().Desc)
	}
	return km
}
