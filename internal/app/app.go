// Package app turns command-line flags and the configuration file into a
// running toolkit context. The demo programs share it.
package app

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/tinyrange/lightgui/internal/config"
	"github.com/tinyrange/lightgui/internal/toolkit"
	"github.com/tinyrange/lightgui/internal/window"
)

type Flags struct {
	ConfigPath string
	Backend    string
}

func (f *Flags) Register(fs *flag.FlagSet) {
	fs.StringVar(&f.ConfigPath, "config", "", "path to config.yaml (default: user config dir)")
	fs.StringVar(&f.Backend, "backend", "", "backend to use: auto, x11, win32 or headless (overrides config)")
}

// Load reads the configuration named by the flags and applies overrides.
func (f Flags) Load() (*config.Config, error) {
	path := f.ConfigPath
	if path == "" {
		p, err := config.DefaultConfigPath()
		if err != nil {
			return nil, err
		}
		path = p
	}
	cfg, err := config.LoadFromPath(path)
	if err != nil {
		return nil, err
	}
	if f.Backend != "" {
		cfg.Backend = f.Backend
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// Start loads the configuration, installs a text logger on logOut and
// initializes the configured backend.
func Start(f Flags, logOut io.Writer) (*toolkit.Context, error) {
	cfg, err := f.Load()
	if err != nil {
		return nil, err
	}

	level, _ := cfg.Level()
	idle, _ := cfg.Idle()
	bg, _ := cfg.BackgroundColor()

	if logOut == nil {
		logOut = os.Stderr
	}
	log := slog.New(slog.NewTextHandler(logOut, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(log)

	backend, err := window.New(window.Options{
		Backend:    cfg.Backend,
		Font:       cfg.Font,
		Background: bg,
	})
	if err != nil {
		return nil, err
	}

	ctx, err := toolkit.Initialize(backend,
		toolkit.WithLogger(log),
		toolkit.WithIdleInterval(idle),
	)
	if err != nil {
		return nil, fmt.Errorf("initialize %s backend: %w", backend.Name(), err)
	}
	log.Info("toolkit ready", "backend", backend.Name(), "idle", idle)
	return ctx, nil
}
