package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"vired/internal/adapters/tui"
	"vired/internal/bootstrap"
	"vired/internal/config"
	"vired/internal/logging"
)

func main() {
	configFlag := flag.String("config", "", "path to the config file")
	flag.Parse()

	if err := run(*configFlag, flag.Arg(0)); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath, dir string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	// the terminal belongs to the TUI
	switch cfg.Log.OutputPath {
	case "", "stdout", "stderr":
		if err := os.MkdirAll(config.DataDir(), 0o755); err != nil {
			return err
		}
		cfg.Log.OutputPath = filepath.Join(config.DataDir(), "vired.log")
	}
	if err := logging.Init(cfg.Log); err != nil {
		return err
	}
	defer logging.Sync()

	if dir == "" {
		dir = config.StartDir()
	}

	rt := bootstrap.New(cfg, bootstrap.Options{Watch: true})
	defer rt.Close()

	app, err := tui.NewApp(tui.Deps{
		Sessions:  rt.Sessions,
		Refresher: rt.Refresher,
		Notifier:  rt.Notifier(),
		Editor:    rt.Editor,
		Hidden:    rt.Lister,
		Keymap:    cfg.Keymap,
		Layout:    cfg.Layout,
	}, dir)
	if err != nil {
		return err
	}
	return tui.Run(app)
}
