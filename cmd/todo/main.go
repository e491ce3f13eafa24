package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/idilsaglam/todolist/internal/cli"
	"github.com/idilsaglam/todolist/internal/config"
	"github.com/idilsaglam/todolist/internal/logging"
)

func main() {
	// Root flags (apply to every subcommand)
	configFile := flag.String("config", "", "path to a todo.toml config file")
	backend := flag.String("backend", "", "storage backend: file, sqlite, redis, memory")
	dataDir := flag.String("data-dir", "", "directory for the snapshot, database and log")
	theme := flag.String("theme", "", "color theme: classic, neon, mono")
	groupPending := flag.Bool("group", false, "group output by pending/done")
	flag.Parse()

	// Hand the remaining args to the CLI runner.
	args := flag.Args()
	if len(args) == 0 {
		cli.PrintHelp()
		os.Exit(2)
	}

	ov := config.Overrides{
		ConfigFile: *configFile,
		Backend:    *backend,
		DataDir:    *dataDir,
		Theme:      *theme,
	}
	// Only an explicitly passed -group overrides the config file.
	flag.Visit(func(f *flag.Flag) {
		if f.Name == "group" {
			ov.Group = groupPending
		}
	})

	cfg, err := config.Load(ov)
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(2)
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		fmt.Fprintln(os.Stderr, "log:", err)
		os.Exit(1)
	}
	logger.Debug().Str("backend", cfg.Backend).Str("config", cfg.Source).Strs("args", args).Msg("start")

	code := cli.Run(args, cli.Options{
		Config: cfg,
		Logger: logger.Logger,
	})
	logger.Close()
	if code != 0 {
		fmt.Fprintln(os.Stderr)
	}
	os.Exit(code)
}
