package main

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"

	"github.com/chatdesk/chatdesk/internal/app"
	"github.com/chatdesk/chatdesk/internal/config"
	"github.com/chatdesk/chatdesk/internal/paths"
	"go.uber.org/fx"
)

func main() {
	configFlag := flag.String("config", "", "config file (default ~/.chatdesk/config.toml)")
	levelFlag := flag.String("log-level", "", "log level: debug, info, warn, error (overrides config)")
	plainFlag := flag.Bool("plain", false, "line-oriented mode on stdin/stdout instead of the TUI")
	verboseFlag := flag.Bool("verbose", false, "with --plain, also write logs to stderr")
	initFlag := flag.Bool("init", false, "write the default config file and exit")
	flag.Parse()

	configPath := *configFlag
	if configPath == "" {
		configPath = paths.ConfigPath()
	}

	if *initFlag {
		if err := initConfig(configPath); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("wrote %s\n", configPath)
		return
	}

	application := fx.New(
		app.Options(app.Params{
			ConfigPath: configPath,
			LogLevel:   *levelFlag,
			Plain:      *plainFlag,
			Verbose:    *verboseFlag,
		}),
	)
	if err := application.Err(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	application.Run()
}

// initConfig writes the defaults unless a config already exists.
func initConfig(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config already exists: %s", path)
	} else if !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return config.Save(path, config.Default())
}
