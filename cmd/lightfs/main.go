// Command lightfs opens (or initializes) a volume file and runs the
// interactive shell on it.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/pflag"

	"github.com/hupe1980/lightfs"
	"github.com/hupe1980/lightfs/internal/shell"
)

func main() {
	var (
		volumePath = pflag.StringP("volume", "v", "light.fs", "path of the backing volume file")
		configPath = pflag.StringP("config", "c", "", "optional YAML config file")
		logLevel   = pflag.String("log-level", "warn", "log level (debug, info, warn, error)")
		logJSON    = pflag.Bool("log-json", false, "emit JSON logs")
	)
	pflag.Parse()

	if err := run(*volumePath, *configPath, *logLevel, *logJSON); err != nil {
		fmt.Fprintln(os.Stderr, "lightfs:", err)
		os.Exit(1)
	}
}

func run(volumePath, configPath, logLevel string, logJSON bool) error {
	cfg := defaultConfig()
	if configPath != "" {
		loaded, err := loadConfig(configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	// An explicit --volume flag wins over the config file.
	if pflag.CommandLine.Changed("volume") || cfg.Volume == "" {
		cfg.Volume = volumePath
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(logLevel)); err != nil {
		return fmt.Errorf("invalid log level %q: %w", logLevel, err)
	}
	logger := lightfs.NewTextLogger(level)
	if logJSON {
		logger = lightfs.NewJSONLogger(level)
	}

	vol, err := lightfs.New(cfg.Volume,
		lightfs.WithGeometry(cfg.geometry()),
		lightfs.WithLogger(logger),
	)
	if err != nil {
		return err
	}

	if !vol.Initialized() {
		fmt.Fprintf(os.Stdout, "initializing volume at %s\n", cfg.Volume)
		if err := vol.Init(); err != nil {
			return err
		}
	}

	return shell.New(vol, os.Stdin, os.Stdout).Run()
}
