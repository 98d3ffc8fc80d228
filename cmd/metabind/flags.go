package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"slices"
)

// globalFlags are accepted by every subcommand.
type globalFlags struct {
	ConfigPath string
	LogLevel   string
	LogFormat  string
}

func (g *globalFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&g.ConfigPath, "config",
		getEnv("METABIND_CONFIG", ""),
		"Path to configuration file (env: METABIND_CONFIG)")

	fs.StringVar(&g.LogLevel, "log-level",
		getEnv("METABIND_LOG_LEVEL", ""),
		"Log level: debug, info, warn, error (env: METABIND_LOG_LEVEL)")

	fs.StringVar(&g.LogFormat, "log-format",
		getEnv("METABIND_LOG_FORMAT", ""),
		"Log format: json, text (env: METABIND_LOG_FORMAT)")
}

func (g *globalFlags) validate() error {
	if g.LogLevel != "" && !slices.Contains([]string{"debug", "info", "warn", "error"}, g.LogLevel) {
		return fmt.Errorf("invalid log level: %s", g.LogLevel)
	}

	if g.LogFormat != "" && !slices.Contains([]string{"json", "text"}, g.LogFormat) {
		return fmt.Errorf("invalid log format: %s", g.LogFormat)
	}

	if g.ConfigPath != "" {
		if _, err := os.Stat(g.ConfigPath); err != nil {
			return fmt.Errorf("config file not found: %s", g.ConfigPath)
		}
	}

	return nil
}

// newFlagSet creates a subcommand flag set with the global flags registered.
func newFlagSet(name, usage string, stderr io.Writer, g *globalFlags) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(stderr)
	g.register(fs)

	fs.Usage = func() {
		_, _ = fmt.Fprintf(stderr, "Usage: %s %s\n\nOptions:\n", appName, usage)
		fs.PrintDefaults()
	}

	return fs
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}

	return defaultValue
}

func printUsage(w io.Writer) {
	_, _ = fmt.Fprintf(w, `%s - derive component models, bind and validate data

Usage: %s <command> [options]

Commands:
  describe   print the model tree of schema or Go types
  check      validate a schema file
  bind       bind a YAML document to a type and validate it
  decode     bind a framed record to a type and validate it
  version    print the version

Examples:
  %s describe -schema shop.yaml -type Order
  %s describe -pkg ./store,./warehouse -type store.Order
  %s check -schema shop.yaml
  %s bind -schema shop.yaml -type Order -data order.yaml -out order.rec
  %s decode -schema shop.yaml -type Order -in order.rec

Run '%s <command> -h' for command options.
`, appName, appName, appName, appName, appName, appName, appName, appName)
}
