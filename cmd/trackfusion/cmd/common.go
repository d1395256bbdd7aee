// cmd/trackfusion/cmd/common.go
package cmd

import (
	"log/slog"
	"os"

	"github.com/kallerwest/trackfusion/config"
)

// ConfigureLogger sets up a structured logger with appropriate options and
// installs it as the process default.
func ConfigureLogger(verbose bool, jsonFormat bool) *slog.Logger {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	if verbose {
		opts.Level = slog.LevelDebug
	}

	var handler slog.Handler
	if jsonFormat {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}

// loadConfig loads configuration from ConfigFile (or defaults if empty) and
// logs a configuration error before returning it; callers turn that error
// into exit code 2 per the CLI's exit code convention.
func loadConfig(logger *slog.Logger) (config.Config, error) {
	cfg, err := config.Load(ConfigFile)
	if err != nil {
		logger.Error("invalid configuration", "error", err)
		return config.Config{}, err
	}
	return cfg, nil
}
