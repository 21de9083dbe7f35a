package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds REPL settings. Values come from an optional YAML file and are
// overridden by command-line flags.
type Config struct {
	Prompt    string `yaml:"prompt"`
	LogLevel  string `yaml:"log_level"`
	RootLabel string `yaml:"root_label"` // label of the synthetic root for markup input
	UndoDepth int    `yaml:"undo_depth"`
}

func defaultConfig() Config {
	return Config{
		Prompt:    "arbor> ",
		LogLevel:  "info",
		RootLabel: "ROOT",
		UndoDepth: 32,
	}
}

// loadConfig reads path over the defaults. Environment variables in the file
// are expanded before parsing. An empty path yields the defaults.
func loadConfig(path string) (Config, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), &cfg); err != nil {
		return cfg, fmt.Errorf("parse config file: %w", err)
	}
	return cfg, nil
}

// Validate checks that the configuration is usable.
func (c Config) Validate() error {
	if c.UndoDepth < 0 {
		return fmt.Errorf("undo_depth must not be negative, got %d", c.UndoDepth)
	}
	if _, err := parseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

func parseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("unknown log level %q (debug, info, warn, error)", s)
}
