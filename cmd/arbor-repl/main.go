// Package main provides arbor-repl, an interactive editor for parse trees.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

const (
	Version = "0.1.0"
	appName = "arbor-repl"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var (
		configPath string
		logLevel   string
		rootLabel  string
		prompt     string
	)

	cmd := &cobra.Command{
		Use:   appName,
		Short: "Interactive parse tree editor",
		Long: `arbor-repl reads commands from standard input and applies them to a
parse tree: parse bracket notation, markup or rule trees, query spans,
covers and fills, edit the tree in place, and mark heads.

Type 'help' at the prompt for the list of commands.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			flags := cmd.Flags()
			if flags.Changed("log-level") {
				cfg.LogLevel = logLevel
			}
			if flags.Changed("root-label") {
				cfg.RootLabel = rootLabel
			}
			if flags.Changed("prompt") {
				cfg.Prompt = prompt
			}
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}

			level, _ := parseLevel(cfg.LogLevel)
			logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
			slog.SetDefault(logger)
			logger.Debug("configuration loaded",
				"config", configPath,
				"root_label", cfg.RootLabel,
				"undo_depth", cfg.UndoDepth)

			repl := newREPL(cfg, cmd.InOrStdin(), cmd.OutOrStdout(), logger)
			return repl.Run()
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Config file path (YAML)")
	cmd.Flags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	cmd.Flags().StringVar(&rootLabel, "root-label", "ROOT", "Label of the synthetic root for markup input")
	cmd.Flags().StringVar(&prompt, "prompt", "arbor> ", "Prompt printed before each command")

	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s version %s\n", appName, Version)
		},
	})

	return cmd
}
