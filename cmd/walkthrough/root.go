package main

import (
	"fmt"
	"os"

	"github.com/aretw0/walkthrough/internal/cli"
	"github.com/aretw0/walkthrough/internal/config"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "walkthrough",
	Short: "Walkthrough is a chat-style guided installation assistant",
	Long: `Walkthrough guides a user through installing an application one step at a time.
It asks to watch the screen, looks at a frame whenever a step is reported done,
and moves on when the step checks out.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "Config file (default ./"+config.DefaultName+".yaml when present, or $WALKTHROUGH_CONFIG)")
	flags.String("log-level", "", "Log level: debug, info, warn, error")
	flags.String("log-format", "", "Log format: text, json")
	flags.String("catalog", "", "YAML step catalog (default: built-in LangGraph Studio walkthrough)")
	flags.String("store", "", "Session store: memory, file, redis")
	flags.String("data-dir", "", "Directory for the file store")
	flags.String("redis-url", "", "Redis URL for the redis store")
	flags.Duration("session-ttl", 0, "Expire idle sessions after this long (redis store)")
	flags.String("capture", "", "Capture mode: static, command, inbox")
	flags.String("capture-command", "", "Screenshot command for the command capture mode")
	flags.StringSlice("capture-arg", nil, "Argument for the screenshot command (repeatable)")
	flags.String("analysis", "", "Analysis mode: stub, remote")
	flags.String("analysis-endpoint", "", "Base URL of an OpenAI-compatible API for remote analysis")
	flags.String("model", "", "Model for remote analysis")
	flags.Bool("redact-secrets", true, "Mask provider API keys in stored messages")
	flags.String("encryption-key", "", "Base64 AES-256 key sealing stored sessions (prefer $WALKTHROUGH_ENCRYPTION_KEY)")
}

// loadConfig resolves the config file, environment and flags, in that order.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path, cmd.Flags())
	if err != nil {
		return config.Config{}, err
	}
	return cfg, cfg.Validate()
}

// buildApp loads the config and wires the guide.
func buildApp(cmd *cobra.Command, interactive bool) (*cli.App, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	logger, err := cli.NewLogger(cfg, interactive)
	if err != nil {
		return nil, err
	}
	return cli.Build(cfg, logger)
}
