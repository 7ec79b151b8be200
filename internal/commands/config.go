package commands

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/hardy/onion/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View and edit settings",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the current configuration",
	RunE:  runConfigShow,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Long: `Set a configuration value. Keys:

  server_url          Proxy address the chat client talks to
  listen_addr         Address 'onion serve' binds to
  default_model       Upstream model identifier
  copy_to_clipboard   Copy one-shot responses to the clipboard (true/false)
  history_limit       Maximum retained history entries`,
	Args: cobra.ExactArgs(2),
	RunE: runConfigSet,
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	path, _ := config.GetConfigPath()
	fmt.Printf("Config file: %s\n\n", path)
	fmt.Printf("server_url        = %s\n", cfg.ServerURL)
	fmt.Printf("listen_addr       = %s\n", cfg.ListenAddr)
	fmt.Printf("default_model     = %s\n", cfg.DefaultModel)
	fmt.Printf("copy_to_clipboard = %t\n", cfg.CopyToClipboard)
	fmt.Printf("history_limit     = %d\n", cfg.HistoryLimit)
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	key, value := args[0], args[1]

	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	switch key {
	case "server_url":
		cfg.ServerURL = value
	case "listen_addr":
		cfg.ListenAddr = value
	case "default_model":
		cfg.DefaultModel = value
	case "copy_to_clipboard":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean %q", value)
		}
		cfg.CopyToClipboard = b
	case "history_limit":
		n, err := strconv.Atoi(value)
		if err != nil || n <= 0 {
			return fmt.Errorf("invalid history limit %q", value)
		}
		cfg.HistoryLimit = n
	default:
		return fmt.Errorf("unknown config key %q", key)
	}

	if err := config.SaveConfig(cfg); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	fmt.Printf("%s = %s\n", key, value)
	return nil
}
