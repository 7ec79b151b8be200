package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hardy/onion/internal/bus"
	"github.com/hardy/onion/internal/client"
	"github.com/hardy/onion/internal/config"
	"github.com/hardy/onion/internal/history"
	"github.com/hardy/onion/internal/tui"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start the interactive chat TUI",
	Long: `Start the interactive chat TUI against the onion proxy.

The conversation pane shows one exchange at a time; the history panel
lists past prompts when the terminal is wide enough. Type 'exit',
'quit', or press Ctrl+C to end the session.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runChat()
	},
}

func runChat() error {
	cfg, _ := config.LoadConfig()

	c, err := client.New(cfg.ServerURL)
	if err != nil {
		return fmt.Errorf("failed to create client: %w", err)
	}

	store, err := history.DefaultStore(cfg.HistoryLimit)
	if err != nil {
		return fmt.Errorf("failed to open history: %w", err)
	}

	notifier := bus.NewNotifier()

	// External edits to the history file refresh the panel; the chat
	// still works without a watcher.
	watcher, err := history.Watch(store)
	if err != nil {
		watcher = nil
	}
	if watcher != nil {
		defer watcher.Close()
	}

	return tui.RunChat(c, store, notifier, watcher)
}
