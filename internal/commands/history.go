package commands

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/hardy/onion/internal/config"
	"github.com/hardy/onion/internal/history"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Manage conversation history",
	Long:  `View and manage the local prompt history.`,
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved prompts, most recent first",
	RunE:  runHistoryList,
}

var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete all history entries",
	RunE:  runHistoryClear,
}

func init() {
	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyClearCmd)
}

func openStore() (*history.Store, error) {
	cfg, _ := config.LoadConfig()
	return history.DefaultStore(cfg.HistoryLimit)
}

func runHistoryList(cmd *cobra.Command, args []string) error {
	store, err := openStore()
	if err != nil {
		return fmt.Errorf("failed to open history: %w", err)
	}

	entries, err := store.List()
	if err != nil {
		return fmt.Errorf("failed to list history: %w", err)
	}

	if len(entries) == 0 {
		fmt.Println("No history yet.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "WHEN\tPROMPT\tFILE")
	_, _ = fmt.Fprintln(w, "----\t------\t----")

	for _, entry := range entries {
		when := time.UnixMilli(entry.ID).Format("2006-01-02 15:04")
		prompt := entry.Prompt
		if len(prompt) > 60 {
			prompt = prompt[:60] + "..."
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\n", when, prompt, entry.FileName)
	}

	return w.Flush()
}

func runHistoryClear(cmd *cobra.Command, args []string) error {
	store, err := openStore()
	if err != nil {
		return fmt.Errorf("failed to open history: %w", err)
	}

	if err := store.Clear(); err != nil {
		return fmt.Errorf("failed to clear history: %w", err)
	}

	fmt.Println("History cleared.")
	return nil
}
