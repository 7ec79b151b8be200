// Package commands provides CLI commands for onion.
package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	outputFlag string
	fileFlag   string
	attachFlag string

	// Version info (set at build time)
	Version   = "0.1.0"
	BuildTime = "unknown"
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "onion [prompt]",
	Short: "Chat front end for the Gemini API behind a key-holding proxy",
	Long: `onion is a small chat front end for the Gemini generative AI API.
The API key stays with 'onion serve', a local proxy; every other command
talks to the proxy and never sees the credential.

Examples:
  onion serve                       Start the proxy (needs GEMINI_API_KEY)
  onion chat                        Start the interactive chat TUI
  onion "What is Go?"               Send a single query
  onion -f prompt.md                Read prompt from file
  cat prompt.md | onion             Read prompt from stdin
  onion "Hello" -o response.md      Save response to file
  onion -a photo.png "Describe it"  Attach a file to the query`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if v, _ := cmd.Flags().GetBool("version"); v {
			fmt.Printf("onion %s (built %s)\n", Version, BuildTime)
			return nil
		}

		stat, _ := os.Stdin.Stat()
		hasStdin := (stat.Mode() & os.ModeCharDevice) == 0

		if fileFlag != "" {
			data, err := os.ReadFile(fileFlag)
			if err != nil {
				return fmt.Errorf("failed to read file: %w", err)
			}
			return runQuery(string(data), !isStdoutTTY())
		}

		if hasStdin {
			data, err := io.ReadAll(os.Stdin)
			if err != nil {
				return fmt.Errorf("failed to read stdin: %w", err)
			}
			return runQuery(string(data), !isStdoutTTY())
		}

		if len(args) > 0 {
			return runQuery(args[0], !isStdoutTTY())
		}

		return cmd.Help()
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().StringVarP(&outputFlag, "output", "o", "", "Save response to file")
	rootCmd.Flags().StringVarP(&fileFlag, "file", "f", "", "Read prompt from file")
	rootCmd.Flags().StringVarP(&attachFlag, "attach", "a", "", "Path to a file to attach")
	rootCmd.Flags().BoolP("version", "v", false, "Show version and exit")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(chatCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(configCmd)
}
