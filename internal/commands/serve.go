package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/hardy/onion/internal/config"
	"github.com/hardy/onion/internal/genai"
	"github.com/hardy/onion/internal/server"
)

var listenFlag string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the key-holding proxy endpoint",
	Long: `Start the HTTP proxy that forwards prompts to the Gemini API.

The API key is read from the GEMINI_API_KEY environment variable and
never leaves this process; chat clients talk to /api/genai and see only
generated text or error messages. The listen address comes from the
--listen flag, the PORT environment variable, or the config file, in
that order.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe()
	},
}

func init() {
	serveCmd.Flags().StringVarP(&listenFlag, "listen", "l", "", "Address to listen on (e.g. localhost:4000)")
}

func runServe() error {
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Warn().Err(err).Msg("config unreadable, using defaults")
	}

	apiKey := config.APIKey()
	if apiKey == "" {
		// The server still starts; POST requests report the missing key.
		log.Warn().Msg("GEMINI_API_KEY not set, completion requests will fail")
	}

	gen, err := genai.NewClient(apiKey, genai.WithModel(cfg.DefaultModel))
	if err != nil {
		return fmt.Errorf("failed to create upstream client: %w", err)
	}

	addr := config.ResolveListenAddr(listenFlag, cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return server.New(addr, apiKey, gen, log).Run(ctx)
}
