package cmd

import (
	"github.com/spf13/cobra"

	"github.com/truthylabs/truthy/internal/server"
)

var flagServeAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the detection HTTP API",
	Long: `Serve the detection pipeline over HTTP.

POST /detect accepts {"paragraph","question","answer"} and returns the full
classification result. The provider is chosen per request via the
X-Provider header (auto, openai, anthropic, ollama, heuristic) and remote
credentials are passed per request via X-API-Key — the server never stores
client keys. GET /health reports version and available providers.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		addr := flagServeAddr
		if addr == "" {
			addr = cfg.Addr
		}
		return server.New(newFactory(), Version).Run(addr)
	},
}

func init() {
	serveCmd.Flags().StringVar(&flagServeAddr, "addr", "", "listen address (default from config, :8080)")
	rootCmd.AddCommand(serveCmd)
}
