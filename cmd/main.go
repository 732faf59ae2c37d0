/*
Package main is the entry point for the movie notification server.

The default command loads configuration, initializes the global logging system, opens the
store, starts the HTTP server with the WebSocket endpoint and gracefully handles operating
system interrupt signals (SIGINT, SIGTERM). The status and token commands are operator tools.
*/
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	var envFile string

	serveCmd := createServeCmd(&envFile)

	rootCmd := &cobra.Command{
		Use:   "moviehub",
		Short: "MovieHub - real-time movie notification server",
		Long: `MovieHub serves the movie catalog API and pushes favorite notifications
to every connected user over WebSockets.

Running without a subcommand is the same as "moviehub serve".`,
		SilenceUsage: true,
		RunE:         serveCmd.RunE,
	}
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "File with environment variables to load before reading configuration")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(createStatusCmd())
	rootCmd.AddCommand(createTokenCmd(&envFile))

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
