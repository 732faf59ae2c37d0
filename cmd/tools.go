package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"moviehub/internal/app/notify"
	"moviehub/internal/app/user"
	"moviehub/internal/configs"
	"moviehub/internal/pkg/auth/jwt"
)

func createStatusCmd() *cobra.Command {
	var baseURL string

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show live WebSocket connections of a running server",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := &http.Client{Timeout: 5 * time.Second}
			return printStatus(cmd.OutOrStdout(), client, baseURL)
		},
	}

	cmd.Flags().StringVar(&baseURL, "url", "http://localhost:8000", "Base URL of the server")
	return cmd
}

func printStatus(w io.Writer, client *http.Client, baseURL string) error {
	res, err := client.Get(strings.TrimRight(baseURL, "/") + "/ws/status")
	if err != nil {
		color.New(color.FgRed).Fprintf(w, "❌ No server reachable at %s\n", baseURL)
		return err
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		color.New(color.FgRed).Fprintf(w, "❌ Server answered %d\n", res.StatusCode)
		return fmt.Errorf("unexpected status %d", res.StatusCode)
	}

	var status notify.Status
	if err := json.NewDecoder(res.Body).Decode(&status); err != nil {
		return fmt.Errorf("failed to decode status: %w", err)
	}

	color.New(color.FgGreen).Fprintf(w, "✅ Server is running at %s\n", baseURL)
	fmt.Fprintf(w, "Active connections: %d\n", status.ActiveConnections)
	for _, id := range status.ConnectedUsers {
		color.New(color.FgCyan).Fprintf(w, "  • %s\n", id)
	}
	return nil
}

func createTokenCmd(envFile *string) *cobra.Command {
	var (
		userID string
		name   string
		ttl    time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint a development HS256 token",
		Long: `Mint a token accepted when AUTH_PROVIDER=jwt. The signing secret is read
from JWT_SECRET (after loading --env-file).`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := configs.LoadEnvFile(*envFile); err != nil {
				return err
			}

			secret := os.Getenv("JWT_SECRET")
			if secret == "" {
				return fmt.Errorf("JWT_SECRET is not set")
			}

			token, err := jwt.GenerateToken(user.User{ID: userID, Name: name}, secret, ttl)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	cmd.Flags().StringVar(&userID, "user", "", "User id to put in the token subject")
	cmd.Flags().StringVar(&name, "name", "", "Display name")
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "Token lifetime")
	_ = cmd.MarkFlagRequired("user")

	return cmd
}
