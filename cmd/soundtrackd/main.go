// Command soundtrackd serves the game soundtrack catalog and download
// manager over HTTP: album search, track listings, background downloads with
// progress and cancellation, and an audio stream proxy.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/droidspec/droidspec/cmd/soundtrackd/internal/api"
	"github.com/droidspec/droidspec/pkg/downloads"
	"github.com/droidspec/droidspec/pkg/khinsider"
)

var (
	addr    string
	outDir  string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "soundtrackd",
	Short: "HTTP backend for the Game SoundTracks app",
	RunE: func(cmd *cobra.Command, args []string) error {
		if verbose {
			log.SetLevel(log.DebugLevel)
		}

		dir := outDir
		if dir == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return fmt.Errorf("failed to resolve home directory: %w", err)
			}
			dir = filepath.Join(home, "Downloads", "GameSoundtracks")
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create download directory: %w", err)
		}

		client := khinsider.NewClient()
		server := api.NewServer(client, downloads.NewManager(client), dir)

		log.Info("listening", "addr", addr, "downloads", dir)
		return http.ListenAndServe(addr, server.Router())
	},
}

func init() {
	rootCmd.Flags().StringVar(&addr, "addr", "127.0.0.1:5000", "listen address")
	rootCmd.Flags().StringVar(&outDir, "downloads", "", "download directory (default ~/Downloads/GameSoundtracks)")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
}

func main() {
	if err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		os.Exit(1)
	}
}
