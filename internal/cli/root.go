// Package cli implements the ReCircle command-line interface using Cobra.
// Each subcommand maps to a service capability (serve, stats, top, etc.).
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "recircle",
	Short: "ReCircle — Recycling gamification service",
	Long: `ReCircle is the backend for the map-centric recycling platform.
It accounts XP, levels, streaks, and activity history for recycling
actions, and serves the dashboard, leaderboard, and report APIs.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command. Called from main.go.
func Execute(version string) {
	rootCmd.Version = version

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
