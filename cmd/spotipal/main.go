package main

import (
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/myspotipal/spotipal/pkg/config"
)

var (
	version   = "dev"
	gitCommit string
)

var configPath string

func formatVersion() string {
	v := version
	if gitCommit != "" {
		v += fmt.Sprintf(" (git: %s)", gitCommit)
	}
	return v
}

func main() {
	rootCmd := &cobra.Command{
		Use:   "spotipal",
		Short: "SpotiPal, a conversational assistant for your Spotify library",
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config",
		config.DefaultConfigPath(), "Path to the config file")

	rootCmd.AddCommand(
		newServeCmd(),
		newChatCmd(),
		newVersionCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("🎧 spotipal %s\n", formatVersion())
			fmt.Printf("  Go: %s\n", runtime.Version())
		},
	}
}
