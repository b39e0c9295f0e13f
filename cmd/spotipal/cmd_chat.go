package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/myspotipal/spotipal/pkg/logger"
)

func newChatCmd() *cobra.Command {
	var debug bool
	var sessionID string

	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Chat with SpotiPal from the terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			if debug {
				logger.SetLevel(logger.DEBUG)
			}
			return runChat(cmd.Context(), sessionID)
		},
	}
	cmd.Flags().BoolVar(&debug, "debug", false, "Enable debug logging")
	cmd.Flags().StringVar(&sessionID, "session", "", "Session id to resume (default: a fresh one)")
	return cmd
}

func runChat(ctx context.Context, sessionID string) error {
	a, err := buildApp(ctx, configPath)
	if err != nil {
		return err
	}
	defer a.close()

	go a.sweeper.Run(ctx)

	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "you> ",
		HistoryFile:     filepath.Join(os.TempDir(), ".spotipal_history"),
		HistoryLimit:    100,
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return fmt.Errorf("initializing readline: %w", err)
	}
	defer rl.Close()

	fmt.Println("🎧 SpotiPal interactive chat (exit or Ctrl+D to leave)")
	fmt.Printf("  session: %s\n\n", sessionID)

	for {
		line, err := rl.Readline()
		if err != nil {
			if err == readline.ErrInterrupt || err == io.EOF {
				fmt.Println("\nGoodbye!")
				return nil
			}
			fmt.Printf("Error reading input: %v\n", err)
			continue
		}

		input := strings.TrimSpace(line)
		if input == "" {
			continue
		}
		if input == "exit" || input == "quit" {
			fmt.Println("Goodbye!")
			return nil
		}

		for fragment := range a.orchestrator.Run(ctx, sessionID, input) {
			fmt.Print(fragment)
		}
		fmt.Print("\n\n")
	}
}
