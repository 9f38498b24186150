package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var (
	chatList    bool
	chatHistory string
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Chat with the knowledge base",
	Long: `Starts an interactive question-and-answer loop backed by the
pipeline. Transcripts persist across runs; the knowledge base does
not, so add documents or sync sources first in the same session.

Use --list to show past sessions and --history to print one.`,
	Args: cobra.NoArgs,
	RunE: runChat,
}

func init() {
	chatCmd.Flags().BoolVar(&chatList, "list", false, "list past chat sessions")
	chatCmd.Flags().StringVar(&chatHistory, "history", "", "print the transcript of a session")
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, _ []string) error {
	if chatService == nil {
		return errors.New("chat service not configured")
	}

	ctx := context.Background()

	if chatList {
		return runChatList(ctx, cmd)
	}
	if chatHistory != "" {
		return runChatHistory(ctx, cmd, chatHistory)
	}

	return runChatLoop(ctx, cmd)
}

func runChatList(ctx context.Context, cmd *cobra.Command) error {
	sessions, err := chatService.Sessions(ctx)
	if err != nil {
		return fmt.Errorf("failed to list sessions: %w", err)
	}

	if len(sessions) == 0 {
		cmd.Println("No chat sessions recorded.")
		return nil
	}

	cmd.Println("Sessions:")
	for i := range sessions {
		cmd.Printf("  %s  %s  %s\n",
			sessions[i].ID,
			sessions[i].StartedAt.Format("2006-01-02 15:04"),
			sessions[i].Title)
	}
	return nil
}

func runChatHistory(ctx context.Context, cmd *cobra.Command, sessionID string) error {
	messages, err := chatService.History(ctx, sessionID)
	if err != nil {
		return fmt.Errorf("failed to load history: %w", err)
	}

	for i := range messages {
		msg := messages[i]
		cmd.Printf("[%s] %s\n", msg.Role, msg.Content)
		if msg.Confidence > 0 {
			cmd.Printf("      (confidence %d%%)\n", msg.Confidence)
		}
	}
	return nil
}

func runChatLoop(ctx context.Context, cmd *cobra.Command) error {
	session, err := chatService.StartSession(ctx)
	if err != nil {
		return fmt.Errorf("failed to start session: %w", err)
	}

	cmd.Printf("Chat session %s. Type a question, or \"exit\" to quit.\n\n", session.ID)

	scanner := bufio.NewScanner(cmd.InOrStdin())
	for {
		cmd.Print("> ")
		if !scanner.Scan() {
			break
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "exit" || line == "quit" {
			break
		}

		response, err := chatService.Send(ctx, session.ID, line)
		if err != nil {
			cmd.Printf("Error: %v\n\n", err)
			continue
		}

		cmd.Printf("\n%s\n", response.Answer)
		cmd.Printf("(confidence %d%%, %d sources, %dms)\n\n",
			response.Context.Confidence, len(response.Sources), response.ProcessingTimeMs)
	}

	cmd.Println("Bye.")
	return scanner.Err()
}
