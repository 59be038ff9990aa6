package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"clarq/internal/ambiguity"
	"clarq/internal/answer"
	"clarq/internal/config"
	"clarq/internal/conversation"
	"clarq/internal/dialog"
	"clarq/internal/followup"
)

var (
	// Global flags
	verbose    bool
	configPath string

	// score flags
	scoreThreshold float64

	// Logger
	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "clarq",
	Short: "clarq - clarify-or-answer conversational engine",
	Long: `clarq scores every user message for ambiguity against the conversation
so far. Ambiguous messages get a targeted follow-up question; clear ones
are answered directly.

Run without arguments to start an interactive chat session.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg := zap.NewProductionConfig()
		cfg.Encoding = "console"
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		cfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
		if verbose {
			cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = cfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runChat(cmd, args)
	},
}

// chatCmd runs the interactive loop
var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive chat session",
	Long: `Starts a read-eval loop. Each message is scored for ambiguity; clarq
either asks a follow-up question or answers directly.

Commands inside the session:
  /new      start a fresh conversation
  /history  print the current conversation transcript
  /quit     save and exit`,
	RunE: runChat,
}

// askCmd processes a single message
var askCmd = &cobra.Command{
	Use:   "ask [message]",
	Short: "Process a single message and print the reply",
	Long: `Runs one message through the clarify-or-answer pipeline.

Example:
  clarq ask "What is the boiling point of water at sea level?"
  clarq ask --conversation 8a1f... "What about it?"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAsk,
}

// scoreCmd inspects the ambiguity assessment without answering
var scoreCmd = &cobra.Command{
	Use:   "score [query]",
	Short: "Score a query for ambiguity and explain why",
	Long: `Prints the ambiguity score, the verdict, the contributing reasons, and
the detected query type. No answer is generated and nothing is stored.

Example:
  clarq score "Is it good?"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runScore,
}

// conversationsCmd lists stored conversations
var conversationsCmd = &cobra.Command{
	Use:   "conversations",
	Short: "List stored conversations",
	RunE:  runConversations,
}

// conversationsShowCmd prints one stored conversation
var conversationsShowCmd = &cobra.Command{
	Use:   "show [id]",
	Short: "Show a stored conversation transcript",
	Args:  cobra.ExactArgs(1),
	RunE:  runConversationsShow,
}

var askConversationID string

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "clarq.yaml", "Config file path")

	askCmd.Flags().StringVar(&askConversationID, "conversation", "", "Continue an existing conversation by ID")
	scoreCmd.Flags().Float64Var(&scoreThreshold, "threshold", 0, "Override the ambiguity threshold (0 uses config)")

	conversationsCmd.AddCommand(conversationsShowCmd)

	rootCmd.AddCommand(chatCmd)
	rootCmd.AddCommand(askCmd)
	rootCmd.AddCommand(scoreCmd)
	rootCmd.AddCommand(conversationsCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newAnswerClient(ctx context.Context, cfg *config.Config) (answer.Client, error) {
	switch cfg.Answer.Provider {
	case "gemini":
		return answer.NewGeminiClient(ctx, cfg.Answer.APIKey, cfg.Answer.Model, logger)
	case "canned":
		return answer.NewCannedClient(), nil
	default:
		return nil, fmt.Errorf("unknown answer provider: %s", cfg.Answer.Provider)
	}
}

// buildEngine assembles the full pipeline from config. The caller owns the
// returned store and must close it.
func buildEngine(ctx context.Context, cfg *config.Config) (*dialog.Engine, *conversation.Store, error) {
	store, err := conversation.OpenStore(cfg.Storage.DatabasePath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open conversation store: %w", err)
	}

	client, err := newAnswerClient(ctx, cfg)
	if err != nil {
		store.Close()
		return nil, nil, err
	}

	detector := ambiguity.NewDetector(
		ambiguity.WithThreshold(cfg.Detection.Threshold),
		ambiguity.WithDetectorLogger(logger),
	)
	composer := followup.NewComposer(followup.WithComposerLogger(logger))
	manager := conversation.NewManager(store, logger)

	engine := dialog.NewEngine(detector, composer, client, manager,
		dialog.WithWindow(cfg.Detection.HistoryWindow),
		dialog.WithLogger(logger),
	)
	return engine, store, nil
}

func runChat(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	engine, store, err := buildEngine(ctx, cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	fmt.Printf("clarq chat (provider: %s). /new starts over, /quit exits.\n\n", cfg.Answer.Provider)

	scanner := bufio.NewScanner(os.Stdin)
	conversationID := ""
	for {
		fmt.Print("you> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		switch line {
		case "":
			continue
		case "/quit", "/exit", "exit", "quit":
			fmt.Println("bye")
			return scanner.Err()
		case "/new":
			conversationID = ""
			fmt.Println("started a new conversation")
			continue
		case "/history":
			if conversationID == "" {
				fmt.Println("no conversation yet")
				continue
			}
			conv, ok := engine.Conversation(conversationID)
			if !ok {
				fmt.Println("no conversation yet")
				continue
			}
			for _, msg := range conv.Messages {
				fmt.Printf("[%s] %s: %s\n", msg.Timestamp.Format("15:04:05"), msg.Role, msg.Content)
			}
			continue
		}

		turn, err := engine.ProcessMessage(ctx, conversationID, line)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			continue
		}
		conversationID = turn.ConversationID

		if turn.IsFollowUp {
			fmt.Printf("clarq (follow-up, score %.2f)> %s\n\n", turn.Assessment.Score, turn.Reply)
		} else {
			fmt.Printf("clarq> %s\n\n", turn.Reply)
		}
	}
	return scanner.Err()
}

func runAsk(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	engine, store, err := buildEngine(ctx, cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	message := strings.Join(args, " ")
	turn, err := engine.ProcessMessage(ctx, askConversationID, message)
	if err != nil {
		return err
	}

	fmt.Println(turn.Reply)
	if turn.IsFollowUp {
		fmt.Fprintf(os.Stderr, "\n[follow-up question, ambiguity score %.2f, conversation %s]\n",
			turn.Assessment.Score, turn.ConversationID)
	} else {
		fmt.Fprintf(os.Stderr, "\n[answered by %s, conversation %s]\n", turn.Model, turn.ConversationID)
	}
	return nil
}

func runScore(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	threshold := cfg.Detection.Threshold
	if scoreThreshold > 0 {
		threshold = scoreThreshold
	}

	detector := ambiguity.NewDetector(
		ambiguity.WithThreshold(threshold),
		ambiguity.WithDetectorLogger(logger),
	)

	query := strings.Join(args, " ")
	assessment := detector.Assess(query, nil)
	result := ambiguity.Classify(query)

	fmt.Printf("query:     %s\n", query)
	fmt.Printf("score:     %.2f (threshold %.2f)\n", assessment.Score, assessment.Threshold)
	fmt.Printf("ambiguous: %v\n", assessment.IsAmbiguous)
	fmt.Printf("type:      %s\n", result.Type)
	if result.MatchedText != "" {
		fmt.Printf("matched:   %q\n", result.MatchedText)
	}
	if len(assessment.Reasons) > 0 {
		fmt.Println("reasons:")
		for _, r := range assessment.ReasonStrings() {
			fmt.Printf("  - %s\n", r)
		}
	}
	return nil
}

func runConversations(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	store, err := conversation.OpenStore(cfg.Storage.DatabasePath)
	if err != nil {
		return fmt.Errorf("failed to open conversation store: %w", err)
	}
	defer store.Close()

	summaries, err := store.List()
	if err != nil {
		return err
	}
	if len(summaries) == 0 {
		fmt.Println("no stored conversations")
		return nil
	}

	for _, s := range summaries {
		fmt.Printf("%s  %s  %d turns\n", s.ID, s.UpdatedAt.Format(time.RFC3339), s.TurnCount)
	}
	return nil
}

func runConversationsShow(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	store, err := conversation.OpenStore(cfg.Storage.DatabasePath)
	if err != nil {
		return fmt.Errorf("failed to open conversation store: %w", err)
	}
	defer store.Close()

	conv, err := store.Load(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("conversation %s (%d turns, %d clarifications)\n\n",
		conv.ID, conv.Meta.TurnCount, conv.Meta.ClarificationCount)
	for _, msg := range conv.Messages {
		fmt.Printf("[%s] %s: %s\n", msg.Timestamp.Format("15:04:05"), msg.Role, msg.Content)
	}
	return nil
}
