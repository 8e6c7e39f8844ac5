package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/AlvesGus/finbot/internal/backend"
	"github.com/AlvesGus/finbot/internal/bot"
	"github.com/AlvesGus/finbot/internal/common"
	"github.com/AlvesGus/finbot/internal/config"
	"github.com/AlvesGus/finbot/internal/llm"
)

var (
	version = "dev"
	rootCmd = &cobra.Command{
		Use:   "finbot",
		Short: "💸 Telegram bot that turns free text into transaction records",
		Long: `finbot listens for statements like "Gastei 80 reais no posto hoje",
extracts a structured transaction with Gemini (falling back to Groq), and
persists it through the transaction backend.`,
		PersistentPreRunE: initConfig,
		RunE:              run,
	}
)

func init() {
	rootCmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "console", "log format (console, json)")

	_ = viper.BindPFlag("logging.level", rootCmd.PersistentFlags().Lookup("log-level"))
	_ = viper.BindPFlag("logging.format", rootCmd.PersistentFlags().Lookup("log-format"))

	rootCmd.AddCommand(versionCmd())
}

func main() {
	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		slog.Info("Received interrupt signal, shutting down gracefully...")
		cancel()
	}()

	err := rootCmd.ExecuteContext(ctx)
	cancel()

	if err != nil && !errors.Is(err, context.Canceled) {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func initConfig(_ *cobra.Command, _ []string) error {
	viper.SetEnvPrefix("FINBOT")
	viper.AutomaticEnv()

	if err := setupLogging(); err != nil {
		return fmt.Errorf("failed to setup logging: %w", err)
	}

	return nil
}

func run(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	cfg, err := config.Load(viper.GetViper())
	if err != nil {
		// Missing credentials are fatal at startup, never retried
		// per message.
		return fmt.Errorf("configuration: %w", err)
	}

	keys := llm.NewKeyring(cfg.GeminiKeys)

	primary, err := llm.NewGemini(keys, llm.Config{Model: cfg.GeminiModel})
	if err != nil {
		return fmt.Errorf("gemini client: %w", err)
	}

	var fallback llm.Extractor
	if cfg.GroqKey != "" {
		fallback, err = llm.NewGroq(cfg.GroqKey, llm.Config{Model: cfg.GroqModel})
		if err != nil {
			return fmt.Errorf("groq client: %w", err)
		}
	} else {
		slog.Warn("no Groq key configured, running without a fallback provider")
	}

	interp := llm.NewInterpreter(primary, fallback, keys, cfg.RetryBackoff, slog.Default())

	store, err := backend.NewClient(cfg.BackendURL, cfg.BackendTimeout)
	if err != nil {
		return fmt.Errorf("backend client: %w", err)
	}

	api, err := tgbotapi.NewBotAPI(cfg.TelegramToken)
	if err != nil {
		return fmt.Errorf("telegram: %w", err)
	}
	slog.Info("bot connected", "username", api.Self.UserName, "gemini_keys", keys.Len())

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := api.GetUpdatesChan(u)

	err = bot.New(api, interp, store, slog.Default()).Run(ctx, updates)
	api.StopReceivingUpdates()
	return err
}

func setupLogging() error {
	level := viper.GetString("logging.level")
	format := viper.GetString("logging.format")

	var slogLevel slog.Level
	switch level {
	case "debug":
		slogLevel = slog.LevelDebug
	case "info":
		slogLevel = slog.LevelInfo
	case "warn":
		slogLevel = slog.LevelWarn
	case "error":
		slogLevel = slog.LevelError
	default:
		return fmt.Errorf("invalid log level: %s", level)
	}

	return common.SetupLogger(slogLevel, format)
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(_ *cobra.Command, _ []string) {
			slog.Info("finbot version", "version", version)
		},
	}
}
