// Package bot adapts the Telegram platform to the extraction pipeline:
// it receives message updates, guards per-user concurrency, and replies
// with the interpretation outcome. Replies are fire-and-forget.
package bot

import (
	"context"
	"log/slog"
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/AlvesGus/finbot/internal/common"
	"github.com/AlvesGus/finbot/internal/model"
)

// Interpreter resolves a free-text statement into a complete movement
// record, or nil when no provider could produce one.
type Interpreter interface {
	Interpret(ctx context.Context, text string) (*model.Movement, error)
}

// Store is the transaction backend the bot persists to and reads from.
type Store interface {
	CreateTransaction(ctx context.Context, tx model.Transaction) error
	ListTransactions(ctx context.Context, telegramID string) ([]model.Transaction, error)
}

// Sender is the outbound half of the Telegram API. *tgbotapi.BotAPI
// satisfies it.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Bot wires Telegram updates to the interpretation pipeline.
type Bot struct {
	api      Sender
	interp   Interpreter
	store    Store
	logger   *slog.Logger
	inflight inflight
	dedupe   dedupe
}

// New creates the bot adapter.
func New(api Sender, interp Interpreter, store Store, logger *slog.Logger) *Bot {
	if logger == nil {
		logger = slog.Default()
	}
	return &Bot{
		api:    api,
		interp: interp,
		store:  store,
		logger: logger,
	}
}

// Run consumes the update channel until the context ends. Each update is
// handled on its own goroutine; cross-user concurrency is unbounded while
// per-user concurrency is capped at one by the inflight registry.
func (b *Bot) Run(ctx context.Context, updates tgbotapi.UpdatesChannel) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			go b.handleUpdate(ctx, update)
		}
	}
}

// handleUpdate dispatches one update. Panics are contained here so a bad
// message never takes the process down.
func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	if update.Message == nil || update.Message.From == nil {
		return
	}
	msg := update.Message

	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("message handler panicked", "update_id", update.UpdateID, "panic", r)
			b.reply(msg.Chat.ID, "⚠️ Ocorreu um erro ao interpretar sua transação.")
		}
	}()

	if msg.IsCommand() {
		b.handleCommand(ctx, msg)
		return
	}
	if msg.Text == "" {
		return
	}

	b.handleStatement(ctx, update.UpdateID, msg)
}

func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message) {
	switch msg.Command() {
	case "start":
		b.reply(msg.Chat.ID, "Bem-vindo, "+msg.From.FirstName+"! 👋")
		b.reply(msg.Chat.ID, "Envie sua nova transação para que eu cadastre.")
		b.replyMarkdown(msg.Chat.ID, "Exemplo: *Gastei 150 reais no mercado hoje\\.*")
	case "minhastransacoes":
		b.reply(msg.Chat.ID, "🔎 Buscando suas transações...")
		b.handleList(ctx, msg)
	default:
		b.logger.Debug("ignoring unknown command", "command", msg.Command())
	}
}

func (b *Bot) handleList(ctx context.Context, msg *tgbotapi.Message) {
	transactions, err := b.store.ListTransactions(ctx, strconv.FormatInt(msg.From.ID, 10))
	if err != nil {
		b.logger.Error("failed to list transactions", "user_id", msg.From.ID, "error", err)
		b.reply(msg.Chat.ID, common.UserMessage(err, "⚠️ Não consegui recuperar suas transações."))
		return
	}
	b.replyMarkdown(msg.Chat.ID, renderTransactions(transactions))
}

// handleStatement runs the interpretation pipeline for one free-text
// statement. Redelivery suppression applies only here, not to commands,
// and at most one statement per user is processed at a time; the busy
// flag is released on every exit path.
func (b *Bot) handleStatement(ctx context.Context, updateID int, msg *tgbotapi.Message) {
	if b.dedupe.Seen(int64(updateID)) {
		b.logger.Warn("dropping redelivered update", "update_id", updateID)
		return
	}

	userID := msg.From.ID

	if !b.inflight.TryAcquire(userID) {
		b.reply(msg.Chat.ID, "⏳ Aguarde, ainda estou processando sua última transação...")
		return
	}
	defer b.inflight.Release(userID)

	b.reply(msg.Chat.ID, "💭 Entendendo sua mensagem...")

	mv, err := b.interp.Interpret(ctx, msg.Text)
	if err != nil {
		b.logger.Error("interpretation aborted", "user_id", userID, "error", err)
		b.reply(msg.Chat.ID, "⚠️ Ocorreu um erro ao interpretar sua transação.")
		return
	}
	if mv == nil {
		b.replyMarkdown(msg.Chat.ID, "❌ Não consegui entender sua mensagem\\. Tente algo como: *Gastei 80 reais no posto hoje\\.*")
		return
	}

	tx := model.TransactionFromMovement(mv, strconv.FormatInt(userID, 10), msg.From.FirstName)
	if err := b.store.CreateTransaction(ctx, tx); err != nil {
		b.logger.Error("failed to save transaction", "user_id", userID, "error", err)
		b.reply(msg.Chat.ID, common.UserMessage(err, "⚠️ Erro ao salvar a transação no servidor."))
		return
	}

	b.logger.Info("transaction saved",
		"user_id", userID,
		"title", tx.Title,
		"amount", tx.Amount,
		"category", tx.Category)
	b.reply(msg.Chat.ID, "✅ Transação registrada com sucesso no servidor!")
}

// reply sends plain text; failures are logged and otherwise ignored.
func (b *Bot) reply(chatID int64, text string) {
	if _, err := b.api.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		b.logger.Warn("failed to send reply", "chat_id", chatID, "error", err)
	}
}

// replyMarkdown sends a MarkdownV2 message.
func (b *Bot) replyMarkdown(chatID int64, text string) {
	m := tgbotapi.NewMessage(chatID, text)
	m.ParseMode = tgbotapi.ModeMarkdownV2
	if _, err := b.api.Send(m); err != nil {
		b.logger.Warn("failed to send reply", "chat_id", chatID, "error", err)
	}
}
