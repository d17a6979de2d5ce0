package hosting

import (
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/crivero/shoebox/src/features/config"
	"github.com/crivero/shoebox/src/features/extracting"
	"github.com/crivero/shoebox/src/features/jobs"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// TelegramCommandHandler interface that each feature implements
type TelegramCommandHandler interface {
	HandleCommand(bot *tgbotapi.BotAPI, chatID int64, command string, args string) error
	GetCommands() map[string]string                                             // Returns command -> description mapping
	HandleCallback(bot *tgbotapi.BotAPI, callback *tgbotapi.CallbackQuery) bool // Handle feature-specific callbacks
}

// TelegramBot handles Telegram bot operations
type TelegramBot struct {
	bot      *tgbotapi.BotAPI
	config   *config.Manager
	handlers map[string]TelegramCommandHandler
	updates  tgbotapi.UpdatesChannel
	stopChan chan struct{}
}

// NewTelegramBot creates a new Telegram bot instance
func NewTelegramBot(cfg *config.Manager, extractingService *extracting.Service, jobService *jobs.Service) (*TelegramBot, error) {
	telegramConfig := cfg.Get().Telegram

	if !telegramConfig.Enabled {
		return nil, fmt.Errorf("telegram bot is disabled in configuration")
	}

	if telegramConfig.Token == "" {
		return nil, fmt.Errorf("telegram bot token is not configured")
	}

	bot, err := tgbotapi.NewBotAPI(telegramConfig.Token)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}

	slog.Info("Telegram bot initialized", "username", bot.Self.UserName)

	updateConfig := tgbotapi.NewUpdate(0)
	updateConfig.Timeout = 30

	updates := bot.GetUpdatesChan(updateConfig)

	telegramBot := &TelegramBot{
		bot:      bot,
		config:   cfg,
		handlers: make(map[string]TelegramCommandHandler),
		updates:  updates,
		stopChan: make(chan struct{}),
	}

	telegramBot.RegisterHandler("extracting", extracting.NewTelegramHandler(extractingService, jobService))
	telegramBot.RegisterHandler("jobs", jobs.NewTelegramHandler(jobService))
	telegramBot.RegisterHandler("config", config.NewTelegramHandler(cfg))

	return telegramBot, nil
}

// RegisterHandler registers a feature's command handler
func (t *TelegramBot) RegisterHandler(feature string, handler TelegramCommandHandler) {
	t.handlers[feature] = handler
	slog.Debug("Registered Telegram handler", "feature", feature)
}

// Start begins listening for Telegram updates
func (t *TelegramBot) Start() {
	slog.Info("Starting Telegram bot listener")

	for {
		select {
		case update := <-t.updates:
			if update.Message != nil {
				go t.handleMessage(update)
			}
			if update.CallbackQuery != nil {
				go t.handleCallbackQuery(update)
			}
		case <-t.stopChan:
			slog.Info("Stopping Telegram bot listener")
			return
		}
	}
}

// Stop gracefully stops the bot
func (t *TelegramBot) Stop() {
	close(t.stopChan)
}

// handleMessage processes incoming messages
func (t *TelegramBot) handleMessage(update tgbotapi.Update) {
	message := update.Message
	chatID := message.Chat.ID

	allowedUsers := t.config.Get().Telegram.AllowedUsers
	if len(allowedUsers) == 0 {
		slog.Warn("No allowed users configured", "chat_id", chatID)
		t.sendMessage(chatID, "❌ Access denied: No users configured. Please add users to the config.")
		return
	}

	username := message.From.UserName
	if username == "" {
		username = message.From.FirstName
		if message.From.LastName != "" {
			username += " " + message.From.LastName
		}
	}
	if !slices.Contains(allowedUsers, username) {
		slog.Warn("Unauthorized user", "username", username, "chat_id", chatID)
		t.sendMessage(chatID, "Unknown user, please add your user to the config")
		return
	}

	if message.IsCommand() {
		t.handleCommand(update)
		return
	}

	t.sendMessage(chatID, "🤖 Send /help to see available commands")
}

// handleCommand processes bot commands
func (t *TelegramBot) handleCommand(update tgbotapi.Update) {
	message := update.Message
	chatID := message.Chat.ID
	command := message.Command()
	args := message.CommandArguments()

	slog.Debug("Processing command", "command", command, "args", args, "chat_id", chatID)

	switch command {
	case "help", "start":
		t.handleHelp(chatID)
	default:
		if err := t.routeCommand(command, args, chatID); err != nil {
			slog.Error("Failed to handle command", "command", command, "error", err)
			t.sendMessage(chatID, "❌ Failed to process command")
		}
	}
}

// routeCommand routes commands to the appropriate feature handler
func (t *TelegramBot) routeCommand(command, args string, chatID int64) error {
	commandMap := map[string]string{
		"scan":   "extracting",
		"stats":  "extracting",
		"jobs":   "jobs",
		"config": "config",
	}

	feature, exists := commandMap[command]
	if !exists {
		t.sendMessage(chatID, "❌ Unknown command. Send /help to see available commands.")
		return nil
	}

	handler, exists := t.handlers[feature]
	if !exists {
		t.sendMessage(chatID, fmt.Sprintf("❌ %s feature not available", feature))
		return nil
	}

	return handler.HandleCommand(t.bot, chatID, command, args)
}

// sendMessage sends a message to the specified chat
func (t *TelegramBot) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	_, err := t.bot.Send(msg)
	if err != nil {
		slog.Error("Failed to send message", "error", err, "chat_id", chatID)
	}
}

// handleCallbackQuery handles callback queries from inline keyboards
func (t *TelegramBot) handleCallbackQuery(update tgbotapi.Update) {
	callback := update.CallbackQuery

	for _, handler := range t.handlers {
		if handler.HandleCallback(t.bot, callback) {
			break
		}
	}

	// Answer callback to remove loading state
	callbackResp := tgbotapi.NewCallback(callback.ID, "")
	t.bot.Request(callbackResp)
}

// handleHelp lists every registered command
func (t *TelegramBot) handleHelp(chatID int64) {
	var b strings.Builder
	b.WriteString("*🤖 Shoebox Commands*\n\n")
	for _, handler := range t.handlers {
		for cmd, desc := range handler.GetCommands() {
			fmt.Fprintf(&b, "/%s - %s\n", cmd, desc)
		}
	}
	t.sendMessage(chatID, b.String())
}
