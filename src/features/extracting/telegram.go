package extracting

import (
	"context"
	"fmt"
	"strings"

	"github.com/crivero/shoebox/src/features/jobs"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// TelegramHandler handles Telegram commands for the extracting feature
type TelegramHandler struct {
	service *Service
	jobs    jobs.JobService
}

// NewTelegramHandler creates a new Telegram handler for the extracting feature
func NewTelegramHandler(service *Service, jobService jobs.JobService) *TelegramHandler {
	return &TelegramHandler{service: service, jobs: jobService}
}

// HandleCommand processes extracting-related Telegram commands
func (h *TelegramHandler) HandleCommand(bot *tgbotapi.BotAPI, chatID int64, command string, args string) error {
	switch command {
	case "scan":
		return h.handleScan(bot, chatID, args)
	case "stats":
		return h.handleStats(bot, chatID)
	default:
		msg := tgbotapi.NewMessage(chatID, "❌ Unknown command. Use /scan or /stats")
		msg.ParseMode = tgbotapi.ModeMarkdown
		bot.Send(msg)
		return nil
	}
}

// GetCommands returns the available commands for this handler
func (h *TelegramHandler) GetCommands() map[string]string {
	return map[string]string{
		"scan":  "Scan a directory into the catalog",
		"stats": "Show catalog totals",
	}
}

// HandleCallback handles callback queries for this feature (extracting has no callbacks)
func (h *TelegramHandler) HandleCallback(bot *tgbotapi.BotAPI, callback *tgbotapi.CallbackQuery) bool {
	return false
}

// handleScan starts a directory scan job
func (h *TelegramHandler) handleScan(bot *tgbotapi.BotAPI, chatID int64, args string) error {
	path := strings.TrimSpace(args)
	if path == "" {
		msg := tgbotapi.NewMessage(chatID, "📁 Usage: `/scan /path/to/photos`")
		msg.ParseMode = tgbotapi.ModeMarkdown
		bot.Send(msg)
		return nil
	}

	jobID, err := h.jobs.StartJob("scan", "Directory Scan", map[string]any{"path": path})
	if err != nil {
		msg := tgbotapi.NewMessage(chatID, fmt.Sprintf("❌ Could not start scan: %s", err))
		bot.Send(msg)
		return nil
	}

	msg := tgbotapi.NewMessage(chatID, fmt.Sprintf("🔄 Scan started\nJob: `%s`\nPath: `%s`", jobID, path))
	msg.ParseMode = tgbotapi.ModeMarkdown
	bot.Send(msg)
	return nil
}

// handleStats shows catalog totals
func (h *TelegramHandler) handleStats(bot *tgbotapi.BotAPI, chatID int64) error {
	total, err := h.service.catalog.CountFiles(context.Background())
	if err != nil {
		msg := tgbotapi.NewMessage(chatID, fmt.Sprintf("❌ Could not load stats: %s", err))
		bot.Send(msg)
		return nil
	}

	msg := tgbotapi.NewMessage(chatID, fmt.Sprintf("📊 *Catalog*\n\nFiles: %d", total))
	msg.ParseMode = tgbotapi.ModeMarkdown
	bot.Send(msg)
	return nil
}
