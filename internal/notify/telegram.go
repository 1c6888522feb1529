package notify

import (
	"log"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// TelegramAlerter надсилає короткі операційні алерти в чат адміністраторів.
// Той самий best-effort контракт, що й у email: помилки ковтаються.
type TelegramAlerter struct {
	BotAPI *tgbotapi.BotAPI
	ChatID int64
}

// NewTelegramAlerter повертає nil, якщо канал не сконфігуровано —
// викликач просто не матиме операційних алертів.
func NewTelegramAlerter(botToken string, chatID int64) *TelegramAlerter {
	if botToken == "" || chatID == 0 {
		return nil
	}

	bot, err := tgbotapi.NewBotAPI(botToken)
	if err != nil {
		log.Printf("ERROR: Failed to init Telegram bot, ops alerts disabled: %v", err)
		return nil
	}

	return &TelegramAlerter{BotAPI: bot, ChatID: chatID}
}

// Alert надсилає одне текстове повідомлення в операційний чат.
func (t *TelegramAlerter) Alert(text string) {
	msg := tgbotapi.NewMessage(t.ChatID, text)
	if _, err := t.BotAPI.Send(msg); err != nil {
		log.Printf("ERROR: Failed to send Telegram alert: %v", err)
	}
}
