// SPDX-License-Identifier: GPL-3.0-or-later
package notifier

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/CrawX/go-mail-triage/log"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"
)

// MaxTelegramLength is the longest text Telegram accepts in a single message, counted in UTF-16 code units.
const MaxTelegramLength = 4096

const requestTimeout = 30 * time.Second

type Telegram struct {
	bot *tgbotapi.BotAPI
	// exactly one of chatId and channel is set
	chatId  int64
	channel string

	l *logrus.Logger
}

// NewTelegram verifies the token with getMe. The chat is either a numeric chat id or a
// public channel username starting with @. An empty endpoint selects the public Bot API.
func NewTelegram(token string, chat string, endpoint string) (*Telegram, error) {
	t := &Telegram{
		l: log.Logger(log.LOG_NOTIFIER),
	}
	chat = strings.TrimSpace(chat)
	if strings.HasPrefix(chat, "@") {
		if len(chat) == 1 {
			return nil, fmt.Errorf("telegram channel username must not be empty")
		}
		t.channel = chat
	} else {
		chatId, err := strconv.ParseInt(chat, 10, 64)
		if err != nil || chatId == 0 {
			return nil, fmt.Errorf("telegram chat %q is neither a chat id nor a @channel username", chat)
		}
		t.chatId = chatId
	}

	if len(endpoint) == 0 {
		endpoint = tgbotapi.APIEndpoint
	}

	bot, err := tgbotapi.NewBotAPIWithClient(token, endpoint, &http.Client{Timeout: requestTimeout})
	if err != nil {
		return nil, fmt.Errorf("could not create telegram bot: %w", err)
	}
	t.bot = bot
	t.l.WithFields(logrus.Fields{"bot": bot.Self.UserName}).Debug("Authorized telegram bot")

	return t, nil
}

func (t *Telegram) Notify(ctx context.Context, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	text = cut(text, MaxTelegramLength)
	var msg tgbotapi.MessageConfig
	if len(t.channel) > 0 {
		msg = tgbotapi.NewMessageToChannel(t.channel, text)
	} else {
		msg = tgbotapi.NewMessage(t.chatId, text)
	}
	sent, err := t.bot.Send(msg)
	if err != nil {
		return fmt.Errorf("could not send telegram message: %w", err)
	}

	t.l.WithFields(logrus.Fields{"chat": t.chat(), "message": sent.MessageID}).Debug("Sent telegram message")
	return nil
}

func (t *Telegram) chat() string {
	if len(t.channel) > 0 {
		return t.channel
	}
	return strconv.FormatInt(t.chatId, 10)
}

// cut shortens text to at most max UTF-16 code units without splitting a rune.
func cut(text string, max int) string {
	units := 0
	for i, r := range text {
		n := 1
		if r >= 0x10000 {
			n = 2
		}
		if units+n > max {
			return text[:i]
		}
		units += n
	}
	return text
}
