package notificationtelegram

import (
	"context"
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSender struct {
	sent []tgbotapi.MessageConfig
	err  error
}

func (f *fakeSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	if m, ok := c.(tgbotapi.MessageConfig); ok {
		f.sent = append(f.sent, m)
	}
	return tgbotapi.Message{}, f.err
}

func TestNotifier_Notify(t *testing.T) {
	bot := &fakeSender{}
	n := &Notifier{bot: bot, chatID: -1001}

	require.NoError(t, n.Notify(context.Background(), "New registration"))
	require.Len(t, bot.sent, 1)
	assert.Equal(t, int64(-1001), bot.sent[0].ChatID)
	assert.Equal(t, "New registration", bot.sent[0].Text)

	require.NoError(t, n.Notify(context.Background(), strings.Repeat("é", 5000)))
	assert.Equal(t, maxMessageLen, utf8.RuneCountInString(bot.sent[1].Text))

	bot.err = errors.New("chat not found")
	assert.Error(t, n.Notify(context.Background(), "x"))
}
