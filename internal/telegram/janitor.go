package telegram

import (
	"context"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

type deletion struct {
	chatID    int64
	messageID int
	due       time.Time
}

// Janitor deletes service messages (gender prompts, limit notices)
// some time after they were sent, so chats stay readable. Deletions
// are fire-and-forget: a failure is logged at debug and dropped.
type Janitor struct {
	bot *tgbotapi.BotAPI
	log *zap.Logger
	ttl time.Duration

	mu      sync.Mutex
	pending []deletion
}

// NewJanitor creates a Janitor with the given message time-to-live.
func NewJanitor(bot *tgbotapi.BotAPI, log *zap.Logger, ttl time.Duration) *Janitor {
	return &Janitor{bot: bot, log: log, ttl: ttl}
}

// Schedule queues a message for deletion ttl from now.
func (j *Janitor) Schedule(chatID int64, messageID int) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.pending = append(j.pending, deletion{
		chatID:    chatID,
		messageID: messageID,
		due:       time.Now().Add(j.ttl),
	})
}

// Run processes due deletions until ctx is canceled. Pending entries
// at shutdown are simply abandoned; the messages stay.
func (j *Janitor) Run(ctx context.Context) {
	ticker := time.NewTicker(5 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			j.log.Info("janitor stopping")
			return
		case <-ticker.C:
			j.sweep()
		}
	}
}

// sweep deletes every entry whose time has come and keeps the rest.
func (j *Janitor) sweep() {
	now := time.Now()

	j.mu.Lock()
	var due, keep []deletion
	for _, d := range j.pending {
		if d.due.After(now) {
			keep = append(keep, d)
		} else {
			due = append(due, d)
		}
	}
	j.pending = keep
	j.mu.Unlock()

	for _, d := range due {
		if _, err := j.bot.Request(tgbotapi.NewDeleteMessage(d.chatID, d.messageID)); err != nil {
			j.log.Debug("delete message failed",
				zap.Int64("chat_id", d.chatID),
				zap.Int("message_id", d.messageID),
				zap.Error(err),
			)
		}
	}
}
