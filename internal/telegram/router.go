package telegram

import (
	"context"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/warlock9600/tarobot/internal/session"
)

// Router maps Telegram updates onto session entry points. It holds no
// state of its own; everything per-user lives behind the session.
type Router struct {
	log *zap.Logger
	svc *session.Service
}

// NewRouter creates a new Telegram router.
func NewRouter(log *zap.Logger, svc *session.Service) *Router {
	return &Router{log: log, svc: svc}
}

func profileFrom(from *tgbotapi.User, chatID int64) session.Profile {
	p := session.Profile{ChatID: chatID}
	if from != nil {
		p.TelegramID = from.ID
		p.FullName = strings.TrimSpace(from.FirstName + " " + from.LastName)
		p.Username = from.UserName
	}
	return p
}

// HandleUpdate routes a single update. Errors are logged here; the
// session has already surfaced a failure response to the user.
func (r *Router) HandleUpdate(ctx context.Context, upd tgbotapi.Update) {
	if upd.Message != nil {
		msg := upd.Message
		if msg.From == nil {
			return
		}
		p := profileFrom(msg.From, msg.Chat.ID)

		switch {
		case strings.HasPrefix(strings.TrimSpace(msg.Text), "/start"):
			if err := r.svc.Start(ctx, p); err != nil {
				r.log.Error("start failed", zap.Int64("tg_id", p.TelegramID), zap.Error(err))
			}
		default:
			// Free text carries no command in this bot.
			r.log.Debug("ignoring message", zap.Int64("tg_id", p.TelegramID))
		}
		return
	}

	if upd.CallbackQuery != nil {
		cb := upd.CallbackQuery
		if cb.Message == nil || cb.From == nil {
			return
		}
		p := profileFrom(cb.From, cb.Message.Chat.ID)

		var err error
		switch {
		case cb.Data == "reading":
			err = r.svc.RequestReading(ctx, p, cb.ID)
		case cb.Data == "bonus":
			err = r.svc.ClaimSpontaneous(ctx, p, cb.ID)
		case strings.HasPrefix(cb.Data, "gender:"):
			err = r.svc.ChooseGender(ctx, p, cb.ID, strings.TrimPrefix(cb.Data, "gender:"))
		default:
			// Unknown callback, likely from an old keyboard. Ignore.
			return
		}
		if err != nil {
			r.log.Error("callback failed",
				zap.Int64("tg_id", p.TelegramID),
				zap.String("data", cb.Data),
				zap.Error(err),
			)
		}
	}
}
