package app

import (
	"context"
	"errors"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/warlock9600/tarobot/assets"
	"github.com/warlock9600/tarobot/internal/config"
	"github.com/warlock9600/tarobot/internal/domain"
	"github.com/warlock9600/tarobot/internal/session"
	"github.com/warlock9600/tarobot/internal/store"
	"github.com/warlock9600/tarobot/internal/tarot"
	"github.com/warlock9600/tarobot/internal/telegram"
)

type App struct {
	cfg     config.Config
	log     *zap.Logger
	bot     *tgbotapi.BotAPI
	httpSrv *http.Server
	repo    store.Repo
}

func New(cfg config.Config, log *zap.Logger) (*App, error) {
	bot, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		return nil, err
	}
	bot.Debug = false

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })
	srv := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      mux,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	}

	return &App{cfg: cfg, log: log, bot: bot, httpSrv: srv}, nil
}

func (a *App) Run(ctx context.Context) error {
	a.log.Info("starting tarobot",
		zap.Int("daily_quota", a.cfg.DailyQuota),
		zap.Int("daylight_from", a.cfg.DaylightFromH),
		zap.Int("daylight_to", a.cfg.DaylightToH),
		zap.String("http", a.cfg.HTTPAddr),
	)

	repo, err := store.OpenSQLite(ctx, a.cfg.DBPath)
	if err != nil {
		a.log.Error("open sqlite failed", zap.Error(err))
		return err
	}
	a.repo = repo
	a.log.Info("sqlite ready")

	deck, err := tarot.Load(assets.CardsYAML(), rand.New(rand.NewSource(time.Now().UnixNano())))
	if err != nil {
		a.log.Error("load deck failed", zap.Error(err))
		return err
	}
	a.log.Info("deck loaded", zap.Int("cards", deck.Size()))

	rules := domain.Rules{
		DailyQuota:    a.cfg.DailyQuota,
		DaylightFromH: a.cfg.DaylightFromH,
		DaylightToH:   a.cfg.DaylightToH,
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	janitor := telegram.NewJanitor(a.bot, a.log, a.cfg.EphemeralTTL)
	go janitor.Run(ctx)

	sender := telegram.NewSender(a.bot, janitor)
	svc := session.New(repo, deck, rules, sender, a.log, nil)
	router := telegram.NewRouter(a.log, svc)

	go func() {
		if err := a.httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.log.Error("http server error", zap.Error(err))
		}
	}()

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30
	updCh := a.bot.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			a.log.Info("shutdown signal received")

			shCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			err := a.httpSrv.Shutdown(shCtx)
			cancel()

			if err != nil {
				a.log.Warn("http server shutdown error", zap.Error(err))
			}
			if a.repo != nil {
				_ = a.repo.Close()
			}
			return nil

		case upd := <-updCh:
			// Units of work for different users are independent; the
			// session serializes same-user races itself.
			go router.HandleUpdate(ctx, upd)
		}
	}
}
