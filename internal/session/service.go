// Package session sequences inbound bot events over the store, the
// deck and the messaging boundary. All eligibility decisions live in
// internal/domain; this package owns the ordering: resolve user, check
// eligibility, generate, record, respond, then the spontaneous-offer
// check. Persisted state is always mutated before the matching send,
// so a failed send is a lost notification, never a lost mutation.
package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/warlock9600/tarobot/internal/domain"
	"github.com/warlock9600/tarobot/internal/store"
	"github.com/warlock9600/tarobot/internal/tarot"
)

// Profile is the inbound identity of the event's author: stable
// telegram id, the chat to respond into, and best-effort display hints.
type Profile struct {
	TelegramID int64
	ChatID     int64
	FullName   string
	Username   string
}

// Messenger is the outbound side of the messaging boundary. Callback
// answers take the callback id; the rest address the chat. All sends
// are best-effort from the orchestrator's point of view.
type Messenger interface {
	Greeting(ctx context.Context, chatID int64) error
	WelcomeBack(ctx context.Context, chatID int64, name string) error
	WelcomeBackAskGender(ctx context.Context, chatID int64, name string) error
	AskGender(ctx context.Context, chatID int64) error
	GenderSaved(ctx context.Context, chatID int64, name string, g domain.Gender) error
	ReadingPrompt(ctx context.Context, chatID int64) error
	Reading(ctx context.Context, chatID int64, name string, card tarot.Card, prediction string) error
	LimitReached(ctx context.Context, chatID int64) error
	Offer(ctx context.Context, chatID int64) error
	AlreadyClaimed(ctx context.Context, callbackID string) error
	UnknownChoice(ctx context.Context, callbackID string) error
	Ack(ctx context.Context, callbackID string) error
	Failure(ctx context.Context, chatID int64) error
}

// Service is the session orchestrator.
type Service struct {
	repo  store.Repo
	deck  *tarot.Deck
	rules domain.Rules
	msg   Messenger
	log   *zap.Logger
	now   func() time.Time

	mu    sync.Mutex
	locks map[int64]*sync.Mutex // per-telegram-id
}

// New creates a Service. now may be nil, in which case wall clock UTC
// is used; tests inject fixed instants.
func New(repo store.Repo, deck *tarot.Deck, rules domain.Rules, msg Messenger, log *zap.Logger, now func() time.Time) *Service {
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	return &Service{
		repo:  repo,
		deck:  deck,
		rules: rules,
		msg:   msg,
		log:   log,
		now:   now,
		locks: make(map[int64]*sync.Mutex),
	}
}

// lockUser serializes check-then-mark sequences for one user. Events
// for different users proceed concurrently.
func (s *Service) lockUser(telegramID int64) func() {
	s.mu.Lock()
	l, ok := s.locks[telegramID]
	if !ok {
		l = &sync.Mutex{}
		s.locks[telegramID] = l
	}
	s.mu.Unlock()
	l.Lock()
	return l.Unlock
}

// Start handles /start: resolve or create the user, greet, and run the
// offer check when readings are possible at all.
func (s *Service) Start(ctx context.Context, p Profile) error {
	unlock := s.lockUser(p.TelegramID)
	defer unlock()

	u, created, err := s.repo.GetOrCreateUser(ctx, p.TelegramID, p.hint())
	if err != nil {
		_ = s.msg.Failure(ctx, p.ChatID)
		return fmt.Errorf("get or create user: %w", err)
	}
	if created {
		s.log.Info("new user", zap.Int64("tg_id", p.TelegramID))
		s.send(s.msg.Greeting(ctx, p.ChatID))
		return nil
	}

	name := displayName(p, u.Gender)
	if !u.HasGender() {
		s.send(s.msg.WelcomeBackAskGender(ctx, p.ChatID, name))
		return nil
	}
	s.send(s.msg.WelcomeBack(ctx, p.ChatID, name))
	s.send(s.msg.ReadingPrompt(ctx, p.ChatID))
	s.maybeOffer(ctx, u, p.ChatID)
	return nil
}

// ChooseGender handles a gender callback. An unrecognized payload is a
// user-input error: one response, no state change.
func (s *Service) ChooseGender(ctx context.Context, p Profile, callbackID, payload string) error {
	g, ok := domain.ParseGender(payload)
	if !ok {
		s.send(s.msg.UnknownChoice(ctx, callbackID))
		return nil
	}

	unlock := s.lockUser(p.TelegramID)
	defer unlock()

	u, _, err := s.repo.GetOrCreateUser(ctx, p.TelegramID, p.hint())
	if err != nil {
		_ = s.msg.Failure(ctx, p.ChatID)
		return fmt.Errorf("get or create user: %w", err)
	}
	if err := s.repo.SetGender(ctx, u.ID, g); err != nil {
		_ = s.msg.Failure(ctx, p.ChatID)
		return fmt.Errorf("set gender: %w", err)
	}
	s.log.Info("gender set", zap.Int64("tg_id", p.TelegramID), zap.String("gender", string(g)))

	s.send(s.msg.GenderSaved(ctx, p.ChatID, displayName(p, g), g))
	s.ack(ctx, callbackID)
	s.send(s.msg.ReadingPrompt(ctx, p.ChatID))
	return nil
}

// RequestReading handles an explicit reading request. Order per the
// state machine: gender gate, quota, generate+record+respond, offer
// check. A quota denial still runs the offer check.
func (s *Service) RequestReading(ctx context.Context, p Profile, callbackID string) error {
	unlock := s.lockUser(p.TelegramID)
	defer unlock()

	u, _, err := s.repo.GetOrCreateUser(ctx, p.TelegramID, p.hint())
	if err != nil {
		_ = s.msg.Failure(ctx, p.ChatID)
		return fmt.Errorf("get or create user: %w", err)
	}
	if !u.HasGender() {
		s.log.Info("reading requested without gender", zap.Int64("tg_id", p.TelegramID))
		s.send(s.msg.AskGender(ctx, p.ChatID))
		s.ack(ctx, callbackID)
		return nil
	}

	now := s.now()
	from, to := domain.DayBounds(now)
	used, err := s.repo.CountRegularToday(ctx, u.ID, from, to)
	if err != nil {
		_ = s.msg.Failure(ctx, p.ChatID)
		return fmt.Errorf("count readings: %w", err)
	}

	if !s.rules.AllowRegular(used) {
		s.log.Info("daily limit reached",
			zap.Int64("tg_id", p.TelegramID),
			zap.Int("used", used),
		)
		s.send(s.msg.LimitReached(ctx, p.ChatID))
		s.maybeOffer(ctx, u, p.ChatID)
		s.ack(ctx, callbackID)
		return nil
	}

	card, prediction := s.deck.Draw(u.Gender)
	if err := s.repo.AppendReading(ctx, u.ID, card.Name, prediction, false, now); err != nil {
		_ = s.msg.Failure(ctx, p.ChatID)
		return fmt.Errorf("append reading: %w", err)
	}
	s.log.Info("reading issued",
		zap.Int64("tg_id", p.TelegramID),
		zap.String("arcana", card.Name),
	)

	s.send(s.msg.Reading(ctx, p.ChatID, displayName(p, u.Gender), card, prediction))
	s.maybeOffer(ctx, u, p.ChatID)
	s.ack(ctx, callbackID)
	return nil
}

// ClaimSpontaneous handles the bonus-claim callback. The conditional
// claim mark is committed before the reading is generated, so a
// duplicate delivery of the same press can never record two entries.
func (s *Service) ClaimSpontaneous(ctx context.Context, p Profile, callbackID string) error {
	unlock := s.lockUser(p.TelegramID)
	defer unlock()

	u, _, err := s.repo.GetOrCreateUser(ctx, p.TelegramID, p.hint())
	if err != nil {
		_ = s.msg.Failure(ctx, p.ChatID)
		return fmt.Errorf("get or create user: %w", err)
	}
	if !u.HasGender() {
		s.send(s.msg.AskGender(ctx, p.ChatID))
		s.ack(ctx, callbackID)
		return nil
	}

	now := s.now()
	if !s.rules.AllowClaim(u, now) {
		s.log.Info("spontaneous already claimed today", zap.Int64("tg_id", p.TelegramID))
		s.send(s.msg.AlreadyClaimed(ctx, callbackID))
		return nil
	}

	dayStart, _ := domain.DayBounds(now)
	won, err := s.repo.MarkSpontaneousClaimed(ctx, u.ID, now, dayStart)
	if err != nil {
		_ = s.msg.Failure(ctx, p.ChatID)
		return fmt.Errorf("mark claimed: %w", err)
	}
	if !won {
		// Lost the race against a concurrent duplicate of this claim.
		s.send(s.msg.AlreadyClaimed(ctx, callbackID))
		return nil
	}

	card, prediction := s.deck.Draw(u.Gender)
	if err := s.repo.AppendReading(ctx, u.ID, card.Name, prediction, true, now); err != nil {
		// The claim mark stays consumed: better a lost bonus than a
		// double one.
		_ = s.msg.Failure(ctx, p.ChatID)
		return fmt.Errorf("append spontaneous reading: %w", err)
	}
	s.log.Info("spontaneous reading issued",
		zap.Int64("tg_id", p.TelegramID),
		zap.String("arcana", card.Name),
	)

	s.send(s.msg.Reading(ctx, p.ChatID, displayName(p, u.Gender), card, prediction))
	s.maybeOffer(ctx, u, p.ChatID)
	s.ack(ctx, callbackID)
	return nil
}

// maybeOffer runs the spontaneous-offer check: in the daylight window
// and not yet offered today. The mark is persisted before the offer is
// sent; the conditional write also settles races the stale snapshot
// cannot see. Offer failures never fail the surrounding event.
func (s *Service) maybeOffer(ctx context.Context, u *domain.User, chatID int64) {
	now := s.now()
	if !s.rules.ShouldOffer(u, now) {
		return
	}
	won, err := s.repo.MarkSpontaneousOffered(ctx, u.ID, now)
	if err != nil {
		s.log.Error("mark offered failed", zap.Int64("tg_id", u.TelegramID), zap.Error(err))
		return
	}
	if !won {
		return
	}
	s.log.Info("spontaneous offer shown", zap.Int64("tg_id", u.TelegramID))
	s.send(s.msg.Offer(ctx, chatID))
}

// send logs a failed outbound delivery; state is already committed, so
// the message is simply lost.
func (s *Service) send(err error) {
	if err != nil {
		s.log.Error("send failed", zap.Error(err))
	}
}

func (s *Service) ack(ctx context.Context, callbackID string) {
	if callbackID == "" {
		return
	}
	s.send(s.msg.Ack(ctx, callbackID))
}

func (p Profile) hint() string {
	if p.FullName != "" {
		return p.FullName
	}
	return p.Username
}

// displayName falls back through full name, handle, then a
// gender-specific placeholder.
func displayName(p Profile, g domain.Gender) string {
	if p.FullName != "" {
		return p.FullName
	}
	if p.Username != "" {
		return p.Username
	}
	if g == domain.GenderFemale {
		return "незнакомка"
	}
	return "незнакомец"
}
