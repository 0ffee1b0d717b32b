package telegram

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/warlock9600/tarobot/internal/domain"
	"github.com/warlock9600/tarobot/internal/tarot"
)

// Sender implements session.Messenger over the Bot API. Service
// messages that would clutter the chat are handed to the janitor.
type Sender struct {
	bot     *tgbotapi.BotAPI
	janitor *Janitor
}

// NewSender wraps the bot. janitor may be nil; then nothing is
// auto-deleted.
func NewSender(bot *tgbotapi.BotAPI, janitor *Janitor) *Sender {
	return &Sender{bot: bot, janitor: janitor}
}

func (s *Sender) send(msg tgbotapi.MessageConfig, ephemeral bool) error {
	sent, err := s.bot.Send(msg)
	if err != nil {
		return err
	}
	if ephemeral && s.janitor != nil {
		s.janitor.Schedule(sent.Chat.ID, sent.MessageID)
	}
	return nil
}

func (s *Sender) Greeting(_ context.Context, chatID int64) error {
	msg := tgbotapi.NewMessage(chatID, greetingText)
	msg.ReplyMarkup = genderKeyboard()
	return s.send(msg, false)
}

func (s *Sender) WelcomeBack(_ context.Context, chatID int64, name string) error {
	return s.send(tgbotapi.NewMessage(chatID, fmt.Sprintf(welcomeBackFmt, name)), false)
}

func (s *Sender) WelcomeBackAskGender(_ context.Context, chatID int64, name string) error {
	msg := tgbotapi.NewMessage(chatID, fmt.Sprintf(welcomeBackNoGenderFmt, name))
	msg.ReplyMarkup = genderKeyboard()
	return s.send(msg, false)
}

func (s *Sender) AskGender(_ context.Context, chatID int64) error {
	msg := tgbotapi.NewMessage(chatID, askGenderText)
	msg.ReplyMarkup = genderKeyboard()
	return s.send(msg, true)
}

func (s *Sender) GenderSaved(_ context.Context, chatID int64, name string, g domain.Gender) error {
	text := fmt.Sprintf(genderSavedFmt, name, genderLabel(g == domain.GenderFemale))
	return s.send(tgbotapi.NewMessage(chatID, text), true)
}

func (s *Sender) ReadingPrompt(_ context.Context, chatID int64) error {
	msg := tgbotapi.NewMessage(chatID, readingCTAText)
	msg.ReplyMarkup = readingKeyboard()
	return s.send(msg, false)
}

func (s *Sender) Reading(_ context.Context, chatID int64, name string, card tarot.Card, prediction string) error {
	text := fmt.Sprintf(readingFmt, name, card.Name, card.Description, prediction)
	return s.send(tgbotapi.NewMessage(chatID, text), false)
}

func (s *Sender) LimitReached(_ context.Context, chatID int64) error {
	return s.send(tgbotapi.NewMessage(chatID, limitReachedText), true)
}

func (s *Sender) Offer(_ context.Context, chatID int64) error {
	msg := tgbotapi.NewMessage(chatID, offerText)
	msg.ReplyMarkup = offerKeyboard()
	return s.send(msg, false)
}

func (s *Sender) AlreadyClaimed(_ context.Context, callbackID string) error {
	_, err := s.bot.Request(tgbotapi.NewCallbackWithAlert(callbackID, alreadyClaimedText))
	return err
}

func (s *Sender) UnknownChoice(_ context.Context, callbackID string) error {
	_, err := s.bot.Request(tgbotapi.NewCallback(callbackID, unknownChoiceText))
	return err
}

func (s *Sender) Ack(_ context.Context, callbackID string) error {
	_, err := s.bot.Request(tgbotapi.NewCallback(callbackID, ""))
	return err
}

func (s *Sender) Failure(_ context.Context, chatID int64) error {
	return s.send(tgbotapi.NewMessage(chatID, failureText), false)
}
