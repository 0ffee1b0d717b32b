package telegram

import tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

// UI texts in Russian.
const (
	greetingText = "🔮 Привет! Я таро-бот.\n\n" +
		"Каждый день я делаю для тебя расклад на старших арканах.\n" +
		"Но сперва скажи, как составлять предсказания:"
	welcomeBackFmt         = "С возвращением, %s! 👋"
	welcomeBackNoGenderFmt = "С возвращением, %s! 👋\n\nТы так и не сказал(а), как составлять предсказания:"
	askGenderText          = "Сначала выбери, как составлять предсказания:"
	genderSavedFmt         = "Запомнил: %s, %s. Можно меняться в любой момент через /start."
	readingCTAText         = "Карты разложены. Готов(а) узнать, что они скажут?"
	limitReachedText       = "🌙 На сегодня карты сказали всё. Возвращайся завтра!"
	offerText              = "✨ Карты шепчут: сегодня можно вытянуть ещё один, особенный аркан. Только один и только сегодня."
	alreadyClaimedText     = "Особенный аркан на сегодня уже вытянут 🌙"
	unknownChoiceText      = "Не понимаю этот выбор 🤔"
	failureText            = "Что-то пошло не так. Попробуй ещё раз чуть позже."

	readingFmt = "%s, вот что говорят карты:\n\n" +
		"🎴 Аркан: %s\n" +
		"📜 Значение: %s\n\n" +
		"🔮 %s"
)

func genderLabel(female bool) string {
	if female {
		return "женщина"
	}
	return "мужчина"
}

func genderKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🙋‍♂️ Я мужчина", "gender:male"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🙋‍♀️ Я женщина", "gender:female"),
		),
	)
}

func readingKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🎴 Сделать расклад", "reading"),
		),
	)
}

func offerKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✨ Вытянуть особенный аркан", "bonus"),
		),
	)
}
