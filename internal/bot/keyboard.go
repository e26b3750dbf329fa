package bot

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"voxbot/pkg/models"
)

const (
	// VoicesPageSize количество голосов на одной странице клавиатуры
	VoicesPageSize = 8

	callbackPick    = "pick:"
	callbackPage    = "page:"
	callbackRefresh = "refresh"
)

// PaginateVoices строит клавиатуру выбора голоса для заданной страницы.
// Чистая функция: одна кнопка на голос плюс навигационный ряд. Страница за
// пределами списка даёт пустой набор голосов, но корректную навигацию.
func PaginateVoices(voices []models.Voice, page int) ([][]tgbotapi.InlineKeyboardButton, int) {
	totalPages := (len(voices) + VoicesPageSize - 1) / VoicesPageSize
	if totalPages < 1 {
		totalPages = 1
	}

	start := page * VoicesPageSize
	end := start + VoicesPageSize
	if start < 0 || start > len(voices) {
		start = len(voices)
	}
	if end > len(voices) {
		end = len(voices)
	}
	if end < start {
		end = start
	}
	pageVoices := voices[start:end]

	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(pageVoices)+1)
	for _, v := range pageVoices {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(v.DisplayName(), callbackPick+v.ID),
		))
	}

	nav := make([]tgbotapi.InlineKeyboardButton, 0, 3)
	if page > 0 {
		nav = append(nav, tgbotapi.NewInlineKeyboardButtonData("⟵ Назад", fmt.Sprintf("%s%d", callbackPage, page-1)))
	}
	if page+1 < totalPages {
		nav = append(nav, tgbotapi.NewInlineKeyboardButtonData("Далее ⟶", fmt.Sprintf("%s%d", callbackPage, page+1)))
	}
	nav = append(nav, tgbotapi.NewInlineKeyboardButtonData("Обновить", callbackRefresh))
	rows = append(rows, nav)

	return rows, totalPages
}
