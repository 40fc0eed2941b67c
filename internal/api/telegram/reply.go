package telegram

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	app "care-label-reader/internal/application"
	"care-label-reader/internal/domain/entity"
)

// formatReading ответ пользователю: код и описание каждого символа
func formatReading(out *app.ReadOutput) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("✅ Найдено символов: %d\n", len(out.Reading.Codes)))
	for i, c := range out.Reading.Codes {
		sb.WriteString(fmt.Sprintf("\n%d. %s\n   %s", i+1, c.String(), c.Describe()))
	}
	if out.Cached {
		sb.WriteString("\n\n♻️ Результат из кэша")
	}
	return sb.String()
}

// parseExpected разбирает аргумент /expect; пустой аргумент не допускается
func parseExpected(arg string, maxSymbols int) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(arg))
	if err != nil || n < 0 || n > maxSymbols {
		return 0, false
	}
	return n, true
}

// errorMessage текст ответа по ошибке распознавания
func errorMessage(err error) string {
	switch {
	case errors.Is(err, entity.ErrNoLabelFound):
		return "⚠️ Не нашёл этикетку на фото. Снимите светлую этикетку целиком на контрастном фоне."
	case errors.Is(err, entity.ErrNoSymbolRowFound):
		return "⚠️ Не нашёл строку символов на этикетке."
	case errors.Is(err, entity.ErrSymbolCountMismatch):
		return "⚠️ Число найденных символов не совпадает с ожидаемым. Проверьте /expect или переснимите."
	case errors.Is(err, entity.ErrNoSymbolsFound):
		return "⚠️ Не удалось выделить символы на этикетке."
	}
	if stage, ok := entity.StageOf(err); ok && stage == entity.StageDecode {
		return "⚠️ Не удалось прочитать изображение."
	}
	return msgProcessingError
}
