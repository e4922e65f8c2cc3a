package utils

import (
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var printer = message.NewPrinter(language.English)

// Выше этого порога у float64 нет разряда копеек, а value*100 может переполниться
const roundLimit = 1e15

// Round2 округляет число до 2 знаков после запятой
func Round2(value float64) float64 {
	if math.Abs(value) >= roundLimit {
		return value
	}
	return math.Round(value*100) / 100
}

// IsFinite проверяет, является ли число конечным
func IsFinite(value float64) bool {
	return !math.IsInf(value, 0) && !math.IsNaN(value)
}

// FormatNumber форматирует число с разделителями разрядов и не более чем
// двумя знаками после запятой. Бесконечность и NaN выводятся как "0".
func FormatNumber(value float64) string {
	if !IsFinite(value) {
		return "0"
	}
	return printer.Sprintf("%v", number.Decimal(value, number.MaxFractionDigits(2)))
}
