package validators

import (
	"math"

	"github.com/cloud-ru/mcp-mortgage-go/internal/calculations"
	"github.com/cloud-ru/mcp-mortgage-go/pkg/utils"
)

// Amount приводит денежную сумму: NaN, бесконечность и отрицательные значения дают 0
func Amount(value float64) float64 {
	if !utils.IsFinite(value) || value < 0 {
		return 0
	}
	return value
}

// Rate приводит годовую ставку так же, как Amount
func Rate(value float64) float64 {
	return Amount(value)
}

// Term приводит срок в месяцах: все, что меньше 1, становится 1
func Term(months int) int {
	if months < 1 {
		return 1
	}
	return months
}

// Parameters нормализует параметры перед расчетом.
// Некорректный ввод не считается ошибкой, а только приводится.
func Parameters(raw calculations.LoanParameters) calculations.LoanParameters {
	return calculations.LoanParameters{
		TotalPrice:        Amount(raw.TotalPrice),
		DownPayment:       Amount(raw.DownPayment),
		AnnualRatePercent: Rate(raw.AnnualRatePercent),
		TermMonths:        Term(raw.TermMonths),
	}
}

// FromParams извлекает параметры кредита из декодированного JSON.
// Отсутствующие и нечисловые поля приводятся как любой некорректный ввод.
func FromParams(params map[string]interface{}) calculations.LoanParameters {
	return Parameters(calculations.LoanParameters{
		TotalPrice:        Float(params, "total_price"),
		DownPayment:       Float(params, "down_payment"),
		AnnualRatePercent: Float(params, "annual_rate_percent"),
		TermMonths:        Int(params, "term_months"),
	})
}

// Float извлекает числовое поле, возвращает 0, если поля нет или это не число
func Float(params map[string]interface{}, key string) float64 {
	switch v := params[key].(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case int:
		return float64(v)
	case int64:
		return float64(v)
	default:
		return 0
	}
}

// Int извлекает целое число месяцев. Дробная часть отбрасывается, значения
// вне диапазона int дают 0.
func Int(params map[string]interface{}, key string) int {
	v := Float(params, key)
	if !utils.IsFinite(v) || math.Abs(v) > math.MaxInt32 {
		return 0
	}
	return int(v)
}
