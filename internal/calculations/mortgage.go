package calculations

import (
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/cloud-ru/mcp-mortgage-go/pkg/utils"
)

// Знаменатель аннуитета меньше этого порога считается нулевым
const degenerateDenominator = 1e-7

// MonthlyPayment рассчитывает аннуитетный ежемесячный платеж, округленный до
// копеек один раз в конце. Вырожденный ввод и бесконечный результат дают 0.
func MonthlyPayment(loanAmount, annualRatePercent float64, termMonths int) float64 {
	if !(loanAmount > 0) || termMonths <= 0 {
		return 0
	}

	n := float64(termMonths)

	var payment float64
	if annualRatePercent == 0 {
		payment = loanAmount / n
	} else {
		r := annualRatePercent / 100.0 / 12.0
		d := 1.0 - math.Pow(1.0+r, -n)
		if math.Abs(d) < degenerateDenominator {
			return 0
		}
		payment = loanAmount * r / d
	}

	payment = utils.Round2(payment)
	if !utils.IsFinite(payment) {
		return 0
	}
	return payment
}

// NewPlan строит план по уже нормализованным параметрам. Если взнос больше
// цены, сумма кредита отрицательна, а платеж равен 0.
func NewPlan(id uuid.UUID, seq uint64, params LoanParameters, createdAt time.Time) MortgagePlan {
	loanAmount := params.TotalPrice - params.DownPayment

	return MortgagePlan{
		ID:                id,
		Seq:               seq,
		TotalPrice:        params.TotalPrice,
		DownPayment:       params.DownPayment,
		AnnualRatePercent: params.AnnualRatePercent,
		TermMonths:        params.TermMonths,
		LoanAmount:        loanAmount,
		MonthlyPayment:    MonthlyPayment(loanAmount, params.AnnualRatePercent, params.TermMonths),
		CreatedAt:         createdAt,
	}
}
