package calculations

import (
	"time"

	"github.com/google/uuid"
)

// LoanParameters представляет четыре входных параметра
type LoanParameters struct {
	TotalPrice        float64 `json:"total_price"`
	DownPayment       float64 `json:"down_payment"`
	AnnualRatePercent float64 `json:"annual_rate_percent"`
	TermMonths        int     `json:"term_months"`
}

// MortgagePlan представляет рассчитанный неизменяемый план. ID и Seq выдает
// ledger, они идентифицируют план в истории и аннотациях; CreatedAt
// только для отображения.
type MortgagePlan struct {
	ID                uuid.UUID `json:"id"`
	Seq               uint64    `json:"seq"`
	TotalPrice        float64   `json:"total_price"`
	DownPayment       float64   `json:"down_payment"`
	AnnualRatePercent float64   `json:"annual_rate_percent"`
	TermMonths        int       `json:"term_months"`
	LoanAmount        float64   `json:"loan_amount"`
	MonthlyPayment    float64   `json:"monthly_payment"`
	CreatedAt         time.Time `json:"created_at"`
}

// Parameters возвращает параметры, по которым рассчитан план
func (p MortgagePlan) Parameters() LoanParameters {
	return LoanParameters{
		TotalPrice:        p.TotalPrice,
		DownPayment:       p.DownPayment,
		AnnualRatePercent: p.AnnualRatePercent,
		TermMonths:        p.TermMonths,
	}
}

// SameInputs проверяет, что планы рассчитаны по одинаковым параметрам.
// Производные поля не сравниваются.
func (p MortgagePlan) SameInputs(other MortgagePlan) bool {
	return p.Parameters() == other.Parameters()
}

// PlanTotals представляет полную стоимость плана
type PlanTotals struct {
	PlanID             uuid.UUID `json:"plan_id"`
	LoanAmount         float64   `json:"loan_amount"`
	MonthlyPayment     float64   `json:"monthly_payment"`
	TermMonths         int       `json:"term_months"`
	TotalPaid          float64   `json:"total_paid"`
	TotalInterest      float64   `json:"total_interest"`
	OverpaymentPercent float64   `json:"overpayment_percent"`
}

// PlanComparison представляет результат сравнения планов.
// Разница считается как other минус base.
type PlanComparison struct {
	Base               PlanTotals `json:"base"`
	Other              PlanTotals `json:"other"`
	MonthlyPaymentDiff float64    `json:"monthly_payment_diff"`
	TotalPaidDiff      float64    `json:"total_paid_diff"`
	TotalInterestDiff  float64    `json:"total_interest_diff"`
	CheaperPlan        string     `json:"cheaper_plan"`
	Savings            float64    `json:"savings"`
}

const (
	CheaperBase  = "base"
	CheaperOther = "other"
	CheaperEqual = "equal"
)
