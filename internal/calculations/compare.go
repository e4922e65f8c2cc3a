package calculations

import (
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// ComparePlans сравнивает полную стоимость двух планов
func ComparePlans(base, other MortgagePlan) PlanComparison {
	baseTotals, basePaid, baseInterest := planTotals(base)
	otherTotals, otherPaid, otherInterest := planTotals(other)

	// Разница считается по неокругленным decimal-суммам
	totalPaidDiff := otherPaid.Sub(basePaid)
	interestDiff := otherInterest.Sub(baseInterest)
	monthlyDiff := decimal.NewFromFloat(other.MonthlyPayment).Sub(decimal.NewFromFloat(base.MonthlyPayment))

	var cheaper string
	var savings decimal.Decimal

	switch totalPaidDiff.Sign() {
	case 1:
		cheaper = CheaperBase
		savings = totalPaidDiff
	case -1:
		cheaper = CheaperOther
		savings = totalPaidDiff.Neg()
	default:
		cheaper = CheaperEqual
		savings = decimal.Zero
	}

	return PlanComparison{
		Base:               baseTotals,
		Other:              otherTotals,
		MonthlyPaymentDiff: monthlyDiff.Round(2).InexactFloat64(),
		TotalPaidDiff:      totalPaidDiff.Round(2).InexactFloat64(),
		TotalInterestDiff:  interestDiff.Round(2).InexactFloat64(),
		CheaperPlan:        cheaper,
		Savings:            savings.Round(2).InexactFloat64(),
	}
}

func planTotals(plan MortgagePlan) (PlanTotals, decimal.Decimal, decimal.Decimal) {
	loan := decimal.NewFromFloat(plan.LoanAmount)
	paid := decimal.NewFromFloat(plan.MonthlyPayment).Mul(decimal.NewFromInt(int64(plan.TermMonths)))

	interest := paid.Sub(loan)
	if !loan.IsPositive() || interest.IsNegative() {
		interest = decimal.Zero
	}

	overpayment := decimal.Zero
	if loan.IsPositive() {
		overpayment = interest.Div(loan).Mul(hundred)
	}

	return PlanTotals{
		PlanID:             plan.ID,
		LoanAmount:         loan.Round(2).InexactFloat64(),
		MonthlyPayment:     plan.MonthlyPayment,
		TermMonths:         plan.TermMonths,
		TotalPaid:          paid.Round(2).InexactFloat64(),
		TotalInterest:      interest.Round(2).InexactFloat64(),
		OverpaymentPercent: overpayment.Round(2).InexactFloat64(),
	}, paid, interest
}
