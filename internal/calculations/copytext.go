package calculations

import (
	"fmt"

	"github.com/cloud-ru/mcp-mortgage-go/pkg/utils"
)

// Первоначальный взнос указывается в десятках тысяч ("w")
const downPaymentUnit = 10000.0

// CopyText формирует текст плана для копирования в буфер обмена
func CopyText(plan MortgagePlan) string {
	return fmt.Sprintf("- Total price %s\n- Down payment %sw, remaining %s financed\n- Commercial rate %s%%, over %s years, monthly %s",
		utils.FormatNumber(plan.TotalPrice),
		utils.FormatNumber(plan.DownPayment/downPaymentUnit),
		utils.FormatNumber(plan.LoanAmount),
		utils.FormatNumber(plan.AnnualRatePercent),
		utils.FormatNumber(float64(plan.TermMonths)/12.0),
		utils.FormatNumber(plan.MonthlyPayment),
	)
}
