package tools

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/cloud-ru/mcp-mortgage-go/internal/calculations"
	"github.com/cloud-ru/mcp-mortgage-go/internal/ledger"
	"github.com/cloud-ru/mcp-mortgage-go/internal/metrics"
	"github.com/cloud-ru/mcp-mortgage-go/internal/session"
	"github.com/cloud-ru/mcp-mortgage-go/internal/validators"
)

// ToolHandler представляет обработчик инструмента MCP
type ToolHandler func(ctx context.Context, params map[string]interface{}) (interface{}, error)

// ErrInvalidParameter возвращается для некорректных идентификаторов.
// Числовые параметры кредита не проверяются, а приводятся.
var ErrInvalidParameter = errors.New("invalid parameter")

const (
	ToolSessionOpen    = "mortgage_session_open"
	ToolSessionClose   = "mortgage_session_close"
	ToolApply          = "mortgage_apply"
	ToolCommit         = "mortgage_commit"
	ToolSelect         = "mortgage_select"
	ToolState          = "mortgage_state"
	ToolCopyText       = "mortgage_copy_text"
	ToolCompare        = "mortgage_compare"
	ToolMonthlyPayment = "monthly_payment"
)

// StateResult снимок состояния сессии
type StateResult struct {
	SessionID uuid.UUID                  `json:"session_id"`
	Current   *calculations.MortgagePlan `json:"current"`
	History   []ledger.HistoryEntry      `json:"history"`
}

// CommitResult результат сохранения и выбора из истории
type CommitResult struct {
	SessionID uuid.UUID                 `json:"session_id"`
	Plan      calculations.MortgagePlan `json:"plan"`
	Inserted  bool                      `json:"inserted"`
	History   []ledger.HistoryEntry     `json:"history"`
}

// CopyTextResult текст плана для буфера обмена
type CopyTextResult struct {
	PlanID uuid.UUID `json:"plan_id"`
	Text   string    `json:"text"`
}

// PaymentResult результат расчета платежа без сессии
type PaymentResult struct {
	LoanAmount        float64 `json:"loan_amount"`
	AnnualRatePercent float64 `json:"annual_rate_percent"`
	TermMonths        int     `json:"term_months"`
	MonthlyPayment    float64 `json:"monthly_payment"`
}

// Registry возвращает все инструменты по имени
func Registry(store *session.Store, tracer trace.Tracer) map[string]ToolHandler {
	return map[string]ToolHandler{
		ToolSessionOpen:    SessionOpenHandler(store, tracer),
		ToolSessionClose:   SessionCloseHandler(store, tracer),
		ToolApply:          ApplyHandler(store, tracer),
		ToolCommit:         CommitHandler(store, tracer),
		ToolSelect:         SelectHandler(store, tracer),
		ToolState:          StateHandler(store, tracer),
		ToolCopyText:       CopyTextHandler(store, tracer),
		ToolCompare:        CompareHandler(store, tracer),
		ToolMonthlyPayment: MonthlyPaymentHandler(tracer),
	}
}

// MonthlyPaymentHandler обрабатывает запрос на расчет платежа без сессии
func MonthlyPaymentHandler(tracer trace.Tracer) ToolHandler {
	return func(ctx context.Context, params map[string]interface{}) (interface{}, error) {
		toolName := ToolMonthlyPayment

		_, span := tracer.Start(ctx, toolName)
		defer span.End()

		// Срок не приводится к 1: при нулевом сроке платеж равен 0
		loanAmount := validators.Amount(validators.Float(params, "loan_amount"))
		annualRatePercent := validators.Rate(validators.Float(params, "annual_rate_percent"))
		months := validators.Int(params, "term_months")

		span.SetAttributes(
			attribute.Float64("loan_amount", loanAmount),
			attribute.Float64("annual_rate_percent", annualRatePercent),
			attribute.Int("term_months", months),
		)

		result := PaymentResult{
			LoanAmount:        loanAmount,
			AnnualRatePercent: annualRatePercent,
			TermMonths:        months,
			MonthlyPayment:    calculations.MonthlyPayment(loanAmount, annualRatePercent, months),
		}

		span.SetAttributes(attribute.Float64("monthly_payment", result.MonthlyPayment))
		record(span, toolName, nil)

		return result, nil
	}
}

// SessionOpenHandler открывает сессию со сценарием по умолчанию
func SessionOpenHandler(store *session.Store, tracer trace.Tracer) ToolHandler {
	return func(ctx context.Context, params map[string]interface{}) (interface{}, error) {
		toolName := ToolSessionOpen

		_, span := tracer.Start(ctx, toolName)
		defer span.End()

		id, l := store.Open()
		span.SetAttributes(attribute.String("session_id", id.String()))

		record(span, toolName, nil)
		return snapshot(id, l), nil
	}
}

// CloseResult подтверждает закрытие сессии
type CloseResult struct {
	SessionID uuid.UUID `json:"session_id"`
	Closed    bool      `json:"closed"`
}

// SessionCloseHandler закрывает сессию и освобождает ее историю
func SessionCloseHandler(store *session.Store, tracer trace.Tracer) ToolHandler {
	return func(ctx context.Context, params map[string]interface{}) (interface{}, error) {
		toolName := ToolSessionClose

		_, span := tracer.Start(ctx, toolName)
		defer span.End()

		id, err := uuidParam(params, "session_id")
		if err != nil {
			record(span, toolName, err)
			return nil, err
		}
		span.SetAttributes(attribute.String("session_id", id.String()))

		if err := store.Close(id); err != nil {
			err = fmt.Errorf("session %s: %w", id, err)
			record(span, toolName, err)
			return nil, err
		}

		record(span, toolName, nil)
		return CloseResult{SessionID: id, Closed: true}, nil
	}
}

// ApplyHandler пересчитывает текущий план по новым параметрам
func ApplyHandler(store *session.Store, tracer trace.Tracer) ToolHandler {
	return func(ctx context.Context, params map[string]interface{}) (interface{}, error) {
		toolName := ToolApply

		_, span := tracer.Start(ctx, toolName)
		defer span.End()

		id, l, err := sessionFrom(store, params)
		if err != nil {
			record(span, toolName, err)
			return nil, err
		}

		loan := validators.FromParams(params)
		span.SetAttributes(
			attribute.String("session_id", id.String()),
			attribute.Float64("total_price", loan.TotalPrice),
			attribute.Float64("down_payment", loan.DownPayment),
			attribute.Float64("annual_rate_percent", loan.AnnualRatePercent),
			attribute.Int("term_months", loan.TermMonths),
		)

		plan := l.ApplyParameters(loan)
		span.SetAttributes(attribute.Float64("monthly_payment", plan.MonthlyPayment))

		record(span, toolName, nil)
		return plan, nil
	}
}

// CommitHandler сохраняет текущий план в историю
func CommitHandler(store *session.Store, tracer trace.Tracer) ToolHandler {
	return func(ctx context.Context, params map[string]interface{}) (interface{}, error) {
		toolName := ToolCommit

		_, span := tracer.Start(ctx, toolName)
		defer span.End()

		id, l, err := sessionFrom(store, params)
		if err != nil {
			record(span, toolName, err)
			return nil, err
		}

		plan, inserted := l.Commit()
		span.SetAttributes(
			attribute.String("session_id", id.String()),
			attribute.Bool("inserted", inserted),
		)

		record(span, toolName, nil)
		return CommitResult{SessionID: id, Plan: plan, Inserted: inserted, History: l.Entries()}, nil
	}
}

// SelectHandler пересчитывает запись истории и сохраняет ее
func SelectHandler(store *session.Store, tracer trace.Tracer) ToolHandler {
	return func(ctx context.Context, params map[string]interface{}) (interface{}, error) {
		toolName := ToolSelect

		_, span := tracer.Start(ctx, toolName)
		defer span.End()

		id, l, err := sessionFrom(store, params)
		if err != nil {
			record(span, toolName, err)
			return nil, err
		}

		planID, err := uuidParam(params, "plan_id")
		if err != nil {
			record(span, toolName, err)
			return nil, err
		}
		span.SetAttributes(
			attribute.String("session_id", id.String()),
			attribute.String("plan_id", planID.String()),
		)

		plan, inserted, err := l.SelectHistoryEntry(planID)
		if err != nil {
			err = fmt.Errorf("select %s: %w", planID, err)
			record(span, toolName, err)
			return nil, err
		}
		span.SetAttributes(attribute.Bool("inserted", inserted))

		record(span, toolName, nil)
		return CommitResult{SessionID: id, Plan: plan, Inserted: inserted, History: l.Entries()}, nil
	}
}

// StateHandler возвращает текущий план и историю сессии
func StateHandler(store *session.Store, tracer trace.Tracer) ToolHandler {
	return func(ctx context.Context, params map[string]interface{}) (interface{}, error) {
		toolName := ToolState

		_, span := tracer.Start(ctx, toolName)
		defer span.End()

		id, l, err := sessionFrom(store, params)
		if err != nil {
			record(span, toolName, err)
			return nil, err
		}
		span.SetAttributes(attribute.String("session_id", id.String()))

		record(span, toolName, nil)
		return snapshot(id, l), nil
	}
}

// CopyTextHandler формирует текст плана для буфера обмена. Без plan_id
// используется текущий план.
func CopyTextHandler(store *session.Store, tracer trace.Tracer) ToolHandler {
	return func(ctx context.Context, params map[string]interface{}) (interface{}, error) {
		toolName := ToolCopyText

		_, span := tracer.Start(ctx, toolName)
		defer span.End()

		_, l, err := sessionFrom(store, params)
		if err != nil {
			record(span, toolName, err)
			return nil, err
		}

		var plan calculations.MortgagePlan
		if _, given := params["plan_id"]; given {
			plan, err = planFrom(l, params, "plan_id")
		} else {
			var ok bool
			if plan, ok = l.Current(); !ok {
				err = fmt.Errorf("no live plan: %w", ledger.ErrPlanNotFound)
			}
		}
		if err != nil {
			record(span, toolName, err)
			return nil, err
		}
		span.SetAttributes(attribute.String("plan_id", plan.ID.String()))

		record(span, toolName, nil)
		return CopyTextResult{PlanID: plan.ID, Text: calculations.CopyText(plan)}, nil
	}
}

// CompareHandler обрабатывает запрос на сравнение двух планов сессии
func CompareHandler(store *session.Store, tracer trace.Tracer) ToolHandler {
	return func(ctx context.Context, params map[string]interface{}) (interface{}, error) {
		toolName := ToolCompare

		_, span := tracer.Start(ctx, toolName)
		defer span.End()

		_, l, err := sessionFrom(store, params)
		if err != nil {
			record(span, toolName, err)
			return nil, err
		}

		base, err := planFrom(l, params, "base_plan_id")
		if err != nil {
			record(span, toolName, err)
			return nil, err
		}
		other, err := planFrom(l, params, "other_plan_id")
		if err != nil {
			record(span, toolName, err)
			return nil, err
		}

		result := calculations.ComparePlans(base, other)
		span.SetAttributes(
			attribute.String("cheaper_plan", result.CheaperPlan),
			attribute.Float64("savings", result.Savings),
		)

		record(span, toolName, nil)
		return result, nil
	}
}

func snapshot(id uuid.UUID, l *ledger.Ledger) StateResult {
	result := StateResult{SessionID: id, History: l.Entries()}
	if current, ok := l.Current(); ok {
		result.Current = &current
	}
	return result
}

func sessionFrom(store *session.Store, params map[string]interface{}) (uuid.UUID, *ledger.Ledger, error) {
	id, err := uuidParam(params, "session_id")
	if err != nil {
		return uuid.Nil, nil, err
	}
	l, err := store.Get(id)
	if err != nil {
		return uuid.Nil, nil, fmt.Errorf("session %s: %w", id, err)
	}
	return id, l, nil
}

func planFrom(l *ledger.Ledger, params map[string]interface{}, key string) (calculations.MortgagePlan, error) {
	id, err := uuidParam(params, key)
	if err != nil {
		return calculations.MortgagePlan{}, err
	}
	plan, ok := l.Lookup(id)
	if !ok {
		return calculations.MortgagePlan{}, fmt.Errorf("%s %s: %w", key, id, ledger.ErrPlanNotFound)
	}
	return plan, nil
}

func uuidParam(params map[string]interface{}, key string) (uuid.UUID, error) {
	raw, ok := params[key].(string)
	if !ok {
		return uuid.Nil, fmt.Errorf("%w: %s", ErrInvalidParameter, key)
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %s: %v", ErrInvalidParameter, key, err)
	}
	return id, nil
}

func record(span trace.Span, toolName string, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		metrics.ToolCalls.WithLabelValues(toolName, "error").Inc()
		return
	}
	span.SetAttributes(attribute.Bool("success", true))
	metrics.ToolCalls.WithLabelValues(toolName, "success").Inc()
}
