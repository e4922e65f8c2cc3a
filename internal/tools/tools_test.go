package tools

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/cloud-ru/mcp-mortgage-go/internal/calculations"
	"github.com/cloud-ru/mcp-mortgage-go/internal/ledger"
	"github.com/cloud-ru/mcp-mortgage-go/internal/session"
)

func newRegistry(t *testing.T) map[string]ToolHandler {
	t.Helper()
	store := session.NewStore(calculations.LoanParameters{
		TotalPrice:        1410528,
		DownPayment:       600000,
		AnnualRatePercent: 3.15,
		TermMonths:        360,
	})
	return Registry(store, noop.NewTracerProvider().Tracer("test"))
}

func call(t *testing.T, tools map[string]ToolHandler, name string, params map[string]interface{}) interface{} {
	t.Helper()
	result, err := tools[name](context.Background(), params)
	require.NoError(t, err, name)
	return result
}

func openSession(t *testing.T, tools map[string]ToolHandler) string {
	t.Helper()
	state := call(t, tools, ToolSessionOpen, nil).(StateResult)
	return state.SessionID.String()
}

func TestMonthlyPaymentHandler(t *testing.T) {
	tools := newRegistry(t)

	tests := []struct {
		name   string
		params map[string]interface{}
		want   float64
	}{
		{
			name:   "zero rate",
			params: map[string]interface{}{"loan_amount": 120000.0, "annual_rate_percent": 0.0, "term_months": 120.0},
			want:   1000,
		},
		{
			name:   "zero loan",
			params: map[string]interface{}{"loan_amount": 0.0, "annual_rate_percent": 5.0, "term_months": 360.0},
			want:   0,
		},
		{
			name:   "zero term",
			params: map[string]interface{}{"loan_amount": 100000.0, "annual_rate_percent": 5.0, "term_months": 0.0},
			want:   0,
		},
		{
			name:   "missing fields",
			params: map[string]interface{}{},
			want:   0,
		},
		{
			name:   "negative rate coerced to zero",
			params: map[string]interface{}{"loan_amount": 120000.0, "annual_rate_percent": -5.0, "term_months": 120.0},
			want:   1000,
		},
		{
			name:   "negative loan coerced to zero",
			params: map[string]interface{}{"loan_amount": -120000.0, "annual_rate_percent": 5.0, "term_months": 120.0},
			want:   0,
		},
		{
			name:   "default scenario",
			params: map[string]interface{}{"loan_amount": 810528.0, "annual_rate_percent": 3.15, "term_months": 360.0},
			want:   3483.14,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := call(t, tools, ToolMonthlyPayment, tt.params).(PaymentResult)
			assert.InDelta(t, tt.want, result.MonthlyPayment, 0.001)
		})
	}
}

func TestSessionOpenHandler(t *testing.T) {
	tools := newRegistry(t)

	state := call(t, tools, ToolSessionOpen, nil).(StateResult)

	assert.NotEqual(t, uuid.Nil, state.SessionID)
	require.NotNil(t, state.Current)
	assert.InDelta(t, 3483.14, state.Current.MonthlyPayment, 0.001)
	assert.Empty(t, state.History)
}

func TestSessionCloseHandler(t *testing.T) {
	tools := newRegistry(t)
	sessionID := openSession(t, tools)

	closed := call(t, tools, ToolSessionClose, map[string]interface{}{"session_id": sessionID}).(CloseResult)
	assert.True(t, closed.Closed)
	assert.Equal(t, sessionID, closed.SessionID.String())

	_, err := tools[ToolState](context.Background(), map[string]interface{}{"session_id": sessionID})
	assert.ErrorIs(t, err, session.ErrSessionNotFound)

	_, err = tools[ToolSessionClose](context.Background(), map[string]interface{}{"session_id": sessionID})
	assert.ErrorIs(t, err, session.ErrSessionNotFound)

	_, err = tools[ToolSessionClose](context.Background(), map[string]interface{}{})
	assert.ErrorIs(t, err, ErrInvalidParameter)
}

func TestApplyCommitFlow(t *testing.T) {
	tools := newRegistry(t)
	sessionID := openSession(t, tools)

	plan := call(t, tools, ToolApply, map[string]interface{}{
		"session_id":          sessionID,
		"total_price":         1000000.0,
		"down_payment":        200000.0,
		"annual_rate_percent": 0.0,
		"term_months":         160.0,
	}).(calculations.MortgagePlan)
	assert.InDelta(t, 5000.0, plan.MonthlyPayment, 0.001)

	state := call(t, tools, ToolState, map[string]interface{}{"session_id": sessionID}).(StateResult)
	assert.Empty(t, state.History, "apply must not commit")
	assert.Equal(t, plan.ID, state.Current.ID)

	first := call(t, tools, ToolCommit, map[string]interface{}{"session_id": sessionID}).(CommitResult)
	assert.True(t, first.Inserted)
	assert.Equal(t, plan.ID, first.Plan.ID)
	require.Len(t, first.History, 1)
	assert.NotEmpty(t, first.History[0].Annotation)

	second := call(t, tools, ToolCommit, map[string]interface{}{"session_id": sessionID}).(CommitResult)
	assert.False(t, second.Inserted)
	assert.Len(t, second.History, 1)
}

func TestApplyHandler_CoercesInvalidNumbers(t *testing.T) {
	tools := newRegistry(t)
	sessionID := openSession(t, tools)

	plan := call(t, tools, ToolApply, map[string]interface{}{
		"session_id":          sessionID,
		"total_price":         -100.0,
		"down_payment":        "abc",
		"annual_rate_percent": nil,
	}).(calculations.MortgagePlan)

	assert.Equal(t, 0.0, plan.TotalPrice)
	assert.Equal(t, 0.0, plan.DownPayment)
	assert.Equal(t, 1, plan.TermMonths)
	assert.Equal(t, 0.0, plan.MonthlyPayment)
}

func TestSelectHandler(t *testing.T) {
	tools := newRegistry(t)
	sessionID := openSession(t, tools)

	committed := call(t, tools, ToolCommit, map[string]interface{}{"session_id": sessionID}).(CommitResult)
	call(t, tools, ToolApply, map[string]interface{}{
		"session_id":          sessionID,
		"total_price":         1410528.0,
		"down_payment":        600000.0,
		"annual_rate_percent": 3.5,
		"term_months":         360.0,
	})
	call(t, tools, ToolCommit, map[string]interface{}{"session_id": sessionID})

	selected := call(t, tools, ToolSelect, map[string]interface{}{
		"session_id": sessionID,
		"plan_id":    committed.Plan.ID.String(),
	}).(CommitResult)

	assert.True(t, selected.Inserted)
	require.Len(t, selected.History, 3)
	assert.Equal(t, selected.Plan.ID, selected.History[0].ID)
	assert.Equal(t, 3.15, selected.History[0].AnnualRatePercent)

	again := call(t, tools, ToolCommit, map[string]interface{}{"session_id": sessionID}).(CommitResult)
	assert.False(t, again.Inserted)
}

func TestCopyTextHandler(t *testing.T) {
	tools := newRegistry(t)
	sessionID := openSession(t, tools)

	live := call(t, tools, ToolCopyText, map[string]interface{}{"session_id": sessionID}).(CopyTextResult)
	assert.Contains(t, live.Text, "Down payment 60w, remaining 810,528 financed")
	assert.Contains(t, live.Text, "monthly 3,483.14")

	committed := call(t, tools, ToolCommit, map[string]interface{}{"session_id": sessionID}).(CommitResult)
	byID := call(t, tools, ToolCopyText, map[string]interface{}{
		"session_id": sessionID,
		"plan_id":    committed.Plan.ID.String(),
	}).(CopyTextResult)
	assert.Equal(t, live.Text, byID.Text)
	assert.Equal(t, committed.Plan.ID, byID.PlanID)
}

func TestCompareHandler(t *testing.T) {
	tools := newRegistry(t)
	sessionID := openSession(t, tools)

	base := call(t, tools, ToolCommit, map[string]interface{}{"session_id": sessionID}).(CommitResult)
	other := call(t, tools, ToolApply, map[string]interface{}{
		"session_id":          sessionID,
		"total_price":         1410528.0,
		"down_payment":        600000.0,
		"annual_rate_percent": 4.0,
		"term_months":         360.0,
	}).(calculations.MortgagePlan)

	result := call(t, tools, ToolCompare, map[string]interface{}{
		"session_id":    sessionID,
		"base_plan_id":  base.Plan.ID.String(),
		"other_plan_id": other.ID.String(),
	}).(calculations.PlanComparison)

	assert.Equal(t, calculations.CheaperBase, result.CheaperPlan)
	assert.Greater(t, result.Savings, 0.0)
	assert.Greater(t, result.MonthlyPaymentDiff, 0.0)
}

func TestHandlerErrors(t *testing.T) {
	tools := newRegistry(t)
	sessionID := openSession(t, tools)

	tests := []struct {
		name    string
		tool    string
		params  map[string]interface{}
		wantErr error
	}{
		{
			name:    "missing session",
			tool:    ToolCommit,
			params:  map[string]interface{}{},
			wantErr: ErrInvalidParameter,
		},
		{
			name:    "malformed session",
			tool:    ToolState,
			params:  map[string]interface{}{"session_id": "nope"},
			wantErr: ErrInvalidParameter,
		},
		{
			name:    "unknown session",
			tool:    ToolApply,
			params:  map[string]interface{}{"session_id": uuid.NewString()},
			wantErr: session.ErrSessionNotFound,
		},
		{
			name:    "unknown plan",
			tool:    ToolSelect,
			params:  map[string]interface{}{"session_id": sessionID, "plan_id": uuid.NewString()},
			wantErr: ledger.ErrPlanNotFound,
		},
		{
			name:    "malformed plan",
			tool:    ToolCopyText,
			params:  map[string]interface{}{"session_id": sessionID, "plan_id": 42.0},
			wantErr: ErrInvalidParameter,
		},
		{
			name:    "unknown compare plan",
			tool:    ToolCompare,
			params:  map[string]interface{}{"session_id": sessionID, "base_plan_id": uuid.NewString(), "other_plan_id": uuid.NewString()},
			wantErr: ledger.ErrPlanNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tools[tt.tool](context.Background(), tt.params)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}
