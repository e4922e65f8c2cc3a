package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ToolCalls счетчик вызовов инструментов
	ToolCalls = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tool_calls_total",
			Help: "Общее количество вызовов инструментов",
		},
		[]string{"tool_name", "status"},
	)

	// PlanRecomputes счетчик пересчетов текущего плана
	PlanRecomputes = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "plan_recomputes_total",
			Help: "Пересчеты текущего плана при изменении параметров",
		},
	)

	// PlanCommits счетчик сохранений в историю по результату (inserted, duplicate, empty)
	PlanCommits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "plan_commits_total",
			Help: "Сохранения плана в историю",
		},
		[]string{"result"},
	)

	// HistoryEvictions счетчик планов, вытесненных из переполненной истории
	HistoryEvictions = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "history_evictions_total",
			Help: "Планы, вытесненные из истории при переполнении",
		},
	)

	// ActiveSessions число открытых сессий
	ActiveSessions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "active_sessions",
			Help: "Количество открытых сессий",
		},
	)
)
