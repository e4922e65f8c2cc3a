// Package ledger хранит текущий ипотечный план сессии и короткую
// историю сохраненных планов без соседних дубликатов.
package ledger

import (
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/cloud-ru/mcp-mortgage-go/internal/calculations"
	"github.com/cloud-ru/mcp-mortgage-go/internal/metrics"
	"github.com/cloud-ru/mcp-mortgage-go/internal/validators"
)

// DefaultCapacity размер истории по умолчанию
const DefaultCapacity = 10

// ErrPlanNotFound возвращается, если плана с таким ID нет в истории
var ErrPlanNotFound = errors.New("plan not found in history")

// HistoryEntry сохраненный план вместе с его аннотацией
type HistoryEntry struct {
	calculations.MortgagePlan
	Annotation string `json:"annotation"`
}

// Option настраивает Ledger
type Option func(*Ledger)

// WithCapacity задает размер истории. Значения меньше 1 игнорируются.
func WithCapacity(capacity int) Option {
	return func(l *Ledger) {
		if capacity > 0 {
			l.capacity = capacity
		}
	}
}

// WithAnnotator задает источник аннотаций
func WithAnnotator(a Annotator) Option {
	return func(l *Ledger) {
		if a != nil {
			l.annotator = a
		}
	}
}

// WithClock задает часы для CreatedAt
func WithClock(now func() time.Time) Option {
	return func(l *Ledger) {
		if now != nil {
			l.now = now
		}
	}
}

// WithLogger задает логгер
func WithLogger(logger *slog.Logger) Option {
	return func(l *Ledger) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// Ledger владеет текущим планом и историей. Каждый метод выполняется целиком
// под блокировкой, поэтому Commit всегда видит план последнего вызова
// ApplyParameters.
type Ledger struct {
	mu sync.Mutex

	capacity  int
	annotator Annotator
	now       func() time.Time
	logger    *slog.Logger

	seq         uint64
	current     *calculations.MortgagePlan
	history     []calculations.MortgagePlan
	annotations map[uuid.UUID]string
}

// New создает пустой ledger без текущего плана
func New(opts ...Option) *Ledger {
	l := &Ledger{
		capacity:    DefaultCapacity,
		annotator:   RandomFace{},
		now:         time.Now,
		logger:      slog.Default(),
		annotations: make(map[uuid.UUID]string),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// ApplyParameters пересчитывает текущий план по новым параметрам и заменяет
// предыдущий. История не меняется.
func (l *Ledger) ApplyParameters(params calculations.LoanParameters) calculations.MortgagePlan {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.apply(params)
}

// Commit сохраняет текущий план в историю, если его параметры отличаются от
// последней записи. Возвращает признак вставки; без текущего плана ничего
// не делает.
func (l *Ledger) Commit() (calculations.MortgagePlan, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.current == nil {
		metrics.PlanCommits.WithLabelValues("empty").Inc()
		return calculations.MortgagePlan{}, false
	}

	plan := *l.current
	return plan, l.insertIfDistinct(plan)
}

// SelectHistoryEntry пересчитывает параметры записи истории как новый
// текущий план и сохраняет этот свежий план.
func (l *Ledger) SelectHistoryEntry(id uuid.UUID) (calculations.MortgagePlan, bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	entry, ok := l.find(id)
	if !ok {
		return calculations.MortgagePlan{}, false, ErrPlanNotFound
	}

	plan := l.apply(entry.Parameters())
	return plan, l.insertIfDistinct(plan), nil
}

// Current возвращает текущий план, если он есть
func (l *Ledger) Current() (calculations.MortgagePlan, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.current == nil {
		return calculations.MortgagePlan{}, false
	}
	return *l.current, true
}

// History возвращает копию истории, новые записи первыми
func (l *Ledger) History() []calculations.MortgagePlan {
	l.mu.Lock()
	defer l.mu.Unlock()

	history := make([]calculations.MortgagePlan, len(l.history))
	copy(history, l.history)
	return history
}

// Entries возвращает историю вместе с аннотациями
func (l *Ledger) Entries() []HistoryEntry {
	l.mu.Lock()
	defer l.mu.Unlock()

	entries := make([]HistoryEntry, 0, len(l.history))
	for _, plan := range l.history {
		entries = append(entries, HistoryEntry{
			MortgagePlan: plan,
			Annotation:   l.annotations[plan.ID],
		})
	}
	return entries
}

// Annotation возвращает символ, назначенный записи истории
func (l *Ledger) Annotation(id uuid.UUID) (string, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	symbol, ok := l.annotations[id]
	return symbol, ok
}

// Lookup ищет план по ID среди текущего плана и истории
func (l *Ledger) Lookup(id uuid.UUID) (calculations.MortgagePlan, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.current != nil && l.current.ID == id {
		return *l.current, true
	}
	return l.find(id)
}

// Capacity возвращает максимальную длину истории
func (l *Ledger) Capacity() int {
	return l.capacity
}

func (l *Ledger) apply(params calculations.LoanParameters) calculations.MortgagePlan {
	l.seq++
	plan := calculations.NewPlan(uuid.New(), l.seq, validators.Parameters(params), l.now())
	l.current = &plan

	metrics.PlanRecomputes.Inc()
	return plan
}

func (l *Ledger) find(id uuid.UUID) (calculations.MortgagePlan, bool) {
	for _, plan := range l.history {
		if plan.ID == id {
			return plan, true
		}
	}
	return calculations.MortgagePlan{}, false
}

func (l *Ledger) insertIfDistinct(plan calculations.MortgagePlan) bool {
	if len(l.history) > 0 && l.history[0].SameInputs(plan) {
		metrics.PlanCommits.WithLabelValues("duplicate").Inc()
		l.logger.Debug("commit skipped, inputs equal newest entry", "plan_id", plan.ID)
		return false
	}

	history := make([]calculations.MortgagePlan, 0, len(l.history)+1)
	history = append(history, plan)
	history = append(history, l.history...)

	if len(history) > l.capacity {
		for _, evicted := range history[l.capacity:] {
			delete(l.annotations, evicted.ID)
			l.logger.Debug("plan evicted from history", "plan_id", evicted.ID)
		}
		metrics.HistoryEvictions.Add(float64(len(history) - l.capacity))
		history = history[:l.capacity]
	}
	l.history = history

	if _, ok := l.annotations[plan.ID]; !ok {
		l.annotations[plan.ID] = l.annotator.Annotate(plan.ID)
	}

	metrics.PlanCommits.WithLabelValues("inserted").Inc()
	l.logger.Debug("plan committed", "plan_id", plan.ID, "seq", plan.Seq, "history_len", len(l.history))
	return true
}
