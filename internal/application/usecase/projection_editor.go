package usecase

import (
	"context"
	"fmt"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/diillson/finanzas-dashboard-go/internal/domain/entity"
	"github.com/diillson/finanzas-dashboard-go/internal/domain/money"
	"github.com/diillson/finanzas-dashboard-go/internal/domain/repository"
	"github.com/diillson/finanzas-dashboard-go/internal/shared/types"
)

// Accepted projection range, inclusive.
var (
	MaxProjectionAmount = decimal.RequireFromString("999999999.99")
	MinProjectionAmount = MaxProjectionAmount.Neg()
)

// EditStrategy decides when an inline edit leaves edit mode.
type EditStrategy int

const (
	// AwaitConfirmation stays in edit mode until the backend accepts the value.
	AwaitConfirmation EditStrategy = iota
	// EagerClose leaves edit mode before the request and reconciles through
	// the refresh that follows it, successful or not.
	EagerClose
)

// EditState is the editor's lifecycle state.
type EditState int

const (
	EditIdle EditState = iota
	EditEditing
	EditSaving
)

func (s EditState) String() string {
	switch s {
	case EditEditing:
		return "editing"
	case EditSaving:
		return "saving"
	default:
		return "idle"
	}
}

// ProjectionTarget identifies the cell being edited.
type ProjectionTarget struct {
	ConceptID   int64
	ConceptName string
	MonthID     int64
	MonthName   string
}

// RefreshFunc refetches the dashboard after a successful save.
type RefreshFunc func(ctx context.Context) error

// ProjectionEditor persists a user-entered projected balance for one
// concept/month pair.
type ProjectionEditor struct {
	repo     repository.FinanceRepository
	refresh  RefreshFunc
	logger   types.Logger
	strategy EditStrategy

	mu      sync.Mutex
	state   EditState
	target  ProjectionTarget
	text    string
	lastErr error
}

// NewProjectionEditor cria um editor de projeções.
func NewProjectionEditor(repo repository.FinanceRepository, refresh RefreshFunc, logger types.Logger, strategy EditStrategy) *ProjectionEditor {
	return &ProjectionEditor{repo: repo, refresh: refresh, logger: logger, strategy: strategy}
}

// Begin enters edit mode for target. The text starts as the current
// projection in comma-decimal form, or empty when there is none.
func (e *ProjectionEditor) Begin(target ProjectionTarget, current *decimal.Decimal) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state == EditSaving {
		return types.ErrEditInProgress
	}
	e.state = EditEditing
	e.target = target
	e.lastErr = nil
	e.text = ""
	if current != nil {
		e.text = money.FormatAmountText(*current)
	}
	return nil
}

// SetText replaces the edited text.
func (e *ProjectionEditor) SetText(text string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state != EditEditing {
		return types.ErrNotEditing
	}
	e.text = text
	return nil
}

// Cancel discards the edit without any network call.
func (e *ProjectionEditor) Cancel() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state == EditSaving {
		return
	}
	e.state = EditIdle
	e.text = ""
	e.lastErr = nil
	e.target = ProjectionTarget{}
}

// State returns the lifecycle state, the edited text and the last inline error.
func (e *ProjectionEditor) State() (EditState, string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state, e.text, e.lastErr
}

// Target returns the cell being edited.
func (e *ProjectionEditor) Target() ProjectionTarget {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.target
}

// Confirm parses the text, upserts the projection and, on success, runs the
// refresh callback. With AwaitConfirmation a failed upsert keeps the editor
// in edit mode with the error recorded; nothing is retried.
func (e *ProjectionEditor) Confirm(ctx context.Context) error {
	e.mu.Lock()
	switch e.state {
	case EditSaving:
		e.mu.Unlock()
		return types.ErrEditInProgress
	case EditIdle:
		e.mu.Unlock()
		return types.ErrNotEditing
	}

	amount, err := ParseProjectionAmount(e.text)
	if err != nil {
		e.lastErr = err
		e.mu.Unlock()
		return err
	}
	target := e.target
	e.lastErr = nil
	if e.strategy == EagerClose {
		e.state = EditIdle
	} else {
		e.state = EditSaving
	}
	e.mu.Unlock()

	upsertErr := e.repo.UpsertProjection(ctx, entity.ProjectionUpsert{
		Concept: target.ConceptID,
		Month:   target.MonthID,
		Balance: amount,
	})

	if e.strategy == EagerClose {
		if upsertErr != nil {
			e.warn("Projection for %s (%s) was not saved: %v", target.ConceptName, target.MonthName, upsertErr)
		}
		if err := e.runRefresh(ctx); err != nil && upsertErr == nil {
			return err
		}
		return upsertErr
	}

	e.mu.Lock()
	if upsertErr != nil {
		e.state = EditEditing
		e.lastErr = upsertErr
		e.mu.Unlock()
		return upsertErr
	}
	e.state = EditIdle
	e.text = ""
	e.target = ProjectionTarget{}
	e.mu.Unlock()

	return e.runRefresh(ctx)
}

func (e *ProjectionEditor) runRefresh(ctx context.Context) error {
	if e.refresh == nil {
		return nil
	}
	if err := e.refresh(ctx); err != nil {
		return fmt.Errorf("projection saved but refreshing the dashboard failed: %w", err)
	}
	return nil
}

func (e *ProjectionEditor) warn(format string, a ...interface{}) {
	if e.logger != nil {
		e.logger.LogWarning(format, a...)
	}
}

// ParseProjectionAmount parses comma-or-dot decimal text and enforces the
// accepted projection range.
func ParseProjectionAmount(text string) (decimal.Decimal, error) {
	amount, err := money.ParseAmount(text)
	if err != nil {
		return decimal.Decimal{}, err
	}
	if amount.GreaterThan(MaxProjectionAmount) || amount.LessThan(MinProjectionAmount) {
		return decimal.Decimal{}, fmt.Errorf("%w: %s", types.ErrAmountOutOfRange, amount.String())
	}
	return amount, nil
}
