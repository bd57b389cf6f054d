package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/diillson/finanzas-dashboard-go/internal/domain/cashflow"
	"github.com/diillson/finanzas-dashboard-go/internal/domain/entity"
	"github.com/diillson/finanzas-dashboard-go/internal/domain/repository"
	"github.com/diillson/finanzas-dashboard-go/internal/shared/types"
)

// LoadResult describes one LoadMore call.
type LoadResult struct {
	// Skipped is true when another load was already in flight.
	Skipped bool
	// Stale is true when the store was reset while the page was loading;
	// the page was dropped.
	Stale    bool
	Returned int
	HasMore  bool
	Oldest   *entity.MonthRecord
}

// PaginationController loads older month windows on demand and merges them
// into the store.
type PaginationController struct {
	repo     repository.FinanceRepository
	store    *cashflow.Store
	logger   types.Logger
	pageSize int
	clock    cashflow.Clock

	mu      sync.Mutex
	hasMore bool
	oldest  *entity.MonthRecord
	loading bool
}

// NewPaginationController cria um controlador de paginação sobre o store.
func NewPaginationController(
	repo repository.FinanceRepository,
	store *cashflow.Store,
	logger types.Logger,
	pageSize int,
	clock cashflow.Clock,
) *PaginationController {
	if pageSize <= 0 {
		pageSize = types.DefaultMonthsPerPage
	}
	if clock == nil {
		clock = time.Now
	}
	return &PaginationController{
		repo:     repo,
		store:    store,
		logger:   logger,
		pageSize: pageSize,
		clock:    clock,
		hasMore:  true,
	}
}

// HasMore reports whether older months may still exist.
func (p *PaginationController) HasMore() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.hasMore
}

// Oldest returns the oldest month loaded by pagination, nil before the first page.
func (p *PaginationController) Oldest() *entity.MonthRecord {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.oldest == nil {
		return nil
	}
	oldest := *p.oldest
	return &oldest
}

// Loading reports whether a page request is in flight.
func (p *PaginationController) Loading() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.loading
}

// Reset clears the pagination state so the next page starts from today.
func (p *PaginationController) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.hasMore = true
	p.oldest = nil
}

// LoadMore fetches the window strictly older than the oldest loaded month.
// A call made while another is in flight returns immediately with Skipped.
// On error the "has more" state is left unchanged so the load can be retried.
func (p *PaginationController) LoadMore(ctx context.Context) (LoadResult, error) {
	p.mu.Lock()
	if p.loading {
		hasMore := p.hasMore
		p.mu.Unlock()
		return LoadResult{Skipped: true, HasMore: hasMore}, nil
	}
	p.loading = true
	req := repository.WindowRequest{Offset: -p.pageSize}
	if p.oldest != nil {
		d, err := p.oldest.Date()
		if err == nil {
			start := d.Start()
			req.Reference = &start
		}
	}
	gen := p.store.Generation()
	p.mu.Unlock()

	defer func() {
		p.mu.Lock()
		p.loading = false
		p.mu.Unlock()
	}()

	records, err := p.repo.FetchMonthWindow(ctx, req)
	if err != nil {
		p.logf("Error fetching past months: %v", err)
		return LoadResult{HasMore: p.HasMore()}, fmt.Errorf("loading older months: %w", err)
	}
	cashflow.MarkCurrentMonth(records, p.clock())

	merged, err := p.store.MergeOlderWindowAt(gen, records)
	if err != nil {
		p.logf("Error merging past months: %v", err)
		return LoadResult{HasMore: p.HasMore()}, fmt.Errorf("merging older months: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if !merged {
		return LoadResult{Stale: true, Returned: len(records), HasMore: p.hasMore}, nil
	}
	if oldest := earliest(records); oldest != nil {
		p.oldest = oldest
	}
	if len(records) < p.pageSize {
		p.hasMore = false
	}
	result := LoadResult{Returned: len(records), HasMore: p.hasMore}
	if p.oldest != nil {
		o := *p.oldest
		result.Oldest = &o
	}
	return result, nil
}

func (p *PaginationController) logf(format string, a ...interface{}) {
	if p.logger != nil {
		p.logger.LogWarning(format, a...)
	}
}

func earliest(records []entity.MonthRecord) *entity.MonthRecord {
	var (
		out  *entity.MonthRecord
		best entity.MonthDate
	)
	for i := range records {
		d, err := records[i].Date()
		if err != nil {
			continue
		}
		if out == nil || d.Before(best) {
			r := records[i]
			out, best = &r, d
		}
	}
	return out
}
