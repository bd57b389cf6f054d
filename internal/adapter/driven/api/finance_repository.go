package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	"github.com/diillson/finanzas-dashboard-go/internal/domain/entity"
	"github.com/diillson/finanzas-dashboard-go/internal/domain/repository"
)

const referenceDateLayout = "2006-01-02"

// FinanceRepositoryImpl implementa a interface FinanceRepository sobre a API REST.
type FinanceRepositoryImpl struct {
	client *Client
}

// NewFinanceRepository cria um novo repositório da API.
func NewFinanceRepository(client *Client) repository.FinanceRepository {
	return &FinanceRepositoryImpl{client: client}
}

// FetchMonthWindow returns the month records of one window. Records that fail
// to decode or validate are skipped and logged; the rest of the batch is kept.
func (r *FinanceRepositoryImpl) FetchMonthWindow(ctx context.Context, req repository.WindowRequest) ([]entity.MonthRecord, error) {
	query := url.Values{}
	query.Set("month_offset", strconv.Itoa(req.Offset))
	if req.Reference != nil {
		query.Set("reference_date", req.Reference.Format(referenceDateLayout))
	}

	var raw json.RawMessage
	if err := r.client.do(ctx, "GET", "concept-balances/for-months/", query, nil, &raw); err != nil {
		return nil, fmt.Errorf("fetching month window: %w", err)
	}
	items, _, err := splitList(raw)
	if err != nil {
		return nil, fmt.Errorf("decoding month window: %w", err)
	}

	months := make([]entity.MonthRecord, 0, len(items))
	for i, item := range items {
		var m entity.MonthRecord
		if err := json.Unmarshal(item, &m); err != nil {
			r.client.warn("Skipping month record %d: %v", i, err)
			continue
		}
		if err := m.Validate(); err != nil {
			r.client.warn("Skipping month record %d: %v", i, err)
			continue
		}
		months = append(months, m)
	}
	return months, nil
}

func (r *FinanceRepositoryImpl) FetchLifetimeTotals(ctx context.Context) (entity.LifetimeTotals, error) {
	var totals entity.LifetimeTotals
	if err := r.client.do(ctx, "GET", "transactions/totals/", nil, nil, &totals); err != nil {
		return entity.LifetimeTotals{}, fmt.Errorf("fetching lifetime totals: %w", err)
	}
	return totals, nil
}

type upsertPayload struct {
	Concept int64       `json:"concept"`
	Month   int64       `json:"month"`
	Balance json.Number `json:"balance"`
}

func (r *FinanceRepositoryImpl) UpsertProjection(ctx context.Context, upsert entity.ProjectionUpsert) error {
	payload := upsertPayload{
		Concept: upsert.Concept,
		Month:   upsert.Month,
		Balance: json.Number(upsert.Balance.String()),
	}
	if err := r.client.do(ctx, "POST", "concept-balances/upsert-projection/", nil, payload, nil); err != nil {
		return fmt.Errorf("saving projection for concept %d month %d: %w", upsert.Concept, upsert.Month, err)
	}
	return nil
}

func (r *FinanceRepositoryImpl) ListTransactions(ctx context.Context, filter entity.FilterCriteria, page repository.PageRequest) (entity.TransactionPage, error) {
	query := url.Values{}
	query.Set("ordering", "-month__starting_date")
	if page.Page > 0 {
		query.Set("page", strconv.Itoa(page.Page))
	}
	if page.PageSize > 0 {
		query.Set("page_size", strconv.Itoa(page.PageSize))
	}
	if filter.AccountID != 0 {
		query.Set("account", strconv.FormatInt(filter.AccountID, 10))
	}
	if filter.ConceptID != 0 {
		query.Set("concept", strconv.FormatInt(filter.ConceptID, 10))
	}
	if filter.MonthID != 0 {
		query.Set("month", strconv.FormatInt(filter.MonthID, 10))
	}

	var raw json.RawMessage
	if err := r.client.do(ctx, "GET", "transactions/", query, nil, &raw); err != nil {
		return entity.TransactionPage{}, fmt.Errorf("listing transactions: %w", err)
	}
	var out entity.TransactionPage
	env, err := decodeList(raw, &out.Results)
	if err != nil {
		return entity.TransactionPage{}, fmt.Errorf("decoding transactions: %w", err)
	}
	out.Count = len(out.Results)
	if env != nil {
		out.Count = env.Count
		out.HasNext = env.Next != nil && *env.Next != ""
	}
	return out, nil
}

func (r *FinanceRepositoryImpl) ListAccounts(ctx context.Context) ([]entity.Account, error) {
	var accounts []entity.Account
	if err := r.list(ctx, "accounts/", nil, &accounts); err != nil {
		return nil, fmt.Errorf("listing accounts: %w", err)
	}
	return accounts, nil
}

func (r *FinanceRepositoryImpl) ListConcepts(ctx context.Context) ([]entity.Concept, error) {
	var concepts []entity.Concept
	if err := r.list(ctx, "concepts/", url.Values{"archived": {"false"}}, &concepts); err != nil {
		return nil, fmt.Errorf("listing concepts: %w", err)
	}
	return concepts, nil
}

func (r *FinanceRepositoryImpl) ListMonths(ctx context.Context) ([]entity.Month, error) {
	var months []entity.Month
	if err := r.list(ctx, "months/", nil, &months); err != nil {
		return nil, fmt.Errorf("listing months: %w", err)
	}
	return months, nil
}

func (r *FinanceRepositoryImpl) ListInvestments(ctx context.Context) ([]entity.Investment, error) {
	var investments []entity.Investment
	if err := r.list(ctx, "investments/", nil, &investments); err != nil {
		return nil, fmt.Errorf("listing investments: %w", err)
	}
	return investments, nil
}

func (r *FinanceRepositoryImpl) list(ctx context.Context, path string, query url.Values, out interface{}) error {
	var raw json.RawMessage
	if err := r.client.do(ctx, "GET", path, query, nil, &raw); err != nil {
		return err
	}
	_, err := decodeList(raw, out)
	return err
}

// envelope is the paginated list shape: {count, next, previous, results}.
type envelope struct {
	Count   int             `json:"count"`
	Next    *string         `json:"next"`
	Results json.RawMessage `json:"results"`
}

// splitList accepts either a bare JSON array or an envelope and returns the
// individual items.
func splitList(raw json.RawMessage) ([]json.RawMessage, *envelope, error) {
	var items []json.RawMessage
	env, err := decodeList(raw, &items)
	return items, env, err
}

func decodeList(raw json.RawMessage, out interface{}) (*envelope, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, nil
	}
	if trimmed[0] == '[' {
		return nil, json.Unmarshal(trimmed, out)
	}
	var env envelope
	if err := json.Unmarshal(trimmed, &env); err != nil {
		return nil, err
	}
	if len(env.Results) == 0 {
		return &env, nil
	}
	return &env, json.Unmarshal(env.Results, out)
}
