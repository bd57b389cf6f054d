package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/diillson/finanzas-dashboard-go/internal/domain/money"
	"github.com/diillson/finanzas-dashboard-go/internal/shared/types"
)

var salaryAugust = ProjectionTarget{ConceptID: 7, ConceptName: "Salary", MonthID: 12, MonthName: "August 2025"}

type refreshCounter struct {
	calls int
	err   error
}

func (r *refreshCounter) refresh(ctx context.Context) error {
	r.calls++
	return r.err
}

func TestProjectionEditorConfirmSuccess(t *testing.T) {
	repo := &fakeFinanceRepo{}
	refresh := &refreshCounter{}
	editor := NewProjectionEditor(repo, refresh.refresh, nil, AwaitConfirmation)

	require.NoError(t, editor.Begin(salaryAugust, decPtr("2000")))
	state, text, _ := editor.State()
	require.Equal(t, EditEditing, state)
	require.Equal(t, "2000,00", text)

	require.NoError(t, editor.SetText("2500,50"))
	require.NoError(t, editor.Confirm(context.Background()))

	require.Len(t, repo.upserts, 1)
	require.Equal(t, int64(7), repo.upserts[0].Concept)
	require.Equal(t, int64(12), repo.upserts[0].Month)
	require.True(t, repo.upserts[0].Balance.Equal(dec("2500.50")))
	require.Equal(t, 1, refresh.calls)

	state, _, err := editor.State()
	require.Equal(t, EditIdle, state)
	require.NoError(t, err)
}

func TestProjectionEditorFailureStaysInEditMode(t *testing.T) {
	boom := errors.New("500 internal server error")
	repo := &fakeFinanceRepo{upsertErr: boom}
	refresh := &refreshCounter{}
	editor := NewProjectionEditor(repo, refresh.refresh, nil, AwaitConfirmation)

	require.NoError(t, editor.Begin(salaryAugust, nil))
	require.NoError(t, editor.SetText("100"))
	require.ErrorIs(t, editor.Confirm(context.Background()), boom)

	state, text, lastErr := editor.State()
	require.Equal(t, EditEditing, state)
	require.Equal(t, "100", text)
	require.ErrorIs(t, lastErr, boom)
	require.Len(t, repo.upserts, 1)
	require.Zero(t, refresh.calls)
	require.Equal(t, salaryAugust, editor.Target())
}

func TestProjectionEditorRejectsBadInput(t *testing.T) {
	repo := &fakeFinanceRepo{}
	editor := NewProjectionEditor(repo, nil, nil, AwaitConfirmation)
	require.NoError(t, editor.Begin(salaryAugust, nil))

	require.NoError(t, editor.SetText("abc"))
	require.ErrorIs(t, editor.Confirm(context.Background()), money.ErrInvalidAmount)

	require.NoError(t, editor.SetText("1.000.000.000,00"))
	require.ErrorIs(t, editor.Confirm(context.Background()), types.ErrAmountOutOfRange)

	require.NoError(t, editor.SetText("-999999999,99"))
	require.NoError(t, editor.Confirm(context.Background()))
	require.Len(t, repo.upserts, 1)
}

func TestProjectionEditorCancelMakesNoCall(t *testing.T) {
	repo := &fakeFinanceRepo{}
	editor := NewProjectionEditor(repo, nil, nil, AwaitConfirmation)

	require.NoError(t, editor.Begin(salaryAugust, decPtr("10")))
	require.NoError(t, editor.SetText("99"))
	editor.Cancel()

	state, text, _ := editor.State()
	require.Equal(t, EditIdle, state)
	require.Empty(t, text)
	require.Empty(t, repo.upserts)
	require.ErrorIs(t, editor.Confirm(context.Background()), types.ErrNotEditing)
	require.ErrorIs(t, editor.SetText("1"), types.ErrNotEditing)
}

func TestProjectionEditorEagerCloseReconcilesOnFailure(t *testing.T) {
	boom := errors.New("timeout")
	repo := &fakeFinanceRepo{upsertErr: boom}
	refresh := &refreshCounter{}
	console := &fakeConsole{}
	editor := NewProjectionEditor(repo, refresh.refresh, console, EagerClose)

	require.NoError(t, editor.Begin(salaryAugust, nil))
	require.NoError(t, editor.SetText("5"))
	require.ErrorIs(t, editor.Confirm(context.Background()), boom)

	state, _, _ := editor.State()
	require.Equal(t, EditIdle, state)
	require.Equal(t, 1, refresh.calls)
	require.Len(t, console.warnings, 1)
}

func TestProjectionEditorRefreshFailureIsReported(t *testing.T) {
	refreshErr := errors.New("offline")
	refresh := &refreshCounter{err: refreshErr}
	editor := NewProjectionEditor(&fakeFinanceRepo{}, refresh.refresh, nil, AwaitConfirmation)

	require.NoError(t, editor.Begin(salaryAugust, nil))
	require.NoError(t, editor.SetText("5"))
	require.ErrorIs(t, editor.Confirm(context.Background()), refreshErr)

	state, _, _ := editor.State()
	require.Equal(t, EditIdle, state)
}

func TestParseProjectionAmountBounds(t *testing.T) {
	_, err := ParseProjectionAmount("999999999.99")
	require.NoError(t, err)
	_, err = ParseProjectionAmount("999999999.991")
	require.ErrorIs(t, err, types.ErrAmountOutOfRange)
	_, err = ParseProjectionAmount("-1.000.000.000,00")
	require.ErrorIs(t, err, types.ErrAmountOutOfRange)
}
