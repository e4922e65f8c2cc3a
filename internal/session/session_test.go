package session

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cloud-ru/mcp-mortgage-go/internal/calculations"
	"github.com/cloud-ru/mcp-mortgage-go/internal/ledger"
)

var defaults = calculations.LoanParameters{
	TotalPrice:        1410528,
	DownPayment:       600000,
	AnnualRatePercent: 3.15,
	TermMonths:        360,
}

func TestStore_Open(t *testing.T) {
	store := NewStore(defaults)

	id, l := store.Open()

	current, ok := l.Current()
	require.True(t, ok)
	assert.Equal(t, defaults, current.Parameters())
	assert.Empty(t, l.History())

	got, err := store.Get(id)
	require.NoError(t, err)
	assert.Same(t, l, got)
	assert.Equal(t, 1, store.Len())
}

func TestStore_SessionsAreIndependent(t *testing.T) {
	store := NewStore(defaults, ledger.WithCapacity(3))

	_, a := store.Open()
	_, b := store.Open()

	a.Commit()

	assert.Len(t, a.History(), 1)
	assert.Empty(t, b.History())
	assert.Equal(t, 3, b.Capacity())
}

func TestStore_GetUnknown(t *testing.T) {
	store := NewStore(defaults)

	_, err := store.Get(uuid.New())

	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestStore_Close(t *testing.T) {
	store := NewStore(defaults)
	id, _ := store.Open()

	require.NoError(t, store.Close(id))

	_, err := store.Get(id)
	assert.ErrorIs(t, err, ErrSessionNotFound)
	assert.ErrorIs(t, store.Close(id), ErrSessionNotFound)
	assert.Equal(t, 0, store.Len())
}
