package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMonthNameFormat(t *testing.T) {
	assert.Equal(t, "March 2025", MonthName(3, 2025))
	assert.Equal(t, "December 1999", MonthName(12, 1999))
}

func TestResolveCreatesMonthOnFirstUse(t *testing.T) {
	store := newFakeStore()
	svc := NewMonthService(store)
	editor := uuid.New()

	m, created, err := svc.Resolve(3, 2025, editor)
	require.NoError(t, err)
	require.NotNil(t, m)
	assert.True(t, created)
	assert.Equal(t, "March 2025", m.Name)
	assert.Equal(t, 3, m.Month)
	assert.Equal(t, 2025, m.Year)
	assert.Equal(t, editor, m.CreatedBy)
}

func TestResolveReturnsExistingMonth(t *testing.T) {
	store := newFakeStore()
	svc := NewMonthService(store)
	editor := uuid.New()

	first, created, err := svc.Resolve(7, 2025, editor)
	require.NoError(t, err)
	require.True(t, created)

	second, created, err := svc.Resolve(7, 2025, uuid.New())
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)
	assert.Len(t, store.months, 1)
}

func TestResolveReFetchesAfterUniqueConflict(t *testing.T) {
	store := newFakeStore()
	store.monthConflict = true
	svc := NewMonthService(store)

	m, created, err := svc.Resolve(9, 2025, uuid.New())
	require.NoError(t, err)
	require.NotNil(t, m)
	assert.False(t, created, "losing the insert race must not report creation")
	assert.Equal(t, 9, m.Month)
	assert.Equal(t, 2025, m.Year)
	assert.Len(t, store.months, 1)
}

func TestResolveRejectsInvalidInput(t *testing.T) {
	svc := NewMonthService(newFakeStore())

	for _, tc := range []struct{ month, year int }{
		{0, 2025},
		{13, 2025},
		{-1, 2025},
		{6, 1969},
		{6, 10000},
	} {
		_, _, err := svc.Resolve(tc.month, tc.year, uuid.New())
		require.Error(t, err)
		assert.Equal(t, KindValidation, KindOf(err))
	}
}

func TestGetMonthNotFound(t *testing.T) {
	svc := NewMonthService(newFakeStore())
	_, err := svc.Get(uuid.New())
	require.Error(t, err)
	assert.Equal(t, KindNotFound, KindOf(err))
}
