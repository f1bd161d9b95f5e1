package repository

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/mandalorian99/invoiceable/internal/draft/domain"
)

func newTestRepository(t *testing.T) domain.Repository {
	t.Helper()

	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, Migrate(gdb))

	return New(gdb)
}

func TestCreateDuplicateID(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	draft := &domain.Draft{
		ID:       42,
		Title:    "first",
		Document: datatypes.JSON(`{"invoice_number":"INV-001"}`),
	}
	require.NoError(t, repo.Create(ctx, draft))

	dup := &domain.Draft{
		ID:       42,
		Title:    "second",
		Document: datatypes.JSON(`{"invoice_number":"INV-002"}`),
	}
	assert.ErrorIs(t, repo.Create(ctx, dup), domain.ErrDraftExists)

	// The stored draft is untouched.
	got, err := repo.FindByID(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, "first", got.Title)
}
