package policy_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hexs00si/LMS-Infy-T4-sub001/circulation/core"
	"github.com/hexs00si/LMS-Infy-T4-sub001/circulation/policy"
)

func Test_StaticStore_ReturnsConfiguredPolicy(t *testing.T) {
	// arrange
	configured := core.DefaultPolicy("lib-1")
	configured.MaxBooksPerMember = 2
	store := policy.NewStaticStore(configured)

	// act
	p, err := store.PolicyFor(context.Background(), "lib-1")

	// assert
	require.NoError(t, err)
	assert.Equal(t, configured, p)
}

func Test_StaticStore_UnknownLibrary(t *testing.T) {
	store := policy.NewStaticStore()

	_, err := store.PolicyFor(context.Background(), "lib-x")
	assert.ErrorIs(t, err, core.ErrNotFound)

	store.WithFallback(core.DefaultPolicy(""))

	p, err := store.PolicyFor(context.Background(), "lib-x")
	require.NoError(t, err)
	assert.Equal(t, "lib-x", p.LibraryID)
	assert.Equal(t, core.DefaultPolicy("lib-x"), p)
}

func Test_SQLStore_SaveAndRead_WithSQLite(t *testing.T) {
	// arrange
	ctx := context.Background()
	store := givenSQLiteStore(t)
	p := core.LibraryPolicy{
		LibraryID:         "lib-1",
		LoanDurationDays:  21,
		FinePerDay:        25,
		MaxBooksPerMember: 3,
		HoldWindowDays:    2,
	}

	// act
	require.NoError(t, store.Save(ctx, p))
	p.MaxBooksPerMember = 4
	require.NoError(t, store.Save(ctx, p))
	read, err := store.PolicyFor(ctx, "lib-1")

	// assert
	require.NoError(t, err)
	assert.Equal(t, p, read)

	all, err := store.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func Test_SQLStore_UnknownLibrary_WithSQLite(t *testing.T) {
	ctx := context.Background()
	store := givenSQLiteStore(t)

	_, err := store.PolicyFor(ctx, "lib-x")
	assert.ErrorIs(t, err, core.ErrNotFound)

	store.WithFallback(core.DefaultPolicy(""))
	p, err := store.PolicyFor(ctx, "lib-x")
	require.NoError(t, err)
	assert.Equal(t, core.DefaultPolicy("lib-x"), p)
}

func Test_SQLStore_RejectsInvalidPolicy(t *testing.T) {
	store := givenSQLiteStore(t)

	err := store.Save(context.Background(), core.LibraryPolicy{LibraryID: "lib-1"})

	assert.ErrorIs(t, err, core.ErrInvalidInput)
}

func Test_OpenSQLStore_RejectsUnknownDriver(t *testing.T) {
	_, err := policy.OpenSQLStore("mysql", "whatever")

	assert.ErrorIs(t, err, policy.ErrUnsupportedDriver)
}

func givenSQLiteStore(t *testing.T) *policy.SQLStore {
	t.Helper()

	dsn := "file:" + filepath.Join(t.TempDir(), "policies.db") + "?_busy_timeout=5000"
	store, err := policy.OpenSQLStore(policy.DriverSQLite, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	require.NoError(t, store.Migrate(context.Background()))

	return store
}
