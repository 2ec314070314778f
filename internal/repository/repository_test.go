package repository

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andy/orionledger/internal/db"
	"github.com/andy/orionledger/internal/domain"
)

// createTestDB opens a migrated database in a temp directory
func createTestDB(t *testing.T) *db.DB {
	t.Helper()
	d, err := db.Open(filepath.Join(t.TempDir(), "test.db"), "test-key")
	require.NoError(t, err)
	require.NoError(t, d.RunMigrations())
	t.Cleanup(func() { d.Close() })
	return d
}

func TestClientRepo_AddAssignsIncreasingIDs(t *testing.T) {
	ctx := context.Background()
	repo := NewClientRepo(createTestDB(t))

	a := domain.NewClient("Alpha", "", "a@example.com", "")
	b := domain.NewClient("Beta", "", "", "555")
	require.NoError(t, repo.Add(ctx, a))
	require.NoError(t, repo.Add(ctx, b))

	assert.NotZero(t, a.ID)
	assert.Greater(t, b.ID, a.ID)

	all, err := repo.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Alpha", all[0].Name)
	assert.Equal(t, "Beta", all[1].Name)
}

func TestClientRepo_PutOverwritesByID(t *testing.T) {
	ctx := context.Background()
	repo := NewClientRepo(createTestDB(t))

	c := domain.NewClient("Alpha", "Old Street", "", "")
	require.NoError(t, repo.Add(ctx, c))

	c.Address = "New Street"
	require.NoError(t, repo.Put(ctx, c))

	got, err := repo.Get(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "New Street", got.Address)

	all, err := repo.GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestClientRepo_GetMissing(t *testing.T) {
	repo := NewClientRepo(createTestDB(t))

	_, err := repo.Get(context.Background(), 404)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestClientRepo_DeleteIsIdempotent(t *testing.T) {
	ctx := context.Background()
	repo := NewClientRepo(createTestDB(t))

	c := domain.NewClient("Alpha", "", "", "")
	require.NoError(t, repo.Add(ctx, c))

	require.NoError(t, repo.Delete(ctx, c.ID))
	require.NoError(t, repo.Delete(ctx, c.ID))

	all, err := repo.GetAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestInvoiceRepo_AddAndGet(t *testing.T) {
	ctx := context.Background()
	repo := NewInvoiceRepo(createTestDB(t))

	items := []domain.LineItem{
		{Description: "Edit", Quantity: 2, UnitPrice: 10},
		{Description: "Grade", Quantity: 1, UnitPrice: 5},
	}
	inv := domain.NewInvoice("BCMP-25-0001", "14-OCT-2026", "1", items, "INR", "Bank: X")
	require.NoError(t, repo.Add(ctx, inv))

	got, err := repo.Get(ctx, "BCMP-25-0001")
	require.NoError(t, err)
	assert.Equal(t, inv, got)
}

func TestInvoiceRepo_AddDuplicateOrderID(t *testing.T) {
	ctx := context.Background()
	repo := NewInvoiceRepo(createTestDB(t))

	items := []domain.LineItem{{Description: "Edit", Quantity: 1, UnitPrice: 1}}
	require.NoError(t, repo.Add(ctx, domain.NewInvoice("BCMP-25-0001", "d", "1", items, "INR", "p")))

	err := repo.Add(ctx, domain.NewInvoice("BCMP-25-0001", "d", "2", items, "INR", "p"))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrStore)

	got, err := repo.Get(ctx, "BCMP-25-0001")
	require.NoError(t, err)
	assert.Equal(t, "1", got.ClientID, "first invoice must be untouched")
}

func TestInvoiceRepo_ListByDate(t *testing.T) {
	ctx := context.Background()
	repo := NewInvoiceRepo(createTestDB(t))

	items := []domain.LineItem{{Description: "Edit", Quantity: 1, UnitPrice: 1}}
	require.NoError(t, repo.Add(ctx, domain.NewInvoice("BCMP-25-0001", "13-OCT-2026", "1", items, "INR", "p")))
	require.NoError(t, repo.Add(ctx, domain.NewInvoice("BCMP-25-0002", "14-OCT-2026", "1", items, "INR", "p")))
	require.NoError(t, repo.Add(ctx, domain.NewInvoice("BCMP-25-0003", "14-OCT-2026", "2", items, "INR", "p")))

	byDate, err := repo.ListByDate(ctx, "14-OCT-2026")
	require.NoError(t, err)
	require.Len(t, byDate, 2)
	assert.Equal(t, "BCMP-25-0002", byDate[0].OrderID)
	assert.Len(t, byDate[1].Items, 1)

	all, err := repo.GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestInvoiceRepo_ListKeepsSaveOrder(t *testing.T) {
	ctx := context.Background()
	repo := NewInvoiceRepo(createTestDB(t))

	// a five-digit counter sorts before four digits as text
	items := []domain.LineItem{{Description: "Edit", Quantity: 1, UnitPrice: 1}}
	require.NoError(t, repo.Add(ctx, domain.NewInvoice("BCMP-25-9999", "14-OCT-2026", "1", items, "INR", "p")))
	require.NoError(t, repo.Add(ctx, domain.NewInvoice("BCMP-25-10000", "14-OCT-2026", "1", items, "INR", "p")))

	all, err := repo.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "BCMP-25-9999", all[0].OrderID)
	assert.Equal(t, "BCMP-25-10000", all[1].OrderID)

	byDate, err := repo.ListByDate(ctx, "14-OCT-2026")
	require.NoError(t, err)
	require.Len(t, byDate, 2)
	assert.Equal(t, "BCMP-25-9999", byDate[0].OrderID)
}

func TestInvoiceRepo_GetMissing(t *testing.T) {
	repo := NewInvoiceRepo(createTestDB(t))

	_, err := repo.Get(context.Background(), "BCMP-25-9999")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCounterRepo_GetPutAndRepair(t *testing.T) {
	ctx := context.Background()
	d := createTestDB(t)
	repo := NewCounterRepo(d)

	c, err := repo.Get(ctx)
	require.NoError(t, err)
	require.NotNil(t, c)
	assert.Equal(t, int64(0), c.Value)

	require.NoError(t, repo.Put(ctx, &domain.Counter{ID: domain.InvoiceCounterID, Value: 7}))
	require.NoError(t, repo.AddIfMissing(ctx))

	c, err = repo.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(7), c.Value, "AddIfMissing must not reset an existing value")

	_, err = d.Exec("DELETE FROM counter")
	require.NoError(t, err)

	c, err = repo.Get(ctx)
	require.NoError(t, err)
	assert.Nil(t, c)

	require.NoError(t, repo.AddIfMissing(ctx))
	c, err = repo.Get(ctx)
	require.NoError(t, err)
	require.NotNil(t, c)
	assert.Equal(t, int64(0), c.Value)
}
