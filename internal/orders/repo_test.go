package orders

import (
	"context"
	"testing"

	pkgerrors "github.com/GiacomoGonzales/shopifree-v2-sub002/pkg/errors"
	"github.com/GiacomoGonzales/shopifree-v2-sub002/pkg/types"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupRepo(t *testing.T) *Repo {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	repo, err := NewRepo(db)
	require.NoError(t, err)
	return repo
}

func sampleDraft() *Draft {
	return &Draft{
		StoreID: "store-1",
		Items: []Item{{
			ProductID:   "p1",
			ProductName: "Product X",
			Price:       decimal.NewFromInt(10),
			Quantity:    2,
			ItemTotal:   decimal.NewFromInt(20),
		}},
		Customer:       types.Customer{Name: "Ana", Phone: "+51999888777"},
		DeliveryMethod: types.DeliveryPickup,
		Subtotal:       decimal.NewFromInt(20),
		Total:          decimal.NewFromInt(20),
		PaymentMethod:  types.PaymentWhatsApp,
		PaymentStatus:  PaymentPending,
		Status:         StatusPending,
	}
}

func TestRepoCreateAssignsSequentialNumbers(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	first, err := repo.Create(ctx, "store-1", sampleDraft())
	require.NoError(t, err)
	assert.Equal(t, "ORD-001", first.OrderNumber)
	assert.NotEmpty(t, first.ID)

	second, err := repo.Create(ctx, "store-1", sampleDraft())
	require.NoError(t, err)
	assert.Equal(t, "ORD-002", second.OrderNumber)

	// numbering is per store
	other, err := repo.Create(ctx, "store-2", sampleDraft())
	require.NoError(t, err)
	assert.Equal(t, "ORD-001", other.OrderNumber)
}

func TestRepoCreateRejectsEmptyItems(t *testing.T) {
	repo := setupRepo(t)

	draft := sampleDraft()
	draft.Items = nil
	_, err := repo.Create(context.Background(), "store-1", draft)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}

func TestRepoRoundTrip(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	draft := sampleDraft()
	draft.DeliveryMethod = types.DeliveryDelivery
	draft.DeliveryAddress = &types.DeliveryAddress{Street: "Av. X 123", City: "Lima"}
	draft.Notes = "ring the bell"

	created, err := repo.Create(ctx, "store-1", draft)
	require.NoError(t, err)

	loaded, err := repo.FindByID(ctx, "store-1", created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.OrderNumber, loaded.OrderNumber)
	assert.Equal(t, "Av. X 123", loaded.DeliveryAddress.Street)
	assert.Equal(t, "ring the bell", loaded.Notes)
	assert.True(t, loaded.Total.Equal(decimal.NewFromInt(20)))
}

func TestRepoUpdatePayment(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	created, err := repo.Create(ctx, "store-1", sampleDraft())
	require.NoError(t, err)

	require.NoError(t, repo.UpdatePayment(ctx, "store-1", created.ID, PaymentPaid, StatusConfirmed, "pi_123"))

	loaded, err := repo.FindByID(ctx, "store-1", created.ID)
	require.NoError(t, err)
	assert.Equal(t, "pi_123", loaded.PaymentID)

	err = repo.UpdatePayment(ctx, "store-1", "missing", PaymentPaid, StatusConfirmed, "")
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())
}

func TestRejectNullKeys(t *testing.T) {
	t.Parallel()

	err := rejectNullKeys([]byte(`{"a":1,"b":{"c":null}}`))
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())

	require.NoError(t, rejectNullKeys([]byte(`{"a":1,"b":{"c":"x"},"d":[1,2]}`)))

	err = rejectNullKeys([]byte(`{"items":[{"ok":true},{"bad":null}]}`))
	require.Error(t, err)
}
