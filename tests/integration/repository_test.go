package integration

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/erp/storesync/internal/domain/catalog"
	"github.com/erp/storesync/internal/domain/integration"
	"github.com/erp/storesync/internal/domain/partner"
	"github.com/erp/storesync/internal/domain/shared"
	"github.com/erp/storesync/internal/domain/trade"
	"github.com/erp/storesync/internal/infrastructure/persistence"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSyncCheckpointRepository_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	testDB := NewSharedTestDB(t)
	repo := persistence.NewGormSyncCheckpointRepository(testDB.DB)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Microsecond)

	t.Run("CreateIfAbsent keeps the first row", func(t *testing.T) {
		first, err := repo.CreateIfAbsent(ctx, integration.NewSyncCheckpoint(integration.SyncDomainProduct, now))
		require.NoError(t, err)

		second, err := repo.CreateIfAbsent(ctx, integration.NewSyncCheckpoint(integration.SyncDomainProduct, now.Add(time.Hour)))
		require.NoError(t, err)
		assert.Equal(t, first.ID, second.ID)
		assert.Equal(t, integration.CheckpointStatusSuccess, second.Status)
	})

	t.Run("TryBeginRun admits exactly one concurrent run", func(t *testing.T) {
		_, err := repo.CreateIfAbsent(ctx, integration.NewSyncCheckpoint(integration.SyncDomainOrder, now))
		require.NoError(t, err)

		const workers = 8
		var acquired atomic.Int32
		var wg sync.WaitGroup
		start := make(chan struct{})
		for range workers {
			wg.Add(1)
			go func() {
				defer wg.Done()
				cp, err := repo.FindByDomain(ctx, integration.SyncDomainOrder)
				if !assert.NoError(t, err) {
					return
				}
				cp.Begin(time.Now().UTC())
				<-start
				locked, err := repo.TryBeginRun(ctx, cp)
				if assert.NoError(t, err) && locked != nil {
					acquired.Add(1)
				}
			}()
		}
		close(start)
		wg.Wait()

		assert.Equal(t, int32(1), acquired.Load())
		stored, err := repo.FindByDomain(ctx, integration.SyncDomainOrder)
		require.NoError(t, err)
		assert.Equal(t, integration.CheckpointStatusRunning, stored.Status)
	})

	t.Run("TryBeginRun refuses a paused domain", func(t *testing.T) {
		cp, err := repo.CreateIfAbsent(ctx, integration.NewSyncCheckpoint(integration.SyncDomainCustomer, now))
		require.NoError(t, err)
		cp.Pause(now)
		require.NoError(t, repo.Save(ctx, cp))

		cp.Begin(now)
		locked, err := repo.TryBeginRun(ctx, cp)
		require.NoError(t, err)
		assert.Nil(t, locked)

		paused, err := repo.TryPause(ctx, integration.SyncDomainCustomer, now)
		require.NoError(t, err)
		assert.True(t, paused, "pausing a paused domain is idempotent")
	})

	t.Run("TryPause refuses a running domain", func(t *testing.T) {
		paused, err := repo.TryPause(ctx, integration.SyncDomainOrder, now)
		require.NoError(t, err)
		assert.False(t, paused)
	})

	t.Run("MarkInterrupted fails running rows and keeps the page", func(t *testing.T) {
		cp, err := repo.FindByDomain(ctx, integration.SyncDomainOrder)
		require.NoError(t, err)
		cp.RecordPage(3, 250, 2, now)
		require.NoError(t, repo.Save(ctx, cp))

		n, err := repo.MarkInterrupted(ctx, "process stopped mid-run", now)
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)

		stored, err := repo.FindByDomain(ctx, integration.SyncDomainOrder)
		require.NoError(t, err)
		assert.Equal(t, integration.CheckpointStatusFailed, stored.Status)
		require.NotNil(t, stored.LastProcessedPage)
		assert.Equal(t, 3, *stored.LastProcessedPage)
		assert.Equal(t, 4, stored.StartPage())
		require.NotNil(t, stored.ErrorMessage)
		assert.Equal(t, "process stopped mid-run", *stored.ErrorMessage)
	})

	t.Run("FindAll is ordered by domain", func(t *testing.T) {
		all, err := repo.FindAll(ctx)
		require.NoError(t, err)
		require.Len(t, all, 3)
		assert.Equal(t, integration.SyncDomainCustomer, all[0].Domain)
		assert.Equal(t, integration.SyncDomainOrder, all[1].Domain)
		assert.Equal(t, integration.SyncDomainProduct, all[2].Domain)
	})
}

func TestMirrorRepositories_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	testDB := NewSharedTestDB(t)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Microsecond)

	customers := persistence.NewGormCustomerRepository(testDB.DB)
	orders := persistence.NewGormOrderRepository(testDB.DB)
	products := persistence.NewGormProductRepository(testDB.DB)
	variations := persistence.NewGormProductVariationRepository(testDB.DB)

	t.Run("customer email is unique after normalization", func(t *testing.T) {
		c, err := partner.NewCustomer(" Ada@Example.com ", now)
		require.NoError(t, err)
		require.NoError(t, customers.Save(ctx, c))

		found, err := customers.FindByEmail(ctx, "ADA@example.com")
		require.NoError(t, err)
		assert.Equal(t, c.ID, found.ID)
		assert.True(t, found.IsGuest())

		dup, err := partner.NewCustomer("ada@example.com", now)
		require.NoError(t, err)
		assert.Error(t, customers.Save(ctx, dup))
	})

	t.Run("order items round-trip with jsonb metadata", func(t *testing.T) {
		order, err := trade.NewOrder(9001, now)
		require.NoError(t, err)
		order.ApplyRemote("9001", trade.OrderStatusProcessing, decimal.RequireFromString("42.5000"), &now, &now)
		order.ReplaceItems([]trade.OrderItem{
			{RemoteID: 1, RemoteProductID: 10, Name: "Mug", Quantity: 2, Total: decimal.RequireFromString("20"),
				Metadata: []trade.ItemMetadata{{Key: "pa_color", DisplayKey: "Color", Value: "red", DisplayValue: "Red"}}},
			{RemoteID: 2, RemoteProductID: 11, Name: "Tee", Quantity: 1, Total: decimal.RequireFromString("22.5")},
		})
		require.NoError(t, orders.Save(ctx, order))
		require.NoError(t, orders.ReplaceItems(ctx, order))

		found, err := orders.FindByRemoteID(ctx, 9001)
		require.NoError(t, err)
		assert.True(t, found.Total.Equal(decimal.RequireFromString("42.5")))
		require.Len(t, found.Items, 2)
		assert.Equal(t, "Mug", found.Items[0].Name)
		require.Len(t, found.Items[0].Metadata, 1)
		assert.Equal(t, "Red", found.Items[0].Metadata[0].DisplayValue)
		assert.Empty(t, found.Items[1].Metadata)

		order.ReplaceItems(nil)
		require.NoError(t, orders.ReplaceItems(ctx, order))
		found, err = orders.FindByRemoteID(ctx, 9001)
		require.NoError(t, err)
		assert.Empty(t, found.Items)
	})

	t.Run("variations keep their ownership", func(t *testing.T) {
		product, err := catalog.NewProduct(501, now)
		require.NoError(t, err)
		product.ApplyRemote(catalog.ProductDetails{Name: "Tee", Type: catalog.ProductTypeVariable,
			Price: decimal.RequireFromString("10"), RegularPrice: decimal.RequireFromString("10"), SalePrice: decimal.Zero}, &now)
		require.NoError(t, products.Save(ctx, product))

		remote, err := catalog.NewRemoteVariation(product.ID, 7001, now)
		require.NoError(t, err)
		require.NoError(t, variations.Save(ctx, remote))

		local, err := catalog.NewLocalVariation(product.ID, catalog.VariationDetails{
			Attributes: []catalog.VariationAttribute{{Name: "Color", Option: "Teal"}},
		}, now.Add(time.Second))
		require.NoError(t, err)
		require.NoError(t, variations.Save(ctx, local))

		all, err := variations.FindAllForProduct(ctx, product.ID)
		require.NoError(t, err)
		require.Len(t, all, 2)
		id, ok := all[0].RemoteID()
		assert.True(t, ok)
		assert.Equal(t, int64(7001), id)
		assert.False(t, all[1].IsRemoteOwned())
		assert.True(t, all[1].HasAttribute("Color", "Teal"))

		require.NoError(t, variations.Delete(ctx, local.ID))
		_, err = variations.FindByID(ctx, local.ID)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("attribute palette keeps type and value unique", func(t *testing.T) {
		attributes := persistence.NewGormManagedAttributeRepository(testDB.DB)

		teal, err := catalog.NewManagedAttribute(catalog.AttributeTypeColor, "Teal", "teal", "#008080", 1, now)
		require.NoError(t, err)
		require.NoError(t, attributes.Save(ctx, teal))

		dup, err := catalog.NewManagedAttribute(catalog.AttributeTypeColor, "Teal blue", "teal", "", 0, now)
		require.NoError(t, err)
		assert.Error(t, attributes.Save(ctx, dup))

		teal.SetActive(false, now.Add(time.Minute))
		require.NoError(t, attributes.Save(ctx, teal))
		active, err := attributes.FindByType(ctx, catalog.AttributeTypeColor, true)
		require.NoError(t, err)
		assert.Empty(t, active)
	})
}
