package catalog

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erp/storesync/internal/domain/shared"
)

func TestOwnershipRoundTrip(t *testing.T) {
	id := int64(10)

	remote := OwnershipFromRemoteID(&id)
	assert.Equal(t, RemoteOwned{RemoteID: 10}, remote)
	assert.Equal(t, "remote:10", remote.String())
	require.NotNil(t, RemoteIDOf(remote))
	assert.Equal(t, int64(10), *RemoteIDOf(remote))

	local := OwnershipFromRemoteID(nil)
	assert.Equal(t, LocalOwned{}, local)
	assert.Equal(t, "local", local.String())
	assert.Nil(t, RemoteIDOf(local))
}

func TestNewRemoteVariation(t *testing.T) {
	productID := uuid.New()

	v, err := NewRemoteVariation(productID, 10, time.Now())
	require.NoError(t, err)
	id, ok := v.RemoteID()
	assert.True(t, ok)
	assert.Equal(t, int64(10), id)
	assert.Equal(t, productID, v.ProductID)

	_, err = NewRemoteVariation(productID, 0, time.Now())
	assert.ErrorIs(t, err, shared.ErrInvalidInput)
}

func TestNewLocalVariation(t *testing.T) {
	productID := uuid.New()
	now := time.Now()

	v, err := NewLocalVariation(productID, VariationDetails{
		SKU:        "VASE-RED",
		Attributes: []VariationAttribute{{Name: "Color", Option: "Red"}},
	}, now)
	require.NoError(t, err)
	assert.False(t, v.IsRemoteOwned())
	assert.Equal(t, LocalOwned{}, v.Ownership)
	assert.Equal(t, "publish", v.Status)
	assert.True(t, v.HasAttribute("color", "RED"))
	assert.False(t, v.HasAttribute("color", "blue"))

	_, err = NewLocalVariation(productID, VariationDetails{}, now)
	assert.ErrorIs(t, err, shared.ErrInvalidInput)

	_, err = NewLocalVariation(uuid.Nil, VariationDetails{
		Attributes: []VariationAttribute{{Name: "Color", Option: "Red"}},
	}, now)
	assert.ErrorIs(t, err, shared.ErrInvalidInput)
}

func TestProductVariation_SyncNeverWritesLocalOwned(t *testing.T) {
	v, err := NewLocalVariation(uuid.New(), VariationDetails{
		SKU:        "VASE-RED",
		Attributes: []VariationAttribute{{Name: "Color", Option: "Red"}},
	}, time.Now())
	require.NoError(t, err)

	err = v.ApplyRemote(VariationDetails{SKU: "CHANGED"}, nil)
	assert.ErrorIs(t, err, ErrLocalVariationImmutable)
	assert.Equal(t, "VASE-RED", v.SKU)

	assert.ErrorIs(t, v.MarkSynced(time.Now()), ErrLocalVariationImmutable)
	assert.Nil(t, v.LastSyncedAt)
}

func TestProductVariation_ApplyRemote(t *testing.T) {
	v, err := NewRemoteVariation(uuid.New(), 10, time.Now())
	require.NoError(t, err)
	modified := time.Date(2024, 2, 2, 0, 0, 0, 0, time.UTC)

	require.NoError(t, v.ApplyRemote(VariationDetails{SKU: "VASE-10", Weight: "0.4"}, &modified))
	assert.Equal(t, "VASE-10", v.SKU)
	assert.Equal(t, "0.4", v.Weight)
	assert.Equal(t, &modified, v.ModifiedAt)
}

func TestProduct_IsVariable(t *testing.T) {
	p, err := NewProduct(5, time.Now())
	require.NoError(t, err)
	assert.False(t, p.IsVariable())

	p.ApplyRemote(ProductDetails{Name: "Vase", Type: ProductTypeVariable}, nil)
	assert.True(t, p.IsVariable())
	assert.Equal(t, "Vase", p.Name)

	_, err = NewProduct(-1, time.Now())
	assert.ErrorIs(t, err, shared.ErrInvalidInput)
}

func TestNewManagedAttribute(t *testing.T) {
	now := time.Now()

	attr, err := NewManagedAttribute(" Color ", "Bordeaux", "bordeaux", "#7b1e2b", 2, now)
	require.NoError(t, err)
	assert.Equal(t, AttributeTypeColor, attr.Type)
	assert.Equal(t, "#7B1E2B", attr.HexCode)
	assert.Equal(t, 2, attr.SortOrder)
	assert.True(t, attr.Active)

	_, err = NewManagedAttribute("color", "Red", "red", "red", 0, now)
	assert.ErrorIs(t, err, shared.ErrInvalidInput)
	_, err = NewManagedAttribute("color", "", "red", "", 0, now)
	assert.ErrorIs(t, err, shared.ErrInvalidInput)
	_, err = NewManagedAttribute("", "Red", "red", "", 0, now)
	assert.ErrorIs(t, err, shared.ErrInvalidInput)

	later := now.Add(time.Minute)
	assert.True(t, attr.SetActive(false, later))
	assert.False(t, attr.Active)
	assert.Equal(t, later, attr.UpdatedAt)
	assert.False(t, attr.SetActive(false, later.Add(time.Minute)))
	assert.Equal(t, later, attr.UpdatedAt)
}
