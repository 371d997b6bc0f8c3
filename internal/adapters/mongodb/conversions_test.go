package mongodb

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paklog/inventory-ledger/internal/domain/assembly"
	"github.com/paklog/inventory-ledger/internal/domain/container"
	"github.com/paklog/inventory-ledger/internal/domain/serial"
	"github.com/paklog/inventory-ledger/internal/domain/transfer"
)

func TestSerialNumberDocument_RoundTrip(t *testing.T) {
	allocatedTo := "order-1"
	allocatedAt := time.Now().Add(-time.Hour).UTC()

	sn := &serial.SerialNumber{
		SKU:         "SKU-1",
		Number:      "SN-001",
		Status:      serial.StatusAllocated,
		ReceivedAt:  time.Now().Add(-2 * time.Hour).UTC(),
		AllocatedTo: &allocatedTo,
		AllocatedAt: &allocatedAt,
	}

	doc := fromSerialNumber(sn)
	assert.Equal(t, "SKU-1:SN-001", doc.ID)

	back := doc.toSerialNumber()
	assert.Equal(t, sn.SKU, back.SKU)
	assert.Equal(t, sn.Number, back.Number)
	assert.Equal(t, sn.Status, back.Status)
	assert.True(t, sn.ReceivedAt.Equal(back.ReceivedAt))
	require.NotNil(t, back.AllocatedTo)
	assert.Equal(t, allocatedTo, *back.AllocatedTo)
}

func TestTransferDocument_RoundTrip(t *testing.T) {
	lpn := "LPN-1"

	original, err := transfer.Initiate("SKU-1", "DOCK-1", "DOCK-2", 50)
	require.NoError(t, err)
	original.ContainerID = &lpn
	require.NoError(t, original.Dispatch())
	require.NoError(t, original.Complete(45))

	doc := fromTransfer(original)
	assert.Equal(t, original.ID.String(), doc.ID)

	back, err := doc.toTransfer()
	require.NoError(t, err)
	assert.Equal(t, original.ID, back.ID)
	assert.Equal(t, original.Status, back.Status)
	assert.Equal(t, original.Shrinkage, back.Shrinkage)
	require.NotNil(t, back.ContainerID)
	assert.Equal(t, lpn, *back.ContainerID)
}

func TestTransferDocument_InvalidIDFailsToConvert(t *testing.T) {
	doc := transferDocument{ID: "not-a-uuid"}

	_, err := doc.toTransfer()

	assert.Error(t, err)
}

func TestContainerDocument_RoundTrip(t *testing.T) {
	sku := "SKU-1"

	c := &container.Container{
		LPN:         "LPN-1",
		CurrentSKU:  &sku,
		Quantity:    25,
		Location:    "DOCK-1",
		LastMovedAt: time.Now().UTC(),
	}

	doc := fromContainer(c)
	assert.Equal(t, c.LPN, doc.LPN)

	back := doc.toContainer()
	assert.Equal(t, c.LPN, back.LPN)
	require.NotNil(t, back.CurrentSKU)
	assert.Equal(t, sku, *back.CurrentSKU)
	assert.Equal(t, c.Quantity, back.Quantity)
}

func TestAssemblyOrderDocument_RoundTrip(t *testing.T) {
	original, err := assembly.New("SKU-FINISHED", 20, []assembly.Component{
		{SKU: "SKU-PART-A", Quantity: 5, Allocated: true},
		{SKU: "SKU-PART-B", Quantity: 2},
	})
	require.NoError(t, err)

	doc := fromAssemblyOrder(original)
	assert.Equal(t, original.ID.String(), doc.ID)
	require.Len(t, doc.Components, 2)

	back, err := doc.toAssemblyOrder()
	require.NoError(t, err)
	assert.Equal(t, original.ID, back.ID)
	assert.Equal(t, original.SKU, back.SKU)
	require.Len(t, back.Components, 2)
	assert.True(t, back.Components[0].Allocated)
	assert.False(t, back.Components[1].Allocated)
}

func TestAssemblyOrderDocument_InvalidIDFailsToConvert(t *testing.T) {
	doc := assemblyOrderDocument{ID: "not-a-uuid"}

	_, err := doc.toAssemblyOrder()

	assert.Error(t, err)
}

func TestAssemblyOrderDocument_PreservesUUIDFormatting(t *testing.T) {
	id := uuid.New()
	doc := assemblyOrderDocument{ID: id.String(), SKU: "SKU-1"}

	back, err := doc.toAssemblyOrder()

	require.NoError(t, err)
	assert.Equal(t, id, back.ID)
}
