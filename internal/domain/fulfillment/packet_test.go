package fulfillment

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPacket(t *testing.T) {
	orderItemID := uuid.New()
	orderID := uuid.New()

	t.Run("full packet when nothing is pending", func(t *testing.T) {
		packet, err := NewPacket(orderItemID, orderID, []Piece{"shirt", "pants"}, nil, nil)

		require.NoError(t, err)
		assert.Equal(t, PacketStatusAssembled, packet.Status)
		assert.False(t, packet.IsPartial)
		assert.Equal(t, PieceList{"shirt", "pants"}, packet.SectionsIncluded)
		assert.Empty(t, packet.SectionsPending)
		assert.Contains(t, packet.Code, "PKT-")
	})

	t.Run("partial packet carries pending sections", func(t *testing.T) {
		packet, err := NewPacket(orderItemID, orderID, []Piece{"shirt"}, []Piece{"dupatta"}, nil)

		require.NoError(t, err)
		assert.True(t, packet.IsPartial)
		assert.Equal(t, PieceList{"dupatta"}, packet.SectionsPending)
	})

	t.Run("fails without included sections", func(t *testing.T) {
		_, err := NewPacket(orderItemID, orderID, nil, []Piece{"shirt"}, nil)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "at least one section")
	})
}

func TestPacket_Merge(t *testing.T) {
	pickEntry := func(sku string, piece Piece) PickListEntry {
		return PickListEntry{InventoryItemID: uuid.New(), SKU: sku, Quantity: decimal.NewFromInt(2), Piece: piece}
	}

	t.Run("moves section from pending to included", func(t *testing.T) {
		packet, err := NewPacket(uuid.New(), uuid.New(), []Piece{"shirt"}, []Piece{"pants"}, PickList{pickEntry("FAB-1", "shirt")})
		require.NoError(t, err)

		err = packet.Merge([]Piece{"pants"}, PickList{pickEntry("FAB-2", "pants")})

		require.NoError(t, err)
		assert.Equal(t, PieceList{"shirt", "pants"}, packet.SectionsIncluded)
		assert.Empty(t, packet.SectionsPending)
		assert.False(t, packet.IsPartial)
		assert.Len(t, packet.PickList, 2)
	})

	t.Run("already packed section is rejected", func(t *testing.T) {
		packet, err := NewPacket(uuid.New(), uuid.New(), []Piece{"shirt"}, nil, nil)
		require.NoError(t, err)

		err = packet.Merge([]Piece{"shirt"}, nil)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "already in the packet")
	})

	t.Run("verified packet drops back to assembled", func(t *testing.T) {
		packet, err := NewPacket(uuid.New(), uuid.New(), []Piece{"shirt"}, []Piece{"pants"}, nil)
		require.NoError(t, err)
		require.NoError(t, packet.Verify("storekeeper"))

		err = packet.Merge([]Piece{"pants"}, nil)

		require.NoError(t, err)
		assert.Equal(t, PacketStatusAssembled, packet.Status)
		assert.Nil(t, packet.VerifiedAt)
		assert.Empty(t, packet.VerifiedBy)
	})

	t.Run("released packet cannot be merged into", func(t *testing.T) {
		packet, err := NewPacket(uuid.New(), uuid.New(), []Piece{"shirt"}, []Piece{"pants"}, nil)
		require.NoError(t, err)
		require.NoError(t, packet.Verify("storekeeper"))
		require.NoError(t, packet.Release())

		err = packet.Merge([]Piece{"pants"}, nil)

		require.Error(t, err)
	})
}

func TestPacket_Evict(t *testing.T) {
	pickEntry := func(sku string, piece Piece) PickListEntry {
		return PickListEntry{InventoryItemID: uuid.New(), SKU: sku, Quantity: decimal.NewFromInt(2), Piece: piece}
	}

	t.Run("removes the section and its materials from a verified packet", func(t *testing.T) {
		packet, err := NewPacket(uuid.New(), uuid.New(), []Piece{"shirt", "pants"}, nil,
			PickList{pickEntry("FAB-1", "shirt"), pickEntry("FAB-2", "pants")})
		require.NoError(t, err)
		require.NoError(t, packet.Verify("storekeeper"))

		err = packet.Evict("shirt")

		require.NoError(t, err)
		assert.Equal(t, PieceList{"pants"}, packet.SectionsIncluded)
		assert.Equal(t, PieceList{"shirt"}, packet.SectionsPending)
		require.Len(t, packet.PickList, 1)
		assert.Equal(t, Piece("pants"), packet.PickList[0].Piece)
		assert.True(t, packet.IsPartial)
		// Verification is void until the replacement materials are re-checked
		assert.Equal(t, PacketStatusAssembled, packet.Status)
		assert.Nil(t, packet.VerifiedAt)
		assert.Empty(t, packet.VerifiedBy)
	})

	t.Run("evicted section can merge back in", func(t *testing.T) {
		packet, err := NewPacket(uuid.New(), uuid.New(), []Piece{"shirt"}, nil, PickList{pickEntry("FAB-1", "shirt")})
		require.NoError(t, err)
		require.NoError(t, packet.Evict("shirt"))

		err = packet.Merge([]Piece{"shirt"}, PickList{pickEntry("FAB-1", "shirt")})

		require.NoError(t, err)
		assert.Equal(t, PieceList{"shirt"}, packet.SectionsIncluded)
		assert.Empty(t, packet.SectionsPending)
		assert.False(t, packet.IsPartial)
	})

	t.Run("section not in the packet is rejected", func(t *testing.T) {
		packet, err := NewPacket(uuid.New(), uuid.New(), []Piece{"shirt"}, nil, nil)
		require.NoError(t, err)

		err = packet.Evict("pants")

		require.Error(t, err)
		assert.Contains(t, err.Error(), "not in the packet")
	})
}

func TestPacket_VerifyAndRelease(t *testing.T) {
	packet, err := NewPacket(uuid.New(), uuid.New(), []Piece{"shirt"}, nil, nil)
	require.NoError(t, err)

	t.Run("release before verification fails", func(t *testing.T) {
		require.Error(t, packet.Release())
	})

	t.Run("verify records who and when", func(t *testing.T) {
		require.NoError(t, packet.Verify("storekeeper"))
		assert.Equal(t, PacketStatusVerified, packet.Status)
		assert.Equal(t, "storekeeper", packet.VerifiedBy)
		assert.NotNil(t, packet.VerifiedAt)
	})

	t.Run("double verification fails", func(t *testing.T) {
		require.Error(t, packet.Verify("someone else"))
	})

	t.Run("release hands the packet to the floor", func(t *testing.T) {
		require.NoError(t, packet.Release())
		assert.Equal(t, PacketStatusReleased, packet.Status)
	})
}
