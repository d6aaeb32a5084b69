package fulfillment

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSectionStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		name    string
		from    SectionStatus
		to      SectionStatus
		allowed bool
	}{
		{"pending check can pass", SectionStatusPendingInventoryCheck, SectionStatusInventoryPassed, true},
		{"pending check can fail", SectionStatusPendingInventoryCheck, SectionStatusAwaitingMaterial, true},
		{"pending check cannot jump to packet", SectionStatusPendingInventoryCheck, SectionStatusPacketCreated, false},
		{"awaiting material can pass on recheck", SectionStatusAwaitingMaterial, SectionStatusInventoryPassed, true},
		{"awaiting material can stay blocked", SectionStatusAwaitingMaterial, SectionStatusAwaitingMaterial, true},
		{"passed section enters packet", SectionStatusInventoryPassed, SectionStatusPacketCreated, true},
		{"passed section cannot regress", SectionStatusInventoryPassed, SectionStatusPendingInventoryCheck, false},
		{"packet created gets verified", SectionStatusPacketCreated, SectionStatusPacketVerified, true},
		{"verified section is released", SectionStatusPacketVerified, SectionStatusReadyForProduction, true},
		{"production starts", SectionStatusReadyForProduction, SectionStatusInProduction, true},
		{"production completes", SectionStatusInProduction, SectionStatusProductionCompleted, true},
		{"completed queues for dyeing", SectionStatusProductionCompleted, SectionStatusReadyForDyeing, true},
		{"dyeing starts", SectionStatusReadyForDyeing, SectionStatusDyeingInProgress, true},
		{"dyeing completes", SectionStatusDyeingInProgress, SectionStatusDyeingCompleted, true},
		{"dyeing rejection releases back to pending", SectionStatusDyeingInProgress, SectionStatusPendingInventoryCheck, true},
		{"dyed section moves to client approval", SectionStatusDyeingCompleted, SectionStatusReadyForClientApproval, true},
		{"ready goes to awaiting approval", SectionStatusReadyForClientApproval, SectionStatusAwaitingClientApproval, true},
		{"awaiting approval can be approved", SectionStatusAwaitingClientApproval, SectionStatusClientApproved, true},
		{"awaiting approval can return for re-video", SectionStatusAwaitingClientApproval, SectionStatusReadyForClientApproval, true},
		{"client approved is terminal", SectionStatusClientApproved, SectionStatusReadyForProduction, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.allowed, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestSectionStatus_HasClearedInventory(t *testing.T) {
	assert.False(t, SectionStatusPendingInventoryCheck.HasClearedInventory())
	assert.False(t, SectionStatusAwaitingMaterial.HasClearedInventory())
	assert.False(t, SectionStatus("BOGUS").HasClearedInventory())

	assert.True(t, SectionStatusInventoryPassed.HasClearedInventory())
	assert.True(t, SectionStatusPacketCreated.HasClearedInventory())
	assert.True(t, SectionStatusInProduction.HasClearedInventory())
	assert.True(t, SectionStatusClientApproved.HasClearedInventory())
}

func TestNewSectionState(t *testing.T) {
	state := NewSectionState()

	assert.Equal(t, SectionStatusPendingInventoryCheck, state.Status)
	assert.Equal(t, QAStatusPending, state.QAStatus)
	assert.Nil(t, state.CheckResult)
	assert.Zero(t, state.DyeingRound)
}

func TestPieceList_ContainsAndRemove(t *testing.T) {
	list := PieceList{"shirt", "pants", "dupatta"}

	assert.True(t, list.Contains("pants"))
	assert.False(t, list.Contains("pouch"))

	trimmed := list.Remove("pants")
	assert.Equal(t, PieceList{"shirt", "dupatta"}, trimmed)
	// Original is untouched
	assert.Len(t, list, 3)
}
