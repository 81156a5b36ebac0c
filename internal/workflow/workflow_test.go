package workflow

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequiresField_OrderETA(t *testing.T) {
	tests := []struct {
		status Status
		want   bool
	}{
		{OrderPending, false},
		{OrderValidated, false},
		{OrderPicking, true},
		{OrderReady, true},
		{OrderShipped, true},
		{OrderCancelled, false},
		{Status("OnHold"), false},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			assert.Equal(t, tt.want, Requires(EntityOrder, tt.status, FieldETA))
			if tt.want {
				assert.Equal(t, []Field{FieldETA}, RequiresField(EntityOrder, tt.status))
			} else {
				assert.Empty(t, RequiresField(EntityOrder, tt.status))
			}
		})
	}
}

func TestStatusesRequiring(t *testing.T) {
	got := StatusesRequiring(EntityOrder, FieldETA)
	assert.Equal(t, []Status{OrderPicking, OrderReady, OrderShipped}, got)
	assert.Empty(t, StatusesRequiring(EntityPicklist, FieldETA))
}

func TestAllowedStatuses_ReturnsCopy(t *testing.T) {
	statuses := AllowedStatuses(EntityOrder)
	require.Len(t, statuses, 6)

	statuses[0] = "Broken"
	assert.Equal(t, OrderPending, AllowedStatuses(EntityOrder)[0])
	assert.Nil(t, AllowedStatuses(Entity("unknown")))
}

func TestIsApprovalRequired(t *testing.T) {
	assert.False(t, IsApprovalRequired(1))
	assert.False(t, IsApprovalRequired(30))
	assert.True(t, IsApprovalRequired(31))

	assert.Equal(t, TransferCompleted, ExpectedTransferStatus(30))
	assert.Equal(t, TransferPendingApproval, ExpectedTransferStatus(31))
}

func TestAwaitsApproval(t *testing.T) {
	awaiting, known := AwaitsApproval(TransferCompleted)
	assert.False(t, awaiting)
	assert.True(t, known)

	awaiting, known = AwaitsApproval(TransferPendingApproval)
	assert.True(t, awaiting)
	assert.True(t, known)

	_, known = AwaitsApproval(Status("Queued"))
	assert.False(t, known)
}

func TestLabelAndRank(t *testing.T) {
	assert.Equal(t, "Pending Approval", Label(EntityTransfer, TransferPendingApproval))
	assert.Equal(t, "Shipped", Label(EntityOrder, OrderShipped))
	assert.Equal(t, "OnHold", Label(EntityOrder, Status("OnHold")))

	assert.Less(t, Rank(EntityOrder, OrderPending), Rank(EntityOrder, OrderShipped))
	assert.Equal(t, 6, Rank(EntityOrder, Status("OnHold")))
}

func TestParsePriority(t *testing.T) {
	p, err := ParsePriority("")
	require.NoError(t, err)
	assert.Equal(t, PriorityNormal, p)

	p, err = ParsePriority(" high ")
	require.NoError(t, err)
	assert.Equal(t, PriorityHigh, p)

	_, err = ParsePriority("Urgent")
	assert.ErrorIs(t, err, ErrInvalidPriority)
}
