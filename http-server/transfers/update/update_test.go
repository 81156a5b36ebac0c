package update

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"ops-console/internal/form"
	"ops-console/internal/reconcile"
	"ops-console/internal/session"
)

type MockTransferApprover struct {
	mock.Mock
}

func (m *MockTransferApprover) ApproveTransfer(ctx context.Context, s *session.Session, f form.ApproveTransferForm) reconcile.Outcome {
	args := m.Called(ctx, s, f)
	return args.Get(0).(reconcile.Outcome)
}

func TestApproveTransfer(t *testing.T) {
	transfers := new(MockTransferApprover)
	transfers.On("ApproveTransfer", mock.Anything, mock.Anything, form.ApproveTransferForm{TransferID: "TR-7"}).
		Return(reconcile.Outcome{Kind: reconcile.KindSuccess, Toast: "Transfer approved"})

	r := chi.NewRouter()
	r.Patch("/api/stock-transfers/{id}/approve", ApproveTransfer(transfers))

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodPatch, "/api/stock-transfers/TR-7/approve", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "Transfer approved")
	transfers.AssertExpectations(t)
}
