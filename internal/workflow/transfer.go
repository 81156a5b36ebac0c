package workflow

// ApprovalThreshold is the largest transfer quantity that completes without
// an explicit approval.
const ApprovalThreshold = 30

func IsApprovalRequired(quantity int) bool {
	return quantity > ApprovalThreshold
}

// ExpectedTransferStatus is the status a freshly created transfer of quantity
// is expected to land in. The backend stays authoritative.
func ExpectedTransferStatus(quantity int) Status {
	if IsApprovalRequired(quantity) {
		return TransferPendingApproval
	}

	return TransferCompleted
}

// AwaitsApproval reports whether a backend-reported transfer status means the
// stock has not moved yet.
func AwaitsApproval(status Status) (awaiting bool, known bool) {
	switch status {
	case TransferCompleted, TransferApproved:
		return false, true
	case TransferPendingApproval, TransferPending:
		return true, true
	}

	return false, false
}
