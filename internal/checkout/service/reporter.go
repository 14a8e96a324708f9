package service

import (
	"context"
	"fmt"
	"io"
	"sync"

	"labcheckout/internal/checkout/models"
	dErrors "labcheckout/pkg/domain-errors"
)

// Category is the operator-facing label for a failure code.
func Category(code dErrors.Code) string {
	switch code {
	case dErrors.CodeInvalidInput:
		return "Invalid Input"
	case dErrors.CodeNotFound:
		return "Not Found"
	case dErrors.CodeSecurityViolation:
		return "Security Issue"
	case dErrors.CodePolicyViolation, dErrors.CodeConflict:
		// An asset borrowed out from under a checkout is a policy failure to the operator.
		return "Policy Violation"
	case dErrors.CodeCapacityExceeded:
		return "Capacity Exceeded"
	default:
		return "Internal Error"
	}
}

// WriterReporter prints duration notices and then "SUCCESS: <receipt>", or
// "<Category>: <message>" on failure, one line each.
type WriterReporter struct {
	mu sync.Mutex
	w  io.Writer
}

func NewWriterReporter(w io.Writer) *WriterReporter {
	return &WriterReporter{w: w}
}

func (r *WriterReporter) Report(_ context.Context, _ models.Request, receipt *models.Receipt, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err != nil {
		fmt.Fprintf(r.w, "%s: %s\n", Category(dErrors.CodeOf(err)), err.Error())
		return
	}
	for _, n := range receipt.Notices {
		fmt.Fprintln(r.w, n)
	}
	fmt.Fprintf(r.w, "SUCCESS: %s\n", receipt.Token)
}

var _ Reporter = (*WriterReporter)(nil)
