package donation

import (
	"NadaBackend/pkg/response"
	"fmt"
)

var (
	ErrInvalidAmount      = response.NewError(400, "invalid donation amount")
	ErrInvalidWebhook     = response.NewError(400, "invalid webhook payload")
	ErrGatewayUnavailable = response.NewError(502, "payment gateway is unavailable, please try again later")
	ErrSendThanksMail     = response.NewError(500, "failed to send thanks email")
)

// TransactionFailedError is surfaced to the donor with both identifiers so
// support can trace the payment on the gateway side.
type TransactionFailedError struct {
	OrderID       string
	TransactionID string
}

func (e *TransactionFailedError) Error() string {
	return fmt.Sprintf("transaction failed for order %s (transaction %s)", e.OrderID, e.TransactionID)
}
