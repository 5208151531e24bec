package donationService

import (
	donation "NadaBackend/internal/api/donation"
	contextPkg "NadaBackend/pkg/context"
	"NadaBackend/pkg/paygate"
	"errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"
)

func (s *donationService) CreateDonation(ctx context.Context, req donation.CreateDonationRequest) (*donation.CreateDonationResponse, error) {
	requestID := contextPkg.GetRequestID(ctx)

	if req.Amount < 1 {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"amount":     req.Amount,
		}).Warn("Invalid donation amount")
		return nil, donation.ErrInvalidAmount
	}

	paymentMethod := req.PaymentMethod
	if paymentMethod == "" {
		paymentMethod = defaultPaymentMethod
	}

	intent := paygate.DonationIntent{
		OrderID:       generateOrderID(req.DonorName, s.now()),
		TransactionID: generateTransactionID(),
		DonorName:     req.DonorName,
		DonorEmail:    req.DonorEmail,
		Amount:        req.Amount,
		PaymentMethod: paymentMethod,
		Message:       req.Message,
	}

	s.log.WithFields(logrus.Fields{
		"request_id":     requestID,
		"order_id":       intent.OrderID,
		"transaction_id": intent.TransactionID,
		"amount":         intent.Amount,
		"payment_method": intent.PaymentMethod,
	}).Info("Creating donation payment")

	created, err := s.gateway.CreatePayment(ctx, intent)
	if err != nil {
		// Detail stays in the server logs; the donor gets a generic
		// retryable message. No automatic retry here: a duplicate create
		// risks a duplicate charge.
		s.log.WithFields(logrus.Fields{
			"request_id":     requestID,
			"order_id":       intent.OrderID,
			"transaction_id": intent.TransactionID,
			"error":          err.Error(),
		}).Error("Failed to create payment at gateway")
		return nil, donation.ErrGatewayUnavailable
	}

	return &donation.CreateDonationResponse{
		PaymentURL:    created.PaymentURL,
		OrderID:       created.OrderID,
		TransactionID: created.TransactionID,
		Amount:        created.Amount,
	}, nil
}

func (s *donationService) VerifyDonation(ctx context.Context, req donation.VerifyDonationRequest) (map[string]interface{}, error) {
	requestID := contextPkg.GetRequestID(ctx)

	result, err := s.gateway.VerifyPayment(ctx, req.PaymentID, req.MerchantKey)
	if err != nil {
		var failed *paygate.TransactionFailedError
		if errors.As(err, &failed) {
			s.log.WithFields(logrus.Fields{
				"request_id":     requestID,
				"payment_id":     req.PaymentID,
				"order_id":       failed.OrderID,
				"transaction_id": failed.TransactionID,
			}).Warn("Gateway reported failed transaction")
			return nil, &donation.TransactionFailedError{
				OrderID:       failed.OrderID,
				TransactionID: failed.TransactionID,
			}
		}

		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"payment_id": req.PaymentID,
			"error":      err.Error(),
		}).Error("Failed to verify payment at gateway")
		return nil, donation.ErrGatewayUnavailable
	}

	return result, nil
}

func (s *donationService) GetDonationStatus(ctx context.Context, orderID string) (*donation.DonationStatusResponse, error) {
	requestID := contextPkg.GetRequestID(ctx)

	s.log.WithFields(logrus.Fields{
		"request_id": requestID,
		"order_id":   orderID,
	}).Debug("Donation status lookup requested")

	// Stub pending persistence: donation intents are not stored, so there is
	// nothing to look the order up against yet.
	return &donation.DonationStatusResponse{
		OrderID: orderID,
		Status:  "unknown",
		Message: "donation status lookup is not yet available",
	}, nil
}
