package donationService

import (
	donation "NadaBackend/internal/api/donation"
	contextPkg "NadaBackend/pkg/context"
	"NadaBackend/pkg/smtp"
	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"
	"time"
)

// processedTTL bounds the idempotency keys. The gateway re-delivers within
// hours, not days.
const processedTTL = 24 * time.Hour

func isCompleted(event donation.WebhookEvent) bool {
	return event.PaymentStatus == "SUCCESS" || event.TransactionStatus == "SUCCESS"
}

// ProcessWebhook ingests a gateway push notification. Delivery is
// at-least-once and unordered, so the completion transition is guarded by the
// processed-transaction store. Errors never propagate to the HTTP response:
// the handler must always ack to avoid gateway retry storms.
func (s *donationService) ProcessWebhook(ctx context.Context, event donation.WebhookEvent) error {
	requestID := contextPkg.GetRequestID(ctx)

	s.log.WithFields(logrus.Fields{
		"request_id":         requestID,
		"transaction_id":     event.TransactionID,
		"payment_id":         event.PaymentID,
		"order_id":           event.OrderID,
		"amount":             event.Amount,
		"payment_status":     event.PaymentStatus,
		"transaction_status": event.TransactionStatus,
		"payment_method":     event.PaymentMethod,
		"issuer_name":        event.IssuerName,
	}).Info("Received payment webhook")

	if !isCompleted(event) {
		s.log.WithFields(logrus.Fields{
			"request_id":     requestID,
			"transaction_id": event.TransactionID,
		}).Debug("Webhook status is not a completion, ignoring")
		return nil
	}

	if event.TransactionID != "" {
		first, err := s.processed.MarkProcessed(ctx, event.TransactionID, processedTTL)
		if err != nil {
			// Treat a store failure as first delivery: a duplicate thanks
			// mail beats a missing one.
			s.log.WithFields(logrus.Fields{
				"request_id":     requestID,
				"transaction_id": event.TransactionID,
				"error":          err.Error(),
			}).Error("Idempotency store unavailable, processing anyway")
		} else if !first {
			s.log.WithFields(logrus.Fields{
				"request_id":     requestID,
				"transaction_id": event.TransactionID,
			}).Info("Webhook already processed, skipping")
			return nil
		}
	}

	s.log.WithFields(logrus.Fields{
		"request_id":     requestID,
		"transaction_id": event.TransactionID,
		"order_id":       event.OrderID,
	}).Info("Donation completed")

	// Fire-and-forget: the webhook ack must not wait on the mail collaborator.
	go s.sendThanksForEvent(event)

	return nil
}

func (s *donationService) sendThanksForEvent(event donation.WebhookEvent) {
	if event.DonorEmail == "" {
		s.log.WithFields(logrus.Fields{
			"transaction_id": event.TransactionID,
		}).Warn("Webhook event carries no donor email, skipping thanks mail")
		return
	}

	mail := smtp.ThanksMail{
		DonorEmail:    event.DonorEmail,
		DonorName:     event.DonorName,
		Amount:        event.Amount,
		TransactionID: event.TransactionID,
		DonationDate:  time.Now().Format("2006-01-02"),
	}

	if err := s.mailer.SendThanksMail(mail); err != nil {
		s.log.WithFields(logrus.Fields{
			"transaction_id": event.TransactionID,
			"donor_email":    event.DonorEmail,
			"error":          err.Error(),
		}).Error("Failed to send thanks mail")
	}
}

func (s *donationService) SendThanksMail(ctx context.Context, req donation.ThanksEmailRequest) error {
	requestID := contextPkg.GetRequestID(ctx)

	mail := smtp.ThanksMail{
		DonorEmail:    req.DonorEmail,
		DonorName:     req.DonorName,
		Amount:        req.Amount,
		TransactionID: req.TransactionID,
		DonationDate:  req.DonationDate,
	}

	if err := s.mailer.SendThanksMail(mail); err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id":     requestID,
			"transaction_id": req.TransactionID,
			"donor_email":    req.DonorEmail,
			"error":          err.Error(),
		}).Error("Failed to send thanks mail")
		return donation.ErrSendThanksMail
	}

	return nil
}
