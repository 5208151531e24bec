package donationService

import (
	donation "NadaBackend/internal/api/donation"
	"context"
	"errors"
	"testing"
	"time"
)

func successEvent() donation.WebhookEvent {
	return donation.WebhookEvent{
		TransactionID: "TXN-abc",
		PaymentID:     "pay-1",
		OrderID:       "DON-20240302091530-jane",
		Amount:        50000,
		PaymentStatus: "SUCCESS",
		PaymentMethod: "QRIS",
		DonorName:     "Jane Doe",
		DonorEmail:    "jane@example.com",
	}
}

func TestProcessWebhookPaymentStatusSuccess(t *testing.T) {
	mailer := newFakeMailer()
	svc := newTestService(&fakeGateway{}, newFakeStore(), mailer)

	if err := svc.ProcessWebhook(context.Background(), successEvent()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	mail, ok := mailer.waitForMail(time.Second)
	if !ok {
		t.Fatalf("expected a thanks mail to be sent")
	}
	if mail.DonorEmail != "jane@example.com" || mail.TransactionID != "TXN-abc" || mail.Amount != 50000 {
		t.Fatalf("thanks mail carries wrong fields: %+v", mail)
	}
}

func TestProcessWebhookTransactionStatusSuccessIsEquivalent(t *testing.T) {
	mailer := newFakeMailer()
	svc := newTestService(&fakeGateway{}, newFakeStore(), mailer)

	event := successEvent()
	event.PaymentStatus = ""
	event.TransactionStatus = "SUCCESS"

	if err := svc.ProcessWebhook(context.Background(), event); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := mailer.waitForMail(time.Second); !ok {
		t.Fatalf("transaction_status SUCCESS must trigger completion too")
	}
}

func TestProcessWebhookOtherStatusIsNoOp(t *testing.T) {
	mailer := newFakeMailer()
	store := newFakeStore()
	svc := newTestService(&fakeGateway{}, store, mailer)

	for _, status := range []string{"PENDING", "EXPIRED", "FAILED", ""} {
		event := successEvent()
		event.PaymentStatus = status
		event.TransactionStatus = status

		if err := svc.ProcessWebhook(context.Background(), event); err != nil {
			t.Fatalf("unexpected error for status %q: %v", status, err)
		}
	}

	if _, ok := mailer.waitForMail(100 * time.Millisecond); ok {
		t.Fatalf("non-success statuses must not trigger a thanks mail")
	}
	if processed, _ := store.IsProcessed(context.Background(), "TXN-abc"); processed {
		t.Fatalf("non-success statuses must not consume the idempotency key")
	}
}

func TestProcessWebhookDuplicateDeliveryIsNoOp(t *testing.T) {
	mailer := newFakeMailer()
	svc := newTestService(&fakeGateway{}, newFakeStore(), mailer)

	for i := 0; i < 3; i++ {
		if err := svc.ProcessWebhook(context.Background(), successEvent()); err != nil {
			t.Fatalf("unexpected error on delivery %d: %v", i, err)
		}
	}

	if _, ok := mailer.waitForMail(time.Second); !ok {
		t.Fatalf("first delivery must send the thanks mail")
	}
	if _, ok := mailer.waitForMail(100 * time.Millisecond); ok {
		t.Fatalf("re-delivery must not send a second thanks mail")
	}
}

func TestProcessWebhookStoreFailureStillProcesses(t *testing.T) {
	mailer := newFakeMailer()
	store := newFakeStore()
	store.markErr = errors.New("redis offline")
	svc := newTestService(&fakeGateway{}, store, mailer)

	if err := svc.ProcessWebhook(context.Background(), successEvent()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := mailer.waitForMail(time.Second); !ok {
		t.Fatalf("a store outage must not drop the completion")
	}
}

func TestProcessWebhookMissingDonorEmailSkipsMail(t *testing.T) {
	mailer := newFakeMailer()
	svc := newTestService(&fakeGateway{}, newFakeStore(), mailer)

	event := successEvent()
	event.DonorEmail = ""

	if err := svc.ProcessWebhook(context.Background(), event); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := mailer.waitForMail(100 * time.Millisecond); ok {
		t.Fatalf("no mail should be sent without a donor email")
	}
}

func TestSendThanksMailMapsFailure(t *testing.T) {
	mailer := newFakeMailer()
	mailer.err = errors.New("smtp unreachable")
	svc := newTestService(&fakeGateway{}, newFakeStore(), mailer)

	err := svc.SendThanksMail(context.Background(), donation.ThanksEmailRequest{
		DonorEmail:    "jane@example.com",
		DonorName:     "Jane Doe",
		Amount:        50000,
		TransactionID: "TXN-abc",
		DonationDate:  "2024-03-02",
	})
	if !errors.Is(err, donation.ErrSendThanksMail) {
		t.Fatalf("expected ErrSendThanksMail, got %v", err)
	}
}
