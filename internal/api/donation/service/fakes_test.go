package donationService

import (
	"NadaBackend/pkg/paygate"
	"NadaBackend/pkg/smtp"
	"context"
	"io"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

type fakeGateway struct {
	mu          sync.Mutex
	createCalls int
	lastIntent  paygate.DonationIntent
	createErr   error

	verifyResult map[string]interface{}
	verifyErr    error
}

func (f *fakeGateway) CreatePayment(_ context.Context, intent paygate.DonationIntent) (*paygate.PaymentCreated, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.createCalls++
	f.lastIntent = intent
	if f.createErr != nil {
		return nil, f.createErr
	}
	return &paygate.PaymentCreated{
		PaymentURL:    "https://pay.example.com/session",
		OrderID:       intent.OrderID,
		TransactionID: intent.TransactionID,
		Amount:        intent.Amount,
	}, nil
}

func (f *fakeGateway) VerifyPayment(_ context.Context, _, _ string) (map[string]interface{}, error) {
	if f.verifyErr != nil {
		return nil, f.verifyErr
	}
	return f.verifyResult, nil
}

type fakeStore struct {
	mu      sync.Mutex
	seen    map[string]bool
	markErr error
}

func newFakeStore() *fakeStore {
	return &fakeStore{seen: map[string]bool{}}
}

func (f *fakeStore) MarkProcessed(_ context.Context, transactionID string, _ time.Duration) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.markErr != nil {
		return false, f.markErr
	}
	if f.seen[transactionID] {
		return false, nil
	}
	f.seen[transactionID] = true
	return true, nil
}

func (f *fakeStore) IsProcessed(_ context.Context, transactionID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.seen[transactionID], nil
}

type fakeMailer struct {
	sent chan smtp.ThanksMail
	err  error
}

func newFakeMailer() *fakeMailer {
	return &fakeMailer{sent: make(chan smtp.ThanksMail, 16)}
}

func (f *fakeMailer) SendThanksMail(mail smtp.ThanksMail) error {
	f.sent <- mail
	return f.err
}

func (f *fakeMailer) waitForMail(timeout time.Duration) (smtp.ThanksMail, bool) {
	select {
	case mail := <-f.sent:
		return mail, true
	case <-time.After(timeout):
		return smtp.ThanksMail{}, false
	}
}

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func newTestService(gateway *fakeGateway, store *fakeStore, mailer *fakeMailer) *donationService {
	return &donationService{
		log:       quietLogger(),
		gateway:   gateway,
		processed: store,
		mailer:    mailer,
		now: func() time.Time {
			return time.Date(2024, 3, 2, 9, 15, 30, 0, time.UTC)
		},
	}
}
