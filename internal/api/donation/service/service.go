package donationService

import (
	donation "NadaBackend/internal/api/donation"
	"NadaBackend/pkg/idempotency"
	"NadaBackend/pkg/paygate"
	"NadaBackend/pkg/smtp"
	"context"
	"github.com/sirupsen/logrus"
	"time"
)

type IDonationService interface {
	CreateDonation(ctx context.Context, req donation.CreateDonationRequest) (*donation.CreateDonationResponse, error)
	VerifyDonation(ctx context.Context, req donation.VerifyDonationRequest) (map[string]interface{}, error)
	ProcessWebhook(ctx context.Context, event donation.WebhookEvent) error
	SendThanksMail(ctx context.Context, req donation.ThanksEmailRequest) error
	GetDonationStatus(ctx context.Context, orderID string) (*donation.DonationStatusResponse, error)
}

type donationService struct {
	log       *logrus.Logger
	gateway   paygate.IPaygate
	processed idempotency.IStore
	mailer    smtp.ItfSmtp
	now       func() time.Time
}

func NewDonationService(
	log *logrus.Logger,
	gateway paygate.IPaygate,
	processed idempotency.IStore,
	mailer smtp.ItfSmtp,
) IDonationService {
	return &donationService{
		log:       log,
		gateway:   gateway,
		processed: processed,
		mailer:    mailer,
		now:       time.Now,
	}
}
