package donationHandler

import (
	donationService "NadaBackend/internal/api/donation/service"
	"NadaBackend/internal/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type DonationHandler struct {
	log             *logrus.Logger
	validator       *validator.Validate
	middleware      middleware.Middleware
	donationService donationService.IDonationService
}

func New(
	log *logrus.Logger,
	validate *validator.Validate,
	middleware middleware.Middleware,
	ds donationService.IDonationService,
) *DonationHandler {
	return &DonationHandler{
		log:             log,
		validator:       validate,
		middleware:      middleware,
		donationService: ds,
	}
}

func (h *DonationHandler) Start(srv fiber.Router) {
	donation := srv.Group("/donation")

	donation.Post("/create", h.middleware.NewRateLimiter, h.CreateDonation)
	donation.Post("/verify", h.middleware.NewRateLimiter, h.VerifyDonation)
	donation.Post("/send-thanks", h.middleware.NewRateLimiter, h.SendThanks)
	donation.Get("/status/:order_id", h.GetDonationStatus)

	// The gateway pushes here; rate limiting gateway retries would only
	// amplify them.
	donation.Post("/webhook", h.PaymentWebhook)
}
