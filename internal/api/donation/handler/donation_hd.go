package donationHandler

import (
	donation "NadaBackend/internal/api/donation"
	contextPkg "NadaBackend/pkg/context"
	"NadaBackend/pkg/handlerUtil"
	"NadaBackend/pkg/log"
	"errors"
	"github.com/gofiber/fiber/v2"
	"golang.org/x/net/context"
	"time"
)

func (h *DonationHandler) CreateDonation(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 10*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	h.log.WithFields(log.Fields{
		"request_id": requestID,
		"path":       ctx.Path(),
	}).Debug("Processing donation creation request")

	var req donation.CreateDonationRequest
	if err := ctx.BodyParser(&req); err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "parse_request_body")
	}

	if err := h.validator.Struct(req); err != nil {
		return errHandler.HandleValidationError(ctx, requestID, err, ctx.Path())
	}

	response, err := h.donationService.CreateDonation(c, req)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "create_donation")
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		return errHandler.HandleSuccess(ctx, fiber.StatusCreated, response)
	}
}

func (h *DonationHandler) VerifyDonation(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 10*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	h.log.WithFields(log.Fields{
		"request_id": requestID,
		"path":       ctx.Path(),
	}).Debug("Processing donation verification request")

	var req donation.VerifyDonationRequest
	if err := ctx.BodyParser(&req); err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "parse_request_body")
	}

	if err := h.validator.Struct(req); err != nil {
		return errHandler.HandleValidationError(ctx, requestID, err, ctx.Path())
	}

	result, err := h.donationService.VerifyDonation(c, req)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "verify_donation")
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		return errHandler.HandleSuccess(ctx, fiber.StatusOK, result)
	}
}

func (h *DonationHandler) PaymentWebhook(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 10*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	var event donation.WebhookEvent
	if err := ctx.BodyParser(&event); err != nil {
		h.log.WithFields(log.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Warn("Unparseable webhook body")
		// Ack anyway: a 4xx would only trigger gateway-side retries for a
		// body that will never parse.
		return errHandler.HandleSuccess(ctx, fiber.StatusOK, fiber.Map{
			"status": "ignored",
		})
	}

	if err := h.donationService.ProcessWebhook(c, event); err != nil {
		h.log.WithFields(log.Fields{
			"request_id":     requestID,
			"transaction_id": event.TransactionID,
			"error":          err.Error(),
		}).Error("Webhook processing failed")
	}

	return errHandler.HandleSuccess(ctx, fiber.StatusOK, fiber.Map{
		"status": "received",
	})
}

func (h *DonationHandler) SendThanks(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 10*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	var req donation.ThanksEmailRequest
	if err := ctx.BodyParser(&req); err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "parse_request_body")
	}

	if err := h.validator.Struct(req); err != nil {
		return errHandler.HandleValidationError(ctx, requestID, err, ctx.Path())
	}

	if err := h.donationService.SendThanksMail(c, req); err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "send_thanks_mail")
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		return errHandler.HandleSuccess(ctx, fiber.StatusOK, fiber.Map{
			"message": "thanks email sent",
		})
	}
}

func (h *DonationHandler) GetDonationStatus(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 10*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	orderID := ctx.Params("order_id")
	if orderID == "" {
		return errHandler.HandleValidationError(ctx, requestID,
			errors.New("order id is required"), ctx.Path())
	}

	status, err := h.donationService.GetDonationStatus(c, orderID)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "get_donation_status")
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		return errHandler.HandleSuccess(ctx, fiber.StatusOK, status)
	}
}
