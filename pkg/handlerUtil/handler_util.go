package handlerUtil

import (
	donation "NadaBackend/internal/api/donation"
	"NadaBackend/pkg/log"
	"NadaBackend/pkg/response"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"github.com/sirupsen/logrus"
)

type ErrorHandler struct {
	logger *logrus.Logger
}

func New(logger *logrus.Logger) *ErrorHandler {
	return &ErrorHandler{
		logger: logger,
	}
}

func (h *ErrorHandler) Handle(c *fiber.Ctx, requestID string, err error, path string, operation string) error {
	var respErr *response.Error
	if errors.As(err, &respErr) {
		h.logger.WithFields(log.Fields{
			"request_id": requestID,
			"error":      err.Error(),
			"code":       respErr.Code,
			"path":       path,
			"operation":  operation,
		}).Warn("Operation failed with error response")
		return c.Status(respErr.Code).JSON(fiber.Map{"error": err.Error()})
	}

	// Donation domain errors
	var failed *donation.TransactionFailedError
	if errors.As(err, &failed) {
		h.logger.WithFields(log.Fields{
			"request_id":     requestID,
			"order_id":       failed.OrderID,
			"transaction_id": failed.TransactionID,
			"path":           path,
			"operation":      operation,
		}).Warn("Transaction failed")
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":          failed.Error(),
			"code":           "TRANSACTION_FAILED",
			"order_id":       failed.OrderID,
			"transaction_id": failed.TransactionID,
		})
	}

	h.logger.WithFields(log.Fields{
		"request_id": requestID,
		"error":      err.Error(),
		"path":       path,
		"operation":  operation,
	}).Error("Unexpected error")

	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": "An unexpected error occurred",
	})
}

// HandleValidationError reports every violated constraint, not just the first.
func (h *ErrorHandler) HandleValidationError(c *fiber.Ctx, requestID string, err error, path string) error {
	message := validationMessage(err)

	h.logger.WithFields(log.Fields{
		"request_id": requestID,
		"error":      message,
		"path":       path,
	}).Warn("Validation failed")

	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"error": "Validation failed: " + message,
		"code":  "VALIDATION_ERROR",
	})
}

func validationMessage(err error) string {
	var vErrs validator.ValidationErrors
	if !errors.As(err, &vErrs) {
		return err.Error()
	}

	messages := make([]string, 0, len(vErrs))
	for _, fieldErr := range vErrs {
		switch fieldErr.Tag() {
		case "required":
			messages = append(messages, fmt.Sprintf("%s is required", fieldErr.Field()))
		case "email":
			messages = append(messages, fmt.Sprintf("%s must be a valid email address", fieldErr.Field()))
		case "min":
			messages = append(messages, fmt.Sprintf("%s must be at least %s", fieldErr.Field(), fieldErr.Param()))
		case "max":
			messages = append(messages, fmt.Sprintf("%s must be at most %s", fieldErr.Field(), fieldErr.Param()))
		case "oneof":
			messages = append(messages, fmt.Sprintf("%s must be one of [%s]", fieldErr.Field(), fieldErr.Param()))
		default:
			messages = append(messages, fmt.Sprintf("%s failed on %s", fieldErr.Field(), fieldErr.Tag()))
		}
	}

	return strings.Join(messages, "; ")
}

func (h *ErrorHandler) HandleRequestTimeout(c *fiber.Ctx) error {
	return c.Status(fiber.StatusRequestTimeout).JSON(utils.StatusMessage(fiber.StatusRequestTimeout))
}

func (h *ErrorHandler) HandleSuccess(c *fiber.Ctx, statusCode int, data interface{}) error {
	if data == nil {
		return c.SendStatus(statusCode)
	}
	return c.Status(statusCode).JSON(data)
}
