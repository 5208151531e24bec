package donationHandler

import (
	donation "NadaBackend/internal/api/donation"
	"NadaBackend/internal/middleware"
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type fakeDonationService struct {
	mu           sync.Mutex
	createCalls  int
	webhookCalls int
	webhookErr   error
	lastEvent    donation.WebhookEvent
}

func (f *fakeDonationService) CreateDonation(_ context.Context, req donation.CreateDonationRequest) (*donation.CreateDonationResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.createCalls++
	return &donation.CreateDonationResponse{
		PaymentURL:    "https://pay.example.com/session",
		OrderID:       "DON-20240302091530-jane",
		TransactionID: "TXN-abc",
		Amount:        req.Amount,
	}, nil
}

func (f *fakeDonationService) VerifyDonation(_ context.Context, _ donation.VerifyDonationRequest) (map[string]interface{}, error) {
	return map[string]interface{}{"is_donation": true}, nil
}

func (f *fakeDonationService) ProcessWebhook(_ context.Context, event donation.WebhookEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.webhookCalls++
	f.lastEvent = event
	return f.webhookErr
}

func (f *fakeDonationService) SendThanksMail(_ context.Context, _ donation.ThanksEmailRequest) error {
	return nil
}

func (f *fakeDonationService) GetDonationStatus(_ context.Context, orderID string) (*donation.DonationStatusResponse, error) {
	return &donation.DonationStatusResponse{OrderID: orderID, Status: "unknown"}, nil
}

func newTestApp(svc *fakeDonationService) *fiber.App {
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	mw := middleware.New(logger)

	app := fiber.New()
	app.Use(mw.NewRequestIDMiddleware())

	handler := New(logger, validator.New(), mw, svc)
	handler.Start(app.Group("/api/v1"))

	return app
}

func postJSON(t *testing.T, app *fiber.App, path string, body interface{}) *http.Response {
	t.Helper()

	payload, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("failed to marshal body: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	return resp
}

func TestCreateDonationRejectsInvalidAmountBeforeService(t *testing.T) {
	svc := &fakeDonationService{}
	app := newTestApp(svc)

	resp := postJSON(t, app, "/api/v1/donation/create", map[string]interface{}{
		"donor_name":  "Jane Doe",
		"donor_email": "jane@example.com",
		"amount":      0,
	})

	if resp.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
	if svc.createCalls != 0 {
		t.Fatalf("service must not be reached for an invalid amount")
	}
}

func TestCreateDonationReportsAllViolations(t *testing.T) {
	svc := &fakeDonationService{}
	app := newTestApp(svc)

	resp := postJSON(t, app, "/api/v1/donation/create", map[string]interface{}{
		"donor_name":  "Jo",
		"donor_email": "not-an-email",
		"amount":      0,
	})

	if resp.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}

	body, _ := io.ReadAll(resp.Body)
	for _, field := range []string{"DonorName", "DonorEmail", "Amount"} {
		if !strings.Contains(string(body), field) {
			t.Fatalf("validation response missing violation for %s: %s", field, body)
		}
	}
}

func TestCreateDonationSuccess(t *testing.T) {
	svc := &fakeDonationService{}
	app := newTestApp(svc)

	resp := postJSON(t, app, "/api/v1/donation/create", map[string]interface{}{
		"donor_name":  "Jane Doe",
		"donor_email": "jane@example.com",
		"amount":      50000,
	})

	if resp.StatusCode != fiber.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}

	var body donation.CreateDonationResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if body.PaymentURL != "https://pay.example.com/session" {
		t.Fatalf("unexpected payment url: %s", body.PaymentURL)
	}
}

func TestVerifyDonationRequiresFields(t *testing.T) {
	app := newTestApp(&fakeDonationService{})

	resp := postJSON(t, app, "/api/v1/donation/verify", map[string]interface{}{})
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestWebhookAlwaysAcks(t *testing.T) {
	svc := &fakeDonationService{}
	app := newTestApp(svc)

	resp := postJSON(t, app, "/api/v1/donation/webhook", map[string]interface{}{
		"transaction_id": "TXN-abc",
		"payment_status": "SUCCESS",
	})
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if svc.webhookCalls != 1 {
		t.Fatalf("expected the webhook to reach the service")
	}
	if svc.lastEvent.TransactionID != "TXN-abc" {
		t.Fatalf("webhook event not parsed: %+v", svc.lastEvent)
	}
}

func TestWebhookAcksUnparseableBody(t *testing.T) {
	app := newTestApp(&fakeDonationService{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/donation/webhook", strings.NewReader("not json"))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200 for unparseable body, got %d", resp.StatusCode)
	}
}

func TestWebhookAcksWhenProcessingFails(t *testing.T) {
	svc := &fakeDonationService{webhookErr: context.DeadlineExceeded}
	app := newTestApp(svc)

	resp := postJSON(t, app, "/api/v1/donation/webhook", map[string]interface{}{
		"transaction_id": "TXN-abc",
		"payment_status": "SUCCESS",
	})
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("processing failures must still be acked, got %d", resp.StatusCode)
	}
}

func TestGetDonationStatusStub(t *testing.T) {
	app := newTestApp(&fakeDonationService{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/donation/status/DON-20240302091530-jane", nil)
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var body donation.DonationStatusResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if body.OrderID != "DON-20240302091530-jane" || body.Status != "unknown" {
		t.Fatalf("unexpected status response: %+v", body)
	}
}
