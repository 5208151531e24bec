package paygate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"github.com/sirupsen/logrus"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	createPaymentEndpoint = "/v1/payment/create"
	verifyPaymentEndpoint = "/v1/payment/verify"
)

type IPaygate interface {
	CreatePayment(ctx context.Context, intent DonationIntent) (*PaymentCreated, error)
	VerifyPayment(ctx context.Context, paymentID, merchantKey string) (map[string]interface{}, error)
}

type paygateClient struct {
	cfg        *Config
	httpClient *http.Client
	log        *logrus.Logger
	now        func() time.Time
}

func New(cfg *Config, log *logrus.Logger) IPaygate {
	return &paygateClient{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		log:        log,
		now:        time.Now,
	}
}

// redirectExtractors lists, in order of preference, the ways a payment URL is
// pulled out of a creation response. The gateway is observed to vary its
// response shape, so the final resolved request URL is kept as a last resort.
var redirectExtractors = []struct {
	name    string
	extract func(body map[string]interface{}, resp *http.Response) string
}{
	{"payment_url", func(body map[string]interface{}, _ *http.Response) string {
		return stringField(body, "payment_url")
	}},
	{"redirect_url", func(body map[string]interface{}, _ *http.Response) string {
		return stringField(body, "redirect_url")
	}},
	{"url", func(body map[string]interface{}, _ *http.Response) string {
		return stringField(body, "url")
	}},
	{"final_request_url", func(_ map[string]interface{}, resp *http.Response) string {
		if resp.Request != nil && resp.Request.URL != nil {
			return resp.Request.URL.String()
		}
		return ""
	}},
}

func (p *paygateClient) CreatePayment(ctx context.Context, intent DonationIntent) (*PaymentCreated, error) {
	signed := signRequest(p.cfg, intent, p.now())

	request := createPaymentRequest{
		ExpiresIn:     p.cfg.ExpirySeconds,
		OrderID:       intent.OrderID,
		UserID:        firstNameToken(intent.DonorName),
		MerchantName:  p.cfg.MerchantName,
		PaymentMethod: intent.PaymentMethod,
		TotalAmount:   intent.Amount,
		CustomerName:  intent.DonorName,
		Currency:      p.cfg.Currency,
		PushURL:       p.cfg.pushURL(),
		CallbackURL:   p.cfg.callbackURL(intent),
	}

	reqBody, err := json.Marshal(request)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %v", err)
	}

	url := strings.TrimRight(p.cfg.BaseURL, "/") + createPaymentEndpoint

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(reqBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %v", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-client-id", signed.ClientIDEncoded)
	req.Header.Set("x-timestamp", signed.Timestamp)
	req.Header.Set("x-signature", signed.Signature)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		p.log.WithFields(logrus.Fields{
			"order_id": intent.OrderID,
			"error":    err.Error(),
		}).Error("Payment creation request failed")
		return nil, fmt.Errorf("failed to execute request: %v", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %v", err)
	}

	p.log.WithFields(logrus.Fields{
		"order_id":     intent.OrderID,
		"status":       resp.StatusCode,
		"response_raw": string(respBody),
	}).Debug("Payment creation raw response")

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		p.log.WithFields(logrus.Fields{
			"order_id":      intent.OrderID,
			"status":        resp.StatusCode,
			"response_body": string(respBody),
		}).Error("Payment gateway rejected creation request")
		return nil, fmt.Errorf("payment creation failed with status %d", resp.StatusCode)
	}

	var body map[string]interface{}
	if err := json.Unmarshal(respBody, &body); err != nil {
		p.log.WithFields(logrus.Fields{
			"order_id":     intent.OrderID,
			"error":        err.Error(),
			"response_raw": string(respBody),
		}).Debug("Creation response is not JSON, falling back to URL extraction")
		body = map[string]interface{}{}
	}

	var paymentURL string
	for _, extractor := range redirectExtractors {
		if candidate := extractor.extract(body, resp); candidate != "" {
			p.log.WithFields(logrus.Fields{
				"order_id": intent.OrderID,
				"strategy": extractor.name,
			}).Debug("Extracted payment URL")
			paymentURL = candidate
			break
		}
	}

	if paymentURL == "" {
		return nil, fmt.Errorf("no payment URL in gateway response")
	}

	return &PaymentCreated{
		PaymentURL:    paymentURL,
		OrderID:       intent.OrderID,
		TransactionID: intent.TransactionID,
		Amount:        intent.Amount,
	}, nil
}

func (p *paygateClient) VerifyPayment(ctx context.Context, paymentID, merchantKey string) (map[string]interface{}, error) {
	reqBody, err := json.Marshal(verifyPaymentRequest{
		PaymentID:   paymentID,
		MerchantKey: merchantKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %v", err)
	}

	url := strings.TrimRight(p.cfg.BaseURL, "/") + verifyPaymentEndpoint

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(reqBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %v", err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		p.log.WithFields(logrus.Fields{
			"payment_id": paymentID,
			"error":      err.Error(),
		}).Error("Payment verification request failed")
		return nil, fmt.Errorf("failed to execute request: %v", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %v", err)
	}

	p.log.WithFields(logrus.Fields{
		"payment_id":   paymentID,
		"status":       resp.StatusCode,
		"response_raw": string(respBody),
	}).Debug("Payment verification raw response")

	var body map[string]interface{}
	if err := json.Unmarshal(respBody, &body); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %v", err)
	}

	if transactionStatus(body) == "FAILED" {
		return nil, &TransactionFailedError{
			OrderID:       lookupField(body, "order_id"),
			TransactionID: lookupField(body, "transaction_id"),
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("payment verification failed with status %d", resp.StatusCode)
	}

	body["is_donation"] = true

	return body, nil
}

func transactionStatus(body map[string]interface{}) string {
	return lookupField(body, "transaction_status")
}

func stringField(body map[string]interface{}, key string) string {
	if value, ok := body[key].(string); ok {
		return value
	}
	return ""
}

// lookupField checks the top level first, then the nested objects the gateway
// is known to wrap error details in.
func lookupField(body map[string]interface{}, key string) string {
	if value := stringField(body, key); value != "" {
		return value
	}
	for _, wrapper := range []string{"error", "data"} {
		if nested, ok := body[wrapper].(map[string]interface{}); ok {
			if value := stringField(nested, key); value != "" {
				return value
			}
		}
	}
	return ""
}
