package paygate

import "fmt"

// Config holds the gateway credentials and the URLs this service embeds into
// signed payloads. It is built once at startup and passed by reference; no
// business logic reads the process environment directly.
type Config struct {
	BaseURL         string
	ClientID        string
	ClientSecret    string
	MerchantName    string
	ServerBaseURL   string
	FrontendBaseURL string
	ExpirySeconds   int
	Currency        string
}

type DonationIntent struct {
	OrderID       string
	TransactionID string
	DonorName     string
	DonorEmail    string
	Amount        int64
	PaymentMethod string
	Message       string
}

type PaymentCreated struct {
	PaymentURL    string
	OrderID       string
	TransactionID string
	Amount        int64
}

// createPaymentRequest uses the wire field names fixed by the gateway's
// contract. They are not interchangeable with the canonical payload names.
type createPaymentRequest struct {
	ExpiresIn     int    `json:"expires_in"`
	OrderID       string `json:"order_id"`
	UserID        string `json:"user_id"`
	MerchantName  string `json:"merchant_name"`
	PaymentMethod string `json:"payment_method"`
	TotalAmount   int64  `json:"total_amount"`
	CustomerName  string `json:"customer_name"`
	Currency      string `json:"currency"`
	PushURL       string `json:"push_url"`
	CallbackURL   string `json:"callback_url"`
}

type verifyPaymentRequest struct {
	PaymentID   string `json:"payment_id"`
	MerchantKey string `json:"merchant_key"`
}

type TransactionFailedError struct {
	OrderID       string
	TransactionID string
}

func (e *TransactionFailedError) Error() string {
	return fmt.Sprintf("transaction failed for order %s (transaction %s)", e.OrderID, e.TransactionID)
}
