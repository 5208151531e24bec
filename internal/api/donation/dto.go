package donation

type CreateDonationRequest struct {
	DonorName     string `json:"donor_name" validate:"required,min=3,max=100"`
	DonorEmail    string `json:"donor_email" validate:"required,email"`
	Amount        int64  `json:"amount" validate:"required,min=1"`
	PaymentMethod string `json:"payment_method" validate:"omitempty,oneof=QRIS"`
	Message       string `json:"message" validate:"omitempty,max=500"`
}

type CreateDonationResponse struct {
	PaymentURL    string `json:"payment_url"`
	OrderID       string `json:"order_id"`
	TransactionID string `json:"transaction_id"`
	Amount        int64  `json:"amount"`
}

type VerifyDonationRequest struct {
	PaymentID   string `json:"payment_id" validate:"required"`
	MerchantKey string `json:"merchant_key" validate:"required"`
}

// WebhookEvent is the gateway's push notification body. The gateway is
// observed to report completion in either payment_status or
// transaction_status, so both fields are carried.
type WebhookEvent struct {
	TransactionID     string `json:"transaction_id"`
	PaymentID         string `json:"payment_id"`
	OrderID           string `json:"order_id"`
	Amount            int64  `json:"amount"`
	PaymentStatus     string `json:"payment_status"`
	TransactionStatus string `json:"transaction_status"`
	PaymentMethod     string `json:"payment_method"`
	AccountNumber     string `json:"account_number"`
	IssuerName        string `json:"issuer_name"`
	DonorName         string `json:"donor_name"`
	DonorEmail        string `json:"donor_email"`
}

type ThanksEmailRequest struct {
	DonorEmail    string `json:"donor_email" validate:"required,email"`
	DonorName     string `json:"donor_name" validate:"required"`
	Amount        int64  `json:"amount" validate:"required,min=1"`
	TransactionID string `json:"transaction_id" validate:"required"`
	DonationDate  string `json:"donation_date" validate:"required"`
}

type DonationStatusResponse struct {
	OrderID string `json:"order_id"`
	Status  string `json:"status"`
	Message string `json:"message"`
}
