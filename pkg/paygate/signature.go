package paygate

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// SignedRequest carries the two artifacts the gateway recomputes on its side,
// plus the header values derived from them.
type SignedRequest struct {
	CanonicalPayload string
	PayloadHash      string
	ClientIDEncoded  string
	Timestamp        string
	Signature        string
}

func firstNameToken(name string) string {
	fields := strings.Fields(name)
	if len(fields) == 0 {
		return "donor"
	}
	return strings.ToLower(fields[0])
}

func (c *Config) pushURL() string {
	return strings.TrimRight(c.ServerBaseURL, "/") + "/api/v1/donation/webhook"
}

func (c *Config) callbackURL(intent DonationIntent) string {
	query := url.Values{}
	query.Set("order_id", intent.OrderID)
	query.Set("donor_email", intent.DonorEmail)
	query.Set("amount", strconv.FormatInt(intent.Amount, 10))
	query.Set("transaction_id", intent.TransactionID)

	return strings.TrimRight(c.FrontendBaseURL, "/") + "/donation/success?" + query.Encode()
}

// buildCanonicalPayload joins the signed fields in the exact order the gateway
// reconstructs them. The order and the ":" delimiter are part of the wire
// contract; changing either breaks signature verification on the gateway side.
func buildCanonicalPayload(cfg *Config, intent DonationIntent) string {
	fields := []string{
		strconv.Itoa(cfg.ExpirySeconds),
		intent.OrderID,
		firstNameToken(intent.DonorName),
		cfg.MerchantName,
		intent.PaymentMethod,
		strconv.FormatInt(intent.Amount, 10),
		intent.DonorName,
		cfg.Currency,
		cfg.pushURL(),
		cfg.callbackURL(intent),
	}

	return strings.Join(fields, ":")
}

func hashPayload(canonical string) string {
	hash := sha256.New()
	hash.Write([]byte(canonical))
	return strings.ToLower(hex.EncodeToString(hash.Sum(nil)))
}

func generateSignature(payloadHash, clientID, timestamp, secretKey string) string {
	stringToSign := payloadHash + ":" + clientID + ":" + timestamp

	mac := hmac.New(sha256.New, []byte(secretKey))
	mac.Write([]byte(stringToSign))

	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

func encodeClientID(clientID string) string {
	return base64.StdEncoding.EncodeToString([]byte(clientID))
}

func signRequest(cfg *Config, intent DonationIntent, now time.Time) SignedRequest {
	canonical := buildCanonicalPayload(cfg, intent)
	payloadHash := hashPayload(canonical)
	timestamp := now.UTC().Format(time.RFC3339)

	return SignedRequest{
		CanonicalPayload: canonical,
		PayloadHash:      payloadHash,
		ClientIDEncoded:  encodeClientID(cfg.ClientID),
		Timestamp:        timestamp,
		Signature:        generateSignature(payloadHash, cfg.ClientID, timestamp, cfg.ClientSecret),
	}
}
