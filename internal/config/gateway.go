package config

import (
	"NadaBackend/pkg/paygate"
	"fmt"
	"os"
	"strconv"
)

const defaultExpirySeconds = 3600

// NewGatewayConfig reads the gateway environment exactly once at startup.
// The resulting struct is the only way gateway settings reach business logic.
func NewGatewayConfig() (*paygate.Config, error) {
	cfg := &paygate.Config{
		BaseURL:         os.Getenv("PAYMENT_GATEWAY_URL"),
		ClientID:        os.Getenv("PAYMENT_CLIENT_ID"),
		ClientSecret:    os.Getenv("PAYMENT_CLIENT_SECRET"),
		MerchantName:    os.Getenv("PAYMENT_MERCHANT_NAME"),
		ServerBaseURL:   os.Getenv("SERVER_BASE_URL"),
		FrontendBaseURL: os.Getenv("FRONTEND_BASE_URL"),
		ExpirySeconds:   defaultExpirySeconds,
		Currency:        "IDR",
	}

	if raw := os.Getenv("PAYMENT_EXPIRY_SECONDS"); raw != "" {
		expiry, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid PAYMENT_EXPIRY_SECONDS: %w", err)
		}
		cfg.ExpirySeconds = expiry
	}

	for name, value := range map[string]string{
		"PAYMENT_GATEWAY_URL":   cfg.BaseURL,
		"PAYMENT_CLIENT_ID":     cfg.ClientID,
		"PAYMENT_CLIENT_SECRET": cfg.ClientSecret,
		"PAYMENT_MERCHANT_NAME": cfg.MerchantName,
		"SERVER_BASE_URL":       cfg.ServerBaseURL,
		"FRONTEND_BASE_URL":     cfg.FrontendBaseURL,
	} {
		if value == "" {
			return nil, fmt.Errorf("missing required configuration: %s", name)
		}
	}

	return cfg, nil
}
