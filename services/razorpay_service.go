package services

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// RazorpayConfig holds the gateway credentials
type RazorpayConfig struct {
	KeyID     string
	KeySecret string
	BaseURL   string
	Timeout   time.Duration
}

// RazorpayService talks to the Razorpay REST API
type RazorpayService struct {
	config     *RazorpayConfig
	httpClient *http.Client
}

// RazorpayOrder is the subset of the gateway order object we hand back to clients
type RazorpayOrder struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
	Status   string `json:"status"`
}

// GatewayError is a non-2xx answer from the gateway
type GatewayError struct {
	StatusCode  int
	Code        string
	Description string
}

func (e *GatewayError) Error() string {
	return fmt.Sprintf("razorpay API error (status %d): %s %s", e.StatusCode, e.Code, e.Description)
}

var ErrGatewayNotConfigured = errors.New("RAZORPAY_KEY_ID / RAZORPAY_KEY_SECRET not set")

func NewRazorpayService(config *RazorpayConfig) *RazorpayService {
	timeout := config.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if config.BaseURL == "" {
		config.BaseURL = "https://api.razorpay.com/v1"
	}
	return &RazorpayService{
		config: config,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

func (rs *RazorpayService) KeyID() string {
	return rs.config.KeyID
}

// ValidateConfig validates Razorpay configuration
func (rs *RazorpayService) ValidateConfig() error {
	if rs.config.KeyID == "" || rs.config.KeySecret == "" {
		return ErrGatewayNotConfigured
	}
	return nil
}

// CreateOrder creates a gateway order; amount is in minor units
func (rs *RazorpayService) CreateOrder(ctx context.Context, amount int64, currency, receipt string) (*RazorpayOrder, error) {
	payload := map[string]interface{}{
		"amount":          amount,
		"currency":        currency,
		"receipt":         receipt,
		"payment_capture": 1,
	}

	var order RazorpayOrder
	if err := rs.do(ctx, http.MethodPost, "/orders", payload, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// FetchPayment returns the raw payment object
func (rs *RazorpayService) FetchPayment(ctx context.Context, paymentID string) (map[string]interface{}, error) {
	var payment map[string]interface{}
	if err := rs.do(ctx, http.MethodGet, "/payments/"+paymentID, nil, &payment); err != nil {
		return nil, err
	}
	return payment, nil
}

// Refund refunds a captured payment; amount is in minor units
func (rs *RazorpayService) Refund(ctx context.Context, paymentID string, amount int64) (map[string]interface{}, error) {
	var refund map[string]interface{}
	payload := map[string]interface{}{"amount": amount}
	if err := rs.do(ctx, http.MethodPost, "/payments/"+paymentID+"/refund", payload, &refund); err != nil {
		return nil, err
	}
	return refund, nil
}

// VerifySignature checks HMAC-SHA256(key_secret, order_id|payment_id) in constant time.
// The signature must match the lower-case hex digest byte for byte.
func (rs *RazorpayService) VerifySignature(orderID, paymentID, signature string) bool {
	if rs.config.KeySecret == "" || signature == "" {
		return false
	}
	expected := rs.Sign(orderID, paymentID)
	return hmac.Equal([]byte(expected), []byte(signature))
}

// Sign returns the hex signature the gateway produces for a completed checkout
func (rs *RazorpayService) Sign(orderID, paymentID string) string {
	mac := hmac.New(sha256.New, []byte(rs.config.KeySecret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

func (rs *RazorpayService) do(ctx context.Context, method, path string, payload interface{}, out interface{}) error {
	if err := rs.ValidateConfig(); err != nil {
		return err
	}

	var body io.Reader
	if payload != nil {
		jsonData, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("error marshaling request: %w", err)
		}
		body = bytes.NewBuffer(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, strings.TrimRight(rs.config.BaseURL, "/")+path, body)
	if err != nil {
		return fmt.Errorf("error creating request: %w", err)
	}
	req.SetBasicAuth(rs.config.KeyID, rs.config.KeySecret)
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := rs.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("error making request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("error reading response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var errResp struct {
			Error struct {
				Code        string `json:"code"`
				Description string `json:"description"`
			} `json:"error"`
		}
		_ = json.Unmarshal(respBody, &errResp)
		return &GatewayError{
			StatusCode:  resp.StatusCode,
			Code:        errResp.Error.Code,
			Description: errResp.Error.Description,
		}
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("error unmarshaling response: %w", err)
	}
	return nil
}
