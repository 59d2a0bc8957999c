package utils

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"
)

const tossConfirmURL = "https://api.tosspayments.com/v1/payments/confirm"

// TossClient — подтверждение платежей через Toss Payments.
type TossClient struct {
	SecretKey string
	DryRun    bool
	BaseURL   string // переопределяется в тестах
	client    *http.Client
}

type TossConfirmResponse struct {
	PaymentKey  string `json:"paymentKey"`
	OrderID     string `json:"orderId"`
	Status      string `json:"status"`
	Method      string `json:"method"`
	TotalAmount int64  `json:"totalAmount"`
	ApprovedAt  string `json:"approvedAt"`
}

type tossError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func NewTossClient(secretKey string, dryRun bool) *TossClient {
	return &TossClient{
		SecretKey: secretKey,
		DryRun:    dryRun,
		BaseURL:   tossConfirmURL,
		client:    &http.Client{Timeout: 10 * time.Second},
	}
}

// EncodeSecretKey — Basic Auth токен вида base64("secret:").
func EncodeSecretKey(secretKey string) string {
	return base64.StdEncoding.EncodeToString([]byte(secretKey + ":"))
}

// ConfirmPayment подтверждает платёж по paymentKey/orderId/amount.
func (c *TossClient) ConfirmPayment(paymentKey, orderID string, amount int64) (*TossConfirmResponse, error) {
	// DRY-RUN: не делаем HTTP-запрос
	if c.DryRun || c.SecretKey == "" {
		log.Printf("[toss][dry-run] confirm orderId=%s amount=%d", orderID, amount)
		return &TossConfirmResponse{PaymentKey: paymentKey, OrderID: orderID, Status: "DONE", TotalAmount: amount}, nil
	}

	payload, _ := json.Marshal(map[string]any{
		"paymentKey": paymentKey,
		"orderId":    orderID,
		"amount":     amount,
	})
	req, err := http.NewRequest(http.MethodPost, c.BaseURL, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Basic "+EncodeSecretKey(c.SecretKey))
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("toss confirm request: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		var te tossError
		_ = json.Unmarshal(body, &te)
		return nil, fmt.Errorf("toss confirm failed: status=%d code=%s message=%s", resp.StatusCode, te.Code, te.Message)
	}

	var result TossConfirmResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("parse toss response: %w", err)
	}
	return &result, nil
}
