package utils

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestEncodeSecretKey(t *testing.T) {
	// base64("test_sk_abc:")
	if got := EncodeSecretKey("test_sk_abc"); got != "dGVzdF9za19hYmM6" {
		t.Fatalf("EncodeSecretKey = %q", got)
	}
}

func TestConfirmPayment(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if auth := r.Header.Get("Authorization"); auth != "Basic "+EncodeSecretKey("test_sk_abc") {
			t.Errorf("bad authorization header: %q", auth)
		}
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		if body["orderId"] != "ord123" || body["amount"] != float64(45000) {
			t.Errorf("unexpected payload: %v", body)
		}
		json.NewEncoder(w).Encode(TossConfirmResponse{
			PaymentKey:  body["paymentKey"].(string),
			OrderID:     "ord123",
			Status:      "DONE",
			Method:      "카드",
			TotalAmount: 45000,
		})
	}))
	defer srv.Close()

	c := NewTossClient("test_sk_abc", false)
	c.BaseURL = srv.URL

	resp, err := c.ConfirmPayment("pay-key-1", "ord123", 45000)
	if err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if resp.Status != "DONE" || resp.TotalAmount != 45000 {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestConfirmPaymentDeclined(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{
			"code":    "REJECT_CARD_COMPANY",
			"message": "카드사에서 거절된 결제입니다.",
		})
	}))
	defer srv.Close()

	c := NewTossClient("test_sk_abc", false)
	c.BaseURL = srv.URL

	if _, err := c.ConfirmPayment("pay-key-1", "ord123", 45000); err == nil {
		t.Fatal("expected error for declined payment")
	}
}

func TestConfirmPaymentDryRun(t *testing.T) {
	c := NewTossClient("", true)
	c.BaseURL = "http://127.0.0.1:1" // запрос уходить не должен

	resp, err := c.ConfirmPayment("pay-key-1", "ord123", 45000)
	if err != nil {
		t.Fatalf("dry-run confirm: %v", err)
	}
	if resp.Status != "DONE" || resp.OrderID != "ord123" {
		t.Fatalf("unexpected dry-run response: %+v", resp)
	}
}
