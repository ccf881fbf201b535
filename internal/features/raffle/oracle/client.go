// Package oracle implements the HTTP client for the external randomness
// provider. The provider guarantees exactly one callback per accepted
// request; the callback itself arrives on the fulfillment endpoint, not here.
package oracle

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// numWords is fixed: one winner needs one random value.
const numWords = 1

type Client struct {
	baseURL string
	http    *http.Client

	keyHash          string
	subscriptionID   string
	confirmations    int
	callbackGasLimit int64
}

type Config struct {
	BaseURL          string
	KeyHash          string
	SubscriptionID   string
	Confirmations    int
	CallbackGasLimit int64
}

func New(cfg Config) *Client {
	return &Client{
		baseURL:          cfg.BaseURL,
		http:             &http.Client{Timeout: 5 * time.Second},
		keyHash:          cfg.KeyHash,
		subscriptionID:   cfg.SubscriptionID,
		confirmations:    cfg.Confirmations,
		callbackGasLimit: cfg.CallbackGasLimit,
	}
}

type requestBody struct {
	KeyHash          string `json:"key_hash"`
	SubscriptionID   string `json:"subscription_id"`
	Confirmations    int    `json:"confirmations"`
	CallbackGasLimit int64  `json:"callback_gas_limit"`
	NumWords         int    `json:"num_words"`
	ConsumerRef      string `json:"consumer_ref"`
}

type requestResponse struct {
	RequestID string `json:"request_id"`
}

// RequestRandomness asks the oracle for one random word and returns the
// request handle it assigned. roundID travels as an opaque consumer ref.
func (c *Client) RequestRandomness(ctx context.Context, roundID string) (string, error) {
	body, _ := json.Marshal(requestBody{
		KeyHash:          c.keyHash,
		SubscriptionID:   c.subscriptionID,
		Confirmations:    c.confirmations,
		CallbackGasLimit: c.callbackGasLimit,
		NumWords:         numWords,
		ConsumerRef:      roundID,
	})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/requests", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("oracle request: %w", err)
	}
	defer res.Body.Close()
	if res.StatusCode >= 300 {
		return "", fmt.Errorf("oracle request http %d", res.StatusCode)
	}

	var out requestResponse
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("oracle response decode: %w", err)
	}
	if out.RequestID == "" {
		return "", fmt.Errorf("oracle returned empty request id")
	}
	return out.RequestID, nil
}
