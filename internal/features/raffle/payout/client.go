// Package payout implements the HTTP client for the wallet service that
// holds custody of the pot and executes winner disbursements.
package payout

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"raffle-backend/internal/features/raffle/models"
)

type Client struct {
	baseURL string
	http    *http.Client
}

func New(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

type transferRequest struct {
	ToAddress   string `json:"to_address"`
	AmountNano  int64  `json:"amount_nanoton"`
	ExternalRef string `json:"external_ref"` // wallet-side idempotency key
}

// Transfer sends the pot to the winner. ref is the randomness request id so
// the wallet can deduplicate a retried settlement. Any failure maps to
// models.ErrTransferFailed so the engine can keep its taxonomy closed.
func (c *Client) Transfer(ctx context.Context, toAddress string, amount int64, ref string) error {
	body, _ := json.Marshal(transferRequest{
		ToAddress:   toAddress,
		AmountNano:  amount,
		ExternalRef: ref,
	})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/wallet/transfers", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%w: %v", models.ErrTransferFailed, err)
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", models.ErrTransferFailed, err)
	}
	defer res.Body.Close()
	if res.StatusCode >= 300 {
		return fmt.Errorf("%w: wallet http %d", models.ErrTransferFailed, res.StatusCode)
	}
	return nil
}
