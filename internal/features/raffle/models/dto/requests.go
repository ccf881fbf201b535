package dto

// EnterRequest is the body of POST /raffle/entries.
type EnterRequest struct {
	Address  string `json:"address" binding:"required"`
	PaidNano int64  `json:"paid_nanoton" binding:"required"`
}

// FulfillmentRequest is the oracle's callback body.
type FulfillmentRequest struct {
	RequestID string `json:"request_id" binding:"required"`
	// Decimal-encoded random words; the core consumes only the first.
	RandomWords []string `json:"random_words" binding:"required"`
}
