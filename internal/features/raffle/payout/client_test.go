package payout

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"raffle-backend/internal/features/raffle/models"
)

func TestTransfer(t *testing.T) {
	ctx := context.Background()

	t.Run("posts the disbursement with idempotency ref", func(t *testing.T) {
		var got transferRequest
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/wallet/transfers", r.URL.Path)
			require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
			w.WriteHeader(http.StatusOK)
		}))
		defer srv.Close()

		client := New(srv.URL)
		err := client.Transfer(ctx, "EQwinner", 20, "req-1")
		require.NoError(t, err)
		assert.Equal(t, "EQwinner", got.ToAddress)
		assert.Equal(t, int64(20), got.AmountNano)
		assert.Equal(t, "req-1", got.ExternalRef)
	})

	t.Run("maps wallet failure to ErrTransferFailed", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer srv.Close()

		client := New(srv.URL)
		err := client.Transfer(ctx, "EQwinner", 20, "req-1")
		assert.ErrorIs(t, err, models.ErrTransferFailed)
	})

	t.Run("maps connection failure to ErrTransferFailed", func(t *testing.T) {
		client := New("http://127.0.0.1:1")
		err := client.Transfer(ctx, "EQwinner", 20, "req-1")
		assert.ErrorIs(t, err, models.ErrTransferFailed)
	})
}
