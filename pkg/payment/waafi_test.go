package payment

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChargeApproved(t *testing.T) {
	var got purchaseRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		json.NewEncoder(w).Encode(purchaseResponse{ResponseCode: "2001", ResponseMsg: "RCS_SUCCESS"})
	}))
	defer srv.Close()

	client := NewClient(Config{
		URL:        srv.URL,
		MerchantID: "M0000001",
		APIUserID:  "user-1",
		APIKey:     "key-1",
	})

	result, err := client.Charge(context.Background(), ChargeRequest{
		Phone:       "252611111111",
		Amount:      0.01,
		ReferenceID: "booking-42",
	})
	require.NoError(t, err)
	assert.True(t, result.Ok)

	assert.Equal(t, "API_PURCHASE", got.ServiceName)
	assert.Equal(t, "M0000001", got.ServiceParams.MerchantUID)
	assert.Equal(t, "252611111111", got.ServiceParams.PayerInfo.AccountNo)
	assert.Equal(t, "booking-42", got.ServiceParams.TransactionInfo.ReferenceID)
	assert.InDelta(t, 0.01, got.ServiceParams.TransactionInfo.Amount, 1e-9)
}

func TestChargeDeclinedCarriesDetail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(purchaseResponse{ResponseCode: "5310", ResponseMsg: "Payment declined by payer"})
	}))
	defer srv.Close()

	client := NewClient(Config{URL: srv.URL})

	result, err := client.Charge(context.Background(), ChargeRequest{Phone: "252611111111", Amount: 0.01})
	require.NoError(t, err)
	assert.False(t, result.Ok)
	assert.Equal(t, "Payment declined by payer", result.Detail)
}

func TestChargeGatewayUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	client := NewClient(Config{URL: srv.URL})

	_, err := client.Charge(context.Background(), ChargeRequest{Phone: "252611111111", Amount: 0.01})
	assert.Error(t, err)
}
