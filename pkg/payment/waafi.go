// Package payment wraps the WaafiPay mobile-money API. The gateway is an
// opaque collaborator: one synchronous purchase attempt per call, no retry.
package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// Gateway confirms a charge before an appointment is persisted.
type Gateway interface {
	Charge(ctx context.Context, req ChargeRequest) (*ChargeResult, error)
}

// ChargeRequest describes a single mobile-wallet purchase.
type ChargeRequest struct {
	Phone  string
	Amount float64
	// ReferenceID is the caller-supplied idempotency token forwarded to the
	// gateway as the invoice reference, so a client retry of the same
	// booking does not double-charge.
	ReferenceID string
	Description string
}

// ChargeResult is the gateway verdict. Ok false means declined; Detail
// carries the provider's error text when it supplied one.
type ChargeResult struct {
	Ok     bool
	Detail string
}

// Config holds merchant credentials and the API endpoint.
type Config struct {
	URL        string
	MerchantID string
	APIUserID  string
	APIKey     string
	Timeout    time.Duration
}

type Client struct {
	cfg        Config
	httpClient *http.Client
}

func NewClient(cfg Config) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}
}

type purchaseRequest struct {
	SchemaVersion string        `json:"schemaVersion"`
	ID            string        `json:"id"`
	ServiceName   string        `json:"serviceName"`
	ServiceParams serviceParams `json:"serviceParams"`
}

type serviceParams struct {
	MerchantUID     string          `json:"merchantUid"`
	APIUserID       string          `json:"apiUserId"`
	APIKey          string          `json:"apiKey"`
	PaymentMethod   string          `json:"paymentMethod"`
	PayerInfo       payerInfo       `json:"payerInfo"`
	TransactionInfo transactionInfo `json:"transactionInfo"`
}

type payerInfo struct {
	AccountNo string `json:"accountNo"`
}

type transactionInfo struct {
	ReferenceID string  `json:"referenceId"`
	InvoiceID   string  `json:"invoiceId"`
	Amount      float64 `json:"amount"`
	Currency    string  `json:"currency"`
	Description string  `json:"description"`
}

type purchaseResponse struct {
	ResponseCode string `json:"responseCode"`
	ResponseMsg  string `json:"responseMsg"`
	ErrorCode    string `json:"errorCode"`
}

const responseCodeApproved = "2001"

// Charge runs one API_PURCHASE call. A declined payment is not an error:
// the result carries Ok=false plus the provider detail. Errors mean the
// gateway itself was unreachable or returned garbage.
func (c *Client) Charge(ctx context.Context, req ChargeRequest) (*ChargeResult, error) {
	ref := req.ReferenceID
	if ref == "" {
		ref = uuid.New().String()
	}

	body := purchaseRequest{
		SchemaVersion: "1.0",
		ID:            ref,
		ServiceName:   "API_PURCHASE",
		ServiceParams: serviceParams{
			MerchantUID:   c.cfg.MerchantID,
			APIUserID:     c.cfg.APIUserID,
			APIKey:        c.cfg.APIKey,
			PaymentMethod: "MWALLET_ACCOUNT",
			PayerInfo:     payerInfo{AccountNo: req.Phone},
			TransactionInfo: transactionInfo{
				ReferenceID: ref,
				InvoiceID:   ref,
				Amount:      req.Amount,
				Currency:    "USD",
				Description: req.Description,
			},
		},
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return nil, fmt.Errorf("failed to encode purchase request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.URL, &buf)
	if err != nil {
		return nil, fmt.Errorf("failed to build purchase request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("payment gateway unreachable: %w", err)
	}
	defer resp.Body.Close()

	var purchase purchaseResponse
	if err := json.NewDecoder(resp.Body).Decode(&purchase); err != nil {
		return nil, fmt.Errorf("failed to decode gateway response: %w", err)
	}

	if purchase.ResponseCode != responseCodeApproved {
		return &ChargeResult{Ok: false, Detail: purchase.ResponseMsg}, nil
	}
	return &ChargeResult{Ok: true}, nil
}
