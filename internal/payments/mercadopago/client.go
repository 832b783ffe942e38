// Package mercadopago integrates the Mercado Pago gateway: hosted
// Checkout Pro redirects, and direct card payments submitted from the
// embedded Brick widget.
package mercadopago

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/GiacomoGonzales/shopifree-v2-sub002/pkg/config"
	pkgerrors "github.com/GiacomoGonzales/shopifree-v2-sub002/pkg/errors"
)

// PreferenceItem is one purchasable line of a hosted checkout preference.
type PreferenceItem struct {
	Title      string  `json:"title"`
	Quantity   int     `json:"quantity"`
	UnitPrice  float64 `json:"unit_price"`
	CurrencyID string  `json:"currency_id"`
}

type PreferencePayer struct {
	Name  string           `json:"name,omitempty"`
	Email string           `json:"email,omitempty"`
	Phone *PreferencePhone `json:"phone,omitempty"`
}

type PreferencePhone struct {
	Number string `json:"number,omitempty"`
}

type BackURLs struct {
	Success string `json:"success"`
	Failure string `json:"failure"`
	Pending string `json:"pending"`
}

// Preference is the request body for POST /checkout/preferences.
type Preference struct {
	Items               []PreferenceItem `json:"items"`
	Payer               PreferencePayer  `json:"payer"`
	BackURLs            BackURLs         `json:"back_urls"`
	AutoReturn          string           `json:"auto_return,omitempty"`
	ExternalReference   string           `json:"external_reference"`
	StatementDescriptor string           `json:"statement_descriptor,omitempty"`
}

// PreferenceResult carries the hosted checkout entry points.
type PreferenceResult struct {
	ID               string `json:"id"`
	InitPoint        string `json:"init_point"`
	SandboxInitPoint string `json:"sandbox_init_point"`
}

// PaymentRequest is the direct payment body built from Brick form data.
type PaymentRequest struct {
	Token             string  `json:"token"`
	TransactionAmount float64 `json:"transaction_amount"`
	Installments      int     `json:"installments"`
	PaymentMethodID   string  `json:"payment_method_id"`
	IssuerID          string  `json:"issuer_id,omitempty"`
	Description       string  `json:"description,omitempty"`
	ExternalReference string  `json:"external_reference"`
	Payer             struct {
		Email string `json:"email"`
	} `json:"payer"`
}

// PaymentResult is the gateway's settlement verdict.
type PaymentResult struct {
	ID           int64  `json:"id"`
	Status       string `json:"status"`
	StatusDetail string `json:"status_detail"`
}

const (
	StatusApproved  = "approved"
	StatusRejected  = "rejected"
	StatusInProcess = "in_process"
	StatusPending   = "pending"
)

// API is the subset of the gateway the adapters need.
type API interface {
	CreatePreference(ctx context.Context, pref Preference) (*PreferenceResult, error)
	CreatePayment(ctx context.Context, req PaymentRequest) (*PaymentResult, error)
}

// Client talks to the Mercado Pago REST API with bearer auth.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

func NewClient(cfg config.MercadoPagoConfig) (*Client, error) {
	if strings.TrimSpace(cfg.AccessToken) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeGatewayConfig, "mercadopago access token is required")
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		token:   cfg.AccessToken,
		http:    &http.Client{Timeout: cfg.Timeout},
	}, nil
}

func (c *Client) CreatePreference(ctx context.Context, pref Preference) (*PreferenceResult, error) {
	var result PreferenceResult
	if err := c.post(ctx, "/checkout/preferences", pref, &result); err != nil {
		return nil, err
	}
	if result.InitPoint == "" && result.SandboxInitPoint == "" {
		return nil, pkgerrors.New(pkgerrors.CodePayment, "preference response carried no init point")
	}
	return &result, nil
}

func (c *Client) CreatePayment(ctx context.Context, req PaymentRequest) (*PaymentResult, error) {
	var result PaymentResult
	if err := c.post(ctx, "/v1/payments", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode gateway request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "build gateway request")
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "call mercadopago")
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read mercadopago response")
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return pkgerrors.New(pkgerrors.CodePayment,
			fmt.Sprintf("mercadopago %s returned %d: %s", path, resp.StatusCode, truncate(raw, 256)))
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodePayment, err, "decode mercadopago response")
	}
	return nil
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
