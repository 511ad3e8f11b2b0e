package payments

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"sales_capture/internal/usecase/interfaces"

	"github.com/mercadopago/sdk-go/pkg/config"
	"github.com/mercadopago/sdk-go/pkg/payment"
)

var (
	ErrMissingMercadoPagoAccessToken   = errors.New("missing MERCADOPAGO_ACCESS_TOKEN")
	ErrMercadoPagoGatewayNotConfigured = errors.New("mercado pago gateway not configured")
	ErrMissingTransactionAmount        = errors.New("transaction_amount must be positive")
)

// MercadoPagoGateway charges a finalized sale through the Mercado Pago
// payments API. In mock mode no request leaves the process and the outcome
// is taken from PAYMENT_GATEWAY_MOCK_STATUS (default approved).
type MercadoPagoGateway struct {
	client     payment.Client
	mockMode   bool
	mockStatus string
}

var _ interfaces.IPaymentGateway = (*MercadoPagoGateway)(nil)

func NewMercadoPagoGatewayFromEnv() (*MercadoPagoGateway, error) {
	return NewMercadoPagoGateway(os.Getenv("MERCADOPAGO_ACCESS_TOKEN"))
}

func NewMercadoPagoGateway(accessToken string) (*MercadoPagoGateway, error) {
	if isPaymentGatewayMockEnabled() {
		status := strings.ToLower(strings.TrimSpace(os.Getenv("PAYMENT_GATEWAY_MOCK_STATUS")))
		if status == "" {
			status = "approved"
		}
		log.Printf("[sale-payment][gateway] mock mode enabled status=%s", status)
		return &MercadoPagoGateway{mockMode: true, mockStatus: status}, nil
	}

	if accessToken == "" {
		log.Printf("[sale-payment][gateway] missing MERCADOPAGO_ACCESS_TOKEN")
		return nil, ErrMissingMercadoPagoAccessToken
	}

	cfg, err := config.New(accessToken)
	if err != nil {
		log.Printf("[sale-payment][gateway] failed creating sdk config err=%v", err)
		return nil, err
	}
	log.Printf("[sale-payment][gateway] Mercado Pago client initialized")

	return &MercadoPagoGateway{client: payment.NewClient(cfg)}, nil
}

func (g *MercadoPagoGateway) CreatePayment(ctx context.Context, requestPayload json.RawMessage) (providerPaymentID string, providerStatus string, providerResponse json.RawMessage, err error) {
	if g != nil && g.mockMode {
		return g.mockCreate(requestPayload)
	}

	if g == nil || g.client == nil {
		log.Printf("[sale-payment][gateway] gateway not configured")
		return "", "", nil, ErrMercadoPagoGatewayNotConfigured
	}

	var req payment.Request
	if err := json.Unmarshal(requestPayload, &req); err != nil {
		log.Printf("[sale-payment][gateway] payload unmarshal failed err=%v", err)
		return "", "", nil, err
	}
	if req.TransactionAmount <= 0 {
		return "", "", nil, ErrMissingTransactionAmount
	}
	log.Printf("[sale-payment][gateway] create start sale_number=%s amount=%.2f", req.ExternalReference, req.TransactionAmount)

	resp, err := g.client.Create(ctx, req)
	if err != nil {
		log.Printf("[sale-payment][gateway] sdk create failed sale_number=%s err=%v", req.ExternalReference, err)
		return "", "", nil, err
	}

	b, err := json.Marshal(resp)
	if err != nil {
		log.Printf("[sale-payment][gateway] response marshal failed err=%v", err)
		return "", "", nil, err
	}
	log.Printf("[sale-payment][gateway] create success sale_number=%s provider_payment_id=%d provider_status=%s", req.ExternalReference, resp.ID, resp.Status)

	return fmt.Sprintf("%d", resp.ID), resp.Status, b, nil
}

func (g *MercadoPagoGateway) mockCreate(requestPayload json.RawMessage) (string, string, json.RawMessage, error) {
	resp := map[string]any{}
	if len(requestPayload) > 0 && json.Valid(requestPayload) {
		if err := json.Unmarshal(requestPayload, &resp); err != nil {
			resp = map[string]any{"request_payload_raw": string(requestPayload)}
		}
	}
	if amount, _ := resp["transaction_amount"].(float64); amount <= 0 {
		return "", "", nil, ErrMissingTransactionAmount
	}

	id := strconv.FormatInt(time.Now().UTC().UnixNano(), 10)
	now := time.Now().UTC().Format(time.RFC3339Nano)
	resp["id"] = id
	resp["status"] = g.mockStatus
	resp["date_created"] = now
	if g.mockStatus == "approved" {
		resp["status_detail"] = "accredited"
		resp["date_approved"] = now
	}

	b, err := json.Marshal(resp)
	if err != nil {
		log.Printf("[sale-payment][gateway] mock response marshal failed err=%v", err)
		return "", "", nil, err
	}
	log.Printf("[sale-payment][gateway] mock create sale_number=%v provider_payment_id=%s provider_status=%s", resp["external_reference"], id, g.mockStatus)
	return id, g.mockStatus, b, nil
}

func isPaymentGatewayMockEnabled() bool {
	for _, key := range []string{"PAYMENT_GATEWAY_MOCK", "MERCADOPAGO_MOCK"} {
		switch strings.ToLower(strings.TrimSpace(os.Getenv(key))) {
		case "1", "true", "yes", "on", "mock":
			return true
		}
	}
	return false
}
