package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"sales_capture/internal/domain/entities"
	"sales_capture/internal/usecase/interfaces"
	"strings"
	"time"
)

var (
	ErrInvalidMPPayload            = errors.New("invalid mercado pago payload")
	ErrSaleNotFinalized            = errors.New("sale not finalized")
	ErrPaymentGatewayNotConfigured = errors.New("payment gateway not configured")
	ErrPaymentGatewayBadRequest    = errors.New("payment gateway bad request")
	ErrPaymentGatewayUnauthorized  = errors.New("payment gateway unauthorized")

	ErrPaymentGatewayInvalidUsers     = errors.New("payment gateway invalid users involved")
	ErrPaymentGatewayCustomerNotFound = errors.New("payment gateway customer not found")
)

// ISalePaymentUseCase charges finalized sales.
//
// The amount charged is always the sale's frozen total; whatever the caller
// sends as transaction_amount is overwritten.

type ISalePaymentUseCase interface {
	PayFinalizedSale(ctx context.Context, saleID string, mpPayload json.RawMessage) (entities.SalePayment, error)
	ListBySaleID(ctx context.Context, saleID string) ([]entities.SalePayment, error)
}

type SalePaymentUseCase struct {
	repo     interfaces.ISalePaymentRepository
	saleRepo interfaces.ISaleRepository
	gateway  interfaces.IPaymentGateway
}

var _ ISalePaymentUseCase = (*SalePaymentUseCase)(nil)

func NewSalePaymentUseCase(repo interfaces.ISalePaymentRepository, saleRepo interfaces.ISaleRepository, gateway interfaces.IPaymentGateway) *SalePaymentUseCase {
	return &SalePaymentUseCase{repo: repo, saleRepo: saleRepo, gateway: gateway}
}

func (u *SalePaymentUseCase) PayFinalizedSale(ctx context.Context, saleID string, mpPayload json.RawMessage) (entities.SalePayment, error) {
	log.Printf("[payment][usecase] pay start raw_sale_id=%q payload_len=%d", saleID, len(mpPayload))
	saleID = strings.TrimSpace(saleID)
	if saleID == "" {
		return entities.SalePayment{}, ErrInvalidSaleID
	}
	if len(mpPayload) == 0 {
		mpPayload = json.RawMessage("{}")
	}
	if !json.Valid(mpPayload) {
		log.Printf("[payment][usecase] invalid payload (not-json) sale_id=%s", saleID)
		return entities.SalePayment{}, ErrInvalidMPPayload
	}
	if u.gateway == nil {
		log.Printf("[payment][usecase] gateway not configured sale_id=%s", saleID)
		return entities.SalePayment{}, ErrPaymentGatewayNotConfigured
	}

	sale, err := u.saleRepo.GetByID(ctx, saleID)
	if err != nil {
		log.Printf("[payment][usecase] failed loading sale sale_id=%s err=%v", saleID, err)
		return entities.SalePayment{}, err
	}
	if sale == nil {
		return entities.SalePayment{}, ErrSaleNotFound
	}
	if sale.Status() != entities.SaleStatusFinalized {
		log.Printf("[payment][usecase] sale not finalized sale_id=%s status=%s", saleID, sale.Status())
		return entities.SalePayment{}, ErrSaleNotFinalized
	}

	var reqMap map[string]any
	if err := json.Unmarshal(mpPayload, &reqMap); err != nil || reqMap == nil {
		log.Printf("[payment][usecase] payload is not an object sale_id=%s", saleID)
		return entities.SalePayment{}, ErrInvalidMPPayload
	}
	normalizeSandboxPayerFromUserID(reqMap)
	ensurePayerDefaults(reqMap)
	if _, ok := reqMap["external_reference"]; !ok {
		reqMap["external_reference"] = sale.SaleNumber()
	}
	if _, ok := reqMap["description"]; !ok {
		reqMap["description"] = fmt.Sprintf("Sale %s", sale.SaleNumber())
	}
	reqMap["transaction_amount"] = sale.TotalAmount().Round(2).InexactFloat64()

	enriched, err := json.Marshal(reqMap)
	if err != nil {
		return entities.SalePayment{}, err
	}

	log.Printf("[payment][usecase] calling payment gateway sale_id=%s amount=%s", saleID, sale.TotalAmount().StringFixed(2))
	providerPaymentID, providerStatus, providerResp, err := u.gateway.CreatePayment(ctx, enriched)
	if err != nil {
		log.Printf("[payment][usecase] payment gateway failed sale_id=%s err=%v", saleID, err)
		if isGatewayCustomerNotFound(err) {
			return entities.SalePayment{}, ErrPaymentGatewayCustomerNotFound
		}
		if isGatewayInvalidUsers(err) {
			return entities.SalePayment{}, ErrPaymentGatewayInvalidUsers
		}
		if isGatewayUnauthorized(err) {
			return entities.SalePayment{}, ErrPaymentGatewayUnauthorized
		}
		if isGatewayBadRequest(err) {
			return entities.SalePayment{}, ErrPaymentGatewayBadRequest
		}
		return entities.SalePayment{}, err
	}

	var parsed map[string]interface{}
	if err := json.Unmarshal(providerResp, &parsed); err != nil {
		log.Printf("[payment][usecase] provider response unmarshal failed sale_id=%s err=%v", saleID, err)
	}

	p := entities.SalePayment{
		ID:           providerPaymentID,
		SaleID:       sale.ID(),
		SaleNumber:   sale.SaleNumber(),
		Amount:       sale.TotalAmount(),
		Date:         time.Now().UTC(),
		Status:       paymentStatusFromProvider(providerStatus),
		MPPayloadRaw: providerResp,
		MPPayload:    parsed,
	}

	created, err := u.repo.Create(ctx, p)
	if err != nil {
		log.Printf("[payment][usecase] payment repository create failed sale_id=%s payment_id=%s err=%v", saleID, p.ID, err)
		return entities.SalePayment{}, err
	}
	log.Printf("[payment][usecase] pay success sale_id=%s payment_id=%s status=%s", saleID, created.ID, created.Status)
	return created, nil
}

func (u *SalePaymentUseCase) ListBySaleID(ctx context.Context, saleID string) ([]entities.SalePayment, error) {
	saleID = strings.TrimSpace(saleID)
	if saleID == "" {
		return nil, ErrInvalidSaleID
	}
	return u.repo.ListBySaleID(ctx, saleID)
}

func paymentStatusFromProvider(status string) entities.PaymentStatus {
	switch strings.ToLower(strings.TrimSpace(status)) {
	case "approved", "authorized":
		return entities.PaymentStatusApproved
	case "rejected", "cancelled", "refunded", "charged_back":
		return entities.PaymentStatusDenied
	default:
		return entities.PaymentStatusPending
	}
}

func hasNonEmptyString(m map[string]any, key string) bool {
	s, ok := m[key].(string)
	return ok && strings.TrimSpace(s) != ""
}

func hasPayerID(payer map[string]any) bool {
	v, ok := payer["id"]
	if !ok || v == nil {
		return false
	}
	s := strings.TrimSpace(fmt.Sprintf("%v", v))
	return s != "" && s != "<nil>"
}

// ensurePayerDefaults fills payer.type and, when the payer carries neither id
// nor email, a sandbox email taken from MERCADOPAGO_TEST_PAYER_EMAIL or the
// Mercado Pago test user for TEST- access tokens.
func ensurePayerDefaults(m map[string]any) {
	v, ok := m["payer"]
	if !ok || v == nil {
		v = map[string]any{}
		m["payer"] = v
	}
	payer, ok := v.(map[string]any)
	if !ok {
		return
	}

	if _, ok := payer["type"]; !ok {
		payer["type"] = "customer"
	}
	if hasPayerID(payer) || hasNonEmptyString(payer, "email") {
		return
	}
	if email := strings.TrimSpace(os.Getenv("MERCADOPAGO_TEST_PAYER_EMAIL")); email != "" {
		payer["email"] = email
	} else if strings.HasPrefix(strings.TrimSpace(os.Getenv("MERCADOPAGO_ACCESS_TOKEN")), "TEST-") {
		payer["email"] = "test_user_br@testuser.com"
	}
}

// normalizeSandboxPayerFromUserID swaps a configured sandbox payer user id
// for its email; Mercado Pago rejects test user ids as payer.id.
func normalizeSandboxPayerFromUserID(m map[string]any) {
	payer, ok := m["payer"].(map[string]any)
	if !ok || !hasPayerID(payer) || hasNonEmptyString(payer, "email") {
		return
	}
	if !strings.HasPrefix(strings.TrimSpace(os.Getenv("MERCADOPAGO_ACCESS_TOKEN")), "TEST-") {
		return
	}

	userID := strings.TrimSpace(os.Getenv("MERCADOPAGO_TEST_PAYER_USER_ID"))
	email := strings.TrimSpace(os.Getenv("MERCADOPAGO_TEST_PAYER_EMAIL"))
	if userID == "" || email == "" {
		return
	}
	if strings.TrimSpace(fmt.Sprintf("%v", payer["id"])) != userID {
		return
	}

	payer["email"] = email
	delete(payer, "id")
	log.Printf("[payment][usecase] mapped sandbox payer user_id to payer.email")
}

func isGatewayBadRequest(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "\"error\":\"bad_request\"") || strings.Contains(msg, "\"status\":400")
}

func isGatewayUnauthorized(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "\"error\":\"unauthorized\"") || strings.Contains(msg, "\"status\":401")
}

func isGatewayInvalidUsers(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "invalid users involved") || strings.Contains(msg, "\"code\":2034")
}

func isGatewayCustomerNotFound(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "customer not found") || strings.Contains(msg, "\"code\":2002")
}
