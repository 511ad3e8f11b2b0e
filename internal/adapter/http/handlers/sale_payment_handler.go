package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	response "sales_capture/internal/adapter/http/dto/response"
	"sales_capture/internal/usecase"
	"sales_capture/pkg"
	"strings"

	"github.com/gin-gonic/gin"
)

// SalePaymentHandler charges finalized sales through the payment gateway.

type SalePaymentHandler struct {
	usecase usecase.ISalePaymentUseCase
}

func NewSalePaymentHandler(uc usecase.ISalePaymentUseCase) *SalePaymentHandler {
	return &SalePaymentHandler{usecase: uc}
}

// PaySale charges the frozen total of a finalized sale.
//
// The body is a Mercado Pago payment request, either bare or wrapped in
// {"mp_payload": {...}}. transaction_amount is always replaced by the sale total.
//
// @Summary  Pay a finalized sale
// @Tags     payments
// @Accept   json
// @Produce  json
// @Param    sale_id  path      string                            true   "Sale ID"
// @Param    body     body      request.SalePaymentCreateRequest  false  "Mercado Pago payload"
// @Success  201      {object}  response.SalePaymentResponse
// @Failure  400      {object}  pkg.HTTPError
// @Failure  404      {object}  pkg.HTTPError
// @Failure  409      {object}  pkg.HTTPError
// @Router   /sales/{sale_id}/payments [post]
func (h *SalePaymentHandler) PaySale(c *gin.Context) {
	saleID := c.Param("sale_id")
	log.Printf("[sale-payment][handler] pay start sale_id=%s", saleID)

	mpPayload, err := readMPPayload(c)
	if err != nil {
		log.Printf("[sale-payment][handler] invalid payload sale_id=%s err=%v", saleID, err)
		appErr := pkg.NewDomainErrorSimple("INVALID_REQUEST", "Invalid request", http.StatusBadRequest)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}

	created, err := h.usecase.PayFinalizedSale(c.Request.Context(), saleID, mpPayload)
	if err != nil {
		log.Printf("[sale-payment][handler] pay failed sale_id=%s err=%v", saleID, err)
		appErr := mapSalePaymentError(err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}
	log.Printf("[sale-payment][handler] pay success sale_id=%s payment_id=%s status=%s", saleID, created.ID, created.Status)

	c.JSON(http.StatusCreated, response.FromSalePayment(created))
}

// ListSalePayments returns every payment recorded for a sale, oldest first.
//
// @Summary  List payments of a sale
// @Tags     payments
// @Produce  json
// @Param    sale_id  path      string  true  "Sale ID"
// @Success  200      {array}   response.SalePaymentResponse
// @Failure  400      {object}  pkg.HTTPError
// @Router   /sales/{sale_id}/payments [get]
func (h *SalePaymentHandler) ListSalePayments(c *gin.Context) {
	saleID := c.Param("sale_id")

	payments, err := h.usecase.ListBySaleID(c.Request.Context(), saleID)
	if err != nil {
		log.Printf("[sale-payment][handler] list failed sale_id=%s err=%v", saleID, err)
		appErr := mapSalePaymentError(err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}
	c.JSON(http.StatusOK, response.FromSalePayments(payments))
}

func readMPPayload(c *gin.Context) (json.RawMessage, error) {
	raw, err := c.GetRawData()
	if err != nil {
		return nil, err
	}
	if len(strings.TrimSpace(string(raw))) == 0 {
		return json.RawMessage("{}"), nil
	}
	if !json.Valid(raw) {
		return nil, errors.New("request body is not valid json")
	}

	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(raw, &envelope); err == nil {
		if wrapped, ok := envelope["mp_payload"]; ok {
			if len(strings.TrimSpace(string(wrapped))) == 0 || strings.TrimSpace(string(wrapped)) == "null" {
				return nil, errors.New("mp_payload cannot be empty")
			}
			return wrapped, nil
		}
	}

	return json.RawMessage(raw), nil
}

func mapSalePaymentError(err error) *pkg.AppError {
	switch {
	case errors.Is(err, usecase.ErrInvalidSaleID), errors.Is(err, usecase.ErrInvalidMPPayload), errors.Is(err, usecase.ErrPaymentGatewayBadRequest):
		return pkg.NewDomainErrorSimple("INVALID_REQUEST", "Invalid request", http.StatusBadRequest)
	case errors.Is(err, usecase.ErrPaymentGatewayCustomerNotFound):
		return pkg.NewDomainErrorSimple("PAYMENT_PROVIDER_CUSTOMER_NOT_FOUND", "Payer not found for this Mercado Pago test context", http.StatusBadRequest)
	case errors.Is(err, usecase.ErrPaymentGatewayInvalidUsers):
		return pkg.NewDomainErrorSimple("PAYMENT_PROVIDER_INVALID_USERS", "Invalid users involved between seller token and payer test user", http.StatusBadRequest)
	case errors.Is(err, usecase.ErrPaymentGatewayUnauthorized):
		return pkg.NewDomainErrorSimple("PAYMENT_PROVIDER_UNAUTHORIZED", "Payment provider unauthorized", http.StatusUnauthorized)
	case errors.Is(err, usecase.ErrPaymentGatewayNotConfigured):
		return pkg.NewDomainErrorSimple("PAYMENT_GATEWAY_NOT_CONFIGURED", "Payment gateway not configured", http.StatusServiceUnavailable)
	case errors.Is(err, usecase.ErrSaleNotFound):
		return pkg.NewDomainErrorSimple("SALE_NOT_FOUND", "Sale not found", http.StatusNotFound)
	case errors.Is(err, usecase.ErrSaleNotFinalized):
		return pkg.NewDomainErrorSimple("SALE_NOT_FINALIZED", "Only finalized sales can be paid", http.StatusConflict)
	default:
		return pkg.NewDomainError("INTERNAL_ERROR", "An internal error occurred", err, http.StatusInternalServerError)
	}
}
