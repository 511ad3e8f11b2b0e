package handlers

import (
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	request "sales_capture/internal/adapter/http/dto/request"
	response "sales_capture/internal/adapter/http/dto/response"
	"sales_capture/internal/domain/entities"
	"sales_capture/internal/usecase"
	"sales_capture/pkg"

	"github.com/gin-gonic/gin"
)

var (
	errInvalidSalePayload = pkg.NewDomainErrorSimple("INVALID_SALE_INPUT", "Invalid sale payload", http.StatusBadRequest)
)

// SaleHandler exposes the cart operations of a sale.

type SaleHandler struct {
	usecase usecase.ISaleUseCase
}

func NewSaleHandler(uc usecase.ISaleUseCase) *SaleHandler {
	return &SaleHandler{usecase: uc}
}

// CreateSale opens a new sale and issues its sale number.
//
// @Summary  Open a sale
// @Tags     sales
// @Accept   json
// @Produce  json
// @Param    body  body      request.CreateSaleRequest  true  "Sale header"
// @Success  201   {object}  response.SaleResponse
// @Failure  400   {object}  pkg.HTTPError
// @Failure  409   {object}  pkg.HTTPError
// @Failure  503   {object}  pkg.HTTPError
// @Router   /sales [post]
func (h *SaleHandler) CreateSale(c *gin.Context) {
	var payload request.CreateSaleRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(errInvalidSalePayload.HTTPStatus, errInvalidSalePayload.ToHTTPError())
		return
	}

	sale, err := h.usecase.CreateSale(c.Request.Context(), payload.CustomerID, payload.BranchID, payload.BranchCode)
	if err != nil {
		h.fail(c, "create", err)
		return
	}
	c.JSON(http.StatusCreated, response.FromSale(sale))
}

// GetSale returns the sale with its derived totals.
//
// @Summary  Get a sale
// @Tags     sales
// @Produce  json
// @Param    sale_id  path      string  true  "Sale ID"
// @Success  200      {object}  response.SaleResponse
// @Failure  404      {object}  pkg.HTTPError
// @Router   /sales/{sale_id} [get]
func (h *SaleHandler) GetSale(c *gin.Context) {
	sale, err := h.usecase.GetByID(c.Request.Context(), c.Param("sale_id"))
	if err != nil {
		h.fail(c, "get", err)
		return
	}
	c.JSON(http.StatusOK, response.FromSale(sale))
}

// AddItem appends a line item.
//
// @Summary  Add an item
// @Tags     sales
// @Accept   json
// @Produce  json
// @Param    sale_id  path      string                  true  "Sale ID"
// @Param    body     body      request.AddItemRequest  true  "Item"
// @Success  200      {object}  response.SaleResponse
// @Failure  400      {object}  pkg.HTTPError
// @Failure  409      {object}  pkg.HTTPError
// @Failure  422      {object}  pkg.HTTPError
// @Router   /sales/{sale_id}/items [post]
func (h *SaleHandler) AddItem(c *gin.Context) {
	var payload request.AddItemRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(errInvalidSalePayload.HTTPStatus, errInvalidSalePayload.ToHTTPError())
		return
	}
	productID, quantity, unitPrice, err := payload.Resolve()
	if err != nil {
		appErr := pkg.NewDomainErrorSimple("INVALID_REQUEST", err.Error(), http.StatusBadRequest)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}

	sale, err := h.usecase.AddItem(c.Request.Context(), c.Param("sale_id"), productID, quantity, unitPrice)
	if err != nil {
		h.fail(c, "add-item", err)
		return
	}
	c.JSON(http.StatusOK, response.FromSale(sale))
}

// UpdateItemQuantity sets the quantity of one item.
//
// @Summary  Change an item quantity
// @Tags     sales
// @Accept   json
// @Produce  json
// @Param    sale_id  path      string                             true  "Sale ID"
// @Param    item_id  path      string                             true  "Item ID"
// @Param    body     body      request.UpdateItemQuantityRequest  true  "Quantity"
// @Success  200      {object}  response.SaleResponse
// @Failure  400      {object}  pkg.HTTPError
// @Failure  404      {object}  pkg.HTTPError
// @Failure  422      {object}  pkg.HTTPError
// @Router   /sales/{sale_id}/items/{item_id} [patch]
func (h *SaleHandler) UpdateItemQuantity(c *gin.Context) {
	var payload request.UpdateItemQuantityRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(errInvalidSalePayload.HTTPStatus, errInvalidSalePayload.ToHTTPError())
		return
	}
	quantity, err := payload.Resolve()
	if err != nil {
		appErr := pkg.NewDomainErrorSimple("INVALID_REQUEST", err.Error(), http.StatusBadRequest)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}

	sale, err := h.usecase.UpdateItemQuantity(c.Request.Context(), c.Param("sale_id"), c.Param("item_id"), quantity)
	if err != nil {
		h.fail(c, "update-item-quantity", err)
		return
	}
	c.JSON(http.StatusOK, response.FromSale(sale))
}

// RemoveItem deletes one item.
//
// @Summary  Remove an item
// @Tags     sales
// @Produce  json
// @Param    sale_id  path      string  true  "Sale ID"
// @Param    item_id  path      string  true  "Item ID"
// @Success  200      {object}  response.SaleResponse
// @Failure  404      {object}  pkg.HTTPError
// @Failure  409      {object}  pkg.HTTPError
// @Router   /sales/{sale_id}/items/{item_id} [delete]
func (h *SaleHandler) RemoveItem(c *gin.Context) {
	sale, err := h.usecase.RemoveItem(c.Request.Context(), c.Param("sale_id"), c.Param("item_id"))
	if err != nil {
		h.fail(c, "remove-item", err)
		return
	}
	c.JSON(http.StatusOK, response.FromSale(sale))
}

// FinalizeSale freezes the sale.
//
// @Summary  Finalize a sale
// @Tags     sales
// @Produce  json
// @Param    sale_id  path      string  true  "Sale ID"
// @Success  200      {object}  response.SaleResponse
// @Failure  409      {object}  pkg.HTTPError
// @Router   /sales/{sale_id}/finalize [post]
func (h *SaleHandler) FinalizeSale(c *gin.Context) {
	sale, err := h.usecase.Finalize(c.Request.Context(), c.Param("sale_id"))
	if err != nil {
		h.fail(c, "finalize", err)
		return
	}
	c.JSON(http.StatusOK, response.FromSale(sale))
}

// VoidSale voids an open sale. The body is optional.
//
// @Summary  Void a sale
// @Tags     sales
// @Accept   json
// @Produce  json
// @Param    sale_id  path      string                   true   "Sale ID"
// @Param    body     body      request.VoidSaleRequest  false  "Reason"
// @Success  200      {object}  response.SaleResponse
// @Failure  409      {object}  pkg.HTTPError
// @Router   /sales/{sale_id}/void [post]
func (h *SaleHandler) VoidSale(c *gin.Context) {
	var payload request.VoidSaleRequest
	if err := c.ShouldBindJSON(&payload); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(errInvalidSalePayload.HTTPStatus, errInvalidSalePayload.ToHTTPError())
		return
	}

	sale, err := h.usecase.Void(c.Request.Context(), c.Param("sale_id"), payload.Reason)
	if err != nil {
		h.fail(c, "void", err)
		return
	}
	c.JSON(http.StatusOK, response.FromSale(sale))
}

func (h *SaleHandler) fail(c *gin.Context, op string, err error) {
	appErr := mapSaleError(err)
	if appErr.HTTPStatus >= http.StatusInternalServerError {
		log.Printf("[sale][handler] %s failed sale_id=%s err=%v", op, c.Param("sale_id"), err)
	}
	c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
}

func mapSaleError(err error) *pkg.AppError {
	var validationErr *entities.ValidationError
	var limitErr *entities.QuantityLimitError

	switch {
	case errors.Is(err, usecase.ErrInvalidSaleID), errors.Is(err, usecase.ErrInvalidItemID),
		errors.Is(err, usecase.ErrInvalidCustomerID), errors.Is(err, usecase.ErrInvalidBranchID),
		errors.Is(err, usecase.ErrInvalidBranchCode):
		return pkg.NewDomainErrorSimple("INVALID_REQUEST", "Invalid request", http.StatusBadRequest)
	case errors.As(err, &validationErr):
		return pkg.NewDomainErrorSimple("INVALID_REQUEST", validationErr.Error(), http.StatusBadRequest)
	case errors.Is(err, usecase.ErrSaleNotFound):
		return pkg.NewDomainErrorSimple("SALE_NOT_FOUND", "Sale not found", http.StatusNotFound)
	case errors.Is(err, entities.ErrSaleItemNotFound):
		return pkg.NewDomainErrorSimple("SALE_ITEM_NOT_FOUND", "Sale item not found", http.StatusNotFound)
	case errors.As(err, &limitErr):
		msg := fmt.Sprintf("Product %s is limited to %d units per sale (current %d, attempted %d)",
			limitErr.ProductID, limitErr.Max, limitErr.Current, limitErr.Attempted)
		return pkg.NewDomainErrorSimple("QUANTITY_LIMIT_EXCEEDED", msg, http.StatusUnprocessableEntity)
	case errors.Is(err, entities.ErrSaleAlreadyVoided):
		return pkg.NewDomainErrorSimple("SALE_ALREADY_VOIDED", "Sale is already voided", http.StatusConflict)
	case errors.Is(err, entities.ErrSaleHasNoItems):
		return pkg.NewDomainErrorSimple("SALE_HAS_NO_ITEMS", "Sale has no items", http.StatusConflict)
	case errors.Is(err, entities.ErrStateConflict):
		return pkg.NewDomainErrorSimple("SALE_NOT_OPEN", "Sale is not open", http.StatusConflict)
	case errors.Is(err, entities.ErrSaleNumberConflict):
		return pkg.NewDomainErrorSimple("SALE_NUMBER_CONFLICT", "Sale number is already in use, check the branch code", http.StatusConflict)
	case errors.Is(err, entities.ErrConcurrentModification):
		return pkg.NewDomainErrorSimple("SALE_VERSION_CONFLICT", "Sale was changed by another request, reload and retry", http.StatusConflict)
	case errors.Is(err, entities.ErrSaleNumberOutcomeUnknown):
		return pkg.NewDomainError("SALE_NUMBER_OUTCOME_UNKNOWN", "Sale number issuance could not be confirmed", err, http.StatusServiceUnavailable)
	default:
		return pkg.NewDomainError("INTERNAL_ERROR", "An internal error occurred", err, http.StatusInternalServerError)
	}
}
