package routes

import (
	"sales_capture/internal/adapter/http/handlers"

	"github.com/gin-gonic/gin"
)

const (
	PathSales = "/sales"
)

func addSaleRoutes(rg *gin.RouterGroup, saleHandler *handlers.SaleHandler, paymentHandler *handlers.SalePaymentHandler) {
	sales := rg.Group(PathSales)
	{
		sales.POST("", saleHandler.CreateSale)
		sales.GET("/:sale_id", saleHandler.GetSale)
		sales.POST("/:sale_id/items", saleHandler.AddItem)
		sales.PATCH("/:sale_id/items/:item_id", saleHandler.UpdateItemQuantity)
		sales.DELETE("/:sale_id/items/:item_id", saleHandler.RemoveItem)
		sales.POST("/:sale_id/finalize", saleHandler.FinalizeSale)
		sales.POST("/:sale_id/void", saleHandler.VoidSale)

		sales.POST("/:sale_id/payments", paymentHandler.PaySale)
		sales.GET("/:sale_id/payments", paymentHandler.ListSalePayments)
	}
}
