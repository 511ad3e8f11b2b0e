package routes

import (
	"context"
	"fmt"
	"log"
	_ "sales_capture/docs" // swag generated
	"sales_capture/internal/adapter/http/handlers"
	"sales_capture/internal/adapter/persistence/memory"
	"sales_capture/internal/adapter/persistence/postgres"
	"sales_capture/internal/adapter/persistence/repository"
	"sales_capture/internal/infrastructure/database"
	"sales_capture/internal/infrastructure/metrics"
	"sales_capture/internal/infrastructure/payments"
	"sales_capture/internal/usecase"
	"sales_capture/internal/usecase/interfaces"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

const defaultPort = "8080"

// Storage groups the persistence ports of one storage driver.
type Storage struct {
	Sales     interfaces.ISaleRepository
	Sequencer interfaces.ISaleSequencer
	Payments  interfaces.ISalePaymentRepository
	close     func()
}

func (s Storage) Close() {
	if s.close != nil {
		s.close()
	}
}

// Run will start the server
func Run() {
	ctx := context.Background()

	storage, err := NewStorageFromEnv(ctx)
	if err != nil {
		log.Fatalf("Failed to initialize storage: %v", err)
	}
	defer storage.Close()

	var paymentGateway interfaces.IPaymentGateway
	mpGateway, err := payments.NewMercadoPagoGatewayFromEnv()
	if err != nil {
		log.Printf("[sale-payment][routes] Mercado Pago gateway not configured: %v", err)
	} else {
		paymentGateway = mpGateway
	}

	router := NewRouter(storage, paymentGateway)

	port := database.GetenvDefault("PORT", defaultPort)
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Failed to startup the application: %v", err.Error())
	}
}

// NewStorageFromEnv builds the repositories selected by STORAGE_DRIVER.
func NewStorageFromEnv(ctx context.Context) (Storage, error) {
	driver, err := database.StorageDriverFromEnv()
	if err != nil {
		return Storage{}, err
	}
	log.Printf("[storage][routes] driver=%s", driver)

	switch driver {
	case database.DriverDynamoDB:
		ddb, err := database.ConnectDynamoDB(ctx)
		if err != nil {
			return Storage{}, err
		}
		return Storage{
			Sales:     repository.NewSaleDynamoRepository(ddb),
			Sequencer: repository.NewSaleSequenceDynamoRepository(ddb),
			Payments:  repository.NewSalePaymentDynamoRepository(ddb),
		}, nil
	case database.DriverPostgres:
		pool, err := database.ConnectPostgres(ctx)
		if err != nil {
			return Storage{}, err
		}
		if err := postgres.EnsureSchema(ctx, pool); err != nil {
			pool.Close()
			return Storage{}, fmt.Errorf("postgres schema: %w", err)
		}
		return Storage{
			Sales:     postgres.NewSaleRepository(pool),
			Sequencer: postgres.NewSaleSequencer(pool),
			Payments:  postgres.NewSalePaymentRepository(pool),
			close:     pool.Close,
		}, nil
	default:
		return NewMemoryStorage(), nil
	}
}

func NewMemoryStorage() Storage {
	return Storage{
		Sales:     memory.NewSaleMemoryRepository(),
		Sequencer: memory.NewSaleMemorySequencer(),
		Payments:  memory.NewSalePaymentMemoryRepository(),
	}
}

// NewRouter wires use cases and handlers on top of storage. gateway may be nil;
// payment requests then fail with PAYMENT_GATEWAY_NOT_CONFIGURED.
func NewRouter(storage Storage, gateway interfaces.IPaymentGateway) *gin.Engine {
	router := gin.New()
	setMiddlewares(router)

	saleUseCase := usecase.NewSaleUseCase(storage.Sales, storage.Sequencer)
	paymentUseCase := usecase.NewSalePaymentUseCase(storage.Payments, storage.Sales, gateway)

	saleHandler := handlers.NewSaleHandler(saleUseCase)
	salePaymentHandler := handlers.NewSalePaymentHandler(paymentUseCase)

	// Swagger documentation endpoint
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	v1 := router.Group("/v1")
	addPingRoutes(v1)
	addSaleRoutes(v1, saleHandler, salePaymentHandler)
	return router
}

func setMiddlewares(router *gin.Engine) {
	metrics.Register()
	router.Use(gin.Logger())
	router.Use(metrics.GinMiddleware())
	router.Use(gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		log.Printf("Recovered from panic: %v", recovered)
		c.AbortWithStatus(500)
	}))
}
