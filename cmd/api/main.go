package main

import (
	_ "sales_capture/docs"
	"sales_capture/internal/adapter/http/routes"

	_ "github.com/joho/godotenv/autoload"
)

// @title           Sales Capture API
// @version         1.0
// @description     Point-of-sale cart capture: sales, items with quantity discounts, per-branch sale numbers and payment of finalized sales.
// @termsOfService  http://swagger.io/terms/

// @contact.name   API Support
// @contact.url    http://www.swagger.io/support
// @contact.email  support@swagger.io

// @license.name  Apache 2.0
// @license.url   http://www.apache.org/licenses/LICENSE-2.0.html

// @host localhost:8080

// @BasePath  /v1

func main() {
	routes.Run()
}
