package main

import (
	"fmt"
	"log"
	"os"

	"vetcare-backend/config"
	"vetcare-backend/controllers"
	"vetcare-backend/models"
	"vetcare-backend/routes"
	"vetcare-backend/services"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func init() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}
	config.ConnectDB()

	config.DB.AutoMigrate(
		&models.User{},
		&models.Contact{},
		&models.Owner{},
		&models.Animal{},
		&models.Doctor{},
		&models.Schedule{},
		&models.ProductCategory{},
		&models.ProductTemplate{},
		&models.Product{},
		&models.Service{},
		&models.Visit{},
		&models.VisitLine{},
		&models.Account{},
		&models.Journal{},
		&models.Invoice{},
		&models.InvoiceLine{},
		&models.Payment{},
		&models.PaymentAllocation{},
		&models.LedgerEntry{},
		&models.LedgerLine{},
		&models.VisitActivity{},
		&models.ReminderTemplate{},
		&models.ReminderLog{},
	)
}

func main() {
	ledger := services.NewLedgerService()
	notifier := services.NewReceiptNotifier(config.DB)
	billing := services.NewBillingService(config.DB, ledger)
	payment := services.NewPaymentService(config.DB, ledger, notifier)
	controllers.InitServices(billing, payment)

	reminders := services.NewReminderService(config.DB, billing)
	reminders.StartScheduler()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	r := routes.SetupRouter()
	printRoutes(r)
	r.Run(":" + port)
}

func printRoutes(r *gin.Engine) {
	routes := r.Routes()
	for _, route := range routes {
		fmt.Printf("%-6s %s\n", route.Method, route.Path)
	}
}
