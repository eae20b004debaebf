package routes

import (
	"vetcare-backend/config"
	"vetcare-backend/controllers"
	"vetcare-backend/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func SetupRouter() *gin.Engine {
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	r.Use(config.PerformanceLogger())

	auth := r.Group("/auth")
	{
		auth.POST("/register", controllers.Register)
		auth.POST("/login", controllers.Login)

		auth.Use(utils.AuthMiddleware())
		auth.GET("/me", controllers.Me)
	}

	api := r.Group("/api")
	api.Use(utils.AuthMiddleware())
	{
		// Owner routes
		owners := api.Group("/owners")
		{
			owners.POST("", controllers.CreateOwner)
			owners.GET("", controllers.GetOwners)
			owners.GET("/:id", controllers.GetOwner)
			owners.GET("/:id/balance", controllers.GetOwnerBalance)
			owners.PUT("/:id", controllers.UpdateOwner)
			owners.DELETE("/:id", controllers.DeleteOwner)
		}

		// Animal routes
		animals := api.Group("/animals")
		{
			animals.POST("", controllers.CreateAnimal)
			animals.GET("", controllers.GetAnimals)
			animals.GET("/:id", controllers.GetAnimal)
			animals.PUT("/:id", controllers.UpdateAnimal)
		}

		// Appointment routes
		schedules := api.Group("/schedules")
		{
			schedules.POST("", controllers.CreateSchedule)
			schedules.GET("", controllers.GetSchedules)
			schedules.GET("/:id", controllers.GetSchedule)
			schedules.PUT("/:id", controllers.UpdateSchedule)
			schedules.POST("/:id/confirm", controllers.ConfirmSchedule)
			schedules.POST("/:id/complete", controllers.CompleteSchedule)
			schedules.POST("/:id/cancel", controllers.CancelSchedule)
			schedules.POST("/:id/reset", controllers.ResetSchedule)
		}

		// Catalog routes
		services := api.Group("/services")
		{
			services.POST("", controllers.CreateService)
			services.GET("", controllers.GetServices)
			services.GET("/:id", controllers.GetService)
			services.PUT("/:id", controllers.UpdateService)
			services.DELETE("/:id", controllers.DeleteService)
		}

		// Visit routes, including the billing actions
		visits := api.Group("/visits")
		{
			visits.POST("", controllers.CreateVisit)
			visits.GET("", controllers.GetVisits)
			visits.GET("/:id", controllers.GetVisit)
			visits.PUT("/:id", controllers.UpdateVisit)
			visits.POST("/:id/lines", controllers.AddVisitLine)
			visits.POST("/:id/confirm", controllers.ConfirmVisit)
			visits.POST("/:id/cancel", controllers.CancelVisit)
			visits.POST("/:id/invoice", controllers.CreateVisitInvoice)
			visits.POST("/:id/payments", controllers.RegisterVisitPayment)
			visits.GET("/:id/activities", controllers.GetVisitActivities)
		}

		// Invoice routes, read-only ledger view
		invoices := api.Group("/invoices")
		{
			invoices.GET("", controllers.GetInvoices)
			invoices.GET("/:id", controllers.GetInvoice)
		}
	}

	return r
}
