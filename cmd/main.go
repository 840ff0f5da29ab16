package main

import (
	"fmt"
	"net/http"
	"time"

	"github.com/franciscosanchezn/pizzeria-sales-api/internal/auth"
	"github.com/franciscosanchezn/pizzeria-sales-api/internal/config"
	"github.com/franciscosanchezn/pizzeria-sales-api/internal/controllers"
	"github.com/franciscosanchezn/pizzeria-sales-api/internal/database"
	"github.com/franciscosanchezn/pizzeria-sales-api/internal/middleware"
	"github.com/franciscosanchezn/pizzeria-sales-api/internal/models"
	"github.com/franciscosanchezn/pizzeria-sales-api/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"github.com/swaggo/files"
	"github.com/swaggo/gin-swagger"
	"gorm.io/gorm"
)

var (
	db                 *gorm.DB
	configuration      *config.Config
	pizzeriaController controllers.PizzeriaController
	productController  controllers.ProductController
	saleController     controllers.SaleController
	stageController    controllers.StageController
	reportController   controllers.ReportController
	userController     controllers.UserController
	authController     *controllers.AuthController
	roleService        services.RoleService
)

// @title Pizzeria Sales API
// @version 1.0
// @description Multi-tenant sales tracking for pizzeria chains
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	// Load environment variables
	loadDotenvFile()

	// Initialize logger
	setUpLogger()

	// Load configuration
	configuration = loadConfig()

	// Set JWT secret from configuration
	middleware.SetJWTSecret(configuration.JWTSecret)

	// Initialize database connection
	setupDatabase(configuration)

	// Initialize services and controllers
	setupControllers()

	// Initialize Gin router
	var router *gin.Engine = setupRouter()

	// Start the server
	log.Infof("Starting server on %s:%d", configuration.Host, configuration.Port)
	router.Run(fmt.Sprintf("%v:%d", configuration.Host, configuration.Port))
}

// checkPanicErr checks if an error occurred and panics if it did
func checkPanicErr(err error) {
	if err != nil {
		panic(err)
	}
}

// loadDotenvFile loads environment variables from a .env file
// If the file is not found, it will log a warning and use system environment variables
func loadDotenvFile() {
	if err := godotenv.Load(); err != nil {
		log.Warn("No .env file found, using system environment variables")
	}
}

// setUpLogger initializes the logger with a JSON formatter and sets the log level based on the environment
func setUpLogger() {
	log.SetFormatter(&log.JSONFormatter{})
	environment := config.GetEnvWithDefault("APP_ENV", "development")
	switch environment {
	case "development":
		log.SetLevel(log.DebugLevel)
	case "production":
		log.SetLevel(log.ErrorLevel)
	default:
		log.SetLevel(log.InfoLevel)
	}
}

// loadConfig loads the application configuration from environment variables
// It returns a Config struct or panics if there is an error
func loadConfig() *config.Config {
	log.Info("Loading configuration from environment variables")
	conf, err := config.LoadConfig()
	checkPanicErr(err)
	log.Infof("Configuration loaded: %+v", conf)
	return conf
}

// setupDatabase initializes the database connection and migrates the schema
func setupDatabase(conf *config.Config) *gorm.DB {
	var err error
	db, err = database.InitDatabase(database.FromAppConfig(conf))
	checkPanicErr(err)
	checkPanicErr(database.Migrate(db))
	return db
}

// deliveryChannels resolves the configured delivery-capable channel set
func deliveryChannels(conf *config.Config) []models.Channel {
	channels := make([]models.Channel, 0, len(conf.DeliveryChannels))
	for _, raw := range conf.DeliveryChannels {
		channel := models.Channel(raw)
		if !channel.Valid() {
			log.Warnf("Ignoring unknown delivery channel in configuration: %s", raw)
			continue
		}
		channels = append(channels, channel)
	}
	return channels
}

// setupControllers wires services and controllers over the database
func setupControllers() {
	userService := services.NewUserService(db)
	roleService = services.NewRoleService(db)
	pizzeriaService := services.NewPizzeriaService(db)
	productService := services.NewProductService(db)
	saleService := services.NewSaleService(db)
	stageService := services.NewStageService(db, deliveryChannels(configuration))
	reportService := services.NewReportService(db)

	issuer := auth.NewTokenIssuer(
		[]byte(configuration.JWTSecret),
		time.Duration(configuration.TokenTTLHours)*time.Hour,
		db,
	)

	authController = controllers.NewAuthController(userService, issuer)
	userController = controllers.NewUserController(userService, roleService)
	pizzeriaController = controllers.NewPizzeriaController(pizzeriaService)
	productController = controllers.NewProductController(productService)
	saleController = controllers.NewSaleController(saleService)
	stageController = controllers.NewStageController(stageService)
	reportController = controllers.NewReportController(reportService)
}

// setupRouter initializes the Gin router and sets up the routes
// It returns the configured router
func setupRouter() *gin.Engine {
	router := gin.Default()
	router.Use(middleware.RequestID())

	setupRoutes(router)

	return router
}

// setupRoutes defines the routes for the Gin router
func setupRoutes(router *gin.Engine) {
	// Health check endpoint
	router.GET("/health", healthCheckHandler)

	api := router.Group("/api")
	{
		// Token issuance (public)
		authApi := api.Group("/auth")
		{
			authApi.POST("/register", authController.Register)
			authApi.POST("/login", authController.Login)
			authApi.POST("/refresh", authController.Refresh)
		}

		// Everything else requires a valid bearer token
		protected := api.Group("")
		protected.Use(middleware.JWTAuth())
		{
			protected.GET("/user/", userController.CurrentUser)

			protected.GET("/pizzerias/", pizzeriaController.ListPizzerias)
			protected.POST("/pizzerias/", pizzeriaController.CreatePizzeria)

			// Pizzeria-scoped routes: plain employees are read-only here
			scoped := protected.Group("/pizzerias/:pizzeria_id")
			scoped.Use(middleware.EmployeeReadOnly(roleService))
			{
				scoped.GET("/", pizzeriaController.GetPizzeria)
				scoped.PUT("/", pizzeriaController.UpdatePizzeria)
				scoped.DELETE("/", pizzeriaController.DeletePizzeria)

				scoped.GET("/productos/", productController.ListProducts)
				scoped.POST("/productos/", productController.CreateProduct)
				scoped.GET("/productos/:id", productController.GetProduct)
				scoped.PUT("/productos/:id", productController.UpdateProduct)
				scoped.DELETE("/productos/:id", productController.DeleteProduct)

				scoped.GET("/ventas/", saleController.ListSales)
				scoped.POST("/ventas/", saleController.CreateSale)
				scoped.GET("/ventas/:venta_id", saleController.GetSale)
				scoped.PUT("/ventas/:venta_id", saleController.UpdateSale)
				scoped.PATCH("/ventas/:venta_id", saleController.UpdateSale)
				scoped.DELETE("/ventas/:venta_id", saleController.DeleteSale)

				scoped.POST("/empleados/", userController.CreateEmployee)
				scoped.POST("/roles/", userController.AssignRole)
				scoped.DELETE("/roles/:user_id", userController.RemoveRole)
			}

			// Stage tracking and reports
			protected.POST("/ventas/etapas/", stageController.RecordStage)
			protected.GET("/ventas/:venta_id/etapas/", stageController.ListStages)
			protected.GET("/ventas/:venta_id/etapas/tiempos/", stageController.Durations)
			protected.GET("/ventas/:venta_id/estado/", stageController.CurrentState)
			protected.GET("/ventas/resumen/", reportController.Summary)
			protected.GET("/ventas-por-dia/", reportController.Timeseries)
		}
	}

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}

// healthCheckHandler handles the health check endpoint
// @Summary Health check
// @Description Check if the service is running
// @Tags health
// @Accept json
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func healthCheckHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"service":   "pizzeria-sales-api",
	})
}
