package main

import (
	"log"
	"os"

	"yayasan-backend/internal/database"
	"yayasan-backend/internal/handler"
	"yayasan-backend/internal/middleware"
	"yayasan-backend/internal/repository"
	"yayasan-backend/internal/service"
	"yayasan-backend/internal/websocket"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title           Yayasan Administration API
// @version         1.0
// @description     Backend for foundation administration: requests, approvals, finance, inventory.
// @host            localhost:8080
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	if err := godotenv.Load("configs/.env"); err != nil {
		log.Println("No configs/.env file found or error loading it")
	}

	dbHost := os.Getenv("DB_HOST")
	dbPort := os.Getenv("DB_PORT")
	dbUser := os.Getenv("DB_USER")
	dbPassword := os.Getenv("DB_PASSWORD")
	dbName := os.Getenv("DB_NAME")
	dbSslMode := os.Getenv("DB_SSLMODE")

	if dbHost == "" {
		dbHost = "localhost"
	}
	if dbPort == "" {
		dbPort = "5432"
	}
	if dbUser == "" {
		dbUser = "postgres"
	}
	if dbPassword == "" {
		dbPassword = "postgres"
	}
	if dbName == "" {
		dbName = "yayasan"
	}
	if dbSslMode == "" {
		dbSslMode = "disable"
	}

	dsn := "postgres://" + dbUser + ":" + dbPassword + "@" + dbHost + ":" + dbPort + "/" + dbName + "?sslmode=" + dbSslMode

	db, err := database.NewConnection(dsn)
	if err != nil {
		log.Fatalf("Database connection failed: %v", err)
	}
	log.Println("Connected to PostgreSQL successfully.")

	// Set up WebSocket Hub
	wsHub := websocket.NewHub()
	go wsHub.Run()

	// Set up dependencies (Repository -> Service -> Handler)
	txManager := repository.NewTransactionManager(db)
	userRepo := repository.NewUserRepository(db)
	requestRepo := repository.NewRequestRepository(db)
	approvalRepo := repository.NewApprovalRepository(db)
	inventoryRepo := repository.NewInventoryRepository(db)
	transactionRepo := repository.NewTransactionRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	patientRepo := repository.NewPatientRepository(db)
	roomRepo := repository.NewRoomRepository(db)
	auditRepo := repository.NewAuditRepository(db)

	userService := service.NewUserService(userRepo, middleware.GetJWTSecret())
	requestService := service.NewRequestService(requestRepo, approvalRepo, inventoryRepo, categoryRepo, auditRepo, txManager)
	approvalService := service.NewApprovalService(approvalRepo, requestRepo, inventoryRepo, transactionRepo, auditRepo, txManager, wsHub)
	inventoryService := service.NewInventoryService(inventoryRepo, auditRepo, txManager)
	transactionService := service.NewTransactionService(transactionRepo, categoryRepo)
	patientService := service.NewPatientService(patientRepo, auditRepo, txManager)
	roomService := service.NewRoomService(roomRepo, auditRepo)
	auditService := service.NewAuditService(auditRepo)
	dashboardService := service.NewDashboardService(transactionRepo)

	// Initialize Handlers
	userHandler := handler.NewUserHandler(userService)
	requestHandler := handler.NewRequestHandler(requestService)
	approvalHandler := handler.NewApprovalHandler(approvalService)
	inventoryHandler := handler.NewInventoryHandler(inventoryService)
	transactionHandler := handler.NewTransactionHandler(transactionService)
	patientHandler := handler.NewPatientHandler(patientService)
	roomHandler := handler.NewRoomHandler(roomService)
	auditHandler := handler.NewAuditHandler(auditService)
	dashboardHandler := handler.NewDashboardHandler(dashboardService)

	// Set up Gin Router
	router := gin.Default()

	// CORS configuration
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{"http://localhost:3000", "http://127.0.0.1:3000"} // Frontend URL
	corsConfig.AllowCredentials = true
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept"}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	router.Use(cors.New(corsConfig))

	// Swagger route
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "OK"})
	})

	// WebSocket endpoint
	router.GET("/ws", func(c *gin.Context) {
		websocket.ServeWs(wsHub, c, middleware.GetJWTSecret())
	})

	// Register API Routes
	root := router.Group("")
	userHandler.RegisterRoutes(root)
	requestHandler.RegisterRoutes(root)
	approvalHandler.RegisterRoutes(root)
	inventoryHandler.RegisterRoutes(root)
	transactionHandler.RegisterRoutes(root)
	patientHandler.RegisterRoutes(root)
	roomHandler.RegisterRoutes(root)
	auditHandler.RegisterRoutes(root)
	dashboardHandler.RegisterRoutes(root)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("Server listening on :%s", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
