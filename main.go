package main

import (
	"log"

	"api/config"
	"api/database"
	"api/middleware"
	"api/realtime"
	v1 "api/routes/v1"
	"api/services"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// @title GreenLoop Verification API
// @version 1.0
// @description Challenge verification and reward workflow API
// @BasePath /api/v1
// @securityDefinitions.apikey Bearer
// @in header
// @name Authorization
func main() {
	config.Load()

	database.InitDB()
	database.InitRedis()

	// Start periodic system metrics collection
	middleware.UpdateSystemMetrics()

	hub := realtime.NewHub()
	defer hub.Close()

	attemptService := services.NewAttemptService(hub)
	judgeWorker := services.NewJudgeWorker(services.NewJudgeService(), attemptService, config.DefaultJudgeRetryConfig)
	judgeWorker.Start()
	defer judgeWorker.Stop()

	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{config.ClientUrl},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		AllowCredentials: true,
	}))

	v1.Register(r, attemptService, hub)
	v1.RegisterSwaggerRoutes(r)

	log.Println("Starting server on :" + config.Port)
	if err := r.Run(":" + config.Port); err != nil {
		log.Fatalf("Failed to run server: %v", err)
	}
}
