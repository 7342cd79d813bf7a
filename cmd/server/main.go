package main

import (
	"context"
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rabbitmq/amqp091-go"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"recipe-status-service/internal/config"
	"recipe-status-service/internal/controller"
	"recipe-status-service/internal/middleware"
	"recipe-status-service/internal/rabbit"
	"recipe-status-service/internal/repository"
	"recipe-status-service/internal/service"
)

func main() {
	// .env local opcional; en contenedor las variables vienen del entorno
	_ = godotenv.Load()

	cfg := config.Load()

	// Conexión a MongoDB
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatal(err)
	}
	db := client.Database(cfg.MongoDBName)

	// Repositorio y servicios
	repo := repository.NewMongoRecipeRepository(db)
	recipeService := service.NewRecipeStatusService(repo)
	authService := service.NewAuthService(cfg.AuthURL)

	// Handlers
	ctrl := controller.NewRecipeController(recipeService)

	// Router
	r := gin.Default()

	// Rutas públicas
	r.POST("/status/init", ctrl.InitStatus)

	// Rutas protegidas (requieren token)
	auth := r.Group("/")
	auth.Use(middleware.AuthMiddleware(authService))

	auth.PATCH("/orders/:orderCode/status", ctrl.UpdateStatus)
	auth.GET("/orders/mine", ctrl.GetMyOrders)
	auth.GET("/orders/:orderCode/timeline", ctrl.GetTimeline)
	auth.GET("/orders/:orderCode/delivery-note", ctrl.GetDeliveryNote)

	// Rutas admin
	admin := auth.Group("/admin")
	admin.Use(middleware.AdminOnly())
	admin.GET("/orders", ctrl.GetRows)
	admin.GET("/orders/state/:state", ctrl.GetAllOrdersByState)

	// Conexión a RabbitMQ
	conn, err := amqp091.Dial(cfg.RabbitURL)
	if err != nil {
		log.Fatalf("Error conectando a RabbitMQ: %v", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		log.Fatalf("Error creando canal en RabbitMQ: %v", err)
	}

	rabbit.SetupConsumers(ch, recipeService)

	// Ejecutar servidor
	log.Printf("Recipe Status Service ejecutándose en puerto %s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal(err)
	}
}
