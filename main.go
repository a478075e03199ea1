// main.go
package main

import (
	"context"
	"log"
	"net/http"
	"os"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/joho/godotenv"

	"go-liquorstore/controllers"
	"go-liquorstore/middleware"
	"go-liquorstore/routes"
	"go-liquorstore/services"
	"go-liquorstore/store"
	"go-liquorstore/utils"
)

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found. Proceeding with environment variables.")
	}

	logger, err := utils.NewLogger(os.Getenv("APP_ENV"))
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	// Connect to MongoDB
	mongoURI := os.Getenv("MONGO_URI")
	if mongoURI == "" {
		mongoURI = "mongodb://localhost:27017"
	}
	client, err := utils.ConnectDB(mongoURI)
	if err != nil {
		logger.Fatalw("MongoDB connection error", "error", err)
	}
	defer func() {
		if err := client.Disconnect(context.Background()); err != nil {
			logger.Errorw("MongoDB disconnect error", "error", err)
		}
	}()
	logger.Info("MongoDB connected successfully")

	dbName := os.Getenv("MONGO_DB")
	if dbName == "" {
		dbName = "licoreria"
	}
	db := client.Database(dbName)

	// Initialize the cart engine and controllers
	cartService := services.NewCartService(store.NewCarts(db), store.NewProducts(db), logger)

	productController := controllers.NewProductController(db, logger)
	cartController := controllers.NewCartController(cartService, logger)
	consumptionController := controllers.NewConsumptionController(db, logger)

	// Set up the router
	router := mux.NewRouter()
	router.Use(middleware.RequestLogger(logger))
	routes.RegisterRoutes(router, productController, cartController, consumptionController)

	cors := handlers.CORS(
		handlers.AllowedOrigins([]string{"*"}),
		handlers.AllowedMethods([]string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}),
		handlers.AllowedHeaders([]string{"Content-Type"}),
	)

	// Start the server
	port := os.Getenv("PORT")
	if port == "" {
		port = "5000"
	}
	logger.Infof("Server running on port %s", port)
	if err := http.ListenAndServe(":"+port, cors(router)); err != nil {
		logger.Fatalw("server error", "error", err)
	}
}
