// routes/routes.go
package routes

import (
	"go-liquorstore/controllers"

	"github.com/gorilla/mux"
)

// RegisterRoutes sets up all the routes for the application
func RegisterRoutes(router *mux.Router, productController *controllers.ProductController, cartController *controllers.CartController, consumptionController *controllers.ConsumptionController) {
	api := router.PathPrefix("/api").Subrouter()

	// Product routes
	api.HandleFunc("/products", productController.GetProducts).Methods("GET")
	api.HandleFunc("/products", productController.CreateProduct).Methods("POST")
	api.HandleFunc("/products/{id}", productController.GetProductByID).Methods("GET")
	api.HandleFunc("/products/{id}", productController.UpdateProduct).Methods("PUT", "PATCH")
	api.HandleFunc("/products/{id}", productController.DeleteProduct).Methods("DELETE")

	// Cart routes
	api.HandleFunc("/cart", cartController.GetCart).Methods("GET")
	api.HandleFunc("/cart/add", cartController.AddToCart).Methods("POST")
	api.HandleFunc("/cart/update/{productId}", cartController.UpdateCartItem).Methods("PUT")
	api.HandleFunc("/cart/remove/{productId}", cartController.RemoveFromCart).Methods("DELETE")

	// Alcohol consumption routes
	api.HandleFunc("/alcohol-consumption", consumptionController.GetAll).Methods("GET")
	api.HandleFunc("/alcohol-consumption", consumptionController.Create).Methods("POST")
	api.HandleFunc("/alcohol-consumption/country/{country}", consumptionController.GetByCountry).Methods("GET")
	api.HandleFunc("/alcohol-consumption/{id}", consumptionController.Update).Methods("PATCH")
	api.HandleFunc("/alcohol-consumption/{id}", consumptionController.Delete).Methods("DELETE")
}
