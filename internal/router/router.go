// internal/router/router.go
package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"

	"github.com/sweetcake/sweetcake-backend/internal/config"
	"github.com/sweetcake/sweetcake-backend/internal/database"
	"github.com/sweetcake/sweetcake-backend/internal/docstore"
	"github.com/sweetcake/sweetcake-backend/internal/handlers"
	"github.com/sweetcake/sweetcake-backend/internal/middleware"
	"github.com/sweetcake/sweetcake-backend/internal/services"
)

func Initialize(db *gorm.DB, mongoDB *mongo.Database, cfg *config.Config) *gin.Engine {
	// Initialize services
	refChecker := services.NewRefChecker(db)

	clientService := services.NewClientService(db)
	productService := services.NewProductService(db)
	orderService := services.NewOrderService(db)
	recipeService := services.NewRecipeService(
		docstore.NewMongoCollection(mongoDB.Collection(database.RecipeCollection)), refChecker)
	reviewService := services.NewReviewService(
		docstore.NewMongoCollection(mongoDB.Collection(database.ReviewCollection)), refChecker)

	// Initialize handlers
	clientHandler := handlers.NewClientHandler(clientService)
	productHandler := handlers.NewProductHandler(productService)
	orderHandler := handlers.NewOrderHandler(orderService)
	recipeHandler := handlers.NewRecipeHandler(recipeService)
	reviewHandler := handlers.NewReviewHandler(reviewService)

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.CORS(cfg.Server.CORSOrigins))
	r.Use(middleware.GeneralRateLimit())

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"version": "1.0.0",
		})
	})

	clients := r.Group("/clients")
	{
		clients.GET("", clientHandler.GetClients)
		clients.GET("/:id", clientHandler.GetClient)
		clients.POST("", middleware.WriteRateLimit(), clientHandler.CreateClient)
		clients.PUT("/:id", middleware.WriteRateLimit(), clientHandler.UpdateClient)
		clients.DELETE("/:id", middleware.WriteRateLimit(), clientHandler.DeleteClient)
	}

	products := r.Group("/produits")
	{
		products.GET("", productHandler.GetProducts)
		products.GET("/:id", productHandler.GetProduct)
		products.POST("", middleware.WriteRateLimit(), productHandler.CreateProduct)
		products.PUT("/:id", middleware.WriteRateLimit(), productHandler.UpdateProduct)
		products.DELETE("/:id", middleware.WriteRateLimit(), productHandler.DeleteProduct)
	}

	orders := r.Group("/commandes")
	{
		orders.GET("", orderHandler.GetOrders)
		orders.GET("/:id", orderHandler.GetOrder)
		orders.POST("", middleware.WriteRateLimit(), orderHandler.CreateOrder)
		orders.PUT("/:id", middleware.WriteRateLimit(), orderHandler.UpdateOrder)
		orders.DELETE("/:id", middleware.WriteRateLimit(), orderHandler.DeleteOrder)
	}

	// Orders joined with their lines and product names
	r.GET("/commandes-produits", orderHandler.GetOrdersWithItems)
	r.GET("/lignes/:id", orderHandler.GetOrderLine)

	recipes := r.Group("/recettes")
	{
		recipes.GET("", recipeHandler.GetRecipes)
		recipes.GET("/:id", recipeHandler.GetRecipe)
		recipes.POST("", middleware.WriteRateLimit(), recipeHandler.CreateRecipe)
		recipes.PUT("/:id", middleware.WriteRateLimit(), recipeHandler.UpdateRecipe)
		recipes.DELETE("/:id", middleware.WriteRateLimit(), recipeHandler.DeleteRecipe)
	}

	reviews := r.Group("/avis")
	{
		reviews.GET("", reviewHandler.GetReviews)
		reviews.GET("/:id", reviewHandler.GetReview)
		reviews.POST("", middleware.WriteRateLimit(), reviewHandler.CreateReview)
		reviews.PUT("/:id", middleware.WriteRateLimit(), reviewHandler.UpdateReview)
		reviews.DELETE("/:id", middleware.WriteRateLimit(), reviewHandler.DeleteReview)
	}

	return r
}
