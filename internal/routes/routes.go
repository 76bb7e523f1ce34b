package routes

import (
	"os"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"libris_back_end/internal/handlers/order"
	"libris_back_end/internal/handlers/product"
	"libris_back_end/internal/handlers/user"
	"libris_back_end/internal/middleware"
)

func RegisterRoutes(r *gin.Engine) {
	allowedOrigins := []string{"http://localhost:3000"}
	if env := os.Getenv("CORS_ORIGINS"); env != "" {
		allowedOrigins = strings.Split(env, ",")
	}
	r.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	api := r.Group("/api")

	// Catalogue
	products := api.Group("/products")
	{
		products.GET("", product.GetAllProducts)
		products.GET("/search", product.SearchProducts)
		products.GET("/slug/:slug", product.GetProductBySlug)
		products.GET("/:id", product.GetProductByID)
		products.GET("/:id/reviews", product.GetProductReviews)

		products.POST("/:id/reviews", middleware.AuthRequired(), product.CreateReview)
		products.DELETE("/:id/reviews/:reviewId", middleware.AuthRequired(), product.DeleteReview)

		admin := products.Group("", middleware.AuthRequired(), middleware.RequireAdmin)
		{
			admin.POST("", product.CreateProduct)
			admin.PUT("/:id", product.UpdateProduct)
			admin.DELETE("/:id", product.DeleteProduct)
			admin.POST("/:id/image", product.UploadProductImage)
		}
	}

	// Comptes
	users := api.Group("/users")
	{
		users.POST("/signin", middleware.LoginRateLimit(), user.Signin)
		users.POST("/signup", user.Signup)
		users.PUT("/profile", middleware.AuthRequired(), user.UpdateProfile)

		admin := users.Group("", middleware.AuthRequired(), middleware.RequireAdmin)
		{
			admin.GET("", user.ListUsers)
			admin.POST("/admin", user.CreateUserAdmin)
			admin.GET("/:id", user.GetUserByID)
			admin.PUT("/:id", user.UpdateUser)
			admin.DELETE("/:id", user.DeleteUser)
		}
	}

	// Panier serveur
	carts := api.Group("/cart", middleware.AuthRequired())
	{
		carts.GET("", user.GetCart)
		carts.POST("/events", user.DispatchCartEvent)
		carts.DELETE("", user.ClearCart)
	}

	// Commandes
	orders := api.Group("/orders", middleware.AuthRequired())
	{
		orders.POST("", order.CreateOrder)
		orders.GET("/mine", order.GetMyOrders)
		orders.GET("/:id", order.GetOrderByID)
		orders.PUT("/:id/pay", order.PayOrder)

		admin := orders.Group("", middleware.RequireAdmin)
		{
			admin.GET("/admin/all", order.GetAllOrders)
			admin.PUT("/:id/deliver", order.DeliverOrder)
			admin.PUT("/:id/fakepay", order.FakePayOrder)
		}
	}
}
