package routes

import (
	"time"

	"neoncut/handlers"
	"neoncut/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.GET("/health", hb.Health)
}

// RegisterSalonRoutes registers the read-only salon catalogue.
func RegisterSalonRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/salons")
	{
		api.GET("", hb.ListSalons)
		api.GET("/:id", hb.GetSalon)
		api.GET("/:id/slots", hb.GetSlots)
	}
}

// RegisterBookingRoutes sets up the cart, checkout and history endpoints.
// Every route runs against the caller's session.
func RegisterBookingRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	bookingGroup := r.Group("/api/booking")
	{
		bookingGroup.Use(middleware.SessionOwner())
		bookingGroup.GET("/cart", hb.GetCart)
		bookingGroup.POST("/cart", hb.AddToCart)
		bookingGroup.DELETE("/cart", hb.ClearCart)
		bookingGroup.DELETE("/cart/:bookingID", hb.RemoveFromCart)
		bookingGroup.GET("/summary", hb.GetSummary)
		bookingGroup.POST("/checkout", hb.Checkout)
		bookingGroup.GET("/history", hb.GetHistory)
		bookingGroup.GET("/events", hb.BookingEvents)
	}
}

// RegisterSessionRoutes sets up session lifecycle endpoints.
func RegisterSessionRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	sessionGroup := r.Group("/api/session")
	{
		sessionGroup.Use(middleware.SessionOwner())
		sessionGroup.DELETE("", hb.DestroySession)
		sessionGroup.POST("/token", hb.IssueToken)
	}
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:    []string{"Origin", "Authorization", "Content-Type", middleware.SessionHeader},
		ExposeHeaders:   []string{"Content-Length", middleware.SessionHeader, "X-Request-ID"},
		MaxAge:          12 * time.Hour,
	}))

	RegisterHealthRoute(r, hb)
	RegisterSalonRoutes(r, hb)
	RegisterBookingRoutes(r, hb)
	RegisterSessionRoutes(r, hb)
}
