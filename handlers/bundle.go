package handlers

import (
	"neoncut/services/booking"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// HandlerBundle groups the endpoint handlers registered by routes.
type HandlerBundle struct {
	Health gin.HandlerFunc

	// Salon endpoints
	ListSalons gin.HandlerFunc
	GetSalon   gin.HandlerFunc
	GetSlots   gin.HandlerFunc

	// Booking endpoints
	GetCart        gin.HandlerFunc
	AddToCart      gin.HandlerFunc
	RemoveFromCart gin.HandlerFunc
	ClearCart      gin.HandlerFunc
	GetSummary     gin.HandlerFunc
	Checkout       gin.HandlerFunc
	GetHistory     gin.HandlerFunc
	BookingEvents  gin.HandlerFunc

	// Session endpoints
	DestroySession gin.HandlerFunc
	IssueToken     gin.HandlerFunc
}

// NewHandlerBundle wires every handler against one booking engine.
func NewHandlerBundle(engine *booking.Engine, bus *booking.EventBus, logger *zap.Logger) *HandlerBundle {
	bookingHandler := NewBookingHandler(engine, logger)
	salonHandler := NewSalonHandler(engine)
	eventsHandler := NewEventsHandler(bus)

	return &HandlerBundle{
		Health: Health(engine),

		ListSalons: salonHandler.ListSalons,
		GetSalon:   salonHandler.GetSalon,
		GetSlots:   salonHandler.GetSlots,

		GetCart:        bookingHandler.GetCart,
		AddToCart:      bookingHandler.AddToCart,
		RemoveFromCart: bookingHandler.RemoveFromCart,
		ClearCart:      bookingHandler.ClearCart,
		GetSummary:     bookingHandler.GetSummary,
		Checkout:       bookingHandler.Checkout,
		GetHistory:     bookingHandler.GetHistory,
		BookingEvents:  eventsHandler.Stream,

		DestroySession: bookingHandler.DestroySession,
		IssueToken:     bookingHandler.IssueToken,
	}
}
