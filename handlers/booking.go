package handlers

import (
	"net/http"
	"time"

	"neoncut/middleware"
	"neoncut/models"
	"neoncut/services/booking"
	"neoncut/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// TokenLifetime is the validity of tokens issued by IssueToken.
const TokenLifetime = 24 * time.Hour

// BookingHandler exposes the cart, checkout and history of the caller's session.
type BookingHandler struct {
	Engine *booking.Engine
	Logger *zap.Logger
}

func NewBookingHandler(engine *booking.Engine, logger *zap.Logger) *BookingHandler {
	return &BookingHandler{Engine: engine, Logger: logger}
}

func (h *BookingHandler) session(c *gin.Context) (*booking.Session, bool) {
	s, err := h.Engine.Session(c.Request.Context(), middleware.Owner(c))
	if err != nil {
		respondError(c, err)
		return nil, false
	}
	return s, true
}

func cartResponse(cart []models.Booking) gin.H {
	return gin.H{"cart": cart, "count": len(cart)}
}

// GetCart handles GET /api/booking/cart.
func (h *BookingHandler) GetCart(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, cartResponse(s.Cart()))
}

// AddToCart handles POST /api/booking/cart.
func (h *BookingHandler) AddToCart(c *gin.Context) {
	var req models.BookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	s, ok := h.session(c)
	if !ok {
		return
	}

	b, err := s.CreateBooking(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"booking": b, "count": len(s.Cart())})
}

// RemoveFromCart handles DELETE /api/booking/cart/:bookingID.
func (h *BookingHandler) RemoveFromCart(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	if err := s.RemoveBookingFromCart(c.Request.Context(), c.Param("bookingID")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cartResponse(s.Cart()))
}

// ClearCart handles DELETE /api/booking/cart.
func (h *BookingHandler) ClearCart(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	if err := s.ClearCart(c.Request.Context()); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cartResponse(s.Cart()))
}

// GetSummary handles GET /api/booking/summary. An empty cart has no summary.
func (h *BookingHandler) GetSummary(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	summary := s.GetBookingSummary()
	if summary == nil {
		c.Status(http.StatusNoContent)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// Checkout handles POST /api/booking/checkout.
func (h *BookingHandler) Checkout(c *gin.Context) {
	var data models.PaymentData
	if err := c.ShouldBindJSON(&data); err != nil {
		bindError(c, err)
		return
	}
	s, ok := h.session(c)
	if !ok {
		return
	}

	result, err := s.ProcessPayment(c.Request.Context(), data)
	if err != nil {
		respondError(c, err)
		return
	}
	getLogger(c).Info("checkout completed",
		zap.String("owner", s.Owner()),
		zap.String("receipt", result.Payment.ID))
	c.JSON(http.StatusOK, result)
}

// GetHistory handles GET /api/booking/history.
func (h *BookingHandler) GetHistory(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	history := s.History()
	c.JSON(http.StatusOK, gin.H{"history": history, "count": len(history)})
}

// DestroySession handles DELETE /api/session. Pending bookings are dropped.
func (h *BookingHandler) DestroySession(c *gin.Context) {
	h.Engine.DestroySession(middleware.Owner(c))
	c.Status(http.StatusNoContent)
}

// IssueToken handles POST /api/session/token. The token's subject is the
// current owner, so the cart follows the client across devices.
func (h *BookingHandler) IssueToken(c *gin.Context) {
	owner := middleware.Owner(c)
	token, err := utils.GenerateToken(owner, TokenLifetime)
	if err != nil {
		getLogger(c).Warn("token issuance unavailable", zap.Error(err))
		utils.JSONError(c, http.StatusServiceUnavailable, "Token issuance is not configured", "")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"token":     token,
		"sessionId": owner,
		"expiresIn": int(TokenLifetime.Seconds()),
	})
}
