package handlers

import (
	"net/http"
	"time"

	"neoncut/models"
	"neoncut/services/booking"
	"neoncut/utils"

	"github.com/gin-gonic/gin"
)

// SalonHandler serves salon data and generated slots.
type SalonHandler struct {
	Engine *booking.Engine
}

func NewSalonHandler(engine *booking.Engine) *SalonHandler {
	return &SalonHandler{Engine: engine}
}

// ListSalons handles GET /api/salons.
func (h *SalonHandler) ListSalons(c *gin.Context) {
	salons, err := h.Engine.ListSalons(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"salons": salons, "count": len(salons)})
}

// GetSalon handles GET /api/salons/:id.
func (h *SalonHandler) GetSalon(c *gin.Context) {
	salon, err := h.Engine.GetSalon(c.Request.Context(), models.ID(c.Param("id")))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, salon)
}

// GetSlots handles GET /api/salons/:id/slots. Without ?date every indexed
// day is returned.
func (h *SalonHandler) GetSlots(c *gin.Context) {
	id := models.ID(c.Param("id"))
	if _, err := h.Engine.GetSalon(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}

	date := c.Query("date")
	if date == "" {
		c.JSON(http.StatusOK, gin.H{"salonId": id, "days": h.Engine.SalonSlots(id)})
		return
	}
	if _, err := time.Parse("2006-01-02", date); err != nil {
		utils.JSONErrorKind(c, http.StatusBadRequest, string(booking.KindValidation), "invalid date", "expected YYYY-MM-DD")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"salonId": id,
		"date":    date,
		"slots":   h.Engine.GetAvailableSlotsForSalon(id, date),
	})
}
