package handlers

import (
	"errors"
	"net/http"
	"strings"

	"neoncut/services/booking"
	"neoncut/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// statusFor maps booking error kinds to HTTP status codes.
func statusFor(err error) int {
	switch booking.KindOf(err) {
	case booking.KindValidation:
		return http.StatusBadRequest
	case booking.KindNotFound:
		return http.StatusNotFound
	case booking.KindAvailability:
		return http.StatusConflict
	case booking.KindPayment:
		return http.StatusPaymentRequired
	}
	if errors.Is(err, booking.ErrNotInitialized) {
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

// respondError writes err as an ErrorResponse. Unclassified errors are
// logged and hidden behind a generic message.
func respondError(c *gin.Context, err error) {
	status := statusFor(err)

	var be *booking.Error
	if errors.As(err, &be) {
		utils.JSONErrorKind(c, status, string(be.Kind), be.Message, strings.Join(be.Fields, ", "))
		return
	}
	if status == http.StatusServiceUnavailable {
		utils.JSONError(c, status, "Booking service is starting, try again shortly", "")
		return
	}

	getLogger(c).Error("unhandled booking error", zap.Error(err))
	utils.JSONError(c, status, "Internal Server Error", "")
}

func bindError(c *gin.Context, err error) {
	utils.JSONErrorKind(c, http.StatusBadRequest, string(booking.KindValidation), "invalid request body", err.Error())
}
