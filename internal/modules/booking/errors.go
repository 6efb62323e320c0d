package booking

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"bookwithbea/internal/modules/ledger"
	"bookwithbea/internal/pkg/response"
)

// handleError maps ledger errors onto the API envelope. Storage details are
// logged, never returned.
func handleError(c *gin.Context, err error) {
	var verr *ledger.ValidationError
	switch {
	case errors.As(err, &verr):
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid booking request", verr.Fields)
	case errors.Is(err, ledger.ErrValidation):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
	case errors.Is(err, ledger.ErrSlotConflict):
		response.Error(c, http.StatusConflict, "SLOT_CONFLICT", "This time slot is no longer available")
	case errors.Is(err, ledger.ErrNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Not found")
	case errors.Is(err, ledger.ErrDateBlocked):
		response.Error(c, http.StatusConflict, "DATE_BLOCKED", "Date is blocked")
	case errors.Is(err, ledger.ErrInvalidStatusTransition):
		response.Error(c, http.StatusConflict, "INVALID_STATUS", err.Error())
	default:
		zap.L().Error("request failed",
			zap.String("path", c.FullPath()),
			zap.String("request_id", c.GetString("request_id")),
			zap.Error(err),
		)
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error")
	}
}
