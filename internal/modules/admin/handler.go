package admin

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"bookwithbea/internal/modules/ledger"
	"bookwithbea/internal/pkg/response"
	"bookwithbea/internal/pkg/validator"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts login on public and everything else on admin,
// which must already require an admin token.
func (h *Handler) RegisterRoutes(public, admin *gin.RouterGroup) {
	public.POST("/login", h.Login)

	// blocked dates
	admin.GET("/blocked-dates", h.ListBlockedDates)
	admin.POST("/blocked-dates", h.BlockDate)
	admin.DELETE("/blocked-dates/:date", h.UnblockDate)

	// slot maintenance
	admin.POST("/slots/generate", h.GenerateSlots)
	admin.POST("/slots/release", h.ReleaseSlot)
	admin.POST("/slots/resync", h.ResyncSlots)
}

func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Password is required")
		return
	}

	out, err := h.service.Login(c.Request.Context(), req.Password)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidCredentials):
			response.Error(c, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid password")
		case errors.Is(err, ErrLoginDisabled):
			response.Error(c, http.StatusServiceUnavailable, "LOGIN_DISABLED", "Admin login is not configured")
		default:
			handleError(c, err)
		}
		return
	}
	response.Success(c, http.StatusOK, out)
}

func (h *Handler) ListBlockedDates(c *gin.Context) {
	list, err := h.service.ListBlockedDates(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"blocked_dates": list})
}

func (h *Handler) BlockDate(c *gin.Context) {
	var req BlockDateRequest
	if !bind(c, &req, "Date is required") {
		return
	}
	if err := h.service.BlockDate(c.Request.Context(), req); err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"message": "Date blocked", "date": req.Date})
}

func (h *Handler) UnblockDate(c *gin.Context) {
	date := c.Param("date")
	if !validator.Var(date, "isodate") {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request",
			map[string]string{"date": "must be a date in YYYY-MM-DD format"})
		return
	}
	if err := h.service.UnblockDate(c.Request.Context(), date); err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "Date unblocked", "date": date})
}

func (h *Handler) GenerateSlots(c *gin.Context) {
	var req GenerateSlotsRequest
	if !bind(c, &req, "start_date and end_date are required") {
		return
	}
	created, err := h.service.GenerateSlots(c.Request.Context(), req)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"created": created})
}

func (h *Handler) ReleaseSlot(c *gin.Context) {
	var req ReleaseSlotRequest
	if !bind(c, &req, "date and time are required") {
		return
	}
	if err := h.service.ReleaseSlot(c.Request.Context(), req); err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "Slot released"})
}

func (h *Handler) ResyncSlots(c *gin.Context) {
	var req ResyncRequest
	// empty body means "from today"
	if c.Request.ContentLength > 0 {
		if !bind(c, &req, "Invalid request body") {
			return
		}
	}
	report, err := h.service.ResyncSlots(c.Request.Context(), req.From)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, report)
}

// bind decodes the JSON body into req and checks its validate tags. On failure
// it writes the 400 response and returns false.
func bind(c *gin.Context, req any, malformed string) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", malformed)
		return false
	}
	if errs := validator.Validate(req); errs != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request", errs)
		return false
	}
	return true
}

func handleError(c *gin.Context, err error) {
	var verr *ledger.ValidationError
	switch {
	case errors.As(err, &verr):
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request", verr.Fields)
	case errors.Is(err, ledger.ErrNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Not found")
	case errors.Is(err, ledger.ErrDateBlocked):
		response.Error(c, http.StatusConflict, "DATE_BLOCKED", "Date is blocked")
	default:
		zap.L().Error("admin request failed",
			zap.String("path", c.FullPath()),
			zap.String("request_id", c.GetString("request_id")),
			zap.Error(err),
		)
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error")
	}
}
