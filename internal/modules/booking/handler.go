package booking

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"bookwithbea/internal/pkg/response"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts the public booking flow on public and the staff
// views on admin. createMW runs in front of booking submission.
func (h *Handler) RegisterRoutes(public, admin *gin.RouterGroup, createMW ...gin.HandlerFunc) {
	public.GET("/slots/:date", h.GetAvailableSlots)
	public.POST("/bookings", append(createMW, h.CreateBooking)...)
	public.DELETE("/bookings/:id", h.CancelBooking)
	public.GET("/customers/:email", h.GetCustomer)

	admin.GET("/bookings", h.ListBookings)
	admin.GET("/bookings/:id", h.GetBooking)
	admin.PATCH("/bookings/:id/complete", h.CompleteBooking)
}

// GetAvailableSlots handles GET /api/slots/:date
func (h *Handler) GetAvailableSlots(c *gin.Context) {
	date := c.Param("date")
	slots, err := h.service.AvailableSlots(c.Request.Context(), date)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{
		"date":            date,
		"available_slots": slots,
	})
}

// CreateBooking handles POST /api/bookings
func (h *Handler) CreateBooking(c *gin.Context) {
	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	b, err := h.service.CreateBooking(c.Request.Context(), req)
	if err != nil {
		handleError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{
		"booking": toBookingResponse(b),
		"message": "Booking confirmed successfully!",
	})
}

func (h *Handler) CancelBooking(c *gin.Context) {
	if err := h.service.CancelBooking(c.Request.Context(), c.Param("id")); err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "Booking cancelled successfully"})
}

func (h *Handler) GetCustomer(c *gin.Context) {
	stats, err := h.service.CustomerProfile(c.Request.Context(), c.Param("email"))
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, toCustomerProfile(stats))
}

// ListBookings handles GET /api/bookings?date=
func (h *Handler) ListBookings(c *gin.Context) {
	list, err := h.service.ListBookings(c.Request.Context(), c.Query("date"))
	if err != nil {
		handleError(c, err)
		return
	}
	out := make([]BookingResponse, 0, len(list))
	for i := range list {
		out = append(out, toBookingResponse(&list[i]))
	}
	response.Success(c, http.StatusOK, gin.H{
		"bookings": out,
		"total":    len(out),
	})
}

func (h *Handler) GetBooking(c *gin.Context) {
	b, err := h.service.GetBooking(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, toBookingResponse(b))
}

func (h *Handler) CompleteBooking(c *gin.Context) {
	b, err := h.service.CompleteBooking(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, toBookingResponse(b))
}
