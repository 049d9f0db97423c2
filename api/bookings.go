package api

import (
	"net/http"
	"time"

	"github.com/Domenick1991/cargobooking/internal/domain"
	"github.com/Domenick1991/cargobooking/internal/service/booking"
	"github.com/gin-gonic/gin"
)

type BookingHandler struct {
	service booking.BookingUseCase
}

type createBookingRequest struct {
	RefID       string   `json:"ref_id" binding:"required"`
	Origin      string   `json:"origin" binding:"required"`
	Destination string   `json:"destination" binding:"required"`
	Pieces      int      `json:"pieces" binding:"gt=0"`
	WeightKg    int      `json:"weight_kg" binding:"gt=0"`
	FlightIDs   []string `json:"flight_ids"`
}

type bookingEventResponse struct {
	ID        string            `json:"id"`
	Status    string            `json:"status"`
	Location  string            `json:"location,omitempty"`
	FlightID  string            `json:"flight_id,omitempty"`
	Timestamp string            `json:"timestamp"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}

type bookingResponse struct {
	RefID       string                 `json:"ref_id"`
	Origin      string                 `json:"origin"`
	Destination string                 `json:"destination"`
	Pieces      int                    `json:"pieces"`
	WeightKg    int                    `json:"weight_kg"`
	Status      string                 `json:"status"`
	FlightIDs   []string               `json:"flight_ids"`
	CreatedAt   string                 `json:"created_at"`
	UpdatedAt   string                 `json:"updated_at"`
	Events      []bookingEventResponse `json:"events,omitempty"`
}

func NewBookingHandler(service booking.BookingUseCase) *BookingHandler {
	return &BookingHandler{service: service}
}

// Register mounts the booking endpoints. Only creation needs an
// authenticated user; status transitions are driven by ground handling.
func (h *BookingHandler) Register(router *gin.RouterGroup, auth gin.HandlerFunc) {
	router.POST("/", auth, h.create)
	router.GET("/:ref_id", h.get)
	router.POST("/:ref_id/depart", h.depart)
	router.POST("/:ref_id/arrive", h.arrive)
	router.POST("/:ref_id/deliver", h.deliver)
	router.POST("/:ref_id/cancel", h.cancel)
}

func (h *BookingHandler) create(c *gin.Context) {
	var req createBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	created, err := h.service.CreateBooking(c.Request.Context(), booking.CreateBookingInput{
		RefID:       req.RefID,
		UserID:      c.GetString(ContextUserID),
		Origin:      req.Origin,
		Destination: req.Destination,
		Pieces:      req.Pieces,
		WeightKg:    req.WeightKg,
		FlightIDs:   req.FlightIDs,
	})
	if err != nil {
		c.JSON(statusForError(err), errorBody(err))
		return
	}

	c.JSON(http.StatusCreated, toBookingResponse(created))
}

func (h *BookingHandler) get(c *gin.Context) {
	found, err := h.service.GetBooking(c.Request.Context(), c.Param("ref_id"))
	if err != nil {
		c.JSON(statusForError(err), errorBody(err))
		return
	}
	c.JSON(http.StatusOK, toBookingResponse(found))
}

func (h *BookingHandler) depart(c *gin.Context) {
	updated, err := h.service.DepartBooking(c.Request.Context(), c.Param("ref_id"), c.Query("location"), c.Query("flight_id"))
	if err != nil {
		c.JSON(statusForError(err), errorBody(err))
		return
	}
	c.JSON(http.StatusOK, toBookingResponse(updated))
}

func (h *BookingHandler) arrive(c *gin.Context) {
	updated, err := h.service.ArriveBooking(c.Request.Context(), c.Param("ref_id"), c.Query("location"))
	if err != nil {
		c.JSON(statusForError(err), errorBody(err))
		return
	}
	c.JSON(http.StatusOK, toBookingResponse(updated))
}

func (h *BookingHandler) deliver(c *gin.Context) {
	updated, err := h.service.DeliverBooking(c.Request.Context(), c.Param("ref_id"), c.Query("location"))
	if err != nil {
		c.JSON(statusForError(err), errorBody(err))
		return
	}
	c.JSON(http.StatusOK, toBookingResponse(updated))
}

func (h *BookingHandler) cancel(c *gin.Context) {
	updated, err := h.service.CancelBooking(c.Request.Context(), c.Param("ref_id"))
	if err != nil {
		c.JSON(statusForError(err), errorBody(err))
		return
	}
	c.JSON(http.StatusOK, toBookingResponse(updated))
}

func toBookingResponse(b *domain.Booking) bookingResponse {
	resp := bookingResponse{
		RefID:       b.RefID,
		Origin:      b.Origin,
		Destination: b.Destination,
		Pieces:      b.Pieces,
		WeightKg:    b.WeightKg,
		Status:      string(b.Status),
		FlightIDs:   b.FlightIDs,
		CreatedAt:   b.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   b.UpdatedAt.Format(time.RFC3339),
	}
	for _, e := range b.Events {
		resp.Events = append(resp.Events, bookingEventResponse{
			ID:        e.ID,
			Status:    string(e.Status),
			Location:  e.Location,
			FlightID:  e.FlightID,
			Timestamp: e.Timestamp.Format(time.RFC3339),
			Metadata:  e.Metadata,
		})
	}
	return resp
}
