package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"teamjob-backend/internal/model"
)

type eventRequest struct {
	Title             string     `json:"title" binding:"required"`
	Description       string     `json:"description"`
	StartTime         time.Time  `json:"startTime" binding:"required"`
	EndTime           time.Time  `json:"endTime" binding:"required"`
	RoomID            *int64     `json:"roomId"`
	UserID            *int64     `json:"userId"`
	Tags              string     `json:"tags"`
	IsRecurring       bool       `json:"isRecurring"`
	RecurrenceRule    string     `json:"recurrenceRule"`
	RecurrenceEndDate *time.Time `json:"recurrenceEndDate"`
	ExceptionDates    string     `json:"exceptionDates"`
	AdditionalDates   string     `json:"additionalDates"`
}

// apply validates the request against the store and fills the event. It
// writes the error response itself and reports whether it succeeded.
func (h *Handler) applyEventRequest(c *gin.Context, req *eventRequest, event *model.Event) bool {
	if !req.StartTime.Before(req.EndTime) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "startTime must be before endTime"})
		return false
	}

	ctx := c.Request.Context()
	if req.RoomID != nil {
		if _, err := h.store.RoomByID(ctx, *req.RoomID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "room not found"})
			} else {
				c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			}
			return false
		}
	}
	if req.UserID != nil {
		if _, err := h.store.UserByID(ctx, *req.UserID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			} else {
				c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			}
			return false
		}
	}

	event.Title = req.Title
	event.Description = req.Description
	event.StartTime = req.StartTime
	event.EndTime = req.EndTime
	event.RoomID = req.RoomID
	event.UserID = req.UserID
	event.Tags = model.SplitTags(req.Tags)
	event.IsRecurring = req.IsRecurring
	event.RecurrenceRule = req.RecurrenceRule
	event.RecurrenceEndDate = req.RecurrenceEndDate
	event.ExceptionDates = req.ExceptionDates
	event.AdditionalDates = req.AdditionalDates
	return true
}

// GetEvents handles GET /api/events.
func (h *Handler) GetEvents(c *gin.Context) {
	events, err := h.store.EventsAll(c.Request.Context())
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve events"})
		return
	}
	c.JSON(http.StatusOK, events)
}

// PostEvent handles POST /api/events.
func (h *Handler) PostEvent(c *gin.Context) {
	var req eventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var event model.Event
	if !h.applyEventRequest(c, &req, &event) {
		return
	}
	if err := h.store.CreateEvent(c.Request.Context(), &event); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, event)
}

// PutEvent handles PUT /api/events/:id.
func (h *Handler) PutEvent(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	var req eventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	event, err := h.store.EventByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "event not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if !h.applyEventRequest(c, &req, event) {
		return
	}
	if err := h.store.UpdateEvent(c.Request.Context(), event); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, event)
}

// DeleteEvent handles DELETE /api/events/:id.
func (h *Handler) DeleteEvent(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := h.store.DeleteEvent(c.Request.Context(), id); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}
