package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"teamjob-backend/internal/schedule"
)

const dateParamLayout = "2006-01-02"

// parseDateParam parses an optional yyyy-MM-dd query parameter. A missing
// parameter yields the zero time, which the view builder defaults to today.
func parseDateParam(c *gin.Context, name string) (time.Time, bool) {
	raw := c.Query(name)
	if raw == "" {
		return time.Time{}, true
	}
	date, err := time.Parse(dateParamLayout, raw)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid date. Use yyyy-MM-dd."})
		return time.Time{}, false
	}
	return date, true
}

func filtersFromQuery(c *gin.Context) schedule.Filters {
	return schedule.ParseFilters(
		c.Query("userIds"),
		c.Query("roomIds"),
		c.Query("userTags"),
		c.Query("roomTags"),
		c.Query("eventTags"),
	)
}

// GetWeekCalendar handles GET /api/calendar/week.
func (h *Handler) GetWeekCalendar(c *gin.Context) {
	date, ok := parseDateParam(c, "date")
	if !ok {
		return
	}

	view, err := h.views.WeekView(c.Request.Context(), date, filtersFromQuery(c))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to build week view"})
		return
	}
	c.JSON(http.StatusOK, view)
}

// GetDayCalendar handles GET /api/calendar/day. A date is required.
func (h *Handler) GetDayCalendar(c *gin.Context) {
	if c.Query("date") == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "date is required"})
		return
	}
	date, ok := parseDateParam(c, "date")
	if !ok {
		return
	}

	view, err := h.views.DayView(c.Request.Context(), date, filtersFromQuery(c))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to build day view"})
		return
	}
	c.JSON(http.StatusOK, view)
}

// GetFindAvailable handles GET /api/calendar/available.
func (h *Handler) GetFindAvailable(c *gin.Context) {
	date, ok := parseDateParam(c, "date")
	if !ok {
		return
	}

	duration := 0
	if raw := c.Query("durationMinutes"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid durationMinutes"})
			return
		}
		duration = parsed
	}

	for _, name := range []string{"startTime", "endTime"} {
		if raw := c.Query(name); raw != "" {
			if _, err := time.Parse("15:04", raw); err != nil {
				c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid " + name + ". Use HH:MM."})
				return
			}
		}
	}

	view, err := h.views.FindAvailable(
		c.Request.Context(),
		c.Query("searchType"),
		c.Query("tags"),
		date,
		c.Query("startTime"),
		c.Query("endTime"),
		duration,
	)
	if err != nil {
		if errors.Is(err, schedule.ErrInvalidKind) {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to search availability"})
		return
	}
	c.JSON(http.StatusOK, view)
}
