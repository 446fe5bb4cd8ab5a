package internal

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"teamjob-backend/config"
	"teamjob-backend/internal/api"
	"teamjob-backend/internal/auth"
	"teamjob-backend/internal/db"
	"teamjob-backend/internal/model"
	"teamjob-backend/internal/store"
)

// TestBookingLifecycle walks the full flow: register, log in, create a room
// and an event through the authenticated API, then read them back through
// the calendar and availability endpoints.
func TestBookingLifecycle(t *testing.T) {
	gin.SetMode(gin.TestMode)

	// 1. Setup an in-memory SQLite database for testing.
	testDB, err := gorm.Open(sqlite.Open("file:booking_lifecycle?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, _ := testDB.DB()
	defer sqlDB.Close()

	require.NoError(t, db.Migrate(testDB))

	// 2. Create a test configuration with generous rate limits.
	cfg := &config.Config{}
	cfg.Server.RateLimitPerSec = 1000
	cfg.Server.RateLimitBurst = 1000
	cfg.Server.CacheTTLSeconds = 1

	// 3. Instantiate the store, token issuer and router.
	gormStore := store.NewGormStore(testDB)
	tokens := auth.NewTokenIssuer("integration-test-secret", time.Hour)
	router := api.NewRouter(cfg, gormStore, tokens, &webpush.Options{})

	do := func(method, path, token string, body any) *httptest.ResponseRecorder {
		var buf bytes.Buffer
		if body != nil {
			require.NoError(t, json.NewEncoder(&buf).Encode(body))
		}
		req, _ := http.NewRequest(method, path, &buf)
		req.Header.Set("Content-Type", "application/json")
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	// --- Step 1: Register and log in ---
	var token string
	t.Run("register and login", func(t *testing.T) {
		w := do("POST", "/api/auth/register", "", map[string]any{
			"username": "ada",
			"email":    "ada@example.com",
			"password": "correct horse",
		})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		w = do("POST", "/api/auth/login", "", map[string]any{
			"username": "ada",
			"password": "correct horse",
		})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var resp struct {
			Token string `json:"token"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.NotEmpty(t, resp.Token)
		token = resp.Token
	})

	t.Run("login with wrong password is rejected", func(t *testing.T) {
		w := do("POST", "/api/auth/login", "", map[string]any{
			"username": "ada",
			"password": "incorrect horse",
		})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	// --- Step 2: Create a room ---
	var roomID int64
	t.Run("create room", func(t *testing.T) {
		// Writes require a token.
		w := do("POST", "/api/rooms", "", map[string]any{"name": "Conference A"})
		require.Equal(t, http.StatusUnauthorized, w.Code)

		w = do("POST", "/api/rooms", token, map[string]any{
			"name": "Conference A",
			"tags": "projector,large",
		})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		var room struct {
			ID int64 `json:"id"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &room))
		require.NotZero(t, room.ID)
		roomID = room.ID
	})

	// --- Step 3: Book the room on Friday 2025-05-16, 09:00 to 10:00 ---
	t.Run("create event", func(t *testing.T) {
		w := do("POST", "/api/events", token, map[string]any{
			"title":     "Design review",
			"startTime": "2025-05-16T09:00:00Z",
			"endTime":   "2025-05-16T10:00:00Z",
			"roomId":    roomID,
		})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	})

	t.Run("event for unknown room is rejected", func(t *testing.T) {
		w := do("POST", "/api/events", token, map[string]any{
			"title":     "Ghost meeting",
			"startTime": "2025-05-16T09:00:00Z",
			"endTime":   "2025-05-16T10:00:00Z",
			"roomId":    roomID + 999,
		})
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	// --- Step 4: The event shows up on the week calendar ---
	t.Run("week calendar", func(t *testing.T) {
		w := do("GET", "/api/calendar/week?date=2025-05-16", "", nil)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var view struct {
			Days []struct {
				Name       string `json:"name"`
				EventCount int    `json:"eventCount"`
			} `json:"weekDays"`
			Tags struct {
				RoomTags []string `json:"roomTags"`
			} `json:"tags"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))
		require.Len(t, view.Days, 7)

		assert.Equal(t, "Friday", view.Days[4].Name)
		assert.Equal(t, 1, view.Days[4].EventCount)
		assert.Equal(t, 0, view.Days[3].EventCount)
		assert.Equal(t, []string{"large", "projector"}, view.Tags.RoomTags)
	})

	// --- Step 5: The day calendar groups the event under its room ---
	t.Run("day calendar", func(t *testing.T) {
		w := do("GET", "/api/calendar/day?date=2025-05-16", "", nil)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var view struct {
			RoomDays []struct {
				Room struct {
					Name string `json:"name"`
				} `json:"room"`
				Events []struct {
					StartHour float64 `json:"startHour"`
					EndHour   float64 `json:"endHour"`
				} `json:"events"`
			} `json:"roomDays"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))
		require.Len(t, view.RoomDays, 1)
		assert.Equal(t, "Conference A", view.RoomDays[0].Room.Name)
		require.Len(t, view.RoomDays[0].Events, 1)
		assert.Equal(t, 9.0, view.RoomDays[0].Events[0].StartHour)
		assert.Equal(t, 10.0, view.RoomDays[0].Events[0].EndHour)
	})

	// --- Step 6: Availability search respects the booking ---
	t.Run("find available", func(t *testing.T) {
		// The booking covers the whole queried window, so nothing is free.
		w := do("GET", "/api/calendar/available?searchType=rooms&date=2025-05-16&startTime=09:00&endTime=10:00&durationMinutes=30", "", nil)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var view struct {
			Results []struct {
				Kind string `json:"type"`
				Name string `json:"name"`
			} `json:"results"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))
		assert.Empty(t, view.Results)

		// The afternoon is free.
		w = do("GET", fmt.Sprintf("/api/calendar/available?searchType=rooms&date=2025-05-16&startTime=%s&endTime=17:00&durationMinutes=30", "10:00"), "", nil)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))
		require.Len(t, view.Results, 1)
		assert.Equal(t, "room", view.Results[0].Kind)
		assert.Equal(t, "Conference A", view.Results[0].Name)
	})
}

// TestRecurringEventOnCalendar verifies that a weekly series shows up on
// later weeks and honors its exception dates end to end.
func TestRecurringEventOnCalendar(t *testing.T) {
	gin.SetMode(gin.TestMode)

	testDB, err := gorm.Open(sqlite.Open("file:recurring_calendar?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, _ := testDB.DB()
	defer sqlDB.Close()

	require.NoError(t, db.Migrate(testDB))

	cfg := &config.Config{}
	cfg.Server.RateLimitPerSec = 1000
	cfg.Server.RateLimitBurst = 1000
	cfg.Server.CacheTTLSeconds = 1

	gormStore := store.NewGormStore(testDB)
	tokens := auth.NewTokenIssuer("integration-test-secret", time.Hour)
	router := api.NewRouter(cfg, gormStore, tokens, &webpush.Options{})

	// Seed directly through the store: a standup every Friday starting
	// 2025-05-16, skipped on the 30th.
	event := &model.Event{
		Title:          "Standup",
		StartTime:      time.Date(2025, time.May, 16, 9, 0, 0, 0, time.UTC),
		EndTime:        time.Date(2025, time.May, 16, 9, 30, 0, 0, time.UTC),
		IsRecurring:    true,
		RecurrenceRule: "FREQ=WEEKLY;BYDAY=FR",
		ExceptionDates: "20250530",
	}
	require.NoError(t, gormStore.CreateEvent(context.Background(), event))

	getDay := func(date string) int {
		req, _ := http.NewRequest("GET", "/api/calendar/day?date="+date, nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var view struct {
			Events []struct {
				Title string `json:"title"`
			} `json:"events"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))
		return len(view.Events)
	}

	assert.Equal(t, 1, getDay("2025-05-16"), "series anchor")
	assert.Equal(t, 1, getDay("2025-05-23"), "one week on")
	assert.Equal(t, 0, getDay("2025-05-30"), "exception date")
	assert.Equal(t, 1, getDay("2025-06-06"), "after the exception")
	assert.Equal(t, 0, getDay("2025-06-05"), "a Thursday")
}
