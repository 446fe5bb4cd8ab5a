package schedule

import (
	"context"
	"errors"
	"fmt"
	"time"

	"teamjob-backend/internal/model"
)

// Search kinds accepted by Engine.Search.
const (
	KindRooms  = "rooms"
	KindUsers  = "users"
	KindEvents = "events"
)

// ErrInvalidKind is returned for a search kind other than rooms, users or
// events.
var ErrInvalidKind = errors.New("invalid search kind")

// BookingSource supplies event snapshots to the engine.
type BookingSource interface {
	EventsOverlapping(ctx context.Context, start, end time.Time) ([]model.Event, error)
	EventsAll(ctx context.Context) ([]model.Event, error)
}

// RoomSource supplies room snapshots to the engine.
type RoomSource interface {
	Rooms(ctx context.Context) ([]model.Room, error)
}

// UserSource supplies user snapshots to the engine.
type UserSource interface {
	Users(ctx context.Context) ([]model.User, error)
}

// RoomAvailability pairs a room with its free ranges inside a query window.
type RoomAvailability struct {
	Room model.Room  `json:"room"`
	Free []TimeRange `json:"unoccupiedTimes"`
}

// UserAvailability pairs a user with its free ranges inside a query window.
type UserAvailability struct {
	User model.User  `json:"user"`
	Free []TimeRange `json:"unoccupiedTimes"`
}

// EventAvailability pairs an event with the window's free ranges around it.
type EventAvailability struct {
	Event model.Event `json:"event"`
	Free  []TimeRange `json:"unoccupiedTimes"`
}

// AvailabilityReport is the result of one free/busy query.
type AvailabilityReport struct {
	Start time.Time `json:"startTime"`
	End   time.Time `json:"endTime"`
	Kind  string    `json:"type"`

	Rooms  []RoomAvailability  `json:"roomAvailabilities,omitempty"`
	Users  []UserAvailability  `json:"userAvailabilities,omitempty"`
	Events []EventAvailability `json:"eventAvailabilities,omitempty"`
}

// SearchResult is a flattened availability hit for one entity.
type SearchResult struct {
	Kind string        `json:"type"`
	ID   int64         `json:"id"`
	Name string        `json:"name"`
	Tags model.TagList `json:"tags"`
	Date time.Time     `json:"date"`
}

// Engine answers free/busy queries from store snapshots. It performs no
// writes and holds no state, so a single instance is safe for concurrent
// use.
type Engine struct {
	events BookingSource
	rooms  RoomSource
	users  UserSource
}

// NewEngine creates an availability search engine over the given sources.
func NewEngine(events BookingSource, rooms RoomSource, users UserSource) *Engine {
	return &Engine{events: events, rooms: rooms, users: users}
}

// Search computes, per entity of the requested kind, the free ranges of at
// least minDurationMinutes inside [start, end]. A non-empty tag set keeps
// only entities (or events) with at least one matching tag.
func (e *Engine) Search(ctx context.Context, kind string, start, end time.Time, minDurationMinutes int, tags map[string]struct{}) (*AvailabilityReport, error) {
	report := &AvailabilityReport{Start: start, End: end, Kind: kind}

	overlapping, err := e.events.EventsOverlapping(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to list overlapping events: %w", err)
	}

	switch kind {
	case KindRooms:
		rooms, err := e.rooms.Rooms(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list rooms: %w", err)
		}
		for _, room := range rooms {
			if len(tags) > 0 && !room.Tags.Intersects(tags) {
				continue
			}
			occupied := occupiedRanges(overlapping, func(ev *model.Event) bool {
				return ev.RoomID != nil && *ev.RoomID == room.ID
			})
			report.Rooms = append(report.Rooms, RoomAvailability{
				Room: room,
				Free: FreeGaps(start, end, minDurationMinutes, occupied),
			})
		}

	case KindUsers:
		users, err := e.users.Users(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list users: %w", err)
		}
		for _, user := range users {
			if len(tags) > 0 && !user.Tags.Intersects(tags) {
				continue
			}
			occupied := occupiedRanges(overlapping, func(ev *model.Event) bool {
				return ev.UserID != nil && *ev.UserID == user.ID
			})
			report.Users = append(report.Users, UserAvailability{
				User: user,
				Free: FreeGaps(start, end, minDurationMinutes, occupied),
			})
		}

	case KindEvents:
		for _, event := range overlapping {
			if len(tags) > 0 && !event.Tags.Intersects(tags) {
				continue
			}
			occupied := []TimeRange{{Start: event.StartTime, End: event.EndTime}}
			report.Events = append(report.Events, EventAvailability{
				Event: event,
				Free:  FreeGaps(start, end, minDurationMinutes, occupied),
			})
		}

	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidKind, kind)
	}

	return report, nil
}

// SearchResults flattens a report into per-entity hits. Rooms and users are
// included only when they have at least one free range; events are listed
// unconditionally, their availability being informational.
func (r *AvailabilityReport) SearchResults(date time.Time) []SearchResult {
	var results []SearchResult

	switch r.Kind {
	case KindRooms:
		for _, avail := range r.Rooms {
			if len(avail.Free) == 0 {
				continue
			}
			results = append(results, SearchResult{
				Kind: "room",
				ID:   avail.Room.ID,
				Name: avail.Room.Name,
				Tags: avail.Room.Tags,
				Date: date,
			})
		}
	case KindUsers:
		for _, avail := range r.Users {
			if len(avail.Free) == 0 {
				continue
			}
			results = append(results, SearchResult{
				Kind: "user",
				ID:   avail.User.ID,
				Name: avail.User.Username,
				Tags: avail.User.Tags,
				Date: date,
			})
		}
	case KindEvents:
		for _, avail := range r.Events {
			results = append(results, SearchResult{
				Kind: "event",
				ID:   avail.Event.ID,
				Name: avail.Event.Title,
				Tags: avail.Event.Tags,
				Date: date,
			})
		}
	}

	return results
}

// occupiedRanges collects the spans of the events matching the predicate.
func occupiedRanges(events []model.Event, match func(*model.Event) bool) []TimeRange {
	var occupied []TimeRange
	for i := range events {
		if match(&events[i]) {
			occupied = append(occupied, TimeRange{Start: events[i].StartTime, End: events[i].EndTime})
		}
	}
	return occupied
}
