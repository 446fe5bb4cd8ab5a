package schedule

import (
	"strconv"
	"strings"
	"time"

	"teamjob-backend/internal/model"
)

// Filters narrows the events a day projection includes. Every field is
// optional: a nil set means the dimension is unconstrained.
type Filters struct {
	UserIDs   map[string]struct{}
	RoomIDs   map[string]struct{}
	UserTags  map[string]struct{}
	RoomTags  map[string]struct{}
	EventTags map[string]struct{}
}

// ParseFilters builds Filters from raw comma-delimited query strings.
func ParseFilters(userIDs, roomIDs, userTags, roomTags, eventTags string) Filters {
	return Filters{
		UserIDs:   ParseSet(userIDs),
		RoomIDs:   ParseSet(roomIDs),
		UserTags:  ParseSet(userTags),
		RoomTags:  ParseSet(roomTags),
		EventTags: ParseSet(eventTags),
	}
}

// ParseSet splits a comma-delimited string into a set, trimming tokens and
// dropping empty ones. An input that yields no tokens returns nil, which
// every consumer reads as "no filter"; there is no reject-all value.
func ParseSet(raw string) map[string]struct{} {
	if raw == "" {
		return nil
	}
	set := make(map[string]struct{})
	for _, token := range strings.Split(raw, ",") {
		token = strings.TrimSpace(token)
		if token == "" {
			continue
		}
		set[token] = struct{}{}
	}
	if len(set) == 0 {
		return nil
	}
	return set
}

// DayEvent is one event occurrence materialized onto a single calendar
// date, with its start and end expressed both as absolute instants and as
// fractional hours clipped to that day.
type DayEvent struct {
	ID                int64       `json:"id"`
	Title             string      `json:"title"`
	Description       string      `json:"description"`
	Room              *model.Room `json:"room,omitempty"`
	User              *model.User `json:"user,omitempty"`
	IsRecurring       bool        `json:"isRecurring"`
	RecurrenceEndDate *time.Time  `json:"recurrenceEndDate,omitempty"`
	DurationHours     float64     `json:"durationHours"`
	StartHour         float64     `json:"startHour"`
	EndHour           float64     `json:"endHour"`
	StartTime         time.Time   `json:"startTime"`
	EndTime           time.Time   `json:"endTime"`
}

// ProjectDay materializes the events that occur on the given date, applying
// the id and tag filters, and clips each occurrence to day-local fractional
// hours. Events are visited in input order.
func ProjectDay(events []model.Event, date time.Time, filters Filters) ([]DayEvent, error) {
	day := DateOf(date)

	var out []DayEvent
	for i := range events {
		event := &events[i]

		excluded, err := isExceptionDate(event.ExceptionDates, day)
		if err != nil {
			return nil, err
		}
		if excluded {
			continue
		}

		occurs := spansDate(event, day)
		if !occurs && event.IsRecurring && event.RecurrenceRule != "" {
			occurs, err = OccursOn(event, day)
			if err != nil {
				return nil, err
			}
		}
		if !occurs {
			continue
		}

		if !matchesFilters(event, filters) {
			continue
		}

		start, end := event.StartTime, event.EndTime
		if event.IsRecurring && event.RecurrenceRule != "" {
			// Shift the series anchor onto the occurrence date, preserving
			// the time of day.
			offset := daysBetween(DateOf(event.StartTime), day)
			start = start.AddDate(0, 0, offset)
			end = end.AddDate(0, 0, offset)
		}

		startHour := 0.0
		if !DateOf(start).Before(day) {
			startHour = float64(start.Hour()) + float64(start.Minute())/60.0
		}
		endHour := 24.0
		if !DateOf(end).After(day) {
			endHour = float64(end.Hour()) + float64(end.Minute())/60.0
		}

		out = append(out, DayEvent{
			ID:                event.ID,
			Title:             event.Title,
			Description:       event.Description,
			Room:              event.Room,
			User:              event.User,
			IsRecurring:       event.IsRecurring,
			RecurrenceEndDate: event.RecurrenceEndDate,
			DurationHours:     endHour - startHour,
			StartHour:         startHour,
			EndHour:           endHour,
			StartTime:         start,
			EndTime:           end,
		})
	}
	return out, nil
}

// spansDate reports whether the event's stored span covers the date,
// inclusive on both ends so multi-day events appear on every day they touch.
func spansDate(event *model.Event, day time.Time) bool {
	startDate := DateOf(event.StartTime)
	endDate := DateOf(event.EndTime)
	return !startDate.After(day) && !endDate.Before(day)
}

func matchesFilters(event *model.Event, f Filters) bool {
	// Id filters only constrain events that reference the dimension.
	if f.UserIDs != nil && event.User != nil {
		if _, ok := f.UserIDs[strconv.FormatInt(event.User.ID, 10)]; !ok {
			return false
		}
	}
	if f.RoomIDs != nil && event.Room != nil {
		if _, ok := f.RoomIDs[strconv.FormatInt(event.Room.ID, 10)]; !ok {
			return false
		}
	}

	// Tag filters reject events that cannot match at all.
	if f.RoomTags != nil && (event.Room == nil || !event.Room.Tags.Intersects(f.RoomTags)) {
		return false
	}
	if f.EventTags != nil && !event.Tags.Intersects(f.EventTags) {
		return false
	}
	if f.UserTags != nil && (event.User == nil || !event.User.Tags.Intersects(f.UserTags)) {
		return false
	}
	return true
}
