package schedule

import (
	"context"
	"fmt"
	"sort"
	"time"

	"teamjob-backend/internal/model"
)

// Defaults applied by FindAvailable when a parameter is absent.
const (
	defaultSearchKind      = KindRooms
	defaultDurationMinutes = 30
)

// TagVocabulary is the union of tags present in the store, split by the
// kind of entity carrying them. It feeds filter dropdowns.
type TagVocabulary struct {
	RoomTags  []string `json:"roomTags"`
	UserTags  []string `json:"userTags"`
	EventTags []string `json:"eventTags"`
}

// WeekDay is one column of the week view.
type WeekDay struct {
	Date       time.Time  `json:"date"`
	Name       string     `json:"name"`
	IsToday    bool       `json:"isToday"`
	Events     []DayEvent `json:"events"`
	EventCount int        `json:"eventCount"`
}

// WeekView is the seven-day calendar projection.
type WeekView struct {
	Days         []WeekDay     `json:"weekDays"`
	WeekStart    time.Time     `json:"currentWeekStart"`
	PreviousWeek time.Time     `json:"previousWeek"`
	NextWeek     time.Time     `json:"nextWeek"`
	SelectedDate time.Time     `json:"selectedDate"`
	Hours        []int         `json:"hours"`
	Tags         TagVocabulary `json:"tags"`
}

// RoomDay groups one room's events on a single date.
type RoomDay struct {
	Room   model.Room `json:"room"`
	Events []DayEvent `json:"events"`
}

// DayView is the single-date calendar projection.
type DayView struct {
	Date        time.Time     `json:"currentDay"`
	PreviousDay time.Time     `json:"previousDay"`
	NextDay     time.Time     `json:"nextDay"`
	Events      []DayEvent    `json:"events"`
	RoomDays    []RoomDay     `json:"roomDays"`
	Hours       []int         `json:"hours"`
	Tags        TagVocabulary `json:"tags"`
}

// AvailableView is the find-available projection: the raw availability
// report plus its flattened search results and the effective query
// parameters after defaulting.
type AvailableView struct {
	Kind            string              `json:"searchType"`
	Date            time.Time           `json:"date"`
	StartTime       time.Time           `json:"startTime"`
	EndTime         time.Time           `json:"endTime"`
	DurationMinutes int                 `json:"durationMinutes"`
	Report          *AvailabilityReport `json:"availability"`
	Results         []SearchResult      `json:"results"`
	Tags            TagVocabulary       `json:"tags"`
}

// ViewBuilder assembles calendar view models by projecting store snapshots
// through the engine. Now is injectable so defaulting is testable; it falls
// back to time.Now.
type ViewBuilder struct {
	engine *Engine
	Now    func() time.Time
}

// NewViewBuilder creates a view builder over the engine's sources.
func NewViewBuilder(engine *Engine) *ViewBuilder {
	return &ViewBuilder{engine: engine, Now: time.Now}
}

// WeekView builds the week containing date (today when date is zero),
// aligned to the preceding-or-same Monday.
func (b *ViewBuilder) WeekView(ctx context.Context, date time.Time, filters Filters) (*WeekView, error) {
	today := DateOf(b.Now())
	target := DateOf(date)
	if date.IsZero() {
		target = today
	}
	weekStart := mondayOnOrBefore(target)

	events, err := b.engine.events.EventsOverlapping(ctx, weekStart, weekStart.AddDate(0, 0, 7))
	if err != nil {
		return nil, fmt.Errorf("failed to list events for week: %w", err)
	}

	view := &WeekView{
		WeekStart:    weekStart,
		PreviousWeek: weekStart.AddDate(0, 0, -7),
		NextWeek:     weekStart.AddDate(0, 0, 7),
		SelectedDate: target,
		Hours:        hourAxis(),
	}
	for i := 0; i < 7; i++ {
		day := weekStart.AddDate(0, 0, i)
		dayEvents, err := ProjectDay(events, day, filters)
		if err != nil {
			return nil, err
		}
		view.Days = append(view.Days, WeekDay{
			Date:       day,
			Name:       day.Weekday().String(),
			IsToday:    day.Equal(today),
			Events:     dayEvents,
			EventCount: len(dayEvents),
		})
	}

	view.Tags, err = b.tagVocabulary(ctx)
	if err != nil {
		return nil, err
	}
	return view, nil
}

// DayView builds the projection for a single date, additionally grouping
// that date's events by room. Rooms without events that day are omitted.
func (b *ViewBuilder) DayView(ctx context.Context, date time.Time, filters Filters) (*DayView, error) {
	day := DateOf(date)

	events, err := b.engine.events.EventsOverlapping(ctx, day, day.AddDate(0, 0, 1))
	if err != nil {
		return nil, fmt.Errorf("failed to list events for day: %w", err)
	}
	dayEvents, err := ProjectDay(events, day, filters)
	if err != nil {
		return nil, err
	}

	rooms, err := b.engine.rooms.Rooms(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list rooms: %w", err)
	}

	view := &DayView{
		Date:        day,
		PreviousDay: day.AddDate(0, 0, -1),
		NextDay:     day.AddDate(0, 0, 1),
		Events:      dayEvents,
		Hours:       hourAxis(),
	}
	for _, room := range rooms {
		var roomEvents []DayEvent
		for _, ev := range dayEvents {
			if ev.Room != nil && ev.Room.ID == room.ID {
				roomEvents = append(roomEvents, ev)
			}
		}
		if len(roomEvents) > 0 {
			view.RoomDays = append(view.RoomDays, RoomDay{Room: room, Events: roomEvents})
		}
	}

	view.Tags, err = b.tagVocabulary(ctx)
	if err != nil {
		return nil, err
	}
	return view, nil
}

// FindAvailable resolves query defaults (today, 00:00-23:59, 30 minutes,
// rooms), runs the availability search and flattens the results.
func (b *ViewBuilder) FindAvailable(ctx context.Context, kind string, tags string, date time.Time, startTime, endTime string, durationMinutes int) (*AvailableView, error) {
	if kind == "" {
		kind = defaultSearchKind
	}
	day := DateOf(date)
	if date.IsZero() {
		day = DateOf(b.Now())
	}
	if durationMinutes <= 0 {
		durationMinutes = defaultDurationMinutes
	}

	start, err := atClock(day, startTime, 0, 0)
	if err != nil {
		return nil, err
	}
	end, err := atClock(day, endTime, 23, 59)
	if err != nil {
		return nil, err
	}

	report, err := b.engine.Search(ctx, kind, start, end, durationMinutes, ParseSet(tags))
	if err != nil {
		return nil, err
	}

	vocab, err := b.tagVocabulary(ctx)
	if err != nil {
		return nil, err
	}

	return &AvailableView{
		Kind:            kind,
		Date:            day,
		StartTime:       start,
		EndTime:         end,
		DurationMinutes: durationMinutes,
		Report:          report,
		Results:         report.SearchResults(day),
		Tags:            vocab,
	}, nil
}

// tagVocabulary unions the tags of every room, user and event in the
// store, independent of any query window.
func (b *ViewBuilder) tagVocabulary(ctx context.Context) (TagVocabulary, error) {
	var vocab TagVocabulary

	rooms, err := b.engine.rooms.Rooms(ctx)
	if err != nil {
		return vocab, fmt.Errorf("failed to list rooms for tags: %w", err)
	}
	users, err := b.engine.users.Users(ctx)
	if err != nil {
		return vocab, fmt.Errorf("failed to list users for tags: %w", err)
	}
	events, err := b.engine.events.EventsAll(ctx)
	if err != nil {
		return vocab, fmt.Errorf("failed to list events for tags: %w", err)
	}

	roomTags := make(map[string]struct{})
	for _, r := range rooms {
		addTags(roomTags, r.Tags)
	}
	userTags := make(map[string]struct{})
	for _, u := range users {
		addTags(userTags, u.Tags)
	}
	eventTags := make(map[string]struct{})
	for _, e := range events {
		addTags(eventTags, e.Tags)
	}

	vocab.RoomTags = sortedKeys(roomTags)
	vocab.UserTags = sortedKeys(userTags)
	vocab.EventTags = sortedKeys(eventTags)
	return vocab, nil
}

func addTags(set map[string]struct{}, tags model.TagList) {
	for _, tag := range tags {
		set[tag] = struct{}{}
	}
}

func sortedKeys(set map[string]struct{}) []string {
	if len(set) == 0 {
		return nil
	}
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// mondayOnOrBefore aligns a date to the Monday starting its week.
func mondayOnOrBefore(day time.Time) time.Time {
	offset := (int(day.Weekday()) + 6) % 7
	return day.AddDate(0, 0, -offset)
}

func hourAxis() []int {
	hours := make([]int, 24)
	for i := range hours {
		hours[i] = i
	}
	return hours
}

// atClock combines a date with an HH:MM clock string, falling back to the
// given default when the string is empty.
func atClock(day time.Time, clock string, defaultHour, defaultMinute int) (time.Time, error) {
	hour, minute := defaultHour, defaultMinute
	if clock != "" {
		parsed, err := time.Parse("15:04", clock)
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid time %q: %w", clock, err)
		}
		hour, minute = parsed.Hour(), parsed.Minute()
	}
	return time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, day.Location()), nil
}
