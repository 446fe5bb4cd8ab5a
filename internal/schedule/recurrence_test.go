package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"teamjob-backend/internal/model"
)

// 2025-05-16 is a Friday.
func recurringEvent(rule string) *model.Event {
	return &model.Event{
		ID:             1,
		Title:          "Standup",
		StartTime:      time.Date(2025, time.May, 16, 9, 0, 0, 0, time.UTC),
		EndTime:        time.Date(2025, time.May, 16, 9, 30, 0, 0, time.UTC),
		IsRecurring:    true,
		RecurrenceRule: rule,
	}
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestOccursOn_NonRecurring(t *testing.T) {
	event := recurringEvent("FREQ=DAILY")
	event.IsRecurring = false

	occurs, err := OccursOn(event, date(2025, time.May, 17))
	require.NoError(t, err)
	assert.False(t, occurs)
}

func TestOccursOn_Daily(t *testing.T) {
	event := recurringEvent("FREQ=DAILY")

	for _, d := range []time.Time{
		date(2025, time.May, 16),
		date(2025, time.May, 17),
		date(2025, time.June, 1),
	} {
		occurs, err := OccursOn(event, d)
		require.NoError(t, err)
		assert.True(t, occurs, "expected daily occurrence on %s", d)
	}
}

func TestOccursOn_DailyInterval(t *testing.T) {
	event := recurringEvent("FREQ=DAILY;INTERVAL=2")

	occurs, err := OccursOn(event, date(2025, time.May, 18))
	require.NoError(t, err)
	assert.True(t, occurs, "offset 2 matches")

	occurs, err = OccursOn(event, date(2025, time.May, 17))
	require.NoError(t, err)
	assert.False(t, occurs, "offset 1 does not match")
}

func TestOccursOn_WeeklyByDay(t *testing.T) {
	// Series anchored on a Friday but recurring Mon/Wed/Fri.
	event := recurringEvent("FREQ=WEEKLY;BYDAY=MO,WE,FR")

	occurs, err := OccursOn(event, date(2025, time.May, 19)) // Monday
	require.NoError(t, err)
	assert.True(t, occurs)

	occurs, err = OccursOn(event, date(2025, time.May, 21)) // Wednesday
	require.NoError(t, err)
	assert.True(t, occurs)

	occurs, err = OccursOn(event, date(2025, time.May, 20)) // Tuesday
	require.NoError(t, err)
	assert.False(t, occurs)
}

func TestOccursOn_WeeklyWithoutByDay(t *testing.T) {
	event := recurringEvent("FREQ=WEEKLY")

	occurs, err := OccursOn(event, date(2025, time.May, 23)) // Friday, one week on
	require.NoError(t, err)
	assert.True(t, occurs)

	occurs, err = OccursOn(event, date(2025, time.May, 22)) // Thursday
	require.NoError(t, err)
	assert.False(t, occurs)
}

func TestOccursOn_WeeklyInterval(t *testing.T) {
	event := recurringEvent("FREQ=WEEKLY;INTERVAL=2;BYDAY=FR")

	occurs, err := OccursOn(event, date(2025, time.May, 30)) // two weeks on
	require.NoError(t, err)
	assert.True(t, occurs)

	occurs, err = OccursOn(event, date(2025, time.May, 23)) // one week on
	require.NoError(t, err)
	assert.False(t, occurs)
}

func TestOccursOn_Monthly(t *testing.T) {
	event := recurringEvent("FREQ=MONTHLY")

	occurs, err := OccursOn(event, date(2025, time.June, 16))
	require.NoError(t, err)
	assert.True(t, occurs)

	occurs, err = OccursOn(event, date(2025, time.June, 17))
	require.NoError(t, err)
	assert.False(t, occurs, "only the anchored day of month matches")
}

func TestOccursOn_MonthlyInterval(t *testing.T) {
	event := recurringEvent("FREQ=MONTHLY;INTERVAL=3")

	occurs, err := OccursOn(event, date(2025, time.August, 16))
	require.NoError(t, err)
	assert.True(t, occurs)

	occurs, err = OccursOn(event, date(2025, time.July, 16))
	require.NoError(t, err)
	assert.False(t, occurs)
}

func TestOccursOn_Yearly(t *testing.T) {
	event := recurringEvent("FREQ=YEARLY")

	occurs, err := OccursOn(event, date(2026, time.May, 16))
	require.NoError(t, err)
	assert.True(t, occurs)

	occurs, err = OccursOn(event, date(2026, time.May, 17))
	require.NoError(t, err)
	assert.False(t, occurs)
}

func TestOccursOn_Until(t *testing.T) {
	event := recurringEvent("FREQ=DAILY;UNTIL=20250520T000000")

	occurs, err := OccursOn(event, date(2025, time.May, 20))
	require.NoError(t, err)
	assert.True(t, occurs, "the UNTIL date itself is included")

	occurs, err = OccursOn(event, date(2025, time.May, 21))
	require.NoError(t, err)
	assert.False(t, occurs)
}

func TestOccursOn_UntilTrailingZone(t *testing.T) {
	// Trailing zone designators beyond the timestamp are truncated away.
	event := recurringEvent("FREQ=DAILY;UNTIL=20250520T000000Z")

	occurs, err := OccursOn(event, date(2025, time.May, 20))
	require.NoError(t, err)
	assert.True(t, occurs)
}

func TestOccursOn_RecurrenceEndDate(t *testing.T) {
	event := recurringEvent("FREQ=DAILY")
	end := date(2025, time.May, 18)
	event.RecurrenceEndDate = &end

	occurs, err := OccursOn(event, date(2025, time.May, 18))
	require.NoError(t, err)
	assert.True(t, occurs)

	occurs, err = OccursOn(event, date(2025, time.May, 19))
	require.NoError(t, err)
	assert.False(t, occurs)
}

func TestOccursOn_ExceptionDates(t *testing.T) {
	event := recurringEvent("FREQ=DAILY")
	event.ExceptionDates = "20250518,20250520"

	occurs, err := OccursOn(event, date(2025, time.May, 18))
	require.NoError(t, err)
	assert.False(t, occurs)

	occurs, err = OccursOn(event, date(2025, time.May, 19))
	require.NoError(t, err)
	assert.True(t, occurs)
}

func TestOccursOn_UnknownFrequency(t *testing.T) {
	event := recurringEvent("FREQ=HOURLY")

	occurs, err := OccursOn(event, date(2025, time.May, 17))
	require.NoError(t, err)
	assert.False(t, occurs)
}

func TestOccursOn_UnrecognizedFieldsIgnored(t *testing.T) {
	event := recurringEvent("WKST=MO;FREQ=DAILY;COUNT=10")

	occurs, err := OccursOn(event, date(2025, time.May, 17))
	require.NoError(t, err)
	assert.True(t, occurs)
}

func TestOccursOn_MalformedInterval(t *testing.T) {
	event := recurringEvent("FREQ=DAILY;INTERVAL=abc")

	_, err := OccursOn(event, date(2025, time.May, 17))
	assert.Error(t, err)
}

func TestOccursOn_NonPositiveInterval(t *testing.T) {
	// A zero or negative interval is a corrupt stored rule, not a divisor.
	for _, rule := range []string{"FREQ=DAILY;INTERVAL=0", "FREQ=WEEKLY;INTERVAL=-1"} {
		event := recurringEvent(rule)

		_, err := OccursOn(event, date(2025, time.May, 17))
		assert.Error(t, err, "rule %q must be rejected", rule)
	}
}

func TestOccursOn_MalformedUntil(t *testing.T) {
	event := recurringEvent("FREQ=DAILY;UNTIL=notadate")

	_, err := OccursOn(event, date(2025, time.May, 17))
	assert.Error(t, err)
}

func TestOccursOn_MalformedExceptionDate(t *testing.T) {
	event := recurringEvent("FREQ=DAILY")
	event.ExceptionDates = "garbage"

	_, err := OccursOn(event, date(2025, time.May, 17))
	assert.Error(t, err)
}

func TestDateOf(t *testing.T) {
	instant := time.Date(2025, time.May, 16, 23, 59, 59, 123, time.UTC)

	assert.Equal(t, date(2025, time.May, 16), DateOf(instant))
}
