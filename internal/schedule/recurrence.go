package schedule

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"teamjob-backend/internal/model"
)

const (
	dateTokenLayout = "20060102"
	untilLayout     = "20060102T150405"
)

// recurrenceRule is the parsed form of an event's recurrence rule string.
type recurrenceRule struct {
	Frequency string
	Interval  int
	ByDay     []string
	Until     *time.Time
}

// parseRecurrenceRule parses a semicolon-separated key=value rule string.
// Fields may appear in any order; unrecognized fields are ignored. A missing
// INTERVAL defaults to 1.
func parseRecurrenceRule(raw string) (recurrenceRule, error) {
	rule := recurrenceRule{Interval: 1}

	for _, part := range strings.Split(raw, ";") {
		switch {
		case strings.HasPrefix(part, "FREQ="):
			rule.Frequency = strings.TrimPrefix(part, "FREQ=")
		case strings.HasPrefix(part, "INTERVAL="):
			n, err := strconv.Atoi(strings.TrimPrefix(part, "INTERVAL="))
			if err != nil {
				return rule, fmt.Errorf("invalid INTERVAL in rule %q: %w", raw, err)
			}
			if n < 1 {
				return rule, fmt.Errorf("invalid INTERVAL in rule %q: must be positive", raw)
			}
			rule.Interval = n
		case strings.HasPrefix(part, "BYDAY="):
			rule.ByDay = strings.Split(strings.TrimPrefix(part, "BYDAY="), ",")
		case strings.HasPrefix(part, "UNTIL="):
			token := strings.TrimPrefix(part, "UNTIL=")
			if len(token) > len(untilLayout) {
				token = token[:len(untilLayout)]
			}
			until, err := time.Parse(untilLayout, token)
			if err != nil {
				return rule, fmt.Errorf("invalid UNTIL in rule %q: %w", raw, err)
			}
			rule.Until = &until
		}
	}

	return rule, nil
}

// OccursOn reports whether a recurring event has an occurrence on the given
// calendar date. It returns false for non-recurring events and for rules
// whose frequency is missing or unrecognized. Corrupt stored date tokens
// (exception dates, UNTIL) surface as errors rather than being swallowed.
func OccursOn(event *model.Event, date time.Time) (bool, error) {
	if !event.IsRecurring || event.RecurrenceRule == "" {
		return false, nil
	}

	day := DateOf(date)

	if event.RecurrenceEndDate != nil && day.After(DateOf(*event.RecurrenceEndDate)) {
		return false, nil
	}

	rule, err := parseRecurrenceRule(event.RecurrenceRule)
	if err != nil {
		return false, err
	}
	if rule.Until != nil && day.After(DateOf(*rule.Until)) {
		return false, nil
	}

	excluded, err := isExceptionDate(event.ExceptionDates, day)
	if err != nil {
		return false, err
	}
	if excluded {
		return false, nil
	}

	start := DateOf(event.StartTime)
	switch rule.Frequency {
	case "DAILY":
		return daysBetween(start, day)%rule.Interval == 0, nil
	case "WEEKLY":
		return weeklyMatch(start, day, rule), nil
	case "MONTHLY":
		if event.StartTime.Day() != day.Day() {
			return false, nil
		}
		months := (day.Year()-start.Year())*12 + int(day.Month()) - int(start.Month())
		return months%rule.Interval == 0, nil
	case "YEARLY":
		return event.StartTime.Day() == day.Day() &&
			event.StartTime.Month() == day.Month() &&
			(day.Year()-start.Year())%rule.Interval == 0, nil
	default:
		return false, nil
	}
}

func weeklyMatch(start, day time.Time, rule recurrenceRule) bool {
	days := daysBetween(start, day)

	if len(rule.ByDay) > 0 {
		code := weekdayCode(day.Weekday())
		for _, want := range rule.ByDay {
			if want == code {
				return (days/7)%rule.Interval == 0
			}
		}
		return false
	}

	return days%(7*rule.Interval) == 0
}

// isExceptionDate reports whether the comma-joined yyyyMMdd exception list
// contains the given date.
func isExceptionDate(exceptionDates string, date time.Time) (bool, error) {
	if exceptionDates == "" {
		return false, nil
	}
	day := DateOf(date)
	for _, token := range strings.Split(exceptionDates, ",") {
		excluded, err := time.Parse(dateTokenLayout, strings.TrimSpace(token))
		if err != nil {
			return false, fmt.Errorf("invalid exception date %q: %w", token, err)
		}
		if excluded.Equal(day) {
			return true, nil
		}
	}
	return false, nil
}

// DateOf truncates an instant to its calendar date, normalized to UTC so
// whole-day arithmetic is exact.
func DateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// daysBetween returns the signed number of whole days from a to b. Both
// must be date-normalized.
func daysBetween(a, b time.Time) int {
	return int(b.Sub(a).Hours() / 24)
}

// weekdayCode maps a weekday to its two-letter rule code (Monday "MO"
// through Sunday "SU").
func weekdayCode(d time.Weekday) string {
	switch d {
	case time.Monday:
		return "MO"
	case time.Tuesday:
		return "TU"
	case time.Wednesday:
		return "WE"
	case time.Thursday:
		return "TH"
	case time.Friday:
		return "FR"
	case time.Saturday:
		return "SA"
	default:
		return "SU"
	}
}
