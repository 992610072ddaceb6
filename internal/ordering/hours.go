package ordering

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// BusinessDay holds the opening window for one weekday as whole hours of
// the day. The window is half-open: an instant at exactly Close is no
// longer open.
type BusinessDay struct {
	Open  int
	Close int
}

// WeekSchedule maps weekdays to their opening windows. A weekday with no
// entry is closed all day.
type WeekSchedule map[time.Weekday]BusinessDay

// DefaultWeekSchedule covers Monday through Saturday 07:00-21:00 and
// Sunday 08:00-18:00.
func DefaultWeekSchedule() WeekSchedule {
	return WeekSchedule{
		time.Sunday:    {Open: 8, Close: 18},
		time.Monday:    {Open: 7, Close: 21},
		time.Tuesday:   {Open: 7, Close: 21},
		time.Wednesday: {Open: 7, Close: 21},
		time.Thursday:  {Open: 7, Close: 21},
		time.Friday:    {Open: 7, Close: 21},
		time.Saturday:  {Open: 7, Close: 21},
	}
}

var weekdayConfigKeys = map[time.Weekday]string{
	time.Sunday:    "hours.sun",
	time.Monday:    "hours.mon",
	time.Tuesday:   "hours.tue",
	time.Wednesday: "hours.wed",
	time.Thursday:  "hours.thu",
	time.Friday:    "hours.fri",
	time.Saturday:  "hours.sat",
}

// ConfigLookup matches apt Config string lookups so the schedule can be
// loaded without depending on the config type directly.
type ConfigLookup interface {
	GetStringOrDef(key, def string) string
}

// LoadWeekSchedule builds the schedule from "open-close" config entries
// such as "7-21". An empty value keeps the default for that weekday and
// "closed" removes the day entirely. Malformed entries are returned as
// errors so the caller can fail startup.
func LoadWeekSchedule(config ConfigLookup) (WeekSchedule, error) {
	schedule := DefaultWeekSchedule()
	if config == nil {
		return schedule, nil
	}

	for weekday, key := range weekdayConfigKeys {
		raw := strings.TrimSpace(config.GetStringOrDef(key, ""))
		if raw == "" {
			continue
		}
		if strings.EqualFold(raw, "closed") {
			delete(schedule, weekday)
			continue
		}

		day, err := parseBusinessDay(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %w", key, err)
		}
		schedule[weekday] = day
	}

	return schedule, nil
}

func parseBusinessDay(raw string) (BusinessDay, error) {
	parts := strings.SplitN(raw, "-", 2)
	if len(parts) != 2 {
		return BusinessDay{}, fmt.Errorf("expected open-close hours, got %q", raw)
	}

	open, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return BusinessDay{}, fmt.Errorf("invalid open hour %q", parts[0])
	}
	close, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return BusinessDay{}, fmt.Errorf("invalid close hour %q", parts[1])
	}

	if open < 0 || open > 23 || close < 1 || close > 24 || close <= open {
		return BusinessDay{}, fmt.Errorf("hours out of range in %q", raw)
	}

	return BusinessDay{Open: open, Close: close}, nil
}

// Day returns the configured window for the weekday of the given date.
func (s WeekSchedule) Day(date time.Time) (BusinessDay, bool) {
	day, ok := s[date.Weekday()]
	return day, ok
}

// OpeningAt returns the opening instant on the given calendar date, with
// ok false when the day is closed.
func (s WeekSchedule) OpeningAt(date time.Time) (time.Time, bool) {
	day, ok := s.Day(date)
	if !ok {
		return time.Time{}, false
	}
	return atHour(date, day.Open), true
}

// ClosingAt returns the closing instant on the given calendar date, with
// ok false when the day is closed.
func (s WeekSchedule) ClosingAt(date time.Time) (time.Time, bool) {
	day, ok := s.Day(date)
	if !ok {
		return time.Time{}, false
	}
	return atHour(date, day.Close), true
}

// IsOpen reports whether the instant falls inside its day's opening
// window. The window is half-open, so the closing instant itself is
// already closed.
func (s WeekSchedule) IsOpen(instant time.Time) bool {
	opening, ok := s.OpeningAt(instant)
	if !ok {
		return false
	}
	closing, _ := s.ClosingAt(instant)
	return !instant.Before(opening) && instant.Before(closing)
}

func atHour(date time.Time, hour int) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), hour, 0, 0, 0, date.Location())
}
