package ordering

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ParseError reports free-text pickup time input that could not be
// understood. It is recoverable: callers re-prompt instead of failing.
type ParseError struct {
	Input string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("cannot parse pickup time %q", e.Input)
}

// ValidationError carries the specific reason a pickup time or status
// transition was rejected. The reason string is surfaced to the caller.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

// TimeResolver parses free-text pickup times and validates candidate
// instants against the opening hours and the generated slot list.
type TimeResolver struct {
	hours WeekSchedule
}

func NewTimeResolver(hours WeekSchedule) *TimeResolver {
	return &TimeResolver{hours: hours}
}

// Parse accepts "H:MM AM/PM" (the space before the meridiem is optional)
// or 24-hour "HH:MM" and returns the instant on referenceDate's calendar
// date. Out-of-range components are a ParseError, never a panic.
func (r *TimeResolver) Parse(text string, referenceDate time.Time) (time.Time, error) {
	input := strings.TrimSpace(text)
	fail := func() (time.Time, error) {
		return time.Time{}, &ParseError{Input: text}
	}

	upper := strings.ToUpper(input)
	meridiem := ""
	for _, suffix := range []string{"AM", "PM"} {
		if strings.HasSuffix(upper, suffix) {
			meridiem = suffix
			upper = strings.TrimSpace(strings.TrimSuffix(upper, suffix))
			break
		}
	}

	parts := strings.SplitN(upper, ":", 2)
	if len(parts) != 2 {
		return fail()
	}

	hour, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return fail()
	}
	minute, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return fail()
	}

	if minute < 0 || minute > 59 {
		return fail()
	}

	switch meridiem {
	case "AM":
		if hour < 1 || hour > 12 {
			return fail()
		}
		if hour == 12 {
			hour = 0
		}
	case "PM":
		if hour < 1 || hour > 12 {
			return fail()
		}
		if hour != 12 {
			hour += 12
		}
	default:
		if hour < 0 || hour > 23 {
			return fail()
		}
	}

	return atMinute(referenceDate, hour, minute), nil
}

// Validate checks a parsed candidate in a fixed precedence so the first
// failing rule determines the reported reason: floor, first offered
// slot, business hours, then same-day.
func (r *TimeResolver) Validate(candidate, firstOfferedSlot, baseDate time.Time, floor *time.Time) error {
	if floor != nil && candidate.Before(*floor) {
		return &ValidationError{Reason: "must be at or after current pickup time"}
	}

	if candidate.Before(firstOfferedSlot) {
		return &ValidationError{Reason: "must be after the first available slot"}
	}

	if !r.hours.IsOpen(candidate) {
		return &ValidationError{Reason: "outside business hours"}
	}

	if !sameDate(candidate, baseDate) {
		return &ValidationError{Reason: "must be same day"}
	}

	return nil
}

func sameDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
