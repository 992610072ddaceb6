package ordering

import (
	"errors"
	"testing"
	"time"
)

func TestTimeResolverParse(t *testing.T) {
	resolver := NewTimeResolver(DefaultWeekSchedule())
	reference := monday(9, 0, 0)

	tests := []struct {
		name      string
		input     string
		want      time.Time
		expectErr bool
	}{
		{name: "morningMeridiem", input: "9:30 AM", want: monday(9, 30, 0)},
		{name: "afternoonMeridiem", input: "1:05 PM", want: monday(13, 5, 0)},
		{name: "noSpaceMeridiem", input: "2:45pm", want: monday(14, 45, 0)},
		{name: "lowercaseMeridiem", input: "11:00 am", want: monday(11, 0, 0)},
		{name: "twelveAMIsMidnight", input: "12:00 AM", want: monday(0, 0, 0)},
		{name: "twelvePMIsNoon", input: "12:30 PM", want: monday(12, 30, 0)},
		{name: "twentyFourHour", input: "14:05", want: monday(14, 5, 0)},
		{name: "twentyFourHourEvening", input: "20:45", want: monday(20, 45, 0)},
		{name: "leadingWhitespace", input: "  10:15 AM  ", want: monday(10, 15, 0)},
		{name: "minuteOutOfRange", input: "13:65", expectErr: true},
		{name: "hourOutOfRange", input: "25:00", expectErr: true},
		{name: "zeroHourMeridiem", input: "0:30 PM", expectErr: true},
		{name: "thirteenMeridiem", input: "13:00 PM", expectErr: true},
		{name: "missingMinutes", input: "9 AM", expectErr: true},
		{name: "notATime", input: "half past nine", expectErr: true},
		{name: "empty", input: "", expectErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := resolver.Parse(tt.input, reference)

			if tt.expectErr {
				if err == nil {
					t.Fatalf("Parse(%q) expected error, got %v", tt.input, got)
				}
				var pErr *ParseError
				if !errors.As(err, &pErr) {
					t.Errorf("Parse(%q) error = %T, want *ParseError", tt.input, err)
				}
				return
			}

			if err != nil {
				t.Fatalf("Parse(%q) unexpected error: %v", tt.input, err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("Parse(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestTimeResolverValidate(t *testing.T) {
	resolver := NewTimeResolver(DefaultWeekSchedule())

	baseDate := monday(9, 0, 0)
	firstSlot := monday(9, 15, 0)
	floor := monday(10, 0, 0)
	tuesday := monday(10, 0, 0).AddDate(0, 0, 1)

	tests := []struct {
		name       string
		candidate  time.Time
		floor      *time.Time
		wantReason string
	}{
		{
			name:      "validInstant",
			candidate: monday(10, 30, 0),
		},
		{
			name:       "beforeFloor",
			candidate:  monday(9, 30, 0),
			floor:      &floor,
			wantReason: "must be at or after current pickup time",
		},
		{
			name:      "exactlyAtFloor",
			candidate: floor,
			floor:     &floor,
		},
		{
			name:       "beforeFirstSlot",
			candidate:  monday(9, 5, 0),
			wantReason: "must be after the first available slot",
		},
		{
			name:       "afterClosing",
			candidate:  monday(21, 30, 0),
			wantReason: "outside business hours",
		},
		{
			name:       "atClosingInstant",
			candidate:  monday(21, 0, 0),
			wantReason: "outside business hours",
		},
		{
			name:       "differentDay",
			candidate:  tuesday,
			wantReason: "must be same day",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := resolver.Validate(tt.candidate, firstSlot, baseDate, tt.floor)

			if tt.wantReason == "" {
				if err != nil {
					t.Fatalf("Validate() unexpected error: %v", err)
				}
				return
			}

			var vErr *ValidationError
			if !errors.As(err, &vErr) {
				t.Fatalf("Validate() error = %v, want *ValidationError", err)
			}
			if vErr.Reason != tt.wantReason {
				t.Errorf("Validate() reason = %q, want %q", vErr.Reason, tt.wantReason)
			}
		})
	}
}

// The floor check outranks every later rule, so a candidate failing
// several rules at once reports the floor reason.
func TestTimeResolverValidatePrecedence(t *testing.T) {
	resolver := NewTimeResolver(DefaultWeekSchedule())

	baseDate := monday(9, 0, 0)
	firstSlot := monday(9, 15, 0)
	floor := monday(10, 0, 0)

	// Before the floor, before the first slot, outside hours and on
	// another day all at once.
	candidate := monday(3, 0, 0).AddDate(0, 0, -1)

	err := resolver.Validate(candidate, firstSlot, baseDate, &floor)
	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("Validate() error = %v, want *ValidationError", err)
	}
	if want := "must be at or after current pickup time"; vErr.Reason != want {
		t.Errorf("Validate() reason = %q, want %q", vErr.Reason, want)
	}
}
