package ordering

import "time"

const (
	slotInterval = 15 * time.Minute

	// Upper bound on generated slots so a clock anomaly can never
	// produce an unbounded sequence.
	maxSlots = 100

	// Minutes past a quarter-hour boundary within which the very next
	// boundary is still offered. Beyond it the next boundary is skipped
	// entirely so the counter has enough lead time.
	graceMinutes = 2
)

// SlotGenerator produces the selectable pickup instants for a day, always
// on a 15-minute cadence and strictly inside the opening window.
type SlotGenerator struct {
	hours WeekSchedule
	clock Clock
}

func NewSlotGenerator(hours WeekSchedule, clock Clock) *SlotGenerator {
	if clock == nil {
		clock = SystemClock
	}
	return &SlotGenerator{hours: hours, clock: clock}
}

// GenerateForToday returns the pickup slots offered for a new order
// placed now. The first slot is guaranteed to be strictly in the future:
// within the grace window the next quarter-hour boundary is offered,
// otherwise one full boundary is skipped.
func (g *SlotGenerator) GenerateForToday() []time.Time {
	now := g.clock()

	opening, ok := g.hours.OpeningAt(now)
	if !ok {
		return nil
	}
	closing, _ := g.hours.ClosingAt(now)

	remainder := now.Minute() % 15
	boundary := atMinute(now, now.Hour(), now.Minute()-remainder)

	var first time.Time
	if remainder <= graceMinutes {
		first = boundary.Add(slotInterval)
	} else {
		first = boundary.Add(2 * slotInterval)
	}

	if first.Before(opening) {
		first = opening
	}

	// Safety net: whatever the arithmetic produced, never offer an
	// instant that is not ahead of now.
	if !first.After(now) {
		first = now.Truncate(time.Minute).Add(slotInterval)
	}

	return emit(first, closing)
}

// GenerateFromFloor returns the pickup slots offered while editing an
// order whose current pickup time is floor. Every slot is strictly after
// floor; a floor already on a boundary moves a full interval forward.
//
// Opening hours are looked up for the current day, not floor's day. The
// original flow recalculates on the day the edit happens, and a floor on
// another calendar date keeps that behavior rather than silently using
// the floor's own weekday.
func (g *SlotGenerator) GenerateFromFloor(floor time.Time) []time.Time {
	today := g.clock()

	opening, ok := g.hours.OpeningAt(today)
	if !ok {
		return nil
	}
	closing, _ := g.hours.ClosingAt(today)

	boundary := atMinute(floor, floor.Hour(), floor.Minute()-floor.Minute()%15)
	first := boundary.Add(slotInterval)

	if first.Before(opening) {
		first = opening
	}

	return emit(first, closing)
}

func emit(first, closing time.Time) []time.Time {
	var slots []time.Time
	for candidate := first; candidate.Before(closing) && len(slots) < maxSlots; candidate = candidate.Add(slotInterval) {
		slots = append(slots, candidate)
	}
	return slots
}

func atMinute(date time.Time, hour, minute int) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), hour, minute, 0, 0, date.Location())
}
