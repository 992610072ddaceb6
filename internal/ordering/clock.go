package ordering

import "time"

// Clock supplies the current instant. Slot generation and pickup time
// validation take one explicitly so tests can pin "now".
type Clock func() time.Time

func SystemClock() time.Time {
	return time.Now()
}
