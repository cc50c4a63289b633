package geo

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ParseClock parses an "HH:MM" value into minutes since midnight.
func ParseClock(value string) (int, error) {
	parts := strings.SplitN(strings.TrimSpace(value), ":", 2)
	if len(parts) != 2 {
		return 0, fmt.Errorf("invalid clock value %q", value)
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, fmt.Errorf("invalid hour in %q", value)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, fmt.Errorf("invalid minute in %q", value)
	}
	return hour*60 + minute, nil
}

// WithinOperatingHours reports whether now falls inside the [opening, closing)
// window. A closing time earlier than the opening time means the window wraps
// past midnight, e.g. 22:00 to 02:00.
func WithinOperatingHours(opening, closing string, now time.Time) (bool, error) {
	open, err := ParseClock(opening)
	if err != nil {
		return false, err
	}
	closeAt, err := ParseClock(closing)
	if err != nil {
		return false, err
	}

	current := now.Hour()*60 + now.Minute()
	if open == closeAt {
		// Same opening and closing time means always open.
		return true, nil
	}
	if open < closeAt {
		return current >= open && current < closeAt, nil
	}
	return current >= open || current < closeAt, nil
}
