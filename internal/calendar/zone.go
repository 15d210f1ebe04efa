package calendar

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ParseUTCOffset turns "-05:00", "+0530" or "-5" into a fixed zone. The
// business calendar uses a fixed offset, so daylight-saving rules of the
// region are deliberately ignored.
func ParseUTCOffset(offset string) (*time.Location, error) {
	raw := strings.TrimSpace(offset)
	if raw == "" || strings.EqualFold(raw, "z") || strings.EqualFold(raw, "utc") {
		return time.UTC, nil
	}

	sign := 1
	switch raw[0] {
	case '+':
		raw = raw[1:]
	case '-':
		sign = -1
		raw = raw[1:]
	}

	var hours, minutes int
	var err error
	switch {
	case strings.Contains(raw, ":"):
		parts := strings.SplitN(raw, ":", 2)
		if hours, err = strconv.Atoi(parts[0]); err == nil {
			minutes, err = strconv.Atoi(parts[1])
		}
	case len(raw) == 4:
		if hours, err = strconv.Atoi(raw[:2]); err == nil {
			minutes, err = strconv.Atoi(raw[2:])
		}
	default:
		hours, err = strconv.Atoi(raw)
	}
	if err != nil || hours > 14 || hours < 0 || minutes < 0 || minutes > 59 {
		return nil, fmt.Errorf("calendar: invalid utc offset %q", offset)
	}

	seconds := sign * (hours*3600 + minutes*60)
	return time.FixedZone(formatOffset(seconds), seconds), nil
}

func formatOffset(seconds int) string {
	sign := '+'
	if seconds < 0 {
		sign = '-'
		seconds = -seconds
	}
	return fmt.Sprintf("UTC%c%02d:%02d", sign, seconds/3600, (seconds%3600)/60)
}
