package dialogue

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/wolfman30/botica-chatbot/internal/textnorm"
)

var (
	errDateFormat  = errors.New("date must be DD/MM/YYYY")
	errDateInvalid = errors.New("date does not exist")
)

// parseDate reads DD/MM/YYYY as a civil date in loc. Overflowing values such as
// 31/02 are rejected rather than rolled into the next month.
func parseDate(s string, loc *time.Location) (time.Time, error) {
	parts := strings.Split(strings.TrimSpace(s), "/")
	if len(parts) != 3 {
		return time.Time{}, errDateFormat
	}
	var nums [3]int
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return time.Time{}, errDateInvalid
		}
		nums[i] = n
	}
	day, month, year := nums[0], nums[1], nums[2]
	if year < 1 || month < 1 || month > 12 || day < 1 {
		return time.Time{}, errDateInvalid
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, loc)
	if t.Year() != year || int(t.Month()) != month || t.Day() != day {
		return time.Time{}, errDateInvalid
	}
	return t, nil
}

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

func validEmail(s string) bool {
	return emailPattern.MatchString(s)
}

// parseChoice returns the 1-based option in s, or 0 when s is not a number
// between 1 and n.
func parseChoice(s string, n int) int {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || v < 1 || v > n {
		return 0
	}
	return v
}

var affirmatives = []string{"si", "claro", "ok", "vale", "dale"}

// affirmative expects normalized text.
func affirmative(normalized string) bool {
	return textnorm.HasWord(normalized, affirmatives...)
}
