package slot

import (
	"errors"
	"regexp"
	"strconv"
	"time"
)

const (
	MinutesPerDay = 1440
	DateLayout    = "2006-01-02"
)

var (
	ErrMalformedTime = errors.New("malformed time, expected HH:MM")
	ErrMalformedDate = errors.New("malformed date, expected YYYY-MM-DD")
	ErrEmptySlot     = errors.New("slot start and end must differ")
)

var (
	hhmmPattern = regexp.MustCompile(`^([01-9]\d):([0-5]\d)$`)
	datePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
)

// ToMinutes converts a 24-hour HH:MM wall-clock string to minutes since midnight.
func ToMinutes(hhmm string) (int, error) {
	m := hhmmPattern.FindStringSubmatch(hhmm)
	if m == nil {
		return 0, ErrMalformedTime
	}
	hours, _ := strconv.Atoi(m[1])
	minutes, _ := strconv.Atoi(m[2])
	if hours > 23 {
		return 0, ErrMalformedTime
	}
	return hours*60 + minutes, nil
}

// NormalizedEnd treats an end of 00:00 as the end of the day.
func NormalizedEnd(endMinutes int) int {
	if endMinutes == 0 {
		return MinutesPerDay
	}
	return endMinutes
}

// Overlaps reports whether [aStart,aEnd) and [bStart,bEnd) share any instant.
// Ends are normalized first; back-to-back intervals do not overlap.
func Overlaps(aStart, aEnd, bStart, bEnd int) bool {
	aEnd = NormalizedEnd(aEnd)
	bEnd = NormalizedEnd(bEnd)

	startsInside := aStart >= bStart && aStart < bEnd
	endsInside := aEnd > bStart && aEnd <= bEnd
	containsB := aStart <= bStart && aEnd >= bEnd
	containedByB := bStart <= aStart && bEnd >= aEnd

	return startsInside || endsInside || containsB || containedByB
}

func ValidateDate(date string) error {
	if !datePattern.MatchString(date) {
		return ErrMalformedDate
	}
	if _, err := time.Parse(DateLayout, date); err != nil {
		return ErrMalformedDate
	}
	return nil
}
