package slot

import "fmt"

// Slot is a date plus a wall-clock interval. It is never persisted on its own;
// bookings and blocks keep the raw HH:MM strings and slots are recomputed from them.
type Slot struct {
	date      string
	startTime string
	endTime   string
	start     int
	end       int
}

func NewSlot(date, startTime, endTime string) (Slot, error) {
	if err := ValidateDate(date); err != nil {
		return Slot{}, err
	}
	start, err := ToMinutes(startTime)
	if err != nil {
		return Slot{}, fmt.Errorf("start_time %q: %w", startTime, err)
	}
	end, err := ToMinutes(endTime)
	if err != nil {
		return Slot{}, fmt.Errorf("end_time %q: %w", endTime, err)
	}
	if start >= NormalizedEnd(end) {
		return Slot{}, ErrEmptySlot
	}
	return Slot{
		date:      date,
		startTime: startTime,
		endTime:   endTime,
		start:     start,
		end:       NormalizedEnd(end),
	}, nil
}

// FromStored rebuilds a slot from persisted columns without re-validating the date.
// Rows with unparseable times report ok=false and are skipped by callers.
func FromStored(date, startTime, endTime string) (Slot, bool) {
	start, err := ToMinutes(startTime)
	if err != nil {
		return Slot{}, false
	}
	end, err := ToMinutes(endTime)
	if err != nil {
		return Slot{}, false
	}
	return Slot{
		date:      date,
		startTime: startTime,
		endTime:   endTime,
		start:     start,
		end:       NormalizedEnd(end),
	}, true
}

func (s Slot) Date() string      { return s.date }
func (s Slot) StartTime() string { return s.startTime }
func (s Slot) EndTime() string   { return s.endTime }
func (s Slot) StartMinute() int  { return s.start }
func (s Slot) EndMinute() int    { return s.end }

func (s Slot) DurationMinutes() int {
	return s.end - s.start
}

func (s Slot) Overlaps(other Slot) bool {
	return s.date == other.date && Overlaps(s.start, s.end, other.start, other.end)
}

// SameInterval is exact slot equality, the matching rule for slot blocks.
func (s Slot) SameInterval(other Slot) bool {
	return s.date == other.date && s.start == other.start && s.end == other.end
}

// ContainsMinute reports whether minute m falls inside [start, end).
func (s Slot) ContainsMinute(m int) bool {
	return m >= s.start && m < s.end
}

func (s Slot) Key() string {
	return s.date + " " + s.startTime + "-" + s.endTime
}
