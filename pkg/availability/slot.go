// Package availability turns a meeting's candidate window into discrete slots
// and tallies respondents' selections against them.
//
// All arithmetic is naive local time: dates and clock times are combined
// without any timezone conversion.
package availability

import (
	"errors"
	"fmt"
	"time"
)

const (
	DateLayout      = "2006-01-02"
	ClockLayout     = "15:04"
	TimestampLayout = "2006-01-02T15:04:05"
	LabelLayout     = "3:04 PM"
)

var ErrNotAligned = errors.New("timestamp is not minute aligned")

// timestampLayouts are tried in order when reading a slot bound back in.
var timestampLayouts = []string{TimestampLayout, "2006-01-02T15:04"}

// Key identifies a slot independently of how its bounds were formatted:
// the calendar date of the start plus minute offsets from that date's midnight.
type Key struct {
	Date  string
	Start int
	End   int
}

// GeneratedSlot is one cell of the availability grid. It is derived from the
// meeting parameters on every read and never stored.
type GeneratedSlot struct {
	Start string `json:"start"`
	End   string `json:"end"`
	Label string `json:"label"`
	Date  string `json:"date"`
}

// Key returns the structured identity of the slot.
func (s GeneratedSlot) Key() (Key, error) {
	return ParseKey(s.Start, s.End)
}

// ParseTimestamp reads a naive local timestamp such as 2024-06-03T09:30:00.
func ParseTimestamp(value string) (time.Time, error) {
	var err error
	for _, layout := range timestampLayouts {
		var t time.Time
		if t, err = time.Parse(layout, value); err == nil {
			if t.Second() != 0 || t.Nanosecond() != 0 {
				return time.Time{}, fmt.Errorf("%q: %w", value, ErrNotAligned)
			}
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("err parsing timestamp %q: %w", value, err)
}

// ParseKey converts a (start, end) pair of timestamps into a Key.
func ParseKey(start, end string) (Key, error) {
	from, err := ParseTimestamp(start)
	if err != nil {
		return Key{}, err
	}
	to, err := ParseTimestamp(end)
	if err != nil {
		return Key{}, err
	}
	day := truncateDay(from)
	return Key{
		Date:  day.Format(DateLayout),
		Start: int(from.Sub(day) / time.Minute),
		End:   int(to.Sub(day) / time.Minute),
	}, nil
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
