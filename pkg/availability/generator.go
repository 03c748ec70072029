package availability

import (
	"fmt"
	"time"
)

// Generate enumerates the slots of a meeting window: every date from
// dateStart to dateEnd inclusive, and on each date every full
// durationMinutes interval from timeStart up to timeEnd. Minutes left over
// at the end of the window are dropped.
//
// Slots are ordered by date, then by start time. Every date yields the same
// sequence of offsets, so consumers may line dates up by index.
//
// dateEnd before dateStart yields an empty result, not an error.
func Generate(dateStart, dateEnd, timeStart, timeEnd string, durationMinutes int) ([]GeneratedSlot, error) {
	if durationMinutes <= 0 {
		return nil, fmt.Errorf("err generating slots: duration must be positive, got %d", durationMinutes)
	}
	days, err := dateRange(dateStart, dateEnd)
	if err != nil {
		return nil, fmt.Errorf("err generating slots: %w", err)
	}
	from, err := clockMinutes(timeStart)
	if err != nil {
		return nil, fmt.Errorf("err generating slots: %w", err)
	}
	to, err := clockMinutes(timeEnd)
	if err != nil {
		return nil, fmt.Errorf("err generating slots: %w", err)
	}

	perDay := 0
	if to > from {
		perDay = (to - from) / durationMinutes
	}
	slots := make([]GeneratedSlot, 0, len(days)*perDay)
	for _, day := range days {
		date := day.Format(DateLayout)
		for m := from; m+durationMinutes <= to; m += durationMinutes {
			start := day.Add(time.Duration(m) * time.Minute)
			end := day.Add(time.Duration(m+durationMinutes) * time.Minute)
			slots = append(slots, GeneratedSlot{
				Start: start.Format(TimestampLayout),
				End:   end.Format(TimestampLayout),
				Label: start.Format(LabelLayout),
				Date:  date,
			})
		}
	}
	return slots, nil
}

// Dates lists the calendar dates of the range, inclusive, as YYYY-MM-DD.
func Dates(dateStart, dateEnd string) ([]string, error) {
	days, err := dateRange(dateStart, dateEnd)
	if err != nil {
		return nil, err
	}
	dates := make([]string, 0, len(days))
	for _, day := range days {
		dates = append(dates, day.Format(DateLayout))
	}
	return dates, nil
}

func dateRange(dateStart, dateEnd string) ([]time.Time, error) {
	first, err := time.Parse(DateLayout, dateStart)
	if err != nil {
		return nil, fmt.Errorf("err parsing start date %q: %w", dateStart, err)
	}
	last, err := time.Parse(DateLayout, dateEnd)
	if err != nil {
		return nil, fmt.Errorf("err parsing end date %q: %w", dateEnd, err)
	}
	var days []time.Time
	for day := first; !day.After(last); day = day.AddDate(0, 0, 1) {
		days = append(days, day)
	}
	return days, nil
}

func clockMinutes(value string) (int, error) {
	t, err := time.Parse(ClockLayout, value)
	if err != nil {
		return 0, fmt.Errorf("err parsing time %q: %w", value, err)
	}
	return t.Hour()*60 + t.Minute(), nil
}
