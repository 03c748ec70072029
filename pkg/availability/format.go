package availability

import "fmt"

const (
	shortDayLayout = "Mon, Jan 2"
	longDayLayout  = "Monday, January 2, 2006"
)

// Display renders a slot the way notification emails show it,
// e.g. "Mon, Jun 3, 9:00 AM - 9:30 AM".
func Display(start, end string) (string, error) {
	day, clock, err := displayParts(start, end, shortDayLayout)
	if err != nil {
		return "", err
	}
	return day + ", " + clock, nil
}

// LongDisplay splits a slot into a full date line and a time line,
// e.g. "Monday, June 3, 2024" and "9:00 AM - 9:30 AM".
func LongDisplay(start, end string) (string, string, error) {
	return displayParts(start, end, longDayLayout)
}

func displayParts(start, end, dayLayout string) (string, string, error) {
	from, err := ParseTimestamp(start)
	if err != nil {
		return "", "", err
	}
	to, err := ParseTimestamp(end)
	if err != nil {
		return "", "", err
	}
	return from.Format(dayLayout), fmt.Sprintf("%s - %s", from.Format(LabelLayout), to.Format(LabelLayout)), nil
}
