package booking

import "time"

// DayChoice is one button of the day step.
type DayChoice struct {
	Day        int    `json:"day"`
	Label      string `json:"label"`
	Selectable bool   `json:"selectable"`
}

// DaysIn returns the number of days of month in year: day 0 of the next month.
func DaysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// DayChoices lists every day of the month. Days strictly before today (in
// now's location, midnight truncated) are not selectable.
func DayChoices(year int, month time.Month, now time.Time) []DayChoice {
	loc := now.Location()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)

	n := DaysIn(year, month)
	days := make([]DayChoice, 0, n)
	for d := 1; d <= n; d++ {
		date := time.Date(year, month, d, 0, 0, 0, 0, loc)
		days = append(days, DayChoice{
			Day:        d,
			Label:      twoDigits(d),
			Selectable: !date.Before(today),
		})
	}
	return days
}
