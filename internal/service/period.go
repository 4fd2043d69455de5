package service

import "time"

// DateLayout is the DD.MM.YYYY format expected by the rate source.
const DateLayout = "02.01.2006"

// Period is an ordered list of formatted dates, most recent first.
type Period []string

// BuildPeriod returns the `days` calendar dates before now: yesterday first, then going back.
func BuildPeriod(now time.Time, days int) Period {
	if days <= 0 {
		return Period{}
	}

	period := make(Period, 0, days)
	cursor := now
	for i := 0; i < days; i++ {
		cursor = cursor.AddDate(0, 0, -1)
		period = append(period, cursor.Format(DateLayout))
	}
	return period
}
