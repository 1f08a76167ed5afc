package planner

import (
	"fmt"
	"time"
)

// Saturday plans start at 11:00 local time.
const planHour = 11

// NextSaturday returns the next Saturday at 11:00 in now's location. A run
// on a Saturday schedules the following week's Saturday, never same-day.
func NextSaturday(now time.Time) time.Time {
	days := int(time.Saturday - now.Weekday())
	if days <= 0 {
		days += 7
	}
	target := now.AddDate(0, 0, days)
	return time.Date(target.Year(), target.Month(), target.Day(), planHour, 0, 0, 0, now.Location())
}

// EventTitle builds the calendar event title for a selected venue.
func EventTitle(venueName string) string {
	return fmt.Sprintf("Saturday Plan: %s", venueName)
}
