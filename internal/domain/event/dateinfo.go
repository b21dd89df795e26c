package event

import "time"

// DateInfo holds display strings derived from an event date.
type DateInfo struct {
	Day      string // "07"
	Month    string // "Mar"
	Weekday  string // "Friday"
	LongForm string // "Friday, March 7, 2025"
	IsPast   bool
}

// NewDateInfo derives display strings and past-event detection.
// PRE: now is the reference instant
// POST: IsPast is true iff date is before now; zero date yields empty strings
func NewDateInfo(date, now time.Time) DateInfo {
	if date.IsZero() {
		return DateInfo{}
	}
	return DateInfo{
		Day:      date.Format("02"),
		Month:    date.Format("Jan"),
		Weekday:  date.Format("Monday"),
		LongForm: date.Format("Monday, January 2, 2006"),
		IsPast:   date.Before(now),
	}
}
