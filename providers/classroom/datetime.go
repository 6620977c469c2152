package classroom

import "time"

// Date is the Classroom calendar date type. Month is 1 based.
type Date struct {
	Year  int `json:"year"`
	Month int `json:"month"`
	Day   int `json:"day"`
}

// TimeOfDay is the Classroom wall clock type, expressed in UTC.
type TimeOfDay struct {
	Hours   int `json:"hours"`
	Minutes int `json:"minutes"`
	Seconds int `json:"seconds"`
	Nanos   int `json:"nanos"`
}

func DateOf(t time.Time) Date {
	t = t.UTC()
	return Date{Year: t.Year(), Month: int(t.Month()), Day: t.Day()}
}

func ClockOf(t time.Time) TimeOfDay {
	t = t.UTC()
	return TimeOfDay{Hours: t.Hour(), Minutes: t.Minute(), Seconds: t.Second()}
}
