package models

import (
	"fmt"
	"time"
)

// Calendar date without time and location
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// DateOf returns calendar date of t in t's location
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// Time returns midnight of the date in UTC
func (d Date) Time() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

func (d Date) IsZero() bool {
	return d == Date{}
}

func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}

// Last date the user redeemed a token
type Verification struct {
	UserID int64
	Date   Date
}
