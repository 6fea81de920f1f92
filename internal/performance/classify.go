// Package performance turns a trainer's daily hours into a status label.
//
// Everything here is pure and deterministic. The same rules drive the admin
// team view and the trainer's own dashboard badge.
package performance

import "math"

type Status string

const (
	StatusOnLeave         Status = "On Leave"
	StatusHoliday         Status = "Holiday"
	StatusUnderperforming Status = "underperforming"
	StatusNormal          Status = "normal"
	StatusOverperforming  Status = "overperforming"
)

// Task types that change how a day is classified.
const (
	TypeLeave   = "Leave"
	TypeHoliday = "Holiday"
	TypeHalfDay = "Half Day"
	TypeOthers  = "Others"
)

const (
	fullDayMin = 7.0
	fullDayMax = 7.5
	halfDayMin = 3.5
	halfDayMax = 4.5
)

// Day is the aggregate of one user's tasks on one calendar date.
type Day struct {
	Hours     float64
	IsLeave   bool
	IsHoliday bool
	IsHalfDay bool
}

// Thresholds returns the inclusive normal band for a day.
func Thresholds(isHalfDay bool) (minHours, maxHours float64) {
	if isHalfDay {
		return halfDayMin, halfDayMax
	}
	return fullDayMin, fullDayMax
}

// Classify applies, in order: leave, holiday, then the hour thresholds.
// Below min is underperforming, up to and including max is normal, above is
// overperforming. NaN hours count as 0.
func Classify(d Day) Status {
	if d.IsLeave {
		return StatusOnLeave
	}
	if d.IsHoliday {
		return StatusHoliday
	}

	hours := d.Hours
	if math.IsNaN(hours) {
		hours = 0
	}

	minHours, maxHours := Thresholds(d.IsHalfDay)
	switch {
	case hours < minHours:
		return StatusUnderperforming
	case hours <= maxHours:
		return StatusNormal
	default:
		return StatusOverperforming
	}
}

// HoursOrZero resolves a possibly missing sum (e.g. a NULL SUM from the store) to a number.
func HoursOrZero(hours *float64) float64 {
	if hours == nil || math.IsNaN(*hours) {
		return 0
	}
	return *hours
}

// IsPersonalType reports whether a task type belongs only to its owner:
// no collaborators, hours fixed at zero.
func IsPersonalType(taskType string) bool {
	switch taskType {
	case TypeLeave, TypeHoliday, TypeHalfDay:
		return true
	}
	return false
}

// IsExclusiveType reports whether a task type must be the only task of its owner's day.
func IsExclusiveType(taskType string) bool {
	return taskType == TypeLeave || taskType == TypeHoliday
}

// Entry is the minimal view of one logged task used to derive a Day.
type Entry struct {
	TaskType string
	Hours    float64
}

// DayFromTasks sums hours and raises the type flags for a set of same-day entries.
func DayFromTasks(entries []Entry) Day {
	var d Day
	for _, e := range entries {
		d.Hours += e.Hours
		switch e.TaskType {
		case TypeLeave:
			d.IsLeave = true
		case TypeHoliday:
			d.IsHoliday = true
		case TypeHalfDay:
			d.IsHalfDay = true
		}
	}
	return d
}

// Counts is the team-wide number of trainers per status bucket.
type Counts struct {
	Underperforming int `json:"underperforming"`
	Normal          int `json:"normal"`
	Overperforming  int `json:"overperforming"`
	OnLeave         int `json:"onLeave"`
	Holiday         int `json:"holiday"`
}

func (c *Counts) Add(s Status) {
	switch s {
	case StatusUnderperforming:
		c.Underperforming++
	case StatusNormal:
		c.Normal++
	case StatusOverperforming:
		c.Overperforming++
	case StatusOnLeave:
		c.OnLeave++
	case StatusHoliday:
		c.Holiday++
	}
}

func (c Counts) Total() int {
	return c.Underperforming + c.Normal + c.Overperforming + c.OnLeave + c.Holiday
}
