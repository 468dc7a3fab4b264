// Package timetable serves the static teaching schedule. The original
// system never persisted timetables; it served a fixed schedule per
// weekday, which this package models as an in-code source.
package timetable

import (
	"strings"
	"time"
)

// Slot is one scheduled class.
type Slot struct {
	ID        int    `json:"id"`
	Subject   string `json:"subject"`
	Teacher   string `json:"teacher"`
	Classroom string `json:"classroom"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
	DayOfWeek string `json:"dayOfWeek"`
}

// DaySchedule is the full schedule for one weekday.
type DaySchedule struct {
	Day          string  `json:"day"`
	Timetable    []Slot  `json:"timetable"`
	TotalClasses int     `json:"totalClasses"`
	TotalHours   float64 `json:"totalHours"`
}

var weekdays = []string{"MONDAY", "TUESDAY", "WEDNESDAY", "THURSDAY", "FRIDAY"}

var subjects = []string{"Operating Systems", "Computer Networks", "Data Structures", "Database Management", "Software Engineering"}
var classrooms = []string{"A101", "B203", "C102", "D301", "E205"}
var times = [][2]string{{"09:00", "10:00"}, {"10:15", "11:15"}, {"11:30", "12:30"}, {"14:00", "15:00"}, {"15:15", "16:15"}}

// ForDay returns the schedule for one weekday, three classes per day.
func ForDay(day string) DaySchedule {
	day = strings.ToUpper(day)
	slots := make([]Slot, 0, 3)
	for i := 0; i < 3; i++ {
		slots = append(slots, Slot{
			ID:        i + 1,
			Subject:   subjects[i%len(subjects)],
			Teacher:   "Dr. Sarah Johnson",
			Classroom: classrooms[i%len(classrooms)],
			StartTime: times[i%len(times)][0],
			EndTime:   times[i%len(times)][1],
			DayOfWeek: day,
		})
	}
	return DaySchedule{
		Day:          day,
		Timetable:    slots,
		TotalClasses: len(slots),
		TotalHours:   float64(len(slots)),
	}
}

// Today returns the schedule for the current weekday.
func Today(now time.Time) DaySchedule {
	return ForDay(strings.ToUpper(now.Weekday().String()))
}

// Week returns the Monday-to-Friday schedule keyed by weekday.
func Week() map[string][]Slot {
	week := make(map[string][]Slot, len(weekdays))
	for _, day := range weekdays {
		week[day] = ForDay(day).Timetable
	}
	return week
}
