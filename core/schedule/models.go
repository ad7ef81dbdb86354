package schedule

import "github.com/volatiletech/null/v8"

// DaysOfWeek is the school week, in grid order.
var DaysOfWeek = []string{"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday"}

// Slot is one period in the weekly grid. A break carries no subject or
// teacher; an unassigned slot carries neither flag nor ids.
type Slot struct {
	StartTime string   `json:"start_time"` // HH:MM
	EndTime   string   `json:"end_time"`   // HH:MM
	IsBreak   bool     `json:"is_break"`
	SubjectID null.Int `json:"subject_id"`
	TeacherID null.Int `json:"teacher_id"`
}

// Assigned reports whether the slot carries a subject.
func (s Slot) Assigned() bool { return s.SubjectID.Valid }

func (s Slot) timeKey() string { return s.StartTime + "-" + s.EndTime }

// Week maps day name to that day's slot list.
type Week map[string][]Slot

// Entry is the flattened wire row for a bulk schedule write.
type Entry struct {
	DayOfWeek string   `json:"day_of_week"`
	StartTime string   `json:"start_time"`
	EndTime   string   `json:"end_time"`
	IsBreak   bool     `json:"is_break"`
	SubjectID null.Int `json:"subject_id"`
	TeacherID null.Int `json:"teacher_id"`
}

// BulkSchedule replaces a class's weekly schedule in one write.
type BulkSchedule struct {
	ClassID      int     `json:"class_id"`
	Semester     int     `json:"semester"`
	AcademicYear int     `json:"academic_year"`
	Schedules    []Entry `json:"schedules"`
}
