package schedule

import (
	"fmt"
	"sort"
)

// the grid: 12 periods of 55 minutes starting 08:00, 5-minute gaps
const (
	slotCount     = 12
	firstHour     = 8
	periodMinutes = 55
)

// DefaultSlots generates the empty time-slot template every day starts from.
func DefaultSlots() []Slot {
	slots := make([]Slot, 0, slotCount)
	hour, minute := firstHour, 0
	for i := 0; i < slotCount; i++ {
		start := fmt.Sprintf("%02d:%02d", hour, minute)
		endHour, endMinute := hour, minute+periodMinutes
		if endMinute >= 60 {
			endHour++
			endMinute -= 60
		}
		end := fmt.Sprintf("%02d:%02d", endHour, endMinute)
		slots = append(slots, Slot{StartTime: start, EndTime: end})

		minute += 60
		if minute >= 60 {
			hour++
			minute -= 60
		}
	}
	return slots
}

// DefaultWeek is an unassigned grid for every school day.
func DefaultWeek() Week {
	week := make(Week, len(DaysOfWeek))
	for _, day := range DaysOfWeek {
		week[day] = DefaultSlots()
	}
	return week
}

// MergeWeek lays fetched schedule rows over the default template. The
// backend may return several rows for the same time period; the
// subject-bearing one wins. Rows outside the template's time grid or the
// school week are dropped.
func MergeWeek(fetched map[string][]Slot) Week {
	week := DefaultWeek()

	for day, slots := range fetched {
		if !isSchoolDay(day) {
			continue
		}

		deduped := make(map[string]Slot, len(slots))
		for _, slot := range slots {
			key := slot.timeKey()
			if slot.Assigned() {
				deduped[key] = slot
				continue
			}
			if _, ok := deduped[key]; !ok {
				deduped[key] = slot
			}
		}

		ordered := make([]Slot, 0, len(deduped))
		for _, slot := range deduped {
			ordered = append(ordered, slot)
		}
		sort.Slice(ordered, func(i, j int) bool { return ordered[i].StartTime < ordered[j].StartTime })

		merged := week[day]
		for i, def := range merged {
			for _, slot := range ordered {
				if slot.StartTime == def.StartTime && slot.EndTime == def.EndTime {
					merged[i] = slot
					break
				}
			}
		}
		week[day] = merged
	}
	return week
}

// Flatten turns a week into bulk rows, skipping days with nothing assigned
// and no breaks. Breaks never carry subject or teacher ids.
func Flatten(week Week) []Entry {
	entries := make([]Entry, 0)
	for _, day := range DaysOfWeek {
		slots, ok := week[day]
		if !ok || !dayHasContent(slots) {
			continue
		}
		for _, slot := range slots {
			entry := Entry{
				DayOfWeek: day,
				StartTime: slot.StartTime,
				EndTime:   slot.EndTime,
				IsBreak:   slot.IsBreak,
			}
			if !slot.IsBreak {
				entry.SubjectID = slot.SubjectID
				entry.TeacherID = slot.TeacherID
			}
			entries = append(entries, entry)
		}
	}
	return entries
}

func dayHasContent(slots []Slot) bool {
	for _, slot := range slots {
		if slot.Assigned() || slot.IsBreak {
			return true
		}
	}
	return false
}

func isSchoolDay(day string) bool {
	for _, d := range DaysOfWeek {
		if d == day {
			return true
		}
	}
	return false
}
