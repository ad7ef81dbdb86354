package school

import (
	"strconv"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

// list pages search by name or id; close misspellings still match
const fuzzyThreshold = 0.72

// Match reports whether query matches candidate, case-insensitively, by
// substring or by similarity ratio.
func Match(query, candidate string) bool {
	query = strings.ToLower(strings.TrimSpace(query))
	candidate = strings.ToLower(candidate)
	if query == "" {
		return true
	}
	if strings.Contains(candidate, query) {
		return true
	}
	ratio := difflib.NewMatcher(strings.Split(query, ""), strings.Split(candidate, "")).QuickRatio()
	return ratio >= fuzzyThreshold
}

func matchAny(query string, fields ...string) bool {
	for _, f := range fields {
		if f != "" && Match(query, f) {
			return true
		}
	}
	return false
}

func FilterClasses(classes []Class, query string) []Class {
	if strings.TrimSpace(query) == "" {
		return classes
	}
	out := make([]Class, 0, len(classes))
	for _, cls := range classes {
		if matchAny(query, cls.Name, strconv.Itoa(cls.ID)) {
			out = append(out, cls)
		}
	}
	return out
}

func FilterSubjects(subjects []Subject, query string) []Subject {
	if strings.TrimSpace(query) == "" {
		return subjects
	}
	out := make([]Subject, 0, len(subjects))
	for _, sbj := range subjects {
		if matchAny(query, sbj.Name, strconv.Itoa(sbj.ID)) {
			out = append(out, sbj)
		}
	}
	return out
}

func FilterStudents(students []Student, query string) []Student {
	if strings.TrimSpace(query) == "" {
		return students
	}
	out := make([]Student, 0, len(students))
	for _, std := range students {
		if matchAny(query, std.FirstName+" "+std.LastName, std.Email, strconv.Itoa(std.ID)) {
			out = append(out, std)
		}
	}
	return out
}

func FilterTeachers(teachers []Teacher, query string) []Teacher {
	if strings.TrimSpace(query) == "" {
		return teachers
	}
	out := make([]Teacher, 0, len(teachers))
	for _, tch := range teachers {
		if matchAny(query, tch.FirstName+" "+tch.LastName, tch.Email, tch.TeacherCode.String, strconv.Itoa(tch.ID)) {
			out = append(out, tch)
		}
	}
	return out
}
