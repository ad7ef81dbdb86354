package school

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_Match(t *testing.T) {
	tests := []struct {
		query     string
		candidate string
		want      bool
	}{
		{"", "anything", true},
		{"3a", "3A", true},
		{"calc", "Calculus", true},
		{"CALCULUS", "calculus", true},
		{"calculos", "calculus", true}, // close misspelling
		{"chemistry", "calculus", false},
		{"42", "13", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Match(tt.query, tt.candidate), "Match(%q, %q)", tt.query, tt.candidate)
	}
}

func Test_FilterClasses(t *testing.T) {
	classes := []Class{
		{ID: 1, Name: "3A"},
		{ID: 2, Name: "2B"},
		{ID: 31, Name: "1A"},
	}

	assert.Len(t, FilterClasses(classes, ""), 3)
	assert.Equal(t, []Class{classes[0]}, FilterClasses(classes, "3a"))
	assert.Equal(t, []Class{classes[2]}, FilterClasses(classes, "31")) // by id
	assert.Empty(t, FilterClasses(classes, "zzz"))
}

func Test_FilterStudents(t *testing.T) {
	students := []Student{
		{ID: 1, FirstName: "Mohamed", LastName: "Emad", Email: "mo@school.org"},
		{ID: 2, FirstName: "Jane", LastName: "Doe", Email: "jane@school.org"},
	}

	got := FilterStudents(students, "mohamed emad")
	assert.Equal(t, []Student{students[0]}, got)

	got = FilterStudents(students, "doe")
	assert.Equal(t, []Student{students[1]}, got)
}
