package school

import "github.com/volatiletech/null/v8"

// View-models: the normalized, UI-facing shapes derived from the backend's
// JSON. Backend entities carry numeric ids; these are a separate namespace
// from the identity-keyed profile documents (Teacher.AuthUID is the one
// explicit bridge).

type Class struct {
	ID       int         `json:"id"`
	Name     string      `json:"name"`
	Grade    null.String `json:"grade"`
	Students []string    `json:"students"`
	Teachers []string    `json:"teachers"`
	Subjects []string    `json:"subjects"`
}

type Subject struct {
	ID      int         `json:"id"`
	Name    string      `json:"name"`
	Grade   null.String `json:"grade"`
	Classes []string    `json:"classes"`
}

type Student struct {
	ID        int         `json:"id"`
	FirstName string      `json:"first_name"`
	LastName  string      `json:"last_name"`
	Email     string      `json:"email"`
	Image     null.String `json:"image"`
	ClassID   null.Int    `json:"class_id"`
}

type Teacher struct {
	ID          int         `json:"id"`
	FirstName   string      `json:"first_name"`
	LastName    string      `json:"last_name"`
	Email       string      `json:"email"`
	TeacherCode null.String `json:"teacher_id"`
	AuthUID     null.String `json:"auth_uid"` // identity-provider uid; profile-store key
}

// TeacherRef is the reduced teacher shape returned by assignment lookups.
type TeacherRef struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// SubjectTeachers lists the teachers assigned to one subject.
type SubjectTeachers struct {
	Subject  string       `json:"subject"`
	Teachers []TeacherRef `json:"teachers"`
}

// SubjectAssignment is a subject taught in a class, with its teacher when
// one is assigned.
type SubjectAssignment struct {
	SubjectID   int         `json:"subject_id"`
	SubjectName string      `json:"subject_name"`
	Teacher     *TeacherRef `json:"teacher,omitempty"`
}

// mutation inputs

type NewClass struct {
	Name  string `json:"name" validate:"required"`
	Grade string `json:"grade" validate:"omitempty"`
}

type NewSubject struct {
	Name  string `json:"name" validate:"required"`
	Grade string `json:"grade" validate:"omitempty"`
}

type NewStudent struct {
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8"`
	Image     string `json:"image" validate:"omitempty,url"`
}

type NewTeacher struct {
	FirstName   string `json:"first_name" validate:"required"`
	LastName    string `json:"last_name" validate:"omitempty"`
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=8"`
	AuthUID     string `json:"auth_uid" validate:"required"`
	TeacherCode string `json:"teacher_id" validate:"required"`
}
