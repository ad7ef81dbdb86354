package profile

import (
	"time"

	"github.com/volatiletech/null/v8"
)

// Role partitions the profile store: each role owns one collection and a
// given identity has at most one document across all of them combined.
type Role string

const (
	RoleTeacher Role = "teacher"
	RoleAdmin   Role = "admin"
	RoleStudent Role = "student"
	RoleParent  Role = "parent"
)

// Collection returns the role's document collection name.
func (r Role) Collection() string { return string(r) + "s" }

// ProbeOrder is the fixed sequence in which role collections are checked to
// resolve a profile. The first match is authoritative.
var ProbeOrder = []Role{RoleTeacher, RoleAdmin, RoleStudent, RoleParent}

// Profile is the role-specific record describing an authenticated user,
// keyed by identity id in its role collection.
type Profile struct {
	UID         string      `json:"id"`
	Role        Role        `json:"-"` // derived from the owning collection
	Name        string      `json:"name"`
	Email       string      `json:"email"`
	Picture     null.String `json:"profilePicture,omitempty"`
	TeacherCode null.String `json:"teacher_id,omitempty"` // teachers only, e.g. TEC-0001
	ClassIDs    []string    `json:"classes,omitempty"`    // teachers only
	SubjectIDs  []string    `json:"subjects,omitempty"`   // teachers only
	ChildUIDs   []string    `json:"children,omitempty"`   // parents only
	LastLogin   null.Time   `json:"lastLogin"`
	CreatedAt   time.Time   `json:"createdAt"`
}

// UpdateInput carries the fields a profile-edit form may change.
type UpdateInput struct {
	Name    string `json:"name" validate:"required"`
	Email   string `json:"email" validate:"required,email"`
	Picture string `json:"profilePicture" validate:"omitempty,url"`
}
