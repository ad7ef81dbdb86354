package rest

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/shulehub/shule/core/school"
)

var _ school.Repository = (*Client)(nil)

func (c *Client) ListClasses(ctx context.Context) ([]school.Class, error) {
	data, err := c.get(ctx, "/api/classes")
	if err != nil {
		return nil, err
	}
	return school.DecodeClasses(data)
}

func (c *Client) CreateClass(ctx context.Context, nc school.NewClass) (school.Class, error) {
	data, err := c.post(ctx, "/api/classes", nc)
	if err != nil {
		return school.Class{}, err
	}
	return school.DecodeClass(data)
}

func (c *Client) UpdateClass(ctx context.Context, id int, nc school.NewClass) (school.Class, error) {
	data, err := c.put(ctx, fmt.Sprintf("/api/classes/%d", id), nc)
	if err != nil {
		return school.Class{}, err
	}
	return school.DecodeClass(data)
}

func (c *Client) DeleteClass(ctx context.Context, id int) error {
	return c.delete(ctx, fmt.Sprintf("/api/classes/%d", id))
}

func (c *Client) ListSubjects(ctx context.Context) ([]school.Subject, error) {
	data, err := c.get(ctx, "/api/subjects")
	if err != nil {
		return nil, err
	}
	return school.DecodeSubjects(data)
}

func (c *Client) CreateSubject(ctx context.Context, ns school.NewSubject) (school.Subject, error) {
	data, err := c.post(ctx, "/api/subjects", ns)
	if err != nil {
		return school.Subject{}, err
	}
	return school.DecodeSubject(data)
}

func (c *Client) DeleteSubject(ctx context.Context, id int) error {
	return c.delete(ctx, fmt.Sprintf("/api/subjects/%d", id))
}

func (c *Client) ListStudents(ctx context.Context) ([]school.Student, error) {
	data, err := c.get(ctx, "/api/students")
	if err != nil {
		return nil, err
	}
	return school.DecodeStudents(data)
}

func (c *Client) CreateStudent(ctx context.Context, ns school.NewStudent) (school.Student, error) {
	data, err := c.post(ctx, "/api/students", ns)
	if err != nil {
		return school.Student{}, err
	}
	return school.DecodeStudent(data)
}

func (c *Client) ListTeachers(ctx context.Context) ([]school.Teacher, error) {
	data, err := c.get(ctx, "/api/teachers")
	if err != nil {
		return nil, err
	}
	return school.DecodeTeachers(data)
}

func (c *Client) RegisterTeacher(ctx context.Context, nt school.NewTeacher) (school.Teacher, error) {
	data, err := c.post(ctx, "/api/teachers", nt)
	if err != nil {
		return school.Teacher{}, err
	}
	return school.DecodeTeacher(data)
}

func (c *Client) SubjectTeachers(ctx context.Context, subjectID int) (school.SubjectTeachers, error) {
	data, err := c.get(ctx, fmt.Sprintf("/api/teacher-subjects/subject/%d", subjectID))
	if err != nil {
		return school.SubjectTeachers{}, err
	}
	var out school.SubjectTeachers
	if err := json.Unmarshal(data, &out); err != nil {
		return school.SubjectTeachers{}, err
	}
	return out, nil
}

func (c *Client) ClassSubjects(ctx context.Context, classID int) ([]school.SubjectAssignment, error) {
	data, err := c.get(ctx, fmt.Sprintf("/api/class-subjects/class/%d", classID))
	if err != nil {
		return nil, err
	}
	var out []school.SubjectAssignment
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) AssignTeacherSubject(ctx context.Context, teacherID, subjectID int) error {
	_, err := c.do(ctx, http.MethodPost, "/api/teacher-subjects", map[string]int{
		"teacher_id": teacherID,
		"subject_id": subjectID,
	})
	return err
}

func (c *Client) AssignClassSubject(ctx context.Context, classID, subjectID, teacherID int) error {
	_, err := c.do(ctx, http.MethodPost, "/api/class-subjects", map[string]int{
		"class_id":   classID,
		"subject_id": subjectID,
		"teacher_id": teacherID,
	})
	return err
}
