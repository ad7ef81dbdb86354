package school

import (
	"encoding/json"
	"strconv"

	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"
)

// The backend is not consistent about field casing ("first_name" in one
// list, "firstName" in another) or about list nesting (classes arrive under
// data.classes, subjects as a bare array). Everything is mapped to one
// stable shape per entity here, at the data-access boundary; a document
// missing its id or name is rejected rather than propagated half-empty.

type rawDoc map[string]interface{}

func (r rawDoc) str(keys ...string) (string, bool) {
	for _, k := range keys {
		if v, ok := r[k].(string); ok {
			return v, true
		}
	}
	return "", false
}

func (r rawDoc) num(keys ...string) (int, bool) {
	for _, k := range keys {
		switch v := r[k].(type) {
		case float64:
			return int(v), true
		case string:
			if n, err := strconv.Atoi(v); err == nil {
				return n, true
			}
		}
	}
	return 0, false
}

func (r rawDoc) nullStr(keys ...string) null.String {
	if s, ok := r.str(keys...); ok && s != "" {
		return null.StringFrom(s)
	}
	return null.String{}
}

func (r rawDoc) nullInt(keys ...string) null.Int {
	if n, ok := r.num(keys...); ok {
		return null.IntFrom(n)
	}
	return null.Int{}
}

func (r rawDoc) strs(keys ...string) []string {
	for _, k := range keys {
		items, ok := r[k].([]interface{})
		if !ok {
			continue
		}
		out := make([]string, 0, len(items))
		for _, item := range items {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return []string{}
}

// listDocs accepts either a bare JSON array or an object nesting the array
// under one of the given keys.
func listDocs(data json.RawMessage, nestKeys ...string) ([]rawDoc, error) {
	var docs []rawDoc
	if err := json.Unmarshal(data, &docs); err == nil {
		return docs, nil
	}
	var nested map[string]json.RawMessage
	if err := json.Unmarshal(data, &nested); err != nil {
		return nil, errors.New("unexpected list payload shape")
	}
	for _, k := range nestKeys {
		raw, ok := nested[k]
		if !ok {
			continue
		}
		if err := json.Unmarshal(raw, &docs); err != nil {
			return nil, errors.Wrapf(err, "decoding %q list", k)
		}
		return docs, nil
	}
	return nil, errors.Errorf("list payload missing %v", nestKeys)
}

func classFromRaw(r rawDoc) (Class, error) {
	id, ok := r.num("id", "ID", "class_id")
	if !ok {
		return Class{}, errors.New("class document missing id")
	}
	name, ok := r.str("name", "Name", "class_name")
	if !ok {
		return Class{}, errors.New("class document missing name")
	}
	return Class{
		ID:       id,
		Name:     name,
		Grade:    r.nullStr("grade", "Grade"),
		Students: r.strs("students", "Students"),
		Teachers: r.strs("teachers", "Teachers"),
		Subjects: r.strs("subjects", "Subjects"),
	}, nil
}

func subjectFromRaw(r rawDoc) (Subject, error) {
	id, ok := r.num("id", "ID", "subject_id")
	if !ok {
		return Subject{}, errors.New("subject document missing id")
	}
	name, ok := r.str("name", "Name", "subject_name")
	if !ok {
		return Subject{}, errors.New("subject document missing name")
	}
	return Subject{
		ID:      id,
		Name:    name,
		Grade:   r.nullStr("grade", "Grade"),
		Classes: r.strs("classes", "Classes"),
	}, nil
}

func studentFromRaw(r rawDoc) (Student, error) {
	id, ok := r.num("id", "ID", "student_id")
	if !ok {
		return Student{}, errors.New("student document missing id")
	}
	first, _ := r.str("first_name", "firstName")
	last, _ := r.str("last_name", "lastName")
	email, _ := r.str("email", "Email")
	return Student{
		ID:        id,
		FirstName: first,
		LastName:  last,
		Email:     email,
		Image:     r.nullStr("image", "profilePicture"),
		ClassID:   r.nullInt("class_id", "classId"),
	}, nil
}

func teacherFromRaw(r rawDoc) (Teacher, error) {
	id, ok := r.num("id", "ID")
	if !ok {
		return Teacher{}, errors.New("teacher document missing id")
	}
	first, _ := r.str("first_name", "firstName")
	last, _ := r.str("last_name", "lastName")
	email, _ := r.str("email", "Email")
	return Teacher{
		ID:          id,
		FirstName:   first,
		LastName:    last,
		Email:       email,
		TeacherCode: r.nullStr("teacher_id", "teacherId"),
		AuthUID:     r.nullStr("auth_uid", "authUid", "firebase_uid"),
	}, nil
}

// DecodeClasses normalizes a class-list payload (nested under "classes" in
// the observed backend).
func DecodeClasses(data json.RawMessage) ([]Class, error) {
	docs, err := listDocs(data, "classes")
	if err != nil {
		return nil, err
	}
	out := make([]Class, 0, len(docs))
	for _, doc := range docs {
		cls, err := classFromRaw(doc)
		if err != nil {
			return nil, err
		}
		out = append(out, cls)
	}
	return out, nil
}

func DecodeSubjects(data json.RawMessage) ([]Subject, error) {
	docs, err := listDocs(data, "subjects")
	if err != nil {
		return nil, err
	}
	out := make([]Subject, 0, len(docs))
	for _, doc := range docs {
		sbj, err := subjectFromRaw(doc)
		if err != nil {
			return nil, err
		}
		out = append(out, sbj)
	}
	return out, nil
}

func DecodeStudents(data json.RawMessage) ([]Student, error) {
	docs, err := listDocs(data, "students")
	if err != nil {
		return nil, err
	}
	out := make([]Student, 0, len(docs))
	for _, doc := range docs {
		std, err := studentFromRaw(doc)
		if err != nil {
			return nil, err
		}
		out = append(out, std)
	}
	return out, nil
}

func DecodeTeachers(data json.RawMessage) ([]Teacher, error) {
	docs, err := listDocs(data, "teachers")
	if err != nil {
		return nil, err
	}
	out := make([]Teacher, 0, len(docs))
	for _, doc := range docs {
		tch, err := teacherFromRaw(doc)
		if err != nil {
			return nil, err
		}
		out = append(out, tch)
	}
	return out, nil
}

// DecodeClass normalizes a single-entity payload.
func DecodeClass(data json.RawMessage) (Class, error) {
	var doc rawDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return Class{}, errors.Wrap(err, "decoding class")
	}
	return classFromRaw(doc)
}

func DecodeSubject(data json.RawMessage) (Subject, error) {
	var doc rawDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return Subject{}, errors.Wrap(err, "decoding subject")
	}
	return subjectFromRaw(doc)
}

func DecodeStudent(data json.RawMessage) (Student, error) {
	var doc rawDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return Student{}, errors.Wrap(err, "decoding student")
	}
	return studentFromRaw(doc)
}

func DecodeTeacher(data json.RawMessage) (Teacher, error) {
	var doc rawDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return Teacher{}, errors.Wrap(err, "decoding teacher")
	}
	return teacherFromRaw(doc)
}
