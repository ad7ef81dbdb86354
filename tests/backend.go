package testutil

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"sync"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
)

// FakeBackend is an in-process stand-in for the school REST backend. Every
// route answers the uniform envelope {success, data, message}; flipping
// Interstitial on makes it answer an HTML page instead, the way a tunnel
// provider interposes before the first visit.
type FakeBackend struct {
	URL string

	mu     sync.Mutex
	nextID int

	classes  map[int]map[string]interface{}
	subjects map[int]map[string]interface{}
	students map[int]map[string]interface{}
	teachers map[int]map[string]interface{}

	teacherSubjects map[int][]int         // subjectID -> teacherIDs
	classSubjects   map[int][][2]int      // classID -> (subjectID, teacherID)
	schedules       map[int]interface{}   // classID -> raw bulk payload
	admins          map[string]fakeAdmin  // email -> account

	// Interstitial makes every response an HTML page until turned off.
	Interstitial bool
	// FailNext makes the next request answer 200 {success:false, message}.
	FailNext string
}

type fakeAdmin struct {
	password string
	token    string
	name     string
}

func NewFakeBackend(t *testing.T) *FakeBackend {
	t.Helper()

	b := &FakeBackend{
		nextID:          1,
		classes:         make(map[int]map[string]interface{}),
		subjects:        make(map[int]map[string]interface{}),
		students:        make(map[int]map[string]interface{}),
		teachers:        make(map[int]map[string]interface{}),
		teacherSubjects: make(map[int][]int),
		classSubjects:   make(map[int][][2]int),
		schedules:       make(map[int]interface{}),
		admins:          make(map[string]fakeAdmin),
	}

	e := echo.New()
	e.Logger.SetLevel(log.OFF)
	e.HideBanner = true
	e.Use(b.intercept)

	e.GET("/api/classes", b.listClasses)
	e.POST("/api/classes", b.createClass)
	e.PUT("/api/classes/:id", b.updateClass)
	e.DELETE("/api/classes/:id", b.deleteEntity(func() map[int]map[string]interface{} { return b.classes }))

	e.GET("/api/subjects", b.listSubjects)
	e.POST("/api/subjects", b.createSubject)
	e.DELETE("/api/subjects/:id", b.deleteEntity(func() map[int]map[string]interface{} { return b.subjects }))

	e.GET("/api/students", b.listBare(func() map[int]map[string]interface{} { return b.students }))
	e.POST("/api/students", b.createEntity(func() map[int]map[string]interface{} { return b.students }))

	e.GET("/api/teachers", b.listBare(func() map[int]map[string]interface{} { return b.teachers }))
	e.POST("/api/teachers", b.createEntity(func() map[int]map[string]interface{} { return b.teachers }))

	e.GET("/api/teacher-subjects/subject/:id", b.subjectTeachers)
	e.POST("/api/teacher-subjects", b.assignTeacherSubject)
	e.GET("/api/class-subjects/class/:id", b.classSubjectList)
	e.POST("/api/class-subjects", b.assignClassSubject)

	e.GET("/api/schedules/class/:id", b.classSchedule)
	e.POST("/api/schedules/bulk", b.saveSchedule)

	e.POST("/api/admins/login", b.login)

	srv := httptest.NewServer(e)
	t.Cleanup(srv.Close)
	b.URL = srv.URL
	return b
}

func (b *FakeBackend) intercept(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		b.mu.Lock()
		interstitial := b.Interstitial
		fail := b.FailNext
		b.FailNext = ""
		b.mu.Unlock()

		if interstitial {
			return c.HTML(http.StatusOK, "<html><body>You are about to visit a tunnel.</body></html>")
		}
		if fail != "" {
			return c.JSON(http.StatusOK, echo.Map{"success": false, "message": fail})
		}
		return next(c)
	}
}

func ok(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": data})
}

func fail(c echo.Context, status int, message string) error {
	return c.JSON(status, echo.Map{"success": false, "message": message})
}

func (b *FakeBackend) allocID() int {
	id := b.nextID
	b.nextID++
	return id
}

func sortedDocs(entities map[int]map[string]interface{}) []map[string]interface{} {
	ids := make([]int, 0, len(entities))
	for id := range entities {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	out := make([]map[string]interface{}, 0, len(ids))
	for _, id := range ids {
		out = append(out, entities[id])
	}
	return out
}

func (b *FakeBackend) listClasses(c echo.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return ok(c, echo.Map{"classes": sortedDocs(b.classes)})
}

func (b *FakeBackend) createClass(c echo.Context) error {
	var in map[string]interface{}
	if err := c.Bind(&in); err != nil {
		return fail(c, http.StatusBadRequest, "invalid body")
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	id := b.allocID()
	in["id"] = id
	b.classes[id] = in
	return ok(c, in)
}

func (b *FakeBackend) updateClass(c echo.Context) error {
	id, _ := strconv.Atoi(c.Param("id"))
	var in map[string]interface{}
	// Bind would also copy the :id path param into the map; decode only the body.
	if err := (&echo.DefaultBinder{}).BindBody(c, &in); err != nil {
		return fail(c, http.StatusBadRequest, "invalid body")
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	doc, exists := b.classes[id]
	if !exists {
		return fail(c, http.StatusNotFound, fmt.Sprintf("class %d not found", id))
	}
	for k, v := range in {
		doc[k] = v
	}
	return ok(c, doc)
}

func (b *FakeBackend) listSubjects(c echo.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return ok(c, sortedDocs(b.subjects)) // bare array, unlike classes
}

func (b *FakeBackend) createSubject(c echo.Context) error {
	var in map[string]interface{}
	if err := c.Bind(&in); err != nil {
		return fail(c, http.StatusBadRequest, "invalid body")
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	id := b.allocID()
	in["id"] = id
	b.subjects[id] = in
	return ok(c, in)
}

func (b *FakeBackend) listBare(entities func() map[int]map[string]interface{}) echo.HandlerFunc {
	return func(c echo.Context) error {
		b.mu.Lock()
		defer b.mu.Unlock()
		return ok(c, sortedDocs(entities()))
	}
}

func (b *FakeBackend) createEntity(entities func() map[int]map[string]interface{}) echo.HandlerFunc {
	return func(c echo.Context) error {
		var in map[string]interface{}
		if err := c.Bind(&in); err != nil {
			return fail(c, http.StatusBadRequest, "invalid body")
		}
		b.mu.Lock()
		defer b.mu.Unlock()
		id := b.allocID()
		in["id"] = id
		delete(in, "password")
		entities()[id] = in
		return ok(c, in)
	}
}

func (b *FakeBackend) deleteEntity(entities func() map[int]map[string]interface{}) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, _ := strconv.Atoi(c.Param("id"))
		b.mu.Lock()
		defer b.mu.Unlock()
		if _, exists := entities()[id]; !exists {
			return fail(c, http.StatusNotFound, fmt.Sprintf("entity %d not found", id))
		}
		delete(entities(), id)
		return ok(c, nil)
	}
}

func (b *FakeBackend) subjectTeachers(c echo.Context) error {
	subjectID, _ := strconv.Atoi(c.Param("id"))
	b.mu.Lock()
	defer b.mu.Unlock()

	subject, exists := b.subjects[subjectID]
	if !exists {
		return fail(c, http.StatusNotFound, fmt.Sprintf("subject %d not found", subjectID))
	}
	teachers := make([]echo.Map, 0)
	for _, tid := range b.teacherSubjects[subjectID] {
		if doc, exists := b.teachers[tid]; exists {
			teachers = append(teachers, echo.Map{
				"id":   tid,
				"name": fmt.Sprintf("%v %v", doc["first_name"], doc["last_name"]),
			})
		}
	}
	return ok(c, echo.Map{"subject": subject["name"], "teachers": teachers})
}

func (b *FakeBackend) assignTeacherSubject(c echo.Context) error {
	var in struct {
		TeacherID int `json:"teacher_id"`
		SubjectID int `json:"subject_id"`
	}
	if err := c.Bind(&in); err != nil {
		return fail(c, http.StatusBadRequest, "invalid body")
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.teacherSubjects[in.SubjectID] = append(b.teacherSubjects[in.SubjectID], in.TeacherID)
	return ok(c, nil)
}

func (b *FakeBackend) classSubjectList(c echo.Context) error {
	classID, _ := strconv.Atoi(c.Param("id"))
	b.mu.Lock()
	defer b.mu.Unlock()

	assignments := make([]echo.Map, 0)
	for _, pair := range b.classSubjects[classID] {
		subjectID, teacherID := pair[0], pair[1]
		a := echo.Map{"subject_id": subjectID}
		if doc, exists := b.subjects[subjectID]; exists {
			a["subject_name"] = doc["name"]
		}
		if doc, exists := b.teachers[teacherID]; exists {
			a["teacher"] = echo.Map{
				"id":   teacherID,
				"name": fmt.Sprintf("%v %v", doc["first_name"], doc["last_name"]),
			}
		}
		assignments = append(assignments, a)
	}
	return ok(c, assignments)
}

func (b *FakeBackend) assignClassSubject(c echo.Context) error {
	var in struct {
		ClassID   int `json:"class_id"`
		SubjectID int `json:"subject_id"`
		TeacherID int `json:"teacher_id"`
	}
	if err := c.Bind(&in); err != nil {
		return fail(c, http.StatusBadRequest, "invalid body")
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.classSubjects[in.ClassID] = append(b.classSubjects[in.ClassID], [2]int{in.SubjectID, in.TeacherID})
	return ok(c, nil)
}

func (b *FakeBackend) classSchedule(c echo.Context) error {
	classID, _ := strconv.Atoi(c.Param("id"))
	b.mu.Lock()
	defer b.mu.Unlock()

	bulk, exists := b.schedules[classID]
	if !exists {
		return fail(c, http.StatusNotFound, fmt.Sprintf("no schedule for class %d", classID))
	}
	byDay := make(map[string][]map[string]interface{})
	if m, ok := bulk.(map[string]interface{}); ok {
		if rows, ok := m["schedules"].([]interface{}); ok {
			for _, raw := range rows {
				if row, ok := raw.(map[string]interface{}); ok {
					day, _ := row["day_of_week"].(string)
					byDay[day] = append(byDay[day], row)
				}
			}
		}
	}
	return ok(c, echo.Map{"schedules": byDay})
}

func (b *FakeBackend) saveSchedule(c echo.Context) error {
	var in map[string]interface{}
	if err := c.Bind(&in); err != nil {
		return fail(c, http.StatusBadRequest, "invalid body")
	}
	classID, _ := in["class_id"].(float64)
	if classID == 0 {
		return fail(c, http.StatusBadRequest, "class_id is required")
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.schedules[int(classID)] = in
	return ok(c, nil)
}

func (b *FakeBackend) login(c echo.Context) error {
	var in struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.Bind(&in); err != nil {
		return fail(c, http.StatusBadRequest, "invalid body")
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	acct, exists := b.admins[in.Email]
	if !exists || acct.password != in.Password {
		return fail(c, http.StatusUnauthorized, "invalid credentials")
	}
	return ok(c, echo.Map{
		"token": acct.token,
		"admin": echo.Map{"id": 1, "name": acct.name, "email": in.Email},
	})
}

// seed helpers

func (b *FakeBackend) SeedAdmin(email, password, token, name string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.admins[email] = fakeAdmin{password: password, token: token, name: name}
}

func (b *FakeBackend) SeedClass(t *testing.T, name, grade string) int {
	t.Helper()
	b.mu.Lock()
	defer b.mu.Unlock()
	id := b.allocID()
	b.classes[id] = map[string]interface{}{"id": id, "name": name, "grade": grade}
	return id
}

func (b *FakeBackend) SeedSubject(t *testing.T, name string) int {
	t.Helper()
	b.mu.Lock()
	defer b.mu.Unlock()
	id := b.allocID()
	b.subjects[id] = map[string]interface{}{"id": id, "name": name}
	return id
}

func (b *FakeBackend) SeedTeacher(t *testing.T, firstName, lastName, email, authUID string) int {
	t.Helper()
	b.mu.Lock()
	defer b.mu.Unlock()
	id := b.allocID()
	b.teachers[id] = map[string]interface{}{
		"id":         id,
		"first_name": firstName,
		"last_name":  lastName,
		"email":      email,
		"auth_uid":   authUID,
		"teacher_id": fmt.Sprintf("TEC-%04d", id),
	}
	return id
}
