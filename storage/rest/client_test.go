package rest

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shulehub/shule/core"
	"github.com/shulehub/shule/core/school"
	testutil "github.com/shulehub/shule/tests"
)

func newTestClient(t *testing.T, baseURL string, tokens TokenSource) *Client {
	t.Helper()
	return NewClient(&core.Config{
		BackendURL:  baseURL,
		HTTPTimeout: 2 * time.Second,
	}, tokens)
}

func TestClient_headers(t *testing.T) {
	var gotHeaders http.Header
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotHeaders = r.Header.Clone()
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true,"data":[]}`))
	}))
	t.Cleanup(srv.Close)

	client := newTestClient(t, srv.URL, StaticToken("tok-123"))
	_, err := client.ListSubjects(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "application/json", gotHeaders.Get("Accept"))
	assert.Equal(t, "application/json", gotHeaders.Get("Content-Type"))
	assert.Equal(t, "true", gotHeaders.Get("ngrok-skip-browser-warning"))
	assert.Equal(t, "Bearer tok-123", gotHeaders.Get("Authorization"))
}

func TestClient_anonymousWithoutToken(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true,"data":[]}`))
	}))
	t.Cleanup(srv.Close)

	client := newTestClient(t, srv.URL, StaticToken(""))
	_, err := client.ListSubjects(context.Background())
	require.NoError(t, err)
	assert.Empty(t, gotAuth)
}

func TestClient_listClasses(t *testing.T) {
	backend := testutil.NewFakeBackend(t)
	backend.SeedClass(t, "4A", "4")
	backend.SeedClass(t, "5B", "5")

	client := newTestClient(t, backend.URL, StaticToken("tok"))
	classes, err := client.ListClasses(context.Background())
	require.NoError(t, err)

	require.Len(t, classes, 2)
	assert.Equal(t, "4A", classes[0].Name)
	assert.Equal(t, "4", classes[0].Grade.String)
	assert.Equal(t, "5B", classes[1].Name)
}

func TestClient_bodyLevelFailure(t *testing.T) {
	backend := testutil.NewFakeBackend(t)
	backend.FailNext = "classes are locked"

	client := newTestClient(t, backend.URL, StaticToken("tok"))
	_, err := client.ListClasses(context.Background())

	var rErr *core.RemoteError
	require.ErrorAs(t, err, &rErr)
	assert.Equal(t, http.StatusOK, rErr.Status)
	assert.Equal(t, "classes are locked", rErr.Message)
}

func TestClient_rejectsNonJSON(t *testing.T) {
	backend := testutil.NewFakeBackend(t)
	backend.Interstitial = true

	client := newTestClient(t, backend.URL, StaticToken("tok"))
	_, err := client.ListClasses(context.Background())

	var rErr *core.RemoteError
	require.ErrorAs(t, err, &rErr)
	assert.Contains(t, rErr.Message, `"text/html"`)
}

func TestClient_httpErrorSurfacesMessage(t *testing.T) {
	backend := testutil.NewFakeBackend(t)

	client := newTestClient(t, backend.URL, StaticToken("tok"))
	err := client.DeleteClass(context.Background(), 99)

	var rErr *core.RemoteError
	require.ErrorAs(t, err, &rErr)
	assert.Equal(t, http.StatusNotFound, rErr.Status)
	assert.Contains(t, rErr.Message, "not found")
}

func TestClient_classCRUD(t *testing.T) {
	ctx := context.Background()
	backend := testutil.NewFakeBackend(t)
	client := newTestClient(t, backend.URL, StaticToken("tok"))

	created, err := client.CreateClass(ctx, school.NewClass{Name: "6C", Grade: "6"})
	require.NoError(t, err)
	assert.NotZero(t, created.ID)
	assert.Equal(t, "6C", created.Name)

	updated, err := client.UpdateClass(ctx, created.ID, school.NewClass{Name: "6D", Grade: "6"})
	require.NoError(t, err)
	assert.Equal(t, "6D", updated.Name)

	require.NoError(t, client.DeleteClass(ctx, created.ID))
	classes, err := client.ListClasses(ctx)
	require.NoError(t, err)
	assert.Empty(t, classes)
}

func TestClient_assignments(t *testing.T) {
	ctx := context.Background()
	backend := testutil.NewFakeBackend(t)

	classID := backend.SeedClass(t, "4A", "4")
	subjectID := backend.SeedSubject(t, "Maths")
	teacherID := backend.SeedTeacher(t, "Jane", "Doe", "jane@school.org", "uid-1")

	client := newTestClient(t, backend.URL, StaticToken("tok"))

	require.NoError(t, client.AssignTeacherSubject(ctx, teacherID, subjectID))
	st, err := client.SubjectTeachers(ctx, subjectID)
	require.NoError(t, err)
	assert.Equal(t, "Maths", st.Subject)
	require.Len(t, st.Teachers, 1)
	assert.Equal(t, "Jane Doe", st.Teachers[0].Name)

	require.NoError(t, client.AssignClassSubject(ctx, classID, subjectID, teacherID))
	assignments, err := client.ClassSubjects(ctx, classID)
	require.NoError(t, err)
	require.Len(t, assignments, 1)
	assert.Equal(t, subjectID, assignments[0].SubjectID)
	assert.Equal(t, "Maths", assignments[0].SubjectName)
	require.NotNil(t, assignments[0].Teacher)
	assert.Equal(t, "Jane Doe", assignments[0].Teacher.Name)
}

func TestClient_teachers(t *testing.T) {
	ctx := context.Background()
	backend := testutil.NewFakeBackend(t)
	client := newTestClient(t, backend.URL, StaticToken("tok"))

	created, err := client.RegisterTeacher(ctx, school.NewTeacher{
		FirstName:   "Jane",
		LastName:    "Doe",
		Email:       "jane@school.org",
		Password:    "pass12345",
		AuthUID:     "uid-1",
		TeacherCode: "TEC-0001",
	})
	require.NoError(t, err)
	assert.Equal(t, "uid-1", created.AuthUID.String)

	teachers, err := client.ListTeachers(ctx)
	require.NoError(t, err)
	require.Len(t, teachers, 1)
	assert.Equal(t, "Jane", teachers[0].FirstName)
	assert.Equal(t, "TEC-0001", teachers[0].TeacherCode.String)
}
