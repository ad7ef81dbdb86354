package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shulehub/shule/core"
	"github.com/shulehub/shule/core/profile"
	"github.com/shulehub/shule/core/school"
	"github.com/shulehub/shule/core/session"
	identitysvc "github.com/shulehub/shule/services/identity"
	"github.com/shulehub/shule/storage/cache"
	"github.com/shulehub/shule/storage/docstore"
	"github.com/shulehub/shule/storage/kv"
	"github.com/shulehub/shule/storage/rest"
	"github.com/shulehub/shule/storage/state"
)

type nopLogger struct{}

func (nopLogger) Debug(msg string, args ...interface{}) {}
func (nopLogger) Info(msg string, args ...interface{})  {}
func (nopLogger) Warn(msg string, args ...interface{})  {}
func (nopLogger) Error(msg string, args ...interface{}) {}
func (nopLogger) Fatal(msg string, args ...interface{}) {}

// Admin signs in, browses the class list (cached), adds a class; the cache
// is invalidated and the next read reflects the edit.
func TestAdminFlow(t *testing.T) {
	ctx := context.Background()
	backend := NewFakeBackend(t)
	backend.SeedAdmin("admin@school.org", "pass1234", "admin-token", "Head Admin")
	backend.SeedClass(t, "4A", "4")

	sessions := state.NewStore(kv.NewInMemStore())
	client := rest.NewClient(&core.Config{
		BackendURL:  backend.URL,
		HTTPTimeout: 2 * time.Second,
	}, sessions)

	listCache := cache.New(kv.NewInMemStore(), time.Hour)
	svc := school.NewService(client, listCache, sessions, nopLogger{})

	_, err := client.Login(ctx, "admin@school.org", "pass1234")
	require.NoError(t, err)

	classes, err := svc.Classes(ctx, false)
	require.NoError(t, err)
	require.Len(t, classes, 1)
	assert.Equal(t, 1, sessions.Total(ctx, "classes"))

	// a fresh cache entry answers without the backend
	backend.Interstitial = true
	cached, err := svc.Classes(ctx, false)
	require.NoError(t, err)
	assert.Len(t, cached, 1)
	backend.Interstitial = false

	created, err := svc.CreateClass(ctx, school.NewClass{Name: "  5B ", Grade: "5"})
	require.NoError(t, err)
	assert.Equal(t, "5B", created.Name)

	// the mutation invalidated the key, so the re-read refetches
	classes, err = svc.Classes(ctx, false)
	require.NoError(t, err)
	require.Len(t, classes, 2)
	assert.Equal(t, 2, sessions.Total(ctx, "classes"))
}

// Teacher signs in through the dummy provider; the resolver probes the
// document store and lands on the teacher profile. Signing out clears it.
func TestTeacherSessionFlow(t *testing.T) {
	ctx := context.Background()
	store := NewFakeDocstore(t)

	profiles := profile.NewService(docstore.NewProfileStore(docstore.NewClient(&core.Config{
		DocstoreURL: store.URL,
		HTTPTimeout: 2 * time.Second,
	}, nil)), nopLogger{})

	provider := identitysvc.NewDummyService(&core.Config{SecretKey: "test-secret"}, nil)
	uid, err := provider.CreateUser(ctx, "jane@school.org", "pass1234")
	require.NoError(t, err)
	store.Seed(t, "teachers/"+uid, map[string]interface{}{
		"name":       "Jane Doe",
		"email":      "jane@school.org",
		"teacher_id": "TEC-0001",
	})

	resolver := session.NewResolver(provider, profiles, nopLogger{})
	defer resolver.Close()

	states := make(chan session.State, 16)
	unsub := resolver.OnChange(func(s session.State) { states <- s })
	defer unsub()

	// the provider reported signed-out synchronously on subscription
	initial := resolver.Current()
	assert.False(t, initial.Loading)
	assert.False(t, initial.Authenticated())

	_, err = provider.SignIn(ctx, "jane@school.org", "pass1234")
	require.NoError(t, err)

	resolved := waitFor(t, states, func(s session.State) bool { return s.Authenticated() })
	assert.Equal(t, profile.RoleTeacher, resolved.Profile.Role)
	assert.Equal(t, "Jane Doe", resolved.Profile.Name)
	assert.Equal(t, "TEC-0001", resolved.Profile.TeacherCode.String)

	provider.SignOut()
	signedOut := waitFor(t, states, func(s session.State) bool { return !s.Loading && !s.Authenticated() })
	assert.Nil(t, signedOut.Profile)
}

func waitFor(t *testing.T, states <-chan session.State, pred func(session.State) bool) session.State {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case s := <-states:
			if pred(s) {
				return s
			}
		case <-deadline:
			t.Fatal("timed out waiting for session state")
		}
	}
}
