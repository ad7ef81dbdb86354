package docstore

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shulehub/shule/core"
	"github.com/shulehub/shule/core/profile"
	testutil "github.com/shulehub/shule/tests"
)

func TestProfileStore(t *testing.T) {
	ctx := context.Background()
	fake := testutil.NewFakeDocstore(t)
	store := NewProfileStore(NewClient(&core.Config{
		DocstoreURL: fake.URL,
		HTTPTimeout: 2 * time.Second,
	}, nil))

	t.Run("missing profile maps to profile.ErrNotFound", func(t *testing.T) {
		_, err := store.Get(ctx, profile.RoleTeacher, "uid-1")
		assert.ErrorIs(t, err, profile.ErrNotFound)
	})

	t.Run("role partitions the collections", func(t *testing.T) {
		fake.Seed(t, "teachers/uid-1", map[string]interface{}{
			"name":       "Jane Doe",
			"email":      "jane@school.org",
			"teacher_id": "TEC-0001",
		})

		p, err := store.Get(ctx, profile.RoleTeacher, "uid-1")
		require.NoError(t, err)
		assert.Equal(t, "uid-1", p.UID)
		assert.Equal(t, "Jane Doe", p.Name)
		assert.Equal(t, "TEC-0001", p.TeacherCode.String)

		// same uid, different role collection: absent
		_, err = store.Get(ctx, profile.RoleAdmin, "uid-1")
		assert.ErrorIs(t, err, profile.ErrNotFound)
	})

	t.Run("set and count", func(t *testing.T) {
		err := store.Set(ctx, profile.RoleTeacher, "uid-2", profile.Profile{
			Name:  "Amy B",
			Email: "amy@school.org",
		}, false)
		require.NoError(t, err)

		n, err := store.Count(ctx, profile.RoleTeacher)
		require.NoError(t, err)
		assert.Equal(t, 2, n)

		n, err = store.Count(ctx, profile.RoleStudent)
		require.NoError(t, err)
		assert.Zero(t, n)
	})

	t.Run("merge write", func(t *testing.T) {
		err := store.Set(ctx, profile.RoleTeacher, "uid-2", profile.Profile{
			Name:  "Amy B",
			Email: "amy@school.org",
		}, false)
		require.NoError(t, err)

		err = store.Set(ctx, profile.RoleTeacher, "uid-2", profile.Profile{Name: "Amy C"}, true)
		require.NoError(t, err)

		p, err := store.Get(ctx, profile.RoleTeacher, "uid-2")
		require.NoError(t, err)
		assert.Equal(t, "Amy C", p.Name)
	})
}
