package rest

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shulehub/shule/core"
	"github.com/shulehub/shule/core/profile"
	"github.com/shulehub/shule/storage/kv"
	"github.com/shulehub/shule/storage/state"
	testutil "github.com/shulehub/shule/tests"
)

func TestClient_Login(t *testing.T) {
	ctx := context.Background()
	backend := testutil.NewFakeBackend(t)
	backend.SeedAdmin("admin@school.org", "pass1234", "admin-token", "Head Admin")

	sessions := state.NewStore(kv.NewInMemStore())
	client := newTestClient(t, backend.URL, sessions)

	admin, err := client.Login(ctx, "admin@school.org", "pass1234")
	require.NoError(t, err)
	assert.Equal(t, "Head Admin", admin.Name)
	assert.Equal(t, "admin@school.org", admin.Email)
	assert.Equal(t, profile.RoleAdmin, admin.Role)

	// both halves of the session were persisted
	assert.Equal(t, "admin-token", sessions.AdminToken(ctx))
	stored := sessions.AdminProfile(ctx)
	require.NotNil(t, stored)
	assert.Equal(t, "Head Admin", stored.Name)

	// subsequent calls carry the stored token
	_, err = client.ListClasses(ctx)
	require.NoError(t, err)

	require.NoError(t, client.Logout(ctx))
	assert.Empty(t, sessions.AdminToken(ctx))
	assert.Nil(t, sessions.AdminProfile(ctx))
}

func TestClient_Login_badCredentials(t *testing.T) {
	ctx := context.Background()
	backend := testutil.NewFakeBackend(t)
	backend.SeedAdmin("admin@school.org", "pass1234", "admin-token", "Head Admin")

	sessions := state.NewStore(kv.NewInMemStore())
	client := newTestClient(t, backend.URL, sessions)

	_, err := client.Login(ctx, "admin@school.org", "wrong")
	var rErr *core.RemoteError
	require.ErrorAs(t, err, &rErr)
	assert.Equal(t, http.StatusUnauthorized, rErr.Status)

	assert.Empty(t, sessions.AdminToken(ctx))
}
