package identitysvc

import (
	"context"
	"testing"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shulehub/shule/core"
	"github.com/shulehub/shule/core/session"
)

type fakeMailer struct {
	sent []*core.EmailMessage
}

func (m *fakeMailer) SendMessages(messages ...*core.EmailMessage) {
	m.sent = append(m.sent, messages...)
}

func newDummy(t *testing.T) (*DummyService, *fakeMailer) {
	t.Helper()
	mailer := &fakeMailer{}
	svc := NewDummyService(&core.Config{
		SecretKey:       "test-secret",
		FrontendBaseURL: "https://shule.example.com",
	}, mailer)
	return svc, mailer
}

func TestDummyService_signInFlow(t *testing.T) {
	ctx := context.Background()
	svc, _ := newDummy(t)

	uid, err := svc.CreateUser(ctx, " T@School.org ", "pass1234")
	require.NoError(t, err)
	require.NotEmpty(t, uid)

	_, err = svc.CreateUser(ctx, "t@school.org", "other")
	var rErr *core.RemoteError
	require.ErrorAs(t, err, &rErr)
	assert.Equal(t, "EMAIL_EXISTS", rErr.Message)

	_, err = svc.SignIn(ctx, "t@school.org", "wrong")
	require.ErrorAs(t, err, &rErr)
	assert.Equal(t, "INVALID_LOGIN_CREDENTIALS", rErr.Message)

	var notified []*session.Identity
	unsub := svc.OnStateChange(func(id *session.Identity) { notified = append(notified, id) })
	defer unsub()

	id, err := svc.SignIn(ctx, "t@school.org", "pass1234")
	require.NoError(t, err)
	assert.Equal(t, uid, id.UID)
	assert.WithinDuration(t, time.Now().Add(dummyTokenTTL), id.ExpiresAt, 5*time.Second)

	// token is self-signed with the app secret
	claims := jwt.MapClaims{}
	_, err = jwt.ParseWithClaims(id.Token, claims, func(*jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	require.NoError(t, err)
	assert.Equal(t, uid, claims["sub"])

	require.Len(t, notified, 2) // registration + sign-in
	require.NotNil(t, notified[1])
	assert.Equal(t, uid, notified[1].UID)

	svc.SignOut()
	require.Len(t, notified, 3)
	assert.Nil(t, notified[2])
}

func TestDummyService_passwordReset(t *testing.T) {
	ctx := context.Background()
	svc, mailer := newDummy(t)

	_, err := svc.CreateUser(ctx, "t@school.org", "pass1234")
	require.NoError(t, err)

	// unknown address: no error, no mail
	require.NoError(t, svc.SendPasswordResetEmail(ctx, "nobody@school.org"))
	assert.Empty(t, mailer.sent)

	require.NoError(t, svc.SendPasswordResetEmail(ctx, "t@school.org"))
	require.Len(t, mailer.sent, 1)
	msg := mailer.sent[0]
	require.Len(t, msg.To, 1)
	assert.Equal(t, "t@school.org", msg.To[0].Address)
	assert.Contains(t, msg.BodyStr, "https://shule.example.com/reset-password?oobCode=")
}
