package identitysvc

import (
	"context"
	"fmt"
	"net/mail"
	"sync"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/google/uuid"

	"github.com/shulehub/shule/core"
	"github.com/shulehub/shule/core/session"
)

const dummyTokenTTL = time.Hour

// DummyService is an in-process identity provider for DEV and tests. It
// keeps accounts in memory and self-signs tokens with the app secret.
type DummyService struct {
	hub

	secret    []byte
	mailer    core.EmailService
	resetBase string

	amu      sync.Mutex
	accounts map[string]*dummyAccount // keyed by email
}

type dummyAccount struct {
	uid         string
	password    string
	displayName string
}

var _ session.Provider = (*DummyService)(nil)

func NewDummyService(conf *core.Config, mailer core.EmailService) *DummyService {
	return &DummyService{
		secret:    []byte(conf.SecretKey),
		mailer:    mailer,
		resetBase: conf.FrontendBaseURL,
		accounts:  make(map[string]*dummyAccount),
	}
}

func (svc *DummyService) SignIn(ctx context.Context, email, password string) (*session.Identity, error) {
	svc.amu.Lock()
	acct, ok := svc.accounts[core.CleanString(email, true)]
	svc.amu.Unlock()
	if !ok || acct.password != password {
		return nil, core.NewRemoteError("POST accounts:signInWithPassword", 400, "INVALID_LOGIN_CREDENTIALS")
	}

	token, expiresAt, err := svc.signToken(acct.uid, email)
	if err != nil {
		return nil, err
	}
	id := session.Identity{
		UID:         acct.uid,
		Email:       email,
		DisplayName: acct.displayName,
		Token:       token,
		ExpiresAt:   expiresAt,
	}
	svc.transition(&id)
	return &id, nil
}

func (svc *DummyService) SignOut() {
	svc.transition(nil)
}

func (svc *DummyService) CreateUser(ctx context.Context, email, password string) (string, error) {
	email = core.CleanString(email, true)

	svc.amu.Lock()
	defer svc.amu.Unlock()
	if _, exists := svc.accounts[email]; exists {
		return "", core.NewRemoteError("POST accounts:signUp", 400, "EMAIL_EXISTS")
	}
	uid := uuid.NewString()
	svc.accounts[email] = &dummyAccount{uid: uid, password: password}
	return uid, nil
}

// SendPasswordResetEmail mails a reset link. Unknown addresses are not an
// error so the call never leaks which emails have accounts.
func (svc *DummyService) SendPasswordResetEmail(ctx context.Context, email string) error {
	email = core.CleanString(email, true)

	svc.amu.Lock()
	acct, ok := svc.accounts[email]
	svc.amu.Unlock()
	if !ok {
		return nil
	}

	link := fmt.Sprintf("%s/reset-password?oobCode=%s", svc.resetBase, uuid.NewString())
	svc.mailer.SendMessages(&core.EmailMessage{
		To:      []mail.Address{{Name: acct.displayName, Address: email}},
		Subject: "Reset your password",
		BodyStr: fmt.Sprintf("Follow this link to reset your password:\n\n%s\n", link),
	})
	return nil
}

func (svc *DummyService) signToken(uid, email string) (string, time.Time, error) {
	expiresAt := time.Now().Add(dummyTokenTTL)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   uid,
		"email": email,
		"exp":   expiresAt.Unix(),
	})
	signed, err := token.SignedString(svc.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}
