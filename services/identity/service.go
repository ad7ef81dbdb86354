package identitysvc

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/pkg/errors"

	"github.com/shulehub/shule/core"
	"github.com/shulehub/shule/core/session"
)

// Service talks to the hosted identity provider's REST surface. All account
// endpoints hang off a single base URL and are keyed with the project API
// key, e.g. POST {base}/v1/accounts:signInWithPassword?key={apiKey}.
type Service struct {
	hub

	baseURL string
	apiKey  string
	client  *http.Client
}

var _ session.Provider = (*Service)(nil)

func NewService(conf *core.Config) *Service {
	return &Service{
		baseURL: conf.IdentityURL,
		apiKey:  conf.IdentityAPIKey,
		client:  &http.Client{Timeout: conf.HTTPTimeout},
	}
}

type (
	signInRequest struct {
		Email             string `json:"email"`
		Password          string `json:"password"`
		ReturnSecureToken bool   `json:"returnSecureToken"`
	}

	accountResponse struct {
		IDToken     string `json:"idToken"`
		Email       string `json:"email"`
		DisplayName string `json:"displayName"`
		LocalID     string `json:"localId"`
		ExpiresIn   string `json:"expiresIn"` // seconds, as a string
	}

	oobCodeRequest struct {
		RequestType string `json:"requestType"`
		Email       string `json:"email"`
	}

	providerError struct {
		Error struct {
			Code    int    `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
)

// SignIn exchanges credentials for an identity and publishes the transition
// to every registered listener.
func (svc *Service) SignIn(ctx context.Context, email, password string) (*session.Identity, error) {
	var res accountResponse
	err := svc.post(ctx, "accounts:signInWithPassword", signInRequest{
		Email:             email,
		Password:          password,
		ReturnSecureToken: true,
	}, &res)
	if err != nil {
		return nil, err
	}

	id := identityFromAccount(res)
	svc.transition(&id)
	return &id, nil
}

// SignOut drops the session and notifies listeners with a nil identity.
func (svc *Service) SignOut() {
	svc.transition(nil)
}

// CreateUser registers a new account without touching the caller's own
// session; the admin creating teacher accounts stays signed in.
func (svc *Service) CreateUser(ctx context.Context, email, password string) (uid string, err error) {
	var res accountResponse
	err = svc.post(ctx, "accounts:signUp", signInRequest{
		Email:             email,
		Password:          password,
		ReturnSecureToken: true,
	}, &res)
	if err != nil {
		return "", err
	}
	return res.LocalID, nil
}

func (svc *Service) SendPasswordResetEmail(ctx context.Context, email string) error {
	return svc.post(ctx, "accounts:sendOobCode", oobCodeRequest{
		RequestType: "PASSWORD_RESET",
		Email:       email,
	}, nil)
}

func (svc *Service) post(ctx context.Context, action string, body, out interface{}) error {
	op := "POST " + action

	payload, err := json.Marshal(body)
	if err != nil {
		return errors.Wrap(err, op)
	}

	url := fmt.Sprintf("%s/v1/%s?key=%s", svc.baseURL, action, svc.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return errors.Wrap(err, op)
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := svc.client.Do(req)
	if err != nil {
		return core.NewRemoteError(op, 0, err.Error())
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		var perr providerError
		msg := http.StatusText(res.StatusCode)
		if json.NewDecoder(res.Body).Decode(&perr) == nil && perr.Error.Message != "" {
			msg = perr.Error.Message
		}
		return core.NewRemoteError(op, res.StatusCode, msg)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return core.NewRemoteError(op, res.StatusCode, "unreadable response body")
	}
	return nil
}

// identityFromAccount prefers the token's own claims for uid and expiry and
// falls back to the response envelope. The token is provider-signed; it is
// parsed here, never verified.
func identityFromAccount(res accountResponse) session.Identity {
	id := session.Identity{
		UID:         res.LocalID,
		Email:       res.Email,
		DisplayName: res.DisplayName,
		Token:       res.IDToken,
	}
	if secs, err := strconv.Atoi(res.ExpiresIn); err == nil && secs > 0 {
		id.ExpiresAt = time.Now().Add(time.Duration(secs) * time.Second)
	}

	claims := jwt.MapClaims{}
	if _, _, err := new(jwt.Parser).ParseUnverified(res.IDToken, claims); err != nil {
		return id
	}
	if sub, ok := claims["sub"].(string); ok && sub != "" {
		id.UID = sub
	}
	if exp, ok := claims["exp"].(float64); ok && exp > 0 {
		id.ExpiresAt = time.Unix(int64(exp), 0)
	}
	return id
}
