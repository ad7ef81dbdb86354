package rest

import (
	"context"
	"encoding/json"
	"strconv"

	"github.com/volatiletech/null/v8"

	"github.com/shulehub/shule/core"
	"github.com/shulehub/shule/core/profile"
)

// SessionStore persists the admin session across restarts. When the client's
// token source is one, Login and Logout keep it in sync.
type SessionStore interface {
	TokenSource
	SetAdminToken(ctx context.Context, token string) error
	SetAdminProfile(ctx context.Context, p profile.Profile) error
	ClearSession(ctx context.Context) error
}

// Login exchanges admin credentials for a bearer token and the admin's
// profile snapshot, persisting both when a session store is wired.
func (c *Client) Login(ctx context.Context, email, password string) (profile.Profile, error) {
	data, err := c.post(ctx, "/api/admins/login", map[string]string{
		"email":    email,
		"password": password,
	})
	if err != nil {
		return profile.Profile{}, err
	}

	var res struct {
		Token string                 `json:"token"`
		Admin map[string]interface{} `json:"admin"`
	}
	if err := json.Unmarshal(data, &res); err != nil {
		return profile.Profile{}, core.NewRemoteError("POST /api/admins/login", 0, "unreadable login payload")
	}
	if res.Token == "" {
		return profile.Profile{}, core.NewRemoteError("POST /api/admins/login", 0, "login response carried no token")
	}

	admin := adminProfile(res.Admin)
	if sessions, ok := c.tokens.(SessionStore); ok {
		if err := sessions.SetAdminToken(ctx, res.Token); err != nil {
			return profile.Profile{}, err
		}
		if err := sessions.SetAdminProfile(ctx, admin); err != nil {
			return profile.Profile{}, err
		}
	}
	return admin, nil
}

// Logout drops the persisted session, if any.
func (c *Client) Logout(ctx context.Context) error {
	if sessions, ok := c.tokens.(SessionStore); ok {
		return sessions.ClearSession(ctx)
	}
	return nil
}

// adminProfile maps the login payload's admin object, tolerating the
// backend's casing drift the same way the entity normalizers do.
func adminProfile(raw map[string]interface{}) profile.Profile {
	p := profile.Profile{Role: profile.RoleAdmin}

	pick := func(keys ...string) (string, bool) {
		for _, k := range keys {
			if s, ok := raw[k].(string); ok && s != "" {
				return s, true
			}
		}
		return "", false
	}

	if uid, ok := pick("uid", "auth_uid", "firebase_uid"); ok {
		p.UID = uid
	} else if id, ok := raw["id"].(float64); ok {
		p.UID = strconv.Itoa(int(id))
	}
	p.Name, _ = pick("name", "full_name", "fullName")
	p.Email, _ = pick("email")
	if img, ok := pick("image", "profilePicture"); ok {
		p.Picture = null.StringFrom(img)
	}
	return p
}
