package docstore

import (
	"context"

	"github.com/pkg/errors"

	"github.com/shulehub/shule/core/profile"
)

// ProfileStore keeps profile documents in per-role collections keyed by the
// identity uid (teachers/{uid}, admins/{uid}, ...).
type ProfileStore struct {
	client *Client
}

var _ profile.Store = (*ProfileStore)(nil)

func NewProfileStore(client *Client) *ProfileStore {
	return &ProfileStore{client: client}
}

func (s *ProfileStore) Get(ctx context.Context, role profile.Role, uid string) (profile.Profile, error) {
	var p profile.Profile
	err := s.client.Get(ctx, role.Collection()+"/"+uid, &p)
	if errors.Is(err, ErrNotFound) {
		return profile.Profile{}, profile.ErrNotFound
	}
	if err != nil {
		return profile.Profile{}, err
	}
	p.UID = uid
	return p, nil
}

func (s *ProfileStore) Set(ctx context.Context, role profile.Role, uid string, doc profile.Profile, merge bool) error {
	return s.client.Set(ctx, role.Collection()+"/"+uid, doc, merge)
}

func (s *ProfileStore) Count(ctx context.Context, role profile.Role) (int, error) {
	return s.client.Count(ctx, role.Collection())
}
