package state

import (
	"context"
	"encoding/json"
	"strconv"

	"github.com/pkg/errors"

	"github.com/shulehub/shule/core"
	"github.com/shulehub/shule/core/profile"
)

// Persisted keys. These names are part of the stored footprint and must not
// change without a migration.
const (
	keyAdminToken = "adminToken"
	keyAdminData  = "adminData"

	keyTotalStudents = "totalStudents"
	keyTotalTeachers = "totalTeachers"
	keyTotalClasses  = "totalClasses"
	keyTotalSubjects = "totalSubjects"
)

var counterKeys = map[string]string{
	"students": keyTotalStudents,
	"teachers": keyTotalTeachers,
	"classes":  keyTotalClasses,
	"subjects": keyTotalSubjects,
}

// Store holds the small set of values that outlive a session: the admin
// bearer token, the signed-in admin's profile snapshot and the dashboard
// totals. Counters are stored as plain decimal strings.
type Store struct {
	kv core.KVStore
}

func NewStore(kv core.KVStore) *Store {
	return &Store{kv: kv}
}

// Token satisfies the clients' bearer-credential sources.
func (s *Store) Token() string {
	return s.AdminToken(context.Background())
}

// AdminToken returns the stored bearer token, or "" when none is stored.
func (s *Store) AdminToken(ctx context.Context) string {
	raw, err := s.kv.Get(ctx, keyAdminToken)
	if err != nil {
		return ""
	}
	return string(raw)
}

func (s *Store) SetAdminToken(ctx context.Context, token string) error {
	return s.kv.Set(ctx, keyAdminToken, []byte(token))
}

// AdminProfile returns the stored admin snapshot; a missing or unreadable
// snapshot returns nil.
func (s *Store) AdminProfile(ctx context.Context) *profile.Profile {
	raw, err := s.kv.Get(ctx, keyAdminData)
	if err != nil {
		return nil
	}
	var p profile.Profile
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil
	}
	return &p
}

func (s *Store) SetAdminProfile(ctx context.Context, p profile.Profile) error {
	raw, err := json.Marshal(p)
	if err != nil {
		return errors.Wrap(err, "marshaling admin profile")
	}
	return s.kv.Set(ctx, keyAdminData, raw)
}

// ClearSession drops the token and the profile snapshot together.
func (s *Store) ClearSession(ctx context.Context) error {
	if err := s.kv.Delete(ctx, keyAdminToken); err != nil {
		return err
	}
	return s.kv.Delete(ctx, keyAdminData)
}

// SetTotal persists a dashboard counter for entity ("classes", "students",
// "subjects" or "teachers").
func (s *Store) SetTotal(entity string, n int) error {
	key, ok := counterKeys[entity]
	if !ok {
		return errors.Errorf("unknown counter entity %q", entity)
	}
	return s.kv.Set(context.Background(), key, []byte(strconv.Itoa(n)))
}

// Total reads a dashboard counter; missing or malformed values read as 0.
func (s *Store) Total(ctx context.Context, entity string) int {
	key, ok := counterKeys[entity]
	if !ok {
		return 0
	}
	raw, err := s.kv.Get(ctx, key)
	if err != nil {
		return 0
	}
	n, err := strconv.Atoi(string(raw))
	if err != nil {
		return 0
	}
	return n
}
