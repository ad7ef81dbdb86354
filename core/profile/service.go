package profile

import (
	"context"
	"errors"
	"fmt"
	"time"

	pkgerrors "github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/shulehub/shule/core"
)

var (
	// errors
	ErrNotFound = errors.New("profile not found")

	NowFunc = time.Now // mockable
)

type (
	// Store reads and writes profile documents in the role-partitioned
	// document store. Get returns ErrNotFound on a missing document.
	Store interface {
		Get(ctx context.Context, role Role, uid string) (Profile, error)
		Set(ctx context.Context, role Role, uid string, doc Profile, merge bool) error
		Count(ctx context.Context, role Role) (int, error)
	}

	Service struct {
		store  Store
		logger core.Logger
	}
)

func NewService(store Store, logger core.Logger) *Service {
	return &Service{store: store, logger: logger}
}

// Probe checks the role collections in ProbeOrder and returns the first
// existing document. ErrNotFound means no collection holds the identity.
func (svc *Service) Probe(ctx context.Context, uid string) (*Profile, error) {
	for _, role := range ProbeOrder {
		p, err := svc.store.Get(ctx, role, uid)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				continue
			}
			return nil, pkgerrors.Wrapf(err, "probing %s", role.Collection())
		}
		p.Role = role
		return &p, nil
	}
	return nil, ErrNotFound
}

// EnsureTeacher returns the teacher profile for uid, provisioning it on
// first sign-in. Teacher codes are sequential over the current collection
// size.
func (svc *Service) EnsureTeacher(ctx context.Context, uid, name, email string) (*Profile, error) {
	p, err := svc.store.Get(ctx, RoleTeacher, uid)
	if err == nil {
		p.Role = RoleTeacher
		return &p, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, pkgerrors.Wrap(err, "reading teacher profile")
	}

	n, err := svc.store.Count(ctx, RoleTeacher)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "counting teachers")
	}
	p = Profile{
		UID:         uid,
		Role:        RoleTeacher,
		Name:        core.CleanString(name),
		Email:       core.CleanString(email, true),
		TeacherCode: null.StringFrom(fmt.Sprintf("TEC-%04d", n+1)),
		ClassIDs:    []string{},
		SubjectIDs:  []string{},
		CreatedAt:   NowFunc().UTC(),
	}
	if err := svc.store.Set(ctx, RoleTeacher, uid, p, false); err != nil {
		return nil, pkgerrors.Wrap(err, "provisioning teacher profile")
	}
	svc.logger.Info(fmt.Sprintf("provisioned teacher profile %s (%s)", p.TeacherCode.String, uid))
	return &p, nil
}

// Update merge-writes the editable fields of an existing profile.
func (svc *Service) Update(ctx context.Context, role Role, uid string, in UpdateInput) error {
	in.Name = core.CleanString(in.Name)
	in.Email = core.CleanString(in.Email, true)
	if err := core.Validate.Struct(in); err != nil {
		return core.TranslateValidationErrors(err)
	}
	doc := Profile{
		UID:     uid,
		Name:    in.Name,
		Email:   in.Email,
		Picture: null.NewString(in.Picture, in.Picture != ""),
	}
	return svc.store.Set(ctx, role, uid, doc, true)
}

// Touch records a successful sign-in on the profile document.
func (svc *Service) Touch(ctx context.Context, role Role, uid string) error {
	doc := Profile{UID: uid, LastLogin: null.TimeFrom(NowFunc().UTC())}
	return svc.store.Set(ctx, role, uid, doc, true)
}
