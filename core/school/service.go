package school

import (
	"context"
	"fmt"

	"github.com/shulehub/shule/core"
)

// Cache keys: one independent key per list. Any mutation that changes the
// underlying collection clears its key explicitly; there is no partial
// invalidation.
const (
	CacheKeyClasses  = "classes"
	CacheKeySubjects = "subjects"
	CacheKeyStudents = "students"
	CacheKeyTeachers = "teachers"
)

type (
	// Repository is the REST data-access surface, one method per backend
	// operation.
	Repository interface {
		ListClasses(ctx context.Context) ([]Class, error)
		CreateClass(ctx context.Context, nc NewClass) (Class, error)
		UpdateClass(ctx context.Context, id int, nc NewClass) (Class, error)
		DeleteClass(ctx context.Context, id int) error

		ListSubjects(ctx context.Context) ([]Subject, error)
		CreateSubject(ctx context.Context, ns NewSubject) (Subject, error)
		DeleteSubject(ctx context.Context, id int) error

		ListStudents(ctx context.Context) ([]Student, error)
		CreateStudent(ctx context.Context, ns NewStudent) (Student, error)

		ListTeachers(ctx context.Context) ([]Teacher, error)
		RegisterTeacher(ctx context.Context, nt NewTeacher) (Teacher, error)

		SubjectTeachers(ctx context.Context, subjectID int) (SubjectTeachers, error)
		ClassSubjects(ctx context.Context, classID int) ([]SubjectAssignment, error)
		AssignTeacherSubject(ctx context.Context, teacherID, subjectID int) error
		AssignClassSubject(ctx context.Context, classID, subjectID, teacherID int) error
	}

	// ListCache is the freshness cache surface the list reads go through.
	ListCache interface {
		Read(key string, v interface{}) bool
		Write(key string, v interface{}) error
		Invalidate(key string) error
	}

	// CounterStore persists the dashboard totals ("classes", "students",
	// "subjects", "teachers").
	CounterStore interface {
		SetTotal(entity string, n int) error
	}

	Service struct {
		repo     Repository
		cache    ListCache
		counters CounterStore
		logger   core.Logger
	}
)

func NewService(repo Repository, cache ListCache, counters CounterStore, logger core.Logger) *Service {
	return &Service{repo: repo, cache: cache, counters: counters, logger: logger}
}

// Classes returns the class list, from cache while fresh. force bypasses the
// cache and rewrites the entry regardless of its age.
func (svc *Service) Classes(ctx context.Context, force bool) ([]Class, error) {
	if !force {
		var out []Class
		if svc.cache.Read(CacheKeyClasses, &out) {
			return out, nil
		}
	}
	out, err := svc.repo.ListClasses(ctx)
	if err != nil {
		return nil, err
	}
	svc.store(CacheKeyClasses, out, len(out))
	return out, nil
}

func (svc *Service) Subjects(ctx context.Context, force bool) ([]Subject, error) {
	if !force {
		var out []Subject
		if svc.cache.Read(CacheKeySubjects, &out) {
			return out, nil
		}
	}
	out, err := svc.repo.ListSubjects(ctx)
	if err != nil {
		return nil, err
	}
	svc.store(CacheKeySubjects, out, len(out))
	return out, nil
}

func (svc *Service) Students(ctx context.Context, force bool) ([]Student, error) {
	if !force {
		var out []Student
		if svc.cache.Read(CacheKeyStudents, &out) {
			return out, nil
		}
	}
	out, err := svc.repo.ListStudents(ctx)
	if err != nil {
		return nil, err
	}
	svc.store(CacheKeyStudents, out, len(out))
	return out, nil
}

func (svc *Service) Teachers(ctx context.Context, force bool) ([]Teacher, error) {
	if !force {
		var out []Teacher
		if svc.cache.Read(CacheKeyTeachers, &out) {
			return out, nil
		}
	}
	out, err := svc.repo.ListTeachers(ctx)
	if err != nil {
		return nil, err
	}
	svc.store(CacheKeyTeachers, out, len(out))
	return out, nil
}

func (svc *Service) CreateClass(ctx context.Context, nc NewClass) (Class, error) {
	nc.Name = core.CleanString(nc.Name)
	if err := core.Validate.Struct(nc); err != nil {
		return Class{}, core.TranslateValidationErrors(err)
	}
	cls, err := svc.repo.CreateClass(ctx, nc)
	if err != nil {
		return Class{}, err
	}
	svc.invalidate(CacheKeyClasses)
	return cls, nil
}

func (svc *Service) UpdateClass(ctx context.Context, id int, nc NewClass) (Class, error) {
	nc.Name = core.CleanString(nc.Name)
	if err := core.Validate.Struct(nc); err != nil {
		return Class{}, core.TranslateValidationErrors(err)
	}
	cls, err := svc.repo.UpdateClass(ctx, id, nc)
	if err != nil {
		return Class{}, err
	}
	svc.invalidate(CacheKeyClasses)
	return cls, nil
}

func (svc *Service) DeleteClass(ctx context.Context, id int) error {
	if err := svc.repo.DeleteClass(ctx, id); err != nil {
		return err
	}
	svc.invalidate(CacheKeyClasses)
	return nil
}

func (svc *Service) CreateSubject(ctx context.Context, ns NewSubject) (Subject, error) {
	ns.Name = core.CleanString(ns.Name)
	if err := core.Validate.Struct(ns); err != nil {
		return Subject{}, core.TranslateValidationErrors(err)
	}
	sbj, err := svc.repo.CreateSubject(ctx, ns)
	if err != nil {
		return Subject{}, err
	}
	svc.invalidate(CacheKeySubjects)
	return sbj, nil
}

func (svc *Service) DeleteSubject(ctx context.Context, id int) error {
	if err := svc.repo.DeleteSubject(ctx, id); err != nil {
		return err
	}
	svc.invalidate(CacheKeySubjects)
	return nil
}

func (svc *Service) CreateStudent(ctx context.Context, ns NewStudent) (Student, error) {
	ns.FirstName = core.CleanString(ns.FirstName)
	ns.LastName = core.CleanString(ns.LastName)
	ns.Email = core.CleanString(ns.Email, true)
	if err := core.Validate.Struct(ns); err != nil {
		return Student{}, core.TranslateValidationErrors(err)
	}
	std, err := svc.repo.CreateStudent(ctx, ns)
	if err != nil {
		return Student{}, err
	}
	svc.invalidate(CacheKeyStudents)
	return std, nil
}

func (svc *Service) RegisterTeacher(ctx context.Context, nt NewTeacher) (Teacher, error) {
	nt.FirstName = core.CleanString(nt.FirstName)
	nt.LastName = core.CleanString(nt.LastName)
	nt.Email = core.CleanString(nt.Email, true)
	if err := core.Validate.Struct(nt); err != nil {
		return Teacher{}, core.TranslateValidationErrors(err)
	}
	tch, err := svc.repo.RegisterTeacher(ctx, nt)
	if err != nil {
		return Teacher{}, err
	}
	svc.invalidate(CacheKeyTeachers)
	return tch, nil
}

func (svc *Service) SubjectTeachers(ctx context.Context, subjectID int) (SubjectTeachers, error) {
	return svc.repo.SubjectTeachers(ctx, subjectID)
}

func (svc *Service) ClassSubjects(ctx context.Context, classID int) ([]SubjectAssignment, error) {
	return svc.repo.ClassSubjects(ctx, classID)
}

func (svc *Service) AssignTeacherSubject(ctx context.Context, teacherID, subjectID int) error {
	return svc.repo.AssignTeacherSubject(ctx, teacherID, subjectID)
}

func (svc *Service) AssignClassSubject(ctx context.Context, classID, subjectID, teacherID int) error {
	return svc.repo.AssignClassSubject(ctx, classID, subjectID, teacherID)
}

// store refreshes a cache entry and its dashboard counter; both are
// best-effort next to the fetched data itself.
func (svc *Service) store(key string, v interface{}, total int) {
	if err := svc.cache.Write(key, v); err != nil {
		svc.logger.Warn(fmt.Sprintf("caching %s list", key), err)
	}
	if svc.counters != nil {
		if err := svc.counters.SetTotal(key, total); err != nil {
			svc.logger.Warn(fmt.Sprintf("persisting %s total", key), err)
		}
	}
}

func (svc *Service) invalidate(key string) {
	if err := svc.cache.Invalidate(key); err != nil {
		svc.logger.Warn(fmt.Sprintf("invalidating %s cache", key), err)
	}
}
