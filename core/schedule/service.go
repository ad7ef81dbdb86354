package schedule

import (
	"context"
	"fmt"

	"github.com/pkg/errors"

	"github.com/shulehub/shule/core"
)

type (
	// Repository is the schedule surface of the REST backend.
	Repository interface {
		// ClassSchedule returns the stored rows grouped by day; a class
		// with no schedule yet may answer with an error or an empty map.
		ClassSchedule(ctx context.Context, classID int) (map[string][]Slot, error)
		SaveBulk(ctx context.Context, bulk BulkSchedule) error
	}

	Service struct {
		repo   Repository
		logger core.Logger
	}
)

func NewService(repo Repository, logger core.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// WeekFor returns the class's weekly grid: stored rows merged over the
// default template. A failed read degrades to an empty default week so the
// editor always has a grid to render.
func (svc *Service) WeekFor(ctx context.Context, classID int) Week {
	fetched, err := svc.repo.ClassSchedule(ctx, classID)
	if err != nil {
		svc.logger.Warn(fmt.Sprintf("no stored schedule for class %d", classID), err)
		return DefaultWeek()
	}
	return MergeWeek(fetched)
}

// Save flattens and submits the edited week.
func (svc *Service) Save(ctx context.Context, classID, semester, academicYear int, week Week) error {
	if classID <= 0 {
		return core.NewValidationError(errors.New("a class must be selected"),
			core.FieldError{Field: "class_id", Error: "a class must be selected"})
	}
	bulk := BulkSchedule{
		ClassID:      classID,
		Semester:     semester,
		AcademicYear: academicYear,
		Schedules:    Flatten(week),
	}
	if len(bulk.Schedules) == 0 {
		return core.NewValidationError(errors.New("the schedule is empty"),
			core.FieldError{Field: "schedules", Error: "assign at least one period or break"})
	}
	return svc.repo.SaveBulk(ctx, bulk)
}
