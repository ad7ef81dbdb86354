package audit

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"

	"github.com/shulehub/shule/core"
)

// Actions recorded against the admin activity feed.
const (
	ActionAddTeacher    = "add_teacher"
	ActionDeleteTeacher = "delete_teacher"
	ActionAddStudent    = "add_student"
	ActionDeleteStudent = "delete_student"
	ActionAddClass      = "add_class"
	ActionDeleteClass   = "delete_class"
	ActionAddSubject    = "add_subject"
	ActionDeleteSubject = "delete_subject"
)

var NowFunc = time.Now // mockable

type (
	Actor struct {
		Name  string      `json:"name"`
		Email string      `json:"email"`
		Image null.String `json:"image"`
	}

	Target struct {
		ID    string      `json:"id"`
		Name  string      `json:"name"`
		Email null.String `json:"email"`
	}

	Entry struct {
		ID          string    `json:"id"`
		Action      string    `json:"action"`
		PerformedBy Actor     `json:"performed_by"`
		Target      Target    `json:"target"`
		Timestamp   time.Time `json:"timestamp"`
	}

	// Recorder persists entries; the document store implements it.
	Recorder interface {
		Record(ctx context.Context, entry Entry) error
		Recent(ctx context.Context, limit int) ([]Entry, error)
	}

	Service struct {
		recorder Recorder
		logger   core.Logger
	}
)

func NewService(recorder Recorder, logger core.Logger) *Service {
	return &Service{recorder: recorder, logger: logger}
}

// Record stores an activity entry. Recording is best effort: a write failure
// is logged and swallowed so it never blocks the action being recorded.
func (svc *Service) Record(ctx context.Context, action string, by Actor, target Target) {
	entry := Entry{
		ID:          uuid.NewString(),
		Action:      action,
		PerformedBy: by,
		Target:      target,
		Timestamp:   NowFunc().UTC(),
	}
	if err := svc.recorder.Record(ctx, entry); err != nil {
		svc.logger.Warn("failed to record activity", "action", action, "error", err)
	}
}

// Recent returns the latest entries, newest first. A failed read degrades to
// an empty feed.
func (svc *Service) Recent(ctx context.Context, limit int) []Entry {
	entries, err := svc.recorder.Recent(ctx, limit)
	if err != nil {
		svc.logger.Warn("failed to load activity feed", "error", err)
		return nil
	}
	return entries
}
