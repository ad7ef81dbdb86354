package classwork

import (
	"context"

	"github.com/google/uuid"

	"github.com/shulehub/shule/core"
)

type (
	// Repository persists classwork documents in the document store.
	Repository interface {
		PutQuiz(ctx context.Context, quiz Quiz) error
		PutHomework(ctx context.Context, hw Homework) error
		ListQuizzes(ctx context.Context, subjectID string) ([]Quiz, error)
		ListHomework(ctx context.Context, subjectID string) ([]Homework, error)

		PutAnnouncement(ctx context.Context, a Announcement) error
		ListAnnouncements(ctx context.Context, subjectID string) ([]Announcement, error)
		PutComment(ctx context.Context, subjectID, announcementID string, c Comment) error
		ListComments(ctx context.Context, subjectID, announcementID string) ([]Comment, error)
	}

	Service struct {
		repo   Repository
		logger core.Logger
	}
)

func NewService(repo Repository, logger core.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// CreateQuiz validates and stores an authored quiz on behalf of createdBy.
func (svc *Service) CreateQuiz(ctx context.Context, createdBy string, in NewQuiz) (Quiz, error) {
	in.Title = core.CleanString(in.Title)
	if err := core.Validate.Struct(in); err != nil {
		return Quiz{}, core.TranslateValidationErrors(err)
	}
	quiz := Quiz{
		ID:              uuid.NewString(),
		SubjectID:       in.SubjectID,
		Title:           in.Title,
		DurationMinutes: in.DurationMinutes,
		DueDate:         in.DueDate.UTC(),
		Questions:       buildQuestions(in.Questions),
		CreatedBy:       createdBy,
		CreatedAt:       NowFunc().UTC(),
	}
	if err := svc.repo.PutQuiz(ctx, quiz); err != nil {
		return Quiz{}, err
	}
	return quiz, nil
}

// CreateHomework validates and stores an authored homework set.
func (svc *Service) CreateHomework(ctx context.Context, createdBy string, in NewHomework) (Homework, error) {
	in.Title = core.CleanString(in.Title)
	if err := core.Validate.Struct(in); err != nil {
		return Homework{}, core.TranslateValidationErrors(err)
	}
	hw := Homework{
		ID:        uuid.NewString(),
		SubjectID: in.SubjectID,
		Title:     in.Title,
		DueDate:   in.DueDate.UTC(),
		Questions: buildQuestions(in.Questions),
		CreatedBy: createdBy,
		CreatedAt: NowFunc().UTC(),
	}
	if err := svc.repo.PutHomework(ctx, hw); err != nil {
		return Homework{}, err
	}
	return hw, nil
}

// CreateAnnouncement validates and posts a subject announcement.
func (svc *Service) CreateAnnouncement(ctx context.Context, createdBy string, in NewAnnouncement) (Announcement, error) {
	in.Title = core.CleanString(in.Title)
	in.Body = core.CleanString(in.Body)
	if err := core.Validate.Struct(in); err != nil {
		return Announcement{}, core.TranslateValidationErrors(err)
	}
	a := Announcement{
		ID:        uuid.NewString(),
		SubjectID: in.SubjectID,
		Title:     in.Title,
		Body:      in.Body,
		CreatedBy: createdBy,
		CreatedAt: NowFunc().UTC(),
	}
	if err := svc.repo.PutAnnouncement(ctx, a); err != nil {
		return Announcement{}, err
	}
	return a, nil
}

// AddComment appends a reply under an announcement.
func (svc *Service) AddComment(ctx context.Context, subjectID, announcementID, authorUID, authorName string, in NewComment) (Comment, error) {
	in.Body = core.CleanString(in.Body)
	if err := core.Validate.Struct(in); err != nil {
		return Comment{}, core.TranslateValidationErrors(err)
	}
	c := Comment{
		ID:         uuid.NewString(),
		AuthorUID:  authorUID,
		AuthorName: core.CleanString(authorName),
		Body:       in.Body,
		CreatedAt:  NowFunc().UTC(),
	}
	if err := svc.repo.PutComment(ctx, subjectID, announcementID, c); err != nil {
		return Comment{}, err
	}
	return c, nil
}

func (svc *Service) Announcements(ctx context.Context, subjectID string) ([]Announcement, error) {
	return svc.repo.ListAnnouncements(ctx, subjectID)
}

func (svc *Service) Comments(ctx context.Context, subjectID, announcementID string) ([]Comment, error) {
	return svc.repo.ListComments(ctx, subjectID, announcementID)
}

func (svc *Service) Quizzes(ctx context.Context, subjectID string) ([]Quiz, error) {
	return svc.repo.ListQuizzes(ctx, subjectID)
}

func (svc *Service) Homework(ctx context.Context, subjectID string) ([]Homework, error) {
	return svc.repo.ListHomework(ctx, subjectID)
}

func buildQuestions(in []NewQuestion) []Question {
	out := make([]Question, 0, len(in))
	for _, q := range in {
		out = append(out, Question{
			ID:      uuid.NewString(),
			Text:    core.CleanString(q.Text),
			Options: q.Options,
			Answer:  q.Answer,
			Points:  q.Points,
		})
	}
	return out
}
