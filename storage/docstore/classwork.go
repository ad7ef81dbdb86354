package docstore

import (
	"context"
	"fmt"

	"github.com/shulehub/shule/core/classwork"
)

// ClassworkRepo stores authored classwork per subject. Documents live at
// quizzes/{subject}/quizzes/{id} (homeworks likewise), each with a questions
// sub-collection.
type ClassworkRepo struct {
	client *Client
}

var _ classwork.Repository = (*ClassworkRepo)(nil)

func NewClassworkRepo(client *Client) *ClassworkRepo {
	return &ClassworkRepo{client: client}
}

// quizDoc and homeworkDoc omit the questions, which live in their own
// sub-collection.
type quizDoc struct {
	ID              string `json:"id"`
	SubjectID       string `json:"subject_id"`
	Title           string `json:"title"`
	DurationMinutes int    `json:"duration_minutes"`
	DueDate         string `json:"due_date"`
	CreatedBy       string `json:"created_by"`
	CreatedAt       string `json:"created_at"`
}

type homeworkDoc struct {
	ID        string `json:"id"`
	SubjectID string `json:"subject_id"`
	Title     string `json:"title"`
	DueDate   string `json:"due_date"`
	CreatedBy string `json:"created_by"`
	CreatedAt string `json:"created_at"`
}

func (r *ClassworkRepo) PutQuiz(ctx context.Context, quiz classwork.Quiz) error {
	path := quizPath(quiz.SubjectID, quiz.ID)
	doc := quizDoc{
		ID:              quiz.ID,
		SubjectID:       quiz.SubjectID,
		Title:           quiz.Title,
		DurationMinutes: quiz.DurationMinutes,
		DueDate:         quiz.DueDate.Format(timeLayout),
		CreatedBy:       quiz.CreatedBy,
		CreatedAt:       quiz.CreatedAt.Format(timeLayout),
	}
	if err := r.client.Set(ctx, path, doc, false); err != nil {
		return err
	}
	return r.putQuestions(ctx, path, quiz.Questions)
}

func (r *ClassworkRepo) PutHomework(ctx context.Context, hw classwork.Homework) error {
	path := homeworkPath(hw.SubjectID, hw.ID)
	doc := homeworkDoc{
		ID:        hw.ID,
		SubjectID: hw.SubjectID,
		Title:     hw.Title,
		DueDate:   hw.DueDate.Format(timeLayout),
		CreatedBy: hw.CreatedBy,
		CreatedAt: hw.CreatedAt.Format(timeLayout),
	}
	if err := r.client.Set(ctx, path, doc, false); err != nil {
		return err
	}
	return r.putQuestions(ctx, path, hw.Questions)
}

func (r *ClassworkRepo) ListQuizzes(ctx context.Context, subjectID string) ([]classwork.Quiz, error) {
	var docs []quizDoc
	if err := r.client.List(ctx, fmt.Sprintf("quizzes/%s/quizzes", subjectID), &docs); err != nil {
		return nil, err
	}
	out := make([]classwork.Quiz, 0, len(docs))
	for _, doc := range docs {
		quiz := classwork.Quiz{
			ID:              doc.ID,
			SubjectID:       doc.SubjectID,
			Title:           doc.Title,
			DurationMinutes: doc.DurationMinutes,
			CreatedBy:       doc.CreatedBy,
		}
		quiz.DueDate = parseTime(doc.DueDate)
		quiz.CreatedAt = parseTime(doc.CreatedAt)

		questions, err := r.listQuestions(ctx, quizPath(subjectID, doc.ID))
		if err != nil {
			return nil, err
		}
		quiz.Questions = questions
		out = append(out, quiz)
	}
	return out, nil
}

func (r *ClassworkRepo) ListHomework(ctx context.Context, subjectID string) ([]classwork.Homework, error) {
	var docs []homeworkDoc
	if err := r.client.List(ctx, fmt.Sprintf("homeworks/%s/homeworks", subjectID), &docs); err != nil {
		return nil, err
	}
	out := make([]classwork.Homework, 0, len(docs))
	for _, doc := range docs {
		hw := classwork.Homework{
			ID:        doc.ID,
			SubjectID: doc.SubjectID,
			Title:     doc.Title,
			CreatedBy: doc.CreatedBy,
		}
		hw.DueDate = parseTime(doc.DueDate)
		hw.CreatedAt = parseTime(doc.CreatedAt)

		questions, err := r.listQuestions(ctx, homeworkPath(subjectID, doc.ID))
		if err != nil {
			return nil, err
		}
		hw.Questions = questions
		out = append(out, hw)
	}
	return out, nil
}

func (r *ClassworkRepo) putQuestions(ctx context.Context, parent string, questions []classwork.Question) error {
	for _, q := range questions {
		if err := r.client.Set(ctx, parent+"/questions/"+q.ID, q, false); err != nil {
			return err
		}
	}
	return nil
}

func (r *ClassworkRepo) listQuestions(ctx context.Context, parent string) ([]classwork.Question, error) {
	var questions []classwork.Question
	if err := r.client.List(ctx, parent+"/questions", &questions); err != nil {
		return nil, err
	}
	return questions, nil
}

type announcementDoc struct {
	ID        string `json:"id"`
	SubjectID string `json:"subject_id"`
	Title     string `json:"title"`
	Body      string `json:"body"`
	CreatedBy string `json:"created_by"`
	CreatedAt string `json:"created_at"`
}

type commentDoc struct {
	ID         string `json:"id"`
	AuthorUID  string `json:"author_uid"`
	AuthorName string `json:"author_name"`
	Body       string `json:"body"`
	CreatedAt  string `json:"created_at"`
}

func (r *ClassworkRepo) PutAnnouncement(ctx context.Context, a classwork.Announcement) error {
	doc := announcementDoc{
		ID:        a.ID,
		SubjectID: a.SubjectID,
		Title:     a.Title,
		Body:      a.Body,
		CreatedBy: a.CreatedBy,
		CreatedAt: a.CreatedAt.Format(timeLayout),
	}
	return r.client.Set(ctx, announcementPath(a.SubjectID, a.ID), doc, false)
}

func (r *ClassworkRepo) ListAnnouncements(ctx context.Context, subjectID string) ([]classwork.Announcement, error) {
	var docs []announcementDoc
	if err := r.client.List(ctx, fmt.Sprintf("announcements/%s/announcements", subjectID), &docs); err != nil {
		return nil, err
	}
	out := make([]classwork.Announcement, 0, len(docs))
	for _, doc := range docs {
		out = append(out, classwork.Announcement{
			ID:        doc.ID,
			SubjectID: doc.SubjectID,
			Title:     doc.Title,
			Body:      doc.Body,
			CreatedBy: doc.CreatedBy,
			CreatedAt: parseTime(doc.CreatedAt),
		})
	}
	return out, nil
}

func (r *ClassworkRepo) PutComment(ctx context.Context, subjectID, announcementID string, c classwork.Comment) error {
	doc := commentDoc{
		ID:         c.ID,
		AuthorUID:  c.AuthorUID,
		AuthorName: c.AuthorName,
		Body:       c.Body,
		CreatedAt:  c.CreatedAt.Format(timeLayout),
	}
	path := announcementPath(subjectID, announcementID) + "/comments/" + c.ID
	return r.client.Set(ctx, path, doc, false)
}

func (r *ClassworkRepo) ListComments(ctx context.Context, subjectID, announcementID string) ([]classwork.Comment, error) {
	var docs []commentDoc
	path := announcementPath(subjectID, announcementID) + "/comments"
	if err := r.client.List(ctx, path, &docs, WithOrder("created_at", false)); err != nil {
		return nil, err
	}
	out := make([]classwork.Comment, 0, len(docs))
	for _, doc := range docs {
		out = append(out, classwork.Comment{
			ID:         doc.ID,
			AuthorUID:  doc.AuthorUID,
			AuthorName: doc.AuthorName,
			Body:       doc.Body,
			CreatedAt:  parseTime(doc.CreatedAt),
		})
	}
	return out, nil
}

func announcementPath(subjectID, id string) string {
	return fmt.Sprintf("announcements/%s/announcements/%s", subjectID, id)
}

func quizPath(subjectID, id string) string {
	return fmt.Sprintf("quizzes/%s/quizzes/%s", subjectID, id)
}

func homeworkPath(subjectID, id string) string {
	return fmt.Sprintf("homeworks/%s/homeworks/%s", subjectID, id)
}
