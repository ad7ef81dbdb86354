package classwork

import "time"

// Classwork documents live in the document store, grouped per subject. The
// subject key is the backend's numeric subject id rendered as a string;
// the documents themselves never get numeric ids.

type Question struct {
	ID      string   `json:"id"`
	Text    string   `json:"text"`
	Options []string `json:"options"`
	Answer  int      `json:"answer"` // index into Options
	Points  int      `json:"points"`
}

type Quiz struct {
	ID              string     `json:"id"`
	SubjectID       string     `json:"subject_id"`
	Title           string     `json:"title"`
	DurationMinutes int        `json:"duration_minutes"`
	DueDate         time.Time  `json:"due_date"`
	Questions       []Question `json:"questions"`
	CreatedBy       string     `json:"created_by"` // teacher identity uid
	CreatedAt       time.Time  `json:"created_at"`
}

type Homework struct {
	ID        string     `json:"id"`
	SubjectID string     `json:"subject_id"`
	Title     string     `json:"title"`
	DueDate   time.Time  `json:"due_date"`
	Questions []Question `json:"questions"`
	CreatedBy string     `json:"created_by"`
	CreatedAt time.Time  `json:"created_at"`
}

type Announcement struct {
	ID        string    `json:"id"`
	SubjectID string    `json:"subject_id"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	CreatedBy string    `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
}

// Comment is a reply under an announcement.
type Comment struct {
	ID         string    `json:"id"`
	AuthorUID  string    `json:"author_uid"`
	AuthorName string    `json:"author_name"`
	Body       string    `json:"body"`
	CreatedAt  time.Time `json:"created_at"`
}

// authoring inputs

type NewQuestion struct {
	Text    string   `json:"text" validate:"required"`
	Options []string `json:"options" validate:"min=2,dive,required"`
	Answer  int      `json:"answer" validate:"min=0"`
	Points  int      `json:"points" validate:"min=1"`
}

type NewQuiz struct {
	SubjectID       string        `json:"subject_id" validate:"required"`
	Title           string        `json:"title" validate:"required"`
	DurationMinutes int           `json:"duration_minutes" validate:"min=1"`
	DueDate         time.Time     `json:"due_date" validate:"required"`
	Questions       []NewQuestion `json:"questions" validate:"min=1,dive"`
}

type NewHomework struct {
	SubjectID string        `json:"subject_id" validate:"required"`
	Title     string        `json:"title" validate:"required"`
	DueDate   time.Time     `json:"due_date" validate:"required"`
	Questions []NewQuestion `json:"questions" validate:"min=1,dive"`
}

type NewAnnouncement struct {
	SubjectID string `json:"subject_id" validate:"required"`
	Title     string `json:"title" validate:"required"`
	Body      string `json:"body" validate:"required"`
}

type NewComment struct {
	Body string `json:"body" validate:"required"`
}
