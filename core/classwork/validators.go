package classwork

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/shulehub/shule/core"
)

var (
	dueWindowTag  = "due_window"
	dueWindowText = "due date must be in the next 30 days"
	maxDueWindow  = 30 * 24 * time.Hour

	answerRangeTag  = "answer_range"
	answerRangeText = "every answer must reference one of its question's options"

	NowFunc = time.Now // mockable
)

func init() {
	core.Validate.RegisterStructValidation(classworkStructValidation, NewQuiz{}, NewHomework{})
	core.RegisterCustomTranslation(dueWindowTag, dueWindowText)
	core.RegisterCustomTranslation(answerRangeTag, answerRangeText)
}

func classworkStructValidation(sl validator.StructLevel) {
	switch v := sl.Current().Interface().(type) {
	case NewQuiz:
		validateDueDate(sl, v.DueDate)
		validateAnswers(sl, v.Questions)
	case NewHomework:
		validateDueDate(sl, v.DueDate)
		validateAnswers(sl, v.Questions)
	}
}

func validateDueDate(sl validator.StructLevel, due time.Time) {
	if due.IsZero() {
		return // the required tag reports this one
	}
	now := NowFunc()
	if due.Before(now) || due.After(now.Add(maxDueWindow)) {
		sl.ReportError(due, "due_date", "DueDate", dueWindowTag, "")
	}
}

func validateAnswers(sl validator.StructLevel, questions []NewQuestion) {
	for _, q := range questions {
		if q.Answer < 0 || q.Answer >= len(q.Options) {
			sl.ReportError(questions, "questions", "Questions", answerRangeTag, "")
			return
		}
	}
}
