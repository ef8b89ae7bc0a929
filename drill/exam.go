package drill

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/quizdrill/quizdrill/drill/internal/store"
	"github.com/quizdrill/quizdrill/idgen"
)

// ExamOptions selects and orders the questions for a new exam.
type ExamOptions struct {
	Title      string `json:"title,omitempty"`
	BankID     string `json:"bank_id,omitempty"`
	Category   string `json:"category,omitempty"`
	Difficulty string `json:"difficulty,omitempty"`

	// Count caps the number of questions; 0 uses the saved default.
	Count int `json:"count,omitempty"`

	// Shuffle overrides the saved random-order preference when set.
	Shuffle *bool `json:"shuffle,omitempty"`

	// FromWrongAnswers draws questions from the wrong-answer book instead
	// of the banks. The filter fields still apply.
	FromWrongAnswers bool `json:"from_wrong_answers,omitempty"`
}

// StartExam assembles a question set and opens a new practice session.
// The selected questions are frozen into the exam record, so later bank
// edits never change a running or historical exam.
func (s *Service) StartExam(ctx context.Context, opts ExamOptions) (*store.ExamRecord, error) {
	set, err := s.Settings(ctx)
	if err != nil {
		return nil, err
	}

	questions, err := s.selectQuestions(ctx, opts)
	if err != nil {
		return nil, err
	}
	if len(questions) == 0 {
		return nil, fmt.Errorf("no questions match the exam options")
	}

	shuffle := set.RandomOrder
	if opts.Shuffle != nil {
		shuffle = *opts.Shuffle
	}
	if shuffle {
		rand.Shuffle(len(questions), func(i, j int) {
			questions[i], questions[j] = questions[j], questions[i]
		})
	}

	count := opts.Count
	if count <= 0 {
		count = set.DefaultQuestionCount
	}
	if count < len(questions) {
		questions = questions[:count]
	}

	title := opts.Title
	if title == "" {
		title = "Practice Exam " + time.Now().Format("2006-01-02 15:04")
		if opts.FromWrongAnswers {
			title = "Wrong-Answer Drill " + time.Now().Format("2006-01-02 15:04")
		}
	}

	exam := &store.ExamRecord{
		ID:        idgen.Prefixed("exam_", s.ids)(),
		Title:     title,
		Questions: questions,
		Answers:   map[string]string{},
	}
	if err := s.store.InsertExam(ctx, exam); err != nil {
		return nil, err
	}

	s.logger.Info("exam started", "exam", exam.ID, "questions", len(questions), "title", title)
	return exam, nil
}

func (s *Service) selectQuestions(ctx context.Context, opts ExamOptions) ([]*store.Question, error) {
	if opts.FromWrongAnswers {
		wrongs, err := s.store.ListWrongAnswers(ctx)
		if err != nil {
			return nil, err
		}
		var questions []*store.Question
		for _, w := range wrongs {
			q := w.Question
			if q == nil {
				continue
			}
			if opts.Category != "" && q.Category != opts.Category {
				continue
			}
			if opts.Difficulty != "" && q.Difficulty != opts.Difficulty {
				continue
			}
			questions = append(questions, q)
		}
		return questions, nil
	}

	return s.store.ListQuestions(ctx, store.QuestionFilter{
		BankID:     opts.BankID,
		Category:   opts.Category,
		Difficulty: opts.Difficulty,
	})
}

// SubmitAnswer records the answer to one exam question. Re-answering the
// same question before the exam finishes overwrites the earlier choice.
func (s *Service) SubmitAnswer(ctx context.Context, examID, questionID, answer string) error {
	exam, err := s.store.GetExam(ctx, examID)
	if err != nil {
		return err
	}
	if exam == nil {
		return fmt.Errorf("exam %s not found", examID)
	}
	if exam.Completed {
		return fmt.Errorf("exam %s is already completed", examID)
	}

	found := false
	for _, q := range exam.Questions {
		if q.ID == questionID {
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("question %s is not part of exam %s", questionID, examID)
	}

	return s.store.SetExamAnswer(ctx, examID, questionID, answer)
}

// FinishExam grades an exam and closes it. The score is the percentage of
// correct answers, rounded; unanswered questions count as wrong. Every
// missed question lands in the wrong-answer book, unanswered ones with an
// empty user answer.
func (s *Service) FinishExam(ctx context.Context, examID string) (*store.ExamRecord, error) {
	exam, err := s.store.GetExam(ctx, examID)
	if err != nil {
		return nil, err
	}
	if exam == nil {
		return nil, fmt.Errorf("exam %s not found", examID)
	}
	if exam.Completed {
		return nil, fmt.Errorf("exam %s is already completed", examID)
	}

	correct := 0
	now := time.Now().UnixMilli()
	for _, q := range exam.Questions {
		answer := exam.Answers[q.ID]
		if answer == q.CorrectAnswer {
			correct++
			continue
		}
		err := s.store.UpsertWrongAnswer(ctx, &store.WrongAnswer{
			QuestionID: q.ID,
			Question:   q,
			UserAnswer: answer,
			ExamID:     examID,
			Timestamp:  now,
		})
		if err != nil {
			return nil, fmt.Errorf("record wrong answer %s: %w", q.ID, err)
		}
	}

	score := int(math.Round(float64(correct) / float64(len(exam.Questions)) * 100))
	if err := s.store.CompleteExam(ctx, examID, score, now); err != nil {
		return nil, err
	}

	exam.Score = score
	exam.Completed = true
	exam.CompletedAt = now

	s.logger.Info("exam finished",
		"exam", examID,
		"score", score,
		"correct", correct,
		"total", len(exam.Questions))
	return exam, nil
}

// Exam retrieves one exam record with its answers.
func (s *Service) Exam(ctx context.Context, id string) (*store.ExamRecord, error) {
	return s.store.GetExam(ctx, id)
}

// History lists all exam records, newest first.
func (s *Service) History(ctx context.Context) ([]*store.ExamRecord, error) {
	return s.store.ListExams(ctx)
}

// WrongAnswers lists the wrong-answer book, most recent mistakes first.
func (s *Service) WrongAnswers(ctx context.Context) ([]*store.WrongAnswer, error) {
	return s.store.ListWrongAnswers(ctx)
}

// RemoveWrongAnswer drops one mastered question from the book.
func (s *Service) RemoveWrongAnswer(ctx context.Context, questionID string) error {
	return s.store.DeleteWrongAnswer(ctx, questionID)
}
