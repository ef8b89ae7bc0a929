package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/quizdrill/quizdrill/dbopen"
)

// Snapshot is the full database state, used for export and restore.
type Snapshot struct {
	Banks        []*Bank        `json:"banks"`
	Questions    []*Question    `json:"questions"`
	Exams        []*ExamRecord  `json:"exams"`
	WrongAnswers []*WrongAnswer `json:"wrong_answers"`
	Settings     *Settings      `json:"settings"`
}

// Export reads the complete state.
func (s *Store) Export(ctx context.Context) (*Snapshot, error) {
	snap := &Snapshot{}
	var err error

	if snap.Banks, err = s.ListBanks(ctx); err != nil {
		return nil, err
	}
	if snap.Questions, err = s.ListQuestions(ctx, QuestionFilter{}); err != nil {
		return nil, err
	}
	if snap.Exams, err = s.ListExams(ctx); err != nil {
		return nil, err
	}
	if snap.WrongAnswers, err = s.ListWrongAnswers(ctx); err != nil {
		return nil, err
	}
	if snap.Settings, err = s.GetSettings(ctx); err != nil {
		return nil, err
	}
	return snap, nil
}

// Import replaces the entire database state with the snapshot.
// Existing rows are dropped first; the whole restore is one transaction.
func (s *Store) Import(ctx context.Context, snap *Snapshot) error {
	return dbopen.RunTx(ctx, s.DB, func(tx *sql.Tx) error {
		for _, table := range []string{"exam_answers", "exam_records", "wrong_answers", "questions", "banks", "settings"} {
			if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
				return fmt.Errorf("clear %s: %w", table, err)
			}
		}

		for _, b := range snap.Banks {
			cats, err := json.Marshal(b.Categories)
			if err != nil {
				return err
			}
			_, err = tx.ExecContext(ctx, `
				INSERT INTO banks (id, name, source, categories_json, created_at)
				VALUES (?,?,?,?,?)`,
				b.ID, b.Name, b.Source, string(cats), b.CreatedAt,
			)
			if err != nil {
				return fmt.Errorf("restore bank %s: %w", b.ID, err)
			}
		}
		for i, q := range snap.Questions {
			opts, err := json.Marshal(q.Options)
			if err != nil {
				return err
			}
			pos := q.Position
			if pos == 0 {
				pos = i
			}
			_, err = tx.ExecContext(ctx, `
				INSERT INTO questions (id, bank_id, position, content, options_json,
					correct_answer, category, difficulty, explanation, source)
				VALUES (?,?,?,?,?,?,?,?,?,?)`,
				q.ID, q.BankID, pos, q.Content, string(opts),
				q.CorrectAnswer, q.Category, q.Difficulty, q.Explanation, q.Source,
			)
			if err != nil {
				return fmt.Errorf("restore question %s: %w", q.ID, err)
			}
		}
		for _, e := range snap.Exams {
			qjson, err := json.Marshal(e.Questions)
			if err != nil {
				return err
			}
			_, err = tx.ExecContext(ctx, `
				INSERT INTO exam_records (id, title, questions_json, score, completed, created_at, completed_at)
				VALUES (?,?,?,?,?,?,?)`,
				e.ID, e.Title, string(qjson), e.Score, boolInt(e.Completed), e.CreatedAt, nullInt(e.CompletedAt),
			)
			if err != nil {
				return fmt.Errorf("restore exam %s: %w", e.ID, err)
			}
			for qid, ans := range e.Answers {
				_, err = tx.ExecContext(ctx, `
					INSERT INTO exam_answers (exam_id, question_id, answer, answered_at)
					VALUES (?,?,?,?)`,
					e.ID, qid, ans, e.CreatedAt,
				)
				if err != nil {
					return fmt.Errorf("restore exam %s answer: %w", e.ID, err)
				}
			}
		}
		for _, w := range snap.WrongAnswers {
			qjson, err := json.Marshal(w.Question)
			if err != nil {
				return err
			}
			count := w.Count
			if count < 1 {
				count = 1
			}
			_, err = tx.ExecContext(ctx, `
				INSERT INTO wrong_answers (question_id, question_json, user_answer, exam_id, timestamp, count)
				VALUES (?,?,?,?,?,?)`,
				w.QuestionID, string(qjson), w.UserAnswer, w.ExamID, w.Timestamp, count,
			)
			if err != nil {
				return fmt.Errorf("restore wrong answer %s: %w", w.QuestionID, err)
			}
		}
		if snap.Settings != nil {
			_, err := tx.ExecContext(ctx, `
				INSERT INTO settings (id, default_question_count, show_explanation, random_order)
				VALUES (1,?,?,?)`,
				snap.Settings.DefaultQuestionCount,
				boolInt(snap.Settings.ShowExplanation),
				boolInt(snap.Settings.RandomOrder),
			)
			if err != nil {
				return fmt.Errorf("restore settings: %w", err)
			}
		}
		return nil
	})
}
