package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// WrongAnswer is one entry in the wrong-answer book, keyed by question ID.
// Repeated mistakes on the same question bump Count instead of adding rows.
type WrongAnswer struct {
	QuestionID string    `json:"question_id"`
	Question   *Question `json:"question"`
	UserAnswer string    `json:"user_answer"`
	ExamID     string    `json:"exam_id,omitempty"`
	Timestamp  int64     `json:"timestamp"`
	Count      int       `json:"count"`
}

// UpsertWrongAnswer records a mistake. A fresh question gets a new row;
// a repeat updates the latest answer and increments the count.
func (s *Store) UpsertWrongAnswer(ctx context.Context, w *WrongAnswer) error {
	if w.Timestamp == 0 {
		w.Timestamp = time.Now().UnixMilli()
	}
	qjson, err := json.Marshal(w.Question)
	if err != nil {
		return err
	}
	_, err = s.DB.ExecContext(ctx, `
		INSERT INTO wrong_answers (question_id, question_json, user_answer, exam_id, timestamp, count)
		VALUES (?,?,?,?,?,1)
		ON CONFLICT (question_id) DO UPDATE SET
			question_json = excluded.question_json,
			user_answer = excluded.user_answer,
			exam_id = excluded.exam_id,
			timestamp = excluded.timestamp,
			count = count + 1`,
		w.QuestionID, string(qjson), w.UserAnswer, w.ExamID, w.Timestamp,
	)
	return err
}

// ListWrongAnswers returns the wrong-answer book, most recent first.
func (s *Store) ListWrongAnswers(ctx context.Context) ([]*WrongAnswer, error) {
	rows, err := s.DB.QueryContext(ctx, `
		SELECT question_id, question_json, user_answer, exam_id, timestamp, count
		FROM wrong_answers ORDER BY timestamp DESC, question_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var wrongs []*WrongAnswer
	for rows.Next() {
		w := &WrongAnswer{}
		var qjson string
		if err := rows.Scan(&w.QuestionID, &qjson, &w.UserAnswer, &w.ExamID, &w.Timestamp, &w.Count); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(qjson), &w.Question); err != nil {
			return nil, fmt.Errorf("wrong answer %s question: %w", w.QuestionID, err)
		}
		wrongs = append(wrongs, w)
	}
	return wrongs, rows.Err()
}

// DeleteWrongAnswer removes one entry from the book.
func (s *Store) DeleteWrongAnswer(ctx context.Context, questionID string) error {
	_, err := s.DB.ExecContext(ctx, `DELETE FROM wrong_answers WHERE question_id = ?`, questionID)
	return err
}

// CountWrongAnswers returns the number of entries in the book.
func (s *Store) CountWrongAnswers(ctx context.Context) (int, error) {
	var n int
	err := s.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM wrong_answers`).Scan(&n)
	return n, err
}
