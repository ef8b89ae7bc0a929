package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// ExamRecord is one practice session. Questions is a frozen snapshot taken
// at start time, so the record stays readable after its bank is deleted.
type ExamRecord struct {
	ID          string            `json:"id"`
	Title       string            `json:"title"`
	Questions   []*Question       `json:"questions"`
	Answers     map[string]string `json:"answers"`
	Score       int               `json:"score"`
	Completed   bool              `json:"completed"`
	CreatedAt   int64             `json:"created_at"`
	CompletedAt int64             `json:"completed_at,omitempty"`
}

// InsertExam creates a new exam record with its question snapshot.
func (s *Store) InsertExam(ctx context.Context, e *ExamRecord) error {
	if e.CreatedAt == 0 {
		e.CreatedAt = time.Now().UnixMilli()
	}
	snapshot, err := json.Marshal(e.Questions)
	if err != nil {
		return err
	}
	_, err = s.DB.ExecContext(ctx, `
		INSERT INTO exam_records (id, title, questions_json, score, completed, created_at, completed_at)
		VALUES (?,?,?,?,?,?,?)`,
		e.ID, e.Title, string(snapshot), e.Score, boolInt(e.Completed), e.CreatedAt, nullInt(e.CompletedAt),
	)
	return err
}

// GetExam retrieves an exam with its answers, or nil when absent.
func (s *Store) GetExam(ctx context.Context, id string) (*ExamRecord, error) {
	e := &ExamRecord{}
	var snapshot string
	var completed int
	var completedAt sql.NullInt64

	err := s.DB.QueryRowContext(ctx, `
		SELECT id, title, questions_json, score, completed, created_at, completed_at
		FROM exam_records WHERE id = ?`, id).Scan(
		&e.ID, &e.Title, &snapshot, &e.Score, &completed, &e.CreatedAt, &completedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	e.Completed = completed != 0
	e.CompletedAt = completedAt.Int64
	if err := json.Unmarshal([]byte(snapshot), &e.Questions); err != nil {
		return nil, fmt.Errorf("exam %s snapshot: %w", e.ID, err)
	}

	e.Answers, err = s.examAnswers(ctx, id)
	return e, err
}

// ListExams returns all exam records, newest first, with answers attached.
func (s *Store) ListExams(ctx context.Context) ([]*ExamRecord, error) {
	rows, err := s.DB.QueryContext(ctx, `
		SELECT id, title, questions_json, score, completed, created_at, completed_at
		FROM exam_records ORDER BY created_at DESC, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var exams []*ExamRecord
	for rows.Next() {
		e := &ExamRecord{}
		var snapshot string
		var completed int
		var completedAt sql.NullInt64
		if err := rows.Scan(&e.ID, &e.Title, &snapshot, &e.Score, &completed, &e.CreatedAt, &completedAt); err != nil {
			return nil, err
		}
		e.Completed = completed != 0
		e.CompletedAt = completedAt.Int64
		if err := json.Unmarshal([]byte(snapshot), &e.Questions); err != nil {
			return nil, fmt.Errorf("exam %s snapshot: %w", e.ID, err)
		}
		exams = append(exams, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, e := range exams {
		if e.Answers, err = s.examAnswers(ctx, e.ID); err != nil {
			return nil, err
		}
	}
	return exams, nil
}

// SetExamAnswer records (or overwrites) the answer to one question.
func (s *Store) SetExamAnswer(ctx context.Context, examID, questionID, answer string) error {
	_, err := s.DB.ExecContext(ctx, `
		INSERT INTO exam_answers (exam_id, question_id, answer, answered_at)
		VALUES (?,?,?,?)
		ON CONFLICT (exam_id, question_id) DO UPDATE SET
			answer = excluded.answer,
			answered_at = excluded.answered_at`,
		examID, questionID, answer, time.Now().UnixMilli(),
	)
	return err
}

// CompleteExam marks an exam finished with its final score.
func (s *Store) CompleteExam(ctx context.Context, id string, score int, completedAt int64) error {
	_, err := s.DB.ExecContext(ctx, `
		UPDATE exam_records SET score=?, completed=1, completed_at=? WHERE id=?`,
		score, completedAt, id,
	)
	return err
}

func (s *Store) examAnswers(ctx context.Context, examID string) (map[string]string, error) {
	rows, err := s.DB.QueryContext(ctx, `
		SELECT question_id, answer FROM exam_answers WHERE exam_id = ?`, examID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	answers := make(map[string]string)
	for rows.Next() {
		var qid, ans string
		if err := rows.Scan(&qid, &ans); err != nil {
			return nil, err
		}
		answers[qid] = ans
	}
	return answers, rows.Err()
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func nullInt(n int64) sql.NullInt64 {
	if n == 0 {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: n, Valid: true}
}
