package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/quizdrill/quizdrill/dbopen"
)

// Bank is one imported question bank, typically one per source file.
type Bank struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Source        string   `json:"source,omitempty"`
	Categories    []string `json:"categories"`
	QuestionCount int      `json:"question_count"`
	CreatedAt     int64    `json:"created_at"`
}

// Question is a recognized multiple-choice record.
type Question struct {
	ID            string   `json:"id"`
	BankID        string   `json:"bank_id,omitempty"`
	Position      int      `json:"-"`
	Content       string   `json:"content"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correct_answer"`
	Category      string   `json:"category"`
	Difficulty    string   `json:"difficulty"`
	Explanation   string   `json:"explanation,omitempty"`
	Source        string   `json:"source,omitempty"`
}

// QuestionFilter narrows question listings.
type QuestionFilter struct {
	BankID     string
	Category   string
	Difficulty string
	Limit      int
}

// InsertBank creates a bank and its questions in one transaction.
func (s *Store) InsertBank(ctx context.Context, b *Bank, questions []*Question) error {
	if b.CreatedAt == 0 {
		b.CreatedAt = time.Now().UnixMilli()
	}
	cats, err := json.Marshal(b.Categories)
	if err != nil {
		return err
	}

	return dbopen.RunTx(ctx, s.DB, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO banks (id, name, source, categories_json, created_at)
			VALUES (?,?,?,?,?)`,
			b.ID, b.Name, b.Source, string(cats), b.CreatedAt,
		)
		if err != nil {
			return err
		}
		for i, q := range questions {
			opts, err := json.Marshal(q.Options)
			if err != nil {
				return err
			}
			_, err = tx.ExecContext(ctx, `
				INSERT INTO questions (id, bank_id, position, content, options_json,
					correct_answer, category, difficulty, explanation, source)
				VALUES (?,?,?,?,?,?,?,?,?,?)`,
				q.ID, b.ID, i, q.Content, string(opts),
				q.CorrectAnswer, q.Category, q.Difficulty, q.Explanation, q.Source,
			)
			if err != nil {
				return fmt.Errorf("insert question %s: %w", q.ID, err)
			}
		}
		return nil
	})
}

// GetBank retrieves a bank by ID, or nil when absent.
func (s *Store) GetBank(ctx context.Context, id string) (*Bank, error) {
	b := &Bank{}
	var cats string
	err := s.DB.QueryRowContext(ctx, `
		SELECT b.id, b.name, b.source, b.categories_json, b.created_at,
			(SELECT COUNT(*) FROM questions q WHERE q.bank_id = b.id)
		FROM banks b WHERE b.id = ?`, id).Scan(
		&b.ID, &b.Name, &b.Source, &cats, &b.CreatedAt, &b.QuestionCount,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(cats), &b.Categories); err != nil {
		return nil, fmt.Errorf("bank %s categories: %w", b.ID, err)
	}
	return b, nil
}

// ListBanks returns all banks, newest first.
func (s *Store) ListBanks(ctx context.Context) ([]*Bank, error) {
	rows, err := s.DB.QueryContext(ctx, `
		SELECT b.id, b.name, b.source, b.categories_json, b.created_at,
			(SELECT COUNT(*) FROM questions q WHERE q.bank_id = b.id)
		FROM banks b ORDER BY b.created_at DESC, b.id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var banks []*Bank
	for rows.Next() {
		b := &Bank{}
		var cats string
		if err := rows.Scan(&b.ID, &b.Name, &b.Source, &cats, &b.CreatedAt, &b.QuestionCount); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(cats), &b.Categories); err != nil {
			return nil, fmt.Errorf("bank %s categories: %w", b.ID, err)
		}
		banks = append(banks, b)
	}
	return banks, rows.Err()
}

// DeleteBank removes a bank; its questions cascade.
func (s *Store) DeleteBank(ctx context.Context, id string) error {
	_, err := s.DB.ExecContext(ctx, `DELETE FROM banks WHERE id = ?`, id)
	return err
}

// ListQuestions returns questions matching the filter, in import order.
func (s *Store) ListQuestions(ctx context.Context, f QuestionFilter) ([]*Question, error) {
	query := `
		SELECT id, bank_id, position, content, options_json,
			correct_answer, category, difficulty, explanation, source
		FROM questions WHERE 1=1`
	var args []any
	if f.BankID != "" {
		query += " AND bank_id = ?"
		args = append(args, f.BankID)
	}
	if f.Category != "" {
		query += " AND category = ?"
		args = append(args, f.Category)
	}
	if f.Difficulty != "" {
		query += " AND difficulty = ?"
		args = append(args, f.Difficulty)
	}
	query += " ORDER BY bank_id, position"
	if f.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, f.Limit)
	}

	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var questions []*Question
	for rows.Next() {
		q, err := scanQuestion(rows)
		if err != nil {
			return nil, err
		}
		questions = append(questions, q)
	}
	return questions, rows.Err()
}

// CountQuestions returns the total number of stored questions.
func (s *Store) CountQuestions(ctx context.Context) (int, error) {
	var n int
	err := s.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM questions`).Scan(&n)
	return n, err
}

// ListCategories returns distinct categories across all banks, sorted.
func (s *Store) ListCategories(ctx context.Context) ([]string, error) {
	rows, err := s.DB.QueryContext(ctx, `
		SELECT DISTINCT category FROM questions ORDER BY category`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cats []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, err
		}
		cats = append(cats, c)
	}
	return cats, rows.Err()
}

func scanQuestion(rows *sql.Rows) (*Question, error) {
	q := &Question{}
	var opts string
	if err := rows.Scan(&q.ID, &q.BankID, &q.Position, &q.Content, &opts,
		&q.CorrectAnswer, &q.Category, &q.Difficulty, &q.Explanation, &q.Source); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(opts), &q.Options); err != nil {
		return nil, fmt.Errorf("question %s options: %w", q.ID, err)
	}
	return q, nil
}
