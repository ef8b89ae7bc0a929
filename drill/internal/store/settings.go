package store

import (
	"context"
	"database/sql"
	"errors"
)

// Settings holds the practice preferences. A single row backs them.
type Settings struct {
	DefaultQuestionCount int  `json:"default_question_count"`
	ShowExplanation      bool `json:"show_explanation"`
	RandomOrder          bool `json:"random_order"`
}

// GetSettings returns the stored settings, or nil when none saved yet.
// The service layer supplies the configured initial values in that case.
func (s *Store) GetSettings(ctx context.Context) (*Settings, error) {
	set := &Settings{}
	var show, random int
	err := s.DB.QueryRowContext(ctx, `
		SELECT default_question_count, show_explanation, random_order
		FROM settings WHERE id = 1`).Scan(&set.DefaultQuestionCount, &show, &random)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	set.ShowExplanation = show != 0
	set.RandomOrder = random != 0
	return set, nil
}

// SetSettings saves the practice preferences.
func (s *Store) SetSettings(ctx context.Context, set *Settings) error {
	_, err := s.DB.ExecContext(ctx, `
		INSERT INTO settings (id, default_question_count, show_explanation, random_order)
		VALUES (1,?,?,?)
		ON CONFLICT (id) DO UPDATE SET
			default_question_count = excluded.default_question_count,
			show_explanation = excluded.show_explanation,
			random_order = excluded.random_order`,
		set.DefaultQuestionCount, boolInt(set.ShowExplanation), boolInt(set.RandomOrder),
	)
	return err
}
