package drill

import (
	"context"

	"github.com/quizdrill/quizdrill/drill/internal/store"
)

// Export returns the full application state as one snapshot, suitable for
// JSON serialization and later restore.
func (s *Service) Export(ctx context.Context) (*store.Snapshot, error) {
	return s.store.Export(ctx)
}

// ImportState replaces the entire application state with the snapshot.
// The restore is atomic: on error the previous state is untouched.
func (s *Service) ImportState(ctx context.Context, snap *store.Snapshot) error {
	if err := s.store.Import(ctx, snap); err != nil {
		return err
	}
	s.logger.Info("state restored",
		"banks", len(snap.Banks),
		"questions", len(snap.Questions),
		"exams", len(snap.Exams),
		"wrong_answers", len(snap.WrongAnswers))
	return nil
}
