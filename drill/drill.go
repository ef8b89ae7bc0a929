// Package drill is the exam-practice engine.
//
// It turns question-bank source files (Excel, Word, PDF, text, HTML) into
// stored question banks, runs practice exams over them, and keeps a
// wrong-answer book for follow-up drilling. The pipeline:
//
//	docload → extract → store → exams/MCP/HTTP
//
// Key features:
//   - File import: extension-routed decoding, line-scan question recognition
//   - Per-file isolation: one bad file never blocks a batch import
//   - Exam sessions: filtered/shuffled question selection, frozen snapshots
//   - Wrong-answer book: per-question mistake counting, re-drill source
//   - State export/import: full JSON snapshot for backup and transfer
//
// Usage:
//
//	svc, err := drill.New(cfg, logger)
//	defer svc.Close()
//	reports := svc.ImportFiles(ctx, paths)
//	exam, err := svc.StartExam(ctx, drill.ExamOptions{Count: 20})
package drill

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"

	"github.com/quizdrill/quizdrill/docload"
	"github.com/quizdrill/quizdrill/drill/internal/store"
	"github.com/quizdrill/quizdrill/extract"
	"github.com/quizdrill/quizdrill/idgen"
)

// Service is the main drill orchestrator.
type Service struct {
	store     *store.Store
	loader    *docload.Pipeline
	extractor *extract.Extractor
	ids       idgen.Generator
	logger    *slog.Logger
	config    *Config
}

// New creates a Service instance. Opens the SQLite database and initialises
// the file loader and question extractor.
func New(cfg *Config, logger *slog.Logger) (*Service, error) {
	cfg.defaults()
	if logger == nil {
		logger = slog.Default()
	}

	s, err := store.Open(cfg.DBPath)
	if err != nil {
		return nil, err
	}

	loader := docload.New(docload.Config{
		MaxFileSize: cfg.Import.MaxFileSize,
		MinPDFChars: cfg.Import.MinPDFChars,
		Logger:      logger,
	})

	return &Service{
		store:     s,
		loader:    loader,
		extractor: extract.New(nil),
		ids:       idgen.Default,
		logger:    logger,
		config:    cfg,
	}, nil
}

// Close shuts down the service and closes the database.
func (s *Service) Close() error {
	return s.store.Close()
}

// Store returns the underlying store for direct access (testing, admin).
func (s *Service) Store() *store.Store {
	return s.store
}

// ImportReport is the outcome of importing one source file.
// A nil Bank with Result.Success false means the file yielded nothing;
// Result.Err carries the description when the file could not be decoded.
type ImportReport struct {
	Path   string              `json:"path"`
	Bank   *store.Bank         `json:"bank,omitempty"`
	Result extract.ParseResult `json:"result"`
}

// ImportFile loads one source file, recognizes its questions, and stores
// them as a new bank. Decode and recognition failures are reported in the
// ImportReport, not as errors; the error return is for storage problems.
func (s *Service) ImportFile(ctx context.Context, path string) (*ImportReport, error) {
	report := &ImportReport{Path: path}

	doc, err := s.loader.Load(ctx, path)
	if err != nil {
		s.logger.Warn("import failed", "path", path, "error", err)
		report.Result = extract.Failed(err)
		return report, nil
	}

	source := filepath.Base(path)
	if doc.Format == docload.FormatExcel {
		report.Result = s.extractor.FromGrid(doc.Grid, source)
	} else {
		report.Result = s.extractor.FromText(doc.Text, source)
	}
	if !report.Result.Success {
		s.logger.Info("no questions recognized", "path", path)
		return report, nil
	}

	bank := &store.Bank{
		ID:         idgen.Prefixed("bank_", s.ids)(),
		Name:       source,
		Source:     path,
		Categories: report.Result.Categories,
	}
	questions := make([]*store.Question, len(report.Result.Questions))
	for i, q := range report.Result.Questions {
		questions[i] = storeQuestion(q, bank.ID)
	}
	if err := s.store.InsertBank(ctx, bank, questions); err != nil {
		return nil, fmt.Errorf("store bank for %s: %w", path, err)
	}
	bank.QuestionCount = len(questions)
	report.Bank = bank

	s.logger.Info("imported bank",
		"path", path,
		"bank", bank.ID,
		"questions", len(questions),
		"categories", len(bank.Categories))
	return report, nil
}

// ImportFiles imports several source files concurrently. Each file is an
// independent unit: a failure in one never affects the others. Reports come
// back in input order.
func (s *Service) ImportFiles(ctx context.Context, paths []string) []*ImportReport {
	reports := make([]*ImportReport, len(paths))
	var wg sync.WaitGroup
	for i, path := range paths {
		wg.Add(1)
		go func(i int, path string) {
			defer wg.Done()
			report, err := s.ImportFile(ctx, path)
			if err != nil {
				report = &ImportReport{Path: path, Result: extract.Failed(err)}
			}
			reports[i] = report
		}(i, path)
	}
	wg.Wait()
	return reports
}

// Banks lists all imported question banks.
func (s *Service) Banks(ctx context.Context) ([]*store.Bank, error) {
	return s.store.ListBanks(ctx)
}

// Bank retrieves one bank by ID, or nil when absent.
func (s *Service) Bank(ctx context.Context, id string) (*store.Bank, error) {
	return s.store.GetBank(ctx, id)
}

// DeleteBank removes a bank and its questions.
func (s *Service) DeleteBank(ctx context.Context, id string) error {
	return s.store.DeleteBank(ctx, id)
}

// Categories lists the distinct categories across all banks.
func (s *Service) Categories(ctx context.Context) ([]string, error) {
	return s.store.ListCategories(ctx)
}

// Questions lists stored questions matching the filter.
func (s *Service) Questions(ctx context.Context, f store.QuestionFilter) ([]*store.Question, error) {
	return s.store.ListQuestions(ctx, f)
}

// Settings returns the current practice preferences, falling back to the
// configured initial values when nothing has been saved.
func (s *Service) Settings(ctx context.Context) (*store.Settings, error) {
	set, err := s.store.GetSettings(ctx)
	if err != nil {
		return nil, err
	}
	if set == nil {
		set = &store.Settings{
			DefaultQuestionCount: s.config.Exam.DefaultQuestionCount,
			ShowExplanation:      *s.config.Exam.ShowExplanation,
			RandomOrder:          *s.config.Exam.RandomOrder,
		}
	}
	return set, nil
}

// SaveSettings stores the practice preferences.
func (s *Service) SaveSettings(ctx context.Context, set *store.Settings) error {
	return s.store.SetSettings(ctx, set)
}

// Stats returns current store statistics.
func (s *Service) Stats(ctx context.Context) (*Stats, error) {
	banks, err := s.store.ListBanks(ctx)
	if err != nil {
		return nil, err
	}
	questions, err := s.store.CountQuestions(ctx)
	if err != nil {
		return nil, err
	}
	exams, err := s.store.ListExams(ctx)
	if err != nil {
		return nil, err
	}
	wrongs, err := s.store.CountWrongAnswers(ctx)
	if err != nil {
		return nil, err
	}

	st := &Stats{
		Banks:        len(banks),
		Questions:    questions,
		Exams:        len(exams),
		WrongAnswers: wrongs,
	}
	total := 0
	for _, e := range exams {
		if e.Completed {
			st.CompletedExams++
			total += e.Score
		}
	}
	if st.CompletedExams > 0 {
		st.AverageScore = total / st.CompletedExams
	}
	return st, nil
}

// Stats holds drill counts.
type Stats struct {
	Banks          int `json:"banks"`
	Questions      int `json:"questions"`
	Exams          int `json:"exams"`
	CompletedExams int `json:"completed_exams"`
	WrongAnswers   int `json:"wrong_answers"`
	AverageScore   int `json:"average_score"`
}

func storeQuestion(q extract.Question, bankID string) *store.Question {
	return &store.Question{
		ID:            q.ID,
		BankID:        bankID,
		Content:       q.Content,
		Options:       q.Options,
		CorrectAnswer: q.CorrectAnswer,
		Category:      q.Category,
		Difficulty:    string(q.Difficulty),
		Explanation:   q.Explanation,
		Source:        q.Source,
	}
}
