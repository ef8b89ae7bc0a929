package drill

import "github.com/quizdrill/quizdrill/drill/internal/store"

// Re-exported types from internal/store for use by cmd/ and external callers.
type (
	Bank        = store.Bank
	Question    = store.Question
	ExamRecord  = store.ExamRecord
	WrongAnswer = store.WrongAnswer
	Settings    = store.Settings
	Snapshot    = store.Snapshot
)
