// Package extract recognizes multiple-choice questions in unstructured text
// and tabular cell grids.
//
// The recognizer is line-oriented: a forward scan classifies each line against
// a small set of marker patterns (question start, option, answer, category,
// difficulty, explanation) and assembles Question records. When the line scan
// finds nothing, a compact single-line format is tried as a fallback. Both
// paths share one normalization step that enforces the record invariants.
package extract

// Difficulty is the three-level question difficulty.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// CategoryUncategorized is the sentinel category assigned when no category
// marker is recognized.
const CategoryUncategorized = "uncategorized"

// Question is a single normalized quiz item.
//
// Invariants (enforced by normalization, never violated in emitted records):
// Content is non-empty, Options has at least two entries, CorrectAnswer is a
// single option letter.
type Question struct {
	ID            string     `json:"id"`
	Content       string     `json:"content"`
	Options       []string   `json:"options"`
	CorrectAnswer string     `json:"correct_answer"`
	Category      string     `json:"category"`
	Difficulty    Difficulty `json:"difficulty"`
	Explanation   string     `json:"explanation,omitempty"`
	Source        string     `json:"source,omitempty"`
}

// ParseResult is the outcome of extracting one file's content.
//
// Success false with an empty Err means no questions were recognized (soft
// failure); Success false with Err set means the input could not be decoded
// at all (hard failure, set by the caller owning the decode step).
type ParseResult struct {
	Success    bool       `json:"success"`
	Questions  []Question `json:"questions"`
	Categories []string   `json:"categories"`
	Err        string     `json:"error,omitempty"`
}

// Failed builds a hard-failure ParseResult carrying an error description.
func Failed(err error) ParseResult {
	return ParseResult{
		Success:    false,
		Questions:  []Question{},
		Categories: []string{},
		Err:        err.Error(),
	}
}

// categorySet collects distinct category labels in first-seen order.
type categorySet struct {
	seen  map[string]struct{}
	order []string
}

func newCategorySet() *categorySet {
	return &categorySet{seen: make(map[string]struct{})}
}

func (c *categorySet) add(cat string) {
	if _, ok := c.seen[cat]; ok {
		return
	}
	c.seen[cat] = struct{}{}
	c.order = append(c.order, cat)
}

func (c *categorySet) list() []string {
	if c.order == nil {
		return []string{}
	}
	return c.order
}
