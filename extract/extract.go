package extract

import (
	"regexp"
	"strings"

	"github.com/quizdrill/quizdrill/idgen"
)

// Line marker patterns. Bilingual (Chinese/English), case-insensitive where
// the label allows it. An option letter under (?i) also matches lowercase;
// answers are uppercased on capture.
var (
	questionStartRe = regexp.MustCompile(`^(\d+)[:.、]\s*(.+)`)
	optionRe        = regexp.MustCompile(`^([A-D])[.、)\s]\s*(.+)`)
	answerRe        = regexp.MustCompile(`(?i)(?:答案|正确答案|Answer)[:：\s]*([A-D])`)
	categoryRe      = regexp.MustCompile(`(?i)(?:分类|类别|Category)[:：\s]*(.+)`)
	difficultyRe    = regexp.MustCompile(`(?i)(?:难度|Difficulty)[:：\s]*(简单|中等|困难|easy|medium|hard)`)
	explanationRe   = regexp.MustCompile(`(?i)(?:解析|Explanation)[:：\s]*(.+)`)
)

// difficultyLabels maps recognized difficulty tokens to the enum. Lookup keys
// on the lowercased token; the Chinese literals are unaffected by the fold
// but the table is keyed that way for the English ones.
var difficultyLabels = map[string]Difficulty{
	"简单":     DifficultyEasy,
	"easy":   DifficultyEasy,
	"中等":     DifficultyMedium,
	"medium": DifficultyMedium,
	"困难":     DifficultyHard,
	"hard":   DifficultyHard,
}

func parseDifficulty(token string) (Difficulty, bool) {
	d, ok := difficultyLabels[strings.ToLower(token)]
	return d, ok
}

// Extractor turns text blocks and cell grids into normalized questions.
type Extractor struct {
	ids idgen.Generator
}

// New creates an Extractor. A nil generator falls back to short NanoIDs,
// which keep imported question IDs compact.
func New(ids idgen.Generator) *Extractor {
	if ids == nil {
		ids = idgen.NanoID(13)
	}
	return &Extractor{ids: ids}
}

// candidate is the question under construction during a line scan.
// The scan holds at most one; a new question-start marker or end of input
// finalizes it (or silently drops it when it has fewer than two options).
type candidate struct {
	content     string
	options     []string
	answer      string
	category    string
	difficulty  Difficulty
	explanation string
}

// FromText scans line-oriented text for question markers and assembles
// questions. source labels each emitted question's provenance.
//
// Later marker lines overwrite earlier same-field values of the question in
// progress; fields never carry over across questions. Candidates missing a
// required field are dropped, not reported. A scan that yields nothing falls
// back to the compact single-line format.
func (e *Extractor) FromText(text, source string) ParseResult {
	var questions []Question
	cats := newCategorySet()
	var cur *candidate

	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}

		if m := questionStartRe.FindStringSubmatch(line); m != nil {
			if cur != nil && len(cur.options) >= 2 {
				if q := e.normalize(cur, source); q != nil {
					cats.add(q.Category)
					questions = append(questions, *q)
				}
			}
			cur = &candidate{content: m[2]}
			continue
		}
		if cur == nil {
			continue
		}

		// Marker checks are independent: a line sets at most one field, but
		// any field of the current candidate may still be set by later lines.
		if m := optionRe.FindStringSubmatch(line); m != nil {
			cur.options = append(cur.options, m[2])
		}
		if m := answerRe.FindStringSubmatch(line); m != nil {
			cur.answer = strings.ToUpper(m[1])
		}
		if m := categoryRe.FindStringSubmatch(line); m != nil {
			cur.category = strings.TrimSpace(m[1])
		}
		if m := difficultyRe.FindStringSubmatch(line); m != nil {
			if d, ok := parseDifficulty(m[1]); ok {
				cur.difficulty = d
			}
		}
		if m := explanationRe.FindStringSubmatch(line); m != nil {
			cur.explanation = strings.TrimSpace(m[1])
		}
	}

	if cur != nil && len(cur.options) >= 2 {
		if q := e.normalize(cur, source); q != nil {
			cats.add(q.Category)
			questions = append(questions, *q)
		}
	}

	if len(questions) == 0 {
		return e.fromCompact(text, source)
	}
	return ParseResult{
		Success:    true,
		Questions:  questions,
		Categories: cats.list(),
	}
}

// normalize validates a candidate and produces a Question, or nil when a
// required field is missing. Rejection is silent: the caller simply does not
// append the record.
func (e *Extractor) normalize(c *candidate, source string) *Question {
	if c == nil || strings.TrimSpace(c.content) == "" || c.answer == "" || len(c.options) < 2 {
		return nil
	}

	q := &Question{
		ID:            e.ids(),
		Content:       strings.TrimSpace(c.content),
		Options:       c.options,
		CorrectAnswer: c.answer,
		Category:      c.category,
		Difficulty:    c.difficulty,
		Explanation:   c.explanation,
		Source:        source,
	}
	if q.Category == "" {
		q.Category = CategoryUncategorized
	}
	if q.Difficulty == "" {
		q.Difficulty = DifficultyMedium
	}
	return q
}
