package extract

import (
	"regexp"
	"strings"
)

// compactRe matches the dense inline form:
//
//	1. question (A)opt (B)opt (C)opt (D)opt 答案:B
//
// Three parenthesized options are required, the fourth is optional, and the
// trailing answer token closes the match. Option bodies cannot contain
// parentheses.
var compactRe = regexp.MustCompile(`(?i)(\d+)[:.、]?\s*([^()]+)\s*\(A\)\s*([^()]+)\s*\(B\)\s*([^()]+)\s*\(C\)\s*([^()]+)(?:\s*\(D\)\s*([^()]+))?\s*(?:答案|Answer)[:：\s]*([A-D])`)

// fromCompact is the fallback for text where the line scan found nothing.
// Every non-overlapping match in document order yields one question with the
// sentinel category and medium difficulty; zero matches is a soft failure
// (Success false, no error).
func (e *Extractor) fromCompact(text, source string) ParseResult {
	var questions []Question
	cats := newCategorySet()

	for _, m := range compactRe.FindAllStringSubmatch(text, -1) {
		options := []string{
			strings.TrimSpace(m[3]),
			strings.TrimSpace(m[4]),
			strings.TrimSpace(m[5]),
		}
		if m[6] != "" {
			options = append(options, strings.TrimSpace(m[6]))
		}

		c := &candidate{
			content: strings.TrimSpace(m[2]),
			options: options,
			answer:  strings.ToUpper(m[7]),
		}
		if q := e.normalize(c, source); q != nil {
			cats.add(q.Category)
			questions = append(questions, *q)
		}
	}

	if len(questions) == 0 {
		return ParseResult{
			Success:    false,
			Questions:  []Question{},
			Categories: []string{},
		}
	}
	return ParseResult{
		Success:    true,
		Questions:  questions,
		Categories: cats.list(),
	}
}
