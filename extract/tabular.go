package extract

import "strings"

// Fixed column layout for tabular imports. Row 0 is the header.
const (
	colContent     = 0
	colFirstOption = 1
	colLastOption  = 4
	colAnswer      = 5
	colCategory    = 6
	colDifficulty  = 7
	colExplanation = 8
)

// FromGrid maps a 2D cell grid onto questions using the fixed column layout
// content, options A-D, answer, category, difficulty, explanation. The header
// row is ignored. Rows with fewer than three cells, an empty content cell, or
// fewer than two non-empty option cells are skipped. An empty answer cell
// defaults to "A". Row order is preserved.
func (e *Extractor) FromGrid(grid [][]string, source string) ParseResult {
	var questions []Question
	cats := newCategorySet()

	for i := 1; i < len(grid); i++ {
		row := grid[i]
		if len(row) < 3 || strings.TrimSpace(row[colContent]) == "" {
			continue
		}

		var options []string
		for j := colFirstOption; j <= colLastOption && j < len(row); j++ {
			if cell := strings.TrimSpace(row[j]); cell != "" {
				options = append(options, cell)
			}
		}
		if len(options) < 2 {
			continue
		}

		c := &candidate{
			content: row[colContent],
			options: options,
			answer:  "A",
		}
		if cell := gridCell(row, colAnswer); cell != "" {
			c.answer = strings.ToUpper(cell)
		}
		c.category = gridCell(row, colCategory)
		if cell := gridCell(row, colDifficulty); cell != "" {
			if d, ok := parseDifficulty(cell); ok {
				c.difficulty = d
			}
		}
		c.explanation = gridCell(row, colExplanation)

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

func gridCell(row []string, col int) string {
	if col >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[col])
}
