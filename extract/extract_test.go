package extract

import (
	"fmt"
	"strings"
	"testing"
)

func testExtractor() *Extractor {
	return New(nil)
}

func TestFromText_SingleQuestion(t *testing.T) {
	e := testExtractor()
	text := "1. What is 2+2?\nA. 3\nB. 4\n答案: B\n分类: Math\n难度: easy\n解析: basic arithmetic"

	res := e.FromText(text, "quiz.txt")
	if !res.Success {
		t.Fatalf("Success = false, error %q", res.Err)
	}
	if len(res.Questions) != 1 {
		t.Fatalf("got %d questions, want 1", len(res.Questions))
	}

	q := res.Questions[0]
	if q.Content != "What is 2+2?" {
		t.Errorf("Content = %q", q.Content)
	}
	if len(q.Options) != 2 || q.Options[0] != "3" || q.Options[1] != "4" {
		t.Errorf("Options = %v", q.Options)
	}
	if q.CorrectAnswer != "B" {
		t.Errorf("CorrectAnswer = %q, want B", q.CorrectAnswer)
	}
	if q.Category != "Math" {
		t.Errorf("Category = %q, want Math", q.Category)
	}
	if q.Difficulty != DifficultyEasy {
		t.Errorf("Difficulty = %q, want easy", q.Difficulty)
	}
	if q.Explanation != "basic arithmetic" {
		t.Errorf("Explanation = %q", q.Explanation)
	}
	if q.Source != "quiz.txt" {
		t.Errorf("Source = %q", q.Source)
	}
	if q.ID == "" {
		t.Error("ID not assigned")
	}
	if len(res.Categories) != 1 || res.Categories[0] != "Math" {
		t.Errorf("Categories = %v", res.Categories)
	}
}

func TestFromText_EnglishMarkers(t *testing.T) {
	e := testExtractor()
	text := strings.Join([]string{
		"1. Capital of France?",
		"A) Berlin",
		"B) Paris",
		"C) Rome",
		"Answer: B",
		"Category: Geography",
		"Difficulty: Hard",
		"Explanation: Paris has been the capital since 987.",
	}, "\n")

	res := e.FromText(text, "geo.txt")
	if len(res.Questions) != 1 {
		t.Fatalf("got %d questions, want 1", len(res.Questions))
	}
	q := res.Questions[0]
	if q.CorrectAnswer != "B" || q.Category != "Geography" || q.Difficulty != DifficultyHard {
		t.Errorf("got answer=%q category=%q difficulty=%q", q.CorrectAnswer, q.Category, q.Difficulty)
	}
	if q.Explanation != "Paris has been the capital since 987." {
		t.Errorf("Explanation = %q", q.Explanation)
	}
}

func TestFromText_MultipleQuestions(t *testing.T) {
	e := testExtractor()
	text := strings.Join([]string{
		"1. First?",
		"A. one",
		"B. two",
		"答案: A",
		"2、Second?",
		"A、yes",
		"B、no",
		"C、maybe",
		"正确答案: C",
		"分类: Logic",
	}, "\n")

	res := e.FromText(text, "multi.txt")
	if len(res.Questions) != 2 {
		t.Fatalf("got %d questions, want 2", len(res.Questions))
	}
	if res.Questions[0].Content != "First?" || res.Questions[1].Content != "Second?" {
		t.Errorf("contents = %q, %q", res.Questions[0].Content, res.Questions[1].Content)
	}
	if res.Questions[1].CorrectAnswer != "C" {
		t.Errorf("second answer = %q, want C", res.Questions[1].CorrectAnswer)
	}
	// Fields never inherit across questions.
	if res.Questions[0].Category != CategoryUncategorized {
		t.Errorf("first category = %q, want sentinel", res.Questions[0].Category)
	}
	if res.Questions[1].Category != "Logic" {
		t.Errorf("second category = %q, want Logic", res.Questions[1].Category)
	}
	if len(res.Categories) != 2 {
		t.Errorf("Categories = %v, want 2 distinct", res.Categories)
	}
}

func TestFromText_AnswerLastWriteWins(t *testing.T) {
	e := testExtractor()
	text := "1. Pick one\nA. x\nB. y\n答案: A\n答案: B"

	res := e.FromText(text, "t.txt")
	if len(res.Questions) != 1 {
		t.Fatalf("got %d questions, want 1", len(res.Questions))
	}
	if got := res.Questions[0].CorrectAnswer; got != "B" {
		t.Errorf("CorrectAnswer = %q, want B (last write wins)", got)
	}
}

func TestFromText_SingleOptionCandidateDropped(t *testing.T) {
	e := testExtractor()
	text := strings.Join([]string{
		"1. Orphan question",
		"A. only option",
		"2. Valid question",
		"A. yes",
		"B. no",
		"答案: A",
	}, "\n")

	res := e.FromText(text, "t.txt")
	if len(res.Questions) != 1 {
		t.Fatalf("got %d questions, want 1", len(res.Questions))
	}
	if res.Questions[0].Content != "Valid question" {
		t.Errorf("Content = %q, the single-option candidate must be dropped", res.Questions[0].Content)
	}
}

func TestFromText_MissingAnswerRejected(t *testing.T) {
	e := testExtractor()
	text := "1. No answer here\nA. one\nB. two"

	res := e.FromText(text, "t.txt")
	// The candidate has two options but no answer: rejected at
	// normalization, then the compact fallback also finds nothing.
	if res.Success {
		t.Error("Success = true, want false")
	}
	if len(res.Questions) != 0 {
		t.Errorf("got %d questions, want 0", len(res.Questions))
	}
	if res.Err != "" {
		t.Errorf("Err = %q, soft failure carries no error", res.Err)
	}
}

func TestFromText_Invariants(t *testing.T) {
	e := testExtractor()
	// Mixed valid and malformed input.
	text := strings.Join([]string{
		"noise before any question",
		"1. Incomplete",
		"A. alone",
		"2. Complete?",
		"A. a",
		"B. b",
		"C. c",
		"答案: C",
		"3. No options",
		"答案: A",
		"4. Good again",
		"A) p",
		"B) q",
		"Answer: a",
	}, "\n")

	res := e.FromText(text, "t.txt")
	if len(res.Questions) != 2 {
		t.Fatalf("got %d questions, want 2", len(res.Questions))
	}
	for _, q := range res.Questions {
		if q.Content == "" {
			t.Error("empty content emitted")
		}
		if len(q.Options) < 2 {
			t.Errorf("question %q has %d options", q.Content, len(q.Options))
		}
		if q.CorrectAnswer == "" {
			t.Errorf("question %q has no answer", q.Content)
		}
	}
	// Lowercase answer letters are uppercased.
	if res.Questions[1].CorrectAnswer != "A" {
		t.Errorf("answer = %q, want A", res.Questions[1].CorrectAnswer)
	}
}

func TestFromText_Idempotent(t *testing.T) {
	e := testExtractor()
	text := strings.Join([]string{
		"1. Alpha?",
		"A. 1",
		"B. 2",
		"答案: A",
		"2. Beta?",
		"A. 3",
		"B. 4",
		"答案: B",
		"难度: 困难",
	}, "\n")

	first := e.FromText(text, "t.txt")
	second := e.FromText(text, "t.txt")
	if len(first.Questions) != len(second.Questions) {
		t.Fatalf("question counts differ: %d vs %d", len(first.Questions), len(second.Questions))
	}
	for i := range first.Questions {
		a, b := first.Questions[i], second.Questions[i]
		a.ID, b.ID = "", "" // identifiers are fresh per run
		if fmt.Sprintf("%v", a) != fmt.Sprintf("%v", b) {
			t.Errorf("question %d differs:\n%v\n%v", i, a, b)
		}
	}
}

func TestFromText_ChineseDifficultyLabels(t *testing.T) {
	e := testExtractor()
	tests := []struct {
		label string
		want  Difficulty
	}{
		{"简单", DifficultyEasy},
		{"中等", DifficultyMedium},
		{"困难", DifficultyHard},
		{"EASY", DifficultyEasy},
		{"Medium", DifficultyMedium},
	}
	for _, tt := range tests {
		text := "1. Q?\nA. a\nB. b\n答案: A\n难度: " + tt.label
		res := e.FromText(text, "t.txt")
		if len(res.Questions) != 1 {
			t.Fatalf("label %q: got %d questions", tt.label, len(res.Questions))
		}
		if got := res.Questions[0].Difficulty; got != tt.want {
			t.Errorf("label %q: difficulty = %q, want %q", tt.label, got, tt.want)
		}
	}
}

func TestFromText_DefaultsApplied(t *testing.T) {
	e := testExtractor()
	text := "1. Bare question\nA. one\nB. two\n答案: A"

	res := e.FromText(text, "t.txt")
	if len(res.Questions) != 1 {
		t.Fatalf("got %d questions, want 1", len(res.Questions))
	}
	q := res.Questions[0]
	if q.Category != CategoryUncategorized {
		t.Errorf("Category = %q, want %q", q.Category, CategoryUncategorized)
	}
	if q.Difficulty != DifficultyMedium {
		t.Errorf("Difficulty = %q, want medium", q.Difficulty)
	}
	if q.Explanation != "" {
		t.Errorf("Explanation = %q, want empty", q.Explanation)
	}
}

func TestFromText_NoMarkersFallsThrough(t *testing.T) {
	e := testExtractor()
	res := e.FromText("just prose with no structure at all", "t.txt")
	if res.Success {
		t.Error("Success = true, want false")
	}
	if len(res.Questions) != 0 || res.Err != "" {
		t.Errorf("Questions = %d, Err = %q; want empty soft failure", len(res.Questions), res.Err)
	}
}

func TestFromCompact_ThreeOptions(t *testing.T) {
	e := testExtractor()
	// No line-scan markers anywhere, so the fallback handles it.
	res := e.FromText("5 What color is the sky? (A)Red(B)Blue(C)Green 答案:B", "sky.txt")
	if !res.Success {
		t.Fatalf("Success = false, error %q", res.Err)
	}
	if len(res.Questions) != 1 {
		t.Fatalf("got %d questions, want 1", len(res.Questions))
	}
	q := res.Questions[0]
	if q.Content != "What color is the sky?" {
		t.Errorf("Content = %q", q.Content)
	}
	want := []string{"Red", "Blue", "Green"}
	if len(q.Options) != 3 {
		t.Fatalf("Options = %v, want %v", q.Options, want)
	}
	for i, w := range want {
		if q.Options[i] != w {
			t.Errorf("Options[%d] = %q, want %q", i, q.Options[i], w)
		}
	}
	if q.CorrectAnswer != "B" {
		t.Errorf("CorrectAnswer = %q, want B", q.CorrectAnswer)
	}
	if q.Category != CategoryUncategorized {
		t.Errorf("Category = %q, want sentinel", q.Category)
	}
	if q.Difficulty != DifficultyMedium {
		t.Errorf("Difficulty = %q, want medium", q.Difficulty)
	}
}

func TestFromCompact_FourOptionsAndRepeats(t *testing.T) {
	e := testExtractor()
	text := "1 First? (A)a(B)b(C)c(D)d Answer:D 2 Second? (A)x(B)y(C)z 答案:A"

	res := e.FromText(text, "t.txt")
	if len(res.Questions) != 2 {
		t.Fatalf("got %d questions, want 2", len(res.Questions))
	}
	if len(res.Questions[0].Options) != 4 || res.Questions[0].CorrectAnswer != "D" {
		t.Errorf("first: options=%v answer=%q", res.Questions[0].Options, res.Questions[0].CorrectAnswer)
	}
	if len(res.Questions[1].Options) != 3 || res.Questions[1].CorrectAnswer != "A" {
		t.Errorf("second: options=%v answer=%q", res.Questions[1].Options, res.Questions[1].CorrectAnswer)
	}
	if len(res.Categories) != 1 || res.Categories[0] != CategoryUncategorized {
		t.Errorf("Categories = %v", res.Categories)
	}
}
