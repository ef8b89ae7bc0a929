package drill

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	_ "modernc.org/sqlite"

	"github.com/quizdrill/quizdrill/drill/internal/store"
)

func apiServer(t *testing.T) (*Service, *httptest.Server) {
	t.Helper()
	s := testService(t)
	srv := httptest.NewServer(s.Routes())
	t.Cleanup(srv.Close)
	return s, srv
}

func doJSON(t *testing.T, method, url string, body any, out any) int {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req, err := http.NewRequest(method, url, &buf)
	if err != nil {
		t.Fatal(err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("%s %s: decode: %v", method, url, err)
		}
	}
	return resp.StatusCode
}

func TestAPI_Health(t *testing.T) {
	_, srv := apiServer(t)

	var resp map[string]string
	code := doJSON(t, "GET", srv.URL+"/health", nil, &resp)
	if code != 200 || resp["status"] != "ok" {
		t.Errorf("health: code=%d resp=%v", code, resp)
	}
}

func TestAPI_ImportAndBanks(t *testing.T) {
	_, srv := apiServer(t)

	path := writeBankFile(t, "quiz.txt", sampleBank)
	var reports []*ImportReport
	code := doJSON(t, "POST", srv.URL+"/api/import", map[string]any{"paths": []string{path}}, &reports)
	if code != 200 {
		t.Fatalf("import: code=%d", code)
	}
	if len(reports) != 1 || !reports[0].Result.Success {
		t.Fatalf("reports: %+v", reports)
	}

	var banks []*store.Bank
	doJSON(t, "GET", srv.URL+"/api/banks", nil, &banks)
	if len(banks) != 1 || banks[0].QuestionCount != 2 {
		t.Fatalf("banks: %+v", banks)
	}

	var cats []string
	doJSON(t, "GET", srv.URL+"/api/categories", nil, &cats)
	if len(cats) != 2 {
		t.Errorf("categories: %v", cats)
	}

	var questions []*store.Question
	doJSON(t, "GET", srv.URL+"/api/questions?category=geography", nil, &questions)
	if len(questions) != 1 {
		t.Errorf("filtered questions: %+v", questions)
	}

	var bank store.Bank
	code = doJSON(t, "GET", srv.URL+"/api/banks/"+banks[0].ID, nil, &bank)
	if code != 200 || bank.Name != "quiz.txt" {
		t.Errorf("get bank: code=%d bank=%+v", code, bank)
	}
	if code := doJSON(t, "GET", srv.URL+"/api/banks/missing", nil, nil); code != 404 {
		t.Errorf("missing bank: code=%d", code)
	}

	code = doJSON(t, "DELETE", srv.URL+"/api/banks/"+banks[0].ID, nil, nil)
	if code != 200 {
		t.Errorf("delete: code=%d", code)
	}
}

func TestAPI_ImportRejectsEmpty(t *testing.T) {
	_, srv := apiServer(t)

	code := doJSON(t, "POST", srv.URL+"/api/import", map[string]any{"paths": []string{}}, nil)
	if code != 400 {
		t.Errorf("expected 400, got %d", code)
	}
}

func TestAPI_ExamFlow(t *testing.T) {
	s, srv := apiServer(t)

	path := writeBankFile(t, "quiz.txt", sampleBank)
	if _, err := s.ImportFile(context.Background(), path); err != nil {
		t.Fatalf("seed: %v", err)
	}

	var exam store.ExamRecord
	code := doJSON(t, "POST", srv.URL+"/api/exams", ExamOptions{Title: "HTTP Exam"}, &exam)
	if code != 200 {
		t.Fatalf("start: code=%d", code)
	}
	if len(exam.Questions) != 2 {
		t.Fatalf("questions: %d", len(exam.Questions))
	}

	for _, q := range exam.Questions {
		code = doJSON(t, "POST", srv.URL+"/api/exams/"+exam.ID+"/answers", map[string]string{
			"question_id": q.ID,
			"answer":      q.CorrectAnswer,
		}, nil)
		if code != 200 {
			t.Fatalf("answer: code=%d", code)
		}
	}

	var finished store.ExamRecord
	doJSON(t, "POST", srv.URL+"/api/exams/"+exam.ID+"/finish", nil, &finished)
	if finished.Score != 100 {
		t.Errorf("Score = %d, want 100", finished.Score)
	}

	// Finished exams reject further answers.
	code = doJSON(t, "POST", srv.URL+"/api/exams/"+exam.ID+"/answers", map[string]string{
		"question_id": exam.Questions[0].ID,
		"answer":      "A",
	}, nil)
	if code != 422 {
		t.Errorf("expected 422, got %d", code)
	}

	var got store.ExamRecord
	doJSON(t, "GET", srv.URL+"/api/exams/"+exam.ID, nil, &got)
	if !got.Completed {
		t.Error("exam not completed in GET")
	}

	code = doJSON(t, "GET", srv.URL+"/api/exams/missing", nil, nil)
	if code != 404 {
		t.Errorf("expected 404, got %d", code)
	}
}

func TestAPI_SettingsAndState(t *testing.T) {
	_, srv := apiServer(t)

	var set store.Settings
	doJSON(t, "GET", srv.URL+"/api/settings", nil, &set)
	if set.DefaultQuestionCount != 20 {
		t.Errorf("default count = %d", set.DefaultQuestionCount)
	}

	set.DefaultQuestionCount = 7
	code := doJSON(t, "PUT", srv.URL+"/api/settings", &set, nil)
	if code != 200 {
		t.Fatalf("put settings: code=%d", code)
	}
	doJSON(t, "GET", srv.URL+"/api/settings", nil, &set)
	if set.DefaultQuestionCount != 7 {
		t.Errorf("saved count = %d, want 7", set.DefaultQuestionCount)
	}

	path := writeBankFile(t, "quiz.txt", sampleBank)
	doJSON(t, "POST", srv.URL+"/api/import", map[string]any{"paths": []string{path}}, nil)

	var snap store.Snapshot
	doJSON(t, "GET", srv.URL+"/api/state", nil, &snap)
	if len(snap.Banks) != 1 || len(snap.Questions) != 2 {
		t.Fatalf("snapshot: %d banks, %d questions", len(snap.Banks), len(snap.Questions))
	}
	if snap.Settings == nil || snap.Settings.DefaultQuestionCount != 7 {
		t.Errorf("snapshot settings: %+v", snap.Settings)
	}

	code = doJSON(t, "PUT", srv.URL+"/api/state", &store.Snapshot{Settings: &store.Settings{DefaultQuestionCount: 20}}, nil)
	if code != 200 {
		t.Fatalf("restore: code=%d", code)
	}
	var banks []*store.Bank
	doJSON(t, "GET", srv.URL+"/api/banks", nil, &banks)
	if len(banks) != 0 {
		t.Errorf("banks after restore: %+v", banks)
	}
}
