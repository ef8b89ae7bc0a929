package drill

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/quizdrill/quizdrill/drill/internal/store"
	"github.com/quizdrill/quizdrill/shield"
)

// Routes returns the HTTP API for local front-ends.
func (s *Service) Routes() http.Handler {
	r := chi.NewRouter()
	for _, mw := range shield.DefaultStack() {
		r.Use(mw)
	}

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, 200, map[string]string{"status": "ok"})
	})

	r.Post("/api/import", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Paths []string `json:"paths"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, 400, err)
			return
		}
		if len(req.Paths) == 0 {
			writeJSON(w, 400, map[string]string{"error": "no paths given"})
			return
		}
		writeJSON(w, 200, s.ImportFiles(r.Context(), req.Paths))
	})

	r.Get("/api/banks", func(w http.ResponseWriter, r *http.Request) {
		banks, err := s.Banks(r.Context())
		if err != nil {
			writeError(w, 500, err)
			return
		}
		writeJSON(w, 200, banks)
	})

	r.Get("/api/banks/{id}", func(w http.ResponseWriter, r *http.Request) {
		bank, err := s.Bank(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, 500, err)
			return
		}
		if bank == nil {
			writeJSON(w, 404, map[string]string{"error": "bank not found"})
			return
		}
		writeJSON(w, 200, bank)
	})

	r.Delete("/api/banks/{id}", func(w http.ResponseWriter, r *http.Request) {
		if err := s.DeleteBank(r.Context(), chi.URLParam(r, "id")); err != nil {
			writeError(w, 500, err)
			return
		}
		writeJSON(w, 200, map[string]string{"status": "deleted"})
	})

	r.Get("/api/categories", func(w http.ResponseWriter, r *http.Request) {
		cats, err := s.Categories(r.Context())
		if err != nil {
			writeError(w, 500, err)
			return
		}
		writeJSON(w, 200, cats)
	})

	r.Get("/api/questions", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		questions, err := s.Questions(r.Context(), store.QuestionFilter{
			BankID:     q.Get("bank"),
			Category:   q.Get("category"),
			Difficulty: q.Get("difficulty"),
			Limit:      queryInt(r, "limit", 0),
		})
		if err != nil {
			writeError(w, 500, err)
			return
		}
		writeJSON(w, 200, questions)
	})

	r.Post("/api/exams", func(w http.ResponseWriter, r *http.Request) {
		var opts ExamOptions
		if err := json.NewDecoder(r.Body).Decode(&opts); err != nil {
			writeError(w, 400, err)
			return
		}
		exam, err := s.StartExam(r.Context(), opts)
		if err != nil {
			writeError(w, 422, err)
			return
		}
		writeJSON(w, 200, exam)
	})

	r.Get("/api/exams", func(w http.ResponseWriter, r *http.Request) {
		exams, err := s.History(r.Context())
		if err != nil {
			writeError(w, 500, err)
			return
		}
		writeJSON(w, 200, exams)
	})

	r.Get("/api/exams/{id}", func(w http.ResponseWriter, r *http.Request) {
		exam, err := s.Exam(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, 500, err)
			return
		}
		if exam == nil {
			writeJSON(w, 404, map[string]string{"error": "exam not found"})
			return
		}
		writeJSON(w, 200, exam)
	})

	r.Post("/api/exams/{id}/answers", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			QuestionID string `json:"question_id"`
			Answer     string `json:"answer"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, 400, err)
			return
		}
		if err := s.SubmitAnswer(r.Context(), chi.URLParam(r, "id"), req.QuestionID, req.Answer); err != nil {
			writeError(w, 422, err)
			return
		}
		writeJSON(w, 200, map[string]string{"status": "recorded"})
	})

	r.Post("/api/exams/{id}/finish", func(w http.ResponseWriter, r *http.Request) {
		exam, err := s.FinishExam(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, 422, err)
			return
		}
		writeJSON(w, 200, exam)
	})

	r.Get("/api/wrong-answers", func(w http.ResponseWriter, r *http.Request) {
		wrongs, err := s.WrongAnswers(r.Context())
		if err != nil {
			writeError(w, 500, err)
			return
		}
		writeJSON(w, 200, wrongs)
	})

	r.Delete("/api/wrong-answers/{id}", func(w http.ResponseWriter, r *http.Request) {
		if err := s.RemoveWrongAnswer(r.Context(), chi.URLParam(r, "id")); err != nil {
			writeError(w, 500, err)
			return
		}
		writeJSON(w, 200, map[string]string{"status": "deleted"})
	})

	r.Get("/api/settings", func(w http.ResponseWriter, r *http.Request) {
		set, err := s.Settings(r.Context())
		if err != nil {
			writeError(w, 500, err)
			return
		}
		writeJSON(w, 200, set)
	})

	r.Put("/api/settings", func(w http.ResponseWriter, r *http.Request) {
		var set store.Settings
		if err := json.NewDecoder(r.Body).Decode(&set); err != nil {
			writeError(w, 400, err)
			return
		}
		if err := s.SaveSettings(r.Context(), &set); err != nil {
			writeError(w, 500, err)
			return
		}
		writeJSON(w, 200, &set)
	})

	r.Get("/api/state", func(w http.ResponseWriter, r *http.Request) {
		snap, err := s.Export(r.Context())
		if err != nil {
			writeError(w, 500, err)
			return
		}
		writeJSON(w, 200, snap)
	})

	r.Put("/api/state", func(w http.ResponseWriter, r *http.Request) {
		var snap store.Snapshot
		if err := json.NewDecoder(r.Body).Decode(&snap); err != nil {
			writeError(w, 400, err)
			return
		}
		if err := s.ImportState(r.Context(), &snap); err != nil {
			writeError(w, 500, err)
			return
		}
		writeJSON(w, 200, map[string]string{"status": "restored"})
	})

	r.Get("/api/stats", func(w http.ResponseWriter, r *http.Request) {
		st, err := s.Stats(r.Context())
		if err != nil {
			writeError(w, 500, err)
			return
		}
		writeJSON(w, 200, st)
	})

	return r
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, err error) {
	writeJSON(w, code, map[string]string{"error": err.Error()})
}

func queryInt(r *http.Request, key string, def int) int {
	s := r.URL.Query().Get(key)
	if s == "" {
		return def
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return v
}
