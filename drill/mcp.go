package drill

import (
	"context"
	"encoding/json"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/quizdrill/quizdrill/drill/internal/store"
	"github.com/quizdrill/quizdrill/mcpkit"
)

// RegisterMCP registers drill tools on an MCP server.
func (s *Service) RegisterMCP(srv *mcp.Server) {
	s.registerImportTool(srv)
	s.registerBanksTool(srv)
	s.registerDeleteBankTool(srv)
	s.registerQuestionsTool(srv)
	s.registerExamStartTool(srv)
	s.registerExamAnswerTool(srv)
	s.registerExamFinishTool(srv)
	s.registerExamHistoryTool(srv)
	s.registerWrongAnswersTool(srv)
	s.registerRemoveWrongAnswerTool(srv)
	s.registerStatsTool(srv)
}

// inputSchema builds a JSON Schema object with type "object".
func inputSchema(properties map[string]any, required []string) map[string]any {
	sch := map[string]any{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		sch["required"] = required
	}
	return sch
}

// --- import ---

type importRequest struct {
	Paths []string `json:"paths"`
}

func (s *Service) registerImportTool(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "drill_import",
		Description: "Import question-bank source files (xlsx, docx, pdf, txt, csv, html). Returns one report per file with the recognized questions.",
		InputSchema: inputSchema(map[string]any{
			"paths": map[string]any{"type": "array", "items": map[string]any{"type": "string"}, "description": "File paths to import"},
		}, []string{"paths"}),
	}

	endpoint := func(ctx context.Context, req any) (any, error) {
		r := req.(*importRequest)
		return s.ImportFiles(ctx, r.Paths), nil
	}

	decode := func(req *mcp.CallToolRequest) (*mcpkit.MCPDecodeResult, error) {
		var r importRequest
		if err := json.Unmarshal(req.Params.Arguments, &r); err != nil {
			return nil, err
		}
		return &mcpkit.MCPDecodeResult{Request: &r}, nil
	}

	mcpkit.RegisterMCPTool(srv, tool, endpoint, decode)
}

// --- banks ---

func (s *Service) registerBanksTool(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "drill_banks",
		Description: "List all imported question banks with their question counts and categories.",
		InputSchema: inputSchema(map[string]any{}, nil),
	}

	endpoint := func(ctx context.Context, _ any) (any, error) {
		return s.Banks(ctx)
	}

	decode := func(_ *mcp.CallToolRequest) (*mcpkit.MCPDecodeResult, error) {
		return &mcpkit.MCPDecodeResult{Request: nil}, nil
	}

	mcpkit.RegisterMCPTool(srv, tool, endpoint, decode)
}

// --- delete_bank ---

func (s *Service) registerDeleteBankTool(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "drill_delete_bank",
		Description: "Delete a question bank and all its questions.",
		InputSchema: inputSchema(map[string]any{
			"bank_id": map[string]any{"type": "string", "description": "Bank ID to delete"},
		}, []string{"bank_id"}),
	}

	type delReq struct {
		BankID string `json:"bank_id"`
	}

	endpoint := func(ctx context.Context, req any) (any, error) {
		r := req.(*delReq)
		if err := s.DeleteBank(ctx, r.BankID); err != nil {
			return nil, err
		}
		return map[string]string{"status": "deleted", "bank_id": r.BankID}, nil
	}

	decode := func(req *mcp.CallToolRequest) (*mcpkit.MCPDecodeResult, error) {
		var r delReq
		if err := json.Unmarshal(req.Params.Arguments, &r); err != nil {
			return nil, err
		}
		return &mcpkit.MCPDecodeResult{Request: &r}, nil
	}

	mcpkit.RegisterMCPTool(srv, tool, endpoint, decode)
}

// --- questions ---

func (s *Service) registerQuestionsTool(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "drill_questions",
		Description: "List stored questions, optionally filtered by bank, category, or difficulty.",
		InputSchema: inputSchema(map[string]any{
			"bank_id":    map[string]any{"type": "string", "description": "Filter by bank ID"},
			"category":   map[string]any{"type": "string", "description": "Filter by category"},
			"difficulty": map[string]any{"type": "string", "enum": []any{"easy", "medium", "hard"}, "description": "Filter by difficulty"},
			"limit":      map[string]any{"type": "integer", "description": "Max results"},
		}, nil),
	}

	type listReq struct {
		BankID     string `json:"bank_id"`
		Category   string `json:"category"`
		Difficulty string `json:"difficulty"`
		Limit      int    `json:"limit"`
	}

	endpoint := func(ctx context.Context, req any) (any, error) {
		r := req.(*listReq)
		return s.Questions(ctx, store.QuestionFilter{
			BankID:     r.BankID,
			Category:   r.Category,
			Difficulty: r.Difficulty,
			Limit:      r.Limit,
		})
	}

	decode := func(req *mcp.CallToolRequest) (*mcpkit.MCPDecodeResult, error) {
		var r listReq
		if err := json.Unmarshal(req.Params.Arguments, &r); err != nil {
			return nil, err
		}
		return &mcpkit.MCPDecodeResult{Request: &r}, nil
	}

	mcpkit.RegisterMCPTool(srv, tool, endpoint, decode)
}

// --- exam_start ---

func (s *Service) registerExamStartTool(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "drill_exam_start",
		Description: "Start a practice exam. Selects questions by filter, applies shuffle and count, and freezes the set into a new exam record.",
		InputSchema: inputSchema(map[string]any{
			"title":              map[string]any{"type": "string", "description": "Exam title (auto-generated when empty)"},
			"bank_id":            map[string]any{"type": "string", "description": "Draw questions from one bank"},
			"category":           map[string]any{"type": "string", "description": "Filter by category"},
			"difficulty":         map[string]any{"type": "string", "enum": []any{"easy", "medium", "hard"}, "description": "Filter by difficulty"},
			"count":              map[string]any{"type": "integer", "description": "Question count (default from settings)"},
			"shuffle":            map[string]any{"type": "boolean", "description": "Shuffle question order (default from settings)"},
			"from_wrong_answers": map[string]any{"type": "boolean", "description": "Draw from the wrong-answer book instead of banks"},
		}, nil),
	}

	endpoint := func(ctx context.Context, req any) (any, error) {
		r := req.(*ExamOptions)
		return s.StartExam(ctx, *r)
	}

	decode := func(req *mcp.CallToolRequest) (*mcpkit.MCPDecodeResult, error) {
		var r ExamOptions
		if err := json.Unmarshal(req.Params.Arguments, &r); err != nil {
			return nil, err
		}
		return &mcpkit.MCPDecodeResult{Request: &r}, nil
	}

	mcpkit.RegisterMCPTool(srv, tool, endpoint, decode)
}

// --- exam_answer ---

type examAnswerRequest struct {
	ExamID     string `json:"exam_id"`
	QuestionID string `json:"question_id"`
	Answer     string `json:"answer"`
}

func (s *Service) registerExamAnswerTool(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "drill_exam_answer",
		Description: "Record the answer to one exam question. Re-answering overwrites the earlier choice until the exam finishes.",
		InputSchema: inputSchema(map[string]any{
			"exam_id":     map[string]any{"type": "string", "description": "Exam ID"},
			"question_id": map[string]any{"type": "string", "description": "Question ID within the exam"},
			"answer":      map[string]any{"type": "string", "description": "Chosen option letter (A-D)"},
		}, []string{"exam_id", "question_id", "answer"}),
	}

	endpoint := func(ctx context.Context, req any) (any, error) {
		r := req.(*examAnswerRequest)
		if err := s.SubmitAnswer(ctx, r.ExamID, r.QuestionID, r.Answer); err != nil {
			return nil, err
		}
		return map[string]string{"status": "recorded"}, nil
	}

	decode := func(req *mcp.CallToolRequest) (*mcpkit.MCPDecodeResult, error) {
		var r examAnswerRequest
		if err := json.Unmarshal(req.Params.Arguments, &r); err != nil {
			return nil, err
		}
		return &mcpkit.MCPDecodeResult{Request: &r}, nil
	}

	mcpkit.RegisterMCPTool(srv, tool, endpoint, decode)
}

// --- exam_finish ---

func (s *Service) registerExamFinishTool(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "drill_exam_finish",
		Description: "Grade and close an exam. Returns the record with its score; wrong answers land in the wrong-answer book.",
		InputSchema: inputSchema(map[string]any{
			"exam_id": map[string]any{"type": "string", "description": "Exam ID to finish"},
		}, []string{"exam_id"}),
	}

	type finishReq struct {
		ExamID string `json:"exam_id"`
	}

	endpoint := func(ctx context.Context, req any) (any, error) {
		r := req.(*finishReq)
		return s.FinishExam(ctx, r.ExamID)
	}

	decode := func(req *mcp.CallToolRequest) (*mcpkit.MCPDecodeResult, error) {
		var r finishReq
		if err := json.Unmarshal(req.Params.Arguments, &r); err != nil {
			return nil, err
		}
		return &mcpkit.MCPDecodeResult{Request: &r}, nil
	}

	mcpkit.RegisterMCPTool(srv, tool, endpoint, decode)
}

// --- exam_history ---

func (s *Service) registerExamHistoryTool(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "drill_exam_history",
		Description: "List all exam records, newest first, with answers and scores.",
		InputSchema: inputSchema(map[string]any{}, nil),
	}

	endpoint := func(ctx context.Context, _ any) (any, error) {
		return s.History(ctx)
	}

	decode := func(_ *mcp.CallToolRequest) (*mcpkit.MCPDecodeResult, error) {
		return &mcpkit.MCPDecodeResult{Request: nil}, nil
	}

	mcpkit.RegisterMCPTool(srv, tool, endpoint, decode)
}

// --- wrong_answers ---

func (s *Service) registerWrongAnswersTool(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "drill_wrong_answers",
		Description: "List the wrong-answer book: every question answered incorrectly, with mistake counts.",
		InputSchema: inputSchema(map[string]any{}, nil),
	}

	endpoint := func(ctx context.Context, _ any) (any, error) {
		return s.WrongAnswers(ctx)
	}

	decode := func(_ *mcp.CallToolRequest) (*mcpkit.MCPDecodeResult, error) {
		return &mcpkit.MCPDecodeResult{Request: nil}, nil
	}

	mcpkit.RegisterMCPTool(srv, tool, endpoint, decode)
}

// --- remove_wrong_answer ---

func (s *Service) registerRemoveWrongAnswerTool(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "drill_remove_wrong_answer",
		Description: "Remove a mastered question from the wrong-answer book.",
		InputSchema: inputSchema(map[string]any{
			"question_id": map[string]any{"type": "string", "description": "Question ID to remove"},
		}, []string{"question_id"}),
	}

	type removeReq struct {
		QuestionID string `json:"question_id"`
	}

	endpoint := func(ctx context.Context, req any) (any, error) {
		r := req.(*removeReq)
		if err := s.RemoveWrongAnswer(ctx, r.QuestionID); err != nil {
			return nil, err
		}
		return map[string]string{"status": "deleted", "question_id": r.QuestionID}, nil
	}

	decode := func(req *mcp.CallToolRequest) (*mcpkit.MCPDecodeResult, error) {
		var r removeReq
		if err := json.Unmarshal(req.Params.Arguments, &r); err != nil {
			return nil, err
		}
		return &mcpkit.MCPDecodeResult{Request: &r}, nil
	}

	mcpkit.RegisterMCPTool(srv, tool, endpoint, decode)
}

// --- stats ---

func (s *Service) registerStatsTool(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "drill_stats",
		Description: "Get drill statistics: counts of banks, questions, exams, and wrong answers, plus the average score.",
		InputSchema: inputSchema(map[string]any{}, nil),
	}

	endpoint := func(ctx context.Context, _ any) (any, error) {
		return s.Stats(ctx)
	}

	decode := func(_ *mcp.CallToolRequest) (*mcpkit.MCPDecodeResult, error) {
		return &mcpkit.MCPDecodeResult{Request: nil}, nil
	}

	mcpkit.RegisterMCPTool(srv, tool, endpoint, decode)
}
