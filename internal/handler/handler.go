package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/curza/testgen/internal/blueprint"
	"github.com/curza/testgen/internal/expand"
	"github.com/curza/testgen/internal/model"
	"github.com/curza/testgen/internal/reconcile"
	"github.com/curza/testgen/internal/score"
	"github.com/curza/testgen/internal/store"
)

// Config holds runtime handler parameters.
type Config struct {
	// AuthSecret signs caller tokens. Empty disables auth (local dev).
	AuthSecret string

	// LLMTimeout bounds a single content-expansion call. Zero means no
	// explicit deadline beyond the caller's.
	LLMTimeout time.Duration

	// Residual pins which element absorbs rounding residue during mark
	// reconciliation.
	Residual reconcile.ResidualStrategy
}

// Handler holds shared dependencies for HTTP handlers.
type Handler struct {
	store      *store.Store
	expander   *expand.Expander
	config     Config
	authSecret []byte
}

// New creates a new Handler.
func New(s *store.Store, e *expand.Expander, cfg Config) *Handler {
	return &Handler{
		store:      s,
		expander:   e,
		config:     cfg,
		authSecret: []byte(cfg.AuthSecret),
	}
}

// Routes registers all HTTP routes.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/healthz", h.handleHealth)

	r.Route("/v1", func(r chi.Router) {
		r.Use(h.requireAuth)
		r.Post("/tests/build", h.handleBuildTest)
		r.Post("/tests/generate", h.handleGenerateTest)
		r.Post("/tests/score", h.handleScoreTest)
		r.Get("/papers", h.handleListPapers)
		r.Get("/papers/{paperID}", h.handleGetPaper)
	})
}

func (h *Handler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type buildTestRequest struct {
	Mode     string      `json:"mode"`
	Subject  string      `json:"subject"`
	Grade    model.Grade `json:"grade"`
	ExamType string      `json:"examType"`
	Topic    string      `json:"topic"`
	Count    int         `json:"count"`
	Timed    bool        `json:"timed"`
}

func (h *Handler) handleBuildTest(w http.ResponseWriter, r *http.Request) {
	var req buildTestRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, kindInvalidArgument, "malformed JSON body")
		return
	}

	var def *model.TestDefinition
	var err error
	switch req.Mode {
	case "section":
		def, err = blueprint.BuildSectionTest(req.Subject, req.Grade.String(), req.Topic, req.Count, req.Timed)
	case "full", "":
		def, err = blueprint.BuildFullExam(req.Subject, req.Grade.String(), req.ExamType, req.Timed)
	default:
		err = fmt.Errorf("%w: unknown mode %q", model.ErrInvalidArgument, req.Mode)
	}
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, def)
}

type generateTestRequest struct {
	Subject    string        `json:"subject"`
	Title      string        `json:"title"`
	TotalMarks int           `json:"totalMarks"`
	Blocks     []model.Block `json:"blocks"`
	Difficulty string        `json:"difficulty"`
	Grade      model.Grade   `json:"grade"`
	Paper      string        `json:"paper"`
	Seed       string        `json:"seed"`
}

type generateTestResponse struct {
	PaperID    string        `json:"paperId"`
	Blocks     []model.Block `json:"blocks"`
	TotalMarks int           `json:"totalMarks"`
}

func (h *Handler) handleGenerateTest(w http.ResponseWriter, r *http.Request) {
	var req generateTestRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, kindInvalidArgument, "malformed JSON body")
		return
	}
	if err := validateGenerateRequest(req); err != nil {
		writeDomainError(w, err)
		return
	}

	def := &model.TestDefinition{
		Title:      req.Title,
		Subject:    req.Subject,
		TotalMarks: req.TotalMarks,
		Blocks:     req.Blocks,
	}

	ctx := r.Context()
	if h.config.LLMTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.config.LLMTimeout)
		defer cancel()
	}

	// Expansion is best-effort: on failure the blueprint itself is
	// served. Either way the paper goes through mark reconciliation
	// before leaving the service.
	source := store.SourceExpanded
	result, err := h.expander.Expand(ctx, def, expand.Params{
		Difficulty: req.Difficulty,
		Grade:      req.Grade.String(),
		PaperLabel: req.Paper,
		Seed:       req.Seed,
	})
	if err != nil {
		slog.Info("serving unexpanded blueprint", "subject", req.Subject, "error", err)
		source = store.SourceBlueprint
		result = def.Clone()
	}

	reconcile.Apply(result, h.config.Residual)

	paperID, err := h.store.SavePaper(store.PaperRecord{
		Subject:    req.Subject,
		Grade:      req.Grade.String(),
		Title:      req.Title,
		TotalMarks: result.TotalMarks,
		Source:     source,
		Definition: *result,
	})
	if err != nil {
		writeDomainError(w, fmt.Errorf("archive paper: %w", err))
		return
	}

	writeJSON(w, http.StatusOK, generateTestResponse{
		PaperID:    paperID,
		Blocks:     result.Blocks,
		TotalMarks: result.TotalMarks,
	})
}

func validateGenerateRequest(req generateTestRequest) error {
	if strings.TrimSpace(req.Subject) == "" {
		return fmt.Errorf("%w: subject is required", model.ErrInvalidArgument)
	}
	if strings.TrimSpace(req.Title) == "" {
		return fmt.Errorf("%w: title is required", model.ErrInvalidArgument)
	}
	if req.TotalMarks <= 0 {
		return fmt.Errorf("%w: totalMarks must be a positive integer", model.ErrInvalidArgument)
	}
	if len(req.Blocks) == 0 {
		return fmt.Errorf("%w: blocks must be a non-empty array", model.ErrInvalidArgument)
	}
	return nil
}

// scoreTestRequest keeps questions and answer items as raw JSON so that
// "present but not an array" can be told apart from "absent".
type scoreTestRequest struct {
	Questions json.RawMessage `json:"questions"`
	Answers   struct {
		Items json.RawMessage `json:"items"`
	} `json:"answers"`
	PaperID string `json:"paperId"`
	Working string `json:"working"`
	Rubric  bool   `json:"rubric"`
}

func (h *Handler) handleScoreTest(w http.ResponseWriter, r *http.Request) {
	var req scoreTestRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, kindInvalidArgument, "malformed JSON body")
		return
	}

	questions, err := decodeArray[model.Block](req.Questions, "questions")
	if err != nil {
		writeDomainError(w, err)
		return
	}
	items, err := decodeArray[model.AnswerItem](req.Answers.Items, "answers.items")
	if err != nil {
		writeDomainError(w, err)
		return
	}

	report, err := score.Score(questions, model.AnswerSet{Items: items}, score.Options{
		StepwiseRubric: req.Rubric,
		Working:        req.Working,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	if _, err := h.store.SaveScoreReport(store.ScoreRecord{
		PaperID:    req.PaperID,
		ScoreTotal: report.ScoreTotal,
		MaxTotal:   report.MaxTotal,
		Report:     *report,
	}); err != nil {
		// Archival is secondary to returning the score.
		slog.Error("archive score report", "error", err)
	}

	writeJSON(w, http.StatusOK, report)
}

// decodeArray decodes a raw JSON field that must be an array. A missing
// field and a non-array value are both InvalidArgument, matching the
// scorer's contract.
func decodeArray[T any](raw json.RawMessage, field string) ([]T, error) {
	if len(raw) == 0 {
		return nil, fmt.Errorf("%w: %s must be an array", model.ErrInvalidArgument, field)
	}
	var out []T
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("%w: %s must be an array", model.ErrInvalidArgument, field)
	}
	if out == nil {
		out = []T{}
	}
	return out, nil
}

func (h *Handler) handleListPapers(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, kindInvalidArgument, "limit must be an integer")
			return
		}
		limit = n
	}

	papers, err := h.store.ListPapers(limit)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if papers == nil {
		papers = []store.PaperRecord{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"papers": papers})
}

func (h *Handler) handleGetPaper(w http.ResponseWriter, r *http.Request) {
	paper, err := h.store.GetPaper(chi.URLParam(r, "paperID"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, paper)
}
