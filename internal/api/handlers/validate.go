package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/veritaslabs/veritas/internal/api"
	"github.com/veritaslabs/veritas/internal/domain"
	"github.com/veritaslabs/veritas/internal/validation"
)

type Validator interface {
	Validate(ctx context.Context, doc validation.Document) domain.ValidationReport
}

type ValidateHandler struct {
	validator Validator
}

func NewValidateHandler(validator Validator) *ValidateHandler {
	return &ValidateHandler{validator: validator}
}

type ValidateSectionRequest struct {
	Heading string `json:"heading"`
	Content string `json:"content"`
}

type ValidateRequest struct {
	Introduction string                   `json:"introduction"`
	Sections     []ValidateSectionRequest `json:"sections"`
	Summary      string                   `json:"summary"`
}

type ValidationIssueResponse struct {
	Type     string `json:"type"`
	Severity string `json:"severity"`
	Claim    string `json:"claim"`
	Section  string `json:"section"`
	Detail   string `json:"detail"`
}

type ValidateResponse struct {
	IsValid           bool                      `json:"is_valid"`
	OverallConfidence float64                   `json:"overall_confidence"`
	Issues            []ValidationIssueResponse `json:"issues"`
	Suggestions       []string                  `json:"suggestions"`
	ClaimsChecked     int                       `json:"claims_checked"`
	ClaimsSkipped     int                       `json:"claims_skipped"`
}

func (h *ValidateHandler) Validate(w http.ResponseWriter, r *http.Request) {
	var req ValidateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Introduction == "" && len(req.Sections) == 0 && req.Summary == "" {
		api.Error(w, http.StatusBadRequest, "document content is required")
		return
	}

	doc := validation.Document{
		Introduction: req.Introduction,
		Summary:      req.Summary,
	}
	for _, s := range req.Sections {
		doc.Sections = append(doc.Sections, validation.Section{
			Heading: s.Heading,
			Content: s.Content,
		})
	}

	report := h.validator.Validate(r.Context(), doc)

	issues := make([]ValidationIssueResponse, len(report.Issues))
	for i, issue := range report.Issues {
		issues[i] = ValidationIssueResponse{
			Type:     issue.Type,
			Severity: string(issue.Severity),
			Claim:    issue.Claim,
			Section:  issue.Section,
			Detail:   issue.Detail,
		}
	}

	api.Success(w, http.StatusOK, ValidateResponse{
		IsValid:           report.IsValid,
		OverallConfidence: report.OverallConfidence,
		Issues:            issues,
		Suggestions:       report.Suggestions,
		ClaimsChecked:     report.ClaimsChecked,
		ClaimsSkipped:     report.ClaimsSkipped,
	})
}
