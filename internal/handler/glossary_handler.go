package handler

import (
	app_errors "lingoflow/internal/errors"
	"lingoflow/internal/response"

	"github.com/gin-gonic/gin"
)

// CreateTermRequest defines the payload for creating a glossary term.
type CreateTermRequest struct {
	Term        string `json:"term" binding:"required"`
	Domain      string `json:"domain"`
	Translation string `json:"translation" binding:"required"`
	Definition  string `json:"definition"`
	Notes       string `json:"notes"`
}

// CreateTerm handles POST /api/glossary.
func (s *Server) CreateTerm(c *gin.Context) {
	var req CreateTermRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, app_errors.NewAPIError(app_errors.ErrInvalidJSON, err.Error()))
		return
	}

	term, err := s.GlossaryService.CreateTerm(c.Request.Context(),
		req.Term, req.Domain, req.Translation, req.Definition, req.Notes)
	if HandleServiceError(c, err) {
		return
	}
	response.SuccessI18n(c, "glossary.created", term)
}

// UpdateTermRequest defines the payload for updating a glossary term.
type UpdateTermRequest struct {
	Translation string `json:"translation" binding:"required"`
	Definition  string `json:"definition"`
	Notes       string `json:"notes"`
}

// UpdateTerm handles PUT /api/glossary/:id.
func (s *Server) UpdateTerm(c *gin.Context) {
	var req UpdateTermRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, app_errors.NewAPIError(app_errors.ErrInvalidJSON, err.Error()))
		return
	}

	term, err := s.GlossaryService.UpdateTerm(c.Request.Context(),
		c.Param("id"), req.Translation, req.Definition, req.Notes)
	if HandleServiceError(c, err) {
		return
	}
	response.SuccessI18n(c, "glossary.updated", term)
}

// DeleteTerm handles DELETE /api/glossary/:id.
func (s *Server) DeleteTerm(c *gin.Context) {
	err := s.GlossaryService.DeleteTerm(c.Request.Context(), c.Param("id"))
	if HandleServiceError(c, err) {
		return
	}
	response.SuccessI18n(c, "glossary.deleted", nil)
}

// ListTerms handles GET /api/glossary.
func (s *Server) ListTerms(c *gin.Context) {
	page, pageSize := response.ParsePageParams(c)
	terms, total, err := s.GlossaryService.ListTerms(c.Request.Context(),
		c.Query("domain"), c.Query("search"), page, pageSize)
	if HandleServiceError(c, err) {
		return
	}
	response.Success(c, response.NewPaginatedResponse(terms, page, pageSize, total))
}

// MatchTermsRequest defines the payload for matching glossary terms against
// a source text.
type MatchTermsRequest struct {
	SourceText string `json:"source_text" binding:"required"`
	Domain     string `json:"domain"`
}

// MatchTerms handles POST /api/glossary/match.
func (s *Server) MatchTerms(c *gin.Context) {
	var req MatchTermsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, app_errors.NewAPIError(app_errors.ErrInvalidJSON, err.Error()))
		return
	}

	hits, err := s.GlossaryService.MatchTerms(c.Request.Context(), req.SourceText, req.Domain)
	if HandleServiceError(c, err) {
		return
	}
	response.Success(c, hits)
}
