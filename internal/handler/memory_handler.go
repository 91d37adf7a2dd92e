package handler

import (
	app_errors "lingoflow/internal/errors"
	"lingoflow/internal/response"

	"github.com/gin-gonic/gin"
)

// MemoryLookupRequest defines the payload for a translation memory lookup.
type MemoryLookupRequest struct {
	SourceText     string `json:"source_text" binding:"required"`
	SourceLanguage string `json:"source_language" binding:"required"`
	TargetLanguage string `json:"target_language" binding:"required"`
}

// LookupMemory handles POST /api/memory/lookup.
func (s *Server) LookupMemory(c *gin.Context) {
	var req MemoryLookupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, app_errors.NewAPIError(app_errors.ErrInvalidJSON, err.Error()))
		return
	}

	match, err := s.MemoryService.Lookup(c.Request.Context(), req.SourceText, req.SourceLanguage, req.TargetLanguage)
	if HandleServiceError(c, err) {
		return
	}
	response.Success(c, match)
}

// MemoryRecordRequest defines the payload for recording a translation.
type MemoryRecordRequest struct {
	SourceText     string `json:"source_text" binding:"required"`
	TargetText     string `json:"target_text" binding:"required"`
	SourceLanguage string `json:"source_language" binding:"required"`
	TargetLanguage string `json:"target_language" binding:"required"`
	Reviewed       bool   `json:"reviewed"`
	Supersede      bool   `json:"supersede"`
}

// RecordMemory handles POST /api/memory.
func (s *Server) RecordMemory(c *gin.Context) {
	var req MemoryRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, app_errors.NewAPIError(app_errors.ErrInvalidJSON, err.Error()))
		return
	}

	entry, err := s.MemoryService.Record(c.Request.Context(),
		req.SourceText, req.TargetText, req.SourceLanguage, req.TargetLanguage, req.Reviewed, req.Supersede)
	if HandleServiceError(c, err) {
		return
	}
	response.Success(c, entry)
}

// ListMemory handles GET /api/memory.
func (s *Server) ListMemory(c *gin.Context) {
	page, pageSize := response.ParsePageParams(c)
	entries, total, err := s.MemoryService.List(c.Request.Context(),
		c.Query("source_language"), c.Query("target_language"), page, pageSize)
	if HandleServiceError(c, err) {
		return
	}
	response.Success(c, response.NewPaginatedResponse(entries, page, pageSize, total))
}

// DeleteMemory handles DELETE /api/memory/:id.
func (s *Server) DeleteMemory(c *gin.Context) {
	err := s.MemoryService.Delete(c.Request.Context(), c.Param("id"))
	if HandleServiceError(c, err) {
		return
	}
	response.SuccessI18n(c, "memory.deleted", nil)
}
