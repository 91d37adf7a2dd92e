package handler

import (
	app_errors "lingoflow/internal/errors"
	"lingoflow/internal/response"
	"lingoflow/internal/services"

	"github.com/gin-gonic/gin"
)

// CreateDocumentRequest defines the payload for ingesting a document. The
// segments arrive pre-split in source order.
type CreateDocumentRequest struct {
	Name           string   `json:"name" binding:"required"`
	TargetLanguage string   `json:"target_language"`
	Segments       []string `json:"segments" binding:"required"`
}

// CreateDocument handles POST /api/projects/:id/documents.
func (s *Server) CreateDocument(c *gin.Context) {
	actorID, ok := requireActor(c)
	if !ok {
		return
	}
	var req CreateDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, app_errors.NewAPIError(app_errors.ErrInvalidJSON, err.Error()))
		return
	}

	docs, err := s.DocumentService.Create(c.Request.Context(), actorID, services.DocumentParams{
		ProjectID:      c.Param("id"),
		Name:           req.Name,
		TargetLanguage: req.TargetLanguage,
		Segments:       req.Segments,
	})
	if HandleServiceError(c, err) {
		return
	}
	response.SuccessI18n(c, "document.created", docs)
}

// ListDocuments handles GET /api/projects/:id/documents.
func (s *Server) ListDocuments(c *gin.Context) {
	actorID, ok := requireActor(c)
	if !ok {
		return
	}
	docs, err := s.DocumentService.List(c.Request.Context(), c.Param("id"), actorID)
	if HandleServiceError(c, err) {
		return
	}
	response.Success(c, docs)
}

// GetDocument handles GET /api/documents/:id.
func (s *Server) GetDocument(c *gin.Context) {
	actorID, ok := requireActor(c)
	if !ok {
		return
	}
	doc, err := s.DocumentService.Get(c.Request.Context(), c.Param("id"), actorID)
	if HandleServiceError(c, err) {
		return
	}
	response.Success(c, doc)
}

// AssignTranslatorRequest defines the payload for translator assignment. A
// null translator_id clears the assignment.
type AssignTranslatorRequest struct {
	TranslatorID *string `json:"translator_id"`
}

// AssignTranslator handles PUT /api/documents/:id/translator.
func (s *Server) AssignTranslator(c *gin.Context) {
	actorID, ok := requireActor(c)
	if !ok {
		return
	}
	var req AssignTranslatorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, app_errors.NewAPIError(app_errors.ErrInvalidJSON, err.Error()))
		return
	}

	doc, err := s.DocumentService.AssignTranslator(c.Request.Context(), c.Param("id"), actorID, req.TranslatorID)
	if HandleServiceError(c, err) {
		return
	}
	response.SuccessI18n(c, "document.assigned", doc)
}

// DeleteDocument handles DELETE /api/documents/:id.
func (s *Server) DeleteDocument(c *gin.Context) {
	actorID, ok := requireActor(c)
	if !ok {
		return
	}
	err := s.DocumentService.Delete(c.Request.Context(), c.Param("id"), actorID)
	if HandleServiceError(c, err) {
		return
	}
	response.SuccessI18n(c, "document.deleted", nil)
}
